// internal/app/system/workers/integrityscan.go
package workers

import (
	"context"
	"sync"
	"time"

	groupstore "github.com/dalemusser/triagehub/internal/app/store/groups"
	"go.uber.org/zap"
)

// IntegrityScan is a background worker that periodically looks for groups
// whose member count exceeds their capacity, the signature of a missed
// admission race. Violations are logged as data-integrity warnings; the
// admission engine already excludes such groups, so no repair is attempted.
type IntegrityScan struct {
	groups   *groupstore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewIntegrityScan creates the worker. interval controls how often the scan
// runs (e.g. one minute).
func NewIntegrityScan(groups *groupstore.Store, logger *zap.Logger, interval time.Duration) *IntegrityScan {
	return &IntegrityScan{
		groups:   groups,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background scan loop.
func (w *IntegrityScan) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("capacity integrity scanner started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *IntegrityScan) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("capacity integrity scanner stopped")
}

func (w *IntegrityScan) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *IntegrityScan) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	groups, err := w.groups.FindOverCapacity(ctx)
	if err != nil {
		w.log.Error("capacity integrity scan failed", zap.Error(err))
		return
	}

	for _, g := range groups {
		w.log.Warn("group member count exceeds capacity",
			zap.String("group_id", g.ID),
			zap.String("category", string(g.Category)),
			zap.Int("member_count", g.MemberCount),
			zap.Int("max_capacity", g.MaxCapacity))
	}
}
