// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/triagehub/internal/app/roster"
	groupstore "github.com/dalemusser/triagehub/internal/app/store/groups"
	"github.com/dalemusser/triagehub/internal/app/system/workers"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// State loaded during Startup and consumed by BuildHandler and Shutdown.
// WAFFLE's hooks share state through the package, so these live here.
var (
	clinicianRoster []models.Clinician
	integrityScan   *workers.IntegrityScan
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. TriageHub
// loads and validates the clinician roster here and starts the background
// integrity scan.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	clinicians := roster.Default()
	if appCfg.RosterPath != "" {
		loaded, err := roster.Load(appCfg.RosterPath)
		if err != nil {
			return fmt.Errorf("load clinician roster: %w", err)
		}
		clinicians = loaded
	}
	if err := roster.Validate(clinicians); err != nil {
		return fmt.Errorf("invalid clinician roster: %w", err)
	}
	clinicianRoster = clinicians
	logger.Info("clinician roster loaded", zap.Int("clinicians", len(clinicians)))

	integrityScan = workers.NewIntegrityScan(
		groupstore.New(deps.TriageHubMongoDatabase), logger, appCfg.IntegrityScanInterval)
	integrityScan.Start()

	return nil
}
