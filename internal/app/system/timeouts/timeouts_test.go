package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigureAndReset(t *testing.T) {
	defer Reset()

	Configure(Config{Ping: time.Second, Medium: 20 * time.Second})

	if Ping() != time.Second {
		t.Errorf("ping: got %s, want 1s", Ping())
	}
	if Medium() != 20*time.Second {
		t.Errorf("medium: got %s, want 20s", Medium())
	}
	// Zero values keep the defaults.
	if Short() != DefaultShort {
		t.Errorf("short: got %s, want default %s", Short(), DefaultShort)
	}
	if Long() != DefaultLong {
		t.Errorf("long: got %s, want default %s", Long(), DefaultLong)
	}

	Reset()
	if Ping() != DefaultPing || Medium() != DefaultMedium {
		t.Error("Reset did not restore defaults")
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 50*time.Millisecond, zap.NewNop(), "test op")
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context done before deadline")
	default:
	}

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", ctx.Err())
	}
}
