// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TriageHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, roster_path, etc.
//   - Environment variables: TRIAGEHUB_MONGO_URI, TRIAGEHUB_ROSTER_PATH, etc.
//   - Command-line flags: --mongo_uri, --roster_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "triage_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Clinician roster
	{Name: "roster_path", Default: "", Desc: "Path to clinician roster JSON (blank uses the built-in sample roster)"},

	// Admission tuning (blank/zero uses the engine defaults)
	{Name: "admission_window", Default: "2m", Desc: "How far ahead an open group is still joinable (e.g., 2m, 90s)"},
	{Name: "schedule_offset", Default: "60s", Desc: "How far in the future a new group is scheduled (e.g., 60s)"},
	{Name: "group_capacity", Default: 8, Desc: "Max patients per consultation group"},

	// Intake protection
	{Name: "intake_rate_limit", Default: 30, Desc: "Max intake posts per client IP per minute (0 disables)"},

	// Background maintenance
	{Name: "integrity_scan_interval", Default: "5m", Desc: "Interval between over-capacity integrity scans"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TRIAGEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TRIAGEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RosterPath: appValues.String("roster_path"),

		AdmissionWindow: appValues.Duration("admission_window", 2*time.Minute),
		ScheduleOffset:  appValues.Duration("schedule_offset", 60*time.Second),
		GroupCapacity:   appValues.Int("group_capacity"),

		IntakeRateLimit: appValues.Int("intake_rate_limit"),

		IntegrityScanInterval: appValues.Duration("integrity_scan_interval", 5*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// TriageHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects admission
// tuning values that would make every admission fail.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AdmissionWindow < 0 {
		return fmt.Errorf("admission_window must not be negative, got %s", appCfg.AdmissionWindow)
	}
	if appCfg.ScheduleOffset < 0 {
		return fmt.Errorf("schedule_offset must not be negative, got %s", appCfg.ScheduleOffset)
	}
	if appCfg.GroupCapacity < 0 {
		return fmt.Errorf("group_capacity must not be negative, got %d", appCfg.GroupCapacity)
	}
	if appCfg.ScheduleOffset > appCfg.AdmissionWindow && appCfg.AdmissionWindow > 0 {
		// A group scheduled past the window could never be joined, even by
		// the admission that created it.
		return fmt.Errorf("schedule_offset (%s) must not exceed admission_window (%s)",
			appCfg.ScheduleOffset, appCfg.AdmissionWindow)
	}

	return nil
}
