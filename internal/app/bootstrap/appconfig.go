// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings like HTTP ports, TLS, logging, and CORS;
// AppConfig is everything specific to TriageHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Clinician roster configuration
	RosterPath string // Path to the clinician roster JSON file (blank uses the built-in sample roster)

	// Admission tuning. Zero values fall back to the engine defaults.
	AdmissionWindow time.Duration // How far ahead an open group is still joinable
	ScheduleOffset  time.Duration // How far in the future a new group is scheduled
	GroupCapacity   int           // Max patients per consultation group

	// Intake protection
	IntakeRateLimit int // Max intake posts per client IP per minute (0 disables)

	// Background maintenance
	IntegrityScanInterval time.Duration // How often the over-capacity scan runs
}
