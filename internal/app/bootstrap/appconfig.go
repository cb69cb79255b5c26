// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Framework-level settings such
// as ports, TLS, logging and CORS live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration (the recycling platform's database)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie issued by the platform's sign-in flow
	SessionKey    string        // Secret key for verifying session cookies
	SessionName   string        // Cookie name (default: recycle-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// LoginURL is where signed-out visitors are sent to sign in.
	LoginURL string

	// List screens
	ConsoleTTL time.Duration // idle lifetime of a browser session's list state
	PageSize   int           // rows per page on list screens

	// Mutation submissions per user per window; 0 disables the limit.
	MutationLimit  int
	MutationWindow time.Duration

	// Audit logging: "all" (db+log), "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
