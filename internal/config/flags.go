package config

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// Flags holds all command line flag values
type Flags struct {
	// General
	configFile *string
	version    *bool

	// Server
	serverPort *int
	serverHost *string

	// Database
	dbType             *string
	dbSQLitePath       *string
	dbPostgresHost     *string
	dbPostgresPort     *int
	dbPostgresDatabase *string
	dbPostgresUser     *string
	dbPostgresPassword *string

	// JWT
	jwtSecret     *string
	jwtExpiration *string

	// Platform
	metadataBaseURI    *string
	reissueAfterRevoke *bool

	// Logging
	logLevel  *string
	logFormat *string
}

// ParseFlags defines and parses all command line flags
func ParseFlags() (*Flags, string, bool) {
	f := &Flags{}

	// General flags
	f.configFile = flag.StringP("config", "c", "config.yaml", "Path to configuration file")
	f.version = flag.BoolP("version", "v", false, "Print version and exit")

	// Server flags
	f.serverPort = flag.Int("server.port", 0, "HTTP server port")
	f.serverHost = flag.String("server.host", "", "HTTP server bind address")

	// Database flags
	f.dbType = flag.String("db.type", "", "Database type (sqlite or postgres)")
	f.dbSQLitePath = flag.String("db.sqlite.path", "", "SQLite database file path")
	f.dbPostgresHost = flag.String("db.postgres.host", "", "PostgreSQL host")
	f.dbPostgresPort = flag.Int("db.postgres.port", 0, "PostgreSQL port")
	f.dbPostgresDatabase = flag.String("db.postgres.database", "", "PostgreSQL database name")
	f.dbPostgresUser = flag.String("db.postgres.user", "", "PostgreSQL user")
	f.dbPostgresPassword = flag.String("db.postgres.password", "", "PostgreSQL password")

	// JWT flags
	f.jwtSecret = flag.String("jwt.secret", "", "JWT secret key")
	f.jwtExpiration = flag.String("jwt.expiration", "", "JWT expiration duration (e.g., 24h)")

	// Platform flags
	f.metadataBaseURI = flag.String("platform.metadata-base-uri", "", "Base URI for certificate metadata")
	f.reissueAfterRevoke = flag.Bool("platform.reissue-after-revoke", false, "Allow certificate re-issuance after revocation")

	// Logging flags
	f.logLevel = flag.StringP("log.level", "l", "", "Log level (debug, info, warn, error)")
	f.logFormat = flag.String("log.format", "", "Log format (json or console)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "EduCert - an educational credential platform\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfiguration priority (highest to lowest):\n")
		fmt.Fprintf(os.Stderr, "  1. Command line flags\n")
		fmt.Fprintf(os.Stderr, "  2. Environment variables (EDUCERT_*)\n")
		fmt.Fprintf(os.Stderr, "  3. Configuration file (default: config.yaml)\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  # Start with custom config file\n")
		fmt.Fprintf(os.Stderr, "  %s --config /etc/educert/config.yaml\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Override port and database type\n")
		fmt.Fprintf(os.Stderr, "  %s --server.port 9000 --db.type postgres\n\n", os.Args[0])
	}

	flag.Parse()

	return f, *f.configFile, *f.version
}

// Apply overrides config values with any flags that were explicitly set
func (f *Flags) Apply(cfg *Config) {
	if changed("server.port") {
		cfg.Server.Port = *f.serverPort
	}
	if changed("server.host") {
		cfg.Server.Host = *f.serverHost
	}

	if changed("db.type") {
		cfg.Database.Type = *f.dbType
	}
	if changed("db.sqlite.path") {
		cfg.Database.SQLite.Path = *f.dbSQLitePath
	}
	if changed("db.postgres.host") {
		cfg.Database.Postgres.Host = *f.dbPostgresHost
	}
	if changed("db.postgres.port") {
		cfg.Database.Postgres.Port = *f.dbPostgresPort
	}
	if changed("db.postgres.database") {
		cfg.Database.Postgres.Database = *f.dbPostgresDatabase
	}
	if changed("db.postgres.user") {
		cfg.Database.Postgres.User = *f.dbPostgresUser
	}
	if changed("db.postgres.password") {
		cfg.Database.Postgres.Password = *f.dbPostgresPassword
	}

	if changed("jwt.secret") {
		cfg.JWT.Secret = *f.jwtSecret
	}
	if changed("jwt.expiration") {
		if d, err := time.ParseDuration(*f.jwtExpiration); err == nil {
			cfg.JWT.Expiration = d
		}
	}

	if changed("platform.metadata-base-uri") {
		cfg.Platform.MetadataBaseURI = *f.metadataBaseURI
	}
	if changed("platform.reissue-after-revoke") {
		cfg.Platform.ReissueAfterRevoke = *f.reissueAfterRevoke
	}

	if changed("log.level") {
		cfg.Logging.Level = *f.logLevel
	}
	if changed("log.format") {
		cfg.Logging.Format = *f.logFormat
	}
}

func changed(name string) bool {
	fl := flag.Lookup(name)
	return fl != nil && fl.Changed
}
