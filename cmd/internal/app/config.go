package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// If true, /readyz returns 503 until the database is reachable.
	ReadinessRequireDB bool

	// If true, both token signing keys must be at least 32 bytes at startup.
	RequireStrongKeys bool

	GeminiAPIKey string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("LEADBOARD_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("LEADBOARD_LOG_LEVEL", "info"),
		LogFormat: EnvString("LEADBOARD_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("LEADBOARD_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("LEADBOARD_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("LEADBOARD_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("LEADBOARD_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("LEADBOARD_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("LEADBOARD_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("LEADBOARD_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("LEADBOARD_DB_MIN_CONNS", 0),

		CORSAllowedOrigins:   EnvStringSlice("LEADBOARD_CORS_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("LEADBOARD_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("LEADBOARD_CORS_MAX_AGE_SECONDS", 600),

		ReadinessRequireDB: EnvBool("LEADBOARD_READINESS_REQUIRE_DB", true),

		RequireStrongKeys: EnvBool("LEADBOARD_REQUIRE_STRONG_KEYS", false),

		GeminiAPIKey: EnvString("GEMINI_API_KEY", ""),
	}
}
