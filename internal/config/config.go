// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage backend selection, sign-in and dashboard settings, rate
// limiting and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on minimal images
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "forge-site")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Storage backends for reviews and orders.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Identity providers for sign-in.
const (
	ProviderGoogle = "google"
	ProviderStatic = "static"
)

// FirestoreConfig selects the Firestore project used when STORE_BACKEND is
// "firestore". An empty CredentialsFile means application default credentials.
type FirestoreConfig struct {
	ProjectID       string // FIRESTORE_PROJECT_ID
	CredentialsFile string // FIRESTORE_CREDENTIALS_FILE
}

// AuthConfig defines the sign-in provider and session cookie.
type AuthConfig struct {
	Provider      string        // AUTH_PROVIDER: google|static
	ClientID      string        // GOOGLE_CLIENT_ID
	ClientSecret  string        // GOOGLE_CLIENT_SECRET
	RedirectURL   string        // GOOGLE_REDIRECT_URL
	CookieName    string        // SESSION_COOKIE
	SessionTTL    time.Duration // SESSION_TTL
	CookieSecure  bool          // COOKIE_SECURE
	SignInTimeout time.Duration // SIGNIN_TIMEOUT
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogRedact      bool   // scrub PII and OAuth secrets from access logs
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	StoreBackend string // sqlite|firestore (reviews and orders)
	DBPath       string // SQLite path; sessions and idempotency always live here
	Firestore    FirestoreConfig

	// Sign-in
	Auth AuthConfig

	// Dashboard / content
	DashboardToken  string         // empty disables the dashboard
	DisplayTimezone string         // IANA zone for receipt dates
	Location        *time.Location // resolved DisplayTimezone
	ReviewsLimit    int            // default review page size

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		LogRedact:      getbool("LOG_REDACT", true),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Storage
		StoreBackend: strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND", BackendSQLite))),
		DBPath:       getenv("DB_PATH", "app.db"),
		Firestore: FirestoreConfig{
			ProjectID:       getenv("FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: getenv("FIRESTORE_CREDENTIALS_FILE", ""),
		},

		// Sign-in
		Auth: AuthConfig{
			Provider:      strings.ToLower(strings.TrimSpace(getenv("AUTH_PROVIDER", ProviderGoogle))),
			ClientID:      getenv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:  getenv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:   getenv("GOOGLE_REDIRECT_URL", ""),
			CookieName:    getenv("SESSION_COOKIE", "forge_session"),
			SessionTTL:    getdur("SESSION_TTL", 30*24*time.Hour),
			CookieSecure:  getbool("COOKIE_SECURE", false),
			SignInTimeout: getdur("SIGNIN_TIMEOUT", 5*time.Minute),
		},

		// Dashboard / content
		DashboardToken:  getenv("DASHBOARD_TOKEN", ""),
		DisplayTimezone: getenv("DISPLAY_TIMEZONE", "America/Sao_Paulo"),
		ReviewsLimit:    getint("REVIEWS_LIMIT", 20),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "forge-site"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	switch cfg.StoreBackend {
	case BackendSQLite:
	case BackendFirestore:
		if strings.TrimSpace(cfg.Firestore.ProjectID) == "" {
			return cfg, errors.New("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=firestore")
		}
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: sqlite, firestore")
	}
	switch cfg.Auth.Provider {
	case ProviderStatic:
	case ProviderGoogle:
		if cfg.Auth.ClientID == "" || cfg.Auth.ClientSecret == "" || cfg.Auth.RedirectURL == "" {
			return cfg, errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL are required when AUTH_PROVIDER=google")
		}
	default:
		return cfg, errors.New("AUTH_PROVIDER must be one of: google, static")
	}
	if strings.TrimSpace(cfg.Auth.CookieName) == "" {
		return cfg, errors.New("SESSION_COOKIE must not be empty")
	}
	if cfg.Auth.SessionTTL <= 0 || cfg.Auth.SignInTimeout <= 0 {
		return cfg, errors.New("SESSION_TTL and SIGNIN_TIMEOUT must be positive durations")
	}
	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return cfg, fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}
	cfg.Location = loc
	if cfg.ReviewsLimit < 1 || cfg.ReviewsLimit > 100 {
		return cfg, errors.New("REVIEWS_LIMIT must be between 1 and 100")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
