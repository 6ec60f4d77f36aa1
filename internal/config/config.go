package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtvision/courtvision/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	DebugRoutesEnabled bool
	InternalJobToken   string

	DBURL string

	CacheEnabled  bool
	CacheTTLToday time.Duration
	CacheTTLPast  time.Duration

	ESPNBaseURL               string
	ESPNTimeout               time.Duration
	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int
	ESPNCircuitOpenTimeout    time.Duration
	ESPNCircuitHalfOpenMaxReq int

	KenPomBaseURL               string
	KenPomAPIKey                string
	KenPomTimeout               time.Duration
	KenPomCircuitEnabled        bool
	KenPomCircuitFailureCount   int
	KenPomCircuitOpenTimeout    time.Duration
	KenPomCircuitHalfOpenMaxReq int

	WarmMaxWorkers int

	PprofEnabled           bool
	PprofAddr              string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	UptraceEnabled         bool
	UptraceDSN             string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	debugRoutesEnabled, err := strconv.ParseBool(getEnv("DEBUG_ROUTES_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DEBUG_ROUTES_ENABLED: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTLToday, err := time.ParseDuration(getEnv("CACHE_TTL_TODAY", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL_TODAY: %w", err)
	}
	if cacheTTLToday <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_TODAY must be > 0")
	}
	cacheTTLPast, err := time.ParseDuration(getEnv("CACHE_TTL_PAST", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL_PAST: %w", err)
	}
	if cacheTTLPast <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_PAST must be > 0")
	}

	espnTimeout, err := time.ParseDuration(getEnv("ESPN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	espnCircuitEnabled, err := strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	espnCircuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	espnCircuitOpenTimeout, err := time.ParseDuration(getEnv("ESPN_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	espnCircuitHalfOpenMaxReq, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	kenPomAPIKey := strings.TrimSpace(getEnv("KENPOM_API_KEY", ""))
	if kenPomAPIKey == "" {
		return Config{}, fmt.Errorf("KENPOM_API_KEY is required")
	}
	kenPomTimeout, err := time.ParseDuration(getEnv("KENPOM_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KENPOM_TIMEOUT: %w", err)
	}
	kenPomCircuitEnabled, err := strconv.ParseBool(getEnv("KENPOM_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KENPOM_CIRCUIT_ENABLED: %w", err)
	}
	kenPomCircuitFailureCount, err := getEnvAsInt("KENPOM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse KENPOM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	kenPomCircuitOpenTimeout, err := time.ParseDuration(getEnv("KENPOM_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse KENPOM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	kenPomCircuitHalfOpenMaxReq, err := getEnvAsInt("KENPOM_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse KENPOM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	warmMaxWorkers, err := getEnvAsInt("WARM_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WARM_MAX_WORKERS: %w", err)
	}
	if warmMaxWorkers <= 0 {
		return Config{}, fmt.Errorf("WARM_MAX_WORKERS must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	serviceName := strings.TrimSpace(getEnv("APP_SERVICE_NAME", "courtvision-api"))

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DebugRoutesEnabled: debugRoutesEnabled,
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		CacheEnabled:  cacheEnabled,
		CacheTTLToday: cacheTTLToday,
		CacheTTLPast:  cacheTTLPast,

		ESPNBaseURL:               strings.TrimSpace(getEnv("ESPN_BASE_URL", "")),
		ESPNTimeout:               espnTimeout,
		ESPNCircuitEnabled:        espnCircuitEnabled,
		ESPNCircuitFailureCount:   espnCircuitFailureCount,
		ESPNCircuitOpenTimeout:    espnCircuitOpenTimeout,
		ESPNCircuitHalfOpenMaxReq: espnCircuitHalfOpenMaxReq,

		KenPomBaseURL:               strings.TrimSpace(getEnv("KENPOM_BASE_URL", "")),
		KenPomAPIKey:                kenPomAPIKey,
		KenPomTimeout:               kenPomTimeout,
		KenPomCircuitEnabled:        kenPomCircuitEnabled,
		KenPomCircuitFailureCount:   kenPomCircuitFailureCount,
		KenPomCircuitOpenTimeout:    kenPomCircuitOpenTimeout,
		KenPomCircuitHalfOpenMaxReq: kenPomCircuitHalfOpenMaxReq,

		WarmMaxWorkers: warmMaxWorkers,

		PprofEnabled:           pprofEnabled,
		PprofAddr:              pprofAddr,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
