package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pnsgg/SmashRecap/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	DBURL        string
	CacheBackend string
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	BetterStackEnabled  bool
	BetterStackEndpoint string
	BetterStackToken    string
	BetterStackTimeout  time.Duration
	BetterStackMinLevel logging.Level

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	StartggBaseURL               string
	StartggToken                 string
	StartggVideogameID           int64
	StartggTimeout               time.Duration
	StartggMaxRetries            int
	StartggCircuitEnabled        bool
	StartggCircuitFailureCount   int
	StartggCircuitOpenTimeout    time.Duration
	StartggCircuitHalfOpenMaxReq int

	RecapFetchConcurrency int

	FeaturedPlayerIDs []int64
	FeaturedYear      int
	FeaturedPoolSize  int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cacheBackend := strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendMemory)))
	switch cacheBackend {
	case CacheBackendMemory, CacheBackendPostgres:
	default:
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s", cacheBackend, CacheBackendMemory, CacheBackendPostgres)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if cacheBackend == CacheBackendPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when CACHE_BACKEND=postgres")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
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

	startggToken := strings.TrimSpace(getEnv("STARTGG_TOKEN", ""))
	if startggToken == "" {
		return Config{}, fmt.Errorf("STARTGG_TOKEN is required")
	}
	startggTimeout, err := time.ParseDuration(getEnv("STARTGG_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_TIMEOUT: %w", err)
	}
	if startggTimeout <= 0 {
		return Config{}, fmt.Errorf("STARTGG_TIMEOUT must be > 0")
	}
	startggMaxRetries, err := getEnvAsInt("STARTGG_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_MAX_RETRIES: %w", err)
	}
	if startggMaxRetries < 0 {
		return Config{}, fmt.Errorf("STARTGG_MAX_RETRIES must be >= 0")
	}
	startggVideogameID, err := getEnvAsInt64("STARTGG_VIDEOGAME_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_VIDEOGAME_ID: %w", err)
	}
	if startggVideogameID < 0 {
		return Config{}, fmt.Errorf("STARTGG_VIDEOGAME_ID must be >= 0")
	}
	startggCircuitEnabled, err := strconv.ParseBool(getEnv("STARTGG_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_ENABLED: %w", err)
	}
	startggCircuitFailureCount, err := getEnvAsInt("STARTGG_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if startggCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STARTGG_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	startggCircuitOpenTimeout, err := time.ParseDuration(getEnv("STARTGG_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if startggCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STARTGG_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	startggCircuitHalfOpenMaxReq, err := getEnvAsInt("STARTGG_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if startggCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STARTGG_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	recapFetchConcurrency, err := getEnvAsInt("RECAP_FETCH_CONCURRENCY", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECAP_FETCH_CONCURRENCY: %w", err)
	}
	if recapFetchConcurrency < 1 {
		return Config{}, fmt.Errorf("RECAP_FETCH_CONCURRENCY must be >= 1")
	}

	featuredPlayerIDs, err := parseIDList(getEnv("FEATURED_PLAYER_IDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEATURED_PLAYER_IDS: %w", err)
	}
	featuredYear, err := getEnvAsInt("FEATURED_YEAR", time.Now().UTC().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse FEATURED_YEAR: %w", err)
	}
	featuredPoolSize, err := getEnvAsInt("FEATURED_POOL_SIZE", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEATURED_POOL_SIZE: %w", err)
	}
	if featuredPoolSize < 1 {
		return Config{}, fmt.Errorf("FEATURED_POOL_SIZE must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "smashrecap-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        dbURL,
		CacheBackend:                 cacheBackend,
		CacheTTL:                     cacheTTL,
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                  readTimeout,
		WriteTimeout:                 writeTimeout,
		PprofEnabled:                 pprofEnabled,
		PprofAddr:                    pprofAddr,
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		UptraceLogsEnabled:           uptraceLogsEnabled,
		BetterStackEnabled:           betterStackEnabled,
		BetterStackEndpoint:          betterStackEndpoint,
		BetterStackToken:             strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:           betterStackTimeout,
		BetterStackMinLevel:          parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "warn")),
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
		StartggBaseURL:               strings.TrimSpace(getEnv("STARTGG_BASE_URL", "https://api.start.gg/gql/alpha")),
		StartggToken:                 startggToken,
		StartggVideogameID:           startggVideogameID,
		StartggTimeout:               startggTimeout,
		StartggMaxRetries:            startggMaxRetries,
		StartggCircuitEnabled:        startggCircuitEnabled,
		StartggCircuitFailureCount:   startggCircuitFailureCount,
		StartggCircuitOpenTimeout:    startggCircuitOpenTimeout,
		StartggCircuitHalfOpenMaxReq: startggCircuitHalfOpenMaxReq,
		RecapFetchConcurrency:        recapFetchConcurrency,
		FeaturedPlayerIDs:            featuredPlayerIDs,
		FeaturedYear:                 featuredYear,
		FeaturedPoolSize:             featuredPoolSize,
		LogLevel:                     parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
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

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
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

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseInt(value, 10, 64)
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

func parseIDList(raw string) ([]int64, error) {
	parts := splitCSV(raw)
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %q", part)
		}
		out = append(out, value)
	}
	return out, nil
}
