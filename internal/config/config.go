package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	CORSAllowedOrigins          []string
	LeagueDataFile              string
	AdminCode                   string
	StrictValidation            bool
	GitHubAPIBaseURL            string
	GitHubRawBaseURL            string
	GitHubToken                 string
	GitHubOwner                 string
	GitHubRepo                  string
	GitHubPath                  string
	GitHubBranch                string
	GitHubTimeout               time.Duration
	GitHubMaxRetries            int
	GitHubCircuitEnabled        bool
	GitHubCircuitFailureCount   int
	GitHubCircuitOpenTimeout    time.Duration
	GitHubCircuitHalfOpenMaxReq int
	PprofEnabled                bool
	PprofAddr                   string
	UptraceEnabled              bool
	UptraceDSN                  string
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeUploadRate         time.Duration
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	strictValidation, err := strconv.ParseBool(getEnv("STRICT_VALIDATION", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STRICT_VALIDATION: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	githubTimeout, err := time.ParseDuration(getEnv("GITHUB_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_TIMEOUT: %w", err)
	}
	if githubTimeout <= 0 {
		return Config{}, fmt.Errorf("GITHUB_TIMEOUT must be > 0")
	}
	githubMaxRetries, err := getEnvAsInt("GITHUB_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_MAX_RETRIES: %w", err)
	}
	if githubMaxRetries < 0 {
		return Config{}, fmt.Errorf("GITHUB_MAX_RETRIES must be >= 0")
	}
	githubCircuitEnabled, err := strconv.ParseBool(getEnv("GITHUB_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_CIRCUIT_ENABLED: %w", err)
	}
	githubCircuitFailureCount, err := getEnvAsInt("GITHUB_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if githubCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("GITHUB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	githubCircuitOpenTimeout, err := time.ParseDuration(getEnv("GITHUB_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if githubCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("GITHUB_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	githubCircuitHalfOpenMaxReq, err := getEnvAsInt("GITHUB_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse GITHUB_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if githubCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("GITHUB_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
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

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "atlantis-league-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                 readTimeout,
		WriteTimeout:                writeTimeout,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LeagueDataFile:              getEnv("LEAGUE_DATA_FILE", "data/league.json"),
		AdminCode:                   strings.TrimSpace(getEnv("ADMIN_CODE", "2604")),
		StrictValidation:            strictValidation,
		GitHubAPIBaseURL:            strings.TrimSpace(getEnv("GITHUB_API_BASE_URL", "https://api.github.com")),
		GitHubRawBaseURL:            strings.TrimSpace(getEnv("GITHUB_RAW_BASE_URL", "https://raw.githubusercontent.com")),
		GitHubToken:                 strings.TrimSpace(getEnv("GITHUB_TOKEN", "")),
		GitHubOwner:                 strings.TrimSpace(getEnv("GITHUB_OWNER", "kacemyassine")),
		GitHubRepo:                  strings.TrimSpace(getEnv("GITHUB_REPO", "atlantis-showdown")),
		GitHubPath:                  strings.TrimSpace(getEnv("GITHUB_PATH", "src/data/defaultLeagueData.json")),
		GitHubBranch:                strings.TrimSpace(getEnv("GITHUB_BRANCH", "main")),
		GitHubTimeout:               githubTimeout,
		GitHubMaxRetries:            githubMaxRetries,
		GitHubCircuitEnabled:        githubCircuitEnabled,
		GitHubCircuitFailureCount:   githubCircuitFailureCount,
		GitHubCircuitOpenTimeout:    githubCircuitOpenTimeout,
		GitHubCircuitHalfOpenMaxReq: githubCircuitHalfOpenMaxReq,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		LogLevel:                    parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if strings.TrimSpace(cfg.LeagueDataFile) == "" {
		return Config{}, fmt.Errorf("LEAGUE_DATA_FILE cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.GitHubOwner == "" || cfg.GitHubRepo == "" || cfg.GitHubPath == "" {
		return Config{}, fmt.Errorf("GITHUB_OWNER, GITHUB_REPO and GITHUB_PATH cannot be empty")
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
