package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProductWritePolicyAuthenticated = "authenticated"
	ProductWritePolicyRoles         = "roles"
	ProductWritePolicyOwner         = "owner"
)

type Config struct {
	Env      string
	HTTPPort string
	HostAPI  string

	DatabaseURL string

	JWTIssuer          string
	JWTAudience        string
	JWTSecret          string
	JWTAccessTTL       time.Duration
	CORSAllowedOrigins []string

	AuthRateLimitPerMin   int
	APIRateLimitPerMin    int
	RateLimitRedisEnabled bool
	RateLimitRedisPrefix  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogCacheEnabled      bool
	CatalogCacheRedisEnabled bool
	CatalogCacheTTL          time.Duration
	CatalogCacheRedisPrefix  string

	ProductWritePolicy string
	ProductWriteRoles  []string

	StorageEnabled    bool
	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOBucket       string
	MinIOUseSSL       bool
	ProductImageMaxMB int

	SeedUserEmail    string
	SeedUserPassword string

	ReadinessCheckTimeout        time.Duration
	ServerStartGracePeriod       time.Duration
	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsExportInterval time.Duration
	OTELTraceSamplingRatio    float64
	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELLogLevel              string
}

func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")
	port := getEnv("HTTP_PORT", "8080")

	cfg := &Config{
		Env:                   env,
		HTTPPort:              port,
		HostAPI:               strings.TrimRight(getEnv("HOST_API", "http://localhost:"+port+"/api/v1"), "/"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTIssuer:             getEnv("JWT_ISSUER", "catalog-service"),
		JWTAudience:           getEnv("JWT_AUDIENCE", "catalog-service-api"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins:    splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		AuthRateLimitPerMin:   getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
		APIRateLimitPerMin:    getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
		RateLimitRedisEnabled: getEnvBool("RATE_LIMIT_REDIS_ENABLED", false),
		RateLimitRedisPrefix:  getEnv("RATE_LIMIT_REDIS_PREFIX", "rl"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CatalogCacheEnabled:      getEnvBool("CATALOG_CACHE_ENABLED", true),
		CatalogCacheRedisEnabled: getEnvBool("CATALOG_CACHE_REDIS_ENABLED", false),
		CatalogCacheRedisPrefix:  getEnv("CATALOG_CACHE_REDIS_PREFIX", "catalog_cache"),

		ProductWritePolicy: strings.ToLower(getEnv("PRODUCT_WRITE_POLICY", ProductWritePolicyOwner)),
		ProductWriteRoles:  splitCSV(getEnv("PRODUCT_WRITE_ROLES", "admin")),

		StorageEnabled:    getEnvBool("STORAGE_ENABLED", false),
		MinIOEndpoint:     getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:    os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey:    os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:       getEnv("MINIO_BUCKET", "product-images"),
		MinIOUseSSL:       getEnvBool("MINIO_USE_SSL", false),
		ProductImageMaxMB: getEnvInt("PRODUCT_IMAGE_MAX_MB", 5),

		SeedUserEmail:    strings.TrimSpace(strings.ToLower(getEnv("SEED_USER_EMAIL", "test1@google.com"))),
		SeedUserPassword: getEnv("SEED_USER_PASSWORD", "Abc123"),

		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "catalog-service"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", env),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
		OTELMetricsEnabled:       getEnvBool("OTEL_METRICS_ENABLED", true),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", true),
		OTELLogsEnabled:          getEnvBool("OTEL_LOGS_ENABLED", true),
		OTELLogLevel:             strings.ToLower(getEnv("OTEL_LOG_LEVEL", "info")),
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"JWT_ACCESS_TTL", "2h", &cfg.JWTAccessTTL},
		{"CATALOG_CACHE_TTL", "30s", &cfg.CatalogCacheTTL},
		{"READINESS_CHECK_TIMEOUT", "1s", &cfg.ReadinessCheckTimeout},
		{"SERVER_START_GRACE_PERIOD", "2s", &cfg.ServerStartGracePeriod},
		{"SHUTDOWN_TIMEOUT", "20s", &cfg.ShutdownTimeout},
		{"SHUTDOWN_HTTP_DRAIN_TIMEOUT", "10s", &cfg.ShutdownHTTPDrainTimeout},
		{"SHUTDOWN_OBSERVABILITY_TIMEOUT", "8s", &cfg.ShutdownObservabilityTimeout},
		{"OTEL_METRICS_EXPORT_INTERVAL", "10s", &cfg.OTELMetricsExportInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.JWTAccessTTL <= 0 || c.JWTAccessTTL > 24*time.Hour {
		errs = append(errs, "JWT_ACCESS_TTL must be between 1s and 24h")
	}
	if c.AuthRateLimitPerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if (c.RateLimitRedisEnabled || c.CatalogCacheRedisEnabled) && c.RedisAddr == "" {
		errs = append(errs, "REDIS_ADDR is required when a redis-backed feature is enabled")
	}
	if c.CatalogCacheEnabled && c.CatalogCacheTTL <= 0 {
		errs = append(errs, "CATALOG_CACHE_TTL must be > 0 when CATALOG_CACHE_ENABLED=true")
	}
	switch c.ProductWritePolicy {
	case ProductWritePolicyAuthenticated, ProductWritePolicyOwner:
	case ProductWritePolicyRoles:
		if len(c.ProductWriteRoles) == 0 {
			errs = append(errs, "PRODUCT_WRITE_ROLES is required when PRODUCT_WRITE_POLICY=roles")
		}
	default:
		errs = append(errs, "PRODUCT_WRITE_POLICY must be one of authenticated, roles, owner")
	}
	if c.StorageEnabled {
		if c.MinIOEndpoint == "" || c.MinIOAccessKey == "" || c.MinIOSecretKey == "" || c.MinIOBucket == "" {
			errs = append(errs, "MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET are required when STORAGE_ENABLED=true")
		}
		if c.ProductImageMaxMB <= 0 {
			errs = append(errs, "PRODUCT_IMAGE_MAX_MB must be > 0")
		}
	}
	if c.ReadinessCheckTimeout <= 0 {
		errs = append(errs, "READINESS_CHECK_TIMEOUT must be > 0")
	}
	if c.ServerStartGracePeriod < 0 {
		errs = append(errs, "SERVER_START_GRACE_PERIOD must be >= 0")
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be > 0")
	}
	if c.ShutdownHTTPDrainTimeout <= 0 || c.ShutdownHTTPDrainTimeout > c.ShutdownTimeout {
		errs = append(errs, "SHUTDOWN_HTTP_DRAIN_TIMEOUT must be > 0 and <= SHUTDOWN_TIMEOUT")
	}
	if c.ShutdownObservabilityTimeout <= 0 || c.ShutdownObservabilityTimeout > c.ShutdownTimeout {
		errs = append(errs, "SHUTDOWN_OBSERVABILITY_TIMEOUT must be > 0 and <= SHUTDOWN_TIMEOUT")
	}
	if (c.OTELMetricsEnabled || c.OTELTracingEnabled || c.OTELLogsEnabled) && c.OTELExporterOTLPEndpoint == "" {
		errs = append(errs, "OTEL_EXPORTER_OTLP_ENDPOINT is required when OTel is enabled")
	}
	if c.OTELTraceSamplingRatio < 0 || c.OTELTraceSamplingRatio > 1 {
		errs = append(errs, "OTEL_TRACE_SAMPLING_RATIO must be between 0 and 1")
	}
	if c.OTELMetricsExportInterval <= 0 {
		errs = append(errs, "OTEL_METRICS_EXPORT_INTERVAL must be > 0")
	}
	if !isValidLogLevel(c.OTELLogLevel) {
		errs = append(errs, "OTEL_LOG_LEVEL must be one of debug, info, warn, error")
	}
	if isProdLikeEnv(c.Env) {
		if c.SeedUserPassword == "Abc123" {
			errs = append(errs, "SEED_USER_PASSWORD must be overridden outside development")
		}
		if c.ProductWritePolicy == ProductWritePolicyAuthenticated {
			errs = append(errs, "PRODUCT_WRITE_POLICY=authenticated is not allowed in production")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging":
		return true
	default:
		return false
	}
}

func isValidLogLevel(v string) bool {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
