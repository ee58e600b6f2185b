package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/catalog-service/internal/app"
	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/database"
	"github.com/sandeepkv93/catalog-service/internal/health"
	"github.com/sandeepkv93/catalog-service/internal/http/handler"
	"github.com/sandeepkv93/catalog-service/internal/http/middleware"
	"github.com/sandeepkv93/catalog-service/internal/http/router"
	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/repository"
	"github.com/sandeepkv93/catalog-service/internal/security"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideMinIOStorage,
	provideReadinessCheckRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewLocalCredentialRepository,
	repository.NewProductRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	service.NewAuthService,
	service.NewMutationPolicyFromConfig,
	provideCatalogCacheStore,
	provideProductService,
	provideImageStorage,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.UserResolver), new(*service.AuthService)),
	wire.Bind(new(service.CatalogService), new(*service.ProductServiceImpl)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewProductHandler,
	handler.NewFilesHandler,
	provideGlobalRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

var SeedSet = wire.NewSet(
	provideToolLogger,
	provideOpenDB,
	repository.NewProductRepository,
	service.NewMutationPolicyFromConfig,
	provideSeedProductService,
	provideSeedUserEnsurer,
	service.NewSeedService,
	wire.Bind(new(service.CatalogService), new(*service.ProductServiceImpl)),
)

type MigrationRunner struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewMigrationRunner(db *gorm.DB, logger *slog.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, logger: logger}
}

// Pending lists the managed tables that do not exist yet.
func (m *MigrationRunner) Pending() []string {
	return database.PendingTables(m.db)
}

func (m *MigrationRunner) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *MigrationRunner) Close() {
	if sqlDB, err := m.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	m.logger.Info("migration complete")
	return nil
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideToolLogger(cfg *config.Config) *slog.Logger {
	return observability.NewBootstrapLogger(cfg)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RateLimitRedisEnabled && !cfg.CatalogCacheRedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideMinIOStorage(cfg *config.Config, logger *slog.Logger) (*service.MinIOImageStorage, error) {
	if !cfg.StorageEnabled {
		return nil, nil
	}
	return service.NewMinIOImageStorage(
		cfg.MinIOEndpoint,
		cfg.MinIOAccessKey,
		cfg.MinIOSecretKey,
		cfg.MinIOBucket,
		cfg.MinIOUseSSL,
		cfg.HostAPI,
		int64(cfg.ProductImageMaxMB)<<20,
		logger,
	)
}

func provideImageStorage(minio *service.MinIOImageStorage) service.ImageStorageService {
	if minio == nil {
		return service.DisabledImageStorage{}
	}
	return minio
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret)
}

func provideCatalogCacheStore(cfg *config.Config, redisClient redis.UniversalClient) service.CatalogCacheStore {
	if !cfg.CatalogCacheEnabled {
		return service.NewNoopCatalogCacheStore()
	}
	if cfg.CatalogCacheRedisEnabled && redisClient != nil {
		return service.NewRedisCatalogCacheStore(redisClient, cfg.CatalogCacheRedisPrefix)
	}
	return service.NewInMemoryCatalogCacheStore()
}

func provideProductService(
	cfg *config.Config,
	repo repository.ProductRepository,
	policy service.MutationPolicy,
	cache service.CatalogCacheStore,
	logger *slog.Logger,
) *service.ProductServiceImpl {
	ttl := cfg.CatalogCacheTTL
	if !cfg.CatalogCacheEnabled {
		ttl = 0
	}
	return service.NewProductService(repo, policy, cache, ttl, logger)
}

// provideSeedProductService skips the read cache: the seed tool runs in its
// own process and would only ever see its own writes.
func provideSeedProductService(repo repository.ProductRepository, policy service.MutationPolicy, logger *slog.Logger) *service.ProductServiceImpl {
	return service.NewProductService(repo, policy, nil, 0, logger)
}

func provideSeedUserEnsurer(db *gorm.DB) service.SeedUserEnsurer {
	return func(ctx context.Context, in database.SeedUser) (*database.SeedUserReport, error) {
		return database.EnsureSeedUser(ctx, db, in)
	}
}

func provideGlobalRateLimiter(cfg *config.Config, redisClient redis.UniversalClient, jwt *security.JWTManager) router.GlobalRateLimiterFunc {
	keyFunc := middleware.SubjectOrIPKeyFunc(jwt)
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":api")
		return middleware.NewDistributedRateLimiterWithKey(
			redisLimiter,
			cfg.APIRateLimitPerMin,
			time.Minute,
			middleware.FailOpen,
			"api",
			keyFunc,
		).Middleware()
	}
	return middleware.NewDistributedRateLimiterWithKey(
		middleware.NewLocalFixedWindowLimiter(),
		cfg.APIRateLimitPerMin,
		time.Minute,
		middleware.FailClosed,
		"api",
		keyFunc,
	).Middleware()
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AuthRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":auth")
		return middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.AuthRateLimitPerMin,
			time.Minute,
			middleware.FailClosed,
			"auth",
		).Middleware()
	}
	return middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute, "auth").Middleware()
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	filesHandler *handler.FilesHandler,
	resolver service.UserResolver,
	globalRateLimiter router.GlobalRateLimiterFunc,
	authRateLimiter router.AuthRateLimiterFunc,
	readiness *health.CheckRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:       authHandler,
		ProductHandler:    productHandler,
		FilesHandler:      filesHandler,
		UserResolver:      resolver,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		AuthRateLimitRPM:  cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:   cfg.APIRateLimitPerMin,
		GlobalRateLimiter: globalRateLimiter,
		AuthRateLimiter:   authRateLimiter,
		MaxUploadBytes:    int64(cfg.ProductImageMaxMB) << 20,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessCheckRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient, minio *service.MinIOImageStorage) *health.CheckRunner {
	checkers := []health.Checker{health.NewDBChecker(db)}
	if redisClient != nil {
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}
	if minio != nil {
		checkers = append(checkers, health.NewPingChecker("storage", minio))
	}
	return health.NewCheckRunner(cfg.ReadinessCheckTimeout, cfg.ServerStartGracePeriod, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient)
}
