package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/database"
	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/http/router"
	"github.com/sandeepkv93/catalog-service/internal/repository"
	"github.com/sandeepkv93/catalog-service/internal/security"
	"github.com/sandeepkv93/catalog-service/internal/service"
)

func testJWT() *security.JWTManager {
	return security.NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openEmptyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openEmptyTestDB(t)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestProvideHTTPServer(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9999"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadTimeout.Seconds() != 10 {
		t.Fatalf("unexpected read timeout: %v", srv.ReadTimeout)
	}
}

func TestProvideRouterDependencies(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:  []string{"http://localhost:3000"},
		AuthRateLimitPerMin: 10,
		APIRateLimitPerMin:  100,
		ProductImageMaxMB:   2,
		OTELMetricsEnabled:  true,
	}
	dep := provideRouterDependencies(nil, nil, nil, nil, nil, nil, nil, cfg)
	if dep.AuthRateLimitRPM != 10 || dep.APIRateLimitRPM != 100 {
		t.Fatalf("unexpected rate limits: %+v", dep)
	}
	if dep.MaxUploadBytes != 2<<20 {
		t.Fatalf("unexpected upload limit: %d", dep.MaxUploadBytes)
	}
	if !dep.EnableOTelHTTP {
		t.Fatal("expected otel http enabled")
	}
	if len(dep.CORSOrigins) != 1 || dep.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", dep.CORSOrigins)
	}
	_ = router.Dependencies(dep)
}

func TestProvideGlobalRateLimiterUsesSubjectOrIP(t *testing.T) {
	cfg := &config.Config{APIRateLimitPerMin: 1}
	jwt := testJWT()
	limiter := provideGlobalRateLimiter(cfg, nil, jwt)
	if limiter == nil {
		t.Fatal("expected global limiter")
	}
	token1, err := jwt.SignAccessToken(uuid.New(), nil, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign token1: %v", err)
	}
	token2, err := jwt.SignAccessToken(uuid.New(), nil, 15*time.Minute)
	if err != nil {
		t.Fatalf("sign token2: %v", err)
	}
	h := limiter(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(addr, token string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = addr
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	if code := serve("10.0.0.1:1111", token1); code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", code)
	}
	if code := serve("10.0.0.2:2222", token1); code != http.StatusTooManyRequests {
		t.Fatalf("expected same subject to be limited, got %d", code)
	}
	if code := serve("10.0.0.1:1111", token2); code != http.StatusOK {
		t.Fatalf("expected different subject to be allowed, got %d", code)
	}
}

func TestProvideGlobalRateLimiterRedisFailOpen(t *testing.T) {
	cfg := &config.Config{RateLimitRedisEnabled: true, RateLimitRedisPrefix: "rl", APIRateLimitPerMin: 5}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	h := provideGlobalRateLimiter(cfg, client, testJWT())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected fail-open response when redis unavailable, got %d", rr.Code)
	}
}

func TestProvideAuthRateLimiterRedisFailClosed(t *testing.T) {
	cfg := &config.Config{RateLimitRedisEnabled: true, RateLimitRedisPrefix: "rl", AuthRateLimitPerMin: 5}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	h := provideAuthRateLimiter(cfg, client)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected fail-closed response when redis unavailable, got %d", rr.Code)
	}
}

func TestProvideAuthRateLimiterLocalEnforcesLimit(t *testing.T) {
	cfg := &config.Config{AuthRateLimitPerMin: 1}
	h := provideAuthRateLimiter(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rr.Code)
		}
	}
}

func TestProvideCatalogCacheStoreSelection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	if _, ok := provideCatalogCacheStore(&config.Config{CatalogCacheEnabled: false}, client).(*service.NoopCatalogCacheStore); !ok {
		t.Fatal("expected noop store when cache disabled")
	}
	if _, ok := provideCatalogCacheStore(&config.Config{CatalogCacheEnabled: true}, nil).(*service.InMemoryCatalogCacheStore); !ok {
		t.Fatal("expected in-memory store without redis")
	}
	store := provideCatalogCacheStore(&config.Config{CatalogCacheEnabled: true, CatalogCacheRedisEnabled: true, CatalogCacheRedisPrefix: "cc"}, client)
	if _, ok := store.(*service.RedisCatalogCacheStore); !ok {
		t.Fatalf("expected redis store, got %T", store)
	}
}

func TestProvideRedisClientOnlyWhenNeeded(t *testing.T) {
	if c := provideRedisClient(&config.Config{}, testLogger()); c != nil {
		t.Fatal("expected nil redis client when no redis feature is enabled")
	}
	mr := miniredis.RunT(t)
	c := provideRedisClient(&config.Config{CatalogCacheRedisEnabled: true, RedisAddr: mr.Addr()}, testLogger())
	if c == nil {
		t.Fatal("expected redis client")
	}
	defer c.Close()
	if err := c.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping miniredis: %v", err)
	}
}

func TestProvideImageStorageFallsBackToDisabled(t *testing.T) {
	minio, err := provideMinIOStorage(&config.Config{StorageEnabled: false}, testLogger())
	if err != nil || minio != nil {
		t.Fatalf("expected no minio client when storage disabled, got %v %v", minio, err)
	}
	if _, ok := provideImageStorage(minio).(service.DisabledImageStorage); !ok {
		t.Fatal("expected disabled storage")
	}
}

func TestProvideReadinessCheckRunnerChecksDB(t *testing.T) {
	db := openTestDB(t)
	runner := provideReadinessCheckRunner(&config.Config{ReadinessCheckTimeout: time.Second}, db, nil, nil)
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatalf("expected ready, got %+v", results)
	}
	if len(results) != 1 || results[0].Name != "db" {
		t.Fatalf("expected a single db check, got %+v", results)
	}
}

func TestSeedWiringCreatesDemoCatalog(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.Config{SeedUserEmail: "seed@example.com", SeedUserPassword: "Abc123", ProductWritePolicy: config.ProductWritePolicyOwner}
	logger := testLogger()

	catalog := provideSeedProductService(repository.NewProductRepository(db, logger), service.NewMutationPolicyFromConfig(cfg), logger)
	seed := service.NewSeedService(cfg, catalog, provideSeedUserEnsurer(db), logger)
	report, err := seed.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}
	if report.CreatedProducts != len(service.DemoCatalog()) {
		t.Fatalf("unexpected created count: %+v", report)
	}
	var owner domain.User
	if err := db.Where("email = ?", cfg.SeedUserEmail).Take(&owner).Error; err != nil {
		t.Fatalf("load seed user: %v", err)
	}
	if !owner.HasAnyRole(domain.RoleAdmin) {
		t.Fatalf("expected seed user to be admin, got %v", owner.Roles)
	}
}

func TestMigrationRunnerReportsPending(t *testing.T) {
	db := openEmptyTestDB(t)
	runner := NewMigrationRunner(db, testLogger())
	if len(runner.Pending()) != len(database.Models) {
		t.Fatalf("expected every table pending, got %v", runner.Pending())
	}
	if err := runner.Run(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if pending := runner.Pending(); len(pending) != 0 {
		t.Fatalf("expected no pending tables, got %v", pending)
	}
}
