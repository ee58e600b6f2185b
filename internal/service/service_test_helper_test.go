package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sandeepkv93/catalog-service/internal/database"
	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/repository"
)

func newServiceDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createActorForTest(t *testing.T, db *gorm.DB, roles ...string) Actor {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	u := &domain.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		FullName: "Catalog Tester",
		IsActive: true,
		Roles:    domain.StringList(roles),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return ActorFromUser(u)
}

type catalogFixture struct {
	db      *gorm.DB
	repo    repository.ProductRepository
	cache   *InMemoryCatalogCacheStore
	service *ProductServiceImpl
	owner   Actor
}

func newCatalogFixture(t *testing.T, policy MutationPolicy) *catalogFixture {
	t.Helper()
	db := newServiceDBForTest(t)
	repo := repository.NewProductRepository(db, discardLogger())
	cache := NewInMemoryCatalogCacheStore()
	return &catalogFixture{
		db:      db,
		repo:    repo,
		cache:   cache,
		service: NewProductService(repo, policy, cache, time.Minute, discardLogger()),
		owner:   createActorForTest(t, db),
	}
}

func (f *catalogFixture) create(t *testing.T, title string, images ...string) *domain.ProductView {
	t.Helper()
	v, err := f.service.Create(context.Background(), CreateProductInput{
		Title:  title,
		Price:  25,
		Stock:  3,
		Sizes:  []string{"S", "M"},
		Gender: domain.GenderMen,
		Images: images,
	}, f.owner)
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return v
}

func ptr[T any](v T) *T { return &v }
