package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/catalog-service/internal/domain"
)

func newProductForTest(owner *domain.User, title string, images ...string) *domain.Product {
	return &domain.Product{
		Title:   title,
		Slug:    domain.NormalizeSlug(title),
		Price:   10,
		Sizes:   domain.StringList{"S", "M"},
		Gender:  domain.GenderUnisex,
		Images:  domain.NewProductImages(images),
		OwnerID: owner.ID,
	}
}

func imageURLs(t *testing.T, repo ProductRepository, id uuid.UUID) []string {
	t.Helper()
	p, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find %s: %v", id, err)
	}
	return p.ImageURLs()
}

func TestProductRepositoryCreateAndFind(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	p := newProductForTest(owner, "Men's Chill Crew Neck Sweatshirt", "1.jpg", "2.jpg")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	loaded, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got := loaded.ImageURLs(); len(got) != 2 || got[0] != "1.jpg" || got[1] != "2.jpg" {
		t.Fatalf("unexpected images %v", got)
	}
	if loaded.Owner == nil || loaded.Owner.ID != owner.ID {
		t.Fatalf("expected owner preloaded, got %+v", loaded.Owner)
	}
	if len(loaded.Tags) != 0 || loaded.Tags == nil {
		t.Fatalf("expected empty tags, got %#v", loaded.Tags)
	}

	byTitle, err := repo.FindByTitleOrSlug(ctx, "MEN'S CHILL CREW NECK SWEATSHIRT")
	if err != nil || byTitle.ID != p.ID {
		t.Fatalf("expected title lookup to match, got %v err=%v", byTitle, err)
	}
	bySlug, err := repo.FindByTitleOrSlug(ctx, "mens_chill_crew_neck_sweatshirt")
	if err != nil || bySlug.ID != p.ID {
		t.Fatalf("expected slug lookup to match, got %v err=%v", bySlug, err)
	}
	if _, err := repo.FindByTitleOrSlug(ctx, "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepositoryListOffsetPagesByCreatedAt(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, 5)
	for i := 0; i < 5; i++ {
		p := newProductForTest(owner, fmt.Sprintf("Product %d", i+1), fmt.Sprintf("%d.jpg", i))
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, p.ID)
	}

	page, err := repo.ListOffset(ctx, OffsetRequest{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[1] || page[1].ID != ids[2] {
		t.Fatalf("expected items 2 and 3, got %+v", page)
	}
	if len(page[0].Images) != 1 {
		t.Fatalf("expected images preloaded, got %+v", page[0].Images)
	}

	all, err := repo.ListOffset(ctx, OffsetRequest{})
	if err != nil {
		t.Fatalf("list defaults: %v", err)
	}
	if len(all) != 5 || all[0].ID != ids[0] {
		t.Fatalf("unexpected default list: %d items", len(all))
	}

	empty, err := repo.ListOffset(ctx, OffsetRequest{Limit: 10, Offset: 50})
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty page, got %d err=%v", len(empty), err)
	}
}

func TestProductRepositoryListOffsetKeepsInsertionOrderForEqualTimestamps(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	same := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, 20)
	for i := 0; i < 20; i++ {
		p := newProductForTest(owner, fmt.Sprintf("Batch Tee %02d", i))
		p.CreatedAt = same
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if p.ID.Version() != 7 {
			t.Fatalf("expected UUIDv7 id, got version %d", p.ID.Version())
		}
		ids = append(ids, p.ID)
	}

	all, err := repo.ListOffset(ctx, OffsetRequest{Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(ids) {
		t.Fatalf("expected %d items, got %d", len(ids), len(all))
	}
	for i := range ids {
		if all[i].ID != ids[i] {
			t.Fatalf("position %d: got %s (%s), want %s", i, all[i].ID, all[i].Title, ids[i])
		}
	}
}

func TestProductRepositoryConflicts(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	if err := repo.Create(ctx, newProductForTest(owner, "Cybertruck Tee")); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.Create(ctx, newProductForTest(owner, "Cybertruck Tee"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || !errors.Is(err, ErrProductConflict) {
		t.Fatalf("expected title conflict, got %v", err)
	}
	if conflict.Field != "title" || conflict.Value != "Cybertruck Tee" {
		t.Fatalf("unexpected conflict %+v", conflict)
	}

	other := newProductForTest(owner, "Another Title")
	other.Slug = "cybertruck_tee"
	err = repo.Create(ctx, other)
	if !errors.As(err, &conflict) || conflict.Field != "slug" || conflict.Value != "cybertruck_tee" {
		t.Fatalf("expected slug conflict, got %v", err)
	}
}

func TestProductRepositoryUpdate(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	a := newProductForTest(owner, "Alpha")
	b := newProductForTest(owner, "Beta")
	for _, p := range []*domain.Product{a, b} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	a.Price = 0
	a.Stock = 7
	a.Tags = domain.StringList{"sale"}
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Price != 0 || reloaded.Stock != 7 || len(reloaded.Tags) != 1 {
		t.Fatalf("unexpected updated product %+v", reloaded)
	}

	a.Title = "Beta"
	if err := repo.Update(ctx, a); !errors.Is(err, ErrProductConflict) {
		t.Fatalf("expected conflict on duplicate title, got %v", err)
	}

	ghost := newProductForTest(owner, "Ghost")
	ghost.ID = uuid.New()
	if err := repo.Update(ctx, ghost); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductRepositoryDeleteRemovesImages(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	p := newProductForTest(owner, "Doomed", "a.jpg", "b.jpg")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	var images int64
	if err := db.Model(&domain.ProductImage{}).Where("product_id = ?", p.ID).Count(&images).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if images != 0 {
		t.Fatalf("expected no orphaned images, got %d", images)
	}
	if err := repo.Delete(ctx, p); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestProductRepositoryDeleteAll(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, newProductForTest(owner, fmt.Sprintf("Bulk %d", i), "x.jpg")); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}
	var images int64
	if err := db.Model(&domain.ProductImage{}).Count(&images).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if images != 0 {
		t.Fatalf("expected no images left, got %d", images)
	}
}

func TestProductRepositoryTransactionCommitsReplacement(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	p := newProductForTest(owner, "Swap", "old-1.jpg", "old-2.jpg")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.WithinTransaction(ctx, func(tx ProductRepository) error {
		if _, err := tx.ReplaceImages(ctx, p.ID, []string{"new.jpg"}); err != nil {
			return err
		}
		p.Stock = 3
		return tx.Update(ctx, p)
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if got := imageURLs(t, repo, p.ID); len(got) != 1 || got[0] != "new.jpg" {
		t.Fatalf("expected replaced images, got %v", got)
	}
	var total int64
	if err := db.Model(&domain.ProductImage{}).Count(&total).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected old image rows removed, got %d rows", total)
	}
}

func TestProductRepositoryTransactionRollsBackOnError(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	p := newProductForTest(owner, "Keep", "keep-1.jpg", "keep-2.jpg")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("simulated storage failure")
	err := repo.WithinTransaction(ctx, func(tx ProductRepository) error {
		if _, err := tx.ReplaceImages(ctx, p.ID, []string{"lost.jpg"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if got := imageURLs(t, repo, p.ID); len(got) != 2 || got[0] != "keep-1.jpg" || got[1] != "keep-2.jpg" {
		t.Fatalf("expected original images after rollback, got %v", got)
	}
}

func TestProductRepositoryTransactionRollsBackOnPanic(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewProductRepository(db, nil)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	p := newProductForTest(owner, "Panicky", "before.jpg")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = repo.WithinTransaction(ctx, func(tx ProductRepository) error {
			if _, err := tx.ReplaceImages(ctx, p.ID, nil); err != nil {
				return err
			}
			panic("mid-transaction")
		})
	}()

	if got := imageURLs(t, repo, p.ID); len(got) != 1 || got[0] != "before.jpg" {
		t.Fatalf("expected images untouched after panic, got %v", got)
	}
}

func TestProductRepositoryAmbiguousTermIsUnexpected(t *testing.T) {
	db := newRepositoryDBForTest(t)
	logger, logs := newCapturingLogger()
	repo := NewProductRepository(db, logger)
	ctx := context.Background()
	owner := createUserForTest(t, db)

	a := newProductForTest(owner, "Alpha")
	a.Slug = "beta_x"
	b := newProductForTest(owner, "Beta X")
	b.Slug = "beta_x_2"
	for _, p := range []*domain.Product{a, b} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	_, err := repo.FindByTitleOrSlug(ctx, "Beta X")
	if !errors.Is(err, ErrStoreUnexpected) {
		t.Fatalf("expected ErrStoreUnexpected, got %v", err)
	}
	if n := strings.Count(logs.String(), "catalog store failure"); n != 1 {
		t.Fatalf("expected failure logged once, got %d lines: %s", n, logs.String())
	}
}
