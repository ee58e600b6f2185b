package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/observability"
)

//go:generate go run -mod=mod go.uber.org/mock/mockgen -destination=gomock/repositories.go -package=gomock github.com/sandeepkv93/catalog-service/internal/repository ProductRepository,UserRepository,LocalCredentialRepository

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByTitleOrSlug(ctx context.Context, term string) (*domain.Product, error)
	ListOffset(ctx context.Context, req OffsetRequest) ([]domain.Product, error)
	ReplaceImages(ctx context.Context, productID uuid.UUID, urls []string) ([]domain.ProductImage, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, product *domain.Product) error
	DeleteAll(ctx context.Context) (int64, error)
	// WithinTransaction runs fn against a repository bound to a single
	// transaction. The transaction commits only when fn returns nil and is
	// rolled back on any error or panic.
	WithinTransaction(ctx context.Context, fn func(tx ProductRepository) error) error
}

type GormProductRepository struct {
	db     *gorm.DB
	logger *slog.Logger
	inTx   bool
}

func NewProductRepository(db *gorm.DB, logger *slog.Logger) ProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormProductRepository{db: db, logger: logger}
}

const productRepo = "product"

// Create assigns a time-ordered UUIDv7 when the id is unset, so rows that
// share a created_at still list in insertion order.
func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return r.classify(ctx, "create", err, product)
		}
		product.ID = id
	}
	if product.Tags == nil {
		product.Tags = domain.StringList{}
	}
	if product.Sizes == nil {
		product.Sizes = domain.StringList{}
	}
	if err := r.db.WithContext(ctx).Omit("Owner").Create(product).Error; err != nil {
		return r.classify(ctx, "create", err, product)
	}
	observability.RecordRepositoryOperation(ctx, productRepo, "create", "success")
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	if err := r.withRelations(ctx).Where("products.id = ?", id).Take(&product).Error; err != nil {
		return nil, r.classify(ctx, "find_by_id", err, nil)
	}
	observability.RecordRepositoryOperation(ctx, productRepo, "find_by_id", "success")
	return &product, nil
}

// FindByTitleOrSlug matches title case-insensitively or the normalized
// slug exactly. More than one match breaks the uniqueness invariant and is
// reported as an unexpected failure.
func (r *GormProductRepository) FindByTitleOrSlug(ctx context.Context, term string) (*domain.Product, error) {
	var rows []domain.Product
	err := r.withRelations(ctx).
		Where("UPPER(products.title) = ? OR products.slug = ?", strings.ToUpper(term), domain.NormalizeSlug(term)).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return nil, r.classify(ctx, "find_by_title_or_slug", err, nil)
	}
	switch len(rows) {
	case 0:
		observability.RecordRepositoryOperation(ctx, productRepo, "find_by_title_or_slug", "not_found")
		return nil, ErrProductNotFound
	case 1:
		observability.RecordRepositoryOperation(ctx, productRepo, "find_by_title_or_slug", "success")
		return &rows[0], nil
	default:
		return nil, storeFailure(ctx, r.logger, productRepo, "find_by_title_or_slug",
			fmt.Errorf("term %q matched %d products", term, len(rows)))
	}
}

func (r *GormProductRepository) ListOffset(ctx context.Context, req OffsetRequest) ([]domain.Product, error) {
	normalized := req.Normalized()
	items := make([]domain.Product, 0, normalized.Limit)
	err := r.withRelations(ctx).
		Order("products.created_at ASC").
		Order("products.id ASC").
		Offset(normalized.Offset).
		Limit(normalized.Limit).
		Find(&items).Error
	if err != nil {
		return nil, r.classify(ctx, "list_offset", err, nil)
	}
	observability.RecordRepositoryOperation(ctx, productRepo, "list_offset", "success")
	return items, nil
}

// ReplaceImages deletes every image owned by productID and inserts urls in
// order. Call it inside WithinTransaction when combined with other writes.
func (r *GormProductRepository) ReplaceImages(ctx context.Context, productID uuid.UUID, urls []string) ([]domain.ProductImage, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&domain.ProductImage{}).Error; err != nil {
		return nil, r.classify(ctx, "replace_images", err, nil)
	}
	images := domain.NewProductImages(urls)
	for i := range images {
		images[i].ProductID = productID
	}
	if len(images) > 0 {
		if err := db.Create(&images).Error; err != nil {
			return nil, r.classify(ctx, "replace_images", err, nil)
		}
	}
	observability.RecordRepositoryOperation(ctx, productRepo, "replace_images", "success")
	return images, nil
}

// Update writes every scalar column of product, including zero values.
// Images are left untouched.
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	sizes, tags := product.Sizes, product.Tags
	if sizes == nil {
		sizes = domain.StringList{}
	}
	if tags == nil {
		tags = domain.StringList{}
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"title":       product.Title,
			"slug":        product.Slug,
			"description": product.Description,
			"price":       product.Price,
			"stock":       product.Stock,
			"sizes":       sizes,
			"gender":      product.Gender,
			"tags":        tags,
			"user_id":     product.OwnerID,
			"updated_at":  now,
		})
	if res.Error != nil {
		return r.classify(ctx, "update", res.Error, product)
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, productRepo, "update", "not_found")
		return ErrProductNotFound
	}
	product.UpdatedAt = now
	observability.RecordRepositoryOperation(ctx, productRepo, "update", "success")
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, product *domain.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", product.ID).Delete(&domain.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return r.classify(ctx, "delete", err, nil)
	}
	observability.RecordRepositoryOperation(ctx, productRepo, "delete", "success")
	return nil
}

func (r *GormProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		res := all.Delete(&domain.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, r.classify(ctx, "delete_all", err, nil)
	}
	observability.RecordRepositoryOperation(ctx, productRepo, "delete_all", "success")
	return deleted, nil
}

func (r *GormProductRepository) WithinTransaction(ctx context.Context, fn func(tx ProductRepository) error) (err error) {
	if r.inTx {
		return fn(r)
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return storeFailure(ctx, r.logger, productRepo, "begin", tx.Error)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback().Error
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, storeFailure(ctx, r.logger, productRepo, "rollback", rbErr))
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(&GormProductRepository{db: tx, logger: r.logger, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return storeFailure(ctx, r.logger, productRepo, "commit", err)
	}
	committed = true
	return nil
}

func (r *GormProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.id ASC") }).
		Preload("Owner")
}

func (r *GormProductRepository) classify(ctx context.Context, op string, err error, product *domain.Product) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrProductNotFound) {
		observability.RecordRepositoryOperation(ctx, productRepo, op, "not_found")
		return ErrProductNotFound
	}
	if c, ok := asConflict(productRepo, err, productFieldLookup(product)); ok {
		observability.RecordRepositoryOperation(ctx, productRepo, op, "conflict")
		return c
	}
	return storeFailure(ctx, r.logger, productRepo, op, err)
}

func productFieldLookup(p *domain.Product) func(string) string {
	if p == nil {
		return nil
	}
	return func(field string) string {
		switch field {
		case "title":
			return p.Title
		case "slug":
			return p.Slug
		default:
			return ""
		}
	}
}
