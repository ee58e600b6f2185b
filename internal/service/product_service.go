package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/repository"
)

type CatalogService interface {
	Create(ctx context.Context, input CreateProductInput, actor Actor) (*domain.ProductView, error)
	FindAll(ctx context.Context, req repository.OffsetRequest) ([]domain.ProductView, error)
	FindOne(ctx context.Context, term string) (*domain.Product, error)
	FindOnePlain(ctx context.Context, term string) (*domain.ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput, actor Actor) (*domain.ProductView, error)
	Remove(ctx context.Context, id uuid.UUID, actor Actor) error
	DeleteAllProducts(ctx context.Context) (int64, error)
}

type CreateProductInput struct {
	Title       string
	Slug        *string
	Description *string
	Price       float64
	Stock       int
	Sizes       []string
	Gender      domain.Gender
	Tags        []string
	Images      []string
}

// UpdateProductInput carries only the fields present in the request. A
// non-nil Images replaces the whole image list, an empty slice clears it.
type UpdateProductInput struct {
	Title       *string
	Slug        *string
	Description *string
	Price       *float64
	Stock       *int
	Sizes       *[]string
	Gender      *domain.Gender
	Tags        *[]string
	Images      *[]string
}

type ProductServiceImpl struct {
	repo   repository.ProductRepository
	policy MutationPolicy
	cache  *catalogReadCache
}

func NewProductService(repo repository.ProductRepository, policy MutationPolicy, cache CatalogCacheStore, cacheTTL time.Duration, logger *slog.Logger) *ProductServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == nil {
		policy = NewMutationPolicy("", nil)
	}
	return &ProductServiceImpl{
		repo:   repo,
		policy: policy,
		cache:  newCatalogReadCache(cache, cacheTTL, logger),
	}
}

func (s *ProductServiceImpl) Create(ctx context.Context, input CreateProductInput, actor Actor) (view *domain.ProductView, err error) {
	ctx, finish := observability.StartProductOperation(ctx, "create")
	defer func() { finish(outcomeOf(err), err) }()

	if actor.ID == uuid.Nil {
		return nil, &Error{Kind: ErrUnauthorized, Message: "authenticated user required"}
	}
	product, err := input.build()
	if err != nil {
		return nil, err
	}
	product.OwnerID = actor.ID
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, classifyStoreError(err, product.Title)
	}
	product.Owner = actor.owner()
	s.cache.invalidate(ctx)

	v := product.View()
	return &v, nil
}

func (s *ProductServiceImpl) FindAll(ctx context.Context, req repository.OffsetRequest) (items []domain.ProductView, err error) {
	ctx, finish := observability.StartProductOperation(ctx, "find_all")
	defer func() { finish(outcomeOf(err), err) }()

	if req.Limit < 0 || req.Offset < 0 {
		return nil, validationError("limit and offset must not be negative")
	}
	req = req.Normalized()
	key := fmt.Sprintf("list:limit=%d:offset=%d", req.Limit, req.Offset)
	items, err = cachedRead(ctx, s.cache, "product_list", key, func(ctx context.Context) ([]domain.ProductView, error) {
		products, err := s.repo.ListOffset(ctx, req)
		if err != nil {
			return nil, classifyStoreError(err, "")
		}
		views := make([]domain.ProductView, 0, len(products))
		for i := range products {
			views = append(views, products[i].View())
		}
		return views, nil
	})
	if err != nil {
		return nil, err
	}
	observability.RecordProductListPageSize(ctx, len(items))
	return items, nil
}

// FindOne resolves term as an id when it is a canonical UUID string and as
// a title or slug otherwise. A UUID-shaped term never falls back to the
// title/slug lookup.
func (s *ProductServiceImpl) FindOne(ctx context.Context, term string) (product *domain.Product, err error) {
	ctx, finish := observability.StartProductOperation(ctx, "find_one")
	defer func() { finish(outcomeOf(err), err) }()

	return s.lookup(ctx, term)
}

func (s *ProductServiceImpl) FindOnePlain(ctx context.Context, term string) (view *domain.ProductView, err error) {
	ctx, finish := observability.StartProductOperation(ctx, "find_one_plain")
	defer func() { finish(outcomeOf(err), err) }()

	v, err := cachedRead(ctx, s.cache, "product_one", "term:"+term, func(ctx context.Context) (domain.ProductView, error) {
		product, err := s.lookup(ctx, term)
		if err != nil {
			return domain.ProductView{}, err
		}
		return product.View(), nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *ProductServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput, actor Actor) (view *domain.ProductView, err error) {
	ctx, finish := observability.StartProductOperation(ctx, "update")
	defer func() { finish(outcomeOf(err), err) }()

	if actor.ID == uuid.Nil {
		return nil, &Error{Kind: ErrUnauthorized, Message: "authenticated user required"}
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err = s.repo.WithinTransaction(ctx, func(tx repository.ProductRepository) error {
		product, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.Authorize(actor, product); err != nil {
			return err
		}
		input.apply(product)
		product.Slug = domain.NormalizeSlug(product.Slug)
		if product.Slug == "" {
			product.Slug = domain.NormalizeSlug(product.Title)
		}
		if product.Slug == "" {
			return validationError("slug must not be empty")
		}
		if input.Images != nil {
			images, err := tx.ReplaceImages(ctx, product.ID, *input.Images)
			if err != nil {
				return err
			}
			product.Images = images
		}
		product.OwnerID = actor.ID
		product.Owner = actor.owner()
		if err := tx.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(err, id.String())
	}
	s.cache.invalidate(ctx)

	v := updated.View()
	return &v, nil
}

func (s *ProductServiceImpl) Remove(ctx context.Context, id uuid.UUID, actor Actor) (err error) {
	ctx, finish := observability.StartProductOperation(ctx, "remove")
	defer func() { finish(outcomeOf(err), err) }()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return classifyStoreError(err, id.String())
	}
	if err := s.policy.Authorize(actor, product); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product); err != nil {
		return classifyStoreError(err, id.String())
	}
	s.cache.invalidate(ctx)
	return nil
}

func (s *ProductServiceImpl) DeleteAllProducts(ctx context.Context) (deleted int64, err error) {
	ctx, finish := observability.StartProductOperation(ctx, "delete_all")
	defer func() { finish(outcomeOf(err), err) }()

	deleted, err = s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, classifyStoreError(err, "")
	}
	s.cache.invalidate(ctx)
	return deleted, nil
}

func (s *ProductServiceImpl) lookup(ctx context.Context, term string) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)
	if id, ok := classifyTerm(term); ok {
		product, err = s.repo.FindByID(ctx, id)
	} else {
		product, err = s.repo.FindByTitleOrSlug(ctx, term)
	}
	if err != nil {
		return nil, classifyStoreError(err, term)
	}
	return product, nil
}

// classifyTerm reports whether term is a canonical 36-character UUID.
func classifyTerm(term string) (uuid.UUID, bool) {
	if len(term) != 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(term)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (in CreateProductInput) build() (*domain.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title must not be empty")
	}
	if in.Price < 0 {
		return nil, validationError("price must be a positive number")
	}
	if in.Stock < 0 {
		return nil, validationError("stock must be a positive number")
	}
	if len(in.Sizes) == 0 {
		return nil, validationError("sizes must contain at least 1 element")
	}
	if !in.Gender.Valid() {
		return nil, validationError("gender must be one of men, women, kid, unisex")
	}

	slug := ""
	if in.Slug != nil {
		slug = domain.NormalizeSlug(*in.Slug)
	}
	if slug == "" {
		slug = domain.NormalizeSlug(title)
	}
	if slug == "" {
		return nil, validationError("slug must not be empty")
	}

	tags := domain.StringList{}
	if in.Tags != nil {
		tags = domain.StringList(append([]string(nil), in.Tags...))
	}
	return &domain.Product{
		Title:       title,
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Sizes:       domain.StringList(append([]string(nil), in.Sizes...)),
		Gender:      in.Gender,
		Tags:        tags,
		Images:      domain.NewProductImages(in.Images),
	}, nil
}

func (in UpdateProductInput) validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return validationError("title must not be empty")
	}
	if in.Price != nil && *in.Price < 0 {
		return validationError("price must be a positive number")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return validationError("stock must be a positive number")
	}
	if in.Sizes != nil && len(*in.Sizes) == 0 {
		return validationError("sizes must contain at least 1 element")
	}
	if in.Gender != nil && !in.Gender.Valid() {
		return validationError("gender must be one of men, women, kid, unisex")
	}
	return nil
}

func (in UpdateProductInput) apply(p *domain.Product) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = domain.StringList(append([]string(nil), (*in.Sizes)...))
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Tags != nil {
		p.Tags = domain.StringList(append([]string(nil), (*in.Tags)...))
	}
}
