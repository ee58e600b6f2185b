package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/repository"
	repogomock "github.com/sandeepkv93/catalog-service/internal/repository/gomock"
)

func newMockedProductService(t *testing.T) (*ProductServiceImpl, *repogomock.MockProductRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockProductRepository(ctrl)
	return NewProductService(repo, nil, NewNoopCatalogCacheStore(), 0, discardLogger()), repo
}

func TestProductServiceStoreFailureBecomesInternal(t *testing.T) {
	svc, repo := newMockedProductService(t)
	ctx := context.Background()
	failure := fmt.Errorf("%w: list_offset: dial tcp 10.0.0.7:5432: connection refused", repository.ErrStoreUnexpected)

	repo.EXPECT().ListOffset(gomock.Any(), repository.OffsetRequest{Limit: repository.DefaultLimit}).Return(nil, failure)

	_, err := svc.FindAll(ctx, repository.OffsetRequest{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if msg := Message(err); msg != internalMessage || strings.Contains(msg, "10.0.0.7") {
		t.Fatalf("store detail leaked to caller: %q", msg)
	}
}

func TestProductServiceRemoveDeleteFailureBecomesInternal(t *testing.T) {
	svc, repo := newMockedProductService(t)
	ctx := context.Background()
	owner := Actor{ID: uuid.New(), Roles: []string{domain.RoleUser}}
	product := &domain.Product{ID: uuid.New(), Title: "Cybertruck Bull Tee", Slug: "cybertruck_bull_tee", OwnerID: owner.ID}

	gomock.InOrder(
		repo.EXPECT().FindByID(gomock.Any(), product.ID).Return(product, nil),
		repo.EXPECT().Delete(gomock.Any(), product).Return(fmt.Errorf("%w: delete: deadlock detected", repository.ErrStoreUnexpected)),
	)

	err := svc.Remove(ctx, product.ID, owner)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestProductServiceFindOneUUIDTermNeverFallsBackToSlug(t *testing.T) {
	svc, repo := newMockedProductService(t)
	id := uuid.New()

	repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, repository.ErrProductNotFound)
	repo.EXPECT().FindByTitleOrSlug(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.FindOne(context.Background(), id.String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if want := "Product with id " + id.String() + " not found."; Message(err) != want {
		t.Fatalf("unexpected message %q, want %q", Message(err), want)
	}
}
