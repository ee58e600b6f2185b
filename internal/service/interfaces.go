package service

import (
	"context"

	"github.com/sandeepkv93/catalog-service/internal/domain"
)

//go:generate go run -mod=mod go.uber.org/mock/mockgen -destination=gomock/services.go -package=gomock github.com/sandeepkv93/catalog-service/internal/service CatalogService,AuthServiceInterface,ImageStorageService

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*LoginResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CheckStatus(ctx context.Context, user *domain.User) (*LoginResult, error)
	ResolveUser(ctx context.Context, raw string) (*domain.User, error)
}

// UserResolver turns a bearer token into an active user.
type UserResolver interface {
	ResolveUser(ctx context.Context, raw string) (*domain.User, error)
}

var (
	_ AuthServiceInterface = (*AuthService)(nil)
	_ CatalogService       = (*ProductServiceImpl)(nil)
	_ ImageStorageService  = (*MinIOImageStorage)(nil)
	_ ImageStorageService  = DisabledImageStorage{}
)
