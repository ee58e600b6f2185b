package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/observability"
)

var ErrCredentialNotFound = errors.New("credential not found")

type LocalCredentialRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.LocalCredential, error)
	FindByEmail(ctx context.Context, email string) (*domain.LocalCredential, error)
}

type GormLocalCredentialRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLocalCredentialRepository(db *gorm.DB, logger *slog.Logger) LocalCredentialRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormLocalCredentialRepository{db: db, logger: logger}
}

func (r *GormLocalCredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.LocalCredential, error) {
	var c domain.LocalCredential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&c).Error; err != nil {
		return nil, r.classify(ctx, "find_by_user_id", err)
	}
	return &c, nil
}

func (r *GormLocalCredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.LocalCredential, error) {
	var c domain.LocalCredential
	normalized := strings.TrimSpace(strings.ToLower(email))
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = local_credentials.user_id").
		Where("users.email = ?", normalized).
		Take(&c).Error
	if err != nil {
		return nil, r.classify(ctx, "find_by_email", err)
	}
	return &c, nil
}

func (r *GormLocalCredentialRepository) classify(ctx context.Context, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.RecordRepositoryOperation(ctx, "local_credential", op, "not_found")
		return ErrCredentialNotFound
	}
	return storeFailure(ctx, r.logger, "local_credential", op, err)
}
