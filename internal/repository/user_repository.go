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

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// CreateWithCredential stores the user and its password hash atomically.
	CreateWithCredential(ctx context.Context, user *domain.User, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type GormUserRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserRepository(db *gorm.DB, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUserRepository{db: db, logger: logger}
}

const userRepo = "user"

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, r.classify(ctx, "find_by_id", err, nil)
	}
	observability.RecordRepositoryOperation(ctx, userRepo, "find_by_id", "success")
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	normalized := strings.TrimSpace(strings.ToLower(email))
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).Take(&u).Error; err != nil {
		return nil, r.classify(ctx, "find_by_email", err, nil)
	}
	observability.RecordRepositoryOperation(ctx, userRepo, "find_by_email", "success")
	return &u, nil
}

func (r *GormUserRepository) CreateWithCredential(ctx context.Context, user *domain.User, passwordHash string) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if len(user.Roles) == 0 {
		user.Roles = domain.StringList{domain.RoleUser}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&domain.LocalCredential{UserID: user.ID, PasswordHash: passwordHash}).Error
	})
	if err != nil {
		return r.classify(ctx, "create", err, user)
	}
	observability.RecordRepositoryOperation(ctx, userRepo, "create", "success")
	return nil
}

func (r *GormUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return r.classify(ctx, "set_active", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, userRepo, "set_active", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, userRepo, "set_active", "success")
	return nil
}

func (r *GormUserRepository) classify(ctx context.Context, op string, err error, user *domain.User) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.RecordRepositoryOperation(ctx, userRepo, op, "not_found")
		return ErrUserNotFound
	}
	var lookup func(string) string
	if user != nil {
		lookup = func(string) string { return user.Email }
	}
	if c, ok := asConflict(userRepo, err, lookup); ok {
		observability.RecordRepositoryOperation(ctx, userRepo, op, "conflict")
		return c
	}
	return storeFailure(ctx, r.logger, userRepo, op, err)
}
