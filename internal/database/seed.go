package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/observability"

	"gorm.io/gorm"
)

type SeedUser struct {
	Email        string
	FullName     string
	PasswordHash string
	Roles        []string
}

type SeedUserReport struct {
	UserID            uuid.UUID `json:"user_id"`
	CreatedUser       bool      `json:"created_user"`
	UpdatedRoles      bool      `json:"updated_roles"`
	CreatedCredential bool      `json:"created_credential"`
	Noop              bool      `json:"noop"`
}

// EnsureSeedUser creates the seed account when missing and makes sure it is
// active and carries the requested roles. An existing password is kept.
func EnsureSeedUser(ctx context.Context, db *gorm.DB, in SeedUser) (*SeedUserReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(ctx, "seed", time.Since(start))
	}()

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, fmt.Errorf("seed user email is required")
	}

	report := &SeedUserReport{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		err := tx.Where("email = ?", email).First(&u).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = domain.User{
				ID:       uuid.New(),
				Email:    email,
				FullName: in.FullName,
				IsActive: true,
				Roles:    domain.StringList(in.Roles),
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			report.CreatedUser = true
		case err != nil:
			return err
		default:
			if !u.IsActive || !sameRoles(u.Roles, in.Roles) {
				if err := tx.Model(&u).Updates(map[string]any{
					"is_active": true,
					"roles":     domain.StringList(in.Roles),
				}).Error; err != nil {
					return err
				}
				report.UpdatedRoles = true
			}
		}
		report.UserID = u.ID

		var count int64
		if err := tx.Model(&domain.LocalCredential{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Create(&domain.LocalCredential{UserID: u.ID, PasswordHash: in.PasswordHash}).Error; err != nil {
				return err
			}
			report.CreatedCredential = true
		}
		return nil
	})
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, err
	}

	report.Noop = !report.CreatedUser && !report.UpdatedRoles && !report.CreatedCredential
	observability.RecordDatabaseStartupEvent(ctx, "seed", "success")
	return report, nil
}

func sameRoles(have, want []string) bool {
	if len(have) != len(want) {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, r := range have {
		set[r] = struct{}{}
	}
	for _, r := range want {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
