package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/repository"
	repogomock "github.com/sandeepkv93/catalog-service/internal/repository/gomock"
	"github.com/sandeepkv93/catalog-service/internal/security"
)

type authServiceFixture struct {
	auth  *AuthService
	users *repogomock.MockUserRepository
	creds *repogomock.MockLocalCredentialRepository
	jwt   *security.JWTManager
}

func newAuthServiceFixture(t *testing.T) *authServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	cfg := &config.Config{JWTAccessTTL: 15 * time.Minute}
	jwt := security.NewJWTManager("iss", "aud", "abcdefghijklmnopqrstuvwxyz123456")
	users := repogomock.NewMockUserRepository(ctrl)
	creds := repogomock.NewMockLocalCredentialRepository(ctrl)
	return &authServiceFixture{
		auth:  NewAuthService(cfg, users, creds, jwt),
		users: users,
		creds: creds,
		jwt:   jwt,
	}
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("creates user with hashed credential", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		var storedHash string
		fx.users.EXPECT().CreateWithCredential(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u *domain.User, hash string) error {
				u.ID = uuid.New()
				storedHash = hash
				return nil
			})

		res, err := fx.auth.Register(context.Background(), RegisterInput{Email: " New@Example.com ", FullName: "New User", Password: "Abc123"})
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if res.User.Email != "new@example.com" {
			t.Fatalf("expected normalized email, got %q", res.User.Email)
		}
		if !res.User.HasAnyRole(domain.RoleUser) {
			t.Fatalf("expected user role, got %v", res.User.Roles)
		}
		if ok, err := security.VerifyPassword(storedHash, "Abc123"); err != nil || !ok {
			t.Fatalf("expected argon2 hash of password, ok=%v err=%v", ok, err)
		}
		claims, err := fx.jwt.ParseAccessToken(res.Token)
		if err != nil {
			t.Fatalf("parse issued token: %v", err)
		}
		if claims.Subject != res.User.ID.String() {
			t.Fatalf("token subject %q does not match user %s", claims.Subject, res.User.ID)
		}
	})

	t.Run("duplicate email is a validation failure", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		fx.users.EXPECT().CreateWithCredential(gomock.Any(), gomock.Any(), gomock.Any()).Return(
			&repository.ConflictError{Entity: "user", Field: "email", Value: "dupe@example.com"})

		_, err := fx.auth.Register(context.Background(), RegisterInput{Email: "dupe@example.com", FullName: "Dupe", Password: "Abc123"})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects invalid input before storage", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		fx.users.EXPECT().CreateWithCredential(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		for _, in := range []RegisterInput{
			{Email: "bad-email", FullName: "User", Password: "Abc123"},
			{Email: "user@example.com", FullName: "  ", Password: "Abc123"},
			{Email: "user@example.com", FullName: "User", Password: "weak"},
		} {
			if _, err := fx.auth.Register(context.Background(), in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
			}
		}
	})
}

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid_digit", password: "Abc123", wantErr: false},
		{name: "valid_symbol", password: "Abc#def", wantErr: false},
		{name: "too_short", password: "Ab1", wantErr: true},
		{name: "too_long", password: "Abc1" + fmt.Sprintf("%060d", 0), wantErr: true},
		{name: "missing_upper", password: "abc123", wantErr: true},
		{name: "missing_lower", password: "ABC123", wantErr: true},
		{name: "missing_digit_or_symbol", password: "Abcdef", wantErr: true},
	}
	for _, tc := range tests {
		err := validatePassword(tc.password)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := security.HashPassword("Abc123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	active := &domain.User{ID: uuid.New(), Email: "test1@google.com", FullName: "Test One", IsActive: true, Roles: domain.StringList{"admin"}}

	t.Run("success", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		fx.creds.EXPECT().FindByEmail(gomock.Any(), "test1@google.com").Return(&domain.LocalCredential{UserID: active.ID, PasswordHash: hash}, nil)
		fx.users.EXPECT().FindByID(gomock.Any(), active.ID).Return(active, nil)

		res, err := fx.auth.Login(context.Background(), "TEST1@google.com", "Abc123")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		claims, err := fx.jwt.ParseAccessToken(res.Token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		if len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
			t.Fatalf("expected roles in token, got %v", claims.Roles)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		fx.creds.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, repository.ErrCredentialNotFound)
		_, err := fx.auth.Login(context.Background(), "nobody@example.com", "Abc123")
		if !errors.Is(err, ErrUnauthorized) || err.Error() != "Credentials are not valid (email)" {
			t.Fatalf("expected email credential error, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		fx.creds.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(&domain.LocalCredential{UserID: active.ID, PasswordHash: hash}, nil)
		_, err := fx.auth.Login(context.Background(), "test1@google.com", "Wrong123")
		if !errors.Is(err, ErrUnauthorized) || err.Error() != "Credentials are not valid (password)" {
			t.Fatalf("expected password credential error, got %v", err)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		fx := newAuthServiceFixture(t)
		inactive := *active
		inactive.IsActive = false
		fx.creds.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(&domain.LocalCredential{UserID: active.ID, PasswordHash: hash}, nil)
		fx.users.EXPECT().FindByID(gomock.Any(), active.ID).Return(&inactive, nil)
		if _, err := fx.auth.Login(context.Background(), "test1@google.com", "Abc123"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthServiceResolveUser(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "a@example.com", IsActive: true, Roles: domain.StringList{"user"}}

	fx := newAuthServiceFixture(t)
	token, err := fx.jwt.SignAccessToken(user.ID, user.Roles, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	fx.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
	got, err := fx.auth.ResolveUser(context.Background(), token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("expected resolved user, got %+v err=%v", got, err)
	}

	if _, err := fx.auth.ResolveUser(context.Background(), "not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage token, got %v", err)
	}

	fx.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(nil, repository.ErrUserNotFound)
	if _, err := fx.auth.ResolveUser(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted user, got %v", err)
	}

	inactive := *user
	inactive.IsActive = false
	fx.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(&inactive, nil)
	_, err = fx.auth.ResolveUser(context.Background(), token)
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "User is inactive, talk with an admin" {
		t.Fatalf("expected inactive error, got %v", err)
	}

	res, err := fx.auth.CheckStatus(context.Background(), user)
	if err != nil || res.Token == "" {
		t.Fatalf("check status: %+v err=%v", res, err)
	}
}
