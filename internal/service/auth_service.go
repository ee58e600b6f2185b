package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/domain"
	"github.com/sandeepkv93/catalog-service/internal/observability"
	"github.com/sandeepkv93/catalog-service/internal/repository"
	"github.com/sandeepkv93/catalog-service/internal/security"
)

type AuthService struct {
	cfg            *config.Config
	userRepo       repository.UserRepository
	localCredsRepo repository.LocalCredentialRepository
	jwt            *security.JWTManager
}

type LoginResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

var (
	errEmailCredentials    = &Error{Kind: ErrUnauthorized, Message: "Credentials are not valid (email)"}
	errPasswordCredentials = &Error{Kind: ErrUnauthorized, Message: "Credentials are not valid (password)"}
	errTokenNotValid       = &Error{Kind: ErrUnauthorized, Message: "Token not valid"}
	errUserInactive        = &Error{Kind: ErrUnauthorized, Message: "User is inactive, talk with an admin"}
)

var (
	uppercaseRe      = regexp.MustCompile(`[A-Z]`)
	lowercaseRe      = regexp.MustCompile(`[a-z]`)
	digitOrSymbolRe  = regexp.MustCompile(`[0-9]|[^A-Za-z0-9_]`)
	minPasswordLen   = 6
	maxPasswordLen   = 50
	weakPasswordText = "The password must have a Uppercase, lowercase letter and a number"
)

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, localCredsRepo repository.LocalCredentialRepository, jwt *security.JWTManager) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, localCredsRepo: localCredsRepo, jwt: jwt}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	name := strings.TrimSpace(in.FullName)
	if err := validateEmail(email); err != nil {
		observability.RecordAuthLocalFlowEvent(ctx, "register", "invalid_input")
		return nil, err
	}
	if name == "" {
		observability.RecordAuthLocalFlowEvent(ctx, "register", "invalid_input")
		return nil, validationError("fullName is required")
	}
	if err := validatePassword(in.Password); err != nil {
		observability.RecordAuthLocalFlowEvent(ctx, "register", "weak_password")
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, internalError(err)
	}
	user := &domain.User{
		Email:    email,
		FullName: name,
		IsActive: true,
		Roles:    domain.StringList{domain.RoleUser},
	}
	if err := s.userRepo.CreateWithCredential(ctx, user, hash); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			observability.RecordAuthLocalFlowEvent(ctx, "register", "duplicate")
		}
		return nil, classifyStoreError(err, email)
	}
	observability.RecordAuthLocalFlowEvent(ctx, "register", "created")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	cred, err := s.localCredsRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			observability.RecordAuthLogin(ctx, "local", "unknown_email")
			return nil, errEmailCredentials
		}
		observability.RecordAuthLogin(ctx, "local", "error")
		return nil, classifyStoreError(err, email)
	}
	ok, err := security.VerifyPassword(cred.PasswordHash, password)
	if err != nil || !ok {
		observability.RecordAuthLogin(ctx, "local", "bad_password")
		return nil, errPasswordCredentials
	}
	user, err := s.userRepo.FindByID(ctx, cred.UserID)
	if err != nil {
		observability.RecordAuthLogin(ctx, "local", "error")
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errEmailCredentials
		}
		return nil, classifyStoreError(err, email)
	}
	if !user.IsActive {
		observability.RecordAuthLogin(ctx, "local", "inactive")
		return nil, errUserInactive
	}
	observability.RecordAuthLogin(ctx, "local", "success")
	return s.issue(user)
}

// CheckStatus re-issues a token for an already resolved user.
func (s *AuthService) CheckStatus(_ context.Context, user *domain.User) (*LoginResult, error) {
	if user == nil {
		return nil, errTokenNotValid
	}
	return s.issue(user)
}

// ResolveUser validates raw and loads the active user it names.
func (s *AuthService) ResolveUser(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.jwt.ParseAccessToken(raw)
	if err != nil {
		observability.RecordAccessTokenValidation(ctx, "invalid", "header")
		return nil, errTokenNotValid
	}
	userID, _ := claims.UserID()
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAccessTokenValidation(ctx, "unknown_user", "header")
			return nil, errTokenNotValid
		}
		return nil, classifyStoreError(err, userID.String())
	}
	if !user.IsActive {
		observability.RecordAccessTokenValidation(ctx, "inactive", "header")
		return nil, errUserInactive
	}
	observability.RecordAccessTokenValidation(ctx, "ok", "header")
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*LoginResult, error) {
	token, err := s.jwt.SignAccessToken(user.ID, user.Roles, s.cfg.JWTAccessTTL)
	if err != nil {
		return nil, internalError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: time.Now().Add(s.cfg.JWTAccessTTL).UTC()}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return validationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationError("email must be an email")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return validationError("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}
	if !uppercaseRe.MatchString(password) || !lowercaseRe.MatchString(password) || !digitOrSymbolRe.MatchString(password) {
		return validationError("%s", weakPasswordText)
	}
	return nil
}
