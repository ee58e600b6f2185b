package service

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/domain"
)

// Actor is the authenticated caller of a catalog write.
type Actor struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Roles    []string
}

func ActorFromUser(u *domain.User) Actor {
	return Actor{ID: u.ID, Email: u.Email, FullName: u.FullName, Roles: append([]string(nil), u.Roles...)}
}

func (a Actor) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(a.Roles, r) {
			return true
		}
	}
	return false
}

func (a Actor) owner() *domain.User {
	return &domain.User{ID: a.ID, Email: a.Email, FullName: a.FullName, Roles: domain.StringList(a.Roles)}
}

// MutationPolicy decides whether actor may update or remove product.
type MutationPolicy interface {
	Authorize(actor Actor, product *domain.Product) error
}

type MutationPolicyFunc func(actor Actor, product *domain.Product) error

func (f MutationPolicyFunc) Authorize(actor Actor, product *domain.Product) error {
	return f(actor, product)
}

// NewMutationPolicy builds the policy named by mode. Unknown modes fall
// back to the owner policy.
func NewMutationPolicy(mode string, roles []string) MutationPolicy {
	roles = append([]string(nil), roles...)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case config.ProductWritePolicyAuthenticated:
		return MutationPolicyFunc(func(actor Actor, _ *domain.Product) error {
			if actor.ID == uuid.Nil {
				return forbiddenError("authenticated user required")
			}
			return nil
		})
	case config.ProductWritePolicyRoles:
		return MutationPolicyFunc(func(actor Actor, _ *domain.Product) error {
			if actor.HasAnyRole(roles...) {
				return nil
			}
			return forbiddenError("User needs a valid role: [" + strings.Join(roles, ", ") + "]")
		})
	default:
		return MutationPolicyFunc(func(actor Actor, product *domain.Product) error {
			if actor.ID != uuid.Nil && actor.ID == product.OwnerID {
				return nil
			}
			if actor.HasAnyRole(roles...) {
				return nil
			}
			return forbiddenError("Only the product owner may change this product")
		})
	}
}

func NewMutationPolicyFromConfig(cfg *config.Config) MutationPolicy {
	return NewMutationPolicy(cfg.ProductWritePolicy, cfg.ProductWriteRoles)
}
