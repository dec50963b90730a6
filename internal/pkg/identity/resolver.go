package identity

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
)

// ProfileStore is the slice of the data service the profile resolver needs.
type ProfileStore interface {
	GetOrCreate(ctx context.Context, userID uint, fullName string) (*models.Profile, error)
}

// SubscriptionStore returns the most recent subscription for a user with its
// plan preloaded, or gorm.ErrRecordNotFound when none exists.
type SubscriptionStore interface {
	GetCurrent(ctx context.Context, userID uint) (*models.Subscription, error)
}

// Resolver fetches profile and subscription state with safe-default
// degradation: a backend outage yields a guest profile and no entitlement,
// never an error surfaced to callers and never more privilege than the
// evidence supports.
type Resolver struct {
	profiles ProfileStore
	subs     SubscriptionStore
}

func NewResolver(profiles ProfileStore, subs SubscriptionStore) *Resolver {
	return &Resolver{profiles: profiles, subs: subs}
}

// ResolveProfile looks up the stored profile for a session, creating one
// with role=guest on first login. On any failure it returns a synthetic
// guest profile so callers are never blocked by a metadata-store outage.
// The role is normalized to the flat shape here so nothing downstream
// branches on the legacy nested form again.
func (r *Resolver) ResolveProfile(ctx context.Context, sess Session) *models.Profile {
	p, err := r.profiles.GetOrCreate(ctx, sess.UserID, sess.Name)
	if err != nil || p == nil {
		if err != nil {
			log.Printf("identity: profile lookup for user %d degraded to guest: %v", sess.UserID, err)
		}
		return &models.Profile{UserID: sess.UserID, FullName: sess.Name, Role: models.ROLE_GUEST}
	}
	return normalizeProfile(p)
}

// ResolveSubscription returns the current subscription for a user, or nil
// when none exists or the fetch fails. Errors never grant entitlement.
func (r *Resolver) ResolveSubscription(ctx context.Context, userID uint) *models.Subscription {
	sub, err := r.subs.GetCurrent(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			log.Printf("identity: subscription lookup for user %d failed, treating as none: %v", userID, err)
		}
		return nil
	}
	return sub
}

// normalizeProfile resolves the role shape at the boundary: the flat Role
// column wins, then the legacy nested metadata, then guest.
func normalizeProfile(p *models.Profile) *models.Profile {
	if strings.TrimSpace(p.Role) == "" {
		if legacy := p.LegacyRole(); legacy != "" {
			log.Printf("identity: profile %d carries role only in legacy nested shape, normalizing", p.UserID)
			p.Role = legacy
		}
	}
	p.Role = string(entitlements.NormalizeRole(p.Role))
	return p
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
