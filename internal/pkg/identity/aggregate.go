package identity

import (
	"strings"
	"time"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/internal/pkg/entitlements"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

// Session is the read-only identity handle issued by the session provider.
// Other components hold only this view and never cache credentials.
type Session struct {
	UserID uint
	Email  string
	Name   string
}

// CurrentUser is the aggregate read model merging session, profile and
// subscription. It is derived in memory, never persisted, and recomputed
// whenever any constituent changes.
type CurrentUser struct {
	Session          Session
	Profile          *models.Profile
	Subscription     *models.Subscription
	EffectiveRole    string
	Plan             string // entitling plan name, "" when none
	CanAccessPremium bool
	ResolvedAt       time.Time
}

// DeriveCurrentUser merges the three sources into one canonical view.
//
// Effective role resolution order, first non-empty wins: flat profile role,
// legacy nested role, guest. Premium access is granted to admins regardless
// of subscription state, otherwise only to entitled subscriptions.
func DeriveCurrentUser(sess Session, profile *models.Profile, sub *models.Subscription, now time.Time) CurrentUser {
	role := effectiveRole(profile)
	entitled := entitlements.IsEntitled(sub, now)

	plan := ""
	if entitled {
		plan = sub.PlanName()
	}

	return CurrentUser{
		Session:          sess,
		Profile:          profile,
		Subscription:     sub,
		EffectiveRole:    string(role),
		Plan:             plan,
		CanAccessPremium: role == entitlements.RoleAdmin || entitled,
		ResolvedAt:       now,
	}
}

func effectiveRole(profile *models.Profile) entitlements.Role {
	if profile == nil {
		return entitlements.RoleGuest
	}
	if strings.TrimSpace(profile.Role) != "" {
		return entitlements.NormalizeRole(profile.Role)
	}
	if legacy := profile.LegacyRole(); legacy != "" {
		return entitlements.NormalizeRole(legacy)
	}
	return entitlements.RoleGuest
}

// UserContext projects the aggregate into the per-request view handed to
// controllers and guards.
func (cu CurrentUser) UserContext() usercontext.UserContext {
	fullName := cu.Session.Name
	if cu.Profile != nil && cu.Profile.FullName != "" {
		fullName = cu.Profile.FullName
	}
	return usercontext.UserContext{
		UserID:           cu.Session.UserID,
		Email:            cu.Session.Email,
		FullName:         fullName,
		IsLoggedIn:       true,
		Resolved:         true,
		Role:             cu.EffectiveRole,
		Plan:             cu.Plan,
		CanAccessPremium: cu.CanAccessPremium,
	}
}
