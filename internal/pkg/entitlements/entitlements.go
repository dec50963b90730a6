package entitlements

import (
	"strings"
	"time"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

type Role string

const (
	RoleGuest      Role = "guest"
	RoleSubscriber Role = "subscriber"
	RoleAdmin      Role = "admin"
)

// NormalizeRole maps stored role values to a canonical role. Unknown or
// empty values degrade to guest, never to more privilege.
func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleSubscriber):
		return RoleSubscriber
	default:
		return RoleGuest
	}
}

// NormalizePlanName canonicalizes a plan name for comparison.
func NormalizePlanName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsEntitled reports whether a subscription grants premium access at the
// given instant. A status of "active" with an EndDate in the past is not
// entitled; expiry is derived here, not stored.
func IsEntitled(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if !strings.EqualFold(sub.Status, models.SubscriptionStatusActive) {
		return false
	}
	return sub.EndDate == nil || !sub.EndDate.Before(now)
}

// Requirement describes what a guarded region demands. When both role and
// plan sets are given, the caller must satisfy both.
type Requirement struct {
	AllowedRoles []string
	AllowedPlans []string
}

// IsZero reports whether the requirement demands nothing beyond a session.
func (r Requirement) IsZero() bool {
	return len(r.AllowedRoles) == 0 && len(r.AllowedPlans) == 0
}

type State string

const (
	StateAllow           State = "allow"
	StateDeny            State = "deny"
	StatePending         State = "pending"
	StateUnauthenticated State = "unauthenticated"
)

// Decision is the gate's verdict. Deny carries the current role/plan and
// what was required so callers can render a useful explanation.
type Decision struct {
	State         State    `json:"state"`
	CurrentRole   string   `json:"current_role,omitempty"`
	CurrentPlan   string   `json:"current_plan,omitempty"`
	RequiredRoles []string `json:"required_roles,omitempty"`
	RequiredPlans []string `json:"required_plans,omitempty"`
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.State == StateAllow
}

// Evaluate decides whether the current user satisfies the requirement.
//
// Resolution order: an incomplete resolution yields Pending (never Allow),
// a missing session short-circuits to Unauthenticated without role/plan
// evaluation, then role and plan sets are matched case-insensitively.
// Admins pass plan requirements regardless of subscription state; this is
// an explicit override.
func Evaluate(uc usercontext.UserContext, req Requirement) Decision {
	if !uc.Resolved {
		return Decision{State: StatePending}
	}
	if !uc.IsLoggedIn {
		return Decision{State: StateUnauthenticated}
	}

	role := NormalizeRole(uc.Role)
	plan := NormalizePlanName(uc.Plan)

	deny := Decision{
		State:         StateDeny,
		CurrentRole:   string(role),
		CurrentPlan:   plan,
		RequiredRoles: req.AllowedRoles,
		RequiredPlans: req.AllowedPlans,
	}

	if len(req.AllowedRoles) > 0 && !containsRole(req.AllowedRoles, role) {
		return deny
	}
	if len(req.AllowedPlans) > 0 && role != RoleAdmin && !containsPlan(req.AllowedPlans, plan) {
		return deny
	}

	return Decision{
		State:       StateAllow,
		CurrentRole: string(role),
		CurrentPlan: plan,
	}
}

func containsRole(allowed []string, role Role) bool {
	for _, a := range allowed {
		if NormalizeRole(a) == role {
			return true
		}
	}
	return false
}

func containsPlan(allowed []string, plan string) bool {
	if plan == "" {
		return false
	}
	for _, a := range allowed {
		if NormalizePlanName(a) == plan {
			return true
		}
	}
	return false
}
