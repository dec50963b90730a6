package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prospectgenius/dashboard/app/models"
	"github.com/prospectgenius/dashboard/internal/pkg/usercontext"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{in: "admin", want: RoleAdmin},
		{in: "ADMIN", want: RoleAdmin},
		{in: "  Subscriber ", want: RoleSubscriber},
		{in: "guest", want: RoleGuest},
		{in: "", want: RoleGuest},
		{in: "superuser", want: RoleGuest},
	}

	for _, tt := range tests {
		if got := NormalizeRole(tt.in); got != tt.want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsEntitled(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		want bool
	}{
		{name: "nil subscription", sub: nil, want: false},
		{
			name: "active without end date",
			sub:  &models.Subscription{Status: models.SubscriptionStatusActive},
			want: true,
		},
		{
			name: "active with future end date",
			sub:  &models.Subscription{Status: models.SubscriptionStatusActive, EndDate: &future},
			want: true,
		},
		{
			name: "active but end date passed",
			sub:  &models.Subscription{Status: models.SubscriptionStatusActive, EndDate: &past},
			want: false,
		},
		{
			name: "status compared case-insensitively",
			sub:  &models.Subscription{Status: "Active"},
			want: true,
		},
		{
			name: "canceled is never entitled",
			sub:  &models.Subscription{Status: models.SubscriptionStatusCanceled},
			want: false,
		},
		{
			name: "past_due is not entitled",
			sub:  &models.Subscription{Status: models.SubscriptionStatusPastDue},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEntitled(tt.sub, now))
		})
	}
}

func TestEvaluatePendingBeforeResolution(t *testing.T) {
	d := Evaluate(usercontext.UserContext{}, Requirement{AllowedRoles: []string{"admin"}})
	assert.Equal(t, StatePending, d.State)
	assert.False(t, d.Allowed())
}

func TestEvaluateUnauthenticatedShortCircuits(t *testing.T) {
	uc := usercontext.UserContext{Resolved: true, IsLoggedIn: false}

	d := Evaluate(uc, Requirement{AllowedRoles: []string{"guest"}})

	// No role or plan evaluation happens without a session.
	assert.Equal(t, StateUnauthenticated, d.State)
	assert.Empty(t, d.CurrentRole)
}

func TestEvaluateRoleRequirement(t *testing.T) {
	subscriber := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber"}

	allowed := Evaluate(subscriber, Requirement{AllowedRoles: []string{"Subscriber", "admin"}})
	assert.Equal(t, StateAllow, allowed.State)
	assert.True(t, allowed.Allowed())

	denied := Evaluate(subscriber, Requirement{AllowedRoles: []string{"admin"}})
	assert.Equal(t, StateDeny, denied.State)
	assert.Equal(t, "subscriber", denied.CurrentRole)
	assert.Equal(t, []string{"admin"}, denied.RequiredRoles)
}

func TestEvaluatePlanRequirement(t *testing.T) {
	tests := []struct {
		name string
		uc   usercontext.UserContext
		req  Requirement
		want State
	}{
		{
			name: "entitled plan passes",
			uc:   usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber", Plan: "pro"},
			req:  Requirement{AllowedPlans: []string{"starter", "pro"}},
			want: StateAllow,
		},
		{
			name: "plan compared case-insensitively",
			uc:   usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber", Plan: "Pro"},
			req:  Requirement{AllowedPlans: []string{"PRO"}},
			want: StateAllow,
		},
		{
			name: "no plan is denied",
			uc:   usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber"},
			req:  Requirement{AllowedPlans: []string{"starter", "pro"}},
			want: StateDeny,
		},
		{
			name: "wrong plan is denied",
			uc:   usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber", Plan: "starter"},
			req:  Requirement{AllowedPlans: []string{"pro"}},
			want: StateDeny,
		},
		{
			name: "admin passes plan requirement without a subscription",
			uc:   usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "admin"},
			req:  Requirement{AllowedPlans: []string{"starter", "pro"}},
			want: StateAllow,
		},
		{
			name: "admin bypass does not extend to role requirements",
			uc:   usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "admin"},
			req:  Requirement{AllowedRoles: []string{"subscriber"}},
			want: StateDeny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.uc, tt.req).State)
		})
	}
}

func TestEvaluateCombinedRequirementNeedsBoth(t *testing.T) {
	req := Requirement{
		AllowedRoles: []string{"subscriber"},
		AllowedPlans: []string{"pro"},
	}

	both := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber", Plan: "pro"}
	assert.True(t, Evaluate(both, req).Allowed())

	roleOnly := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "subscriber", Plan: "starter"}
	assert.Equal(t, StateDeny, Evaluate(roleOnly, req).State)

	planOnly := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "guest", Plan: "pro"}
	assert.Equal(t, StateDeny, Evaluate(planOnly, req).State)
}

func TestEvaluateZeroRequirementOnlyNeedsSession(t *testing.T) {
	req := Requirement{}
	assert.True(t, req.IsZero())

	guest := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "guest"}
	assert.True(t, Evaluate(guest, req).Allowed())

	anon := usercontext.UserContext{Resolved: true}
	assert.Equal(t, StateUnauthenticated, Evaluate(anon, req).State)
}

func TestEvaluateUnknownRoleDegradesToGuest(t *testing.T) {
	uc := usercontext.UserContext{Resolved: true, IsLoggedIn: true, Role: "owner"}

	d := Evaluate(uc, Requirement{AllowedRoles: []string{"subscriber", "admin"}})
	assert.Equal(t, StateDeny, d.State)
	assert.Equal(t, "guest", d.CurrentRole)

	d = Evaluate(uc, Requirement{AllowedRoles: []string{"guest"}})
	assert.True(t, d.Allowed())
}
