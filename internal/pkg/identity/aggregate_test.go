package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prospectgenius/dashboard/app/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func activeSub(plan string) *models.Subscription {
	return &models.Subscription{
		Status: models.SubscriptionStatusActive,
		Plan:   models.Plan{Name: plan},
	}
}

func TestDeriveCurrentUserEffectiveRole(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		want    string
	}{
		{name: "nil profile falls back to guest", profile: nil, want: "guest"},
		{name: "flat role", profile: &models.Profile{Role: "subscriber"}, want: "subscriber"},
		{
			name:    "flat role wins over legacy metadata",
			profile: &models.Profile{Role: "admin", LegacyMeta: `{"profile":{"role":"guest"}}`},
			want:    "admin",
		},
		{
			name:    "legacy nested role used when flat role is empty",
			profile: &models.Profile{LegacyMeta: `{"profile":{"role":"subscriber"}}`},
			want:    "subscriber",
		},
		{
			name:    "malformed legacy metadata degrades to guest",
			profile: &models.Profile{LegacyMeta: `{"profile":`},
			want:    "guest",
		},
		{name: "unknown role degrades to guest", profile: &models.Profile{Role: "owner"}, want: "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cu := DeriveCurrentUser(Session{UserID: 1}, tt.profile, nil, testNow)
			assert.Equal(t, tt.want, cu.EffectiveRole)
		})
	}
}

func TestDeriveCurrentUserPremiumAccess(t *testing.T) {
	past := testNow.Add(-time.Hour)

	t.Run("entitled subscription grants premium and sets plan", func(t *testing.T) {
		cu := DeriveCurrentUser(Session{UserID: 1}, &models.Profile{Role: "subscriber"}, activeSub("pro"), testNow)
		assert.True(t, cu.CanAccessPremium)
		assert.Equal(t, "pro", cu.Plan)
	})

	t.Run("expired subscription grants nothing", func(t *testing.T) {
		sub := activeSub("pro")
		sub.EndDate = &past
		cu := DeriveCurrentUser(Session{UserID: 1}, &models.Profile{Role: "subscriber"}, sub, testNow)
		assert.False(t, cu.CanAccessPremium)
		assert.Empty(t, cu.Plan)
	})

	t.Run("canceled subscription grants nothing", func(t *testing.T) {
		sub := activeSub("pro")
		sub.Status = models.SubscriptionStatusCanceled
		cu := DeriveCurrentUser(Session{UserID: 1}, &models.Profile{Role: "subscriber"}, sub, testNow)
		assert.False(t, cu.CanAccessPremium)
		assert.Empty(t, cu.Plan)
	})

	t.Run("admin has premium access without any subscription", func(t *testing.T) {
		cu := DeriveCurrentUser(Session{UserID: 1}, &models.Profile{Role: "admin"}, nil, testNow)
		assert.True(t, cu.CanAccessPremium)
		assert.Empty(t, cu.Plan)
	})

	t.Run("guest without subscription has nothing", func(t *testing.T) {
		cu := DeriveCurrentUser(Session{UserID: 1}, &models.Profile{Role: "guest"}, nil, testNow)
		assert.False(t, cu.CanAccessPremium)
		assert.Empty(t, cu.Plan)
	})
}

func TestCurrentUserUserContextProjection(t *testing.T) {
	sess := Session{UserID: 7, Email: "jane@example.com", Name: "session name"}
	profile := &models.Profile{UserID: 7, FullName: "Jane Doe", Role: "subscriber"}

	cu := DeriveCurrentUser(sess, profile, activeSub("starter"), testNow)
	uc := cu.UserContext()

	assert.Equal(t, uint(7), uc.UserID)
	assert.Equal(t, "jane@example.com", uc.Email)
	assert.Equal(t, "Jane Doe", uc.FullName, "profile name wins over session name")
	assert.True(t, uc.IsLoggedIn)
	assert.True(t, uc.Resolved)
	assert.Equal(t, "subscriber", uc.Role)
	assert.Equal(t, "starter", uc.Plan)
	assert.True(t, uc.CanAccessPremium)
}

func TestCurrentUserUserContextFallsBackToSessionName(t *testing.T) {
	sess := Session{UserID: 7, Email: "jane@example.com", Name: "Jane From OAuth"}

	cu := DeriveCurrentUser(sess, &models.Profile{UserID: 7, Role: "guest"}, nil, testNow)

	assert.Equal(t, "Jane From OAuth", cu.UserContext().FullName)
}
