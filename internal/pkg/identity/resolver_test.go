package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/prospectgenius/dashboard/app/models"
)

type fakeProfiles struct {
	mu      sync.Mutex
	calls   int
	profile *models.Profile
	err     error
}

func (f *fakeProfiles) GetOrCreate(_ context.Context, userID uint, fullName string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return &models.Profile{UserID: userID, FullName: fullName, Role: models.ROLE_GUEST}, nil
}

func (f *fakeProfiles) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSubs struct {
	mu    sync.Mutex
	calls int
	sub   *models.Subscription
	err   error
}

func (f *fakeSubs) GetCurrent(_ context.Context, _ uint) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.sub == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.sub, nil
}

func (f *fakeSubs) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResolveProfileCreatesGuestOnFirstLogin(t *testing.T) {
	r := NewResolver(&fakeProfiles{}, &fakeSubs{})

	p := r.ResolveProfile(context.Background(), Session{UserID: 42, Name: "New User"})

	assert.Equal(t, uint(42), p.UserID)
	assert.Equal(t, models.ROLE_GUEST, p.Role)
	assert.Equal(t, "New User", p.FullName)
}

func TestResolveProfileDegradesToGuestOnFailure(t *testing.T) {
	r := NewResolver(&fakeProfiles{err: errors.New("connection refused")}, &fakeSubs{})

	p := r.ResolveProfile(context.Background(), Session{UserID: 42, Name: "Jane"})

	// A metadata-store outage must never block login or grant privilege.
	assert.NotNil(t, p)
	assert.Equal(t, models.ROLE_GUEST, p.Role)
	assert.Equal(t, uint(42), p.UserID)
}

func TestResolveProfileNormalizesLegacyRoleShape(t *testing.T) {
	stored := &models.Profile{UserID: 42, LegacyMeta: `{"profile":{"role":"Admin"}}`}
	r := NewResolver(&fakeProfiles{profile: stored}, &fakeSubs{})

	p := r.ResolveProfile(context.Background(), Session{UserID: 42})

	assert.Equal(t, models.ROLE_ADMIN, p.Role, "legacy nested role is lifted into the flat column")
}

func TestResolveProfileFlatRoleWinsOverLegacy(t *testing.T) {
	stored := &models.Profile{UserID: 42, Role: "subscriber", LegacyMeta: `{"profile":{"role":"admin"}}`}
	r := NewResolver(&fakeProfiles{profile: stored}, &fakeSubs{})

	p := r.ResolveProfile(context.Background(), Session{UserID: 42})

	assert.Equal(t, models.ROLE_SUBSCRIBER, p.Role)
}

func TestResolveSubscription(t *testing.T) {
	t.Run("missing subscription yields nil", func(t *testing.T) {
		r := NewResolver(&fakeProfiles{}, &fakeSubs{})
		assert.Nil(t, r.ResolveSubscription(context.Background(), 42))
	})

	t.Run("backend failure yields nil, never entitlement", func(t *testing.T) {
		r := NewResolver(&fakeProfiles{}, &fakeSubs{err: errors.New("timeout")})
		assert.Nil(t, r.ResolveSubscription(context.Background(), 42))
	})

	t.Run("current subscription is returned as stored", func(t *testing.T) {
		sub := &models.Subscription{UserID: 42, Status: models.SubscriptionStatusActive}
		r := NewResolver(&fakeProfiles{}, &fakeSubs{sub: sub})
		assert.Equal(t, sub, r.ResolveSubscription(context.Background(), 42))
	})
}
