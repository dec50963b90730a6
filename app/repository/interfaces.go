package repository

import (
	"context"
	"time"

	"github.com/prospectgenius/dashboard/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// ProfileRepository defines the interface for profile metadata operations.
// GetOrCreate is the lazy first-login bootstrap used by the identity layer.
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID uint, fullName string) (*models.Profile, error)
	GetByUserID(userID uint) (*models.Profile, error)
	UpdateName(userID uint, fullName string) error
	UpdateRole(userID uint, role string) error
}

// PlanRepository defines the interface for the plan catalog
type PlanRepository interface {
	GetActive() ([]models.Plan, error)
	GetByID(id uint) (*models.Plan, error)
	GetByName(name string) (*models.Plan, error)
	Upsert(plan *models.Plan) error
}

// SubscriptionRepository defines the interface for subscription records.
// GetCurrent returns the most recently created subscription with its plan
// preloaded, or gorm.ErrRecordNotFound when the user never subscribed.
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetCurrent(ctx context.Context, userID uint) (*models.Subscription, error)
	CancelCurrent(userID uint, endDate time.Time) error
	ListByUser(userID uint) ([]models.Subscription, error)
}

// CompanyFilter narrows the funded-companies listing. MinFundingCents and
// Investor are premium-only filters; the handler gates them before calling.
type CompanyFilter struct {
	Industry        string
	MinFundingCents int64
	Investor        string
	Offset          int
	Limit           int
}

// CompanyRepository defines the interface for the funded-companies dataset
type CompanyRepository interface {
	UpsertByUUID(company *models.Company) error
	List(filter CompanyFilter) ([]models.Company, int64, error)
	Count() (int64, error)
}
