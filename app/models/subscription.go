package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// Subscription binds a user to a plan over time. The most recently created
// row per user is the current one; cancellation sets EndDate instead of
// deleting, so the grace period is honored until EndDate passes.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	PlanID    uint       `gorm:"not null;index" json:"plan_id"`
	Plan      Plan       `gorm:"foreignKey:PlanID" json:"plan"`
	Status    string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:timestamp;default:null" json:"end_date,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// PlanName returns the associated plan's name, or "" when the relation was
// not preloaded.
func (s *Subscription) PlanName() string {
	if s == nil {
		return ""
	}
	return s.Plan.Name
}
