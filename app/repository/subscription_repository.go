package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/prospectgenius/dashboard/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates a new subscription record
func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// GetCurrent returns the most recently created subscription for a user with
// its plan preloaded. Returns gorm.ErrRecordNotFound when none exists.
func (r *subscriptionRepository) GetCurrent(ctx context.Context, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelCurrent marks the current subscription canceled with the given end
// date. The record is kept; the grace period is honored until EndDate.
func (r *subscriptionRepository) CancelCurrent(userID uint, endDate time.Time) error {
	sub, err := r.GetCurrent(context.Background(), userID)
	if err != nil {
		return err
	}
	return r.db.Model(sub).Updates(map[string]interface{}{
		"status":   models.SubscriptionStatusCanceled,
		"end_date": endDate,
	}).Error
}

// ListByUser returns all subscription records for a user, newest first
func (r *subscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Plan").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}
