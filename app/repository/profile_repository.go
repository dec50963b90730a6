package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/prospectgenius/dashboard/app/models"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate returns the profile for a user, creating a guest profile on
// first access. Concurrent creation is resolved by the unique user_id index.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID uint, fullName string) (*models.Profile, error) {
	return models.GetOrCreateProfile(r.db.WithContext(ctx), userID, fullName)
}

// GetByUserID retrieves a profile by the owning user's ID
func (r *profileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateName updates the display name (self-service mutation)
func (r *profileRepository) UpdateName(userID uint, fullName string) error {
	return r.db.Model(&models.Profile{}).Where("user_id = ?", userID).
		Update("full_name", fullName).Error
}

// UpdateRole updates the role (admin-only mutation)
func (r *profileRepository) UpdateRole(userID uint, role string) error {
	return r.db.Model(&models.Profile{}).Where("user_id = ?", userID).
		Update("role", role).Error
}
