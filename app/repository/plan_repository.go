package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prospectgenius/dashboard/app/models"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// GetActive retrieves the active plan catalog ordered by price
func (r *planRepository) GetActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("is_active = ?", true).Order("price_cents ASC").Find(&plans).Error
	return plans, err
}

// GetByID retrieves a plan by its ID, active or not
func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByName retrieves an active plan by name
func (r *planRepository) GetByName(name string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Where("name = ? AND is_active = ?", name, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Upsert creates or updates a plan keyed on its unique name (catalog seed)
func (r *planRepository) Upsert(plan *models.Plan) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price_cents",
			"features",
			"is_active",
			"updated_at",
		}),
	}).Create(plan).Error; err != nil {
		return err
	}

	return r.db.Where("name = ?", plan.Name).First(plan).Error
}
