package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prospectgenius/dashboard/app/models"
)

// companyRepository implements the CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository instance
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// UpsertByUUID creates or updates a dataset row keyed on its external UUID
func (r *companyRepository) UpsertByUUID(company *models.Company) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"website",
			"industry",
			"funding_round",
			"funding_amount_cents",
			"investors",
			"funded_at",
			"updated_at",
		}),
	}).Create(company).Error
}

// List returns companies matching the filter plus the total match count
func (r *companyRepository) List(filter CompanyFilter) ([]models.Company, int64, error) {
	query := r.db.Model(&models.Company{})
	if filter.Industry != "" {
		query = query.Where("industry = ?", filter.Industry)
	}
	if filter.MinFundingCents > 0 {
		query = query.Where("funding_amount_cents >= ?", filter.MinFundingCents)
	}
	if filter.Investor != "" {
		query = query.Where("investors ILIKE ?", "%"+filter.Investor+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var companies []models.Company
	err := query.Order("funded_at DESC").Offset(filter.Offset).Limit(limit).Find(&companies).Error
	return companies, total, err
}

// Count returns the total number of dataset rows
func (r *companyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Company{}).Count(&count).Error
	return count, err
}
