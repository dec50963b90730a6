package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is one row of the funded-companies dataset served by the dashboard
// tables. Rows are upserted by the importer keyed on the external UUID.
type Company struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UUID               string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Name               string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Website            string    `gorm:"type:varchar(255);default:''" json:"website"`
	Industry           string    `gorm:"type:varchar(100);default:'';index" json:"industry"`
	FundingRound       string    `gorm:"type:varchar(50);default:''" json:"funding_round"`
	FundingAmountCents int64     `gorm:"not null;default:0;index" json:"funding_amount_cents"`
	Investors          string    `gorm:"type:text;default:''" json:"investors"`
	FundedAt           time.Time `gorm:"index" json:"funded_at"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns an external UUID when none was provided by the import.
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}
