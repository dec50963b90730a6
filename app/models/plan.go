package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Plan is a purchasable product tier. Exactly one plan per name exists in the
// active catalog; inactive plans stay referenced by historical subscriptions.
type Plan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	PriceCents int64     `gorm:"not null;default:0" json:"price_cents"`
	Features   string    `gorm:"type:text;default:'[]'" json:"-"` // JSON array of capability labels
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FeatureList decodes the stored feature labels, or an empty list when the
// column is empty or malformed.
func (p *Plan) FeatureList() []string {
	if p == nil || strings.TrimSpace(p.Features) == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(p.Features), &features); err != nil {
		return nil
	}
	return features
}

// HasFeature reports whether the plan carries the given capability label,
// compared case-insensitively.
func (p *Plan) HasFeature(name string) bool {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, f := range p.FeatureList() {
		if strings.ToLower(strings.TrimSpace(f)) == want {
			return true
		}
	}
	return false
}

// SetFeatures encodes the feature labels into the stored column.
func (p *Plan) SetFeatures(features []string) {
	b, err := json.Marshal(features)
	if err != nil {
		p.Features = "[]"
		return
	}
	p.Features = string(b)
}
