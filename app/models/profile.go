package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ROLE_GUEST      = "guest"
	ROLE_SUBSCRIBER = "subscriber"
	ROLE_ADMIN      = "admin"
)

// Profile stores per-user application metadata. Every authenticated user has
// exactly one Profile; it is created lazily with role=guest on first access.
type Profile struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName   string         `gorm:"type:varchar(150);default:''" json:"full_name"`
	Role       string         `gorm:"type:varchar(50);default:'guest'" json:"role"`
	LegacyMeta string         `gorm:"type:text;default:''" json:"-"` // pre-migration rows may carry {"profile":{"role":...}}
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// LegacyRole extracts the role from the legacy nested metadata shape, or ""
// when the metadata is absent or unparseable.
func (p *Profile) LegacyRole() string {
	if p == nil || strings.TrimSpace(p.LegacyMeta) == "" {
		return ""
	}
	var meta struct {
		Profile struct {
			Role string `json:"role"`
		} `json:"profile"`
	}
	if err := json.Unmarshal([]byte(p.LegacyMeta), &meta); err != nil {
		return ""
	}
	return strings.TrimSpace(meta.Profile.Role)
}

// GetOrCreateProfile returns the existing profile for a user or creates one
// with role=guest. Concurrent first-logins race on the unique user_id index;
// the conflict is treated as "already exists" followed by a re-fetch.
func GetOrCreateProfile(db *gorm.DB, userID uint, fullName string) (*Profile, error) {
	var p Profile
	err := db.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	p = Profile{UserID: userID, FullName: fullName, Role: ROLE_GUEST}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&p).Error; err != nil {
		return nil, err
	}

	// Re-fetch so the loser of a concurrent insert sees the stored row.
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
