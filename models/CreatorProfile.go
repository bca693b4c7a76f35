package models

import (
	"time"

	"gorm.io/gorm"
)

// CreatorProfile extends a creator Profile with directory-facing fields.
// At most one row per creator; writes go through an upsert on CreatorID.
type CreatorProfile struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatorID   uint           `json:"creatorID" gorm:"not null;uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	Country     string         `json:"country" gorm:"size:100;index"`
	City        string         `json:"city" gorm:"size:100"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"profile" gorm:"foreignKey:CreatorID"`
}
