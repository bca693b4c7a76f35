package models

import (
	"time"

	"gorm.io/gorm"
)

// BusinessProfile extends a business Profile with a public listing.
// Slug is unique across all business profiles and is regenerated only when
// the business name changes, otherwise it survives edits.
type BusinessProfile struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	BusinessID      uint           `json:"businessID" gorm:"not null;uniqueIndex"`
	BusinessName    string         `json:"businessName" gorm:"size:150;not null"`
	Title           string         `json:"title" gorm:"size:200;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	BusinessCountry string         `json:"businessCountry" gorm:"size:100;index"`
	BusinessCity    string         `json:"businessCity" gorm:"size:100"`
	Slug            string         `json:"slug" gorm:"size:200;uniqueIndex"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	Profile Profile `json:"profile" gorm:"foreignKey:BusinessID"`
}
