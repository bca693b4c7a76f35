package models

import (
	"time"

	"gorm.io/gorm"
)

// TravelSchedule is a planned trip of a creator. EndDate >= StartDate.
// A creator may hold up to the configured cap of schedules (default 10),
// enforced at save time rather than by the database.
type TravelSchedule struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatorID uint           `json:"creatorID" gorm:"not null;index"`
	Country   string         `json:"country" gorm:"size:100;not null"`
	City      string         `json:"city" gorm:"size:100;not null"`
	StartDate time.Time      `json:"startDate" gorm:"not null"`
	EndDate   time.Time      `json:"endDate" gorm:"not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
