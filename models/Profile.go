package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the base identity record for every account, creator or business.
// Creator/business specific fields live in the one-to-one extension tables.
type Profile struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Email             string         `json:"email" gorm:"uniqueIndex;not null"`
	Username          string         `json:"username" gorm:"uniqueIndex;size:50"`
	UserType          string         `json:"userType" gorm:"type:varchar(20);index"` // creator, business
	Password          string         `json:"-"`
	SocialLogin       bool           `json:"socialLogin"`
	SocialProvider    string         `json:"socialProvider"`
	Location          string         `json:"location" gorm:"size:100"`
	Languages         datatypes.JSON `json:"languages"`   // array of strings
	SocialLinks       datatypes.JSON `json:"socialLinks"` // platform -> URL
	ProfilePhotoURL   string         `json:"profilePhotoURL" gorm:"size:512"`
	PortfolioItems    datatypes.JSON `json:"portfolioItems"` // ordered media URLs
	IsProfileComplete bool           `json:"isProfileComplete" gorm:"default:false"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// SocialLinkSet maps a platform name to a profile URL. Every entry is optional.
type SocialLinkSet struct {
	Instagram string `json:"instagram,omitempty"`
	Youtube   string `json:"youtube,omitempty"`
	Tiktok    string `json:"tiktok,omitempty"`
}

// Custom JSON marshaling so JSON columns render as arrays/objects, not raw bytes
func (p *Profile) MarshalJSON() ([]byte, error) {
	type Alias Profile
	aux := &struct {
		Languages      []string      `json:"languages"`
		SocialLinks    SocialLinkSet `json:"socialLinks"`
		PortfolioItems []string      `json:"portfolioItems"`
		*Alias
	}{
		Languages:      []string{},
		PortfolioItems: []string{},
		Alias:          (*Alias)(p),
	}

	if p.Languages != nil {
		var languages []string
		if err := json.Unmarshal(p.Languages, &languages); err == nil {
			aux.Languages = languages
		}
	}

	if p.SocialLinks != nil {
		var links SocialLinkSet
		if err := json.Unmarshal(p.SocialLinks, &links); err == nil {
			aux.SocialLinks = links
		}
	}

	if p.PortfolioItems != nil {
		var items []string
		if err := json.Unmarshal(p.PortfolioItems, &items); err == nil {
			aux.PortfolioItems = items
		}
	}

	return json.Marshal(aux)
}

// LanguageList decodes the Languages JSON column; empty slice when unset.
func (p *Profile) LanguageList() []string {
	if p.Languages == nil {
		return []string{}
	}
	var languages []string
	if err := json.Unmarshal(p.Languages, &languages); err != nil {
		return []string{}
	}
	return languages
}
