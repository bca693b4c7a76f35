package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"creatorplatform-server/models"
	"creatorplatform-server/storage"
)

// Seeds a handful of demo accounts so the directories have something to show
// in a fresh local environment. Safe to run repeatedly; rows are upserted by
// email.
func main() {
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}
	storage.InitializeDB()

	password, err := bcrypt.GenerateFromPassword([]byte("demo-password"), 10)
	if err != nil {
		log.Fatalf("hash demo password: %v", err)
	}

	creator := seedProfile(models.Profile{
		Email:             "mila.creator@example.com",
		Username:          "mila",
		UserType:          "creator",
		Password:          string(password),
		Languages:         mustJSON([]string{"English", "Spanish"}),
		IsProfileComplete: true,
	})
	business := seedProfile(models.Profile{
		Email:             "harbor.studio@example.com",
		Username:          "harborstudio",
		UserType:          "business",
		Password:          string(password),
		IsProfileComplete: true,
	})

	upsert("creator_id", &models.CreatorProfile{
		CreatorID:   creator.ID,
		Description: "Food and street photography, available for shoots while traveling.",
		Country:     "Spain",
		City:        "Barcelona",
	}, []string{"description", "country", "city", "updated_at"})

	upsert("business_id", &models.BusinessProfile{
		BusinessID:      business.ID,
		BusinessName:    "Harbor Studio",
		Title:           "Daylight photo studio near the port",
		Description:     "Rentable studio space with gear, looking for creators to collaborate with.",
		BusinessCountry: "Portugal",
		BusinessCity:    "Lisbon",
		Slug:            "harbor-studio",
	}, []string{"business_name", "title", "description", "business_country", "business_city", "updated_at"})

	if err := storage.DB.Where("creator_id = ?", creator.ID).
		Delete(&models.TravelSchedule{}).Error; err != nil {
		log.Fatalf("reset demo schedules: %v", err)
	}
	start := time.Now().AddDate(0, 0, 14)
	if err := storage.DB.Create(&models.TravelSchedule{
		CreatorID: creator.ID,
		Country:   "Portugal",
		City:      "Lisbon",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
	}).Error; err != nil {
		log.Fatalf("seed demo schedule: %v", err)
	}

	fmt.Println("Demo data seeded successfully!")
}

func seedProfile(profile models.Profile) models.Profile {
	err := storage.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "user_type", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		log.Fatalf("seed profile %s: %v", profile.Email, err)
	}
	return profile
}

func mustJSON(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("marshal seed json: %v", err)
	}
	return raw
}

func upsert(conflictColumn string, row interface{}, updates []string) {
	err := storage.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: conflictColumn}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(row).Error
	if err != nil {
		log.Fatalf("seed row: %v", err)
	}
}
