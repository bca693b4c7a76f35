package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"creatorplatform-server/models"
	"creatorplatform-server/storage"
)

func setupDirectoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.CreatorProfile{},
		&models.BusinessProfile{},
		&models.TravelSchedule{},
	))

	previous := storage.DB
	storage.DB = db
	t.Cleanup(func() { storage.DB = previous })

	return db
}

func TestFetchCreatorDirectory(t *testing.T) {
	db := setupDirectoryDB(t)

	older := models.Profile{Email: "ana@example.com", Username: "ana", UserType: "creator"}
	newer := models.Profile{Email: "bo@example.com", Username: "bo", UserType: "creator"}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	require.NoError(t, db.Create(&models.CreatorProfile{
		CreatorID: older.ID, Description: "food photography", Country: "Spain",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&models.CreatorProfile{
		CreatorID: newer.ID, Description: "travel vlogs", Country: "Portugal",
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
	// Extension row without a base profile must not surface.
	require.NoError(t, db.Create(&models.CreatorProfile{
		CreatorID: 9999, Description: "orphan", Country: "Nowhere",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	// Schedules inserted out of date order; the fetch sorts them.
	require.NoError(t, db.Create(&models.TravelSchedule{
		CreatorID: older.ID, Country: "Japan", City: "Tokyo",
		StartDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&models.TravelSchedule{
		CreatorID: older.ID, Country: "Italy", City: "Rome",
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
	}).Error)

	entries, err := FetchCreatorDirectory()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest creator profile first.
	assert.Equal(t, "bo", entries[0].Profile.Username)
	assert.Equal(t, "ana", entries[1].Profile.Username)

	require.Len(t, entries[1].Schedules, 2)
	assert.Equal(t, "Rome", entries[1].Schedules[0].City)
	assert.Equal(t, "Tokyo", entries[1].Schedules[1].City)
	assert.Empty(t, entries[0].Schedules)
}

func TestFetchBusinessDirectory(t *testing.T) {
	db := setupDirectoryDB(t)

	owner := models.Profile{Email: "studio@example.com", Username: "studio", UserType: "business"}
	require.NoError(t, db.Create(&owner).Error)

	require.NoError(t, db.Create(&models.BusinessProfile{
		BusinessID: owner.ID, BusinessName: "Studio One",
		Title: "Photo studio", Slug: "studio-one",
	}).Error)
	require.NoError(t, db.Create(&models.BusinessProfile{
		BusinessID: 9999, BusinessName: "Ghost", Slug: "ghost",
	}).Error)

	entries, err := FetchBusinessDirectory()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Studio One", entries[0].BusinessProfile.BusinessName)
	assert.Equal(t, "studio", entries[0].Profile.Username)
}
