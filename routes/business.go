package routes

import (
	"fmt"
	"strings"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm/clause"

	"creatorplatform-server/models"
	"creatorplatform-server/services"
	"creatorplatform-server/storage"
	"creatorplatform-server/utils"
)

// GetMyBusinessProfile returns the caller's business extension row; a
// missing row means the profile has not been created yet.
func GetMyBusinessProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var businessProfile models.BusinessProfile
	query := storage.DB.Where("business_id = ?", claims.ID).Limit(1).Find(&businessProfile)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if query.RowsAffected == 0 {
		ctx.JSON(iris.Map{"exists": false})
		return
	}

	ctx.JSON(iris.Map{"exists": true, "businessProfile": businessProfile})
}

// UpsertBusinessProfile creates or updates the caller's listing. The slug is
// derived from the business name and probed for uniqueness with numeric
// suffixes; an edit that keeps the name keeps the slug.
func UpsertBusinessProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input UpsertBusinessProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	businessName := strings.TrimSpace(input.BusinessName)

	var existing models.BusinessProfile
	existingQuery := storage.DB.Where("business_id = ?", claims.ID).Limit(1).Find(&existing)
	if existingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	hasExisting := existingQuery.RowsAffected > 0

	var slug string
	if hasExisting && existing.BusinessName == businessName && existing.Slug != "" {
		slug = existing.Slug
	} else {
		uniqueSlug, slugErr := uniqueBusinessSlug(businessName, claims.ID)
		if slugErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		slug = uniqueSlug
	}

	businessProfile := models.BusinessProfile{
		BusinessID:      claims.ID,
		BusinessName:    businessName,
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		BusinessCountry: strings.TrimSpace(input.BusinessCountry),
		BusinessCity:    strings.TrimSpace(input.BusinessCity),
		Slug:            slug,
	}

	err := storage.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"business_name", "title", "description",
			"business_country", "business_city", "slug", "updated_at",
		}),
	}).Create(&businessProfile).Error
	if err != nil {
		storeErr := utils.ClassifyDBError(err)
		if storeErr.Kind == utils.ErrWriteConflict {
			// Slug race with a concurrent save; the client retries the action.
			utils.CreateError(iris.StatusConflict, "Conflict", "Business profile could not be saved, please retry.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"businessProfile": businessProfile})
}

// GetBusinessBySlug is the public listing detail page.
func GetBusinessBySlug(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var businessProfile models.BusinessProfile
	query := storage.DB.Where("slug = ?", slug).Limit(1).Find(&businessProfile)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var profile models.Profile
	profileQuery := storage.DB.First(&profile, businessProfile.BusinessID)
	if profileQuery.Error != nil {
		// Orphaned extension row: treat like a missing listing.
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"businessProfile": businessProfile, "profile": &profile})
}

// BusinessDirectory serves the public business listing with free-text and
// country filters.
func BusinessDirectory(ctx iris.Context) {
	query := strings.TrimSpace(ctx.URLParam("query"))
	country := strings.TrimSpace(ctx.URLParam("country"))

	entries, err := services.FetchBusinessDirectory()
	if err != nil {
		utils.CreateError(iris.StatusServiceUnavailable, "Fetch Error", "Failed to load businesses.", ctx)
		return
	}

	results := services.FilterBusinesses(entries, query, country)

	ctx.JSON(iris.Map{
		"businesses":         results,
		"availableCountries": services.AvailableBusinessCountries(entries),
		"total":              len(results),
	})
}

// uniqueBusinessSlug probes slug candidates until one is free among other
// businesses, appending -1, -2, ... on collision. The probe count is bounded
// as a safety measure.
func uniqueBusinessSlug(businessName string, selfID uint) (string, error) {
	baseSlug := utils.Slugify(businessName)
	if baseSlug == "" {
		baseSlug = "business"
	}

	slug := baseSlug
	for counter := 1; counter <= 100; counter++ {
		var other models.BusinessProfile
		query := storage.DB.Where("slug = ? AND business_id <> ?", slug, selfID).
			Limit(1).Find(&other)
		if query.Error != nil {
			return "", query.Error
		}
		if query.RowsAffected == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
	}

	return "", fmt.Errorf("could not find a unique slug for %q", businessName)
}

type UpsertBusinessProfileInput struct {
	BusinessName    string `json:"businessName" validate:"required,max=150"`
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"required,max=1000"`
	BusinessCountry string `json:"businessCountry" validate:"omitempty,max=100"`
	BusinessCity    string `json:"businessCity" validate:"omitempty,max=100"`
}
