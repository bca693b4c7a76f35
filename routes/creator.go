package routes

import (
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"creatorplatform-server/models"
	"creatorplatform-server/services"
	"creatorplatform-server/storage"
	"creatorplatform-server/utils"
)

// GetMyCreatorProfile returns the caller's creator extension row. A missing
// row is the normal "no profile yet" state, not an error.
func GetMyCreatorProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var creatorProfile models.CreatorProfile
	query := storage.DB.Where("creator_id = ?", claims.ID).Limit(1).Find(&creatorProfile)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if query.RowsAffected == 0 {
		ctx.JSON(iris.Map{"exists": false})
		return
	}

	ctx.JSON(iris.Map{"exists": true, "creatorProfile": creatorProfile})
}

// UpsertCreatorProfile creates or updates the caller's creator profile,
// keyed on creator_id so there is never more than one row per creator.
func UpsertCreatorProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input UpsertCreatorProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	creatorProfile := models.CreatorProfile{
		CreatorID:   claims.ID,
		Description: strings.TrimSpace(input.Description),
		Country:     strings.TrimSpace(input.Country),
		City:        strings.TrimSpace(input.City),
	}

	err := storage.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "creator_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "country", "city", "updated_at"}),
	}).Create(&creatorProfile).Error
	if err != nil {
		storeErr := utils.ClassifyDBError(err)
		if storeErr.Kind == utils.ErrWriteConflict {
			utils.CreateError(iris.StatusConflict, "Conflict", "Creator profile could not be saved.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"creatorProfile": creatorProfile})
}

// DeleteCreatorProfile removes the caller's creator profile and the travel
// schedules that hang off it, in one transaction.
func DeleteCreatorProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("creator_id = ?", claims.ID).Delete(&models.TravelSchedule{}).Error; err != nil {
			return err
		}
		return tx.Where("creator_id = ?", claims.ID).Delete(&models.CreatorProfile{}).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

// CreatorDirectory serves the public creator listing. The filtered set is
// always recomputed from the full fetch, and the country options are derived
// from the same snapshot so the dropdown tracks the data.
func CreatorDirectory(ctx iris.Context) {
	query := strings.TrimSpace(ctx.URLParam("query"))
	country := strings.TrimSpace(ctx.URLParam("country"))

	entries, err := services.FetchCreatorDirectory()
	if err != nil {
		utils.CreateError(iris.StatusServiceUnavailable, "Fetch Error", "Failed to load creators.", ctx)
		return
	}

	results := services.FilterCreators(entries, query, country, time.Now())

	ctx.JSON(iris.Map{
		"creators":           results,
		"availableCountries": services.AvailableCreatorCountries(entries),
		"total":              len(results),
	})
}

type UpsertCreatorProfileInput struct {
	Description string `json:"description" validate:"required,max=1000"`
	Country     string `json:"country" validate:"omitempty,max=100"`
	City        string `json:"city" validate:"omitempty,max=100"`
}
