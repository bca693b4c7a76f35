package routes

import (
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"

	"creatorplatform-server/models"
	"creatorplatform-server/services"
	"creatorplatform-server/storage"
	"creatorplatform-server/utils"
)

const scheduleDateLayout = "2006-01-02"

// GetMyTravelSchedules lists the caller's schedules ordered by start date.
// All rows are returned; the client decides what to render, and the display
// predicate has no lower bound anyway.
func GetMyTravelSchedules(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var schedules []models.TravelSchedule
	if err := storage.DB.Where("creator_id = ?", claims.ID).
		Order("start_date ASC").Find(&schedules).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"schedules": schedules,
		"max":       services.MaxTravelSchedules(),
	})
}

// SaveTravelSchedules replaces the caller's schedule set with the submitted
// one. Instead of delete-all-then-reinsert, the save diffs against the
// current rows and applies inserts, updates and deletes inside a single
// transaction, so a failure partway cannot leave the creator with nothing.
func SaveTravelSchedules(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input SaveTravelSchedulesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if len(input.Schedules) > services.MaxTravelSchedules() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			fmt.Sprintf("Maximum of %d travel schedules allowed.", services.MaxTravelSchedules()), ctx)
		return
	}

	// Ensure the creator profile exists before attaching schedules to it.
	var creatorProfile models.CreatorProfile
	cpQuery := storage.DB.Where("creator_id = ?", claims.ID).Limit(1).Find(&creatorProfile)
	if cpQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if cpQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Create a creator profile before adding travel schedules.", ctx)
		return
	}

	desired := make([]models.TravelSchedule, 0, len(input.Schedules))
	for i, item := range input.Schedules {
		startDate, startErr := time.Parse(scheduleDateLayout, item.StartDate)
		endDate, endErr := time.Parse(scheduleDateLayout, item.EndDate)
		if startErr != nil || endErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("Schedule %d has an invalid date (expected YYYY-MM-DD).", i+1), ctx)
			return
		}
		if endDate.Before(startDate) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				fmt.Sprintf("Schedule %d ends before it starts.", i+1), ctx)
			return
		}

		desired = append(desired, models.TravelSchedule{
			ID:        item.ID,
			CreatorID: claims.ID,
			Country:   item.Country,
			City:      item.City,
			StartDate: startDate,
			EndDate:   endDate,
		})
	}

	saved, err := applyScheduleDiff(storage.DB, claims.ID, desired)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"schedules": saved})
}

// applyScheduleDiff reconciles the creator's stored schedules with the
// desired set inside one transaction: update changed rows, insert new ones,
// delete the rest. Rows carrying IDs the creator does not own are treated as
// new; stale client state must not touch another creator's rows.
func applyScheduleDiff(db *gorm.DB, creatorID uint, desired []models.TravelSchedule) ([]models.TravelSchedule, error) {
	var saved []models.TravelSchedule
	err := db.Transaction(func(tx *gorm.DB) error {
		var current []models.TravelSchedule
		if err := tx.Where("creator_id = ?", creatorID).Find(&current).Error; err != nil {
			return err
		}

		currentByID := make(map[uint]models.TravelSchedule, len(current))
		for _, s := range current {
			currentByID[s.ID] = s
		}

		keep := make(map[uint]bool, len(desired))
		for i := range desired {
			s := &desired[i]
			existing, known := currentByID[s.ID]
			if s.ID != 0 && known {
				keep[s.ID] = true
				if existing.Country != s.Country || existing.City != s.City ||
					!existing.StartDate.Equal(s.StartDate) || !existing.EndDate.Equal(s.EndDate) {
					if err := tx.Model(&models.TravelSchedule{}).
						Where("id = ? AND creator_id = ?", s.ID, creatorID).
						Updates(map[string]interface{}{
							"country":    s.Country,
							"city":       s.City,
							"start_date": s.StartDate,
							"end_date":   s.EndDate,
						}).Error; err != nil {
						return err
					}
				}
			} else {
				s.ID = 0
				if err := tx.Create(s).Error; err != nil {
					return err
				}
				keep[s.ID] = true
			}
		}

		for id := range currentByID {
			if !keep[id] {
				if err := tx.Where("id = ? AND creator_id = ?", id, creatorID).
					Delete(&models.TravelSchedule{}).Error; err != nil {
					return err
				}
			}
		}

		return tx.Where("creator_id = ?", creatorID).
			Order("start_date ASC").Find(&saved).Error
	})
	return saved, err
}

type TravelScheduleInput struct {
	ID        uint   `json:"id"`
	Country   string `json:"country" validate:"required,max=100"`
	City      string `json:"city" validate:"required,max=100"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type SaveTravelSchedulesInput struct {
	Schedules []TravelScheduleInput `json:"schedules" validate:"required,dive"`
}
