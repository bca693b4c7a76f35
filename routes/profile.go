package routes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"creatorplatform-server/models"
	"creatorplatform-server/services"
	"creatorplatform-server/storage"
	"creatorplatform-server/utils"
)

// GetMyProfile returns the authenticated account's base profile.
func GetMyProfile(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var profile models.Profile
	if err := storage.DB.First(&profile, userID).Error; err != nil {
		if utils.IsNotFound(utils.ClassifyDBError(err)) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"profile": &profile})
}

// CompleteProfile sets the account's handle and type after sign-up. Until it
// runs, the account keeps its provisional username and cannot appear in
// either directory.
func CompleteProfile(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CompleteProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if taken, err := usernameTaken(username, userID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	} else if taken {
		utils.CreateError(iris.StatusConflict, "Conflict", "Username already taken.", ctx)
		return
	}

	updates := map[string]interface{}{
		"username":            username,
		"user_type":           input.UserType,
		"is_profile_complete": true,
	}
	if err := storage.DB.Model(&models.Profile{}).Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		storeErr := utils.ClassifyDBError(err)
		if storeErr.Kind == utils.ErrWriteConflict {
			utils.CreateError(iris.StatusConflict, "Conflict", "Username already taken.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"completed": true, "username": username, "userType": input.UserType})
}

// CheckUsername reports whether a handle is free, for inline form feedback.
func CheckUsername(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	username := strings.ToLower(strings.TrimSpace(ctx.URLParam("username")))
	if username == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "username query parameter is required.", ctx)
		return
	}

	taken, err := usernameTaken(username, userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"username": username, "available": !taken})
}

// UpdateProfile applies base-profile edits: handle, location, languages,
// social links and the profile photo. A base64 photo payload is pushed to
// the media store first; an already-hosted URL is stored as-is.
func UpdateProfile(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var profile models.Profile
	if err := storage.DB.First(&profile, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.Username != "" {
		username := strings.ToLower(strings.TrimSpace(input.Username))
		if username != profile.Username {
			if taken, err := usernameTaken(username, userID); err != nil {
				utils.CreateInternalServerError(ctx)
				return
			} else if taken {
				utils.CreateError(iris.StatusConflict, "Conflict", "Username already taken.", ctx)
				return
			}
			profile.Username = username
		}
	}

	profile.Location = input.Location

	languagesJSON, _ := json.Marshal(input.Languages)
	profile.Languages = datatypes.JSON(languagesJSON)

	socialLinksJSON, _ := json.Marshal(input.SocialLinks)
	profile.SocialLinks = datatypes.JSON(socialLinksJSON)

	if input.ProfilePhoto != "" && !strings.Contains(input.ProfilePhoto, "res.cloudinary.com") {
		publicID := fmt.Sprintf("profiles/%d/photo_%s", userID, uuid.NewString())
		url, uploadErr := storage.UploadBase64Image(ctx.Request().Context(), input.ProfilePhoto, publicID)
		if uploadErr != nil {
			utils.CreateError(iris.StatusBadGateway, "Upload Error", "Failed to store profile photo.", ctx)
			return
		}
		profile.ProfilePhotoURL = url
	} else if input.ProfilePhoto != "" {
		profile.ProfilePhotoURL = input.ProfilePhoto
	}

	if err := storage.DB.Save(&profile).Error; err != nil {
		storeErr := utils.ClassifyDBError(err)
		if storeErr.Kind == utils.ErrWriteConflict {
			utils.CreateError(iris.StatusConflict, "Conflict", "Username already taken.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"profile": &profile})
}

// AddPortfolioItem uploads one media item and appends its URL to the
// profile's ordered portfolio list.
func AddPortfolioItem(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input PortfolioItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var profile models.Profile
	if err := storage.DB.First(&profile, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	items := []string{}
	if profile.PortfolioItems != nil {
		json.Unmarshal(profile.PortfolioItems, &items)
	}

	publicID := fmt.Sprintf("portfolio/%d/item_%s", userID, uuid.NewString())
	url, uploadErr := storage.UploadBase64Image(ctx.Request().Context(), input.Media, publicID)
	if uploadErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upload Error", "Failed to store portfolio item.", ctx)
		return
	}

	items = append(items, url)
	itemsJSON, _ := json.Marshal(items)

	if err := storage.DB.Model(&profile).Update("portfolio_items", datatypes.JSON(itemsJSON)).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"portfolioItems": items})
}

// RemovePortfolioItem deletes one portfolio URL from the list and best-effort
// removes the backing asset.
func RemovePortfolioItem(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input RemovePortfolioItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var profile models.Profile
	if err := storage.DB.First(&profile, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	items := []string{}
	if profile.PortfolioItems != nil {
		json.Unmarshal(profile.PortfolioItems, &items)
	}

	kept := make([]string, 0, len(items))
	removed := false
	for _, item := range items {
		if item == input.URL && !removed {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		utils.CreateNotFound(ctx)
		return
	}

	itemsJSON, _ := json.Marshal(kept)
	if err := storage.DB.Model(&profile).Update("portfolio_items", datatypes.JSON(itemsJSON)).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Asset cleanup failure should not fail the save.
	storage.DeleteImage(ctx.Request().Context(), input.URL)

	ctx.JSON(iris.Map{"portfolioItems": kept})
}

// GetProfileByUsername is the public profile page: the base profile plus the
// matching extension record, and for creators their not-yet-ended trips.
func GetProfileByUsername(ctx iris.Context) {
	username := strings.ToLower(ctx.Params().Get("username"))

	var profile models.Profile
	query := storage.DB.Where("username = ?", username).Limit(1).Find(&profile)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	response := iris.Map{"profile": &profile}

	switch profile.UserType {
	case "creator":
		var creatorProfile models.CreatorProfile
		cpQuery := storage.DB.Where("creator_id = ?", profile.ID).Limit(1).Find(&creatorProfile)
		if cpQuery.Error == nil && cpQuery.RowsAffected > 0 {
			response["creatorProfile"] = creatorProfile

			var schedules []models.TravelSchedule
			if err := storage.DB.Where("creator_id = ?", profile.ID).
				Order("start_date ASC").Find(&schedules).Error; err == nil {
				now := time.Now()
				upcoming := make([]models.TravelSchedule, 0, len(schedules))
				for _, s := range schedules {
					if services.CurrentOrUpcoming(s, now) {
						upcoming = append(upcoming, s)
					}
				}
				response["travelSchedules"] = upcoming
			}
		}
	case "business":
		var businessProfile models.BusinessProfile
		bpQuery := storage.DB.Where("business_id = ?", profile.ID).Limit(1).Find(&businessProfile)
		if bpQuery.Error == nil && bpQuery.RowsAffected > 0 {
			response["businessProfile"] = businessProfile
		}
	}

	ctx.JSON(response)
}

func usernameTaken(username string, selfID uint) (bool, error) {
	var other models.Profile
	query := storage.DB.Where("username = ? AND id <> ?", username, selfID).
		Limit(1).Find(&other)
	if query.Error != nil {
		return false, query.Error
	}
	return query.RowsAffected > 0, nil
}

type CompleteProfileInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	UserType string `json:"userType" validate:"required,oneof=creator business"`
}

type UpdateProfileInput struct {
	Username     string           `json:"username" validate:"omitempty,min=3,max=50"`
	Location     string           `json:"location" validate:"max=100"`
	Languages    []string         `json:"languages" validate:"max=20,dive,max=50"`
	SocialLinks  SocialLinksInput `json:"socialLinks"`
	ProfilePhoto string           `json:"profilePhoto"`
}

// SocialLinksInput mirrors models.SocialLinkSet with URL-shape validation at
// the boundary, before anything is written.
type SocialLinksInput struct {
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
	Youtube   string `json:"youtube,omitempty" validate:"omitempty,url"`
	Tiktok    string `json:"tiktok,omitempty" validate:"omitempty,url"`
}

type PortfolioItemInput struct {
	Media string `json:"media" validate:"required"`
}

type RemovePortfolioItemInput struct {
	URL string `json:"url" validate:"required,url"`
}
