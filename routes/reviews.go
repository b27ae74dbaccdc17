package routes

import (
	"errors"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Stars int    `json:"stars" validate:"required,min=1,max=5"`
	Body  string `json:"body" validate:"max=1000"`
}

// ListEventReviews returns reviews for an event plus the average rating.
// Reviews are not privacy-sensitive; no gate here.
func ListEventReviews(ctx iris.Context) {
	eventID := ctx.Params().GetUintDefault("eventId", 0)
	if eventID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid event ID", ctx)
		return
	}

	var reviews []models.EventReview
	if err := storage.DB.Preload("User").
		Where("trip_day_event_id = ?", eventID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var totalStars float64
	for _, review := range reviews {
		totalStars += float64(review.Stars)
	}
	avgRating := 0.0
	if len(reviews) > 0 {
		avgRating = totalStars / float64(len(reviews))
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"reviews":       reviews,
			"averageRating": avgRating,
			"reviewCount":   len(reviews),
		},
	})
}

// CreateEventReview requires any trip relation; one review per user per event.
func CreateEventReview(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	eventID := ctx.Params().GetUintDefault("eventId", 0)
	var event models.TripDayEvent
	if err := storage.DB.First(&event, eventID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanCreateReview(userID, &event) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Uniqueness is a conflict, not an authorization concern.
	var existing models.EventReview
	err := storage.DB.Where("trip_day_event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "You have already reviewed this event.", ctx)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.EventReview{
		TripDayEventID: eventID,
		UserID:         userID,
		Stars:          input.Stars,
		Body:           input.Body,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "You have already reviewed this event.", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": review})
}

// UpdateEventReview is author-only, independent of trip role.
func UpdateEventReview(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	reviewID := ctx.Params().GetUintDefault("id", 0)
	var review models.EventReview
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanUpdateReview(userID, &review) {
		utils.CreateForbidden(ctx)
		return
	}

	var input struct {
		Stars *int    `json:"stars" validate:"omitempty,min=1,max=5"`
		Body  *string `json:"body" validate:"omitempty,max=1000"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Stars != nil {
		review.Stars = *input.Stars
	}
	if input.Body != nil {
		review.Body = *input.Body
	}
	if err := storage.DB.Save(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": review})
}

// DeleteEventReview is author-only; a trip owner cannot delete another user's
// review.
func DeleteEventReview(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	reviewID := ctx.Params().GetUintDefault("id", 0)
	var review models.EventReview
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanDeleteReview(userID, &review) {
		utils.CreateForbidden(ctx)
		return
	}
	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}
