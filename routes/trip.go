package routes

import (
	"errors"
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/services"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type CreateTripInput struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=2000"`
	IsPublic    bool       `json:"isPublic"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CoverURL    string     `json:"coverURL" validate:"max=512"`
}

type UpdateTripInput struct {
	Name        *string    `json:"name" validate:"omitempty,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	IsPublic    *bool      `json:"isPublic"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CoverURL    *string    `json:"coverURL" validate:"omitempty,max=512"`
}

type TripMemberInput struct {
	UserID uint   `json:"userID" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=admin participant"`
}

func validTripDates(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !end.Before(*start)
}

func CreateTrip(ctx iris.Context) {
	userID, ok := utils.CurrentUserID(ctx)
	if !ok || !policies.CanCreateTrip(userID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateTripInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validTripDates(input.StartDate, input.EndDate) {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation error", "endDate must not be before startDate", ctx)
		return
	}

	trip := models.Trip{
		OwnerID:     userID,
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CoverURL:    input.CoverURL,
	}
	if err := storage.DB.Create(&trip).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": trip})
}

// GetUserTrips lists trips the caller owns or collaborates on.
func GetUserTrips(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	var memberTripIDs []uint
	storage.DB.Model(&models.TripMember{}).Where("user_id = ?", userID).Pluck("trip_id", &memberTripIDs)

	var trips []models.Trip
	query := storage.DB.Preload("Members")
	if len(memberTripIDs) > 0 {
		query = query.Where("owner_id = ? OR id IN ?", userID, memberTripIDs)
	} else {
		query = query.Where("owner_id = ?", userID)
	}
	if err := query.Order("created_at DESC").Find(&trips).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": trips})
}

func GetTrip(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}
	if !policies.CanViewTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	storage.DB.Preload("Members.User").Preload("Days.Cities.Events.Place").First(trip, trip.ID)
	ctx.JSON(iris.Map{"success": true, "data": trip})
}

func UpdateTrip(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}
	if !policies.CanUpdateTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateTripInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		trip.Name = *input.Name
	}
	if input.Description != nil {
		trip.Description = *input.Description
	}
	if input.IsPublic != nil {
		trip.IsPublic = *input.IsPublic
	}
	if input.StartDate != nil {
		trip.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		trip.EndDate = input.EndDate
	}
	if input.CoverURL != nil {
		trip.CoverURL = *input.CoverURL
	}
	if !validTripDates(trip.StartDate, trip.EndDate) {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation error", "endDate must not be before startDate", ctx)
		return
	}

	// Invalidate before the write lands so a stale read recomputes.
	services.Summaries.Invalidate(trip.ID)
	if err := storage.DB.Save(trip).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": trip})
}

// DeleteTrip is owner-only; admins may not delete.
func DeleteTrip(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}
	if !policies.CanDeleteTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	services.Summaries.Invalidate(trip.ID)
	if err := storage.DB.Delete(trip).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

// GetTripSummary returns the cached itinerary aggregate.
func GetTripSummary(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}
	if !policies.CanViewTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	summary, err := services.Summaries.Summary(trip.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": summary})
}

// AddTripMember attaches a collaborator. Owner and admins may add
// participants; only the owner grants the admin role.
func AddTripMember(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}
	if !policies.CanUpdateTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	var input TripMemberInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains([]string{models.TripMemberRoleAdmin, models.TripMemberRoleParticipant}, input.Role) {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation error", "role must be admin or participant", ctx)
		return
	}
	if input.Role == models.TripMemberRoleAdmin && policies.TripRole(userID, trip) != policies.TripRoleOwner {
		utils.CreateForbidden(ctx)
		return
	}
	if input.UserID == trip.OwnerID {
		utils.CreateError(iris.StatusConflict, "Conflict", "The owner is already part of the trip.", ctx)
		return
	}

	var existing models.TripMember
	err := storage.DB.Where("trip_id = ? AND user_id = ?", trip.ID, input.UserID).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "User is already a member of this trip.", ctx)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	member := models.TripMember{TripID: trip.ID, UserID: input.UserID, Role: input.Role}
	if err := storage.DB.Create(&member).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "User is already a member of this trip.", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": member})
}

// UpdateTripMemberRole changes a member's role; owner only for admin grants.
func UpdateTripMemberRole(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}

	memberID := ctx.Params().GetUintDefault("memberId", 0)
	var member models.TripMember
	if err := storage.DB.Where("id = ? AND trip_id = ?", memberID, trip.ID).First(&member).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input struct {
		Role string `json:"role" validate:"required,oneof=admin participant"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	role := policies.TripRole(userID, trip)
	if role != policies.TripRoleOwner && role != policies.TripRoleAdmin {
		utils.CreateForbidden(ctx)
		return
	}
	// Granting or revoking admin is the owner's call.
	if (input.Role == models.TripMemberRoleAdmin || member.Role == models.TripMemberRoleAdmin) &&
		role != policies.TripRoleOwner {
		utils.CreateForbidden(ctx)
		return
	}

	member.Role = input.Role
	if err := storage.DB.Save(&member).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": member})
}

// RemoveTripMember detaches a collaborator. A member may always remove
// themselves; otherwise the update gate applies, owner-only for admins.
func RemoveTripMember(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}

	memberID := ctx.Params().GetUintDefault("memberId", 0)
	var member models.TripMember
	if err := storage.DB.Where("id = ? AND trip_id = ?", memberID, trip.ID).First(&member).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if member.UserID != userID {
		role := policies.TripRole(userID, trip)
		if role != policies.TripRoleOwner && role != policies.TripRoleAdmin {
			utils.CreateForbidden(ctx)
			return
		}
		if member.Role == models.TripMemberRoleAdmin && role != policies.TripRoleOwner {
			utils.CreateForbidden(ctx)
			return
		}
	}

	if err := storage.DB.Delete(&member).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func loadTrip(ctx iris.Context) (*models.Trip, bool) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid trip ID", ctx)
		return nil, false
	}
	var trip models.Trip
	if err := storage.DB.First(&trip, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}
	return &trip, true
}
