package routes

import (
	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/services"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
)

type CreateFollowInput struct {
	FollowingID uint `json:"followingID" validate:"required"`
}

type RespondFollowInput struct {
	Accept bool `json:"accept"`
}

func CreateFollow(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	if !policies.CanCreateFollow(userID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateFollowInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	follow, err := services.Follows.Create(userID, input.FollowingID)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": follow})
}

// ListFollows returns the caller's edges in both directions.
func ListFollows(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	var following []models.UserFollow
	storage.DB.Preload("Following").Where("follower_id = ?", userID).Find(&following)

	var followers []models.UserFollow
	storage.DB.Preload("Follower").Where("following_id = ?", userID).Find(&followers)

	ctx.JSON(iris.Map{"success": true, "data": iris.Map{
		"following": following,
		"followers": followers,
	}})
}

func GetFollow(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	var follow models.UserFollow
	if err := storage.DB.First(&follow, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanViewFollow(userID, &follow) {
		utils.CreateForbidden(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": follow})
}

// RespondFollow accepts or declines a pending request (followed party only).
func RespondFollow(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	var input RespondFollowInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	follow, err := services.Follows.Respond(userID, id, input.Accept)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": follow})
}

// DeleteFollow is unfollow or remove-follower; either party.
func DeleteFollow(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	if err := services.Follows.Delete(userID, id); err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}
