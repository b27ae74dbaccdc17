package routes

import (
	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers lists users with paging.
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var total int64
	storage.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := storage.DB.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminListTrips lists trips with paging, soft-deleted excluded.
func AdminListTrips(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var total int64
	storage.DB.Model(&models.Trip{}).Count(&total)

	var trips []models.Trip
	if err := storage.DB.Preload("Owner").Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&trips).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONPage(ctx, trips, page, perPage, total)
}
