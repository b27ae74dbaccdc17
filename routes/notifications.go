package routes

import (
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unread int64
	storage.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	ctx.JSON(iris.Map{"success": true, "data": iris.Map{
		"notifications": notifications,
		"unreadCount":   unread,
	}})
}

func MarkNotificationRead(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	id := ctx.Params().GetUintDefault("id", 0)
	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": notification})
}
