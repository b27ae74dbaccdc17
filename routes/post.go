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

type CreatePostInput struct {
	Body     string `json:"body" validate:"required,max=5000"`
	PhotoURL string `json:"photoURL" validate:"max=512"`
	TripID   *uint  `json:"tripID"`
}

func CreatePost(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	if !policies.CanCreatePost(userID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreatePostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.TripID != nil {
		var trip models.Trip
		if err := storage.DB.First(&trip, *input.TripID).Error; err != nil {
			utils.CreateNotFound(ctx)
			return
		}
		// Attaching a post to a trip requires being part of it.
		if policies.TripRole(userID, &trip) == policies.TripRoleNone {
			utils.CreateForbidden(ctx)
			return
		}
	}

	post := models.Post{UserID: userID, TripID: input.TripID, Body: input.Body, PhotoURL: input.PhotoURL}
	if err := storage.DB.Create(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": post})
}

func GetPost(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	post, found := loadPost(ctx)
	if !found {
		return
	}
	if !policies.CanViewPost(userID, post) {
		utils.CreateForbidden(ctx)
		return
	}

	storage.DB.Preload("User").Preload("Comments.User").Preload("Likes").First(post, post.ID)
	ctx.JSON(iris.Map{"success": true, "data": post})
}

// ListUserPosts returns another user's posts, filtered through the view
// policy one by one.
func ListUserPosts(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	authorID := ctx.Params().GetUintDefault("id", 0)

	var posts []models.Post
	if err := storage.DB.Where("user_id = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	visible := make([]models.Post, 0, len(posts))
	for i := range posts {
		if policies.CanViewPost(userID, &posts[i]) {
			visible = append(visible, posts[i])
		}
	}
	ctx.JSON(iris.Map{"success": true, "data": visible})
}

func UpdatePost(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	post, found := loadPost(ctx)
	if !found {
		return
	}
	if !policies.CanUpdatePost(userID, post) {
		utils.CreateForbidden(ctx)
		return
	}

	var input struct {
		Body     *string `json:"body" validate:"omitempty,max=5000"`
		PhotoURL *string `json:"photoURL" validate:"omitempty,max=512"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.PhotoURL != nil {
		post.PhotoURL = *input.PhotoURL
	}
	if err := storage.DB.Save(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": post})
}

func DeletePost(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	post, found := loadPost(ctx)
	if !found {
		return
	}
	if !policies.CanDeletePost(userID, post) {
		utils.CreateForbidden(ctx)
		return
	}
	if err := storage.DB.Delete(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func CreatePostComment(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	post, found := loadPost(ctx)
	if !found {
		return
	}
	if !policies.CanViewPost(userID, post) {
		utils.CreateForbidden(ctx)
		return
	}

	var input struct {
		Body string `json:"body" validate:"required,max=1000"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	comment := models.PostComment{PostID: post.ID, UserID: userID, Body: input.Body}
	if err := storage.DB.Create(&comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": comment})
}

func DeletePostComment(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	commentID := ctx.Params().GetUintDefault("commentId", 0)
	var comment models.PostComment
	if err := storage.DB.First(&comment, commentID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	// Comment author or post author may remove it.
	var post models.Post
	if err := storage.DB.First(&post, comment.PostID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if comment.UserID != userID && post.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}
	if err := storage.DB.Delete(&comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func LikePost(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	post, found := loadPost(ctx)
	if !found {
		return
	}
	if !policies.CanViewPost(userID, post) {
		utils.CreateForbidden(ctx)
		return
	}

	var existing models.PostLike
	err := storage.DB.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "You already liked this post.", ctx)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	like := models.PostLike{PostID: post.ID, UserID: userID}
	if err := storage.DB.Create(&like).Error; err != nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "You already liked this post.", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": like})
}

func UnlikePost(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	post, found := loadPost(ctx)
	if !found {
		return
	}
	if err := storage.DB.Where("post_id = ? AND user_id = ?", post.ID, userID).Delete(&models.PostLike{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

func loadPost(ctx iris.Context) (*models.Post, bool) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid post ID", ctx)
		return nil, false
	}
	var post models.Post
	if err := storage.DB.First(&post, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}
	return &post, true
}
