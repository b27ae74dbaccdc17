package policies

import (
	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
)

// CanViewPost checks, in order: authorship, accepted follow of the author,
// then the attached trip's visibility (or the author's public flag when the
// post has no trip).
func CanViewPost(userID uint, post *models.Post) bool {
	if post == nil {
		return false
	}
	if post.UserID == userID {
		return true
	}
	if FollowStatus(userID, post.UserID) == FollowAccepted {
		return true
	}

	if post.TripID == nil {
		var author models.User
		if err := storage.DB.First(&author, post.UserID).Error; err != nil {
			return false
		}
		return author.IsPublic
	}

	var trip models.Trip
	if err := storage.DB.First(&trip, *post.TripID).Error; err != nil {
		return false
	}
	if trip.IsPublic {
		return true
	}
	return TripRole(userID, &trip) != TripRoleNone
}

func CanCreatePost(userID uint) bool {
	return userID != 0
}

func CanUpdatePost(userID uint, post *models.Post) bool {
	return post != nil && post.UserID == userID
}

func CanDeletePost(userID uint, post *models.Post) bool {
	return post != nil && post.UserID == userID
}
