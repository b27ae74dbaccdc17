package policies

import "github.com/campeloneto1/tripshare-sub000/models"

// CanViewFollow allows only the two parties of the edge.
func CanViewFollow(userID uint, follow *models.UserFollow) bool {
	if follow == nil {
		return false
	}
	return follow.FollowerID == userID || follow.FollowingID == userID
}

func CanCreateFollow(userID uint) bool {
	return userID != 0
}

// CanRespondFollow (accept/decline) is for the followed party only; the
// follower cannot self-accept.
func CanRespondFollow(userID uint, follow *models.UserFollow) bool {
	return follow != nil && follow.FollowingID == userID
}

// CanDeleteFollow covers unfollow and remove-follower, so either party.
func CanDeleteFollow(userID uint, follow *models.UserFollow) bool {
	if follow == nil {
		return false
	}
	return follow.FollowerID == userID || follow.FollowingID == userID
}
