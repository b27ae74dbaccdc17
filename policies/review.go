package policies

import "github.com/campeloneto1/tripshare-sub000/models"

// Reviews are not privacy-sensitive; anyone may list and read them.
func CanListReviews(userID uint) bool {
	return true
}

func CanViewReview(userID uint, review *models.EventReview) bool {
	return review != nil
}

// CanCreateReview requires any relation to the event's trip; owner, admin and
// participant all qualify. Uniqueness per (event, user) is enforced by the
// service layer, not here.
func CanCreateReview(userID uint, event *models.TripDayEvent) bool {
	trip, err := TripOfEvent(event)
	if err != nil {
		return false
	}
	return TripRole(userID, trip) != TripRoleNone
}

// Only the author may edit or remove a review, independent of trip role. A
// trip owner cannot delete another user's review.
func CanUpdateReview(userID uint, review *models.EventReview) bool {
	return review != nil && review.UserID == userID
}

func CanDeleteReview(userID uint, review *models.EventReview) bool {
	return review != nil && review.UserID == userID
}
