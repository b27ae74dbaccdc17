package policies

import (
	"errors"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"

	"gorm.io/gorm"
)

// Trip roles as resolved against a user. Owner comes from Trip.OwnerID, the
// rest from the unique TripMember row for (trip, user).
const (
	TripRoleOwner       = "owner"
	TripRoleAdmin       = "admin"
	TripRoleParticipant = "participant"
	TripRoleNone        = "none"
)

const (
	FollowSelf     = "self"
	FollowAccepted = "accepted"
	FollowPending  = "pending"
	FollowNone     = "none"
)

// TripRole answers: is owner / admin member / participant member / no relation.
func TripRole(userID uint, trip *models.Trip) string {
	if trip == nil || userID == 0 {
		return TripRoleNone
	}
	if trip.OwnerID == userID {
		return TripRoleOwner
	}

	var member models.TripMember
	err := storage.DB.Where("trip_id = ? AND user_id = ?", trip.ID, userID).First(&member).Error
	if err != nil {
		return TripRoleNone
	}

	switch member.Role {
	case models.TripMemberRoleAdmin:
		return TripRoleAdmin
	case models.TripMemberRoleParticipant:
		return TripRoleParticipant
	}
	return TripRoleNone
}

// FollowStatus answers: is-self / accepted / pending / none for the directed
// edge userID -> targetID.
func FollowStatus(userID, targetID uint) string {
	if userID == targetID {
		return FollowSelf
	}

	var follow models.UserFollow
	err := storage.DB.Where("follower_id = ? AND following_id = ?", userID, targetID).First(&follow).Error
	if err != nil {
		return FollowNone
	}

	switch follow.Status {
	case models.FollowStatusAccepted:
		return FollowAccepted
	case models.FollowStatusPending:
		return FollowPending
	}
	return FollowNone
}

// TripOfVotable resolves the trip that owns a vote target. A "day" votable
// resolves TripDay -> Trip, a "city" votable TripDayCity -> TripDay -> Trip.
func TripOfVotable(votableType string, votableID uint) (*models.Trip, error) {
	switch votableType {
	case models.VotableTypeDay:
		var day models.TripDay
		if err := storage.DB.First(&day, votableID).Error; err != nil {
			return nil, err
		}
		var trip models.Trip
		if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
			return nil, err
		}
		return &trip, nil
	case models.VotableTypeCity:
		return TripOfCity(votableID)
	}
	return nil, errors.New("unknown votable type: " + votableType)
}

// TripOfCity walks TripDayCity -> TripDay -> Trip.
func TripOfCity(cityID uint) (*models.Trip, error) {
	var city models.TripDayCity
	if err := storage.DB.First(&city, cityID).Error; err != nil {
		return nil, err
	}
	var day models.TripDay
	if err := storage.DB.First(&day, city.TripDayID).Error; err != nil {
		return nil, err
	}
	var trip models.Trip
	if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// TripOfEvent walks TripDayEvent -> TripDayCity -> TripDay -> Trip.
func TripOfEvent(event *models.TripDayEvent) (*models.Trip, error) {
	if event == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return TripOfCity(event.TripDayCityID)
}
