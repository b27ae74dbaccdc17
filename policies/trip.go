package policies

import "github.com/campeloneto1/tripshare-sub000/models"

// CanListTrips is always true; listing is filtered at the query layer rather
// than denied outright.
func CanListTrips(userID uint) bool {
	return true
}

func CanViewTrip(userID uint, trip *models.Trip) bool {
	if trip == nil {
		return false
	}
	if trip.IsPublic {
		return true
	}
	return TripRole(userID, trip) != TripRoleNone
}

func CanCreateTrip(userID uint) bool {
	return userID != 0
}

func CanUpdateTrip(userID uint, trip *models.Trip) bool {
	role := TripRole(userID, trip)
	return role == TripRoleOwner || role == TripRoleAdmin
}

// CanDeleteTrip is owner-only. Admins may update but not delete.
func CanDeleteTrip(userID uint, trip *models.Trip) bool {
	return TripRole(userID, trip) == TripRoleOwner
}
