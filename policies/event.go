package policies

import "github.com/campeloneto1/tripshare-sub000/models"

// CanViewEvent inherits the ancestor trip's visibility.
func CanViewEvent(userID uint, event *models.TripDayEvent) bool {
	trip, err := TripOfEvent(event)
	if err != nil {
		return false
	}
	return CanViewTrip(userID, trip)
}

// CanCreateEvent gates on owner/admin of the trip owning the target city.
func CanCreateEvent(userID uint, cityID uint) bool {
	trip, err := TripOfCity(cityID)
	if err != nil {
		return false
	}
	role := TripRole(userID, trip)
	return role == TripRoleOwner || role == TripRoleAdmin
}

func CanUpdateEvent(userID uint, event *models.TripDayEvent) bool {
	trip, err := TripOfEvent(event)
	if err != nil {
		return false
	}
	role := TripRole(userID, trip)
	return role == TripRoleOwner || role == TripRoleAdmin
}

func CanDeleteEvent(userID uint, event *models.TripDayEvent) bool {
	return CanUpdateEvent(userID, event)
}
