package routes

import (
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/services"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
)

type CreateTripDayInput struct {
	Date     *time.Time `json:"date"`
	Position int        `json:"position"`
}

type CreateTripDayCityInput struct {
	Name string  `json:"name" validate:"required,max=120"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	XID  string  `json:"xid" validate:"max=64"`
}

type CreateTripDayEventInput struct {
	Title     string  `json:"title" validate:"max=120"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Price     float64 `json:"price"`
	// Place reference: an existing place id, or inline data with an xid.
	PlaceID *uint   `json:"placeID"`
	Name    string  `json:"name" validate:"max=160"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	XID     string  `json:"xid" validate:"max=64"`
}

// CreateTripDay appends a day to the trip. Owner/admin gate, same as any
// structural edit.
func CreateTripDay(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)
	trip, found := loadTrip(ctx)
	if !found {
		return
	}
	if !policies.CanUpdateTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateTripDayInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	day := models.TripDay{TripID: trip.ID, Date: input.Date, Position: input.Position}
	services.Summaries.Invalidate(trip.ID)
	if err := storage.DB.Create(&day).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": day})
}

func DeleteTripDay(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	dayID := ctx.Params().GetUintDefault("dayId", 0)
	var day models.TripDay
	if err := storage.DB.First(&day, dayID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	var trip models.Trip
	if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanUpdateTrip(userID, &trip) {
		utils.CreateForbidden(ctx)
		return
	}

	services.Summaries.Invalidate(trip.ID)
	if err := storage.DB.Delete(&day).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

// CreateTripDayCity adds a city to a day. If inline data carries an xid the
// place is resolved through the dedup path.
func CreateTripDayCity(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	dayID := ctx.Params().GetUintDefault("dayId", 0)
	var day models.TripDay
	if err := storage.DB.First(&day, dayID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	var trip models.Trip
	if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanUpdateTrip(userID, &trip) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateTripDayCityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	city := models.TripDayCity{TripDayID: day.ID, Name: input.Name, Lat: input.Lat, Lng: input.Lng}
	if input.XID != "" {
		place, err := services.CreateOrGetPlace(models.Place{
			XID:  input.XID,
			Name: input.Name,
			Lat:  input.Lat,
			Lng:  input.Lng,
		})
		if err != nil {
			utils.HandleServiceError(err, ctx)
			return
		}
		city.PlaceID = &place.ID
	}

	services.Summaries.Invalidate(trip.ID)
	if err := storage.DB.Create(&city).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": city})
}

func DeleteTripDayCity(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	cityID := ctx.Params().GetUintDefault("cityId", 0)
	trip, err := policies.TripOfCity(cityID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanUpdateTrip(userID, trip) {
		utils.CreateForbidden(ctx)
		return
	}

	services.Summaries.Invalidate(trip.ID)
	if err := storage.DB.Delete(&models.TripDayCity{}, cityID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

// CreateTripDayEvent adds an itinerary event under a city.
func CreateTripDayEvent(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	cityID := ctx.Params().GetUintDefault("cityId", 0)
	if !policies.CanCreateEvent(userID, cityID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateTripDayEventInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	event := models.TripDayEvent{
		TripDayCityID: cityID,
		Title:         input.Title,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Price:         input.Price,
	}

	switch {
	case input.PlaceID != nil:
		var place models.Place
		if err := storage.DB.First(&place, *input.PlaceID).Error; err != nil {
			utils.CreateNotFound(ctx)
			return
		}
		event.PlaceID = &place.ID
		if event.Title == "" {
			event.Title = place.Name
		}
	case input.XID != "":
		place, err := services.CreateOrGetPlace(models.Place{
			XID:  input.XID,
			Name: input.Name,
			Lat:  input.Lat,
			Lng:  input.Lng,
		})
		if err != nil {
			utils.HandleServiceError(err, ctx)
			return
		}
		event.PlaceID = &place.ID
		if event.Title == "" {
			event.Title = place.Name
		}
	}

	if trip, err := policies.TripOfCity(cityID); err == nil {
		services.Summaries.Invalidate(trip.ID)
	}
	if err := storage.DB.Create(&event).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": event})
}

func UpdateTripDayEvent(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	eventID := ctx.Params().GetUintDefault("eventId", 0)
	var event models.TripDayEvent
	if err := storage.DB.First(&event, eventID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanUpdateEvent(userID, &event) {
		utils.CreateForbidden(ctx)
		return
	}

	var input struct {
		Title     *string  `json:"title" validate:"omitempty,max=120"`
		StartTime *string  `json:"startTime"`
		EndTime   *string  `json:"endTime"`
		Price     *float64 `json:"price"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.StartTime != nil {
		event.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		event.EndTime = input.EndTime
	}
	if input.Price != nil {
		event.Price = *input.Price
	}

	if trip, err := policies.TripOfEvent(&event); err == nil {
		services.Summaries.Invalidate(trip.ID)
	}
	if err := storage.DB.Save(&event).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": event})
}

func DeleteTripDayEvent(ctx iris.Context) {
	userID, _ := utils.CurrentUserID(ctx)

	eventID := ctx.Params().GetUintDefault("eventId", 0)
	var event models.TripDayEvent
	if err := storage.DB.First(&event, eventID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !policies.CanDeleteEvent(userID, &event) {
		utils.CreateForbidden(ctx)
		return
	}

	if trip, err := policies.TripOfEvent(&event); err == nil {
		services.Summaries.Invalidate(trip.ID)
	}
	if err := storage.DB.Delete(&event).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}
