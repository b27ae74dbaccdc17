package models

import "gorm.io/gorm"

// EventReview is unique per (event, user): one review per user per event.
type EventReview struct {
	gorm.Model
	TripDayEventID uint         `json:"tripDayEventID" gorm:"not null;index;uniqueIndex:idx_event_review"`
	TripDayEvent   TripDayEvent `json:"tripDayEvent" gorm:"foreignKey:TripDayEventID"`

	UserID uint `json:"userID" gorm:"not null;index;uniqueIndex:idx_event_review"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Stars int    `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	Body  string `json:"body" gorm:"type:text"`
}
