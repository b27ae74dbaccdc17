package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip is the root of the itinerary tree. The owner is not a TripMember row;
// ownership is the OwnerID column alone.
type Trip struct {
	gorm.Model
	OwnerID     uint       `json:"ownerID" gorm:"not null;index"`
	Owner       User       `json:"owner" gorm:"foreignKey:OwnerID"`
	Name        string     `json:"name" gorm:"size:120"`
	Description string     `json:"description" gorm:"type:text"`
	IsPublic    bool       `json:"isPublic" gorm:"default:false;index"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CoverURL    string     `json:"coverURL" gorm:"size:512"`

	Members []TripMember `json:"members" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Days    []TripDay    `json:"days" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// TripMember roles. Owner is implicit and never stored here.
const (
	TripMemberRoleAdmin       = "admin"
	TripMemberRoleParticipant = "participant"
)

type TripMember struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index;uniqueIndex:idx_trip_member"`
	Trip   Trip `json:"trip" gorm:"foreignKey:TripID"`

	UserID uint `json:"userID" gorm:"not null;index;uniqueIndex:idx_trip_member"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Role string `json:"role" gorm:"size:16;index"` // admin, participant

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TripDay struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TripID uint `json:"tripID" gorm:"not null;index"`
	Trip   Trip `json:"trip" gorm:"foreignKey:TripID"`

	Date     *time.Time `json:"date"`
	Position int        `json:"position"`

	Cities []TripDayCity `json:"cities" gorm:"foreignKey:TripDayID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TripDayCity struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	TripDayID uint    `json:"tripDayID" gorm:"not null;index"`
	TripDay   TripDay `json:"tripDay" gorm:"foreignKey:TripDayID"`

	Name    string  `json:"name" gorm:"size:120"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	PlaceID *uint   `json:"placeID" gorm:"index"`
	Place   *Place  `json:"place,omitempty" gorm:"foreignKey:PlaceID"`

	Events []TripDayEvent `json:"events" gorm:"foreignKey:TripDayCityID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TripDayEvent struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	TripDayCityID uint        `json:"tripDayCityID" gorm:"not null;index"`
	TripDayCity   TripDayCity `json:"tripDayCity" gorm:"foreignKey:TripDayCityID"`

	PlaceID *uint  `json:"placeID" gorm:"index"`
	Place   *Place `json:"place,omitempty" gorm:"foreignKey:PlaceID"`

	Title     string  `json:"title" gorm:"size:120"`
	StartTime *string `json:"startTime" gorm:"size:8"` // HH:MM, optional
	EndTime   *string `json:"endTime" gorm:"size:8"`
	Price     float64 `json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
