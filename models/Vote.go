package models

import (
	"time"

	"gorm.io/datatypes"
)

// Votable targets a VoteQuestion can attach to.
const (
	VotableTypeDay  = "day"
	VotableTypeCity = "city"
)

const (
	VoteQuestionTypeCity  = "city"
	VoteQuestionTypeEvent = "event"
)

// VoteQuestion runs from StartAt to EndAt and is closed exactly once by the
// deadline worker. Closed is terminal; a closed question never reopens.
type VoteQuestion struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	VotableType string `json:"votableType" gorm:"size:8;not null;index:idx_votable"` // day, city
	VotableID   uint   `json:"votableID" gorm:"not null;index:idx_votable"`

	Title string `json:"title" gorm:"size:160"`
	Type  string `json:"type" gorm:"size:8;index"` // city, event

	StartAt  time.Time  `json:"startAt"`
	EndAt    time.Time  `json:"endAt" gorm:"index"`
	IsClosed bool       `json:"isClosed" gorm:"default:false;index"`
	ClosedAt *time.Time `json:"closedAt"`

	CreatorID uint `json:"creatorID" gorm:"index"`
	Creator   User `json:"creator" gorm:"foreignKey:CreatorID"`

	Options []VoteOption `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Answers []VoteAnswer `json:"answers" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteOption either references a persisted Place or carries inline place data
// in Payload ({name, lat, lng, xid}) for a place not yet persisted.
type VoteOption struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	QuestionID uint         `json:"questionID" gorm:"not null;index"`
	Question   VoteQuestion `json:"question" gorm:"foreignKey:QuestionID"`

	PlaceID *uint          `json:"placeID" gorm:"index"`
	Place   *Place         `json:"place,omitempty" gorm:"foreignKey:PlaceID"`
	Name    string         `json:"name" gorm:"size:160"`
	Payload datatypes.JSON `json:"payload"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteOptionPayload is the inline shape stored in VoteOption.Payload.
type VoteOptionPayload struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	XID  string  `json:"xid"`
}

// VoteAnswer is one live vote per user per question; changing a vote updates
// this row. The unique index is the guard against double voting.
type VoteAnswer struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	QuestionID uint         `json:"questionID" gorm:"not null;index;uniqueIndex:idx_question_user"`
	Question   VoteQuestion `json:"question" gorm:"foreignKey:QuestionID"`

	OptionID uint       `json:"optionID" gorm:"not null;index"`
	Option   VoteOption `json:"option" gorm:"foreignKey:OptionID"`

	UserID uint `json:"userID" gorm:"not null;index;uniqueIndex:idx_question_user"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
