package models

import "time"

// Notification types emitted by the core.
const (
	NotificationFollowRequested    = "follow_requested"
	NotificationFollowAccepted     = "follow_accepted"
	NotificationVoteQuestionOpened = "vote_question_opened"
)

// Notification is the persisted copy of an outbound signal; delivery to push
// channels happens through services.Dispatcher.
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Type    string `json:"type" gorm:"size:32;index"`
	Title   string `json:"title" gorm:"size:100"`
	Message string `json:"message" gorm:"size:500"`

	// Reference data
	RefType string `json:"refType" gorm:"size:32"` // follow, vote_question, trip
	RefID   uint   `json:"refID"`

	IsRead    bool       `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}
