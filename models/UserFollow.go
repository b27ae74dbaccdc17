package models

import "time"

const (
	FollowStatusPending  = "pending"
	FollowStatusAccepted = "accepted"
)

// UserFollow is a directed follow edge. Following a public user is accepted at
// creation; following a private user stays pending until the target responds.
type UserFollow struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	FollowerID uint `json:"followerID" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	Follower   User `json:"follower" gorm:"foreignKey:FollowerID"`

	FollowingID uint `json:"followingID" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	Following   User `json:"following" gorm:"foreignKey:FollowingID"`

	Status     string     `json:"status" gorm:"size:16;index"` // pending, accepted
	AcceptedAt *time.Time `json:"acceptedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
