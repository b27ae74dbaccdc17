package models

import "gorm.io/gorm"

// Post is a feed entry, optionally attached to a trip. Visibility follows the
// author's privacy, the viewer's follow status, and the trip's visibility.
type Post struct {
	gorm.Model
	UserID uint  `json:"userID" gorm:"not null;index"`
	User   User  `json:"user" gorm:"foreignKey:UserID"`
	TripID *uint `json:"tripID" gorm:"index"`
	Trip   *Trip `json:"trip,omitempty" gorm:"foreignKey:TripID"`

	Body     string `json:"body" gorm:"type:text"`
	PhotoURL string `json:"photoURL" gorm:"size:512"`

	Comments []PostComment `json:"comments" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes    []PostLike    `json:"likes" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

type PostComment struct {
	gorm.Model
	PostID uint   `json:"postID" gorm:"not null;index"`
	UserID uint   `json:"userID" gorm:"not null;index"`
	User   User   `json:"user" gorm:"foreignKey:UserID"`
	Body   string `json:"body" gorm:"size:1000"`
}

type PostLike struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	PostID uint `json:"postID" gorm:"not null;index;uniqueIndex:idx_post_like"`
	UserID uint `json:"userID" gorm:"not null;index;uniqueIndex:idx_post_like"`
}
