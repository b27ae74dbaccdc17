package models

import "time"

// Place is deduplicated by XID, the stable id from the external place
// provider. The unique index is the backstop against concurrent creates.
type Place struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	XID         string  `json:"xid" gorm:"column:xid;size:64;not null;uniqueIndex"`
	Name        string  `json:"name" gorm:"size:160"`
	Category    string  `json:"category" gorm:"size:64;index"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
