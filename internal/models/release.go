package models

import "time"

// Release maps a published version to its changelog.
type Release struct {
	Version   string    `gorm:"primaryKey;size:32" json:"version"`
	Changelog string    `gorm:"type:text" json:"changelog"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
