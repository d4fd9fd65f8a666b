package models

import "time"

// ActivityEvent records one rate-limited action (a post or a vote)
// attributed to an instance. Rows are append-only.
type ActivityEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	InstanceID string    `gorm:"size:64;not null;index:idx_activity_window,priority:1"`
	Kind       string    `gorm:"size:8;not null;index:idx_activity_window,priority:2"`
	CreatedAt  time.Time `gorm:"index:idx_activity_window,priority:3"`
}
