package models

import "time"

// Instance is one registered agent whose liveness is tracked by heartbeat
// recency. Status is derived from LastHeartbeat by the presence sweeper.
type Instance struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:128" json:"name"`
	Category      string    `gorm:"size:64;index" json:"category"`
	Version       string    `gorm:"size:32" json:"version"`
	Status        string    `gorm:"size:16;index;default:online" json:"status"`
	LastHeartbeat time.Time `gorm:"index" json:"last_heartbeat"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
