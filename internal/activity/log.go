package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"gorm.io/gorm"
)

// GormLog implements Log with a single grouped COUNT query per check.
type GormLog struct {
	db *gorm.DB
}

// NewGormLog returns a Log backed by db.
func NewGormLog(db *gorm.DB) (*GormLog, error) {
	if db == nil {
		return nil, fmt.Errorf("activity: db is required")
	}
	return &GormLog{db: db}, nil
}

// CountBetween counts events by kind with from <= created_at <= to.
func (l *GormLog) CountBetween(ctx context.Context, instanceID string, from, to time.Time) (Result, error) {
	type row struct {
		Kind  string
		Count int64
	}
	var rows []row
	if err := l.db.WithContext(ctx).Model(&models.ActivityEvent{}).
		Select("kind, count(*) as count").
		Where("instance_id = ? AND created_at >= ? AND created_at <= ?", instanceID, from.UTC(), to.UTC()).
		Group("kind").
		Scan(&rows).Error; err != nil {
		return Result{}, err
	}

	var res Result
	for _, r := range rows {
		switch Kind(r.Kind) {
		case KindPost:
			res.Posts = r.Count
		case KindVote:
			res.Votes = r.Count
		}
	}
	return res, nil
}

// Append inserts ev.
func (l *GormLog) Append(ctx context.Context, ev models.ActivityEvent) error {
	return l.db.WithContext(ctx).Create(&ev).Error
}
