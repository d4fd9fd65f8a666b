package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusCount is one row of the grouped population count.
type StatusCount struct {
	Category string
	Status   string
	Count    int64
}

// HeartbeatAttrs are the descriptive attributes an instance reports with
// its heartbeat. Empty fields leave the stored value unchanged.
type HeartbeatAttrs struct {
	Name     string
	Category string
	Version  string
}

// Store is the instance storage the presence tracker consumes.
type Store interface {
	// MarkOffline flips every online instance whose last heartbeat is
	// before cutoff to offline in a single batch and returns how many
	// rows changed.
	MarkOffline(ctx context.Context, cutoff time.Time) (int64, error)
	CountInstances(ctx context.Context) ([]StatusCount, error)
	ListInstances(ctx context.Context) ([]models.Instance, error)
	Heartbeat(ctx context.Context, id string, at time.Time, attrs HeartbeatAttrs) error
	SetStatus(ctx context.Context, id string, s Status) error
}

// GormStore implements Store on a gorm database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("fleet: db is required")
	}
	return &GormStore{db: db}, nil
}

// MarkOffline issues one UPDATE for all stale online instances.
func (s *GormStore) MarkOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Instance{}).
		Where("status = ? AND last_heartbeat < ?", string(StatusOnline), cutoff.UTC()).
		Update("status", string(StatusOffline))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountInstances returns instance counts grouped by category and status.
func (s *GormStore) CountInstances(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	if err := s.db.WithContext(ctx).Model(&models.Instance{}).
		Select("category, status, count(*) as count").
		Group("category, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListInstances returns all instances ordered by category then id.
func (s *GormStore) ListInstances(ctx context.Context) ([]models.Instance, error) {
	var instances []models.Instance
	if err := s.db.WithContext(ctx).Order("category ASC, id ASC").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// Heartbeat creates the instance if needed, stamps its heartbeat and marks
// it online.
func (s *GormStore) Heartbeat(ctx context.Context, id string, at time.Time, attrs HeartbeatAttrs) error {
	inst := models.Instance{
		ID:            id,
		Name:          attrs.Name,
		Category:      attrs.Category,
		Version:       attrs.Version,
		Status:        string(StatusOnline),
		LastHeartbeat: at.UTC(),
		CreatedAt:     at.UTC(),
		UpdatedAt:     at.UTC(),
	}

	update := []string{"last_heartbeat", "status", "updated_at"}
	if attrs.Name != "" {
		update = append(update, "name")
	}
	if attrs.Category != "" {
		update = append(update, "category")
	}
	if attrs.Version != "" {
		update = append(update, "version")
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&inst).Error
}

// SetStatus overrides an instance's status.
func (s *GormStore) SetStatus(ctx context.Context, id string, st Status) error {
	result := s.db.WithContext(ctx).Model(&models.Instance{}).
		Where("id = ?", id).
		Update("status", string(st))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("instance %s: %w", id, ErrNotFound)
	}
	return nil
}
