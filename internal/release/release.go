// Package release keeps the version -> changelog registry.
package release

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GGCryptoh/jarvis-inc/internal/clock"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when deleting an unknown version.
	ErrNotFound = errors.New("not_found")
	// ErrBadRequest is returned for an empty version.
	ErrBadRequest = errors.New("bad_request")
)

// Registry stores releases.
type Registry struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewRegistry returns a Registry backed by db. A nil clk uses the real clock.
func NewRegistry(db *gorm.DB, clk clock.Clock) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("release: db is required")
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Registry{db: db, clock: clk}, nil
}

// List returns all releases, most recently updated first.
func (r *Registry) List(ctx context.Context) ([]models.Release, error) {
	releases := []models.Release{}
	if err := r.db.WithContext(ctx).Order("updated_at DESC, version DESC").Find(&releases).Error; err != nil {
		return nil, fmt.Errorf("release: list: %w", err)
	}
	return releases, nil
}

// Upsert creates the release or replaces its changelog.
func (r *Registry) Upsert(ctx context.Context, version, changelog string) (*models.Release, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, fmt.Errorf("release: version is required: %w", ErrBadRequest)
	}

	now := r.clock.Now().UTC()
	rel := models.Release{Version: version, Changelog: changelog, CreatedAt: now, UpdatedAt: now}
	tx := r.db.WithContext(ctx)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"changelog", "updated_at"}),
	}).Create(&rel).Error; err != nil {
		return nil, fmt.Errorf("release: upsert %s: %w", version, err)
	}

	// On update the stored created_at differs from the literal.
	var stored models.Release
	if err := tx.First(&stored, "version = ?", version).Error; err != nil {
		return nil, fmt.Errorf("release: upsert %s: reload: %w", version, err)
	}
	return &stored, nil
}

// Delete removes a release.
func (r *Registry) Delete(ctx context.Context, version string) error {
	if version == "" {
		return fmt.Errorf("release: version is required: %w", ErrBadRequest)
	}
	result := r.db.WithContext(ctx).Where("version = ?", version).Delete(&models.Release{})
	if result.Error != nil {
		return fmt.Errorf("release: delete %s: %w", version, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("release: %s: %w", version, ErrNotFound)
	}
	return nil
}
