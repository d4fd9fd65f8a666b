package fleet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/db"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"gorm.io/gorm"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testDB creates an in-memory SQLite database with all tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gormDB
}

func testStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	gormDB := testDB(t)
	s, err := NewGormStore(gormDB)
	if err != nil {
		t.Fatalf("NewGormStore: %v", err)
	}
	return s, gormDB
}

func seedInstance(t *testing.T, gormDB *gorm.DB, id, category string, status Status, last time.Time) {
	t.Helper()
	inst := models.Instance{
		ID:            id,
		Category:      category,
		Status:        string(status),
		LastHeartbeat: last.UTC(),
	}
	if err := gormDB.Create(&inst).Error; err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func statusOf(t *testing.T, gormDB *gorm.DB, id string) Status {
	t.Helper()
	var inst models.Instance
	if err := gormDB.First(&inst, "id = ?", id).Error; err != nil {
		t.Fatalf("load %s: %v", id, err)
	}
	return Status(inst.Status)
}

// fakeStore records calls and returns canned results.
type fakeStore struct {
	mu       sync.Mutex
	err      error
	cutoffs  []time.Time
	marked   int64
	counts   []StatusCount
	listed   []models.Instance
	statuses map[string]Status
}

func (f *fakeStore) MarkOffline(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	return f.marked, nil
}

func (f *fakeStore) CountInstances(ctx context.Context) ([]StatusCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func (f *fakeStore) ListInstances(ctx context.Context) ([]models.Instance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listed, nil
}

func (f *fakeStore) Heartbeat(ctx context.Context, id string, at time.Time, attrs HeartbeatAttrs) error {
	return f.err
}

func (f *fakeStore) SetStatus(ctx context.Context, id string, s Status) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = make(map[string]Status)
	}
	f.statuses[id] = s
	return nil
}

// recordingObserver captures observer callbacks.
type recordingObserver struct {
	completed []int64
	failed    int
	online    int64
	offline   int64
}

func (r *recordingObserver) SweepCompleted(marked int64, took time.Duration) {
	r.completed = append(r.completed, marked)
}
func (r *recordingObserver) SweepFailed() { r.failed++ }
func (r *recordingObserver) FleetObserved(online, offline int64) {
	r.online, r.offline = online, offline
}
