package release

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/clock"
	"github.com/GGCryptoh/jarvis-inc/internal/db"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return testRegistryAt(t, nil)
}

func testRegistryAt(t *testing.T, clk clock.Clock) *Registry {
	t.Helper()
	gormDB, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	r, err := NewRegistry(gormDB, clk)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestNewRegistry_NilDB(t *testing.T) {
	if _, err := NewRegistry(nil, nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestList_Empty(t *testing.T) {
	r := testRegistry(t)
	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List() = %v, want empty non-nil", list)
	}
}

func TestUpsert_CreateThenUpdate(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	if _, err := r.Upsert(ctx, "1.0.0", "first"); err != nil {
		t.Fatalf("Upsert create: %v", err)
	}
	if _, err := r.Upsert(ctx, "1.0.0", "first, fixed"); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if _, err := r.Upsert(ctx, " 1.1.0 ", "second"); err != nil {
		t.Fatalf("Upsert second: %v", err)
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(list))
	}
	byVersion := map[string]models.Release{}
	for _, rel := range list {
		byVersion[rel.Version] = rel
	}
	if byVersion["1.0.0"].Changelog != "first, fixed" {
		t.Errorf("1.0.0 changelog = %q", byVersion["1.0.0"].Changelog)
	}
	if _, ok := byVersion["1.1.0"]; !ok {
		t.Error("version should be trimmed to 1.1.0")
	}
}

func TestUpsert_EmptyVersion(t *testing.T) {
	r := testRegistry(t)
	if _, err := r.Upsert(context.Background(), "  ", "x"); !errors.Is(err, ErrBadRequest) {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
}

func TestDelete(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()
	r.Upsert(ctx, "2.0.0", "big one")

	if err := r.Delete(ctx, "2.0.0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(ctx, "2.0.0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
	if err := r.Delete(ctx, ""); !errors.Is(err, ErrBadRequest) {
		t.Errorf("empty Delete error = %v, want ErrBadRequest", err)
	}
}

func TestUpsert_StampsFromClockAndReturnsStoredRow(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	clk := clock.Fake(start)
	r := testRegistryAt(t, clk)
	ctx := context.Background()

	created, err := r.Upsert(ctx, "3.0.0", "initial")
	if err != nil {
		t.Fatalf("Upsert create: %v", err)
	}
	if !created.CreatedAt.Equal(start) || !created.UpdatedAt.Equal(start) {
		t.Errorf("created timestamps = %v/%v, want %v", created.CreatedAt, created.UpdatedAt, start)
	}

	clk.Advance(2 * time.Hour)
	updated, err := r.Upsert(ctx, "3.0.0", "amended")
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if !updated.CreatedAt.Equal(start) {
		t.Errorf("CreatedAt after update = %v, want original %v", updated.CreatedAt, start)
	}
	if want := start.Add(2 * time.Hour); !updated.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt after update = %v, want %v", updated.UpdatedAt, want)
	}
	if updated.Changelog != "amended" {
		t.Errorf("Changelog = %q, want amended", updated.Changelog)
	}
}
