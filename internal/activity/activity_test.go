package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/clock"
	"github.com/GGCryptoh/jarvis-inc/internal/db"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// testDB creates an in-memory SQLite database with all tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gormDB
}

func testGate(t *testing.T) (*Gate, *gorm.DB) {
	t.Helper()
	gormDB := testDB(t)
	log, err := NewGormLog(gormDB)
	if err != nil {
		t.Fatalf("NewGormLog: %v", err)
	}
	g, err := NewGate(log, clock.Fake(now), nil)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return g, gormDB
}

func seedEvent(t *testing.T, gormDB *gorm.DB, instanceID string, kind Kind, at time.Time) {
	t.Helper()
	ev := models.ActivityEvent{InstanceID: instanceID, Kind: string(kind), CreatedAt: at.UTC()}
	if err := gormDB.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
}

type failingLog struct{ err error }

func (f failingLog) CountBetween(context.Context, string, time.Time, time.Time) (Result, error) {
	return Result{}, f.err
}
func (f failingLog) Append(context.Context, models.ActivityEvent) error { return f.err }

type countingObserver struct {
	mu       sync.Mutex
	ok, fail int
}

func (c *countingObserver) RateChecked(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.ok++
	} else {
		c.fail++
	}
}

func TestNewGate_NilLog(t *testing.T) {
	if _, err := NewGate(nil, clock.Fake(now), nil); err == nil {
		t.Fatal("expected error for nil log")
	}
}

func TestNewGormLog_NilDB(t *testing.T) {
	if _, err := NewGormLog(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestCheck_NoHistory(t *testing.T) {
	g, _ := testGate(t)
	res, err := g.Check(context.Background(), "never-seen", DefaultWindow)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res != (Result{}) {
		t.Errorf("Check() = %+v, want zero", res)
	}
}

func TestCheck_EmptyInstanceID(t *testing.T) {
	g, _ := testGate(t)
	_, err := g.Check(context.Background(), "", DefaultWindow)
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
}

func TestCheck_ScenarioThreePosts(t *testing.T) {
	g, gormDB := testGate(t)
	seedEvent(t, gormDB, "B", KindPost, now.Add(-1*time.Hour))
	seedEvent(t, gormDB, "B", KindPost, now.Add(-23*time.Hour))
	seedEvent(t, gormDB, "B", KindPost, now.Add(-25*time.Hour))

	res, err := g.Check(context.Background(), "B", 24*time.Hour)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Posts != 2 {
		t.Errorf("Posts = %d, want 2", res.Posts)
	}
	if res.Votes != 0 {
		t.Errorf("Votes = %d, want 0", res.Votes)
	}
}

func TestCheck_WindowBoundaries(t *testing.T) {
	window := 24 * time.Hour
	tests := []struct {
		name string
		at   time.Time
		want int64
	}{
		{"exactly window old is counted", now.Add(-window), 1},
		{"one second past window is not", now.Add(-window - time.Second), 0},
		{"exactly now is counted", now, 1},
		{"one second in the future is not", now.Add(time.Second), 0},
	}
	for _, tt := range tests {
		for _, kind := range []Kind{KindPost, KindVote} {
			t.Run(fmt.Sprintf("%s/%s", kind, tt.name), func(t *testing.T) {
				g, gormDB := testGate(t)
				seedEvent(t, gormDB, "inst", kind, tt.at)

				res, err := g.Check(context.Background(), "inst", window)
				if err != nil {
					t.Fatalf("Check: %v", err)
				}
				got := res.Posts
				if kind == KindVote {
					got = res.Votes
				}
				if got != tt.want {
					t.Errorf("count = %d, want %d", got, tt.want)
				}
			})
		}
	}
}

func TestCheck_SeparatesKindsAndInstances(t *testing.T) {
	g, gormDB := testGate(t)
	seedEvent(t, gormDB, "A", KindPost, now.Add(-time.Hour))
	seedEvent(t, gormDB, "A", KindVote, now.Add(-2*time.Hour))
	seedEvent(t, gormDB, "A", KindVote, now.Add(-3*time.Hour))
	seedEvent(t, gormDB, "Z", KindPost, now.Add(-time.Hour))

	res, err := g.Check(context.Background(), "A", DefaultWindow)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Posts != 1 || res.Votes != 2 {
		t.Errorf("Check(A) = %+v, want 1 post, 2 votes", res)
	}
}

func TestCheck_DefaultWindow(t *testing.T) {
	g, gormDB := testGate(t)
	seedEvent(t, gormDB, "A", KindPost, now.Add(-23*time.Hour))
	seedEvent(t, gormDB, "A", KindPost, now.Add(-25*time.Hour))

	res, err := g.Check(context.Background(), "A", 0)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Posts != 1 {
		t.Errorf("Posts = %d, want 1 with default 24h window", res.Posts)
	}
}

func TestCheck_Unavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	obs := &countingObserver{}
	g, _ := NewGate(failingLog{err: cause}, clock.Fake(now), obs)

	res, err := g.Check(context.Background(), "A", DefaultWindow)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want to wrap cause", err)
	}
	if res != (Result{}) {
		t.Errorf("result on failure = %+v, want zero", res)
	}
	if obs.fail != 1 || obs.ok != 0 {
		t.Errorf("observer ok=%d fail=%d, want 0/1", obs.ok, obs.fail)
	}
}

func TestCheck_CancelledContext(t *testing.T) {
	g, gormDB := testGate(t)
	seedEvent(t, gormDB, "A", KindPost, now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Check(ctx, "A", DefaultWindow)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestAllow(t *testing.T) {
	g, gormDB := testGate(t)
	seedEvent(t, gormDB, "A", KindPost, now.Add(-time.Hour))
	seedEvent(t, gormDB, "A", KindPost, now.Add(-2*time.Hour))
	seedEvent(t, gormDB, "A", KindVote, now.Add(-time.Hour))

	tests := []struct {
		name   string
		limits Limits
		want   bool
	}{
		{"no limits", Limits{}, true},
		{"post cap reached", Limits{MaxPosts: 2}, false},
		{"post cap has room", Limits{MaxPosts: 3}, true},
		{"vote cap reached", Limits{MaxPosts: 10, MaxVotes: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, res, err := g.Allow(context.Background(), "A", DefaultWindow, tt.limits)
			if err != nil {
				t.Fatalf("Allow: %v", err)
			}
			if ok != tt.want {
				t.Errorf("Allow() = %v, want %v (result %+v)", ok, tt.want, res)
			}
		})
	}
}

func TestAllow_FailsClosed(t *testing.T) {
	g, _ := NewGate(failingLog{err: errors.New("down")}, clock.Fake(now), nil)
	ok, _, err := g.Allow(context.Background(), "A", DefaultWindow, Limits{})
	if ok {
		t.Error("Allow() = true on storage failure, want false")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestRecord(t *testing.T) {
	g, gormDB := testGate(t)
	ctx := context.Background()

	if err := g.Record(ctx, "A", KindPost); err != nil {
		t.Fatalf("Record post: %v", err)
	}
	if err := g.Record(ctx, "A", KindVote); err != nil {
		t.Fatalf("Record vote: %v", err)
	}

	var count int64
	gormDB.Model(&models.ActivityEvent{}).Where("instance_id = ?", "A").Count(&count)
	if count != 2 {
		t.Errorf("event count = %d, want 2", count)
	}

	res, err := g.Check(ctx, "A", DefaultWindow)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Posts != 1 || res.Votes != 1 {
		t.Errorf("Check() = %+v, want 1/1", res)
	}
}

func TestRecord_Validation(t *testing.T) {
	g, _ := testGate(t)
	ctx := context.Background()
	if err := g.Record(ctx, "", KindPost); !errors.Is(err, ErrBadRequest) {
		t.Errorf("empty id error = %v, want ErrBadRequest", err)
	}
	if err := g.Record(ctx, "A", Kind("comment")); !errors.Is(err, ErrBadRequest) {
		t.Errorf("bad kind error = %v, want ErrBadRequest", err)
	}
}

func TestCheck_ConcurrentInstancesIndependent(t *testing.T) {
	g, gormDB := testGate(t)
	for i := range 3 {
		seedEvent(t, gormDB, "A", KindPost, now.Add(-time.Duration(i+1)*time.Hour))
	}
	seedEvent(t, gormDB, "B", KindVote, now.Add(-time.Hour))

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			res, err := g.Check(context.Background(), "A", DefaultWindow)
			if err != nil {
				errs <- err
			} else if res != (Result{Posts: 3}) {
				errs <- fmt.Errorf("Check(A) = %+v", res)
			}
		}()
		go func() {
			defer wg.Done()
			res, err := g.Check(context.Background(), "B", DefaultWindow)
			if err != nil {
				errs <- err
			} else if res != (Result{Votes: 1}) {
				errs <- fmt.Errorf("Check(B) = %+v", res)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"post", "vote"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("like"); !errors.Is(err, ErrBadRequest) {
		t.Errorf("ParseKind(like) error = %v", err)
	}
}
