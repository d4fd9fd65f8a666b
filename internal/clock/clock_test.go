package clock

import (
	"sync"
	"testing"
	"time"
)

func TestReal_Now(t *testing.T) {
	before := time.Now()
	got := Real().Now()
	if got.Before(before) {
		t.Errorf("Real().Now() = %v, before %v", got, before)
	}
}

func TestFake_AdvanceAndSet(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := Fake(start)
	if !f.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", f.Now(), start)
	}

	f.Advance(90 * time.Second)
	if want := start.Add(90 * time.Second); !f.Now().Equal(want) {
		t.Errorf("after Advance, Now() = %v, want %v", f.Now(), want)
	}

	later := start.Add(24 * time.Hour)
	f.Set(later)
	if !f.Now().Equal(later) {
		t.Errorf("after Set, Now() = %v, want %v", f.Now(), later)
	}
}

func TestFake_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := Fake(start)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Advance(time.Second)
			_ = f.Now()
		}()
	}
	wg.Wait()

	if want := start.Add(50 * time.Second); !f.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", f.Now(), want)
	}
}
