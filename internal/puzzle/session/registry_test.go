package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/puzzlebox/internal/puzzle"
)

// testClock is a manually advanced clock for eviction tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRegistry() (*Registry, *testClock) {
	clock := &testClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	registry := NewRegistry()
	registry.clock = clock.Now
	return registry, clock
}

func TestRegistry_CreateAndGet(t *testing.T) {
	registry, _ := newTestRegistry()

	session, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected non-empty session id")
	}
	if session.Engine == nil {
		t.Fatal("expected engine to be attached")
	}

	got, ok := registry.Get(session.ID)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got != session {
		t.Error("Get returned a different session")
	}

	if _, ok := registry.Get("missing"); ok {
		t.Error("expected lookup of unknown id to report absence")
	}
}

func TestRegistry_CreatePropagatesEngineErrors(t *testing.T) {
	registry, _ := newTestRegistry()

	if _, err := registry.Create(puzzle.Kind("chess"), puzzle.Params{N: 3}); !errors.Is(err, puzzle.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 0}); !errors.Is(err, puzzle.ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if registry.Len() != 0 {
		t.Errorf("failed creates should not register sessions, have %d", registry.Len())
	}
}

func TestRegistry_ExistsAndDelete(t *testing.T) {
	registry, _ := newTestRegistry()

	session, err := registry.Create(puzzle.KindRiverCrossing, puzzle.Params{N: 2, K: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !registry.Exists(session.ID) {
		t.Error("expected session to exist")
	}
	if registry.Exists("missing") {
		t.Error("unknown id should not exist")
	}

	if !registry.Delete(session.ID) {
		t.Error("delete should report the session was present")
	}
	if registry.Delete(session.ID) {
		t.Error("second delete should report absence")
	}
	if registry.Exists(session.ID) {
		t.Error("deleted session should be gone")
	}
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	registry, clock := newTestRegistry()

	idle, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	active, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Touch the active session just before the idle threshold.
	clock.Advance(DefaultIdleTimeout)
	if _, ok := registry.Get(active.ID); !ok {
		t.Fatal("active session disappeared early")
	}

	// Cross the threshold for the idle session only. The next create
	// runs the sweep.
	clock.Advance(time.Second)
	if _, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if registry.Exists(idle.ID) {
		t.Error("idle session should have been evicted")
	}
	if !registry.Exists(active.ID) {
		t.Error("recently accessed session should have survived")
	}
}

func TestRegistry_SweepExactThresholdSurvives(t *testing.T) {
	registry, clock := newTestRegistry()

	session, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Exactly at the threshold is not yet expired.
	clock.Advance(DefaultIdleTimeout)
	if evicted := registry.Sweep(); len(evicted) != 0 {
		t.Fatalf("sweep at the threshold evicted %v", evicted)
	}
	if !registry.Exists(session.ID) {
		t.Error("session at the exact threshold should survive")
	}

	clock.Advance(time.Nanosecond)
	if evicted := registry.Sweep(); len(evicted) != 1 || evicted[0] != session.ID {
		t.Fatalf("sweep past the threshold evicted %v, want [%s]", evicted, session.ID)
	}
}

func TestRegistry_List(t *testing.T) {
	registry, _ := newTestRegistry()

	if got := registry.List(); len(got) != 0 {
		t.Fatalf("empty registry listed %d sessions", len(got))
	}

	for i := 0; i < 3; i++ {
		if _, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	listed := registry.List()
	if len(listed) != 3 {
		t.Fatalf("listed %d sessions, want 3", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i-1].ID >= listed[i].ID {
			t.Errorf("list not sorted: %q before %q", listed[i-1].ID, listed[i].ID)
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry, _ := newTestRegistry()

	seed, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				session, err := registry.Create(puzzle.KindRiverCrossing, puzzle.Params{N: 2, K: 2})
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				if _, ok := registry.Get(session.ID); !ok {
					t.Error("created session not found")
					return
				}
				registry.Get(seed.ID)
				registry.Exists(seed.ID)
				registry.Delete(session.ID)
				registry.Sweep()
			}
		}()
	}
	wg.Wait()

	if !registry.Exists(seed.ID) {
		t.Error("seed session should survive concurrent churn")
	}
}

func TestRegistry_IDGeneratorFailure(t *testing.T) {
	registry, _ := newTestRegistry()
	registry.newID = func() (string, error) {
		return "", fmt.Errorf("entropy exhausted")
	}

	if _, err := registry.Create(puzzle.KindTowerOfHanoi, puzzle.Params{N: 3}); err == nil {
		t.Fatal("expected create to surface id generation failure")
	}
	if registry.Len() != 0 {
		t.Error("failed create should not register a session")
	}
}
