package movement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/ws"
)

type fakeTeams struct {
	mu   sync.Mutex
	team *team.Team

	positions []common.Coordinates
	flags     []bool
}

func (f *fakeTeams) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *f.team
	return &copied, nil
}

func (f *fakeTeams) Move(ctx context.Context, id uuid.UUID, to common.Coordinates) (*team.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.team.Lat, f.team.Lon = to.Lat, to.Lon
	f.positions = append(f.positions, to)
	copied := *f.team
	return &copied, nil
}

func (f *fakeTeams) SetMoving(ctx context.Context, id uuid.UUID, moving bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.team.IsMoving = moving
	f.flags = append(f.flags, moving)
	return nil
}

func (f *fakeTeams) moving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.team.IsMoving
}

func (f *fakeTeams) positionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.positions)
}

type fakeHub struct {
	mu     sync.Mutex
	events []any
}

func (f *fakeHub) BroadcastToTeam(teamID uuid.UUID, event any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeHub) finished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if _, ok := e.(ws.MoveFinishedEvent); ok {
			return true
		}
	}
	return false
}

func (f *fakeHub) tickCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if _, ok := e.(ws.MoveTeamEvent); ok {
			n++
		}
	}
	return n
}

func newFixture(step time.Duration) (*Simulator, *fakeTeams, *fakeHub, uuid.UUID) {
	teamID := uuid.New()
	teams := &fakeTeams{team: &team.Team{ID: teamID, Lat: 59.90, Lon: 30.32}}
	hub := &fakeHub{}
	return NewSimulator(teams, hub, step), teams, hub, teamID
}

func route(n int) []common.Coordinates {
	pts := make([]common.Coordinates, n)
	for i := range pts {
		pts[i] = common.NewCoordinates(59.90+float64(i)*0.001, 30.32+float64(i)*0.001)
	}
	return pts
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestStart_WalksWholeRoute(t *testing.T) {
	sim, teams, hub, teamID := newFixture(time.Millisecond)
	sim.SetRoute(teamID, route(3))

	started, err := sim.Start(context.Background(), teamID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started {
		t.Fatal("expected the run to start")
	}

	waitUntil(t, time.Second, hub.finished)

	if got := teams.positionCount(); got != 3 {
		t.Fatalf("expected 3 persisted positions, got %d", got)
	}
	if got := hub.tickCount(); got != 3 {
		t.Fatalf("expected 3 move ticks, got %d", got)
	}
	if teams.moving() {
		t.Fatal("moving flag must be cleared after a natural finish")
	}
	if _, ok := sim.RouteFor(teamID, teams.team.Position()); ok {
		t.Fatal("route must be cleared after a natural finish")
	}
}

func TestStart_AlreadyMoving_NoOp(t *testing.T) {
	sim, teams, hub, teamID := newFixture(time.Millisecond)
	teams.team.IsMoving = true
	sim.SetRoute(teamID, route(3))

	started, err := sim.Start(context.Background(), teamID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started {
		t.Fatal("a moving team must not start a second run")
	}
	if got := hub.tickCount(); got != 0 {
		t.Fatalf("expected no ticks, got %d", got)
	}
}

func TestStart_WithoutRoute_NoOp(t *testing.T) {
	sim, teams, _, teamID := newFixture(time.Millisecond)

	started, err := sim.Start(context.Background(), teamID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started {
		t.Fatal("a team without a route must not start")
	}
	if teams.moving() {
		t.Fatal("moving flag must stay cleared")
	}
}

func TestCancel_StopsPromptly(t *testing.T) {
	sim, teams, hub, teamID := newFixture(20 * time.Millisecond)
	sim.SetRoute(teamID, route(100))

	if _, err := sim.Start(context.Background(), teamID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitUntil(t, time.Second, func() bool { return hub.tickCount() >= 1 })

	if err := sim.Cancel(context.Background(), teamID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if teams.moving() {
		t.Fatal("cancel must clear the moving flag")
	}

	// At most one in-flight step may still land; after that the count is frozen.
	time.Sleep(50 * time.Millisecond)
	frozen := hub.tickCount()
	time.Sleep(60 * time.Millisecond)
	if got := hub.tickCount(); got != frozen {
		t.Fatalf("ticks kept arriving after cancel: %d then %d", frozen, got)
	}
	if frozen >= 100 {
		t.Fatal("run was not cancelled")
	}
	if _, ok := sim.RouteFor(teamID, teams.team.Position()); ok {
		t.Fatal("cancel must clear the cached route")
	}
}

func TestCancel_WithoutRun_ClearsFlag(t *testing.T) {
	sim, teams, _, teamID := newFixture(time.Millisecond)
	teams.team.IsMoving = true

	if err := sim.Cancel(context.Background(), teamID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if teams.moving() {
		t.Fatal("cancel must clear a stale moving flag")
	}
}

func TestRouteFor_TruncatesConsumedPoints(t *testing.T) {
	sim, _, _, teamID := newFixture(time.Millisecond)
	pts := route(5)
	sim.SetRoute(teamID, pts)

	remaining, ok := sim.RouteFor(teamID, pts[2])
	if !ok {
		t.Fatal("expected a cached route hit")
	}
	if len(remaining) != 3 {
		t.Fatalf("expected 3 remaining points, got %d", len(remaining))
	}
	if remaining[0] != pts[2] {
		t.Fatal("remaining route must start at the current position")
	}

	// The hit advances the stored route, so already-consumed points are gone.
	if _, ok := sim.RouteFor(teamID, pts[0]); ok {
		t.Fatal("consumed points must be dropped from the cache")
	}
	remaining, ok = sim.RouteFor(teamID, pts[2])
	if !ok || len(remaining) != 3 {
		t.Fatal("the advanced route must still serve the current position")
	}

	if _, ok := sim.RouteFor(teamID, common.NewCoordinates(0, 0)); ok {
		t.Fatal("a position off the route must miss the cache")
	}
}
