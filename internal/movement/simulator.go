// Package movement drives teams along their routes, one goroutine per team.
package movement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/metrics"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/ws"
)

// TeamStore is the slice of team.Service the simulator needs.
type TeamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error)
	Move(ctx context.Context, id uuid.UUID, to common.Coordinates) (*team.Team, error)
	SetMoving(ctx context.Context, id uuid.UUID, moving bool) error
}

// Broadcaster is the slice of ws.Hub the simulator needs.
type Broadcaster interface {
	BroadcastToTeam(teamID uuid.UUID, event any)
}

// Simulator walks each moving team through its route waypoints at a fixed
// pace, persisting the position and pushing a move_team event per step. The
// persisted is_moving flag is the source of truth for whether a team may
// start: Start reads it once and refuses a second run.
type Simulator struct {
	mu      sync.Mutex
	routes  map[uuid.UUID][]common.Coordinates
	cancels map[uuid.UUID]context.CancelFunc

	teams TeamStore
	hub   Broadcaster
	step  time.Duration
}

func NewSimulator(teams TeamStore, hub Broadcaster, step time.Duration) *Simulator {
	return &Simulator{
		routes:  make(map[uuid.UUID][]common.Coordinates),
		cancels: make(map[uuid.UUID]context.CancelFunc),
		teams:   teams,
		hub:     hub,
		step:    step,
	}
}

// SetRoute stores the waypoints the next Start will walk.
func (s *Simulator) SetRoute(teamID uuid.UUID, route []common.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[teamID] = route
}

// RouteFor returns the remaining cached route for the team, advanced past
// every waypoint the position has already reached. It reports false when no
// usable cached route exists and the caller must query the router again.
func (s *Simulator) RouteFor(teamID uuid.UUID, pos common.Coordinates) ([]common.Coordinates, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route := s.routes[teamID]
	for i, pt := range route {
		if pos.Reached(pt) {
			remaining := route[i:]
			s.routes[teamID] = remaining
			return remaining, true
		}
	}
	return nil, false
}

// Start begins walking the stored route. It reports false without side
// effects when the team is already moving or has no route.
func (s *Simulator) Start(ctx context.Context, teamID uuid.UUID) (bool, error) {
	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return false, err
	}
	if t.IsMoving {
		return false, nil
	}

	s.mu.Lock()
	route := s.routes[teamID]
	s.mu.Unlock()
	if len(route) == 0 {
		return false, nil
	}

	if err := s.teams.SetMoving(ctx, teamID, true); err != nil {
		return false, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[teamID] = cancel
	s.mu.Unlock()

	go s.run(runCtx, teamID, route)
	return true, nil
}

// Cancel stops the team's run and clears its route and flag. The goroutine
// only observes the context; all cleanup happens here so a cancel is complete
// the moment Cancel returns.
func (s *Simulator) Cancel(ctx context.Context, teamID uuid.UUID) error {
	s.mu.Lock()
	cancel, running := s.cancels[teamID]
	delete(s.cancels, teamID)
	delete(s.routes, teamID)
	s.mu.Unlock()

	if running {
		cancel()
	}
	return s.teams.SetMoving(ctx, teamID, false)
}

func (s *Simulator) run(ctx context.Context, teamID uuid.UUID, route []common.Coordinates) {
	for _, pt := range route {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := s.teams.Move(ctx, teamID, pt); err != nil {
			slog.Error("movement position update failed, stopping",
				slog.String("team_id", teamID.String()),
				slog.String("error", err.Error()))
			s.finish(ctx, teamID)
			return
		}
		s.hub.BroadcastToTeam(teamID, ws.MoveTeam(teamID, pt))
		metrics.MovementTicks.Inc()

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.step):
		}
	}

	s.finish(ctx, teamID)
	s.hub.BroadcastToTeam(teamID, ws.MoveFinished(teamID))
}

// finish clears the run's own state. A concurrent Cancel may have cleared it
// already; deleting absent entries is a no-op, so the last writer wins either
// way.
func (s *Simulator) finish(ctx context.Context, teamID uuid.UUID) {
	s.mu.Lock()
	delete(s.cancels, teamID)
	delete(s.routes, teamID)
	s.mu.Unlock()

	// The flag must be cleared even if the run context was canceled mid-step.
	ctx = context.WithoutCancel(ctx)
	if err := s.teams.SetMoving(ctx, teamID, false); err != nil {
		slog.Error("failed to clear moving flag",
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()))
	}
}
