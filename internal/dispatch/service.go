// Package dispatch owns the call lifecycle and orchestrates its side effects:
// persistence, notifications, cache invalidation, realtime events and the
// movement task lifecycle.
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/call"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/metrics"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/notification"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/user"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/ws"
)

type TroubleKind string

const (
	TroubleCarBroken      TroubleKind = "car_broken"
	TroubleHumanFactor    TroubleKind = "human_factor"
	TroubleExternalFactor TroubleKind = "external_factor"
)

func (k TroubleKind) Valid() bool {
	switch k {
	case TroubleCarBroken, TroubleHumanFactor, TroubleExternalFactor:
		return true
	}
	return false
}

var troubleText = map[TroubleKind]string{
	TroubleCarBroken:      "Team car broke down",
	TroubleHumanFactor:    "Team reported a human factor problem",
	TroubleExternalFactor: "Team reported an external factor problem",
}

// Collaborator slices. Each names only what the engine calls so tests can
// substitute in-memory fakes.

type Teams interface {
	GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error)
	Move(ctx context.Context, id uuid.UUID, to common.Coordinates) (*team.Team, error)
}

type Cars interface {
	MarkBroken(ctx context.Context, id uuid.UUID) error
}

type Users interface {
	ListByRole(ctx context.Context, role user.Role) ([]*user.User, error)
}

type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []uuid.UUID, kind notification.Type, text string)
}

type Broadcaster interface {
	BroadcastToDispatchers(event any)
	BroadcastToTeam(teamID uuid.UUID, event any)
}

type RouteProvider interface {
	Route(ctx context.Context, from, to common.Coordinates) ([]common.Coordinates, error)
}

// Mover is the movement simulator surface: route cache plus task lifecycle.
type Mover interface {
	SetRoute(teamID uuid.UUID, route []common.Coordinates)
	RouteFor(teamID uuid.UUID, pos common.Coordinates) ([]common.Coordinates, bool)
	Start(ctx context.Context, teamID uuid.UUID) (bool, error)
	Cancel(ctx context.Context, teamID uuid.UUID) error
}

// TeamListCache invalidates the aggregate team listing (implemented by
// redis.TeamListCache).
type TeamListCache interface {
	Invalidate(ctx context.Context) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*call.Call, error)
	Accept(ctx context.Context, callID, teamID uuid.UUID) (*call.Call, error)
	Reject(ctx context.Context, callID uuid.UUID) (*call.Call, error)
	Complete(ctx context.Context, callID uuid.UUID) (*call.Call, error)
	ReportTrouble(ctx context.Context, callID uuid.UUID, kind TroubleKind) (*call.Call, error)
	GetRoute(ctx context.Context, callID uuid.UUID) ([]common.Coordinates, error)
	StartMove(ctx context.Context, teamID uuid.UUID) error
}

type CreateRequest struct {
	Reason    string    `json:"reason" binding:"required"`
	Address   string    `json:"address" binding:"required"`
	DateTime  time.Time `json:"date_time" binding:"required"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Type      call.Type `json:"type" binding:"required"`
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

type service struct {
	calls call.Repository
	db    *sqlx.DB

	teams    Teams
	cars     Cars
	users    Users
	notifier Notifier
	hub      Broadcaster
	router   RouteProvider
	mover    Mover

	callCache call.Cache
	teamCache TeamListCache
}

func NewService(
	calls call.Repository,
	db *sqlx.DB,
	teams Teams,
	cars Cars,
	users Users,
	notifier Notifier,
	hub Broadcaster,
	router RouteProvider,
	mover Mover,
	callCache call.Cache,
	teamCache TeamListCache,
) Service {
	return &service{
		calls:     calls,
		db:        db,
		teams:     teams,
		cars:      cars,
		users:     users,
		notifier:  notifier,
		hub:       hub,
		router:    router,
		mover:     mover,
		callCache: callCache,
		teamCache: teamCache,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*call.Call, error) {
	if !req.Type.Valid() {
		return nil, domainerrors.NewValidation(fmt.Sprintf("unknown call type %q", req.Type))
	}
	if err := common.ValidateLatLon(req.Lat, req.Lon); err != nil {
		return nil, domainerrors.NewValidation(err.Error())
	}

	draft := call.Draft{
		Reason:   req.Reason,
		Address:  req.Address,
		DateTime: req.DateTime,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Type:     req.Type,
		Patient:  req.PatientID,
	}

	dup, err := s.calls.FindDuplicate(ctx, s.db, draft)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to check call duplicates", err)
	}
	if dup {
		return nil, domainerrors.DuplicateCall()
	}

	c := call.New(draft)
	if err := s.calls.Create(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to create call", err)
	}
	metrics.CallsCreated.Inc()

	s.notifyRole(ctx, user.RoleDispatcher, notification.TypeMessage,
		fmt.Sprintf("New %s call: %s", c.Type, c.Reason))
	s.hub.BroadcastToDispatchers(ws.NewCall(c))
	return c, nil
}

func (s *service) Accept(ctx context.Context, callID, teamID uuid.UUID) (*call.Call, error) {
	c, err := s.getCall(ctx, callID)
	if err != nil {
		return nil, err
	}

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if _, err := s.calls.GetAcceptedByTeam(ctx, s.db, teamID); err == nil {
		return nil, domainerrors.TeamBusy()
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NewInternal("failed to check team calls", err)
	}

	if err := c.Accept(teamID); err != nil {
		return nil, err
	}
	if err := s.calls.Update(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to accept call", err)
	}
	metrics.CallTransitions.WithLabelValues("accepted").Inc()

	s.notifier.NotifyUsers(ctx, t.WorkerIDs(), notification.TypeMessage,
		fmt.Sprintf("Your team was assigned a call: %s", c.Reason))
	s.invalidateTeamList(ctx)

	s.hub.BroadcastToDispatchers(ws.CallAccepted(c.ID, teamID))
	if info, err := s.calls.GetFullInfo(ctx, s.db, c.ID); err != nil {
		slog.ErrorContext(ctx, "failed to load call detail for assignment event",
			slog.String("call_id", c.ID.String()),
			slog.String("error", err.Error()))
	} else {
		s.hub.BroadcastToTeam(teamID, ws.AssignedCall(info))
	}
	return c, nil
}

func (s *service) Reject(ctx context.Context, callID uuid.UUID) (*call.Call, error) {
	c, err := s.getCall(ctx, callID)
	if err != nil {
		return nil, err
	}

	if err := c.Reject(); err != nil {
		return nil, err
	}
	if err := s.calls.Update(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to reject call", err)
	}
	metrics.CallTransitions.WithLabelValues("rejected").Inc()

	s.invalidateCallDetail(ctx, c.ID)
	s.hub.BroadcastToDispatchers(ws.CallRejected(c.ID))
	return c, nil
}

func (s *service) Complete(ctx context.Context, callID uuid.UUID) (*call.Call, error) {
	c, err := s.getCall(ctx, callID)
	if err != nil {
		return nil, err
	}

	if err := c.Complete(); err != nil {
		return nil, err
	}
	teamID := *c.TeamID
	if err := s.calls.Update(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to complete call", err)
	}
	metrics.CallTransitions.WithLabelValues("completed").Inc()

	// The team finishes at the call site and is available from there.
	t, err := s.teams.Move(ctx, teamID, c.Coordinates())
	if err != nil {
		return nil, err
	}

	s.notifyRole(ctx, user.RoleDispatcher, notification.TypeSuccess,
		fmt.Sprintf("Call completed: %s", c.Reason))

	s.invalidateTeamList(ctx)
	s.invalidateCallDetail(ctx, c.ID)
	s.invalidateTeamCall(ctx, teamID)

	s.hub.BroadcastToDispatchers(ws.AvailableTeam(t))
	s.hub.BroadcastToTeam(teamID, ws.CompletedCall(c.ID))
	return c, nil
}

func (s *service) ReportTrouble(ctx context.Context, callID uuid.UUID, kind TroubleKind) (*call.Call, error) {
	if !kind.Valid() {
		return nil, domainerrors.NewValidation(fmt.Sprintf("unknown trouble kind %q", kind))
	}

	c, err := s.getCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	// Only an accepted call can report trouble. Checked up front so a bad
	// transition produces no side effects: completed calls keep their team
	// for reporting and would otherwise pass the team lookup below.
	if c.Status != call.StatusAccepted {
		return nil, domainerrors.CallInvalidTransition(string(c.Status), string(call.StatusNew))
	}
	teamID := *c.TeamID

	if err := s.mover.Cancel(ctx, teamID); err != nil {
		slog.ErrorContext(ctx, "failed to cancel movement on trouble",
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()))
	}

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if kind == TroubleCarBroken {
		if err := s.cars.MarkBroken(ctx, t.CarID); err != nil {
			return nil, err
		}
		s.notifyRole(ctx, user.RoleAdmin, notification.TypeTrouble,
			fmt.Sprintf("Car of team %s broke down", teamID))
	}
	s.notifyRole(ctx, user.RoleDispatcher, notification.TypeTrouble, troubleText[kind])

	if err := c.ResetToNew(); err != nil {
		return nil, err
	}
	if err := s.calls.Update(ctx, s.db, c); err != nil {
		return nil, domainerrors.NewInternal("failed to reset call", err)
	}
	metrics.CallTransitions.WithLabelValues("trouble").Inc()

	s.invalidateTeamList(ctx)
	s.invalidateTeamCall(ctx, teamID)

	s.hub.BroadcastToDispatchers(ws.NewCall(c))
	s.hub.BroadcastToDispatchers(ws.AvailableTeam(t))
	s.hub.BroadcastToTeam(teamID, ws.TroubleCall(c.ID))
	return c, nil
}

// GetRoute returns the assigned team's route to the call site. A cached route
// is reused as long as the team still stands on one of its points; otherwise
// the route provider is queried and the result cached for the walk.
func (s *service) GetRoute(ctx context.Context, callID uuid.UUID) ([]common.Coordinates, error) {
	c, err := s.getCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	if c.TeamID == nil {
		return nil, domainerrors.NewConflict("call has no assigned team")
	}
	teamID := *c.TeamID

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if route, ok := s.mover.RouteFor(teamID, t.Position()); ok {
		return route, nil
	}

	route, err := s.router.Route(ctx, t.Position(), c.Coordinates())
	if err != nil {
		return nil, domainerrors.RoutingFailure(err)
	}
	s.mover.SetRoute(teamID, route)
	return route, nil
}

// StartMove launches the movement task for the team's accepted call. Starting
// an already moving team is a no-op.
func (s *service) StartMove(ctx context.Context, teamID uuid.UUID) error {
	c, err := s.calls.GetAcceptedByTeam(ctx, s.db, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return domainerrors.TeamCallNotFound(teamID.String())
	}
	if err != nil {
		return domainerrors.NewInternal("failed to get team call", err)
	}

	if _, err := s.GetRoute(ctx, c.ID); err != nil {
		return err
	}

	started, err := s.mover.Start(ctx, teamID)
	if err != nil {
		return err
	}
	if started {
		s.hub.BroadcastToTeam(teamID, ws.MoveStarted(teamID))
	}
	return nil
}

func (s *service) getCall(ctx context.Context, id uuid.UUID) (*call.Call, error) {
	c, err := s.calls.GetByID(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.CallNotFound(id.String())
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to get call", err)
	}
	return c, nil
}

func (s *service) notifyRole(ctx context.Context, role user.Role, kind notification.Type, text string) {
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list notification recipients",
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
		return
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	s.notifier.NotifyUsers(ctx, ids, kind, text)
}

func (s *service) invalidateTeamList(ctx context.Context) {
	if err := s.teamCache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "team listing cache invalidation failed", slog.String("error", err.Error()))
	}
}

func (s *service) invalidateCallDetail(ctx context.Context, callID uuid.UUID) {
	if err := s.callCache.InvalidateFullInfo(ctx, callID); err != nil {
		slog.WarnContext(ctx, "call detail cache invalidation failed", slog.String("error", err.Error()))
	}
}

func (s *service) invalidateTeamCall(ctx context.Context, teamID uuid.UUID) {
	if err := s.callCache.InvalidateByTeam(ctx, teamID); err != nil {
		slog.WarnContext(ctx, "team call cache invalidation failed", slog.String("error", err.Error()))
	}
}
