package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Dmitriy-Gavrilov/Medicine/internal/call"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/common"
	domainerrors "github.com/Dmitriy-Gavrilov/Medicine/internal/errors"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/notification"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/team"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/user"
	"github.com/Dmitriy-Gavrilov/Medicine/internal/ws"
)

// --- fakes ---

type fakeCallRepo struct {
	calls     map[uuid.UUID]*call.Call
	duplicate bool
}

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{calls: make(map[uuid.UUID]*call.Call)}
}

func (f *fakeCallRepo) Create(ctx context.Context, ext sqlx.ExtContext, c *call.Call) error {
	copied := *c
	f.calls[c.ID] = &copied
	return nil
}

func (f *fakeCallRepo) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*call.Call, error) {
	c, ok := f.calls[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCallRepo) Update(ctx context.Context, ext sqlx.ExtContext, c *call.Call) error {
	copied := *c
	f.calls[c.ID] = &copied
	return nil
}

func (f *fakeCallRepo) ListAll(ctx context.Context, ext sqlx.ExtContext) ([]*call.Call, error) {
	return nil, nil
}

func (f *fakeCallRepo) ListByStatus(ctx context.Context, ext sqlx.ExtContext, status call.Status) ([]*call.Call, error) {
	return nil, nil
}

func (f *fakeCallRepo) ListActual(ctx context.Context, ext sqlx.ExtContext) ([]*call.Call, error) {
	return nil, nil
}

func (f *fakeCallRepo) GetAcceptedByTeam(ctx context.Context, ext sqlx.ExtContext, teamID uuid.UUID) (*call.Call, error) {
	for _, c := range f.calls {
		if c.Status == call.StatusAccepted && c.TeamID != nil && *c.TeamID == teamID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCallRepo) FindDuplicate(ctx context.Context, ext sqlx.ExtContext, d call.Draft) (bool, error) {
	return f.duplicate, nil
}

func (f *fakeCallRepo) GetFullInfo(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*call.FullInfo, error) {
	c, ok := f.calls[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &call.FullInfo{ID: c.ID, Reason: c.Reason, Status: c.Status, Type: c.Type}, nil
}

type fakeTeams struct {
	teams map[uuid.UUID]*team.Team
	moved []common.Coordinates
}

func (f *fakeTeams) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, domainerrors.TeamNotFound(id.String())
	}
	return t, nil
}

func (f *fakeTeams) Move(ctx context.Context, id uuid.UUID, to common.Coordinates) (*team.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, domainerrors.TeamNotFound(id.String())
	}
	t.Lat, t.Lon = to.Lat, to.Lon
	f.moved = append(f.moved, to)
	return t, nil
}

type fakeCars struct {
	broken []uuid.UUID
}

func (f *fakeCars) MarkBroken(ctx context.Context, id uuid.UUID) error {
	f.broken = append(f.broken, id)
	return nil
}

type fakeUsers struct {
	byRole map[user.Role][]*user.User
}

func (f *fakeUsers) ListByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	return f.byRole[role], nil
}

type sentNotification struct {
	userIDs []uuid.UUID
	kind    notification.Type
	text    string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, kind notification.Type, text string) {
	f.sent = append(f.sent, sentNotification{userIDs: userIDs, kind: kind, text: text})
}

type fakeHub struct {
	dispatcherEvents []any
	teamEvents       map[uuid.UUID][]any
}

func newFakeHub() *fakeHub {
	return &fakeHub{teamEvents: make(map[uuid.UUID][]any)}
}

func (f *fakeHub) BroadcastToDispatchers(event any) {
	f.dispatcherEvents = append(f.dispatcherEvents, event)
}

func (f *fakeHub) BroadcastToTeam(teamID uuid.UUID, event any) {
	f.teamEvents[teamID] = append(f.teamEvents[teamID], event)
}

type fakeRouter struct {
	route   []common.Coordinates
	err     error
	queries int
}

func (f *fakeRouter) Route(ctx context.Context, from, to common.Coordinates) ([]common.Coordinates, error) {
	f.queries++
	return f.route, f.err
}

type fakeMover struct {
	routes    map[uuid.UUID][]common.Coordinates
	cached    []common.Coordinates
	hit       bool
	started   []uuid.UUID
	startOK   bool
	cancelled []uuid.UUID
}

func newFakeMover() *fakeMover {
	return &fakeMover{routes: make(map[uuid.UUID][]common.Coordinates), startOK: true}
}

func (f *fakeMover) SetRoute(teamID uuid.UUID, route []common.Coordinates) {
	f.routes[teamID] = route
}

func (f *fakeMover) RouteFor(teamID uuid.UUID, pos common.Coordinates) ([]common.Coordinates, bool) {
	return f.cached, f.hit
}

func (f *fakeMover) Start(ctx context.Context, teamID uuid.UUID) (bool, error) {
	f.started = append(f.started, teamID)
	return f.startOK, nil
}

func (f *fakeMover) Cancel(ctx context.Context, teamID uuid.UUID) error {
	f.cancelled = append(f.cancelled, teamID)
	return nil
}

type fakeCallCache struct {
	fullInfoInvalidated []uuid.UUID
	byTeamInvalidated   []uuid.UUID
}

func (f *fakeCallCache) GetFullInfo(ctx context.Context, callID uuid.UUID, dest any) (bool, error) {
	return false, nil
}
func (f *fakeCallCache) SetFullInfo(ctx context.Context, callID uuid.UUID, v any) error { return nil }
func (f *fakeCallCache) InvalidateFullInfo(ctx context.Context, callID uuid.UUID) error {
	f.fullInfoInvalidated = append(f.fullInfoInvalidated, callID)
	return nil
}
func (f *fakeCallCache) GetByTeam(ctx context.Context, teamID uuid.UUID, dest any) (bool, error) {
	return false, nil
}
func (f *fakeCallCache) SetByTeam(ctx context.Context, teamID uuid.UUID, v any) error { return nil }
func (f *fakeCallCache) InvalidateByTeam(ctx context.Context, teamID uuid.UUID) error {
	f.byTeamInvalidated = append(f.byTeamInvalidated, teamID)
	return nil
}

type fakeTeamCache struct {
	invalidations int
}

func (f *fakeTeamCache) Invalidate(ctx context.Context) error {
	f.invalidations++
	return nil
}

// --- fixture ---

type fixture struct {
	service Service

	callRepo  *fakeCallRepo
	teams     *fakeTeams
	cars      *fakeCars
	users     *fakeUsers
	notifier  *fakeNotifier
	hub       *fakeHub
	router    *fakeRouter
	mover     *fakeMover
	callCache *fakeCallCache
	teamCache *fakeTeamCache

	teamID     uuid.UUID
	carID      uuid.UUID
	dispatcher *user.User
	admin      *user.User
}

func newFixture() *fixture {
	teamID, carID := uuid.New(), uuid.New()
	dispatcher := &user.User{ID: uuid.New(), Role: user.RoleDispatcher}
	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}

	f := &fixture{
		callRepo: newFakeCallRepo(),
		teams: &fakeTeams{teams: map[uuid.UUID]*team.Team{
			teamID: {
				ID:        teamID,
				Worker1ID: uuid.New(),
				Worker2ID: uuid.New(),
				Worker3ID: uuid.New(),
				CarID:     carID,
				Lat:       59.90,
				Lon:       30.32,
			},
		}},
		cars: &fakeCars{},
		users: &fakeUsers{byRole: map[user.Role][]*user.User{
			user.RoleDispatcher: {dispatcher},
			user.RoleAdmin:      {admin},
		}},
		notifier:  &fakeNotifier{},
		hub:       newFakeHub(),
		router:    &fakeRouter{route: []common.Coordinates{{Lat: 59.91, Lon: 30.33}}},
		mover:     newFakeMover(),
		callCache: &fakeCallCache{},
		teamCache: &fakeTeamCache{},

		teamID:     teamID,
		carID:      carID,
		dispatcher: dispatcher,
		admin:      admin,
	}

	f.service = NewService(
		f.callRepo, nil,
		f.teams, f.cars, f.users, f.notifier,
		f.hub, f.router, f.mover,
		f.callCache, f.teamCache,
	)
	return f
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Reason:    "Chest pain",
		Address:   "Nevsky Prospekt, 1",
		DateTime:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Lat:       59.93,
		Lon:       30.33,
		Type:      call.TypeCritical,
		PatientID: uuid.New(),
	}
}

func (f *fixture) createCall(t *testing.T) *call.Call {
	t.Helper()
	c, err := f.service.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return c
}

func (f *fixture) acceptCall(t *testing.T) *call.Call {
	t.Helper()
	c := f.createCall(t)
	accepted, err := f.service.Accept(context.Background(), c.ID, f.teamID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	return accepted
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var de *domainerrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("expected %s, got %s", code, de.Code)
	}
}

// --- create ---

func TestCreate_BroadcastsAndNotifies(t *testing.T) {
	f := newFixture()
	c := f.createCall(t)

	if c.Status != call.StatusNew {
		t.Fatalf("expected new, got %s", c.Status)
	}
	if len(f.hub.dispatcherEvents) != 1 {
		t.Fatalf("expected 1 dispatcher event, got %d", len(f.hub.dispatcherEvents))
	}
	if _, ok := f.hub.dispatcherEvents[0].(ws.NewCallEvent); !ok {
		t.Fatalf("expected NewCallEvent, got %T", f.hub.dispatcherEvents[0])
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].userIDs[0] != f.dispatcher.ID {
		t.Fatal("expected the dispatcher to be notified")
	}
}

func TestCreate_Duplicate(t *testing.T) {
	f := newFixture()
	f.callRepo.duplicate = true

	_, err := f.service.Create(context.Background(), validCreateRequest())
	assertCode(t, err, domainerrors.ErrConflict)

	if len(f.callRepo.calls) != 0 {
		t.Fatal("duplicate must not be stored")
	}
	if len(f.hub.dispatcherEvents) != 0 {
		t.Fatal("duplicate must not be announced")
	}
}

func TestCreate_InvalidType(t *testing.T) {
	f := newFixture()
	req := validCreateRequest()
	req.Type = "urgent"

	_, err := f.service.Create(context.Background(), req)
	assertCode(t, err, domainerrors.ErrValidation)
}

// --- accept ---

func TestAccept_NotifiesWorkersAndInvalidatesTeamList(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	if c.Status != call.StatusAccepted || c.TeamID == nil || *c.TeamID != f.teamID {
		t.Fatal("call must be accepted with the team assigned")
	}
	if f.teamCache.invalidations != 1 {
		t.Fatalf("expected 1 team list invalidation, got %d", f.teamCache.invalidations)
	}

	// Second notification after the create one, addressed to the 3 workers.
	if len(f.notifier.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(f.notifier.sent))
	}
	if len(f.notifier.sent[1].userIDs) != 3 {
		t.Fatalf("expected 3 worker recipients, got %d", len(f.notifier.sent[1].userIDs))
	}

	last := f.hub.dispatcherEvents[len(f.hub.dispatcherEvents)-1]
	if _, ok := last.(ws.CallAcceptedEvent); !ok {
		t.Fatalf("expected CallAcceptedEvent, got %T", last)
	}
	teamEvents := f.hub.teamEvents[f.teamID]
	if len(teamEvents) != 1 {
		t.Fatalf("expected 1 team event, got %d", len(teamEvents))
	}
	if _, ok := teamEvents[0].(ws.AssignedCallEvent); !ok {
		t.Fatalf("expected AssignedCallEvent, got %T", teamEvents[0])
	}
}

func TestAccept_BusyTeam(t *testing.T) {
	f := newFixture()
	f.acceptCall(t)

	second, err := f.service.Create(context.Background(), CreateRequest{
		Reason:    "Road accident",
		Address:   "Sadovaya Street, 5",
		DateTime:  time.Now(),
		Lat:       59.92,
		Lon:       30.31,
		Type:      call.TypeImportant,
		PatientID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.service.Accept(context.Background(), second.ID, f.teamID)
	assertCode(t, err, domainerrors.ErrConflict)
}

func TestAccept_NotNew(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	_, err := f.service.Accept(context.Background(), c.ID, f.teamID)
	assertCode(t, err, domainerrors.ErrConflict)
}

func TestAccept_UnknownCall(t *testing.T) {
	f := newFixture()
	_, err := f.service.Accept(context.Background(), uuid.New(), f.teamID)
	assertCode(t, err, domainerrors.ErrNotFound)
}

// --- reject ---

func TestReject_FromNew(t *testing.T) {
	f := newFixture()
	c := f.createCall(t)

	rejected, err := f.service.Reject(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != call.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	if len(f.callCache.fullInfoInvalidated) != 1 || f.callCache.fullInfoInvalidated[0] != c.ID {
		t.Fatal("expected the call detail cache to be invalidated")
	}
	last := f.hub.dispatcherEvents[len(f.hub.dispatcherEvents)-1]
	if _, ok := last.(ws.CallRejectedEvent); !ok {
		t.Fatalf("expected CallRejectedEvent, got %T", last)
	}
}

func TestReject_FromAccepted_Fails(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	_, err := f.service.Reject(context.Background(), c.ID)
	assertCode(t, err, domainerrors.ErrInvalidTransition)
}

// --- complete ---

func TestComplete_MovesTeamAndInvalidatesCaches(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	completed, err := f.service.Complete(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != call.StatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}

	if len(f.teams.moved) != 1 || f.teams.moved[0] != c.Coordinates() {
		t.Fatal("team must be repositioned to the call site")
	}
	if f.teamCache.invalidations != 2 { // accept + complete
		t.Fatalf("expected 2 team list invalidations, got %d", f.teamCache.invalidations)
	}
	if len(f.callCache.fullInfoInvalidated) != 1 {
		t.Fatal("expected the call detail cache to be invalidated")
	}
	if len(f.callCache.byTeamInvalidated) != 1 || f.callCache.byTeamInvalidated[0] != f.teamID {
		t.Fatal("expected the by-team cache to be invalidated")
	}

	last := f.hub.dispatcherEvents[len(f.hub.dispatcherEvents)-1]
	if _, ok := last.(ws.AvailableTeamEvent); !ok {
		t.Fatalf("expected AvailableTeamEvent, got %T", last)
	}
	teamEvents := f.hub.teamEvents[f.teamID]
	if _, ok := teamEvents[len(teamEvents)-1].(ws.CompletedCallEvent); !ok {
		t.Fatal("expected CompletedCallEvent for the team")
	}
	if f.notifier.sent[len(f.notifier.sent)-1].kind != notification.TypeSuccess {
		t.Fatal("expected a success notification")
	}
}

func TestComplete_FromNew_Fails(t *testing.T) {
	f := newFixture()
	c := f.createCall(t)

	_, err := f.service.Complete(context.Background(), c.ID)
	assertCode(t, err, domainerrors.ErrInvalidTransition)
}

// --- trouble ---

func TestReportTrouble_CarBroken(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	reset, err := f.service.ReportTrouble(context.Background(), c.ID, TroubleCarBroken)
	if err != nil {
		t.Fatalf("trouble failed: %v", err)
	}

	if reset.Status != call.StatusNew || reset.TeamID != nil {
		t.Fatal("call must be reset to new with the team cleared")
	}
	if len(f.mover.cancelled) != 1 || f.mover.cancelled[0] != f.teamID {
		t.Fatal("in-flight movement must be cancelled")
	}
	if len(f.cars.broken) != 1 || f.cars.broken[0] != f.carID {
		t.Fatal("the team car must be marked broken")
	}

	// Recipients: create → dispatchers, accept → workers, trouble → admins then dispatchers.
	adminNote := f.notifier.sent[2]
	if adminNote.kind != notification.TypeTrouble || adminNote.userIDs[0] != f.admin.ID {
		t.Fatal("admins must be notified about the broken car")
	}
	dispatcherNote := f.notifier.sent[3]
	if dispatcherNote.kind != notification.TypeTrouble || dispatcherNote.userIDs[0] != f.dispatcher.ID {
		t.Fatal("dispatchers must be notified about the trouble")
	}

	if f.teamCache.invalidations != 2 { // accept + trouble
		t.Fatalf("expected 2 team list invalidations, got %d", f.teamCache.invalidations)
	}
	if len(f.callCache.byTeamInvalidated) != 1 {
		t.Fatal("expected the by-team cache to be invalidated")
	}

	n := len(f.hub.dispatcherEvents)
	if _, ok := f.hub.dispatcherEvents[n-2].(ws.NewCallEvent); !ok {
		t.Fatal("dispatchers must see the call re-announced")
	}
	if _, ok := f.hub.dispatcherEvents[n-1].(ws.AvailableTeamEvent); !ok {
		t.Fatal("dispatchers must see the team become available")
	}
	teamEvents := f.hub.teamEvents[f.teamID]
	if _, ok := teamEvents[len(teamEvents)-1].(ws.TroubleCallEvent); !ok {
		t.Fatal("the team must receive the trouble event")
	}
}

func TestReportTrouble_HumanFactor_KeepsCar(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	if _, err := f.service.ReportTrouble(context.Background(), c.ID, TroubleHumanFactor); err != nil {
		t.Fatalf("trouble failed: %v", err)
	}
	if len(f.cars.broken) != 0 {
		t.Fatal("a human factor report must not break the car")
	}
}

func TestReportTrouble_UnknownKind(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	_, err := f.service.ReportTrouble(context.Background(), c.ID, "weather")
	assertCode(t, err, domainerrors.ErrValidation)
}

func TestReportTrouble_FromNew_Fails(t *testing.T) {
	f := newFixture()
	c := f.createCall(t)

	_, err := f.service.ReportTrouble(context.Background(), c.ID, TroubleCarBroken)
	assertCode(t, err, domainerrors.ErrInvalidTransition)
}

func TestReportTrouble_OnCompleted_NoSideEffects(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)
	if _, err := f.service.Complete(context.Background(), c.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	notificationsBefore := len(f.notifier.sent)
	eventsBefore := len(f.hub.dispatcherEvents)

	_, err := f.service.ReportTrouble(context.Background(), c.ID, TroubleCarBroken)
	assertCode(t, err, domainerrors.ErrInvalidTransition)

	// A completed call still carries its team, so the rejection must happen
	// before any side effect touches the team or its car.
	if len(f.cars.broken) != 0 {
		t.Fatalf("car was marked broken on a rejected transition: %d cars", len(f.cars.broken))
	}
	if len(f.mover.cancelled) != 0 {
		t.Fatal("movement was cancelled on a rejected transition")
	}
	if len(f.notifier.sent) != notificationsBefore {
		t.Fatal("notifications were sent on a rejected transition")
	}
	if len(f.hub.dispatcherEvents) != eventsBefore {
		t.Fatal("events were broadcast on a rejected transition")
	}
	if got := f.callRepo.calls[c.ID].Status; got != call.StatusCompleted {
		t.Fatalf("call status changed on a rejected transition: %s", got)
	}
}

// --- route & movement ---

func TestGetRoute_CachedRouteSkipsProvider(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	f.mover.hit = true
	f.mover.cached = []common.Coordinates{{Lat: 59.91, Lon: 30.33}}

	route, err := f.service.GetRoute(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if f.router.queries != 0 {
		t.Fatal("a cached route must not hit the provider")
	}
	if len(route) != 1 {
		t.Fatalf("expected the cached route, got %d points", len(route))
	}
}

func TestGetRoute_MissQueriesAndCaches(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)

	route, err := f.service.GetRoute(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("route failed: %v", err)
	}
	if f.router.queries != 1 {
		t.Fatalf("expected 1 provider query, got %d", f.router.queries)
	}
	if len(f.mover.routes[f.teamID]) != len(route) {
		t.Fatal("the fresh route must be cached for the walk")
	}
}

func TestGetRoute_ProviderFailure(t *testing.T) {
	f := newFixture()
	c := f.acceptCall(t)
	f.router.err = errors.New("503 from provider")

	_, err := f.service.GetRoute(context.Background(), c.ID)
	assertCode(t, err, domainerrors.ErrRouting)
}

func TestGetRoute_UnassignedCall(t *testing.T) {
	f := newFixture()
	c := f.createCall(t)

	_, err := f.service.GetRoute(context.Background(), c.ID)
	assertCode(t, err, domainerrors.ErrConflict)
}

func TestStartMove_BroadcastsToTeam(t *testing.T) {
	f := newFixture()
	f.acceptCall(t)

	if err := f.service.StartMove(context.Background(), f.teamID); err != nil {
		t.Fatalf("start move failed: %v", err)
	}
	if len(f.mover.started) != 1 {
		t.Fatal("expected the simulator to start")
	}
	teamEvents := f.hub.teamEvents[f.teamID]
	if _, ok := teamEvents[len(teamEvents)-1].(ws.MoveStartedEvent); !ok {
		t.Fatal("the team must receive move_started")
	}
}

func TestStartMove_AlreadyMoving_NoEvent(t *testing.T) {
	f := newFixture()
	f.acceptCall(t)
	f.mover.startOK = false

	if err := f.service.StartMove(context.Background(), f.teamID); err != nil {
		t.Fatalf("start move failed: %v", err)
	}

	teamEvents := f.hub.teamEvents[f.teamID]
	for _, e := range teamEvents {
		if _, ok := e.(ws.MoveStartedEvent); ok {
			t.Fatal("a no-op start must not broadcast move_started")
		}
	}
}

func TestStartMove_NoAcceptedCall(t *testing.T) {
	f := newFixture()
	err := f.service.StartMove(context.Background(), f.teamID)
	assertCode(t, err, domainerrors.ErrNotFound)
}
