package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeConn struct {
	messages []any
	failNext bool
	closed   bool
}

func (f *fakeConn) WriteJSON(v any) error {
	if f.failNext {
		return errors.New("write failed")
	}
	f.messages = append(f.messages, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestHub_DispatcherBroadcast(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.RegisterDispatcher(a)
	hub.RegisterDispatcher(b)

	hub.BroadcastToDispatchers(CallRejected(uuid.New()))

	if len(a.messages) != 1 || len(b.messages) != 1 {
		t.Fatalf("expected one message each, got %d and %d", len(a.messages), len(b.messages))
	}
}

func TestHub_RegisterIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.RegisterDispatcher(conn)
	hub.RegisterDispatcher(conn)

	hub.BroadcastToDispatchers(CallRejected(uuid.New()))

	if len(conn.messages) != 1 {
		t.Fatalf("duplicate registration duplicated delivery: %d messages", len(conn.messages))
	}
}

func TestHub_UnregisterUnknownConn(t *testing.T) {
	hub := NewHub()
	// Must not panic or close a connection it never held.
	conn := &fakeConn{}
	hub.UnregisterDispatcher(conn)
	hub.UnregisterWorker(conn)

	if conn.closed {
		t.Fatal("unregistered connection should not be closed")
	}
}

func TestHub_TeamBroadcastTargetsOneTeam(t *testing.T) {
	hub := NewHub()
	teamA, teamB := uuid.New(), uuid.New()
	a1, a2, b1 := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.RegisterWorker(a1, teamA)
	hub.RegisterWorker(a2, teamA)
	hub.RegisterWorker(b1, teamB)

	hub.BroadcastToTeam(teamA, MoveFinished(teamA))

	if len(a1.messages) != 1 || len(a2.messages) != 1 {
		t.Fatal("expected both team A workers to receive the event")
	}
	if len(b1.messages) != 0 {
		t.Fatal("team B must not receive team A events")
	}
}

func TestHub_FailedWriteDropsOnlyThatConn(t *testing.T) {
	hub := NewHub()
	healthy, broken := &fakeConn{}, &fakeConn{failNext: true}
	hub.RegisterDispatcher(healthy)
	hub.RegisterDispatcher(broken)

	hub.BroadcastToDispatchers(CallRejected(uuid.New()))

	if len(healthy.messages) != 1 {
		t.Fatal("healthy connection should still receive the event")
	}
	if !broken.closed {
		t.Fatal("failed connection should be closed")
	}

	// The dropped connection gets nothing on the next broadcast.
	broken.failNext = false
	hub.BroadcastToDispatchers(CallRejected(uuid.New()))

	if len(broken.messages) != 0 {
		t.Fatal("dropped connection must stay unregistered")
	}
	if len(healthy.messages) != 2 {
		t.Fatalf("expected 2 messages on healthy connection, got %d", len(healthy.messages))
	}
}

// blockingConn parks inside WriteJSON until released, simulating a client
// with TCP backpressure.
type blockingConn struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingConn) WriteJSON(v any) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func (b *blockingConn) Close() error { return nil }

func TestHub_SlowClientDoesNotStallOtherBroadcasts(t *testing.T) {
	hub := NewHub()
	teamID := uuid.New()
	slow := &blockingConn{entered: make(chan struct{}), release: make(chan struct{})}
	worker := &fakeConn{}
	hub.RegisterDispatcher(slow)
	hub.RegisterWorker(worker, teamID)

	go hub.BroadcastToDispatchers(CallRejected(uuid.New()))
	<-slow.entered // the slow write is now in flight

	done := make(chan struct{})
	go func() {
		hub.BroadcastToTeam(teamID, MoveFinished(teamID))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("team broadcast stalled behind a slow dispatcher write")
	}
	close(slow.release)

	if len(worker.messages) != 1 {
		t.Fatalf("expected 1 worker message, got %d", len(worker.messages))
	}
}

// reentrantConn drops itself from the hub while its write is being served,
// as a read-loop teardown racing a broadcast would.
type reentrantConn struct {
	hub *Hub
}

func (r *reentrantConn) WriteJSON(v any) error {
	r.hub.UnregisterDispatcher(r)
	return nil
}

func (r *reentrantConn) Close() error { return nil }

func TestHub_UnregisterDuringBroadcast(t *testing.T) {
	hub := NewHub()
	conn := &reentrantConn{hub: hub}
	hub.RegisterDispatcher(conn)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToDispatchers(CallRejected(uuid.New()))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("broadcast deadlocked on a concurrent unregister")
	}
}

func TestHub_WorkerUnregisterCleansTeamSet(t *testing.T) {
	hub := NewHub()
	teamID := uuid.New()
	conn := &fakeConn{}
	hub.RegisterWorker(conn, teamID)
	hub.UnregisterWorker(conn)

	hub.BroadcastToTeam(teamID, MoveFinished(teamID))

	if len(conn.messages) != 0 {
		t.Fatal("unregistered worker must not receive events")
	}
}
