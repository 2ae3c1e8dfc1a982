package hub

import (
	"context"
	"testing"
	"time"

	"github.com/vaultrun/scaperoom-backend/internal/session"
)

func recvSession(t *testing.T, ch <-chan *session.Session, within time.Duration) *session.Session {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(within):
		t.Fatalf("timed out waiting for session reply")
		return nil // unreachable
	}
}

func TestHubCreateAndGet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(ctx, nil)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Params: session.Params{Code: "AB1CD", Keyword: "ATOMO"}, Reply: reply}
	created := recvSession(t, reply, 100*time.Millisecond)
	if created == nil {
		t.Fatal("expected a session")
	}

	getReply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "AB1CD", Reply: getReply}
	if got := recvSession(t, getReply, 100*time.Millisecond); got != created {
		t.Fatal("get should return the created session")
	}

	missingReply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "ZZZZZ", Reply: missingReply}
	if got := recvSession(t, missingReply, 100*time.Millisecond); got != nil {
		t.Fatal("unknown code should return nil")
	}
}

func TestHubCreateOnTakenCodeReturnsExisting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(ctx, nil)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Params: session.Params{Code: "AB1CD", Keyword: "ATOMO"}, Reply: reply}
	first := recvSession(t, reply, 100*time.Millisecond)

	reply2 := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Params: session.Params{Code: "AB1CD", Keyword: "OTRO"}, Reply: reply2}
	if got := recvSession(t, reply2, 100*time.Millisecond); got != first {
		t.Fatal("creating on a taken code must return the existing session, not replace it")
	}
}

func TestHubRemove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(ctx, nil)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Params: session.Params{Code: "AB1CD"}, Reply: reply}
	_ = recvSession(t, reply, 100*time.Millisecond)

	h.Inbox() <- RemoveSession{Code: "AB1CD"}

	getReply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "AB1CD", Reply: getReply}
	if got := recvSession(t, getReply, 100*time.Millisecond); got != nil {
		t.Fatal("removed code should no longer resolve")
	}
}
