package session

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/mission"
	"github.com/vaultrun/scaperoom-backend/internal/quiz"
	"github.com/vaultrun/scaperoom-backend/internal/squad"
	"github.com/vaultrun/scaperoom-backend/pkg/protocol"
)

var ErrMissionAlreadyLaunched = errors.New("mission already launched")

type Msg interface{ isSessionMsg() }

type Join struct {
	LinkID string
	Outbox chan protocol.Envelope // where this link receives host messages
}

func (Join) isSessionMsg() {}

type Leave struct{ LinkID string }

func (Leave) isSessionMsg() {}

// FromLink is an inbound envelope attributed to one peer link.
type FromLink struct {
	LinkID string
	Env    protocol.Envelope
}

func (FromLink) isSessionMsg() {}

// Launch starts the mission: shuffle, partition into sectors, broadcast.
type Launch struct {
	Reply chan error
}

func (Launch) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Completion struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// View reflects session state without data races; used by tests and the
// monitor endpoint.
type View struct {
	Code        string         `json:"code"`
	Reserved    []string       `json:"reserved"`
	Completions []Completion   `json:"completions"`
	Progress    map[string]int `json:"progress"`
	Launched    bool           `json:"launched"`
	NumLinks    int            `json:"num_links"`
}

type Params struct {
	Code      string
	Keyword   string
	Questions []quiz.Question
	Now       func() time.Time // defaults to time.Now
	Rand      *rand.Rand       // defaults to a time-seeded source
	Log       *zap.Logger      // defaults to zap.NewNop()
}

// Session is the host-side source of truth for one room. All state is owned
// by the loop goroutine; every inbound message is handled to completion
// before the next, which is what makes the reservation check-and-mark atomic.
type Session struct {
	inbox chan Msg

	code      string
	keyword   string
	questions []quiz.Question

	links       map[string]chan protocol.Envelope
	reserved    []string          // ordered by reservation time
	reservedBy  map[string]string // identity -> link ID
	completions []Completion
	progress    map[string]int

	launched   bool
	launchedAt time.Time

	now func() time.Time
	rng *rand.Rand
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, p Params) *Session {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.Log == nil {
		p.Log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:      make(chan Msg, 64),
		code:       p.Code,
		keyword:    p.Keyword,
		questions:  p.Questions,
		links:      make(map[string]chan protocol.Envelope),
		reservedBy: make(map[string]string),
		progress:   make(map[string]int),
		now:        p.Now,
		rng:        p.Rand,
		log:        p.Log.With(zap.String("room", p.Code)),
		ctx:        ctx,
		cancel:     cancel,
	}

	go s.loop()
	return s
}

// Inbox exposes the message channel to the WS layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register the link and send the current reservation set
				// immediately so a fresh team never races stale state.
				s.links[msg.LinkID] = msg.Outbox
				msg.Outbox <- protocol.SyncIdentities(slices.Clone(s.reserved))
				s.log.Info("link joined", zap.String("link", msg.LinkID))

			case Leave:
				delete(s.links, msg.LinkID)
				s.log.Info("link left", zap.String("link", msg.LinkID))

			case FromLink:
				s.handleEnvelope(msg.LinkID, msg.Env)

			case Launch:
				err := s.launch()
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case GetState:
				msg.Reply <- View{
					Code:        s.code,
					Reserved:    slices.Clone(s.reserved),
					Completions: slices.Clone(s.completions),
					Progress:    cloneProgress(s.progress),
					Launched:    s.launched,
					NumLinks:    len(s.links),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleEnvelope(linkID string, env protocol.Envelope) {
	switch env.Type {
	case protocol.KindRequestIdentity:
		s.handleReservation(linkID, env.Name)

	case protocol.KindTeamFinished:
		s.handleFinished(env.Name)

	case protocol.KindSquadProgress:
		if _, taken := s.reservedBy[env.Name]; taken {
			s.progress[env.Name] = env.Progress
		}

	default:
		// Unknown kinds are discarded. Known gap: no NACK back to the sender.
		s.log.Debug("discarding message", zap.String("type", string(env.Type)))
	}
}

// handleReservation is the single atomic check-and-mark for an identity. The
// accept reply goes to the requester before the broadcast so the requester
// never observes a snapshot missing its own accepted name.
func (s *Session) handleReservation(linkID, name string) {
	out, ok := s.links[linkID]
	if !ok {
		return
	}

	if !squad.Valid(name) || slices.Contains(s.reserved, name) {
		s.sendTo(linkID, out, protocol.Envelope{Type: protocol.KindIdentityDenied})
		return
	}

	s.reserved = append(s.reserved, name)
	s.reservedBy[name] = linkID
	s.sendTo(linkID, out, protocol.Envelope{Type: protocol.KindIdentityAccepted})
	s.broadcast(protocol.SyncIdentities(slices.Clone(s.reserved)))
	s.log.Info("identity reserved", zap.String("squad", name), zap.String("link", linkID))
}

// handleFinished records a completion exactly once per identity. Duration is
// measured from the shared launch timestamp and never recomputed.
func (s *Session) handleFinished(name string) {
	if !s.launched {
		return
	}
	for _, c := range s.completions {
		if c.Name == name {
			return
		}
	}
	d := s.now().Sub(s.launchedAt)
	s.completions = append(s.completions, Completion{Name: name, Duration: d})
	s.log.Info("squad finished", zap.String("squad", name), zap.Duration("elapsed", d))
}

func (s *Session) launch() error {
	if s.launched {
		return ErrMissionAlreadyLaunched
	}

	m, err := mission.Plan(s.questions, s.keyword, s.rng)
	if err != nil {
		return err
	}

	s.launched = true
	s.launchedAt = s.now()
	s.broadcast(protocol.LaunchMission(m))
	s.log.Info("mission launched", zap.Int("questions", len(s.questions)))
	return nil
}

func (s *Session) shutdown() {
	for id, ch := range s.links {
		close(ch)
		delete(s.links, id)
	}
	s.cancel()
}

func (s *Session) sendTo(linkID string, out chan protocol.Envelope, env protocol.Envelope) {
	select {
	case out <- env:
	default:
		// Link is slow/full - drop it.
		close(out)
		delete(s.links, linkID)
	}
}

func (s *Session) broadcast(env protocol.Envelope) {
	for id, ch := range s.links {
		s.sendTo(id, ch, env)
	}
}

func cloneProgress(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
