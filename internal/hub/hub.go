package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

// CreateSession registers a new room. If the code is already taken the
// existing session is returned; callers pick a fresh code and retry.
type CreateSession struct {
	Params session.Params
	Reply  chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub owns the room-code -> session registry for one host process.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if s := h.sessions[msg.Params.Code]; s != nil {
					msg.Reply <- s
					break
				}
				s := session.New(h.ctx, msg.Params)
				h.sessions[msg.Params.Code] = s
				h.log.Info("room created", zap.String("code", msg.Params.Code))
				msg.Reply <- s

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case RemoveSession:
				delete(h.sessions, msg.Code)

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}
