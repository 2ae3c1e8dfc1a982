package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/hub"
	"github.com/vaultrun/scaperoom-backend/internal/session"
	"github.com/vaultrun/scaperoom-backend/pkg/protocol"
)

const writeTimeout = 3 * time.Second

// Handler upgrades a team's connection into a peer link on the room named by
// the code query parameter. One goroutine writes session broadcasts out, the
// request goroutine reads inbound envelopes and forwards them to the session.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan protocol.Envelope, 8)
		linkID := uuid.NewString()

		s.Inbox() <- session.Join{LinkID: linkID, Outbox: out}
		defer func() { s.Inbox() <- session.Leave{LinkID: linkID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for env := range out {
				payload, err := json.Marshal(env)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				log.Debug("link read failed", zap.String("link", linkID), zap.Error(err))
				return
			}

			var env protocol.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"ERROR","error":"bad json"}`))
				continue
			}

			s.Inbox() <- session.FromLink{LinkID: linkID, Env: env}
		}
	}
}
