package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/hub"
	"github.com/vaultrun/scaperoom-backend/internal/quiz"
	"github.com/vaultrun/scaperoom-backend/internal/session"
)

// Room codes are short on purpose: squads type them by hand on phones.
const codeLength = 5

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, codeLength)
	for i := 0; i < codeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createRoomRequest struct {
	Keyword string `json:"keyword"`
	CSV     string `json:"csv"`
}

// CreateRoom parses the quiz file, validates it can fill five sectors, and
// registers a session under a fresh room code.
func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		if req.Keyword == "" {
			http.Error(w, "missing keyword", http.StatusBadRequest)
			return
		}

		questions := quiz.Parse(req.CSV)
		if len(questions) < 5 {
			http.Error(w, "quiz too small for five sectors", http.StatusUnprocessableEntity)
			return
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetSession{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Warn("room code collision, regenerating", zap.String("code", c))
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.CreateSession{
			Params: session.Params{
				Code:      code,
				Keyword:   strings.ToUpper(req.Keyword),
				Questions: questions,
				Log:       log,
			},
			Reply: reply,
		}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code      string `json:"code"`
			Questions int    `json:"questions"`
		}{Code: code, Questions: len(questions)})
	}
}

// LaunchRoom triggers the one-time mission broadcast for a room.
func LaunchRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(h, chi.URLParam(r, "code"))
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		reply := make(chan error, 1)
		s.Inbox() <- session.Launch{Reply: reply}
		if err := <-reply; err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// RoomState serves the admin monitor view: reservations, progress, finishers.
func RoomState(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(h, chi.URLParam(r, "code"))
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		reply := make(chan session.View, 1)
		s.Inbox() <- session.GetState{Reply: reply}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(<-reply)
	}
}

// RoomQR renders the join URL for a room as a PNG so squads can scan in.
func RoomQR(h *hub.Hub, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if _, ok := lookup(h, code); !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		joinURL := fmt.Sprintf("%s/join?code=%s", publicURL, code)
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to render code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// ExampleCSV serves the sample quiz file admins can download as a template.
func ExampleCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ejemplo_scape_room.csv"`)
	_, _ = w.Write([]byte(quiz.ExampleCSV))
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookup(h *hub.Hub, code string) (*session.Session, bool) {
	if code == "" {
		return nil, false
	}
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
	s := <-reply
	return s, s != nil
}
