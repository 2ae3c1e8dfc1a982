package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/hub"
	"github.com/vaultrun/scaperoom-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, publicURL string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h, log))
	r.Post("/rooms/{code}/launch", LaunchRoom(h))
	r.Get("/rooms/{code}", RoomState(h))
	r.Get("/rooms/{code}/qr", RoomQR(h, publicURL))
	r.Get("/example.csv", ExampleCSV)
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
