package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaultrun/scaperoom-backend/internal/hub"
	"github.com/vaultrun/scaperoom-backend/internal/quiz"
	"github.com/vaultrun/scaperoom-backend/internal/session"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, zap.NewNop())
	return SetupRoutes(h, "http://localhost:8080", zap.NewNop())
}

func createRoom(t *testing.T, srv http.Handler, keyword, csv string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"keyword": keyword, "csv": csv})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewReader(body)))
	return rec
}

func TestGenerateCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 5)
		seen[code] = true
	}
	// 50 draws from a 36^5 space colliding down to a handful would mean a
	// broken generator.
	assert.Greater(t, len(seen), 40)
}

func TestCreateRoomReturnsCode(t *testing.T) {
	srv := testServer(t)

	rec := createRoom(t, srv, "ATOMO", quiz.ExampleCSV)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Code      string `json:"code"`
		Questions int    `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Code, 5)
	assert.GreaterOrEqual(t, resp.Questions, 5)
}

func TestCreateRoomRejectsSmallQuiz(t *testing.T) {
	srv := testServer(t)

	rec := createRoom(t, srv, "ATOMO", "quiz;solo una;a;b;;;30;1;\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateRoomRejectsMissingKeyword(t *testing.T) {
	srv := testServer(t)

	rec := createRoom(t, srv, "", quiz.ExampleCSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLaunchRoomOnceThenConflict(t *testing.T) {
	srv := testServer(t)

	rec := createRoom(t, srv, "ATOMO", quiz.ExampleCSV)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	launch := httptest.NewRecorder()
	srv.ServeHTTP(launch, httptest.NewRequest(http.MethodPost, "/rooms/"+resp.Code+"/launch", nil))
	assert.Equal(t, http.StatusOK, launch.Code)

	again := httptest.NewRecorder()
	srv.ServeHTTP(again, httptest.NewRequest(http.MethodPost, "/rooms/"+resp.Code+"/launch", nil))
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestRoomStateReflectsLaunch(t *testing.T) {
	srv := testServer(t)

	rec := createRoom(t, srv, "ATOMO", quiz.ExampleCSV)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	state := httptest.NewRecorder()
	srv.ServeHTTP(state, httptest.NewRequest(http.MethodGet, "/rooms/"+resp.Code, nil))
	require.Equal(t, http.StatusOK, state.Code)

	var view session.View
	require.NoError(t, json.NewDecoder(state.Body).Decode(&view))
	assert.Equal(t, resp.Code, view.Code)
	assert.False(t, view.Launched)
	assert.Empty(t, view.Reserved)

	launch := httptest.NewRecorder()
	srv.ServeHTTP(launch, httptest.NewRequest(http.MethodPost, "/rooms/"+resp.Code+"/launch", nil))
	require.Equal(t, http.StatusOK, launch.Code)

	state2 := httptest.NewRecorder()
	srv.ServeHTTP(state2, httptest.NewRequest(http.MethodGet, "/rooms/"+resp.Code, nil))
	require.NoError(t, json.NewDecoder(state2.Body).Decode(&view))
	assert.True(t, view.Launched)
}

func TestRoomQRServesPNG(t *testing.T) {
	srv := testServer(t)

	rec := createRoom(t, srv, "ATOMO", quiz.ExampleCSV)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	qr := httptest.NewRecorder()
	srv.ServeHTTP(qr, httptest.NewRequest(http.MethodGet, "/rooms/"+resp.Code+"/qr", nil))
	require.Equal(t, http.StatusOK, qr.Code)
	assert.Equal(t, "image/png", qr.Header().Get("Content-Type"))
	assert.NotEmpty(t, qr.Body.Bytes())
}

func TestUnknownRoomIs404(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"/rooms/ZZZZZ", "/rooms/ZZZZZ/qr"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	launch := httptest.NewRecorder()
	srv.ServeHTTP(launch, httptest.NewRequest(http.MethodPost, "/rooms/ZZZZZ/launch", nil))
	assert.Equal(t, http.StatusNotFound, launch.Code)
}

func TestExampleCSVDownload(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/example.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(quiz.Parse(rec.Body.String())), 5)
}
