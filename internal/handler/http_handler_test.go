package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaychat/relay/internal/domain"
	"github.com/relaychat/relay/internal/history"
	"github.com/relaychat/relay/internal/registry"
	"github.com/relaychat/relay/internal/room"
	"github.com/relaychat/relay/pkg/storage"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *registry.Registry, *room.Index, *history.Log) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := registry.New()
	rooms := room.NewIndex()
	messages := history.NewLog(100)

	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	h := NewHTTPHandler(users, rooms, messages, store, 15*time.Minute)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, users, rooms, messages
}

func doRequest(t *testing.T, r *gin.Engine, req *http.Request) apiResponse {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp
}

func TestGetMessages(t *testing.T) {
	r, _, _, messages := newTestRouter(t)

	messages.Append(domain.ChatMessage{Sender: "alice", Message: "hello"})
	messages.Append(domain.ChatMessage{Sender: "bob", Message: "in x", Room: "x"})
	messages.Append(domain.ChatMessage{Sender: "alice", Message: "secret", IsPrivate: true})

	resp := doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/messages", nil))
	var all []domain.ChatMessage
	require.NoError(t, json.Unmarshal(resp.Data, &all))
	assert.Len(t, all, 3)

	resp = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/messages?room=x", nil))
	var filtered []domain.ChatMessage
	require.NoError(t, json.Unmarshal(resp.Data, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "in x", filtered[0].Message)
}

func TestGetUsers(t *testing.T) {
	r, users, _, _ := newTestRouter(t)

	_, err := users.Join("c1", "alice")
	require.NoError(t, err)
	_, err = users.Join("c2", "bob")
	require.NoError(t, err)

	resp := doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	var got []domain.User
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "bob", got[1].Username)
}

func TestGetRooms(t *testing.T) {
	r, _, rooms, _ := newTestRouter(t)

	rooms.Ensure("games")

	resp := doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	var got []string
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, []string{domain.DefaultRoom, "games"}, got)
}

func TestUpload(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp := doRequest(t, r, req)
	var got struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Contains(t, got.URL, "/uploads/")
	assert.Contains(t, got.URL, ".png")
}

func TestUploadWithoutFileIsRejected(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
