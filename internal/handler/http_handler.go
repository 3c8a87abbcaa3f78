package handler

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/relaychat/relay/internal/history"
	"github.com/relaychat/relay/internal/registry"
	"github.com/relaychat/relay/internal/room"
	"github.com/relaychat/relay/pkg/log"
	"github.com/relaychat/relay/pkg/response"
	"github.com/relaychat/relay/pkg/storage"
)

// HTTPHandler exposes stateless snapshots of hub state plus the
// attachment upload endpoint. It only ever reads the stores; all
// mutation goes through the websocket service.
type HTTPHandler struct {
	users    *registry.Registry
	rooms    *room.Index
	messages *history.Log
	store    storage.Storage
	urlTTL   time.Duration
}

func NewHTTPHandler(
	users *registry.Registry,
	rooms *room.Index,
	messages *history.Log,
	store storage.Storage,
	urlTTL time.Duration,
) *HTTPHandler {
	return &HTTPHandler{
		users:    users,
		rooms:    rooms,
		messages: messages,
		store:    store,
		urlTTL:   urlTTL,
	}
}

// RegisterRoutes registers all routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/messages", h.GetMessages)
		api.GET("/users", h.GetUsers)
		api.GET("/rooms", h.GetRooms)
		api.POST("/upload", h.Upload)
	}

	r.GET("/health", h.HealthCheck)
}

// GetMessages returns retained history, optionally filtered by room.
func (h *HTTPHandler) GetMessages(c *gin.Context) {
	roomFilter := c.Query("room")
	response.Success(c, h.messages.Query(roomFilter))
}

// GetUsers returns the current registry snapshot.
func (h *HTTPHandler) GetUsers(c *gin.Context) {
	response.Success(c, h.users.Snapshot())
}

// GetRooms returns all known room names, default room first.
func (h *HTTPHandler) GetRooms(c *gin.Context) {
	response.Success(c, h.rooms.RoomNames())
}

// Upload stores an attachment and returns the URL the hub will treat
// as an opaque string on send_message.
func (h *HTTPHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "no file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		response.InternalError(c, "failed to read upload")
		return
	}
	defer file.Close()

	key := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	if err := h.store.Write(ctx, key, file, fileHeader.Size, contentType); err != nil {
		l.Error().Err(err).Msg("failed to store upload")
		response.InternalError(c, "failed to store upload")
		return
	}

	url, err := h.store.GetURL(ctx, key, h.urlTTL)
	if err != nil {
		l.Error().Err(err).Msg("failed to resolve upload url")
		response.InternalError(c, "failed to resolve upload url")
		return
	}

	response.Success(c, gin.H{"url": url})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
