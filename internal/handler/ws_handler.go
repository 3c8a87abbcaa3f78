package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relaychat/relay/internal/config"
	"github.com/relaychat/relay/internal/domain"
	"github.com/relaychat/relay/internal/hub"
	"github.com/relaychat/relay/internal/service"
	"github.com/relaychat/relay/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades incoming connections and translates JSON frames
// into service calls. Malformed frames are dropped without reply; the
// hub never terminates on bad input.
type WSHandler struct {
	hub     *hub.Hub
	service service.ChatService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.ChatService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage, h.handleDisconnect)
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		l := log.L()
		l.Debug().Str(log.FieldConnectionID, client.ID).Msg("dropping malformed frame")
		return
	}

	ctx := context.Background()

	var err error
	switch base.Type {
	case domain.MsgTypeIdentify:
		var msg domain.IdentifyMessage
		if json.Unmarshal(message, &msg) != nil {
			return
		}
		err = h.service.HandleIdentify(ctx, client.ID, msg.Username)

	case domain.MsgTypeJoinRoom:
		var msg domain.JoinRoomMessage
		if json.Unmarshal(message, &msg) != nil {
			return
		}
		err = h.service.HandleJoinRoom(ctx, client.ID, msg.Room)

	case domain.MsgTypeLeaveRoom:
		var msg domain.LeaveRoomMessage
		if json.Unmarshal(message, &msg) != nil {
			return
		}
		err = h.service.HandleLeaveRoom(ctx, client.ID, msg.Room)

	case domain.MsgTypeSendMessage:
		var msg domain.SendMessageWS
		if json.Unmarshal(message, &msg) != nil {
			return
		}
		err = h.service.HandleSendMessage(ctx, client.ID, msg)

	case domain.MsgTypeTyping:
		var msg domain.TypingMessage
		if json.Unmarshal(message, &msg) != nil {
			return
		}
		err = h.service.HandleTyping(ctx, client.ID, msg.IsTyping)

	case domain.MsgTypePrivateMessage:
		var msg domain.PrivateMessageWS
		if json.Unmarshal(message, &msg) != nil {
			return
		}
		err = h.service.HandlePrivateMessage(ctx, client.ID, msg.To, msg.Message)

	default:
		l := log.L()
		l.Debug().
			Str(log.FieldConnectionID, client.ID).
			Str(log.FieldEvent, base.Type).
			Msg("unknown message type")
	}

	if err != nil {
		l := log.L()
		l.Error().
			Str(log.FieldConnectionID, client.ID).
			Str(log.FieldEvent, base.Type).
			Err(err).
			Msg("event handling failed")
	}
}

func (h *WSHandler) handleDisconnect(client *hub.Client) {
	if err := h.service.HandleDisconnect(context.Background(), client.ID); err != nil {
		l := log.L()
		l.Error().Str(log.FieldConnectionID, client.ID).Err(err).Msg("disconnect cleanup failed")
	}
}
