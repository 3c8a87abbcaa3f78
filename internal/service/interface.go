package service

import (
	"context"

	"github.com/relaychat/relay/internal/domain"
)

// Dispatcher resolves and performs delivery of outbound events,
// abstracted over the transport. Implemented by the websocket hub.
type Dispatcher interface {
	ToAll(event interface{})
	ToRoom(room string, event interface{})
	ToConnection(connID string, event interface{})
}

// ChatService handles every inbound connection event. Bad input is
// absorbed, never surfaced: a returned error indicates an internal
// problem worth logging, not a client mistake.
type ChatService interface {
	HandleIdentify(ctx context.Context, connID, username string) error
	HandleJoinRoom(ctx context.Context, connID, room string) error
	HandleLeaveRoom(ctx context.Context, connID, room string) error
	HandleSendMessage(ctx context.Context, connID string, msg domain.SendMessageWS) error
	HandleTyping(ctx context.Context, connID string, isTyping bool) error
	HandlePrivateMessage(ctx context.Context, connID, to, message string) error
	HandleDisconnect(ctx context.Context, connID string) error
}
