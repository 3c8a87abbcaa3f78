package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/relaychat/relay/internal/audit"
	"github.com/relaychat/relay/internal/domain"
	"github.com/relaychat/relay/internal/history"
	"github.com/relaychat/relay/internal/registry"
	"github.com/relaychat/relay/internal/room"
	"github.com/relaychat/relay/pkg/log"
)

// anonymousSender is used when a message arrives from a connection
// with no registered user.
const anonymousSender = "Anonymous"

// chatService coordinates the registry, room index, message log and
// dispatcher. A single mutex serializes event handling so each inbound
// event is an atomic step against shared state; no partial update is
// observable between two events.
type chatService struct {
	mu sync.Mutex

	users    *registry.Registry
	rooms    *room.Index
	messages *history.Log
	dispatch Dispatcher
}

func NewChatService(
	users *registry.Registry,
	rooms *room.Index,
	messages *history.Log,
	dispatch Dispatcher,
) ChatService {
	return &chatService{
		users:    users,
		rooms:    rooms,
		messages: messages,
		dispatch: dispatch,
	}
}

func (s *chatService) HandleIdentify(ctx context.Context, connID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Join(connID, username)
	if errors.Is(err, registry.ErrEmptyUsername) {
		l := log.Ctx(ctx)
		l.Warn().Str(log.FieldConnectionID, connID).Msg("identify with empty username ignored")
		return nil
	}
	if err != nil {
		return err
	}

	// Identified connections start in the default room. Re-identifying
	// pulls the connection back there as well.
	s.rooms.Track(connID)
	s.rooms.Switch(connID, domain.DefaultRoom)

	s.dispatch.ToAll(domain.NewUserListEvent(s.users.Snapshot()))
	s.dispatch.ToAll(&domain.UserJoinedEvent{Type: domain.MsgTypeUserJoined, User: u})
	s.dispatch.ToConnection(connID, &domain.RoomJoinedEvent{Type: domain.MsgTypeRoomJoined, Room: domain.DefaultRoom})
	s.dispatch.ToConnection(connID, domain.NewRoomListEvent(s.rooms.RoomNames()))

	audit.LogWithDetail(ctx, audit.ActionIdentify, connID, u.Username, "user identified")
	return nil
}

func (s *chatService) HandleJoinRoom(ctx context.Context, connID, roomName string) error {
	if strings.TrimSpace(roomName) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rooms.Tracked(connID) {
		return nil
	}

	s.rooms.Ensure(roomName)
	s.rooms.Switch(connID, roomName)

	s.dispatch.ToConnection(connID, &domain.RoomJoinedEvent{Type: domain.MsgTypeRoomJoined, Room: roomName})
	s.dispatch.ToAll(domain.NewRoomListEvent(s.rooms.RoomNames()))

	audit.LogWithDetail(ctx, audit.ActionJoinRoom, connID, roomName, "room joined")
	return nil
}

func (s *chatService) HandleLeaveRoom(ctx context.Context, connID, roomName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rooms.Leave(connID, roomName) {
		return nil
	}

	s.dispatch.ToConnection(connID, &domain.RoomJoinedEvent{Type: domain.MsgTypeRoomJoined, Room: domain.DefaultRoom})

	audit.LogWithDetail(ctx, audit.ActionLeaveRoom, connID, roomName, "room left")
	return nil
}

func (s *chatService) HandleSendMessage(ctx context.Context, connID string, in domain.SendMessageWS) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.messages.Append(domain.ChatMessage{
		Sender:        s.senderName(connID),
		SenderID:      connID,
		Room:          in.Room,
		Message:       in.Message,
		AttachmentURL: in.AttachmentURL,
	})

	event := &domain.MessageEvent{Type: domain.MsgTypeReceiveMessage, ChatMessage: msg}
	if msg.Room != "" {
		s.dispatch.ToRoom(msg.Room, event)
	} else {
		s.dispatch.ToAll(event)
	}

	audit.LogWithDetail(ctx, audit.ActionSendMessage, connID, msg.Room, "message sent")
	return nil
}

func (s *chatService) HandleTyping(ctx context.Context, connID string, isTyping bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.users.SetTyping(connID, isTyping) {
		return nil
	}

	s.dispatch.ToAll(domain.NewTypingUsersEvent(s.users.TypingUsernames()))
	return nil
}

func (s *chatService) HandlePrivateMessage(ctx context.Context, connID, to, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.messages.Append(domain.ChatMessage{
		Sender:    s.senderName(connID),
		SenderID:  connID,
		Message:   message,
		IsPrivate: true,
	})

	// Sender and target receive the identical finalized record. A gone
	// target is a silent drop, not an error.
	event := &domain.MessageEvent{Type: domain.MsgTypePrivateMessage, ChatMessage: msg}
	s.dispatch.ToConnection(to, event)
	s.dispatch.ToConnection(connID, event)

	audit.LogWithDetail(ctx, audit.ActionPrivateMessage, connID, to, "private message sent")
	return nil
}

func (s *chatService) HandleDisconnect(ctx context.Context, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, existed := s.users.Remove(connID)
	s.rooms.Forget(connID)

	if existed {
		s.dispatch.ToAll(&domain.UserLeftEvent{Type: domain.MsgTypeUserLeft, User: u})
	}
	s.dispatch.ToAll(domain.NewUserListEvent(s.users.Snapshot()))
	s.dispatch.ToAll(domain.NewTypingUsersEvent(s.users.TypingUsernames()))

	audit.Log(ctx, audit.ActionDisconnect, connID, "connection closed")
	return nil
}

// senderName resolves the display name for a connection, falling back
// to Anonymous when it never identified.
func (s *chatService) senderName(connID string) string {
	if u, ok := s.users.Get(connID); ok {
		return u.Username
	}
	return anonymousSender
}
