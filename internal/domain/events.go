package domain

// WebSocket message types from client.
const (
	MsgTypeIdentify       = "identify"
	MsgTypeJoinRoom       = "join_room"
	MsgTypeLeaveRoom      = "leave_room"
	MsgTypeSendMessage    = "send_message"
	MsgTypeTyping         = "typing"
	MsgTypePrivateMessage = "private_message"
)

// WebSocket message types to client.
const (
	MsgTypeUserList       = "user_list"
	MsgTypeUserJoined     = "user_joined"
	MsgTypeUserLeft       = "user_left"
	MsgTypeRoomJoined     = "room_joined"
	MsgTypeRoomList       = "room_list"
	MsgTypeReceiveMessage = "receive_message"
	MsgTypeTypingUsers    = "typing_users"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type IdentifyMessage struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type JoinRoomMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type LeaveRoomMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type SendMessageWS struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	Room          string `json:"room,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

type TypingMessage struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"is_typing"`
}

type PrivateMessageWS struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Server -> Client messages

type UserListEvent struct {
	Type  string `json:"type"`
	Users []User `json:"users"`
}

type UserJoinedEvent struct {
	Type string `json:"type"`
	User
}

type UserLeftEvent struct {
	Type string `json:"type"`
	User
}

type RoomJoinedEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type RoomListEvent struct {
	Type  string   `json:"type"`
	Rooms []string `json:"rooms"`
}

// MessageEvent carries a finalized ChatMessage. The same shape serves
// both receive_message and private_message.
type MessageEvent struct {
	Type string `json:"type"`
	ChatMessage
}

type TypingUsersEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

func NewUserListEvent(users []User) *UserListEvent {
	return &UserListEvent{Type: MsgTypeUserList, Users: users}
}

func NewRoomListEvent(rooms []string) *RoomListEvent {
	return &RoomListEvent{Type: MsgTypeRoomList, Rooms: rooms}
}

func NewTypingUsersEvent(users []string) *TypingUsersEvent {
	return &TypingUsersEvent{Type: MsgTypeTypingUsers, Users: users}
}
