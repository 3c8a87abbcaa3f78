package domain

import "time"

// DefaultRoom is the always-present broadcast scope every identified
// connection belongs to until it joins another room.
const DefaultRoom = "general"

// User is the public identity of a connection.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ChatMessage is an immutable record once finalized by the message log.
// SenderID is the connection id at send time and may be stale by the
// time a reader sees it.
type ChatMessage struct {
	ID            string    `json:"id"`
	Sender        string    `json:"sender"`
	SenderID      string    `json:"sender_id"`
	Room          string    `json:"room,omitempty"`
	IsPrivate     bool      `json:"is_private,omitempty"`
	Message       string    `json:"message"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
