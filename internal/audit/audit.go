package audit

import (
	"context"

	"github.com/relaychat/relay/pkg/log"
)

// Audit actions for the coordination hub.
const (
	ActionIdentify       = "relay.identify"
	ActionJoinRoom       = "relay.join_room"
	ActionLeaveRoom      = "relay.leave_room"
	ActionSendMessage    = "relay.send_message"
	ActionPrivateMessage = "relay.private_message"
	ActionDisconnect     = "relay.disconnect"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, connID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldConnectionID, connID).
		Msg(msg)
}

// LogWithDetail emits an audit log with an extra detail field.
func LogWithDetail(ctx context.Context, action, connID, detail, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldConnectionID, connID).
		Str(FieldDetail, detail).
		Msg(msg)
}
