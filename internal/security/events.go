package security

import (
	"log/slog"
	"time"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
)

const (
	EventRateLimitExceeded       = "rate_limit_exceeded"
	EventPathTraversalAttempt    = "path_traversal_attempt"
	EventCSRFTokenMissing        = "csrf_token_missing"
	EventSuspiciousActivity      = "suspicious_activity_detected"
	EventExecutableUploadAttempt = "executable_file_upload_attempt"
	EventSuspiciousFilename      = "suspicious_filename_detected"
)

// criticalEvents are mirrored to the default logger in addition to the
// security channel.
var criticalEvents = map[string]bool{
	EventPathTraversalAttempt:    true,
	EventExecutableUploadAttempt: true,
	EventRateLimitExceeded:       true,
	EventSuspiciousActivity:      true,
}

// EventLogger writes structured security events to a dedicated channel.
type EventLogger struct {
	security *slog.Logger
	main     *slog.Logger
}

func NewEventLogger(security *slog.Logger, main *slog.Logger) *EventLogger {
	return &EventLogger{
		security: security,
		main:     main,
	}
}

// Log records one security event with the request context attached. Extra
// key-value pairs are appended after the fixed fields.
func (l *EventLogger) Log(ctx *fiber.Ctx, eventType string, extra ...any) {
	var userID uint
	var sessionID string
	if sess, ok := sessions.Peek(ctx); ok {
		userID = sess.UserID
		sessionID = sess.ID()
	}

	attrs := []any{
		"event_type", eventType,
		"user_id", userID,
		"ip", ctx.IP(),
		"user_agent", ctx.Get(fiber.HeaderUserAgent),
		"url", ctx.OriginalURL(),
		"method", ctx.Method(),
		"session_id", sessionID,
		"timestamp", time.Now().Format(time.RFC3339),
	}
	attrs = append(attrs, extra...)

	l.security.Warn("security event", attrs...)
	if criticalEvents[eventType] {
		l.main.Warn("security event", attrs...)
	}
}
