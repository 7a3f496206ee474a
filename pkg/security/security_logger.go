package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventAccessDenied       EventType = "access_denied"
	EventUploadRejected     EventType = "upload_rejected"
	EventBlockCreated       EventType = "block_created"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // masked or hashed before logging
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as structured zap entries
type SecurityLogger struct {
	zapLogger *zap.Logger
}

func NewSecurityLogger(base *zap.Logger, serviceName, environment string) *SecurityLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &SecurityLogger{
		zapLogger: base.Named("security").With(
			zap.String("service", serviceName),
			zap.String("env", environment),
		),
	}
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventLoginBlocked, EventBlockCreated:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}

	fields := []zap.Field{zap.String("event", string(event.Event))}
	if event.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", event.SubjectType),
			zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)),
		)
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(levelFor(event.Event), string(event.Event), fields...)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogAccessDenied records the specific reason behind a generic 403.
func (sl *SecurityLogger) LogAccessDenied(ctx context.Context, userID, ip, requestID, endpoint, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventAccessDenied,
		SubjectType:  "user_id",
		SubjectValue: userID,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint, "reason": reason},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: userID,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[1:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a short SHA256 fingerprint of a value
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip", "user_id":
		return value
	default:
		return HashValue(value)
	}
}
