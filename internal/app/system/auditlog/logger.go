// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/store/audit"
	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for session events (logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin actions (user deletion, certificate review).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// Actor is who performed an action, captured from the request that started it.
type Actor struct {
	ID        string
	UserType  string
	IP        string
	UserAgent string
}

type actorKey struct{}

// ActorFromRequest captures the signed-in user and client details of r.
func ActorFromRequest(r *http.Request) Actor {
	a := Actor{IP: getClientIP(r), UserAgent: r.UserAgent()}
	if u, ok := auth.CurrentUser(r); ok {
		a.ID = u.ID
		a.UserType = u.UserType
	}
	return a
}

// WithActor attaches a to ctx. Mutations run detached from the request, so
// the actor travels in the context instead.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func actorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func objectID(hex string) *primitive.ObjectID {
	if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
		return &oid
	}
	return nil
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.TargetID != nil {
		fields = append(fields,
			zap.String("target_kind", event.TargetKind),
			zap.String("target_id", event.TargetID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// adminEvent fills in the actor recorded on ctx.
func adminEvent(ctx context.Context, eventType, kind string, targetID primitive.ObjectID, details map[string]string) audit.Event {
	a := actorFrom(ctx)
	if a.UserType != "" {
		details["actor_type"] = a.UserType
	}
	return audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		TargetKind: kind,
		TargetID:   &targetID,
		ActorID:    objectID(a.ID),
		IP:         a.IP,
		UserAgent:  a.UserAgent,
		Success:    true,
		Details:    details,
	}
}

// Logout logs the end of a console session.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		ActorID:   objectID(userIDStr),
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// UserDeleted logs an account deletion together with the admin's reason.
func (l *Logger) UserDeleted(ctx context.Context, userID primitive.ObjectID, email, reason string) {
	l.Log(ctx, adminEvent(ctx, audit.EventUserDeleted, audit.TargetUser, userID, map[string]string{
		"email":  email,
		"reason": reason,
	}))
}

// CertificateReviewed logs an approve or disapprove decision.
func (l *Logger) CertificateReviewed(ctx context.Context, certID primitive.ObjectID, number, status string) {
	eventType := audit.EventCertificateApproved
	if status != "approved" {
		eventType = audit.EventCertificateDisapproved
	}
	l.Log(ctx, adminEvent(ctx, eventType, audit.TargetCertificate, certID, map[string]string{
		"certificate_number": number,
		"status":             status,
	}))
}
