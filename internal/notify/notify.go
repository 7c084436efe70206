package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
)

// DefaultDuration is how long a toast stays up unless told otherwise
const DefaultDuration = 3 * time.Second

// Notification is one toast shown to the user
type Notification struct {
	Severity domain.Severity `json:"severity"`
	Message  string          `json:"message"`
	Duration time.Duration   `json:"-"`
	// DurationMs mirrors Duration for the browser
	DurationMs int64 `json:"duration_ms"`
}

// Redirect asks the browser to navigate after a delay
type Redirect struct {
	Target  string        `json:"target"`
	After   time.Duration `json:"-"`
	AfterMs int64         `json:"after_ms"`
}

// Feedback is the user facing side of an operation
type Feedback interface {
	Notify(severity domain.Severity, message string, duration time.Duration)
	Redirect(target string, after time.Duration)
}

func Success(f Feedback, message string) { f.Notify(domain.SeveritySuccess, message, 0) }

func Warning(f Feedback, message string) { f.Notify(domain.SeverityWarning, message, 0) }

func Error(f Feedback, message string) { f.Notify(domain.SeverityError, message, 0) }

// Recorder collects feedback so it can be returned in an HTTP response
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	redirect      *Redirect
}

func NewRecorder() *Recorder {
	return &Recorder{notifications: []Notification{}}
}

func (r *Recorder) Notify(severity domain.Severity, message string, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{
		Severity:   severity,
		Message:    message,
		Duration:   duration,
		DurationMs: duration.Milliseconds(),
	})
}

func (r *Recorder) Redirect(target string, after time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirect = &Redirect{Target: target, After: after, AfterMs: after.Milliseconds()}
}

// Notifications returns a copy of what was recorded
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// RedirectTo returns the last requested redirect, if any
func (r *Recorder) RedirectTo() *Redirect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redirect
}

// Logger writes feedback to a zap logger, for command line use
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(severity domain.Severity, message string, duration time.Duration) {
	fields := []zap.Field{zap.String("severity", string(severity)), zap.String("message", message)}
	switch severity {
	case domain.SeverityError:
		l.logger.Error("Notification", fields...)
	case domain.SeverityWarning:
		l.logger.Warn("Notification", fields...)
	default:
		l.logger.Info("Notification", fields...)
	}
}

func (l *Logger) Redirect(target string, after time.Duration) {
	l.logger.Info("Redirect", zap.String("target", target), zap.Duration("after", after))
}
