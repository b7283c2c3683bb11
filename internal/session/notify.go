// AngelaMos | 2026
// notify.go

package session

import "log/slog"

// NotificationSink receives user-facing toasts. It is an optional capability:
// the controller works against the no-op default when the host application
// has no notification surface.
type NotificationSink interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

type noopSink struct{}

func (noopSink) Success(string) {}
func (noopSink) Error(string)   {}
func (noopSink) Warning(string) {}

// NoopSink returns a NotificationSink that discards everything.
func NoopSink() NotificationSink {
	return noopSink{}
}

// SlogSink routes notifications to the given structured logger, which is the
// right surface for a headless client.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s SlogSink) Success(msg string) {
	s.logger().Info(msg)
}

func (s SlogSink) Error(msg string) {
	s.logger().Error(msg)
}

func (s SlogSink) Warning(msg string) {
	s.logger().Warn(msg)
}
