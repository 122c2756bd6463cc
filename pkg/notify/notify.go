// Package notify defines the fire-and-forget notification contract used by the
// builder and the validation engine to surface transient feedback.
package notify

import (
	"context"
	"log/slog"
)

// Kind classifies a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notifier receives user-facing feedback. Implementations must not block.
type Notifier interface {
	Notify(kind Kind, text string)
}

// Func adapts a function into a Notifier.
type Func func(kind Kind, text string)

// Notify calls the underlying function.
func (fn Func) Notify(kind Kind, text string) {
	if fn != nil {
		fn(kind, text)
	}
}

// Discard drops every notification.
var Discard Notifier = Func(func(Kind, string) {})

// Logger forwards notifications to a slog logger, mapping kinds to levels.
type Logger struct {
	logger *slog.Logger
}

// NewLogger returns a Notifier backed by logger. A nil logger uses
// slog.Default.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

// Notify logs the message at the level matching kind.
func (l *Logger) Notify(kind Kind, text string) {
	level := slog.LevelInfo
	switch kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	l.logger.Log(context.Background(), level, text, slog.String("kind", string(kind)))
}

// Message is a recorded notification.
type Message struct {
	Kind Kind
	Text string
}

// Recorder keeps every notification in order. Useful in tests and for hosts
// that drain feedback after each action.
type Recorder struct {
	Messages []Message
}

// Notify appends the message.
func (r *Recorder) Notify(kind Kind, text string) {
	r.Messages = append(r.Messages, Message{Kind: kind, Text: text})
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// Drain returns and clears the recorded messages.
func (r *Recorder) Drain() []Message {
	out := r.Messages
	r.Messages = nil
	return out
}
