package orchestrator

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/notify"
)

// DefaultTitle is the title a fresh builder session starts with.
const DefaultTitle = "My Form"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithHost sets the collaborator that receives committed forms.
func WithHost(host Host) Option {
	return func(o *Orchestrator) {
		o.host = host
	}
}

// WithNotifier sets the feedback collaborator.
func WithNotifier(notifier notify.Notifier) Option {
	return func(o *Orchestrator) {
		if notifier != nil {
			o.notifier = notifier
		}
	}
}

// WithLogger sets the structured logger used for commit events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used for commit timestamps. It is also
// handed to the default store.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithStore injects the builder store. The orchestrator becomes its only
// owner.
func WithStore(store *builder.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithDefaultTitle overrides the title restored on open and after a commit.
func WithDefaultTitle(title string) Option {
	return func(o *Orchestrator) {
		o.defaultTitle = title
	}
}

// WithFormIDGenerator overrides how committed forms are identified.
func WithFormIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}
