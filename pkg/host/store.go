// Package host keeps the application-wide collection of committed forms and
// mounts standalone sessions for them. The collection is safe for concurrent
// use; each mutation is atomic.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

var (
	// ErrDuplicateTitle is returned by Add when a form with the same title
	// is already stored.
	ErrDuplicateTitle = errors.New("host: duplicate form title")
	// ErrDuplicateID is returned by Add for a reused form id.
	ErrDuplicateID = errors.New("host: duplicate form id")
	// ErrEmptyTitle is returned by Add for a blank title.
	ErrEmptyTitle = errors.New("host: form title is empty")
	// ErrNotFound is returned for unknown form ids.
	ErrNotFound = errors.New("host: form not found")
)

// SubmitFunc receives a valid submission of a stored form.
type SubmitFunc func(values map[string]any, formID string) error

// Option configures a Store.
type Option func(*Store)

// WithOnSubmit registers the callback invoked for submissions of any stored
// form.
func WithOnSubmit(fn SubmitFunc) Option {
	return func(s *Store) {
		s.onSubmit = fn
	}
}

// WithNotifier sets the notifier handed to mounted sessions.
func WithNotifier(notifier notify.Notifier) Option {
	return func(s *Store) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.OrDiscard(logger)
	}
}

// Store is the built form collection, ordered by insertion.
type Store struct {
	mu       sync.RWMutex
	forms    map[string]model.BuiltForm
	order    []string
	onSubmit SubmitFunc
	notifier notify.Notifier
	logger   *slog.Logger
}

// New constructs an empty Store.
func New(options ...Option) *Store {
	s := &Store{
		forms:    make(map[string]model.BuiltForm),
		notifier: notify.Discard,
		logger:   logging.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Add stores a copy of form. Titles are compared exactly after trimming.
func (s *Store) Add(form model.BuiltForm) error {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if form.ID == "" {
		form.ID = model.NewFormID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.forms[form.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, form.ID)
	}
	for _, id := range s.order {
		if strings.TrimSpace(s.forms[id].Title) == title {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
		}
	}

	s.forms[form.ID] = form.Clone()
	s.order = append(s.order, form.ID)
	s.logger.Debug("form added", slog.String("id", form.ID), slog.String("title", title))
	return nil
}

// Accept adds form and reports whether it was stored. It satisfies the
// builder's host contract.
func (s *Store) Accept(form model.BuiltForm) bool {
	if err := s.Add(form); err != nil {
		s.logger.Debug("form rejected", slog.String("title", form.Title), slog.Any("error", err))
		return false
	}
	return true
}

// Get returns a copy of the stored form.
func (s *Store) Get(id string) (model.BuiltForm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[id]
	if !ok {
		return model.BuiltForm{}, false
	}
	return form.Clone(), true
}

// FindByTitle returns the form with the given title.
func (s *Store) FindByTitle(title string) (model.BuiltForm, bool) {
	title = strings.TrimSpace(title)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if strings.TrimSpace(s.forms[id].Title) == title {
			return s.forms[id].Clone(), true
		}
	}
	return model.BuiltForm{}, false
}

// List returns copies of every form in insertion order.
func (s *Store) List() []model.BuiltForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.BuiltForm, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.forms[id].Clone())
	}
	return out
}

// Delete removes the form and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[id]; !ok {
		return false
	}
	delete(s.forms, id)
	for idx, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:idx], s.order[idx+1:]...)
			break
		}
	}
	s.logger.Debug("form deleted", slog.String("id", id))
	return true
}

// Len reports the number of stored forms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Session mounts a standalone engine for the stored form. Valid submissions
// are forwarded to the store's submit callback together with the form id.
// Extra options are applied after the defaults.
func (s *Store) Session(id string, options ...engine.Option) (*engine.Engine, error) {
	form, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	opts := []engine.Option{
		engine.WithChrome(engine.ChromeStandalone),
		engine.WithLayout(form.Layout),
		engine.WithFormID(form.ID),
		engine.WithTitle(form.Title),
		engine.WithNotifier(s.notifier),
		engine.WithLogger(s.logger),
		engine.WithOnSubmit(func(values map[string]any) error {
			if s.onSubmit == nil {
				return nil
			}
			return s.onSubmit(values, form.ID)
		}),
	}
	return engine.New(form.Components, append(opts, options...)...), nil
}

// Render mounts a fresh session for the form and renders it. When options
// carry no session the fresh one is attached.
func (s *Store) Render(ctx context.Context, id string, renderer render.Renderer, options render.RenderOptions) ([]byte, error) {
	if renderer == nil {
		return nil, fmt.Errorf("host: render %q: %w", id, render.ErrRendererNotFound)
	}
	session := options.Session
	if session == nil {
		var err error
		session, err = s.Session(id)
		if err != nil {
			return nil, err
		}
		options.Session = session
	}
	return renderer.Render(ctx, session.View(), options)
}
