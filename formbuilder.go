// Package formbuilder wires the builder session, the built form collection
// and the renderer registry into a single application value. Callers that
// need finer control can use the packages under pkg/ directly.
package formbuilder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/host"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/table"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

// Renderer names registered by DefaultRegistry.
const (
	RendererHTML  = "html"
	RendererTUI   = "tui"
	RendererTable = "table"
)

// RenderOptions aliases render.RenderOptions for callers of App.Render.
type RenderOptions = render.RenderOptions

// BuiltForm aliases the committed form type.
type BuiltForm = model.BuiltForm

// SubmitFunc aliases the host submission callback.
type SubmitFunc = host.SubmitFunc

// Option customises an App.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	notifier    notify.Notifier
	onSubmit    host.SubmitFunc
	now         func() time.Time
	htmlOptions []html.Option
	tuiOptions  []tui.Option
	registry    *render.Registry
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithNotifier sets the notification collaborator shared by the builder and
// every mounted session.
func WithNotifier(notifier notify.Notifier) Option {
	return func(c *config) {
		c.notifier = notifier
	}
}

// WithOnSubmit registers the callback for submissions of built forms.
func WithOnSubmit(fn SubmitFunc) Option {
	return func(c *config) {
		c.onSubmit = fn
	}
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithHTMLOptions forwards options to the default HTML renderer.
func WithHTMLOptions(options ...html.Option) Option {
	return func(c *config) {
		c.htmlOptions = append(c.htmlOptions, options...)
	}
}

// WithTUIOptions forwards options to the default terminal renderer.
func WithTUIOptions(options ...tui.Option) Option {
	return func(c *config) {
		c.tuiOptions = append(c.tuiOptions, options...)
	}
}

// WithRegistry replaces the default renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// App bundles one builder session with the form collection it commits to.
type App struct {
	Builder   *orchestrator.Orchestrator
	Forms     *host.Store
	Renderers *render.Registry
}

// New assembles an App. It fails only when the default renderers cannot be
// constructed.
func New(options ...Option) (*App, error) {
	cfg := &config{notifier: notify.Discard}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	logger := logging.OrDiscard(cfg.logger)

	registry := cfg.registry
	if registry == nil {
		var err error
		registry, err = DefaultRegistry(cfg.htmlOptions, cfg.tuiOptions...)
		if err != nil {
			return nil, err
		}
	}

	forms := host.New(
		host.WithLogger(logger),
		host.WithNotifier(cfg.notifier),
		host.WithOnSubmit(cfg.onSubmit),
	)
	builder := orchestrator.New(
		orchestrator.WithHost(forms),
		orchestrator.WithNotifier(cfg.notifier),
		orchestrator.WithLogger(logger),
		orchestrator.WithClock(cfg.now),
	)

	return &App{Builder: builder, Forms: forms, Renderers: registry}, nil
}

// DefaultRegistry returns a registry holding the HTML, terminal and table
// renderers.
func DefaultRegistry(htmlOptions []html.Option, tuiOptions ...tui.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(htmlOptions...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: html renderer: %w", err)
	}
	return render.NewRegistry(htmlRenderer, tui.New(tuiOptions...), table.New())
}

// Render mounts a standalone session for the stored form and renders it with
// the named renderer.
func (a *App) Render(ctx context.Context, formID, rendererName string, options RenderOptions) ([]byte, error) {
	renderer, err := a.Renderers.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return a.Forms.Render(ctx, formID, renderer, options)
}

// Session mounts a standalone engine for the stored form.
func (a *App) Session(formID string, options ...engine.Option) (*engine.Engine, error) {
	return a.Forms.Session(formID, options...)
}
