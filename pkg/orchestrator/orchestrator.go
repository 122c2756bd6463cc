package orchestrator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/notify"
)

var (
	// ErrEmptyForm is returned by Save when the builder has no fields.
	ErrEmptyForm = errors.New("orchestrator: form has no components")
	// ErrMissingTitle is returned by Save for a blank title.
	ErrMissingTitle = errors.New("orchestrator: form title is required")
	// ErrDuplicateTitle is returned by Save when the host rejects the title.
	ErrDuplicateTitle = errors.New("orchestrator: duplicate form title")
	// ErrLabelRequired is returned by EditField for a blank label.
	ErrLabelRequired = errors.New("orchestrator: label is required")
	// ErrUnknownField is returned for ids that are not in the builder.
	ErrUnknownField = errors.New("orchestrator: unknown field")
	// ErrPreviewHidden is returned by Preview when the preview is not shown.
	ErrPreviewHidden = errors.New("orchestrator: preview is not visible")
)

// Notification texts.
const (
	MessageEmptyForm     = "Please add at least one component to your form"
	MessageMissingTitle  = "Please enter a form title"
	MessageBuilt         = "Form built successfully! Check the page below."
	MessageReset         = "Form has been reset"
	MessageFieldUpdated  = "Component updated successfully!"
	messageDuplicateText = "A form with the title %q already exists. Please use a different title."
)

// Host receives committed forms. Accept returns false to reject the form,
// typically because its title is already taken.
type Host interface {
	Accept(form model.BuiltForm) bool
}

// HostFunc adapts a function into a Host.
type HostFunc func(form model.BuiltForm) bool

// Accept calls the underlying function.
func (fn HostFunc) Accept(form model.BuiltForm) bool {
	return fn(form)
}

// State is the coarse builder state.
type State string

const (
	StateEmpty      State = "empty"
	StateEditing    State = "editing"
	StatePreviewing State = "previewing"
)

// Tab identifies the active builder tab.
type Tab string

const (
	TabBuilder Tab = "builder"
	TabPreview Tab = "preview"
)

// Orchestrator coordinates one builder session.
type Orchestrator struct {
	store        *builder.Store
	host         Host
	notifier     notify.Notifier
	logger       *slog.Logger
	now          func() time.Time
	newID        func() string
	defaultTitle string

	title       string
	open        bool
	tab         Tab
	showPreview bool
}

// New constructs an Orchestrator. Without WithStore a fresh builder.Store is
// created using the configured clock.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		notifier:     notify.Discard,
		logger:       logging.Discard(),
		now:          time.Now,
		newID:        model.NewFormID,
		defaultTitle: DefaultTitle,
		tab:          TabBuilder,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.store == nil {
		o.store = builder.New(builder.WithClock(o.now))
	}
	o.title = o.defaultTitle
	return o
}

// Store exposes the owned builder store.
func (o *Orchestrator) Store() *builder.Store {
	return o.store
}

// Open shows the builder on the builder tab.
func (o *Orchestrator) Open() {
	o.open = true
	o.tab = TabBuilder
}

// Close hides the builder. The draft is kept.
func (o *Orchestrator) Close() {
	o.open = false
}

// IsOpen reports whether the builder is shown.
func (o *Orchestrator) IsOpen() bool {
	return o.open
}

// State derives the coarse state from the field count and active tab.
func (o *Orchestrator) State() State {
	switch {
	case o.store.Empty():
		return StateEmpty
	case o.tab == TabPreview:
		return StatePreviewing
	default:
		return StateEditing
	}
}

// Tab returns the active tab.
func (o *Orchestrator) Tab() Tab {
	return o.tab
}

// ShowBuilder activates the builder tab.
func (o *Orchestrator) ShowBuilder() {
	o.tab = TabBuilder
}

// ShowPreview activates the preview tab.
func (o *Orchestrator) ShowPreview() {
	o.tab = TabPreview
}

// TogglePreview flips whether the preview tab mounts the form and returns the
// new setting.
func (o *Orchestrator) TogglePreview() bool {
	o.showPreview = !o.showPreview
	return o.showPreview
}

// PreviewVisible reports whether the preview toggle is on.
func (o *Orchestrator) PreviewVisible() bool {
	return o.showPreview
}

// AddField appends a palette field of the given type and returns its id.
func (o *Orchestrator) AddField(fieldType model.FieldType) (string, error) {
	field, err := model.NewField(fieldType)
	if err != nil {
		return "", fmt.Errorf("orchestrator: add field: %w", err)
	}
	return o.store.AddComponent(field), nil
}

// SelectField highlights a field. An empty id clears the selection.
func (o *Orchestrator) SelectField(id string) error {
	if id != "" && o.store.IndexOf(id) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	o.store.Select(id)
	return nil
}

// EditField applies the field editor's patch. The label, when present, is
// trimmed and must not be blank. A successful edit closes the editor, which
// clears the selection.
func (o *Orchestrator) EditField(id string, patch builder.Patch) error {
	if patch.Label != nil {
		label := strings.TrimSpace(*patch.Label)
		if label == "" {
			return ErrLabelRequired
		}
		patch.Label = &label
	}
	if !o.store.UpdateComponent(id, patch) {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	o.store.Select("")
	o.notifier.Notify(notify.KindSuccess, MessageFieldUpdated)
	return nil
}

// RemoveField deletes a field and its draft value.
func (o *Orchestrator) RemoveField(id string) error {
	if !o.store.RemoveComponent(id) {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return nil
}

// Drag moves the active field to the position of the field it was dropped
// over. Dropping on itself or outside any field does nothing.
func (o *Orchestrator) Drag(activeID, overID string) error {
	if activeID == "" || overID == "" || activeID == overID {
		return nil
	}
	from := o.store.IndexOf(activeID)
	if from < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownField, activeID)
	}
	to := o.store.IndexOf(overID)
	if to < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownField, overID)
	}
	return o.store.ReorderComponents(from, to)
}

// MoveUp swaps the field with its predecessor. The first field stays put.
func (o *Orchestrator) MoveUp(id string) error {
	return o.step(id, -1)
}

// MoveDown swaps the field with its successor. The last field stays put.
func (o *Orchestrator) MoveDown(id string) error {
	return o.step(id, 1)
}

func (o *Orchestrator) step(id string, delta int) error {
	from := o.store.IndexOf(id)
	if from < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	to := from + delta
	if to < 0 || to >= o.store.Len() {
		return nil
	}
	return o.store.ReorderComponents(from, to)
}

// SetTitle updates the form title as typed.
func (o *Orchestrator) SetTitle(title string) {
	o.title = title
}

// Title returns the current title.
func (o *Orchestrator) Title() string {
	return o.title
}

// SetLayout changes the layout of the form under construction.
func (o *Orchestrator) SetLayout(layout model.Layout) error {
	return o.store.SetLayout(layout)
}

// Preview mounts a preview engine over the current fields. The engine reads
// and writes the store's draft values, so input survives switching tabs.
// Extra options are applied after the defaults.
func (o *Orchestrator) Preview(options ...engine.Option) (*engine.Engine, error) {
	if o.tab != TabPreview || !o.showPreview {
		return nil, ErrPreviewHidden
	}
	if o.store.Empty() {
		return nil, ErrEmptyForm
	}
	opts := []engine.Option{
		engine.WithValueStore(o.store),
		engine.WithChrome(engine.ChromePreview),
		engine.WithLayout(o.store.Layout()),
		engine.WithTitle(o.title),
		engine.WithNotifier(o.notifier),
		engine.WithLogger(o.logger),
	}
	return engine.New(o.store.Fields(), append(opts, options...)...), nil
}

// Reset clears the draft. The title is kept.
func (o *Orchestrator) Reset() {
	o.store.ResetForm()
	o.notifier.Notify(notify.KindInfo, MessageReset)
}

// Save commits the draft to the host. Every failure leaves the session
// untouched and is reported through the notifier. On success the builder is
// reset, closed, and the committed form returned.
func (o *Orchestrator) Save() (model.BuiltForm, error) {
	if o.store.Empty() {
		o.notifier.Notify(notify.KindWarning, MessageEmptyForm)
		return model.BuiltForm{}, ErrEmptyForm
	}
	title := strings.TrimSpace(o.title)
	if title == "" {
		o.notifier.Notify(notify.KindWarning, MessageMissingTitle)
		return model.BuiltForm{}, ErrMissingTitle
	}

	candidate, ok := o.store.BuildForm()
	if !ok {
		o.notifier.Notify(notify.KindWarning, MessageEmptyForm)
		return model.BuiltForm{}, ErrEmptyForm
	}

	form := model.BuiltForm{
		ID:         o.newID(),
		Title:      title,
		Components: candidate.Components,
		Layout:     candidate.Layout,
		CreatedAt:  candidate.CreatedAt,
	}

	if o.host != nil && !o.host.Accept(form.Clone()) {
		o.logger.Warn("form commit rejected", slog.String("title", title))
		o.notifier.Notify(notify.KindError, fmt.Sprintf(messageDuplicateText, title))
		return model.BuiltForm{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}

	o.logger.Info("form committed",
		slog.String("id", form.ID),
		slog.String("title", form.Title),
		slog.Int("components", len(form.Components)),
	)
	o.notifier.Notify(notify.KindSuccess, MessageBuilt)

	o.store.ResetForm()
	o.title = o.defaultTitle
	o.tab = TabBuilder
	o.showPreview = false
	o.open = false
	return form, nil
}

// LoadDefinition replaces the draft with a parsed definition.
func (o *Orchestrator) LoadDefinition(form definition.Form) error {
	o.store.ResetForm()
	if form.Layout != "" {
		if err := o.store.SetLayout(form.Layout); err != nil {
			return fmt.Errorf("orchestrator: load %s: %w", form.Source, err)
		}
	}
	for _, field := range form.Fields {
		o.store.AddComponent(field)
	}
	o.title = form.Title
	o.tab = TabBuilder
	return nil
}

// Summary describes the builder footer.
type Summary struct {
	Components int
	Count      string
	Hint       string
	Ready      bool
}

// Summary returns the component counter, selection hint and save readiness.
func (o *Orchestrator) Summary() Summary {
	n := o.store.Len()
	count := fmt.Sprintf("%d Component", n)
	if n != 1 {
		count += "s"
	}
	hint := "Click to select a component"
	if _, ok := o.store.Selected(); ok {
		hint = "Component selected"
	}
	return Summary{Components: n, Count: count, Hint: hint, Ready: n > 0}
}

// ParseOptions splits the field editor's option text, one option per line.
// Lines are trimmed and blank lines dropped.
func ParseOptions(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
