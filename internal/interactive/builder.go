// Package interactive drives a builder session from terminal prompts. It is
// the command line counterpart of the drag and drop builder: every menu entry
// maps onto one orchestrator operation.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

// ErrQuit is returned by Run when the user leaves without saving.
var ErrQuit = errors.New("interactive: quit without saving")

// Menu entries, in display order.
const (
	ActionAdd      = "Add field"
	ActionEdit     = "Edit field"
	ActionRemove   = "Remove field"
	ActionMoveUp   = "Move field up"
	ActionMoveDown = "Move field down"
	ActionTitle    = "Set title"
	ActionLayout   = "Set layout"
	ActionReset    = "Reset form"
	ActionSave     = "Save form"
	ActionQuit     = "Quit"
)

var actions = []string{
	ActionAdd, ActionEdit, ActionRemove, ActionMoveUp, ActionMoveDown,
	ActionTitle, ActionLayout, ActionReset, ActionSave, ActionQuit,
}

var layouts = []model.Layout{model.LayoutSingle, model.LayoutTwoColumn}

// Session binds a builder to a prompt driver.
type Session struct {
	builder *orchestrator.Orchestrator
	driver  tui.PromptDriver
}

// New returns a session. The builder is opened on Run.
func New(b *orchestrator.Orchestrator, driver tui.PromptDriver) *Session {
	return &Session{builder: b, driver: driver}
}

// Run shows the menu until the form is saved or the user quits. Failed saves
// keep the loop going; the builder's notifier reports why.
func (s *Session) Run(ctx context.Context) (model.BuiltForm, error) {
	s.builder.Open()
	for {
		if err := ctx.Err(); err != nil {
			return model.BuiltForm{}, err
		}
		summary := s.builder.Summary()
		status := fmt.Sprintf("%s: %s", s.builder.Title(), summary.Count)
		if summary.Ready {
			status += " (ready to save)"
		}
		if err := s.driver.Info(ctx, status); err != nil {
			return model.BuiltForm{}, err
		}

		choice, err := s.driver.Select(ctx, tui.SelectConfig{Message: "Action", Options: actions})
		if err != nil {
			return model.BuiltForm{}, err
		}
		if choice < 0 || choice >= len(actions) {
			continue
		}

		switch actions[choice] {
		case ActionSave:
			form, err := s.builder.Save()
			if err == nil {
				return form, nil
			}
		case ActionQuit:
			s.builder.Close()
			return model.BuiltForm{}, ErrQuit
		default:
			if err := s.dispatch(ctx, actions[choice]); err != nil {
				if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
					return model.BuiltForm{}, err
				}
				if err := s.driver.Info(ctx, err.Error()); err != nil {
					return model.BuiltForm{}, err
				}
			}
		}
	}
}

func (s *Session) dispatch(ctx context.Context, action string) error {
	switch action {
	case ActionAdd:
		return s.add(ctx)
	case ActionEdit:
		return s.withField(ctx, func(id string) error { return s.edit(ctx, id) })
	case ActionRemove:
		return s.withField(ctx, s.builder.RemoveField)
	case ActionMoveUp:
		return s.withField(ctx, s.builder.MoveUp)
	case ActionMoveDown:
		return s.withField(ctx, s.builder.MoveDown)
	case ActionTitle:
		title, err := s.driver.Input(ctx, tui.InputConfig{Message: "Form title", Default: s.builder.Title()})
		if err != nil {
			return err
		}
		s.builder.SetTitle(title)
	case ActionLayout:
		options := make([]string, len(layouts))
		current := 0
		for idx, layout := range layouts {
			options[idx] = string(layout)
			if layout == s.builder.Store().Layout() {
				current = idx
			}
		}
		choice, err := s.driver.Select(ctx, tui.SelectConfig{Message: "Layout", Options: options, DefaultIndex: current})
		if err != nil {
			return err
		}
		if choice >= 0 && choice < len(layouts) {
			return s.builder.SetLayout(layouts[choice])
		}
	case ActionReset:
		s.builder.Reset()
	}
	return nil
}

func (s *Session) add(ctx context.Context) error {
	palette := model.Palette()
	options := make([]string, len(palette))
	for idx, entry := range palette {
		options[idx] = fmt.Sprintf("%s - %s", entry.Label, entry.Description)
	}
	choice, err := s.driver.Select(ctx, tui.SelectConfig{Message: "Component", Options: options, PageSize: len(options)})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(palette) {
		return nil
	}
	id, err := s.builder.AddField(palette[choice].Type)
	if err != nil {
		return err
	}
	return s.builder.SelectField(id)
}

func (s *Session) withField(ctx context.Context, fn func(id string) error) error {
	fields := s.builder.Store().Fields()
	if len(fields) == 0 {
		return errors.New("no components yet")
	}
	options := make([]string, len(fields))
	current := 0
	selected, _ := s.builder.Store().Selected()
	for idx, field := range fields {
		options[idx] = fmt.Sprintf("%d. %s (%s)", idx+1, field.Label, field.Type)
		if field.ID == selected {
			current = idx
		}
	}
	choice, err := s.driver.Select(ctx, tui.SelectConfig{Message: "Component", Options: options, DefaultIndex: current})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(fields) {
		return nil
	}
	if err := s.builder.SelectField(fields[choice].ID); err != nil {
		return err
	}
	return fn(fields[choice].ID)
}

// edit mirrors the field editor: label, placeholder, required flag, then the
// type specific settings.
func (s *Session) edit(ctx context.Context, id string) error {
	field, ok := s.builder.Store().Field(id)
	if !ok {
		return fmt.Errorf("%w: %q", orchestrator.ErrUnknownField, id)
	}

	label, err := s.driver.Input(ctx, tui.InputConfig{Message: "Label", Default: field.Label})
	if err != nil {
		return err
	}
	placeholder, err := s.driver.Input(ctx, tui.InputConfig{Message: "Placeholder", Default: field.Placeholder})
	if err != nil {
		return err
	}
	required, err := s.driver.Confirm(ctx, tui.ConfirmConfig{Message: "Required?", Default: field.Required()})
	if err != nil {
		return err
	}
	patch := builder.Patch{
		Label:       builder.String(label),
		Placeholder: builder.String(placeholder),
		Required:    builder.Bool(required),
	}

	if field.Type.HasOptions() {
		text, err := s.driver.TextArea(ctx, tui.TextAreaConfig{
			Message: "Options (one per line)",
			Default: strings.Join(field.Options, "\n"),
		})
		if err != nil {
			return err
		}
		patch.Options = orchestrator.ParseOptions(text)
	}

	if field.Type.TextLike() {
		minLength, err := s.askLength(ctx, "Minimum length", field.Validation.MinLength)
		if err != nil {
			return err
		}
		maxLength, err := s.askLength(ctx, "Maximum length", field.Validation.MaxLength)
		if err != nil {
			return err
		}
		patch.MinLength = builder.Int(minLength)
		patch.MaxLength = builder.Int(maxLength)
	}

	return s.builder.EditField(id, patch)
}

func (s *Session) askLength(ctx context.Context, message string, current int) (int, error) {
	for {
		raw, err := s.driver.Input(ctx, tui.InputConfig{
			Message: message,
			Default: strconv.Itoa(current),
			Help:    "0 disables the rule",
		})
		if err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return current, nil
		}
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 0 {
			return n, nil
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("%s must be a whole number", message)); err != nil {
			return 0, err
		}
	}
}
