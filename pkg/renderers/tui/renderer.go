// Package tui renders a form session as a sequence of terminal prompts. Every
// answer is fed through the engine, inline errors re-prompt the same control,
// and the final submission is serialized as the render output.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

const skipOption = "(skip)"

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	stat              StatFunc
	logger            *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "✗ "},
		stat:         os.Stat,
		logger:       logging.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every control in view, submits the session, and returns
// the serialized submission.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session := opts.Session
	if session == nil {
		return nil, ErrSessionRequired
	}

	if view.Title != "" {
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+view.Title)
	}
	for _, dropped := range view.Dropped {
		r.logger.Warn("tui: skipping field", slog.String("field", dropped.FieldID), slog.String("type", string(dropped.Type)))
	}

	for _, control := range view.Controls {
		if err := r.promptControl(ctx, session, control); err != nil {
			return nil, err
		}
	}

	values, err := session.Submit()
	if err != nil {
		return nil, fmt.Errorf("tui: submit: %w", err)
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(view, values)
}

// promptControl asks for one control until the engine accepts the answer.
func (r *Renderer) promptControl(ctx context.Context, session *engine.Engine, control engine.Control) error {
	for {
		if err := r.ask(ctx, session, control); err != nil {
			return err
		}
		if err := session.Blur(control.FieldID); err != nil {
			return err
		}
		message := session.Error(control.FieldID)
		if message == "" {
			return nil
		}
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+message)
		if current, ok := session.Value(control.FieldID); ok {
			control.Value = current
		}
	}
}

func (r *Renderer) ask(ctx context.Context, session *engine.Engine, control engine.Control) error {
	message := control.Label
	if control.Required {
		message += " *"
	}
	id := control.FieldID

	switch control.Kind {
	case engine.ControlTextInput, engine.ControlNumberInput:
		cfg := InputConfig{Message: message, Default: control.Text(), Help: control.Placeholder}
		var (
			answer string
			err    error
		)
		if control.InputType == string(model.FieldTypePassword) {
			answer, err = r.driver.Password(ctx, cfg)
		} else {
			answer, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		return session.Change(id, answer)

	case engine.ControlTextarea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: control.Text(), Help: control.Placeholder})
		if err != nil {
			return err
		}
		return session.Change(id, answer)

	case engine.ControlCheckbox:
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: control.Checked(), Help: control.Placeholder})
		if err != nil {
			return err
		}
		return session.Change(id, answer)

	case engine.ControlSelect, engine.ControlRadioGroup:
		options := append([]string(nil), control.Options...)
		if !control.Required {
			options = append(options, skipOption)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, control.Text()),
			Help:         control.Placeholder,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) || options[idx] == skipOption {
			return session.Change(id, "")
		}
		return session.Change(id, options[idx])

	case engine.ControlDatePicker:
		answer, err := r.driver.Input(ctx, InputConfig{Message: message, Default: control.Text(), Help: "YYYY-MM-DD"})
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return session.Change(id, "")
		}
		day, err := time.Parse(engine.DateLayout, answer)
		if err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s is not a date (YYYY-MM-DD)", r.theme.ErrorPrefix, answer))
			return r.ask(ctx, session, control)
		}
		return session.SetDate(id, day)

	case engine.ControlFilePicker:
		answer, err := r.driver.Input(ctx, InputConfig{Message: message, Default: control.Text(), Help: "comma separated file paths"})
		if err != nil {
			return err
		}
		files, err := r.resolveFiles(session, answer)
		if err != nil {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
			return r.ask(ctx, session, control)
		}
		return session.SelectFiles(id, files)

	default:
		return fmt.Errorf("tui: unsupported control %q", control.Kind)
	}
}

func (r *Renderer) resolveFiles(session *engine.Engine, answer string) ([]model.FileMeta, error) {
	var files []model.FileMeta
	for _, raw := range strings.Split(answer, ",") {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		info, err := r.stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		meta := model.FileMeta{
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
		}
		if session.BeforeUpload(meta) {
			r.logger.Warn("tui: upload requested but not supported", slog.String("file", meta.Name))
		}
		files = append(files, meta)
	}
	return files, nil
}

func (r *Renderer) serialize(view engine.View, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, key := range sortedKeys(values) {
			for _, item := range flatten(values[key]) {
				form.Add(key, item)
			}
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, control := range view.Controls {
			value, ok := values[control.FieldID]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", control.Label, strings.Join(flatten(value), ", "))
		}
		return []byte(b.String()), nil
	default:
		return json.MarshalIndent(values, "", "  ")
	}
}

func flatten(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []model.FileMeta:
		out := make([]string, 0, len(v))
		for _, file := range v {
			out = append(out, file.Name)
		}
		return out
	case float64:
		return []string{fmt.Sprintf("%g", v)}
	default:
		return []string{fmt.Sprint(v)}
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
