package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/internal/interactive"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/table"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func main() {
	definitions := flag.String("definitions", "examples/definitions", "directory of form definition files (json or yaml)")
	renderer := flag.String("renderer", formbuilder.RendererTable, "renderer to use (html, tui, table)")
	formTitle := flag.String("form", "", "title of the form to render (lists forms if empty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	themeName := flag.String("theme", "", "html theme as name[:variant]")
	openapiPath := flag.String("openapi", "", "write an OpenAPI document describing the form submissions")
	interactiveMode := flag.Bool("interactive", false, "build a form with terminal prompts before rendering")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	ctx := context.Background()

	logger := logging.Discard()
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	notifier := notify.Func(func(kind notify.Kind, text string) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", kind, text)
	})

	app, err := formbuilder.New(
		formbuilder.WithLogger(logger),
		formbuilder.WithNotifier(notifier),
		formbuilder.WithHTMLOptions(htmlOptions(*themeName)...),
		formbuilder.WithTUIOptions(tui.WithLogger(logger)),
		formbuilder.WithOnSubmit(func(values map[string]any, formID string) error {
			logger.Info("form submitted", "form_id", formID, "fields", len(values))
			return nil
		}),
	)
	if err != nil {
		log.Fatalf("Failed to initialise: %v", err)
	}

	if *definitions != "" {
		if err := commitDefinitions(app, *definitions); err != nil {
			log.Fatalf("Failed to load definitions: %v", err)
		}
	}

	if *interactiveMode {
		form, err := interactive.New(app.Builder, tui.NewSurveyDriver()).Run(ctx)
		switch {
		case errors.Is(err, interactive.ErrQuit), errors.Is(err, tui.ErrAborted):
			fmt.Fprintln(os.Stderr, "Leaving without saving")
		case err != nil:
			log.Fatalf("Interactive session failed: %v", err)
		default:
			if *formTitle == "" {
				*formTitle = form.Title
			}
		}
	}

	if *openapiPath != "" {
		if err := writeOpenAPI(ctx, app, *openapiPath); err != nil {
			log.Fatalf("Failed to export OpenAPI: %v", err)
		}
		fmt.Fprintf(os.Stderr, "OpenAPI document written to %s\n", *openapiPath)
	}

	if *formTitle == "" {
		fmt.Println(table.New().Forms(app.Forms.List()))
		return
	}

	form, ok := app.Forms.FindByTitle(*formTitle)
	if !ok {
		log.Fatalf("Form %q not found", *formTitle)
	}
	out, err := app.Render(ctx, form.ID, *renderer, formbuilder.RenderOptions{})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}
}

// commitDefinitions runs every definition through the builder so the same
// save rules apply to files and interactive sessions.
func commitDefinitions(app *formbuilder.App, dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	store, err := definition.LoadFS(os.DirFS(dir))
	if err != nil {
		return err
	}
	for _, form := range store.Forms() {
		app.Builder.Open()
		if err := app.Builder.LoadDefinition(form); err != nil {
			return fmt.Errorf("%s: %w", form.Source, err)
		}
		if _, err := app.Builder.Save(); err != nil {
			return fmt.Errorf("%s: %w", form.Source, err)
		}
	}
	return nil
}

func htmlOptions(raw string) []html.Option {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	name, variant, _ := strings.Cut(raw, ":")
	selector := html.NewManifestSelector(html.DefaultManifest())
	return []html.Option{
		html.WithThemeSelector(selector, name, variant),
		html.WithStylesheet(true),
	}
}

func writeOpenAPI(ctx context.Context, app *formbuilder.App, path string) error {
	doc, err := pkgopenapi.Export(ctx, app.Forms.List())
	if err != nil {
		return err
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	data, err := pkgopenapi.Encode(doc, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
