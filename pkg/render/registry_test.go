package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, view engine.View, _ render.RenderOptions) ([]byte, error) {
	return []byte(s.name + ":" + view.Title), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(stubRenderer{name: "b"}, stubRenderer{name: "a"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(stubRenderer{name: "a"}); !errors.Is(err, render.ErrRendererExists) {
		t.Fatalf("want ErrRendererExists, got %v", err)
	}
	if _, err := registry.Get("zzz"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("want ErrRendererNotFound, got %v", err)
	}

	out, err := registry.Render(context.Background(), "b", engine.View{Title: "Signup"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "b:Signup" {
		t.Fatalf("output = %q", out)
	}
}

func TestErrorForPrefersOverride(t *testing.T) {
	control := engine.Control{FieldID: "a", Error: "from view"}
	opts := render.RenderOptions{Errors: map[string]string{"a": "from host"}}
	if got := opts.ErrorFor(control); got != "from host" {
		t.Fatalf("ErrorFor = %q", got)
	}
	if got := (render.RenderOptions{}).ErrorFor(control); got != "from view" {
		t.Fatalf("ErrorFor = %q", got)
	}
}
