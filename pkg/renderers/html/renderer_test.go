package html_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	nethtml "golang.org/x/net/html"

	"github.com/goliatone/go-formbuilder/pkg/engine"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

func newField(t *testing.T, ft model.FieldType, id, label string) model.FieldDescriptor {
	t.Helper()
	field, err := model.NewFieldWithID(ft, id)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	field.Label = label
	return field
}

func renderView(t *testing.T, r *html.Renderer, view engine.View, opts render.RenderOptions) (string, *nethtml.Node) {
	t.Helper()
	out, err := r.Render(context.Background(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := nethtml.Parse(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return string(out), doc
}

func find(n *nethtml.Node, match func(*nethtml.Node) bool) []*nethtml.Node {
	var out []*nethtml.Node
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node.Type == nethtml.ElementNode && match(node) {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func byTag(tag string) func(*nethtml.Node) bool {
	return func(n *nethtml.Node) bool { return n.Data == tag }
}

func attr(n *nethtml.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *nethtml.Node) string {
	var b strings.Builder
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node.Type == nethtml.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func mustRenderer(t *testing.T, opts ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderStandaloneForm(t *testing.T) {
	name := newField(t, model.FieldTypeText, "name", "Name")
	name.SetRequired(true)
	color := newField(t, model.FieldTypeRadio, "color", "Color")
	eng := engine.New([]model.FieldDescriptor{name, color, newField(t, model.FieldTypeCheckbox, "ok", "Agree")},
		engine.WithTitle("Signup"),
		engine.WithFormID("form_1"),
		engine.WithLayout(model.LayoutTwoColumn),
	)
	_ = eng.Change("color", "Option 2")
	_ = eng.Change("ok", true)

	_, doc := renderView(t, mustRenderer(t), eng.View(), render.RenderOptions{})

	sections := find(doc, byTag("section"))
	if len(sections) != 1 {
		t.Fatalf("want one section, got %d", len(sections))
	}
	if id, _ := attr(sections[0], "data-form-id"); id != "form_1" {
		t.Fatalf("data-form-id = %q", id)
	}
	if h2 := find(doc, byTag("h2")); len(h2) != 1 || text(h2[0]) != "Signup" {
		t.Fatalf("title heading missing")
	}

	forms := find(doc, byTag("form"))
	if class, _ := attr(forms[0], "class"); !strings.Contains(class, "fb-grid") {
		t.Fatalf("two-column layout missing grid class: %q", class)
	}

	inputs := find(doc, byTag("input"))
	var summary []string
	for _, input := range inputs {
		typ, _ := attr(input, "type")
		_, checked := attr(input, "checked")
		_, required := attr(input, "required")
		checkedText, requiredText := "-", "-"
		if checked {
			checkedText = "checked"
		}
		if required {
			requiredText = "required"
		}
		summary = append(summary, typ+":"+checkedText+":"+requiredText)
	}
	want := []string{
		"text:-:required",
		"radio:-:-", "radio:checked:-", "radio:-:-",
		"checkbox:checked:-",
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}

	buttons := find(doc, byTag("button"))
	if len(buttons) != 1 {
		t.Fatalf("standalone chrome should only render submit, got %d buttons", len(buttons))
	}
}

func TestRenderPreviewChrome(t *testing.T) {
	eng := engine.New([]model.FieldDescriptor{newField(t, model.FieldTypeSelect, "s", "Pick")},
		engine.WithChrome(engine.ChromePreview),
		engine.WithTitle("Hidden in preview"),
	)
	_, doc := renderView(t, mustRenderer(t), eng.View(), render.RenderOptions{})

	if len(find(doc, byTag("section"))) != 0 || len(find(doc, byTag("h2"))) != 0 {
		t.Fatalf("preview chrome rendered standalone wrapper")
	}
	var labels []string
	for _, button := range find(doc, byTag("button")) {
		labels = append(labels, text(button))
	}
	if diff := cmp.Diff([]string{"Submit", "Clear Form"}, labels); diff != "" {
		t.Fatalf("buttons mismatch (-want +got):\n%s", diff)
	}
	if options := find(doc, byTag("option")); len(options) != 4 {
		t.Fatalf("want placeholder plus three options, got %d", len(options))
	}
}

func TestRenderSanitizesLabels(t *testing.T) {
	field := newField(t, model.FieldTypeSelect, "s", `<script>alert(1)</script>Pick <b>one</b>`)
	field.Options = []string{`<img src=x onerror=alert(1)>Red`, "Blue"}
	eng := engine.New([]model.FieldDescriptor{field})

	raw, doc := renderView(t, mustRenderer(t), eng.View(), render.RenderOptions{})

	if len(find(doc, byTag("script"))) != 0 || len(find(doc, byTag("img"))) != 0 || len(find(doc, byTag("b"))) != 0 {
		t.Fatalf("markup leaked into output:\n%s", raw)
	}
	labels := find(doc, byTag("label"))
	if got := text(labels[0]); got != "Pick one" {
		t.Fatalf("label text = %q", got)
	}
}

func TestRenderShowsTouchedErrors(t *testing.T) {
	email := newField(t, model.FieldTypeEmail, "email", "Email")
	email.SetRequired(true)
	eng := engine.New([]model.FieldDescriptor{email})
	r := mustRenderer(t)

	_, doc := renderView(t, r, eng.View(), render.RenderOptions{})
	if len(find(doc, byTag("p"))) != 0 {
		t.Fatalf("untouched field rendered an error")
	}

	_ = eng.Blur("email")
	_, doc = renderView(t, r, eng.View(), render.RenderOptions{})
	errs := find(doc, byTag("p"))
	if len(errs) != 1 || text(errs[0]) != "Email is required" {
		t.Fatalf("error paragraph missing")
	}

	_, doc = renderView(t, r, eng.View(), render.RenderOptions{Errors: map[string]string{"email": "Taken"}})
	if got := text(find(doc, byTag("p"))[0]); got != "Taken" {
		t.Fatalf("override error = %q", got)
	}
}

func TestRenderThemeVariables(t *testing.T) {
	selector := html.NewManifestSelector(html.DefaultManifest())
	r := mustRenderer(t, html.WithThemeSelector(selector, "default", "dark"), html.WithStylesheet(true))
	eng := engine.New([]model.FieldDescriptor{newField(t, model.FieldTypeText, "a", "A")})

	_, doc := renderView(t, r, eng.View(), render.RenderOptions{})
	styles := find(doc, byTag("style"))
	if len(styles) != 2 {
		t.Fatalf("want stylesheet and theme style, got %d", len(styles))
	}
	themeCSS := text(styles[1])
	for _, want := range []string{"--brand: #4096ff;", "--danger: #dc2626;"} {
		if !strings.Contains(themeCSS, want) {
			t.Fatalf("theme css missing %q: %s", want, themeCSS)
		}
	}
	if name, _ := attr(styles[1], "data-theme"); name != "default" {
		t.Fatalf("data-theme = %q", name)
	}
}

func TestManifestSelectorRejectsUnknownVariant(t *testing.T) {
	selector := html.NewManifestSelector(html.DefaultManifest())
	if _, err := selector.Select("default", "sepia"); err == nil {
		t.Fatalf("unknown variant accepted")
	}
	if _, err := html.New(html.WithThemeSelector(selector, "missing", "")); err == nil {
		t.Fatalf("unknown theme accepted")
	}
}

func TestPasswordValueIsNotEchoed(t *testing.T) {
	eng := engine.New([]model.FieldDescriptor{newField(t, model.FieldTypePassword, "pw", "Password")})
	_ = eng.Change("pw", "hunter2")
	raw, _ := renderView(t, mustRenderer(t), eng.View(), render.RenderOptions{})
	if strings.Contains(raw, "hunter2") {
		t.Fatalf("password value rendered")
	}
}

func TestRenderTemplatesDir(t *testing.T) {
	dir := t.TempDir()
	custom := map[string]string{
		"form.tmpl":    `<section class="custom">{{ form.title }}{% for control in form.controls %}{% include "control.tmpl" %}{% endfor %}</section>`,
		"control.tmpl": `<p>{{ control.label }}</p>`,
	}
	for name, body := range custom {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	eng := engine.New([]model.FieldDescriptor{newField(t, model.FieldTypeText, "name", "Name")}, engine.WithTitle("Signup"))
	out, err := mustRenderer(t, html.WithTemplatesDir(dir)).Render(context.Background(), eng.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != `<section class="custom">Signup<p>Name</p></section>` {
		t.Fatalf("unexpected output %q", got)
	}
}
