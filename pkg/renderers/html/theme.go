package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme name and variant to a selection. It matches
// the go-theme selector contract.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// ManifestSelector selects among a fixed set of manifests.
type ManifestSelector struct {
	manifests map[string]*theme.Manifest
	order     []string
}

// NewManifestSelector indexes manifests by name. The first manifest is the
// fallback for an empty name.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		if _, exists := s.manifests[manifest.Name]; !exists {
			s.order = append(s.order, manifest.Name)
		}
		s.manifests[manifest.Name] = manifest
	}
	return s
}

// Names lists the known themes in registration order.
func (s *ManifestSelector) Names() []string {
	return append([]string(nil), s.order...)
}

// Select returns the manifest called name. Unknown variants are rejected.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" && len(s.order) > 0 {
		name = s.order[0]
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("html: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("html: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// DefaultManifest is the built-in theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#1677ff",
			"danger":  "#dc2626",
			"text":    "#1f2937",
			"spacing": "1rem",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#4096ff",
					"text":  "#f3f4f6",
				},
			},
		},
	}
}

// themeTokens merges manifest tokens with the selected variant's overrides.
func themeTokens(selection *theme.Selection) map[string]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

// themeCSS renders tokens as custom properties on the form root. Tokens whose
// name or value could break out of the declaration are skipped.
func themeCSS(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		if validTokenName(key) && validTokenValue(tokens[key]) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(" --")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(tokens[key]))
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

func validTokenName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func validTokenValue(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.ContainsAny(value, "<>{};\\")
}
