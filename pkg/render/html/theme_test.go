package html_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-hypermedia/pkg/render/html"
)

func glassManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "glass",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":   "#ffffff",
			"color-text": "#1a1a1a",
		},
		Templates: map[string]string{
			"item": "glass/item.html",
		},
		Assets: theme.Assets{
			Prefix: "/assets/glass",
			Files: map[string]string{
				"html.stylesheet": "glass.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-bg": "#101418",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"html.stylesheet": "glass-dark.css",
					},
				},
			},
		},
	}
}

func TestConfigFromSelection(t *testing.T) {
	sel := &theme.Selection{Theme: "glass", Manifest: glassManifest()}

	cfg := html.ConfigFromSelection(sel, map[string]string{
		"item":   "default/item.html",
		"footer": "default/footer.html",
	})
	if cfg == nil {
		t.Fatal("expected a renderer config")
	}

	if cfg.Theme != "glass" || cfg.Variant != "" {
		t.Fatalf("unexpected identity: %q/%q", cfg.Theme, cfg.Variant)
	}

	wantPartials := map[string]string{
		"item":   "glass/item.html",
		"footer": "default/footer.html",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}

	wantVars := map[string]string{
		"--color-bg":   "#ffffff",
		"--color-text": "#1a1a1a",
	}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}

	if got := cfg.AssetURL("html.stylesheet"); got != "/assets/glass/glass.css" {
		t.Fatalf("AssetURL = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}
}

func TestConfigFromSelectionVariantOverrides(t *testing.T) {
	sel := &theme.Selection{Theme: "glass", Variant: "dark", Manifest: glassManifest()}

	cfg := html.ConfigFromSelection(sel, nil)
	if cfg == nil {
		t.Fatal("expected a renderer config")
	}

	if cfg.Variant != "dark" {
		t.Fatalf("variant = %q", cfg.Variant)
	}
	if got := cfg.Tokens["color-bg"]; got != "#101418" {
		t.Fatalf("variant token should win, got %q", got)
	}
	if got := cfg.Tokens["color-text"]; got != "#1a1a1a" {
		t.Fatalf("base token should survive, got %q", got)
	}
	if got := cfg.AssetURL("html.stylesheet"); got != "/assets/glass/glass-dark.css" {
		t.Fatalf("AssetURL = %q", got)
	}
}

func TestConfigFromSelectionNil(t *testing.T) {
	if cfg := html.ConfigFromSelection(nil, nil); cfg != nil {
		t.Fatalf("nil selection should produce nil config, got %+v", cfg)
	}
	if cfg := html.ConfigFromSelection(&theme.Selection{Theme: "glass"}, nil); cfg != nil {
		t.Fatalf("selection without manifest should produce nil config, got %+v", cfg)
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := html.CSSVarsStyle(map[string]string{
		"--color-text": "#1a1a1a",
		"--color-bg":   "#ffffff",
	})
	want := "--color-bg:#ffffff;--color-text:#1a1a1a;"
	if got != want {
		t.Fatalf("CSSVarsStyle = %q, want %q", got, want)
	}

	if got := html.CSSVarsStyle(nil); got != "" {
		t.Fatalf("empty vars should render empty, got %q", got)
	}
}
