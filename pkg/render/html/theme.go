package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ConfigFromSelection flattens a theme selection into the renderer
// configuration: variant tokens, templates and asset files override the
// manifest's, tokens double as CSS custom properties, and AssetURL joins the
// asset prefix with the mapped file. fallbacks fill partial slots the
// manifest leaves empty.
func ConfigFromSelection(sel *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	manifest := sel.Manifest

	tokens := mergeStringMaps(nil, manifest.Tokens)
	partials := mergeStringMaps(fallbacks, manifest.Templates)
	files := mergeStringMaps(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[sel.Variant]; ok {
		tokens = mergeStringMaps(tokens, variant.Tokens)
		partials = mergeStringMaps(partials, variant.Templates)
		files = mergeStringMaps(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		cssVars[name] = value
	}

	return &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

// CSSVarsStyle renders custom properties as an inline style value, sorted so
// output is deterministic.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	return b.String()
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
}

func mergeStringMaps(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}
