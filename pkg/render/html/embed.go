package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page template bundle so callers can reuse
// or extend it, e.g. by copying it to disk and pointing WithTemplatesDir at
// the result.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
