// Package template defines the engine-agnostic template rendering seam used
// by page renderers, plus the bundled pongo2 adapter in the gotemplate
// subpackage.
package template
