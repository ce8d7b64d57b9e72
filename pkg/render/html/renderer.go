// Package html renders documents as browser-ready pages: items as articles,
// queries as GET forms, templates as write forms with controls picked per
// field. Write methods browsers cannot submit natively become POST forms
// carrying a hidden _method input.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/render"
	rendertemplate "github.com/goliatone/go-hypermedia/pkg/render/template"
	"github.com/goliatone/go-hypermedia/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

// StylesheetAssetKey is the theme asset slot the page stylesheet resolves
// from.
const StylesheetAssetKey = "html.stylesheet"

// Option adjusts renderer construction.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	controls         *ControlRegistry
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithControls replaces the built-in control registry.
func WithControls(controls *ControlRegistry) Option {
	return func(cfg *config) {
		if controls != nil {
			cfg.controls = controls
		}
	}
}

// WithTheme applies a resolved theme configuration: tokens become CSS custom
// properties on the page body and the stylesheet resolves through the
// theme's asset mapping.
func WithTheme(themeConfig *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeConfig
	}
}

// Renderer renders documents as HTML pages.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	controls  *ControlRegistry
	theme     *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.controls == nil {
		cfg.controls = NewControlRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		controls:  cfg.controls,
		theme:     cfg.theme,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, doc *collection.Document, options render.Options) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("html renderer: document is nil")
	}

	result, err := r.templates.RenderTemplate(pageTemplate, r.pageContext(doc, options))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) pageContext(doc *collection.Document, options render.Options) map[string]any {
	title := doc.Collection.Title
	if doc.Error != nil && doc.Error.Title != "" {
		title = doc.Error.Title
	}
	if title == "" {
		title = "Collection"
	}

	items := make([]map[string]any, 0, len(doc.Collection.Items))
	for _, item := range doc.Collection.Items {
		items = append(items, r.itemContext(item))
	}

	queries := make([]map[string]any, 0, len(doc.Collection.Queries))
	for _, query := range doc.Collection.Queries {
		queries = append(queries, queryContext(query))
	}

	hidden := hiddenContext(options.Hidden)
	forms := make([]map[string]any, 0, len(doc.Templates))
	for _, tpl := range doc.Templates {
		forms = append(forms, r.formContext(doc, tpl, options))
	}

	page := map[string]any{
		"title":         title,
		"status":        options.Status,
		"media_type":    collection.MediaType,
		"href":          doc.Collection.Href,
		"links":         linksContext(doc.Collection.Links),
		"items":         items,
		"queries":       queries,
		"forms":         forms,
		"hidden_fields": hidden,
		"form_errors":   render.MergeFormErrors(options.FormErrors),
		"theme":         r.themeContext(),
	}
	if doc.Error != nil {
		page["error"] = map[string]any{
			"title":   doc.Error.Title,
			"code":    doc.Error.Code,
			"message": doc.Error.Message,
			"details": doc.Error.Details,
		}
	}
	return page
}

func linksContext(links []collection.Link) []map[string]any {
	out := make([]map[string]any, 0, len(links))
	for _, link := range links {
		prompt := link.Prompt
		if prompt == "" {
			prompt = link.Rel
		}
		method := strings.ToUpper(link.Method)
		write := method != "" && method != http.MethodGet
		out = append(out, map[string]any{
			"rel":      link.Rel,
			"href":     link.Href,
			"prompt":   prompt,
			"method":   method,
			"write":    write,
			"override": write && method != http.MethodPost,
		})
	}
	return out
}

func (r *Renderer) itemContext(item collection.Item) map[string]any {
	data := make([]map[string]any, 0, len(item.Data))
	for _, datum := range item.Data {
		prompt := datum.Prompt
		if prompt == "" {
			prompt = datum.Name
		}
		entry := map[string]any{
			"name":   datum.Name,
			"prompt": prompt,
			"value":  valueText(datum.Value),
			"rich":   false,
		}
		if datum.Type == "textarea" {
			if text, ok := datum.Value.(string); ok {
				entry["value"] = sanitizeRichText(text)
				entry["rich"] = true
			}
		}
		data = append(data, entry)
	}
	return map[string]any{
		"href":  item.Href,
		"rel":   item.Rel,
		"data":  data,
		"links": linksContext(item.Links),
	}
}

func queryContext(query collection.Query) map[string]any {
	data := make([]map[string]any, 0, len(query.Data))
	for _, datum := range query.Data {
		prompt := datum.Prompt
		if prompt == "" {
			prompt = datum.Name
		}
		data = append(data, map[string]any{
			"name":   datum.Name,
			"prompt": prompt,
			"value":  valueText(datum.Value),
		})
	}
	prompt := query.Prompt
	if prompt == "" {
		prompt = query.Rel
	}
	return map[string]any{
		"rel":    query.Rel,
		"href":   query.Href,
		"prompt": prompt,
		"data":   data,
	}
}

func (r *Renderer) formContext(doc *collection.Document, tpl collection.Template, options render.Options) map[string]any {
	action := tpl.Href
	if action == "" {
		action = doc.Collection.Href
	}
	method := strings.ToUpper(tpl.Method)
	if method == "" {
		method = http.MethodPost
	}

	formMethod := "post"
	if method == http.MethodGet {
		formMethod = "get"
	}

	fields := make([]map[string]any, 0, len(tpl.Data))
	for _, field := range tpl.Data {
		fields = append(fields, r.fieldContext(field, options.FieldErrors[field.Name]))
	}

	return map[string]any{
		"prompt":      tpl.Prompt,
		"action":      action,
		"method":      method,
		"form_method": formMethod,
		"override":    formMethod == "post" && method != http.MethodPost,
		"fields":      fields,
	}
}

func (r *Renderer) fieldContext(field collection.TemplateData, errors []string) map[string]any {
	control := r.controls.Resolve(field)

	inputType := "text"
	switch control {
	case ControlNumber:
		inputType = "number"
	case ControlDatetime:
		inputType = "datetime-local"
	}

	prompt := field.Prompt
	if prompt == "" {
		prompt = field.Name
	}

	ctx := map[string]any{
		"name":     field.Name,
		"prompt":   prompt,
		"control":  control,
		"input":    inputType,
		"value":    valueText(field.Value),
		"checked":  isChecked(field.Value),
		"required": field.Required,
		"options":  field.Options,
		"pattern":  field.Pattern,
		"errors":   render.MergeFormErrors(errors),
	}
	if field.Min != nil {
		ctx["min"] = formatBound(*field.Min)
	}
	if field.Max != nil {
		ctx["max"] = formatBound(*field.Max)
	}
	if field.MinLength != nil {
		ctx["minlength"] = strconv.Itoa(*field.MinLength)
	}
	if field.MaxLength != nil {
		ctx["maxlength"] = strconv.Itoa(*field.MaxLength)
	}
	return ctx
}

func (r *Renderer) themeContext() map[string]any {
	if r.theme == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":           r.theme.Theme,
		"variant":        r.theme.Variant,
		"css_vars_style": CSSVarsStyle(r.theme.CSSVars),
	}
	if r.theme.AssetURL != nil {
		if href := r.theme.AssetURL(StylesheetAssetKey); href != "" {
			ctx["stylesheet"] = href
		}
	}
	return ctx
}

func hiddenContext(fields map[string]string) []map[string]any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
	}
	return out
}

// valueText renders a template value the way form inputs expect: booleans
// lowercase, nil empty, everything else through fmt.
func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
