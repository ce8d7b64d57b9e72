package checklist

import (
	"log/slog"
)

// Options configure a checklist component. Zero values fall back to the
// defaults applied by NewOptions.
type Options struct {
	// BasePath is the mount prefix echoed into document hrefs, e.g. "/cj".
	BasePath string
	// BaseURL replaces BasePath as the href prefix when documents must be
	// absolute, e.g. "https://api.example.com/cj".
	BaseURL string
	// Title labels the home document.
	Title string
	// SeedFile optionally points at a YAML seed catalog loaded during New.
	SeedFile string
	// Service supplies a pre-built domain service, e.g. one sharing a store
	// with another component. Nil gets a fresh in-memory service.
	Service *Service
	// Logger receives request-level failures. Nil stays silent.
	Logger *slog.Logger
	// Hidden adds hidden inputs to every rendered form, e.g. a CSRF token.
	Hidden map[string]string
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// DefaultOptions returns the component defaults.
func DefaultOptions() Options {
	return Options{
		BasePath: "/cj",
		Title:    "Checklist API",
	}
}

// NewOptions applies overrides on top of the defaults and normalizes the
// result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.BasePath == "" {
		opts.BasePath = "/cj"
	}
	if opts.Title == "" {
		opts.Title = "Checklist API"
	}
	if opts.Hidden != nil {
		hidden := make(map[string]string, len(opts.Hidden))
		for k, v := range opts.Hidden {
			hidden[k] = v
		}
		opts.Hidden = hidden
	}
	return opts
}

// WithBasePath sets the mount prefix used in hrefs.
func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasePath = path
	}
}

// WithBaseURL sets an absolute href prefix.
func WithBaseURL(base string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BaseURL = base
	}
}

// WithTitle sets the home document title.
func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

// WithSeedFile loads a YAML seed catalog during construction.
func WithSeedFile(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SeedFile = path
	}
}

// WithService injects a pre-built domain service.
func WithService(service *Service) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Service = service
	}
}

// WithLogger injects the component logger.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithHiddenFields adds hidden inputs to every rendered form.
func WithHiddenFields(hidden map[string]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if hidden == nil {
			o.Hidden = nil
			return
		}
		o.Hidden = make(map[string]string, len(hidden))
		for k, v := range hidden {
			o.Hidden[k] = v
		}
	}
}
