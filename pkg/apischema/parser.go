package apischema

import "context"

// Parser normalises schema documents into the API view that the transition
// catalog consumes.
type Parser interface {
	Parse(ctx context.Context, doc Document) (API, error)
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// RequireOperationIDs rejects documents containing operations without an
	// explicit operationId instead of synthesising method:path identifiers.
	RequireOperationIDs bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithRequiredOperationIDs toggles strict operationId handling.
func WithRequiredOperationIDs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.RequireOperationIDs = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level hypermedia package to avoid import cycles.
