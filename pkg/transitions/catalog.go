package transitions

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sync"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
)

// Provider supplies the parsed API view the catalog is built from. It is
// invoked once per build; Invalidate triggers a fresh call on next use.
type Provider func(ctx context.Context) (apischema.API, error)

// Catalog is the memoized transition table for one API. The first call that
// needs transitions builds the table; afterwards it is read-only and shared
// safely across requests. Operations whose schemas fail to resolve are
// recorded individually so the rest of the catalog stays usable.
type Catalog struct {
	provider Provider

	mu          sync.RWMutex
	built       bool
	buildErr    error
	transitions map[string]Transition
	failures    map[string]error
}

// New returns a catalog fed by the provider.
func New(provider Provider) *Catalog {
	return &Catalog{provider: provider}
}

// FromAPI returns a catalog over an already parsed API view.
func FromAPI(api apischema.API) *Catalog {
	return New(func(context.Context) (apischema.API, error) {
		return api, nil
	})
}

// ensure performs the lazy, double-checked build.
func (c *Catalog) ensure(ctx context.Context) error {
	c.mu.RLock()
	if c.built {
		err := c.buildErr
		c.mu.RUnlock()
		return err
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return c.buildErr
	}

	c.transitions = make(map[string]Transition)
	c.failures = make(map[string]error)
	c.buildErr = nil

	if c.provider == nil {
		c.buildErr = fmt.Errorf("transitions: catalog has no provider")
	} else if api, err := c.provider(ctx); err != nil {
		c.buildErr = fmt.Errorf("transitions: build catalog: %w", err)
	} else {
		for id, op := range api.Operations {
			fields, err := fieldsForOperation(api, op)
			if err != nil {
				c.failures[id] = resolutionErr(id, err)
				continue
			}
			c.transitions[id] = Transition{
				ID:     id,
				Title:  op.Title(),
				Tags:   append([]string(nil), op.Tags...),
				Href:   op.Path,
				Method: op.Method,
				Fields: fields,
			}
		}
	}

	c.built = true
	return c.buildErr
}

// Get returns the transition for an operation id. Ids poisoned during the
// build return their recorded ResolutionError; ids the API never declared
// return ErrUnknown.
func (c *Catalog) Get(ctx context.Context, id string) (Transition, error) {
	if err := c.ensure(ctx); err != nil {
		return Transition{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.transitions[id]; ok {
		return t.clone(), nil
	}
	if err, ok := c.failures[id]; ok {
		return Transition{}, err
	}
	return Transition{}, fmt.Errorf("%w: %q", ErrUnknown, id)
}

// All returns a copy of every usable transition keyed by operation id.
func (c *Catalog) All(ctx context.Context) (map[string]Transition, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Transition, len(c.transitions))
	for id, t := range c.transitions {
		out[id] = t.clone()
	}
	return out, nil
}

// Failures returns the operations excluded from the catalog and why. Servers
// log these at startup; an entry here means the schema document needs fixing.
func (c *Catalog) Failures(ctx context.Context) (map[string]error, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]error, len(c.failures))
	for id, err := range c.failures {
		out[id] = err
	}
	return out, nil
}

// Resolve returns a copy of the transition with every href placeholder
// substituted from params. A placeholder without a matching entry fails with
// MissingPlaceholderError; callers must never emit the raw href.
func (c *Catalog) Resolve(ctx context.Context, id string, params map[string]any) (Transition, error) {
	t, err := c.Get(ctx, id)
	if err != nil {
		return Transition{}, err
	}

	href, err := resolveHref(id, t.Href, params)
	if err != nil {
		return Transition{}, err
	}
	t.Href = href
	return t, nil
}

// Invalidate discards the memoized catalog; the next call rebuilds from the
// provider.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.built = false
	c.buildErr = nil
	c.transitions = nil
	c.failures = nil
}

var placeholderPattern = regexp.MustCompile(`\{([^/{}]+)\}`)

func resolveHref(id, href string, params map[string]any) (string, error) {
	var missing *MissingPlaceholderError
	resolved := placeholderPattern.ReplaceAllStringFunc(href, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			if missing == nil {
				missing = &MissingPlaceholderError{OperationID: id, Placeholder: name}
			}
			return match
		}
		return url.PathEscape(fmt.Sprintf("%v", value))
	})
	if missing != nil {
		return "", missing
	}
	return resolved, nil
}
