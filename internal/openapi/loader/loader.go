package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-hypermedia/pkg/apischema"
)

// Loader implements apischema.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level hypermedia package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ apischema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options apischema.LoaderOptions) apischema.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src apischema.Source) (apischema.Document, error) {
	if src == nil {
		return apischema.Document{}, errors.New("schema loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case apischema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case apischema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case apischema.SourceKindURL:
		if !l.allowHTTP {
			return apischema.Document{}, errors.New("schema loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("schema loader: unsupported source kind")
	}
	if err != nil {
		return apischema.Document{}, err
	}

	return apischema.NewDocument(src, data)
}
