package representor_test

import (
	"testing"

	"github.com/goliatone/go-hypermedia/pkg/collection"
	"github.com/goliatone/go-hypermedia/pkg/representor"
)

func TestParseAccept(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"absent header", "", collection.MediaType},
		{"exact hypermedia", "application/vnd.collection+json", collection.MediaType},
		{"exact html", "text/html", representor.HTMLMediaType},
		{
			"browser default",
			"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			representor.HTMLMediaType,
		},
		{"wildcard only", "*/*", collection.MediaType},
		{"tie resolves to hypermedia", "text/html;q=0.9,application/json;q=0.9", collection.MediaType},
		{"html marked unacceptable", "text/html;q=0", collection.MediaType},
		{"type wildcard", "text/*", representor.HTMLMediaType},
		{"json outranks html", "application/json;q=0.9,text/html;q=0.8", collection.MediaType},
		{"hypermedia outranks html", "application/vnd.collection+json,text/html;q=0.9", collection.MediaType},
		{"specific clause overrides wildcard score", "*/*;q=0.9,text/html;q=0.4", collection.MediaType},
		{"malformed clause ignored", "garbage, text/html", representor.HTMLMediaType},
		{"whitespace tolerated", " text/html ; q=0.95 , application/json ; q=0.5 ", representor.HTMLMediaType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := representor.ParseAccept(tc.header); got != tc.want {
				t.Fatalf("ParseAccept(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
