// Command catalog-lint checks OpenAPI documents for transition-catalog
// fitness. It reports the operations a catalog built from each document
// would exclude, write operations whose request bodies yield no usable
// fields, and operations relying on synthesized ids. A clean document exits
// zero; findings print to stderr and exit one.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	hypermedia "github.com/goliatone/go-hypermedia"
	"github.com/goliatone/go-hypermedia/pkg/apischema"
	"github.com/goliatone/go-hypermedia/pkg/transitions"
)

type finding struct {
	file        string
	operationID string
	message     string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint OpenAPI documents for transition catalog fitness.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"components/checklist/openapi.yaml"}
	}

	ctx := context.Background()
	load := hypermedia.NewLoader()
	parse := hypermedia.NewParser()

	var findings []finding
	for _, path := range paths {
		found, err := lintFile(ctx, load, parse, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		findings = append(findings, found...)
	}

	if len(findings) > 0 {
		sort.Slice(findings, func(i, j int) bool {
			if findings[i].file == findings[j].file {
				if findings[i].operationID == findings[j].operationID {
					return findings[i].message < findings[j].message
				}
				return findings[i].operationID < findings[j].operationID
			}
			return findings[i].file < findings[j].file
		})
		for _, f := range findings {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", f.file, f.operationID, f.message)
		}
		os.Exit(1)
	}
}

func lintFile(ctx context.Context, load apischema.Loader, parse apischema.Parser, path string) ([]finding, error) {
	doc, err := load.Load(ctx, apischema.SourceFromFile(path))
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	api, err := parse.Parse(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var findings []finding
	for _, id := range api.OperationIDs() {
		op, _ := api.Operation(id)
		if id == synthesizedID(op) {
			findings = append(findings, finding{
				file:        path,
				operationID: id,
				message:     "operation declares no operationId; clients must rely on a synthesized id",
			})
		}
	}

	catalog := transitions.FromAPI(api)
	failures, err := catalog.Failures(ctx)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	for id, failure := range failures {
		findings = append(findings, finding{
			file:        path,
			operationID: id,
			message:     failure.Error(),
		})
	}

	all, err := catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	for id, transition := range all {
		op, ok := api.Operation(id)
		if !ok || !op.HasRequestBody() {
			continue
		}
		if transition.IsWrite() && transition.Kind() == transitions.KindLink {
			findings = append(findings, finding{
				file:        path,
				operationID: id,
				message:     "request body yields no template fields; the transition degrades to a link",
			})
		}
	}

	return findings, nil
}

// synthesizedID is the id the parser assigns when a document omits
// operationId.
func synthesizedID(op apischema.Operation) string {
	return strings.ToLower(op.Method) + ":" + op.Path
}
