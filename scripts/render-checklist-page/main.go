// Renders the checklist definitions page against an in-process component so
// the page template can be reworked without running a server.
package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-hypermedia/components/checklist"
)

func main() {
	const (
		pagePath   = "/cj/workflow-definitions/"
		outputPath = "scripts/render-checklist-page/definitions.html"
	)

	component, err := checklist.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build component: %v\n", err)
		os.Exit(1)
	}

	if err := seed(component.Service()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed definitions: %v\n", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	component.Mount(router)

	req := httptest.NewRequest(http.MethodGet, pagePath, nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Unexpected status %d for %s\n", rec.Code, pagePath)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, rec.Body.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Rendered checklist definitions page (%d bytes) → %s\n", rec.Body.Len(), outputPath)
}

func seed(service *checklist.Service) error {
	definitions := []checklist.DefinitionInput{
		{
			Name:        "Release checklist",
			Description: "Everything that ships with a tagged release.",
			Tasks: []checklist.TaskDefinition{
				{Name: "Write the changelog", Order: 1},
				{Name: "Tag the release", Order: 2},
				{Name: "Publish the announcement", Order: 3},
			},
		},
		{
			Name:        "Onboarding",
			Description: "First-week setup for a new teammate.",
			Tasks: []checklist.TaskDefinition{
				{Name: "Create accounts", Order: 1},
				{Name: "Pair on a starter task", Order: 2},
			},
		},
	}
	for _, input := range definitions {
		if _, err := service.CreateDefinition(input); err != nil {
			return err
		}
	}
	return nil
}
