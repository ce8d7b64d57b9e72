package checklist

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const seedDocument = `
definitions:
  - name: Release checklist
    description: Everything before shipping
    tasks:
      - name: Write the changelog
        order: 1
      - name: Tag the release
        order: 2
  - name: Onboarding
    tasks:
      - name: Badge
`

func TestLoadSeed(t *testing.T) {
	defs, err := LoadSeed(strings.NewReader(seedDocument))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}

	want := []SeedDefinition{
		{
			Name:        "Release checklist",
			Description: "Everything before shipping",
			Tasks: []TaskDefinition{
				{Name: "Write the changelog", Order: 1},
				{Name: "Tag the release", Order: 2},
			},
		},
		{
			Name:  "Onboarding",
			Tasks: []TaskDefinition{{Name: "Badge"}},
		},
	}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSeedEmptyDocument(t *testing.T) {
	defs, err := LoadSeed(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("expected no definitions, got %v", defs)
	}
}

func TestSeedStoresThroughService(t *testing.T) {
	svc := newTestService()
	defs, err := LoadSeed(strings.NewReader(seedDocument))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if err := svc.Seed(defs); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	stored := svc.Definitions("")
	if len(stored) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(stored))
	}
	if stored[0].ID != "def_00000001" || stored[1].ID != "def_00000002" {
		t.Fatalf("seeded ids %q, %q", stored[0].ID, stored[1].ID)
	}
	// orders missing in the document are assigned on the way in
	if got := stored[1].Tasks[0].Order; got != 1 {
		t.Fatalf("expected assigned order 1, got %d", got)
	}
}

func TestSeedRejectsInvalidDefinition(t *testing.T) {
	svc := newTestService()
	err := svc.Seed([]SeedDefinition{{Name: "  "}})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("unexpected error %v", err)
	}
}
