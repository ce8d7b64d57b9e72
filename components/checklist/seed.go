package checklist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedDefinition is one blueprint of the YAML seed catalog:
//
//	definitions:
//	  - name: Release checklist
//	    description: Everything before shipping
//	    tasks:
//	      - name: Write the changelog
//	        order: 1
type SeedDefinition struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Tasks       []TaskDefinition `yaml:"tasks"`
}

type seedFile struct {
	Definitions []SeedDefinition `yaml:"definitions"`
}

// LoadSeed parses a seed catalog. An empty document yields no definitions.
func LoadSeed(r io.Reader) ([]SeedDefinition, error) {
	var doc seedFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("checklist: parse seed catalog: %w", err)
	}
	return doc.Definitions, nil
}

// LoadSeedFile reads and parses a seed catalog from disk.
func LoadSeedFile(path string) ([]SeedDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checklist: open seed catalog: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// Seed stores the given definitions through the usual create path, so seeded
// blueprints get ids and timestamps like any other.
func (s *Service) Seed(defs []SeedDefinition) error {
	for _, def := range defs {
		input := DefinitionInput{
			Name:        def.Name,
			Description: def.Description,
			Tasks:       def.Tasks,
		}
		if _, err := s.CreateDefinition(input); err != nil {
			return fmt.Errorf("checklist: seed %q: %w", def.Name, err)
		}
	}
	return nil
}
