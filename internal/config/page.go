// Package config loads the page binding definition from YAML and turns
// it into the structure a binding session is initialized with.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/formbind/formbind/internal/domain"
	"github.com/formbind/formbind/internal/format"
)

// PageDefinition is the authored binding configuration for one page.
type PageDefinition struct {
	Page     string                       `yaml:"page"`
	Datasets map[string]DatasetDefinition `yaml:"datasets"`
}

// DatasetDefinition declares the bound fields of one record source.
type DatasetDefinition struct {
	Fields map[string]FieldDefinition `yaml:"fields"`
}

// FieldDefinition declares one field binding. Fraction digits are
// optional; unset values fall back to the kind's defaults.
type FieldDefinition struct {
	UIID              string `yaml:"ui_id"`
	Kind              string `yaml:"kind"`
	MinFractionDigits *int32 `yaml:"min_fraction_digits,omitempty"`
	MaxFractionDigits *int32 `yaml:"max_fraction_digits,omitempty"`
}

// PageParser handles parsing of page binding definition files.
type PageParser struct{}

// NewPageParser creates a new page parser.
func NewPageParser() *PageParser {
	return &PageParser{}
}

// LoadFromFile loads a page definition from a YAML file.
func (pp *PageParser) LoadFromFile(filename string) (*PageDefinition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return pp.Parse(data)
}

// Parse parses and validates a YAML page definition.
func (pp *PageParser) Parse(data []byte) (*PageDefinition, error) {
	var def PageDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := pp.ValidateDefinition(&def); err != nil {
		return nil, fmt.Errorf("page definition validation failed: %w", err)
	}
	return &def, nil
}

// ValidateDefinition checks the loaded definition.
func (pp *PageParser) ValidateDefinition(def *PageDefinition) error {
	if len(def.Datasets) == 0 {
		return fmt.Errorf("no datasets defined")
	}
	for dsKey, ds := range def.Datasets {
		if len(ds.Fields) == 0 {
			return fmt.Errorf("dataset %q has no fields", dsKey)
		}
		for fKey, f := range ds.Fields {
			if f.UIID == "" {
				return fmt.Errorf("dataset %q field %q: ui_id is required", dsKey, fKey)
			}
			kind, err := format.ParseKind(f.Kind)
			if err != nil {
				return fmt.Errorf("dataset %q field %q: %w", dsKey, fKey, err)
			}
			if _, err := f.spec(kind); err != nil {
				return fmt.Errorf("dataset %q field %q: %w", dsKey, fKey, err)
			}
		}
	}
	return nil
}

// spec resolves the formatting spec for a field definition, applying the
// kind's defaults for unset fraction-digit bounds.
func (f FieldDefinition) spec(kind format.Kind) (format.Spec, error) {
	s := format.Default(kind)
	if f.MaxFractionDigits != nil {
		s.MaxFractionDigits = *f.MaxFractionDigits
		// A lone max below the default min narrows min with it, so a
		// currency field with max_fraction_digits: 0 stays valid.
		if f.MinFractionDigits == nil && s.MinFractionDigits > s.MaxFractionDigits {
			s.MinFractionDigits = s.MaxFractionDigits
		}
	}
	if f.MinFractionDigits != nil {
		s.MinFractionDigits = *f.MinFractionDigits
	}
	if s.MinFractionDigits < 0 {
		return format.Spec{}, fmt.Errorf("min_fraction_digits must not be negative")
	}
	if s.MaxFractionDigits < s.MinFractionDigits {
		return format.Spec{}, fmt.Errorf("max_fraction_digits %d below min_fraction_digits %d",
			s.MaxFractionDigits, s.MinFractionDigits)
	}
	return s, nil
}

// Structure converts a validated definition into the binding structure.
// Datasets and fields are emitted in sorted key order so initialization
// is deterministic regardless of YAML map iteration.
func (def *PageDefinition) Structure() (domain.Structure, error) {
	dsKeys := make([]string, 0, len(def.Datasets))
	for k := range def.Datasets {
		dsKeys = append(dsKeys, k)
	}
	sort.Strings(dsKeys)

	structure := make(domain.Structure, 0, len(dsKeys))
	for _, dsKey := range dsKeys {
		ds := def.Datasets[dsKey]
		fKeys := make([]string, 0, len(ds.Fields))
		for k := range ds.Fields {
			fKeys = append(fKeys, k)
		}
		sort.Strings(fKeys)

		entry := domain.Dataset{Source: dsKey}
		for _, fKey := range fKeys {
			f := ds.Fields[fKey]
			kind, err := format.ParseKind(f.Kind)
			if err != nil {
				return nil, fmt.Errorf("dataset %q field %q: %w", dsKey, fKey, err)
			}
			spec, err := f.spec(kind)
			if err != nil {
				return nil, fmt.Errorf("dataset %q field %q: %w", dsKey, fKey, err)
			}
			entry.Fields = append(entry.Fields, domain.Field{
				RecordKey: fKey,
				ElementID: f.UIID,
				Format:    spec,
			})
		}
		structure = append(structure, entry)
	}
	return structure, nil
}
