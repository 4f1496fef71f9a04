// Package domain holds the binding structure a page hands to a session:
// which record-source fields exist, which UI element each one drives, and
// how each value is formatted.
package domain

import "github.com/formbind/formbind/internal/format"

// Field pairs one record field with one UI element and a formatting spec.
type Field struct {
	RecordKey string
	ElementID string
	Format    format.Spec
}

// Dataset names a record source and the fields bound on it.
type Dataset struct {
	Source string
	Fields []Field
}

// Structure is the full record-source to field-set mapping for a page,
// authored once at page initialization and never mutated afterwards.
type Structure []Dataset
