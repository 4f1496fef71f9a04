// Package host declares the contracts of the platform collaborators the
// binding layer is glued to. The host runtime implements them; this
// module only consumes them (the in-memory versions under hosttest exist
// for tests and the demo CLI).
package host

import "context"

// ChangeEvent carries the element's text after a user edit.
type ChangeEvent struct {
	Value string
}

// Element is a text-input UI element.
type Element interface {
	Value() string
	SetValue(string)
	// OnChange registers a callback fired after every user edit.
	OnChange(func(ChangeEvent))
}

// Record is the currently bound data item of a record source, keyed by
// field name. Values are whatever the host stored, not yet formatted.
type Record = map[string]any

// RecordSource is the host's live-bound data collection for a page.
type RecordSource interface {
	CurrentItem() Record
	SetFieldValue(key string, value any)
	// OnReady registers a callback fired once the source has loaded.
	OnReady(func())
	// Refresh refetches the current record from the backend. It returns
	// only after the source's data reflects the refetch.
	Refresh(ctx context.Context) error
}

// Page resolves identifiers from the binding structure to the host's
// concrete collaborators.
type Page interface {
	Element(id string) (Element, bool)
	RecordSource(key string) (RecordSource, bool)
}
