// Package hosttest provides in-memory host collaborators for tests and
// the demo CLI. Callbacks run synchronously on the goroutine that fires
// them, which is how the single-threaded host runtime behaves too.
package hosttest

import (
	"context"

	"github.com/formbind/formbind/internal/host"
)

// FakeElement is an in-memory text input.
type FakeElement struct {
	ID       string
	value    string
	onChange []func(host.ChangeEvent)
}

func (e *FakeElement) Value() string                    { return e.value }
func (e *FakeElement) SetValue(v string)                { e.value = v }
func (e *FakeElement) OnChange(cb func(host.ChangeEvent)) { e.onChange = append(e.onChange, cb) }

// Edit simulates a user edit: the element takes the raw text, then every
// change listener fires with it.
func (e *FakeElement) Edit(raw string) {
	e.value = raw
	for _, cb := range e.onChange {
		cb(host.ChangeEvent{Value: raw})
	}
}

// FakeRecordSource is an in-memory record source holding one record.
type FakeRecordSource struct {
	Key     string
	record  host.Record
	onReady []func()

	// NextRecord, when set, replaces the current record on Refresh.
	NextRecord host.Record
	// RefreshErr, when set, is returned by Refresh before any swap.
	RefreshErr error

	Refreshed int
}

func (s *FakeRecordSource) CurrentItem() host.Record { return s.record }

func (s *FakeRecordSource) SetFieldValue(key string, value any) {
	if s.record == nil {
		s.record = host.Record{}
	}
	s.record[key] = value
}

func (s *FakeRecordSource) OnReady(cb func()) { s.onReady = append(s.onReady, cb) }

func (s *FakeRecordSource) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.RefreshErr != nil {
		return s.RefreshErr
	}
	if s.NextRecord != nil {
		s.record = s.NextRecord
		s.NextRecord = nil
	}
	s.Refreshed++
	return nil
}

// FireReady runs every registered ready listener, the way the host does
// once the source's initial load completes.
func (s *FakeRecordSource) FireReady() {
	for _, cb := range s.onReady {
		cb()
	}
}

// FakePage is an in-memory page holding elements and record sources.
type FakePage struct {
	elements map[string]*FakeElement
	sources  map[string]*FakeRecordSource
}

func NewFakePage() *FakePage {
	return &FakePage{
		elements: make(map[string]*FakeElement),
		sources:  make(map[string]*FakeRecordSource),
	}
}

// AddElement registers an empty text input under id.
func (p *FakePage) AddElement(id string) *FakeElement {
	e := &FakeElement{ID: id}
	p.elements[id] = e
	return e
}

// AddRecordSource registers a source holding rec as its current record.
func (p *FakePage) AddRecordSource(key string, rec host.Record) *FakeRecordSource {
	s := &FakeRecordSource{Key: key, record: rec}
	p.sources[key] = s
	return s
}

func (p *FakePage) Element(id string) (host.Element, bool) {
	e, ok := p.elements[id]
	return e, ok
}

func (p *FakePage) RecordSource(key string) (host.RecordSource, bool) {
	s, ok := p.sources[key]
	return s, ok
}

// GetElement returns the concrete fake for assertions.
func (p *FakePage) GetElement(id string) *FakeElement { return p.elements[id] }

// GetRecordSource returns the concrete fake for assertions.
func (p *FakePage) GetRecordSource(key string) *FakeRecordSource { return p.sources[key] }

// EditElement drives a user edit through the element's change listeners.
func (p *FakePage) EditElement(id, raw string) bool {
	e, ok := p.elements[id]
	if !ok {
		return false
	}
	e.Edit(raw)
	return true
}

// FireAllReady fires the ready event on every registered source.
func (p *FakePage) FireAllReady() {
	for _, s := range p.sources {
		s.FireReady()
	}
}
