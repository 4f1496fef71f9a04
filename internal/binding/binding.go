// Package binding wires formatted record-source fields to the text
// inputs of a page. A Session is built once per page, takes ownership of
// the binding structure at Init, and from then on only reacts to host
// events: user edits flow parsed values into the record source, source
// ready events flow formatted values into the UI.
package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/formbind/formbind/internal/domain"
	"github.com/formbind/formbind/internal/host"
)

var (
	// ErrAlreadyInitialized is returned by a second Init call.
	ErrAlreadyInitialized = errors.New("session already initialized")
	// ErrUnknownSource means a structure names a record source the page
	// cannot resolve.
	ErrUnknownSource = errors.New("record source not found on page")
	// ErrUnknownElement means a field names a UI element the page cannot
	// resolve.
	ErrUnknownElement = errors.New("ui element not found on page")
	// ErrSourceNotRegistered means a load or refresh named a record
	// source the session was never initialized with.
	ErrSourceNotRegistered = errors.New("record source not registered")
	// ErrFieldNotRegistered means a field lookup named a record field the
	// session was never initialized with.
	ErrFieldNotRegistered = errors.New("field not registered")
)

// Session binds one page's record sources to its UI elements.
type Session struct {
	page        host.Page
	log         Logger
	datasets    map[string]*boundDataset
	initialized bool
}

type boundDataset struct {
	key    string
	source host.RecordSource
	fields []*boundField
}

type boundField struct {
	def     domain.Field
	element host.Element
}

// Option configures a Session at construction.
type Option func(*Session)

// WithLogger replaces the default no-op logger.
func WithLogger(log Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns an uninitialized Session for the given page. Nothing is
// usable until Init runs.
func New(page host.Page, opts ...Option) *Session {
	s := &Session{
		page:     page,
		log:      NopLogger{},
		datasets: make(map[string]*boundDataset),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init stores the binding structure and attaches the listeners: one
// change listener per field element, one ready listener per record
// source. It resolves every identifier against the page up front and
// fails with a wrapped ErrUnknownSource/ErrUnknownElement instead of
// letting a later callback blow up on a missing collaborator. Init may
// run once per session.
func (s *Session) Init(structure domain.Structure) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}

	// Resolve everything before attaching anything, so a bad structure
	// leaves no listeners behind.
	bound := make([]*boundDataset, 0, len(structure))
	for _, ds := range structure {
		source, ok := s.page.RecordSource(ds.Source)
		if !ok {
			return fmt.Errorf("init dataset %q: %w", ds.Source, ErrUnknownSource)
		}
		bd := &boundDataset{key: ds.Source, source: source}
		for _, f := range ds.Fields {
			element, ok := s.page.Element(f.ElementID)
			if !ok {
				return fmt.Errorf("init dataset %q field %q (element %q): %w",
					ds.Source, f.RecordKey, f.ElementID, ErrUnknownElement)
			}
			bd.fields = append(bd.fields, &boundField{def: f, element: element})
		}
		bound = append(bound, bd)
	}

	for _, bd := range bound {
		bd := bd
		s.datasets[bd.key] = bd
		for _, bf := range bd.fields {
			bf := bf
			bf.element.OnChange(func(ev host.ChangeEvent) {
				s.handleFieldEdited(bd, bf, ev.Value)
			})
		}
		bd.source.OnReady(func() {
			s.log.Debugf("record source %q ready", bd.key)
			s.loadDataset(bd)
		})
	}

	s.initialized = true
	s.log.Infof("binding session initialized: %d record source(s)", len(s.datasets))
	return nil
}

// handleFieldEdited is the edit path: parse the typed text, push the
// parsed value into the record source, then re-render the element so the
// display always shows the canonical formatted form, not the raw input.
func (s *Session) handleFieldEdited(bd *boundDataset, bf *boundField, raw string) {
	parsed := bf.def.Format.Read(raw)
	if parsed.Valid {
		bd.source.SetFieldValue(bf.def.RecordKey, parsed.Decimal)
	} else {
		s.log.Debugf("dataset %q field %q: unparseable input %q, storing null",
			bd.key, bf.def.RecordKey, raw)
		bd.source.SetFieldValue(bf.def.RecordKey, nil)
	}
	text, _ := bf.def.Format.Format(parsed)
	bf.element.SetValue(text)
}

// loadDataset is the load path: read the current record and render every
// registered field of the source into its element.
func (s *Session) loadDataset(bd *boundDataset) {
	record := bd.source.CurrentItem()
	for _, bf := range bd.fields {
		text, ok := bf.def.Format.FormatValue(record[bf.def.RecordKey])
		if !ok {
			s.log.Debugf("dataset %q field %q: no displayable value", bd.key, bf.def.RecordKey)
		}
		bf.element.SetValue(text)
	}
}

// LoadDataset renders the named record source's current record into the
// UI. An unregistered key mutates nothing and reports
// ErrSourceNotRegistered; callers treating it as a no-op can ignore the
// error.
func (s *Session) LoadDataset(key string) error {
	bd, ok := s.datasets[key]
	if !ok {
		s.log.Warnf("load of unregistered record source %q skipped", key)
		return fmt.Errorf("load dataset %q: %w", key, ErrSourceNotRegistered)
	}
	s.loadDataset(bd)
	return nil
}

// RefreshDataset asks the host to refetch the named source's record and
// then reloads the dataset into the UI. The reload runs strictly after
// Refresh returns, so it always observes the post-refresh record. Exists
// because the host's native refresh does not notify this session.
func (s *Session) RefreshDataset(ctx context.Context, key string) error {
	bd, ok := s.datasets[key]
	if !ok {
		return fmt.Errorf("refresh dataset %q: %w", key, ErrSourceNotRegistered)
	}
	if err := bd.source.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh dataset %q: %w", key, err)
	}
	s.loadDataset(bd)
	return nil
}

// Field returns the binding definition for a registered (source, field)
// pair.
func (s *Session) Field(sourceKey, recordKey string) (domain.Field, error) {
	bd, ok := s.datasets[sourceKey]
	if !ok {
		return domain.Field{}, fmt.Errorf("dataset %q: %w", sourceKey, ErrSourceNotRegistered)
	}
	for _, bf := range bd.fields {
		if bf.def.RecordKey == recordKey {
			return bf.def, nil
		}
	}
	return domain.Field{}, fmt.Errorf("dataset %q field %q: %w", sourceKey, recordKey, ErrFieldNotRegistered)
}

// Datasets lists the registered record-source keys.
func (s *Session) Datasets() []string {
	keys := make([]string, 0, len(s.datasets))
	for k := range s.datasets {
		keys = append(keys, k)
	}
	return keys
}
