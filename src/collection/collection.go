// Package collection keeps the ordered set of plot panels shown on the
// canvas, along with the LIFO history that lets deleted panels be restored.
//
// Panels are never mutated here; every state change is an insert or a
// removal, and restoring or duplicating a panel rebuilds it from its creation
// spec. A failed rebuild leaves the collection exactly as it was.
package collection

import (
	"github.com/google/uuid"

	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/panel"
	"github.com/iafilius/Visualizer/src/plot"
)

// Builder turns a spec into a rendered panel.
type Builder func(spec plot.Spec) (*panel.Panel, error)

// Listener is told about every change so a view can mirror the collection.
type Listener interface {
	PanelInserted(index int, p *panel.Panel)
	PanelRemoved(index int, p *panel.Panel)
	UndoAvailable(available bool)
}

type nopListener struct{}

func (nopListener) PanelInserted(int, *panel.Panel) {}
func (nopListener) PanelRemoved(int, *panel.Panel)  {}
func (nopListener) UndoAvailable(bool)              {}

// Deleted is one undo history entry.
type Deleted struct {
	Spec  plot.Spec
	Index int
	Kind  plot.Kind
}

// Manager owns the active panels and the delete history.
type Manager struct {
	panels  []*panel.Panel
	history []Deleted
	limit   int

	build    Builder
	notifier panel.Notifier
	listener Listener
}

type Option func(*Manager)

// WithBuilder replaces the default panel.New based builder.
func WithBuilder(b Builder) Option {
	return func(m *Manager) {
		if b != nil {
			m.build = b
		}
	}
}

// WithNotifier sets where reconstruction failures are reported.
func WithNotifier(n panel.Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

func WithListener(l Listener) Option {
	return func(m *Manager) {
		if l != nil {
			m.listener = l
		}
	}
}

// WithHistoryLimit bounds the undo history; the oldest entries are purged
// first. Zero keeps everything.
func WithHistoryLimit(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.limit = n
		}
	}
}

func New(opts ...Option) *Manager {
	m := &Manager{listener: nopListener{}}
	m.notifier = panel.NotifierFunc(func(title string, err error) {
		logging.Errorf("%s: %v", title, err)
	})
	for _, fn := range opts {
		fn(m)
	}
	if m.build == nil {
		n := m.notifier
		m.build = func(spec plot.Spec) (*panel.Panel, error) {
			return panel.New(spec, panel.WithNotifier(n))
		}
	}
	return m
}

// Panels returns the active panels in display order.
func (m *Manager) Panels() []*panel.Panel {
	out := make([]*panel.Panel, len(m.panels))
	copy(out, m.panels)
	return out
}

func (m *Manager) Len() int { return len(m.panels) }

// Index returns the display index of a panel, or -1.
func (m *Manager) Index(id uuid.UUID) int {
	for i, p := range m.panels {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

func (m *Manager) CanUndo() bool { return len(m.history) > 0 }

func (m *Manager) HistoryLen() int { return len(m.history) }

// History returns the undo entries, oldest first.
func (m *Manager) History() []Deleted {
	out := make([]Deleted, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Manager) insert(index int, p *panel.Panel) {
	if index < 0 {
		index = 0
	}
	if index > len(m.panels) {
		index = len(m.panels)
	}
	m.panels = append(m.panels, nil)
	copy(m.panels[index+1:], m.panels[index:])
	m.panels[index] = p
	m.listener.PanelInserted(index, p)
}

// Add appends p at the end of the display order.
func (m *Manager) Add(p *panel.Panel) {
	if p == nil {
		return
	}
	m.insert(len(m.panels), p)
	logging.Infof("added plot %q at index %d", p.Title(), len(m.panels)-1)
}

// Create builds a panel from spec and appends it. Build failures are
// reported and returned; nothing is added.
func (m *Manager) Create(spec plot.Spec) (*panel.Panel, error) {
	p, err := m.build(spec)
	if err != nil {
		m.notifier.Notify("Plot Creation Error", err)
		return nil, err
	}
	m.Add(p)
	return p, nil
}

// Remove takes the panel off the display and records its spec and index for
// UndoDelete. Unknown panels are ignored. panel.New rejects specs without a
// dataset, so every recorded spec can be replayed.
func (m *Manager) Remove(id uuid.UUID) bool {
	idx := m.Index(id)
	if idx < 0 {
		return false
	}
	p := m.panels[idx]
	spec := p.Spec()
	m.push(Deleted{Spec: spec, Index: idx, Kind: spec.Kind})
	m.panels = append(m.panels[:idx], m.panels[idx+1:]...)
	m.listener.PanelRemoved(idx, p)
	m.listener.UndoAvailable(true)
	logging.Infof("removed plot %q from index %d (history=%d)", p.Title(), idx, len(m.history))
	return true
}

func (m *Manager) push(d Deleted) {
	m.history = append(m.history, d)
	if m.limit > 0 && len(m.history) > m.limit {
		purged := len(m.history) - m.limit
		logging.Debugf("purging %d oldest undo entries", purged)
		m.history = append([]Deleted(nil), m.history[purged:]...)
	}
}

// Duplicate rebuilds the panel from its spec and inserts the copy right
// after the original.
func (m *Manager) Duplicate(id uuid.UUID) (*panel.Panel, error) {
	idx := m.Index(id)
	if idx < 0 {
		return nil, nil
	}
	spec := m.panels[idx].Spec()
	p, err := m.build(spec)
	if err != nil {
		m.notifier.Notify("Plot Duplication Error", err)
		return nil, err
	}
	m.insert(idx+1, p)
	logging.Infof("duplicated plot %q to index %d", p.Title(), idx+1)
	return p, nil
}

// UndoDelete restores the most recently deleted panel at its recorded index,
// clamped to the current length. If rebuilding fails the entry goes back on
// the history so the user can retry.
func (m *Manager) UndoDelete() (*panel.Panel, error) {
	if len(m.history) == 0 {
		return nil, nil
	}
	last := len(m.history) - 1
	d := m.history[last]
	m.history = m.history[:last]
	p, err := m.build(d.Spec)
	if err != nil {
		m.history = append(m.history, d)
		m.notifier.Notify("Plot Recreation Error", err)
		return nil, err
	}
	m.insert(d.Index, p)
	if len(m.history) == 0 {
		m.listener.UndoAvailable(false)
	}
	logging.Infof("restored plot %q at index %d", p.Title(), m.Index(p.ID()))
	return p, nil
}

// Clear drops every panel and the history.
func (m *Manager) Clear() {
	for i := len(m.panels) - 1; i >= 0; i-- {
		p := m.panels[i]
		m.panels = m.panels[:i]
		m.listener.PanelRemoved(i, p)
	}
	if len(m.history) > 0 {
		m.history = nil
		m.listener.UndoAvailable(false)
	}
}
