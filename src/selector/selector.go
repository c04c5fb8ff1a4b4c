// Package selector tracks which dataset and columns feed a plot that is being
// configured, and whether that choice can be plotted.
package selector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iafilius/Visualizer/src/dataset"
	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/plot"
)

// ErrSelectionInvalid is returned by Spec while the selection is incomplete
// or has the wrong column kinds. It is a "not ready" state, not a failure.
var ErrSelectionInvalid = errors.New("selection is not plottable")

// Role is the part a column plays in a plot.
type Role int

const (
	RoleX Role = iota
	RoleY
	RoleLabel
	RoleValue
)

func (r Role) String() string {
	switch r {
	case RoleX:
		return "X"
	case RoleY:
		return "Y"
	case RoleLabel:
		return "Label"
	case RoleValue:
		return "Value"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Prompt is the caption shown above the role's column picker.
func (r Role) Prompt() string {
	switch r {
	case RoleX:
		return "Select X Column:"
	case RoleY:
		return "Select Y Column:"
	case RoleLabel:
		return "Select Label Column:"
	case RoleValue:
		return "Select Value Column (Numeric):"
	}
	return r.String()
}

// RolesFor returns the roles a plot kind needs, in display order.
func RolesFor(k plot.Kind) []Role {
	if k == plot.KindBar {
		return []Role{RoleLabel, RoleValue}
	}
	return []Role{RoleX, RoleY}
}

// Loader loads a dataset from a path.
type Loader func(path string) (*dataset.Dataset, error)

// Selector is the column choice for one plot kind.
type Selector struct {
	kind     plot.Kind
	ds       *dataset.Dataset
	selected map[Role]string
	valid    bool

	load       Loader
	onValidity func(bool)
}

type Option func(*Selector)

// WithLoader replaces dataset.Load.
func WithLoader(l Loader) Option {
	return func(s *Selector) {
		if l != nil {
			s.load = l
		}
	}
}

// OnValidity registers the callback run after every state change with the
// current validity.
func OnValidity(fn func(valid bool)) Option {
	return func(s *Selector) { s.onValidity = fn }
}

func New(kind plot.Kind, opts ...Option) *Selector {
	s := &Selector{kind: kind, selected: map[Role]string{}, load: dataset.Load}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

func (s *Selector) Kind() plot.Kind { return s.kind }

func (s *Selector) Roles() []Role { return RolesFor(s.kind) }

// Dataset returns the loaded dataset or nil.
func (s *Selector) Dataset() *dataset.Dataset { return s.ds }

// Columns lists the loaded dataset's columns, nil before a load.
func (s *Selector) Columns() []string {
	if s.ds == nil {
		return nil
	}
	return s.ds.Columns()
}

// Selected returns the column chosen for role, "" when none.
func (s *Selector) Selected(role Role) string { return s.selected[role] }

// Load replaces the dataset and clears the column choice. On failure the
// selector is reset to its empty state and the *dataset.LoadError returned.
func (s *Selector) Load(path string) error {
	ds, err := s.load(path)
	if err != nil {
		logging.Warnf("load %s failed: %v", path, err)
		s.Reset()
		return err
	}
	logging.Infof("loaded %s: %d rows, %d columns", ds.Name(), ds.Len(), len(ds.Columns()))
	s.SetDataset(ds)
	return nil
}

// SetDataset installs an already loaded dataset and clears the selection.
func (s *Selector) SetDataset(ds *dataset.Dataset) {
	s.ds = ds
	s.selected = map[Role]string{}
	s.update()
}

// Reset drops dataset and selection.
func (s *Selector) Reset() {
	s.ds = nil
	s.selected = map[Role]string{}
	s.update()
}

// Select sets the column for role; an empty name clears it. Roles the kind
// does not use are ignored.
func (s *Selector) Select(role Role, name string) {
	known := false
	for _, r := range s.Roles() {
		if r == role {
			known = true
		}
	}
	if !known {
		return
	}
	if name == "" {
		delete(s.selected, role)
	} else {
		s.selected[role] = name
	}
	s.update()
}

func (s *Selector) update() {
	s.valid = s.check() == nil
	if s.onValidity != nil {
		s.onValidity(s.valid)
	}
}

// IsValid reports whether a dataset is loaded, every role is chosen and the
// numeric constraints of the kind hold.
func (s *Selector) IsValid() bool { return s.valid }

func (s *Selector) spec() plot.Spec {
	switch s.kind {
	case plot.KindBar:
		return plot.NewBar(s.ds, s.selected[RoleLabel], s.selected[RoleValue])
	default:
		return plot.NewXY(s.ds, s.selected[RoleX], s.selected[RoleY])
	}
}

func (s *Selector) check() error {
	if s.ds == nil {
		return plot.ErrNoDataset
	}
	for _, r := range s.Roles() {
		if s.selected[r] == "" {
			return fmt.Errorf("no %s column selected", r)
		}
	}
	return s.spec().Validate()
}

// Spec snapshots the current choice. It fails with ErrSelectionInvalid
// unless IsValid.
func (s *Selector) Spec() (plot.Spec, error) {
	if err := s.check(); err != nil {
		return plot.Spec{}, fmt.Errorf("%w: %v", ErrSelectionInvalid, err)
	}
	return s.spec(), nil
}

// Preview returns up to n rows of the loaded dataset once the selection is
// valid, nothing before that.
func (s *Selector) Preview(n int) (header []string, rows [][]string) {
	if s.ds == nil || !s.IsValid() {
		return nil, nil
	}
	return s.ds.Columns(), s.ds.Head(n)
}

func formatRange(r dataset.ColumnRange) (string, string) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return "nan", "nan"
	}
	return fmt.Sprintf("%.2f", r.Min), fmt.Sprintf("%.2f", r.Max)
}

// Describe summarizes the selection for the dialog's info line.
func (s *Selector) Describe() string {
	if s.ds == nil {
		return "Load CSV and select columns"
	}
	if s.kind == plot.KindBar {
		return s.describeBar()
	}
	return s.describeXY()
}

func (s *Selector) describeXY() string {
	x, y := s.selected[RoleX], s.selected[RoleY]
	if x == "" || y == "" {
		return "Select columns to view data range"
	}
	xr, xok := s.ds.Range(x)
	yr, yok := s.ds.Range(y)
	if xok && yok {
		xmin, xmax := formatRange(xr)
		ymin, ymax := formatRange(yr)
		return fmt.Sprintf("X Column (%s) Range: Min = %s, Max = %s Y Column (%s) Range: Min = %s, Max = %s",
			x, xmin, xmax, y, ymin, ymax)
	}
	var bad []string
	if !xok {
		bad = append(bad, x)
	}
	if !yok && y != x {
		bad = append(bad, y)
	}
	return fmt.Sprintf("Column(s) %s not numeric. Select numeric columns.", strings.Join(bad, ", "))
}

func (s *Selector) describeBar() string {
	label, value := s.selected[RoleLabel], s.selected[RoleValue]
	if label == "" || value == "" {
		return "Select Label and Value columns"
	}
	parts := []string{fmt.Sprintf("Label Col ('%s') selected.", label)}
	if r, ok := s.ds.Range(value); ok {
		lo, hi := formatRange(r)
		parts = append(parts, fmt.Sprintf("Value Col ('%s') Range: [%s, %s]", value, lo, hi))
	} else {
		parts = append(parts, fmt.Sprintf("Value Col ('%s') is NOT numeric. Select a numeric column.", value))
	}
	return strings.Join(parts, " ")
}
