// Package plot describes what a plot shows (Spec), turns it into the data a
// visualization needs (Prepared) and renders it onto a Surface.
package plot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iafilius/Visualizer/src/dataset"
)

// Kind is the closed set of supported plot kinds.
type Kind int

const (
	KindXY Kind = iota
	KindBar
)

// Kinds lists every plot kind in menu order.
var Kinds = []Kind{KindXY, KindBar}

func (k Kind) String() string {
	switch k {
	case KindXY:
		return "xy"
	case KindBar:
		return "bar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DisplayName is the label used in the plot type dialog.
func (k Kind) DisplayName() string {
	switch k {
	case KindXY:
		return "Timeseries/Scatter Plot"
	case KindBar:
		return "Bar Plot"
	default:
		return k.String()
	}
}

// ParseKind accepts "xy", "scatter", "timeseries" and "bar".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xy", "scatter", "timeseries":
		return KindXY, nil
	case "bar":
		return KindBar, nil
	}
	return 0, fmt.Errorf("%w %q (want xy or bar)", ErrUnknownKind, s)
}

var (
	ErrNoDataset     = errors.New("missing dataset")
	ErrUnknownColumn = errors.New("column not found")
	ErrNotNumeric    = errors.New("column is not numeric")
	ErrUnknownKind   = errors.New("unknown plot kind")
)

// Spec captures everything needed to reproduce a plot. It is a value: the
// dataset is shared by reference, column names are copied.
type Spec struct {
	Dataset *dataset.Dataset
	Kind    Kind

	// KindXY
	X, Y string
	// KindBar
	Label, Value string
}

func NewXY(ds *dataset.Dataset, x, y string) Spec {
	return Spec{Dataset: ds, Kind: KindXY, X: x, Y: y}
}

func NewBar(ds *dataset.Dataset, label, value string) Spec {
	return Spec{Dataset: ds, Kind: KindBar, Label: label, Value: value}
}

// Columns returns the selected columns in role order (x, y or label, value).
func (s Spec) Columns() []string {
	switch s.Kind {
	case KindXY:
		return []string{s.X, s.Y}
	case KindBar:
		return []string{s.Label, s.Value}
	}
	return nil
}

// Title is the chart title the spec renders with.
func (s Spec) Title() string {
	switch s.Kind {
	case KindXY:
		return xyTitle(s.X, s.Y)
	case KindBar:
		return barTitle(s.Label, s.Value)
	}
	return ""
}

func (s Spec) String() string {
	name := "<no dataset>"
	if s.Dataset != nil {
		name = s.Dataset.Name()
	}
	return fmt.Sprintf("%s [%s] (%s)", s.Title(), s.Kind, name)
}

// Equal reports whether both specs reproduce the same plot.
func (s Spec) Equal(o Spec) bool {
	return s.Dataset == o.Dataset && s.Kind == o.Kind &&
		s.X == o.X && s.Y == o.Y && s.Label == o.Label && s.Value == o.Value
}

// Validate checks that the columns exist and satisfy the kind's numeric rule:
// XY needs both columns numeric, Bar needs a numeric value column.
func (s Spec) Validate() error {
	if s.Dataset == nil {
		return ErrNoDataset
	}
	var numeric []string
	switch s.Kind {
	case KindXY:
		numeric = []string{s.X, s.Y}
	case KindBar:
		numeric = []string{s.Value}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(s.Kind))
	}
	for _, c := range s.Columns() {
		if c == "" || !s.Dataset.Has(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}
	for _, c := range numeric {
		if !s.Dataset.IsNumeric(c) {
			return fmt.Errorf("%w: %q", ErrNotNumeric, c)
		}
	}
	return nil
}

// Prepared is the data shape a visualization strategy consumes.
type Prepared interface {
	Kind() Kind
	Title() string
	Len() int
}

// XYData feeds the scatter strategy.
type XYData struct {
	X, Y           []float64
	XLabel, YLabel string
}

func (XYData) Kind() Kind        { return KindXY }
func (d XYData) Title() string   { return xyTitle(d.XLabel, d.YLabel) }
func (d XYData) Len() int        { return len(d.X) }
func xyTitle(x, y string) string { return y + " vs " + x }

// BarData feeds the bar strategy. Labels keep input order.
type BarData struct {
	Labels                     []string
	Values                     []float64
	LabelHeading, ValueHeading string
}

func (BarData) Kind() Kind                 { return KindBar }
func (d BarData) Title() string            { return barTitle(d.LabelHeading, d.ValueHeading) }
func (d BarData) Len() int                 { return len(d.Labels) }
func barTitle(label, value string) string { return value + " by " + label }

// Prepare validates the spec and extracts the columns it names. XY rows with
// a missing coordinate are dropped; a missing bar value draws as zero height.
func (s Spec) Prepare() (Prepared, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Kind {
	case KindXY:
		xs, _ := s.Dataset.Numeric(s.X)
		ys, _ := s.Dataset.Numeric(s.Y)
		d := XYData{XLabel: s.X, YLabel: s.Y, X: make([]float64, 0, len(xs)), Y: make([]float64, 0, len(ys))}
		for i := range xs {
			if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				continue
			}
			d.X = append(d.X, xs[i])
			d.Y = append(d.Y, ys[i])
		}
		return d, nil
	default:
		labels, _ := s.Dataset.Text(s.Label)
		vals, _ := s.Dataset.Numeric(s.Value)
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = 0
			}
		}
		return BarData{Labels: labels, Values: vals, LabelHeading: s.Label, ValueHeading: s.Value}, nil
	}
}
