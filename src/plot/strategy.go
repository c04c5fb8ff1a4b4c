package plot

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// BarLabelRotation is the rotation applied to bar chart category labels.
const BarLabelRotation = 45.0

// RenderError reports a strategy that could not draw its data.
type RenderError struct {
	Title string
	Err   error
}

func (e *RenderError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("error rendering plot: %v", e.Err)
	}
	return fmt.Sprintf("error rendering plot %q: %v", e.Title, e.Err)
}
func (e *RenderError) Unwrap() error { return e.Err }

var (
	errEmpty          = errors.New("no data points to plot")
	errLengthMismatch = errors.New("data columns differ in length")
	errNonFinite      = errors.New("data contains non-finite values")
)

type strategy func(s *Surface, p Prepared) error

// strategies maps every Kind to its renderer.
var strategies = map[Kind]strategy{
	KindXY:  renderXY,
	KindBar: renderBar,
}

// Render clears the surface and draws p with the strategy for its kind. Any
// failure, including a panic inside the chart library, comes back as a
// *RenderError.
func Render(s *Surface, p Prepared) (err error) {
	if p == nil {
		return &RenderError{Err: errEmpty}
	}
	st, ok := strategies[p.Kind()]
	if !ok {
		return &RenderError{Title: p.Title(), Err: ErrUnknownKind}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Title: p.Title(), Err: fmt.Errorf("chart library panic: %v", r)}
		}
	}()
	s.Clear()
	if err := st(s, p); err != nil {
		return &RenderError{Title: p.Title(), Err: err}
	}
	return nil
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func finiteBounds(vs []float64) (float64, float64, error) {
	if len(vs) == 0 {
		return 0, 0, errEmpty
	}
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, errNonFinite
		}
	}
	return floats.Min(vs), floats.Max(vs), nil
}

// xyChart builds the scatter chart for d at the given size.
func xyChart(d XYData, w, h int) (chart.Chart, error) {
	if len(d.X) != len(d.Y) {
		return chart.Chart{}, errLengthMismatch
	}
	xMin, xMax, err := finiteBounds(d.X)
	if err != nil {
		return chart.Chart{}, err
	}
	yMin, yMax, err := finiteBounds(d.Y)
	if err != nil {
		return chart.Chart{}, err
	}
	x0, x1 := niceAxisBounds(xMin, xMax)
	y0, y1 := niceAxisBounds(yMin, yMax)
	ch := chart.Chart{
		Title:      d.Title(),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  d.XLabel,
			Range: &chart.ContinuousRange{Min: x0, Max: x1},
			Ticks: niceTicks(x0, x1, 8),
		},
		YAxis: chart.YAxis{
			Name:  d.YLabel,
			Range: &chart.ContinuousRange{Min: y0, Max: y1},
			Ticks: niceTicks(y0, y1, 6),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: d.YLabel, XValues: d.X, YValues: d.Y, Style: pointStyle(chart.ColorBlue)},
		},
	}
	return ch, nil
}

// noData draws the placeholder for a valid plot that has nothing to show,
// e.g. every pair was dropped for a missing value.
func noData(s *Surface, title string) error {
	s.Message(title + ": no data points")
	return nil
}

func renderXY(s *Surface, p Prepared) error {
	d, ok := p.(XYData)
	if !ok {
		return fmt.Errorf("xy strategy got %T", p)
	}
	if len(d.X) == 0 && len(d.Y) == 0 {
		return noData(s, d.Title())
	}
	w, h := s.Size()
	ch, err := xyChart(d, w, h)
	if err != nil {
		return err
	}
	return s.drawPNG(func(out io.Writer) error { return ch.Render(chart.PNG, out) })
}

// barChart builds one bar per label in input order with rotated labels and a
// zero baseline.
func barChart(d BarData, w, h int) (chart.BarChart, error) {
	if len(d.Labels) != len(d.Values) {
		return chart.BarChart{}, errLengthMismatch
	}
	vMin, vMax, err := finiteBounds(d.Values)
	if err != nil {
		return chart.BarChart{}, err
	}
	y0, y1 := niceAxisBounds(math.Min(0, vMin), math.Max(0, vMax))
	if vMin >= 0 {
		y0 = 0
	}
	if vMax <= 0 {
		y1 = 0
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	longest := 0
	bars := make([]chart.Value, len(d.Labels))
	for i, l := range d.Labels {
		bars[i] = chart.Value{Label: l, Value: d.Values[i]}
		if len(l) > longest {
			longest = len(l)
		}
	}
	// rotated labels need room below the plot area
	bottom := 24 + int(float64(longest)*7*math.Sin(BarLabelRotation*math.Pi/180))
	if bottom > h/2 {
		bottom = h / 2
	}
	slot := (w - 120) / len(bars)
	if slot < 2 {
		slot = 2
	}
	barWidth := slot * 3 / 4
	if barWidth > 60 {
		barWidth = 60
	}
	bc := chart.BarChart{
		Title:      d.Title(),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: bottom}},
		BarWidth:   barWidth,
		BarSpacing: slot - barWidth,
		XAxis:      chart.Style{TextRotationDegrees: BarLabelRotation},
		YAxis: chart.YAxis{
			Name:  d.ValueHeading,
			Range: &chart.ContinuousRange{Min: y0, Max: y1},
			Ticks: niceTicks(y0, y1, 6),
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	bc.Elements = []chart.Renderable{axisCaption(d.LabelHeading, w, h)}
	return bc, nil
}

// axisCaption writes the x axis heading centered along the bottom edge;
// BarChart has no axis name of its own.
func axisCaption(text string, w, h int) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		st := chart.Style{FontSize: 10, FontColor: chart.ColorBlack}.InheritFrom(defaults)
		st.WriteTextOptionsToRenderer(r)
		tb := r.MeasureText(text)
		r.Text(text, (w-tb.Width())/2, h-6)
	}
}

func renderBar(s *Surface, p Prepared) error {
	d, ok := p.(BarData)
	if !ok {
		return fmt.Errorf("bar strategy got %T", p)
	}
	if len(d.Labels) == 0 && len(d.Values) == 0 {
		return noData(s, d.Title())
	}
	w, h := s.Size()
	bc, err := barChart(d, w, h)
	if err != nil {
		return err
	}
	return s.drawPNG(func(out io.Writer) error { return bc.Render(chart.PNG, out) })
}
