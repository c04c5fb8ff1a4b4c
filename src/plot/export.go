package plot

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ExportFormats are the file formats Export understands.
var ExportFormats = []string{"svg", "pdf", "png", "eps"}

// FormatFromPath derives the export format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range ExportFormats {
		if ext == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q (want one of %s)", ext, strings.Join(ExportFormats, ", "))
}

// Export writes p as a standalone figure in the given format. Sizes are in
// points.
func Export(w io.Writer, p Prepared, format string, width, height vg.Length) error {
	pl, err := vectorPlot(p)
	if err != nil {
		return err
	}
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return &RenderError{Title: p.Title(), Err: err}
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// vectorPlot builds the gonum/plot figure matching the on-screen strategy for
// p's kind.
func vectorPlot(p Prepared) (*gplot.Plot, error) {
	if p == nil {
		return nil, &RenderError{Err: errEmpty}
	}
	if p.Len() == 0 {
		return nil, &RenderError{Title: p.Title(), Err: errEmpty}
	}
	pl := gplot.New()
	pl.Title.Text = p.Title()
	switch d := p.(type) {
	case XYData:
		if len(d.X) != len(d.Y) {
			return nil, &RenderError{Title: d.Title(), Err: errLengthMismatch}
		}
		pts := make(plotter.XYs, len(d.X))
		for i := range d.X {
			pts[i] = plotter.XY{X: d.X[i], Y: d.Y[i]}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, &RenderError{Title: d.Title(), Err: err}
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2.5)
		pl.X.Label.Text = d.XLabel
		pl.Y.Label.Text = d.YLabel
		pl.Add(plotter.NewGrid(), sc)
	case BarData:
		if len(d.Labels) != len(d.Values) {
			return nil, &RenderError{Title: d.Title(), Err: errLengthMismatch}
		}
		bars, err := plotter.NewBarChart(plotter.Values(d.Values), vg.Points(14))
		if err != nil {
			return nil, &RenderError{Title: d.Title(), Err: err}
		}
		bars.LineStyle.Width = vg.Length(0)
		pl.Add(bars)
		pl.NominalX(d.Labels...)
		pl.X.Label.Text = d.LabelHeading
		pl.Y.Label.Text = d.ValueHeading
		pl.X.Tick.Label.Rotation = BarLabelRotation * math.Pi / 180
		pl.X.Tick.Label.XAlign = draw.XRight
		pl.X.Tick.Label.YAlign = draw.YCenter
	default:
		return nil, &RenderError{Title: p.Title(), Err: ErrUnknownKind}
	}
	return pl, nil
}
