package panel

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/iafilius/Visualizer/src/dataset"
	"github.com/iafilius/Visualizer/src/plot"
)

type recordingNotifier struct {
	titles []string
	errs   []error
}

func (r *recordingNotifier) Notify(title string, err error) {
	r.titles = append(r.titles, title)
	r.errs = append(r.errs, err)
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read("sales.csv", strings.NewReader("time,value,category\n1,10,a\n2,12,b\n3,9,c\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return ds
}

func TestNew_SnapshotsSpecAndRenders(t *testing.T) {
	ds := testDataset(t)
	spec := plot.NewXY(ds, "time", "value")
	p, err := New(spec, WithSize(500, 250))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !p.Spec().Equal(spec) || p.Kind() != plot.KindXY {
		t.Fatalf("spec not captured: %v", p.Spec())
	}
	if p.Title() != "value vs time" {
		t.Fatalf("title = %q", p.Title())
	}
	if b := p.Image().Bounds(); b.Dx() != 500 || b.Dy() != 250 {
		t.Fatalf("image bounds %v", b)
	}
}

func TestNew_FreshIdentity(t *testing.T) {
	ds := testDataset(t)
	spec := plot.NewBar(ds, "category", "value")
	a, err := New(spec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := New(a.Spec())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids")
	}
	if !a.Spec().Equal(b.Spec()) {
		t.Fatalf("replayed spec differs")
	}
}

func TestNew_MissingDatasetIsReconstructionError(t *testing.T) {
	_, err := New(plot.NewXY(nil, "time", "value"))
	var re *ReconstructionError
	if !errors.As(err, &re) || !errors.Is(err, plot.ErrNoDataset) {
		t.Fatalf("expected ReconstructionError wrapping ErrNoDataset, got %v", err)
	}
}

func TestNew_InvalidColumns(t *testing.T) {
	ds := testDataset(t)
	_, err := New(plot.NewXY(ds, "time", "category"))
	if !errors.Is(err, plot.ErrNotNumeric) {
		t.Fatalf("expected ErrNotNumeric, got %v", err)
	}
}

func TestRedraw_FailureKeepsLastGoodImage(t *testing.T) {
	ds := testDataset(t)
	n := &recordingNotifier{}
	p, err := New(plot.NewXY(ds, "time", "value"), WithNotifier(n))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	good := p.Image()
	goodData := p.Prepared()
	err = p.Redraw(plot.XYData{X: []float64{1, 2}, Y: []float64{1}})
	var re *plot.RenderError
	if !errors.As(err, &re) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if p.Image() != good {
		t.Fatalf("image changed after failed redraw")
	}
	if p.Prepared().Title() != goodData.Title() {
		t.Fatalf("prepared data replaced after failure")
	}
	if len(n.titles) != 1 || n.titles[0] != "Plotting Error" {
		t.Fatalf("notifications = %v", n.titles)
	}
}

func TestRedraw_Success(t *testing.T) {
	ds := testDataset(t)
	p, err := New(plot.NewXY(ds, "time", "value"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	next := plot.XYData{X: []float64{1, 2, 3}, Y: []float64{3, 2, 1}, XLabel: "a", YLabel: "b"}
	if err := p.Redraw(next); err != nil {
		t.Fatalf("redraw: %v", err)
	}
	if p.Prepared().Title() != "b vs a" {
		t.Fatalf("prepared not updated")
	}
}

func TestResize(t *testing.T) {
	ds := testDataset(t)
	p, err := New(plot.NewBar(ds, "category", "value"), WithSize(400, 200))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Resize(700, 260); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if w, h := p.Size(); w != 700 || h != 260 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if b := p.Image().Bounds(); b.Dx() != 700 {
		t.Fatalf("image not re-rendered at new width: %v", b)
	}
}

func TestResize_FailureShowsMessageAndRetries(t *testing.T) {
	ds := testDataset(t)
	n := &recordingNotifier{}
	p, err := New(plot.NewXY(ds, "time", "value"), WithSize(400, 200), WithNotifier(n))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	good := p.prepared
	p.prepared = plot.XYData{X: []float64{1, 2}, Y: []float64{1}}
	if err := p.Resize(600, 240); err == nil {
		t.Fatalf("expected resize to fail")
	}
	if b := p.Image().Bounds(); b.Dx() != 600 || b.Dy() != 240 {
		t.Fatalf("error image %v does not match surface size", b)
	}
	if !inked(p.Image()) {
		t.Fatalf("error message not drawn")
	}
	if len(n.titles) != 1 || n.titles[0] != "Plotting Error" {
		t.Fatalf("notifications = %v", n.titles)
	}

	p.prepared = good
	before := p.Image()
	if err := p.Resize(600, 240); err != nil {
		t.Fatalf("retry at same size: %v", err)
	}
	if p.Image() == before {
		t.Fatalf("same-size resize after failure did not re-render")
	}
	again := p.Image()
	if err := p.Resize(600, 240); err != nil || p.Image() != again {
		t.Fatalf("same-size resize after success should be a no-op")
	}
}

func TestNew_AllMissingColumnDrawsPlaceholder(t *testing.T) {
	ds, err := dataset.Read("gaps.csv", strings.NewReader("a,blank\n1,\n2,\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	p, err := New(plot.NewXY(ds, "a", "blank"), WithSize(300, 150))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !inked(p.Image()) {
		t.Fatalf("placeholder not drawn")
	}
}

func inked(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || bl != 0xffff {
				return true
			}
		}
	}
	return false
}
