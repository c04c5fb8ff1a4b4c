// Package panel holds one rendered plot together with the spec it was
// created from.
package panel

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/plot"
)

// Notifier shows a blocking message to the user. The fyne window implements
// it with dialog.ShowError.
type Notifier interface {
	Notify(title string, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title string, err error)

func (f NotifierFunc) Notify(title string, err error) { f(title, err) }

type nopNotifier struct{}

func (nopNotifier) Notify(title string, err error) {
	logging.Warnf("%s: %v", title, err)
}

// ReconstructionError reports a spec that cannot be turned into a panel.
type ReconstructionError struct {
	Spec plot.Spec
	Err  error
}

func (e *ReconstructionError) Error() string {
	if errors.Is(e.Err, plot.ErrNoDataset) {
		return "missing dataset in stored plot parameters"
	}
	return fmt.Sprintf("cannot recreate plot %q: %v", e.Spec.Title(), e.Err)
}
func (e *ReconstructionError) Unwrap() error { return e.Err }

// Panel is one live plot: the creation spec, the prepared data and the
// surface it is drawn on.
type Panel struct {
	id       uuid.UUID
	spec     plot.Spec
	prepared plot.Prepared
	surface  *plot.Surface
	notifier Notifier
	failed   bool // surface shows the error message, not prepared
}

type options struct {
	width, height int
	notifier      Notifier
}

type Option func(*options)

// WithSize sets the initial surface size in pixels.
func WithSize(w, h int) Option {
	return func(o *options) { o.width, o.height = w, h }
}

// WithNotifier sets where redraw failures are reported.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// New snapshots spec, prepares its data and renders it. A spec that does not
// validate yields a *ReconstructionError, a failed first render a
// *plot.RenderError; in both cases no panel is returned.
func New(spec plot.Spec, opts ...Option) (*Panel, error) {
	o := options{width: plot.DefaultWidth, height: plot.DefaultHeight, notifier: nopNotifier{}}
	for _, fn := range opts {
		fn(&o)
	}
	prepared, err := spec.Prepare()
	if err != nil {
		return nil, &ReconstructionError{Spec: spec, Err: err}
	}
	p := &Panel{
		id:       uuid.New(),
		spec:     spec,
		prepared: prepared,
		surface:  plot.NewSurface(o.width, o.height),
		notifier: o.notifier,
	}
	if err := plot.Render(p.surface, prepared); err != nil {
		return nil, err
	}
	logging.Debugf("panel %s created: %s", p.id, spec)
	return p, nil
}

func (p *Panel) ID() uuid.UUID { return p.id }

// Spec returns the creation parameters. They stay valid for the panel's
// whole life and are what duplicate and undo replay.
func (p *Panel) Spec() plot.Spec { return p.spec }

func (p *Panel) Kind() plot.Kind { return p.spec.Kind }

func (p *Panel) Title() string { return p.spec.Title() }

// Prepared returns the data currently drawn.
func (p *Panel) Prepared() plot.Prepared { return p.prepared }

func (p *Panel) Image() image.Image { return p.surface.Image() }

func (p *Panel) Size() (int, int) { return p.surface.Size() }

// Redraw clears the surface and renders data. On failure the previous image
// is put back, the error is reported and returned; the panel stays usable.
func (p *Panel) Redraw(data plot.Prepared) error {
	last := p.surface.Image()
	if err := plot.Render(p.surface, data); err != nil {
		p.surface.SetImage(last)
		p.notifier.Notify("Plotting Error", err)
		return err
	}
	p.prepared = data
	p.failed = false
	return nil
}

// Resize changes the surface size and redraws the current data. When that
// fails the old image no longer fits, so the surface shows an error message
// and the next Resize renders again even at the same size.
func (p *Panel) Resize(w, h int) error {
	cw, ch := p.surface.Size()
	if cw == w && ch == h && !p.failed {
		return nil
	}
	p.surface.Resize(w, h)
	if err := plot.Render(p.surface, p.prepared); err != nil {
		p.surface.Message("Error rendering plot")
		p.failed = true
		p.notifier.Notify("Plotting Error", err)
		return err
	}
	p.failed = false
	return nil
}
