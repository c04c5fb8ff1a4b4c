package main

import (
	"fmt"
	"image/png"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/plot/vg"

	"github.com/iafilius/Visualizer/src/collection"
	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/panel"
	"github.com/iafilius/Visualizer/src/plot"
)

// panelView shows one panel's image and opens the plot context menu on a
// secondary tap.
type panelView struct {
	widget.BaseWidget
	state *uiState
	panel *panel.Panel
	img   *canvas.Image
}

func newPanelView(state *uiState, p *panel.Panel) *panelView {
	v := &panelView{state: state, panel: p}
	v.img = canvas.NewImageFromImage(p.Image())
	v.img.FillMode = canvas.ImageFillStretch
	v.ExtendBaseWidget(v)
	v.refreshImage()
	return v
}

func (v *panelView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

// refreshImage picks up the panel's current image and height.
func (v *panelView) refreshImage() {
	_, h := v.panel.Size()
	v.img.Image = v.panel.Image()
	v.img.SetMinSize(fyne.NewSize(0, float32(h)))
	v.img.Refresh()
	v.Refresh()
}

func (v *panelView) menu() *fyne.Menu {
	id := v.panel.ID()
	return fyne.NewMenu("",
		fyne.NewMenuItem("Delete Plot", func() { v.state.dispatch(collection.PanelDeleted{ID: id}) }),
		fyne.NewMenuItem("Duplicate Plot", func() { v.state.dispatch(collection.PanelDuplicated{ID: id}) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG…", func() { exportPanel(v.state, v.panel, "png") }),
		fyne.NewMenuItem("Export SVG…", func() { exportPanel(v.state, v.panel, "svg") }),
	)
}

// TappedSecondary implements fyne.SecondaryTappable.
func (v *panelView) TappedSecondary(ev *fyne.PointEvent) {
	c := fyne.CurrentApp().Driver().CanvasForObject(v)
	if c == nil && v.state.window != nil {
		c = v.state.window.Canvas()
	}
	if c == nil {
		return
	}
	widget.ShowPopUpMenuAtPosition(v.menu(), c, ev.AbsolutePosition)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// exportFileName turns a plot title into a default file name.
func exportFileName(title, format string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(title, "_"), "_")
	if name == "" {
		name = "plot"
	}
	return name + "." + format
}

// exportPanel asks for a target file and writes p there. PNG is the on-screen
// image, every other format is redrawn with the vector backend.
func exportPanel(state *uiState, p *panel.Panel, format string) {
	if state == nil || state.window == nil || p == nil || p.Image() == nil {
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := writePanel(wc, p, format); err != nil {
			dialog.ShowError(fmt.Errorf("Export failed: %w", err), state.window)
			return
		}
		logging.Infof("exported %q to %s", p.Title(), wc.URI().Path())
	}, state.window)
	fs.SetFileName(exportFileName(p.Title(), format))
	fs.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	if state.lastDir != "" {
		if l, err := storage.ListerForURI(storage.NewFileURI(state.lastDir)); err == nil {
			fs.SetLocation(l)
		}
	}
	fs.Show()
}

func writePanel(w io.Writer, p *panel.Panel, format string) error {
	if format == "png" {
		return png.Encode(w, p.Image())
	}
	width, height := p.Size()
	return plot.Export(w, p.Prepared(), format, pixels(width), pixels(height))
}

// pixels converts a screen size to vg points at 96 dpi.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

// defaultDir returns the directory a file dialog for path should open in.
func defaultDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
