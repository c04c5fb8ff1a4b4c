package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/iafilius/Visualizer/cmd/visualizer/uihelpers"
	"github.com/iafilius/Visualizer/src/collection"
	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/panel"
	"github.com/iafilius/Visualizer/src/plot"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	manager *collection.Manager

	// widgets
	plots   *fyne.Container // vertical stack of panel views, same order as manager
	views   map[uuid.UUID]*panelView
	undoBtn *widget.Button

	// prefs
	lastDir  string
	darkMode bool
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var (
		fileFlag     string
		logLevel     string
		logFile      string
		historyLimit int
		renderMode   bool
		kindFlag     string
		colsFlag     string
		outFlag      string
		widthFlag    int
		heightFlag   int
	)
	flag.StringVar(&fileFlag, "file", "", "CSV file to preload in the first plot dialog (or to render with -render)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Append log lines to this file instead of stderr")
	flag.IntVar(&historyLimit, "history-limit", 0, "Max deleted plots kept for undo (0 = unbounded)")
	flag.BoolVar(&renderMode, "render", false, "Render one plot to -out without opening a window")
	flag.StringVar(&kindFlag, "kind", "xy", "Plot kind for -render: xy or bar")
	flag.StringVar(&colsFlag, "cols", "", "Comma separated columns for -render: x,y or label,value")
	flag.StringVar(&outFlag, "out", "plot.png", "Output file for -render (.png, .svg, .pdf or .eps)")
	flag.IntVar(&widthFlag, "width", plot.DefaultWidth, "Output width in pixels for -render")
	flag.IntVar(&heightFlag, "height", plot.DefaultHeight, "Output height in pixels for -render")
	flag.Parse()

	closeLog, err := setupLogging(logLevel, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if renderMode {
		opts := RenderOptions{
			File:    fileFlag,
			Kind:    kindFlag,
			Columns: strings.Split(colsFlag, ","),
			Out:     outFlag,
			Width:   widthFlag,
			Height:  heightFlag,
		}
		if err := RunRenderMode(opts); err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
			closeLog()
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", outFlag)
		return
	}

	a := app.NewWithID("com.visualizer.app")
	w := a.NewWindow("Visualizer")
	w.Resize(fyne.NewSize(1000, 700))

	state := newUIState(a, w, historyLimit)
	loadPrefs(state)
	applyTheme(state)
	w.SetContent(buildContent(state))
	buildMenus(state)

	// Resize panels whenever the window changes size
	if w.Canvas() != nil {
		prev := w.Canvas().Size()
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					sz := c.Size()
					if sz != prev {
						prev = sz
						fyne.Do(func() { resizePanels(state) })
					}
				}
			}
		}()
	}

	if fileFlag != "" {
		showPlotTypeDialogFor(state, fileFlag)
	}
	w.ShowAndRun()
}

// setupLogging applies the level and, when path is set, sends log lines to
// that file. The returned func closes it.
func setupLogging(level, path string) (func(), error) {
	if !logging.SetLogLevel(level) {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using %s\n", level, logging.GetLogLevel())
	}
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetOutput(f)
	logging.Infof("logging to %s at level %s", path, logging.GetLogLevel())
	return func() {
		logging.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func newUIState(a fyne.App, w fyne.Window, historyLimit int) *uiState {
	state := &uiState{
		app:    a,
		window: w,
		plots:  container.NewVBox(),
		views:  map[uuid.UUID]*panelView{},
	}
	state.manager = collection.New(
		collection.WithBuilder(state.buildPanel),
		collection.WithNotifier(state),
		collection.WithListener(state),
		collection.WithHistoryLimit(historyLimit),
	)
	return state
}

func buildContent(state *uiState) fyne.CanvasObject {
	addBtn := widget.NewButton("Add Plot", func() { showPlotTypeDialog(state) })
	state.undoBtn = widget.NewButton("Undo Delete", func() { state.dispatch(collection.UndoRequested{}) })
	state.undoBtn.Disable()

	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(uihelpers.SidebarWidth, 0))
	sidebar := container.NewStack(spacer, container.NewVBox(addBtn, state.undoBtn))
	scroll := container.NewVScroll(state.plots)
	return container.NewBorder(nil, nil, sidebar, nil, scroll)
}

func applyTheme(state *uiState) {
	if state.darkMode {
		state.app.Settings().SetTheme(&darkTheme{})
		return
	}
	state.app.Settings().SetTheme(theme.DefaultTheme())
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil {
		return
	}
	darkItem := fyne.NewMenuItem("Dark Theme", nil)
	darkItem.Checked = state.darkMode
	darkItem.Action = func() {
		state.darkMode = !state.darkMode
		savePrefs(state)
		applyTheme(state)
		buildMenus(state)
	}
	var recent []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		recent = append(recent, fyne.NewMenuItem(uihelpers.TruncatePath(f, 60), func() { showPlotTypeDialogFor(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Add Plot…", func() { showPlotTypeDialog(state) }),
		fyne.NewMenuItem("Undo Delete", func() { state.dispatch(collection.UndoRequested{}) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	recentMenu := fyne.NewMenu("Open Recent", append(recent, clearRecent)...)
	viewMenu := fyne.NewMenu("View", darkItem)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, viewMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: mod}, func(fyne.Shortcut) { showPlotTypeDialog(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod}, func(fyne.Shortcut) { state.dispatch(collection.UndoRequested{}) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

// panelSize is the size new and resized panels are rendered at.
func panelSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return plot.DefaultWidth, plot.DefaultHeight
	}
	sz := state.window.Canvas().Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		return plot.DefaultWidth, plot.DefaultHeight
	}
	return uihelpers.ComputePanelDimensions(sz.Width, sz.Height)
}

func (s *uiState) buildPanel(spec plot.Spec) (*panel.Panel, error) {
	w, h := panelSize(s)
	return panel.New(spec, panel.WithSize(w, h), panel.WithNotifier(s))
}

// dispatch applies cmd to the collection. Failures were already shown to the
// user by the notifier.
func (s *uiState) dispatch(cmd collection.Command) {
	if err := s.manager.Dispatch(cmd); err != nil {
		logging.Debugf("%T failed: %v", cmd, err)
	}
}

// Notify implements panel.Notifier.
func (s *uiState) Notify(title string, err error) {
	logging.Errorf("%s: %v", title, err)
	if s.window == nil {
		return
	}
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), s.window)
}

// PanelInserted implements collection.Listener.
func (s *uiState) PanelInserted(index int, p *panel.Panel) {
	v := newPanelView(s, p)
	s.views[p.ID()] = v
	objs := s.plots.Objects
	if index < 0 || index > len(objs) {
		index = len(objs)
	}
	objs = append(objs, nil)
	copy(objs[index+1:], objs[index:])
	objs[index] = v
	s.plots.Objects = objs
	s.plots.Refresh()
}

// PanelRemoved implements collection.Listener.
func (s *uiState) PanelRemoved(index int, p *panel.Panel) {
	if v, ok := s.views[p.ID()]; ok {
		s.plots.Remove(v)
		delete(s.views, p.ID())
	}
}

// UndoAvailable implements collection.Listener.
func (s *uiState) UndoAvailable(available bool) {
	if s.undoBtn == nil {
		return
	}
	if available {
		s.undoBtn.Enable()
	} else {
		s.undoBtn.Disable()
	}
}

// resizePanels re-renders every panel at the size derived from the window.
func resizePanels(state *uiState) {
	w, h := panelSize(state)
	for _, p := range state.manager.Panels() {
		if err := p.Resize(w, h); err != nil {
			logging.Debugf("resize %s: %v", p.ID(), err)
		}
		if v, ok := state.views[p.ID()]; ok {
			v.refreshImage()
		}
	}
	state.plots.Refresh()
}
