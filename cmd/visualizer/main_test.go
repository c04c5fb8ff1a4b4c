package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/iafilius/Visualizer/cmd/visualizer/uihelpers"
	"github.com/iafilius/Visualizer/src/collection"
	"github.com/iafilius/Visualizer/src/dataset"
	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/plot"
	"github.com/iafilius/Visualizer/src/selector"
)

func newTestState(t *testing.T) *uiState {
	t.Helper()
	a := test.NewTempApp(t)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)
	w.Resize(fyne.NewSize(1000, 700))
	state := newUIState(a, w, 0)
	w.SetContent(buildContent(state))
	return state
}

func loadSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return ds
}

// viewTitles lists the panel views top to bottom.
func viewTitles(state *uiState) string {
	var out []string
	for _, o := range state.plots.Objects {
		out = append(out, o.(*panelView).panel.Title())
	}
	return strings.Join(out, "|")
}

func TestViewMirrorsCollection(t *testing.T) {
	state := newTestState(t)
	ds := loadSample(t)
	state.dispatch(collection.PlotConfirmed{Spec: plot.NewXY(ds, "time", "value")})
	state.dispatch(collection.PlotConfirmed{Spec: plot.NewBar(ds, "category", "value")})
	state.dispatch(collection.PlotConfirmed{Spec: plot.NewXY(ds, "value", "time")})
	if got := viewTitles(state); got != "value vs time|value by category|time vs value" {
		t.Fatalf("views = %s", got)
	}
	if !state.undoBtn.Disabled() {
		t.Fatalf("undo enabled without history")
	}

	mid := state.manager.Panels()[1]
	state.dispatch(collection.PanelDeleted{ID: mid.ID()})
	if got := viewTitles(state); got != "value vs time|time vs value" {
		t.Fatalf("after delete = %s", got)
	}
	if state.undoBtn.Disabled() {
		t.Fatalf("undo disabled after delete")
	}
	if _, ok := state.views[mid.ID()]; ok {
		t.Fatalf("view of deleted panel still tracked")
	}

	state.dispatch(collection.UndoRequested{})
	if got := viewTitles(state); got != "value vs time|value by category|time vs value" {
		t.Fatalf("after undo = %s", got)
	}
	if !state.undoBtn.Disabled() {
		t.Fatalf("undo still enabled with empty history")
	}

	first := state.manager.Panels()[0]
	state.dispatch(collection.PanelDuplicated{ID: first.ID()})
	if got := viewTitles(state); got != "value vs time|value vs time|value by category|time vs value" {
		t.Fatalf("after duplicate = %s", got)
	}
}

func TestPanelsFollowWindowHeight(t *testing.T) {
	state := newTestState(t)
	ds := loadSample(t)
	state.dispatch(collection.PlotConfirmed{Spec: plot.NewXY(ds, "time", "value")})
	p := state.manager.Panels()[0]

	state.window.Resize(fyne.NewSize(1200, 900))
	resizePanels(state)
	sz := state.window.Canvas().Size()
	if _, h := p.Size(); h != uihelpers.ComputePanelHeight(sz.Height) {
		t.Fatalf("panel height %d want %d", h, uihelpers.ComputePanelHeight(sz.Height))
	}
	v := state.views[p.ID()]
	if v.img.Image != p.Image() {
		t.Fatalf("view not refreshed after resize")
	}
}

func TestPanelMenuItems(t *testing.T) {
	state := newTestState(t)
	ds := loadSample(t)
	state.dispatch(collection.PlotConfirmed{Spec: plot.NewXY(ds, "time", "value")})
	v := state.views[state.manager.Panels()[0].ID()]
	var labels []string
	for _, it := range v.menu().Items {
		if !it.IsSeparator {
			labels = append(labels, it.Label)
		}
	}
	if strings.Join(labels, ",") != "Delete Plot,Duplicate Plot,Export PNG…,Export SVG…" {
		t.Fatalf("menu = %v", labels)
	}
	v.menu().Items[1].Action()
	if state.manager.Len() != 2 {
		t.Fatalf("duplicate from menu: len=%d", state.manager.Len())
	}
	v.menu().Items[0].Action()
	if state.manager.Len() != 1 || !state.manager.CanUndo() {
		t.Fatalf("delete from menu: len=%d", state.manager.Len())
	}
}

func TestConfigDialogFlow(t *testing.T) {
	state := newTestState(t)
	path := writeCSV(t, sampleCSV)
	c := newConfigDialog(state, plot.KindBar)
	c.dlg.Show()
	if !c.confirm.Disabled() {
		t.Fatalf("confirm enabled before load")
	}
	c.load(path)
	if got, _ := c.fileText.Get(); got != "Loaded: data.csv" {
		t.Fatalf("file label = %q", got)
	}
	if got, _ := c.infoText.Get(); got != "Select Label and Value columns" {
		t.Fatalf("info = %q", got)
	}
	if len(c.rows) != 0 || c.previewBox.Visible() {
		t.Fatalf("preview shown before a valid selection: %v", c.rows)
	}
	c.selects[selector.RoleLabel].SetSelected("category")
	c.selects[selector.RoleValue].SetSelected("category")
	if !c.confirm.Disabled() || c.previewBox.Visible() {
		t.Fatalf("confirm or preview enabled for text value column")
	}
	c.selects[selector.RoleValue].SetSelected("value")
	if c.confirm.Disabled() {
		t.Fatalf("confirm disabled for valid selection")
	}
	if len(c.rows) != 3 || strings.Join(c.header, ",") != "time,value,category" || !c.previewBox.Visible() {
		t.Fatalf("preview = %v %v", c.header, c.rows)
	}
	c.onConfirm()
	if state.manager.Len() != 1 || state.manager.Panels()[0].Kind() != plot.KindBar {
		t.Fatalf("plot not added")
	}
	if got := recentFiles(state); len(got) != 1 || got[0] != path {
		t.Fatalf("recent files = %v", got)
	}
}

func TestConfigDialogLoadFailure(t *testing.T) {
	state := newTestState(t)
	good := writeCSV(t, sampleCSV)
	c := newConfigDialog(state, plot.KindXY)
	c.dlg.Show()
	c.load(good)
	c.selects[selector.RoleX].SetSelected("time")
	c.load(good + ".missing")
	if got, _ := c.fileText.Get(); got != "No file selected" {
		t.Fatalf("file label = %q", got)
	}
	if c.selects[selector.RoleX].Selected != "" {
		t.Fatalf("select kept %q after the selector was reset", c.selects[selector.RoleX].Selected)
	}
	if len(c.selects[selector.RoleX].Options) != 0 || c.previewBox.Visible() {
		t.Fatalf("stale columns or preview after failed load")
	}
	if !c.confirm.Disabled() {
		t.Fatalf("confirm enabled after failed load")
	}
}

func TestSetupLoggingToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visualizer.log")
	closeLog, err := setupLogging("debug", path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() { logging.SetLogLevel("info") })
	if logging.GetLogLevel() != logging.LevelDebug {
		t.Fatalf("level = %s", logging.GetLogLevel())
	}
	logging.Debugf("resize %d", 7)
	closeLog()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "[DEBUG] resize 7") {
		t.Fatalf("log file = %q", b)
	}
	if _, err := setupLogging("info", filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Fatalf("expected error for unwritable log path")
	}
}
