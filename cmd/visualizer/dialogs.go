package main

import (
	"fmt"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/Visualizer/cmd/visualizer/uihelpers"
	"github.com/iafilius/Visualizer/src/collection"
	"github.com/iafilius/Visualizer/src/plot"
	"github.com/iafilius/Visualizer/src/selector"
)

const previewRows = 10

// showPlotTypeDialog asks which kind of plot to add and opens its config
// dialog.
func showPlotTypeDialog(state *uiState) {
	showPlotTypeDialogFor(state, "")
}

// showPlotTypeDialogFor is showPlotTypeDialog with a CSV file preloaded into
// the config dialog.
func showPlotTypeDialogFor(state *uiState, path string) {
	var d dialog.Dialog
	box := container.NewVBox()
	for _, k := range plot.Kinds {
		k := k
		box.Add(widget.NewButton(k.DisplayName(), func() {
			d.Hide()
			showConfigDialog(state, k, path)
		}))
	}
	d = dialog.NewCustom("Select Plot Type", "Cancel", box, state.window)
	d.Show()
}

// configDialog is the per-kind form that loads a CSV file and picks columns.
type configDialog struct {
	state *uiState
	sel   *selector.Selector

	dlg      *dialog.CustomDialog
	fileText binding.String
	infoText binding.String
	selects  map[selector.Role]*widget.Select
	confirm  *widget.Button

	previewLabel *widget.Label
	preview      *widget.Table
	previewBox   *fyne.Container
	header       []string
	rows         [][]string
}

func configTitle(k plot.Kind) string {
	if k == plot.KindBar {
		return "Configure Bar Plot"
	}
	return "Add New Plot"
}

func newConfigDialog(state *uiState, kind plot.Kind) *configDialog {
	c := &configDialog{state: state, selects: map[selector.Role]*widget.Select{}}
	c.confirm = widget.NewButton("OK", c.onConfirm)
	c.confirm.Importance = widget.HighImportance
	c.confirm.Disable()
	c.sel = selector.New(kind, selector.OnValidity(func(ok bool) {
		if ok {
			c.confirm.Enable()
		} else {
			c.confirm.Disable()
		}
	}))

	c.fileText = binding.NewString()
	c.fileText.Set("No file selected")
	c.infoText = binding.NewString()
	c.infoText.Set(c.sel.Describe())
	info := widget.NewLabelWithData(c.infoText)
	info.Wrapping = fyne.TextWrapWord
	loadBtn := widget.NewButton("Load CSV", c.openFile)

	form := container.NewVBox(container.NewHBox(loadBtn, widget.NewLabelWithData(c.fileText)), info)
	for _, role := range c.sel.Roles() {
		role := role
		s := widget.NewSelect(nil, func(v string) {
			c.sel.Dispatch(selector.ColumnSelected{Role: role, Name: v})
			c.infoText.Set(c.sel.Describe())
			c.showPreview(c.sel.IsValid())
		})
		s.PlaceHolder = "(select column)"
		c.selects[role] = s
		form.Add(widget.NewLabel(role.Prompt()))
		form.Add(s)
	}

	c.previewLabel = widget.NewLabel(fmt.Sprintf("CSV Preview (First %d Rows):", previewRows))
	c.preview = widget.NewTable(
		func() (int, int) { return len(c.rows), len(c.header) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			text := ""
			if id.Row < len(c.rows) && id.Col < len(c.rows[id.Row]) {
				text = c.rows[id.Row][id.Col]
			}
			o.(*widget.Label).SetText(text)
		},
	)
	c.preview.ShowHeaderRow = true
	c.preview.CreateHeader = func() fyne.CanvasObject {
		l := widget.NewLabel("")
		l.TextStyle = fyne.TextStyle{Bold: true}
		return l
	}
	c.preview.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		if id.Col >= 0 && id.Col < len(c.header) {
			o.(*widget.Label).SetText(c.header[id.Col])
		}
	}
	c.previewBox = container.NewGridWrap(fyne.NewSize(620, 260), c.preview)
	c.previewLabel.Hide()
	c.previewBox.Hide()

	content := container.NewVBox(form, c.previewLabel, c.previewBox)
	c.dlg = dialog.NewCustomWithoutButtons(configTitle(kind), content, state.window)
	cancel := widget.NewButton("Cancel", func() { c.dlg.Hide() })
	c.dlg.SetButtons([]fyne.CanvasObject{cancel, c.confirm})
	return c
}

func showConfigDialog(state *uiState, kind plot.Kind, path string) {
	c := newConfigDialog(state, kind)
	c.dlg.Resize(fyne.NewSize(680, 600))
	c.dlg.Show()
	if path != "" {
		c.load(path)
	}
}

func (c *configDialog) openFile() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		c.load(path)
	}, c.state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	if c.state.lastDir != "" {
		if l, err := storage.ListerForURI(storage.NewFileURI(c.state.lastDir)); err == nil {
			d.SetLocation(l)
		}
	}
	d.Show()
}

// load reads path into the selector and refreshes every widget that shows
// selector state.
func (c *configDialog) load(path string) {
	err := c.sel.Dispatch(selector.LoadRequested{Path: path})
	for role, s := range c.selects {
		s.SetOptions(c.sel.Columns())
		s.Selected = c.sel.Selected(role)
		s.Refresh()
	}
	c.infoText.Set(c.sel.Describe())
	if err != nil {
		c.fileText.Set("No file selected")
		c.showPreview(false)
		if c.state.window != nil {
			dialog.ShowError(fmt.Errorf("Could not load file: %w", err), c.state.window)
		}
		return
	}
	c.fileText.Set("Loaded: " + uihelpers.TruncatePath(c.sel.Dataset().Name(), 40))
	c.state.lastDir = defaultDir(path)
	addRecentFile(c.state, path)
	savePrefs(c.state)
	c.showPreview(c.sel.IsValid())
}

// showPreview fills the preview table from the selector, which only hands out
// rows for a valid selection.
func (c *configDialog) showPreview(show bool) {
	if !show {
		c.header, c.rows = nil, nil
		c.previewLabel.Hide()
		c.previewBox.Hide()
		return
	}
	c.header, c.rows = c.sel.Preview(previewRows)
	for i, w := range uihelpers.ComputePreviewColumnWidths(620, len(c.header)) {
		c.preview.SetColumnWidth(i, w)
	}
	c.preview.Refresh()
	c.previewLabel.Show()
	c.previewBox.Show()
}

func (c *configDialog) onConfirm() {
	spec, err := c.sel.Spec()
	if err != nil {
		dialog.ShowError(err, c.state.window)
		return
	}
	c.dlg.Hide()
	c.state.dispatch(collection.PlotConfirmed{Spec: spec})
}
