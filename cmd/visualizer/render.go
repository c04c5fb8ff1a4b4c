package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/iafilius/Visualizer/src/dataset"
	"github.com/iafilius/Visualizer/src/logging"
	"github.com/iafilius/Visualizer/src/panel"
	"github.com/iafilius/Visualizer/src/plot"
)

// RenderOptions describes one headless plot.
type RenderOptions struct {
	File    string
	Kind    string
	Columns []string // x,y for xy plots, label,value for bar plots
	Out     string
	Width   int
	Height  int
}

// specFromOptions loads the CSV and builds the validated plot spec.
func specFromOptions(o RenderOptions) (plot.Spec, error) {
	if o.File == "" {
		return plot.Spec{}, fmt.Errorf("no input file, use -file")
	}
	kind, err := plot.ParseKind(o.Kind)
	if err != nil {
		return plot.Spec{}, err
	}
	var cols []string
	for _, c := range o.Columns {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) != 2 {
		return plot.Spec{}, fmt.Errorf("need exactly two columns for a %s plot, got %d", kind, len(cols))
	}
	ds, err := dataset.Load(o.File)
	if err != nil {
		return plot.Spec{}, err
	}
	var spec plot.Spec
	if kind == plot.KindBar {
		spec = plot.NewBar(ds, cols[0], cols[1])
	} else {
		spec = plot.NewXY(ds, cols[0], cols[1])
	}
	if err := spec.Validate(); err != nil {
		return plot.Spec{}, err
	}
	return spec, nil
}

// RunRenderMode renders a single plot and writes it to o.Out. It runs
// headlessly without creating a UI window. The output format follows the file
// extension.
func RunRenderMode(o RenderOptions) error {
	spec, err := specFromOptions(o)
	if err != nil {
		return err
	}
	format, err := plot.FormatFromPath(o.Out)
	if err != nil {
		return err
	}
	p, err := panel.New(spec, panel.WithSize(o.Width, o.Height))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(o.Out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, p.Image()); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	} else if err := writePanel(&buf, p, format); err != nil {
		return err
	}
	if err := os.WriteFile(o.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.Out, err)
	}
	logging.Infof("rendered %q to %s (%s)", p.Title(), o.Out, format)
	return nil
}
