package main

import (
	"errors"
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iafilius/Visualizer/src/dataset"
	"github.com/iafilius/Visualizer/src/plot"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

const sampleCSV = "time,value,category\n1,10,a\n2,25,b\n3,15,c\n"

func TestRunRenderMode_PNGSize(t *testing.T) {
	in := writeCSV(t, sampleCSV)
	out := filepath.Join(t.TempDir(), "nested", "plot.png")
	opts := RenderOptions{File: in, Kind: "xy", Columns: []string{"time", "value"}, Out: out, Width: 640, Height: 240}
	if err := RunRenderMode(opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 240 {
		t.Fatalf("output %dx%d want 640x240", cfg.Width, cfg.Height)
	}
}

func TestRunRenderMode_BarSVG(t *testing.T) {
	in := writeCSV(t, sampleCSV)
	out := filepath.Join(t.TempDir(), "bars.svg")
	opts := RenderOptions{File: in, Kind: "bar", Columns: []string{"category", " value "}, Out: out, Width: 640, Height: 240}
	if err := RunRenderMode(opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), "<svg") {
		t.Fatalf("output is not svg")
	}
}

func TestRunRenderMode_Errors(t *testing.T) {
	in := writeCSV(t, sampleCSV)
	dir := t.TempDir()
	cases := []struct {
		name string
		opts RenderOptions
		is   error
	}{
		{"no file", RenderOptions{Kind: "xy", Columns: []string{"time", "value"}, Out: filepath.Join(dir, "a.png")}, nil},
		{"bad kind", RenderOptions{File: in, Kind: "pie", Columns: []string{"time", "value"}, Out: filepath.Join(dir, "b.png")}, plot.ErrUnknownKind},
		{"one column", RenderOptions{File: in, Kind: "xy", Columns: []string{"time"}, Out: filepath.Join(dir, "c.png")}, nil},
		{"text y", RenderOptions{File: in, Kind: "xy", Columns: []string{"time", "category"}, Out: filepath.Join(dir, "d.png")}, plot.ErrNotNumeric},
		{"bad ext", RenderOptions{File: in, Kind: "xy", Columns: []string{"time", "value"}, Out: filepath.Join(dir, "e.bmp")}, nil},
	}
	for _, c := range cases {
		err := RunRenderMode(c.opts)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if c.is != nil && !errors.Is(err, c.is) {
			t.Fatalf("%s: got %v want %v", c.name, err, c.is)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "d.png")); !os.IsNotExist(err) {
		t.Fatalf("failed render left an output file")
	}
}

func TestRunRenderMode_MissingFile(t *testing.T) {
	opts := RenderOptions{File: filepath.Join(t.TempDir(), "missing.csv"), Kind: "xy", Columns: []string{"a", "b"}, Out: filepath.Join(t.TempDir(), "x.png")}
	var le *dataset.LoadError
	if err := RunRenderMode(opts); !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestExportFileName(t *testing.T) {
	cases := map[string]string{
		"value vs time":  "value_vs_time.png",
		"count by label": "count_by_label.png",
		"???":            "plot.png",
	}
	for in, want := range cases {
		if got := exportFileName(in, "png"); got != want {
			t.Fatalf("exportFileName(%q) = %q want %q", in, got, want)
		}
	}
}
