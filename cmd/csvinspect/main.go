package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/iafilius/Visualizer/src/dataset"
	"github.com/iafilius/Visualizer/src/logging"
)

func main() {
	var file string
	var head int
	var logLevel string
	flag.StringVar(&file, "file", "", "Path to the CSV file")
	flag.IntVar(&head, "n", 0, "Also print the first n rows")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()
	logging.SetLogLevel(logLevel)
	if file == "" && flag.NArg() > 0 {
		file = flag.Arg(0)
	}
	if err := inspect(os.Stdout, file, head); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// inspect prints one line per column with its kind and range, then up to
// head rows.
func inspect(w io.Writer, path string, head int) error {
	if path == "" {
		return fmt.Errorf("no file given, use -file")
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File: %s\nRows: %d\nColumns: %d\n\n", ds.Name(), ds.Len(), len(ds.Columns()))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tKIND\tMIN\tMAX")
	for _, c := range ds.Columns() {
		kind, _ := ds.Kind(c)
		min, max := "-", "-"
		if r, ok := ds.Range(c); ok {
			min, max = formatValue(r.Min), formatValue(r.Max)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c, kind, min, max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if head <= 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range ds.Columns() {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for _, row := range ds.Head(head) {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}
