// Package dataset loads CSV files into immutable in-memory tables with
// per-column kind inference.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// ColumnRange is the (min, max) pair of a numeric column.
type ColumnRange struct {
	Min, Max float64
}

// ErrNoColumns is returned for input without a header row.
var ErrNoColumns = errors.New("no columns to parse from file")

// LoadError wraps every failure to turn a file into a Dataset.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("could not load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// naValues are cell spellings treated as missing, matching common CSV tooling.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type column struct {
	name  string
	kind  Kind
	cells []string
	nums  []float64
}

// Dataset is a loaded table. It is never modified after Load/Read returns, so
// it can be shared by every plot created from it.
type Dataset struct {
	path  string
	name  string
	cols  []column
	index map[string]int
	rows  int
}

// Load reads and parses the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	ds, err := parse(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	ds.path = path
	ds.name = filepath.Base(path)
	return ds, nil
}

// Read parses CSV from r; name is used for messages and Name().
func Read(name string, r io.Reader) (*Dataset, error) {
	ds, err := parse(r)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	ds.path = name
	ds.name = filepath.Base(name)
	return ds, nil
}

func parse(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, errors.New("file is not valid UTF-8 text")
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}
	names := headerNames(header)
	cols := make([]column, len(names))
	for i, n := range names {
		cols[i].name = n
	}
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > len(names) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("error tokenizing data: expected %d fields in line %d, saw %d", len(names), line, len(rec))
		}
		for i := range cols {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			cols[i].cells = append(cols[i].cells, cell)
		}
		rows++
	}

	ds := &Dataset{cols: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i := range ds.cols {
		inferKind(&ds.cols[i], rows)
		ds.index[ds.cols[i].name] = i
	}
	return ds, nil
}

// headerNames names blank header cells "Unnamed: <i>" and suffixes
// duplicates with ".1", ".2", ...
func headerNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", h, n+1)
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

func isNA(cell string) bool {
	_, ok := naValues[strings.TrimSpace(cell)]
	return ok
}

// inferKind marks a column numeric when it has rows and every non-missing
// cell parses as a float. Missing cells become NaN.
func inferKind(c *column, rows int) {
	c.kind = KindText
	if rows == 0 {
		return
	}
	nums := make([]float64, len(c.cells))
	for i, cell := range c.cells {
		if isNA(cell) {
			nums[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return
		}
		nums[i] = v
	}
	c.kind = KindNumeric
	c.nums = nums
}

// Path returns the path or name the dataset was loaded from.
func (d *Dataset) Path() string { return d.path }

// Name returns the base file name.
func (d *Dataset) Name() string { return d.name }

// Len returns the number of data rows.
func (d *Dataset) Len() int { return d.rows }

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.name
	}
	return out
}

// Has reports whether the column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

func (d *Dataset) column(name string) (*column, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.cols[i], true
}

// Kind returns the inferred kind of a column.
func (d *Dataset) Kind(name string) (Kind, bool) {
	c, ok := d.column(name)
	if !ok {
		return KindText, false
	}
	return c.kind, true
}

// IsNumeric reports whether the column exists and is numeric.
func (d *Dataset) IsNumeric(name string) bool {
	k, ok := d.Kind(name)
	return ok && k == KindNumeric
}

// Range returns the min and max of a numeric column, ignoring missing
// values. It reports false when the column is absent or not numeric. A
// numeric column with only missing values yields NaN bounds.
func (d *Dataset) Range(name string) (ColumnRange, bool) {
	c, ok := d.column(name)
	if !ok || c.kind != KindNumeric {
		return ColumnRange{}, false
	}
	present := make([]float64, 0, len(c.nums))
	for _, v := range c.nums {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return ColumnRange{Min: math.NaN(), Max: math.NaN()}, true
	}
	return ColumnRange{Min: floats.Min(present), Max: floats.Max(present)}, true
}

// Numeric returns a copy of a numeric column's values.
func (d *Dataset) Numeric(name string) ([]float64, bool) {
	c, ok := d.column(name)
	if !ok || c.kind != KindNumeric {
		return nil, false
	}
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out, true
}

// Text returns a column coerced to text. Missing cells read "nan".
func (d *Dataset) Text(name string) ([]string, bool) {
	c, ok := d.column(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(c.cells))
	for i, cell := range c.cells {
		if isNA(cell) {
			out[i] = "nan"
			continue
		}
		out[i] = strings.TrimSpace(cell)
	}
	return out, true
}

// Head returns up to n rows of raw cells in column order.
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	if n <= 0 {
		return nil
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(d.cols))
		for i := range d.cols {
			row[i] = d.cols[i].cells[r]
		}
		out[r] = row
	}
	return out
}
