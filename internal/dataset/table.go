// Package dataset loads crocodile observation files into an immutable,
// typed in-memory table.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/apex/log"
)

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, ',' (or '\t' for .tsv).
	Delimiter rune
	// DecimalSeparator for numeric cells. If 0, auto-detect per value.
	DecimalSeparator rune
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
}

// Column describes one schema column of a loaded table.
type Column struct {
	Name string
	Kind Kind
}

// Table is an immutable set of observations. The zero value is an empty table.
type Table struct {
	name string
	rows []Observation
}

// New builds a table from already typed observations. The slice is copied.
func New(name string, rows []Observation) *Table {
	cp := make([]Observation, len(rows))
	copy(cp, rows)
	return &Table{name: name, rows: cp}
}

// Load reads the dataset at path into a Table.
func Load(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	rd := readerFor(path)
	if rd == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	header, records, err := rd.Read(path, opt)
	if err != nil {
		return nil, err
	}
	idx, err := bindHeader(header)
	if err != nil {
		return nil, err
	}
	rows := make([]Observation, 0, len(records))
	for _, rec := range records {
		o, err := decodeRecord(rec.Cells, idx, opt)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = rec.Line
			}
			return nil, err
		}
		rows = append(rows, o)
	}
	log.WithFields(log.Fields{
		"file": filepath.Base(path),
		"rows": len(rows),
	}).Debug("dataset loaded")
	return &Table{name: filepath.Base(path), rows: rows}, nil
}

// bindHeader maps each schema field to its position in the header.
func bindHeader(header []string) ([numFields]int, error) {
	var idx [numFields]int
	for i := range idx {
		idx[i] = -1
	}
	for pos, h := range header {
		// a UTF-8 BOM sticks to the first header cell
		h = strings.TrimPrefix(h, "\ufeff")
		f, ok := FieldByHeader(h)
		if !ok {
			if strings.TrimSpace(h) != "" {
				log.WithField("column", h).Debug("ignoring unknown column")
			}
			continue
		}
		if idx[f] < 0 {
			idx[f] = pos
		}
	}
	var missing []string
	for f, pos := range idx {
		if pos < 0 {
			missing = append(missing, Field(f).Header())
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: missing columns: %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return idx, nil
}

func decodeRecord(rec []string, idx [numFields]int, opt LoadOptions) (Observation, error) {
	cell := func(f Field) string {
		if p := idx[f]; p < len(rec) {
			return strings.TrimSpace(rec[p])
		}
		return ""
	}
	measure := func(f Field) (Measure, error) {
		raw := cell(f)
		m, err := parseMeasure(raw, opt.DecimalSeparator)
		if err != nil {
			return Measure{}, &ParseError{Column: f.Header(), Value: raw, Err: err}
		}
		return m, nil
	}
	length, err := measure(FieldLength)
	if err != nil {
		return Observation{}, err
	}
	weight, err := measure(FieldWeight)
	if err != nil {
		return Observation{}, err
	}
	o := Observation{
		ID:             cell(FieldID),
		CommonName:     cell(FieldCommonName),
		ScientificName: cell(FieldScientificName),
		Family:         cell(FieldFamily),
		Genus:          cell(FieldGenus),
		Length:         length,
		Weight:         weight,
		AgeClass:       cell(FieldAgeClass),
		Sex:            cell(FieldSex),
		ObservedOnRaw:  cell(FieldObservedOn),
		Region:         cell(FieldRegion),
		Habitat:        cell(FieldHabitat),
		Conservation:   cell(FieldConservation),
		Observer:       cell(FieldObserver),
		Notes:          cell(FieldNotes),
	}
	if t, ok := parseDate(o.ObservedOnRaw); ok {
		o.ObservedOn = t
	}
	return o, nil
}

// Name is the base name of the source file.
func (t *Table) Name() string { return t.name }

// Len returns the number of observations.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the schema columns in declared order.
func (t *Table) Columns() []Column {
	fields := Schema()
	out := make([]Column, len(fields))
	for i, f := range fields {
		out[i] = Column{Name: f.Header(), Kind: f.Kind()}
	}
	return out
}

// Row returns a copy of the i-th observation.
func (t *Table) Row(i int) Observation { return t.rows[i] }

// Rows returns a copy of all observations in source order.
func (t *Table) Rows() []Observation {
	cp := make([]Observation, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Texts returns the textual values of f aligned to row order; missing
// cells are empty strings.
func (t *Table) Texts(f Field) []string {
	out := make([]string, len(t.rows))
	for i := range t.rows {
		out[i] = t.rows[i].Text(f)
	}
	return out
}

// Numbers returns the valid values of a numeric field in row order,
// with missing cells dropped.
func (t *Table) Numbers(f Field) ([]float64, error) {
	if f.Kind() != KindNumeric {
		return nil, fmt.Errorf("column %q is not numeric", f.Header())
	}
	out := make([]float64, 0, len(t.rows))
	for i := range t.rows {
		if m, _ := t.rows[i].Number(f); m.Valid {
			out = append(out, m.Value)
		}
	}
	return out, nil
}

// MemoryUsage approximates the bytes held by the table, counting string
// payloads on top of the fixed record size.
func (t *Table) MemoryUsage() int64 {
	var n int64
	for i := range t.rows {
		o := &t.rows[i]
		n += int64(unsafe.Sizeof(*o))
		for _, f := range Schema() {
			if f.Kind() == KindNumeric {
				continue
			}
			n += int64(len(o.Text(f)))
		}
	}
	return n
}
