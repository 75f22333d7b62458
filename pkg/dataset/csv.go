package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0x0FACED/go-trendlines/pkg/trend"
)

// ReadCSV reads a table with a header row. X and Y columns are required;
// a missing label column labels every point 1, a missing part column leaves
// Parts nil.
func ReadCSV(r io.Reader, opts Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	col := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := index[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	cx, cy := col(opts.Columns.X), col(opts.Columns.Y)
	if cx < 0 || cy < 0 {
		return nil, fmt.Errorf("%w: need %q and %q, have %v", ErrMissingColumn, opts.Columns.X, opts.Columns.Y, header)
	}
	cz, cl, cp := col(opts.Columns.Z), col(opts.Columns.Label), col(opts.Columns.Part)

	ds := &Dataset{HasZ: cz >= 0}
	if cp >= 0 {
		ds.Parts = []int{}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		var p trend.Point
		if p.X, err = parseFloat(rec[cx]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if p.Y, err = parseFloat(rec[cy]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if cz >= 0 {
			if p.Z, err = parseFloat(rec[cz]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		label := 1
		if cl >= 0 {
			if label, err = toInt(strings.TrimSpace(rec[cl])); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		if cp >= 0 {
			part, err := toInt(strings.TrimSpace(rec[cp]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			ds.Parts = append(ds.Parts, part)
		}

		ds.Points = append(ds.Points, p)
		ds.Labels = append(ds.Labels, label)
	}
	return ds, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadValue, s)
	}
	return v, nil
}

// WriteCSV writes x,y[,z],label[,part] rows.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	header := []string{"x", "y"}
	if ds.HasZ {
		header = append(header, "z")
	}
	header = append(header, "label")
	if ds.Parts != nil {
		header = append(header, "part")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, p := range ds.Points {
		rec := []string{ff(p.X), ff(p.Y)}
		if ds.HasZ {
			rec = append(rec, ff(p.Z))
		}
		rec = append(rec, strconv.Itoa(ds.Labels[i]))
		if ds.Parts != nil {
			rec = append(rec, strconv.Itoa(ds.Parts[i]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
