// Package dataset reads labelled point clouds and writes detected trend lines.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0x0FACED/go-trendlines/pkg/trend"
)

var (
	ErrUnknownFormat       = errors.New("dataset: unknown file format")
	ErrUnsupportedGeometry = errors.New("dataset: unsupported geometry")
	ErrBadValue            = errors.New("dataset: bad value")
	ErrMissingColumn       = errors.New("dataset: missing column")
)

// Dataset is a point cloud with one label and one part id per point.
type Dataset struct {
	Points []trend.Point
	Labels []int
	// Parts is nil when the source carries no grouping of points into objects.
	Parts []int
	HasZ  bool
}

// Input hands the dataset to the detector.
func (d *Dataset) Input() trend.Input {
	return trend.Input{Points: d.Points, Labels: d.Labels, Parts: d.Parts}
}

func (d *Dataset) Len() int { return len(d.Points) }

// Options selects the attributes points are read from.
type Options struct {
	// LabelProperty is the GeoJSON feature property holding the label. When the
	// property is missing on every feature, all points get label 1.
	LabelProperty string
	// PartProperty is the GeoJSON feature property holding the part id.
	// Empty uses the feature index.
	PartProperty string
	Columns      Columns
}

// Columns names the CSV header fields. Z, Label and Part are optional.
type Columns struct {
	X, Y, Z, Label, Part string
}

func DefaultOptions() Options {
	return Options{
		LabelProperty: "label",
		Columns:       Columns{X: "x", Y: "y", Z: "z", Label: "label", Part: "part"},
	}
}

type format int

const (
	formatGeoJSON format = iota + 1
	formatCSV
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return formatGeoJSON, nil
	case ".csv":
		return formatCSV, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Read loads a dataset, choosing the reader by file extension.
func Read(path string, opts Options) (*Dataset, error) {
	fmtID, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var ds *Dataset
	switch fmtID {
	case formatGeoJSON:
		ds, err = ReadGeoJSON(f, opts)
	case formatCSV:
		ds, err = ReadCSV(f, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds, nil
}

// Write stores a dataset as points, choosing the writer by file extension.
func Write(path string, ds *Dataset) error {
	fmtID, err := formatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	switch fmtID {
	case formatGeoJSON:
		err = WritePointsGeoJSON(f, ds)
	case formatCSV:
		err = WriteCSV(f, ds)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
