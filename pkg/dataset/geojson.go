package dataset

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ReadGeoJSON reads a FeatureCollection of Point, MultiPoint, LineString and
// MultiLineString features. Every vertex becomes a point; vertices of one
// feature share the feature's label and part. GeoJSON positions are read as 2D.
func ReadGeoJSON(r io.Reader, opts Options) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	ds := &Dataset{}
	labelled := false
	for i, f := range fc.Features {
		label := 1
		if v, ok := f.Properties[opts.LabelProperty]; ok && opts.LabelProperty != "" {
			label, err = toInt(v)
			if err != nil {
				return nil, fmt.Errorf("feature %d property %q: %w", i, opts.LabelProperty, err)
			}
			labelled = true
		}
		part := i
		if opts.PartProperty != "" {
			v, ok := f.Properties[opts.PartProperty]
			if !ok {
				return nil, fmt.Errorf("feature %d: %w: property %q", i, ErrBadValue, opts.PartProperty)
			}
			if part, err = toInt(v); err != nil {
				return nil, fmt.Errorf("feature %d property %q: %w", i, opts.PartProperty, err)
			}
		}

		vertices, err := flatten(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		for _, p := range vertices {
			ds.Points = append(ds.Points, trend.Point{X: p[0], Y: p[1]})
			ds.Labels = append(ds.Labels, label)
			ds.Parts = append(ds.Parts, part)
		}
	}
	if !labelled {
		for i := range ds.Labels {
			ds.Labels[i] = 1
		}
	}
	return ds, nil
}

func flatten(g orb.Geometry) ([]orb.Point, error) {
	switch g := g.(type) {
	case orb.Point:
		return []orb.Point{g}, nil
	case orb.MultiPoint:
		return g, nil
	case orb.LineString:
		return g, nil
	case orb.MultiLineString:
		var out []orb.Point
		for _, ls := range g {
			out = append(out, ls...)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: missing geometry", ErrUnsupportedGeometry)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
}

func toInt(v interface{}) (int, error) {
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrBadValue, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrBadValue, v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %v (%T)", ErrBadValue, v, v)
}

// WriteGeoJSON writes one LineString feature per polyline. A non-empty runID
// is stored as a foreign member of the collection.
func WriteGeoJSON(w io.Writer, res *trend.Result, runID string) error {
	fc := geojson.NewFeatureCollection()
	if runID != "" {
		fc.ExtraMembers = geojson.Properties{"run_id": runID}
	}
	if res != nil {
		for i, pl := range res.Polylines {
			ls := make(orb.LineString, len(pl.Vertices))
			for j, v := range pl.Vertices {
				p := res.Vertices[v]
				ls[j] = orb.Point{p.X, p.Y}
			}
			f := geojson.NewFeature(ls)
			f.Properties["id"] = i
			f.Properties["label"] = pl.Label
			f.Properties["edges"] = pl.Edges()
			fc.Append(f)
		}
	}
	return encode(w, fc)
}

// WritePointsGeoJSON writes every point as a Point feature carrying its label and part.
func WritePointsGeoJSON(w io.Writer, ds *Dataset) error {
	fc := geojson.NewFeatureCollection()
	for i, p := range ds.Points {
		f := geojson.NewFeature(orb.Point{p.X, p.Y})
		f.Properties["label"] = ds.Labels[i]
		if ds.Parts != nil {
			f.Properties["part"] = ds.Parts[i]
		}
		fc.Append(f)
	}
	return encode(w, fc)
}

func encode(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode feature collection: %w", err)
	}
	_, err = w.Write(data)
	return err
}
