// Package config loads the trendlines configuration from YAML and environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/0x0FACED/go-trendlines/pkg/dataset"
	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps every validation failure returned by Load and Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full application configuration.
type Config struct {
	Detection DetectionConfig `koanf:"detection"`
	Source    SourceConfig    `koanf:"source"`
	Log       LogConfig       `koanf:"log"`
	Serve     ServeConfig     `koanf:"serve"`
	// Workers bounds the label groups processed at once; 0 uses every CPU.
	Workers int `koanf:"workers" validate:"gte=0,lte=256"`
}

// DetectionConfig mirrors trend.Params.
type DetectionConfig struct {
	MaxDistance *float64 `koanf:"max_distance" validate:"omitnil,gt=0"`
	Azimuth     *float64 `koanf:"azimuth" validate:"omitnil,gte=0,lte=360"`
	AzimuthTol  *float64 `koanf:"azimuth_tol" validate:"omitnil,gte=0,lte=180"`
	Damping     float64  `koanf:"damping" validate:"gte=0,lte=1"`
	MinEdges    int      `koanf:"min_edges" validate:"gte=1"`
}

// SourceConfig names the attributes and columns points are read from.
type SourceConfig struct {
	LabelProperty string `koanf:"label_property"`
	PartProperty  string `koanf:"part_property"`
	ColumnX       string `koanf:"column_x" validate:"required"`
	ColumnY       string `koanf:"column_y" validate:"required"`
	ColumnZ       string `koanf:"column_z"`
	ColumnLabel   string `koanf:"column_label"`
	ColumnPart    string `koanf:"column_part"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type ServeConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Detection: DetectionConfig{MinEdges: 1},
		Source: SourceConfig{
			LabelProperty: "label",
			ColumnX:       "x",
			ColumnY:       "y",
			ColumnZ:       "z",
			ColumnLabel:   "label",
			ColumnPart:    "part",
		},
		Log:   LogConfig{Level: "info"},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateOrientation, DetectionConfig{})
}

// validateOrientation requires azimuth and its tolerance to be set together.
func validateOrientation(sl validator.StructLevel) {
	d := sl.Current().Interface().(DetectionConfig)
	if (d.Azimuth == nil) != (d.AzimuthTol == nil) {
		sl.ReportError(d.AzimuthTol, "AzimuthTol", "azimuth_tol", "azimuth_pair", "")
	}
}

// Validate checks field ranges. The returned error wraps ErrInvalid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// WorkerCount resolves Workers, mapping 0 to the CPU count.
func (c *Config) WorkerCount() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Params converts the detection section into detector parameters.
func (d DetectionConfig) Params() trend.Params {
	return trend.Params{
		MaxDistance: d.MaxDistance,
		Azimuth:     d.Azimuth,
		AzimuthTol:  d.AzimuthTol,
		Damping:     d.Damping,
		MinEdges:    d.MinEdges,
	}
}

// Options converts the source section into reader options.
func (s SourceConfig) Options() dataset.Options {
	return dataset.Options{
		LabelProperty: s.LabelProperty,
		PartProperty:  s.PartProperty,
		Columns: dataset.Columns{
			X:     s.ColumnX,
			Y:     s.ColumnY,
			Z:     s.ColumnZ,
			Label: s.ColumnLabel,
			Part:  s.ColumnPart,
		},
	}
}
