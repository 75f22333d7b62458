package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/0x0FACED/go-trendlines/pkg/config"
	"github.com/0x0FACED/go-trendlines/pkg/dataset"
	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"github.com/0x0FACED/go-trendlines/pkg/render"
	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/0x0FACED/go-trendlines/pkg/voronoi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// detectOptions are the outputs of one detect run.
type detectOptions struct {
	Output    string
	PNG       string
	PNGSize   int
	LineWidth float64
	HTML      string
	Voronoi   bool
}

var detectOpts = detectOptions{PNGSize: 2048, LineWidth: 2}

var detectCmd = &cobra.Command{
	Use:   "detect <input>",
	Short: "Detect trend lines in a GeoJSON or CSV point file",
	Long: `Detect trend lines in a GeoJSON or CSV point file and write them as
GeoJSON LineStrings, optionally also as a PNG raster and an HTML chart.

Examples:
  trendlines detect points.geojson -o lines.geojson
  trendlines detect points.csv --damping 0.3 --min-edges 3 --png lines.png
  trendlines detect faults.geojson --azimuth 45 --azimuth-tol 15 --html faults.html`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	f := detectCmd.Flags()
	f.StringVarP(&detectOpts.Output, "output", "o", "", "GeoJSON output file (default stdout)")
	f.StringVar(&detectOpts.PNG, "png", "", "also draw the lines into this PNG file")
	f.IntVar(&detectOpts.PNGSize, "png-size", detectOpts.PNGSize, "PNG size in pixels")
	f.Float64Var(&detectOpts.LineWidth, "line-width", detectOpts.LineWidth, "PNG line width in pixels")
	f.StringVar(&detectOpts.HTML, "html", "", "also write an HTML chart to this file")
	f.BoolVar(&detectOpts.Voronoi, "voronoi", false, "overlay the Voronoi diagram in the HTML chart")

	f.Float64("damping", 0, "0 prefers straight continuations, 1 short edges")
	f.Int("min-edges", 1, "edges a line needs to be kept")
	f.Float64("max-distance", 0, "drop candidate edges longer than this")
	f.Float64("azimuth", 0, "keep only edges along this azimuth (degrees from north)")
	f.Float64("azimuth-tol", 0, "azimuth tolerance in degrees")
	f.Int("workers", 0, "label groups processed at once (0 = all CPUs)")
	f.String("label-property", "", "GeoJSON property or CSV column holding the label")
	f.String("part-property", "", "GeoJSON property or CSV column holding the part id")
}

// applyFlags copies explicitly set flags over the configuration.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "damping":
			cfg.Detection.Damping, err = fs.GetFloat64(f.Name)
		case "min-edges":
			cfg.Detection.MinEdges, err = fs.GetInt(f.Name)
		case "max-distance":
			cfg.Detection.MaxDistance, err = floatFlag(fs, f.Name)
		case "azimuth":
			cfg.Detection.Azimuth, err = floatFlag(fs, f.Name)
		case "azimuth-tol":
			cfg.Detection.AzimuthTol, err = floatFlag(fs, f.Name)
		case "workers":
			cfg.Workers, err = fs.GetInt(f.Name)
		case "label-property":
			cfg.Source.LabelProperty, err = fs.GetString(f.Name)
			cfg.Source.ColumnLabel = cfg.Source.LabelProperty
		case "part-property":
			cfg.Source.PartProperty, err = fs.GetString(f.Name)
			cfg.Source.ColumnPart = cfg.Source.PartProperty
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func floatFlag(fs *pflag.FlagSet, name string) (*float64, error) {
	v, err := fs.GetFloat64(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd.Flags()); err != nil {
		return err
	}
	log, runID := runLogger(cfg.Log.Level)
	defer log.Sync()

	return detect(cmd.Context(), cfg, args[0], detectOpts, runID, cmd.OutOrStdout(), log)
}

func detect(ctx context.Context, cfg *config.Config, input string, o detectOptions, runID string, stdout io.Writer, log *logger.ZapLogger) error {
	ds, err := dataset.Read(input, cfg.Source.Options())
	if err != nil {
		return err
	}
	log.Info("[detect] Points loaded", zap.String("path", input), zap.Int("points", ds.Len()))

	det := trend.NewDetector(voronoi.NewTriangulator(log),
		trend.WithWorkers(cfg.WorkerCount()),
		trend.WithLogger(log),
	)
	res, err := det.Detect(ctx, ds.Input(), cfg.Detection.Params())
	if err != nil {
		return err
	}
	if !res.Found() {
		log.Info("[detect] no connections found", zap.String("path", input))
	}
	for _, g := range res.Groups {
		if g.Skipped != "" {
			log.Warn("[detect] Group skipped", zap.Int("label", g.Label), zap.String("reason", g.Skipped))
		}
	}

	if err := writeTo(o.Output, stdout, func(w io.Writer) error {
		return dataset.WriteGeoJSON(w, res, runID)
	}); err != nil {
		return err
	}
	if o.PNG != "" {
		if err := writeTo(o.PNG, nil, func(w io.Writer) error {
			return render.PNG(w, res, o.PNGSize, o.LineWidth)
		}); err != nil {
			return err
		}
		log.Info("[detect] PNG written", zap.String("path", o.PNG))
	}
	if o.HTML != "" {
		if err := writeTo(o.HTML, nil, func(w io.Writer) error {
			return render.HTML(w, ds, res, render.HTMLOptions{Voronoi: o.Voronoi, Logger: log})
		}); err != nil {
			return err
		}
		log.Info("[detect] HTML written", zap.String("path", o.HTML))
	}
	return nil
}

// writeTo writes to path, or to fallback when path is empty.
func writeTo(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
