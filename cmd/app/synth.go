package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/0x0FACED/go-trendlines/pkg/dataset"
	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// synthOptions describes a synthetic cloud: per label, Lines straight traces
// of Points points each, jittered by Noise, plus Clutter stray points.
type synthOptions struct {
	Width, Height float64
	Labels        int
	Lines         int
	Points        int
	Noise         float64
	Clutter       int
	// Random scatters trace origins and directions; otherwise origins sit on
	// a grid and every label has its own fixed direction.
	Random bool
	Seed   int64
}

func defaultSynthOptions() synthOptions {
	return synthOptions{
		Width:   1000,
		Height:  1000,
		Labels:  2,
		Lines:   4,
		Points:  12,
		Noise:   2,
		Clutter: 40,
		Seed:    1,
	}
}

const maxSynthPoints = 200_000

var synthOpts = defaultSynthOptions()

var synthCmd = &cobra.Command{
	Use:   "synth <output>",
	Short: "Write a synthetic labelled point cloud",
	Long: `Write a synthetic labelled point cloud as GeoJSON or CSV (by extension).

Examples:
  trendlines synth cloud.geojson
  trendlines synth --labels 3 --lines 6 --noise 5 --random cloud.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	f := synthCmd.Flags()
	f.Float64Var(&synthOpts.Width, "width", synthOpts.Width, "extent along X")
	f.Float64Var(&synthOpts.Height, "height", synthOpts.Height, "extent along Y")
	f.IntVar(&synthOpts.Labels, "labels", synthOpts.Labels, "number of label groups")
	f.IntVar(&synthOpts.Lines, "lines", synthOpts.Lines, "traces per label")
	f.IntVar(&synthOpts.Points, "points", synthOpts.Points, "points per trace")
	f.Float64Var(&synthOpts.Noise, "noise", synthOpts.Noise, "standard deviation of the jitter")
	f.IntVar(&synthOpts.Clutter, "clutter", synthOpts.Clutter, "stray points per label")
	f.BoolVar(&synthOpts.Random, "random", synthOpts.Random, "random trace origins and directions")
	f.Int64Var(&synthOpts.Seed, "seed", synthOpts.Seed, "random seed")
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, _ := runLogger(cfg.Log.Level)
	defer log.Sync()

	ds, err := synthesize(synthOpts)
	if err != nil {
		return err
	}
	if err := dataset.Write(args[0], ds); err != nil {
		return err
	}
	log.Info("[synth] Written", zap.String("path", args[0]), zap.Int("points", ds.Len()))
	return nil
}

func synthesize(o synthOptions) (*dataset.Dataset, error) {
	if o.Labels < 1 || o.Lines < 1 || o.Points < 2 {
		return nil, fmt.Errorf("synth: need at least 1 label, 1 line and 2 points per line")
	}
	if o.Width <= 0 || o.Height <= 0 || o.Noise < 0 || o.Clutter < 0 {
		return nil, fmt.Errorf("synth: extent must be positive, noise and clutter non-negative")
	}
	if total := o.Labels * (o.Lines*o.Points + o.Clutter); total > maxSynthPoints {
		return nil, fmt.Errorf("synth: %d points requested, limit is %d", total, maxSynthPoints)
	}

	rnd := rand.New(rand.NewSource(o.Seed))
	ds := &dataset.Dataset{}

	var origins []trend.Point
	if o.Random {
		origins = randOrigins(rnd, o.Labels*o.Lines, o.Width, o.Height)
	} else {
		origins = gridOrigins(o.Labels*o.Lines, o.Width, o.Height)
	}
	cols := math.Ceil(math.Sqrt(float64(len(origins))))
	length := 0.8 * math.Min(o.Width, o.Height) / cols

	for label := 1; label <= o.Labels; label++ {
		// азимут линий метки, по часовой от севера
		azimuth := math.Pi * float64(label) / float64(o.Labels+1)
		for l := 0; l < o.Lines; l++ {
			if o.Random {
				azimuth = rnd.Float64() * math.Pi
			}
			c := origins[(label-1)*o.Lines+l]
			dx, dy := math.Sin(azimuth), math.Cos(azimuth)
			step := length / float64(o.Points-1)
			for i := 0; i < o.Points; i++ {
				t := float64(i)*step - length/2
				ds.Points = append(ds.Points, trend.Point{
					X: c.X + t*dx + rnd.NormFloat64()*o.Noise,
					Y: c.Y + t*dy + rnd.NormFloat64()*o.Noise,
				})
				ds.Labels = append(ds.Labels, label)
			}
		}
		for i := 0; i < o.Clutter; i++ {
			ds.Points = append(ds.Points, trend.Point{X: rnd.Float64() * o.Width, Y: rnd.Float64() * o.Height})
			ds.Labels = append(ds.Labels, label)
		}
	}
	return ds, nil
}

// Случайные центры трасс
func randOrigins(rnd *rand.Rand, n int, width, height float64) []trend.Point {
	origins := make([]trend.Point, n)
	for i := range origins {
		origins[i] = trend.Point{X: rnd.Float64() * width, Y: rnd.Float64() * height}
	}
	return origins
}

// gridOrigins puts n centres on the cells of a near-square grid.
func gridOrigins(n int, width, height float64) []trend.Point {
	origins := make([]trend.Point, 0, n)

	rows := int(math.Sqrt(float64(n)))
	cols := (n + rows - 1) / rows

	xStep := width / float64(cols)
	yStep := height / float64(rows)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			// ячеек может быть больше, чем нужно центров
			if len(origins) == n {
				return origins
			}
			origins = append(origins, trend.Point{
				X: xStep/2 + float64(j)*xStep,
				Y: yStep/2 + float64(i)*yStep,
			})
		}
	}
	return origins
}
