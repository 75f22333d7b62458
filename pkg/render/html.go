// Package render draws detected trend lines as an interactive chart or a raster image.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/0x0FACED/go-trendlines/pkg/dataset"
	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/0x0FACED/go-trendlines/pkg/voronoi"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// HTMLOptions controls the chart page.
type HTMLOptions struct {
	Title  string
	Width  string
	Height string
	// Voronoi overlays the Voronoi diagram of the input points.
	Voronoi bool
	Logger  *logger.ZapLogger
}

func (o HTMLOptions) withDefaults() HTMLOptions {
	if o.Title == "" {
		o.Title = "Линеаменты"
	}
	if o.Width == "" {
		o.Width = "1020px"
	}
	if o.Height == "" {
		o.Height = "580px"
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// HTML writes a standalone chart page.
func HTML(w io.Writer, ds *dataset.Dataset, res *trend.Result, o HTMLOptions) error {
	if err := Chart(ds, res, o).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func prepareScatter(scatter *charts.Scatter, o HTMLOptions) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: o.Height,
			Width:  o.Width,
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                o.Title,
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "X",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Y",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

// Chart builds the scatter of input points with every polyline, and optionally
// the Voronoi edges, overlapped as line series.
func Chart(ds *dataset.Dataset, res *trend.Result, o HTMLOptions) *charts.Scatter {
	o = o.withDefaults()
	scatter := charts.NewScatter()
	prepareScatter(scatter, o)

	points := make([]opts.ScatterData, 0, ds.Len())
	for _, p := range ds.Points {
		points = append(points, opts.ScatterData{Value: []float64{p.X, p.Y}})
	}
	scatter.AddSeries("Точки", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	if o.Voronoi {
		for _, edge := range voronoiEdges(ds, o.Logger) {
			scatter.Overlap(segment("Вороной", "#757575", 1, edge.Va, edge.Vb))
		}
	}

	if res != nil {
		for _, pl := range res.Polylines {
			data := make([]opts.LineData, len(pl.Vertices))
			for i, v := range pl.Vertices {
				p := res.Vertices[v]
				data[i] = opts.LineData{Value: []float64{p.X, p.Y}}
			}
			scatter.Overlap(line("Линии", colorOf(pl.Label), 2, data))
		}
	}

	return scatter
}

func segment(name, color string, width float32, a, b voronoi.Vertex) *charts.Line {
	return line(name, color, width, []opts.LineData{
		{Value: []float64{a.X, a.Y}},
		{Value: []float64{b.X, b.Y}},
	})
}

func line(name, color string, width float32, data []opts.LineData) *charts.Line {
	l := charts.NewLine()
	l.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
	)
	l.AddSeries(name, data).SetSeriesOptions(
		charts.WithLineStyleOpts(opts.LineStyle{
			Width: width,
			Color: color,
		}),
	)
	return l
}

var palette = []string{"#5470c6", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4", "#ea7ccc"}

func colorOf(label int) string {
	if label < 0 {
		label = -label
	}
	return palette[label%len(palette)]
}

// voronoiEdges is best effort: a sweep that fails on degenerate input only drops the overlay.
func voronoiEdges(ds *dataset.Dataset, log *logger.ZapLogger) (edges []*voronoi.Edge) {
	if ds.Len() < 2 {
		return nil
	}
	sites := make([]voronoi.Vertex, ds.Len())
	for i, p := range ds.Points {
		sites[i] = voronoi.Vertex{X: p.X, Y: p.Y}
	}
	box := voronoi.Bounds(sites, 0)
	pad := 0.05 * math.Max(box.Xr-box.Xl, box.Yb-box.Yt)
	if pad == 0 {
		pad = 1
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn("[render] Voronoi overlay skipped", zap.Any("panic", r))
			edges = nil
		}
	}()
	diagram := voronoi.CreateDiagram(sites, voronoi.Bounds(sites, pad), true, log)
	return diagram.Edges
}
