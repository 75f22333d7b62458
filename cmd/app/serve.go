package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/0x0FACED/go-trendlines/pkg/config"
	"github.com/0x0FACED/go-trendlines/pkg/dataset"
	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"github.com/0x0FACED/go-trendlines/pkg/metrics"
	"github.com/0x0FACED/go-trendlines/pkg/render"
	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/0x0FACED/go-trendlines/pkg/voronoi"
	"github.com/0x0FACED/go-trendlines/static"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive trend line page",
	Long: `Serve a page that generates a synthetic point cloud from the form
parameters, detects trend lines in it and shows the chart next to the logs
of the run. Prometheus metrics are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default serve.addr from the configuration)")
}

// pageParams are the form fields of the page. Optional numbers stay strings
// so that an empty field means "not set".
type pageParams struct {
	synthOptions
	Damping     float64
	MinEdges    int
	MaxDistance string
	Azimuth     string
	AzimuthTol  string
	Voronoi     bool
}

type pageHandler struct {
	cfg  *config.Config
	rec  *metrics.Recorder
	form *template.Template
}

func newPageHandler(cfg *config.Config, rec *metrics.Recorder) *pageHandler {
	return &pageHandler{
		cfg:  cfg,
		rec:  rec,
		form: template.Must(template.New("form").Parse(static.Form)),
	}
}

func (h *pageHandler) defaults() pageParams {
	p := pageParams{
		synthOptions: defaultSynthOptions(),
		Damping:      h.cfg.Detection.Damping,
		MinEdges:     h.cfg.Detection.MinEdges,
	}
	p.Lines = 3
	p.Clutter = 20
	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}
	p.MaxDistance = optional(h.cfg.Detection.MaxDistance)
	p.Azimuth = optional(h.cfg.Detection.Azimuth)
	p.AzimuthTol = optional(h.cfg.Detection.AzimuthTol)
	return p
}

// parseForm overlays the submitted fields on the defaults. Unparsable numbers keep the default.
func (h *pageHandler) parseForm(r *http.Request) pageParams {
	p := h.defaults()
	if r.Method != http.MethodPost {
		return p
	}
	if err := r.ParseForm(); err != nil {
		return p
	}

	intField := func(name string, dst *int) {
		if v, err := strconv.Atoi(r.FormValue(name)); err == nil {
			*dst = v
		}
	}
	floatField := func(name string, dst *float64) {
		if v, err := strconv.ParseFloat(r.FormValue(name), 64); err == nil {
			*dst = v
		}
	}
	intField("lines", &p.Lines)
	intField("points", &p.Points)
	intField("labels", &p.Labels)
	intField("clutter", &p.Clutter)
	intField("min_edges", &p.MinEdges)
	floatField("noise", &p.Noise)
	floatField("damping", &p.Damping)
	p.MaxDistance = r.FormValue("max_distance")
	p.Azimuth = r.FormValue("azimuth")
	p.AzimuthTol = r.FormValue("azimuth_tol")
	p.Random = r.FormValue("random") == "true"
	p.Voronoi = r.FormValue("voronoi") == "true"
	if p.Random {
		p.Seed = time.Now().UnixNano()
	}
	return p
}

func (p pageParams) detection() (trend.Params, error) {
	params := trend.Params{Damping: p.Damping, MinEdges: p.MinEdges}
	for _, f := range []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"max_distance", p.MaxDistance, &params.MaxDistance},
		{"azimuth", p.Azimuth, &params.Azimuth},
		{"azimuth_tol", p.AzimuthTol, &params.AzimuthTol},
	} {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return params, fmt.Errorf("%s: %q is not a number", f.name, f.raw)
		}
		*f.dst = &v
	}
	return params, params.Validate()
}

// http обработчик страницы с графиком и формой для ввода параметров
func (h *pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := h.parseForm(r)

	log := logger.New(logger.Config{Level: h.cfg.Log.Level, Console: os.Stderr, Capture: true}).
		With(zap.String("run_id", uuid.New().String()))
	defer log.ClearLogs()

	ds, res := h.run(r.Context(), p, log)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintln(w, static.Part1)
	if err := h.form.Execute(w, p); err != nil {
		log.Error("[serve] Form rendering failed", zap.Error(err))
	}
	if ds != nil {
		chart := render.Chart(ds, res, render.HTMLOptions{Voronoi: p.Voronoi, Logger: log})
		if err := chart.Render(w); err != nil {
			log.Error("[serve] Chart rendering failed", zap.Error(err))
		}
	}
	fmt.Fprintln(w, static.Part2)
	fmt.Fprintln(w, log.HTML())
	fmt.Fprintln(w, static.Part3)
}

// run generates the cloud and detects lines. Failures are logged to the page.
func (h *pageHandler) run(ctx context.Context, p pageParams, log *logger.ZapLogger) (*dataset.Dataset, *trend.Result) {
	ds, err := synthesize(p.synthOptions)
	if err != nil {
		log.Error("[serve] Bad cloud parameters", zap.Error(err))
		return nil, nil
	}
	params, err := p.detection()
	if err != nil {
		log.Error("[serve] Bad detection parameters", zap.Error(err))
		return ds, nil
	}

	start := time.Now()
	det := trend.NewDetector(voronoi.NewTriangulator(log),
		trend.WithWorkers(h.cfg.WorkerCount()),
		trend.WithLogger(log),
	)
	res, err := det.Detect(ctx, ds.Input(), params)
	h.rec.Observe(res, err, time.Since(start))
	if err != nil {
		log.Error("[serve] Detection failed", zap.Error(err))
		return ds, nil
	}
	if !res.Found() {
		log.Info("[serve] no connections found")
	}
	return ds, res
}

func newMux(cfg *config.Config, rec *metrics.Recorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", newPageHandler(cfg, rec))
	mux.Handle("/metrics", rec.Handler())
	return mux
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	log := logger.Stderr(cfg.Log.Level)
	defer log.Sync()

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           newMux(cfg, metrics.NewRecorder()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("[serve] Сервер запущен", zap.String("addr", cfg.Serve.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("[serve] Shutting down")
	return srv.Shutdown(ctx)
}
