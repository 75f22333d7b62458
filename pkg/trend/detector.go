package trend

import (
	"context"
	"sort"
	"time"

	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Detector runs trend line detection over all label groups of an input.
type Detector struct {
	tri     Triangulator
	log     *logger.ZapLogger
	workers int
}

type Option func(*Detector)

// WithWorkers processes up to n label groups at once. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(d *Detector) {
		if n < 1 {
			n = 1
		}
		d.workers = n
	}
}

func WithLogger(log *logger.ZapLogger) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDetector(tri Triangulator, opts ...Option) *Detector {
	d := &Detector{tri: tri, log: logger.Nop(), workers: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// group is the set of input indices sharing one non-zero label.
type group struct {
	label   int
	indices []int
}

// Detect finds trend lines in every label group of in.
//
// Configuration and input shape errors are returned before any work starts.
// A group whose triangulation fails is skipped and reported in Result.Groups;
// the remaining groups still run. The only error after that point is the
// cancellation of ctx, which is checked before each group. A result without
// connections is returned as is; check Result.Found.
func (d *Detector) Detect(ctx context.Context, in Input, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	groups := groupByLabel(in.Labels)
	d.log.Info("[detect] Start",
		zap.Int("points", len(in.Points)),
		zap.Int("groups", len(groups)),
		zap.Float64("damping", p.Damping),
		zap.Int("min_edges", p.minEdges()),
		zap.Int("workers", d.workers),
	)

	found := make([]groupPaths, len(groups))
	stats := make([]GroupStats, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i], stats[i] = d.runGroup(in, grp, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := assemble(in.Points, found)
	res.Groups = stats

	if !res.Found() {
		d.log.Info("[detect] No connections found", zap.Duration("took", time.Since(start)))
		return res, nil
	}
	d.log.Info("[detect] Done",
		zap.Int("polylines", len(res.Polylines)),
		zap.Int("vertices", len(res.Vertices)),
		zap.Int("cells", len(res.Cells)),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (d *Detector) runGroup(in Input, grp group, p Params) (groupPaths, GroupStats) {
	stats := GroupStats{Label: grp.label, Points: len(grp.indices)}
	out := groupPaths{label: grp.label}
	log := d.log.With(zap.Int("label", grp.label))

	if len(grp.indices) < 2 {
		stats.Skipped = "fewer than 2 points"
		log.Debug("[group] Skipped", zap.String("reason", stats.Skipped))
		return out, stats
	}

	pos := make([][2]float64, len(grp.indices))
	labels := make([]int, len(grp.indices))
	parts := make([]int, len(grp.indices))
	for i, idx := range grp.indices {
		pos[i] = in.Points[idx].xy()
		labels[i] = in.Labels[idx]
		if in.Parts != nil {
			parts[i] = in.Parts[idx]
		} else {
			parts[i] = idx
		}
	}

	cands, err := BuildCandidates(d.tri, pos, labels, parts, p.MaxDistance)
	if err != nil {
		stats.Skipped = err.Error()
		log.Warn("[group] Triangulation failed, group skipped", zap.Error(err))
		return out, stats
	}
	if az, tol, ok := p.orientation(); ok {
		before := len(cands)
		cands = FilterOrientation(pos, cands, az, tol)
		log.Debug("[group] Orientation filter", zap.Int("before", before), zap.Int("after", len(cands)))
	}
	stats.Candidates = len(cands)

	paths, rejected, err := Walk(pos, cands, p.Damping, p.minEdges())
	if err != nil {
		// damping is validated up front
		stats.Skipped = err.Error()
		return out, stats
	}
	stats.Accepted = len(paths)
	stats.Rejected = rejected

	for _, path := range paths {
		global := make([]int, len(path))
		for i, local := range path {
			global[i] = grp.indices[local]
		}
		out.paths = append(out.paths, global)
	}

	log.Debug("[group] Walked",
		zap.Int("points", stats.Points),
		zap.Int("candidates", stats.Candidates),
		zap.Int("accepted", stats.Accepted),
		zap.Int("rejected", stats.Rejected),
	)
	return out, stats
}

// groupByLabel lists the non-zero labels in ascending order with their point indices.
func groupByLabel(labels []int) []group {
	byLabel := make(map[int][]int)
	for i, l := range labels {
		if l == 0 {
			continue
		}
		byLabel[l] = append(byLabel[l], i)
	}

	groups := make([]group, 0, len(byLabel))
	for l, idx := range byLabel {
		groups = append(groups, group{label: l, indices: idx})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].label < groups[j].label })
	return groups
}
