package mesh

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	costumy "github.com/zalo/Costumy"
	"github.com/zalo/Costumy/internal/parallel"
)

// unitDivisor sets the boundary resolution: the subdivision unit is
// the shortest edge length in the pattern divided by this.
const unitDivisor = 6

// matchTolerance is the per-axis relative tolerance used to recognize
// boundary subdivision points among the triangulation's points.
const matchTolerance = 1e-3

// defaultMaxAttempts bounds the triangulation retry loop.
const defaultMaxAttempts = 40

type config struct {
	maxAttempts int
	workers     int
}

// Option adjusts how Prepare runs.
type Option func(*config)

// WithMaxAttempts bounds the triangulation retry loop. The default is
// 40 attempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithWorkers sets the number of goroutines used for the per-panel
// stages. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// Prepare turns a stitched pattern into a Mesh, filling each panel
// interior with tri.
//
// Every panel boundary is subdivided at a spacing derived from the
// shortest edge in the whole pattern, so panels that end up sewn
// together meet at compatible resolutions. The subdivided boundaries
// are built once; the retry loop only moves the engine's area
// constraint between attempts, nudged a little each time because the
// engine dies on some exact constraint values. After triangulation
// each edge's subdivision points are recovered among the output
// points, the panels are placed in 3D, and one seam edge is added per
// matched vertex pair along every stitch.
//
// The per-panel stages run concurrently; the result is identical to a
// serial run.
func Prepare(ctx context.Context, pat *costumy.Pattern, tri Triangulator, opts ...Option) (*Mesh, error) {
	cfg := config{maxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(&cfg)
	}
	if tri == nil {
		return nil, fmt.Errorf("%w: no triangulator", costumy.ErrConfigurationMismatch)
	}
	if pat == nil || len(pat.Panels) == 0 {
		return nil, fmt.Errorf("%w: pattern has no panels", costumy.ErrMalformedGeometry)
	}
	if err := checkStitches(pat); err != nil {
		return nil, err
	}
	unit, err := subdivisionUnit(pat)
	if err != nil {
		return nil, err
	}

	jobs := make([]*panelJob, len(pat.Panels))
	for i, p := range pat.Panels {
		jobs[i] = &panelJob{panel: p}
	}

	pool := parallel.NewWorkerPool(cfg.workers)
	defer pool.Close()

	forEachJob(pool, jobs, func(j *panelJob) { j.subdivide(unit) })

	attempts, err := triangulateAll(ctx, jobs, tri, unit, cfg.maxAttempts)
	if err != nil {
		return nil, err
	}

	forEachJob(pool, jobs, func(j *panelJob) {
		j.reconcile()
		j.place()
	})

	m, offsets := assemble(jobs)
	sew(m, pat, jobs, offsets)
	m.Attempts = attempts

	costumy.Logger().Info("prepared mesh", "panels", len(jobs), "vertices", len(m.Vertices),
		"faces", len(m.Faces), "seams", len(m.Seams), "attempts", attempts)
	return m, nil
}

// checkStitches re-validates the pattern's stitches against the
// current edge lists. Stitches index edges by position, so any panel
// edit since they were declared can leave them dangling; better to
// refuse here than to sew a seam to the wrong edge.
func checkStitches(pat *costumy.Pattern) error {
	for _, s := range pat.Stitches {
		for _, side := range s {
			p, ok := pat.Panel(side.Panel)
			if !ok {
				return fmt.Errorf("%w: stitch references unknown panel %q",
					costumy.ErrConfigurationMismatch, side.Panel)
			}
			if side.Edge < 0 || side.Edge >= len(p.Edges) {
				return fmt.Errorf("%w: stitch references edge %d of panel %q, which has %d edges",
					costumy.ErrConfigurationMismatch, side.Edge, side.Panel, len(p.Edges))
			}
		}
	}
	return nil
}

// subdivisionUnit returns the common boundary spacing: the shortest
// edge length in the pattern divided by unitDivisor.
func subdivisionUnit(pat *costumy.Pattern) (float64, error) {
	shortest := math.Inf(1)
	for _, p := range pat.Panels {
		if len(p.Edges) == 0 {
			return 0, fmt.Errorf("%w: panel %q has no edges", costumy.ErrMalformedGeometry, p.Name)
		}
		for _, e := range p.Edges {
			if l := e.Length(); l < shortest {
				shortest = l
			}
		}
	}
	unit := shortest / unitDivisor
	if !(unit > 0) {
		return 0, fmt.Errorf("%w: pattern has a zero-length edge", costumy.ErrMalformedGeometry)
	}
	return unit, nil
}

// panelJob carries one panel through the per-panel stages.
type panelJob struct {
	panel *costumy.Panel

	// shape is the subdivided boundary sent to the triangulator;
	// edgeSubs keeps each edge's own subdivision points for the later
	// reconciliation.
	shape    Shape
	edgeSubs [][][2]float64

	// topo is the accepted triangulation of shape.
	topo *Triangulation

	// matches lists, per edge, the topo vertex indices recognized as
	// that edge's subdivision points.
	matches [][]int

	// placed holds topo's points in 3D, in the simulator convention.
	placed [][3]float64

	// lowest is the elementwise minimum over placed. It anchors the
	// ordering of seam correspondences on both sides of a stitch.
	lowest [3]float64
}

// forEachJob runs fn over the jobs on the pool and waits for all of
// them. Results land in the jobs themselves, so scheduling order never
// shows in the output.
func forEachJob(pool *parallel.WorkerPool, jobs []*panelJob, fn func(*panelJob)) {
	work := make([]func(), len(jobs))
	for i, j := range jobs {
		job := j
		work[i] = func() { fn(job) }
	}
	pool.ExecuteAll(work)
}

// subdivide samples every edge at roughly unit spacing and chains the
// samples into the triangulator input. Each edge keeps its own sample
// run, junctions included, so consecutive edges repeat the shared
// point; the engine merges coincident points itself.
func (j *panelJob) subdivide(unit float64) {
	j.edgeSubs = make([][][2]float64, len(j.panel.Edges))
	for i, e := range j.panel.Edges {
		steps := int(math.Round(e.Length() / unit))
		if steps < 1 {
			steps = 1
		}
		pts := e.Sample(steps)
		subs := make([][2]float64, len(pts))
		for k, pt := range pts {
			subs[k] = [2]float64{pt.X, pt.Y}
		}
		j.edgeSubs[i] = subs
		j.shape.Vertices = append(j.shape.Vertices, subs...)
	}
	j.shape.Segments = make([][2]int, 0, len(j.shape.Vertices)-1)
	for i := 0; i+1 < len(j.shape.Vertices); i++ {
		j.shape.Segments = append(j.shape.Segments, [2]int{i, i + 1})
	}
}

// triangulateAll drives the bounded retry loop around tri. Shapes are
// fixed before the first attempt; only the area constraint changes.
// A failure of any panel discards the whole attempt.
func triangulateAll(ctx context.Context, jobs []*panelJob, tri Triangulator, unit float64, maxAttempts int) (int, error) {
	base := roundTo(0.5*unit*unit, 5)
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}
		nudge := 0.01
		if attempt > 1 {
			nudge = float64(attempt) * 0.02
		}
		quality := "pqa" + strconv.FormatFloat(base+nudge, 'g', -1, 64) + "e"

		lastErr = nil
		for _, j := range jobs {
			topo, err := tri.Triangulate(ctx, j.shape, quality)
			if err != nil {
				if ctx.Err() != nil {
					return attempt, err
				}
				costumy.Logger().Warn("triangulation attempt failed", "attempt", attempt,
					"panel", j.panel.Name, "quality", quality, "error", err)
				lastErr = err
				break
			}
			j.topo = topo
		}
		if lastErr == nil {
			return attempt, nil
		}
	}
	return maxAttempts, fmt.Errorf("%w: triangulation failed after %d attempts: %v",
		costumy.ErrRetryBudget, maxAttempts, lastErr)
}

// reconcile finds each edge's subdivision points among the
// triangulation's boundary segment endpoints. The engine renumbers
// and merges points, so identity is recovered by closeness rather
// than by index.
func (j *panelJob) reconcile() {
	j.matches = make([][]int, len(j.edgeSubs))
	for i, subs := range j.edgeSubs {
		var found []int
		for _, seg := range j.topo.Segments {
			start := j.topo.Vertices[seg[0]]
			end := j.topo.Vertices[seg[1]]
			for _, sub := range subs {
				if closePoint(start, sub) {
					found = appendIndex(found, seg[0])
				}
				if closePoint(end, sub) {
					found = appendIndex(found, seg[1])
				}
			}
		}
		if len(found) == 0 {
			costumy.Logger().Warn("edge has no triangulated matches",
				"panel", j.panel.Name, "edge", i)
		}
		j.matches[i] = found
	}
}

// appendIndex appends idx unless it is already present, keeping the
// discovery order.
func appendIndex(list []int, idx int) []int {
	for _, v := range list {
		if v == idx {
			return list
		}
	}
	return append(list, idx)
}

// closePoint reports whether two points agree on both axes within
// matchTolerance, relative to the larger magnitude per axis.
func closePoint(a, b [2]float64) bool {
	return isClose(a[0], b[0]) && isClose(a[1], b[1])
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= matchTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// place lifts the triangulation into 3D. Panels are authored facing
// the viewer with X right and Y up; the simulator wants Z up and Y
// pointing backward. A boundary point (x, y) embeds as (x, 0, y) and
// the panel's placement is remapped on the way in: rotation
// (rx, ry, rz) applies about X with rx, then about Y with rz, then
// about Z with ry, and translation (tx, ty, tz) lands as (tx, -tz, ty).
func (j *panelJob) place() {
	rot := j.panel.Rotation
	rx := r3.NewRotation(radians(rot[0]), r3.Vec{X: 1})
	ry := r3.NewRotation(radians(rot[2]), r3.Vec{Y: 1})
	rz := r3.NewRotation(radians(rot[1]), r3.Vec{Z: 1})
	t := r3.Vec{
		X: j.panel.Translation[0],
		Y: -j.panel.Translation[2],
		Z: j.panel.Translation[1],
	}

	j.placed = make([][3]float64, len(j.topo.Vertices))
	lowest := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	for i, p := range j.topo.Vertices {
		v := r3.Vec{X: p[0], Y: 0, Z: p[1]}
		v = rz.Rotate(ry.Rotate(rx.Rotate(v)))
		v = r3.Add(v, t)
		j.placed[i] = [3]float64{v.X, v.Y, v.Z}
		for axis, c := range j.placed[i] {
			if c < lowest[axis] {
				lowest[axis] = c
			}
		}
	}
	j.lowest = lowest
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// assemble concatenates the placed panels into one mesh in panel
// order, shifting each panel's indices past the vertices that came
// before it. The returned offsets are the per-panel index shifts.
func assemble(jobs []*panelJob) (*Mesh, []int) {
	m := &Mesh{}
	offsets := make([]int, len(jobs))
	for i, j := range jobs {
		off := len(m.Vertices)
		offsets[i] = off
		m.Vertices = append(m.Vertices, j.placed...)
		for _, e := range j.topo.Edges {
			m.Edges = append(m.Edges, [2]int{e[0] + off, e[1] + off})
		}
		for _, f := range j.topo.Triangles {
			m.Faces = append(m.Faces, [3]int{f[0] + off, f[1] + off, f[2] + off})
		}
	}
	return m, offsets
}

// sew adds one edge per matched vertex pair along every stitch. Both
// sides are ordered by distance to their own panel's lowest point so
// the pairing walks the two boundaries in the same direction; pairing
// by raw list position would cross the seam whenever the engine
// numbered the two sides differently. Sides of unequal length are
// paired up to the shorter one.
func sew(m *Mesh, pat *costumy.Pattern, jobs []*panelJob, offsets []int) {
	byName := make(map[string]int, len(jobs))
	for i, j := range jobs {
		byName[j.panel.Name] = i
	}
	for _, s := range pat.Stitches {
		a := seamSide(m, jobs[byName[s[0].Panel]], offsets[byName[s[0].Panel]], s[0].Edge)
		b := seamSide(m, jobs[byName[s[1].Panel]], offsets[byName[s[1].Panel]], s[1].Edge)
		for i := 0; i < min(len(a), len(b)); i++ {
			pair := [2]int{a[i], b[i]}
			m.Edges = append(m.Edges, pair)
			m.Seams = append(m.Seams, pair)
		}
	}
}

// seamSide returns the edge's matched vertex indices shifted into the
// global mesh, nearest to the panel's own lowest point first.
func seamSide(m *Mesh, j *panelJob, offset, edge int) []int {
	global := make([]int, len(j.matches[edge]))
	for i, idx := range j.matches[edge] {
		global[i] = idx + offset
	}
	low := r3.Vec{X: j.lowest[0], Y: j.lowest[1], Z: j.lowest[2]}
	sort.SliceStable(global, func(a, b int) bool {
		return distance(m.Vertices[global[a]], low) < distance(m.Vertices[global[b]], low)
	})
	return global
}

func distance(v [3]float64, to r3.Vec) float64 {
	return r3.Norm(r3.Sub(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, to))
}

// roundTo rounds x to the given number of decimals.
func roundTo(x float64, digits int) float64 {
	f := math.Pow(10, float64(digits))
	return math.Round(x*f) / f
}
