package geometry

import (
	"errors"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
)

// ErrNoTelemetry signals that no position samples exist at all.
// Fatal to load: without samples there is no circuit.
var ErrNoTelemetry = errors.New("no telemetry samples to build circuit from")

const (
	DefaultViewportWidth  = 1280.0
	DefaultViewportHeight = 720.0
	DefaultMargin         = 50.0
)

// Builder derives the circuit outline and the telemetry-to-screen
// transform from a representative clean lap.
type Builder struct {
	viewportW   float64
	viewportH   float64
	margin      float64
	rotationDeg float64
	l           *log.Logger
}

type Option func(*Builder)

func WithViewport(width, height, margin float64) Option {
	return func(b *Builder) {
		b.viewportW = width
		b.viewportH = height
		b.margin = margin
	}
}

// WithRotation sets the circuit rotation in degrees, applied about the
// track centre before the screen mapping is derived.
func WithRotation(deg float64) Option {
	return func(b *Builder) {
		b.rotationDeg = deg
	}
}

func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		b.l = l
	}
}

func NewBuilder(opts ...Option) *Builder {
	ret := &Builder{
		viewportW: DefaultViewportWidth,
		viewportH: DefaultViewportHeight,
		margin:    DefaultMargin,
		l:         log.Default().Named("geometry"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Build produces the session's circuit geometry. The outline comes from
// the complete lap with the most samples across all tracks; when no
// complete lap exists the spatial fallback is used (degraded mode).
// The result is never recomputed mid-playback.
func (b *Builder) Build(tracks []*model.DriverTrack) (*model.CircuitGeometry, error) {
	outline, degraded := b.referenceOutline(tracks)
	if len(outline) == 0 {
		return nil, ErrNoTelemetry
	}
	outline = closePolyline(outline)

	geo := &model.CircuitGeometry{
		Outline:     outline,
		Box:         boundingBox(outline),
		StartFinish: outline[0],
		Degraded:    degraded,
	}
	geo.Transform = b.deriveTransform(geo)
	b.l.Info("circuit geometry built",
		log.Int("points", len(outline)),
		log.Bool("degraded", degraded),
		log.Float64("scale", geo.Transform.Scale))
	return geo, nil
}

// referenceOutline picks the best complete lap; any single clean lap is
// geometrically equivalent to the track outline.
func (b *Builder) referenceOutline(tracks []*model.DriverTrack) ([]model.Point, bool) {
	var best []model.TelemetrySample
	for _, t := range tracks {
		for _, lap := range completeLaps(t.Samples) {
			if len(lap) > len(best) {
				best = lap
			}
		}
	}
	if len(best) > 0 {
		return lo.Map(best, func(s model.TelemetrySample, _ int) model.Point {
			return model.Point{X: s.X, Y: s.Y}
		}), false
	}
	b.l.Warn("no complete lap found, using spatial fallback")
	return spatialFallback(tracks), true
}

// completeLaps splits a sample sequence at lap number increments and
// returns the interior runs. The first run may begin mid-lap and the
// last may be cut short, so neither qualifies.
func completeLaps(samples []model.TelemetrySample) [][]model.TelemetrySample {
	if len(samples) == 0 {
		return nil
	}
	var runs [][]model.TelemetrySample
	start := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].Lap != samples[i-1].Lap {
			runs = append(runs, samples[start:i])
			start = i
		}
	}
	runs = append(runs, samples[start:])
	if len(runs) <= 2 {
		return nil
	}
	return runs[1 : len(runs)-1]
}

// spatialFallback approximates the outline from the union of all samples
// sorted by angle around the centroid. Explicit degraded mode, not a
// failure.
func spatialFallback(tracks []*model.DriverTrack) []model.Point {
	var pts []model.Point
	for _, t := range tracks {
		for _, s := range t.Samples {
			pts = append(pts, model.Point{X: s.X, Y: s.Y})
		}
	}
	if len(pts) == 0 {
		return nil
	}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))
	slices.SortFunc(pts, func(a, b model.Point) int {
		angA := math.Atan2(a.Y-cy, a.X-cx)
		angB := math.Atan2(b.Y-cy, b.X-cx)
		switch {
		case angA < angB:
			return -1
		case angA > angB:
			return 1
		}
		return 0
	})
	return pts
}

func closePolyline(pts []model.Point) []model.Point {
	first := pts[0]
	last := pts[len(pts)-1]
	if first != last {
		pts = append(pts, first)
	}
	return pts
}

func boundingBox(pts []model.Point) model.BoundingBox {
	box := model.BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range pts {
		box.MinX = math.Min(box.MinX, p.X)
		box.MinY = math.Min(box.MinY, p.Y)
		box.MaxX = math.Max(box.MaxX, p.X)
		box.MaxY = math.Max(box.MaxY, p.Y)
	}
	return box
}

// deriveTransform fits the (rotated) bounding box into the viewport with
// uniform scale and margin, centred in the available area.
func (b *Builder) deriveTransform(geo *model.CircuitGeometry) model.Transform {
	center := geo.Box.Center()
	theta := b.rotationDeg * math.Pi / 180.0
	tr := model.Transform{
		CenterX: center.X,
		CenterY: center.Y,
		SinRot:  math.Sin(theta),
		CosRot:  math.Cos(theta),
		Scale:   1,
	}

	// bounding box of the rotated outline
	rotBox := model.BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range geo.Outline {
		rx, ry := tr.Apply(p.X, p.Y)
		rotBox.MinX = math.Min(rotBox.MinX, rx)
		rotBox.MinY = math.Min(rotBox.MinY, ry)
		rotBox.MaxX = math.Max(rotBox.MaxX, rx)
		rotBox.MaxY = math.Max(rotBox.MaxY, ry)
	}

	availW := b.viewportW - 2*b.margin
	availH := b.viewportH - 2*b.margin
	width := math.Max(rotBox.Width(), 1)
	height := math.Max(rotBox.Height(), 1)
	tr.Scale = math.Min(availW/width, availH/height)

	rotCenter := rotBox.Center()
	tr.OffsetX = b.viewportW/2 - rotCenter.X*tr.Scale
	tr.OffsetY = b.viewportH/2 - rotCenter.Y*tr.Scale
	return tr
}
