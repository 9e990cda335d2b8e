package model

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BoundingBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (b BoundingBox) Width() float64  { return b.MaxX - b.MinX }
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

func (b BoundingBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Transform maps telemetry space to screen space: rotation about the
// track centre, then uniform scale and offset. It is the single source
// of truth for the conversion; screen coordinates are never stored.
type Transform struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	SinRot  float64 `json:"sinRot"`
	CosRot  float64 `json:"cosRot"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

func IdentityTransform() Transform {
	return Transform{CosRot: 1, Scale: 1}
}

func (tr Transform) Apply(x, y float64) (sx, sy float64) {
	rx := (x-tr.CenterX)*tr.CosRot - (y-tr.CenterY)*tr.SinRot + tr.CenterX
	ry := (x-tr.CenterX)*tr.SinRot + (y-tr.CenterY)*tr.CosRot + tr.CenterY
	return rx*tr.Scale + tr.OffsetX, ry*tr.Scale + tr.OffsetY
}

// CircuitGeometry is the derived 2D outline of the track.
// Built once per session, read-only afterwards.
type CircuitGeometry struct {
	Outline     []Point     `json:"outline"` // closed: first and last point coincide
	Box         BoundingBox `json:"box"`
	StartFinish Point       `json:"startFinish"`
	Transform   Transform   `json:"transform"`
	Degraded    bool        `json:"degraded"` // true when built from the spatial fallback
}

// Closed reports whether the outline endpoints coincide within tolerance.
func (g *CircuitGeometry) Closed(tol float64) bool {
	if len(g.Outline) < 2 {
		return false
	}
	first := g.Outline[0]
	last := g.Outline[len(g.Outline)-1]
	return math.Hypot(first.X-last.X, first.Y-last.Y) <= tol
}
