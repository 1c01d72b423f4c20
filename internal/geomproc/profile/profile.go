// Package profile implements the 2D profile processor (C5), void
// classification (C6), and an even-odd profile-minus-void subtraction
// helper. The extrusion processor merges through-voids with
// ProfileWithThroughHoles rather than SubtractVoidsEvenOdd.
//
// Grounded on original_source/rust/geometry/src/profile.rs for the
// parametric constructors (rectangle/circle/I-shape) and segment-count
// formula, and bool2d.rs for the winding/area/point-in-contour helpers
// (re-implemented on the standard library since no polygon-boolean
// library is present anywhere in the example pack — see DESIGN.md).
package profile

import "math"

// Point2 is a 2D point in profile-local coordinates.
type Point2 struct{ X, Y float64 }

// Profile2D is a 2D boundary with optional holes: outer loop
// counter-clockwise, hole loops clockwise, each loop at least 3 points.
type Profile2D struct {
	Outer []Point2
	Holes [][]Point2
}

// AddHole appends a hole loop, normalizing it to clockwise winding.
func (p *Profile2D) AddHole(hole []Point2) {
	p.Holes = append(p.Holes, EnsureCW(hole))
}

// VoidInfo classifies a void contour's depth range within an extrusion.
type VoidInfo struct {
	Contour    []Point2
	DepthStart float64
	DepthEnd   float64
	Through    bool
}

// NewThroughVoid builds a void spanning the whole extrusion depth.
func NewThroughVoid(contour []Point2, totalDepth float64) VoidInfo {
	return VoidInfo{Contour: contour, DepthStart: 0, DepthEnd: totalDepth, Through: true}
}

// classifyVoidEpsilon is the tolerance used to decide "through" vs
// "partial" at the depth extremes (§4.6).
const classifyVoidEpsilon = 1e-6

// ClassifyVoid decides through-vs-partial for a void given its raw depth
// range and the extrusion's total depth, per §4.6.
func ClassifyVoid(contour []Point2, depthStart, depthEnd, totalDepth float64) VoidInfo {
	through := depthStart <= classifyVoidEpsilon && depthEnd >= totalDepth-classifyVoidEpsilon
	return VoidInfo{Contour: contour, DepthStart: depthStart, DepthEnd: depthEnd, Through: through}
}

// ProfileWithVoids pairs a base profile with its void list.
type ProfileWithVoids struct {
	Profile Profile2D
	Voids   []VoidInfo
}

// ThroughVoids returns the subset of voids spanning the full depth.
func (pv ProfileWithVoids) ThroughVoids() []VoidInfo {
	var out []VoidInfo
	for _, v := range pv.Voids {
		if v.Through {
			out = append(out, v)
		}
	}
	return out
}

// PartialVoids returns the subset of voids that do not span the full depth.
func (pv ProfileWithVoids) PartialVoids() []VoidInfo {
	var out []VoidInfo
	for _, v := range pv.Voids {
		if !v.Through {
			out = append(out, v)
		}
	}
	return out
}

// ProfileWithThroughHoles clones the base profile and adds each
// through-void's contour as an additional hole, ready for single-pass
// triangulation + extrusion.
func (pv ProfileWithVoids) ProfileWithThroughHoles() Profile2D {
	out := Profile2D{Outer: append([]Point2{}, pv.Profile.Outer...)}
	out.Holes = append(out.Holes, pv.Profile.Holes...)
	for _, v := range pv.ThroughVoids() {
		out.Holes = append(out.Holes, EnsureCW(v.Contour))
	}
	return out
}

//-----------------------------------------------------------------------------
// Parametric constructors (C5).

// NewRectangle builds a rectangle profile centred at the origin with the
// exact CCW corner order from original_source: bottom-left, bottom-right,
// top-right, top-left.
func NewRectangle(width, height float64) Profile2D {
	hw, hh := width/2, height/2
	return Profile2D{Outer: []Point2{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}}
}

// CircleSegments returns the adaptive segment count for a circle of the
// given radius: clamp(ceil(sqrt(r)*8), 8, 32).
func CircleSegments(radius float64) int {
	n := int(math.Ceil(math.Sqrt(radius) * 8.0))
	if n < 8 {
		return 8
	}
	if n > 32 {
		return 32
	}
	return n
}

// NewCircle samples a circle (optionally hollow) into a polygon. The
// hole, if present, is sampled then reversed to enforce clockwise winding.
func NewCircle(radius float64, holeRadius *float64) Profile2D {
	segs := CircleSegments(radius)
	outer := sampleCircle(radius, segs)
	p := Profile2D{Outer: outer}
	if holeRadius != nil && *holeRadius > 0 {
		hole := sampleCircle(*holeRadius, CircleSegments(*holeRadius))
		reverse(hole)
		p.Holes = append(p.Holes, hole)
	}
	return p
}

func sampleCircle(radius float64, segments int) []Point2 {
	pts := make([]Point2, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Point2{radius * math.Cos(angle), radius * math.Sin(angle)}
	}
	return pts
}

func reverse(pts []Point2) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// NewIShape builds a 12-corner I-beam profile (W x H, web thickness tw,
// flange thickness tf) in CCW order: bottom flange, right web, top
// flange, left web.
func NewIShape(w, h, tw, tf float64) Profile2D {
	hw, hh := w/2, h/2
	htw := tw / 2
	innerY := hh - tf
	return Profile2D{Outer: []Point2{
		{-hw, -hh},
		{hw, -hh},
		{hw, -innerY},
		{htw, -innerY},
		{htw, innerY},
		{hw, innerY},
		{hw, hh},
		{-hw, hh},
		{-hw, innerY},
		{-htw, innerY},
		{-htw, -innerY},
		{-hw, -innerY},
	}}
}

//-----------------------------------------------------------------------------
// Winding / area / containment helpers (C6), grounded on bool2d.rs.

// SignedArea computes the signed area of a contour (positive = CCW).
func SignedArea(contour []Point2) float64 {
	if len(contour) < 3 {
		return 0
	}
	area := 0.0
	n := len(contour)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += contour[i].X*contour[j].Y - contour[j].X*contour[i].Y
	}
	return area * 0.5
}

// degenerateAreaThreshold matches bool2d.rs's MIN_AREA_THRESHOLD.
const degenerateAreaThreshold = 1e-10

// IsDegenerate reports whether a loop's absolute area is below the
// degenerate-loop threshold (§4.6 preprocessing).
func IsDegenerate(contour []Point2) bool {
	return math.Abs(SignedArea(contour)) < degenerateAreaThreshold
}

// EnsureCCW reverses contour if needed so its signed area is positive.
func EnsureCCW(contour []Point2) []Point2 {
	if SignedArea(contour) < 0 {
		return reversedCopy(contour)
	}
	return append([]Point2{}, contour...)
}

// EnsureCW reverses contour if needed so its signed area is negative.
func EnsureCW(contour []Point2) []Point2 {
	if SignedArea(contour) > 0 {
		return reversedCopy(contour)
	}
	return append([]Point2{}, contour...)
}

func reversedCopy(contour []Point2) []Point2 {
	out := make([]Point2, len(contour))
	for i, p := range contour {
		out[len(contour)-1-i] = p
	}
	return out
}

// PointInContour is a standard ray-casting point-in-polygon test.
func PointInContour(p Point2, contour []Point2) bool {
	if len(contour) < 3 {
		return false
	}
	inside := false
	n := len(contour)
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := contour[i], contour[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// SubtractVoidsEvenOdd subtracts void contours from a profile under
// even-odd fill: a void whose vertices all lie inside the outer boundary
// becomes a new hole (clockwise); a void that is not entirely contained is
// dropped rather than attempting a general polygon clip, which is
// sufficient for §4.6's restricted "profile minus void contours" case.
// Overlap with the base profile's existing holes is not checked.
func SubtractVoidsEvenOdd(base Profile2D, voidContours [][]Point2) Profile2D {
	out := Profile2D{Outer: append([]Point2{}, base.Outer...)}
	out.Holes = append(out.Holes, base.Holes...)
	for _, vc := range voidContours {
		if len(vc) < 3 || IsDegenerate(vc) {
			continue
		}
		contained := true
		for _, pt := range vc {
			if !PointInContour(pt, base.Outer) {
				contained = false
				break
			}
		}
		if !contained {
			continue
		}
		out.Holes = append(out.Holes, EnsureCW(vc))
	}
	return out
}
