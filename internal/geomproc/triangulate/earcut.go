// Package triangulate implements ear-clipping triangulation of a 2D
// polygon with optional holes (C7).
//
// Grounded on original_source/rust/geometry/src/triangulation.rs's earcut
// wrapper contract (flatten outer+holes into one vertex sequence, holes
// merged at their starting offsets); no ear-clip/earcut library exists in
// the example pack, so this re-implements the standard algorithm on the
// standard library, following the teacher's own preference for small
// hand-rolled geometry kernels (see render/marchfe.go, render/tet4.go).
package triangulate

import (
	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
)

// Error carries a triangulation failure reason.
type Error struct{ Msg string }

func (e *Error) Error() string { return "triangulation error: " + e.Msg }

// Result is the triangulated point sequence (outer followed by each hole,
// in order) and the resulting triangle indices into that sequence.
type Result struct {
	Points  []profile.Point2
	Indices []int
}

// Triangulate triangulates a Profile2D (CCW outer, CW holes), producing
// indices into the flattened outer‖hole0‖hole1… vertex sequence.
func Triangulate(p profile.Profile2D) (*Result, error) {
	if len(p.Outer) < 3 {
		return nil, &Error{Msg: "need at least 3 outer points"}
	}

	points := append([]profile.Point2{}, p.Outer...)
	holeIndices := make([]int, 0, len(p.Holes))
	for _, h := range p.Holes {
		if len(h) < 3 {
			continue
		}
		holeIndices = append(holeIndices, len(points))
		points = append(points, h...)
	}

	indices, err := earcutWithHoles(points, holeIndices)
	if err != nil {
		return nil, err
	}
	return &Result{Points: points, Indices: indices}, nil
}

// TriangulatePolygon triangulates a simple polygon with no holes.
func TriangulatePolygon(points []profile.Point2) ([]int, error) {
	if len(points) < 3 {
		return nil, &Error{Msg: "need at least 3 points to triangulate"}
	}
	return earcutWithHoles(points, nil)
}

// earcutWithHoles implements ear-clipping over a single polygon boundary
// built by splicing hole loops into the outer loop via a bridge edge from
// each hole's rightmost vertex to the outer vertex nearest it (a standard,
// simple bridging strategy), then clipping ears from the resulting simple
// polygon.
func earcutWithHoles(points []profile.Point2, holeStarts []int) ([]int, error) {
	n := len(points)
	if n < 3 {
		return nil, &Error{Msg: "not enough points"}
	}

	// Build the outer ring as a circular doubly-linked list of point
	// indices, then splice each hole in by a bridge edge.
	ring := buildRing(0, firstRingEnd(holeStarts, n))

	for i, start := range holeStarts {
		end := n
		if i+1 < len(holeStarts) {
			end = holeStarts[i+1]
		}
		hole := buildRing(start, end)
		ring = spliceHole(points, ring, hole)
	}

	tris, err := clipEars(points, ring)
	if err != nil {
		return nil, err
	}
	return tris, nil
}

func firstRingEnd(holeStarts []int, n int) int {
	if len(holeStarts) == 0 {
		return n
	}
	return holeStarts[0]
}

// ringNode is one node of a circular doubly-linked list over point
// indices, used for ear-clipping with in-place removal.
type ringNode struct {
	idx        int
	prev, next *ringNode
}

func buildRing(start, end int) *ringNode {
	var first, prev *ringNode
	for i := start; i < end; i++ {
		node := &ringNode{idx: i}
		if first == nil {
			first = node
		} else {
			prev.next = node
			node.prev = prev
		}
		prev = node
	}
	first.prev = prev
	prev.next = first
	return first
}

// spliceHole bridges a hole ring into the outer ring at the hole vertex
// with the greatest X coordinate (a simple, deterministic choice),
// connecting it to the nearest outer vertex with a single bridge edge
// plus its reverse (via one duplicate of each bridge endpoint), which is
// the standard way to reduce a polygon-with-holes to a single simple
// polygon for ear-clipping.
func spliceHole(points []profile.Point2, outer, hole *ringNode) *ringNode {
	// Find hole's rightmost vertex.
	rightmost := hole
	n := hole
	for {
		n = n.next
		if n == hole {
			break
		}
		if points[n.idx].X > points[rightmost.idx].X {
			rightmost = n
		}
	}

	// Find nearest outer vertex to bridge to.
	nearest := outer
	bestDist := distSq(points[outer.idx], points[rightmost.idx])
	o := outer
	for {
		o = o.next
		if o == outer {
			break
		}
		d := distSq(points[o.idx], points[rightmost.idx])
		if d < bestDist {
			bestDist = d
			nearest = o
		}
	}

	// Capture the hole ring's tail (the node before rightmost) and the
	// outer ring's successor of nearest before any mutation.
	holeTail := rightmost.prev
	afterNearest := nearest.next

	// Splice the hole directly onto the outer ring (nearest -> rightmost,
	// a real bridge edge), walk the whole hole ring, then return to the
	// outer ring via a duplicate of each bridge endpoint traversed in
	// reverse (holeTail -> holeDup -> outerDup -> afterNearest). The two
	// bridge edges run along the same segment in opposite directions, a
	// zero-width channel that keeps the combined ring a single simple
	// polygon without ever placing two equal-index nodes back to back:
	//   nearest -> rightmost -> ... -> holeTail -> holeDup -> outerDup -> afterNearest -> ...
	outerDup := &ringNode{idx: nearest.idx}
	holeDup := &ringNode{idx: rightmost.idx}

	nearest.next = rightmost
	rightmost.prev = nearest

	holeTail.next = holeDup
	holeDup.prev = holeTail

	holeDup.next = outerDup
	outerDup.prev = holeDup

	outerDup.next = afterNearest
	afterNearest.prev = outerDup

	return outer
}

func distSq(a, b profile.Point2) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// clipEars removes ears from the ring one at a time until 3 vertices
// remain, recording each removed ear as a triangle.
func clipEars(points []profile.Point2, ring *ringNode) ([]int, error) {
	var tris []int

	node := ring
	// Safety bound: a simple polygon of k vertices yields k-2 triangles;
	// guard against pathological/self-intersecting input looping forever.
	remaining := countRing(ring)
	guard := remaining * remaining

	for remaining > 3 && guard > 0 {
		prev, next := node.prev, node.next
		if isEar(points, prev.idx, node.idx, next.idx, ring, node) {
			tris = append(tris, prev.idx, node.idx, next.idx)
			prev.next = next
			next.prev = prev
			if node == ring {
				ring = next
			}
			node = next
			remaining--
		} else {
			node = node.next
		}
		guard--
	}

	if remaining < 3 {
		return nil, &Error{Msg: "degenerate polygon during ear clipping"}
	}
	if guard <= 0 {
		return nil, &Error{Msg: "self-intersecting or degenerate polygon: ear clipping did not converge"}
	}

	tris = append(tris, node.prev.idx, node.idx, node.next.idx)
	return tris, nil
}

func countRing(ring *ringNode) int {
	n := 1
	for cur := ring.next; cur != ring; cur = cur.next {
		n++
	}
	return n
}

// isEar reports whether triangle (a,b,c) is a valid ear: convex, and
// containing no other ring vertex.
func isEar(points []profile.Point2, a, b, c int, ring, skip *ringNode) bool {
	pa, pb, pc := points[a], points[b], points[c]
	cross := (pb.X-pa.X)*(pc.Y-pa.Y) - (pb.Y-pa.Y)*(pc.X-pa.X)
	if cross <= 0 {
		return false // reflex or collinear
	}
	cur := ring
	for {
		if cur.idx != a && cur.idx != b && cur.idx != c {
			if pointInTriangle(points[cur.idx], pa, pb, pc) {
				return false
			}
		}
		cur = cur.next
		if cur == ring {
			break
		}
	}
	return true
}

func pointInTriangle(p, a, b, c profile.Point2) bool {
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func sign(p1, p2, p3 profile.Point2) float64 {
	return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
}

// ExpectedTriangleCount returns the canonical triangle count for a simple
// polygon with holes, triangulated with no Steiner points: a region with
// n total boundary vertices and h holes has Euler characteristic 1-h, so
// (|outer| + sum|holes|) + 2*#holes - 2 triangles, per §8 property 3.
// h=0 reduces to the familiar n-2 for a plain simple polygon.
func ExpectedTriangleCount(outerLen int, holeLens []int) int {
	total := outerLen
	for _, h := range holeLens {
		total += h
	}
	return total + 2*len(holeLens) - 2
}
