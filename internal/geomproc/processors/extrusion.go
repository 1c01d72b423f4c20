package processors

import (
	"math"

	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
	"github.com/ifcproc/ifcproc/internal/geomproc/triangulate"
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// voidCapEpsilon matches original_source/rust/geometry/src/extrusion.rs's
// epsilon for deciding whether a partial void needs an internal cap at
// its start/end depth.
const voidCapEpsilon = 0.001

// ExtrudeProfile builds a capped, side-walled solid by sweeping profile
// along local +Z by depth, then (if direction is non-axial) applying the
// shear `(x,y,D) -> (x+dx*D, y+dy*D, dz*D)` per §4.8, then the placement
// transform. Depth must be > 0.
func ExtrudeProfile(p profile.Profile2D, depth float64, direction Vec3, placement Placement) (*meshbuf.Mesh, error) {
	if depth <= 0 {
		return nil, &Error{Msg: "extrusion depth must be positive"}
	}

	tri, err := triangulate.Triangulate(p)
	if err != nil {
		return nil, err
	}

	m := meshbuf.New()
	addCapMesh(m, tri, 0, Vec3{0, 0, -1}, true)
	addCapMesh(m, tri, depth, Vec3{0, 0, 1}, false)
	addSideWalls(m, p.Outer, depth)
	for _, h := range p.Holes {
		addSideWalls(m, h, depth)
	}

	applyShearAndPlacement(m, direction, depth, placement)
	m.Finalize()
	return m, nil
}

// BuildExtrudedAreaSolid decodes IFCEXTRUDEDAREASOLID's SweptArea (attr 0),
// Position (attr 1), ExtrudedDirection (attr 2), and Depth (attr 3), then
// extrudes, per §4.8 "Extruded-area solid". Void handling is layered on
// separately by the router from the owning element's openings, since
// voids are not attributes of the solid entity itself.
func BuildExtrudedAreaSolid(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}

	areaAttr, ok := ent.Get(0)
	if !ok {
		return nil, &Error{Msg: "extruded area solid missing SweptArea"}
	}
	areaRef, ok := areaAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "SweptArea is not a reference"}
	}
	p, err := DecodeProfileDef(dec, areaRef)
	if err != nil {
		return nil, err
	}

	placement := Identity()
	if posAttr, ok := ent.Get(1); ok {
		if ref, ok := posAttr.AsEntityRef(); ok {
			placement = NewAxis2Placement3D(dec, ref)
		}
	}

	direction := Vec3{0, 0, 1}
	if dirAttr, ok := ent.Get(2); ok {
		if ref, ok := dirAttr.AsEntityRef(); ok {
			if d, ok := decodeDirection(dec, ref); ok {
				direction = d
			}
		}
	}

	depthAttr, ok := ent.Get(3)
	if !ok {
		return nil, &Error{Msg: "extruded area solid missing Depth"}
	}
	depth, ok := depthAttr.AsFloat()
	if !ok {
		return nil, &Error{Msg: "Depth is not numeric"}
	}

	return ExtrudeProfile(p, depth, direction, placement)
}

// ExtrudeProfileWithVoids merges through-voids into profile holes,
// extrudes once, then adds partial-void internal caps and inward side
// walls for each void that does not span the full depth.
func ExtrudeProfileWithVoids(pv profile.ProfileWithVoids, depth float64, direction Vec3, placement Placement) (*meshbuf.Mesh, error) {
	merged := pv.ProfileWithThroughHoles()
	tri, err := triangulate.Triangulate(merged)
	if err != nil {
		return nil, err
	}

	m := meshbuf.New()
	addCapMesh(m, tri, 0, Vec3{0, 0, -1}, true)
	addCapMesh(m, tri, depth, Vec3{0, 0, 1}, false)
	addSideWalls(m, merged.Outer, depth)
	for _, h := range merged.Holes {
		addSideWalls(m, h, depth)
	}

	for _, v := range pv.PartialVoids() {
		addPartialVoidGeometry(m, v, depth)
	}

	applyShearAndPlacement(m, direction, depth, placement)
	m.Finalize()
	return m, nil
}

// Error carries a processor failure reason.
type Error struct{ Msg string }

func (e *Error) Error() string { return "geometry processor error: " + e.Msg }

// addCapMesh adds a triangulated cap at height z with the given face
// normal. When isBottom is set (every cap whose normal is -Z, such as the
// bottom cap at z==0) the winding is reversed relative to the
// triangulation's natural winding so it agrees with the normal, per
// extrusion.rs::create_cap_mesh.
func addCapMesh(m *meshbuf.Mesh, tri *triangulate.Result, z float64, normal Vec3, isBottom bool) {
	base := make([]uint32, len(tri.Points))
	for i, p := range tri.Points {
		base[i] = m.AddVertex(float32(p.X), float32(p.Y), float32(z), float32(normal.X), float32(normal.Y), float32(normal.Z))
	}
	for i := 0; i+2 < len(tri.Indices); i += 3 {
		i0, i1, i2 := base[tri.Indices[i]], base[tri.Indices[i+1]], base[tri.Indices[i+2]]
		if isBottom {
			m.AddTriangle(i0, i2, i1)
		} else {
			m.AddTriangle(i0, i1, i2)
		}
	}
}

// addSideWalls extrudes a boundary loop into quads between z=0 and
// z=depth, outward-facing normal (edge.y, -edge.x, 0) for a CCW outer loop
// (for a CW hole loop it faces into the hole), normal (non-reversed)
// winding, per extrusion.rs::create_side_walls.
func addSideWalls(m *meshbuf.Mesh, boundary []profile.Point2, depth float64) {
	n := len(boundary)
	for i := 0; i < n; i++ {
		a := boundary[i]
		b := boundary[(i+1)%n]
		edge := Vec3{b.X - a.X, b.Y - a.Y, 0}
		normal := Vec3{edge.Y, -edge.X, 0}.Normalize()

		i0 := m.AddVertex(float32(a.X), float32(a.Y), 0, float32(normal.X), float32(normal.Y), float32(normal.Z))
		i1 := m.AddVertex(float32(b.X), float32(b.Y), 0, float32(normal.X), float32(normal.Y), float32(normal.Z))
		i2 := m.AddVertex(float32(b.X), float32(b.Y), float32(depth), float32(normal.X), float32(normal.Y), float32(normal.Z))
		i3 := m.AddVertex(float32(a.X), float32(a.Y), float32(depth), float32(normal.X), float32(normal.Y), float32(normal.Z))

		m.AddTriangle(i0, i1, i2)
		m.AddTriangle(i0, i2, i3)
	}
}

// addVoidSideWalls builds inward-facing side walls for a partial void
// between zStart and zEnd: normal (-edge.y, edge.x, 0), pointing into a
// CCW void contour — the sign flip vs. addSideWalls — and reversed
// triangle winding, per extrusion.rs::create_void_side_walls.
func addVoidSideWalls(m *meshbuf.Mesh, contour []profile.Point2, zStart, zEnd float64) {
	n := len(contour)
	for i := 0; i < n; i++ {
		a := contour[i]
		b := contour[(i+1)%n]
		edge := Vec3{b.X - a.X, b.Y - a.Y, 0}
		normal := Vec3{-edge.Y, edge.X, 0}.Normalize()

		i0 := m.AddVertex(float32(a.X), float32(a.Y), float32(zStart), float32(normal.X), float32(normal.Y), float32(normal.Z))
		i1 := m.AddVertex(float32(b.X), float32(b.Y), float32(zStart), float32(normal.X), float32(normal.Y), float32(normal.Z))
		i2 := m.AddVertex(float32(b.X), float32(b.Y), float32(zEnd), float32(normal.X), float32(normal.Y), float32(normal.Z))
		i3 := m.AddVertex(float32(a.X), float32(a.Y), float32(zEnd), float32(normal.X), float32(normal.Y), float32(normal.Z))

		m.AddTriangle(i0, i2, i1)
		m.AddTriangle(i0, i3, i2)
	}
}

// addPartialVoidGeometry adds a partial void's internal caps (facing into
// the void at its start/end depth, when strictly interior to the
// extrusion) and its inward side walls, per
// extrusion.rs::create_partial_void_geometry. Triangulation failures on
// the void's own contour are skipped silently, matching the survivable-
// failure policy for per-item geometry errors (§4.9/§7).
func addPartialVoidGeometry(m *meshbuf.Mesh, v profile.VoidInfo, totalDepth float64) {
	tri, err := triangulate.Triangulate(profile.Profile2D{Outer: v.Contour})
	if err != nil {
		return
	}

	if v.DepthStart > voidCapEpsilon {
		addCapMesh(m, tri, v.DepthStart, Vec3{0, 0, 1}, false)
	}
	if v.DepthEnd < totalDepth-voidCapEpsilon {
		addCapMesh(m, tri, v.DepthEnd, Vec3{0, 0, -1}, true)
	}
	if v.DepthEnd-v.DepthStart > voidCapEpsilon {
		addVoidSideWalls(m, v.Contour, v.DepthStart, v.DepthEnd)
	}
}

// applyShearAndPlacement realizes a non-axial ExtrudedDirection as a
// shear of the swept profile (§4.8 — an explicit, non-open design
// decision: see DESIGN.md), then applies the placement transform to
// every vertex (position via the matrix, normal via inverse-transpose,
// renormalized, per extrusion.rs::apply_transform).
func applyShearAndPlacement(m *meshbuf.Mesh, direction Vec3, depth float64, placement Placement) {
	dx, dy, dz := direction.X, direction.Y, direction.Z
	axial := math.Abs(dx) < 1e-9 && math.Abs(dy) < 1e-9

	pm := placement.Matrix()

	for i := 0; i+2 < len(m.Positions); i += 3 {
		x := float64(m.Positions[i])
		y := float64(m.Positions[i+1])
		z := float64(m.Positions[i+2])

		if axial {
			if dz < 0 {
				z = z - depth
			}
		} else {
			// Shear mapping (x,y,D) -> (x+dx*D, y+dy*D, dz*D), where D is
			// this vertex's pre-shear position along the sweep axis
			// (z in [0,depth]).
			d := z
			x = x + dx*d
			y = y + dy*d
			z = dz * d
		}

		p := TransformPoint(pm, Vec3{x, y, z})
		m.Positions[i] = float32(p.X)
		m.Positions[i+1] = float32(p.Y)
		m.Positions[i+2] = float32(p.Z)

		if i+2 < len(m.Normals) {
			nrm := TransformNormal(pm, Vec3{
				float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2]),
			})
			m.Normals[i] = float32(nrm.X)
			m.Normals[i+1] = float32(nrm.Y)
			m.Normals[i+2] = float32(nrm.Z)
		}
	}
}
