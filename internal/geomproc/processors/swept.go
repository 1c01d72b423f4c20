package processors

import (
	"math"

	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// diskRadialSegments is the fixed sample count around a swept disk's
// circular cross-section (see DESIGN.md's sampling density decision).
// Unlike profile.CircleSegments, it does not adapt to the radius.
const diskRadialSegments = 12

// BuildSweptDiskSolid samples IFCSWEPTDISKSOLID's directrix polyline into
// a sequence of frames and sweeps a circular cross-section of Radius along
// it, building a quad-strip tube per §4.8 "Swept disk".
func BuildSweptDiskSolid(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}
	directrixAttr, ok := ent.Get(0)
	if !ok {
		return nil, &Error{Msg: "swept disk solid missing Directrix"}
	}
	directrixRef, ok := directrixAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "Directrix is not a reference"}
	}
	radiusAttr, ok := ent.Get(1)
	if !ok {
		return nil, &Error{Msg: "swept disk solid missing Radius"}
	}
	radius, ok := radiusAttr.AsFloat()
	if !ok || radius <= 0 {
		return nil, &Error{Msg: "Radius must be positive"}
	}

	path, err := decodePolylinePoints(dec, directrixRef)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 {
		return nil, &Error{Msg: "directrix needs at least 2 points"}
	}

	return sweepTube(path, radius), nil
}

// decodePolylinePoints resolves an IFCPOLYLINE's Points list (attr 0, list
// of IFCCARTESIANPOINT refs) into world-space points. Entries that are not
// cartesian points are skipped, so a composite-curve directrix yields no
// points, and a trimmed-curve directrix (attr 0 not a list) is an error.
func decodePolylinePoints(dec *stepfile.Decoder, entityID uint32) ([]Vec3, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}
	ptsAttr, ok := ent.Get(0)
	if !ok {
		return nil, &Error{Msg: "curve missing Points"}
	}
	refs, ok := ptsAttr.AsList()
	if !ok {
		return nil, &Error{Msg: "Points is not a list"}
	}
	out := make([]Vec3, 0, len(refs))
	for _, r := range refs {
		id, ok := r.AsEntityRef()
		if !ok {
			continue
		}
		x, y, z, ok := dec.GetCartesianPointFast(id)
		if !ok {
			continue
		}
		out = append(out, Vec3{x, y, z})
	}
	return out, nil
}

// sweepTube builds a tube mesh around path with a circular
// diskRadialSegments-sided cross-section of the given radius, with simple
// parallel-transport frames (no twist minimization — sufficient for the
// short directrices seen in practice).
func sweepTube(path []Vec3, radius float64) *meshbuf.Mesh {
	m := meshbuf.New()
	rings := make([][]uint32, len(path))

	prevUp := arbitraryPerpendicular(path[1].Sub(path[0]).Normalize())
	for i, center := range path {
		var tangent Vec3
		switch {
		case i == 0:
			tangent = path[1].Sub(path[0]).Normalize()
		case i == len(path)-1:
			tangent = path[i].Sub(path[i-1]).Normalize()
		default:
			tangent = path[i+1].Sub(path[i-1]).Normalize()
		}
		right := prevUp.Cross(tangent).Normalize()
		if right.Length() < 1e-9 {
			right = arbitraryPerpendicular(tangent)
		}
		up := tangent.Cross(right).Normalize()
		prevUp = up

		ring := make([]uint32, diskRadialSegments)
		for s := 0; s < diskRadialSegments; s++ {
			angle := 2 * math.Pi * float64(s) / float64(diskRadialSegments)
			offset := right.Scale(radius * math.Cos(angle)).Add(up.Scale(radius * math.Sin(angle)))
			p := center.Add(offset)
			n := offset.Normalize()
			ring[s] = m.AddVertex(float32(p.X), float32(p.Y), float32(p.Z), float32(n.X), float32(n.Y), float32(n.Z))
		}
		rings[i] = ring
	}

	for i := 0; i+1 < len(rings); i++ {
		a, b := rings[i], rings[i+1]
		for s := 0; s < diskRadialSegments; s++ {
			s2 := (s + 1) % diskRadialSegments
			m.AddTriangle(a[s], b[s], b[s2])
			m.AddTriangle(a[s], b[s2], a[s2])
		}
	}
	m.Finalize()
	return m
}

func arbitraryPerpendicular(v Vec3) Vec3 {
	ref := Vec3{0, 0, 1}
	if math.Abs(v.Z) > 0.9 {
		ref = Vec3{1, 0, 0}
	}
	return ref.Sub(v.Scale(ref.Dot(v))).Normalize()
}

// BuildRevolvedAreaSolid decodes IFCREVOLVEDAREASOLID's SweptArea (attr 0,
// an arbitrary profile def outer curve), Axis (attr 2, IFCAXIS1PLACEMENT),
// and Angle (attr 3), then revolves the profile, per §4.8 "Revolved area".
func BuildRevolvedAreaSolid(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}
	profileAttr, ok := ent.Get(0)
	if !ok {
		return nil, &Error{Msg: "revolved area solid missing SweptArea"}
	}
	profileRef, ok := profileAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "SweptArea is not a reference"}
	}
	profilePoints, err := decodeProfileOuterPolygon(dec, profileRef)
	if err != nil {
		return nil, err
	}

	axisAttr, ok := ent.Get(2)
	if !ok {
		return nil, &Error{Msg: "revolved area solid missing Axis"}
	}
	axisRef, ok := axisAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "Axis is not a reference"}
	}
	axisPoint, axis, err := decodeAxis1Placement(dec, axisRef)
	if err != nil {
		return nil, err
	}

	angleAttr, ok := ent.Get(3)
	if !ok {
		return nil, &Error{Msg: "revolved area solid missing Angle"}
	}
	angle, ok := angleAttr.AsFloat()
	if !ok {
		return nil, &Error{Msg: "Angle is not numeric"}
	}

	return revolveProfile(profilePoints, axis, axisPoint, angle)
}

// decodeProfileOuterPolygon reads a profile def's OuterCurve as a flat
// polygon in its local XY plane, supporting IFCPOLYLINE directly.
func decodeProfileOuterPolygon(dec *stepfile.Decoder, profileRef uint32) ([]Vec3, error) {
	profileEnt, err := dec.DecodeByID(profileRef)
	if err != nil {
		return nil, err
	}
	// IfcArbitraryClosedProfileDef: ProfileType(0), ProfileName(1), OuterCurve(2).
	curveAttr, ok := profileEnt.Get(2)
	if !ok {
		return nil, &Error{Msg: "profile def missing OuterCurve"}
	}
	curveRef, ok := curveAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "OuterCurve is not a reference"}
	}
	return decodePolylinePoints(dec, curveRef)
}

// decodeAxis1Placement reads an IFCAXIS1PLACEMENT's Location (attr 0) and
// Axis (attr 1, defaults to local Z).
func decodeAxis1Placement(dec *stepfile.Decoder, entityID uint32) (point, axis Vec3, err error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return Vec3{}, Vec3{}, err
	}
	if locAttr, ok := ent.Get(0); ok {
		if ref, ok := locAttr.AsEntityRef(); ok {
			if x, y, z, ok := dec.GetCartesianPointFast(ref); ok {
				point = Vec3{x, y, z}
			}
		}
	}
	axis = Vec3{0, 0, 1}
	if axisAttr, ok := ent.Get(1); ok {
		if ref, ok := axisAttr.AsEntityRef(); ok {
			if d, ok := decodeDirection(dec, ref); ok {
				axis = d
			}
		}
	}
	return point, axis, nil
}

// revolveProfile is the pure geometry step of BuildRevolvedAreaSolid,
// kept separate so it is directly unit-testable without a decoder.
func revolveProfile(profilePoints []Vec3, axis, axisPoint Vec3, angle float64) (*meshbuf.Mesh, error) {
	if len(profilePoints) < 2 {
		return nil, &Error{Msg: "revolved area profile needs at least 2 points"}
	}
	if angle <= 0 {
		return nil, &Error{Msg: "revolution angle must be positive"}
	}

	segments := revolutionSegments(angle)
	axis = axis.Normalize()

	m := meshbuf.New()
	rings := make([][]uint32, segments+1)
	for s := 0; s <= segments; s++ {
		theta := angle * float64(s) / float64(segments)
		ring := make([]uint32, len(profilePoints))
		for i, p := range profilePoints {
			rp := rotateAroundAxis(p.Sub(axisPoint), axis, theta).Add(axisPoint)
			// Outward radial normal approximation: direction from the
			// axis to the point, projected perpendicular to the axis.
			radial := p.Sub(axisPoint)
			radial = radial.Sub(axis.Scale(radial.Dot(axis)))
			n := rotateAroundAxis(radial, axis, theta).Normalize()
			ring[i] = m.AddVertex(float32(rp.X), float32(rp.Y), float32(rp.Z), float32(n.X), float32(n.Y), float32(n.Z))
		}
		rings[s] = ring
	}

	for s := 0; s < segments; s++ {
		a, b := rings[s], rings[s+1]
		for i := 0; i+1 < len(profilePoints); i++ {
			m.AddTriangle(a[i], a[i+1], b[i+1])
			m.AddTriangle(a[i], b[i+1], b[i])
		}
	}

	fullTurn := math.Abs(angle-2*math.Pi) < 1e-6
	if !fullTurn {
		addRevolutionCap(m, profilePoints, rings[0], axisPoint, axis, true)
		addRevolutionCap(m, profilePoints, rings[segments], axisPoint, axis, false)
	}

	m.Finalize()
	return m, nil
}

func revolutionSegments(angle float64) int {
	n := int(math.Ceil(angle / (2 * math.Pi) * float64(diskRadialSegments*2)))
	if n < 3 {
		return 3
	}
	return n
}

func rotateAroundAxis(v, axis Vec3, theta float64) Vec3 {
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	return v.Scale(cosT).
		Add(axis.Cross(v).Scale(sinT)).
		Add(axis.Scale(axis.Dot(v) * (1 - cosT)))
}

// addRevolutionCap fans the profile polyline's straight-line closure into
// a flat cap at one end of a partial revolution.
func addRevolutionCap(m *meshbuf.Mesh, profilePoints []Vec3, ring []uint32, axisPoint, axis Vec3, reversed bool) {
	if len(ring) < 3 {
		return
	}
	for i := 1; i+1 < len(ring); i++ {
		if reversed {
			m.AddTriangle(ring[0], ring[i+1], ring[i])
		} else {
			m.AddTriangle(ring[0], ring[i], ring[i+1])
		}
	}
}
