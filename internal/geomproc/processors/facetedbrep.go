package processors

import (
	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
	"github.com/ifcproc/ifcproc/internal/geomproc/triangulate"
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// BuildFacetedBrep triangulates an IFCFACETEDBREP (or any closed/open
// shell made of IFCFACE entities bounded by IFCPOLYLOOP/IFCFACEOUTERBOUND)
// one face at a time via a best-fit-plane projection to 2D, per §4.8
// "Faceted B-rep, face-based surface model, shell-based surface model".
// Each face's own winding determines its triangulation, so no global
// boolean/merge step is required.
func BuildFacetedBrep(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}

	shellRef, ok := resolveOuterOrFirstShell(ent)
	if !ok {
		return nil, &Error{Msg: "faceted brep has no outer/connected shell reference"}
	}
	shell, err := dec.DecodeByID(shellRef)
	if err != nil {
		return nil, err
	}
	facesAttr, ok := shell.Get(0)
	if !ok {
		return nil, &Error{Msg: "shell missing CfsFaces"}
	}
	faceRefs, ok := facesAttr.AsList()
	if !ok {
		return nil, &Error{Msg: "CfsFaces is not a list"}
	}

	m := meshbuf.New()
	for _, fv := range faceRefs {
		faceRef, ok := fv.AsEntityRef()
		if !ok {
			continue
		}
		if err := addFaceToMesh(dec, m, faceRef); err != nil {
			// Per-face failures are survivable: skip and keep building
			// the rest of the shell (§4.9).
			continue
		}
	}
	m.Finalize()
	if m.TriangleCount() == 0 {
		return nil, &Error{Msg: "faceted brep produced no triangles"}
	}
	return m, nil
}

func resolveOuterOrFirstShell(ent *stepfile.DecodedEntity) (uint32, bool) {
	if outer, ok := ent.Get(0); ok {
		if ref, ok := outer.AsEntityRef(); ok {
			return ref, true
		}
		if shells, ok := outer.AsList(); ok && len(shells) > 0 {
			return shells[0].AsEntityRef()
		}
	}
	return 0, false
}

// addFaceToMesh decodes a single IFCFACE's outer bound polyloop, builds a
// best-fit plane basis, projects to 2D, triangulates, then maps the
// triangulation back to 3D with a shared face normal.
func addFaceToMesh(dec *stepfile.Decoder, m *meshbuf.Mesh, faceID uint32) error {
	face, err := dec.DecodeByID(faceID)
	if err != nil {
		return err
	}
	boundsAttr, ok := face.Get(0)
	if !ok {
		return &Error{Msg: "face missing Bounds"}
	}
	boundRefs, ok := boundsAttr.AsList()
	if !ok || len(boundRefs) == 0 {
		return &Error{Msg: "face Bounds is empty"}
	}

	var outer []uint32
	var holes [][]uint32
	for _, bv := range boundRefs {
		boundRef, ok := bv.AsEntityRef()
		if !ok {
			continue
		}
		bound, err := dec.DecodeByID(boundRef)
		if err != nil {
			continue
		}
		loopAttr, ok := bound.Get(0)
		if !ok {
			continue
		}
		loopRef, ok := loopAttr.AsEntityRef()
		if !ok {
			continue
		}
		ptIDs, ok := dec.GetPolyLoopPointIDsFast(loopRef)
		if !ok {
			continue
		}
		orientation := true
		if orAttr, ok := bound.Get(1); ok {
			if s, ok := orAttr.AsString(); ok {
				orientation = s != "F"
			}
		}
		if !orientation {
			ptIDs = reverseU32(ptIDs)
		}
		isOuter := ifcschema.Normalize(bound.IfcType) == "IFCFACEOUTERBOUND" || len(outer) == 0
		if isOuter && outer == nil {
			outer = ptIDs
		} else {
			holes = append(holes, ptIDs)
		}
	}
	if len(outer) < 3 {
		return &Error{Msg: "face outer bound has fewer than 3 points"}
	}

	outerPts, ok := resolvePoints(dec, outer)
	if !ok {
		return &Error{Msg: "unresolved outer bound point"}
	}
	normal := bestFitNormal(outerPts)
	basisX, basisY := planeBasis(normal)
	origin := outerPts[0]

	proj2D := project(outerPts, origin, basisX, basisY)
	p2 := profile.Profile2D{Outer: profile.EnsureCCW(proj2D)}
	for _, h := range holes {
		hp, ok := resolvePoints(dec, h)
		if !ok {
			continue
		}
		p2.Holes = append(p2.Holes, profile.EnsureCW(project(hp, origin, basisX, basisY)))
	}

	tri, err := triangulate.Triangulate(p2)
	if err != nil {
		return err
	}
	base := make([]uint32, len(tri.Points))
	for i, p2d := range tri.Points {
		p3 := unproject(p2d, origin, basisX, basisY, normal)
		base[i] = m.AddVertex(float32(p3.X), float32(p3.Y), float32(p3.Z), float32(normal.X), float32(normal.Y), float32(normal.Z))
	}
	for i := 0; i+2 < len(tri.Indices); i += 3 {
		m.AddTriangle(base[tri.Indices[i]], base[tri.Indices[i+1]], base[tri.Indices[i+2]])
	}
	return nil
}

func reverseU32(v []uint32) []uint32 {
	out := make([]uint32, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

func resolvePoints(dec *stepfile.Decoder, ids []uint32) ([]Vec3, bool) {
	out := make([]Vec3, len(ids))
	for i, id := range ids {
		x, y, z, ok := dec.GetCartesianPointFast(id)
		if !ok {
			return nil, false
		}
		out[i] = Vec3{x, y, z}
	}
	return out, true
}

// bestFitNormal computes a face normal via the Newell method, robust to
// slightly non-planar or concave input loops.
func bestFitNormal(pts []Vec3) Vec3 {
	var n Vec3
	count := len(pts)
	for i := 0; i < count; i++ {
		a := pts[i]
		b := pts[(i+1)%count]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// planeBasis builds an arbitrary orthonormal (X,Y) basis for the plane
// with the given normal.
func planeBasis(normal Vec3) (Vec3, Vec3) {
	ref := Vec3{1, 0, 0}
	if abs(normal.X) > 0.9 {
		ref = Vec3{0, 1, 0}
	}
	x := ref.Sub(normal.Scale(ref.Dot(normal))).Normalize()
	y := normal.Cross(x)
	return x, y
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func project(pts []Vec3, origin, bx, by Vec3) []profile.Point2 {
	out := make([]profile.Point2, len(pts))
	for i, p := range pts {
		d := p.Sub(origin)
		out[i] = profile.Point2{X: d.Dot(bx), Y: d.Dot(by)}
	}
	return out
}

func unproject(p2 profile.Point2, origin, bx, by, normal Vec3) Vec3 {
	_ = normal
	return origin.Add(bx.Scale(p2.X)).Add(by.Scale(p2.Y))
}
