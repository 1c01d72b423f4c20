package processors

import (
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// BuildTriangulatedFaceSet builds a mesh from an IFCTRIANGULATEDFACESET's
// Coordinates (attr 0: a reference to an IfcCartesianPointList whose
// CoordList holds the coordinate tuples, or such a list of tuples inline)
// and 1-based, column-wise CoordIndex triangle list (attr 3), per §4.8.
func BuildTriangulatedFaceSet(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}

	coordsAttr, ok := ent.Get(0)
	if !ok {
		return nil, &Error{Msg: "missing Coordinates attribute"}
	}
	ptListAttr, ok := coordsAttr.AsList()
	if !ok {
		ref, isRef := coordsAttr.AsEntityRef()
		if !isRef {
			return nil, &Error{Msg: "Coordinates is neither list nor reference"}
		}
		pointListEntity, err := dec.DecodeByID(ref)
		if err != nil {
			return nil, err
		}
		listAttr, ok := pointListEntity.Get(0)
		if !ok {
			return nil, &Error{Msg: "IfcCartesianPointList missing CoordList"}
		}
		ptListAttr, ok = listAttr.AsList()
		if !ok {
			return nil, &Error{Msg: "CoordList is not a list"}
		}
	}

	positions := make([][3]float64, len(ptListAttr))
	for i, pv := range ptListAttr {
		coords, ok := pv.AsList()
		if !ok || len(coords) < 2 {
			continue
		}
		x, _ := coords[0].AsFloat()
		y, _ := coords[1].AsFloat()
		var z float64
		if len(coords) >= 3 {
			z, _ = coords[2].AsFloat()
		}
		positions[i] = [3]float64{x, y, z}
	}

	coordIndexAttr, ok := ent.Get(3)
	if !ok {
		return nil, &Error{Msg: "missing CoordIndex attribute"}
	}
	faces, ok := coordIndexAttr.AsList()
	if !ok {
		return nil, &Error{Msg: "CoordIndex is not a list"}
	}

	m := meshbuf.New()
	for _, faceVal := range faces {
		idxVals, ok := faceVal.AsList()
		if !ok || len(idxVals) != 3 {
			continue
		}
		var tri [3]int
		valid := true
		for k, iv := range idxVals {
			n, ok := iv.AsInt()
			if !ok || n < 1 || int(n) > len(positions) {
				valid = false
				break
			}
			tri[k] = int(n) - 1 // 1-based -> 0-based
		}
		if !valid {
			continue
		}
		p0, p1, p2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		normal := faceNormal(p0, p1, p2)
		i0 := m.AddVertex(float32(p0[0]), float32(p0[1]), float32(p0[2]), float32(normal.X), float32(normal.Y), float32(normal.Z))
		i1 := m.AddVertex(float32(p1[0]), float32(p1[1]), float32(p1[2]), float32(normal.X), float32(normal.Y), float32(normal.Z))
		i2 := m.AddVertex(float32(p2[0]), float32(p2[1]), float32(p2[2]), float32(normal.X), float32(normal.Y), float32(normal.Z))
		m.AddTriangle(i0, i1, i2)
	}
	m.Finalize()
	return m, nil
}

func faceNormal(a, b, c [3]float64) Vec3 {
	va := Vec3{a[0], a[1], a[2]}
	vb := Vec3{b[0], b[1], b[2]}
	vc := Vec3{c[0], c[1], c[2]}
	return vb.Sub(va).Cross(vc.Sub(va)).Normalize()
}

// BuildPolygonalFaceSet decodes an IFCPOLYGONALFACESET exactly as
// BuildTriangulatedFaceSet decodes a triangulated face set: attr 3 is read
// as a list of 1-based index triples. IfcIndexedPolygonalFace entities are
// not decoded, and faces with more than three vertices or with holes are
// not triangulated.
func BuildPolygonalFaceSet(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	return BuildTriangulatedFaceSet(dec, entityID)
}
