package processors

import (
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// maxBooleanClipDepth bounds CSG recursion so a malformed or pathological
// operand tree cannot exhaust the stack, per §4.8/§9: the exact value is
// not motivated by a correctness argument and is the Open Question
// decision recorded in DESIGN.md.
const maxBooleanClipDepth = 1

// ClipPlane is a single half-space boundary (outward unit normal, point
// on the plane) used to approximate a second boolean operand.
type ClipPlane struct {
	Point, Normal Vec3
}

// BuildBooleanResult evaluates IFCBOOLEANCLIPPINGRESULT / IFCBOOLEANRESULT:
// FirstOperand (attr 1) is resolved to a mesh via resolveOperand, or, when
// it is itself a boolean result, evaluated here one level deeper;
// SecondOperand (attr 2) is interpreted as a half-space solid and clipped
// against the first by plane, depth-limited per maxBooleanClipDepth (a
// nested boolean at the limit returns its own first operand unclipped).
// Once the first operand has a mesh, any failure with the second operand
// returns that mesh unclipped rather than an error, matching the
// survivable-CSG-failure policy in §4.8; a first operand that cannot be
// resolved, or boolean nesting deeper than the limit, is an error.
func BuildBooleanResult(dec *stepfile.Decoder, entityID uint32, resolveOperand func(*stepfile.Decoder, uint32) (*meshbuf.Mesh, error)) (*meshbuf.Mesh, error) {
	return buildBooleanResultDepth(dec, entityID, resolveOperand, maxBooleanClipDepth)
}

func buildBooleanResultDepth(dec *stepfile.Decoder, entityID uint32, resolveOperand func(*stepfile.Decoder, uint32) (*meshbuf.Mesh, error), depth int) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}

	firstAttr, ok := ent.Get(1)
	if !ok {
		return nil, &Error{Msg: "boolean result missing FirstOperand"}
	}
	firstRef, ok := firstAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "FirstOperand is not a reference"}
	}
	var firstMesh *meshbuf.Mesh
	firstType := ""
	if firstEnt, ferr := dec.DecodeByID(firstRef); ferr == nil {
		firstType = string(ifcschema.Normalize(firstEnt.IfcType))
	}
	if firstType == "IFCBOOLEANRESULT" || firstType == "IFCBOOLEANCLIPPINGRESULT" {
		// Nested boolean: one level less, so the bound holds along the chain.
		if depth <= 0 {
			return nil, &Error{Msg: "boolean operand nesting exceeds maxBooleanClipDepth"}
		}
		firstMesh, err = buildBooleanResultDepth(dec, firstRef, resolveOperand, depth-1)
	} else {
		firstMesh, err = resolveOperand(dec, firstRef)
	}
	if err != nil {
		return nil, err
	}

	if depth <= 0 {
		return firstMesh, nil
	}

	secondAttr, ok := ent.Get(2)
	if !ok {
		return firstMesh, nil
	}
	secondRef, ok := secondAttr.AsEntityRef()
	if !ok {
		return firstMesh, nil
	}

	plane, ok := decodeHalfSpacePlane(dec, secondRef)
	if !ok {
		// Unsupported second operand shape: survivable failure, return
		// the unclipped first operand.
		return firstMesh, nil
	}

	clipped := clipMeshByPlane(firstMesh, plane)
	if clipped.TriangleCount() == 0 {
		// A clip producing an empty result usually signals an unsupported
		// configuration (e.g. operand facing the wrong way); fall back to
		// the unclipped mesh rather than return an empty element.
		return firstMesh, nil
	}
	return clipped, nil
}

// decodeHalfSpacePlane reads an IFCHALFSPACESOLID's BaseSurface
// (IFCPLANE, via its Position IFCAXIS2PLACEMENT3D) and AgreementFlag to
// determine the half-space's outward normal.
func decodeHalfSpacePlane(dec *stepfile.Decoder, entityID uint32) (ClipPlane, bool) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return ClipPlane{}, false
	}
	surfaceAttr, ok := ent.Get(0)
	if !ok {
		return ClipPlane{}, false
	}
	surfaceRef, ok := surfaceAttr.AsEntityRef()
	if !ok {
		return ClipPlane{}, false
	}
	surface, err := dec.DecodeByID(surfaceRef)
	if err != nil {
		return ClipPlane{}, false
	}
	posAttr, ok := surface.Get(0)
	if !ok {
		return ClipPlane{}, false
	}
	posRef, ok := posAttr.AsEntityRef()
	if !ok {
		return ClipPlane{}, false
	}
	placement := NewAxis2Placement3D(dec, posRef)

	agreement := true
	if agAttr, ok := ent.Get(1); ok {
		if s, ok := agAttr.AsString(); ok {
			agreement = s != "F"
		}
	}
	normal := placement.Z
	if !agreement {
		normal = normal.Scale(-1)
	}
	return ClipPlane{Point: placement.Origin, Normal: normal}, true
}

// clipMeshByPlane keeps only the triangles whose centroid lies on the
// positive side of plane.Normal from plane.Point (a coarse per-triangle
// clip, not a watertight re-tessellation at the cut — sufficient for the
// depth-limited, survivable-failure contract of §4.8).
func clipMeshByPlane(m *meshbuf.Mesh, plane ClipPlane) *meshbuf.Mesh {
	out := meshbuf.New()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		pa := vertexPos(m, ia)
		pb := vertexPos(m, ib)
		pc := vertexPos(m, ic)
		centroid := pa.Add(pb).Add(pc).Scale(1.0 / 3.0)
		if centroid.Sub(plane.Point).Dot(plane.Normal) < 0 {
			continue
		}
		na := vertexNormal(m, ia)
		nb := vertexNormal(m, ib)
		nc := vertexNormal(m, ic)
		i0 := out.AddVertex(float32(pa.X), float32(pa.Y), float32(pa.Z), float32(na.X), float32(na.Y), float32(na.Z))
		i1 := out.AddVertex(float32(pb.X), float32(pb.Y), float32(pb.Z), float32(nb.X), float32(nb.Y), float32(nb.Z))
		i2 := out.AddVertex(float32(pc.X), float32(pc.Y), float32(pc.Z), float32(nc.X), float32(nc.Y), float32(nc.Z))
		out.AddTriangle(i0, i1, i2)
	}
	out.Finalize()
	return out
}

func vertexPos(m *meshbuf.Mesh, idx uint32) Vec3 {
	i := idx * 3
	return Vec3{float64(m.Positions[i]), float64(m.Positions[i+1]), float64(m.Positions[i+2])}
}

func vertexNormal(m *meshbuf.Mesh, idx uint32) Vec3 {
	i := idx * 3
	if int(i)+2 >= len(m.Normals) {
		return Vec3{0, 0, 1}
	}
	return Vec3{float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2])}
}
