package processors

import (
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// BuildMappedItem evaluates an IFCMAPPEDITEM's MappingSource
// (IFCREPRESENTATIONMAP, attr 0) once, merging every item of its
// MappedRepresentation, then applies MappingTarget
// (IFCCARTESIANTRANSFORMATIONOPERATOR3D, attr 1), per §4.8 "Mapped item".
// Caching the MappingSource result by its IfcRepresentationMap id so
// repeated instances of shared geometry are only evaluated once is the
// router's responsibility (§4.9's mapped_item_cache), not this
// processor's — this function always evaluates MappingSource fresh,
// matching mapped.rs's role as the uncached fallback path.
func BuildMappedItem(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}

	sourceAttr, ok := ent.Get(0)
	if !ok {
		return nil, &Error{Msg: "mapped item missing MappingSource"}
	}
	sourceRef, ok := sourceAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "MappingSource is not a reference"}
	}

	mesh, err := EvaluateRepresentationMap(dec, sourceRef)
	if err != nil {
		return nil, err
	}

	if targetAttr, ok := ent.Get(1); ok {
		if targetRef, ok := targetAttr.AsEntityRef(); ok {
			ApplyMappingTarget(dec, mesh, targetRef)
		}
	}
	return mesh, nil
}

// ApplyMappingTarget decodes an IFCCARTESIANTRANSFORMATIONOPERATOR3D by id
// and applies it to mesh in place. Exported so the router can apply a
// mapped item's MappingTarget to a cached MappingSource mesh without
// re-evaluating the source representation.
func ApplyMappingTarget(dec *stepfile.Decoder, mesh *meshbuf.Mesh, targetRef uint32) {
	if m, ok := decodeCartesianTransformOperator3D(dec, targetRef); ok {
		applyPlacementTransform(mesh, m)
	}
}

// EvaluateRepresentationMap resolves an IFCREPRESENTATIONMAP's
// MappedRepresentation (attr 1), processes every representation item
// (attr 3 of the IFCREPRESENTATION/IFCSHAPEREPRESENTATION) via Dispatch,
// and merges the results into one mesh.
func EvaluateRepresentationMap(dec *stepfile.Decoder, mapID uint32) (*meshbuf.Mesh, error) {
	mapEnt, err := dec.DecodeByID(mapID)
	if err != nil {
		return nil, err
	}
	repAttr, ok := mapEnt.Get(1)
	if !ok {
		return nil, &Error{Msg: "representation map missing MappedRepresentation"}
	}
	repRef, ok := repAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "MappedRepresentation is not a reference"}
	}
	rep, err := dec.DecodeByID(repRef)
	if err != nil {
		return nil, err
	}
	itemsAttr, ok := rep.Get(3)
	if !ok {
		return nil, &Error{Msg: "representation missing Items"}
	}
	itemRefs, ok := itemsAttr.AsList()
	if !ok {
		return nil, &Error{Msg: "Items is not a list"}
	}

	m := meshbuf.New()
	for _, iv := range itemRefs {
		itemRef, ok := iv.AsEntityRef()
		if !ok {
			continue
		}
		itemEnt, err := dec.DecodeByID(itemRef)
		if err != nil {
			continue
		}
		itemMesh, err := Dispatch(dec, itemRef, itemEnt.IfcType)
		if err != nil || itemMesh == nil {
			continue
		}
		m.Append(itemMesh)
	}
	m.Finalize()
	return m, nil
}

// decodeCartesianTransformOperator3D reads an
// IFCCARTESIANTRANSFORMATIONOPERATOR3D's Axis1 (attr 0), Axis2 (attr 1,
// unused — Y is re-derived for orthogonality), LocalOrigin (attr 2),
// Scale (attr 3, default 1), and Axis3 (attr 4) into a Placement-like
// affine transform, reusing Placement.Matrix for the actual apply step.
func decodeCartesianTransformOperator3D(dec *stepfile.Decoder, entityID uint32) (Placement, bool) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return Placement{}, false
	}
	p := Identity()

	if locAttr, ok := ent.Get(2); ok {
		if ref, ok := locAttr.AsEntityRef(); ok {
			if x, y, z, ok := dec.GetCartesianPointFast(ref); ok {
				p.Origin = Vec3{x, y, z}
			}
		}
	}

	scale := 1.0
	if scaleAttr, ok := ent.Get(3); ok {
		if s, ok := scaleAttr.AsFloat(); ok && s != 0 {
			scale = s
		}
	}

	x := Vec3{1, 0, 0}
	if axis1Attr, ok := ent.Get(0); ok {
		if ref, ok := axis1Attr.AsEntityRef(); ok {
			if d, ok := decodeDirection(dec, ref); ok {
				x = d.Normalize()
			}
		}
	}
	z := Vec3{0, 0, 1}
	if axis3Attr, ok := ent.Get(4); ok {
		if ref, ok := axis3Attr.AsEntityRef(); ok {
			if d, ok := decodeDirection(dec, ref); ok {
				z = d.Normalize()
			}
		}
	}
	x = x.Sub(z.Scale(x.Dot(z))).Normalize()
	if x.Length() < 1e-9 {
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)

	p.X, p.Y, p.Z = x.Scale(scale), y.Scale(scale), z.Scale(scale)
	return p, true
}

// applyPlacementTransform applies placement's matrix to every vertex of m
// in place (position via the matrix, normal via inverse-transpose,
// renormalized), mirroring applyShearAndPlacement's transform step.
func applyPlacementTransform(m *meshbuf.Mesh, placement Placement) {
	pm := placement.Matrix()
	for i := 0; i+2 < len(m.Positions); i += 3 {
		p := TransformPoint(pm, Vec3{float64(m.Positions[i]), float64(m.Positions[i+1]), float64(m.Positions[i+2])})
		m.Positions[i] = float32(p.X)
		m.Positions[i+1] = float32(p.Y)
		m.Positions[i+2] = float32(p.Z)

		if i+2 < len(m.Normals) {
			n := TransformNormal(pm, Vec3{float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2])})
			m.Normals[i] = float32(n.X)
			m.Normals[i+1] = float32(n.Y)
			m.Normals[i+2] = float32(n.Z)
		}
	}
}
