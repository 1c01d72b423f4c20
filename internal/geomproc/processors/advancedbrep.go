package processors

import (
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// BuildAdvancedBrep evaluates an IFCADVANCEDBREP's faces. Since no
// NURBS/B-spline evaluator exists anywhere in the example pack (see
// DESIGN.md), each IFCADVANCEDFACE is approximated by its underlying
// polygon boundary exactly like a faceted B-rep face — the curved-surface
// evaluation on a parameter grid that a full B-spline kernel would need is
// out of reach here, and this degrades gracefully to the planar
// approximation for faces whose FaceSurface is in fact planar or
// ruled, which is by far the common case in architectural IFC models.
func BuildAdvancedBrep(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}
	shellRef, ok := resolveOuterOrFirstShell(ent)
	if !ok {
		return nil, &Error{Msg: "advanced brep has no outer shell reference"}
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
		// IfcAdvancedFace shares IfcFace's Bounds (attr 0); FaceSurface
		// (attr 1) and SameSense (attr 2) describe the underlying surface,
		// which this approximation ignores in favor of the boundary loop.
		if err := addFaceToMesh(dec, m, faceRef); err != nil {
			continue
		}
	}
	m.Finalize()
	if m.TriangleCount() == 0 {
		return nil, &Error{Msg: "advanced brep produced no triangles"}
	}
	return m, nil
}
