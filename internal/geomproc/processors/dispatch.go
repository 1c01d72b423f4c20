package processors

import (
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// Dispatch builds a mesh for a single representation item entity by its
// IFC type, matching the router's per-item processor lookup (§4.9). An
// unsupported type is not an error here: the router's failure policy
// treats a skipped item as an empty mesh, not a propagated error.
func Dispatch(dec *stepfile.Decoder, entityID uint32, ifcType string) (*meshbuf.Mesh, error) {
	switch ifcschema.Normalize(ifcType) {
	case "IFCEXTRUDEDAREASOLID":
		return BuildExtrudedAreaSolid(dec, entityID)
	case "IFCTRIANGULATEDFACESET":
		return BuildTriangulatedFaceSet(dec, entityID)
	case "IFCPOLYGONALFACESET":
		return BuildPolygonalFaceSet(dec, entityID)
	case "IFCFACETEDBREP", "IFCFACEBASEDSURFACEMODEL", "IFCSHELLBASEDSURFACEMODEL":
		return BuildFacetedBrep(dec, entityID)
	case "IFCADVANCEDBREP":
		return BuildAdvancedBrep(dec, entityID)
	case "IFCSWEPTDISKSOLID":
		return BuildSweptDiskSolid(dec, entityID)
	case "IFCREVOLVEDAREASOLID":
		return BuildRevolvedAreaSolid(dec, entityID)
	case "IFCBOOLEANRESULT", "IFCBOOLEANCLIPPINGRESULT":
		return BuildBooleanResult(dec, entityID, dispatchOperand)
	case "IFCMAPPEDITEM":
		return BuildMappedItem(dec, entityID)
	default:
		return nil, &Error{Msg: "unsupported representation item type: " + ifcType}
	}
}

// dispatchOperand resolves a boolean operand entity back through Dispatch,
// looking up its own IfcType first.
func dispatchOperand(dec *stepfile.Decoder, entityID uint32) (*meshbuf.Mesh, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}
	return Dispatch(dec, entityID, ent.IfcType)
}
