package processors

import (
	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// DecodeProfileDef dispatches an IfcProfileDef entity to the matching
// parametric, arbitrary, or composite decoder, per §4.7's profile
// processor (C5) and profiles.rs's process/process_parametric dispatch.
func DecodeProfileDef(dec *stepfile.Decoder, entityID uint32) (profile.Profile2D, error) {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return profile.Profile2D{}, err
	}
	ifcType := ifcschema.Normalize(ent.IfcType)

	switch ifcschema.ProfileCategoryOf(ifcType) {
	case ifcschema.ProfileParametric:
		return decodeParametricProfile(string(ifcType), ent)
	case ifcschema.ProfileArbitrary:
		return decodeArbitraryProfile(dec, ent)
	case ifcschema.ProfileComposite:
		return decodeCompositeProfile(dec, ent)
	default:
		return profile.Profile2D{}, &Error{Msg: "unsupported profile type: " + string(ent.IfcType)}
	}
}

func decodeParametricProfile(ifcType string, ent *stepfile.DecodedEntity) (profile.Profile2D, error) {
	switch ifcType {
	case "IFCRECTANGLEPROFILEDEF":
		xDim, ok1 := floatAttr(ent, 3)
		yDim, ok2 := floatAttr(ent, 4)
		if !ok1 || !ok2 {
			return profile.Profile2D{}, &Error{Msg: "rectangle profile missing XDim/YDim"}
		}
		return profile.NewRectangle(xDim, yDim), nil

	case "IFCCIRCLEPROFILEDEF":
		radius, ok := floatAttr(ent, 3)
		if !ok {
			return profile.Profile2D{}, &Error{Msg: "circle profile missing Radius"}
		}
		return profile.NewCircle(radius, nil), nil

	case "IFCCIRCLEHOLLOWPROFILEDEF":
		radius, ok := floatAttr(ent, 3)
		if !ok {
			return profile.Profile2D{}, &Error{Msg: "hollow circle profile missing Radius"}
		}
		thickness, ok := floatAttr(ent, 4)
		if !ok {
			return profile.Profile2D{}, &Error{Msg: "hollow circle profile missing WallThickness"}
		}
		inner := radius - thickness
		return profile.NewCircle(radius, &inner), nil

	case "IFCISHAPEPROFILEDEF":
		width, ok1 := floatAttr(ent, 3)
		depth, ok2 := floatAttr(ent, 4)
		webT, ok3 := floatAttr(ent, 5)
		flangeT, ok4 := floatAttr(ent, 6)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return profile.Profile2D{}, &Error{Msg: "I-shape profile missing required dimensions"}
		}
		return profile.NewIShape(width, depth, webT, flangeT), nil

	default:
		return profile.Profile2D{}, &Error{Msg: "unsupported parametric profile: " + ifcType}
	}
}

func decodeArbitraryProfile(dec *stepfile.Decoder, ent *stepfile.DecodedEntity) (profile.Profile2D, error) {
	curveAttr, ok := ent.Get(2)
	if !ok {
		return profile.Profile2D{}, &Error{Msg: "arbitrary profile missing OuterCurve"}
	}
	curveRef, ok := curveAttr.AsEntityRef()
	if !ok {
		return profile.Profile2D{}, &Error{Msg: "OuterCurve is not a reference"}
	}
	outer, err := decodePolyline2D(dec, curveRef)
	if err != nil {
		return profile.Profile2D{}, err
	}
	p := profile.Profile2D{Outer: profile.EnsureCCW(outer)}

	// IfcArbitraryProfileDefWithVoids adds an InnerCurves list (attr 3).
	if ifcschema.Normalize(ent.IfcType) == "IFCARBITRARYPROFILEDEFWITHVOIDS" {
		if innerAttr, ok := ent.Get(3); ok {
			if refs, ok := innerAttr.AsList(); ok {
				for _, rv := range refs {
					ref, ok := rv.AsEntityRef()
					if !ok {
						continue
					}
					hole, err := decodePolyline2D(dec, ref)
					if err != nil {
						continue
					}
					p.AddHole(hole)
				}
			}
		}
	}
	return p, nil
}

func decodeCompositeProfile(dec *stepfile.Decoder, ent *stepfile.DecodedEntity) (profile.Profile2D, error) {
	profilesAttr, ok := ent.Get(2)
	if !ok {
		return profile.Profile2D{}, &Error{Msg: "composite profile missing Profiles"}
	}
	refs, ok := profilesAttr.AsList()
	if !ok || len(refs) == 0 {
		return profile.Profile2D{}, &Error{Msg: "composite profile has no sub-profiles"}
	}

	firstRef, ok := refs[0].AsEntityRef()
	if !ok {
		return profile.Profile2D{}, &Error{Msg: "composite profile's first entry is not a reference"}
	}
	result, err := DecodeProfileDef(dec, firstRef)
	if err != nil {
		return profile.Profile2D{}, err
	}

	for _, rv := range refs[1:] {
		ref, ok := rv.AsEntityRef()
		if !ok {
			continue
		}
		sub, err := DecodeProfileDef(dec, ref)
		if err != nil {
			continue
		}
		result.AddHole(sub.Outer)
	}
	return result, nil
}

// decodePolyline2D resolves an IFCPOLYLINE's Points (attr 0) as 2D points
// (z, if present, is dropped — profiles live in their local XY plane).
func decodePolyline2D(dec *stepfile.Decoder, curveRef uint32) ([]profile.Point2, error) {
	curveEnt, err := dec.DecodeByID(curveRef)
	if err != nil {
		return nil, err
	}
	if ifcschema.Normalize(curveEnt.IfcType) != "IFCPOLYLINE" {
		return nil, &Error{Msg: "unsupported curve type in profile: " + string(curveEnt.IfcType)}
	}
	ptsAttr, ok := curveEnt.Get(0)
	if !ok {
		return nil, &Error{Msg: "polyline missing Points"}
	}
	refs, ok := ptsAttr.AsList()
	if !ok {
		return nil, &Error{Msg: "Points is not a list"}
	}
	out := make([]profile.Point2, 0, len(refs))
	for _, rv := range refs {
		ref, ok := rv.AsEntityRef()
		if !ok {
			continue
		}
		x, y, _, ok := dec.GetCartesianPointFast(ref)
		if !ok {
			continue
		}
		out = append(out, profile.Point2{X: x, Y: y})
	}
	if len(out) < 3 {
		return nil, &Error{Msg: "polyline has fewer than 3 points"}
	}
	return out, nil
}

func floatAttr(ent *stepfile.DecodedEntity, i int) (float64, bool) {
	v, ok := ent.Get(i)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}
