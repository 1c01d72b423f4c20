// Package ifcschema provides the closed IFC type enum, geometry/profile
// category classification, and legacy-name remapping (C3), plus unit and
// georeference extraction (C4).
//
// Grounded on original_source/rust/core/src/legacy_entities.rs for the
// remap table and units.rs for the SI prefix table and extraction walk.
package ifcschema

import "strings"

// IfcType is a closed, case-insensitive-at-lookup identifier for a
// recognized IFC entity type name. Values are always stored upper-case.
type IfcType string

// Normalize upper-cases a raw type name the way file dialects vary
// (mixed-case spellings are matched case-insensitively against the enum).
func Normalize(name string) IfcType {
	return IfcType(strings.ToUpper(name))
}

// GeometryCategory buckets a type for router dispatch.
type GeometryCategory int

const (
	CategoryNone GeometryCategory = iota
	CategorySolid
	CategorySurface
	CategoryTessellation
	CategoryBrep
	CategoryBoolean
	CategoryMapped
)

// ProfileCategory buckets a profile-def type for C5 dispatch.
type ProfileCategory int

const (
	ProfileNone ProfileCategory = iota
	ProfileParametric
	ProfileArbitrary
	ProfileComposite
)

var geometryCategories = map[IfcType]GeometryCategory{
	"IFCEXTRUDEDAREASOLID":         CategorySolid,
	"IFCSURFACECURVESWEPTAREASOLID": CategorySolid,
	"IFCREVOLVEDAREASOLID":         CategorySolid,
	"IFCSWEPTDISKSOLID":            CategorySolid,
	"IFCTRIANGULATEDFACESET":       CategoryTessellation,
	"IFCPOLYGONALFACESET":          CategoryTessellation,
	"IFCFACETEDBREP":               CategoryBrep,
	"IFCADVANCEDBREP":              CategoryBrep,
	"IFCSHELLBASEDSURFACEMODEL":    CategorySurface,
	"IFCFACEBASEDSURFACEMODEL":     CategorySurface,
	"IFCBOOLEANRESULT":             CategoryBoolean,
	"IFCBOOLEANCLIPPINGRESULT":     CategoryBoolean,
	"IFCMAPPEDITEM":                CategoryMapped,
}

// GeometryCategoryOf returns the routing category for a representation
// item type, or CategoryNone if unrecognized (or not geometry-bearing).
func GeometryCategoryOf(t IfcType) GeometryCategory {
	if cat, ok := geometryCategories[t]; ok {
		return cat
	}
	if legacy, ok := legacyTable[t]; ok {
		return GeometryCategoryOf(legacy.BaseType)
	}
	return CategoryNone
}

var profileCategories = map[IfcType]ProfileCategory{
	"IFCRECTANGLEPROFILEDEF": ProfileParametric,
	"IFCCIRCLEPROFILEDEF":    ProfileParametric,
	"IFCCIRCLEHOLLOWPROFILEDEF": ProfileParametric,
	"IFCISHAPEPROFILEDEF":    ProfileParametric,
	"IFCARBITRARYCLOSEDPROFILEDEF":                ProfileArbitrary,
	"IFCARBITRARYPROFILEDEFWITHVOIDS":              ProfileArbitrary,
	"IFCARBITRARYOPENPROFILEDEF":                   ProfileArbitrary,
	"IFCCOMPOSITEPROFILEDEF":                       ProfileComposite,
}

// ProfileCategoryOf returns the profile dispatch category for a
// SweptArea profile-def type.
func ProfileCategoryOf(t IfcType) ProfileCategory {
	if cat, ok := profileCategories[t]; ok {
		return cat
	}
	return ProfileNone
}

// geometryBearingNames is the fast string predicate set used by the lexer
// pass to prefilter candidates before any decoding happens at all. It
// holds building-element type names (every legacy name flagged
// HasGeometry plus its current base type), since callers hand each match
// to the router as an element; representation-item types such as
// IFCEXTRUDEDAREASOLID are not in it.
var geometryBearingNames = buildGeometryBearingSet()

func buildGeometryBearingSet() map[string]bool {
	set := make(map[string]bool, 2*len(legacyTable))
	for name, info := range legacyTable {
		if info.HasGeometry {
			set[string(name)] = true
			set[string(info.BaseType)] = true
		}
	}
	return set
}

// HasGeometryByName is a fast string predicate: is this type name
// (as it literally appears in the file, upper-cased) a building element
// that carries renderable geometry. Used to prefilter candidates without
// decoding.
func HasGeometryByName(name string) bool {
	return geometryBearingNames[strings.ToUpper(name)]
}

// LegacyEntityInfo records the current-schema base type a deprecated
// (IFC2X3/IFC4) type name maps to, plus whether it carries geometry.
type LegacyEntityInfo struct {
	BaseType    IfcType
	HasGeometry bool
}

// legacyTable is the IFC2X3/IFC4 -> IFC4X3 remap table, verbatim from
// original_source/rust/core/src/legacy_entities.rs, so older files parse
// without maintaining parallel multi-schema type definitions.
var legacyTable = map[IfcType]LegacyEntityInfo{
	"IFCBEAMSTANDARDCASE":       {BaseType: "IFCBEAM", HasGeometry: true},
	"IFCCOLUMNSTANDARDCASE":     {BaseType: "IFCCOLUMN", HasGeometry: true},
	"IFCSLABSTANDARDCASE":       {BaseType: "IFCSLAB", HasGeometry: true},
	"IFCWALLSTANDARDCASE":       {BaseType: "IFCWALL", HasGeometry: true},
	"IFCDOORSTANDARDCASE":       {BaseType: "IFCDOOR", HasGeometry: true},
	"IFCWINDOWSTANDARDCASE":     {BaseType: "IFCWINDOW", HasGeometry: true},
	"IFCMEMBERSTANDARDCASE":     {BaseType: "IFCMEMBER", HasGeometry: true},
	"IFCPLATESTANDARDCASE":      {BaseType: "IFCPLATE", HasGeometry: true},
	"IFCSTAIRFLIGHTSTANDARDCASE": {BaseType: "IFCSTAIRFLIGHT", HasGeometry: true},
	"IFCRAILINGSTANDARDCASE":    {BaseType: "IFCRAILING", HasGeometry: true},
	"IFCRAMPFLIGHTSTANDARDCASE": {BaseType: "IFCRAMPFLIGHT", HasGeometry: true},
	"IFCFOOTINGSTANDARDCASE":    {BaseType: "IFCFOOTING", HasGeometry: true},
	"IFCPILESTANDARDCASE":       {BaseType: "IFCPILE", HasGeometry: true},
	"IFCCOVERINGSTANDARDCASE":   {BaseType: "IFCCOVERING", HasGeometry: true},
	"IFCROOFSTANDARDCASE":       {BaseType: "IFCROOF", HasGeometry: true},
}

// IsLegacyEntity reports whether name is in the legacy remap table.
func IsLegacyEntity(name IfcType) bool {
	_, ok := legacyTable[name]
	return ok
}

// MapLegacyToBaseType resolves a legacy type name to its current-schema
// base type, returning the input unchanged if it is not a legacy name.
func MapLegacyToBaseType(name IfcType) IfcType {
	if info, ok := legacyTable[name]; ok {
		return info.BaseType
	}
	return name
}
