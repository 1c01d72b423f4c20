package ifcschema

import "github.com/ifcproc/ifcproc/internal/stepfile"

// siPrefixMultipliers is the IfcSIPrefix -> scalar multiplier table,
// verbatim from original_source/rust/core/src/units.rs. Absent/unknown
// prefixes default to 1.0 (base unit, metres).
var siPrefixMultipliers = map[string]float64{
	"ATTO":  1e-18,
	"FEMTO": 1e-15,
	"PICO":  1e-12,
	"NANO":  1e-9,
	"MICRO": 1e-6,
	"MILLI": 1e-3,
	"CENTI": 1e-2,
	"DECI":  1e-1,
	"DECA":  1e1,
	"HECTO": 1e2,
	"KILO":  1e3,
	"MEGA":  1e6,
	"GIGA":  1e9,
	"TERA":  1e12,
	"PETA":  1e15,
	"EXA":   1e18,
}

// SIPrefixMultiplier returns the scalar multiplier for an IfcSIPrefix
// enumeration value; unknown or empty prefixes are base units (1.0).
func SIPrefixMultiplier(prefix string) float64 {
	if m, ok := siPrefixMultipliers[prefix]; ok {
		return m
	}
	return 1.0
}

// ExtractLengthUnitScale walks IfcProject (attr 8: UnitsInContext) ->
// IfcUnitAssignment (attr 0: list) -> the first IfcSIUnit whose UnitType
// is LENGTHUNIT -> its Prefix, returning the metre-conversion multiplier.
// Any failure along the chain defaults to 1.0 and never returns an error.
func ExtractLengthUnitScale(dec *stepfile.Decoder, projectID uint32) float64 {
	project, err := dec.DecodeByID(projectID)
	if err != nil || project.IfcType != "IFCPROJECT" {
		return 1.0
	}

	unitsAttr, ok := project.Get(8)
	if !ok {
		return 1.0
	}
	unitsRef, ok := unitsAttr.AsEntityRef()
	if !ok {
		return 1.0
	}

	unitAssignment, err := dec.DecodeByID(unitsRef)
	if err != nil || unitAssignment.IfcType != "IFCUNITASSIGNMENT" {
		return 1.0
	}

	unitsListAttr, ok := unitAssignment.Get(0)
	if !ok {
		return 1.0
	}
	unitsList, ok := unitsListAttr.AsList()
	if !ok {
		return 1.0
	}

	for _, unitAttr := range unitsList {
		unitRef, ok := unitAttr.AsEntityRef()
		if !ok {
			continue
		}
		unitEntity, err := dec.DecodeByID(unitRef)
		if err != nil || unitEntity.IfcType != "IFCSIUNIT" {
			continue
		}

		unitTypeAttr, ok := unitEntity.Get(1)
		if !ok {
			continue
		}
		unitType, ok := unitTypeAttr.AsString()
		if !ok || unitType != "LENGTHUNIT" {
			continue
		}

		prefixAttr, ok := unitEntity.Get(2)
		if !ok {
			return 1.0
		}
		if prefixAttr.IsNull() {
			return 1.0
		}
		prefix, ok := prefixAttr.AsString()
		if !ok {
			return 1.0
		}
		return SIPrefixMultiplier(prefix)
	}

	return 1.0
}

// Georeference captures a map-conversion's rotation + translation +
// uniform scale from project coordinates to a target CRS.
type Georeference struct {
	CRSName           string
	Eastings          float64
	Northings         float64
	OrthogonalHeight  float64
	XAxisAbscissa     float64
	XAxisOrdinate     float64
	Scale             float64
	Present           bool
}

// significantThresholdMeters marks an RTC offset "significant" per §3:
// any component exceeding 10 km.
const significantThresholdMeters = 10_000.0

// IsSignificant reports whether the georeference's translation is large
// enough to warrant an RTC offset.
func (g Georeference) IsSignificant() bool {
	return g.Present && (abs(g.Eastings) > significantThresholdMeters ||
		abs(g.Northings) > significantThresholdMeters ||
		abs(g.OrthogonalHeight) > significantThresholdMeters)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// ExtractGeoreference walks IfcProject -> RepresentationContexts (attr 7)
// -> IfcGeometricRepresentationContext -> HasCoordinateOperation ->
// IfcMapConversion, capturing eastings/northings/height/axis/scale. Any
// failure along the chain yields a zero-value, non-present Georeference.
func ExtractGeoreference(dec *stepfile.Decoder, projectID uint32) Georeference {
	project, err := dec.DecodeByID(projectID)
	if err != nil || project.IfcType != "IFCPROJECT" {
		return Georeference{}
	}
	ctxAttr, ok := project.Get(7)
	if !ok {
		return Georeference{}
	}
	ctxList, ok := ctxAttr.AsList()
	if !ok {
		return Georeference{}
	}
	for _, ctxVal := range ctxList {
		ctxRef, ok := ctxVal.AsEntityRef()
		if !ok {
			continue
		}
		ctxEntity, err := dec.DecodeByID(ctxRef)
		if err != nil {
			continue
		}
		mc, ok := findMapConversion(dec, ctxEntity)
		if !ok {
			continue
		}
		return mc
	}
	return Georeference{}
}

// findMapConversion resolves IfcMapConversion's inverse
// HasCoordinateOperation relation by scanning every IFCMAPCONVERSION
// instance in the file and matching its SourceCRS (attr 0) against ctx's
// id — STEP attribute lists are forward-only, so the inverse relation has
// to be found this way rather than walked directly.
func findMapConversion(dec *stepfile.Decoder, ctx *stepfile.DecodedEntity) (Georeference, bool) {
	for _, ref := range dec.EntitiesOfType("IFCMAPCONVERSION") {
		mc, err := dec.DecodeRange(ref)
		if err != nil {
			continue
		}
		srcAttr, ok := mc.Get(0)
		if !ok {
			continue
		}
		srcRef, ok := srcAttr.AsEntityRef()
		if !ok || srcRef != ctx.ID {
			continue
		}

		get := func(i int) float64 {
			v, ok := mc.Get(i)
			if !ok {
				return 0
			}
			f, _ := v.AsFloat()
			return f
		}

		geo := Georeference{
			Present:          true,
			Eastings:         get(2),
			Northings:        get(3),
			OrthogonalHeight: get(4),
			XAxisAbscissa:    get(5),
			XAxisOrdinate:    get(6),
			Scale:            get(7),
		}
		if geo.Scale == 0 {
			geo.Scale = 1.0
		}
		if tgtAttr, ok := mc.Get(1); ok {
			if tgtRef, ok := tgtAttr.AsEntityRef(); ok {
				if tgtCRS, err := dec.DecodeByID(tgtRef); err == nil {
					if nameAttr, ok := tgtCRS.Get(0); ok {
						if name, ok := nameAttr.AsString(); ok {
							geo.CRSName = name
						}
					}
				}
			}
		}
		return geo, true
	}
	return Georeference{}, false
}
