// Package router implements the geometry router (C10): it walks a
// product entity's representation graph down to representation items,
// dispatches each item to its processor, accumulates into one mesh per
// element, then applies unit scale and RTC offset.
//
// Grounded on original_source/rust/geometry/src/router/mod.rs (processor
// registry shape, unit_scale/rtc_offset fields, mapped-item cache) and
// router/caching.rs (content-hash dedup via a shared mesh pointer).
package router

import (
	"github.com/ifcproc/ifcproc/internal/applog"
	"github.com/ifcproc/ifcproc/internal/geomproc/processors"
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// Router holds per-request processing state: the decoder it reads from,
// a unit scale and RTC offset applied to every finished element mesh, and
// three caches scoped to the request's lifetime (never shared across
// requests, per §4.9).
type Router struct {
	dec       *stepfile.Decoder
	unitScale float64
	rtcOffset [3]float64

	mappedItemCache   map[uint32]*meshbuf.Mesh
	facetedBrepCache  map[uint32]*meshbuf.Mesh
	geometryHashCache map[uint64]*meshbuf.Mesh
}

// New builds a router with unit scale 1.0 and no RTC offset.
func New(dec *stepfile.Decoder) *Router {
	return &Router{
		dec:               dec,
		unitScale:         1.0,
		mappedItemCache:   make(map[uint32]*meshbuf.Mesh),
		facetedBrepCache:  make(map[uint32]*meshbuf.Mesh),
		geometryHashCache: make(map[uint64]*meshbuf.Mesh),
	}
}

// WithUnitScale sets the length-unit-to-meters scale factor (§4.9).
func (r *Router) WithUnitScale(scale float64) *Router {
	r.unitScale = scale
	return r
}

// WithRTCOffset sets the relative-to-center offset subtracted from every
// element's world-space positions (§4.9).
func (r *Router) WithRTCOffset(x, y, z float64) *Router {
	r.rtcOffset = [3]float64{x, y, z}
	return r
}

// WithUnitsFromProject reads projectID's IFCPROJECT unit assignment and
// sets the router's unit scale from it, mirroring with_units's role of
// deriving the scale from the file's own declared units rather than an
// externally supplied value.
func (r *Router) WithUnitsFromProject(projectID uint32) *Router {
	r.unitScale = ifcschema.ExtractLengthUnitScale(r.dec, projectID)
	return r
}

// Error carries a router-level failure reason. Per-item processor errors
// never reach this type — see ProcessElement's failure policy.
type Error struct{ Msg string }

func (e *Error) Error() string { return "geometry router error: " + e.Msg }

// ProcessElement walks entityID's representation graph
// (IfcProduct.Representation → IfcProductDefinitionShape.Representations
// → IfcShapeRepresentation.Items) down to representation items, dispatches
// each to its processor in attribute order, accumulates into a single
// mesh, then scales and RTC-offsets the result (§4.9).
//
// Failure policy: a processor error on one item yields an empty
// contribution for that item; only a missing/malformed representation
// graph on the element itself is a returned error. An element with zero
// successful items yields an empty, non-nil mesh.
func (r *Router) ProcessElement(entityID uint32) (*meshbuf.Mesh, error) {
	itemRefs, err := r.collectRepresentationItems(entityID)
	if err != nil {
		return nil, err
	}

	merged := meshbuf.New()
	for _, itemRef := range itemRefs {
		itemMesh := r.processItem(itemRef)
		if itemMesh == nil {
			continue
		}
		merged.Append(itemMesh)
	}
	merged.Finalize()

	merged.ScalePositions(r.unitScale)
	merged.SubtractOffset(r.rtcOffset[0], r.rtcOffset[1], r.rtcOffset[2])

	return r.dedup(merged), nil
}

// collectRepresentationItems resolves entityID's Representation (attr 6,
// the common IfcProduct layout) down to every IfcShapeRepresentation's
// Items list, in representation order then item order.
func (r *Router) collectRepresentationItems(entityID uint32) ([]uint32, error) {
	product, err := r.dec.DecodeByID(entityID)
	if err != nil {
		return nil, err
	}
	repAttr, ok := product.Get(6)
	if !ok || repAttr.IsNull() {
		return nil, &Error{Msg: "element has no Representation"}
	}
	repRef, ok := repAttr.AsEntityRef()
	if !ok {
		return nil, &Error{Msg: "Representation is not a reference"}
	}
	shape, err := r.dec.DecodeByID(repRef)
	if err != nil {
		return nil, err
	}
	repsAttr, ok := shape.Get(2)
	if !ok {
		return nil, &Error{Msg: "product definition shape missing Representations"}
	}
	repRefs, ok := repsAttr.AsList()
	if !ok {
		return nil, &Error{Msg: "Representations is not a list"}
	}

	var items []uint32
	for _, rv := range repRefs {
		shapeRepRef, ok := rv.AsEntityRef()
		if !ok {
			continue
		}
		shapeRep, err := r.dec.DecodeByID(shapeRepRef)
		if err != nil {
			continue
		}
		itemsAttr, ok := shapeRep.Get(3)
		if !ok {
			continue
		}
		itemRefs, ok := itemsAttr.AsList()
		if !ok {
			continue
		}
		for _, iv := range itemRefs {
			id, ok := iv.AsEntityRef()
			if ok {
				items = append(items, id)
			}
		}
	}
	return items, nil
}

// processItem dispatches one representation item to its processor,
// applying the mapped-item source cache. A processor error is logged and
// dropped here per §4.9's failure policy: the element accumulates whatever
// succeeded.
func (r *Router) processItem(itemRef uint32) *meshbuf.Mesh {
	itemEnt, err := r.dec.DecodeByID(itemRef)
	if err != nil {
		return nil
	}

	if ifcschema.Normalize(itemEnt.IfcType) == "IFCMAPPEDITEM" {
		return r.processMappedItem(itemEnt)
	}

	mesh, err := processors.Dispatch(r.dec, itemRef, itemEnt.IfcType)
	if err != nil {
		applog.WithFields(map[string]any{"item": itemRef, "type": itemEnt.IfcType, "error": err.Error()}).
			Warn("geometry item skipped")
		return nil
	}
	return mesh
}

// processMappedItem evaluates MappingSource once per distinct
// IfcRepresentationMap id (caching the unscaled, untransformed shared
// mesh), then applies MappingTarget to a copy for this instance.
func (r *Router) processMappedItem(itemEnt *stepfile.DecodedEntity) *meshbuf.Mesh {
	sourceAttr, ok := itemEnt.Get(0)
	if !ok {
		return nil
	}
	sourceRef, ok := sourceAttr.AsEntityRef()
	if !ok {
		return nil
	}

	shared, cached := r.mappedItemCache[sourceRef]
	if !cached {
		mesh, err := processors.EvaluateRepresentationMap(r.dec, sourceRef)
		if err != nil {
			return nil
		}
		shared = mesh
		r.mappedItemCache[sourceRef] = shared
	}

	instance := cloneMesh(shared)
	if targetAttr, ok := itemEnt.Get(1); ok {
		if targetRef, ok := targetAttr.AsEntityRef(); ok {
			processors.ApplyMappingTarget(r.dec, instance, targetRef)
		}
	}
	return instance
}

func cloneMesh(src *meshbuf.Mesh) *meshbuf.Mesh {
	out := meshbuf.New()
	out.Append(src)
	out.Finalize()
	return out
}

// dedup replaces mesh with a previously seen equal-content mesh if one
// exists in this request's hash cache, otherwise registers it, per
// §4.9's content-hash dedup.
func (r *Router) dedup(mesh *meshbuf.Mesh) *meshbuf.Mesh {
	hash := mesh.ContentHash()
	if shared, ok := r.geometryHashCache[hash]; ok {
		return shared
	}
	r.geometryHashCache[hash] = mesh
	return mesh
}
