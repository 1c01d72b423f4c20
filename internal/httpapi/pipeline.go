package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/ifcproc/ifcproc/internal/applog"
	"github.com/ifcproc/ifcproc/internal/geomproc/router"
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/meshbuf"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// defaultColor fills MeshData.Color; no processor in the corpus extracts
// IfcStyledItem surface colors, so every mesh gets the same neutral gray.
var defaultColor = [4]float32{0.8, 0.8, 0.8, 1.0}

// parseResult is the internal result of one full geometry pass, before
// it is wrapped into a ParseResponse with a cache key.
type parseResult struct {
	meshes   []MeshData
	metadata ModelMetadata
	stats    ProcessingStats
}

func detectSchemaVersion(content string) string {
	switch {
	case strings.Contains(content, "IFC4X3"):
		return "IFC4X3"
	case strings.Contains(content, "IFC4"):
		return "IFC4"
	default:
		return "IFC2X3"
	}
}

// scanMetadata does the cheap entity-count/geometry-count/schema-version
// pass used by both the metadata-only endpoint and the full pipeline's
// stats, without decoding any attributes.
func scanMetadata(content string) (idx *stepfile.Index, entityCount, geometryCount int, schemaVersion string, err error) {
	idx, err = stepfile.ScanEntities([]byte(content))
	if err != nil {
		return nil, 0, 0, "", err
	}
	entityCount = idx.Len()
	for _, ref := range idx.Entities {
		if ifcschema.HasGeometryByName(ref.Type) {
			geometryCount++
		}
	}
	schemaVersion = detectSchemaVersion(content)
	return idx, entityCount, geometryCount, schemaVersion, nil
}

func findProjectID(dec *stepfile.Decoder) (uint32, bool) {
	refs := dec.EntitiesOfType("IFCPROJECT")
	if len(refs) == 0 {
		return 0, false
	}
	return refs[0].ID, true
}

// buildRouter wires a geometry router with unit scale and georeference
// derived from the file's IFCPROJECT, mirroring what the caller
// (previously bare ifcschema.Extract* calls) must now do explicitly
// since the router only exposes the projectID convenience wrapper.
func buildRouter(dec *stepfile.Decoder) (*router.Router, ifcschema.Georeference) {
	r := router.New(dec)
	projectID, ok := findProjectID(dec)
	if !ok {
		return r, ifcschema.Georeference{}
	}
	r = r.WithUnitsFromProject(projectID)
	geo := ifcschema.ExtractGeoreference(dec, projectID)
	if geo.IsSignificant() {
		r = r.WithRTCOffset(geo.Eastings, geo.Northings, geo.OrthogonalHeight)
	}
	return r, geo
}

// processGeometry runs the full lex -> decode -> route pipeline over an
// IFC file's text content, producing every element's mesh plus metadata
// and timing stats.
func processGeometry(content string) (*parseResult, error) {
	parseStart := time.Now()
	idx, entityCount, geometryCount, schemaVersion, err := scanMetadata(content)
	if err != nil {
		return nil, fmt.Errorf("scanning entities: %w", err)
	}
	parseElapsed := time.Since(parseStart)

	geomStart := time.Now()
	dec := stepfile.NewDecoder([]byte(content), idx)
	r, geo := buildRouter(dec)

	meshes := make([]MeshData, 0, geometryCount)
	var totalVertices, totalTriangles int
	for _, ref := range idx.Entities {
		if !ifcschema.HasGeometryByName(ref.Type) {
			continue
		}
		mesh, err := r.ProcessElement(ref.ID)
		if err != nil {
			applog.WithFields(map[string]any{"express_id": ref.ID, "ifc_type": ref.Type, "error": err}).
				Warn("skipping element: structural representation error")
			continue
		}
		if mesh == nil || mesh.VertexCount() == 0 {
			continue
		}
		md := toMeshData(ref.ID, ref.Type, mesh)
		totalVertices += md.vertexCount()
		totalTriangles += md.triangleCount()
		meshes = append(meshes, md)
	}
	geomElapsed := time.Since(geomStart)

	metadata := ModelMetadata{
		SchemaVersion:       schemaVersion,
		EntityCount:         entityCount,
		GeometryEntityCount: geometryCount,
		CoordinateInfo: CoordinateInfo{
			OriginShift:     [3]float64{geo.Eastings, geo.Northings, geo.OrthogonalHeight},
			IsGeoReferenced: geo.IsSignificant(),
		},
	}
	stats := ProcessingStats{
		TotalMeshes:    len(meshes),
		TotalVertices:  totalVertices,
		TotalTriangles: totalTriangles,
		ParseTimeMS:    parseElapsed.Milliseconds(),
		GeometryTimeMS: geomElapsed.Milliseconds(),
		TotalTimeMS:    (parseElapsed + geomElapsed).Milliseconds(),
	}
	return &parseResult{meshes: meshes, metadata: metadata, stats: stats}, nil
}

func toMeshData(expressID uint32, ifcType string, mesh *meshbuf.Mesh) MeshData {
	return MeshData{
		ExpressID: expressID,
		IfcType:   ifcType,
		Positions: append([]float32(nil), mesh.Positions...),
		Normals:   append([]float32(nil), mesh.Normals...),
		Indices:   append([]uint32(nil), mesh.Indices...),
		Color:     defaultColor,
	}
}
