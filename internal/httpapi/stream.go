package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/ifcproc/ifcproc/internal/applog"
	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// nextBatchSize implements the growth schedule from §4.12: the first
// three batches use initial for a fast first frame; each batch after
// that doubles, capped at max.
func nextBatchSize(batchNumber, initial, max int) int {
	if batchNumber <= 3 {
		return initial
	}
	size := initial << uint(batchNumber-3)
	if size > max || size <= 0 {
		return max
	}
	return size
}

// streamGeometry runs the same lex -> decode -> route pipeline as
// processGeometry, but emits progressive events via emit instead of
// collecting one final response. It stops early if ctx is cancelled or
// emit reports the consumer is gone (client disconnected), mirroring
// render/dev/implcommon.go's ctx.Done() check between pixel batches.
func streamGeometry(ctx context.Context, content string, initialBatch, maxBatch int, emit func(any) bool) (*parseResult, error) {
	parseStart := time.Now()
	idx, entityCount, geometryCount, schemaVersion, err := scanMetadata(content)
	if err != nil {
		return nil, fmt.Errorf("scanning entities: %w", err)
	}
	parseElapsed := time.Since(parseStart)

	if !emit(streamEventStart{Type: "start", TotalEstimate: geometryCount}) {
		return nil, context.Canceled
	}

	geomStart := time.Now()
	dec := stepfile.NewDecoder([]byte(content), idx)
	r, geo := buildRouter(dec)

	var (
		meshes                       []MeshData
		totalVertices, totalTriangles int
		processed                     int
		batchNumber                   int
		pending                       []MeshData
		lastType                     string
		lastProgressEmitted          int
	)

	flushBatch := func() bool {
		if len(pending) == 0 {
			return true
		}
		batchNumber++
		ok := emit(streamEventBatch{Type: "batch", Meshes: pending, BatchNumber: batchNumber})
		meshes = append(meshes, pending...)
		pending = nil
		return ok
	}

	for _, ref := range idx.Entities {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if !ifcschema.HasGeometryByName(ref.Type) {
			continue
		}
		mesh, err := r.ProcessElement(ref.ID)
		processed++
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
		pending = append(pending, md)
		lastType = ref.Type

		if processed%25 == 0 {
			if !emit(streamEventProgress{Type: "progress", Processed: processed, Total: geometryCount, CurrentType: ref.Type}) {
				return nil, context.Canceled
			}
			lastProgressEmitted = processed
		}

		wantSize := nextBatchSize(batchNumber+1, initialBatch, maxBatch)
		if len(pending) >= wantSize {
			if !flushBatch() {
				return nil, context.Canceled
			}
		}
	}
	// Guarantee at least one progress frame even for files with fewer
	// than 25 geometry-bearing entities, where the %25 gate above never
	// fires.
	if processed > 0 && lastProgressEmitted != processed {
		if !emit(streamEventProgress{Type: "progress", Processed: processed, Total: geometryCount, CurrentType: lastType}) {
			return nil, context.Canceled
		}
	}
	if !flushBatch() {
		return nil, context.Canceled
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
