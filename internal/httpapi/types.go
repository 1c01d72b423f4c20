// Package httpapi implements the HTTP surface (C13): multipart upload
// extraction, SHA-256 fingerprinting, cache lookup/write, CPU worker-pool
// dispatch, and the JSON/SSE response shapes, grounded on
// apps/server/src/{config,error,routes/parse,types/*}.rs.
package httpapi

// MeshData is one element's triangle mesh, serialized for the client.
type MeshData struct {
	ExpressID uint32    `json:"express_id"`
	IfcType   string    `json:"ifc_type"`
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
	Color     [4]float32 `json:"color"`
}

func (m MeshData) vertexCount() int   { return len(m.Positions) / 3 }
func (m MeshData) triangleCount() int { return len(m.Indices) / 3 }

// CoordinateInfo reports the origin shift (RTC offset) applied to
// coordinates and whether the model carries a georeference.
type CoordinateInfo struct {
	OriginShift     [3]float64 `json:"origin_shift"`
	IsGeoReferenced bool       `json:"is_geo_referenced"`
}

// ModelMetadata is extracted once per file, independent of geometry.
type ModelMetadata struct {
	SchemaVersion      string         `json:"schema_version"`
	EntityCount        int            `json:"entity_count"`
	GeometryEntityCount int           `json:"geometry_entity_count"`
	CoordinateInfo     CoordinateInfo `json:"coordinate_info"`
}

// ProcessingStats reports timing and volume for one parse.
type ProcessingStats struct {
	TotalMeshes     int   `json:"total_meshes"`
	TotalVertices   int   `json:"total_vertices"`
	TotalTriangles  int   `json:"total_triangles"`
	ParseTimeMS     int64 `json:"parse_time_ms"`
	GeometryTimeMS  int64 `json:"geometry_time_ms"`
	TotalTimeMS     int64 `json:"total_time_ms"`
	FromCache       bool  `json:"from_cache"`
}

// ParseResponse is the full JSON body returned by /api/v1/parse and
// GET /api/v1/cache/{key}.
type ParseResponse struct {
	CacheKey string          `json:"cache_key"`
	Meshes   []MeshData      `json:"meshes"`
	Metadata ModelMetadata   `json:"metadata"`
	Stats    ProcessingStats `json:"stats"`
}

// MetadataResponse is the fast-path body for /api/v1/parse/metadata.
type MetadataResponse struct {
	EntityCount    int    `json:"entity_count"`
	GeometryCount  int    `json:"geometry_count"`
	SchemaVersion  string `json:"schema_version"`
	FileSize       int    `json:"file_size"`
}

// streamEventStart is the first SSE frame of a stream.
type streamEventStart struct {
	Type          string `json:"type"`
	TotalEstimate int    `json:"total_estimate"`
}

// streamEventProgress reports incremental progress.
type streamEventProgress struct {
	Type        string `json:"type"`
	Processed   int    `json:"processed"`
	Total       int    `json:"total"`
	CurrentType string `json:"current_type"`
}

// streamEventBatch carries one growing batch of meshes.
type streamEventBatch struct {
	Type        string     `json:"type"`
	Meshes      []MeshData `json:"meshes"`
	BatchNumber int        `json:"batch_number"`
}

// streamEventComplete is the terminal success frame.
type streamEventComplete struct {
	Type     string          `json:"type"`
	Stats    ProcessingStats `json:"stats"`
	Metadata ModelMetadata   `json:"metadata"`
	CacheKey string          `json:"cache_key"`
}

// streamEventError terminates the stream on failure.
type streamEventError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
