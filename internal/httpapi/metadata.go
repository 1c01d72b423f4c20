package httpapi

// processMetadata is the fast path behind /api/v1/parse/metadata: scan
// entities only, never decode attributes or build geometry.
func processMetadata(content string, fileSize int) (*MetadataResponse, error) {
	_, entityCount, geometryCount, schemaVersion, err := scanMetadata(content)
	if err != nil {
		return nil, err
	}
	return &MetadataResponse{
		EntityCount:   entityCount,
		GeometryCount: geometryCount,
		SchemaVersion: schemaVersion,
		FileSize:      fileSize,
	}, nil
}
