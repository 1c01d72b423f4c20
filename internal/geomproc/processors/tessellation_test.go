package processors

import (
	"testing"

	"github.com/ifcproc/ifcproc/internal/stepfile"
	"github.com/stretchr/testify/require"
)

func TestBuildTriangulatedFaceSet(t *testing.T) {
	data := []byte(
		"#1=IFCTRIANGULATEDFACESET((" +
			"(0.,0.,0.),(1.,0.,0.),(1.,1.,0.),(0.,1.,0.))" +
			",$,.T.,((1,2,3),(1,3,4)),$);\n")
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	m, err := BuildTriangulatedFaceSet(dec, 1)
	require.NoError(t, err)
	require.Equal(t, 2, m.TriangleCount())
}

func TestBuildTriangulatedFaceSetMissingCoordIndex(t *testing.T) {
	data := []byte("#1=IFCTRIANGULATEDFACESET((0.,0.,0.));\n")
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	_, err = BuildTriangulatedFaceSet(dec, 1)
	require.Error(t, err)
}
