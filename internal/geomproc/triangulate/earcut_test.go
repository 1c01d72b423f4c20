package triangulate

import (
	"testing"

	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
	"github.com/stretchr/testify/require"
)

func TestTriangulateSquare(t *testing.T) {
	pts := []profile.Point2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	idx, err := TriangulatePolygon(pts)
	require.NoError(t, err)
	require.Len(t, idx, 6)
}

func TestTriangulateTriangle(t *testing.T) {
	pts := []profile.Point2{{0, 0}, {1, 0}, {0.5, 1}}
	idx, err := TriangulatePolygon(pts)
	require.NoError(t, err)
	require.Len(t, idx, 3)
}

func TestTriangulateInsufficientPoints(t *testing.T) {
	pts := []profile.Point2{{0, 0}, {1, 0}}
	_, err := TriangulatePolygon(pts)
	require.Error(t, err)
}

func TestTriangulateRectangleWithHole(t *testing.T) {
	p := profile.Profile2D{
		Outer: []profile.Point2{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes: [][]profile.Point2{{{4, 4}, {4, 6}, {6, 6}, {6, 4}}}, // CW already
	}
	result, err := Triangulate(p)
	require.NoError(t, err)
	require.Len(t, result.Points, 8)
	expected := ExpectedTriangleCount(4, []int{4})
	require.Equal(t, expected, len(result.Indices)/3)
}

func TestExpectedTriangleCountSimplePolygon(t *testing.T) {
	require.Equal(t, 2, ExpectedTriangleCount(4, nil))
	require.Equal(t, 1, ExpectedTriangleCount(3, nil))
}
