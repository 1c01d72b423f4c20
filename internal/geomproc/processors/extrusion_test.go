package processors

import (
	"testing"

	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
	"github.com/stretchr/testify/require"
)

func TestExtrudeRectangleAxial(t *testing.T) {
	p := profile.NewRectangle(2, 4)
	m, err := ExtrudeProfile(p, 10, Vec3{0, 0, 1}, Identity())
	require.NoError(t, err)
	require.True(t, m.TriangleCount() > 0)

	minB, maxB, ok := m.Bounds()
	require.True(t, ok)
	require.InDelta(t, -1, minB[0], 1e-6)
	require.InDelta(t, -2, minB[1], 1e-6)
	require.InDelta(t, 0, minB[2], 1e-6)
	require.InDelta(t, 1, maxB[0], 1e-6)
	require.InDelta(t, 2, maxB[1], 1e-6)
	require.InDelta(t, 10, maxB[2], 1e-6)
}

func TestExtrudeCircle(t *testing.T) {
	p := profile.NewCircle(3, nil)
	m, err := ExtrudeProfile(p, 5, Vec3{0, 0, 1}, Identity())
	require.NoError(t, err)
	require.True(t, m.VertexCount() > 0)
	require.True(t, m.Valid())
}

func TestExtrudeHollowCircle(t *testing.T) {
	hole := 1.0
	p := profile.NewCircle(3, &hole)
	m, err := ExtrudeProfile(p, 5, Vec3{0, 0, 1}, Identity())
	require.NoError(t, err)
	require.True(t, m.TriangleCount() > 0)
}

func TestExtrudeInvalidDepth(t *testing.T) {
	p := profile.NewRectangle(1, 1)
	_, err := ExtrudeProfile(p, 0, Vec3{0, 0, 1}, Identity())
	require.Error(t, err)

	_, err = ExtrudeProfile(p, -1, Vec3{0, 0, 1}, Identity())
	require.Error(t, err)
}

func TestExtrudeWithPlacementTransform(t *testing.T) {
	p := profile.NewRectangle(2, 2)
	placement := Placement{Origin: Vec3{10, 20, 30}, X: Vec3{1, 0, 0}, Y: Vec3{0, 1, 0}, Z: Vec3{0, 0, 1}}
	m, err := ExtrudeProfile(p, 4, Vec3{0, 0, 1}, placement)
	require.NoError(t, err)

	minB, _, ok := m.Bounds()
	require.True(t, ok)
	require.InDelta(t, 9, minB[0], 1e-6)
	require.InDelta(t, 19, minB[1], 1e-6)
	require.InDelta(t, 30, minB[2], 1e-6)
}

func TestExtrudeShearedDirection(t *testing.T) {
	p := profile.NewRectangle(2, 2)
	m, err := ExtrudeProfile(p, 4, Vec3{1, 0, 1}, Identity())
	require.NoError(t, err)

	// Sheared along +X as depth increases: the max X at the top cap should
	// exceed the un-sheared extent (1 + 1*4 = 5, since the direction is used
	// as given, not normalized; loosely bounded here).
	_, maxB, ok := m.Bounds()
	require.True(t, ok)
	require.True(t, maxB[0] > 1.0)
}

func TestExtrudeProfileWithVoids(t *testing.T) {
	outer := profile.NewRectangle(10, 10)
	pv := profile.ProfileWithVoids{
		Profile: outer,
		Voids: []profile.VoidInfo{
			profile.ClassifyVoid([]profile.Point2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}, 0, 4, 4),
			profile.ClassifyVoid([]profile.Point2{{-3, -3}, {-2, -3}, {-2, -2}, {-3, -2}}, 1, 2, 4),
		},
	}
	m, err := ExtrudeProfileWithVoids(pv, 4, Vec3{0, 0, 1}, Identity())
	require.NoError(t, err)
	require.True(t, m.TriangleCount() > 0)
	require.True(t, m.Valid())
}
