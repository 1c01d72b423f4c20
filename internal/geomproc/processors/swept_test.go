package processors

import (
	"math"
	"testing"

	"github.com/ifcproc/ifcproc/internal/stepfile"
	"github.com/stretchr/testify/require"
)

func TestBuildSweptDiskSolidStraightLine(t *testing.T) {
	data := []byte(`#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((0.,0.,10.));
#3=IFCPOLYLINE((#1,#2));
#4=IFCSWEPTDISKSOLID(#3,0.5);
`)
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	m, err := BuildSweptDiskSolid(dec, 4)
	require.NoError(t, err)
	require.Equal(t, diskRadialSegments*2, m.TriangleCount())

	minB, maxB, ok := m.Bounds()
	require.True(t, ok)
	require.InDelta(t, 0, minB[2], 1e-6)
	require.InDelta(t, 10, maxB[2], 1e-6)
	require.True(t, maxB[0] > 0.4)
}

func TestBuildSweptDiskSolidInvalidRadius(t *testing.T) {
	data := []byte(`#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((0.,0.,10.));
#3=IFCPOLYLINE((#1,#2));
#4=IFCSWEPTDISKSOLID(#3,-1.);
`)
	idx, err := stepfile.ScanEntities(data)
	require.NoError(t, err)
	dec := stepfile.NewDecoder(data, idx)

	_, err = BuildSweptDiskSolid(dec, 4)
	require.Error(t, err)
}

func TestRevolveProfileFullTurnHasNoCaps(t *testing.T) {
	profile := []Vec3{{1, 0, 0}, {2, 0, 0}, {2, 0, 1}, {1, 0, 1}}
	m, err := revolveProfile(profile, Vec3{0, 0, 1}, Vec3{0, 0, 0}, 2*math.Pi)
	require.NoError(t, err)
	require.True(t, m.TriangleCount() > 0)
	// 24 sweep segments x 3 profile edges x 2 triangles, no cap triangles.
	require.Equal(t, revolutionSegments(2*math.Pi)*(len(profile)-1)*2, m.TriangleCount())
}

func TestRevolveProfilePartialTurnHasCaps(t *testing.T) {
	profile := []Vec3{{1, 0, 0}, {2, 0, 0}, {2, 0, 1}, {1, 0, 1}}
	full, err := revolveProfile(profile, Vec3{0, 0, 1}, Vec3{0, 0, 0}, 2*math.Pi)
	require.NoError(t, err)
	partial, err := revolveProfile(profile, Vec3{0, 0, 1}, Vec3{0, 0, 0}, math.Pi)
	require.NoError(t, err)

	// A half revolution sweeps 12 segments x 3 profile edges x 2 triangles
	// plus two end caps of 2 triangles each; the full turn has no caps.
	require.True(t, partial.TriangleCount() > 0)
	require.True(t, full.TriangleCount() > 0)
	require.Equal(t, revolutionSegments(math.Pi)*(len(profile)-1)*2+2*(len(profile)-2), partial.TriangleCount())
	require.Equal(t, revolutionSegments(2*math.Pi)*(len(profile)-1)*2, full.TriangleCount())
}

func TestRevolveProfileInvalidAngle(t *testing.T) {
	profile := []Vec3{{1, 0, 0}, {2, 0, 0}}
	_, err := revolveProfile(profile, Vec3{0, 0, 1}, Vec3{0, 0, 0}, 0)
	require.Error(t, err)
}
