package topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const epsilon = 1e-9

func TestTranslateVertex(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(1, 2, 3)

	a.Translate(vk.Topology(), 10, 20, 30)

	v, _ := a.Vertex(vk)
	require.InDelta(t, 11, v.X, epsilon)
	require.InDelta(t, 22, v.Y, epsilon)
	require.InDelta(t, 33, v.Z, epsilon)
}

func TestTranslateEdgeMovesBothVertices(t *testing.T) {
	a := NewArena()
	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(1, 0, 0)
	edge, err := a.AddEdge(v0, v1)
	require.NoError(t, err)

	a.Translate(edge.Topology(), 5, 5, 5)

	p0, _ := a.Vertex(v0)
	p1, _ := a.Vertex(v1)
	require.InDelta(t, 5, p0.X, epsilon)
	require.InDelta(t, 6, p1.X, epsilon)
}

func TestRotateVertex90DegreesAroundZ(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(1, 0, 0)

	a.Rotate(vk.Topology(), [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, math.Pi/2)

	v, _ := a.Vertex(vk)
	require.InDelta(t, 0, v.X, 1e-10)
	require.InDelta(t, 1, v.Y, 1e-10)
	require.InDelta(t, 0, v.Z, 1e-10)
}

func TestRotateAroundOffsetOrigin(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(2, 0, 0)

	a.Rotate(vk.Topology(), [3]float64{1, 0, 0}, [3]float64{0, 0, 1}, math.Pi/2)

	v, _ := a.Vertex(vk)
	require.InDelta(t, 1, v.X, 1e-10)
	require.InDelta(t, 1, v.Y, 1e-10)
	require.InDelta(t, 0, v.Z, 1e-10)
}

func TestScaleVertex(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(2, 3, 4)

	a.Scale(vk.Topology(), [3]float64{0, 0, 0}, 2, 3, 0.5)

	v, _ := a.Vertex(vk)
	require.InDelta(t, 4, v.X, epsilon)
	require.InDelta(t, 9, v.Y, epsilon)
	require.InDelta(t, 2, v.Z, epsilon)
}

func TestScaleRelativeToCenter(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(3, 0, 0)

	a.Scale(vk.Topology(), [3]float64{1, 0, 0}, 2, 1, 1)

	v, _ := a.Vertex(vk)
	require.InDelta(t, 5, v.X, epsilon)
}

func TestTransformFaceTranslatesAllVertices(t *testing.T) {
	a := NewArena()
	face, verts := buildTriangle(t, a)

	m := mat.NewDense(4, 4, []float64{
		1, 0, 0, 10,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	a.Transform(face.Topology(), m)

	for _, vk := range verts {
		v, _ := a.Vertex(vk)
		require.GreaterOrEqual(t, v.X, 10.0)
	}
}

func TestTransformMatrixIdentity(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(1, 2, 3)

	a.Transform(vk.Topology(), mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}))

	v, _ := a.Vertex(vk)
	require.InDelta(t, 1, v.X, epsilon)
	require.InDelta(t, 2, v.Y, epsilon)
	require.InDelta(t, 3, v.Z, epsilon)
}
