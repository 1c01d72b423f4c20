package topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewArenaIsEmpty(t *testing.T) {
	a := NewArena()
	require.Equal(t, 0, a.VertexCount())
	require.Equal(t, 0, a.EdgeCount())
	require.Equal(t, 0, a.WireCount())
	require.Equal(t, 0, a.FaceCount())
	require.Equal(t, 0, a.ShellCount())
	require.Equal(t, 0, a.CellCount())
	require.Equal(t, 0, a.CellComplexCount())
}

func TestAddAndRetrieveVertex(t *testing.T) {
	a := NewArena()
	k := a.AddVertex(1, 2, 3)

	v, ok := a.Vertex(k)
	require.True(t, ok)
	require.Equal(t, 1.0, v.X)
	require.Equal(t, 2.0, v.Y)
	require.Equal(t, 3.0, v.Z)
	require.Equal(t, 1, a.VertexCount())
}

func TestVertexCoordsHelper(t *testing.T) {
	a := NewArena()
	k := a.AddVertex(-5, 0, 10.5)

	coords, ok := a.VertexCoords(k)
	require.True(t, ok)
	require.Equal(t, [3]float64{-5, 0, 10.5}, coords)
}

func TestContainsCheck(t *testing.T) {
	a := NewArena()
	vk := a.AddVertex(0, 0, 0)
	require.True(t, a.Contains(vk.Topology()))
}

func TestRemovedVertexKeyDoesNotAlias(t *testing.T) {
	a := NewArena()
	v0 := a.AddVertex(0, 0, 0)
	a.vertices.remove(v0.key)
	v1 := a.AddVertex(1, 1, 1)

	// v1 reused v0's slot index but bumped the generation, so the old key
	// must not resolve to the new data.
	require.Equal(t, v0.key.index, v1.key.index)
	require.NotEqual(t, v0.key.generation, v1.key.generation)
	_, ok := a.Vertex(v0)
	require.False(t, ok)
}

func buildTriangle(t *testing.T, a *Arena) (FaceKey, [3]VertexKey) {
	t.Helper()
	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(1, 0, 0)
	v2 := a.AddVertex(1, 1, 0)

	e0, err := a.AddEdge(v0, v1)
	require.NoError(t, err)
	e1, err := a.AddEdge(v1, v2)
	require.NoError(t, err)
	e2, err := a.AddEdge(v2, v0)
	require.NoError(t, err)

	wire, err := a.AddWire([]EdgeKey{e0, e1, e2}, []bool{true, true, true})
	require.NoError(t, err)

	face, err := a.AddFace(wire, nil)
	require.NoError(t, err)
	return face, [3]VertexKey{v0, v1, v2}
}

func TestAddEdgeRejectsUnknownVertex(t *testing.T) {
	a := NewArena()
	v0 := a.AddVertex(0, 0, 0)
	unknown := VertexKey{key{index: 999, generation: 0}}
	_, err := a.AddEdge(v0, unknown)
	require.Error(t, err)
}

func TestAddWireRequiresConnectedEdges(t *testing.T) {
	a := NewArena()
	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(1, 0, 0)
	v2 := a.AddVertex(5, 5, 5)
	v3 := a.AddVertex(6, 6, 6)

	e0, err := a.AddEdge(v0, v1)
	require.NoError(t, err)
	e1, err := a.AddEdge(v2, v3)
	require.NoError(t, err)

	_, err = a.AddWire([]EdgeKey{e0, e1}, []bool{true, true})
	require.Error(t, err)
}

func TestAddFaceRequiresAtLeastThreeEdges(t *testing.T) {
	a := NewArena()
	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(1, 0, 0)
	e0, err := a.AddEdge(v0, v1)
	require.NoError(t, err)

	wire, err := a.AddWire([]EdgeKey{e0}, []bool{true})
	require.NoError(t, err)

	_, err = a.AddFace(wire, nil)
	require.Error(t, err)
}

func TestFaceVerticesVisitsAllThree(t *testing.T) {
	a := NewArena()
	face, verts := buildTriangle(t, a)

	got := a.FaceVertices(face)
	require.Len(t, got, 3)
	for _, v := range verts {
		require.Contains(t, got, v)
	}
}

func TestUpwardAdjacencyEdgesOfVertex(t *testing.T) {
	a := NewArena()
	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(1, 0, 0)
	e0, err := a.AddEdge(v0, v1)
	require.NoError(t, err)

	edges := a.EdgesOfVertex(v0)
	require.Len(t, edges, 1)
	require.Equal(t, e0, edges[0])
}

func TestAddCellRejectsOpenShell(t *testing.T) {
	a := NewArena()
	// A single triangular face is a shell with 3 boundary edges (each
	// used by only that one face), not a closed surface.
	face, _ := buildTriangle(t, a)

	shell, err := a.AddShell([]FaceKey{face})
	require.NoError(t, err)
	_, err = a.AddCell(shell, nil)
	require.Error(t, err)
}

// buildTetrahedron builds the 4 triangular faces of a tetrahedron, whose
// 6 edges are each shared by exactly 2 faces — a closed shell.
func buildTetrahedron(t *testing.T, a *Arena) []FaceKey {
	t.Helper()
	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(1, 0, 0)
	v2 := a.AddVertex(0, 1, 0)
	v3 := a.AddVertex(0, 0, 1)

	e01, err := a.AddEdge(v0, v1)
	require.NoError(t, err)
	e02, err := a.AddEdge(v0, v2)
	require.NoError(t, err)
	e03, err := a.AddEdge(v0, v3)
	require.NoError(t, err)
	e12, err := a.AddEdge(v1, v2)
	require.NoError(t, err)
	e13, err := a.AddEdge(v1, v3)
	require.NoError(t, err)
	e23, err := a.AddEdge(v2, v3)
	require.NoError(t, err)

	mkFace := func(edges []EdgeKey, orientations []bool) FaceKey {
		wire, err := a.AddWire(edges, orientations)
		require.NoError(t, err)
		face, err := a.AddFace(wire, nil)
		require.NoError(t, err)
		return face
	}

	f0 := mkFace([]EdgeKey{e01, e12, e02}, []bool{true, true, false})  // v0,v1,v2
	f1 := mkFace([]EdgeKey{e03, e13, e01}, []bool{true, false, false}) // v0,v3,v1
	f2 := mkFace([]EdgeKey{e02, e23, e03}, []bool{true, true, false})  // v0,v2,v3
	f3 := mkFace([]EdgeKey{e13, e23, e12}, []bool{true, false, false}) // v1,v3,v2

	return []FaceKey{f0, f1, f2, f3}
}

func TestShellAndCellComposeUpward(t *testing.T) {
	a := NewArena()
	faces := buildTetrahedron(t, a)

	shell, err := a.AddShell(faces)
	require.NoError(t, err)
	cell, err := a.AddCell(shell, nil)
	require.NoError(t, err)
	complex, err := a.AddCellComplex([]CellKey{cell})
	require.NoError(t, err)

	require.Contains(t, a.ShellsOfFace(faces[0]), shell)
	require.Contains(t, a.CellsOfShell(shell), cell)

	cc, ok := a.CellComplex(complex)
	require.True(t, ok)
	require.Equal(t, []CellKey{cell}, cc.Cells)
}
