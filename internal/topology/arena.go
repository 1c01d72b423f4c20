package topology

import "fmt"

// VertexData is a point in 3D space.
type VertexData struct {
	X, Y, Z float64
}

// EdgeData is a line segment between two vertices.
type EdgeData struct {
	Start, End VertexKey
}

// WireData is an ordered chain of connected edges. Orientations[i] is
// true if Edges[i] is traversed start→end, false if reversed.
type WireData struct {
	Edges        []EdgeKey
	Orientations []bool
}

// FaceData is a planar region bounded by one outer wire and zero or more
// inner wires (holes).
type FaceData struct {
	OuterWire  WireKey
	InnerWires []WireKey
}

// ShellData is a connected surface made of faces.
type ShellData struct {
	Faces []FaceKey
}

// CellData is a closed 3D volume bounded by a shell, with optional
// internal void shells.
type CellData struct {
	OuterShell  ShellKey
	InnerShells []ShellKey
}

// CellComplexData is a set of cells that may share faces (non-manifold:
// a face can border 3+ cells, unlike manifold B-rep's 2-cell limit).
type CellComplexData struct {
	Cells []CellKey
}

// Arena owns every topology entity and the bidirectional adjacency
// indices between them. Downward traversal (cell → faces → edges →
// vertices) follows the Data structs' own references; upward traversal
// (vertex → edges that use it → ...) uses the *ToXxx maps below, kept in
// sync by the link* helpers called from each Add* constructor.
type Arena struct {
	vertices      table[VertexData]
	edges         table[EdgeData]
	wires         table[WireData]
	faces         table[FaceData]
	shells        table[ShellData]
	cells         table[CellData]
	cellComplexes table[CellComplexData]

	vertexToEdges map[VertexKey]map[EdgeKey]struct{}
	edgeToWires   map[EdgeKey]map[WireKey]struct{}
	wireToFaces   map[WireKey]map[FaceKey]struct{}
	faceToShells  map[FaceKey]map[ShellKey]struct{}
	shellToCells  map[ShellKey]map[CellKey]struct{}
	cellToComplexes map[CellKey]map[CellComplexKey]struct{}

	dictionaries map[TopologyKey]Dictionary
}

// NewArena creates a new, empty topology arena.
func NewArena() *Arena {
	return &Arena{
		vertexToEdges:   make(map[VertexKey]map[EdgeKey]struct{}),
		edgeToWires:     make(map[EdgeKey]map[WireKey]struct{}),
		wireToFaces:     make(map[WireKey]map[FaceKey]struct{}),
		faceToShells:    make(map[FaceKey]map[ShellKey]struct{}),
		shellToCells:    make(map[ShellKey]map[CellKey]struct{}),
		cellToComplexes: make(map[CellKey]map[CellComplexKey]struct{}),
		dictionaries:    make(map[TopologyKey]Dictionary),
	}
}

// --- Vertex ---

func (a *Arena) AddVertex(x, y, z float64) VertexKey {
	return VertexKey{a.vertices.insert(VertexData{x, y, z})}
}

func (a *Arena) Vertex(k VertexKey) (VertexData, bool) { return a.vertices.get(k.key) }

func (a *Arena) VertexCount() int { return a.vertices.len() }

func (a *Arena) VertexCoords(k VertexKey) ([3]float64, bool) {
	v, ok := a.vertices.get(k.key)
	if !ok {
		return [3]float64{}, false
	}
	return [3]float64{v.X, v.Y, v.Z}, true
}

// --- Edge ---

// AddEdge creates an edge between two existing vertices, recording the
// upward vertex→edge adjacency. Errors if either vertex is unknown.
func (a *Arena) AddEdge(start, end VertexKey) (EdgeKey, error) {
	if !a.vertices.contains(start.key) {
		return EdgeKey{}, fmt.Errorf("topology: start vertex not found: %v", start.Topology())
	}
	if !a.vertices.contains(end.key) {
		return EdgeKey{}, fmt.Errorf("topology: end vertex not found: %v", end.Topology())
	}
	ek := EdgeKey{a.edges.insert(EdgeData{Start: start, End: end})}
	a.linkVertexEdge(start, ek)
	a.linkVertexEdge(end, ek)
	return ek, nil
}

func (a *Arena) Edge(k EdgeKey) (EdgeData, bool) { return a.edges.get(k.key) }

func (a *Arena) EdgeCount() int { return a.edges.len() }

// AllEdgeKeys returns every currently occupied edge key, in arbitrary
// slot order. Used by wireframe export, which needs to walk every edge
// rather than traverse from a known root.
func (a *Arena) AllEdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, a.edges.len())
	for i := range a.edges.slots {
		if a.edges.slots[i].occupied {
			keys = append(keys, EdgeKey{key{index: uint32(i), generation: a.edges.slots[i].generation}})
		}
	}
	return keys
}

// --- Wire ---

// AddWire chains edges into an ordered wire. Each edge's traversed
// endpoint must meet the next edge's traversed startpoint; orientations
// records which edges are reversed. Errors on an empty or disconnected
// chain.
func (a *Arena) AddWire(edges []EdgeKey, orientations []bool) (WireKey, error) {
	if len(edges) == 0 {
		return WireKey{}, fmt.Errorf("topology: wire must have at least one edge")
	}
	if len(orientations) != len(edges) {
		return WireKey{}, fmt.Errorf("topology: wire orientations length mismatch")
	}
	for i := 0; i < len(edges)-1; i++ {
		_, endOfI := a.wireEdgeEndpoints(edges[i], orientations[i])
		startOfNext, _ := a.wireEdgeEndpoints(edges[i+1], orientations[i+1])
		if endOfI != startOfNext {
			return WireKey{}, fmt.Errorf("topology: wire edges are not connected: edge %d endpoint does not match edge %d startpoint", i, i+1)
		}
	}
	wk := WireKey{a.wires.insert(WireData{Edges: append([]EdgeKey(nil), edges...), Orientations: append([]bool(nil), orientations...)})}
	for _, ek := range edges {
		a.linkEdgeWire(ek, wk)
	}
	return wk, nil
}

func (a *Arena) wireEdgeEndpoints(ek EdgeKey, forward bool) (start, end VertexKey) {
	e, ok := a.edges.get(ek.key)
	if !ok {
		return VertexKey{}, VertexKey{}
	}
	if forward {
		return e.Start, e.End
	}
	return e.End, e.Start
}

func (a *Arena) Wire(k WireKey) (WireData, bool) { return a.wires.get(k.key) }

func (a *Arena) WireCount() int { return a.wires.len() }

// --- Face ---

// AddFace bounds a face with an outer wire and zero or more inner
// (hole) wires. Errors if the outer wire has fewer than 3 edges.
func (a *Arena) AddFace(outer WireKey, inner []WireKey) (FaceKey, error) {
	ow, ok := a.wires.get(outer.key)
	if !ok {
		return FaceKey{}, fmt.Errorf("topology: outer wire not found: %v", outer.Topology())
	}
	if len(ow.Edges) < 3 {
		return FaceKey{}, fmt.Errorf("topology: face outer wire has fewer than 3 edges")
	}
	fk := FaceKey{a.faces.insert(FaceData{OuterWire: outer, InnerWires: append([]WireKey(nil), inner...)})}
	a.linkWireFace(outer, fk)
	for _, w := range inner {
		a.linkWireFace(w, fk)
	}
	return fk, nil
}

func (a *Arena) Face(k FaceKey) (FaceData, bool) { return a.faces.get(k.key) }

func (a *Arena) FaceCount() int { return a.faces.len() }

// --- Shell ---

func (a *Arena) AddShell(faces []FaceKey) (ShellKey, error) {
	if len(faces) == 0 {
		return ShellKey{}, fmt.Errorf("topology: shell must have at least one face")
	}
	sk := ShellKey{a.shells.insert(ShellData{Faces: append([]FaceKey(nil), faces...)})}
	for _, f := range faces {
		a.linkFaceShell(f, sk)
	}
	return sk, nil
}

func (a *Arena) Shell(k ShellKey) (ShellData, bool) { return a.shells.get(k.key) }

func (a *Arena) ShellCount() int { return a.shells.len() }

// --- Cell ---

// AddCell bounds a volume with an outer shell and zero or more internal
// void shells, rejecting any shell with boundary edges: a cell's bounding
// surfaces must be closed, or the volume they claim to enclose is not
// actually bounded.
func (a *Arena) AddCell(outer ShellKey, inner []ShellKey) (CellKey, error) {
	if !a.shells.contains(outer.key) {
		return CellKey{}, fmt.Errorf("topology: outer shell not found: %v", outer.Topology())
	}
	for _, s := range inner {
		if !a.shells.contains(s.key) {
			return CellKey{}, fmt.Errorf("topology: inner shell not found: %v", s.Topology())
		}
	}
	if n := a.boundaryEdgeCount(append([]ShellKey{outer}, inner...)); n != 0 {
		return CellKey{}, fmt.Errorf("topology: shell is not closed: %d boundary edge(s)", n)
	}
	ck := CellKey{a.cells.insert(CellData{OuterShell: outer, InnerShells: append([]ShellKey(nil), inner...)})}
	a.linkShellCell(outer, ck)
	for _, s := range inner {
		a.linkShellCell(s, ck)
	}
	return ck, nil
}

// boundaryEdgeCount counts edges, among the faces of the given shells,
// whose incident-face count is exactly one: such an edge borders only
// one face with no partner closing the surface on its other side, so
// the shell it belongs to is open there.
func (a *Arena) boundaryEdgeCount(shells []ShellKey) int {
	seen := make(map[EdgeKey]struct{})
	boundary := 0
	for _, sk := range shells {
		shell, ok := a.shells.get(sk.key)
		if !ok {
			continue
		}
		for _, fk := range shell.Faces {
			face, ok := a.faces.get(fk.key)
			if !ok {
				continue
			}
			wires := append([]WireKey{face.OuterWire}, face.InnerWires...)
			for _, wk := range wires {
				wire, ok := a.wires.get(wk.key)
				if !ok {
					continue
				}
				for _, ek := range wire.Edges {
					if _, done := seen[ek]; done {
						continue
					}
					seen[ek] = struct{}{}
					if a.edgeFaceCount(ek) == 1 {
						boundary++
					}
				}
			}
		}
	}
	return boundary
}

// edgeFaceCount returns the number of distinct faces that reference e,
// found via e's upward adjacency to wires and each wire's upward
// adjacency to faces.
func (a *Arena) edgeFaceCount(e EdgeKey) int {
	faces := make(map[FaceKey]struct{})
	for w := range a.edgeToWires[e] {
		for f := range a.wireToFaces[w] {
			faces[f] = struct{}{}
		}
	}
	return len(faces)
}

func (a *Arena) Cell(k CellKey) (CellData, bool) { return a.cells.get(k.key) }

func (a *Arena) CellCount() int { return a.cells.len() }

// --- CellComplex ---

func (a *Arena) AddCellComplex(cells []CellKey) (CellComplexKey, error) {
	if len(cells) == 0 {
		return CellComplexKey{}, fmt.Errorf("topology: cell complex must have at least one cell")
	}
	cck := CellComplexKey{a.cellComplexes.insert(CellComplexData{Cells: append([]CellKey(nil), cells...)})}
	for _, c := range cells {
		a.linkCellComplex(c, cck)
	}
	return cck, nil
}

func (a *Arena) CellComplex(k CellComplexKey) (CellComplexData, bool) { return a.cellComplexes.get(k.key) }

func (a *Arena) CellComplexCount() int { return a.cellComplexes.len() }

// --- Existence check ---

func (a *Arena) Contains(k TopologyKey) bool {
	switch k.Kind {
	case KindVertex:
		return a.vertices.contains(k.key)
	case KindEdge:
		return a.edges.contains(k.key)
	case KindWire:
		return a.wires.contains(k.key)
	case KindFace:
		return a.faces.contains(k.key)
	case KindShell:
		return a.shells.contains(k.key)
	case KindCell:
		return a.cells.contains(k.key)
	case KindCellComplex:
		return a.cellComplexes.contains(k.key)
	default:
		return false
	}
}

// --- Adjacency linking ---

func (a *Arena) linkVertexEdge(v VertexKey, e EdgeKey) {
	set, ok := a.vertexToEdges[v]
	if !ok {
		set = make(map[EdgeKey]struct{})
		a.vertexToEdges[v] = set
	}
	set[e] = struct{}{}
}

func (a *Arena) linkEdgeWire(e EdgeKey, w WireKey) {
	set, ok := a.edgeToWires[e]
	if !ok {
		set = make(map[WireKey]struct{})
		a.edgeToWires[e] = set
	}
	set[w] = struct{}{}
}

func (a *Arena) linkWireFace(w WireKey, f FaceKey) {
	set, ok := a.wireToFaces[w]
	if !ok {
		set = make(map[FaceKey]struct{})
		a.wireToFaces[w] = set
	}
	set[f] = struct{}{}
}

func (a *Arena) linkFaceShell(f FaceKey, s ShellKey) {
	set, ok := a.faceToShells[f]
	if !ok {
		set = make(map[ShellKey]struct{})
		a.faceToShells[f] = set
	}
	set[s] = struct{}{}
}

func (a *Arena) linkShellCell(s ShellKey, c CellKey) {
	set, ok := a.shellToCells[s]
	if !ok {
		set = make(map[CellKey]struct{})
		a.shellToCells[s] = set
	}
	set[c] = struct{}{}
}

func (a *Arena) linkCellComplex(c CellKey, cc CellComplexKey) {
	set, ok := a.cellToComplexes[c]
	if !ok {
		set = make(map[CellComplexKey]struct{})
		a.cellToComplexes[c] = set
	}
	set[cc] = struct{}{}
}

// EdgesOfVertex returns every edge that references v (upward adjacency).
func (a *Arena) EdgesOfVertex(v VertexKey) []EdgeKey {
	set := a.vertexToEdges[v]
	out := make([]EdgeKey, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// FacesOfWire returns every face that references w (upward adjacency).
func (a *Arena) FacesOfWire(w WireKey) []FaceKey {
	set := a.wireToFaces[w]
	out := make([]FaceKey, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	return out
}

// ShellsOfFace returns every shell that references f (upward adjacency).
func (a *Arena) ShellsOfFace(f FaceKey) []ShellKey {
	set := a.faceToShells[f]
	out := make([]ShellKey, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

// CellsOfShell returns every cell that references s (upward adjacency).
func (a *Arena) CellsOfShell(s ShellKey) []CellKey {
	set := a.shellToCells[s]
	out := make([]CellKey, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
