// Package topology implements a non-manifold topology (NMT) arena:
// vertices, edges, wires, faces, shells, cells and cell complexes stored
// by generational key, with bidirectional adjacency, typed per-entity
// metadata dictionaries, a tolerance-based spatial index, and affine
// transforms.
//
// Grounded on original_source/rust/topology/src/{keys,arena,dictionary,
// spatial,transform}.rs. Rust's slotmap::SlotMap gives stable generational
// keys via a procedural macro; Go has no equivalent library in the
// example pack, so each key is a plain (index, generation) pair and the
// arena keeps a parallel generation counter per slot — the same
// guarantee (a key outlives removal-and-reuse of its slot) implemented
// by hand.
package topology

import "fmt"

// Kind discriminates which slice of the arena a key indexes into.
type Kind uint8

const (
	KindVertex Kind = iota
	KindEdge
	KindWire
	KindFace
	KindShell
	KindCell
	KindCellComplex
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "Vertex"
	case KindEdge:
		return "Edge"
	case KindWire:
		return "Wire"
	case KindFace:
		return "Face"
	case KindShell:
		return "Shell"
	case KindCell:
		return "Cell"
	case KindCellComplex:
		return "CellComplex"
	default:
		return "Unknown"
	}
}

// key is the generational index shared by every specific key type below:
// index is the slot position, generation increments each time a slot is
// reused after removal so a stale key never aliases new data.
type key struct {
	index      uint32
	generation uint32
}

type VertexKey struct{ key }
type EdgeKey struct{ key }
type WireKey struct{ key }
type FaceKey struct{ key }
type ShellKey struct{ key }
type CellKey struct{ key }
type CellComplexKey struct{ key }

// TopologyKey references any one topology entity, tagged by Kind so it
// can be dispatched on without a type switch over seven distinct types.
type TopologyKey struct {
	Kind Kind
	key  key
}

func (k VertexKey) Topology() TopologyKey      { return TopologyKey{KindVertex, k.key} }
func (k EdgeKey) Topology() TopologyKey        { return TopologyKey{KindEdge, k.key} }
func (k WireKey) Topology() TopologyKey        { return TopologyKey{KindWire, k.key} }
func (k FaceKey) Topology() TopologyKey        { return TopologyKey{KindFace, k.key} }
func (k ShellKey) Topology() TopologyKey       { return TopologyKey{KindShell, k.key} }
func (k CellKey) Topology() TopologyKey        { return TopologyKey{KindCell, k.key} }
func (k CellComplexKey) Topology() TopologyKey { return TopologyKey{KindCellComplex, k.key} }

func (k TopologyKey) String() string {
	return fmt.Sprintf("%s(%d.%d)", k.Kind, k.key.index, k.key.generation)
}
