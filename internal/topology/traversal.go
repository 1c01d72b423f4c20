package topology

// WireVertices returns every distinct vertex referenced by a wire's
// edges, in edge order.
func (a *Arena) WireVertices(k WireKey) []VertexKey {
	w, ok := a.wires.get(k.key)
	if !ok {
		return nil
	}
	seen := make(map[VertexKey]struct{})
	var out []VertexKey
	add := func(v VertexKey) {
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for i, ek := range w.Edges {
		e, ok := a.edges.get(ek.key)
		if !ok {
			continue
		}
		forward := i >= len(w.Orientations) || w.Orientations[i]
		if forward {
			add(e.Start)
			add(e.End)
		} else {
			add(e.End)
			add(e.Start)
		}
	}
	return out
}

// FaceVertices returns every distinct vertex reachable from a face's
// outer and inner wires.
func (a *Arena) FaceVertices(k FaceKey) []VertexKey {
	f, ok := a.faces.get(k.key)
	if !ok {
		return nil
	}
	seen := make(map[VertexKey]struct{})
	var out []VertexKey
	collect := func(wk WireKey) {
		for _, v := range a.WireVertices(wk) {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	collect(f.OuterWire)
	for _, iw := range f.InnerWires {
		collect(iw)
	}
	return out
}

// ShellVertices returns every distinct vertex reachable from a shell's
// faces.
func (a *Arena) ShellVertices(k ShellKey) []VertexKey {
	s, ok := a.shells.get(k.key)
	if !ok {
		return nil
	}
	seen := make(map[VertexKey]struct{})
	var out []VertexKey
	for _, fk := range s.Faces {
		for _, v := range a.FaceVertices(fk) {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}

// CellVertices returns every distinct vertex reachable from a cell's
// outer and inner shells.
func (a *Arena) CellVertices(k CellKey) []VertexKey {
	c, ok := a.cells.get(k.key)
	if !ok {
		return nil
	}
	seen := make(map[VertexKey]struct{})
	var out []VertexKey
	collect := func(sk ShellKey) {
		for _, v := range a.ShellVertices(sk) {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	collect(c.OuterShell)
	for _, is := range c.InnerShells {
		collect(is)
	}
	return out
}

// ComplexVertices returns every distinct vertex reachable from a cell
// complex's cells.
func (a *Arena) ComplexVertices(k CellComplexKey) []VertexKey {
	cc, ok := a.cellComplexes.get(k.key)
	if !ok {
		return nil
	}
	seen := make(map[VertexKey]struct{})
	var out []VertexKey
	for _, ck := range cc.Cells {
		for _, v := range a.CellVertices(ck) {
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}

// collectVertices resolves any topology key down to the vertex keys it
// ultimately references, the shared entry point for affine transforms.
func (a *Arena) collectVertices(k TopologyKey) []VertexKey {
	switch k.Kind {
	case KindVertex:
		return []VertexKey{{k.key}}
	case KindEdge:
		e, ok := a.edges.get(k.key)
		if !ok {
			return nil
		}
		return []VertexKey{e.Start, e.End}
	case KindWire:
		return a.WireVertices(WireKey{k.key})
	case KindFace:
		return a.FaceVertices(FaceKey{k.key})
	case KindShell:
		return a.ShellVertices(ShellKey{k.key})
	case KindCell:
		return a.CellVertices(CellKey{k.key})
	case KindCellComplex:
		return a.ComplexVertices(CellComplexKey{k.key})
	default:
		return nil
	}
}
