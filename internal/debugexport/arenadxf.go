package debugexport

import (
	"github.com/yofu/dxf"

	"github.com/ifcproc/ifcproc/internal/topology"
)

// WriteArenaWireframeDXF dumps every edge in an arena as a DXF line, for
// visually inspecting NMT topology independent of the triangle mesh the
// router produces from it.
func WriteArenaWireframeDXF(path string, arena *topology.Arena) error {
	d := dxf.NewDrawing()
	d.AddLayer("WIREFRAME", dxf.DefaultColor, dxf.DefaultLineType, true)
	d.ChangeLayer("WIREFRAME")

	for _, ek := range arena.AllEdgeKeys() {
		edge, ok := arena.Edge(ek)
		if !ok {
			continue
		}
		start, ok := arena.VertexCoords(edge.Start)
		if !ok {
			continue
		}
		end, ok := arena.VertexCoords(edge.End)
		if !ok {
			continue
		}
		d.Line(start[0], start[1], start[2], end[0], end[1], end[2])
	}

	return d.SaveAs(path)
}
