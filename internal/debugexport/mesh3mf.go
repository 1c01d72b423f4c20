// Package debugexport writes router/arena output to inspection formats
// outside the HTTP API: 3MF meshes, SVG profile dumps, and DXF topology
// wireframes. None of these are reachable from the HTTP surface. The
// cmd/ifcstat companion tool calls the 3MF writer (--export-3mf); the SVG
// and DXF writers have no caller in this module.
package debugexport

import (
	"os"

	"github.com/hpinc/go3mf"

	"github.com/ifcproc/ifcproc/internal/meshbuf"
)

// WriteMesh3MF writes a single mesh to a 3MF file, one object per mesh,
// following MeshTet4.WriteInp's os.Create/defer Close/check-every-write
// shape (render/tet4.go) adapted to go3mf's model/encoder API.
func WriteMesh3MF(path string, name string, m *meshbuf.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	model := &go3mf.Model{Units: go3mf.UnitMillimeter}
	mesh := new(go3mf.Mesh)

	vcount := m.VertexCount()
	mesh.Vertices.Vertex = make([]go3mf.Point3D, vcount)
	for i := 0; i < vcount; i++ {
		mesh.Vertices.Vertex[i] = go3mf.Point3D{
			float32(m.Positions[i*3]),
			float32(m.Positions[i*3+1]),
			float32(m.Positions[i*3+2]),
		}
	}

	tcount := m.TriangleCount()
	mesh.Triangles.Triangle = make([]go3mf.Triangle, tcount)
	for i := 0; i < tcount; i++ {
		mesh.Triangles.Triangle[i] = go3mf.NewTriangle(
			int(m.Indices[i*3]), int(m.Indices[i*3+1]), int(m.Indices[i*3+2]),
		)
	}

	obj := &go3mf.Object{ID: 1, Name: name, Mesh: mesh}
	model.Resources.Objects = append(model.Resources.Objects, obj)
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: obj.ID})

	enc := go3mf.NewEncoder(f)
	return enc.Encode(model)
}

// WriteMeshesAs3MF writes several named meshes into one 3MF file, one
// object and one build item per mesh.
func WriteMeshesAs3MF(path string, meshes map[string]*meshbuf.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	model := &go3mf.Model{Units: go3mf.UnitMillimeter}

	var nextID uint32 = 1
	for name, m := range meshes {
		mesh := new(go3mf.Mesh)
		vcount := m.VertexCount()
		mesh.Vertices.Vertex = make([]go3mf.Point3D, vcount)
		for i := 0; i < vcount; i++ {
			mesh.Vertices.Vertex[i] = go3mf.Point3D{
				float32(m.Positions[i*3]),
				float32(m.Positions[i*3+1]),
				float32(m.Positions[i*3+2]),
			}
		}
		tcount := m.TriangleCount()
		mesh.Triangles.Triangle = make([]go3mf.Triangle, tcount)
		for i := 0; i < tcount; i++ {
			mesh.Triangles.Triangle[i] = go3mf.NewTriangle(
				int(m.Indices[i*3]), int(m.Indices[i*3+1]), int(m.Indices[i*3+2]),
			)
		}

		obj := &go3mf.Object{ID: nextID, Name: name, Mesh: mesh}
		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: obj.ID})
		nextID++
	}

	enc := go3mf.NewEncoder(f)
	return enc.Encode(model)
}
