package topology

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Translate offsets every vertex reachable from k by (dx, dy, dz). Since
// every higher-level entity references vertices by key, moving a vertex
// moves everything built on it.
func (a *Arena) Translate(k TopologyKey, dx, dy, dz float64) {
	for _, vk := range a.collectVertices(k) {
		if v, ok := a.vertices.getMut(vk.key); ok {
			v.X += dx
			v.Y += dy
			v.Z += dz
		}
	}
}

// Rotate rotates every vertex reachable from k around axis (normalized)
// passing through origin, by angle radians (Rodrigues' rotation
// formula). A near-zero axis is a no-op.
func (a *Arena) Rotate(k TopologyKey, origin [3]float64, axis [3]float64, angle float64) {
	axLen := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if axLen < 1e-15 {
		return
	}
	ax, ay, az := axis[0]/axLen, axis[1]/axLen, axis[2]/axLen
	sin, cos := math.Sin(angle), math.Cos(angle)

	rotate := func(px, py, pz float64) (float64, float64, float64) {
		dx, dy, dz := px-origin[0], py-origin[1], pz-origin[2]
		// v*cos + (axis x v)*sin + axis*(axis.v)*(1-cos)
		dot := ax*dx + ay*dy + az*dz
		cx, cy, cz := ay*dz-az*dy, az*dx-ax*dz, ax*dy-ay*dx
		rx := dx*cos + cx*sin + ax*dot*(1-cos)
		ry := dy*cos + cy*sin + ay*dot*(1-cos)
		rz := dz*cos + cz*sin + az*dot*(1-cos)
		return rx + origin[0], ry + origin[1], rz + origin[2]
	}

	for _, vk := range a.collectVertices(k) {
		if v, ok := a.vertices.getMut(vk.key); ok {
			v.X, v.Y, v.Z = rotate(v.X, v.Y, v.Z)
		}
	}
}

// Scale scales every vertex reachable from k relative to origin by
// independent per-axis factors.
func (a *Arena) Scale(k TopologyKey, origin [3]float64, sx, sy, sz float64) {
	for _, vk := range a.collectVertices(k) {
		if v, ok := a.vertices.getMut(vk.key); ok {
			v.X = origin[0] + (v.X-origin[0])*sx
			v.Y = origin[1] + (v.Y-origin[1])*sy
			v.Z = origin[2] + (v.Z-origin[2])*sz
		}
	}
}

// Transform applies a 4x4 affine matrix to every vertex reachable from k.
func (a *Arena) Transform(k TopologyKey, m *mat.Dense) {
	for _, vk := range a.collectVertices(k) {
		v, ok := a.vertices.getMut(vk.key)
		if !ok {
			continue
		}
		in := mat.NewVecDense(4, []float64{v.X, v.Y, v.Z, 1})
		var out mat.VecDense
		out.MulVec(m, in)
		v.X, v.Y, v.Z = out.AtVec(0), out.AtVec(1), out.AtVec(2)
	}
}
