// Package processors implements the per-representation-kind geometry
// processors (C9): extrusion, tessellation, faceted B-rep, swept disk,
// revolved area, advanced B-rep, boolean clipping, and mapped item.
//
// Shared placement/transform helpers are grounded on §4.8's Gram-Schmidt
// orthogonalization contract and on original_source/rust/geometry/src/
// extrusion.rs's apply_transform (position via transform, normals via
// inverse-transpose, renormalized). Matrix/vector algebra uses
// gonum.org/v1/gonum/mat, carried over from the teacher's go.mod.
package processors

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ifcproc/ifcproc/internal/ifcschema"
	"github.com/ifcproc/ifcproc/internal/stepfile"
)

// Vec3 is a plain 3D vector used throughout the geometry processors.
type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) Add(o Vec3) Vec3   { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3   { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return v
	}
	return v.Scale(1 / l)
}

// Placement is a local-to-world affine frame: origin plus orthonormal
// X/Y/Z axes, realized as a 4x4 column-major matrix with location in the
// translation column.
type Placement struct {
	Origin Vec3
	X, Y, Z Vec3
}

// Identity is the world-aligned placement at the origin.
func Identity() Placement {
	return Placement{Origin: Vec3{}, X: Vec3{1, 0, 0}, Y: Vec3{0, 1, 0}, Z: Vec3{0, 0, 1}}
}

// NewAxis2Placement3D builds a placement from IfcAxis2Placement3D's
// Location, Axis (Z), and RefDirection (X) attributes, defaulting to the
// identity frame for any null/unresolvable attribute, and orthogonalizing
// RefDirection against Axis via Gram-Schmidt (Y = Z cross X), per §4.8.
func NewAxis2Placement3D(dec *stepfile.Decoder, entityID uint32) Placement {
	ent, err := dec.DecodeByID(entityID)
	if err != nil {
		return Identity()
	}
	p := Identity()

	if locAttr, ok := ent.Get(0); ok {
		if ref, ok := locAttr.AsEntityRef(); ok {
			if x, y, z, ok := dec.GetCartesianPointFast(ref); ok {
				p.Origin = Vec3{x, y, z}
			}
		}
	}

	z := Vec3{0, 0, 1}
	if axisAttr, ok := ent.Get(1); ok {
		if ref, ok := axisAttr.AsEntityRef(); ok {
			if d, ok := decodeDirection(dec, ref); ok {
				z = d
			}
		}
	}
	z = z.Normalize()

	x := Vec3{1, 0, 0}
	if refDirAttr, ok := ent.Get(2); ok {
		if ref, ok := refDirAttr.AsEntityRef(); ok {
			if d, ok := decodeDirection(dec, ref); ok {
				x = d
			}
		}
	}
	// Gram-Schmidt: remove the Z component from X, renormalize.
	x = x.Sub(z.Scale(x.Dot(z))).Normalize()
	if x.Length() < 1e-9 {
		// RefDirection degenerate/parallel to Z — fall back to a
		// deterministic perpendicular.
		x = Vec3{1, 0, 0}.Sub(z.Scale(Vec3{1, 0, 0}.Dot(z))).Normalize()
		if x.Length() < 1e-9 {
			x = Vec3{0, 1, 0}.Sub(z.Scale(Vec3{0, 1, 0}.Dot(z))).Normalize()
		}
	}
	y := z.Cross(x)

	p.X, p.Y, p.Z = x, y, z
	return p
}

func decodeDirection(dec *stepfile.Decoder, id uint32) (Vec3, bool) {
	ent, err := dec.DecodeByID(id)
	if err != nil || ifcschema.Normalize(ent.IfcType) != "IFCDIRECTION" {
		return Vec3{}, false
	}
	listAttr, ok := ent.Get(0)
	if !ok {
		return Vec3{}, false
	}
	comps, ok := listAttr.AsList()
	if !ok || len(comps) < 2 {
		return Vec3{}, false
	}
	x, _ := comps[0].AsFloat()
	y, _ := comps[1].AsFloat()
	var z float64
	if len(comps) >= 3 {
		z, _ = comps[2].AsFloat()
	}
	return Vec3{x, y, z}, true
}

// Matrix returns the placement as a 4x4 column-major matrix, location in
// the translation column.
func (p Placement) Matrix() *mat.Dense {
	m := mat.NewDense(4, 4, []float64{
		p.X.X, p.Y.X, p.Z.X, p.Origin.X,
		p.X.Y, p.Y.Y, p.Z.Y, p.Origin.Y,
		p.X.Z, p.Y.Z, p.Z.Z, p.Origin.Z,
		0, 0, 0, 1,
	})
	return m
}

// TransformPoint applies a 4x4 affine matrix to a point.
func TransformPoint(m *mat.Dense, p Vec3) Vec3 {
	v := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(m, v)
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// TransformNormal applies the inverse-transpose of a 4x4 affine matrix to
// a normal and renormalizes, per extrusion.rs::apply_transform. Falls
// back to the original matrix if it is singular.
func TransformNormal(m *mat.Dense, n Vec3) Vec3 {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return TransformLinear(m, n).Normalize()
	}
	return TransformLinear(inv.T(), n).Normalize()
}

// TransformLinear applies the linear (3x3 rotation/scale) part of a 4x4
// matrix to a direction, ignoring translation.
func TransformLinear(m mat.Matrix, v Vec3) Vec3 {
	return Vec3{
		m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}
