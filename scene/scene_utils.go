package scene

import (
	"github.com/chewxy/math32"

	"github.com/gorustyt/goobj/common"
)

// Bounds returns the axis-aligned bounding box of the shape's positions.
// An empty shape yields an inverted box.
func (s *Shape) Bounds() (bmin, bmax common.Vec3) {
	bmin = common.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	bmax = common.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	for _, p := range s.Pos {
		for i := 0; i < 3; i++ {
			bmin[i] = common.Min(bmin[i], p[i])
			bmax[i] = common.Max(bmax[i], p[i])
		}
	}
	return bmin, bmax
}

// Bounds returns the bounding box of all shapes in the scene.
func (sc *Scene) Bounds() (bmin, bmax common.Vec3) {
	bmin = common.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	bmax = common.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	for _, s := range sc.Shapes {
		smin, smax := s.Bounds()
		for i := 0; i < 3; i++ {
			bmin[i] = common.Min(bmin[i], smin[i])
			bmax[i] = common.Max(bmax[i], smax[i])
		}
	}
	return bmin, bmax
}

// SmoothNormals computes area-weighted per-vertex normals for a triangle
// shape. Returns nil for other element types.
func (s *Shape) SmoothNormals() []common.Vec3 {
	if s.EType != ElemTriangle {
		return nil
	}
	norms := make([]common.Vec3, s.NVerts)
	for e := 0; e+2 < len(s.Elem); e += 3 {
		a := s.Pos[s.Elem[e]]
		b := s.Pos[s.Elem[e+1]]
		c := s.Pos[s.Elem[e+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for j := 0; j < 3; j++ {
			vi := s.Elem[e+j]
			norms[vi] = norms[vi].Add(n)
		}
	}
	for i, n := range norms {
		d := math32.Sqrt(n.Dot(n))
		if d > 0 {
			norms[i] = n.Mul(1 / d)
		}
	}
	return norms
}
