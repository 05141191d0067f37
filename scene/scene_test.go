package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorustyt/goobj/common"
)

func TestMaterialIndex(t *testing.T) {
	sc := NewScene()
	sc.Materials = append(sc.Materials, NewMaterial("Red"), NewMaterial("blue"))

	assert.Equal(t, int32(0), sc.MaterialIndex("Red"))
	assert.Equal(t, int32(0), sc.MaterialIndex("red"))
	assert.Equal(t, int32(1), sc.MaterialIndex("BLUE"))
	assert.Equal(t, int32(-1), sc.MaterialIndex("green"))
	assert.Equal(t, int32(-1), sc.MaterialIndex(""))

	assert.Equal(t, int32(0), sc.materialIndexExact("Red"))
	assert.Equal(t, int32(-1), sc.materialIndexExact("red"))
}

func TestAddUniqueTexture(t *testing.T) {
	sc := NewScene()
	assert.Equal(t, int32(-1), sc.AddUniqueTexture(""))
	assert.Equal(t, int32(0), sc.AddUniqueTexture("a.png"))
	assert.Equal(t, int32(1), sc.AddUniqueTexture("b.png"))
	assert.Equal(t, int32(0), sc.AddUniqueTexture("a.png"))
	assert.Len(t, sc.Textures, 2)
}

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial("m")
	assert.Equal(t, float32(1), m.Ns)
	assert.Equal(t, float32(1), m.Ior)
	assert.Equal(t, float32(1), m.Op)
	refs := m.TextureRefs()
	assert.Len(t, refs, 11)
	for _, ref := range refs {
		assert.Equal(t, int32(-1), ref.Index)
	}
}

func TestElemTypeStride(t *testing.T) {
	assert.Equal(t, 1, ElemPoint.Stride())
	assert.Equal(t, 2, ElemLine.Stride())
	assert.Equal(t, 3, ElemTriangle.Stride())
	assert.Equal(t, 0, ElemPolyline.Stride())
	assert.Equal(t, 0, ElemPolygon.Stride())
	assert.Equal(t, 0, ElemNone.Stride())
	assert.Equal(t, "polygon", ElemPolygon.String())
}

func TestBounds(t *testing.T) {
	s := &Shape{Pos: []common.Vec3{{-1, 0, 2}, {3, -2, 0}, {0, 5, 1}}}
	bmin, bmax := s.Bounds()
	assert.Equal(t, common.Vec3{-1, -2, 0}, bmin)
	assert.Equal(t, common.Vec3{3, 5, 2}, bmax)

	sc := NewScene()
	sc.Shapes = append(sc.Shapes, s, &Shape{Pos: []common.Vec3{{10, 0, 0}}})
	bmin, bmax = sc.Bounds()
	assert.Equal(t, common.Vec3{-1, -2, 0}, bmin)
	assert.Equal(t, common.Vec3{10, 5, 2}, bmax)
}

func TestSmoothNormals(t *testing.T) {
	s := &Shape{
		EType:  ElemTriangle,
		NVerts: 3,
		Elem:   []int32{0, 1, 2},
		Pos:    []common.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
	norms := s.SmoothNormals()
	assert.Len(t, norms, 3)
	for _, n := range norms {
		assert.Equal(t, common.Vec3{0, 0, 1}, n)
	}

	assert.Nil(t, (&Shape{EType: ElemPolygon}).SmoothNormals())
}
