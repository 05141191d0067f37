// Package scene holds the in-memory scene graph produced by the OBJ and
// binary codecs: indexed shapes, materials, texture references, cameras
// and environment maps.
package scene

import (
	"strings"

	"github.com/gorustyt/goobj/common"
)

// ElemType tags the layout of a shape's element array. The values are
// stable: they appear verbatim in binary dumps.
type ElemType int32

const (
	ElemNone     ElemType = 0 // invalid, marks parse errors
	ElemPoint    ElemType = 1
	ElemLine     ElemType = 2
	ElemTriangle ElemType = 3
	ElemPolyline ElemType = 12
	ElemPolygon  ElemType = 13
)

func (t ElemType) String() string {
	switch t {
	case ElemPoint:
		return "point"
	case ElemLine:
		return "line"
	case ElemTriangle:
		return "triangle"
	case ElemPolyline:
		return "polyline"
	case ElemPolygon:
		return "polygon"
	}
	return "none"
}

// Stride is the per-element vertex count for fixed-stride types, 0 for
// variable-length polylines/polygons.
func (t ElemType) Stride() int {
	switch t {
	case ElemPoint, ElemLine, ElemTriangle:
		return int(t)
	}
	return 0
}

// IdentityFrame is the default affine frame of a shape.
var IdentityFrame = common.Frame{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
	0, 0, 0,
}

// Shape is one contiguous run of same-type, same-material elements with
// its own compact vertex arrays. Every attribute array is either empty or
// exactly NVerts long; every index in Elem lies in [0, NVerts).
type Shape struct {
	Name      string
	GroupName string
	MatName   string
	MatID     int32 // index into Scene.Materials, -1 if unresolved

	NElems int32
	Elem   []int32 // fixed stride for point/line/triangle, count-prefixed runs otherwise
	EType  ElemType

	NVerts   int32
	Pos      []common.Vec3
	Norm     []common.Vec3
	TexCoord []common.Vec2
	Color    []common.Vec3 // extension
	Radius   []float32     // extension

	XFormed bool // extension: whether XForm differs from identity
	XForm   common.Frame
}

// TextureRef is one optional texture slot on a material: the sidecar path
// and its resolved index in Scene.Textures (-1 when absent).
type TextureRef struct {
	Path  string
	Index int32
}

type Material struct {
	Name  string
	Illum int32 // MTL illumination model

	Ke  common.Vec3 // emission
	Ka  common.Vec3 // ambient
	Kd  common.Vec3 // diffuse
	Ks  common.Vec3 // specular
	Kr  common.Vec3 // reflection
	Kt  common.Vec3 // transmission
	Ns  float32     // specular exponent
	Ior float32     // index of refraction
	Op  float32     // opacity

	KeTxt   TextureRef
	KaTxt   TextureRef
	KdTxt   TextureRef
	KsTxt   TextureRef
	KrTxt   TextureRef
	KtTxt   TextureRef
	NsTxt   TextureRef
	OpTxt   TextureRef
	IorTxt  TextureRef
	BumpTxt TextureRef
	DispTxt TextureRef
}

func NewMaterial(name string) *Material {
	m := &Material{Name: name, Ns: 1, Ior: 1, Op: 1}
	for _, ref := range m.TextureRefs() {
		ref.Index = -1
	}
	return m
}

// TextureRefs returns the texture slots in their fixed serialization order.
func (m *Material) TextureRefs() []*TextureRef {
	return []*TextureRef{
		&m.KeTxt, &m.KaTxt, &m.KdTxt, &m.KsTxt, &m.KrTxt, &m.KtTxt,
		&m.NsTxt, &m.OpTxt, &m.IorTxt, &m.BumpTxt, &m.DispTxt,
	}
}

// Texture is one deduplicated texture path. Pixel data is filled in by a
// later pass (obj.LoadTextures); the codecs only carry the path.
type Texture struct {
	Path   string
	Width  int
	Height int
	NComp  int
	Pixels []float32
}

// Camera is a look-at camera. Extension data parsed from `c` directives.
type Camera struct {
	Name     string
	From     common.Vec3
	To       common.Vec3
	Up       common.Vec3
	Width    float32 // image plane width
	Height   float32 // image plane height
	Aperture float32
}

func NewCamera(name string) *Camera {
	return &Camera{
		Name:   name,
		To:     common.Vec3{0, 0, 1},
		Up:     common.Vec3{0, 1, 0},
		Width:  1,
		Height: 1,
	}
}

// Env is a latlong environment map, positioned like a camera. Only the
// emission fields of its material are meaningful.
type Env struct {
	Name    string
	MatName string
	MatID   int32
	From    common.Vec3
	To      common.Vec3
	Up      common.Vec3
}

func NewEnv(name, matName string) *Env {
	return &Env{
		Name:    name,
		MatName: matName,
		MatID:   -1,
		To:      common.Vec3{0, 0, 1},
		Up:      common.Vec3{0, 1, 0},
	}
}

// Scene owns all entities of one loaded document. It is a closed value:
// nothing in it references another scene.
type Scene struct {
	Shapes    []*Shape
	Materials []*Material
	Textures  []*Texture
	Cameras   []*Camera
	Envs      []*Env
}

func NewScene() *Scene {
	return &Scene{}
}

// MaterialIndex finds a material by case-insensitive name, -1 if the name
// is empty or unknown. Linear search; material tables are small.
func (sc *Scene) MaterialIndex(name string) int32 {
	if name == "" {
		return -1
	}
	for i, m := range sc.Materials {
		if strings.EqualFold(m.Name, name) {
			return int32(i)
		}
	}
	return -1
}

// materialIndexExact is the binary-load variant: exact name match.
func (sc *Scene) materialIndexExact(name string) int32 {
	for i, m := range sc.Materials {
		if m.Name == name {
			return int32(i)
		}
	}
	return -1
}

// AddUniqueTexture registers a texture path and returns its table index,
// reusing the existing entry when the path was seen before. An empty path
// maps to -1.
func (sc *Scene) AddUniqueTexture(path string) int32 {
	if path == "" {
		return -1
	}
	for i, t := range sc.Textures {
		if t.Path == path {
			return int32(i)
		}
	}
	sc.Textures = append(sc.Textures, &Texture{Path: path})
	return int32(len(sc.Textures) - 1)
}
