package scene

import (
	"errors"
	"fmt"
	"os"

	"github.com/gorustyt/goobj/common"
	"github.com/gorustyt/goobj/common/rw"
)

// Binary dump layout: a magic word, then cameras, envs, materials and
// shapes in fixed field order. Strings and arrays carry an int32 count
// prefix. Texture pixel data is never stored; the texture table is rebuilt
// from material paths on load.
const binMagic uint32 = 0xaf45e782

// ErrBadMagic reports that a binary dump does not start with the expected
// magic word.
var ErrBadMagic = errors.New("scene: bad binary dump magic")

// SaveBinary writes the scene as a binary dump. With ext disabled the
// camera and environment sections are written as two zero counts and
// per-shape color/radius arrays are written empty.
func SaveBinary(filename string, sc *Scene, ext bool) error {
	return os.WriteFile(filename, sc.ToBin(ext), 0o644)
}

// LoadBinary reads a binary dump written by SaveBinary.
func LoadBinary(filename string, ext bool) (*Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return SceneFromBin(data, ext)
}

func (sc *Scene) ToBin(ext bool) []byte {
	w := rw.NewSceneBinWriter()
	w.WriteUInt32(binMagic)

	if ext {
		w.WriteInt32(int32(len(sc.Cameras)))
		for _, cam := range sc.Cameras {
			cam.ToBin(w)
		}
		w.WriteInt32(int32(len(sc.Envs)))
		for _, env := range sc.Envs {
			env.ToBin(w)
		}
	} else {
		w.WriteInt32(0)
		w.WriteInt32(0)
	}

	w.WriteInt32(int32(len(sc.Materials)))
	for _, mat := range sc.Materials {
		mat.ToBin(w)
	}

	w.WriteInt32(int32(len(sc.Shapes)))
	for _, shape := range sc.Shapes {
		shape.ToBin(w, ext)
	}
	return w.GetWriteBytes()
}

// SceneFromBin decodes a binary dump. Truncated input surfaces as an
// error, not a partial scene.
func SceneFromBin(data []byte, ext bool) (sc *Scene, err error) {
	defer func() {
		if p := recover(); p != nil {
			sc, err = nil, fmt.Errorf("scene: malformed binary dump: %v", p)
		}
	}()

	r := rw.NewSceneBinReader(data)
	if r.ReadUInt32() != binMagic {
		return nil, ErrBadMagic
	}
	sc = NewScene()

	ncameras := r.ReadInt32()
	for i := int32(0); i < ncameras; i++ {
		cam := &Camera{}
		cam.FromBin(r)
		sc.Cameras = append(sc.Cameras, cam)
	}
	nenvs := r.ReadInt32()
	for i := int32(0); i < nenvs; i++ {
		env := &Env{MatID: -1}
		env.FromBin(r)
		sc.Envs = append(sc.Envs, env)
	}
	// extension stripping for cameras/envs happens at scene level
	if !ext {
		sc.Cameras = nil
		sc.Envs = nil
	}

	nmaterials := r.ReadInt32()
	for i := int32(0); i < nmaterials; i++ {
		mat := &Material{}
		mat.FromBin(r)
		for _, ref := range mat.TextureRefs() {
			ref.Index = sc.AddUniqueTexture(ref.Path)
		}
		sc.Materials = append(sc.Materials, mat)
	}
	for _, env := range sc.Envs {
		env.MatID = sc.materialIndexExact(env.MatName)
	}

	nshapes := r.ReadInt32()
	for i := int32(0); i < nshapes; i++ {
		shape := &Shape{}
		shape.FromBin(r, ext)
		shape.MatID = sc.materialIndexExact(shape.MatName)
		sc.Shapes = append(sc.Shapes, shape)
	}
	return sc, nil
}

func (c *Camera) ToBin(w *rw.ReaderWriter) {
	w.WriteString(c.Name)
	writeVec3(w, c.From)
	writeVec3(w, c.To)
	writeVec3(w, c.Up)
	w.WriteFloat32(c.Width)
	w.WriteFloat32(c.Height)
	w.WriteFloat32(c.Aperture)
}

func (c *Camera) FromBin(r *rw.ReaderWriter) {
	c.Name = r.ReadString()
	c.From = readVec3(r)
	c.To = readVec3(r)
	c.Up = readVec3(r)
	c.Width = r.ReadFloat32()
	c.Height = r.ReadFloat32()
	c.Aperture = r.ReadFloat32()
}

func (e *Env) ToBin(w *rw.ReaderWriter) {
	w.WriteString(e.Name)
	w.WriteString(e.MatName)
	writeVec3(w, e.From)
	writeVec3(w, e.To)
	writeVec3(w, e.Up)
}

func (e *Env) FromBin(r *rw.ReaderWriter) {
	e.Name = r.ReadString()
	e.MatName = r.ReadString()
	e.From = readVec3(r)
	e.To = readVec3(r)
	e.Up = readVec3(r)
}

func (m *Material) ToBin(w *rw.ReaderWriter) {
	w.WriteString(m.Name)
	w.WriteInt32(m.Illum)
	writeVec3(w, m.Ke)
	writeVec3(w, m.Ka)
	writeVec3(w, m.Kd)
	writeVec3(w, m.Ks)
	writeVec3(w, m.Kr)
	writeVec3(w, m.Kt)
	w.WriteFloat32(m.Ns)
	w.WriteFloat32(m.Ior)
	w.WriteFloat32(m.Op)
	for _, ref := range m.TextureRefs() {
		w.WriteString(ref.Path)
	}
}

func (m *Material) FromBin(r *rw.ReaderWriter) {
	m.Name = r.ReadString()
	m.Illum = r.ReadInt32()
	m.Ke = readVec3(r)
	m.Ka = readVec3(r)
	m.Kd = readVec3(r)
	m.Ks = readVec3(r)
	m.Kr = readVec3(r)
	m.Kt = readVec3(r)
	m.Ns = r.ReadFloat32()
	m.Ior = r.ReadFloat32()
	m.Op = r.ReadFloat32()
	for _, ref := range m.TextureRefs() {
		ref.Path = r.ReadString()
	}
}

func (s *Shape) ToBin(w *rw.ReaderWriter, ext bool) {
	w.WriteString(s.Name)
	w.WriteString(s.GroupName)
	w.WriteString(s.MatName)
	w.WriteInt32(s.NElems)
	w.WriteInt32(int32(len(s.Elem)))
	w.WriteInt32s(s.Elem)
	w.WriteInt32(int32(s.EType))
	w.WriteInt32(s.NVerts)
	writeVec3s(w, s.Pos)
	writeVec3s(w, s.Norm)
	writeVec2s(w, s.TexCoord)
	// extension stripping for color/radius happens per shape
	if ext {
		writeVec3s(w, s.Color)
		writeFloat32s(w, s.Radius)
	} else {
		writeVec3s(w, nil)
		writeFloat32s(w, nil)
	}
	if s.XFormed {
		w.WriteInt32(1)
	} else {
		w.WriteInt32(0)
	}
	w.WriteFloat32s(s.XForm[:])
}

func (s *Shape) FromBin(r *rw.ReaderWriter, ext bool) {
	s.Name = r.ReadString()
	s.GroupName = r.ReadString()
	s.MatName = r.ReadString()
	s.MatID = -1
	s.NElems = r.ReadInt32()
	s.Elem = make([]int32, r.ReadInt32())
	r.ReadInt32s(s.Elem)
	s.EType = ElemType(r.ReadInt32())
	s.NVerts = r.ReadInt32()
	s.Pos = readVec3s(r)
	s.Norm = readVec3s(r)
	s.TexCoord = readVec2s(r)
	s.Color = readVec3s(r)
	s.Radius = readFloat32s(r)
	if !ext {
		s.Color = nil
		s.Radius = nil
	}
	s.XFormed = r.ReadInt32() != 0
	r.ReadFloat32s(s.XForm[:])
}

func writeVec3(w *rw.ReaderWriter, v common.Vec3) {
	w.WriteFloat32s(v[:])
}

func readVec3(r *rw.ReaderWriter) (v common.Vec3) {
	r.ReadFloat32s(v[:])
	return v
}

func writeVec3s(w *rw.ReaderWriter, vs []common.Vec3) {
	w.WriteInt32(int32(len(vs)))
	for _, v := range vs {
		w.WriteFloat32s(v[:])
	}
}

func readVec3s(r *rw.ReaderWriter) []common.Vec3 {
	num := r.ReadInt32()
	if num == 0 {
		return nil
	}
	vs := make([]common.Vec3, num)
	for i := range vs {
		r.ReadFloat32s(vs[i][:])
	}
	return vs
}

func writeVec2s(w *rw.ReaderWriter, vs []common.Vec2) {
	w.WriteInt32(int32(len(vs)))
	for _, v := range vs {
		w.WriteFloat32s(v[:])
	}
}

func readVec2s(r *rw.ReaderWriter) []common.Vec2 {
	num := r.ReadInt32()
	if num == 0 {
		return nil
	}
	vs := make([]common.Vec2, num)
	for i := range vs {
		r.ReadFloat32s(vs[i][:])
	}
	return vs
}

func writeFloat32s(w *rw.ReaderWriter, vs []float32) {
	w.WriteInt32(int32(len(vs)))
	w.WriteFloat32s(vs)
}

func readFloat32s(r *rw.ReaderWriter) []float32 {
	num := r.ReadInt32()
	if num == 0 {
		return nil
	}
	vs := make([]float32, num)
	r.ReadFloat32s(vs)
	return vs
}
