package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorustyt/goobj/scene"
)

// Vertex reference fields in slash order. Offsets are 1-based and global
// across the whole document, so they thread across shapes.
const (
	fieldPos = iota
	fieldTexCoord
	fieldNorm
	fieldColor
	fieldRadius
	numVertFields
)

type vertFields [numVertFields]bool
type vertOffsets [numVertFields]int32

// lookatFields is the pos/texcoord/norm triplet written for camera and
// environment references.
var lookatFields = vertFields{fieldPos: true, fieldTexCoord: true, fieldNorm: true}

// Save writes the scene as an OBJ file plus, when materials are present,
// a `<basename>.mtl` sidecar alongside it. With ext enabled cameras,
// environments, frames and color/radius attributes are emitted too.
func Save(path string, sc *scene.Scene, ext bool) error {
	mtlName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".mtl"
	if len(sc.Materials) > 0 {
		if err := saveMtl(filepath.Join(filepath.Dir(path), mtlName), sc); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if len(sc.Materials) > 0 {
		fmt.Fprintf(w, "mtllib %s\n", mtlName)
	}

	off := vertOffsets{1, 1, 1, 1, 1}
	if ext {
		for _, cam := range sc.Cameras {
			writeStr(w, "o", cam.Name)
			writeFloats(w, "v", cam.From[:])
			writeFloats(w, "v", cam.To[:])
			writeFloats(w, "vn", cam.Up[:])
			writeFloats(w, "vn", cam.Up[:])
			writeFloats(w, "vt", []float32{cam.Aperture, cam.Aperture})
			writeFloats(w, "vt", []float32{cam.Width, cam.Height})
			writeElemVerts(w, "c", []int32{0, 1}, off, lookatFields)
			off[fieldPos] += 2
			off[fieldTexCoord] += 2
			off[fieldNorm] += 2
		}
		for _, env := range sc.Envs {
			writeStr(w, "o", env.Name)
			writeStr(w, "usemtl", env.MatName)
			writeFloats(w, "v", env.From[:])
			writeFloats(w, "v", env.To[:])
			writeFloats(w, "vn", env.Up[:])
			writeFloats(w, "vn", env.Up[:])
			writeFloats(w, "vt", []float32{0, 0})
			writeFloats(w, "vt", []float32{0, 0})
			writeElemVerts(w, "e", []int32{0, 1}, off, lookatFields)
			off[fieldPos] += 2
			off[fieldTexCoord] += 2
			off[fieldNorm] += 2
		}
	}

	for _, shape := range sc.Shapes {
		writeStr(w, "o", shape.Name)
		writeStr(w, "usemtl", shape.MatName)
		if ext && shape.XFormed {
			writeFloats(w, "xf", shape.XForm[:])
		}

		present := vertFields{
			fieldPos:      len(shape.Pos) > 0,
			fieldTexCoord: len(shape.TexCoord) > 0,
			fieldNorm:     len(shape.Norm) > 0,
			fieldColor:    ext && len(shape.Color) > 0,
			fieldRadius:   ext && len(shape.Radius) > 0,
		}
		for j := range shape.Pos {
			writeFloats(w, "v", shape.Pos[j][:])
			if present[fieldNorm] {
				writeFloats(w, "vn", shape.Norm[j][:])
			}
			if present[fieldTexCoord] {
				writeFloats(w, "vt", shape.TexCoord[j][:])
			}
			if present[fieldColor] {
				writeFloats(w, "vc", shape.Color[j][:])
			}
			if present[fieldRadius] {
				writeFloats(w, "vr", []float32{shape.Radius[j]})
			}
		}

		label := elemLabel(shape.EType)
		if stride := shape.EType.Stride(); stride > 0 {
			for j := 0; j < int(shape.NElems); j++ {
				writeElemVerts(w, label, shape.Elem[j*stride:(j+1)*stride], off, present)
			}
		} else {
			// count-prefixed runs, the inverse of the loader's compaction
			for e := 0; e < len(shape.Elem); {
				n := int(shape.Elem[e])
				writeElemVerts(w, label, shape.Elem[e+1:e+1+n], off, present)
				e += n + 1
			}
		}

		for i := range off {
			if present[i] {
				off[i] += shape.NVerts
			}
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func elemLabel(t scene.ElemType) string {
	switch t {
	case scene.ElemPoint:
		return "p"
	case scene.ElemLine, scene.ElemPolyline:
		return "l"
	}
	return "f"
}

// writeElemVerts emits one element line: for each vertex id, the present
// fields as offset indices separated by '/', absent interior fields left
// empty.
func writeElemVerts(w io.Writer, label string, vids []int32, off vertOffsets, present vertFields) {
	nwrite := 0
	for i, p := range present {
		if p {
			nwrite = i + 1
		}
	}
	io.WriteString(w, label)
	for _, vid := range vids {
		for i := 0; i < nwrite; i++ {
			sep := byte('/')
			if i == 0 {
				sep = ' '
			}
			if present[i] {
				fmt.Fprintf(w, "%c%d", sep, off[i]+vid)
			} else {
				fmt.Fprintf(w, "%c", '/')
			}
		}
	}
	io.WriteString(w, "\n")
}

// saveMtl dumps every material of the scene into the sidecar.
func saveMtl(path string, sc *scene.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	for _, mat := range sc.Materials {
		fmt.Fprintf(w, "newmtl %s\n", mat.Name)
		fmt.Fprintf(w, "  illum %d\n", mat.Illum)
		writeFloats(w, "  Ke", mat.Ke[:])
		writeFloats(w, "  Ka", mat.Ka[:])
		writeFloats(w, "  Kd", mat.Kd[:])
		writeFloats(w, "  Ks", mat.Ks[:])
		writeFloats(w, "  Kr", mat.Kr[:])
		writeFloats(w, "  Tr", mat.Kt[:])
		writeFloats(w, "  Ns", []float32{mat.Ns})
		writeFloats(w, "  d", []float32{mat.Op})
		writeFloats(w, "  Ni", []float32{mat.Ior})
		writeStr(w, "  map_Ke", mat.KeTxt.Path)
		writeStr(w, "  map_Ka", mat.KaTxt.Path)
		writeStr(w, "  map_Kd", mat.KdTxt.Path)
		writeStr(w, "  map_Ks", mat.KsTxt.Path)
		writeStr(w, "  map_Kr", mat.KrTxt.Path)
		writeStr(w, "  map_Tr", mat.KtTxt.Path)
		writeStr(w, "  map_Ns", mat.NsTxt.Path)
		writeStr(w, "  map_d", mat.OpTxt.Path)
		writeStr(w, "  map_Ni", mat.IorTxt.Path)
		writeStr(w, "  map_bump", mat.BumpTxt.Path)
		writeStr(w, "  map_disp", mat.DispTxt.Path)
		io.WriteString(w, "\n")
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// writeStr emits `label value` and skips empty values.
func writeStr(w io.Writer, label, s string) {
	if s != "" {
		fmt.Fprintf(w, "%s %s\n", label, s)
	}
}

// writeFloats emits a label followed by %.6g formatted values.
func writeFloats(w io.Writer, label string, vs []float32) {
	io.WriteString(w, label)
	for _, v := range vs {
		fmt.Fprintf(w, " %.6g", v)
	}
	io.WriteString(w, "\n")
}
