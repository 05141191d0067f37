package obj

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/gorustyt/goobj/scene"
)

// txtSlots maps map_* directives to their material texture slot.
var txtSlots = map[string]func(*scene.Material) *scene.TextureRef{
	"map_Ke":   func(m *scene.Material) *scene.TextureRef { return &m.KeTxt },
	"map_Ka":   func(m *scene.Material) *scene.TextureRef { return &m.KaTxt },
	"map_Kd":   func(m *scene.Material) *scene.TextureRef { return &m.KdTxt },
	"map_Ks":   func(m *scene.Material) *scene.TextureRef { return &m.KsTxt },
	"map_Kr":   func(m *scene.Material) *scene.TextureRef { return &m.KrTxt },
	"map_Tr":   func(m *scene.Material) *scene.TextureRef { return &m.KtTxt },
	"map_Ns":   func(m *scene.Material) *scene.TextureRef { return &m.NsTxt },
	"map_d":    func(m *scene.Material) *scene.TextureRef { return &m.OpTxt },
	"map_Ni":   func(m *scene.Material) *scene.TextureRef { return &m.IorTxt },
	"map_bump": func(m *scene.Material) *scene.TextureRef { return &m.BumpTxt },
	"map_disp": func(m *scene.Material) *scene.TextureRef { return &m.DispTxt },
}

// loadMtl parses a material sidecar into the shared material and texture
// tables. A sidecar that cannot be opened fails the whole load; everything
// inside it is parsed leniently like the OBJ grammar.
func (l *Loader) loadMtl(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var mat *scene.Material
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	mline := 0
	for scanner.Scan() {
		mline++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0][0] == '#' || fields[0][0] == '/' {
			continue
		}
		args := fields[1:]
		if fields[0] == "newmtl" {
			mat = scene.NewMaterial(firstOrEmpty(args))
			l.sc.Materials = append(l.sc.Materials, mat)
			continue
		}
		if mat == nil {
			l.warnf("mtl(%d): directive %s before newmtl", mline, fields[0])
			continue
		}
		if slot := txtSlots[fields[0]]; slot != nil {
			if len(args) < 1 {
				l.warnf("mtl(%d): %s with no path", mline, fields[0])
				continue
			}
			ref := slot(mat)
			ref.Path = args[0]
			ref.Index = l.sc.AddUniqueTexture(ref.Path)
			continue
		}
		switch fields[0] {
		case "illum":
			if v, err := strconv.Atoi(firstOrEmpty(args)); err == nil {
				mat.Illum = int32(v)
			} else {
				l.warnf("mtl(%d): invalid illum", mline)
			}
		case "Ke":
			if v, ok := l.parseFloat3(args); ok {
				mat.Ke = v
			}
		case "Ka":
			if v, ok := l.parseFloat3(args); ok {
				mat.Ka = v
			}
		case "Kd":
			if v, ok := l.parseFloat3(args); ok {
				mat.Kd = v
			}
		case "Ks":
			if v, ok := l.parseFloat3(args); ok {
				mat.Ks = v
			}
		case "Kr":
			if v, ok := l.parseFloat3(args); ok {
				mat.Kr = v
			}
		case "Tr":
			if v, ok := l.parseFloat3(args); ok {
				mat.Kt = v
			}
		case "Ns":
			if v, ok := l.parseFloat1(args); ok {
				mat.Ns = v
			}
		case "d":
			if v, ok := l.parseFloat1(args); ok {
				mat.Op = v
			}
		case "Ni":
			if v, ok := l.parseFloat1(args); ok {
				mat.Ior = v
			}
		default:
			l.warnf("mtl(%d): directive not supported: %s", mline, fields[0])
		}
	}
	return scanner.Err()
}
