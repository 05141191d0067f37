// Package obj implements the Wavefront OBJ text codec for scene.Scene:
// a streaming directive parser with per-shape vertex deduplication, the
// MTL sidecar parser, the text writer and the texture pixel loading pass.
//
// The grammar is handled leniently: unrecognized or malformed directives
// are skipped and recorded in Loader.Warnings, never escalated. Supported
// extensions beyond plain OBJ: per-vertex color (vc) and radius (vr),
// per-shape affine frames (xf), cameras (c) and environment maps (e).
package obj

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorustyt/goobj/common"
	"github.com/gorustyt/goobj/scene"
)

// maximum line size accepted by the scanner
const maxLineSize = 1024 * 1024

// Loader parses an OBJ file and its MTL sidecars into a scene.Scene.
// A zero Loader parses plain OBJ; set Triangulate and Extensions before
// calling Load. Warnings accumulates non-fatal diagnostics.
type Loader struct {
	Triangulate bool
	Extensions  bool
	Warnings    []string

	sc *scene.Scene

	// scene-global attribute pools, in declaration order
	pos      []common.Vec3
	texcoord []common.Vec2
	norm     []common.Vec3
	color    []common.Vec3
	radius   []float32

	// per-shape accumulation window
	vids  map[vertKey]int32
	vert  shapeVerts
	elem  []int32
	etype scene.ElemType

	name      string
	groupName string
	matName   string
	xform     common.Frame

	line int
}

// vertKey is the resolved attribute-index tuple of one face-vertex
// occurrence. -1 marks an absent component. Two occurrences with equal
// keys share one vertex id within the current accumulation window.
type vertKey struct {
	pos, texcoord, norm, color, radius int32
}

// shapeVerts are the compact per-shape vertex arrays built as tuples are
// first seen.
type shapeVerts struct {
	pos      []common.Vec3
	norm     []common.Vec3
	texcoord []common.Vec2
	color    []common.Vec3
	radius   []float32
}

// Load parses the OBJ file at path. Convenience wrapper around Loader.
func Load(path string, triangulate, extensions bool) (*scene.Scene, error) {
	l := &Loader{Triangulate: triangulate, Extensions: extensions}
	return l.Load(path)
}

func (l *Loader) Load(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l.sc = scene.NewScene()
	l.xform = scene.IdentityFrame
	l.resetWindow()
	dir := filepath.Dir(path)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		l.line++
		if err := l.parseLine(scanner.Text(), dir); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	l.flushShape()

	for _, env := range l.sc.Envs {
		env.MatID = l.sc.MaterialIndex(env.MatName)
	}
	return l.sc, nil
}

func (l *Loader) parseLine(line, dir string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	args := fields[1:]
	switch fields[0] {
	case "v":
		if v, ok := l.parseFloat3(args); ok {
			l.pos = append(l.pos, v)
		}
	case "vt":
		if v, ok := l.parseFloat2(args); ok {
			l.texcoord = append(l.texcoord, v)
		}
	case "vn":
		if v, ok := l.parseFloat3(args); ok {
			l.norm = append(l.norm, v)
		}
	case "vc":
		if l.Extensions {
			if v, ok := l.parseFloat3(args); ok {
				l.color = append(l.color, v)
			}
		}
	case "vr":
		if l.Extensions {
			if v, ok := l.parseFloat1(args); ok {
				l.radius = append(l.radius, v)
			}
		}
	case "xf":
		if l.Extensions {
			l.parseFrame(args)
		}
	case "f":
		l.parseElems(args, scene.ElemPolygon, scene.ElemTriangle)
	case "l":
		l.parseElems(args, scene.ElemPolyline, scene.ElemLine)
	case "p":
		l.parsePoints(args)
	case "o":
		l.flushShape()
		l.name = firstOrEmpty(args)
		l.groupName = ""
		l.matName = ""
		l.xform = scene.IdentityFrame
	case "g":
		l.flushShape()
		l.groupName = firstOrEmpty(args)
	case "usemtl":
		l.flushShape()
		l.matName = firstOrEmpty(args)
	case "mtllib":
		if len(args) < 1 {
			l.warnf("mtllib with no path")
			return nil
		}
		mpath := filepath.Join(dir, args[0])
		if err := l.loadMtl(mpath); err != nil {
			return fmt.Errorf("obj: material library %q: %w", args[0], err)
		}
	case "c":
		if l.Extensions {
			l.parseCamera(args)
		}
	case "e":
		if l.Extensions {
			l.parseEnv(args)
		}
	default:
		l.warnf("directive not supported: %s", fields[0])
	}
	return nil
}

// parseElems handles `f` and `l` runs. Without triangulation the run is
// buffered count-prefixed under polyType; with triangulation it is fanned
// (faces) or split pairwise (lines) under triType directly while
// buffering, so no variable-length runs ever reach the assembler.
func (l *Loader) parseElems(args []string, polyType, triType scene.ElemType) {
	keys, ok := l.parseVertTuples(args)
	if !ok {
		return
	}
	if !l.Triangulate {
		if l.etype != polyType {
			l.flushShape()
		}
		l.etype = polyType
		l.elem = append(l.elem, int32(len(keys)))
		for _, k := range keys {
			l.elem = append(l.elem, l.internVert(k))
		}
		return
	}

	if l.etype != triType {
		l.flushShape()
	}
	l.etype = triType
	switch triType {
	case scene.ElemTriangle:
		// fan from the first vertex: (v0,v1,v2), (v0,v2,v3), ...
		var vi0 int32
		for i, k := range keys {
			vid := l.internVert(k)
			if i == 0 {
				vi0 = vid
			}
			if i > 2 {
				last := l.elem[len(l.elem)-1]
				l.elem = append(l.elem, vi0, last)
			}
			l.elem = append(l.elem, vid)
		}
	case scene.ElemLine:
		// consecutive pair segments: (v0,v1), (v1,v2), ...
		for i, k := range keys {
			vid := l.internVert(k)
			if i > 1 {
				last := l.elem[len(l.elem)-1]
				l.elem = append(l.elem, last)
			}
			l.elem = append(l.elem, vid)
		}
	}
}

func (l *Loader) parsePoints(args []string) {
	keys, ok := l.parseVertTuples(args)
	if !ok {
		return
	}
	if l.etype != scene.ElemPoint {
		l.flushShape()
	}
	l.etype = scene.ElemPoint
	for _, k := range keys {
		l.elem = append(l.elem, l.internVert(k))
	}
}

// parseCamera handles the `c from to` extension. The look-at basis and
// lens values ride in the referenced pool slots: up in from's normal,
// aperture in from's texcoord x, image plane size in to's texcoord.
func (l *Loader) parseCamera(args []string) {
	l.flushShape()
	if len(args) < 2 {
		l.warnf("camera with fewer than 2 vertex references")
		return
	}
	from, ok1 := l.parseVertTuple(args[0])
	to, ok2 := l.parseVertTuple(args[1])
	if !ok1 || !ok2 || from.pos < 0 || to.pos < 0 {
		l.warnf("camera with invalid vertex references")
		return
	}
	cam := scene.NewCamera(l.name)
	cam.From = l.pos[from.pos]
	cam.To = l.pos[to.pos]
	if from.norm >= 0 {
		cam.Up = l.norm[from.norm]
	}
	if to.texcoord >= 0 {
		cam.Width = l.texcoord[to.texcoord][0]
		cam.Height = l.texcoord[to.texcoord][1]
	}
	if from.texcoord >= 0 {
		cam.Aperture = l.texcoord[from.texcoord][0]
	}
	l.sc.Cameras = append(l.sc.Cameras, cam)
	l.name = ""
	l.matName = ""
	l.xform = scene.IdentityFrame
}

// parseEnv handles the `e from to` extension; the last usemtl names the
// environment's material. Its index resolves once parsing completes.
func (l *Loader) parseEnv(args []string) {
	l.flushShape()
	if len(args) < 2 {
		l.warnf("environment with fewer than 2 vertex references")
		return
	}
	from, ok1 := l.parseVertTuple(args[0])
	to, ok2 := l.parseVertTuple(args[1])
	if !ok1 || !ok2 || from.pos < 0 || to.pos < 0 {
		l.warnf("environment with invalid vertex references")
		return
	}
	env := scene.NewEnv(l.name, l.matName)
	env.From = l.pos[from.pos]
	env.To = l.pos[to.pos]
	if from.norm >= 0 {
		env.Up = l.norm[from.norm]
	}
	l.sc.Envs = append(l.sc.Envs, env)
	l.name = ""
	l.matName = ""
	l.xform = scene.IdentityFrame
}

// parseVertTuples resolves every token of an element line before any
// state is committed, so a malformed line drops whole.
func (l *Loader) parseVertTuples(args []string) ([]vertKey, bool) {
	if len(args) == 0 {
		l.warnf("element with no vertices")
		return nil, false
	}
	keys := make([]vertKey, 0, len(args))
	for _, tok := range args {
		k, ok := l.parseVertTuple(tok)
		if !ok {
			l.warnf("invalid vertex reference %q", tok)
			return nil, false
		}
		keys = append(keys, k)
	}
	return keys, true
}

// parseVertTuple resolves one pos/texcoord/norm[/color/radius] reference
// against the current pool lengths. Indices are 1-based; negative indices
// count back from the end of the corresponding pool at this point of the
// parse.
func (l *Loader) parseVertTuple(tok string) (vertKey, bool) {
	k := vertKey{pos: -1, texcoord: -1, norm: -1, color: -1, radius: -1}
	lens := [5]int32{
		int32(len(l.pos)), int32(len(l.texcoord)), int32(len(l.norm)),
		int32(len(l.color)), int32(len(l.radius)),
	}
	idx := [5]*int32{&k.pos, &k.texcoord, &k.norm, &k.color, &k.radius}

	parts := strings.Split(tok, "/")
	if len(parts) > 5 {
		parts = parts[:5]
	}
	for i, p := range parts {
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil || v == 0 {
			return k, false
		}
		r := int32(v)
		if r < 0 {
			r += lens[i]
		} else {
			r--
		}
		if r < 0 || r >= lens[i] {
			return k, false
		}
		*idx[i] = r
	}
	return k, true
}

// internVert maps a resolved tuple to its dense vertex id, copying the
// referenced pool values into the shape-local arrays on first sight.
func (l *Loader) internVert(k vertKey) int32 {
	if vid, ok := l.vids[k]; ok {
		return vid
	}
	vid := int32(len(l.vids))
	l.vids[k] = vid
	if k.pos >= 0 {
		l.vert.pos = append(l.vert.pos, l.pos[k.pos])
	}
	if k.norm >= 0 {
		l.vert.norm = append(l.vert.norm, l.norm[k.norm])
	}
	if k.texcoord >= 0 {
		l.vert.texcoord = append(l.vert.texcoord, l.texcoord[k.texcoord])
	}
	if k.color >= 0 {
		l.vert.color = append(l.vert.color, l.color[k.color])
	}
	if k.radius >= 0 {
		l.vert.radius = append(l.vert.radius, l.radius[k.radius])
	}
	return vid
}

// flushShape finalizes the buffered element run into a Shape and resets
// the accumulation window. A flush with nothing buffered is a no-op.
func (l *Loader) flushShape() {
	if len(l.elem) == 0 {
		return
	}
	shape := &scene.Shape{
		Name:      l.name,
		GroupName: l.groupName,
		MatName:   l.matName,
		MatID:     l.sc.MaterialIndex(l.matName),
		XFormed:   l.xform != scene.IdentityFrame,
		XForm:     l.xform,
		NVerts:    int32(len(l.vert.pos)),
		Pos:       l.vert.pos,
		Norm:      l.vert.norm,
		TexCoord:  l.vert.texcoord,
		Color:     l.vert.color,
		Radius:    l.vert.radius,
	}
	switch l.etype {
	case scene.ElemPoint, scene.ElemLine, scene.ElemTriangle:
		shape.EType = l.etype
		shape.NElems = int32(len(l.elem)) / int32(l.etype)
		shape.Elem = l.elem
	case scene.ElemPolygon, scene.ElemPolyline:
		compactElems(shape, l.etype, l.elem)
	}
	l.sc.Shapes = append(l.sc.Shapes, shape)
	l.resetWindow()
}

// compactElems scans count-prefixed runs; if every run has the same size
// and that size fits a fixed-stride type, the prefixes are stripped and
// the shape downgrades to point/line/triangle. Mixed sizes keep the
// count-prefixed layout.
func compactElems(shape *scene.Shape, etype scene.ElemType, elem []int32) {
	var nelems int32
	minf, maxf := int32(maxLineSize), int32(-1)
	for f := 0; f < len(elem); {
		nf := elem[f]
		minf = common.Min(minf, nf)
		maxf = common.Max(maxf, nf)
		f += int(nf) + 1
		nelems++
	}
	shape.NElems = nelems
	if minf == maxf && maxf < 4 {
		shape.EType = scene.ElemType(maxf)
		out := make([]int32, 0, int(nelems)*int(maxf))
		for f := 0; f < len(elem); f += int(maxf) + 1 {
			out = append(out, elem[f+1:f+1+int(maxf)]...)
		}
		shape.Elem = out
	} else {
		shape.EType = etype
		shape.Elem = elem
	}
}

func (l *Loader) resetWindow() {
	l.vids = make(map[vertKey]int32)
	l.vert = shapeVerts{}
	l.elem = nil
	l.etype = scene.ElemNone
}

func (l *Loader) parseFloat1(args []string) (float32, bool) {
	if len(args) < 1 {
		l.warnf("expected 1 value, got %d", len(args))
		return 0, false
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		l.warnf("invalid float %q", args[0])
		return 0, false
	}
	return float32(v), true
}

func (l *Loader) parseFloat2(args []string) (common.Vec2, bool) {
	var v common.Vec2
	if len(args) < 2 {
		l.warnf("expected 2 values, got %d", len(args))
		return v, false
	}
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			l.warnf("invalid float %q", args[i])
			return v, false
		}
		v[i] = float32(f)
	}
	return v, true
}

func (l *Loader) parseFloat3(args []string) (common.Vec3, bool) {
	var v common.Vec3
	if len(args) < 3 {
		l.warnf("expected 3 values, got %d", len(args))
		return v, false
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			l.warnf("invalid float %q", args[i])
			return v, false
		}
		v[i] = float32(f)
	}
	return v, true
}

// parseFrame reads the 12 column-major floats of an xf directive into the
// pending frame for the next shape.
func (l *Loader) parseFrame(args []string) {
	if len(args) < 12 {
		l.warnf("xf with %d of 12 values", len(args))
		return
	}
	var m common.Frame
	for i := 0; i < 12; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			l.warnf("invalid float %q", args[i])
			return
		}
		m[i] = float32(f)
	}
	l.xform = m
}

func (l *Loader) warnf(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf("obj(%d): %s", l.line, fmt.Sprintf(format, args...)))
}

func firstOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
