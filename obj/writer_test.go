package obj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/goobj/scene"
)

// saveAndReload writes sc to a fresh file and parses it back.
func saveAndReload(t *testing.T, sc *scene.Scene, ext bool) *scene.Scene {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.obj")
	require.NoError(t, Save(out, sc, ext))
	got, err := Load(out, false, ext)
	require.NoError(t, err)
	return got
}

func TestWriteReloadTriangles(t *testing.T) {
	path := writeFile(t, t.TempDir(), "quad.obj", `
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`)
	src, err := Load(path, false, false)
	require.NoError(t, err)

	got := saveAndReload(t, src, false)
	require.Len(t, got.Shapes, 1)
	assert.Equal(t, src.Shapes, got.Shapes)
}

func TestWriteReloadCrossShapeOffsets(t *testing.T) {
	// second shape has positions only, so per-field offsets diverge
	path := writeFile(t, t.TempDir(), "two.obj", `
o textured
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
o bare
v 2 0 0
v 3 0 0
v 2 1 0
f 4 5 6
`)
	src, err := Load(path, false, false)
	require.NoError(t, err)
	require.Len(t, src.Shapes, 2)

	got := saveAndReload(t, src, false)
	assert.Equal(t, src.Shapes, got.Shapes)
}

func TestWriteReloadMixedPolygons(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mixed.obj", `
o mixed
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
f 1 2 3
l 1 2 3 4
p 1 2
`)
	src, err := Load(path, false, false)
	require.NoError(t, err)
	require.Len(t, src.Shapes, 3)

	got := saveAndReload(t, src, false)
	assert.Equal(t, src.Shapes, got.Shapes)
}

func TestWriteReloadExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "full.mtl", `
newmtl red
  illum 2
  Ke 0.5 0 0
  Ka 0.25 0.25 0.25
  Kd 1 0 0
  Ks 0.5 0.5 0.5
  Kr 0.125 0 0
  Tr 0.25 0.25 0.25
  Ns 64
  d 0.5
  Ni 1.5
  map_Kd red.png
  map_bump bump.png
newmtl sky
  Ke 1 1 1
`)
	path := writeFile(t, dir, "full.obj", `
mtllib full.mtl
v 0 0 0
v 0 0 -1
vn 0 1 0
vt 0.25 0.25
vt 1 0.75
o cam1
c 1/1/1 2/2/1
o env1
usemtl sky
e 1/1/1 2/2/1
o tri
usemtl red
v 1 0 0
v 0 1 0
vc 1 0 0
vc 0 1 0
vc 0 0 1
vr 0.5
vr 0.5
vr 0.5
xf 2 0 0 0 2 0 0 0 2 1 2 3
f 1///1/1 3///2/2 4///3/3
`)
	src, err := Load(path, false, true)
	require.NoError(t, err)
	require.Len(t, src.Cameras, 1)
	require.Len(t, src.Envs, 1)
	require.Len(t, src.Shapes, 1)
	require.True(t, src.Shapes[0].XFormed)

	got := saveAndReload(t, src, true)
	assert.Equal(t, src.Cameras, got.Cameras)
	assert.Equal(t, src.Envs, got.Envs)
	assert.Equal(t, src.Materials, got.Materials)
	assert.Equal(t, src.Shapes, got.Shapes)
	assert.Equal(t, src.Textures, got.Textures)
}

func TestWriteExtensionsDisabledDropsBlocks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ext.obj", `
v 0 0 0
v 0 0 -1
o cam1
c 1 2
o tri
v 1 0 0
v 0 1 0
vc 1 0 0
vc 0 1 0
vc 0 0 1
f 1///1 3///2 4///3
`)
	src, err := Load(path, false, true)
	require.NoError(t, err)
	require.Len(t, src.Cameras, 1)
	require.NotEmpty(t, src.Shapes[0].Color)

	got := saveAndReload(t, src, false)
	assert.Empty(t, got.Cameras)
	require.Len(t, got.Shapes, 1)
	assert.Empty(t, got.Shapes[0].Color)
	assert.Equal(t, src.Shapes[0].Pos, got.Shapes[0].Pos)
}

func TestSaveMtlSidecar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mat.mtl", `
newmtl red
  Kd 1 0 0
`)
	path := writeFile(t, dir, "mat.obj", `
mtllib mat.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
`)
	src, err := Load(path, false, false)
	require.NoError(t, err)

	outDir := t.TempDir()
	out := filepath.Join(outDir, "copy.obj")
	require.NoError(t, Save(out, src, false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mtllib copy.mtl")

	mtl, err := os.ReadFile(filepath.Join(outDir, "copy.mtl"))
	require.NoError(t, err)
	assert.Contains(t, string(mtl), "newmtl red")
	assert.Contains(t, string(mtl), "Kd 1 0 0")
}

func TestSaveNoMaterialsNoSidecar(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plain.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	src, err := Load(path, false, false)
	require.NoError(t, err)

	outDir := t.TempDir()
	out := filepath.Join(outDir, "plain.obj")
	require.NoError(t, Save(out, src, false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "mtllib"))
	_, err = os.Stat(filepath.Join(outDir, "plain.mtl"))
	assert.True(t, os.IsNotExist(err))
}
