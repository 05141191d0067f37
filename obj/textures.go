package obj

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/gorustyt/goobj/scene"
)

// ImageDecoder loads pixel data for texture paths. The codec itself never
// decodes images; a decoder is an external collaborator fed one path at a
// time. reqComp forces the returned component count when 1-4, 0 keeps the
// decoder's default.
type ImageDecoder interface {
	Decode(path string, reqComp int) (width, height, ncomp int, pixels []float32, err error)
}

// LoadTextures fills the pixel buffers of every texture in the scene,
// resolving paths against the directory of the scene file. Each texture
// is written exactly once, so this pass may be parallelized per texture
// by callers if needed. A nil decoder uses StdImageDecoder.
func LoadTextures(sc *scene.Scene, scenePath string, reqComp int, dec ImageDecoder) error {
	if dec == nil {
		dec = StdImageDecoder{}
	}
	dir := filepath.Dir(scenePath)
	for _, tex := range sc.Textures {
		w, h, n, pix, err := dec.Decode(filepath.Join(dir, tex.Path), reqComp)
		if err != nil {
			return fmt.Errorf("obj: texture %q: %w", tex.Path, err)
		}
		tex.Width, tex.Height, tex.NComp, tex.Pixels = w, h, n, pix
	}
	return nil
}

// StdImageDecoder decodes png/jpeg/bmp/tiff files into float pixels in
// [0,1] with rows flipped so the origin is bottom-left.
type StdImageDecoder struct{}

func (StdImageDecoder) Decode(path string, reqComp int) (int, int, int, []float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ncomp := reqComp
	if ncomp < 1 || ncomp > 4 {
		ncomp = 4
	}

	pixels := make([]float32, 0, w*h*ncomp)
	for y := bounds.Max.Y - 1; y >= bounds.Min.Y; y-- {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			rf := float32(r) / 0xffff
			gf := float32(g) / 0xffff
			bf := float32(b) / 0xffff
			af := float32(a) / 0xffff
			switch ncomp {
			case 1:
				pixels = append(pixels, (rf+gf+bf)/3)
			case 2:
				pixels = append(pixels, (rf+gf+bf)/3, af)
			case 3:
				pixels = append(pixels, rf, gf, bf)
			default:
				pixels = append(pixels, rf, gf, bf, af)
			}
		}
	}
	return w, h, ncomp, pixels, nil
}
