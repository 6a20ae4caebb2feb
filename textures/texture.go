// Package textures provides CPU-side textures sampled by the shaders.
package textures

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"soft-render/core"
	remath "soft-render/math"
	"soft-render/tga"
)

// ErrUnknownFormat is returned for a file extension no decoder handles.
var ErrUnknownFormat = errors.New("textures: unknown image format")

// WrapMode decides how texture coordinates outside [0,1) are mapped.
type WrapMode int

const (
	// WrapRepeat tiles the texture: only the fractional part of u and v is used.
	WrapRepeat WrapMode = iota
	// WrapClamp clamps u and v to the texture edge.
	WrapClamp
)

func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapClamp:
		return "clamp"
	}
	return fmt.Sprintf("WrapMode(%d)", int(w))
}

// ParseWrapMode accepts "repeat" (or "") and "clamp".
func ParseWrapMode(s string) (WrapMode, error) {
	switch strings.ToLower(s) {
	case "", "repeat":
		return WrapRepeat, nil
	case "clamp":
		return WrapClamp, nil
	}
	return WrapRepeat, fmt.Errorf("textures: unknown wrap mode %q", s)
}

// Texture is an image sampled with nearest-neighbour lookup. Texture
// coordinate (0,0) is the bottom-left corner.
type Texture struct {
	Name string
	Path string // empty for procedural textures
	Wrap WrapMode
	img  *tga.Image
}

// New wraps an image. The texture does not copy it.
func New(name string, img *tga.Image) *Texture {
	return &Texture{Name: name, img: img}
}

func (t *Texture) Width() int  { return t.img.Width() }
func (t *Texture) Height() int { return t.img.Height() }

// Image returns the backing image.
func (t *Texture) Image() *tga.Image { return t.img }

// Sample returns the texel under uv according to the wrap mode.
func (t *Texture) Sample(uv remath.Vec2) core.Color {
	w, h := t.img.Width(), t.img.Height()
	x := t.texel(uv.X, w)
	y := t.texel(uv.Y, h)
	return t.img.Get(x, y)
}

func (t *Texture) texel(c float64, size int) int {
	switch t.Wrap {
	case WrapClamp:
		c = min(max(c, 0), 1)
	default:
		c -= math.Floor(c)
	}
	i := int(c * float64(size))
	if i >= size {
		i = size - 1
	}
	return i
}

// Load reads a texture, picking the decoder from the file extension:
// .tga, .png, .jpg/.jpeg, .bmp, .tif/.tiff, .webp.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	tex.Name = filepath.Base(path)
	tex.Path = path
	core.Logger().Info("texture loaded", "path", path, "width", tex.Width(), "height", tex.Height())
	return tex, nil
}

// Decode reads a texture from r. ext is a file extension such as ".png"
// or a MIME type such as "image/png".
func Decode(r io.Reader, ext string) (*Texture, error) {
	switch normalizeExt(ext) {
	case "tga":
		img, err := tga.Decode(r)
		if err != nil {
			return nil, err
		}
		return New("", img), nil
	case "png", "jpeg", "bmp", "tiff", "webp":
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, err
		}
		return FromImage("", img), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// DecodeBytes is Decode over an in-memory buffer, used for embedded
// textures.
func DecodeBytes(data []byte, ext string) (*Texture, error) {
	return Decode(bytes.NewReader(data), ext)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ext = strings.TrimPrefix(ext, "image/")
	switch ext {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	case "x-tga", "x-targa", "targa":
		return "tga"
	}
	return ext
}

// FromImage copies a decoded image.Image into an RGBA texture.
func FromImage(name string, img image.Image) *Texture {
	return New(name, tga.FromImage(img, tga.RGBA))
}

// CreateSolidColorTexture creates a 1x1 texture.
func CreateSolidColorTexture(name string, c core.Color) *Texture {
	img := tga.New(1, 1, tga.RGBA)
	img.Set(0, 0, c)
	return New(name, img)
}

// CreateCheckerTexture creates a size x size checkerboard of 8x8 cells.
func CreateCheckerTexture(name string, size int, c1, c2 color.Color) *Texture {
	a, b := core.ColorFromColor(c1), core.ColorFromColor(c2)
	img := tga.New(size, size, tga.RGBA)
	blockSize := max(size/8, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/blockSize)+(y/blockSize))%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return New(name, img)
}
