// Package tga reads and writes Truevision TGA images.
//
// Pixels are kept in memory with row 0 at the bottom of the picture, the
// default TGA origin and the orientation of the render viewport. The
// image.Image view returned by the Image methods At and Bounds is the
// usual top-down orientation.
package tga

import (
	"fmt"
	"image"
	"image/color"

	"soft-render/core"
)

// Format is the number of bytes stored per pixel.
type Format int

const (
	Grayscale Format = 1
	RGB       Format = 3
	RGBA      Format = 4
)

func (f Format) String() string {
	switch f {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) valid() bool {
	return f == Grayscale || f == RGB || f == RGBA
}

// Image is a TGA pixel buffer. Color pixels are stored B, G, R(, A).
// It implements core.PixelSink and image.Image.
type Image struct {
	width, height int
	format        Format
	data          []byte
}

// New allocates a black (all-zero) image.
func New(width, height int, format Format) *Image {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("tga: invalid size %dx%d", width, height))
	}
	if !format.valid() {
		panic(fmt.Sprintf("tga: invalid format %d", int(format)))
	}
	return &Image{
		width:  width,
		height: height,
		format: format,
		data:   make([]byte, width*height*int(format)),
	}
}

func (m *Image) Width() int     { return m.width }
func (m *Image) Height() int    { return m.height }
func (m *Image) Format() Format { return m.format }

// Pix returns the raw pixel bytes, bottom row first.
func (m *Image) Pix() []byte { return m.data }

func (m *Image) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Set writes c at (x, y). Writes outside the image are ignored.
func (m *Image) Set(x, y int, c core.Color) {
	if !m.inBounds(x, y) {
		return
	}
	i := (y*m.width + x) * int(m.format)
	switch m.format {
	case Grayscale:
		m.data[i] = luminance(c)
	case RGB:
		m.data[i], m.data[i+1], m.data[i+2] = c.B, c.G, c.R
	case RGBA:
		m.data[i], m.data[i+1], m.data[i+2], m.data[i+3] = c.B, c.G, c.R, c.A
	}
}

// Get reads the color at (x, y). Outside the image it returns white.
func (m *Image) Get(x, y int) core.Color {
	if !m.inBounds(x, y) {
		return core.ColorWhite
	}
	i := (y*m.width + x) * int(m.format)
	switch m.format {
	case Grayscale:
		g := m.data[i]
		return core.Color{B: g, G: g, R: g, A: 255}
	case RGB:
		return core.Color{B: m.data[i], G: m.data[i+1], R: m.data[i+2], A: 255}
	default:
		return core.Color{B: m.data[i], G: m.data[i+1], R: m.data[i+2], A: m.data[i+3]}
	}
}

// Clear fills the whole image with c.
func (m *Image) Clear(c core.Color) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.Set(x, y, c)
		}
	}
}

func (m *Image) FlipHorizontally() {
	bpp := int(m.format)
	for y := 0; y < m.height; y++ {
		row := m.data[y*m.width*bpp : (y+1)*m.width*bpp]
		for l, r := 0, m.width-1; l < r; l, r = l+1, r-1 {
			for k := 0; k < bpp; k++ {
				row[l*bpp+k], row[r*bpp+k] = row[r*bpp+k], row[l*bpp+k]
			}
		}
	}
}

func (m *Image) FlipVertically() {
	stride := m.width * int(m.format)
	tmp := make([]byte, stride)
	for top, bottom := 0, m.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := m.data[top*stride : (top+1)*stride]
		b := m.data[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// ── image.Image view ─────────────────────────────────────────────────────────

func (m *Image) ColorModel() color.Model {
	if m.format == Grayscale {
		return color.GrayModel
	}
	return color.NRGBAModel
}

func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At returns the pixel in top-down image coordinates.
func (m *Image) At(x, y int) color.Color {
	if !m.inBounds(x, y) {
		return color.NRGBA{}
	}
	c := m.Get(x, m.height-1-y)
	if m.format == Grayscale {
		return color.Gray{Y: c.G}
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromImage copies any image.Image into a new image of the given format.
func FromImage(src image.Image, format Format) *Image {
	b := src.Bounds()
	m := New(b.Dx(), b.Dy(), format)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := core.ColorFromColor(src.At(b.Min.X+x, b.Min.Y+y))
			m.Set(x, m.height-1-y, c)
		}
	}
	return m
}

func luminance(c core.Color) uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000)
}
