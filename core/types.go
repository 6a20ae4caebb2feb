package core

import (
	"image/color"

	"soft-render/math"
)

// Color is an 8-bit BGRA color. The field order matches the in-memory
// pixel layout of TGA images.
type Color struct {
	B, G, R, A uint8
}

var (
	ColorWhite  = Color{B: 255, G: 255, R: 255, A: 255}
	ColorBlack  = Color{A: 255}
	ColorRed    = Color{R: 255, A: 255}
	ColorGreen  = Color{G: 255, A: 255}
	ColorBlue   = Color{B: 255, A: 255}
	ColorYellow = Color{R: 255, G: 255, A: 255}
)

func NewColor(r, g, b, a uint8) Color {
	return Color{B: b, G: g, R: r, A: a}
}

// RGBA implements color.Color with straight (non-premultiplied) alpha
// converted to the premultiplied form the interface expects.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Scale multiplies the color channels by k, clamped to [0,255]. Alpha is kept.
func (c Color) Scale(k float64) Color {
	return Color{B: clampChannel(float64(c.B) * k), G: clampChannel(float64(c.G) * k), R: clampChannel(float64(c.R) * k), A: c.A}
}

// Modulate multiplies two colors channel by channel.
func (c Color) Modulate(o Color) Color {
	return Color{
		B: uint8(uint16(c.B) * uint16(o.B) / 255),
		G: uint8(uint16(c.G) * uint16(o.G) / 255),
		R: uint8(uint16(c.R) * uint16(o.R) / 255),
		A: uint8(uint16(c.A) * uint16(o.A) / 255),
	}
}

// ColorFromColor converts any color.Color.
func ColorFromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{B: n.B, G: n.G, R: n.R, A: n.A}
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

// PixelSink is a 2D grid of colors the pipeline draws into. Set outside the
// grid is ignored; Get outside the grid returns an implementation default.
type PixelSink interface {
	Width() int
	Height() int
	Set(x, y int, c Color)
	Get(x, y int) Color
}

// Transform places a mesh in the world: scale, then rotate, then translate.
type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

func (t Transform) GetMatrix() math.Mat4 {
	translation := math.Mat4Translation(t.Position)
	rotation := t.Rotation.ToMat4()
	scale := math.Mat4Scale(t.Scale)
	return translation.Mul(rotation).Mul(scale)
}

func (t Transform) GetForward() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Front)
}

func (t Transform) GetRight() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Right)
}

func (t Transform) GetUp() math.Vec3 {
	return t.Rotation.RotateVector(math.Vec3Up)
}
