package textures

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"soft-render/core"
	remath "soft-render/math"
	"soft-render/tga"
)

// quadrants returns a 2x2 image: red top-left, green top-right,
// blue bottom-left, white bottom-right.
func quadrants() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestSampleOrientation(t *testing.T) {
	tex := FromImage("q", quadrants())
	tests := []struct {
		uv   remath.Vec2
		want core.Color
	}{
		{remath.NewVec2(0.25, 0.75), core.ColorRed},
		{remath.NewVec2(0.75, 0.75), core.ColorGreen},
		{remath.NewVec2(0.25, 0.25), core.ColorBlue},
		{remath.NewVec2(0.75, 0.25), core.ColorWhite},
	}
	for _, tt := range tests {
		if got := tex.Sample(tt.uv); got != tt.want {
			t.Errorf("Sample(%v) = %+v, want %+v", tt.uv, got, tt.want)
		}
	}
}

func TestSampleWrapModes(t *testing.T) {
	tex := FromImage("q", quadrants())

	// Repeat: 1.25 behaves like 0.25 and -0.25 like 0.75.
	if got := tex.Sample(remath.NewVec2(1.25, -0.25)); got != core.ColorRed {
		t.Errorf("repeat: got %+v", got)
	}
	if got := tex.Sample(remath.NewVec2(1, 1)); got != core.ColorBlue {
		t.Errorf("repeat at (1,1): got %+v", got)
	}

	tex.Wrap = WrapClamp
	if got := tex.Sample(remath.NewVec2(1.5, -3)); got != core.ColorWhite {
		t.Errorf("clamp: got %+v", got)
	}
	if got := tex.Sample(remath.NewVec2(1, 1)); got != core.ColorGreen {
		t.Errorf("clamp at (1,1): got %+v", got)
	}
}

func TestParseWrapMode(t *testing.T) {
	for in, want := range map[string]WrapMode{"": WrapRepeat, "repeat": WrapRepeat, "CLAMP": WrapClamp} {
		got, err := ParseWrapMode(in)
		if err != nil || got != want {
			t.Errorf("ParseWrapMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWrapMode("mirror"); err == nil {
		t.Error("mirror should be rejected")
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	src := quadrants()

	write := func(name string, encode func(f *os.File) error) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := encode(f); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
		return path
	}

	paths := []string{
		write("q.png", func(f *os.File) error { return png.Encode(f, src) }),
		write("q.bmp", func(f *os.File) error { return bmp.Encode(f, src) }),
		write("q.TIF", func(f *os.File) error { return tiff.Encode(f, src, nil) }),
		write("q.tga", func(f *os.File) error { return tga.Encode(f, tga.FromImage(src, tga.RGB), &tga.Options{RLE: true}) }),
	}
	for _, path := range paths {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			tex, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if tex.Width() != 2 || tex.Height() != 2 || tex.Path != path {
				t.Fatalf("texture %dx%d %q", tex.Width(), tex.Height(), tex.Path)
			}
			if got := tex.Sample(remath.NewVec2(0.25, 0.75)); got != core.ColorRed {
				t.Errorf("top-left texel: got %+v", got)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("obj: got %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := DecodeBytes([]byte("not a png"), "image/png"); err == nil {
		t.Error("garbage png should fail")
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := CreateCheckerTexture("checker", 16, color.White, color.Black)
	if got := tex.Image().Get(0, 0); got != core.ColorWhite {
		t.Errorf("cell (0,0): got %+v", got)
	}
	if got := tex.Image().Get(2, 0); got != core.ColorBlack {
		t.Errorf("cell (1,0): got %+v", got)
	}
}

func TestManagerCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, quadrants()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m := NewManager(WrapClamp)
	a, err := m.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.Load(path)
	if a != b {
		t.Error("second Load should return the cached texture")
	}
	if a.Wrap != WrapClamp {
		t.Errorf("wrap: got %v", a.Wrap)
	}

	def := m.GetOrDefault(filepath.Join(t.TempDir(), "missing.png"))
	if def != m.Default() || def.Sample(remath.NewVec2(0.3, 0.3)) != core.ColorWhite {
		t.Error("missing texture should fall back to white")
	}
	if m.Len() != 2 {
		t.Errorf("cache size: got %d", m.Len())
	}
}
