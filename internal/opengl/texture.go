package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"soft-render/tga"
)

// newFrameTexture allocates a texture for software frames. Nearest
// filtering keeps the rasterized pixels sharp when the window is scaled.
func newFrameTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

// uploadFrame copies img into texture id. Rows are stored bottom-up in
// both the image and the GL texture, so no flip is needed. buf is scratch
// space reused across frames; the grown slice is returned.
func uploadFrame(id uint32, img *tga.Image, buf []byte) ([]byte, error) {
	w, h := img.Width(), img.Height()
	if w == 0 || h == 0 {
		return buf, fmt.Errorf("empty frame")
	}
	n := w * h * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]

	src := img.Pix()
	bpp := int(img.Format())
	for i := 0; i < w*h; i++ {
		s, d := src[i*bpp:], buf[i*4:]
		switch img.Format() {
		case tga.Grayscale:
			d[0], d[1], d[2], d[3] = s[0], s[0], s[0], 255
		case tga.RGB:
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 255
		default:
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(w),
		int32(h),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&buf[0]),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return buf, nil
}
