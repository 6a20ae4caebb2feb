package tga

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"soft-render/core"
)

var (
	// ErrFormat reports a malformed or truncated file.
	ErrFormat = errors.New("tga: invalid format")
	// ErrUnsupported reports a valid TGA variant this package does not read,
	// such as color-mapped images.
	ErrUnsupported = errors.New("tga: unsupported image")
)

// Image types from the TGA header.
const (
	typeNoData       = 0
	typeColorMapped  = 1
	typeTrueColor    = 2
	typeGray         = 3
	typeRLEColorMap  = 9
	typeRLETrueColor = 10
	typeRLEGray      = 11
)

const (
	descriptorRight = 1 << 4
	descriptorTop   = 1 << 5
	maxPacketPixels = 128
	footerSignature = "TRUEVISION-XFILE.\x00"
)

type header struct {
	IDLength        uint8
	ColorMapType    uint8
	ImageType       uint8
	ColorMapOrigin  uint16
	ColorMapLength  uint16
	ColorMapDepth   uint8
	XOrigin         uint16
	YOrigin         uint16
	Width           uint16
	Height          uint16
	BitsPerPixel    uint8
	ImageDescriptor uint8
}

// Decode reads a TGA image of type 2, 3, 10 or 11 with 8, 24 or 32 bits
// per pixel. Images stored top-down or right-to-left are flipped into the
// bottom-up, left-to-right layout.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrFormat, h.Width, h.Height)
	}

	switch h.ImageType {
	case typeTrueColor, typeGray, typeRLETrueColor, typeRLEGray:
	case typeNoData:
		return nil, fmt.Errorf("%w: no image data", ErrUnsupported)
	case typeColorMapped, typeRLEColorMap:
		return nil, fmt.Errorf("%w: color-mapped image", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: image type %d", ErrFormat, h.ImageType)
	}

	format := Format(h.BitsPerPixel / 8)
	if h.BitsPerPixel%8 != 0 || !format.valid() {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, h.BitsPerPixel)
	}

	if _, err := br.Discard(int(h.IDLength)); err != nil {
		return nil, fmt.Errorf("%w: id field: %w", ErrFormat, err)
	}
	if h.ColorMapType != 0 {
		skip := int(h.ColorMapLength) * ((int(h.ColorMapDepth) + 7) / 8)
		if _, err := br.Discard(skip); err != nil {
			return nil, fmt.Errorf("%w: color map: %w", ErrFormat, err)
		}
	}

	m := New(int(h.Width), int(h.Height), format)
	if h.ImageType == typeRLETrueColor || h.ImageType == typeRLEGray {
		if err := decodeRLE(br, m.data, int(format)); err != nil {
			return nil, err
		}
	} else if _, err := io.ReadFull(br, m.data); err != nil {
		return nil, fmt.Errorf("%w: pixel data: %w", ErrFormat, err)
	}

	if h.ImageDescriptor&descriptorRight != 0 {
		m.FlipHorizontally()
	}
	if h.ImageDescriptor&descriptorTop != 0 {
		m.FlipVertically()
	}

	core.Logger().Debug("tga decoded", "width", m.width, "height", m.height, "format", format)
	return m, nil
}

func decodeRLE(r *bufio.Reader, dst []byte, bpp int) error {
	pixel := make([]byte, bpp)
	for pos := 0; pos < len(dst); {
		packet, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: rle packet header: %w", ErrFormat, err)
		}
		n := int(packet&0x7f) + 1
		if pos+n*bpp > len(dst) {
			return fmt.Errorf("%w: rle packet overruns image", ErrFormat)
		}
		if packet&0x80 != 0 {
			if _, err := io.ReadFull(r, pixel); err != nil {
				return fmt.Errorf("%w: rle run: %w", ErrFormat, err)
			}
			for i := 0; i < n; i++ {
				pos += copy(dst[pos:], pixel)
			}
			continue
		}
		if _, err := io.ReadFull(r, dst[pos:pos+n*bpp]); err != nil {
			return fmt.Errorf("%w: rle raw packet: %w", ErrFormat, err)
		}
		pos += n * bpp
	}
	return nil
}

// Options control Encode.
type Options struct {
	// RLE enables run-length compression (image types 10 and 11).
	RLE bool
	// TopDown stores the rows top row first and sets the origin bit, so
	// readers that ignore the origin still show the picture upright.
	TopDown bool
}

// Encode writes m as a TGA file with a version 2 footer. A nil opts
// writes an uncompressed bottom-up image.
func Encode(w io.Writer, m *Image, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	h := header{
		Width:        uint16(m.width),
		Height:       uint16(m.height),
		BitsPerPixel: uint8(m.format * 8),
	}
	if m.width > 0xffff || m.height > 0xffff {
		return fmt.Errorf("%w: size %dx%d exceeds 65535", ErrUnsupported, m.width, m.height)
	}
	switch {
	case m.format == Grayscale && opts.RLE:
		h.ImageType = typeRLEGray
	case m.format == Grayscale:
		h.ImageType = typeGray
	case opts.RLE:
		h.ImageType = typeRLETrueColor
	default:
		h.ImageType = typeTrueColor
	}
	if m.format == RGBA {
		h.ImageDescriptor |= 8
	}

	data := m.data
	if opts.TopDown {
		h.ImageDescriptor |= descriptorTop
		flipped := &Image{width: m.width, height: m.height, format: m.format, data: append([]byte(nil), m.data...)}
		flipped.FlipVertically()
		data = flipped.data
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("write tga header: %w", err)
	}
	if opts.RLE {
		if err := encodeRLE(bw, data, int(m.format)); err != nil {
			return fmt.Errorf("write tga pixels: %w", err)
		}
	} else if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("write tga pixels: %w", err)
	}

	// Extension and developer area offsets, then the signature.
	var footer [8]byte
	if _, err := bw.Write(footer[:]); err != nil {
		return fmt.Errorf("write tga footer: %w", err)
	}
	if _, err := bw.WriteString(footerSignature); err != nil {
		return fmt.Errorf("write tga footer: %w", err)
	}
	return bw.Flush()
}

func encodeRLE(w *bufio.Writer, data []byte, bpp int) error {
	npixels := len(data) / bpp
	px := func(i int) []byte { return data[i*bpp : (i+1)*bpp] }
	same := func(i, j int) bool {
		a, b := px(i), px(j)
		for k := range a {
			if a[k] != b[k] {
				return false
			}
		}
		return true
	}

	for i := 0; i < npixels; {
		run := 1
		for i+run < npixels && run < maxPacketPixels && same(i, i+run) {
			run++
		}
		if run > 1 {
			if err := w.WriteByte(0x80 | byte(run-1)); err != nil {
				return err
			}
			if _, err := w.Write(px(i)); err != nil {
				return err
			}
			i += run
			continue
		}

		raw := 1
		for i+raw < npixels && raw < maxPacketPixels {
			if i+raw+1 < npixels && same(i+raw, i+raw+1) {
				break
			}
			raw++
		}
		if err := w.WriteByte(byte(raw - 1)); err != nil {
			return err
		}
		if _, err := w.Write(data[i*bpp : (i+raw)*bpp]); err != nil {
			return err
		}
		i += raw
	}
	return nil
}

// Load reads a TGA file from disk.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tga %q: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode tga %q: %w", path, err)
	}
	return m, nil
}

// Save writes m to path, replacing any existing file.
func Save(path string, m *Image, opts *Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tga %q: %w", path, err)
	}
	if err := Encode(f, m, opts); err != nil {
		f.Close()
		return fmt.Errorf("encode tga %q: %w", path, err)
	}
	return f.Close()
}
