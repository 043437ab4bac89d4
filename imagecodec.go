package vtcore

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/png"
	"io"
)

// ImageDecoder turns a completed Kitty transmission's transport bytes into
// RGBA pixels. Pixel-format decoding (PNG, raw RGB/RGBA) is deliberately kept
// behind this interface rather than inline in the protocol handler, so a host
// embedding the terminal can swap in its own decoder (or one backed by a
// sandboxed subprocess) without touching command parsing.
type ImageDecoder interface {
	// Decode returns RGBA pixel data and the pixel dimensions. compression is
	// 'z' for zlib-wrapped payloads and 0 otherwise; it describes the
	// transport encoding, not the pixel format, and is unwrapped the same way
	// regardless of format.
	Decode(format KittyFormat, compression byte, width, height uint32, data []byte) (rgba []byte, w, h uint32, err error)
}

// DefaultImageDecoder decodes PNG, raw RGB, and raw RGBA payloads using only
// the standard image codecs.
type DefaultImageDecoder struct{}

// Decode implements ImageDecoder.
func (DefaultImageDecoder) Decode(format KittyFormat, compression byte, width, height uint32, data []byte) ([]byte, uint32, uint32, error) {
	if compression == 'z' && len(data) > 0 {
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to create zlib reader: %w", err)
		}
		defer r.Close()

		decompressed, err := io.ReadAll(r)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decompress data: %w", err)
		}
		data = decompressed
	}

	switch format {
	case KittyFormatPNG:
		return decodePNG(data)

	case KittyFormatRGB:
		if width == 0 || height == 0 {
			return nil, 0, 0, fmt.Errorf("RGB format requires width and height")
		}
		expected := int(width * height * 3)
		if len(data) < expected {
			return nil, 0, 0, fmt.Errorf("insufficient RGB data: got %d, expected %d", len(data), expected)
		}
		rgba := make([]byte, width*height*4)
		for i := uint32(0); i < width*height; i++ {
			rgba[i*4+0] = data[i*3+0]
			rgba[i*4+1] = data[i*3+1]
			rgba[i*4+2] = data[i*3+2]
			rgba[i*4+3] = 255
		}
		return rgba, width, height, nil

	case KittyFormatRGBA:
		if width == 0 || height == 0 {
			return nil, 0, 0, fmt.Errorf("RGBA format requires width and height")
		}
		expected := int(width * height * 4)
		if len(data) < expected {
			return nil, 0, 0, fmt.Errorf("insufficient RGBA data: got %d, expected %d", len(data), expected)
		}
		return data[:expected], width, height, nil

	default:
		return nil, 0, 0, fmt.Errorf("unsupported format: %d", format)
	}
}

// decodePNG decodes PNG data to RGBA pixels, falling back to the generic
// image package for formats registered against it.
func decodePNG(data []byte) ([]byte, uint32, uint32, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode PNG: %w", err)
		}
	}

	bounds := img.Bounds()
	width := uint32(bounds.Dx())
	height := uint32(bounds.Dy())

	rgba := make([]byte, width*height*4)

	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			offset := (uint32(y)*width + uint32(x)) * 4
			rgba[offset+0] = uint8(r >> 8)
			rgba[offset+1] = uint8(g >> 8)
			rgba[offset+2] = uint8(b >> 8)
			rgba[offset+3] = uint8(a >> 8)
		}
	}

	return rgba, width, height, nil
}
