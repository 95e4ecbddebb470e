// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gviegas/gp3d/driver"
)

// DecodeRGBA decodes an image and converts it to
// non-premultiplied RGBA, as expected by RGBA8un
// textures.
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
func DecodeRGBA(r io.Reader) (*image.NRGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	if img, ok := src.(*image.NRGBA); ok && img.Rect.Min == (image.Point{}) && img.Stride == 4*img.Rect.Dx() {
		return img, nil
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst, nil
}

// LoadTexture2D creates an RGBA8un texture from an
// image file.
// The texture has a full mip chain whose first level
// holds the image. usage is combined with USampled and
// UTransferDst.
func (g *Graphics) LoadTexture2D(path string, usage driver.TextureUsage) (driver.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := DecodeRGBA(f)
	if err != nil {
		return nil, fmt.Errorf("graphics: %s: %w", path, err)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	return g.CreateTexture2D(w, h, 0, driver.RGBA8un, usage|driver.USampled|driver.UTransferDst, 1, false, img.Pix)
}
