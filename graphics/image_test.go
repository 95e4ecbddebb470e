// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"gviegas/gp3d/driver"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := range 2 {
		for x := range 3 {
			img.Set(x, y, color.RGBA{uint8(x * 100), uint8(y * 200), 50, 255})
		}
	}
	return img
}

func TestDecodeRGBA(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage()))
	img, err := DecodeRGBA(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Rect)
	assert.Equal(t, color.NRGBA{200, 200, 50, 255}, img.NRGBAAt(2, 1))
	assert.Len(t, img.Pix, 3*2*4)

	_, err = DecodeRGBA(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestLoadTexture2D(t *testing.T) {
	g, _ := newGraphics(t, nil)

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage()))
	require.NoError(t, f.Close())

	tex, err := g.LoadTexture2D(path, 0)
	require.NoError(t, err)
	desc := tex.Desc()
	assert.Equal(t, 3, desc.Width)
	assert.Equal(t, 2, desc.Height)
	assert.Equal(t, driver.RGBA8un, desc.Format)
	assert.Equal(t, driver.ComputeMipLevels(3, 2), desc.MipLevels)
	assert.Equal(t, driver.USampled|driver.UTransferDst, desc.Usage)
	g.DestroyTexture(tex)

	_, err = g.LoadTexture2D(filepath.Join(t.TempDir(), "missing.png"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, g.ObjectCount())
}
