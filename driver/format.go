// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"fmt"
	"strings"
)

// Format describes the format of a pixel or of a vertex
// element.
// The ordinal of each constant is used to index the
// lookup tables of every backend, so the order of the
// constants must not change.
type Format int

// Formats.
const (
	FUndefined Format = iota
	// Single channel.
	R8un
	R16un
	R16f
	R32ui
	R32f
	// Two channels.
	RG8un
	RG16un
	RG16f
	RG32ui
	RG32f
	// Three channels.
	RGB8un
	RGB16un
	RGB16f
	RGB32ui
	RGB32f
	// Four channels.
	BGRA8un
	RGBA8un
	RGBA16un
	RGBA16f
	RGBA32ui
	RGBA32f
	// Depth/Stencil.
	D16un
	X8D24un
	D32f
	S8ui
	D16unS8ui
	D24unS8ui
	D32fS8ui

	// Number of formats.
	FormatN int = iota
)

// formatSize is the size in bytes of a vertex element of
// each format. Depth/stencil formats cannot be used as
// vertex elements, so their entries are zero.
var formatSize = [FormatN]int{
	FUndefined: 0,
	R8un:       1,
	R16un:      2,
	R16f:       2,
	R32ui:      4,
	R32f:       4,
	RG8un:      2,
	RG16un:     4,
	RG16f:      4,
	RG32ui:     8,
	RG32f:      8,
	RGB8un:     3,
	RGB16un:    6,
	RGB16f:     6,
	RGB32ui:    12,
	RGB32f:     12,
	BGRA8un:    4,
	RGBA8un:    4,
	RGBA16un:   8,
	RGBA16f:    8,
	RGBA32ui:   16,
	RGBA32f:    16,
	D16un:      0,
	X8D24un:    0,
	D32f:       0,
	S8ui:       0,
	D16unS8ui:  0,
	D24unS8ui:  0,
	D32fS8ui:   0,
}

// Size returns the size in bytes of a vertex element
// of format f.
// It returns 0 for depth/stencil formats and for
// FUndefined.
func (f Format) Size() int {
	if f < 0 || int(f) >= FormatN {
		return 0
	}
	return formatSize[f]
}

// PixelSize returns the size in bytes of a single texel
// of format f, as stored in memory.
// Unlike Size, it is defined for depth/stencil formats.
// Packed depth/stencil formats whose components do not
// fill a power of two are rounded up.
func (f Format) PixelSize() int {
	switch f {
	case D16un:
		return 2
	case X8D24un, D32f, D16unS8ui, D24unS8ui:
		return 4
	case S8ui:
		return 1
	case D32fS8ui:
		return 8
	}
	return f.Size()
}

// Channels returns the number of color channels of f.
// It returns 0 for depth/stencil formats.
func (f Format) Channels() int {
	switch {
	case f >= R8un && f <= R32f:
		return 1
	case f >= RG8un && f <= RG32f:
		return 2
	case f >= RGB8un && f <= RGB32f:
		return 3
	case f >= BGRA8un && f <= RGBA32f:
		return 4
	}
	return 0
}

// IsDepthStencil returns whether f is a depth and/or
// stencil format.
func (f Format) IsDepthStencil() bool { return f >= D16un && f <= D32fS8ui }

// HasDepth returns whether f has a depth component.
func (f Format) HasDepth() bool { return f.IsDepthStencil() && f != S8ui }

// HasStencil returns whether f has a stencil component.
func (f Format) HasStencil() bool {
	switch f {
	case S8ui, D16unS8ui, D24unS8ui, D32fS8ui:
		return true
	}
	return false
}

var formatNames = [FormatN]string{
	"FUndefined",
	"R8un", "R16un", "R16f", "R32ui", "R32f",
	"RG8un", "RG16un", "RG16f", "RG32ui", "RG32f",
	"RGB8un", "RGB16un", "RGB16f", "RGB32ui", "RGB32f",
	"BGRA8un", "RGBA8un", "RGBA16un", "RGBA16f", "RGBA32ui", "RGBA32f",
	"D16un", "X8D24un", "D32f", "S8ui", "D16unS8ui", "D24unS8ui", "D32fS8ui",
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if f < 0 || int(f) >= FormatN {
		return "Format(?)"
	}
	return formatNames[f]
}

// ErrFormat means that a string does not name a Format.
var ErrFormat = errors.New("driver: unknown format")

// ParseFormat returns the Format whose name is s.
// Names are matched case-insensitively and may omit the
// leading "F" of FUndefined.
func ParseFormat(s string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(s, n) {
			return Format(i), nil
		}
	}
	if strings.EqualFold(s, "undefined") || s == "" {
		return FUndefined, nil
	}
	return FUndefined, fmt.Errorf("%w: %q", ErrFormat, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if f < 0 || int(f) >= FormatN {
		return nil, ErrFormat
	}
	return []byte(formatNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
