// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"

	"gviegas/gp3d/driver"
)

// chanKind identifies how the channels of a color
// format are encoded.
type chanKind int

const (
	kUnorm8 chanKind = iota
	kUnorm16
	kFloat16
	kFloat32
	kUint32
)

// colorKind returns the channel encoding of a color
// format.
func colorKind(f driver.Format) chanKind {
	switch f {
	case driver.R8un, driver.RG8un, driver.RGB8un, driver.BGRA8un, driver.RGBA8un:
		return kUnorm8
	case driver.R16un, driver.RG16un, driver.RGB16un, driver.RGBA16un:
		return kUnorm16
	case driver.R16f, driver.RG16f, driver.RGB16f, driver.RGBA16f:
		return kFloat16
	case driver.R32ui, driver.RG32ui, driver.RGB32ui, driver.RGBA32ui:
		return kUint32
	}
	return kFloat32
}

// saturate clamps x to [0, 1].
func saturate(x float32) float32 {
	if math32.IsNaN(x) {
		return 0
	}
	return math32.Min(math32.Max(x, 0), 1)
}

// unorm converts x to a normalized integer with the
// given maximum value.
func unorm(x float32, maxv uint32) uint32 {
	return uint32(math.Floor(float64(saturate(x))*float64(maxv) + 0.5))
}

// half converts x to IEEE 754 binary16, rounding toward
// zero and flushing subnormals.
func half(x float32) uint16 {
	b := math32.Float32bits(x)
	sign := uint16(b >> 16 & 0x8000)
	exp := int(b>>23&0xff) - 127 + 15
	mant := b & 0x7fffff
	switch {
	case b&0x7fffffff == 0:
		return sign
	case b>>23&0xff == 0xff:
		if mant != 0 {
			return sign | 0x7e00
		}
		return sign | 0x7c00
	case exp >= 0x1f:
		return sign | 0x7c00
	case exp <= 0:
		return sign
	}
	return sign | uint16(exp)<<10 | uint16(mant>>13)
}

// unhalf converts an IEEE 754 binary16 to float32.
func unhalf(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h >> 10 & 0x1f)
	mant := uint32(h & 0x3ff)
	switch exp {
	case 0:
		// Subnormals are flushed.
		return math32.Float32frombits(sign)
	case 0x1f:
		return math32.Float32frombits(sign | 0x7f800000 | mant<<13)
	}
	return math32.Float32frombits(sign | (exp-15+127)<<23 | mant<<13)
}

// packColor encodes c as a single texel of format f.
func packColor(f driver.Format, c [4]float32) []byte {
	n := f.Channels()
	if f == driver.BGRA8un {
		c[0], c[2] = c[2], c[0]
	}
	p := make([]byte, f.PixelSize())
	le := binary.LittleEndian
	for i := range n {
		switch colorKind(f) {
		case kUnorm8:
			p[i] = byte(unorm(c[i], 0xff))
		case kUnorm16:
			le.PutUint16(p[i*2:], uint16(unorm(c[i], 0xffff)))
		case kFloat16:
			le.PutUint16(p[i*2:], half(c[i]))
		case kFloat32:
			le.PutUint32(p[i*4:], math32.Float32bits(c[i]))
		case kUint32:
			le.PutUint32(p[i*4:], uint32(math32.Max(c[i], 0)))
		}
	}
	return p
}

// packDepthStencil encodes a depth/stencil value as a
// single texel of format f.
func packDepthStencil(f driver.Format, depth float32, stencil uint32) []byte {
	p := make([]byte, f.PixelSize())
	le := binary.LittleEndian
	s := byte(stencil)
	switch f {
	case driver.D16un:
		le.PutUint16(p, uint16(unorm(depth, 0xffff)))
	case driver.X8D24un:
		le.PutUint32(p, unorm(depth, 0xffffff))
	case driver.D32f:
		le.PutUint32(p, math32.Float32bits(depth))
	case driver.S8ui:
		p[0] = s
	case driver.D16unS8ui:
		le.PutUint16(p, uint16(unorm(depth, 0xffff)))
		p[2] = s
	case driver.D24unS8ui:
		le.PutUint32(p, unorm(depth, 0xffffff)|uint32(s)<<24)
	case driver.D32fS8ui:
		le.PutUint32(p, math32.Float32bits(depth))
		p[4] = s
	}
	return p
}

// fill replicates the texel px over dst.
func fill(dst, px []byte) {
	if len(px) == 0 {
		return
	}
	n := copy(dst, px)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}

// resolve averages the samples of each texel of src
// into dst.
// Unsigned integer formats take the first sample, and
// so do depth/stencil formats.
func resolve(f driver.Format, dst, src []byte, samples int) {
	px := f.PixelSize()
	if px == 0 || samples < 1 {
		return
	}
	npx := min(len(dst)/px, len(src)/(px*samples))
	le := binary.LittleEndian
	kind := colorKind(f)
	for i := range npx {
		s := src[i*px*samples : (i+1)*px*samples]
		d := dst[i*px : (i+1)*px]
		if f.IsDepthStencil() || kind == kUint32 {
			copy(d, s[:px])
			continue
		}
		for c := range f.Channels() {
			var sum float32
			for k := range samples {
				t := s[k*px:]
				switch kind {
				case kUnorm8:
					sum += float32(t[c])
				case kUnorm16:
					sum += float32(le.Uint16(t[c*2:]))
				case kFloat16:
					sum += unhalf(le.Uint16(t[c*2:]))
				case kFloat32:
					sum += math32.Float32frombits(le.Uint32(t[c*4:]))
				}
			}
			avg := sum / float32(samples)
			switch kind {
			case kUnorm8:
				d[c] = byte(math32.Floor(avg + 0.5))
			case kUnorm16:
				le.PutUint16(d[c*2:], uint16(math32.Floor(avg+0.5)))
			case kFloat16:
				le.PutUint16(d[c*2:], half(avg))
			case kFloat32:
				le.PutUint32(d[c*4:], math32.Float32bits(avg))
			}
		}
	}
}
