// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "math/bits"

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// BufferUsage is the type of buffer usages.
type BufferUsage int

// Buffer usages.
const (
	UVertexBuffer BufferUsage = iota
	UIndexBuffer
	UUniformBuffer

	// Number of buffer usages.
	BufferUsageN int = iota
)

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed. When a larger buffer
// is necessary, a new one must be created and the data
// must be copied explicitly.
type Buffer interface {
	Destroyer

	// Usage returns the usage the buffer was created
	// with.
	Usage() BufferUsage

	// Size returns the size of the buffer in bytes.
	// For uniform buffers, this is the requested size
	// rounded up to UniformAlign.
	Size() int64

	// Stride returns the size in bytes of each element,
	// or 0 if not applicable.
	// For index buffers, it must be either 2 or 4.
	Stride() int

	// Visible returns whether the buffer is host visible.
	// Non-visible memory cannot be accessed by the CPU.
	Visible() bool

	// Bytes returns a slice of length Size referring to
	// the underlying data. If the buffer is not host
	// visible, it returns nil instead.
	// The slice is valid for the lifetime of the buffer
	// and writes through it need no map/unmap calls.
	Bytes() []byte
}

// UniformAlign is the alignment of uniform buffer sizes.
// It satisfies the strictest constant-buffer alignment
// among the supported backends.
const UniformAlign = 256

// AlignUniform rounds size up to a multiple of
// UniformAlign.
func AlignUniform(size int64) int64 {
	return (size + UniformAlign - 1) &^ (UniformAlign - 1)
}

// TextureType is the type of texture dimensionality.
type TextureType int

// Texture types.
const (
	Tex1D TextureType = iota
	Tex2D
	Tex3D
	TexCube

	// Number of texture types.
	TextureTypeN int = iota
)

// TextureUsage is a mask indicating valid uses for a
// texture.
// A single bit of this mask also identifies the state
// a texture is in at a given point of execution (its
// layout or resource state in native terms).
type TextureUsage int

// Texture usage flags.
const (
	UTransferSrc TextureUsage = 1 << iota
	UTransferDst
	USampled
	UStorage
	UColorAttachment
	UDepthStencilAttachment
	UResolveSrc
	UResolveDst
	UPresent

	// UUndefined is not a usage. As a state, it means
	// that the contents of the texture are undefined.
	UUndefined TextureUsage = 0
)

// Number of texture usage bits.
const TextureUsageN = 9

// usagePriority is the order in which usage bits are
// considered when choosing a texture's initial state.
var usagePriority = [TextureUsageN]TextureUsage{
	UPresent,
	UColorAttachment,
	UDepthStencilAttachment,
	USampled,
	UStorage,
	UTransferDst,
	UTransferSrc,
	UResolveDst,
	UResolveSrc,
}

// Initial returns the state in which a texture created
// with usage u is placed after creation.
// Presentable textures start in UPresent, attachments in
// their attachment state, and other textures in the
// highest-priority state among their usage bits.
// It returns UUndefined if u is UUndefined.
func (u TextureUsage) Initial() TextureUsage {
	for _, x := range usagePriority {
		if u&x != 0 {
			return x
		}
	}
	return UUndefined
}

// Index returns the bit index of a single-bit usage u,
// suitable for indexing per-usage tables.
// It returns -1 if u is not a single bit.
func (u TextureUsage) Index() int {
	if u <= 0 || u&(u-1) != 0 {
		return -1
	}
	return bits.TrailingZeros(uint(u))
}

// TextureDesc describes a texture.
type TextureDesc struct {
	Type   TextureType
	Width  int
	Height int
	// Depth is the depth of 3D textures. It must be 1
	// for every other type.
	Depth int
	// MipLevels is the number of mip levels. If it is
	// not in the range [1, MaxMipLevels], it is computed
	// by ComputeMipLevels.
	MipLevels   int
	Format      Format
	Usage       TextureUsage
	SampleCount int
	HostVisible bool
}

// Layers returns the number of array layers of a texture
// described by d.
func (d *TextureDesc) Layers() int {
	if d.Type == TexCube {
		return 6
	}
	return 1
}

// Texture is the interface that defines a GPU texture.
type Texture interface {
	Destroyer

	// Desc returns the description of the texture.
	// MipLevels is the resolved mip count.
	Desc() TextureDesc

	// HostOwned returns whether the texture owns its
	// native resource. Textures that wrap swapchain
	// images return false, and their Destroy method
	// does not free the underlying resource.
	HostOwned() bool
}

// MaxMipLevels is the maximum number of mip levels in a
// texture.
const MaxMipLevels = 16

// ComputeMipLevels returns the length of the full mip
// chain of a texture with the given dimensions, that is,
// floor(log2(max(width, height))) + 1.
// It never returns more than MaxMipLevels nor less
// than 1.
func ComputeMipLevels(width, height int) int {
	n := bits.Len(uint(max(width, height, 1)))
	return min(n, MaxMipLevels)
}

// ResolveMipLevels returns levels if it is in the range
// [1, MaxMipLevels], or ComputeMipLevels(width, height)
// otherwise.
func ResolveMipLevels(levels, width, height int) int {
	if levels >= 1 && levels <= MaxMipLevels {
		return levels
	}
	return ComputeMipLevels(width, height)
}

// MipCount returns the number of mip levels of a texture
// described by d. It resolves d.MipLevels and limits the
// result to the full chain of a Width x Height image, so
// Depth never lengthens the chain.
// Multisample textures have a single level.
func (d *TextureDesc) MipCount() int {
	if d.SampleCount > 1 {
		return 1
	}
	return min(ResolveMipLevels(d.MipLevels, d.Width, d.Height), ComputeMipLevels(d.Width, d.Height))
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear

	// Number of filters.
	FilterN int = iota
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
	ABorder
	AMirrorOnce

	// Number of address modes.
	AddrModeN int = iota
)

// BorderColor is the type of sampler border colors,
// used with ABorder.
type BorderColor int

// Border colors.
const (
	BorderBlackTransparent BorderColor = iota
	BorderBlackOpaque
	BorderWhiteOpaque

	// Number of border colors.
	BorderColorN int = iota
)

// SamplerDesc describes texture sampler state.
type SamplerDesc struct {
	Min    Filter
	Mag    Filter
	Mipmap Filter
	AddrU  AddrMode
	AddrV  AddrMode
	AddrW  AddrMode
	// MaxAniso enables anisotropic filtering when
	// greater than 1.
	MaxAniso int
	// Compare enables depth comparison with Cmp.
	Compare bool
	Cmp     CmpFunc
	MinLOD  float32
	MaxLOD  float32
	Border  BorderColor
}

// DefaultSampler returns a sampler description with
// linear filtering, wrap addressing and an unbounded
// LOD range.
func DefaultSampler() SamplerDesc {
	return SamplerDesc{
		Min:    FLinear,
		Mag:    FLinear,
		Mipmap: FLinear,
		MaxLOD: MaxMipLevels,
	}
}

// Sampler is the interface that defines a texture
// sampler.
type Sampler interface {
	Destroyer

	// Desc returns the description of the sampler.
	Desc() SamplerDesc
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width of 1D textures.
	MaxTexture1D int
	// Maximum width and height of 2D textures.
	MaxTexture2D int
	// Maximum width and height of cube textures.
	MaxTextureCube int
	// Maximum width, height and depth of 3D textures.
	MaxTexture3D int
	// Maximum number of color attachments in a render
	// pass.
	MaxColorAttachments int
	// Maximum sample count of attachments.
	MaxSamples int
	// Maximum number of slots in a descriptor heap of
	// either class.
	MaxDescHeap int
	// Maximum anisotropy of samplers.
	MaxAnisotropy int
	// Maximum width/height of a render pass.
	MaxPassSize [2]int
}
