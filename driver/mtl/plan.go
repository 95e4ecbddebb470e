// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mtl

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// Options returns the resource options that select
// storage mode m.
func (m StorageMode) Options() ResourceOptions {
	return ResourceOptions(m) << resourceStorageModeShift
}

// BufferDesc holds the arguments of
// newBufferWithLength:options:.
type BufferDesc struct {
	Length  uint64
	Options ResourceOptions
}

// PlanBuffer plans the creation of a buffer.
// Visible buffers are shared with the CPU and write
// combined; other buffers are private to the GPU.
func PlanBuffer(usage driver.BufferUsage, size int64, visible bool) (BufferDesc, error) {
	if size <= 0 {
		return BufferDesc{}, fmt.Errorf("%w: buffer size %d", driver.ErrUnsupported, size)
	}
	if usage == driver.UUniformBuffer {
		size = driver.AlignUniform(size)
	}
	b := BufferDesc{Length: uint64(size), Options: StorageModePrivate.Options()}
	if visible {
		b.Options = StorageModeShared.Options() | ResourceCPUCacheModeWriteCombined
	}
	return b, nil
}

// TextureDescriptor mirrors MTLTextureDescriptor.
type TextureDescriptor struct {
	TextureType      TextureType
	PixelFormat      PixelFormat
	Width            uint
	Height           uint
	Depth            uint
	MipmapLevelCount uint
	SampleCount      uint
	ArrayLength      uint
	StorageMode      StorageMode
	Usage            TextureUsage
}

// PlanTexture plans the creation of a texture.
// Multisample textures have a single mip level.
// Depth/stencil textures are always private, even if
// host visible, since they cannot be shared.
func PlanTexture(desc *driver.TextureDesc) (TextureDescriptor, error) {
	pf := ConvPixelFormat(desc.Format)
	if pf == PixelFormatInvalid {
		return TextureDescriptor{}, fmt.Errorf("%w: format %v", driver.ErrUnsupported, desc.Format)
	}
	if desc.Width < 1 || desc.Height < 1 || desc.Depth < 1 {
		return TextureDescriptor{}, fmt.Errorf("%w: texture size %dx%dx%d", driver.ErrUnsupported, desc.Width, desc.Height, desc.Depth)
	}
	samples := max(desc.SampleCount, 1)
	td := TextureDescriptor{
		TextureType:      ConvTextureType(desc.Type, samples),
		PixelFormat:      pf,
		Width:            uint(desc.Width),
		Height:           uint(desc.Height),
		Depth:            1,
		MipmapLevelCount: uint(desc.MipCount()),
		SampleCount:      uint(samples),
		ArrayLength:      1,
		StorageMode:      StorageModePrivate,
		Usage:            ConvTextureUsage(desc.Usage),
	}
	if desc.Type == driver.Tex3D {
		td.Depth = uint(desc.Depth)
	}
	if desc.HostVisible && !desc.Format.IsDepthStencil() && samples == 1 {
		td.StorageMode = StorageModeShared
	}
	return td, nil
}

// SamplerDescriptor mirrors MTLSamplerDescriptor.
type SamplerDescriptor struct {
	MinFilter              SamplerMinMagFilter
	MagFilter              SamplerMinMagFilter
	MipFilter              SamplerMipFilter
	MaxAnisotropy          uint
	SAddressMode           SamplerAddressMode
	TAddressMode           SamplerAddressMode
	RAddressMode           SamplerAddressMode
	BorderColor            SamplerBorderColor
	LodMinClamp            float32
	LodMaxClamp            float32
	CompareFunction        CompareFunction
	SupportArgumentBuffers bool
}

// PlanSampler converts a driver.SamplerDesc.
// Samplers are encoded in argument buffers, so they
// must support them.
func PlanSampler(desc *driver.SamplerDesc) SamplerDescriptor {
	s := SamplerDescriptor{
		MinFilter:              ConvFilter(desc.Min),
		MagFilter:              ConvFilter(desc.Mag),
		MipFilter:              ConvMipFilter(desc.Mipmap),
		MaxAnisotropy:          uint(min(max(desc.MaxAniso, 1), 16)),
		SAddressMode:           ConvAddrMode(desc.AddrU),
		TAddressMode:           ConvAddrMode(desc.AddrV),
		RAddressMode:           ConvAddrMode(desc.AddrW),
		BorderColor:            ConvBorder(desc.Border),
		LodMinClamp:            desc.MinLOD,
		LodMaxClamp:            desc.MaxLOD,
		CompareFunction:        CompareFunctionNever,
		SupportArgumentBuffers: true,
	}
	if desc.Compare {
		s.CompareFunction = ConvCmpFunc(desc.Cmp)
	}
	return s
}

// Limits of tier 2 argument buffers.
const (
	MaxArgumentBufferResources = 500000
	MaxArgumentBufferSamplers  = 2048
)

// ArgumentDescriptor mirrors MTLArgumentDescriptor.
type ArgumentDescriptor struct {
	DataType    DataType
	Index       uint
	ArrayLength uint
	Access      BindingAccess
	// Binding is the binding of the descriptor that the
	// argument encodes.
	Binding int
}

// ArgumentBuffer describes the argument buffer of one
// heap class: the buffer index it is bound to and the
// arguments it encodes.
type ArgumentBuffer struct {
	Class       driver.HeapClass
	BufferIndex uint
	Stages      RenderStages
	Arguments   []ArgumentDescriptor
}

// ArgumentBufferIndex returns the buffer index to which
// the argument buffer of class c is bound.
// Argument buffers take the lowest buffer indices.
func ArgumentBufferIndex(c driver.HeapClass) uint { return uint(c) }

// VertexBufferIndex returns the buffer index of vertex
// buffer binding b, or -1 if b cannot be mapped.
// Vertex buffers are bound from the highest buffer index
// down, so they never collide with argument buffers.
func VertexBufferIndex(b int) int {
	if b < 0 || b >= MaxBufferArguments-driver.HeapClassN {
		return -1
	}
	return MaxBufferArguments - 1 - b
}

// PlanArgumentBuffers plans the argument buffers of a
// descriptor set.
// There is one argument buffer per non-empty heap class.
// The argument index of a descriptor is its offset in the
// heap layout, so arrays occupy consecutive indices.
// It fails with driver.ErrDescHeap if an argument buffer
// would exceed its limit.
func PlanArgumentBuffers(ds []driver.Descriptor, hl *driver.HeapLayout) ([]ArgumentBuffer, error) {
	limits := [driver.HeapClassN]int{
		driver.HResource: MaxArgumentBufferResources,
		driver.HSampler:  MaxArgumentBufferSamplers,
	}
	var bufs [driver.HeapClassN]*ArgumentBuffer
	for c, n := range hl.Size {
		if n == 0 {
			continue
		}
		if n > limits[c] {
			return nil, fmt.Errorf("%w: %d arguments in class %d argument buffer (max %d)", driver.ErrDescHeap, n, c, limits[c])
		}
		bufs[c] = &ArgumentBuffer{
			Class:       driver.HeapClass(c),
			BufferIndex: ArgumentBufferIndex(driver.HeapClass(c)),
		}
	}
	for i := range ds {
		ab := bufs[hl.Class[i]]
		ab.Stages |= ConvStages(ds[i].Stages)
		ab.Arguments = append(ab.Arguments, ArgumentDescriptor{
			DataType:    ConvDataType(ds[i].Type),
			Index:       uint(hl.Offset[i]),
			ArrayLength: uint(ds[i].Count),
			Access:      BindingAccessReadOnly,
			Binding:     ds[i].Binding,
		})
	}
	var abs []ArgumentBuffer
	for _, ab := range bufs {
		if ab != nil {
			abs = append(abs, *ab)
		}
	}
	return abs, nil
}

// Attachment mirrors MTLRenderPassAttachmentDescriptor
// and its color, depth and stencil subclasses.
type Attachment struct {
	Texture        driver.Texture
	ResolveTexture driver.Texture
	LoadAction     LoadAction
	StoreAction    StoreAction
	ClearColor     [4]float64
	ClearDepth     float64
	ClearStencil   uint32
}

// RenderPassDescriptor mirrors MTLRenderPassDescriptor.
// DepthAttachment and StencilAttachment are nil if the
// pass has no such aspect.
type RenderPassDescriptor struct {
	ColorAttachments   []Attachment
	DepthAttachment    *Attachment
	StencilAttachment  *Attachment
	RenderTargetWidth  uint
	RenderTargetHeight uint
}

// PlanRenderPass plans the descriptor of a render pass.
// Every attachment is loaded and stored. Clears change
// the load action of the descriptor when the encoder is
// created. Multisample resolves are recorded as separate
// resolve passes.
func PlanRenderPass(desc *driver.RenderPassDesc) (RenderPassDescriptor, error) {
	if err := desc.Validate(); err != nil {
		return RenderPassDescriptor{}, err
	}
	targets := desc.Targets()
	if len(targets) > MaxColorAttachments {
		return RenderPassDescriptor{}, fmt.Errorf("%w: %d color attachments", driver.ErrRenderPass, len(targets))
	}
	if len(targets) > 0 && ConvPixelFormat(desc.ColorFormat) == PixelFormatInvalid {
		return RenderPassDescriptor{}, fmt.Errorf("%w: color format %v", driver.ErrUnsupported, desc.ColorFormat)
	}
	rp := RenderPassDescriptor{
		ColorAttachments:   make([]Attachment, len(targets)),
		RenderTargetWidth:  uint(desc.Width),
		RenderTargetHeight: uint(desc.Height),
	}
	for i, t := range targets {
		rp.ColorAttachments[i] = Attachment{
			Texture:     t,
			LoadAction:  LoadActionLoad,
			StoreAction: StoreActionStore,
		}
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		f := desc.DepthStencilFormat
		if f.HasDepth() {
			rp.DepthAttachment = &Attachment{Texture: ds, LoadAction: LoadActionLoad, StoreAction: StoreActionStore, ClearDepth: 1}
		}
		if f.HasStencil() {
			rp.StencilAttachment = &Attachment{Texture: ds, LoadAction: LoadActionLoad, StoreAction: StoreActionStore}
		}
	}
	return rp, nil
}

// Clone returns a deep copy of rp.
func (rp *RenderPassDescriptor) Clone() RenderPassDescriptor {
	c := *rp
	c.ColorAttachments = append([]Attachment(nil), rp.ColorAttachments...)
	if rp.DepthAttachment != nil {
		d := *rp.DepthAttachment
		c.DepthAttachment = &d
	}
	if rp.StencilAttachment != nil {
		s := *rp.StencilAttachment
		c.StencilAttachment = &s
	}
	return c
}

// PlanResolvePass plans a pass that resolves the
// multisample texture src into dst.
// The pass draws nothing; its store action resolves.
func PlanResolvePass(src, dst driver.Texture) RenderPassDescriptor {
	sd := src.Desc()
	return RenderPassDescriptor{
		ColorAttachments: []Attachment{{
			Texture:        src,
			ResolveTexture: dst,
			LoadAction:     LoadActionLoad,
			StoreAction:    StoreActionMultisampleResolve,
		}},
		RenderTargetWidth:  uint(sd.Width),
		RenderTargetHeight: uint(sd.Height),
	}
}
