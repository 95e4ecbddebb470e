// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// ResourceDesc mirrors D3D12_RESOURCE_DESC.
type ResourceDesc struct {
	Dimension        ResourceDimension
	Alignment        uint64
	Width            uint64
	Height           uint32
	DepthOrArraySize uint16
	MipLevels        uint16
	Format           Format
	SampleCount      uint32
	SampleQuality    uint32
	Layout           TextureLayout
	Flags            ResourceFlags
}

// Resource describes a committed resource: its
// description, the heap it lives in and the state it is
// created in.
type Resource struct {
	Desc         ResourceDesc
	Heap         HeapType
	InitialState ResourceStates
}

// PlanBuffer plans the creation of a buffer.
// Visible buffers live in an upload heap, which requires
// the generic read state.
func PlanBuffer(usage driver.BufferUsage, size int64, visible bool) (Resource, error) {
	if size <= 0 {
		return Resource{}, fmt.Errorf("%w: buffer size %d", driver.ErrUnsupported, size)
	}
	if usage == driver.UUniformBuffer {
		size = driver.AlignUniform(size)
	}
	r := Resource{
		Desc: ResourceDesc{
			Dimension:        DimensionBuffer,
			Width:            uint64(size),
			Height:           1,
			DepthOrArraySize: 1,
			MipLevels:        1,
			Format:           FormatUnknown,
			SampleCount:      1,
			Layout:           LayoutRowMajor,
		},
		Heap:         HeapTypeDefault,
		InitialState: ConvBufferState(usage),
	}
	if visible {
		r.Heap = HeapTypeUpload
		r.InitialState = StateGenericRead
	}
	return r, nil
}

// PlanTexture plans the creation of a texture.
// Textures always live in the default heap; host-visible
// textures are written through a staging buffer.
func PlanTexture(desc *driver.TextureDesc) (Resource, error) {
	if !Supported(desc.Format) || desc.Format == driver.FUndefined {
		return Resource{}, fmt.Errorf("%w: format %v", driver.ErrUnsupported, desc.Format)
	}
	if desc.Width < 1 || desc.Height < 1 || desc.Depth < 1 {
		return Resource{}, fmt.Errorf("%w: texture size %dx%dx%d", driver.ErrUnsupported, desc.Width, desc.Height, desc.Depth)
	}
	samples := max(desc.SampleCount, 1)
	depth := desc.Layers()
	if desc.Type == driver.Tex3D {
		depth = desc.Depth
	}
	var flags ResourceFlags
	if desc.Usage&driver.UColorAttachment != 0 {
		flags |= ResourceFlagAllowRenderTarget
	}
	if desc.Usage&driver.UDepthStencilAttachment != 0 {
		flags |= ResourceFlagAllowDepthStencil
		if desc.Usage&driver.USampled == 0 {
			flags |= ResourceFlagDenyShaderResource
		}
	}
	if desc.Usage&driver.UStorage != 0 {
		flags |= ResourceFlagAllowUnorderedAccess
	}
	return Resource{
		Desc: ResourceDesc{
			Dimension:        ConvDimension(desc.Type),
			Width:            uint64(desc.Width),
			Height:           uint32(desc.Height),
			DepthOrArraySize: uint16(depth),
			MipLevels:        uint16(desc.MipCount()),
			Format:           ResourceFormat(desc.Format, desc.Usage),
			SampleCount:      uint32(samples),
			Layout:           LayoutUnknown,
			Flags:            flags,
		},
		Heap:         HeapTypeDefault,
		InitialState: ConvState(desc.Usage.Initial()),
	}, nil
}

// SamplerDesc mirrors D3D12_SAMPLER_DESC.
type SamplerDesc struct {
	Filter         Filter
	AddressU       TextureAddressMode
	AddressV       TextureAddressMode
	AddressW       TextureAddressMode
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc ComparisonFunc
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

// PlanSampler converts a driver.SamplerDesc.
func PlanSampler(desc *driver.SamplerDesc) SamplerDesc {
	s := SamplerDesc{
		Filter:         ConvFilter(desc),
		AddressU:       ConvAddrMode(desc.AddrU),
		AddressV:       ConvAddrMode(desc.AddrV),
		AddressW:       ConvAddrMode(desc.AddrW),
		MaxAnisotropy:  uint32(min(max(desc.MaxAniso, 1), 16)),
		ComparisonFunc: ComparisonNever,
		BorderColor:    ConvBorder(desc.Border),
		MinLOD:         desc.MinLOD,
		MaxLOD:         desc.MaxLOD,
	}
	if desc.Compare {
		s.ComparisonFunc = ConvCmpFunc(desc.Cmp)
	}
	return s
}

// DescriptorRange mirrors D3D12_DESCRIPTOR_RANGE.
type DescriptorRange struct {
	RangeType                         DescriptorRangeType
	NumDescriptors                    uint32
	BaseShaderRegister                uint32
	RegisterSpace                     uint32
	OffsetInDescriptorsFromTableStart uint32
}

// RootParameter mirrors a D3D12_ROOT_PARAMETER holding a
// descriptor table.
type RootParameter struct {
	Type             RootParameterType
	Ranges           []DescriptorRange
	ShaderVisibility ShaderVisibility
}

// RootSignatureDesc mirrors D3D12_ROOT_SIGNATURE_DESC.
type RootSignatureDesc struct {
	Parameters []RootParameter
	Flags      RootSignatureFlags
}

// PlanRootSignature derives the root signature of a
// descriptor set.
// Every descriptor gets its own descriptor table, so the
// root parameter index of a descriptor is its position
// in ds. The shader register of a descriptor is its
// binding, in the register class of its type.
func PlanRootSignature(ds []driver.Descriptor) RootSignatureDesc {
	rs := RootSignatureDesc{
		Parameters: make([]RootParameter, len(ds)),
		Flags:      RootSignatureFlagAllowInputAssembler,
	}
	var stages driver.ShaderStage
	for i := range ds {
		d := &ds[i]
		stages |= d.Stages
		rs.Parameters[i] = RootParameter{
			Type: RootParamDescriptorTable,
			Ranges: []DescriptorRange{{
				RangeType:          ConvRangeType(d.Type),
				NumDescriptors:     uint32(d.Count),
				BaseShaderRegister: uint32(d.Binding),
			}},
			ShaderVisibility: ConvVisibility(d.Stages),
		}
	}
	if stages&driver.STessCtrl == 0 {
		rs.Flags |= RootSignatureFlagDenyHullShaderRoot
	}
	if stages&driver.STessEval == 0 {
		rs.Flags |= RootSignatureFlagDenyDomainShaderRoot
	}
	if stages&driver.SGeometry == 0 {
		rs.Flags |= RootSignatureFlagDenyGeometryShaderRoot
	}
	return rs
}

// DescriptorHeapDesc mirrors D3D12_DESCRIPTOR_HEAP_DESC.
type DescriptorHeapDesc struct {
	Type           DescriptorHeapType
	NumDescriptors uint32
	Flags          DescriptorHeapFlags
}

// PlanDescriptorHeaps plans the shader-visible heaps of a
// descriptor set: one per non-empty heap class.
// It fails with driver.ErrDescHeap if a heap would exceed
// its maximum size.
func PlanDescriptorHeaps(hl *driver.HeapLayout) ([]DescriptorHeapDesc, error) {
	limits := [driver.HeapClassN]int{
		driver.HResource: MaxCBVSRVUAVHeapSize,
		driver.HSampler:  MaxSamplerHeapSize,
	}
	var heaps []DescriptorHeapDesc
	for c, n := range hl.Size {
		if n == 0 {
			continue
		}
		if n > limits[c] {
			return nil, fmt.Errorf("%w: %d descriptors in %v heap (max %d)", driver.ErrDescHeap, n, ConvHeapType(driver.HeapClass(c)), limits[c])
		}
		heaps = append(heaps, DescriptorHeapDesc{
			Type:           ConvHeapType(driver.HeapClass(c)),
			NumDescriptors: uint32(n),
			Flags:          HeapFlagShaderVisible,
		})
	}
	return heaps, nil
}

// TableBind is the binding of a descriptor table to a
// root parameter.
type TableBind struct {
	RootParameter uint32
	Heap          DescriptorHeapType
	// Offset is the index of the table's first
	// descriptor in the heap.
	Offset uint32
}

// Handle resolves the GPU descriptor handle of the table
// from the start of its heap and the heap's handle
// increment size.
func (b TableBind) Handle(heapStart uint64, increment uint32) uint64 {
	return heapStart + uint64(b.Offset)*uint64(increment)
}

// PlanTableBinds computes the descriptor table binds of a
// descriptor set, in root parameter order.
func PlanTableBinds(hl *driver.HeapLayout) []TableBind {
	binds := make([]TableBind, len(hl.Offset))
	for i := range binds {
		binds[i] = TableBind{
			RootParameter: uint32(i),
			Heap:          ConvHeapType(hl.Class[i]),
			Offset:        uint32(hl.Offset[i]),
		}
	}
	return binds
}

// InputElementDesc mirrors D3D12_INPUT_ELEMENT_DESC.
type InputElementDesc struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               Format
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       InputClassification
	InstanceDataStepRate uint32
}

// PlanInputLayout translates a vertex layout into input
// element descriptions.
// It fails with driver.ErrUnsupported if an attribute
// format has no DXGI equivalent.
func PlanInputLayout(l *driver.VertexLayout) ([]InputElementDesc, error) {
	elems := make([]InputElementDesc, l.Len())
	for i := range elems {
		a := l.Attr(i)
		f := ConvFormat(a.Format)
		if f == FormatUnknown {
			return nil, fmt.Errorf("%w: vertex format %v", driver.ErrUnsupported, a.Format)
		}
		sem := ConvSemantic(a.Semantic)
		elems[i] = InputElementDesc{
			SemanticName:      sem.Name,
			SemanticIndex:     sem.Index,
			Format:            f,
			InputSlot:         uint32(a.Binding),
			AlignedByteOffset: uint32(a.Offset),
			InputSlotClass:    InputPerVertexData,
		}
	}
	return elems, nil
}

// RenderTargets describes the views of a render pass:
// an RTV heap holding one view per color target and,
// if the pass has a depth/stencil attachment, a DSV heap
// holding its view.
type RenderTargets struct {
	RTVHeap     DescriptorHeapDesc
	DSVHeap     DescriptorHeapDesc
	RTVFormat   Format
	DSVFormat   Format
	Multisample bool
}

// PlanRenderTargets plans the view heaps of a render pass.
func PlanRenderTargets(desc *driver.RenderPassDesc) (RenderTargets, error) {
	if err := desc.Validate(); err != nil {
		return RenderTargets{}, err
	}
	n := len(desc.Targets())
	if n > SimultaneousRenderTargetCount {
		return RenderTargets{}, fmt.Errorf("%w: %d render targets", driver.ErrRenderPass, n)
	}
	rt := RenderTargets{
		RTVHeap:     DescriptorHeapDesc{Type: HeapRTV, NumDescriptors: uint32(n)},
		DSVHeap:     DescriptorHeapDesc{Type: HeapDSV},
		Multisample: desc.Multisampled(),
	}
	if n > 0 {
		if rt.RTVFormat = ConvFormat(desc.ColorFormat); rt.RTVFormat == FormatUnknown {
			return RenderTargets{}, fmt.Errorf("%w: color format %v", driver.ErrUnsupported, desc.ColorFormat)
		}
	}
	if desc.DepthStencilAttachment != nil {
		rt.DSVHeap.NumDescriptors = 1
		rt.DSVFormat = ConvFormat(desc.DepthStencilFormat)
	}
	return rt, nil
}

// Barrier mirrors a transition D3D12_RESOURCE_BARRIER.
type Barrier struct {
	Type        BarrierType
	Resource    driver.Texture
	Subresource uint32
	StateBefore ResourceStates
	StateAfter  ResourceStates
}

// PlanTransition plans the barrier that moves tex from
// one texture state to another.
// It returns false if both states map to the same
// resource state, in which case no barrier is needed.
func PlanTransition(tex driver.Texture, from, to driver.TextureUsage) (Barrier, bool) {
	before, after := ConvState(from), ConvState(to)
	if before == after {
		return Barrier{}, false
	}
	return Barrier{
		Type:        BarrierTransition,
		Resource:    tex,
		Subresource: AllSubresources,
		StateBefore: before,
		StateAfter:  after,
	}, true
}
