// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package d3d12 translates driver descriptions into
// Direct3D 12 terms.
//
// It provides the positional tables that map driver
// enumerators to their D3D12/DXGI counterparts and the
// planners that turn driver descriptions into the
// structures a D3D12 device consumes: resource and heap
// descriptions, root signatures, input layouts, pipeline
// state descriptions, render target heaps, barriers and
// descriptor table binds.
// The values of the native enumerators match those of
// the D3D12 headers.
package d3d12

// Format is a DXGI_FORMAT value.
type Format uint32

// DXGI formats.
const (
	FormatUnknown               Format = 0
	FormatR32G32B32A32Float     Format = 2
	FormatR32G32B32A32Uint      Format = 3
	FormatR32G32B32Float        Format = 6
	FormatR32G32B32Uint         Format = 7
	FormatR16G16B16A16Float     Format = 10
	FormatR16G16B16A16Unorm     Format = 11
	FormatR32G32Float           Format = 16
	FormatR32G32Uint            Format = 17
	FormatR32G8X24Typeless      Format = 19
	FormatD32FloatS8X24Uint     Format = 20
	FormatR32FloatX8X24Typeless Format = 21
	FormatR8G8B8A8Unorm         Format = 28
	FormatR16G16Float           Format = 34
	FormatR16G16Unorm           Format = 35
	FormatR32Typeless           Format = 39
	FormatD32Float              Format = 40
	FormatR32Float              Format = 41
	FormatR32Uint               Format = 42
	FormatR24G8Typeless         Format = 44
	FormatD24UnormS8Uint        Format = 45
	FormatR24UnormX8Typeless    Format = 46
	FormatR8G8Unorm             Format = 49
	FormatR16Typeless           Format = 53
	FormatR16Float              Format = 54
	FormatR16Uint               Format = 57
	FormatD16Unorm              Format = 55
	FormatR16Unorm              Format = 56
	FormatR8Unorm               Format = 61
	FormatB8G8R8A8Unorm         Format = 87
)

// InputClassification is a D3D12_INPUT_CLASSIFICATION
// value.
type InputClassification uint32

// Input classifications.
const (
	InputPerVertexData   InputClassification = 0
	InputPerInstanceData InputClassification = 1
)

// Blend is a D3D12_BLEND value.
type Blend uint32

// Blend factors.
const (
	BlendZero           Blend = 1
	BlendOne            Blend = 2
	BlendSrcColor       Blend = 3
	BlendInvSrcColor    Blend = 4
	BlendSrcAlpha       Blend = 5
	BlendInvSrcAlpha    Blend = 6
	BlendDestAlpha      Blend = 7
	BlendInvDestAlpha   Blend = 8
	BlendDestColor      Blend = 9
	BlendInvDestColor   Blend = 10
	BlendSrcAlphaSat    Blend = 11
	BlendBlendFactor    Blend = 14
	BlendInvBlendFactor Blend = 15
	BlendSrc1Color      Blend = 16
	BlendInvSrc1Color   Blend = 17
	BlendSrc1Alpha      Blend = 18
	BlendInvSrc1Alpha   Blend = 19
	BlendAlphaFactor    Blend = 20
	BlendInvAlphaFactor Blend = 21
)

// BlendOp is a D3D12_BLEND_OP value.
type BlendOp uint32

// Blend operations.
const (
	BlendOpAdd         BlendOp = 1
	BlendOpSubtract    BlendOp = 2
	BlendOpRevSubtract BlendOp = 3
	BlendOpMin         BlendOp = 4
	BlendOpMax         BlendOp = 5
)

// ColorWriteEnable is a D3D12_COLOR_WRITE_ENABLE mask.
type ColorWriteEnable uint8

// Color write masks.
const (
	ColorWriteRed   ColorWriteEnable = 1
	ColorWriteGreen ColorWriteEnable = 2
	ColorWriteBlue  ColorWriteEnable = 4
	ColorWriteAlpha ColorWriteEnable = 8
	ColorWriteAll   ColorWriteEnable = 15
)

// FillMode is a D3D12_FILL_MODE value.
type FillMode uint32

// Fill modes.
const (
	FillWireframe FillMode = 2
	FillSolid     FillMode = 3
)

// CullMode is a D3D12_CULL_MODE value.
type CullMode uint32

// Cull modes.
const (
	CullNone  CullMode = 1
	CullFront CullMode = 2
	CullBack  CullMode = 3
)

// ComparisonFunc is a D3D12_COMPARISON_FUNC value.
type ComparisonFunc uint32

// Comparison functions.
const (
	ComparisonNever        ComparisonFunc = 1
	ComparisonLess         ComparisonFunc = 2
	ComparisonEqual        ComparisonFunc = 3
	ComparisonLessEqual    ComparisonFunc = 4
	ComparisonGreater      ComparisonFunc = 5
	ComparisonNotEqual     ComparisonFunc = 6
	ComparisonGreaterEqual ComparisonFunc = 7
	ComparisonAlways       ComparisonFunc = 8
)

// StencilOp is a D3D12_STENCIL_OP value.
type StencilOp uint32

// Stencil operations.
const (
	StencilOpKeep    StencilOp = 1
	StencilOpZero    StencilOp = 2
	StencilOpReplace StencilOp = 3
	StencilOpIncrSat StencilOp = 4
	StencilOpDecrSat StencilOp = 5
	StencilOpInvert  StencilOp = 6
	StencilOpIncr    StencilOp = 7
	StencilOpDecr    StencilOp = 8
)

// DepthWriteMask is a D3D12_DEPTH_WRITE_MASK value.
type DepthWriteMask uint32

// Depth write masks.
const (
	DepthWriteMaskZero DepthWriteMask = 0
	DepthWriteMaskAll  DepthWriteMask = 1
)

// PrimitiveTopology is a D3D_PRIMITIVE_TOPOLOGY value.
type PrimitiveTopology uint32

// Primitive topologies.
const (
	TopologyUndefined     PrimitiveTopology = 0
	TopologyPointList     PrimitiveTopology = 1
	TopologyLineList      PrimitiveTopology = 2
	TopologyLineStrip     PrimitiveTopology = 3
	TopologyTriangleList  PrimitiveTopology = 4
	TopologyTriangleStrip PrimitiveTopology = 5
	// Patch lists with n control points are
	// TopologyPatchList1 + n - 1.
	TopologyPatchList1 PrimitiveTopology = 33
)

// PrimitiveTopologyType is a
// D3D12_PRIMITIVE_TOPOLOGY_TYPE value.
type PrimitiveTopologyType uint32

// Primitive topology types.
const (
	TopologyTypeUndefined PrimitiveTopologyType = 0
	TopologyTypePoint     PrimitiveTopologyType = 1
	TopologyTypeLine      PrimitiveTopologyType = 2
	TopologyTypeTriangle  PrimitiveTopologyType = 3
	TopologyTypePatch     PrimitiveTopologyType = 4
)

// Filter is a D3D12_FILTER value.
type Filter uint32

// Filter types and reductions used to encode a Filter.
const (
	filterTypePoint  = 0
	filterTypeLinear = 1

	reductionStandard   = 0
	reductionComparison = 1

	// FilterAnisotropic and FilterComparisonAnisotropic
	// are the anisotropic filters.
	FilterAnisotropic           Filter = 0x55
	FilterComparisonAnisotropic Filter = 0xd5
)

// encodeFilter is D3D12_ENCODE_BASIC_FILTER.
func encodeFilter(min, mag, mip, reduction uint32) Filter {
	return Filter((min&3)<<4 | (mag&3)<<2 | mip&3 | (reduction&3)<<7)
}

// TextureAddressMode is a D3D12_TEXTURE_ADDRESS_MODE
// value.
type TextureAddressMode uint32

// Address modes.
const (
	AddressWrap       TextureAddressMode = 1
	AddressMirror     TextureAddressMode = 2
	AddressClamp      TextureAddressMode = 3
	AddressBorder     TextureAddressMode = 4
	AddressMirrorOnce TextureAddressMode = 5
)

// ResourceStates is a D3D12_RESOURCE_STATES mask.
type ResourceStates uint32

// Resource states.
const (
	StateCommon                  ResourceStates = 0
	StateVertexAndConstantBuffer ResourceStates = 0x1
	StateIndexBuffer             ResourceStates = 0x2
	StateRenderTarget            ResourceStates = 0x4
	StateUnorderedAccess         ResourceStates = 0x8
	StateDepthWrite              ResourceStates = 0x10
	StateDepthRead               ResourceStates = 0x20
	StateNonPixelShaderResource  ResourceStates = 0x40
	StatePixelShaderResource     ResourceStates = 0x80
	StateCopyDest                ResourceStates = 0x400
	StateCopySource              ResourceStates = 0x800
	StateResolveDest             ResourceStates = 0x1000
	StateResolveSource           ResourceStates = 0x2000
	StateGenericRead             ResourceStates = 0xac3
	StatePresent                 ResourceStates = 0
	StateAllShaderResource       ResourceStates = StateNonPixelShaderResource | StatePixelShaderResource
)

// ResourceDimension is a D3D12_RESOURCE_DIMENSION value.
type ResourceDimension uint32

// Resource dimensions.
const (
	DimensionUnknown   ResourceDimension = 0
	DimensionBuffer    ResourceDimension = 1
	DimensionTexture1D ResourceDimension = 2
	DimensionTexture2D ResourceDimension = 3
	DimensionTexture3D ResourceDimension = 4
)

// TextureLayout is a D3D12_TEXTURE_LAYOUT value.
type TextureLayout uint32

// Texture layouts.
const (
	LayoutUnknown  TextureLayout = 0
	LayoutRowMajor TextureLayout = 1
)

// ResourceFlags is a D3D12_RESOURCE_FLAGS mask.
type ResourceFlags uint32

// Resource flags.
const (
	ResourceFlagNone                 ResourceFlags = 0
	ResourceFlagAllowRenderTarget    ResourceFlags = 0x1
	ResourceFlagAllowDepthStencil    ResourceFlags = 0x2
	ResourceFlagAllowUnorderedAccess ResourceFlags = 0x4
	ResourceFlagDenyShaderResource   ResourceFlags = 0x8
)

// HeapType is a D3D12_HEAP_TYPE value.
type HeapType uint32

// Heap types.
const (
	HeapTypeDefault  HeapType = 1
	HeapTypeUpload   HeapType = 2
	HeapTypeReadback HeapType = 3
)

// DescriptorHeapType is a D3D12_DESCRIPTOR_HEAP_TYPE
// value.
type DescriptorHeapType uint32

// Descriptor heap types.
const (
	HeapCBVSRVUAV DescriptorHeapType = 0
	HeapSampler   DescriptorHeapType = 1
	HeapRTV       DescriptorHeapType = 2
	HeapDSV       DescriptorHeapType = 3
)

// DescriptorHeapFlags is a D3D12_DESCRIPTOR_HEAP_FLAGS
// mask.
type DescriptorHeapFlags uint32

// Descriptor heap flags.
const (
	HeapFlagNone          DescriptorHeapFlags = 0
	HeapFlagShaderVisible DescriptorHeapFlags = 1
)

// DescriptorRangeType is a D3D12_DESCRIPTOR_RANGE_TYPE
// value.
type DescriptorRangeType uint32

// Descriptor range types.
const (
	RangeSRV     DescriptorRangeType = 0
	RangeUAV     DescriptorRangeType = 1
	RangeCBV     DescriptorRangeType = 2
	RangeSampler DescriptorRangeType = 3
)

// RootParameterType is a D3D12_ROOT_PARAMETER_TYPE value.
type RootParameterType uint32

// Root parameter types.
const (
	RootParamDescriptorTable RootParameterType = 0
	RootParam32BitConstants  RootParameterType = 1
	RootParamCBV             RootParameterType = 2
)

// ShaderVisibility is a D3D12_SHADER_VISIBILITY value.
type ShaderVisibility uint32

// Shader visibilities.
const (
	VisibilityAll      ShaderVisibility = 0
	VisibilityVertex   ShaderVisibility = 1
	VisibilityHull     ShaderVisibility = 2
	VisibilityDomain   ShaderVisibility = 3
	VisibilityGeometry ShaderVisibility = 4
	VisibilityPixel    ShaderVisibility = 5
)

// RootSignatureFlags is a D3D12_ROOT_SIGNATURE_FLAGS mask.
type RootSignatureFlags uint32

// Root signature flags.
const (
	RootSignatureFlagNone                   RootSignatureFlags = 0
	RootSignatureFlagAllowInputAssembler    RootSignatureFlags = 0x1
	RootSignatureFlagDenyHullShaderRoot     RootSignatureFlags = 0x4
	RootSignatureFlagDenyDomainShaderRoot   RootSignatureFlags = 0x8
	RootSignatureFlagDenyGeometryShaderRoot RootSignatureFlags = 0x10
)

// BarrierType is a D3D12_RESOURCE_BARRIER_TYPE value.
type BarrierType uint32

// Barrier types.
const (
	BarrierTransition BarrierType = 0
	BarrierAliasing   BarrierType = 1
	BarrierUAV        BarrierType = 2
)

// AllSubresources is
// D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES.
const AllSubresources = 0xffffffff

// DefaultSampleMask is D3D12_DEFAULT_SAMPLE_MASK.
const DefaultSampleMask = 0xffffffff

// SimultaneousRenderTargetCount is
// D3D12_SIMULTANEOUS_RENDER_TARGET_COUNT.
const SimultaneousRenderTargetCount = 8

// Heap size limits of a resource binding tier 2 device.
const (
	MaxCBVSRVUAVHeapSize = 1000000
	MaxSamplerHeapSize   = 2048
)
