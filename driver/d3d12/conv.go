// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"gviegas/gp3d/driver"
)

// lookup returns tab[i], or def if i is out of range.
func lookup[T any](tab []T, i int, def T) T {
	if i < 0 || i >= len(tab) {
		return def
	}
	return tab[i]
}

// formats maps driver.Format ordinals to DXGI formats.
// DXGI has no three-channel 8/16-bit formats, and its
// only 24-bit depth format carries stencil; depth and
// stencil formats without a DXGI match use the smallest
// format that holds them.
var formats = [driver.FormatN]Format{
	driver.FUndefined: FormatUnknown,
	driver.R8un:       FormatR8Unorm,
	driver.R16un:      FormatR16Unorm,
	driver.R16f:       FormatR16Float,
	driver.R32ui:      FormatR32Uint,
	driver.R32f:       FormatR32Float,
	driver.RG8un:      FormatR8G8Unorm,
	driver.RG16un:     FormatR16G16Unorm,
	driver.RG16f:      FormatR16G16Float,
	driver.RG32ui:     FormatR32G32Uint,
	driver.RG32f:      FormatR32G32Float,
	driver.RGB8un:     FormatUnknown,
	driver.RGB16un:    FormatUnknown,
	driver.RGB16f:     FormatUnknown,
	driver.RGB32ui:    FormatR32G32B32Uint,
	driver.RGB32f:     FormatR32G32B32Float,
	driver.BGRA8un:    FormatB8G8R8A8Unorm,
	driver.RGBA8un:    FormatR8G8B8A8Unorm,
	driver.RGBA16un:   FormatR16G16B16A16Unorm,
	driver.RGBA16f:    FormatR16G16B16A16Float,
	driver.RGBA32ui:   FormatR32G32B32A32Uint,
	driver.RGBA32f:    FormatR32G32B32A32Float,
	driver.D16un:      FormatD16Unorm,
	driver.X8D24un:    FormatD24UnormS8Uint,
	driver.D32f:       FormatD32Float,
	driver.S8ui:       FormatD24UnormS8Uint,
	driver.D16unS8ui:  FormatD24UnormS8Uint,
	driver.D24unS8ui:  FormatD24UnormS8Uint,
	driver.D32fS8ui:   FormatD32FloatS8X24Uint,
}

// ConvFormat converts a driver.Format to a DXGI format.
// It returns FormatUnknown for formats that DXGI cannot
// represent.
func ConvFormat(f driver.Format) Format { return lookup(formats[:], int(f), FormatUnknown) }

// Supported returns whether f has a DXGI equivalent.
func Supported(f driver.Format) bool {
	return f == driver.FUndefined || ConvFormat(f) != FormatUnknown
}

// ResourceFormat returns the format with which a texture
// of format f is created. Depth/stencil textures that
// are also sampled need a typeless format, so that both
// a depth/stencil view and a shader resource view can be
// created for them.
func ResourceFormat(f driver.Format, usage driver.TextureUsage) Format {
	x := ConvFormat(f)
	if !f.IsDepthStencil() || usage&driver.USampled == 0 {
		return x
	}
	switch x {
	case FormatD16Unorm:
		return FormatR16Typeless
	case FormatD32Float:
		return FormatR32Typeless
	case FormatD24UnormS8Uint:
		return FormatR24G8Typeless
	case FormatD32FloatS8X24Uint:
		return FormatR32G8X24Typeless
	}
	return x
}

// ViewFormat returns the format of shader resource views
// of textures of format f.
func ViewFormat(f driver.Format) Format {
	switch x := ConvFormat(f); x {
	case FormatD16Unorm:
		return FormatR16Unorm
	case FormatD32Float:
		return FormatR32Float
	case FormatD24UnormS8Uint:
		return FormatR24UnormX8Typeless
	case FormatD32FloatS8X24Uint:
		return FormatR32FloatX8X24Typeless
	default:
		return x
	}
}

// Semantic is an HLSL input semantic.
type Semantic struct {
	Name  string
	Index uint32
}

// semantics maps driver.Semantic ordinals to HLSL input
// semantics.
var semantics = [driver.SemanticN]Semantic{
	driver.Position:  {"POSITION", 0},
	driver.Normal:    {"NORMAL", 0},
	driver.Color:     {"COLOR", 0},
	driver.Tangent:   {"TANGENT", 0},
	driver.Binormal:  {"BINORMAL", 0},
	driver.TexCoord0: {"TEXCOORD", 0},
	driver.TexCoord1: {"TEXCOORD", 1},
	driver.TexCoord2: {"TEXCOORD", 2},
	driver.TexCoord3: {"TEXCOORD", 3},
	driver.TexCoord4: {"TEXCOORD", 4},
	driver.TexCoord5: {"TEXCOORD", 5},
	driver.TexCoord6: {"TEXCOORD", 6},
	driver.TexCoord7: {"TEXCOORD", 7},
}

// ConvSemantic converts a driver.Semantic to an HLSL
// semantic name and index.
func ConvSemantic(s driver.Semantic) Semantic {
	return lookup(semantics[:], int(s), Semantic{"POSITION", 0})
}

var topologies = [driver.TopologyN]PrimitiveTopology{
	driver.TPoint:    TopologyPointList,
	driver.TLine:     TopologyLineList,
	driver.TLnStrip:  TopologyLineStrip,
	driver.TTriangle: TopologyTriangleList,
	driver.TTriStrip: TopologyTriangleStrip,
}

var topologyTypes = [driver.TopologyN]PrimitiveTopologyType{
	driver.TPoint:    TopologyTypePoint,
	driver.TLine:     TopologyTypeLine,
	driver.TLnStrip:  TopologyTypeLine,
	driver.TTriangle: TopologyTypeTriangle,
	driver.TTriStrip: TopologyTypeTriangle,
}

// ConvTopology converts a driver.Topology to a primitive
// topology. If tess is true, the result is the patch list
// whose control point count is that of the topology's
// primitives.
func ConvTopology(top driver.Topology, tess bool) PrimitiveTopology {
	if tess {
		return TopologyPatchList1 + PrimitiveTopology(ControlPoints(top)-1)
	}
	return lookup(topologies[:], int(top), TopologyTriangleList)
}

// ConvTopologyType converts a driver.Topology to the
// topology type of pipeline state descriptions.
func ConvTopologyType(top driver.Topology, tess bool) PrimitiveTopologyType {
	if tess {
		return TopologyTypePatch
	}
	return lookup(topologyTypes[:], int(top), TopologyTypeTriangle)
}

// ControlPoints returns the number of control points of
// patches drawn with topology top.
func ControlPoints(top driver.Topology) int {
	switch top {
	case driver.TPoint:
		return 1
	case driver.TLine, driver.TLnStrip:
		return 2
	default:
		return 3
	}
}

var fillModes = [driver.FillModeN]FillMode{
	driver.FFill:  FillSolid,
	driver.FLines: FillWireframe,
}

// ConvFillMode converts a driver.FillMode.
func ConvFillMode(m driver.FillMode) FillMode { return lookup(fillModes[:], int(m), FillSolid) }

var cullModes = [driver.CullModeN]CullMode{
	driver.CNone:  CullNone,
	driver.CFront: CullFront,
	driver.CBack:  CullBack,
}

// ConvCullMode converts a driver.CullMode.
func ConvCullMode(m driver.CullMode) CullMode { return lookup(cullModes[:], int(m), CullNone) }

var cmpFuncs = [driver.CmpFuncN]ComparisonFunc{
	driver.CNever:        ComparisonNever,
	driver.CLess:         ComparisonLess,
	driver.CEqual:        ComparisonEqual,
	driver.CLessEqual:    ComparisonLessEqual,
	driver.CGreater:      ComparisonGreater,
	driver.CNotEqual:     ComparisonNotEqual,
	driver.CGreaterEqual: ComparisonGreaterEqual,
	driver.CAlways:       ComparisonAlways,
}

// ConvCmpFunc converts a driver.CmpFunc.
func ConvCmpFunc(f driver.CmpFunc) ComparisonFunc {
	return lookup(cmpFuncs[:], int(f), ComparisonAlways)
}

var stencilOps = [driver.StencilOpN]StencilOp{
	driver.SKeep:     StencilOpKeep,
	driver.SZero:     StencilOpZero,
	driver.SReplace:  StencilOpReplace,
	driver.SIncClamp: StencilOpIncrSat,
	driver.SDecClamp: StencilOpDecrSat,
	driver.SInvert:   StencilOpInvert,
	driver.SIncWrap:  StencilOpIncr,
	driver.SDecWrap:  StencilOpDecr,
}

// ConvStencilOp converts a driver.StencilOp.
func ConvStencilOp(op driver.StencilOp) StencilOp {
	return lookup(stencilOps[:], int(op), StencilOpKeep)
}

var blendOps = [driver.BlendOpN]BlendOp{
	driver.BAdd:         BlendOpAdd,
	driver.BSubtract:    BlendOpSubtract,
	driver.BRevSubtract: BlendOpRevSubtract,
	driver.BMin:         BlendOpMin,
	driver.BMax:         BlendOpMax,
}

// ConvBlendOp converts a driver.BlendOp.
func ConvBlendOp(op driver.BlendOp) BlendOp { return lookup(blendOps[:], int(op), BlendOpAdd) }

var blendFacs = [driver.BlendFacN]Blend{
	driver.BZero:              BlendZero,
	driver.BOne:               BlendOne,
	driver.BSrcColor:          BlendSrcColor,
	driver.BInvSrcColor:       BlendInvSrcColor,
	driver.BDstColor:          BlendDestColor,
	driver.BInvDstColor:       BlendInvDestColor,
	driver.BSrcAlpha:          BlendSrcAlpha,
	driver.BInvSrcAlpha:       BlendInvSrcAlpha,
	driver.BDstAlpha:          BlendDestAlpha,
	driver.BInvDstAlpha:       BlendInvDestAlpha,
	driver.BBlendColor:        BlendBlendFactor,
	driver.BInvBlendColor:     BlendInvBlendFactor,
	driver.BBlendAlpha:        BlendAlphaFactor,
	driver.BInvBlendAlpha:     BlendInvAlphaFactor,
	driver.BSrcAlphaSaturated: BlendSrcAlphaSat,
	driver.BSrc1Color:         BlendSrc1Color,
	driver.BInvSrc1Color:      BlendInvSrc1Color,
	driver.BSrc1Alpha:         BlendSrc1Alpha,
	driver.BInvSrc1Alpha:      BlendInvSrc1Alpha,
}

// ConvBlendFac converts a driver.BlendFac.
func ConvBlendFac(f driver.BlendFac) Blend { return lookup(blendFacs[:], int(f), BlendOne) }

// ConvColorMask converts a driver.ColorMask.
// The bits of both masks are in the same order.
func ConvColorMask(m driver.ColorMask) ColorWriteEnable {
	return ColorWriteEnable(m & driver.CAll)
}

var addrModes = [driver.AddrModeN]TextureAddressMode{
	driver.AWrap:       AddressWrap,
	driver.AMirror:     AddressMirror,
	driver.AClamp:      AddressClamp,
	driver.ABorder:     AddressBorder,
	driver.AMirrorOnce: AddressMirrorOnce,
}

// ConvAddrMode converts a driver.AddrMode.
func ConvAddrMode(m driver.AddrMode) TextureAddressMode {
	return lookup(addrModes[:], int(m), AddressWrap)
}

var filterTypes = [driver.FilterN]uint32{
	driver.FNearest: filterTypePoint,
	driver.FLinear:  filterTypeLinear,
}

// ConvFilter encodes the filter of a sampler described
// by desc.
func ConvFilter(desc *driver.SamplerDesc) Filter {
	red := uint32(reductionStandard)
	if desc.Compare {
		red = reductionComparison
	}
	if desc.MaxAniso > 1 {
		if desc.Compare {
			return FilterComparisonAnisotropic
		}
		return FilterAnisotropic
	}
	ft := func(f driver.Filter) uint32 { return lookup(filterTypes[:], int(f), filterTypePoint) }
	return encodeFilter(ft(desc.Min), ft(desc.Mag), ft(desc.Mipmap), red)
}

var borderColors = [driver.BorderColorN][4]float32{
	driver.BorderBlackTransparent: {0, 0, 0, 0},
	driver.BorderBlackOpaque:      {0, 0, 0, 1},
	driver.BorderWhiteOpaque:      {1, 1, 1, 1},
}

// ConvBorder converts a driver.BorderColor to an RGBA
// border color.
func ConvBorder(c driver.BorderColor) [4]float32 {
	return lookup(borderColors[:], int(c), [4]float32{})
}

// states maps texture usage bit indices to the resource
// states they identify, in driver.TextureUsage bit order.
var states = [driver.TextureUsageN]ResourceStates{
	StateCopySource,
	StateCopyDest,
	StateAllShaderResource,
	StateUnorderedAccess,
	StateRenderTarget,
	StateDepthWrite,
	StateResolveSource,
	StateResolveDest,
	StatePresent,
}

// ConvState converts a texture state, which is a single
// bit of driver.TextureUsage, to a resource state.
// driver.UUndefined converts to StateCommon.
func ConvState(u driver.TextureUsage) ResourceStates {
	if u == driver.UUndefined {
		return StateCommon
	}
	return lookup(states[:], u.Index(), StateCommon)
}

var bufferStates = [driver.BufferUsageN]ResourceStates{
	driver.UVertexBuffer:  StateVertexAndConstantBuffer,
	driver.UIndexBuffer:   StateIndexBuffer,
	driver.UUniformBuffer: StateVertexAndConstantBuffer,
}

// ConvBufferState returns the resource state in which a
// buffer of usage u is kept.
func ConvBufferState(u driver.BufferUsage) ResourceStates {
	return lookup(bufferStates[:], int(u), StateCommon)
}

var dimensions = [driver.TextureTypeN]ResourceDimension{
	driver.Tex1D:   DimensionTexture1D,
	driver.Tex2D:   DimensionTexture2D,
	driver.Tex3D:   DimensionTexture3D,
	driver.TexCube: DimensionTexture2D,
}

// ConvDimension converts a driver.TextureType.
// Cube textures are 2D arrays of six layers.
func ConvDimension(t driver.TextureType) ResourceDimension {
	return lookup(dimensions[:], int(t), DimensionUnknown)
}

var rangeTypes = [driver.DescTypeN]DescriptorRangeType{
	driver.DUniform: RangeCBV,
	driver.DTexture: RangeSRV,
	driver.DSampler: RangeSampler,
}

// ConvRangeType converts a driver.DescType.
func ConvRangeType(t driver.DescType) DescriptorRangeType {
	return lookup(rangeTypes[:], int(t), RangeCBV)
}

var heapTypes = [driver.HeapClassN]DescriptorHeapType{
	driver.HResource: HeapCBVSRVUAV,
	driver.HSampler:  HeapSampler,
}

// ConvHeapType converts a driver.HeapClass.
func ConvHeapType(c driver.HeapClass) DescriptorHeapType {
	return lookup(heapTypes[:], int(c), HeapCBVSRVUAV)
}

// ConvVisibility converts a driver.ShaderStage mask.
// Masks naming more than one stage are visible to all
// stages.
func ConvVisibility(s driver.ShaderStage) ShaderVisibility {
	if !s.Single() {
		return VisibilityAll
	}
	switch s {
	case driver.SVertex:
		return VisibilityVertex
	case driver.STessCtrl:
		return VisibilityHull
	case driver.STessEval:
		return VisibilityDomain
	case driver.SGeometry:
		return VisibilityGeometry
	default:
		return VisibilityPixel
	}
}
