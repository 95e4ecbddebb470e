// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mtl

import (
	"gviegas/gp3d/driver"
)

// conv returns tab[i], or def if i is out of range.
func conv[T any](tab []T, i int, def T) T {
	if i < 0 || i >= len(tab) {
		return def
	}
	return tab[i]
}

// pixelFormats maps driver.Format ordinals to pixel
// formats. Metal has no three-channel pixel formats.
// Depth formats without an exact match use the combined
// 24-bit depth/stencil format.
var pixelFormats = [driver.FormatN]PixelFormat{
	driver.FUndefined: PixelFormatInvalid,
	driver.R8un:       PixelFormatR8Unorm,
	driver.R16un:      PixelFormatR16Unorm,
	driver.R16f:       PixelFormatR16Float,
	driver.R32ui:      PixelFormatR32Uint,
	driver.R32f:       PixelFormatR32Float,
	driver.RG8un:      PixelFormatRG8Unorm,
	driver.RG16un:     PixelFormatRG16Unorm,
	driver.RG16f:      PixelFormatRG16Float,
	driver.RG32ui:     PixelFormatRG32Uint,
	driver.RG32f:      PixelFormatRG32Float,
	driver.RGB8un:     PixelFormatInvalid,
	driver.RGB16un:    PixelFormatInvalid,
	driver.RGB16f:     PixelFormatInvalid,
	driver.RGB32ui:    PixelFormatInvalid,
	driver.RGB32f:     PixelFormatInvalid,
	driver.BGRA8un:    PixelFormatBGRA8Unorm,
	driver.RGBA8un:    PixelFormatRGBA8Unorm,
	driver.RGBA16un:   PixelFormatRGBA16Unorm,
	driver.RGBA16f:    PixelFormatRGBA16Float,
	driver.RGBA32ui:   PixelFormatRGBA32Uint,
	driver.RGBA32f:    PixelFormatRGBA32Float,
	driver.D16un:      PixelFormatDepth16Unorm,
	driver.X8D24un:    PixelFormatDepth24UnormStencil8,
	driver.D32f:       PixelFormatDepth32Float,
	driver.S8ui:       PixelFormatStencil8,
	driver.D16unS8ui:  PixelFormatDepth24UnormStencil8,
	driver.D24unS8ui:  PixelFormatDepth24UnormStencil8,
	driver.D32fS8ui:   PixelFormatDepth32FloatStencil8,
}

// ConvPixelFormat converts a driver.Format to a pixel
// format. It returns PixelFormatInvalid for formats that
// cannot be used as pixel formats.
func ConvPixelFormat(f driver.Format) PixelFormat {
	return conv(pixelFormats[:], int(f), PixelFormatInvalid)
}

// vertexFormats maps driver.Format ordinals to vertex
// formats. Depth/stencil formats have no vertex format.
var vertexFormats = [driver.FormatN]VertexFormat{
	driver.FUndefined: VertexFormatInvalid,
	driver.R8un:       VertexFormatUCharNormalized,
	driver.R16un:      VertexFormatUShortNormalized,
	driver.R16f:       VertexFormatHalf,
	driver.R32ui:      VertexFormatUInt,
	driver.R32f:       VertexFormatFloat,
	driver.RG8un:      VertexFormatUChar2Normalized,
	driver.RG16un:     VertexFormatUShort2Normalized,
	driver.RG16f:      VertexFormatHalf2,
	driver.RG32ui:     VertexFormatUInt2,
	driver.RG32f:      VertexFormatFloat2,
	driver.RGB8un:     VertexFormatUChar3Normalized,
	driver.RGB16un:    VertexFormatUShort3Normalized,
	driver.RGB16f:     VertexFormatHalf3,
	driver.RGB32ui:    VertexFormatUInt3,
	driver.RGB32f:     VertexFormatFloat3,
	driver.BGRA8un:    VertexFormatUChar4NormalizedBGRA,
	driver.RGBA8un:    VertexFormatUChar4Normalized,
	driver.RGBA16un:   VertexFormatUShort4Normalized,
	driver.RGBA16f:    VertexFormatHalf4,
	driver.RGBA32ui:   VertexFormatUInt4,
	driver.RGBA32f:    VertexFormatFloat4,
	driver.D16un:      VertexFormatInvalid,
	driver.X8D24un:    VertexFormatInvalid,
	driver.D32f:       VertexFormatInvalid,
	driver.S8ui:       VertexFormatInvalid,
	driver.D16unS8ui:  VertexFormatInvalid,
	driver.D24unS8ui:  VertexFormatInvalid,
	driver.D32fS8ui:   VertexFormatInvalid,
}

// ConvVertexFormat converts a driver.Format to a vertex
// format.
func ConvVertexFormat(f driver.Format) VertexFormat {
	return conv(vertexFormats[:], int(f), VertexFormatInvalid)
}

var primitiveTypes = [driver.TopologyN]PrimitiveType{
	driver.TPoint:    PrimitiveTypePoint,
	driver.TLine:     PrimitiveTypeLine,
	driver.TLnStrip:  PrimitiveTypeLineStrip,
	driver.TTriangle: PrimitiveTypeTriangle,
	driver.TTriStrip: PrimitiveTypeTriangleStrip,
}

// ConvPrimitiveType converts a driver.Topology.
func ConvPrimitiveType(top driver.Topology) PrimitiveType {
	return conv(primitiveTypes[:], int(top), PrimitiveTypeTriangle)
}

var topologyClasses = [driver.TopologyN]PrimitiveTopologyClass{
	driver.TPoint:    TopologyClassPoint,
	driver.TLine:     TopologyClassLine,
	driver.TLnStrip:  TopologyClassLine,
	driver.TTriangle: TopologyClassTriangle,
	driver.TTriStrip: TopologyClassTriangle,
}

// ConvTopologyClass converts a driver.Topology to the
// topology class of render pipeline descriptors.
func ConvTopologyClass(top driver.Topology) PrimitiveTopologyClass {
	return conv(topologyClasses[:], int(top), TopologyClassUnspecified)
}

var fillModes = [driver.FillModeN]TriangleFillMode{
	driver.FFill:  TriangleFillModeFill,
	driver.FLines: TriangleFillModeLines,
}

// ConvFillMode converts a driver.FillMode.
func ConvFillMode(m driver.FillMode) TriangleFillMode {
	return conv(fillModes[:], int(m), TriangleFillModeFill)
}

var cullModes = [driver.CullModeN]CullMode{
	driver.CNone:  CullModeNone,
	driver.CFront: CullModeFront,
	driver.CBack:  CullModeBack,
}

// ConvCullMode converts a driver.CullMode.
func ConvCullMode(m driver.CullMode) CullMode { return conv(cullModes[:], int(m), CullModeNone) }

// ConvWinding returns the front-facing winding.
func ConvWinding(clockwise bool) Winding {
	if clockwise {
		return WindingClockwise
	}
	return WindingCounterClockwise
}

var compareFuncs = [driver.CmpFuncN]CompareFunction{
	driver.CNever:        CompareFunctionNever,
	driver.CLess:         CompareFunctionLess,
	driver.CEqual:        CompareFunctionEqual,
	driver.CLessEqual:    CompareFunctionLessEqual,
	driver.CGreater:      CompareFunctionGreater,
	driver.CNotEqual:     CompareFunctionNotEqual,
	driver.CGreaterEqual: CompareFunctionGreaterEqual,
	driver.CAlways:       CompareFunctionAlways,
}

// ConvCmpFunc converts a driver.CmpFunc.
func ConvCmpFunc(f driver.CmpFunc) CompareFunction {
	return conv(compareFuncs[:], int(f), CompareFunctionAlways)
}

var stencilOps = [driver.StencilOpN]StencilOperation{
	driver.SKeep:     StencilOperationKeep,
	driver.SZero:     StencilOperationZero,
	driver.SReplace:  StencilOperationReplace,
	driver.SIncClamp: StencilOperationIncrementClamp,
	driver.SDecClamp: StencilOperationDecrementClamp,
	driver.SInvert:   StencilOperationInvert,
	driver.SIncWrap:  StencilOperationIncrementWrap,
	driver.SDecWrap:  StencilOperationDecrementWrap,
}

// ConvStencilOp converts a driver.StencilOp.
func ConvStencilOp(op driver.StencilOp) StencilOperation {
	return conv(stencilOps[:], int(op), StencilOperationKeep)
}

var blendOps = [driver.BlendOpN]BlendOperation{
	driver.BAdd:         BlendOperationAdd,
	driver.BSubtract:    BlendOperationSubtract,
	driver.BRevSubtract: BlendOperationReverseSubtract,
	driver.BMin:         BlendOperationMin,
	driver.BMax:         BlendOperationMax,
}

// ConvBlendOp converts a driver.BlendOp.
func ConvBlendOp(op driver.BlendOp) BlendOperation {
	return conv(blendOps[:], int(op), BlendOperationAdd)
}

var blendFacs = [driver.BlendFacN]BlendFactor{
	driver.BZero:              BlendFactorZero,
	driver.BOne:               BlendFactorOne,
	driver.BSrcColor:          BlendFactorSourceColor,
	driver.BInvSrcColor:       BlendFactorOneMinusSourceColor,
	driver.BDstColor:          BlendFactorDestinationColor,
	driver.BInvDstColor:       BlendFactorOneMinusDestinationColor,
	driver.BSrcAlpha:          BlendFactorSourceAlpha,
	driver.BInvSrcAlpha:       BlendFactorOneMinusSourceAlpha,
	driver.BDstAlpha:          BlendFactorDestinationAlpha,
	driver.BInvDstAlpha:       BlendFactorOneMinusDestinationAlpha,
	driver.BBlendColor:        BlendFactorBlendColor,
	driver.BInvBlendColor:     BlendFactorOneMinusBlendColor,
	driver.BBlendAlpha:        BlendFactorBlendAlpha,
	driver.BInvBlendAlpha:     BlendFactorOneMinusBlendAlpha,
	driver.BSrcAlphaSaturated: BlendFactorSourceAlphaSaturated,
	driver.BSrc1Color:         BlendFactorSource1Color,
	driver.BInvSrc1Color:      BlendFactorOneMinusSource1Color,
	driver.BSrc1Alpha:         BlendFactorSource1Alpha,
	driver.BInvSrc1Alpha:      BlendFactorOneMinusSource1Alpha,
}

// ConvBlendFac converts a driver.BlendFac.
func ConvBlendFac(f driver.BlendFac) BlendFactor { return conv(blendFacs[:], int(f), BlendFactorOne) }

// ConvColorMask converts a driver.ColorMask.
func ConvColorMask(m driver.ColorMask) (mask ColorWriteMask) {
	for _, x := range [...]struct {
		from driver.ColorMask
		to   ColorWriteMask
	}{
		{driver.CRed, ColorWriteMaskRed},
		{driver.CGreen, ColorWriteMaskGreen},
		{driver.CBlue, ColorWriteMaskBlue},
		{driver.CAlpha, ColorWriteMaskAlpha},
	} {
		if m&x.from != 0 {
			mask |= x.to
		}
	}
	return
}

var addrModes = [driver.AddrModeN]SamplerAddressMode{
	driver.AWrap:       AddressModeRepeat,
	driver.AMirror:     AddressModeMirrorRepeat,
	driver.AClamp:      AddressModeClampToEdge,
	driver.ABorder:     AddressModeClampToBorder,
	driver.AMirrorOnce: AddressModeMirrorClampToEdge,
}

// ConvAddrMode converts a driver.AddrMode.
func ConvAddrMode(m driver.AddrMode) SamplerAddressMode {
	return conv(addrModes[:], int(m), AddressModeRepeat)
}

var minMagFilters = [driver.FilterN]SamplerMinMagFilter{
	driver.FNearest: MinMagFilterNearest,
	driver.FLinear:  MinMagFilterLinear,
}

// ConvFilter converts a driver.Filter for minification
// and magnification.
func ConvFilter(f driver.Filter) SamplerMinMagFilter {
	return conv(minMagFilters[:], int(f), MinMagFilterNearest)
}

var mipFilters = [driver.FilterN]SamplerMipFilter{
	driver.FNearest: MipFilterNearest,
	driver.FLinear:  MipFilterLinear,
}

// ConvMipFilter converts a driver.Filter for mipmap
// selection.
func ConvMipFilter(f driver.Filter) SamplerMipFilter {
	return conv(mipFilters[:], int(f), MipFilterNearest)
}

var borderColors = [driver.BorderColorN]SamplerBorderColor{
	driver.BorderBlackTransparent: BorderColorTransparentBlack,
	driver.BorderBlackOpaque:      BorderColorOpaqueBlack,
	driver.BorderWhiteOpaque:      BorderColorOpaqueWhite,
}

// ConvBorder converts a driver.BorderColor.
func ConvBorder(c driver.BorderColor) SamplerBorderColor {
	return conv(borderColors[:], int(c), BorderColorTransparentBlack)
}

// ConvTextureType converts a driver.TextureType.
// 2D textures with more than one sample are multisample
// textures.
func ConvTextureType(t driver.TextureType, samples int) TextureType {
	switch t {
	case driver.Tex1D:
		return TextureType1D
	case driver.Tex3D:
		return TextureType3D
	case driver.TexCube:
		return TextureTypeCube
	}
	if samples > 1 {
		return TextureType2DMultisample
	}
	return TextureType2D
}

// ConvTextureUsage converts a driver.TextureUsage mask.
// Resolve destinations are written by render passes, so
// they are render targets too.
func ConvTextureUsage(u driver.TextureUsage) (usage TextureUsage) {
	if u&driver.USampled != 0 {
		usage |= TextureUsageShaderRead
	}
	if u&driver.UStorage != 0 {
		usage |= TextureUsageShaderRead | TextureUsageShaderWrite
	}
	if u&(driver.UColorAttachment|driver.UDepthStencilAttachment|driver.UResolveDst) != 0 {
		usage |= TextureUsageRenderTarget
	}
	return
}

var dataTypes = [driver.DescTypeN]DataType{
	driver.DUniform: DataTypePointer,
	driver.DTexture: DataTypeTexture,
	driver.DSampler: DataTypeSampler,
}

// ConvDataType converts a driver.DescType to the data
// type of its argument.
func ConvDataType(t driver.DescType) DataType { return conv(dataTypes[:], int(t), DataTypePointer) }

// ConvStages converts a driver.ShaderStage mask to render
// stages. Metal has no tessellation control or geometry
// render stages.
func ConvStages(s driver.ShaderStage) (stages RenderStages) {
	if s&(driver.SVertex|driver.STessEval) != 0 {
		stages |= RenderStageVertex
	}
	if s&driver.SFragment != 0 {
		stages |= RenderStageFragment
	}
	return
}
