// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// formats maps driver.Format ordinals to VkFormat values.
// The same table serves pixel and vertex formats.
var formats = [driver.FormatN]vk.Format{
	driver.FUndefined: vk.FormatUndefined,
	driver.R8un:       vk.FormatR8Unorm,
	driver.R16un:      vk.FormatR16Unorm,
	driver.R16f:       vk.FormatR16Sfloat,
	driver.R32ui:      vk.FormatR32Uint,
	driver.R32f:       vk.FormatR32Sfloat,
	driver.RG8un:      vk.FormatR8g8Unorm,
	driver.RG16un:     vk.FormatR16g16Unorm,
	driver.RG16f:      vk.FormatR16g16Sfloat,
	driver.RG32ui:     vk.FormatR32g32Uint,
	driver.RG32f:      vk.FormatR32g32Sfloat,
	driver.RGB8un:     vk.FormatR8g8b8Unorm,
	driver.RGB16un:    vk.FormatR16g16b16Unorm,
	driver.RGB16f:     vk.FormatR16g16b16Sfloat,
	driver.RGB32ui:    vk.FormatR32g32b32Uint,
	driver.RGB32f:     vk.FormatR32g32b32Sfloat,
	driver.BGRA8un:    vk.FormatB8g8r8a8Unorm,
	driver.RGBA8un:    vk.FormatR8g8b8a8Unorm,
	driver.RGBA16un:   vk.FormatR16g16b16a16Unorm,
	driver.RGBA16f:    vk.FormatR16g16b16a16Sfloat,
	driver.RGBA32ui:   vk.FormatR32g32b32a32Uint,
	driver.RGBA32f:    vk.FormatR32g32b32a32Sfloat,
	driver.D16un:      vk.FormatD16Unorm,
	driver.X8D24un:    vk.FormatX8D24UnormPack32,
	driver.D32f:       vk.FormatD32Sfloat,
	driver.S8ui:       vk.FormatS8Uint,
	driver.D16unS8ui:  vk.FormatD16UnormS8Uint,
	driver.D24unS8ui:  vk.FormatD24UnormS8Uint,
	driver.D32fS8ui:   vk.FormatD32SfloatS8Uint,
}

// convFormat converts a driver.Format to a VkFormat.
func convFormat(f driver.Format) vk.Format {
	if f < 0 || int(f) >= driver.FormatN {
		return vk.FormatUndefined
	}
	return formats[f]
}

// formatOf converts a VkFormat back to a driver.Format.
// It returns driver.FUndefined if there is no
// corresponding format.
func formatOf(f vk.Format) driver.Format {
	for i, x := range formats {
		if x == f {
			return driver.Format(i)
		}
	}
	return driver.FUndefined
}

// convSamples converts a sample count to a
// VkSampleCountFlagBits.
func convSamples(ns int) vk.SampleCountFlagBits {
	switch ns {
	case 0, 1:
		return vk.SampleCount1Bit
	case 2:
		return vk.SampleCount2Bit
	case 4:
		return vk.SampleCount4Bit
	case 8:
		return vk.SampleCount8Bit
	case 16:
		return vk.SampleCount16Bit
	case 32:
		return vk.SampleCount32Bit
	case 64:
		return vk.SampleCount64Bit
	}

	// Expected to be unreachable.
	return ^vk.SampleCountFlagBits(0)
}

// aspectOf returns the VkImageAspectFlags of f.
func aspectOf(f driver.Format) vk.ImageAspectFlags {
	if !f.IsDepthStencil() {
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
	var flags vk.ImageAspectFlags
	if f.HasDepth() {
		flags |= vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
	if f.HasStencil() {
		flags |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	}
	return flags
}

// convFilter converts a driver.Filter to a VkFilter.
func convFilter(f driver.Filter) vk.Filter {
	switch f {
	case driver.FNearest:
		return vk.FilterNearest
	case driver.FLinear:
		return vk.FilterLinear
	}

	// Expected to be unreachable.
	return ^vk.Filter(0)
}

// convMipFilter converts a driver.Filter to a VkSamplerMipmapMode.
func convMipFilter(f driver.Filter) vk.SamplerMipmapMode {
	switch f {
	case driver.FNearest:
		return vk.SamplerMipmapModeNearest
	case driver.FLinear:
		return vk.SamplerMipmapModeLinear
	}

	// Expected to be unreachable.
	return ^vk.SamplerMipmapMode(0)
}

// convAddrMode converts a driver.AddrMode to a VkSamplerAdressMode.
func convAddrMode(am driver.AddrMode) vk.SamplerAddressMode {
	switch am {
	case driver.AWrap:
		return vk.SamplerAddressModeRepeat
	case driver.AMirror:
		return vk.SamplerAddressModeMirroredRepeat
	case driver.AClamp:
		return vk.SamplerAddressModeClampToEdge
	case driver.ABorder:
		return vk.SamplerAddressModeClampToBorder
	case driver.AMirrorOnce:
		return vk.SamplerAddressModeMirrorClampToEdge
	}

	// Expected to be unreachable.
	return ^vk.SamplerAddressMode(0)
}

// convBorder converts a driver.BorderColor to a VkBorderColor.
func convBorder(bc driver.BorderColor) vk.BorderColor {
	switch bc {
	case driver.BorderBlackTransparent:
		return vk.BorderColorFloatTransparentBlack
	case driver.BorderBlackOpaque:
		return vk.BorderColorFloatOpaqueBlack
	case driver.BorderWhiteOpaque:
		return vk.BorderColorFloatOpaqueWhite
	}

	// Expected to be unreachable.
	return ^vk.BorderColor(0)
}

// convCmpFunc converts a driver.CmpFunc to a VkCompareOp.
func convCmpFunc(cf driver.CmpFunc) vk.CompareOp {
	switch cf {
	case driver.CNever:
		return vk.CompareOpNever
	case driver.CLess:
		return vk.CompareOpLess
	case driver.CEqual:
		return vk.CompareOpEqual
	case driver.CLessEqual:
		return vk.CompareOpLessOrEqual
	case driver.CGreater:
		return vk.CompareOpGreater
	case driver.CNotEqual:
		return vk.CompareOpNotEqual
	case driver.CGreaterEqual:
		return vk.CompareOpGreaterOrEqual
	case driver.CAlways:
		return vk.CompareOpAlways
	}

	// Expected to be unreachable.
	return ^vk.CompareOp(0)
}

// convTopology converts a driver.Topology to a VkPrimitiveTopology.
func convTopology(top driver.Topology) vk.PrimitiveTopology {
	switch top {
	case driver.TPoint:
		return vk.PrimitiveTopologyPointList
	case driver.TLine:
		return vk.PrimitiveTopologyLineList
	case driver.TLnStrip:
		return vk.PrimitiveTopologyLineStrip
	case driver.TTriangle:
		return vk.PrimitiveTopologyTriangleList
	case driver.TTriStrip:
		return vk.PrimitiveTopologyTriangleStrip
	}

	// Expected to be unreachable.
	return ^vk.PrimitiveTopology(0)
}

// convCullMode converts a driver.CullMode to a VkCullModeFlags.
func convCullMode(cm driver.CullMode) vk.CullModeFlags {
	switch cm {
	case driver.CNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case driver.CFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case driver.CBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	}

	// Expected to be unreachable.
	return ^vk.CullModeFlags(0)
}

// convFillMode converts a driver.FillMode to a VkPolygonMode.
func convFillMode(fm driver.FillMode) vk.PolygonMode {
	switch fm {
	case driver.FFill:
		return vk.PolygonModeFill
	case driver.FLines:
		return vk.PolygonModeLine
	}

	// Expected to be unreachable.
	return ^vk.PolygonMode(0)
}

// convStencilOp converts a driver.StencilOp to a VkStencilOp.
func convStencilOp(op driver.StencilOp) vk.StencilOp {
	switch op {
	case driver.SKeep:
		return vk.StencilOpKeep
	case driver.SZero:
		return vk.StencilOpZero
	case driver.SReplace:
		return vk.StencilOpReplace
	case driver.SIncClamp:
		return vk.StencilOpIncrementAndClamp
	case driver.SDecClamp:
		return vk.StencilOpDecrementAndClamp
	case driver.SInvert:
		return vk.StencilOpInvert
	case driver.SIncWrap:
		return vk.StencilOpIncrementAndWrap
	case driver.SDecWrap:
		return vk.StencilOpDecrementAndWrap
	}

	// Expected to be unreachable.
	return ^vk.StencilOp(0)
}

// convBlendOp converts a driver.BlendOp to a VkBlendOp.
func convBlendOp(op driver.BlendOp) vk.BlendOp {
	switch op {
	case driver.BAdd:
		return vk.BlendOpAdd
	case driver.BSubtract:
		return vk.BlendOpSubtract
	case driver.BRevSubtract:
		return vk.BlendOpReverseSubtract
	case driver.BMin:
		return vk.BlendOpMin
	case driver.BMax:
		return vk.BlendOpMax
	}

	// Expected to be unreachable.
	return ^vk.BlendOp(0)
}

// convBlendFac converts a driver.BlendFac to a VkBlendFactor.
func convBlendFac(fac driver.BlendFac) vk.BlendFactor {
	switch fac {
	case driver.BZero:
		return vk.BlendFactorZero
	case driver.BOne:
		return vk.BlendFactorOne
	case driver.BSrcColor:
		return vk.BlendFactorSrcColor
	case driver.BInvSrcColor:
		return vk.BlendFactorOneMinusSrcColor
	case driver.BDstColor:
		return vk.BlendFactorDstColor
	case driver.BInvDstColor:
		return vk.BlendFactorOneMinusDstColor
	case driver.BSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case driver.BInvSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	case driver.BDstAlpha:
		return vk.BlendFactorDstAlpha
	case driver.BInvDstAlpha:
		return vk.BlendFactorOneMinusDstAlpha
	case driver.BBlendColor:
		return vk.BlendFactorConstantColor
	case driver.BInvBlendColor:
		return vk.BlendFactorOneMinusConstantColor
	case driver.BBlendAlpha:
		return vk.BlendFactorConstantAlpha
	case driver.BInvBlendAlpha:
		return vk.BlendFactorOneMinusConstantAlpha
	case driver.BSrcAlphaSaturated:
		return vk.BlendFactorSrcAlphaSaturate
	case driver.BSrc1Color:
		return vk.BlendFactorSrc1Color
	case driver.BInvSrc1Color:
		return vk.BlendFactorOneMinusSrc1Color
	case driver.BSrc1Alpha:
		return vk.BlendFactorSrc1Alpha
	case driver.BInvSrc1Alpha:
		return vk.BlendFactorOneMinusSrc1Alpha
	}

	// Expected to be unreachable.
	return ^vk.BlendFactor(0)
}

// convColorMask converts a driver.ColorMask to a VkColorComponentFlags.
func convColorMask(cm driver.ColorMask) (flags vk.ColorComponentFlags) {
	if cm&driver.CRed != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentRBit)
	}
	if cm&driver.CGreen != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentGBit)
	}
	if cm&driver.CBlue != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentBBit)
	}
	if cm&driver.CAlpha != 0 {
		flags |= vk.ColorComponentFlags(vk.ColorComponentABit)
	}
	return
}

// convStage converts a driver.ShaderStage to a VkShaderStageFlags.
func convStage(stg driver.ShaderStage) (flags vk.ShaderStageFlags) {
	if stg&driver.SVertex != 0 {
		flags |= vk.ShaderStageFlags(vk.ShaderStageVertexBit)
	}
	if stg&driver.STessCtrl != 0 {
		flags |= vk.ShaderStageFlags(vk.ShaderStageTessellationControlBit)
	}
	if stg&driver.STessEval != 0 {
		flags |= vk.ShaderStageFlags(vk.ShaderStageTessellationEvaluationBit)
	}
	if stg&driver.SGeometry != 0 {
		flags |= vk.ShaderStageFlags(vk.ShaderStageGeometryBit)
	}
	if stg&driver.SFragment != 0 {
		flags |= vk.ShaderStageFlags(vk.ShaderStageFragmentBit)
	}
	return
}

// convDescType converts a driver.DescType to a VkDescriptorType.
func convDescType(t driver.DescType) vk.DescriptorType {
	switch t {
	case driver.DUniform:
		return vk.DescriptorTypeUniformBuffer
	case driver.DTexture:
		return vk.DescriptorTypeSampledImage
	case driver.DSampler:
		return vk.DescriptorTypeSampler
	}

	// Expected to be unreachable.
	return ^vk.DescriptorType(0)
}

// layoutOf returns the VkImageLayout that corresponds to
// the texture state u.
func layoutOf(u driver.TextureUsage) vk.ImageLayout {
	switch u {
	case driver.UUndefined:
		return vk.ImageLayoutUndefined
	case driver.UTransferSrc, driver.UResolveSrc:
		return vk.ImageLayoutTransferSrcOptimal
	case driver.UTransferDst, driver.UResolveDst:
		return vk.ImageLayoutTransferDstOptimal
	case driver.USampled:
		return vk.ImageLayoutShaderReadOnlyOptimal
	case driver.UStorage:
		return vk.ImageLayoutGeneral
	case driver.UColorAttachment:
		return vk.ImageLayoutColorAttachmentOptimal
	case driver.UDepthStencilAttachment:
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case driver.UPresent:
		return vk.ImageLayoutPresentSrc
	}

	// Expected to be unreachable.
	return ^vk.ImageLayout(0)
}

// syncOf returns the access mask and pipeline stages that
// must be synchronized when a texture leaves or enters
// the state u.
func syncOf(u driver.TextureUsage) (vk.AccessFlags, vk.PipelineStageFlags) {
	switch u {
	case driver.UUndefined:
		return 0, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	case driver.UTransferSrc, driver.UResolveSrc:
		return vk.AccessFlags(vk.AccessTransferReadBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case driver.UTransferDst, driver.UResolveDst:
		return vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	case driver.USampled:
		return vk.AccessFlags(vk.AccessShaderReadBit),
			vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit)
	case driver.UStorage:
		return vk.AccessFlags(vk.AccessShaderReadBit | vk.AccessShaderWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit)
	case driver.UColorAttachment:
		return vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	case driver.UDepthStencilAttachment:
		return vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit)
	case driver.UPresent:
		return 0, vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	}

	// Expected to be unreachable.
	return 0, vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
}
