// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// Topology is the type of primitive topologies,
// which determines how vertex data is assembled.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLnStrip
	TTriangle
	TTriStrip

	// Number of topologies.
	TopologyN int = iota
)

// FillMode is the type of triangle fill modes, which
// determines the final rasterization of triangles.
type FillMode int

// Triangle fill modes.
const (
	FFill FillMode = iota
	FLines

	// Number of fill modes.
	FillModeN int = iota
)

// CullMode is the type of cull modes, which
// determines primitive culling based on triangle
// facing direction.
type CullMode int

// Cull modes.
const (
	CNone CullMode = iota
	CFront
	CBack

	// Number of cull modes.
	CullModeN int = iota
)

// RasterizerState defines the rasterization state of a
// render pipeline.
type RasterizerState struct {
	Fill FillMode
	Cull CullMode
	// Winding order is either clockwise or counter-clockwise.
	Clockwise bool
	// DepthClamp clamps fragment depth instead of clipping.
	DepthClamp bool
	// DepthBias enables depth bias computation.
	DepthBias bool
	BiasValue float32
	BiasSlope float32
	BiasClamp float32
	LineWidth float32
}

// DefaultRasterizer returns the rasterizer state used when
// none is given: solid fill, back-face culling and
// counter-clockwise winding.
func DefaultRasterizer() RasterizerState {
	return RasterizerState{
		Fill:      FFill,
		Cull:      CBack,
		LineWidth: 1,
	}
}

// CmpFunc is the type of comparison functions.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CNotEqual
	CGreaterEqual
	CAlways

	// Number of comparison functions.
	CmpFuncN int = iota
)

// StencilOp is the type of stencil operations.
type StencilOp int

// Stencil operations.
const (
	SKeep StencilOp = iota
	SZero
	SReplace
	SIncClamp
	SDecClamp
	SInvert
	SIncWrap
	SDecWrap

	// Number of stencil operations.
	StencilOpN int = iota
)

// StencilT defines stencil test parameters for one face
// in the depth/stencil state of a render pipeline.
type StencilT struct {
	Fail      StencilOp
	DepthFail StencilOp
	Pass      StencilOp
	Cmp       CmpFunc
	ReadMask  uint32
	WriteMask uint32
	Ref       uint32
}

// DepthStencilState defines the depth/stencil state of a
// render pipeline.
type DepthStencilState struct {
	// DepthTest enables the depth test.
	DepthTest bool
	// DepthWrite enables depth writes.
	DepthWrite bool
	DepthCmp   CmpFunc
	// DepthBounds enables the depth bounds test.
	DepthBounds bool
	MinBound    float32
	MaxBound    float32
	// StencilTest enables the stencil test.
	StencilTest bool
	Front       StencilT
	Back        StencilT
}

// DefaultDepthStencil returns the depth/stencil state used
// when none is given: depth test and write with CLess,
// no stencil test.
func DefaultDepthStencil() DepthStencilState {
	st := StencilT{
		Fail:      SKeep,
		DepthFail: SKeep,
		Pass:      SKeep,
		Cmp:       CAlways,
		ReadMask:  0xff,
		WriteMask: 0xff,
	}
	return DepthStencilState{
		DepthTest:  true,
		DepthWrite: true,
		DepthCmp:   CLess,
		MaxBound:   1,
		Front:      st,
		Back:       st,
	}
}

// BlendOp is the type of blend operations.
type BlendOp int

// Blend operations.
const (
	BAdd BlendOp = iota
	BSubtract
	BRevSubtract
	BMin
	BMax

	// Number of blend operations.
	BlendOpN int = iota
)

// BlendFac is the type of blend factors.
type BlendFac int

// Blend factors.
const (
	BZero BlendFac = iota
	BOne
	BSrcColor
	BInvSrcColor
	BDstColor
	BInvDstColor
	BSrcAlpha
	BInvSrcAlpha
	BDstAlpha
	BInvDstAlpha
	BBlendColor
	BInvBlendColor
	BBlendAlpha
	BInvBlendAlpha
	BSrcAlphaSaturated
	BSrc1Color
	BInvSrc1Color
	BSrc1Alpha
	BInvSrc1Alpha

	// Number of blend factors.
	BlendFacN int = iota
)

// ColorMask is the type of a color write mask.
type ColorMask int

// Color write masks.
const (
	CRed ColorMask = 1 << iota
	CGreen
	CBlue
	CAlpha
	// Write to all channels.
	CAll ColorMask = 1<<iota - 1
)

// ColorBlendState defines the color blend state of a
// render pipeline.
// The same parameters apply to every color attachment
// of the render pass.
type ColorBlendState struct {
	// Blend enables blending.
	Blend bool
	// WriteMask specifies which color channels to write.
	// If blending is not enabled, the incoming samples
	// are written unmodified to the specified channels.
	WriteMask ColorMask
	// In the arrays that follows, [0] is for color and
	// [1] is for alpha.
	Op     [2]BlendOp
	SrcFac [2]BlendFac
	DstFac [2]BlendFac
	// Constant blend color.
	BlendColor [4]float32
}

// DefaultColorBlend returns the color blend state used
// when none is given: blending disabled, all channels
// written.
func DefaultColorBlend() ColorBlendState {
	return ColorBlendState{
		WriteMask: CAll,
		Op:        [2]BlendOp{BAdd, BAdd},
		SrcFac:    [2]BlendFac{BOne, BOne},
		DstFac:    [2]BlendFac{BZero, BZero},
	}
}

// Viewport defines the bounds of a viewport.
type Viewport struct {
	X, Y, Width, Height, Znear, Zfar float32
}

// Scissor defines a scissor rectangle.
type Scissor struct {
	X, Y, Width, Height int
}
