// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mtl

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// VertexAttributeDescriptor mirrors
// MTLVertexAttributeDescriptor.
type VertexAttributeDescriptor struct {
	Format      VertexFormat
	Offset      uint
	BufferIndex uint
}

// VertexBufferLayoutDescriptor mirrors
// MTLVertexBufferLayoutDescriptor.
type VertexBufferLayoutDescriptor struct {
	Stride       uint
	StepFunction VertexStepFunction
	StepRate     uint
}

// VertexDescriptor mirrors MTLVertexDescriptor.
// Attributes are keyed by shader location and layouts
// by buffer index.
type VertexDescriptor struct {
	Attributes map[int]VertexAttributeDescriptor
	Layouts    map[int]VertexBufferLayoutDescriptor
}

// PlanVertexDescriptor translates a vertex layout.
// It fails with driver.ErrUnsupported if an attribute
// format has no vertex format or if a binding has no
// buffer index.
func PlanVertexDescriptor(l *driver.VertexLayout) (VertexDescriptor, error) {
	vd := VertexDescriptor{
		Attributes: make(map[int]VertexAttributeDescriptor, l.Len()),
		Layouts:    make(map[int]VertexBufferLayoutDescriptor),
	}
	for _, a := range l.Attrs() {
		f := ConvVertexFormat(a.Format)
		if f == VertexFormatInvalid {
			return VertexDescriptor{}, fmt.Errorf("%w: vertex format %v", driver.ErrUnsupported, a.Format)
		}
		idx := VertexBufferIndex(a.Binding)
		if idx < 0 {
			return VertexDescriptor{}, fmt.Errorf("%w: vertex binding %d", driver.ErrUnsupported, a.Binding)
		}
		vd.Attributes[a.Location] = VertexAttributeDescriptor{
			Format:      f,
			Offset:      uint(a.Offset),
			BufferIndex: uint(idx),
		}
	}
	bindings, strides := l.Bindings()
	for i, b := range bindings {
		vd.Layouts[VertexBufferIndex(b)] = VertexBufferLayoutDescriptor{
			Stride:       uint(strides[i]),
			StepFunction: StepFunctionPerVertex,
			StepRate:     1,
		}
	}
	return vd, nil
}

// ColorAttachmentDescriptor mirrors
// MTLRenderPipelineColorAttachmentDescriptor.
type ColorAttachmentDescriptor struct {
	PixelFormat                 PixelFormat
	BlendingEnabled             bool
	SourceRGBBlendFactor        BlendFactor
	DestinationRGBBlendFactor   BlendFactor
	RGBBlendOperation           BlendOperation
	SourceAlphaBlendFactor      BlendFactor
	DestinationAlphaBlendFactor BlendFactor
	AlphaBlendOperation         BlendOperation
	WriteMask                   ColorWriteMask
}

// RenderPipelineDescriptor mirrors
// MTLRenderPipelineDescriptor.
type RenderPipelineDescriptor struct {
	VertexFunction               driver.Shader
	FragmentFunction             driver.Shader
	VertexDescriptor             VertexDescriptor
	ColorAttachments             []ColorAttachmentDescriptor
	DepthAttachmentPixelFormat   PixelFormat
	StencilAttachmentPixelFormat PixelFormat
	RasterSampleCount            uint
	InputPrimitiveTopology       PrimitiveTopologyClass
}

// StencilDescriptor mirrors MTLStencilDescriptor.
type StencilDescriptor struct {
	StencilCompareFunction    CompareFunction
	StencilFailureOperation   StencilOperation
	DepthFailureOperation     StencilOperation
	DepthStencilPassOperation StencilOperation
	ReadMask                  uint32
	WriteMask                 uint32
}

// DepthStencilDescriptor mirrors MTLDepthStencilDescriptor.
// The stencil descriptors are nil when the stencil test
// is disabled.
type DepthStencilDescriptor struct {
	DepthCompareFunction CompareFunction
	DepthWriteEnabled    bool
	FrontFaceStencil     *StencilDescriptor
	BackFaceStencil      *StencilDescriptor
}

// DepthBias holds the arguments of
// setDepthBias:slopeScale:clamp:.
type DepthBias struct {
	Bias, SlopeScale, Clamp float32
}

// Pipeline is a planned render pipeline.
// Metal splits pipeline state in three: the render
// pipeline state, the depth/stencil state and the state
// that is set on the render command encoder.
type Pipeline struct {
	Desc         RenderPipelineDescriptor
	DepthStencil DepthStencilDescriptor

	PrimitiveType PrimitiveType
	CullMode      CullMode
	Winding       Winding
	FillMode      TriangleFillMode
	ClipMode      DepthClipMode
	DepthBias     DepthBias
	BlendColor    [4]float32
	// StencilRefs holds the front and back reference
	// values.
	StencilRefs [2]uint32

	top driver.Topology
}

// NewPipeline plans a render pipeline from state.
// Metal has neither geometry shaders nor a depth bounds
// test, and its tessellation is driven by compute
// kernels, so pipelines using any of these fail with
// driver.ErrUnsupported.
func NewPipeline(state *driver.PipelineState) (*Pipeline, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	switch {
	case state.Tesc != nil:
		return nil, fmt.Errorf("%w: tessellation stages", driver.ErrUnsupported)
	case state.Geom != nil:
		return nil, fmt.Errorf("%w: geometry stage", driver.ErrUnsupported)
	case state.DepthStencil.DepthBounds:
		return nil, fmt.Errorf("%w: depth bounds test", driver.ErrUnsupported)
	}
	pass := state.Pass.Desc()
	if _, err := PlanRenderPass(&pass); err != nil {
		return nil, err
	}
	vd, err := PlanVertexDescriptor(&state.VertexLayout)
	if err != nil {
		return nil, err
	}
	desc := RenderPipelineDescriptor{
		VertexFunction:         state.Vert,
		FragmentFunction:       state.Frag,
		VertexDescriptor:       vd,
		ColorAttachments:       planBlend(&state.ColorBlend, ConvPixelFormat(pass.ColorFormat), len(pass.Targets())),
		RasterSampleCount:      uint(pass.SampleCount),
		InputPrimitiveTopology: ConvTopologyClass(state.Topology),
	}
	if f := pass.DepthStencilFormat; f != driver.FUndefined {
		pf := ConvPixelFormat(f)
		if f.HasDepth() {
			desc.DepthAttachmentPixelFormat = pf
		}
		if f.HasStencil() {
			desc.StencilAttachmentPixelFormat = pf
		}
	}
	rs := &state.Rasterizer
	p := &Pipeline{
		Desc:          desc,
		DepthStencil:  planDS(&state.DepthStencil),
		PrimitiveType: ConvPrimitiveType(state.Topology),
		CullMode:      ConvCullMode(rs.Cull),
		Winding:       ConvWinding(rs.Clockwise),
		FillMode:      ConvFillMode(rs.Fill),
		ClipMode:      DepthClipModeClip,
		BlendColor:    state.ColorBlend.BlendColor,
		StencilRefs:   [2]uint32{state.DepthStencil.Front.Ref, state.DepthStencil.Back.Ref},
		top:           state.Topology,
	}
	if rs.DepthClamp {
		p.ClipMode = DepthClipModeClamp
	}
	if rs.DepthBias {
		p.DepthBias = DepthBias{Bias: rs.BiasValue, SlopeScale: rs.BiasSlope, Clamp: rs.BiasClamp}
	}
	driver.Logger().Debug("mtl pipeline planned", "topology", state.Topology, "stages", state.Stages(), "attachments", len(desc.ColorAttachments))
	return p, nil
}

func planBlend(cb *driver.ColorBlendState, pf PixelFormat, n int) []ColorAttachmentDescriptor {
	cas := make([]ColorAttachmentDescriptor, n)
	for i := range cas {
		cas[i] = ColorAttachmentDescriptor{
			PixelFormat:                 pf,
			BlendingEnabled:             cb.Blend,
			SourceRGBBlendFactor:        ConvBlendFac(cb.SrcFac[0]),
			DestinationRGBBlendFactor:   ConvBlendFac(cb.DstFac[0]),
			RGBBlendOperation:           ConvBlendOp(cb.Op[0]),
			SourceAlphaBlendFactor:      ConvBlendFac(cb.SrcFac[1]),
			DestinationAlphaBlendFactor: ConvBlendFac(cb.DstFac[1]),
			AlphaBlendOperation:         ConvBlendOp(cb.Op[1]),
			WriteMask:                   ConvColorMask(cb.WriteMask),
		}
	}
	return cas
}

// planDS converts the depth/stencil state.
// Metal has no depth test switch: a disabled test always
// passes and never writes.
func planDS(ds *driver.DepthStencilState) DepthStencilDescriptor {
	d := DepthStencilDescriptor{DepthCompareFunction: CompareFunctionAlways}
	if ds.DepthTest {
		d.DepthCompareFunction = ConvCmpFunc(ds.DepthCmp)
		d.DepthWriteEnabled = ds.DepthWrite
	}
	if ds.StencilTest {
		face := func(s *driver.StencilT) *StencilDescriptor {
			return &StencilDescriptor{
				StencilCompareFunction:    ConvCmpFunc(s.Cmp),
				StencilFailureOperation:   ConvStencilOp(s.Fail),
				DepthFailureOperation:     ConvStencilOp(s.DepthFail),
				DepthStencilPassOperation: ConvStencilOp(s.Pass),
				ReadMask:                  s.ReadMask,
				WriteMask:                 s.WriteMask,
			}
		}
		d.FrontFaceStencil = face(&ds.Front)
		d.BackFaceStencil = face(&ds.Back)
	}
	return d
}

// Topology returns the primitive topology of the pipeline.
func (p *Pipeline) Topology() driver.Topology { return p.top }

// Destroy releases the pipeline description.
func (p *Pipeline) Destroy() {
	if p == nil {
		return
	}
	*p = Pipeline{}
}
