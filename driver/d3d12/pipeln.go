// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// RenderTargetBlendDesc mirrors
// D3D12_RENDER_TARGET_BLEND_DESC.
type RenderTargetBlendDesc struct {
	BlendEnable           bool
	SrcBlend              Blend
	DestBlend             Blend
	BlendOp               BlendOp
	SrcBlendAlpha         Blend
	DestBlendAlpha        Blend
	BlendOpAlpha          BlendOp
	RenderTargetWriteMask ColorWriteEnable
}

// BlendDesc mirrors D3D12_BLEND_DESC.
type BlendDesc struct {
	AlphaToCoverageEnable  bool
	IndependentBlendEnable bool
	RenderTarget           [SimultaneousRenderTargetCount]RenderTargetBlendDesc
}

// RasterizerDesc mirrors D3D12_RASTERIZER_DESC.
type RasterizerDesc struct {
	FillMode              FillMode
	CullMode              CullMode
	FrontCounterClockwise bool
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       bool
	MultisampleEnable     bool
}

// DepthStencilOpDesc mirrors D3D12_DEPTH_STENCILOP_DESC.
type DepthStencilOpDesc struct {
	StencilFailOp      StencilOp
	StencilDepthFailOp StencilOp
	StencilPassOp      StencilOp
	StencilFunc        ComparisonFunc
}

// DepthStencilDesc mirrors D3D12_DEPTH_STENCIL_DESC1.
type DepthStencilDesc struct {
	DepthEnable           bool
	DepthWriteMask        DepthWriteMask
	DepthFunc             ComparisonFunc
	StencilEnable         bool
	StencilReadMask       uint8
	StencilWriteMask      uint8
	FrontFace             DepthStencilOpDesc
	BackFace              DepthStencilOpDesc
	DepthBoundsTestEnable bool
}

// SampleDesc mirrors DXGI_SAMPLE_DESC.
type SampleDesc struct {
	Count   uint32
	Quality uint32
}

// GraphicsPipelineDesc mirrors
// D3D12_GRAPHICS_PIPELINE_STATE_DESC.
// The shader fields hold the compiled shaders of each
// stage, or nil for unused stages.
type GraphicsPipelineDesc struct {
	RootSignature         RootSignatureDesc
	VS, HS, DS, GS, PS    driver.Shader
	Blend                 BlendDesc
	SampleMask            uint32
	Rasterizer            RasterizerDesc
	DepthStencil          DepthStencilDesc
	InputLayout           []InputElementDesc
	PrimitiveTopologyType PrimitiveTopologyType
	NumRenderTargets      uint32
	RTVFormats            [SimultaneousRenderTargetCount]Format
	DSVFormat             Format
	SampleDesc            SampleDesc
}

// Pipeline is a planned render pipeline.
// Besides the pipeline state description, it holds the
// state that D3D12 sets on the command list instead.
type Pipeline struct {
	Desc GraphicsPipelineDesc
	// PrimitiveTopology is set when the pipeline is bound.
	PrimitiveTopology PrimitiveTopology
	BlendFactor       [4]float32
	StencilRef        uint32
	DepthBounds       [2]float32
	// Strides holds the stride of each vertex buffer
	// slot used by the input layout.
	Strides map[int]uint32

	top driver.Topology
}

// NewPipeline plans a render pipeline from state.
// The steps follow those of pipeline creation: root
// signature, input layout, fixed-function state and
// shader stages.
func NewPipeline(state *driver.PipelineState) (*Pipeline, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	pass := state.Pass.Desc()
	rts, err := PlanRenderTargets(&pass)
	if err != nil {
		return nil, err
	}
	input, err := PlanInputLayout(&state.VertexLayout)
	if err != nil {
		return nil, err
	}
	tess := state.Tesc != nil
	desc := GraphicsPipelineDesc{
		RootSignature:         PlanRootSignature(state.Descriptors.Descriptors()),
		VS:                    state.Vert,
		HS:                    state.Tesc,
		DS:                    state.Tese,
		GS:                    state.Geom,
		PS:                    state.Frag,
		SampleMask:            DefaultSampleMask,
		Rasterizer:            planRaster(&state.Rasterizer, pass.Multisampled()),
		DepthStencil:          planDS(&state.DepthStencil),
		InputLayout:           input,
		PrimitiveTopologyType: ConvTopologyType(state.Topology, tess),
		NumRenderTargets:      rts.RTVHeap.NumDescriptors,
		DSVFormat:             rts.DSVFormat,
		SampleDesc:            SampleDesc{Count: uint32(pass.SampleCount)},
	}
	planBlend(&state.ColorBlend, int(desc.NumRenderTargets), &desc.Blend)
	for i := range desc.NumRenderTargets {
		desc.RTVFormats[i] = rts.RTVFormat
	}
	p := &Pipeline{
		Desc:              desc,
		PrimitiveTopology: ConvTopology(state.Topology, tess),
		BlendFactor:       state.ColorBlend.BlendColor,
		StencilRef:        state.DepthStencil.Front.Ref,
		Strides:           make(map[int]uint32),
		top:               state.Topology,
	}
	if state.DepthStencil.DepthBounds {
		p.DepthBounds = [2]float32{state.DepthStencil.MinBound, state.DepthStencil.MaxBound}
	} else {
		p.DepthBounds = [2]float32{0, 1}
	}
	bindings, strides := state.VertexLayout.Bindings()
	for i, b := range bindings {
		p.Strides[b] = uint32(strides[i])
	}
	driver.Logger().Debug("d3d12 pipeline planned", "topology", state.Topology, "stages", state.Stages(), "params", len(desc.RootSignature.Parameters))
	return p, nil
}

// planRaster converts the rasterizer state.
// D3D12 takes an integer depth bias; the constant factor
// is truncated.
func planRaster(rs *driver.RasterizerState, ms bool) RasterizerDesc {
	r := RasterizerDesc{
		FillMode:              ConvFillMode(rs.Fill),
		CullMode:              ConvCullMode(rs.Cull),
		FrontCounterClockwise: !rs.Clockwise,
		DepthClipEnable:       !rs.DepthClamp,
		MultisampleEnable:     ms,
	}
	if rs.DepthBias {
		r.DepthBias = int32(rs.BiasValue)
		r.DepthBiasClamp = rs.BiasClamp
		r.SlopeScaledDepthBias = rs.BiasSlope
	}
	return r
}

// planDS converts the depth/stencil state.
// D3D12 has a single pair of stencil masks and a single
// reference value, so those of the front face are used.
func planDS(ds *driver.DepthStencilState) DepthStencilDesc {
	face := func(s *driver.StencilT) DepthStencilOpDesc {
		return DepthStencilOpDesc{
			StencilFailOp:      ConvStencilOp(s.Fail),
			StencilDepthFailOp: ConvStencilOp(s.DepthFail),
			StencilPassOp:      ConvStencilOp(s.Pass),
			StencilFunc:        ConvCmpFunc(s.Cmp),
		}
	}
	d := DepthStencilDesc{
		DepthEnable:           ds.DepthTest,
		DepthWriteMask:        DepthWriteMaskZero,
		DepthFunc:             ConvCmpFunc(ds.DepthCmp),
		StencilEnable:         ds.StencilTest,
		StencilReadMask:       uint8(ds.Front.ReadMask),
		StencilWriteMask:      uint8(ds.Front.WriteMask),
		FrontFace:             face(&ds.Front),
		BackFace:              face(&ds.Back),
		DepthBoundsTestEnable: ds.DepthBounds,
	}
	if ds.DepthWrite {
		d.DepthWriteMask = DepthWriteMaskAll
	}
	return d
}

// planBlend converts the color blend state for n render
// targets. Every target uses the same parameters.
func planBlend(cb *driver.ColorBlendState, n int, bd *BlendDesc) {
	rt := RenderTargetBlendDesc{
		BlendEnable:           cb.Blend,
		SrcBlend:              ConvBlendFac(cb.SrcFac[0]),
		DestBlend:             ConvBlendFac(cb.DstFac[0]),
		BlendOp:               ConvBlendOp(cb.Op[0]),
		SrcBlendAlpha:         ConvBlendFac(cb.SrcFac[1]),
		DestBlendAlpha:        ConvBlendFac(cb.DstFac[1]),
		BlendOpAlpha:          ConvBlendOp(cb.Op[1]),
		RenderTargetWriteMask: ConvColorMask(cb.WriteMask),
	}
	for i := range n {
		bd.RenderTarget[i] = rt
	}
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

// String returns a short description of the pipeline.
func (p *Pipeline) String() string {
	return fmt.Sprintf("d3d12.Pipeline{topology: %d, targets: %d, params: %d}", p.PrimitiveTopology, p.Desc.NumRenderTargets, len(p.Desc.RootSignature.Parameters))
}
