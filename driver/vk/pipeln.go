// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// pipeline implements driver.RenderPipeline.
type pipeline struct {
	d   *Driver
	pl  vk.Pipeline
	top driver.Topology
}

// b32 converts a bool to a VkBool32.
func b32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// NewRenderPipeline creates a new render pipeline.
// Viewport and scissor are dynamic states.
func (d *Driver) NewRenderPipeline(state *driver.PipelineState) (driver.RenderPipeline, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if err := d.checkFeatures(state); err != nil {
		return nil, err
	}
	pass := state.Pass.(*renderPass)
	info := vk.GraphicsPipelineCreateInfo{
		SType:             vk.StructureTypeGraphicsPipelineCreateInfo,
		Layout:            state.Descriptors.(*descSet).playout,
		RenderPass:        pass.pass,
		Subpass:           0,
		BasePipelineIndex: -1,
	}
	setGraphStages(state, &info)
	setGraphInput(state, &info)
	setGraphIA(state, &info)
	setGraphTess(state, &info)
	setGraphViewport(&info)
	setGraphRaster(state, &info)
	setGraphMS(pass, &info)
	setGraphDS(state, &info)
	setGraphBlend(state, pass, &info)
	setGraphDynamic(&info)

	pls := make([]vk.Pipeline, 1)
	err := checkResult(vk.CreateGraphicsPipelines(d.dev, nil, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pls))
	if err != nil {
		driver.Logger().Error("vulkan pipeline creation failed", "err", err)
		return nil, err
	}
	driver.Logger().Debug("vulkan pipeline created", "topology", state.Topology, "stages", state.Stages())
	return &pipeline{
		d:   d,
		pl:  pls[0],
		top: state.Topology,
	}, nil
}

// checkFeatures fails with driver.ErrUnsupported if state
// requires a feature that is not enabled.
func (d *Driver) checkFeatures(state *driver.PipelineState) error {
	var missing string
	switch {
	case state.Tesc != nil && d.feat.TessellationShader != vk.True:
		missing = "tessellation shaders"
	case state.Geom != nil && d.feat.GeometryShader != vk.True:
		missing = "geometry shaders"
	case state.Rasterizer.Fill == driver.FLines && d.feat.FillModeNonSolid != vk.True:
		missing = "non-solid fill"
	case state.Rasterizer.DepthClamp && d.feat.DepthClamp != vk.True:
		missing = "depth clamp"
	case state.DepthStencil.DepthBounds && d.feat.DepthBounds != vk.True:
		missing = "depth bounds"
	}
	if missing != "" {
		return fmt.Errorf("%w: %s", driver.ErrUnsupported, missing)
	}
	return nil
}

// setGraphStages sets the shader stages for graphics pipeline creation.
func setGraphStages(state *driver.PipelineState, info *vk.GraphicsPipelineCreateInfo) {
	var stgs []vk.PipelineShaderStageCreateInfo
	for _, x := range [...]struct {
		sh  driver.Shader
		stg vk.ShaderStageFlagBits
	}{
		{state.Vert, vk.ShaderStageVertexBit},
		{state.Tesc, vk.ShaderStageTessellationControlBit},
		{state.Tese, vk.ShaderStageTessellationEvaluationBit},
		{state.Geom, vk.ShaderStageGeometryBit},
		{state.Frag, vk.ShaderStageFragmentBit},
	} {
		if x.sh == nil {
			continue
		}
		stgs = append(stgs, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  x.stg,
			Module: x.sh.(*shader).mod,
			PName:  "main\x00",
		})
	}
	info.StageCount = uint32(len(stgs))
	info.PStages = stgs
}

// setGraphInput sets the vertex input state for graphics pipeline creation.
// Every binding of the layout advances per vertex.
func setGraphInput(state *driver.PipelineState, info *vk.GraphicsPipelineCreateInfo) {
	l := &state.VertexLayout
	bindings, strides := l.Bindings()
	binds := make([]vk.VertexInputBindingDescription, len(bindings))
	for i := range binds {
		binds[i] = vk.VertexInputBindingDescription{
			Binding:   uint32(bindings[i]),
			Stride:    uint32(strides[i]),
			InputRate: vk.VertexInputRateVertex,
		}
	}
	attrs := make([]vk.VertexInputAttributeDescription, l.Len())
	for i := range attrs {
		a := l.Attr(i)
		attrs[i] = vk.VertexInputAttributeDescription{
			Location: uint32(a.Location),
			Binding:  uint32(a.Binding),
			Format:   convFormat(a.Format),
			Offset:   uint32(a.Offset),
		}
	}
	info.PVertexInputState = &vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(binds)),
		PVertexBindingDescriptions:      binds,
		VertexAttributeDescriptionCount: uint32(len(attrs)),
		PVertexAttributeDescriptions:    attrs,
	}
}

// setGraphIA sets the input assembly state for graphics pipeline creation.
func setGraphIA(state *driver.PipelineState, info *vk.GraphicsPipelineCreateInfo) {
	top := convTopology(state.Topology)
	if state.Tesc != nil {
		top = vk.PrimitiveTopologyPatchList
	}
	info.PInputAssemblyState = &vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: top,
	}
}

// setGraphTess sets the tessellation state for graphics pipeline creation.
// Patches have as many control points as the primitives
// of the pipeline's topology.
func setGraphTess(state *driver.PipelineState, info *vk.GraphicsPipelineCreateInfo) {
	if state.Tesc == nil {
		return
	}
	var n uint32
	switch state.Topology {
	case driver.TPoint:
		n = 1
	case driver.TLine, driver.TLnStrip:
		n = 2
	default:
		n = 3
	}
	info.PTessellationState = &vk.PipelineTessellationStateCreateInfo{
		SType:              vk.StructureTypePipelineTessellationStateCreateInfo,
		PatchControlPoints: n,
	}
}

// setGraphViewport sets the viewport state for graphics pipeline creation.
func setGraphViewport(info *vk.GraphicsPipelineCreateInfo) {
	info.PViewportState = &vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
}

// setGraphRaster sets the rasterization state for graphics pipeline creation.
func setGraphRaster(state *driver.PipelineState, info *vk.GraphicsPipelineCreateInfo) {
	rs := &state.Rasterizer
	front := vk.FrontFaceCounterClockwise
	if rs.Clockwise {
		front = vk.FrontFaceClockwise
	}
	lw := rs.LineWidth
	if lw <= 0 {
		lw = 1
	}
	info.PRasterizationState = &vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        b32(rs.DepthClamp),
		PolygonMode:             convFillMode(rs.Fill),
		CullMode:                convCullMode(rs.Cull),
		FrontFace:               front,
		DepthBiasEnable:         b32(rs.DepthBias),
		DepthBiasConstantFactor: rs.BiasValue,
		DepthBiasClamp:          rs.BiasClamp,
		DepthBiasSlopeFactor:    rs.BiasSlope,
		LineWidth:               lw,
	}
}

// setGraphMS sets the multisample state for graphics pipeline creation.
// The sample count is that of the render pass.
func setGraphMS(pass *renderPass, info *vk.GraphicsPipelineCreateInfo) {
	info.PMultisampleState = &vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: convSamples(pass.desc.SampleCount),
	}
}

// setGraphDS sets the depth/stencil state for graphics pipeline creation.
func setGraphDS(state *driver.PipelineState, info *vk.GraphicsPipelineCreateInfo) {
	ds := &state.DepthStencil
	stencil := func(s *driver.StencilT) vk.StencilOpState {
		return vk.StencilOpState{
			FailOp:      convStencilOp(s.Fail),
			PassOp:      convStencilOp(s.Pass),
			DepthFailOp: convStencilOp(s.DepthFail),
			CompareOp:   convCmpFunc(s.Cmp),
			CompareMask: s.ReadMask,
			WriteMask:   s.WriteMask,
			Reference:   s.Ref,
		}
	}
	info.PDepthStencilState = &vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       b32(ds.DepthTest),
		DepthWriteEnable:      b32(ds.DepthWrite),
		DepthCompareOp:        convCmpFunc(ds.DepthCmp),
		DepthBoundsTestEnable: b32(ds.DepthBounds),
		StencilTestEnable:     b32(ds.StencilTest),
		Front:                 stencil(&ds.Front),
		Back:                  stencil(&ds.Back),
		MinDepthBounds:        ds.MinBound,
		MaxDepthBounds:        ds.MaxBound,
	}
}

// setGraphBlend sets the color blend state for graphics pipeline creation.
// Every color attachment uses the same blend parameters.
func setGraphBlend(state *driver.PipelineState, pass *renderPass, info *vk.GraphicsPipelineCreateInfo) {
	cb := &state.ColorBlend
	att := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         b32(cb.Blend),
		SrcColorBlendFactor: convBlendFac(cb.SrcFac[0]),
		DstColorBlendFactor: convBlendFac(cb.DstFac[0]),
		ColorBlendOp:        convBlendOp(cb.Op[0]),
		SrcAlphaBlendFactor: convBlendFac(cb.SrcFac[1]),
		DstAlphaBlendFactor: convBlendFac(cb.DstFac[1]),
		AlphaBlendOp:        convBlendOp(cb.Op[1]),
		ColorWriteMask:      convColorMask(cb.WriteMask),
	}
	atts := make([]vk.PipelineColorBlendAttachmentState, pass.ncolor)
	for i := range atts {
		atts[i] = att
	}
	info.PColorBlendState = &vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: uint32(len(atts)),
		PAttachments:    atts,
		BlendConstants:  cb.BlendColor,
	}
}

// setGraphDynamic sets the dynamic state for graphics pipeline creation.
func setGraphDynamic(info *vk.GraphicsPipelineCreateInfo) {
	dyn := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	info.PDynamicState = &vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dyn)),
		PDynamicStates:    dyn,
	}
}

// Topology returns the primitive topology of the pipeline.
func (p *pipeline) Topology() driver.Topology { return p.top }

// Destroy destroys the pipeline.
func (p *pipeline) Destroy() {
	if p == nil {
		return
	}
	if p.d != nil {
		vk.DestroyPipeline(p.d.dev, p.pl, nil)
	}
	*p = pipeline{}
}
