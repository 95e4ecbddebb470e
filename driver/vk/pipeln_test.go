// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// testState returns a pipeline state whose shaders, pass
// and descriptor set are not backed by Vulkan objects.
// It is only meant for the setGraph* functions.
func testState(t *testing.T) *driver.PipelineState {
	t.Helper()
	vl, err := driver.NewVertexLayout([]driver.VertexAttr{
		{Semantic: driver.Position, Format: driver.RGB32f, Binding: 0, Location: 0, Offset: 0},
		{Semantic: driver.TexCoord0, Format: driver.RG32f, Binding: 0, Location: 1, Offset: 12},
		{Semantic: driver.Color, Format: driver.RGBA8un, Binding: 1, Location: 2, Offset: 0},
	})
	if err != nil {
		t.Fatalf("driver.NewVertexLayout\nhave %v\nwant nil", err)
	}
	return &driver.PipelineState{
		Topology:     driver.TTriangle,
		VertexLayout: vl,
		Rasterizer:   driver.DefaultRasterizer(),
		ColorBlend:   driver.DefaultColorBlend(),
		DepthStencil: driver.DefaultDepthStencil(),
		Pass:         &renderPass{desc: driver.RenderPassDesc{SampleCount: 4}, ncolor: 2},
		Descriptors:  &descSet{},
		Vert:         &shader{},
		Frag:         &shader{},
	}
}

func TestSetGraphStages(t *testing.T) {
	state := testState(t)
	var info vk.GraphicsPipelineCreateInfo
	setGraphStages(state, &info)
	if info.StageCount != 2 || len(info.PStages) != 2 {
		t.Fatalf("setGraphStages: StageCount\nhave %d\nwant 2", info.StageCount)
	}
	if info.PStages[0].Stage != vk.ShaderStageVertexBit || info.PStages[1].Stage != vk.ShaderStageFragmentBit {
		t.Errorf("setGraphStages: stages\nhave %d, %d\nwant vertex, fragment", info.PStages[0].Stage, info.PStages[1].Stage)
	}
	if info.PStages[0].PName != "main\x00" {
		t.Errorf("setGraphStages: PName\nhave %q\nwant %q", info.PStages[0].PName, "main\x00")
	}
	state.Tesc, state.Tese, state.Geom = &shader{}, &shader{}, &shader{}
	setGraphStages(state, &info)
	if info.StageCount != 5 {
		t.Errorf("setGraphStages: StageCount\nhave %d\nwant 5", info.StageCount)
	}
}

func TestSetGraphInput(t *testing.T) {
	state := testState(t)
	var info vk.GraphicsPipelineCreateInfo
	setGraphInput(state, &info)
	in := info.PVertexInputState
	if in == nil {
		t.Fatal("setGraphInput: PVertexInputState\nhave nil\nwant non-nil")
	}
	if in.VertexBindingDescriptionCount != 2 {
		t.Errorf("setGraphInput: VertexBindingDescriptionCount\nhave %d\nwant 2", in.VertexBindingDescriptionCount)
	}
	if in.VertexAttributeDescriptionCount != 3 {
		t.Fatalf("setGraphInput: VertexAttributeDescriptionCount\nhave %d\nwant 3", in.VertexAttributeDescriptionCount)
	}
	a := in.PVertexAttributeDescriptions[1]
	if a.Location != 1 || a.Binding != 0 || a.Offset != 12 || a.Format != vk.FormatR32g32Sfloat {
		t.Errorf("setGraphInput: attribute 1\nhave %+v\nwant location 1, binding 0, offset 12, RG32f", a)
	}
	_, strides := state.VertexLayout.Bindings()
	for i, b := range in.PVertexBindingDescriptions {
		if b.Stride != uint32(strides[i]) || b.InputRate != vk.VertexInputRateVertex {
			t.Errorf("setGraphInput: binding %d\nhave %+v\nwant stride %d, per vertex", i, b, strides[i])
		}
	}
}

func TestSetGraphIA(t *testing.T) {
	state := testState(t)
	var info vk.GraphicsPipelineCreateInfo
	setGraphIA(state, &info)
	if x := info.PInputAssemblyState.Topology; x != vk.PrimitiveTopologyTriangleList {
		t.Errorf("setGraphIA: Topology\nhave %d\nwant %d", x, vk.PrimitiveTopologyTriangleList)
	}
	setGraphTess(state, &info)
	if info.PTessellationState != nil {
		t.Error("setGraphTess: PTessellationState\nhave non-nil\nwant nil")
	}

	state.Tesc, state.Tese = &shader{}, &shader{}
	for _, x := range [...]struct {
		top driver.Topology
		n   uint32
	}{
		{driver.TPoint, 1},
		{driver.TLine, 2},
		{driver.TLnStrip, 2},
		{driver.TTriangle, 3},
		{driver.TTriStrip, 3},
	} {
		state.Topology = x.top
		setGraphIA(state, &info)
		if y := info.PInputAssemblyState.Topology; y != vk.PrimitiveTopologyPatchList {
			t.Errorf("setGraphIA(tessellation): Topology\nhave %d\nwant %d", y, vk.PrimitiveTopologyPatchList)
		}
		setGraphTess(state, &info)
		if y := info.PTessellationState.PatchControlPoints; y != x.n {
			t.Errorf("setGraphTess(%d): PatchControlPoints\nhave %d\nwant %d", x.top, y, x.n)
		}
	}
}

func TestSetGraphRaster(t *testing.T) {
	state := testState(t)
	state.Rasterizer.Clockwise = true
	state.Rasterizer.LineWidth = 0
	state.Rasterizer.DepthBias = true
	state.Rasterizer.BiasValue = 2
	var info vk.GraphicsPipelineCreateInfo
	setGraphRaster(state, &info)
	rs := info.PRasterizationState
	if rs.FrontFace != vk.FrontFaceClockwise {
		t.Errorf("setGraphRaster: FrontFace\nhave %d\nwant %d", rs.FrontFace, vk.FrontFaceClockwise)
	}
	if rs.CullMode != vk.CullModeFlags(vk.CullModeBackBit) {
		t.Errorf("setGraphRaster: CullMode\nhave %d\nwant %d", rs.CullMode, vk.CullModeBackBit)
	}
	if rs.LineWidth != 1 {
		t.Errorf("setGraphRaster: LineWidth\nhave %f\nwant 1", rs.LineWidth)
	}
	if rs.DepthBiasEnable != vk.True || rs.DepthBiasConstantFactor != 2 {
		t.Errorf("setGraphRaster: depth bias\nhave %d, %f\nwant True, 2", rs.DepthBiasEnable, rs.DepthBiasConstantFactor)
	}
}

func TestSetGraphMSBlend(t *testing.T) {
	state := testState(t)
	pass := state.Pass.(*renderPass)
	var info vk.GraphicsPipelineCreateInfo
	setGraphMS(pass, &info)
	if x := info.PMultisampleState.RasterizationSamples; x != vk.SampleCount4Bit {
		t.Errorf("setGraphMS: RasterizationSamples\nhave %d\nwant %d", x, vk.SampleCount4Bit)
	}
	state.ColorBlend.Blend = true
	state.ColorBlend.BlendColor = [4]float32{0.25, 0.5, 0.75, 1}
	setGraphBlend(state, pass, &info)
	cb := info.PColorBlendState
	if cb.AttachmentCount != 2 || len(cb.PAttachments) != 2 {
		t.Fatalf("setGraphBlend: AttachmentCount\nhave %d\nwant 2", cb.AttachmentCount)
	}
	for i, a := range cb.PAttachments {
		if a.BlendEnable != vk.True || a.SrcColorBlendFactor != vk.BlendFactorOne || a.DstColorBlendFactor != vk.BlendFactorZero {
			t.Errorf("setGraphBlend: attachment %d\nhave %+v\nwant blend One/Zero", i, a)
		}
	}
	if cb.BlendConstants != state.ColorBlend.BlendColor {
		t.Errorf("setGraphBlend: BlendConstants\nhave %v\nwant %v", cb.BlendConstants, state.ColorBlend.BlendColor)
	}
}

func TestSetGraphDS(t *testing.T) {
	state := testState(t)
	var info vk.GraphicsPipelineCreateInfo
	setGraphDS(state, &info)
	ds := info.PDepthStencilState
	if ds.DepthTestEnable != vk.True || ds.DepthWriteEnable != vk.True || ds.DepthCompareOp != vk.CompareOpLess {
		t.Errorf("setGraphDS: depth\nhave %d, %d, %d\nwant True, True, Less", ds.DepthTestEnable, ds.DepthWriteEnable, ds.DepthCompareOp)
	}
	if ds.StencilTestEnable != vk.False {
		t.Errorf("setGraphDS: StencilTestEnable\nhave %d\nwant False", ds.StencilTestEnable)
	}
	if ds.Front.CompareMask != 0xff || ds.Back.WriteMask != 0xff {
		t.Errorf("setGraphDS: masks\nhave %d, %d\nwant 255, 255", ds.Front.CompareMask, ds.Back.WriteMask)
	}
}

func TestSetGraphDynamic(t *testing.T) {
	var info vk.GraphicsPipelineCreateInfo
	setGraphViewport(&info)
	if info.PViewportState.ViewportCount != 1 || info.PViewportState.ScissorCount != 1 {
		t.Error("setGraphViewport: counts\nhave non-1\nwant 1, 1")
	}
	setGraphDynamic(&info)
	dyn := info.PDynamicState.PDynamicStates
	if len(dyn) != 2 || dyn[0] != vk.DynamicStateViewport || dyn[1] != vk.DynamicStateScissor {
		t.Errorf("setGraphDynamic: PDynamicStates\nhave %v\nwant viewport, scissor", dyn)
	}
}

func TestCheckFeatures(t *testing.T) {
	state := testState(t)
	d := &Driver{}
	if err := d.checkFeatures(state); err != nil {
		t.Errorf("d.checkFeatures(basic)\nhave %v\nwant nil", err)
	}
	state.Geom = &shader{}
	if err := d.checkFeatures(state); !errors.Is(err, driver.ErrUnsupported) {
		t.Errorf("d.checkFeatures(geometry)\nhave %v\nwant %v", err, driver.ErrUnsupported)
	}
	d.feat.GeometryShader = vk.True
	if err := d.checkFeatures(state); err != nil {
		t.Errorf("d.checkFeatures(geometry enabled)\nhave %v\nwant nil", err)
	}
	state.Rasterizer.Fill = driver.FLines
	if err := d.checkFeatures(state); !errors.Is(err, driver.ErrUnsupported) {
		t.Errorf("d.checkFeatures(lines)\nhave %v\nwant %v", err, driver.ErrUnsupported)
	}
}

func TestRenderPipelineInvalid(t *testing.T) {
	state := testState(t)
	state.Vert = nil
	if _, err := tDrv.NewRenderPipeline(state); !errors.Is(err, driver.ErrPipeline) {
		t.Errorf("tDrv.NewRenderPipeline(no vertex shader)\nhave %v\nwant %v", err, driver.ErrPipeline)
	}
}
