// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"errors"
	"testing"

	"gviegas/gp3d/driver"
)

func testState(t *testing.T) *driver.PipelineState {
	t.Helper()
	l, err := driver.NewVertexLayout([]driver.VertexAttr{
		{Semantic: driver.Position, Format: driver.RGB32f, Binding: 0, Location: 0, Offset: 0},
		{Semantic: driver.TexCoord0, Format: driver.RG32f, Binding: 1, Location: 1, Offset: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	state := &driver.PipelineState{
		Topology:     driver.TTriangle,
		VertexLayout: l,
		Rasterizer:   driver.DefaultRasterizer(),
		ColorBlend:   driver.DefaultColorBlend(),
		DepthStencil: driver.DefaultDepthStencil(),
		Pass:         newPass(2, 4),
		Descriptors:  newDescSet(testDescriptors()),
		Vert:         fakeShader{},
		Frag:         fakeShader{},
	}
	state.ColorBlend.Blend = true
	state.ColorBlend.SrcFac = [2]driver.BlendFac{driver.BSrcAlpha, driver.BOne}
	state.ColorBlend.DstFac = [2]driver.BlendFac{driver.BInvSrcAlpha, driver.BZero}
	state.ColorBlend.BlendColor = [4]float32{0.25, 0.5, 0.75, 1}
	state.Rasterizer.Cull = driver.CBack
	state.Rasterizer.Clockwise = true
	state.DepthStencil.DepthTest = true
	state.DepthStencil.DepthWrite = true
	state.DepthStencil.DepthCmp = driver.CLess
	state.DepthStencil.Front.Ref = 7
	return state
}

func TestNewPipeline(t *testing.T) {
	state := testState(t)
	p, err := NewPipeline(state)
	if err != nil {
		t.Fatalf("NewPipeline:\nhave %v\nwant nil", err)
	}
	defer p.Destroy()

	d := &p.Desc
	if have := len(d.RootSignature.Parameters); have != 4 {
		t.Fatalf("NewPipeline: root parameters:\nhave %d\nwant 4", have)
	}
	if d.VS == nil || d.PS == nil || d.HS != nil || d.DS != nil || d.GS != nil {
		t.Fatalf("NewPipeline: shaders:\nhave %v %v %v %v %v\nwant VS and PS only", d.VS, d.HS, d.DS, d.GS, d.PS)
	}
	if d.NumRenderTargets != 2 {
		t.Fatalf("NewPipeline: NumRenderTargets:\nhave %d\nwant 2", d.NumRenderTargets)
	}
	for i, f := range d.RTVFormats {
		want := FormatUnknown
		if i < 2 {
			want = FormatR8G8B8A8Unorm
		}
		if f != want {
			t.Fatalf("NewPipeline: RTVFormats[%d]:\nhave %d\nwant %d", i, f, want)
		}
	}
	if d.DSVFormat != FormatD24UnormS8Uint {
		t.Fatalf("NewPipeline: DSVFormat:\nhave %d\nwant %d", d.DSVFormat, FormatD24UnormS8Uint)
	}
	if d.SampleDesc != (SampleDesc{Count: 4}) {
		t.Fatalf("NewPipeline: SampleDesc:\nhave %+v\nwant {Count: 4}", d.SampleDesc)
	}
	if d.SampleMask != DefaultSampleMask {
		t.Fatalf("NewPipeline: SampleMask:\nhave %#x\nwant %#x", d.SampleMask, uint32(DefaultSampleMask))
	}
	if d.PrimitiveTopologyType != TopologyTypeTriangle || p.PrimitiveTopology != TopologyTriangleList {
		t.Fatalf("NewPipeline: topology:\nhave %d/%d\nwant %d/%d", d.PrimitiveTopologyType, p.PrimitiveTopology, TopologyTypeTriangle, TopologyTriangleList)
	}
	if p.Topology() != driver.TTriangle {
		t.Fatalf("Pipeline.Topology:\nhave %d\nwant %d", p.Topology(), driver.TTriangle)
	}
	if len(d.InputLayout) != 2 || d.InputLayout[1].SemanticName != "TEXCOORD" || d.InputLayout[1].InputSlot != 1 {
		t.Fatalf("NewPipeline: InputLayout:\nhave %+v\nwant POSITION in slot 0 and TEXCOORD in slot 1", d.InputLayout)
	}
	if p.Strides[0] != 12 || p.Strides[1] != 8 {
		t.Fatalf("NewPipeline: Strides:\nhave %v\nwant map[0:12 1:8]", p.Strides)
	}

	rs := d.Rasterizer
	if rs.CullMode != CullBack || rs.FrontCounterClockwise || !rs.DepthClipEnable || !rs.MultisampleEnable {
		t.Fatalf("NewPipeline: Rasterizer:\nhave %+v\nwant back culling, clockwise, depth clip and multisample", rs)
	}
	ds := d.DepthStencil
	if !ds.DepthEnable || ds.DepthWriteMask != DepthWriteMaskAll || ds.DepthFunc != ComparisonLess {
		t.Fatalf("NewPipeline: DepthStencil:\nhave %+v\nwant depth test/write with less", ds)
	}
	if p.StencilRef != 7 {
		t.Fatalf("NewPipeline: StencilRef:\nhave %d\nwant 7", p.StencilRef)
	}
	if p.DepthBounds != [2]float32{0, 1} {
		t.Fatalf("NewPipeline: DepthBounds:\nhave %v\nwant [0 1]", p.DepthBounds)
	}

	rt := RenderTargetBlendDesc{
		BlendEnable:           true,
		SrcBlend:              BlendSrcAlpha,
		DestBlend:             BlendInvSrcAlpha,
		BlendOp:               BlendOpAdd,
		SrcBlendAlpha:         BlendOne,
		DestBlendAlpha:        BlendZero,
		BlendOpAlpha:          BlendOpAdd,
		RenderTargetWriteMask: ColorWriteAll,
	}
	for i, x := range d.Blend.RenderTarget {
		want := RenderTargetBlendDesc{}
		if i < 2 {
			want = rt
		}
		if x != want {
			t.Fatalf("NewPipeline: Blend.RenderTarget[%d]:\nhave %+v\nwant %+v", i, x, want)
		}
	}
	if p.BlendFactor != [4]float32{0.25, 0.5, 0.75, 1} {
		t.Fatalf("NewPipeline: BlendFactor:\nhave %v\nwant [0.25 0.5 0.75 1]", p.BlendFactor)
	}
}

func TestNewPipelineTess(t *testing.T) {
	state := testState(t)
	state.Topology = driver.TLine
	state.Tesc = fakeShader{}
	state.Tese = fakeShader{}
	p, err := NewPipeline(state)
	if err != nil {
		t.Fatalf("NewPipeline:\nhave %v\nwant nil", err)
	}
	if p.Desc.HS == nil || p.Desc.DS == nil {
		t.Fatal("NewPipeline: HS and DS must be set")
	}
	if p.Desc.PrimitiveTopologyType != TopologyTypePatch {
		t.Fatalf("NewPipeline: PrimitiveTopologyType:\nhave %d\nwant %d", p.Desc.PrimitiveTopologyType, TopologyTypePatch)
	}
	if p.PrimitiveTopology != TopologyPatchList1+1 {
		t.Fatalf("NewPipeline: PrimitiveTopology:\nhave %d\nwant %d", p.PrimitiveTopology, TopologyPatchList1+1)
	}
}

func TestNewPipelineInvalid(t *testing.T) {
	state := testState(t)
	state.Vert = nil
	if _, err := NewPipeline(state); !errors.Is(err, driver.ErrPipeline) {
		t.Fatalf("NewPipeline(no vertex shader):\nhave %v\nwant %v", err, driver.ErrPipeline)
	}

	state = testState(t)
	l, err := driver.NewVertexLayout([]driver.VertexAttr{{Semantic: driver.Color, Format: driver.RGB16f}})
	if err != nil {
		t.Fatal(err)
	}
	state.VertexLayout = l
	if _, err := NewPipeline(state); !errors.Is(err, driver.ErrUnsupported) {
		t.Fatalf("NewPipeline(RGB16f vertex):\nhave %v\nwant %v", err, driver.ErrUnsupported)
	}
}
