// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"testing"

	"gviegas/gp3d/driver"
)

func TestConvFormat(t *testing.T) {
	// DXGI_FORMAT enumerants.
	want := map[driver.Format]uint32{
		driver.FUndefined: 0,
		driver.R8un:       61,
		driver.R16un:      56,
		driver.R16f:       54,
		driver.R32ui:      42,
		driver.R32f:       41,
		driver.RG8un:      49,
		driver.RG16un:     35,
		driver.RG16f:      34,
		driver.RG32ui:     17,
		driver.RG32f:      16,
		driver.RGB8un:     0,
		driver.RGB16un:    0,
		driver.RGB16f:     0,
		driver.RGB32ui:    7,
		driver.RGB32f:     6,
		driver.BGRA8un:    87,
		driver.RGBA8un:    28,
		driver.RGBA16un:   11,
		driver.RGBA16f:    10,
		driver.RGBA32ui:   3,
		driver.RGBA32f:    2,
		driver.D16un:      55,
		driver.X8D24un:    45,
		driver.D32f:       40,
		driver.S8ui:       45,
		driver.D16unS8ui:  45,
		driver.D24unS8ui:  45,
		driver.D32fS8ui:   20,
	}
	if len(want) != driver.FormatN {
		t.Fatalf("len(want):\nhave %d\nwant %d", len(want), driver.FormatN)
	}
	for f, x := range want {
		if have := ConvFormat(f); uint32(have) != x {
			t.Fatalf("ConvFormat(%v):\nhave %d\nwant %d", f, have, x)
		}
		if have, want := Supported(f), f == driver.FUndefined || x != 0; have != want {
			t.Fatalf("Supported(%v):\nhave %t\nwant %t", f, have, want)
		}
	}
	if have := ConvFormat(driver.Format(driver.FormatN)); have != FormatUnknown {
		t.Fatalf("ConvFormat(FormatN):\nhave %d\nwant %d", have, FormatUnknown)
	}
}

func TestDepthFormats(t *testing.T) {
	for _, x := range [...]struct {
		f         driver.Format
		res, view Format
	}{
		{driver.D16un, FormatR16Typeless, FormatR16Unorm},
		{driver.D32f, FormatR32Typeless, FormatR32Float},
		{driver.D24unS8ui, FormatR24G8Typeless, FormatR24UnormX8Typeless},
		{driver.D32fS8ui, FormatR32G8X24Typeless, FormatR32FloatX8X24Typeless},
		{driver.RGBA8un, FormatR8G8B8A8Unorm, FormatR8G8B8A8Unorm},
	} {
		if have := ResourceFormat(x.f, driver.USampled|driver.UDepthStencilAttachment); have != x.res {
			t.Fatalf("ResourceFormat(%v, sampled):\nhave %d\nwant %d", x.f, have, x.res)
		}
		if have := ResourceFormat(x.f, driver.UDepthStencilAttachment); have != ConvFormat(x.f) {
			t.Fatalf("ResourceFormat(%v, not sampled):\nhave %d\nwant %d", x.f, have, ConvFormat(x.f))
		}
		if have := ViewFormat(x.f); have != x.view {
			t.Fatalf("ViewFormat(%v):\nhave %d\nwant %d", x.f, have, x.view)
		}
	}
}

func TestConvSemantic(t *testing.T) {
	want := [driver.SemanticN]Semantic{
		{"POSITION", 0}, {"NORMAL", 0}, {"COLOR", 0}, {"TANGENT", 0}, {"BINORMAL", 0},
		{"TEXCOORD", 0}, {"TEXCOORD", 1}, {"TEXCOORD", 2}, {"TEXCOORD", 3},
		{"TEXCOORD", 4}, {"TEXCOORD", 5}, {"TEXCOORD", 6}, {"TEXCOORD", 7},
	}
	for i, x := range want {
		if have := ConvSemantic(driver.Semantic(i)); have != x {
			t.Fatalf("ConvSemantic(%d):\nhave %v\nwant %v", i, have, x)
		}
	}
}

// checkTable checks that conv maps each of the n
// enumerators to want, which must have n entries.
func checkTable[T comparable](t *testing.T, name string, n int, want []T, conv func(int) T) {
	t.Helper()
	if len(want) != n {
		t.Fatalf("%s: len(want):\nhave %d\nwant %d", name, len(want), n)
	}
	for i := range n {
		if have := conv(i); have != want[i] {
			t.Fatalf("%s(%d):\nhave %v\nwant %v", name, i, have, want[i])
		}
	}
}

func TestStateTables(t *testing.T) {
	checkTable(t, "ConvFillMode", driver.FillModeN, []FillMode{3, 2},
		func(i int) FillMode { return ConvFillMode(driver.FillMode(i)) })
	checkTable(t, "ConvCullMode", driver.CullModeN, []CullMode{1, 2, 3},
		func(i int) CullMode { return ConvCullMode(driver.CullMode(i)) })
	checkTable(t, "ConvCmpFunc", driver.CmpFuncN, []ComparisonFunc{1, 2, 3, 4, 5, 6, 7, 8},
		func(i int) ComparisonFunc { return ConvCmpFunc(driver.CmpFunc(i)) })
	checkTable(t, "ConvStencilOp", driver.StencilOpN, []StencilOp{1, 2, 3, 4, 5, 6, 7, 8},
		func(i int) StencilOp { return ConvStencilOp(driver.StencilOp(i)) })
	checkTable(t, "ConvBlendOp", driver.BlendOpN, []BlendOp{1, 2, 3, 4, 5},
		func(i int) BlendOp { return ConvBlendOp(driver.BlendOp(i)) })
	checkTable(t, "ConvBlendFac", driver.BlendFacN,
		[]Blend{1, 2, 3, 4, 9, 10, 5, 6, 7, 8, 14, 15, 20, 21, 11, 16, 17, 18, 19},
		func(i int) Blend { return ConvBlendFac(driver.BlendFac(i)) })
	checkTable(t, "ConvAddrMode", driver.AddrModeN, []TextureAddressMode{1, 2, 3, 4, 5},
		func(i int) TextureAddressMode { return ConvAddrMode(driver.AddrMode(i)) })
	checkTable(t, "ConvTopology", driver.TopologyN, []PrimitiveTopology{1, 2, 3, 4, 5},
		func(i int) PrimitiveTopology { return ConvTopology(driver.Topology(i), false) })
	checkTable(t, "ConvTopologyType", driver.TopologyN, []PrimitiveTopologyType{1, 2, 2, 3, 3},
		func(i int) PrimitiveTopologyType { return ConvTopologyType(driver.Topology(i), false) })
	checkTable(t, "ConvBufferState", driver.BufferUsageN, []ResourceStates{0x1, 0x2, 0x1},
		func(i int) ResourceStates { return ConvBufferState(driver.BufferUsage(i)) })
	checkTable(t, "ConvDimension", driver.TextureTypeN, []ResourceDimension{2, 3, 4, 3},
		func(i int) ResourceDimension { return ConvDimension(driver.TextureType(i)) })
	checkTable(t, "ConvRangeType", driver.DescTypeN, []DescriptorRangeType{2, 0, 3},
		func(i int) DescriptorRangeType { return ConvRangeType(driver.DescType(i)) })
	checkTable(t, "ConvHeapType", driver.HeapClassN, []DescriptorHeapType{0, 1},
		func(i int) DescriptorHeapType { return ConvHeapType(driver.HeapClass(i)) })
	checkTable(t, "ConvBorder", driver.BorderColorN, [][4]float32{{0, 0, 0, 0}, {0, 0, 0, 1}, {1, 1, 1, 1}},
		func(i int) [4]float32 { return ConvBorder(driver.BorderColor(i)) })
	checkTable(t, "ConvState", driver.TextureUsageN,
		[]ResourceStates{0x800, 0x400, 0xc0, 0x8, 0x4, 0x10, 0x2000, 0x1000, 0},
		func(i int) ResourceStates { return ConvState(driver.TextureUsage(1 << i)) })
}

func TestConvStateUndefined(t *testing.T) {
	if have := ConvState(driver.UUndefined); have != StateCommon {
		t.Fatalf("ConvState(UUndefined):\nhave %#x\nwant %#x", have, StateCommon)
	}
}

func TestConvTopologyPatch(t *testing.T) {
	for _, x := range [...]struct {
		top  driver.Topology
		want PrimitiveTopology
	}{
		{driver.TPoint, 33},
		{driver.TLine, 34},
		{driver.TLnStrip, 34},
		{driver.TTriangle, 35},
		{driver.TTriStrip, 35},
	} {
		if have := ConvTopology(x.top, true); have != x.want {
			t.Fatalf("ConvTopology(%d, true):\nhave %d\nwant %d", x.top, have, x.want)
		}
		if have := ConvTopologyType(x.top, true); have != TopologyTypePatch {
			t.Fatalf("ConvTopologyType(%d, true):\nhave %d\nwant %d", x.top, have, TopologyTypePatch)
		}
	}
}

func TestConvColorMask(t *testing.T) {
	for _, x := range [...]struct {
		m    driver.ColorMask
		want ColorWriteEnable
	}{
		{0, 0},
		{driver.CRed, ColorWriteRed},
		{driver.CGreen | driver.CAlpha, ColorWriteGreen | ColorWriteAlpha},
		{driver.CAll, ColorWriteAll},
	} {
		if have := ConvColorMask(x.m); have != x.want {
			t.Fatalf("ConvColorMask(%d):\nhave %d\nwant %d", x.m, have, x.want)
		}
	}
}

func TestConvFilter(t *testing.T) {
	for _, x := range [...]struct {
		desc driver.SamplerDesc
		want Filter
	}{
		// D3D12_FILTER_MIN_MAG_MIP_POINT.
		{driver.SamplerDesc{}, 0},
		// D3D12_FILTER_MIN_MAG_MIP_LINEAR.
		{driver.SamplerDesc{Min: driver.FLinear, Mag: driver.FLinear, Mipmap: driver.FLinear}, 0x15},
		// D3D12_FILTER_MIN_POINT_MAG_LINEAR_MIP_POINT.
		{driver.SamplerDesc{Mag: driver.FLinear}, 0x4},
		// D3D12_FILTER_MIN_LINEAR_MAG_MIP_POINT.
		{driver.SamplerDesc{Min: driver.FLinear}, 0x10},
		// D3D12_FILTER_COMPARISON_MIN_MAG_MIP_LINEAR.
		{driver.SamplerDesc{Min: driver.FLinear, Mag: driver.FLinear, Mipmap: driver.FLinear, Compare: true}, 0x95},
		{driver.SamplerDesc{MaxAniso: 16}, FilterAnisotropic},
		{driver.SamplerDesc{MaxAniso: 4, Compare: true}, FilterComparisonAnisotropic},
	} {
		if have := ConvFilter(&x.desc); have != x.want {
			t.Fatalf("ConvFilter(%+v):\nhave %#x\nwant %#x", x.desc, have, x.want)
		}
	}
}

func TestConvVisibility(t *testing.T) {
	for _, x := range [...]struct {
		s    driver.ShaderStage
		want ShaderVisibility
	}{
		{driver.SVertex, VisibilityVertex},
		{driver.STessCtrl, VisibilityHull},
		{driver.STessEval, VisibilityDomain},
		{driver.SGeometry, VisibilityGeometry},
		{driver.SFragment, VisibilityPixel},
		{driver.SVertex | driver.SFragment, VisibilityAll},
		{driver.SAll, VisibilityAll},
	} {
		if have := ConvVisibility(x.s); have != x.want {
			t.Fatalf("ConvVisibility(%d):\nhave %d\nwant %d", x.s, have, x.want)
		}
	}
}
