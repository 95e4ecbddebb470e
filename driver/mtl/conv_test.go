// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mtl

import (
	"testing"

	"gviegas/gp3d/driver"
)

func TestConvPixelFormat(t *testing.T) {
	// MTLPixelFormat enumerants.
	want := [driver.FormatN]uint{
		0, 10, 20, 25, 53, 55,
		30, 60, 65, 103, 105,
		0, 0, 0, 0, 0,
		80, 70, 110, 115, 123, 125,
		250, 255, 252, 253, 255, 255, 260,
	}
	for i, x := range want {
		if have := ConvPixelFormat(driver.Format(i)); uint(have) != x {
			t.Fatalf("ConvPixelFormat(%v):\nhave %d\nwant %d", driver.Format(i), have, x)
		}
	}
	if have := ConvPixelFormat(driver.Format(driver.FormatN)); have != PixelFormatInvalid {
		t.Fatalf("ConvPixelFormat(FormatN):\nhave %d\nwant 0", have)
	}
}

func TestConvVertexFormat(t *testing.T) {
	// MTLVertexFormat enumerants.
	want := [driver.FormatN]uint{
		0, 47, 51, 53, 36, 28,
		7, 19, 25, 37, 29,
		8, 20, 26, 38, 30,
		42, 9, 21, 27, 39, 31,
		0, 0, 0, 0, 0, 0, 0,
	}
	for i, x := range want {
		if have := ConvVertexFormat(driver.Format(i)); uint(have) != x {
			t.Fatalf("ConvVertexFormat(%v):\nhave %d\nwant %d", driver.Format(i), have, x)
		}
	}
}

func checkConv[T comparable](t *testing.T, name string, n int, want []T, conv func(int) T) {
	t.Helper()
	if len(want) != n {
		t.Fatalf("%s: len(want):\nhave %d\nwant %d", name, len(want), n)
	}
	for i, x := range want {
		if have := conv(i); have != x {
			t.Fatalf("%s(%d):\nhave %v\nwant %v", name, i, have, x)
		}
	}
}

func TestConvState(t *testing.T) {
	checkConv(t, "ConvPrimitiveType", driver.TopologyN, []PrimitiveType{0, 1, 2, 3, 4},
		func(i int) PrimitiveType { return ConvPrimitiveType(driver.Topology(i)) })
	checkConv(t, "ConvTopologyClass", driver.TopologyN, []PrimitiveTopologyClass{1, 2, 2, 3, 3},
		func(i int) PrimitiveTopologyClass { return ConvTopologyClass(driver.Topology(i)) })
	checkConv(t, "ConvFillMode", driver.FillModeN, []TriangleFillMode{0, 1},
		func(i int) TriangleFillMode { return ConvFillMode(driver.FillMode(i)) })
	checkConv(t, "ConvCullMode", driver.CullModeN, []CullMode{0, 1, 2},
		func(i int) CullMode { return ConvCullMode(driver.CullMode(i)) })
	checkConv(t, "ConvCmpFunc", driver.CmpFuncN, []CompareFunction{0, 1, 2, 3, 4, 5, 6, 7},
		func(i int) CompareFunction { return ConvCmpFunc(driver.CmpFunc(i)) })
	checkConv(t, "ConvStencilOp", driver.StencilOpN, []StencilOperation{0, 1, 2, 3, 4, 5, 6, 7},
		func(i int) StencilOperation { return ConvStencilOp(driver.StencilOp(i)) })
	checkConv(t, "ConvBlendOp", driver.BlendOpN, []BlendOperation{0, 1, 2, 3, 4},
		func(i int) BlendOperation { return ConvBlendOp(driver.BlendOp(i)) })
	checkConv(t, "ConvBlendFac", driver.BlendFacN,
		[]BlendFactor{0, 1, 2, 3, 6, 7, 4, 5, 8, 9, 11, 12, 13, 14, 10, 15, 16, 17, 18},
		func(i int) BlendFactor { return ConvBlendFac(driver.BlendFac(i)) })
	checkConv(t, "ConvAddrMode", driver.AddrModeN, []SamplerAddressMode{2, 3, 0, 5, 1},
		func(i int) SamplerAddressMode { return ConvAddrMode(driver.AddrMode(i)) })
	checkConv(t, "ConvFilter", driver.FilterN, []SamplerMinMagFilter{0, 1},
		func(i int) SamplerMinMagFilter { return ConvFilter(driver.Filter(i)) })
	checkConv(t, "ConvMipFilter", driver.FilterN, []SamplerMipFilter{1, 2},
		func(i int) SamplerMipFilter { return ConvMipFilter(driver.Filter(i)) })
	checkConv(t, "ConvBorder", driver.BorderColorN, []SamplerBorderColor{0, 1, 2},
		func(i int) SamplerBorderColor { return ConvBorder(driver.BorderColor(i)) })
	checkConv(t, "ConvDataType", driver.DescTypeN, []DataType{60, 58, 59},
		func(i int) DataType { return ConvDataType(driver.DescType(i)) })
}

func TestConvColorMask(t *testing.T) {
	for _, x := range [...]struct {
		m    driver.ColorMask
		want ColorWriteMask
	}{
		{0, ColorWriteMaskNone},
		{driver.CRed, ColorWriteMaskRed},
		{driver.CAlpha, ColorWriteMaskAlpha},
		{driver.CGreen | driver.CBlue, ColorWriteMaskGreen | ColorWriteMaskBlue},
		{driver.CAll, ColorWriteMaskAll},
	} {
		if have := ConvColorMask(x.m); have != x.want {
			t.Fatalf("ConvColorMask(%#x):\nhave %#x\nwant %#x", x.m, have, x.want)
		}
	}
}

func TestConvWinding(t *testing.T) {
	if have := ConvWinding(true); have != WindingClockwise {
		t.Fatalf("ConvWinding(true):\nhave %d\nwant %d", have, WindingClockwise)
	}
	if have := ConvWinding(false); have != WindingCounterClockwise {
		t.Fatalf("ConvWinding(false):\nhave %d\nwant %d", have, WindingCounterClockwise)
	}
}

func TestConvTextureType(t *testing.T) {
	for _, x := range [...]struct {
		typ     driver.TextureType
		samples int
		want    TextureType
	}{
		{driver.Tex1D, 1, TextureType1D},
		{driver.Tex2D, 1, TextureType2D},
		{driver.Tex2D, 0, TextureType2D},
		{driver.Tex2D, 4, TextureType2DMultisample},
		{driver.Tex3D, 1, TextureType3D},
		{driver.TexCube, 1, TextureTypeCube},
	} {
		if have := ConvTextureType(x.typ, x.samples); have != x.want {
			t.Fatalf("ConvTextureType(%d, %d):\nhave %d\nwant %d", x.typ, x.samples, have, x.want)
		}
	}
}

func TestConvTextureUsage(t *testing.T) {
	for _, x := range [...]struct {
		u    driver.TextureUsage
		want TextureUsage
	}{
		{driver.UTransferSrc | driver.UTransferDst, 0},
		{driver.USampled, TextureUsageShaderRead},
		{driver.UStorage, TextureUsageShaderRead | TextureUsageShaderWrite},
		{driver.UColorAttachment | driver.USampled, TextureUsageRenderTarget | TextureUsageShaderRead},
		{driver.UDepthStencilAttachment, TextureUsageRenderTarget},
		{driver.UResolveDst | driver.UPresent, TextureUsageRenderTarget},
	} {
		if have := ConvTextureUsage(x.u); have != x.want {
			t.Fatalf("ConvTextureUsage(%#x):\nhave %#x\nwant %#x", x.u, have, x.want)
		}
	}
}

func TestConvStages(t *testing.T) {
	for _, x := range [...]struct {
		s    driver.ShaderStage
		want RenderStages
	}{
		{driver.SVertex, RenderStageVertex},
		{driver.SFragment, RenderStageFragment},
		{driver.SVertex | driver.SFragment, RenderStageVertex | RenderStageFragment},
		{driver.SGeometry, 0},
		{driver.SAll, RenderStageVertex | RenderStageFragment},
	} {
		if have := ConvStages(x.s); have != x.want {
			t.Fatalf("ConvStages(%#x):\nhave %#x\nwant %#x", x.s, have, x.want)
		}
	}
}
