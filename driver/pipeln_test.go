// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"testing"
)

type testShader struct{}

func (testShader) Destroy() {}

type testPass struct{}

func (testPass) Destroy()              {}
func (testPass) Desc() RenderPassDesc { return RenderPassDesc{} }

type testDescSet struct{}

func (testDescSet) Destroy()                  {}
func (testDescSet) Descriptors() []Descriptor { return nil }
func (testDescSet) Layout() HeapLayout        { return HeapLayout{} }

func TestPipelineState(t *testing.T) {
	s := PipelineState{
		Topology:     TTriangle,
		Rasterizer:   DefaultRasterizer(),
		ColorBlend:   DefaultColorBlend(),
		DepthStencil: DefaultDepthStencil(),
		Pass:         testPass{},
		Descriptors:  testDescSet{},
		Vert:         testShader{},
		Frag:         testShader{},
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("PipelineState.Validate:\nhave %v\nwant nil", err)
	}
	if st := s.Stages(); st != SVertex|SFragment {
		t.Fatalf("PipelineState.Stages:\nhave %#x\nwant %#x", st, SVertex|SFragment)
	}

	full := s
	full.Tesc = testShader{}
	full.Tese = testShader{}
	full.Geom = testShader{}
	if st := full.Stages(); st != SAll {
		t.Fatalf("PipelineState.Stages:\nhave %#x\nwant %#x", st, SAll)
	}

	for i, f := range [...]func(*PipelineState){
		func(s *PipelineState) { s.Vert = nil },
		func(s *PipelineState) { s.Tesc = testShader{} },
		func(s *PipelineState) { s.Tese = testShader{} },
		func(s *PipelineState) { s.Pass = nil },
		func(s *PipelineState) { s.Descriptors = nil },
		func(s *PipelineState) { s.Topology = Topology(TopologyN) },
		func(s *PipelineState) { s.Rasterizer.Fill = -1 },
		func(s *PipelineState) { s.Rasterizer.Cull = CullMode(CullModeN) },
	} {
		x := s
		f(&x)
		if err := x.Validate(); !errors.Is(err, ErrPipeline) {
			t.Fatalf("PipelineState.Validate (case %d):\nhave %v\nwant %v", i, err, ErrPipeline)
		}
	}
}

func TestDefaultStates(t *testing.T) {
	r := DefaultRasterizer()
	if r.Fill != FFill || r.Cull != CBack || r.Clockwise {
		t.Fatalf("DefaultRasterizer:\nhave %+v", r)
	}
	c := DefaultColorBlend()
	if c.Blend || c.WriteMask != CAll {
		t.Fatalf("DefaultColorBlend:\nhave %+v", c)
	}
	if CAll != CRed|CGreen|CBlue|CAlpha {
		t.Fatalf("CAll:\nhave %#x\nwant %#x", CAll, CRed|CGreen|CBlue|CAlpha)
	}
	d := DefaultDepthStencil()
	if !d.DepthTest || !d.DepthWrite || d.DepthCmp != CLess || d.StencilTest {
		t.Fatalf("DefaultDepthStencil:\nhave %+v", d)
	}
}
