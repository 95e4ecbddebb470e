// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// pipeline implements driver.RenderPipeline.
type pipeline struct {
	d     *Driver
	state driver.PipelineState
	// Snapshots of the render pass and descriptor set,
	// which may be destroyed before the pipeline.
	pass  passKey
	descs []driver.Descriptor
	// Vertex buffer bindings and the minimum stride of
	// each, from state.VertexLayout.
	bindings []int
	strides  []int
}

// NewRenderPipeline creates a new render pipeline.
func (d *Driver) NewRenderPipeline(state *driver.PipelineState) (driver.RenderPipeline, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	bindings, strides := state.VertexLayout.Bindings()
	for _, b := range bindings {
		if b < 0 || b >= maxVertexBuffer {
			return nil, fmt.Errorf("%w: vertex binding %d (max %d)", driver.ErrPipeline, b, maxVertexBuffer-1)
		}
	}
	for i := range state.VertexLayout.Len() {
		a := state.VertexLayout.Attr(i)
		if a.Semantic < 0 || int(a.Semantic) >= driver.SemanticN {
			return nil, fmt.Errorf("%w: undefined semantic in attribute %d", driver.ErrPipeline, i)
		}
	}
	cb := &state.ColorBlend
	for i := range 2 {
		if cb.Op[i] < 0 || int(cb.Op[i]) >= driver.BlendOpN ||
			cb.SrcFac[i] < 0 || int(cb.SrcFac[i]) >= driver.BlendFacN ||
			cb.DstFac[i] < 0 || int(cb.DstFac[i]) >= driver.BlendFacN {
			return nil, fmt.Errorf("%w: undefined blend parameter", driver.ErrPipeline)
		}
	}
	ds := &state.DepthStencil
	for _, c := range [...]driver.CmpFunc{ds.DepthCmp, ds.Front.Cmp, ds.Back.Cmp} {
		if c < 0 || int(c) >= driver.CmpFuncN {
			return nil, fmt.Errorf("%w: undefined compare function", driver.ErrPipeline)
		}
	}
	for _, st := range [...]driver.StencilT{ds.Front, ds.Back} {
		for _, op := range [...]driver.StencilOp{st.Fail, st.DepthFail, st.Pass} {
			if op < 0 || int(op) >= driver.StencilOpN {
				return nil, fmt.Errorf("%w: undefined stencil operation", driver.ErrPipeline)
			}
		}
	}
	stages := state.Stages()
	for i, dsc := range state.Descriptors.Descriptors() {
		if dsc.Stages&^stages != 0 {
			logger().Debug("descriptor visible to stages with no shader", "descriptor", i, "stages", dsc.Stages)
		}
	}
	d.live.Add(1)
	return &pipeline{
		d:        d,
		state:    *state,
		pass:     state.Pass.(*renderPass).key(),
		descs:    driver.CloneDescriptors(state.Descriptors.Descriptors()),
		bindings: bindings,
		strides:  strides,
	}, nil
}

// Topology returns the primitive topology.
func (p *pipeline) Topology() driver.Topology { return p.state.Topology }

// Destroy destroys the pipeline.
func (p *pipeline) Destroy() {
	if p == nil || p.d == nil {
		return
	}
	p.d.live.Add(-1)
	*p = pipeline{}
}
