// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"fmt"
)

// Shader is the interface that defines a compiled shader
// stage for execution in a programmable pipeline stage.
type Shader interface {
	Destroyer
}

// PipelineState defines the state of a render pipeline.
// Vert, Pass and Descriptors are required. The
// tessellation stages must be given together or not
// at all.
type PipelineState struct {
	Topology     Topology
	VertexLayout VertexLayout
	Rasterizer   RasterizerState
	ColorBlend   ColorBlendState
	DepthStencil DepthStencilState
	Pass         RenderPass
	Descriptors  DescriptorSet
	Vert         Shader
	Tesc         Shader
	Tese         Shader
	Geom         Shader
	Frag         Shader
}

// Stages returns the mask of stages that have a shader.
func (s *PipelineState) Stages() (st ShaderStage) {
	for _, x := range [...]struct {
		sh Shader
		st ShaderStage
	}{
		{s.Vert, SVertex},
		{s.Tesc, STessCtrl},
		{s.Tese, STessEval},
		{s.Geom, SGeometry},
		{s.Frag, SFragment},
	} {
		if x.sh != nil {
			st |= x.st
		}
	}
	return
}

// ErrPipeline means that a pipeline state is invalid.
var ErrPipeline = errors.New("driver: invalid pipeline state")

// Validate checks that s is a valid pipeline state.
func (s *PipelineState) Validate() error {
	switch {
	case s.Vert == nil:
		return fmt.Errorf("%w: missing vertex shader", ErrPipeline)
	case (s.Tesc == nil) != (s.Tese == nil):
		return fmt.Errorf("%w: incomplete tessellation stages", ErrPipeline)
	case s.Pass == nil:
		return fmt.Errorf("%w: missing render pass", ErrPipeline)
	case s.Descriptors == nil:
		return fmt.Errorf("%w: missing descriptor set", ErrPipeline)
	case s.Topology < 0 || int(s.Topology) >= TopologyN:
		return fmt.Errorf("%w: undefined topology", ErrPipeline)
	case s.Rasterizer.Fill < 0 || int(s.Rasterizer.Fill) >= FillModeN:
		return fmt.Errorf("%w: undefined fill mode", ErrPipeline)
	case s.Rasterizer.Cull < 0 || int(s.Rasterizer.Cull) >= CullModeN:
		return fmt.Errorf("%w: undefined cull mode", ErrPipeline)
	}
	return nil
}

// RenderPipeline is the interface that defines a
// compiled render pipeline.
type RenderPipeline interface {
	Destroyer

	// Topology returns the primitive topology of the
	// pipeline.
	Topology() Topology
}
