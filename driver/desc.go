// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"fmt"
	"slices"
)

// ShaderStage is a mask of programmable stages.
type ShaderStage int

// Shader stages.
const (
	SVertex ShaderStage = 1 << iota
	STessCtrl
	STessEval
	SGeometry
	SFragment
	// All graphics stages.
	SAll ShaderStage = 1<<iota - 1
)

// Single returns whether s names exactly one stage.
func (s ShaderStage) Single() bool { return s > 0 && s&(s-1) == 0 }

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	// Uniform (constant) buffer.
	DUniform DescType = iota
	// Sampled texture.
	DTexture
	// Texture sampler.
	DSampler

	// Number of descriptor types.
	DescTypeN int = iota
)

// HeapClass is the class of descriptor heap from which
// a descriptor's slots are allocated.
// Native descriptor heaps are segregated by class in
// some backends, so uniform and texture descriptors
// share one heap and samplers use another.
type HeapClass int

// Heap classes.
const (
	HResource HeapClass = iota
	HSampler

	// Number of heap classes.
	HeapClassN int = iota
)

// Class returns the heap class of descriptors of type t.
func (t DescType) Class() HeapClass {
	if t == DSampler {
		return HSampler
	}
	return HResource
}

// MaxDescriptors is the maximum number of descriptors in
// a descriptor set.
const MaxDescriptors = 32

// Descriptor describes a resource binding for use in
// shaders, along with the resources bound to it.
// Only the slice that matches Type may be non-empty,
// and its length must not exceed Count.
type Descriptor struct {
	Type DescType
	// Binding is the caller-assigned binding index.
	// It must be unique within the set.
	Binding int
	// Count is the array size of the descriptor.
	Count    int
	Stages   ShaderStage
	Buffers  []Buffer
	Textures []Texture
	Samplers []Sampler
}

// CloneDescriptors returns a copy of ds that shares no
// slices with it.
func CloneDescriptors(ds []Descriptor) []Descriptor {
	c := slices.Clone(ds)
	for i := range c {
		c[i].Buffers = slices.Clone(c[i].Buffers)
		c[i].Textures = slices.Clone(c[i].Textures)
		c[i].Samplers = slices.Clone(c[i].Samplers)
	}
	return c
}

// HeapLayout describes the placement of a descriptor
// set's descriptors in the heaps of each class.
// Offset and Class are indexed by descriptor position.
// The layout is computed once when the set is created
// and is immutable thereafter.
type HeapLayout struct {
	// Size is the number of slots needed in the heap
	// of each class.
	Size   [HeapClassN]int
	Class  []HeapClass
	Offset []int
}

// ErrDescriptor means that a descriptor set is invalid.
var ErrDescriptor = errors.New("driver: invalid descriptor")

// LayoutDescriptors validates ds and computes its heap
// layout.
// It tallies the number of slots needed in each heap
// class and, in descriptor order, assigns each descriptor
// a contiguous range of Count slots in its class's heap.
func LayoutDescriptors(ds []Descriptor) (HeapLayout, error) {
	if len(ds) > MaxDescriptors {
		return HeapLayout{}, fmt.Errorf("%w: %d descriptors (max %d)", ErrDescriptor, len(ds), MaxDescriptors)
	}
	l := HeapLayout{
		Class:  make([]HeapClass, len(ds)),
		Offset: make([]int, len(ds)),
	}
	for i := range ds {
		d := &ds[i]
		if err := d.validate(); err != nil {
			return HeapLayout{}, fmt.Errorf("%w: descriptor %d: %s", ErrDescriptor, i, err)
		}
		for j := range i {
			if ds[j].Binding == d.Binding {
				return HeapLayout{}, fmt.Errorf("%w: descriptor binding is not unique (%d)", ErrDescriptor, d.Binding)
			}
		}
		c := d.Type.Class()
		l.Class[i] = c
		l.Offset[i] = l.Size[c]
		l.Size[c] += d.Count
	}
	return l, nil
}

func (d *Descriptor) validate() error {
	switch {
	case d.Type < 0 || int(d.Type) >= DescTypeN:
		return errors.New("undefined type")
	case d.Count < 1:
		return errors.New("count must be at least 1")
	case d.Binding < 0:
		return errors.New("negative binding")
	case d.Stages&SAll == 0 || d.Stages&^SAll != 0:
		return errors.New("invalid stage mask")
	}
	var n int
	switch d.Type {
	case DUniform:
		if len(d.Textures)+len(d.Samplers) != 0 {
			return errors.New("uniform descriptor with non-buffer resources")
		}
		for _, b := range d.Buffers {
			if b != nil && b.Usage() != UUniformBuffer {
				return errors.New("uniform descriptor with non-uniform buffer")
			}
		}
		n = len(d.Buffers)
	case DTexture:
		if len(d.Buffers)+len(d.Samplers) != 0 {
			return errors.New("texture descriptor with non-texture resources")
		}
		n = len(d.Textures)
	case DSampler:
		if len(d.Buffers)+len(d.Textures) != 0 {
			return errors.New("sampler descriptor with non-sampler resources")
		}
		n = len(d.Samplers)
	}
	if n > d.Count {
		return fmt.Errorf("%d resources for count %d", n, d.Count)
	}
	return nil
}

// DescriptorSet is the interface that defines a set of
// descriptors for use in programmable pipeline stages.
type DescriptorSet interface {
	Destroyer

	// Descriptors returns the descriptors of the set.
	// The returned slice must not be modified.
	Descriptors() []Descriptor

	// Layout returns the heap layout of the set.
	Layout() HeapLayout
}
