// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// descSet implements driver.DescriptorSet.
// Each set owns its pool, its set layout and the pipeline
// layout that pipelines created with it use.
type descSet struct {
	d       *Driver
	layout  vk.DescriptorSetLayout
	playout vk.PipelineLayout
	pool    vk.DescriptorPool
	set     vk.DescriptorSet
	ds      []driver.Descriptor
	hl      driver.HeapLayout
}

// NewDescriptorSet creates a new descriptor set.
func (d *Driver) NewDescriptorSet(ds []driver.Descriptor) (driver.DescriptorSet, error) {
	hl, err := driver.LayoutDescriptors(ds)
	if err != nil {
		return nil, err
	}
	for c, n := range hl.Size {
		if n > d.lim.MaxDescHeap {
			return nil, fmt.Errorf("%w: %d slots in heap class %d (max %d)", driver.ErrDescHeap, n, c, d.lim.MaxDescHeap)
		}
	}
	ds = driver.CloneDescriptors(ds)

	binds := make([]vk.DescriptorSetLayoutBinding, len(ds))
	var count [driver.DescTypeN]int
	for i := range ds {
		binds[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(ds[i].Binding),
			DescriptorType:  convDescType(ds[i].Type),
			DescriptorCount: uint32(ds[i].Count),
			StageFlags:      convStage(ds[i].Stages),
		}
		count[ds[i].Type] += ds[i].Count
	}

	h := &descSet{d: d, ds: ds, hl: hl}
	info := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(binds)),
		PBindings:    binds,
	}
	var layout vk.DescriptorSetLayout
	if err := checkResult(vk.CreateDescriptorSetLayout(d.dev, &info, nil, &layout)); err != nil {
		return nil, err
	}
	h.layout = layout

	pinfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{layout},
	}
	var playout vk.PipelineLayout
	if err := checkResult(vk.CreatePipelineLayout(d.dev, &pinfo, nil, &playout)); err != nil {
		h.Destroy()
		return nil, err
	}
	h.playout = playout

	if len(ds) > 0 {
		if err := h.alloc(count); err != nil {
			h.Destroy()
			return nil, err
		}
		h.write()
	}
	driver.Logger().Debug("vulkan descriptor set created", "descriptors", len(ds), "resource", hl.Size[driver.HResource], "sampler", hl.Size[driver.HSampler])
	return h, nil
}

// alloc creates the pool and allocates the set from it.
func (h *descSet) alloc(count [driver.DescTypeN]int) error {
	var sizes []vk.DescriptorPoolSize
	for t, n := range count {
		if n > 0 {
			sizes = append(sizes, vk.DescriptorPoolSize{
				Type:            convDescType(driver.DescType(t)),
				DescriptorCount: uint32(n),
			})
		}
	}
	info := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}
	var pool vk.DescriptorPool
	if err := checkResult(vk.CreateDescriptorPool(h.d.dev, &info, nil, &pool)); err != nil {
		return err
	}
	h.pool = pool
	ainfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{h.layout},
	}
	var set vk.DescriptorSet
	if err := checkResult(vk.AllocateDescriptorSets(h.d.dev, &ainfo, &set)); err != nil {
		return err
	}
	h.set = set
	return nil
}

// write writes the resources of every descriptor into the
// set. Nil resources leave their array element unwritten.
func (h *descSet) write() {
	var writes []vk.WriteDescriptorSet
	for i := range h.ds {
		d := &h.ds[i]
		w := func(elem int) vk.WriteDescriptorSet {
			return vk.WriteDescriptorSet{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          h.set,
				DstBinding:      uint32(d.Binding),
				DstArrayElement: uint32(elem),
				DescriptorCount: 1,
				DescriptorType:  convDescType(d.Type),
			}
		}
		switch d.Type {
		case driver.DUniform:
			for j, b := range d.Buffers {
				if b == nil {
					continue
				}
				x := w(j)
				x.PBufferInfo = []vk.DescriptorBufferInfo{{
					Buffer: b.(*buffer).buf,
					Range:  vk.DeviceSize(b.Size()),
				}}
				writes = append(writes, x)
			}
		case driver.DTexture:
			for j, t := range d.Textures {
				if t == nil {
					continue
				}
				tex := t.(*texture)
				layout := vk.ImageLayoutShaderReadOnlyOptimal
				if tex.desc.Usage&driver.USampled == 0 {
					layout = vk.ImageLayoutGeneral
				}
				x := w(j)
				x.PImageInfo = []vk.DescriptorImageInfo{{
					ImageView:   tex.view,
					ImageLayout: layout,
				}}
				writes = append(writes, x)
			}
		case driver.DSampler:
			for j, s := range d.Samplers {
				if s == nil {
					continue
				}
				x := w(j)
				x.PImageInfo = []vk.DescriptorImageInfo{{
					Sampler: s.(*sampler).splr,
				}}
				writes = append(writes, x)
			}
		}
	}
	if len(writes) > 0 {
		vk.UpdateDescriptorSets(h.d.dev, uint32(len(writes)), writes, 0, nil)
	}
}

// Descriptors returns the descriptors of the set.
func (h *descSet) Descriptors() []driver.Descriptor { return h.ds }

// Layout returns the heap layout of the set.
func (h *descSet) Layout() driver.HeapLayout { return h.hl }

// Destroy destroys the descriptor set.
func (h *descSet) Destroy() {
	if h == nil {
		return
	}
	if h.d != nil {
		if h.pool != nil {
			vk.DestroyDescriptorPool(h.d.dev, h.pool, nil)
		}
		if h.playout != nil {
			vk.DestroyPipelineLayout(h.d.dev, h.playout, nil)
		}
		if h.layout != nil {
			vk.DestroyDescriptorSetLayout(h.d.dev, h.layout, nil)
		}
	}
	*h = descSet{}
}
