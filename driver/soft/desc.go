// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// descSet implements driver.DescriptorSet.
// Its slots are allocated from the driver's descriptor
// heaps, one contiguous range per heap class.
type descSet struct {
	d      *Driver
	ds     []driver.Descriptor
	layout driver.HeapLayout
	// Start of the range allocated in each heap.
	base [driver.HeapClassN]int
}

// NewDescriptorSet creates a new descriptor set.
func (d *Driver) NewDescriptorSet(ds []driver.Descriptor) (driver.DescriptorSet, error) {
	layout, err := driver.LayoutDescriptors(ds)
	if err != nil {
		return nil, err
	}
	for c, n := range layout.Size {
		if n > maxDescHeap {
			return nil, fmt.Errorf("%w: %d slots in heap %d (max %d)", driver.ErrDescHeap, n, c, maxDescHeap)
		}
	}

	s := &descSet{
		d:      d,
		ds:     driver.CloneDescriptors(ds),
		layout: layout,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for c, n := range layout.Size {
		if n == 0 {
			continue
		}
		i, ok := d.heaps[c].SearchRange(n)
		if !ok {
			for k := range c {
				if n := layout.Size[k]; n > 0 {
					d.heaps[k].UnsetRange(s.base[k], n)
				}
			}
			return nil, fmt.Errorf("%w: heap %d is full", driver.ErrDescHeap, c)
		}
		d.heaps[c].SetRange(i, n)
		s.base[c] = i
	}
	d.live.Add(1)
	return s, nil
}

// Descriptors returns the descriptors of the set.
func (s *descSet) Descriptors() []driver.Descriptor { return s.ds }

// Layout returns the heap layout of the set.
func (s *descSet) Layout() driver.HeapLayout { return s.layout }

// heapOffset returns the absolute heap offset of the
// descriptor at index i.
func (s *descSet) heapOffset(i int) int {
	return s.base[s.layout.Class[i]] + s.layout.Offset[i]
}

// compatible returns whether descriptor sets with the
// bindings a and b can be used interchangeably, ignoring
// bound resources.
func compatible(a, b []driver.Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := &a[i], &b[i]
		if x.Type != y.Type || x.Binding != y.Binding || x.Count != y.Count || x.Stages != y.Stages {
			return false
		}
	}
	return true
}

// Destroy destroys the descriptor set.
func (s *descSet) Destroy() {
	if s == nil || s.d == nil {
		return
	}
	s.d.mu.Lock()
	for c, n := range s.layout.Size {
		if n > 0 {
			s.d.heaps[c].UnsetRange(s.base[c], n)
		}
	}
	s.d.mu.Unlock()
	s.d.live.Add(-1)
	*s = descSet{}
}
