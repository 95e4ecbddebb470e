// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"errors"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	m      *memory
	buf    vk.Buffer
	usage  driver.BufferUsage
	size   int64
	stride int
}

// NewBuffer creates a new buffer.
func (d *Driver) NewBuffer(usage driver.BufferUsage, size int64, stride int, visible bool) (driver.Buffer, error) {
	if size <= 0 {
		return nil, errors.New("vk: buffer size must be positive")
	}
	u := vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit)
	switch usage {
	case driver.UVertexBuffer:
		u |= vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	case driver.UIndexBuffer:
		if stride != 2 && stride != 4 {
			return nil, errors.New("vk: index buffer stride must be 2 or 4")
		}
		u |= vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	case driver.UUniformBuffer:
		size = driver.AlignUniform(size)
		u |= vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit)
	default:
		return nil, errors.New("vk: undefined buffer usage")
	}

	b, err := d.newBuffer(u, size, visible)
	if err != nil {
		return nil, err
	}
	b.usage = usage
	b.stride = stride
	driver.Logger().Debug("vulkan buffer created", "usage", usage, "size", size, "visible", visible)
	return b, nil
}

// newBuffer creates a buffer with the given usage flags
// and binds memory to it.
func (d *Driver) newBuffer(u vk.BufferUsageFlags, size int64, visible bool) (*buffer, error) {
	info := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       u,
		SharingMode: vk.SharingModeExclusive,
	}
	var buf vk.Buffer
	err := checkResult(vk.CreateBuffer(d.dev, &info, nil, &buf))
	if err != nil {
		return nil, err
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.dev, buf, &req)
	req.Deref()
	m, err := d.newMemory(req, visible)
	if err != nil {
		vk.DestroyBuffer(d.dev, buf, nil)
		return nil, err
	}
	err = checkResult(vk.BindBufferMemory(d.dev, buf, m.mem, 0))
	if err != nil {
		m.free()
		vk.DestroyBuffer(d.dev, buf, nil)
		return nil, err
	}
	m.bound = true
	if visible {
		// Keep the memory mapped for the lifetime of the buffer.
		if err = m.mmap(); err != nil {
			m.free()
			vk.DestroyBuffer(d.dev, buf, nil)
			return nil, err
		}
	}
	return &buffer{
		m:    m,
		buf:  buf,
		size: size,
	}, nil
}

// Usage returns the buffer usage.
func (b *buffer) Usage() driver.BufferUsage { return b.usage }

// Size returns the size of the buffer in bytes.
func (b *buffer) Size() int64 { return b.size }

// Stride returns the element stride.
func (b *buffer) Stride() int { return b.stride }

// Visible returns whether the buffer is host visible.
func (b *buffer) Visible() bool { return b.m.vis }

// Bytes returns a slice of length b.Size() referring to the
// underlying data.
func (b *buffer) Bytes() []byte {
	if len(b.m.p) == 0 {
		return nil
	}
	return b.m.p[:b.size]
}

// Destroy destroys the buffer.
func (b *buffer) Destroy() {
	if b == nil {
		return
	}
	if b.m != nil {
		vk.DestroyBuffer(b.m.d.dev, b.buf, nil)
		b.m.free()
	}
	*b = buffer{}
}
