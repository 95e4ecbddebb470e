// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"
	"fmt"

	"gviegas/gp3d/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	d      *Driver
	usage  driver.BufferUsage
	stride int
	vis    bool
	p      []byte
}

// NewBuffer creates a new buffer.
func (d *Driver) NewBuffer(usage driver.BufferUsage, size int64, stride int, visible bool) (driver.Buffer, error) {
	switch {
	case usage < 0 || int(usage) >= driver.BufferUsageN:
		return nil, errors.New("soft: undefined buffer usage")
	case size < 1:
		return nil, fmt.Errorf("soft: invalid buffer size (%d)", size)
	case stride < 0:
		return nil, fmt.Errorf("soft: invalid buffer stride (%d)", stride)
	case usage == driver.UIndexBuffer && stride != 2 && stride != 4:
		return nil, fmt.Errorf("soft: invalid index buffer stride (%d)", stride)
	}
	if usage == driver.UUniformBuffer {
		size = driver.AlignUniform(size)
	}
	p, err := alloc(size)
	if err != nil {
		return nil, err
	}
	d.live.Add(1)
	logger().Debug("buffer created", "usage", usage, "size", size, "visible", visible)
	return &buffer{
		d:      d,
		usage:  usage,
		stride: stride,
		vis:    visible,
		p:      p,
	}, nil
}

// alloc allocates n bytes of host memory.
// It fails with driver.ErrNoHostMemory instead of
// panicking when n is not representable.
func alloc(n int64) (p []byte, err error) {
	if n < 0 || int64(int(n)) != n {
		return nil, driver.ErrNoHostMemory
	}
	defer func() {
		if recover() != nil {
			p, err = nil, driver.ErrNoHostMemory
		}
	}()
	return make([]byte, n), nil
}

// Usage returns the buffer usage.
func (b *buffer) Usage() driver.BufferUsage { return b.usage }

// Size returns the size of the buffer in bytes.
func (b *buffer) Size() int64 { return int64(len(b.p)) }

// Stride returns the element stride.
func (b *buffer) Stride() int { return b.stride }

// Visible returns whether the buffer is host visible.
func (b *buffer) Visible() bool { return b.vis }

// Bytes returns a slice of length b.Size() referring to
// the underlying data, or nil if b is not host visible.
func (b *buffer) Bytes() []byte {
	if !b.vis {
		return nil
	}
	return b.p
}

// Destroy destroys the buffer.
func (b *buffer) Destroy() {
	if b == nil || b.d == nil {
		return
	}
	b.d.live.Add(-1)
	*b = buffer{}
}
