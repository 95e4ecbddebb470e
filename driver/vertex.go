// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"fmt"
)

// Semantic identifies the meaning of a vertex attribute.
// Backends that bind vertex inputs by name derive the
// name and index from the ordinal.
type Semantic int

// Semantics.
const (
	Position Semantic = iota
	Normal
	Color
	Tangent
	Binormal
	TexCoord0
	TexCoord1
	TexCoord2
	TexCoord3
	TexCoord4
	TexCoord5
	TexCoord6
	TexCoord7

	// Number of semantics.
	SemanticN int = iota
)

// MaxVertexAttributes is the maximum number of attributes
// in a VertexLayout.
const MaxVertexAttributes = 16

// VertexAttr describes a single vertex attribute.
type VertexAttr struct {
	Semantic Semantic
	Format   Format
	// Binding is the vertex buffer binding from which
	// the attribute is fetched.
	Binding int
	// Location is the shader input location.
	Location int
	// Offset is the byte offset of the attribute
	// relative to the start of a vertex.
	Offset int
}

// VertexLayout is an ordered list of vertex attributes.
// The zero value is a valid, empty layout.
type VertexLayout struct {
	attrs  []VertexAttr
	stride int
}

// ErrVertexLayout means that a vertex layout is invalid.
var ErrVertexLayout = errors.New("driver: invalid vertex layout")

// NewVertexLayout creates a new vertex layout.
// It copies attrs and computes the stride as the sum of
// the attribute sizes. attrs must have no more than
// MaxVertexAttributes elements and none of its formats
// may be a depth/stencil format or FUndefined.
func NewVertexLayout(attrs []VertexAttr) (VertexLayout, error) {
	if len(attrs) > MaxVertexAttributes {
		return VertexLayout{}, fmt.Errorf("%w: %d attributes (max %d)", ErrVertexLayout, len(attrs), MaxVertexAttributes)
	}
	var stride int
	for i := range attrs {
		n := attrs[i].Format.Size()
		if n == 0 {
			return VertexLayout{}, fmt.Errorf("%w: attribute %d has format %v", ErrVertexLayout, i, attrs[i].Format)
		}
		stride += n
	}
	return VertexLayout{
		attrs:  append([]VertexAttr(nil), attrs...),
		stride: stride,
	}, nil
}

// Len returns the number of attributes in the layout.
func (l *VertexLayout) Len() int { return len(l.attrs) }

// Attr returns the attribute at index i.
func (l *VertexLayout) Attr(i int) VertexAttr { return l.attrs[i] }

// Attrs returns a copy of the attributes.
func (l *VertexLayout) Attrs() []VertexAttr { return append([]VertexAttr(nil), l.attrs...) }

// Stride returns the sum of the attribute sizes.
func (l *VertexLayout) Stride() int { return l.stride }

// Equal returns whether l and other have element-wise
// equal attribute sequences.
func (l *VertexLayout) Equal(other *VertexLayout) bool {
	if len(l.attrs) != len(other.attrs) {
		return false
	}
	for i := range l.attrs {
		if l.attrs[i] != other.attrs[i] {
			return false
		}
	}
	return true
}

// Bindings returns the distinct buffer bindings used by
// the layout, in order of first use, along with the
// stride of each binding.
// The stride of a binding is the end of its furthest
// attribute, so interleaved and separate layouts are
// handled alike.
func (l *VertexLayout) Bindings() (bindings, strides []int) {
	for _, a := range l.attrs {
		end := a.Offset + a.Format.Size()
		i := 0
		for ; i < len(bindings); i++ {
			if bindings[i] == a.Binding {
				break
			}
		}
		if i == len(bindings) {
			bindings = append(bindings, a.Binding)
			strides = append(strides, end)
		} else if end > strides[i] {
			strides[i] = end
		}
	}
	return
}
