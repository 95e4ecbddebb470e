// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type useful for
// slot allocation (e.g., descriptor heap ranges).
package bitvec

import (
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a growable bit vector with custom granularity.
// Set bits represent used slots.
type V[T Uint] struct {
	s   []T
	rem int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return len(v.s) * v.nbit() }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

// Grow appends nplus Uints worth of unset bits to the
// vector.
// It returns the value of v.Len prior to growing.
func (v *V[T]) Grow(nplus int) (index int) {
	index = v.Len()
	if nplus > 0 {
		v.s = append(v.s, make([]T, nplus)...)
		v.rem += nplus * v.nbit()
	}
	return
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	i, b := v.pos(index)
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	i, b := v.pos(index)
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// IsSet checks whether a given bit is set.
func (v *V[T]) IsSet(index int) bool {
	i, b := v.pos(index)
	return v.s[i]&b != 0
}

// pos returns the Uint index and the bit mask of index.
func (v *V[T]) pos(index int) (int, T) {
	n := v.nbit()
	return index / n, T(1) << (index % n)
}

// SetRange sets the bits in the range [index, index+n).
func (v *V[T]) SetRange(index, n int) {
	for i := index; i < index+n; i++ {
		v.Set(i)
	}
}

// UnsetRange unsets the bits in the range [index, index+n).
func (v *V[T]) UnsetRange(index, n int) {
	for i := index; i < index+n; i++ {
		v.Unset(i)
	}
}

// Search attempts to locate an unset bit in the vector.
// If ok is true, then index is a value suitable for use in
// a call to v.Set.
// This method will fail only when v.Rem() == 0.
func (v *V[T]) Search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x != ^T(0) {
			return i*v.nbit() + bits.TrailingZeros64(uint64(^x)), true
		}
	}
	return
}

// SearchRange attempts to locate the first contiguous
// range of n unset bits.
// If ok is true, then all values in the range
// [index, index+n) are suitable for use in a call to
// v.Set.
// It calls Search if n <= 1.
func (v *V[T]) SearchRange(n int) (index int, ok bool) {
	if n <= 1 {
		return v.Search()
	}
	if v.rem < n {
		return
	}
	nb := v.nbit()
	cnt := 0
	for i, x := range v.s {
		switch x {
		case ^T(0):
			cnt = 0
			continue
		case 0:
			// The whole Uint extends the current range.
			if cnt+nb >= n {
				return i*nb - cnt, true
			}
			cnt += nb
			continue
		}
		for b := range nb {
			if x&(T(1)<<b) != 0 {
				cnt = 0
				continue
			}
			cnt++
			if cnt == n {
				return i*nb + b + 1 - n, true
			}
		}
	}
	return
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	clear(v.s)
	v.rem = v.Len()
}
