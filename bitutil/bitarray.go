// Package bitutil provides bit manipulation utilities for barcode processing.
package bitutil

import (
	"math/bits"
	"strings"
)

// BitArray is a fixed-size array of bits represented compactly by an array of
// uint32 values internally. Bit 0 is the first module scanned.
type BitArray struct {
	bits []uint32
	size int
}

// NewBitArray creates a new BitArray with the given size, all bits unset.
func NewBitArray(size int) *BitArray {
	if size <= 0 {
		return &BitArray{}
	}
	return &BitArray{
		bits: make([]uint32, (size+31)/32),
		size: size,
	}
}

// NewBitArrayFromBools creates a BitArray holding the given modules.
func NewBitArrayFromBools(modules []bool) *BitArray {
	ba := NewBitArray(len(modules))
	for i, m := range modules {
		if m {
			ba.Set(i)
		}
	}
	return ba
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return (ba.bits[i/32] & (1 << uint(i&0x1F))) != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.bits[i/32] |= 1 << uint(i&0x1F)
}

// Flip flips bit i.
func (ba *BitArray) Flip(i int) {
	ba.bits[i/32] ^= 1 << uint(i&0x1F)
}

// Uint reads n bits starting at offset, the first bit being the most
// significant one.
func (ba *BitArray) Uint(offset, n int) uint32 {
	if n < 0 || n > 32 || offset < 0 || offset+n > ba.size {
		panic("bitarray: invalid range")
	}
	var v uint32
	for i := offset; i < offset+n; i++ {
		v <<= 1
		if ba.Get(i) {
			v |= 1
		}
	}
	return v
}

// Matches reports whether the bits starting at offset equal pattern.
func (ba *BitArray) Matches(offset int, pattern []bool) bool {
	if offset < 0 || offset+len(pattern) > ba.size {
		return false
	}
	for i, p := range pattern {
		if ba.Get(offset+i) != p {
			return false
		}
	}
	return true
}

// OnesCount returns the number of set bits.
func (ba *BitArray) OnesCount() int {
	n := 0
	for _, w := range ba.bits {
		n += bits.OnesCount32(w)
	}
	return n
}

// Clone returns a copy of this BitArray.
func (ba *BitArray) Clone() *BitArray {
	b := make([]uint32, len(ba.bits))
	copy(b, ba.bits)
	return &BitArray{bits: b, size: ba.size}
}

// String returns a string representation using '1' for set and '0' for unset bits.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size)
	for i := 0; i < ba.size; i++ {
		if ba.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
