package hwio

import (
	"fmt"
	"math/bits"
)

const (
	NumBits  = 256 // covers the NVIC interrupt lines
	wordSize = 64
	numWords = NumBits / wordSize
)

// Bitset is a fixed-size set of NumBits bits. Zero value is an empty set.
type Bitset struct {
	words [numWords]uint64
}

func checkIndex(i uint) {
	if i >= NumBits {
		panic(fmt.Sprintf("bit index %d out of range", i))
	}
}

// Set sets the bit at index i.
func (b *Bitset) Set(i uint) {
	checkIndex(i)
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i uint) {
	checkIndex(i)
	b.words[i/wordSize] &^= 1 << (i % wordSize)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i uint) bool {
	checkIndex(i)
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// And returns the intersection of b and o.
func (b *Bitset) And(o *Bitset) Bitset {
	var r Bitset
	for i := range b.words {
		r.words[i] = b.words[i] & o.words[i]
	}
	return r
}

// First returns the index of the lowest set bit, or -1 if the set is empty.
func (b *Bitset) First() int {
	for i, w := range b.words {
		if w != 0 {
			return i*wordSize + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// Reset clears all bits in the Bitset.
func (b *Bitset) Reset() {
	b.words = [numWords]uint64{}
}
