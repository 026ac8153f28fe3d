package hwio

import (
	"math/rand/v2"
	"testing"
)

func TestBitset(t *testing.T) {
	var b Bitset
	if got := b.First(); got != -1 {
		t.Fatalf("First() on empty set = %d, want -1", got)
	}

	for i := range NumBits {
		b.Set(uint(i))
		if !b.Test(uint(i)) {
			t.Fatalf("Bit %d is not set", i)
		}
		if got := b.First(); got != i {
			t.Fatalf("First() = %d, want %d", got, i)
		}
		b.Clear(uint(i))
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}
}

func TestBitsetAnd(t *testing.T) {
	for range 1000 {
		var a, b Bitset
		x, y := rand.UintN(NumBits), rand.UintN(NumBits)
		a.Set(x)
		a.Set(y)
		b.Set(y)

		and := a.And(&b)
		if !and.Test(y) {
			t.Fatalf("And: bit %d is not set", y)
		}
		if x != y && and.Test(x) {
			t.Fatalf("And: bit %d is set", x)
		}
		if got := and.First(); got != int(y) {
			t.Fatalf("And.First() = %d, want %d", got, y)
		}

		a.Reset()
		if a.First() != -1 {
			t.Fatalf("Reset did not clear the set")
		}
	}
}
