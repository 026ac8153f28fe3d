package hwio

import "testing"

func TestReg32(t *testing.T) {
	r := Reg32{Value: 0x11, RoMask: 0xFFFF_FFF0}

	if got := r.Read32(0, false); got != 0x11 {
		t.Errorf("invalid read: %x", got)
	}

	r.Write32(0, 0x77)
	if r.Value != 0x17 {
		t.Errorf("writemask not respected: %x", r.Value)
	}

	var gotOld, gotVal uint32
	r.WriteCb = func(old, val uint32) { gotOld, gotVal = old, val }
	r.Write32(0, 0xFFFF_FFF8)
	if gotOld != 0x17 || gotVal != 0xFFFF_FFF8 {
		t.Errorf("WriteCb(%x, %x), want (17, fffffff8)", gotOld, gotVal)
	}
	if r.Value != 0x18 {
		t.Errorf("writemask with callback not respected: %x", r.Value)
	}
}

func TestReg32WriteOnly(t *testing.T) {
	r := Reg32{Value: 0xAA, Flags: WriteOnlyFlag}

	if got := r.Read32(0, false); got != 0 {
		t.Errorf("read from writeonly reg = %x, want 0", got)
	}
	if got := r.Read32(0, true); got != 0xAA {
		t.Errorf("peek from writeonly reg = %x, want aa", got)
	}
}

func TestField32(t *testing.T) {
	v := uint32(0xFFFF_FFFF)
	SetField32(&v, 4, 4, 0x3)
	if v != 0xFFFF_FF3F {
		t.Errorf("SetField32 = %08x, want ffffff3f", v)
	}
	if got := Field32(v, 4, 4); got != 3 {
		t.Errorf("Field32 = %x, want 3", got)
	}
	SetField32(&v, 28, 4, 0x1F) // overflowing field is truncated
	if v != 0xFFFF_FF3F {
		t.Errorf("SetField32 = %08x, want ffffff3f", v)
	}
}
