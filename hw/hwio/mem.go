package hwio

import "sict/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear word-addressed memory area (SRAM, flash) that can be mapped
// into a Table. Size is in bytes and VSize, when bigger, mirrors the area.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []uint32 // actual memory buffer
	VSize int      // virtual size in bytes (can be bigger than physical size)
	Flags MemFlags

	// optional write callback (if set, the callback is called instead of writing)
	WriteCb func(addr uint32, val uint32)
}

// BankIO32 returns an adaptor of m, mapped at base.
func (m *Mem) BankIO32(base uint32) BankIO32 {
	return &mem{m: m, base: base}
}

type mem struct {
	m    *Mem
	base uint32
}

func (mm *mem) index(addr uint32) int {
	return int((addr-mm.base)/4) % len(mm.m.Data)
}

func (mm *mem) Read32(addr uint32, _ bool) uint32 {
	return mm.m.Data[mm.index(addr)]
}

func (mm *mem) Write32(addr uint32, val uint32) {
	if mm.m.WriteCb != nil {
		mm.m.WriteCb(addr, val)
		return
	}

	switch {
	case mm.m.Flags&MemFlagReadOnly == 0:
		mm.m.Data[mm.index(addr)] = val
	case mm.m.Flags&MemFlagNoROLog != 0:
		return
	default:
		log.ModHwIo.ErrorZ("Write32 to readonly memory").
			String("name", mm.m.Name).
			Hex32("addr", addr).
			Hex32("val", val).
			End()
	}
}
