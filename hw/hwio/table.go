package hwio

import (
	"fmt"
	"slices"

	"sict/emu/log"
)

// log unmapped accesses (the CT driver never touches unmapped addresses, so
// these are always bugs)
const logUnmapped = true

type BankIO32 interface {
	// Read32 reads a word from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read32(addr uint32, peek bool) uint32
	Write32(addr uint32, val uint32)
}

// An Observer is notified of every non-peek access going through a Table.
type Observer interface {
	ObserveRead(bus string, addr, val uint32)
	ObserveWrite(bus string, addr, val uint32)
}

type mapping struct {
	begin, end uint32 // inclusive
	io         BankIO32
}

// Table is a 32-bit address space made of non-overlapping mapped ranges.
type Table struct {
	Name string

	// Unmapped, if not nil, serves accesses to unmapped addresses.
	Unmapped BankIO32

	maps []mapping // sorted by begin
	obs  Observer
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.maps = nil
}

func (t *Table) SetObserver(o Observer) {
	t.obs = o
}

// Map a register bank (that is, a structure containing multiple Reg32, Mem or
// Device fields). For this function to work, registers must have a struct tag
// "hwio", containing the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
func (t *Table) MapBank(addr uint32, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg32:
			t.MapReg32(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint32, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		begin := addr + reg.offset
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.Unmap(begin, begin+uint32(r.VSize)-1)
		case *Reg32:
			t.Unmap(begin, begin+3)
		case *Device:
			t.Unmap(begin, begin+uint32(r.Size)-1)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus32(addr, size uint32, io BankIO32) {
	if addr&3 != 0 || size&3 != 0 || size == 0 {
		panic(fmt.Errorf("%s: unaligned mapping at %08x (size %x)", t.Name, addr, size))
	}
	m := mapping{begin: addr, end: addr + size - 1, io: io}
	idx, _ := slices.BinarySearchFunc(t.maps, addr, func(m mapping, a uint32) int {
		switch {
		case m.begin < a:
			return -1
		case m.begin > a:
			return 1
		}
		return 0
	})
	if idx > 0 && t.maps[idx-1].end >= m.begin {
		panic(fmt.Errorf("%s: mapping [%08x-%08x] overlaps [%08x-%08x]", t.Name, m.begin, m.end, t.maps[idx-1].begin, t.maps[idx-1].end))
	}
	if idx < len(t.maps) && t.maps[idx].begin <= m.end {
		panic(fmt.Errorf("%s: mapping [%08x-%08x] overlaps [%08x-%08x]", t.Name, m.begin, m.end, t.maps[idx].begin, t.maps[idx].end))
	}
	t.maps = slices.Insert(t.maps, idx, m)
}

func (t *Table) MapReg32(addr uint32, io *Reg32) {
	t.mapBus32(addr, 4, io)
}

func (t *Table) MapDevice(addr uint32, io *Device) {
	t.mapBus32(addr, uint32(io.Size), io)
}

func (t *Table) MapMem(addr uint32, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex32("addr", addr).
		Hex32("size", uint32(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data) == 0 {
		panic(fmt.Errorf("%s: empty memory area %q", t.Name, mem.Name))
	}
	vsize := mem.VSize
	if vsize == 0 {
		vsize = len(mem.Data) * 4
		mem.VSize = vsize
	}
	t.mapBus32(addr, uint32(vsize), mem.BankIO32(addr))
}

// MapMemorySlice maps a caller-owned word slice at [addr, addr+4*len(data)).
func (t *Table) MapMemorySlice(addr uint32, data []uint32, readonly bool) {
	var flags MemFlags
	if readonly {
		flags |= MemFlagReadOnly
	}
	t.MapMem(addr, &Mem{
		Name:  fmt.Sprintf("slice@%08x", addr),
		Data:  data,
		Flags: flags,
	})
}

// Unmap removes everything mapped in [begin, end]. Mappings straddling the
// boundaries are trimmed.
func (t *Table) Unmap(begin, end uint32) {
	var out []mapping
	for _, m := range t.maps {
		if m.end < begin || m.begin > end {
			out = append(out, m)
			continue
		}
		if m.begin < begin {
			out = append(out, mapping{begin: m.begin, end: begin - 1, io: m.io})
		}
		if m.end > end {
			out = append(out, mapping{begin: end + 1, end: m.end, io: m.io})
		}
	}
	t.maps = out
}

func (t *Table) search(addr uint32) BankIO32 {
	idx, found := slices.BinarySearchFunc(t.maps, addr, func(m mapping, a uint32) int {
		switch {
		case m.end < a:
			return -1
		case m.begin > a:
			return 1
		}
		return 0
	})
	if !found {
		return nil
	}
	return t.maps[idx].io
}

// Mapped reports whether addr is served by a mapped range.
func (t *Table) Mapped(addr uint32) bool {
	return t.search(addr&^3) != nil
}

// Read32 searches in the table for the device mapped at the given address and
// forward the read to it.
func (t *Table) Read32(addr uint32) uint32 {
	return t.read32(addr, false)
}

// Peek32 reads without side effects.
func (t *Table) Peek32(addr uint32) uint32 {
	return t.read32(addr, true)
}

func (t *Table) read32(addr uint32, peek bool) uint32 {
	addr &^= 3
	io := t.search(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Read32(addr, peek)
		}
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read32").
				String("name", t.Name).
				Hex32("addr", addr).
				End()
		}
		return 0
	}
	val := io.Read32(addr, peek)
	if t.obs != nil && !peek {
		t.obs.ObserveRead(t.Name, addr, val)
	}
	return val
}

func (t *Table) Write32(addr uint32, val uint32) {
	addr &^= 3
	io := t.search(addr)
	if io == nil {
		if t.Unmapped != nil {
			t.Unmapped.Write32(addr, val)
			return
		}
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write32").
				String("name", t.Name).
				Hex32("addr", addr).
				Hex32("val", val).
				End()
		}
		return
	}
	if t.obs != nil {
		t.obs.ObserveWrite(t.Name, addr, val)
	}
	io.Write32(addr, val)
}

// Modify32 performs a read-modify-write cycle: the bus sees a read followed by
// a write of (old &^ clear) | set.
func (t *Table) Modify32(addr uint32, clear, set uint32) {
	old := t.Read32(addr)
	t.Write32(addr, old&^clear|set)
}
