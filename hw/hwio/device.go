package hwio

import "sict/emu/log"

// Device is a BankIO32 implementation that allows manual management of an
// entire range of addresses.
type Device struct {
	Name  string // name of the area (for debugging)
	Size  int    // size of the area in bytes
	Flags RWFlags

	ReadCb  func(addr uint32) uint32
	PeekCb  func(addr uint32) uint32
	WriteCb func(addr uint32, val uint32)
}

func (d *Device) Read32(addr uint32, peek bool) uint32 {
	if peek {
		if d.PeekCb != nil {
			return d.PeekCb(addr)
		}
		return 0
	}
	switch {
	case d.Flags&WriteOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Read32 from writeonly device").
			String("name", d.Name).
			Hex32("addr", addr).
			End()
		fallthrough
	case d.ReadCb == nil:
		return 0
	}
	return d.ReadCb(addr)
}

func (d *Device) Write32(addr uint32, val uint32) {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Write32 to readonly device").
			String("name", d.Name).
			Hex32("addr", addr).
			End()
		fallthrough
	case d.WriteCb == nil:
		return
	}

	d.WriteCb(addr, val)
}
