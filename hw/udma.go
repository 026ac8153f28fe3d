package hw

import (
	"math/bits"

	"sict/emu/log"
	"sict/hw/hwdefs"
	"sict/hw/hwio"
)

const UDMANumChannels = 32

// Channel control word fields of a uDMA descriptor.
const (
	UDMACycleMask     = 0x7
	UDMACycleStop     = hwdefs.UDMACycleStop
	UDMACycleBasic    = hwdefs.UDMACycleBasic
	UDMACycleAuto     = hwdefs.UDMACycleAuto
	UDMACyclePingPong = hwdefs.UDMACyclePingPong

	UDMANMinus1Shift = hwdefs.UDMANMinus1Shift
	UDMANMinus1Mask  = 0x3FF << UDMANMinus1Shift
	UDMASrcSizeShift = hwdefs.UDMASrcSizeShift
	UDMASrcIncShift  = hwdefs.UDMASrcIncShift
	UDMADstSizeShift = hwdefs.UDMADstSizeShift
	UDMADstIncShift  = hwdefs.UDMADstIncShift

	UDMASize8   = 0
	UDMASize16  = 1
	UDMASize32  = 2
	UDMAIncNone = 3
)

// Descriptor words, relative to a channel control structure.
const (
	udmaSrcEnd = 0x0
	udmaDstEnd = 0x4
	udmaCtrl   = 0x8

	udmaDescSize = hwdefs.UDMADescSize
	udmaAltOff   = hwdefs.UDMAAltOff
)

// UDMA is the micro DMA controller (an ARM PL230 derivative). Channel control
// structures live in memory at CTRL_BASE_PTR; a primary and an alternate
// descriptor per channel. Transfers use the same bus as the CPU.
type UDMA struct {
	bus  *hwio.Table
	nvic interface{ SetIRQ(hwdefs.IRQ, bool) }

	cfg     uint32
	swreq   uint32 // software requests not yet serviced
	reqs    uint32 // peripheral requests not yet serviced
	enabled uint32
	reqMask uint32
	priAlt  uint32
	prio    uint32
	done    uint32
	errs    uint32
	busErr  bool

	DMA_STATUS        hwio.Reg32 `hwio:"offset=0x00,readonly,rcb"`
	DMA_CFG           hwio.Reg32 `hwio:"offset=0x04,rwmask=0,rcb,wcb"`
	CTRL_BASE_PTR     hwio.Reg32 `hwio:"offset=0x08,rwmask=0xFFFFFC00"`
	ALT_CTRL_BASE_PTR hwio.Reg32 `hwio:"offset=0x0C,readonly,rcb"`
	CHNL_SW_REQUEST   hwio.Reg32 `hwio:"offset=0x14,rwmask=0,writeonly,wcb"`
	CHNL_REQ_MASK_SET hwio.Reg32 `hwio:"offset=0x20,rwmask=0,rcb,wcb"`
	CHNL_REQ_MASK_CLR hwio.Reg32 `hwio:"offset=0x24,rwmask=0,rcb=ReadCHNL_REQ_MASK_SET,wcb"`
	CHNL_ENABLE_SET   hwio.Reg32 `hwio:"offset=0x28,rwmask=0,rcb,wcb"`
	CHNL_ENABLE_CLR   hwio.Reg32 `hwio:"offset=0x2C,rwmask=0,rcb=ReadCHNL_ENABLE_SET,wcb"`
	CHNL_PRI_ALT_SET  hwio.Reg32 `hwio:"offset=0x30,rwmask=0,rcb,wcb"`
	CHNL_PRI_ALT_CLR  hwio.Reg32 `hwio:"offset=0x34,rwmask=0,rcb=ReadCHNL_PRI_ALT_SET,wcb"`
	CHNL_PRIORITY_SET hwio.Reg32 `hwio:"offset=0x38,rwmask=0,rcb,wcb"`
	CHNL_PRIORITY_CLR hwio.Reg32 `hwio:"offset=0x3C,rwmask=0,rcb=ReadCHNL_PRIORITY_SET,wcb"`
	ERR_CLR           hwio.Reg32 `hwio:"offset=0x4C,rwmask=0,rcb,wcb"`
	CHNL_DONE         hwio.Reg32 `hwio:"offset=0x50,rwmask=0,rcb,wcb"`
	CHNL_ERR          hwio.Reg32 `hwio:"offset=0x54,rwmask=0,rcb,wcb"`
	CHANNEL_STATUS    hwio.Reg32 `hwio:"offset=0x58,readonly,rcb"`
}

func NewUDMA(bus *hwio.Table, nvic interface{ SetIRQ(hwdefs.IRQ, bool) }) *UDMA {
	d := &UDMA{bus: bus, nvic: nvic}
	hwio.MustInitRegs(d)
	return d
}

func (d *UDMA) InitBus(base uint32) {
	d.bus.MapBank(base, d, 0)
}

func (d *UDMA) Reset() {
	d.cfg, d.swreq, d.reqs = 0, 0, 0
	d.enabled, d.reqMask, d.priAlt, d.prio = 0, 0, 0, 0
	d.done, d.errs, d.busErr = 0, 0, false
	d.CTRL_BASE_PTR.Value = 0
	d.updateIRQ()
}

// Request asserts the peripheral DMA request of channel ch. It is served on
// the next Step if the channel is enabled and its request line unmasked.
func (d *UDMA) Request(ch int) {
	d.reqs |= 1 << ch
}

// Busy reports whether channel ch is enabled and has not completed yet.
func (d *UDMA) Busy(ch int) bool { return d.enabled&(1<<ch) != 0 }

func (d *UDMA) ReadDMA_STATUS(uint32) uint32 {
	// master enable, and the number of channels minus one.
	return d.cfg&1 | (UDMANumChannels-1)<<16
}

func (d *UDMA) ReadDMA_CFG(uint32) uint32 { return d.cfg }
func (d *UDMA) WriteDMA_CFG(_, val uint32) {
	d.cfg = val & 1
	log.ModDMA.DebugZ("master enable").Bool("on", d.cfg != 0).End()
}

func (d *UDMA) ReadALT_CTRL_BASE_PTR(uint32) uint32 {
	return d.CTRL_BASE_PTR.Value + udmaAltOff
}

func (d *UDMA) WriteCHNL_SW_REQUEST(_, val uint32) { d.swreq |= val & d.enabled }

func (d *UDMA) ReadCHNL_REQ_MASK_SET(uint32) uint32  { return d.reqMask }
func (d *UDMA) WriteCHNL_REQ_MASK_SET(_, val uint32) { d.reqMask |= val }
func (d *UDMA) WriteCHNL_REQ_MASK_CLR(_, val uint32) { d.reqMask &^= val }

func (d *UDMA) ReadCHNL_ENABLE_SET(uint32) uint32  { return d.enabled }
func (d *UDMA) WriteCHNL_ENABLE_SET(_, val uint32) { d.enabled |= val }
func (d *UDMA) WriteCHNL_ENABLE_CLR(_, val uint32) {
	d.enabled &^= val
	d.swreq &^= val
}

func (d *UDMA) ReadCHNL_PRI_ALT_SET(uint32) uint32  { return d.priAlt }
func (d *UDMA) WriteCHNL_PRI_ALT_SET(_, val uint32) { d.priAlt |= val }
func (d *UDMA) WriteCHNL_PRI_ALT_CLR(_, val uint32) { d.priAlt &^= val }

func (d *UDMA) ReadCHNL_PRIORITY_SET(uint32) uint32  { return d.prio }
func (d *UDMA) WriteCHNL_PRIORITY_SET(_, val uint32) { d.prio |= val }
func (d *UDMA) WriteCHNL_PRIORITY_CLR(_, val uint32) { d.prio &^= val }

// ERR_CLR reads the bus error flag; writing 1 clears it.
func (d *UDMA) ReadERR_CLR(uint32) uint32 {
	if d.busErr {
		return 1
	}
	return 0
}

func (d *UDMA) WriteERR_CLR(_, val uint32) {
	if val&1 != 0 {
		d.busErr = false
	}
}

// CHNL_DONE and CHNL_ERR hold per-channel completion and error flags, cleared
// by writing 1.
func (d *UDMA) ReadCHNL_DONE(uint32) uint32 { return d.done }
func (d *UDMA) WriteCHNL_DONE(_, val uint32) {
	d.done &^= val
	d.updateIRQ()
}

func (d *UDMA) ReadCHNL_ERR(uint32) uint32 { return d.errs }
func (d *UDMA) WriteCHNL_ERR(_, val uint32) {
	d.errs &^= val
	d.updateIRQ()
}

func (d *UDMA) ReadCHANNEL_STATUS(uint32) uint32 { return d.enabled }

func (d *UDMA) updateIRQ() {
	if d.nvic != nil {
		d.nvic.SetIRQ(hwdefs.IRQ_UDMA0, d.done|d.errs != 0)
	}
}

// Step serves the pending requests of enabled channels, high priority
// channels first, then by channel number.
func (d *UDMA) Step() {
	if d.cfg&1 == 0 {
		return
	}
	active := d.enabled & (d.swreq | d.reqs&^d.reqMask)
	d.reqs = 0
	for active != 0 {
		var ch int
		if hi := active & d.prio; hi != 0 {
			ch = bits.TrailingZeros32(hi)
		} else {
			ch = bits.TrailingZeros32(active)
		}
		active &^= 1 << ch
		d.swreq &^= 1 << ch
		d.run(ch)
	}
}

func (d *UDMA) desc(ch int) uint32 {
	addr := d.CTRL_BASE_PTR.Value + uint32(ch)*udmaDescSize
	if d.priAlt&(1<<ch) != 0 {
		addr += udmaAltOff
	}
	return addr
}

func (d *UDMA) fail(ch int, why string, addr uint32) {
	log.ModDMA.ErrorZ("transfer error").
		Int("ch", ch).
		String("why", why).
		Hex32("addr", addr).
		End()
	d.busErr = true
	d.errs |= 1 << ch
	d.enabled &^= 1 << ch
	d.updateIRQ()
}

// run executes the whole cycle described by the current descriptor of ch.
func (d *UDMA) run(ch int) {
	desc := d.desc(ch)
	if !d.bus.Mapped(desc) {
		d.fail(ch, "descriptor not in memory", desc)
		return
	}
	srcEnd := d.bus.Read32(desc + udmaSrcEnd)
	dstEnd := d.bus.Read32(desc + udmaDstEnd)
	ctrl := d.bus.Read32(desc + udmaCtrl)

	cycle := ctrl & UDMACycleMask
	if cycle == UDMACycleStop {
		d.fail(ch, "stopped descriptor", desc)
		return
	}
	n := hwio.Field32(ctrl, UDMANMinus1Shift, 10) + 1
	srcSize := hwio.Field32(ctrl, UDMASrcSizeShift, 2)
	dstSize := hwio.Field32(ctrl, UDMADstSizeShift, 2)
	srcInc := hwio.Field32(ctrl, UDMASrcIncShift, 2)
	dstInc := hwio.Field32(ctrl, UDMADstIncShift, 2)

	src := start(srcEnd, srcInc, n)
	dst := start(dstEnd, dstInc, n)
	if !d.bus.Mapped(src) || !d.bus.Mapped(dst) {
		d.fail(ch, "unmapped source or destination", src)
		return
	}

	for range n {
		d.store(dst, dstSize, d.load(src, srcSize))
		src += step(srcInc)
		dst += step(dstInc)
	}

	// Write back the descriptor, as the controller does at the end of a cycle.
	d.bus.Write32(desc+udmaCtrl, ctrl&^(UDMANMinus1Mask|UDMACycleMask))

	log.ModDMA.DebugZ("transfer done").
		Int("ch", ch).
		Uint("n", uint64(n)).
		Hex32("dst", dstEnd).
		End()

	if cycle == UDMACyclePingPong {
		d.priAlt ^= 1 << ch
	} else {
		d.enabled &^= 1 << ch
	}
	d.done |= 1 << ch
	d.updateIRQ()
}

func step(inc uint32) uint32 {
	if inc == UDMAIncNone {
		return 0
	}
	return 1 << inc
}

// start returns the first address of a transfer given its end pointer.
func start(end, inc, n uint32) uint32 {
	return end - (n-1)*step(inc)
}

func (d *UDMA) load(addr, size uint32) uint32 {
	w := d.bus.Read32(addr)
	switch size {
	case UDMASize8:
		return (w >> (8 * (addr & 3))) & 0xFF
	case UDMASize16:
		return (w >> (8 * (addr & 2))) & 0xFFFF
	}
	return w
}

func (d *UDMA) store(addr, size, val uint32) {
	switch size {
	case UDMASize8:
		sh := 8 * (addr & 3)
		d.bus.Modify32(addr, 0xFF<<sh, (val&0xFF)<<sh)
	case UDMASize16:
		sh := 8 * (addr & 2)
		d.bus.Modify32(addr, 0xFFFF<<sh, (val&0xFFFF)<<sh)
	default:
		d.bus.Write32(addr, val)
	}
}
