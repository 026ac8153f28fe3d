package hw

import (
	"sict/emu/log"
	"sict/hw/hwdefs"
	"sict/hw/hwio"
)

// NVICBase is the address of the interrupt set-enable registers.
const NVICBase = 0xE000_E100

// maximum number of handler entries per Service call. A level-sensitive line
// nobody clears would otherwise spin forever.
const maxTailChain = 64

// NVIC is the Cortex-M4 nested vectored interrupt controller, reduced to what
// the peripherals of this SoC need: level-sensitive lines, enable and pending
// state, and synchronous handler dispatch between two clock cycles.
type NVIC struct {
	enabled  hwio.Bitset
	pending  hwio.Bitset
	asserted hwio.Bitset
	handlers [hwdefs.NumIRQs]func()
	active   int // IRQ being serviced, -1 if none
	obs      IRQObserver

	ISER hwio.Device `hwio:"offset=0x000,size=0x10,rcb,pcb=ReadISER,wcb"`
	ICER hwio.Device `hwio:"offset=0x080,size=0x10,rcb=ReadISER,pcb=ReadISER,wcb"`
	ISPR hwio.Device `hwio:"offset=0x100,size=0x10,rcb,pcb=ReadISPR,wcb"`
	ICPR hwio.Device `hwio:"offset=0x180,size=0x10,rcb=ReadISPR,pcb=ReadISPR,wcb"`
}

// An IRQObserver is notified of every handler entry.
type IRQObserver interface {
	ObserveIRQ(irq hwdefs.IRQ)
}

func NewNVIC() *NVIC {
	n := &NVIC{active: -1}
	hwio.MustInitRegs(n)
	return n
}

func (n *NVIC) InitBus(bus *hwio.Table) {
	bus.MapBank(NVICBase, n, 0)
}

func (n *NVIC) Reset() {
	n.enabled.Reset()
	n.pending.Reset()
	n.asserted.Reset()
	n.active = -1
}

func (n *NVIC) SetObserver(obs IRQObserver) { n.obs = obs }

// SetHandler installs the handler of an interrupt line (vector table entry).
func (n *NVIC) SetHandler(irq hwdefs.IRQ, fn func()) {
	n.handlers[irq] = fn
}

func (n *NVIC) EnableIRQ(irq hwdefs.IRQ) {
	log.ModNVIC.DebugZ("enable").Stringer("irq", irq).End()
	n.enabled.Set(uint(irq))
}

func (n *NVIC) DisableIRQ(irq hwdefs.IRQ) {
	log.ModNVIC.DebugZ("disable").Stringer("irq", irq).End()
	n.enabled.Clear(uint(irq))
}

func (n *NVIC) IRQEnabled(irq hwdefs.IRQ) bool { return n.enabled.Test(uint(irq)) }
func (n *NVIC) IRQPending(irq hwdefs.IRQ) bool { return n.pending.Test(uint(irq)) }

func (n *NVIC) SetPendingIRQ(irq hwdefs.IRQ)   { n.pending.Set(uint(irq)) }
func (n *NVIC) ClearPendingIRQ(irq hwdefs.IRQ) { n.pending.Clear(uint(irq)) }

// SetIRQ drives the level of an interrupt line. A line becomes pending when it
// is asserted, and stays so while asserted.
func (n *NVIC) SetIRQ(irq hwdefs.IRQ, level bool) {
	if level {
		n.asserted.Set(uint(irq))
		n.pending.Set(uint(irq))
	} else {
		n.asserted.Clear(uint(irq))
	}
}

// Service runs the handlers of the enabled pending interrupts, lowest line
// number first. A line still asserted when its handler returns is pending
// again, and its handler is re-entered.
func (n *NVIC) Service() {
	if n.active >= 0 {
		return
	}
	for range maxTailChain {
		ready := n.pending.And(&n.enabled)
		irq := ready.First()
		if irq < 0 {
			return
		}
		n.pending.Clear(uint(irq))

		h := n.handlers[irq]
		if h == nil {
			log.ModNVIC.WarnZ("no handler").Stringer("irq", hwdefs.IRQ(irq)).End()
			continue
		}
		n.active = irq
		if n.obs != nil {
			n.obs.ObserveIRQ(hwdefs.IRQ(irq))
		}
		h()
		n.active = -1
		if n.asserted.Test(uint(irq)) {
			n.pending.Set(uint(irq))
		}
	}
	log.ModNVIC.WarnZ("interrupt storm, handler does not clear its source").
		Int("chain", maxTailChain).
		End()
}

func regIndex(addr uint32) uint { return uint(addr&0x7F) / 4 }

func readBits(b *hwio.Bitset, word uint) uint32 {
	var v uint32
	for i := range uint(32) {
		if irq := word*32 + i; irq < hwdefs.NumIRQs && b.Test(irq) {
			v |= 1 << i
		}
	}
	return v
}

func writeBits(b *hwio.Bitset, word uint, val uint32, set bool) {
	for i := range uint(32) {
		irq := word*32 + i
		if val&(1<<i) == 0 || irq >= hwdefs.NumIRQs {
			continue
		}
		if set {
			b.Set(irq)
		} else {
			b.Clear(irq)
		}
	}
}

func (n *NVIC) ReadISER(addr uint32) uint32       { return readBits(&n.enabled, regIndex(addr)) }
func (n *NVIC) WriteISER(addr uint32, val uint32) { writeBits(&n.enabled, regIndex(addr), val, true) }
func (n *NVIC) WriteICER(addr uint32, val uint32) { writeBits(&n.enabled, regIndex(addr), val, false) }
func (n *NVIC) ReadISPR(addr uint32) uint32       { return readBits(&n.pending, regIndex(addr)) }
func (n *NVIC) WriteISPR(addr uint32, val uint32) { writeBits(&n.pending, regIndex(addr), val, true) }
func (n *NVIC) WriteICPR(addr uint32, val uint32) { writeBits(&n.pending, regIndex(addr), val, false) }
