package hw

import (
	"sict/emu/log"
	"sict/hw/hwdefs"
	"sict/hw/hwio"
)

// ClockGate gates the peripheral clocks of the M4 subsystem.
type ClockGate struct {
	enabled hwdefs.Peripheral
	rate    map[hwdefs.Peripheral]uint32

	CLK_ENABLE_SET hwio.Reg32 `hwio:"offset=0x00,rwmask=0,rcb,wcb"`
	CLK_ENABLE_CLR hwio.Reg32 `hwio:"offset=0x04,rwmask=0,rcb=ReadCLK_ENABLE_SET,wcb"`
	CT_CLK_RATE    hwio.Reg32 `hwio:"offset=0x10,wcb"`
}

func NewClockGate() *ClockGate {
	g := &ClockGate{rate: make(map[hwdefs.Peripheral]uint32)}
	hwio.MustInitRegs(g)
	return g
}

func (g *ClockGate) InitBus(bus *hwio.Table) {
	bus.MapBank(hwdefs.ClockBase, g, 0)
}

func (g *ClockGate) Reset() {
	g.enabled = 0
	clear(g.rate)
	g.CT_CLK_RATE.Value = 0
}

// PeripheralClkEnable ungates the clock of p and sets its rate in Hz. A zero
// rate keeps the previous one.
func (g *ClockGate) PeripheralClkEnable(p hwdefs.Peripheral, hz uint32) {
	if hz != 0 {
		g.rate[p] = hz
		if p == hwdefs.ClkCT {
			g.CT_CLK_RATE.Value = hz
		}
	}
	g.enabled |= p
	log.ModClock.InfoZ("clock enable").
		Stringer("periph", p).
		Uint("hz", uint64(g.rate[p])).
		End()
}

func (g *ClockGate) PeripheralClkDisable(p hwdefs.Peripheral) {
	g.enabled &^= p
	log.ModClock.InfoZ("clock disable").Stringer("periph", p).End()
}

func (g *ClockGate) Enabled(p hwdefs.Peripheral) bool { return g.enabled&p == p }

// Rate returns the clock rate of p, in Hz.
func (g *ClockGate) Rate(p hwdefs.Peripheral) uint32 { return g.rate[p] }

func (g *ClockGate) ReadCLK_ENABLE_SET(uint32) uint32 { return uint32(g.enabled) }

func (g *ClockGate) WriteCLK_ENABLE_SET(_, val uint32) {
	g.PeripheralClkEnable(hwdefs.Peripheral(val), 0)
}

func (g *ClockGate) WriteCLK_ENABLE_CLR(_, val uint32) {
	g.PeripheralClkDisable(hwdefs.Peripheral(val))
}

func (g *ClockGate) WriteCT_CLK_RATE(_, val uint32) {
	g.rate[hwdefs.ClkCT] = val
}
