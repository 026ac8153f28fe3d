package hw

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/hw/hwdefs"
	"sict/hw/hwio"
)

// SoC wires the timer, its DMA controller and interrupt controller, the clock
// gate and SRAM onto one 32-bit bus.
type SoC struct {
	Bus *hwio.Table

	SRAM  hwio.Mem `hwio:"offset=0,size=0x40000"`
	CT    *ct.CT
	Mux   *ct.Mux
	UDMA  *UDMA
	NVIC  *NVIC
	Clock *ClockGate
}

func NewSoC() *SoC {
	s := &SoC{Bus: hwio.NewTable("sys")}
	hwio.MustInitRegs(s)

	s.NVIC = NewNVIC()
	s.Clock = NewClockGate()
	s.UDMA = NewUDMA(s.Bus, s.NVIC)
	s.CT = ct.New(s.NVIC, s.UDMA)
	s.Mux = ct.NewMux()

	s.Bus.MapBank(hwdefs.SRAMBase, s, 0)
	s.NVIC.InitBus(s.Bus)
	s.Clock.InitBus(s.Bus)
	s.UDMA.InitBus(hwdefs.UDMABase)
	s.CT.InitBus(s.Bus, hwdefs.CTBase)
	s.Mux.InitBus(s.Bus, hwdefs.CTMuxBase)
	return s
}

// Reset puts every peripheral back in its power-on state. A hard reset also
// clears SRAM.
func (s *SoC) Reset(soft bool) {
	log.ModEmu.InfoZ("reset").Bool("soft", soft).End()
	if !soft {
		clear(s.SRAM.Data)
	}
	s.NVIC.Reset()
	s.Clock.Reset()
	s.UDMA.Reset()
	s.CT.Reset()
}

// Cycles returns the number of CT clock cycles run so far.
func (s *SoC) Cycles() int64 { return s.CT.Cycles }

// Run advances the system by n CT clock cycles. After each cycle the uDMA
// serves its requests and the NVIC runs the handlers of pending interrupts.
// A gated CT does not count, but DMA and interrupts are still served.
func (s *SoC) Run(n int64) {
	for range n {
		if s.Clock.Enabled(hwdefs.ClkCT) {
			s.CT.Tick()
		}
		if s.Clock.Enabled(hwdefs.ClkUDMA) {
			s.UDMA.Step()
		}
		s.NVIC.Service()
	}
}

// RunFor advances the system by the given number of microseconds, at the
// current CT clock rate.
func (s *SoC) RunFor(us int64) {
	s.Run(us * int64(s.Clock.Rate(hwdefs.ClkCT)) / 1_000_000)
}

// The methods below expose the SoC to drivers: bus accesses, NVIC and clock
// gating, as a CMSIS device header would.

func (s *SoC) Read32(addr uint32) uint32        { return s.Bus.Read32(addr) }
func (s *SoC) Write32(addr, val uint32)         { s.Bus.Write32(addr, val) }
func (s *SoC) Modify32(addr, clear, set uint32) { s.Bus.Modify32(addr, clear, set) }

func (s *SoC) EnableIRQ(irq hwdefs.IRQ)             { s.NVIC.EnableIRQ(irq) }
func (s *SoC) DisableIRQ(irq hwdefs.IRQ)            { s.NVIC.DisableIRQ(irq) }
func (s *SoC) SetHandler(irq hwdefs.IRQ, fn func()) { s.NVIC.SetHandler(irq, fn) }

func (s *SoC) PeripheralClkEnable(p hwdefs.Peripheral, hz uint32) {
	s.Clock.PeripheralClkEnable(p, hz)
}

func (s *SoC) PeripheralClkDisable(p hwdefs.Peripheral) {
	s.Clock.PeripheralClkDisable(p)
}
