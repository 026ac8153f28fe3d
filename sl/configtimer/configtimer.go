// Package configtimer is the driver of the Configurable Timer (CT): counter
// configuration, action events, output compare and waveform generation, DMA
// streaming of compare values and the interrupt front-end.
//
// The driver programs the CT through the memory-mapped registers of a
// Platform. It keeps no state beyond what it needs to validate starts and
// dispatch interrupts; the hardware registers are the only copy of the
// configuration.
package configtimer

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/hw/hwdefs"
	"sict/sl/dma"
)

// Platform gives the driver access to the CT registers, the NVIC and the
// peripheral clocks.
type Platform interface {
	Read32(addr uint32) uint32
	Write32(addr, val uint32)
	EnableIRQ(irq hwdefs.IRQ)
	DisableIRQ(irq hwdefs.IRQ)
	SetHandler(irq hwdefs.IRQ, fn func())
	PeripheralClkEnable(p hwdefs.Peripheral, hz uint32)
	PeripheralClkDisable(p hwdefs.Peripheral)
}

type Options struct {
	// UC makes SetConfiguration program UCConfig instead of the
	// configuration it is given.
	UC       bool
	UCConfig Config

	// BaseClock is the CT clock frequency in Hz. Zero selects
	// hwdefs.DefaultCTClock.
	BaseClock uint32

	// DMA is the DMA driver used for compare value streaming. If nil, the
	// driver creates its own.
	DMA *dma.Driver
}

// Callback is called from the interrupt handler with the interrupt cause,
// or with FlagDMAError and the channel number on a DMA error.
type Callback func(flag Flag)

type registration struct {
	fn    Callback
	flags Flag
}

// counterState records what the driver programmed for one counter.
type counterState struct {
	dirBits uint32 // GEN_CTRL direction field
	initial uint32
	match   uint32
}

func (s *counterState) dir() Direction {
	switch s.dirBits {
	case ct.DirDown:
		return Down
	case ct.DirUpDown:
		return UpDown
	}
	return Up
}

// Driver drives one CT instance.
type Driver struct {
	p    Platform
	opts Options
	base uint32 // CT registers
	mux  uint32 // CT_MUX registers

	mode32 bool
	cnt    [CounterLast]counterState

	reg *registration

	dma     *dma.Driver
	streams [len(dmaChannels)]dmaStream
}

func New(p Platform, opts Options) *Driver {
	if opts.BaseClock == 0 {
		opts.BaseClock = hwdefs.DefaultCTClock
	}
	d := &Driver{
		p:    p,
		opts: opts,
		base: hwdefs.CTBase,
		mux:  hwdefs.CTMuxBase,
		dma:  opts.DMA,
	}
	if d.dma == nil {
		d.dma = dma.New(p)
	}
	p.SetHandler(hwdefs.IRQ_CT, d.HandleIRQ)
	return d
}

func (d *Driver) read(off uint32) uint32 { return d.p.Read32(d.base + off) }
func (d *Driver) write(off, val uint32)  { d.p.Write32(d.base+off, val) }
func (d *Driver) or(off, val uint32)     { d.write(off, d.read(off)|val) }
func (d *Driver) andNot(off, val uint32) { d.write(off, d.read(off)&^val) }
func (d *Driver) shift(c Counter) uint32 { return ct.Counter1Shift * uint32(c) }
func (d *Driver) half(off uint32, c Counter) uint32 {
	return (d.read(off) >> d.shift(c)) & 0xFFFF
}

func (d *Driver) setHalf(off uint32, c Counter, v uint16) {
	sh := d.shift(c)
	d.write(off, d.read(off)&^(0xFFFF<<sh)|uint32(v)<<sh)
}

// Init enables the CT clock at the base clock frequency.
func (d *Driver) Init() {
	d.p.PeripheralClkEnable(hwdefs.ClkCT, d.opts.BaseClock)
	log.ModDriver.InfoZ("config timer init").
		Uint("clock", uint64(d.opts.BaseClock)).
		End()
}

// Deinit masks every interrupt cause, drops the registered callback and
// gates the CT clock.
func (d *Driver) Deinit() {
	d.Unregister(&AllInterrupts)
	d.p.PeripheralClkDisable(hwdefs.ClkCT)
	log.ModDriver.InfoZ("config timer deinit").End()
}

func (d *Driver) Version() Version {
	return Version{Release: 0, Major: 0, Minor: 1}
}
