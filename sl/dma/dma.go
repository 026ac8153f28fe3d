// Package dma is the uDMA driver: channel allocation, callbacks and
// transfers.
//
// Channels are numbered from 0 to NumChannels-1.
package dma

import (
	"sict/emu/log"
	"sict/hw/hwdefs"
	"sict/sl/status"
)

const (
	// Instance0 is the only DMA controller of the M4 subsystem modeled here.
	Instance0 = 0

	NumChannels = 32

	// AnyChannel asks AllocateChannel for the first free channel.
	AnyChannel = ^uint32(0)

	// MaxTransferCount is the maximum number of items of a single cycle.
	MaxTransferCount = 1024

	PriorityLow  = 0
	PriorityHigh = 1
)

type TransferType uint8

const (
	MemoryToMemory TransferType = iota
	MemoryToPeripheral
	PeripheralToMemory
)

type Mode uint8

const (
	BasicMode    Mode = 1
	PingPongMode Mode = 3
)

// Inc is the address increment after each item.
type Inc uint8

const (
	Inc8 Inc = iota
	Inc16
	Inc32
	IncNone
)

// Size is the item size of a transfer.
type Size uint8

const (
	Size8 Size = iota
	Size16
	Size32
)

// Xfer describes a transfer.
type Xfer struct {
	Src, Dst uint32 // start addresses
	SrcInc   Inc
	DstInc   Inc
	Size     Size
	Count    uint32 // number of items
	Type     TransferType
	Mode     Mode
	Signal   uint8 // peripheral ack signal, 0 for none
}

// Callbacks are run from the DMA interrupt handler.
type Callbacks struct {
	TransferComplete func(ch uint32)
	Error            func(ch uint32)
}

// CallbackType selects the callbacks UnregisterCallbacks removes.
type CallbackType uint8

const (
	TransferCompleteCB CallbackType = 1 << iota
	ErrorCB
)

// Platform is the part of the SoC the driver programs.
type Platform interface {
	Read32(addr uint32) uint32
	Write32(addr, val uint32)
	EnableIRQ(irq hwdefs.IRQ)
	DisableIRQ(irq hwdefs.IRQ)
	SetHandler(irq hwdefs.IRQ, fn func())
	PeripheralClkEnable(p hwdefs.Peripheral, hz uint32)
	PeripheralClkDisable(p hwdefs.Peripheral)
}

type channel struct {
	allocated bool
	prio      uint32
	cb        Callbacks
	typ       TransferType
	mode      Mode
}

// Driver drives one uDMA controller.
type Driver struct {
	p           Platform
	initialized bool
	chans       [NumChannels]channel
}

func New(p Platform) *Driver {
	return &Driver{p: p}
}

func (d *Driver) reg(off uint32) uint32 { return hwdefs.UDMABase + off }

// check validates the controller and channel numbers, and that the
// controller is initialized.
func (d *Driver) check(dma, ch uint32) error {
	if dma != Instance0 || ch >= NumChannels {
		return status.InvalidParameter
	}
	if !d.initialized {
		return status.NotInitialized
	}
	return nil
}

// Init initializes the controller. Initializing an initialized controller
// programs it again, as needed after a sleep-wakeup cycle.
func (d *Driver) Init(dma uint32) error {
	if dma != Instance0 {
		return status.InvalidParameter
	}
	d.p.PeripheralClkEnable(hwdefs.ClkUDMA, hwdefs.CoreClock)
	d.p.Write32(d.reg(hwdefs.UDMACtrlBasePtr), hwdefs.UDMADescBase)
	d.p.SetHandler(hwdefs.IRQ_UDMA0, d.HandleIRQ)
	d.p.EnableIRQ(hwdefs.IRQ_UDMA0)
	d.initialized = true
	log.ModDMA.InfoZ("init").Hex32("ctrl_base", hwdefs.UDMADescBase).End()
	return nil
}

// Deinit stops the controller. It fails with Busy while a channel has a
// transfer in progress. Channel allocations survive.
func (d *Driver) Deinit(dma uint32) error {
	if dma != Instance0 {
		return status.InvalidParameter
	}
	if !d.initialized {
		return status.NotInitialized
	}
	if d.p.Read32(d.reg(hwdefs.UDMAChannelStatus)) != 0 {
		return status.Busy
	}
	for i := range d.chans {
		d.chans[i].cb = Callbacks{}
	}
	d.p.Write32(d.reg(hwdefs.UDMACfg), 0)
	d.p.DisableIRQ(hwdefs.IRQ_UDMA0)
	d.p.PeripheralClkDisable(hwdefs.ClkUDMA)
	d.initialized = false
	log.ModDMA.InfoZ("deinit").End()
	return nil
}

// AllocateChannel reserves *ch, or the first free channel if *ch is
// AnyChannel, in which case *ch is set to the allocated channel.
func (d *Driver) AllocateChannel(dma uint32, ch *uint32, prio uint32) error {
	if ch == nil || dma != Instance0 {
		return status.InvalidParameter
	}
	if *ch != AnyChannel && *ch >= NumChannels {
		return status.InvalidParameter
	}
	if prio > PriorityHigh {
		return status.InvalidParameter
	}
	if !d.initialized {
		return status.NotInitialized
	}

	if *ch == AnyChannel {
		for i := range d.chans {
			if !d.chans[i].allocated {
				d.chans[i] = channel{allocated: true, prio: prio}
				*ch = uint32(i)
				log.ModDMA.DebugZ("allocate").Uint("ch", uint64(i)).End()
				return nil
			}
		}
		return status.DMANoChannelAvailable
	}

	c := &d.chans[*ch]
	if c.allocated {
		return status.DMAChannelAllocated
	}
	*c = channel{allocated: true, prio: prio}
	log.ModDMA.DebugZ("allocate").Uint("ch", uint64(*ch)).End()
	return nil
}

func (d *Driver) DeallocateChannel(dma, ch uint32) error {
	if err := d.check(dma, ch); err != nil {
		return err
	}
	if d.busy(ch) {
		return status.Busy
	}
	if !d.chans[ch].allocated {
		return status.DMAChannelAlreadyUnallocated
	}
	d.chans[ch] = channel{}
	return nil
}

func (d *Driver) RegisterCallbacks(dma, ch uint32, cb *Callbacks) error {
	if dma != Instance0 || ch >= NumChannels {
		return status.InvalidParameter
	}
	if cb == nil {
		return status.NullPointer
	}
	if !d.initialized {
		return status.NotInitialized
	}
	d.chans[ch].cb = *cb
	return nil
}

func (d *Driver) UnregisterCallbacks(dma, ch uint32, which CallbackType) error {
	if dma != Instance0 || ch >= NumChannels {
		return status.InvalidParameter
	}
	if which == 0 || which&^(TransferCompleteCB|ErrorCB) != 0 {
		return status.InvalidParameter
	}
	if !d.initialized {
		return status.NotInitialized
	}
	if which&TransferCompleteCB != 0 {
		d.chans[ch].cb.TransferComplete = nil
	}
	if which&ErrorCB != 0 {
		d.chans[ch].cb.Error = nil
	}
	return nil
}

func (d *Driver) busy(ch uint32) bool {
	return d.p.Read32(d.reg(hwdefs.UDMAChannelStatus))&(1<<ch) != 0
}

func incBytes(inc Inc) uint32 {
	if inc == IncNone {
		return 0
	}
	return 1 << inc
}

// Transfer programs ch with x. Memory to memory transfers start right away;
// the others wait for requests from the peripheral.
func (d *Driver) Transfer(dma, ch uint32, x *Xfer) error {
	if dma != Instance0 || ch >= NumChannels {
		return status.InvalidParameter
	}
	if x == nil {
		return status.NullPointer
	}
	switch {
	case x.Count == 0:
		return status.InvalidParameter
	case x.Src == 0 || x.Dst == 0:
		return status.NullPointer
	case x.SrcInc > IncNone || x.DstInc > IncNone:
		return status.InvalidParameter
	case x.Mode != BasicMode && x.Mode != PingPongMode:
		return status.InvalidParameter
	case x.Type > PeripheralToMemory:
		return status.InvalidParameter
	case x.Signal > 7:
		return status.InvalidParameter
	case x.Size > Size32:
		return status.InvalidParameter
	}
	if !d.initialized {
		return status.NotInitialized
	}
	c := &d.chans[ch]
	if !c.allocated {
		return status.DMAChannelUnallocated
	}
	c.typ, c.mode = x.Type, x.Mode

	n := min(x.Count, MaxTransferCount)
	rpower := uint32(10) // arbitrate after 1024 items
	if x.Type != MemoryToMemory {
		rpower = 0
	}
	ctrl := uint32(x.Mode) |
		(n-1)<<hwdefs.UDMANMinus1Shift |
		rpower<<hwdefs.UDMARPowerShift |
		uint32(x.Size)<<hwdefs.UDMASrcSizeShift |
		uint32(x.SrcInc)<<hwdefs.UDMASrcIncShift |
		uint32(x.Size)<<hwdefs.UDMADstSizeShift |
		uint32(x.DstInc)<<hwdefs.UDMADstIncShift
	srcEnd := x.Src + (n-1)*incBytes(x.SrcInc)
	dstEnd := x.Dst + (n-1)*incBytes(x.DstInc)

	d.writeDesc(ch, 0, srcEnd, dstEnd, ctrl)
	if x.Mode == PingPongMode {
		d.writeDesc(ch, hwdefs.UDMAAltOff, srcEnd, dstEnd, ctrl)
	}

	bit := uint32(1) << ch
	d.p.Write32(d.reg(hwdefs.UDMAPriAltClr), bit)
	if c.prio == PriorityHigh {
		d.p.Write32(d.reg(hwdefs.UDMAPrioritySet), bit)
	} else {
		d.p.Write32(d.reg(hwdefs.UDMAPriorityClr), bit)
	}
	d.p.Write32(d.reg(hwdefs.UDMAReqMaskClr), bit)

	log.ModDMA.DebugZ("transfer").
		Uint("ch", uint64(ch)).
		Hex32("src", x.Src).
		Hex32("dst", x.Dst).
		Uint("n", uint64(n)).
		End()

	if x.Type == MemoryToMemory {
		d.p.Write32(d.reg(hwdefs.UDMAEnableSet), bit)
		d.p.Write32(d.reg(hwdefs.UDMACfg), 1)
		d.p.Write32(d.reg(hwdefs.UDMASwRequest), bit)
	}
	return nil
}

func (d *Driver) writeDesc(ch, alt, srcEnd, dstEnd, ctrl uint32) {
	addr := uint32(hwdefs.UDMADescBase) + alt + ch*hwdefs.UDMADescSize
	d.p.Write32(addr, srcEnd)
	d.p.Write32(addr+4, dstEnd)
	d.p.Write32(addr+8, ctrl)
}

// SimpleTransfer copies count words from src to dst on ch.
func (d *Driver) SimpleTransfer(dma, ch, src, dst, count uint32) error {
	return d.Transfer(dma, ch, &Xfer{
		Src:    src,
		Dst:    dst,
		SrcInc: Inc32,
		DstInc: Inc32,
		Size:   Size32,
		Count:  count,
		Type:   MemoryToMemory,
		Mode:   BasicMode,
	})
}

// StopTransfer disables ch, aborting its transfer.
func (d *Driver) StopTransfer(dma, ch uint32) error {
	if err := d.check(dma, ch); err != nil {
		return err
	}
	d.p.Write32(d.reg(hwdefs.UDMAEnableClr), 1<<ch)
	return nil
}

// ChannelStatus returns Busy while a transfer is in progress on ch,
// DMAChannelAllocated for an idle allocated channel, and Idle otherwise.
func (d *Driver) ChannelStatus(dma, ch uint32) status.Status {
	if err := d.check(dma, ch); err != nil {
		return status.Of(err)
	}
	if d.busy(ch) {
		return status.Busy
	}
	if d.chans[ch].allocated {
		return status.DMAChannelAllocated
	}
	return status.Idle
}

func (d *Driver) ChannelEnable(dma, ch uint32) error {
	if err := d.check(dma, ch); err != nil {
		return err
	}
	d.p.Write32(d.reg(hwdefs.UDMAEnableSet), 1<<ch)
	return nil
}

func (d *Driver) ChannelDisable(dma, ch uint32) error {
	if err := d.check(dma, ch); err != nil {
		return err
	}
	d.p.Write32(d.reg(hwdefs.UDMAEnableClr), 1<<ch)
	return nil
}

// Enable sets the master enable of the controller.
func (d *Driver) Enable(dma uint32) error {
	if dma != Instance0 {
		return status.InvalidParameter
	}
	if !d.initialized {
		return status.NotInitialized
	}
	d.p.Write32(d.reg(hwdefs.UDMACfg), 1)
	if d.p.Read32(d.reg(hwdefs.UDMAStatus))&1 == 0 {
		return status.Fail
	}
	return nil
}

// HandleIRQ is the uDMA interrupt handler: it acknowledges every completed
// or failed channel and runs its callbacks.
func (d *Driver) HandleIRQ() {
	errs := d.p.Read32(d.reg(hwdefs.UDMAChnlErr))
	done := d.p.Read32(d.reg(hwdefs.UDMAChnlDone))
	if errs != 0 {
		d.p.Write32(d.reg(hwdefs.UDMAErrClr), 1)
		d.p.Write32(d.reg(hwdefs.UDMAChnlErr), errs)
	}
	if done != 0 {
		d.p.Write32(d.reg(hwdefs.UDMAChnlDone), done)
	}

	for ch := range uint32(NumChannels) {
		bit := uint32(1) << ch
		cb := d.chans[ch].cb
		if errs&bit != 0 {
			log.ModDMA.WarnZ("channel error").Uint("ch", uint64(ch)).End()
			if cb.Error != nil {
				cb.Error(ch)
			}
		}
		if done&bit != 0 && cb.TransferComplete != nil {
			cb.TransferComplete(ch)
		}
	}
}
