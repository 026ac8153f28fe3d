package configtimer

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/hw/hwdefs"
	"sict/sl/dma"
	"sict/sl/status"
)

// DMA channels serving the OCU of each counter: channel 0 feeds
// OCU_COMPARE_NXT and channel 8 feeds OCU_COMPARE2_NXT.
const (
	DMAChannel0 = 0
	DMAChannel8 = 8

	// DMATransferSize is the number of words moved by each transfer.
	DMATransferSize = 1
)

var dmaChannels = [2]uint32{DMAChannel0, DMAChannel8}

type dmaStream struct {
	stream *CompareValueStream
	table  uint32 // SRAM copy of the stream values
	xfer   dma.Xfer
	done   bool
}

func dmaIndex(channel uint32) (int, bool) {
	for i, ch := range dmaChannels {
		if ch == channel {
			return i, true
		}
	}
	return 0, false
}

// SetDMAConfiguration prepares DMA channel 0 or 8 to stream the values of s
// into the next compare register of its counter. The values are copied to
// SRAM once, here: later changes to the slice behind s are not seen by the
// DMA. Stream values are written as is to the 32-bit register: in 16-bit
// mode the counter 1 half is the upper one.
func (d *Driver) SetDMAConfiguration(s *CompareValueStream, channel uint32) error {
	idx, ok := dmaIndex(channel)
	if !ok {
		return status.InvalidParameter
	}
	if s == nil {
		return status.NullPointer
	}
	if len(s.values) > hwdefs.CTDMATableWords {
		return status.InvalidParameter
	}
	if err := d.dma.Init(dma.Instance0); err != nil {
		return err
	}

	dst := uint32(ct.RegOCUCompareNxt)
	if channel == DMAChannel8 {
		dst = ct.RegOCUCompare2Nxt
	}
	st := &d.streams[idx]
	st.stream = s
	st.table = hwdefs.CTDMATables + 4*hwdefs.CTDMATableWords*uint32(idx)
	st.done = false
	for i, v := range s.values {
		d.p.Write32(st.table+4*uint32(i), v)
	}
	st.xfer = dma.Xfer{
		Src:    st.table,
		Dst:    d.base + dst,
		SrcInc: dma.Inc32,
		DstInc: dma.IncNone,
		Size:   dma.Size32,
		Count:  DMATransferSize,
		Type:   dma.MemoryToMemory,
		Mode:   dma.BasicMode,
	}

	ch := channel
	err := d.dma.AllocateChannel(dma.Instance0, &ch, dma.PriorityLow)
	if err != nil && status.Of(err) != status.DMAChannelAllocated {
		return err
	}
	cb := &dma.Callbacks{
		TransferComplete: d.dmaComplete,
		Error:            d.dmaError,
	}
	if err := d.dma.RegisterCallbacks(dma.Instance0, channel, cb); err != nil {
		return err
	}
	return d.dma.Enable(dma.Instance0)
}

// DMATransfer moves the next value of the stream bound to channel into the
// next compare register. It returns status.Empty once the stream is
// exhausted. DMA errors are returned as is.
func (d *Driver) DMATransfer(channel uint32) error {
	idx, ok := dmaIndex(channel)
	if !ok {
		return status.InvalidParameter
	}
	st := &d.streams[idx]
	if st.stream == nil {
		return status.NotInitialized
	}
	pos := st.stream.pos
	v, ok := st.stream.Next()
	if !ok {
		return status.Empty
	}
	st.xfer.Src = st.table + 4*uint32(pos)
	st.done = false

	log.ModDriver.DebugZ("dma transfer").
		Uint("ch", uint64(channel)).
		Hex32("val", v).
		End()
	return d.dma.Transfer(dma.Instance0, channel, &st.xfer)
}

// DMADone reports whether the last transfer on channel has completed, and
// clears the completion flag.
func (d *Driver) DMADone(channel uint32) bool {
	idx, ok := dmaIndex(channel)
	if !ok {
		return false
	}
	done := d.streams[idx].done
	d.streams[idx].done = false
	return done
}

// DMADeinit stops channel and shuts the DMA controller down.
func (d *Driver) DMADeinit(channel uint32) error {
	if _, ok := dmaIndex(channel); !ok {
		return status.InvalidParameter
	}
	if err := d.dma.StopTransfer(dma.Instance0, channel); err != nil {
		return err
	}
	if err := d.dma.ChannelDisable(dma.Instance0, channel); err != nil {
		return err
	}
	return d.dma.Deinit(dma.Instance0)
}

func (d *Driver) dmaComplete(channel uint32) {
	if idx, ok := dmaIndex(channel); ok {
		d.streams[idx].done = true
	}
}

// dmaError reports the failing channel to the registered callback as
// FlagDMAError|channel.
func (d *Driver) dmaError(channel uint32) {
	log.ModDriver.WarnZ("dma error").Uint("ch", uint64(channel)).End()
	if d.reg != nil {
		d.reg.fn(FlagDMAError | Flag(channel))
	}
}
