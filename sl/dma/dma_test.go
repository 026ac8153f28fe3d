package dma

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sict/hw"
	"sict/hw/hwdefs"
	"sict/sl/status"
)

const (
	src = hwdefs.SRAMBase + 0x1000
	dst = hwdefs.SRAMBase + 0x2000
)

func newDriver(t *testing.T) (*Driver, *hw.SoC) {
	t.Helper()
	soc := hw.NewSoC()
	d := New(soc)
	if err := d.Init(Instance0); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d, soc
}

func wantStatus(t *testing.T, what string, err error, want status.Status) {
	t.Helper()
	if got := status.Of(err); got != want {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestNotInitialized(t *testing.T) {
	d := New(hw.NewSoC())
	ch := AnyChannel
	wantStatus(t, "AllocateChannel", d.AllocateChannel(Instance0, &ch, PriorityLow), status.NotInitialized)
	wantStatus(t, "Deinit", d.Deinit(Instance0), status.NotInitialized)
	wantStatus(t, "Enable", d.Enable(Instance0), status.NotInitialized)
	wantStatus(t, "RegisterCallbacks", d.RegisterCallbacks(Instance0, 0, &Callbacks{}), status.NotInitialized)
	if got := d.ChannelStatus(Instance0, 0); got != status.NotInitialized {
		t.Errorf("ChannelStatus = %v, want %v", got, status.NotInitialized)
	}
	wantStatus(t, "Init(1)", d.Init(1), status.InvalidParameter)
}

func TestAllocate(t *testing.T) {
	d, _ := newDriver(t)

	ch := uint32(5)
	wantStatus(t, "allocate 5", d.AllocateChannel(Instance0, &ch, PriorityHigh), status.OK)
	wantStatus(t, "allocate 5 again", d.AllocateChannel(Instance0, &ch, PriorityLow), status.DMAChannelAllocated)

	first := AnyChannel
	wantStatus(t, "allocate any", d.AllocateChannel(Instance0, &first, PriorityLow), status.OK)
	if first != 0 {
		t.Errorf("allocated channel %d, want 0", first)
	}

	bad := uint32(NumChannels)
	wantStatus(t, "allocate 32", d.AllocateChannel(Instance0, &bad, PriorityLow), status.InvalidParameter)
	wantStatus(t, "bad priority", d.AllocateChannel(Instance0, &ch, 2), status.InvalidParameter)
	wantStatus(t, "nil channel", d.AllocateChannel(Instance0, nil, PriorityLow), status.InvalidParameter)

	if got := d.ChannelStatus(Instance0, 5); got != status.DMAChannelAllocated {
		t.Errorf("ChannelStatus(5) = %v, want %v", got, status.DMAChannelAllocated)
	}
	wantStatus(t, "deallocate 5", d.DeallocateChannel(Instance0, 5), status.OK)
	wantStatus(t, "deallocate 5 again", d.DeallocateChannel(Instance0, 5), status.DMAChannelAlreadyUnallocated)
	if got := d.ChannelStatus(Instance0, 5); got != status.Idle {
		t.Errorf("ChannelStatus(5) = %v, want %v", got, status.Idle)
	}
}

func TestAllocateExhausted(t *testing.T) {
	d, _ := newDriver(t)
	for i := range NumChannels {
		ch := AnyChannel
		if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
			t.Fatalf("allocation %d: %v", i, err)
		}
	}
	ch := AnyChannel
	wantStatus(t, "allocate any", d.AllocateChannel(Instance0, &ch, PriorityLow), status.DMANoChannelAvailable)
}

func TestTransferValidation(t *testing.T) {
	d, _ := newDriver(t)
	ch := uint32(1)
	if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
		t.Fatal(err)
	}
	good := Xfer{Src: src, Dst: dst, Size: Size32, SrcInc: Inc32, DstInc: Inc32, Count: 4, Mode: BasicMode}

	tests := []struct {
		name string
		ch   uint32
		edit func(x *Xfer)
		want status.Status
	}{
		{"zero count", 1, func(x *Xfer) { x.Count = 0 }, status.InvalidParameter},
		{"nil src", 1, func(x *Xfer) { x.Src = 0 }, status.NullPointer},
		{"nil dst", 1, func(x *Xfer) { x.Dst = 0 }, status.NullPointer},
		{"bad inc", 1, func(x *Xfer) { x.DstInc = 4 }, status.InvalidParameter},
		{"bad mode", 1, func(x *Xfer) { x.Mode = 2 }, status.InvalidParameter},
		{"bad type", 1, func(x *Xfer) { x.Type = 3 }, status.InvalidParameter},
		{"bad size", 1, func(x *Xfer) { x.Size = 3 }, status.InvalidParameter},
		{"bad channel", NumChannels, func(*Xfer) {}, status.InvalidParameter},
		{"unallocated", 2, func(*Xfer) {}, status.DMAChannelUnallocated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := good
			tt.edit(&x)
			wantStatus(t, "Transfer", d.Transfer(Instance0, tt.ch, &x), tt.want)
		})
	}
	wantStatus(t, "nil xfer", d.Transfer(Instance0, 1, nil), status.NullPointer)
}

func TestSimpleTransfer(t *testing.T) {
	d, soc := newDriver(t)
	want := []uint32{0xDEADBEEF, 0xCAFEBABE, 0x01234567, 0x89ABCDEF, 0x55AA55AA}
	for i, v := range want {
		soc.Write32(src+uint32(i)*4, v)
	}

	ch := AnyChannel
	if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
		t.Fatal(err)
	}
	var done, failed []uint32
	cb := &Callbacks{
		TransferComplete: func(ch uint32) { done = append(done, ch) },
		Error:            func(ch uint32) { failed = append(failed, ch) },
	}
	if err := d.RegisterCallbacks(Instance0, ch, cb); err != nil {
		t.Fatal(err)
	}
	if err := d.SimpleTransfer(Instance0, ch, src, dst, uint32(len(want))); err != nil {
		t.Fatalf("SimpleTransfer: %v", err)
	}
	if got := d.ChannelStatus(Instance0, ch); got != status.Busy {
		t.Errorf("ChannelStatus before run = %v, want %v", got, status.Busy)
	}
	soc.Run(1)

	var got []uint32
	for i := range want {
		got = append(got, soc.Read32(dst+uint32(i)*4))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("destination mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{ch}, done); diff != "" {
		t.Errorf("completion callbacks mismatch (-want +got):\n%s", diff)
	}
	if len(failed) != 0 {
		t.Errorf("error callbacks for channels %v", failed)
	}
	if got := soc.Read32(hwdefs.UDMABase + hwdefs.UDMAChnlDone); got != 0 {
		t.Errorf("CHNL_DONE = %08X after handler, want 0", got)
	}
	if got := d.ChannelStatus(Instance0, ch); got != status.DMAChannelAllocated {
		t.Errorf("ChannelStatus after run = %v, want %v", got, status.DMAChannelAllocated)
	}
}

func TestTransferError(t *testing.T) {
	d, soc := newDriver(t)
	ch := uint32(4)
	if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
		t.Fatal(err)
	}
	var failed []uint32
	if err := d.RegisterCallbacks(Instance0, ch, &Callbacks{Error: func(ch uint32) { failed = append(failed, ch) }}); err != nil {
		t.Fatal(err)
	}
	// Nothing is mapped at address 0x10.
	if err := d.SimpleTransfer(Instance0, ch, 0x10, dst, 1); err != nil {
		t.Fatal(err)
	}
	soc.Run(1)
	if diff := cmp.Diff([]uint32{4}, failed); diff != "" {
		t.Errorf("error callbacks mismatch (-want +got):\n%s", diff)
	}
	if got := soc.Read32(hwdefs.UDMABase + hwdefs.UDMAChnlErr); got != 0 {
		t.Errorf("CHNL_ERR = %08X after handler, want 0", got)
	}
}

func TestUnregisterCallbacks(t *testing.T) {
	d, soc := newDriver(t)
	ch := uint32(0)
	if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
		t.Fatal(err)
	}
	calls := 0
	cb := &Callbacks{TransferComplete: func(uint32) { calls++ }}
	if err := d.RegisterCallbacks(Instance0, ch, cb); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, "unregister none", d.UnregisterCallbacks(Instance0, ch, 0), status.InvalidParameter)
	if err := d.UnregisterCallbacks(Instance0, ch, TransferCompleteCB); err != nil {
		t.Fatal(err)
	}
	if err := d.SimpleTransfer(Instance0, ch, src, dst, 1); err != nil {
		t.Fatal(err)
	}
	soc.Run(1)
	if calls != 0 {
		t.Errorf("completion callback ran %d times after unregister", calls)
	}
}

func TestPeripheralTransfer(t *testing.T) {
	d, soc := newDriver(t)
	ch := uint32(0)
	if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
		t.Fatal(err)
	}
	soc.Write32(src, 0x1234)
	x := &Xfer{
		Src:    src,
		Dst:    dst,
		Size:   Size32,
		SrcInc: Inc32,
		DstInc: IncNone,
		Count:  1,
		Type:   MemoryToPeripheral,
		Mode:   BasicMode,
	}
	if err := d.Transfer(Instance0, ch, x); err != nil {
		t.Fatal(err)
	}
	if err := d.ChannelEnable(Instance0, ch); err != nil {
		t.Fatal(err)
	}
	if err := d.Enable(Instance0); err != nil {
		t.Fatal(err)
	}
	soc.Run(1)
	if got := soc.Read32(dst); got != 0 {
		t.Fatalf("destination written before a request: %08X", got)
	}
	soc.UDMA.Request(int(ch))
	soc.Run(1)
	if got := soc.Read32(dst); got != 0x1234 {
		t.Errorf("destination = %08X, want %08X", got, 0x1234)
	}
}

func TestStopAndDeinit(t *testing.T) {
	d, soc := newDriver(t)
	ch := uint32(2)
	if err := d.AllocateChannel(Instance0, &ch, PriorityLow); err != nil {
		t.Fatal(err)
	}
	x := &Xfer{Src: src, Dst: dst, Size: Size32, SrcInc: Inc32, DstInc: IncNone, Count: 1, Type: PeripheralToMemory, Mode: BasicMode}
	if err := d.Transfer(Instance0, ch, x); err != nil {
		t.Fatal(err)
	}
	if err := d.ChannelEnable(Instance0, ch); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, "Deinit while busy", d.Deinit(Instance0), status.Busy)
	wantStatus(t, "DeallocateChannel while busy", d.DeallocateChannel(Instance0, ch), status.Busy)

	if err := d.StopTransfer(Instance0, ch); err != nil {
		t.Fatal(err)
	}
	if err := d.Deinit(Instance0); err != nil {
		t.Fatalf("Deinit: %v", err)
	}
	if soc.Clock.Enabled(hwdefs.ClkUDMA) {
		t.Errorf("uDMA clock still enabled after Deinit")
	}
	if soc.NVIC.IRQEnabled(hwdefs.IRQ_UDMA0) {
		t.Errorf("IRQ_UDMA0 still enabled after Deinit")
	}

	// Allocations survive a deinit/init cycle.
	if err := d.Init(Instance0); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, "allocate after reinit", d.AllocateChannel(Instance0, &ch, PriorityLow), status.DMAChannelAllocated)

	var st status.Status
	if !errors.As(d.AllocateChannel(Instance0, &ch, PriorityLow), &st) || st != status.DMAChannelAllocated {
		t.Errorf("AllocateChannel error is not a Status")
	}
}
