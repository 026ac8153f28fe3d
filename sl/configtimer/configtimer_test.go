package configtimer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sict/hw"
	"sict/hw/ct"
	"sict/hw/hwdefs"
	"sict/sl/status"
)

type writeCounter struct{ n int }

func (w *writeCounter) ObserveRead(string, uint32, uint32)  {}
func (w *writeCounter) ObserveWrite(string, uint32, uint32) { w.n++ }

func newDriver(t *testing.T, opts Options) (*Driver, *hw.SoC) {
	t.Helper()
	soc := hw.NewSoC()
	d := New(soc, opts)
	d.Init()
	return d, soc
}

func peek(soc *hw.SoC, off uint32) uint32 { return soc.Bus.Peek32(hwdefs.CTBase + off) }

func wantStatus(t *testing.T, what string, err error, want status.Status) {
	t.Helper()
	if got := status.Of(err); got != want {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func TestSetConfigurationDirections(t *testing.T) {
	tests := []struct {
		dir   Direction
		want0 uint32
		want1 uint32
	}{
		{Up, 0x10, 0x10 << 16},
		{Down, 0x20, 0x20 << 16},
		{UpDown, 0x30, 0x30 << 16},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			d, soc := newDriver(t, Options{})
			cfg := &Config{
				Counter0: CounterConfig{Direction: tt.dir},
				Counter1: CounterConfig{Direction: tt.dir},
			}
			if err := d.SetConfiguration(cfg); err != nil {
				t.Fatalf("SetConfiguration: %v", err)
			}
			got := peek(soc, ct.RegGenCtrlSet)
			if got&ct.DirMask0 != tt.want0 {
				t.Errorf("counter 0 direction bits = %08X, want %08X", got&ct.DirMask0, tt.want0)
			}
			if got&ct.DirMask1 != tt.want1 {
				t.Errorf("counter 1 direction bits = %08X, want %08X", got&ct.DirMask1, tt.want1)
			}
		})
	}
}

func TestEncodeConfig(t *testing.T) {
	cfg := &Config{
		Mode32Bit: true,
		Counter0:  CounterConfig{SoftReset: true, Periodic: true, Trigger: true, SyncTrigger: true, Buffer: true, Direction: UpDown},
		Counter1:  CounterConfig{Periodic: true, Direction: Down},
	}
	got, err := EncodeConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	const want = 0x1 | 0x2 | 0x4 | 0x8 | 0x30 | 0x40 | 0x80 | (0x4|0x20)<<16
	if got != want {
		t.Errorf("EncodeConfig = %08X, want %08X", got, want)
	}

	_, err = EncodeConfig(&Config{Counter1: CounterConfig{Direction: DirectionLast}})
	wantStatus(t, "EncodeConfig(bad direction)", err, status.InvalidParameter)
}

func TestSetConfigurationInvalid(t *testing.T) {
	d, soc := newDriver(t, Options{})
	var w writeCounter
	soc.Bus.SetObserver(&w)

	wantStatus(t, "SetConfiguration(nil)", d.SetConfiguration(nil), status.NullPointer)
	bad := &Config{Counter0: CounterConfig{Direction: DirectionLast}}
	wantStatus(t, "SetConfiguration(bad direction)", d.SetConfiguration(bad), status.InvalidParameter)
	bad = &Config{Counter1: CounterConfig{Direction: DirectionLast + 3}}
	wantStatus(t, "SetConfiguration(bad direction)", d.SetConfiguration(bad), status.InvalidParameter)

	if w.n != 0 {
		t.Errorf("invalid configurations made %d bus writes, want 0", w.n)
	}
}

func TestSetConfigurationUC(t *testing.T) {
	uc := Config{Counter0: CounterConfig{Periodic: true, Direction: Down}}
	d, soc := newDriver(t, Options{UC: true, UCConfig: uc})
	if err := d.SetConfiguration(&Config{Counter0: CounterConfig{Direction: UpDown}}); err != nil {
		t.Fatal(err)
	}
	if got, want := peek(soc, ct.RegGenCtrlSet), uint32(ct.Periodic0|0x20|0x10<<16); got != want {
		t.Errorf("GEN_CTRL = %08X, want %08X", got, want)
	}
	// The caller's configuration is still validated.
	bad := &Config{Counter0: CounterConfig{Direction: DirectionLast}}
	wantStatus(t, "SetConfiguration(bad direction)", d.SetConfiguration(bad), status.InvalidParameter)
}

func TestResetConfigurationIdempotent(t *testing.T) {
	d, soc := newDriver(t, Options{})
	cfg := &Config{Mode32Bit: true, Counter0: CounterConfig{Periodic: true, Buffer: true, Direction: UpDown}}
	if err := d.SetConfiguration(cfg); err != nil {
		t.Fatal(err)
	}
	d.ResetConfiguration()
	first := peek(soc, ct.RegGenCtrlSet)
	d.ResetConfiguration()
	second := peek(soc, ct.RegGenCtrlSet)
	if first != 0 || second != 0 {
		t.Errorf("GEN_CTRL after resets = %08X, %08X, want 0, 0", first, second)
	}
}

func TestSetMode(t *testing.T) {
	d, soc := newDriver(t, Options{})
	if err := d.SetMode(Mode32Bit); err != nil {
		t.Fatal(err)
	}
	if peek(soc, ct.RegGenCtrlSet)&ct.Counter32BitMode == 0 {
		t.Errorf("32-bit mode bit not set")
	}
	if err := d.SetMode(Mode16Bit); err != nil {
		t.Fatal(err)
	}
	if peek(soc, ct.RegGenCtrlSet)&ct.Counter32BitMode != 0 {
		t.Errorf("32-bit mode bit still set")
	}
	wantStatus(t, "SetMode(ModeLast)", d.SetMode(ModeLast), status.InvalidMode)
}

func TestMatchCount(t *testing.T) {
	d, soc := newDriver(t, Options{})

	wantStatus(t, "counter", d.SetMatchCount(Mode16Bit, CounterLast, 1), status.InvalidParameter)
	wantStatus(t, "mode", d.SetMatchCount(ModeLast, Counter0, 1), status.InvalidMode)
	wantStatus(t, "counter before mode", d.SetMatchCount(ModeLast, CounterLast, 1), status.InvalidParameter)
	wantStatus(t, "65536", d.SetMatchCount(Mode16Bit, Counter0, 65536), status.InvalidParameter)

	for _, v := range []uint32{0, 1, 0x1234, 65535} {
		for c := range CounterLast {
			if err := d.SetMatchCount(Mode16Bit, c, v); err != nil {
				t.Fatalf("SetMatchCount(%d, %d): %v", c, v, err)
			}
			if err := d.SetInitialCount(Mode16Bit, v, v); err != nil {
				t.Fatalf("SetInitialCount(%d): %v", v, err)
			}
			got, err := d.GetCount(Mode16Bit, c)
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Errorf("GetCount(%d) = %d, want %d", c, got, v)
			}
			if m := (peek(soc, ct.RegMatch) >> (16 * uint32(c))) & 0xFFFF; m != v {
				t.Errorf("MATCH half %d = %d, want %d", c, m, v)
			}
		}
	}

	if err := d.SetMode(Mode32Bit); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMatchCount(Mode32Bit, Counter0, 0x12345678); err != nil {
		t.Fatal(err)
	}
	if got := peek(soc, ct.RegMatch); got != 0x12345678 {
		t.Errorf("MATCH = %08X, want %08X", got, 0x12345678)
	}
	if err := d.SetInitialCount(Mode32Bit, 0x10000, 0); err != nil {
		t.Fatal(err)
	}
	if got, _ := d.GetCount(Mode32Bit, Counter0); got != 0x10000 {
		t.Errorf("GetCount(32-bit) = %08X, want %08X", got, 0x10000)
	}
}

func TestSetInitialCountInvalid(t *testing.T) {
	d, _ := newDriver(t, Options{})
	wantStatus(t, "mode", d.SetInitialCount(ModeLast, 0, 0), status.InvalidMode)
	wantStatus(t, "c0", d.SetInitialCount(Mode16Bit, 65536, 0), status.InvalidParameter)
	wantStatus(t, "c1", d.SetInitialCount(Mode16Bit, 0, 65536), status.InvalidParameter)
	_, err := d.GetCount(ModeLast, Counter0)
	wantStatus(t, "GetCount mode", err, status.InvalidMode)
	_, err = d.GetCount(ModeLast, CounterLast)
	wantStatus(t, "GetCount counter", err, status.InvalidParameter)
}

func TestSetCounterSync(t *testing.T) {
	d, soc := newDriver(t, Options{})
	soc.Write32(hwdefs.CTBase+ct.RegOCUCtrl, 0x0011_0011)

	if err := d.SetCounterSync(Counter0, 5); err != nil {
		t.Fatal(err)
	}
	if err := d.SetCounterSync(Counter1, 0xFE); err != nil {
		t.Fatal(err)
	}
	// Outputs stay enabled, only the sync fields change.
	if got, want := peek(soc, ct.RegOCUCtrl), uint32(0x001D_001B); got != want {
		t.Errorf("OCU_CTRL = %08x, want %08x", got, want)
	}
	wantStatus(t, "counter", d.SetCounterSync(CounterLast, 0), status.InvalidParameter)
}

func TestGetMatchValue(t *testing.T) {
	d, _ := newDriver(t, Options{})
	got, err := d.GetMatchValue(1000)
	if err != nil {
		t.Fatal(err)
	}
	if got != 16000 {
		t.Errorf("GetMatchValue(1000) = %d, want 16000", got)
	}
	if _, err := d.GetMatchValue(4095); err != nil {
		t.Errorf("GetMatchValue(4095): %v", err)
	}
	_, err = d.GetMatchValue(4096)
	wantStatus(t, "GetMatchValue(4096)", err, status.InvalidCount)

	d32, _ := newDriver(t, Options{BaseClock: 32_000_000})
	_, err = d32.GetMatchValue(2048)
	wantStatus(t, "GetMatchValue(2048) at 32 MHz", err, status.InvalidCount)
}

func TestStartConsistency(t *testing.T) {
	tests := []struct {
		name           string
		dir            Direction
		initial, match uint32
		want           status.Status
	}{
		{"up", Up, 0, 100, status.OK},
		{"up equal", Up, 100, 100, status.OK},
		{"up unreachable", Up, 200, 100, status.InvalidParameter},
		{"down", Down, 200, 100, status.OK},
		{"down unreachable", Down, 100, 200, status.InvalidParameter},
		{"updown", UpDown, 0, 100, status.OK},
		{"updown equal", UpDown, 100, 100, status.InvalidParameter},
	}
	for _, tt := range tests {
		for c := range CounterLast {
			t.Run(tt.name, func(t *testing.T) {
				d, soc := newDriver(t, Options{})
				cfg := &Config{}
				cfg.counter(c).Direction = tt.dir
				if err := d.SetConfiguration(cfg); err != nil {
					t.Fatal(err)
				}
				if err := d.SetMatchCount(Mode16Bit, c, tt.match); err != nil {
					t.Fatal(err)
				}
				var initial [2]uint32
				initial[c] = tt.initial
				if err := d.SetInitialCount(Mode16Bit, initial[0], initial[1]); err != nil {
					t.Fatal(err)
				}
				wantStatus(t, "StartOnSoftwareTrigger", d.StartOnSoftwareTrigger(c), tt.want)
				if running := soc.CT.Running(int(c)); running != (tt.want == status.OK) {
					t.Errorf("counter %d running = %t", c, running)
				}
			})
		}
	}

	d, _ := newDriver(t, Options{})
	wantStatus(t, "StartOnSoftwareTrigger(CounterLast)", d.StartOnSoftwareTrigger(CounterLast), status.InvalidParameter)
}

func TestStartAccumulatedDirection(t *testing.T) {
	d, soc := newDriver(t, Options{})
	// Without a reset in between, Down then Up leaves the counter in up-down.
	for _, dir := range []Direction{Down, Up} {
		if err := d.SetConfiguration(&Config{Counter0: CounterConfig{Direction: dir}}); err != nil {
			t.Fatal(err)
		}
	}
	if got := peek(soc, ct.RegGenCtrlSet) & ct.DirMask0 >> ct.DirShift0; got != ct.DirUpDown {
		t.Fatalf("direction field = %#x, want %#x", got, ct.DirUpDown)
	}
	if err := d.SetMatchCount(Mode16Bit, Counter0, 100); err != nil {
		t.Fatal(err)
	}
	if err := d.SetInitialCount(Mode16Bit, 100, 0); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, "start up-down with match == initial", d.StartOnSoftwareTrigger(Counter0), status.InvalidParameter)

	d.ResetConfiguration()
	if err := d.SetConfiguration(&Config{Counter0: CounterConfig{Direction: Up}}); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, "start up after reset", d.StartOnSoftwareTrigger(Counter0), status.OK)
}

func TestStart32BitSkipsCheck(t *testing.T) {
	d, soc := newDriver(t, Options{})
	if err := d.SetConfiguration(&Config{Mode32Bit: true, Counter0: CounterConfig{Direction: Up}}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMatchCount(Mode32Bit, Counter0, 10); err != nil {
		t.Fatal(err)
	}
	if err := d.SetInitialCount(Mode32Bit, 20, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.StartOnSoftwareTrigger(Counter0); err != nil {
		t.Errorf("StartOnSoftwareTrigger in 32-bit mode: %v", err)
	}
	if !soc.CT.Running(0) {
		t.Errorf("counter not running")
	}
}

func TestCallbackRegistration(t *testing.T) {
	d, soc := newDriver(t, Options{})
	cb := func(Flag) {}
	flags := &InterruptFlags{Counter0HitPeak: true, Counter1HitZero: true}

	wantStatus(t, "Register(nil cb)", d.Register(nil, flags), status.NullPointer)
	wantStatus(t, "Register(nil flags)", d.Register(cb, nil), status.NullPointer)
	wantStatus(t, "Register", d.Register(cb, flags), status.OK)
	wantStatus(t, "Register again", d.Register(cb, flags), status.Busy)

	if got, want := peek(soc, ct.RegIntrMask), uint32(ct.IntrAll&^(ct.IntrPeak0|ct.IntrZero1)); got != want {
		t.Errorf("INTR_MASK = %08X, want %08X", got, want)
	}
	if !soc.NVIC.IRQEnabled(hwdefs.IRQ_CT) {
		t.Errorf("CT interrupt line not enabled")
	}
	if got := soc.Mux.INTR_SEL.Value; got != 0xFFFFFFFF {
		t.Errorf("CT_INTR_SEL = %08X, want FFFFFFFF", got)
	}

	wantStatus(t, "Unregister(nil)", d.Unregister(nil), status.NullPointer)
	wantStatus(t, "Unregister", d.Unregister(flags), status.OK)
	if got := peek(soc, ct.RegIntrMask); got != ct.IntrAll {
		t.Errorf("INTR_MASK after unregister = %08X, want %08X", got, ct.IntrAll)
	}
	wantStatus(t, "Register after unregister", d.Register(cb, flags), status.OK)

	if !errors.Is(d.Register(cb, flags), status.Busy) {
		t.Errorf("Register error does not match status.Busy")
	}
}

func TestHandleIRQOrder(t *testing.T) {
	d, soc := newDriver(t, Options{})
	var got []Flag
	if err := d.Register(func(f Flag) { got = append(got, f) }, &AllInterrupts); err != nil {
		t.Fatal(err)
	}
	soc.CT.INTR_STS.SetBits(uint32(FlagAll))
	for range 10 {
		d.HandleIRQ()
	}
	want := []Flag{
		FlagCounter0Peak, FlagCounter1Peak,
		FlagEvent0, FlagFIFO0Full, FlagCounter0Zero,
		FlagEvent1, FlagFIFO1Full, FlagCounter1Zero,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reported causes mismatch (-want +got):\n%s", diff)
	}
	if sts := peek(soc, ct.RegIntrSts); sts != 0 {
		t.Errorf("INTR_STS = %08X after handling, want 0", sts)
	}
}

func TestPeriodicPeakInterrupt(t *testing.T) {
	d, soc := newDriver(t, Options{})
	cfg := &Config{Counter0: CounterConfig{Periodic: true, Direction: Up}}
	if err := d.SetConfiguration(cfg); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMatchCount(Mode16Bit, Counter0, 16000); err != nil {
		t.Fatal(err)
	}
	if err := d.SetInitialCount(Mode16Bit, 0, 0); err != nil {
		t.Fatal(err)
	}
	var got []Flag
	var at []int64
	cb := func(f Flag) {
		got = append(got, f)
		at = append(at, soc.Cycles())
	}
	if err := d.Register(cb, &InterruptFlags{Counter0HitPeak: true}); err != nil {
		t.Fatal(err)
	}
	if err := d.StartOnSoftwareTrigger(Counter0); err != nil {
		t.Fatal(err)
	}

	const period = 16001
	soc.Run(3*period + 10)

	if diff := cmp.Diff([]Flag{FlagCounter0Peak, FlagCounter0Peak, FlagCounter0Peak}, got); diff != "" {
		t.Errorf("callback flags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{period, 2 * period, 3 * period}, at); diff != "" {
		t.Errorf("callback cycles mismatch (-want +got):\n%s", diff)
	}
}

func TestActionEvents(t *testing.T) {
	for a := range ActionLast {
		t.Run(a.String(), func(t *testing.T) {
			d, soc := newDriver(t, Options{})
			b := actionBlock[a]

			wantStatus(t, "select bad ev0", d.SelectActionEvent(a, EventLast, NoEvent), status.InvalidParameter)
			wantStatus(t, "select bad ev1", d.SelectActionEvent(a, NoEvent, EventLast), status.InvalidParameter)
			if err := d.SelectActionEvent(a, Event2FallingEdge, AndEvent); err != nil {
				t.Fatal(err)
			}
			if got, want := peek(soc, b.SelReg()), uint32(Event2FallingEdge)|uint32(AndEvent)<<16; got != want {
				t.Errorf("%s select = %08X, want %08X", b, got, want)
			}

			bad := []ActionEvent{
				{Action: a, AndEvent0: EventLast},
				{Action: a, OrEvent0: EventLast},
				{Action: a, AndEvent1: EventLast},
				{Action: a, OrEvent1: EventLast},
				{Action: a, AndValidBits0: 16},
				{Action: a, OrValidBits0: 16},
				{Action: a, AndValidBits1: 16},
				{Action: a, OrValidBits1: 16},
			}
			for i := range bad {
				wantStatus(t, "configure", d.ConfigureActionEvent(&bad[i]), status.InvalidParameter)
			}

			ae := &ActionEvent{
				Action:        a,
				AndEvent0:     Event0Level1,
				AndValidBits0: 0x3,
				OrEvent0:      Event1RisingEdge,
				OrValidBits0:  0xF,
				AndEvent1:     Event3FallingEdge,
				AndValidBits1: 0x8,
			}
			if err := d.ConfigureActionEvent(ae); err != nil {
				t.Fatal(err)
			}
			if got, want := peek(soc, b.AndReg()), uint32(Event0Level1)|0x3<<8|uint32(Event3FallingEdge)<<16|0x8<<24; got != want {
				t.Errorf("%s AND = %08X, want %08X", b, got, want)
			}
			if got, want := peek(soc, b.OrReg()), uint32(Event1RisingEdge)|0xF<<8; got != want {
				t.Errorf("%s OR = %08X, want %08X", b, got, want)
			}
		})
	}

	d, _ := newDriver(t, Options{})
	wantStatus(t, "select ActionLast", d.SelectActionEvent(ActionLast, NoEvent, NoEvent), status.InvalidParameter)
	wantStatus(t, "configure ActionLast", d.ConfigureActionEvent(&ActionEvent{Action: ActionLast}), status.InvalidParameter)
	wantStatus(t, "configure nil", d.ConfigureActionEvent(nil), status.NullPointer)
}

func TestHardwareStartEvent(t *testing.T) {
	d, soc := newDriver(t, Options{})
	if err := d.SetConfiguration(&Config{Counter0: CounterConfig{Periodic: true}}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMatchCount(Mode16Bit, Counter0, 1000); err != nil {
		t.Fatal(err)
	}
	if err := d.SelectActionEvent(Start, Event1RisingEdge, NoEvent); err != nil {
		t.Fatal(err)
	}
	soc.Run(10)
	if soc.CT.Running(0) {
		t.Fatalf("counter started without an event")
	}
	soc.CT.SetInput(1, true)
	soc.Run(10)
	if !soc.CT.Running(0) {
		t.Fatalf("counter not started by a rising edge on input 1")
	}
}

func TestOutputADCPin(t *testing.T) {
	d, soc := newDriver(t, Options{})
	wantStatus(t, "pin1 16", d.SetOutputADCPin(16, 0), status.InvalidParameter)
	wantStatus(t, "pin2 16", d.SetOutputADCPin(0, 16), status.InvalidParameter)
	if err := d.SetOutputADCPin(15, 15); err != nil {
		t.Fatal(err)
	}
	p1 := soc.Bus.Read32(hwdefs.CTMuxBase + ct.RegMuxOutputEvent1)
	p2 := soc.Bus.Read32(hwdefs.CTMuxBase + ct.RegMuxOutputEvent2)
	if p1 != 15 || p2 != 15 {
		t.Errorf("ADC selects = %d, %d, want 15, 15", p1, p2)
	}
}

func TestCaptureAndResume(t *testing.T) {
	d, soc := newDriver(t, Options{})
	if err := d.SetConfiguration(&Config{Counter0: CounterConfig{Periodic: true}}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMatchCount(Mode16Bit, Counter0, 5000); err != nil {
		t.Fatal(err)
	}
	if err := d.SelectActionEvent(Capture, Event0RisingEdge, NoEvent); err != nil {
		t.Fatal(err)
	}
	if err := d.SelectActionEvent(Halt, Event2RisingEdge, NoEvent); err != nil {
		t.Fatal(err)
	}
	if err := d.StartOnSoftwareTrigger(Counter0); err != nil {
		t.Fatal(err)
	}
	soc.Run(100)
	soc.CT.SetInput(0, true)
	soc.Run(1)
	capture, err := d.ReadCapture(Counter0)
	if err != nil {
		t.Fatal(err)
	}
	if capture < 98 || capture > 103 {
		t.Errorf("capture = %d, want about 100", capture)
	}

	soc.CT.SetInput(2, true)
	soc.Run(1)
	if !soc.CT.Halted(0) {
		t.Fatalf("counter not halted")
	}
	halted, _ := d.GetCount(Mode16Bit, Counter0)
	soc.Run(50)
	if got, _ := d.GetCount(Mode16Bit, Counter0); got != halted {
		t.Errorf("halted counter moved from %d to %d", halted, got)
	}
	if err := d.ResumeHaltEvent(Counter0); err != nil {
		t.Fatal(err)
	}
	soc.Run(50)
	if got, _ := d.GetCount(Mode16Bit, Counter0); got != halted+50 {
		t.Errorf("count after resume = %d, want %d", got, halted+50)
	}
	if got := peek(soc, ct.BlockHalt.SelReg()); got != uint32(Event2RisingEdge) {
		t.Errorf("HALT select = %08X, want resume bit cleared", got)
	}

	_, err = d.ReadCapture(CounterLast)
	wantStatus(t, "ReadCapture(CounterLast)", err, status.InvalidParameter)
	wantStatus(t, "ResumeHaltEvent(CounterLast)", d.ResumeHaltEvent(CounterLast), status.InvalidParameter)
}

func TestDeinit(t *testing.T) {
	d, soc := newDriver(t, Options{})
	if err := d.Register(func(Flag) {}, &InterruptFlags{Counter0HitPeak: true}); err != nil {
		t.Fatal(err)
	}
	d.Deinit()
	if soc.Clock.Enabled(hwdefs.ClkCT) {
		t.Errorf("CT clock still enabled")
	}
	if soc.NVIC.IRQEnabled(hwdefs.IRQ_CT) {
		t.Errorf("CT interrupt line still enabled")
	}
	if got := peek(soc, ct.RegIntrMask); got != ct.IntrAll {
		t.Errorf("INTR_MASK = %08X, want %08X", got, ct.IntrAll)
	}
	if err := d.Register(func(Flag) {}, &InterruptFlags{}); err != nil {
		t.Errorf("Register after Deinit: %v", err)
	}
	if diff := cmp.Diff(Version{0, 0, 1}, d.Version()); diff != "" {
		t.Errorf("version mismatch (-want +got):\n%s", diff)
	}
}
