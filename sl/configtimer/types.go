package configtimer

import (
	"strconv"
	"strings"

	"sict/hw/ct"
	"sict/sl/status"
)

//go:generate go tool stringer -type=Event
//go:generate go tool stringer -type=Action

// Counter selects one of the two 16-bit counters. In 32-bit mode only
// Counter0 is used.
type Counter uint8

const (
	Counter0 Counter = iota
	Counter1
	CounterLast
)

// Mode is the counter width.
type Mode uint8

const (
	Mode16Bit Mode = iota
	Mode32Bit
	ModeLast
)

type Direction uint8

const (
	Up Direction = iota
	Down
	UpDown
	DirectionLast
)

// bits returns the GEN_CTRL direction field of d.
func (d Direction) bits() uint32 {
	switch d {
	case Down:
		return ct.DirDown
	case UpDown:
		return ct.DirUpDown
	}
	return ct.DirUp
}

// Action is a timer action triggered by input events.
type Action uint8

const (
	Start Action = iota
	Stop
	Continue
	Halt
	Increment
	Capture
	Interrupt
	Output
	ActionLast
)

// Event is an input event code.
type Event uint8

const (
	NoEvent Event = iota
	Event0RisingEdge
	Event1RisingEdge
	Event2RisingEdge
	Event3RisingEdge
	Event0FallingEdge
	Event1FallingEdge
	Event2FallingEdge
	Event3FallingEdge
	Event0RisingFallingEdge
	Event1RisingFallingEdge
	Event2RisingFallingEdge
	Event3RisingFallingEdge
	Event0Level0
	Event1Level0
	Event2Level0
	Event3Level0
	Event0Level1
	Event1Level1
	Event2Level1
	Event3Level1
	AndEvent
	OrEvent
	Event0RisingEdgeAndEvent
	Event0RisingEdgeOrEvent
	Event1RisingEdgeAndEvent
	Event1RisingEdgeOrEvent
	Event2RisingEdgeAndEvent
	Event2RisingEdgeOrEvent
	Event3RisingEdgeAndEvent
	Event3RisingEdgeOrEvent
	Event0RisingEdgeRegisteredAndEvent
	Event0RisingEdgeRegisteredOrEvent
	Event1RisingEdgeRegisteredAndEvent
	Event1RisingEdgeRegisteredOrEvent
	Event2RisingEdgeRegisteredAndEvent
	Event2RisingEdgeRegisteredOrEvent
	Event3RisingEdgeRegisteredAndEvent
	Event3RisingEdgeRegisteredOrEvent
	EventLast
)

// Flag is a set of interrupt causes, as found in INTR_STS.
type Flag uint32

const (
	FlagEvent0       Flag = ct.IntrEvent0
	FlagFIFO0Full    Flag = ct.IntrFIFO0
	FlagCounter0Zero Flag = ct.IntrZero0
	FlagCounter0Peak Flag = ct.IntrPeak0
	FlagEvent1       Flag = ct.IntrEvent1
	FlagFIFO1Full    Flag = ct.IntrFIFO1
	FlagCounter1Zero Flag = ct.IntrZero1
	FlagCounter1Peak Flag = ct.IntrPeak1

	FlagAll Flag = ct.IntrAll

	// FlagDMAError is never an interrupt cause. The callback receives it
	// together with the failing channel number, see DMAErrorChannel.
	FlagDMAError Flag = 1 << 31
)

// DMAErrorChannel returns the DMA channel of a DMA error report, and false if
// f is an interrupt cause.
func (f Flag) DMAErrorChannel() (uint32, bool) {
	if f&FlagDMAError == 0 {
		return 0, false
	}
	return uint32(f &^ FlagDMAError), true
}

var flagNames = []struct {
	f    Flag
	name string
}{
	{FlagEvent0, "event0"},
	{FlagFIFO0Full, "fifo0"},
	{FlagCounter0Zero, "zero0"},
	{FlagCounter0Peak, "peak0"},
	{FlagEvent1, "event1"},
	{FlagFIFO1Full, "fifo1"},
	{FlagCounter1Zero, "zero1"},
	{FlagCounter1Peak, "peak1"},
}

func (f Flag) String() string {
	if ch, ok := f.DMAErrorChannel(); ok {
		return "dma-error(" + strconv.Itoa(int(ch)) + ")"
	}
	var names []string
	for _, fn := range flagNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// CounterConfig holds the control bits of one counter.
type CounterConfig struct {
	SoftReset   bool      `toml:"soft_reset"`
	Periodic    bool      `toml:"periodic"`
	Trigger     bool      `toml:"trigger"`
	SyncTrigger bool      `toml:"sync_trigger"`
	Buffer      bool      `toml:"buffer"`
	Direction   Direction `toml:"direction"`
}

// Config is the general control configuration of the timer.
type Config struct {
	Mode32Bit bool          `toml:"mode_32bit"`
	Counter0  CounterConfig `toml:"counter0"`
	Counter1  CounterConfig `toml:"counter1"`
}

func (c *Config) counter(n Counter) *CounterConfig {
	if n == Counter1 {
		return &c.Counter1
	}
	return &c.Counter0
}

// OCUCounterConfig holds the Output Compare Unit bits of one counter.
type OCUCounterConfig struct {
	Output     bool
	DMA        bool
	Mode8Bit   bool
	Sync       bool
	ToggleHigh bool
	ToggleLow  bool
}

type OCUConfig struct {
	Counter0 OCUCounterConfig
	Counter1 OCUCounterConfig
}

// OCUParams holds the first and next compare thresholds of both counters.
type OCUParams struct {
	CompareVal1_0     uint16
	CompareVal2_0     uint16
	CompareVal1_1     uint16
	CompareVal2_1     uint16
	CompareNextVal1_0 uint16
	CompareNextVal2_0 uint16
	CompareNextVal1_1 uint16
	CompareNextVal2_1 uint16
	SyncWith0         uint16
	SyncWith1         uint16
}

// compare returns the compare thresholds of counter c: first pair, next pair.
func (p *OCUParams) compare(c Counter) (v1, v2, nxt1, nxt2 uint16) {
	if c == Counter1 {
		return p.CompareVal1_1, p.CompareVal2_1, p.CompareNextVal1_1, p.CompareNextVal2_1
	}
	return p.CompareVal1_0, p.CompareVal2_0, p.CompareNextVal1_0, p.CompareNextVal2_0
}

// OCUControl selects the thresholds of one counter and its DMA state.
type OCUControl struct {
	Counter Counter
	DMA     bool
	Params  *OCUParams
	OnDMA   func(c Counter) // called when DMA is enabled, may be nil
}

// WFGConfig holds the waveform generator toggle selects of both outputs,
// and the maximum number of toggles per period.
type WFGConfig struct {
	Output0Toggle0Sel uint8
	Output0Toggle1Sel uint8
	Toggle0Peak       uint8
	Output1Toggle0Sel uint8
	Output1Toggle1Sel uint8
	Toggle1Peak       uint8
}

// ActionEvent binds the AND and OR events of both counters to an action.
type ActionEvent struct {
	Action Action

	AndEvent0     Event
	OrEvent0      Event
	AndValidBits0 uint8
	OrValidBits0  uint8

	AndEvent1     Event
	OrEvent1      Event
	AndValidBits1 uint8
	OrValidBits1  uint8
}

// InterruptFlags selects the interrupt causes to unmask or mask.
type InterruptFlags struct {
	Counter0Event    bool
	Counter0FIFOFull bool
	Counter0HitZero  bool
	Counter0HitPeak  bool
	Counter1Event    bool
	Counter1FIFOFull bool
	Counter1HitZero  bool
	Counter1HitPeak  bool
}

// AllInterrupts selects every interrupt cause.
var AllInterrupts = InterruptFlags{
	Counter0Event: true, Counter0FIFOFull: true, Counter0HitZero: true, Counter0HitPeak: true,
	Counter1Event: true, Counter1FIFOFull: true, Counter1HitZero: true, Counter1HitPeak: true,
}

// Version is the driver API version.
type Version struct {
	Release, Major, Minor uint8
}

var dirNames = [DirectionLast]string{"up", "down", "updown"}

func (d Direction) String() string {
	if d >= DirectionLast {
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
	return dirNames[d]
}

func (d Direction) MarshalText() ([]byte, error) {
	if d >= DirectionLast {
		return nil, status.InvalidParameter
	}
	return []byte(dirNames[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range dirNames {
		if strings.EqualFold(string(text), name) {
			*d = Direction(i)
			return nil
		}
	}
	return status.InvalidParameter
}
