// Package trace records the activity of the simulated SoC as JSON lines:
// bus accesses, interrupt handler entries and output pin edges.
package trace

import (
	"bufio"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"sict/emu/log"
	"sict/hw/ct"
	"sict/hw/hwdefs"
)

//go:generate go tool stringer -type=Kind -linecomment

type Kind uint8

const (
	Read   Kind = iota + 1 // read
	Write                  // write
	IRQ                    // irq
	Output                 // output
)

// Event is one trace line.
type Event struct {
	Kind  Kind
	Cycle int64

	// Read and Write.
	Bus  string
	Addr uint32
	Val  uint32
	Reg  string // register name, if known

	// IRQ.
	IRQ hwdefs.IRQ

	// Output.
	Pin   int
	Level bool
}

// Encode writes ev as a JSON object.
func (ev *Event) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("kind")
	e.Str(ev.Kind.String())
	e.FieldStart("cycle")
	e.Int64(ev.Cycle)
	switch ev.Kind {
	case Read, Write:
		e.FieldStart("bus")
		e.Str(ev.Bus)
		e.FieldStart("addr")
		e.UInt32(ev.Addr)
		e.FieldStart("val")
		e.UInt32(ev.Val)
		if ev.Reg != "" {
			e.FieldStart("reg")
			e.Str(ev.Reg)
		}
	case IRQ:
		e.FieldStart("irq")
		e.UInt32(uint32(ev.IRQ))
	case Output:
		e.FieldStart("pin")
		e.Int(ev.Pin)
		e.FieldStart("level")
		e.Bool(ev.Level)
	}
	e.ObjEnd()
}

var kinds = map[string]Kind{
	Read.String():   Read,
	Write.String():  Write,
	IRQ.String():    IRQ,
	Output.String(): Output,
}

// Decode reads ev from a JSON object.
func (ev *Event) Decode(d *jx.Decoder) error {
	*ev = Event{}
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "kind":
			var s string
			if s, err = d.Str(); err != nil {
				return err
			}
			k, ok := kinds[s]
			if !ok {
				return errors.Errorf("unknown event kind %q", s)
			}
			ev.Kind = k
		case "cycle":
			ev.Cycle, err = d.Int64()
		case "bus":
			ev.Bus, err = d.Str()
		case "addr":
			ev.Addr, err = d.UInt32()
		case "val":
			ev.Val, err = d.UInt32()
		case "reg":
			ev.Reg, err = d.Str()
		case "irq":
			var irq uint32
			irq, err = d.UInt32()
			ev.IRQ = hwdefs.IRQ(irq)
		case "pin":
			ev.Pin, err = d.Int()
		case "level":
			ev.Level, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

// ReadEvents decodes a JSON lines trace.
func ReadEvents(r io.Reader) ([]Event, error) {
	var evs []Event
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ev Event
		if err := ev.Decode(jx.DecodeBytes(sc.Bytes())); err != nil {
			return evs, errors.Wrapf(err, "line %d", n)
		}
		evs = append(evs, ev)
	}
	if err := sc.Err(); err != nil {
		return evs, errors.Wrap(err, "read trace")
	}
	return evs, nil
}

// regNames maps CT register addresses to their names.
var regNames = func() map[uint32]string {
	m := make(map[uint32]string, len(ct.RegNames)+3)
	for _, r := range ct.RegNames {
		m[hwdefs.CTBase+r.Offset] = r.Name
	}
	m[hwdefs.CTMuxBase+ct.RegMuxIntrSel] = "CT_INTR_SEL"
	m[hwdefs.CTMuxBase+ct.RegMuxOutputEvent1] = "CT_OUTPUT_EVENT1_ADC_SEL"
	m[hwdefs.CTMuxBase+ct.RegMuxOutputEvent2] = "CT_OUTPUT_EVENT2_ADC_SEL"
	return m
}()

// A Publisher receives every encoded trace line. The line is only valid
// during the call.
type Publisher interface {
	Publish(line []byte)
}

// Tracer turns SoC activity into trace events. It observes the bus, the
// NVIC and the CT output pins.
type Tracer struct {
	w     io.Writer
	pub   Publisher
	clock func() int64
	reads bool

	enc jx.Encoder
	err error
	n   int
}

// New returns a tracer writing JSON lines to w, if not nil, and publishing
// them to pub, if not nil. clock returns the current cycle. Bus reads are
// only traced if reads is set.
func New(w io.Writer, pub Publisher, clock func() int64, reads bool) *Tracer {
	return &Tracer{w: w, pub: pub, clock: clock, reads: reads}
}

func (t *Tracer) emit(ev *Event) {
	t.enc.Reset()
	ev.Encode(&t.enc)
	t.enc.RawStr("\n")
	line := t.enc.Bytes()
	t.n++

	if t.w != nil && t.err == nil {
		if _, err := t.w.Write(line); err != nil {
			t.err = errors.Wrap(err, "write trace")
			log.ModTrace.ErrorZ("trace disabled").Error("err", err).End()
		}
	}
	if t.pub != nil {
		t.pub.Publish(line)
	}
}

func (t *Tracer) ObserveRead(bus string, addr, val uint32) {
	if !t.reads {
		return
	}
	t.emit(&Event{Kind: Read, Cycle: t.clock(), Bus: bus, Addr: addr, Val: val, Reg: regNames[addr]})
}

func (t *Tracer) ObserveWrite(bus string, addr, val uint32) {
	t.emit(&Event{Kind: Write, Cycle: t.clock(), Bus: bus, Addr: addr, Val: val, Reg: regNames[addr]})
}

func (t *Tracer) ObserveIRQ(irq hwdefs.IRQ) {
	t.emit(&Event{Kind: IRQ, Cycle: t.clock(), IRQ: irq})
}

func (t *Tracer) OutputChanged(pin int, level bool, cycle int64) {
	t.emit(&Event{Kind: Output, Cycle: cycle, Pin: pin, Level: level})
}

// Events returns the number of events traced so far.
func (t *Tracer) Events() int { return t.n }

// Err returns the first error met writing the trace.
func (t *Tracer) Err() error { return t.err }
