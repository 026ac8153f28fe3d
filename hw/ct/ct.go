package ct

import (
	"sict/emu/log"
	"sict/hw/hwdefs"
	"sict/hw/hwio"
)

// NumInputs is the number of CT input event lines.
const NumInputs = 4

// uDMA request lines driven by each counter's OCU.
var dmaChannel = [2]int{0, 8}

type nvic interface {
	SetIRQ(irq hwdefs.IRQ, level bool)
}

type dmaRequester interface {
	Request(channel int)
}

// OutputObserver is notified of every edge on the CT output pins.
type OutputObserver interface {
	OutputChanged(pin int, level bool, cycle int64)
}

// CT is a cycle-level model of one Configurable Timer instance: two 16-bit
// counters (or a single 32-bit one), the event engine, the output compare
// unit and the waveform generator.
//
//	inputs --> event engine --> start/stop/halt/... --> counter 0 --+--> OCU/WFG --> out0
//	                                                    counter 1 --+--> OCU/WFG --> out1
//	                                                                |
//	                                                                +--> INTR_STS --> IRQ 34
type CT struct {
	Cycles int64

	nvic nvic
	dma  dmaRequester
	obs  OutputObserver

	ctrl uint32 // GEN_CTRL state
	mask uint32 // interrupt mask, a set bit masks the cause
	irq  bool   // current level of the IRQ line
	cnt  [2]counter
	ev   [NumBlocks][3]uint32 // event select, AND and OR registers

	lines uint8    // input levels driven from outside
	hist  [3]uint8 // sampled input levels, hist[0] is the current cycle
	out   [2]bool

	GEN_CTRL_SET     hwio.Reg32  `hwio:"offset=0x00,rwmask=0,rcb,pcb=ReadGEN_CTRL_SET,wcb"`
	GEN_CTRL_RESET   hwio.Reg32  `hwio:"offset=0x04,rwmask=0,rcb=ReadGEN_CTRL_SET,pcb=ReadGEN_CTRL_SET,wcb"`
	INTR_STS         hwio.Reg32  `hwio:"offset=0x08,readonly"`
	INTR_MASK        hwio.Reg32  `hwio:"offset=0x0C,rwmask=0,rcb,pcb=ReadINTR_MASK,wcb"`
	INTR_UNMASK      hwio.Reg32  `hwio:"offset=0x10,rwmask=0,rcb=ReadINTR_MASK,pcb=ReadINTR_MASK,wcb"`
	INTR_ACK         hwio.Reg32  `hwio:"offset=0x14,rwmask=0,writeonly,wcb"`
	MATCH            hwio.Reg32  `hwio:"offset=0x18"`
	MATCH_BUF        hwio.Reg32  `hwio:"offset=0x1C"`
	CAPTURE          hwio.Reg32  `hwio:"offset=0x20,readonly,rcb"`
	COUNTER          hwio.Reg32  `hwio:"offset=0x24,wcb"`
	OCU_CTRL         hwio.Reg32  `hwio:"offset=0x28,rwmask=0x0FFF0FFF"`
	OCU_COMPARE      hwio.Reg32  `hwio:"offset=0x2C"`
	OCU_COMPARE2     hwio.Reg32  `hwio:"offset=0x30"`
	OCU_SYNC         hwio.Reg32  `hwio:"offset=0x34"`
	OCU_COMPARE_NXT  hwio.Reg32  `hwio:"offset=0x38"`
	WFG_CTRL         hwio.Reg32  `hwio:"offset=0x3C,rwmask=0xFF3FFF3F"`
	OCU_COMPARE2_NXT hwio.Reg32  `hwio:"offset=0x40"`
	EVENTS           hwio.Device `hwio:"offset=0x50,size=0x60,rcb,pcb=ReadEVENTS,wcb"`
	EVENT_ENABLE     hwio.Reg32  `hwio:"offset=0xB0"`
}

type counter struct {
	running bool
	halted  bool
	down    bool   // up-down mode, going down
	incr    bool   // increment event fired this cycle
	reload  uint32 // value latched by the last COUNTER write
	toggles uint32 // WFG toggles in the current period
	unread  bool   // CAPTURE holds a value not yet read
}

func New(nvic nvic, dma dmaRequester) *CT {
	ct := &CT{nvic: nvic, dma: dma}
	hwio.MustInitRegs(ct)
	ct.Reset()
	return ct
}

// SetObserver sets the observer notified of output pin edges.
func (ct *CT) SetObserver(obs OutputObserver) { ct.obs = obs }

func (ct *CT) Reset() {
	ct.Cycles = 0
	ct.ctrl = 0
	ct.mask = IntrAll
	ct.irq = false
	ct.cnt = [2]counter{}
	ct.ev = [NumBlocks][3]uint32{}
	ct.hist = [3]uint8{}
	ct.out = [2]bool{}
	for _, r := range []*hwio.Reg32{
		&ct.INTR_STS, &ct.MATCH, &ct.MATCH_BUF, &ct.CAPTURE, &ct.COUNTER,
		&ct.OCU_CTRL, &ct.OCU_COMPARE, &ct.OCU_COMPARE2, &ct.OCU_SYNC,
		&ct.OCU_COMPARE_NXT, &ct.WFG_CTRL, &ct.OCU_COMPARE2_NXT, &ct.EVENT_ENABLE,
	} {
		r.Value = 0
	}
}

// InitBus maps the CT register bank at base.
func (ct *CT) InitBus(bus *hwio.Table, base uint32) {
	bus.MapBank(base, ct, 0)
}

func (ct *CT) mode32() bool { return ct.ctrl&Counter32BitMode != 0 }

// ctl reports whether the counter 0 control bit is set for counter c.
func (ct *CT) ctl(c int, bit uint32) bool {
	return ct.ctrl&(bit<<(Counter1Shift*c)) != 0
}

func (ct *CT) dir(c int) uint32 {
	return (ct.ctrl >> (DirShift0 + Counter1Shift*c)) & 0x3
}

func (ct *CT) width() uint32 {
	if ct.mode32() {
		return 0xFFFFFFFF
	}
	return 0xFFFF
}

// half returns the part of r belonging to counter c.
func (ct *CT) half(r *hwio.Reg32, c int) uint32 {
	if ct.mode32() {
		return r.Value
	}
	return hwio.Field32(r.Value, uint(Counter1Shift*c), 16)
}

func (ct *CT) setHalf(r *hwio.Reg32, c int, v uint32) {
	if ct.mode32() {
		r.Value = v
		return
	}
	hwio.SetField32(&r.Value, uint(Counter1Shift*c), 16, v)
}

// Count returns the current value of counter c.
func (ct *CT) Count(c int) uint32 { return ct.half(&ct.COUNTER, c) }

// Running reports whether counter c is counting.
func (ct *CT) Running(c int) bool { return ct.cnt[c].running && !ct.cnt[c].halted }

// Halted reports whether counter c is halted, waiting for a resume.
func (ct *CT) Halted(c int) bool { return ct.cnt[c].halted }

// Output returns the level of output pin c.
func (ct *CT) Output(c int) bool { return ct.out[c] }

// IRQ reports the level of the CT interrupt line.
func (ct *CT) IRQ() bool { return ct.irq }

// GEN_CTRL_SET and GEN_CTRL_RESET read back the control state.
func (ct *CT) ReadGEN_CTRL_SET(uint32) uint32 { return ct.ctrl }

func (ct *CT) WriteGEN_CTRL_SET(_, val uint32) {
	ct.ctrl |= val &^ selfClearing
	for c := range 2 {
		if val&(SoftReset0<<(Counter1Shift*c)) != 0 {
			ct.softReset(c)
		}
	}
	for c := range 2 {
		if val&(Trig0<<(Counter1Shift*c)) != 0 {
			ct.start(c)
		}
	}
	log.ModCT.DebugZ("write GEN_CTRL_SET").
		Hex32("val", val).
		Hex32("ctrl", ct.ctrl).
		End()
}

// Writing 0 clears the whole control state.
func (ct *CT) WriteGEN_CTRL_RESET(_, val uint32) {
	if val == 0 {
		ct.ctrl = 0
	} else {
		ct.ctrl &^= val
	}
	log.ModCT.DebugZ("write GEN_CTRL_RESET").
		Hex32("val", val).
		Hex32("ctrl", ct.ctrl).
		End()
}

func (ct *CT) ReadINTR_MASK(uint32) uint32 { return ct.mask }

func (ct *CT) WriteINTR_MASK(_, val uint32) {
	ct.mask |= val & IntrAll
	ct.updateIRQ()
}

func (ct *CT) WriteINTR_UNMASK(_, val uint32) {
	ct.mask &^= val
	ct.updateIRQ()
}

func (ct *CT) WriteINTR_ACK(_, val uint32) {
	ct.INTR_STS.ClearBits(val)
	ct.updateIRQ()
}

func (ct *CT) ReadCAPTURE(val uint32) uint32 {
	ct.cnt[0].unread = false
	ct.cnt[1].unread = false
	return val
}

func (ct *CT) WriteCOUNTER(_, val uint32) {
	if ct.mode32() {
		ct.cnt[0].reload = val
	} else {
		ct.cnt[0].reload = val & 0xFFFF
		ct.cnt[1].reload = val >> 16
	}
	ct.cnt[0].down = false
	ct.cnt[1].down = false
}

func eventIndex(addr uint32) (Block, int) {
	off := addr&0xFFF - RegEventBase
	return Block(off / 12), int(off%12) / 4
}

func (ct *CT) ReadEVENTS(addr uint32) uint32 {
	b, r := eventIndex(addr)
	return ct.ev[b][r]
}

func (ct *CT) WriteEVENTS(addr, val uint32) {
	b, r := eventIndex(addr)
	if b == BlockHalt && r == 0 {
		// Resume bits are self-clearing.
		if val&ResumeFromHalt0 != 0 {
			ct.resume(0)
		}
		if val&ResumeFromHalt1 != 0 {
			ct.resume(1)
		}
		val &^= ResumeFromHalt0 | ResumeFromHalt1
	}
	ct.ev[b][r] = val
	log.ModCT.DebugZ("write event register").
		Stringer("block", b).
		Int("idx", r).
		Hex32("val", val).
		End()
}

func (ct *CT) raise(flags uint32) {
	ct.INTR_STS.SetBits(flags)
	ct.updateIRQ()
}

func (ct *CT) updateIRQ() {
	level := ct.INTR_STS.Value&^ct.mask != 0
	if level == ct.irq {
		return
	}
	ct.irq = level
	if ct.nvic != nil {
		ct.nvic.SetIRQ(hwdefs.IRQ_CT, level)
	}
}

// SetInput drives input event line n.
func (ct *CT) SetInput(n int, level bool) {
	if level {
		ct.lines |= 1 << n
	} else {
		ct.lines &^= 1 << n
	}
}

// Input returns the level driven on input line n.
func (ct *CT) Input(n int) bool { return ct.lines&(1<<n) != 0 }

func (ct *CT) softReset(c int) {
	ct.setHalf(&ct.COUNTER, c, 0)
	ct.cnt[c].down = false
	ct.cnt[c].toggles = 0
}

func (ct *CT) start(c int) {
	cn := &ct.cnt[c]
	if !cn.running {
		log.ModCT.DebugZ("counter start").Int("counter", c).Int64("cycle", ct.Cycles).End()
	}
	cn.running = true
	cn.halted = false
	if o := 1 - c; !ct.mode32() && ct.ctl(o, SyncTrig0) {
		ct.cnt[o].running = true
	}
}

func (ct *CT) stop(c int) {
	if ct.cnt[c].running {
		log.ModCT.DebugZ("counter stop").Int("counter", c).Int64("cycle", ct.Cycles).End()
	}
	ct.cnt[c].running = false
}

func (ct *CT) resume(c int) {
	if ct.cnt[c].halted {
		log.ModCT.DebugZ("counter resume").Int("counter", c).Int64("cycle", ct.Cycles).End()
	}
	ct.cnt[c].halted = false
}

func (ct *CT) capture(c int) {
	cn := &ct.cnt[c]
	if cn.unread {
		ct.raise(IntrFIFO0 << (Counter1Shift * c))
	}
	ct.setHalf(&ct.CAPTURE, c, ct.Count(c))
	cn.unread = true
}

func (ct *CT) units() int {
	if ct.mode32() {
		return 1
	}
	return 2
}

// Tick advances the timer by one CT clock cycle.
func (ct *CT) Tick() {
	ct.Cycles++
	ct.hist[2], ct.hist[1], ct.hist[0] = ct.hist[1], ct.hist[0], ct.lines
	for c := range ct.units() {
		ct.actions(c)
		ct.count(c)
	}
}

// Run advances the timer by n cycles.
func (ct *CT) Run(n int64) {
	for range n {
		ct.Tick()
	}
}

func (ct *CT) count(c int) {
	cn := &ct.cnt[c]
	if !cn.running || cn.halted {
		return
	}
	if ct.eventCounting(c) && !cn.incr {
		return
	}
	ct.step(c)
}

// step moves counter c by one, in its configured direction.
func (ct *CT) step(c int) {
	cn := &ct.cnt[c]
	v := ct.Count(c)
	m := ct.half(&ct.MATCH, c)
	periodic := ct.ctl(c, Periodic0)

	switch ct.dir(c) {
	case DirDown:
		if v == m {
			ct.peak(c)
			ct.periodEnd(c)
			if !periodic {
				ct.stop(c)
				return
			}
			v = cn.reload
		} else {
			v = (v - 1) & ct.width()
			if v == 0 {
				ct.zero(c)
			}
		}
	case DirUpDown:
		switch {
		case !cn.down && v == m:
			ct.peak(c)
			cn.down = true
			v = (v - 1) & ct.width()
			if v == 0 {
				ct.zero(c)
			}
		case !cn.down:
			v = (v + 1) & ct.width()
		case v == 0:
			ct.periodEnd(c)
			cn.down = false
			if !periodic {
				ct.stop(c)
				return
			}
			v++
		default:
			v--
			if v == 0 {
				ct.zero(c)
			}
		}
	default:
		if v == m {
			ct.peak(c)
			ct.periodEnd(c)
			if !periodic {
				ct.stop(c)
				return
			}
			v = 0
			ct.zero(c)
		} else {
			v = (v + 1) & ct.width()
		}
	}

	ct.setHalf(&ct.COUNTER, c, v)
	ct.compare(c, v)
}

func (ct *CT) peak(c int) {
	ct.raise(IntrPeak0 << (Counter1Shift * c))
	ct.drive(c, SelPeak)
}

func (ct *CT) zero(c int) {
	ct.raise(IntrZero0 << (Counter1Shift * c))
	ct.drive(c, SelZero)
}

// periodEnd reloads the buffered match and compare values, and requests a
// DMA transfer when enabled.
func (ct *CT) periodEnd(c int) {
	if ct.ctl(c, BufEn0) {
		ct.setHalf(&ct.MATCH, c, ct.half(&ct.MATCH_BUF, c))
	}
	ocu := ct.OCU_CTRL.Value >> (Counter1Shift * c)
	if ocu&OCUOutput0 != 0 {
		ct.setHalf(&ct.OCU_COMPARE, c, ct.half(&ct.OCU_COMPARE_NXT, c))
		ct.setHalf(&ct.OCU_COMPARE2, c, ct.half(&ct.OCU_COMPARE2_NXT, c))
	}
	if ocu&OCUDMA0 != 0 && ct.dma != nil {
		ct.dma.Request(dmaChannel[c])
	}
	ct.cnt[c].toggles = 0
}
