package ct

// Event codes, as written in the event select, AND and OR registers.
const (
	EventNone      = 0
	EventRise0     = 1  // 1-4: rising edge on input 0-3
	EventFall0     = 5  // 5-8: falling edge
	EventRiseFall0 = 9  // 9-12: either edge
	EventLevel0_0  = 13 // 13-16: input low
	EventLevel1_0  = 17 // 17-20: input high
	EventAnd       = 21
	EventOr        = 22
	EventRiseAnd0  = 23 // 23-30: rising edge of input n, AND/OR alternating
	EventRiseReg0  = 31 // 31-38: registered variants of 23-30

	NumEvents = 39
)

const (
	kindNone = iota
	kindRise
	kindFall
	kindRiseFall
	kindLevel0
	kindLevel1
)

// decode splits an event code into the input condition it tests and its
// input line.
func decode(code uint32) (kind int, line uint) {
	switch {
	case code >= EventRise0 && code < EventAnd:
		return int((code-1)/NumInputs) + kindRise, uint((code - 1) % NumInputs)
	case code >= EventRiseAnd0 && code < NumEvents:
		return kindRise, uint((code-EventRiseAnd0)/2) % NumInputs
	}
	return kindNone, 0
}

// cond reports whether input line satisfies the condition. Registered
// conditions look at the input samples of the previous cycle.
func (ct *CT) cond(kind int, line uint, registered bool) bool {
	h := ct.hist[0:2]
	if registered {
		h = ct.hist[1:3]
	}
	cur, prev := h[0]>>line&1 != 0, h[1]>>line&1 != 0
	switch kind {
	case kindRise:
		return cur && !prev
	case kindFall:
		return !cur && prev
	case kindRiseFall:
		return cur != prev
	case kindLevel0:
		return !cur
	case kindLevel1:
		return cur
	}
	return false
}

// expr evaluates the AND (or OR) expression of block b for counter c. The
// expression applies the condition of its event code to every input line
// of its valid mask.
func (ct *CT) expr(b Block, c int, or bool) bool {
	reg := ct.ev[b][1]
	if or {
		reg = ct.ev[b][2]
	}
	word := reg >> (Counter1Shift * c)
	kind, _ := decode(word & 0x3F)
	valid := (word >> 8) & 0xF
	if kind == kindNone || valid == 0 {
		return false
	}
	for line := range uint(NumInputs) {
		if valid&(1<<line) == 0 {
			continue
		}
		ok := ct.cond(kind, line, false)
		if or && ok {
			return true
		}
		if !or && !ok {
			return false
		}
	}
	return !or
}

func (ct *CT) event(code uint32, b Block, c int) bool {
	switch {
	case code == EventNone || code >= NumEvents:
		return false
	case code < EventAnd:
		kind, line := decode(code)
		return ct.cond(kind, line, false)
	case code == EventAnd:
		return ct.expr(b, c, false)
	case code == EventOr:
		return ct.expr(b, c, true)
	}
	_, line := decode(code)
	registered := code >= EventRiseReg0
	or := (code-EventRiseAnd0)%2 == 1
	return ct.cond(kindRise, line, registered) && ct.expr(b, c, or)
}

// fired reports whether the event selected for block b triggers for counter
// c this cycle. The AND and OR expressions only take part through the
// AND/OR select codes.
func (ct *CT) fired(b Block, c int) bool {
	return ct.event(ct.sel(b, c), b, c)
}

func (ct *CT) sel(b Block, c int) uint32 {
	return (ct.ev[b][0] >> (Counter1Shift * c)) & 0x3F
}

// eventCounting reports whether counter c counts increment events instead of
// clock cycles.
func (ct *CT) eventCounting(c int) bool {
	return ct.sel(BlockIncrement, c) != EventNone
}

func (ct *CT) actions(c int) {
	cn := &ct.cnt[c]
	if ct.fired(BlockStop, c) {
		ct.stop(c)
	}
	if ct.fired(BlockStart, c) {
		ct.start(c)
	}
	if ct.fired(BlockContinue, c) && !cn.halted {
		cn.running = true
	}
	if cn.running && ct.fired(BlockHalt, c) {
		cn.halted = true
	}
	if ct.fired(BlockCapture, c) {
		ct.capture(c)
	}
	if ct.fired(BlockIntr, c) {
		ct.raise(IntrEvent0 << (Counter1Shift * c))
	}
	if ct.fired(BlockOutput, c) {
		ct.setOutput(c, !ct.out[c])
	}
	cn.incr = ct.fired(BlockIncrement, c)
}
