package ct

import "sict/emu/log"

// compare runs the output compare unit of counter c against value v.
func (ct *CT) compare(c int, v uint32) {
	ocu := ct.OCU_CTRL.Value >> (Counter1Shift * c)
	if ocu&OCUOutput0 == 0 {
		return
	}
	c1, c2 := ct.half(&ct.OCU_COMPARE, c), ct.half(&ct.OCU_COMPARE2, c)
	if ocu&OCU8Bit0 != 0 {
		v, c1, c2 = v&0xFF, c1&0xFF, c2&0xFF
	}
	if v == c1 {
		ct.drive(c, SelCompare1)
		ct.wfg(c, WFGTgl0Shift0)
	}
	if v == c2 {
		ct.drive(c, SelCompare2)
		ct.wfg(c, WFGTgl1Shift0)
	}
}

// drive applies the OCU high/low selects of output c for the given source.
func (ct *CT) drive(c int, src uint32) {
	ocu := ct.OCU_CTRL.Value >> (Counter1Shift * c)
	if ocu&OCUOutput0 == 0 {
		return
	}
	if (ocu>>OCUHighShift0)&0x7 == src {
		ct.setOutput(c, true)
	}
	if (ocu>>OCULowShift0)&0x7 == src {
		ct.setOutput(c, false)
	}
}

// wfg applies the waveform generator toggle select at shift for output c.
// A non-zero peak field caps the number of toggles per period.
func (ct *CT) wfg(c int, shift uint) {
	w := ct.WFG_CTRL.Value >> (Counter1Shift * c)
	cn := &ct.cnt[c]
	if limit := (w >> WFGPeakShift0) & 0xFF; limit != 0 && cn.toggles >= limit {
		return
	}
	switch (w >> shift) & 0x7 {
	case WFGToggle:
		ct.setOutput(c, !ct.out[c])
	case WFGHigh:
		ct.setOutput(c, true)
	case WFGLow:
		ct.setOutput(c, false)
	default:
		return
	}
	cn.toggles++
}

func (ct *CT) setOutput(c int, level bool) {
	if ct.out[c] == level {
		return
	}
	ct.out[c] = level
	log.ModCT.DebugZ("output").
		Int("pin", c).
		Bool("level", level).
		Int64("cycle", ct.Cycles).
		End()
	if ct.obs != nil {
		ct.obs.OutputChanged(c, level, ct.Cycles)
	}
}
