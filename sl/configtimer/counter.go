package configtimer

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/sl/status"
)

// SetConfiguration writes the general control configuration in a single
// GEN_CTRL_SET write. With Options.UC set, the UC configuration is written
// instead, once cfg has been validated.
func (d *Driver) SetConfiguration(cfg *Config) error {
	if cfg == nil {
		return status.NullPointer
	}
	if cfg.Counter0.Direction >= DirectionLast || cfg.Counter1.Direction >= DirectionLast {
		return status.InvalidParameter
	}
	if d.opts.UC {
		cfg = &d.opts.UCConfig
	}
	val, err := EncodeConfig(cfg)
	if err != nil {
		return err
	}
	d.write(ct.RegGenCtrlSet, val)

	if cfg.Mode32Bit {
		d.mode32 = true
	}
	// GEN_CTRL_SET only sets bits: the direction in effect is the OR of all
	// directions written since the last ResetConfiguration.
	d.cnt[Counter0].dirBits |= cfg.Counter0.Direction.bits()
	d.cnt[Counter1].dirBits |= cfg.Counter1.Direction.bits()

	log.ModDriver.DebugZ("set configuration").Hex32("gen_ctrl", val).End()
	return nil
}

// ResetConfiguration clears the whole general control configuration: 16-bit
// mode, counting up, all features disabled.
func (d *Driver) ResetConfiguration() {
	d.write(ct.RegGenCtrlReset, 0)
	d.mode32 = false
	d.cnt[Counter0].dirBits = 0
	d.cnt[Counter1].dirBits = 0
}

// SetMode merges the two counters into one 32-bit counter, or splits them.
func (d *Driver) SetMode(mode Mode) error {
	if mode >= ModeLast {
		return status.InvalidMode
	}
	if mode == Mode32Bit {
		d.write(ct.RegGenCtrlSet, ct.Counter32BitMode)
	} else {
		d.write(ct.RegGenCtrlReset, ct.Counter32BitMode)
	}
	d.mode32 = mode == Mode32Bit
	return nil
}

// consistent reports whether counter c can reach its match value from its
// initial value in its configured direction.
func (d *Driver) consistent(c Counter) bool {
	if d.mode32 {
		return true
	}
	s := d.cnt[c]
	switch s.dir() {
	case Up:
		return s.match >= s.initial
	case Down:
		return s.match <= s.initial
	case UpDown:
		return s.match != s.initial
	}
	return true
}

// StartOnSoftwareTrigger starts counter c. In 16-bit mode, it refuses to
// start a counter that could never reach its match value, as last
// programmed through SetInitialCount and SetMatchCount.
func (d *Driver) StartOnSoftwareTrigger(c Counter) error {
	if c >= CounterLast {
		return status.InvalidParameter
	}
	if !d.consistent(c) {
		log.ModDriver.WarnZ("unreachable match value").
			Int("counter", int(c)).
			Stringer("dir", d.cnt[c].dir()).
			Uint("initial", uint64(d.cnt[c].initial)).
			Uint("match", uint64(d.cnt[c].match)).
			End()
		return status.InvalidParameter
	}
	d.write(ct.RegGenCtrlSet, ct.Trig0<<d.shift(c))
	return nil
}

// ResetCounter clears the count of counter c.
func (d *Driver) ResetCounter(c Counter) error {
	if c >= CounterLast {
		return status.InvalidParameter
	}
	d.write(ct.RegGenCtrlSet, ct.SoftReset0<<d.shift(c))
	return nil
}

// SetMatchCount sets the match value of counter c. In 32-bit mode the whole
// MATCH register is written and c must be Counter0.
func (d *Driver) SetMatchCount(mode Mode, c Counter, v uint32) error {
	if c >= CounterLast {
		return status.InvalidParameter
	}
	if mode >= ModeLast {
		return status.InvalidMode
	}
	if mode == Mode16Bit && v > MaxCount16Bit {
		return status.InvalidParameter
	}
	if mode == Mode32Bit {
		d.write(ct.RegMatch, v)
	} else {
		d.setHalf(ct.RegMatch, c, uint16(v))
	}
	d.cnt[c].match = v
	return nil
}

// SetInitialCount resets both counters and loads their initial values. In
// 32-bit mode c0 is the initial value of the merged counter and c1 is
// ignored.
func (d *Driver) SetInitialCount(mode Mode, c0, c1 uint32) error {
	if mode >= ModeLast {
		return status.InvalidMode
	}
	if mode == Mode16Bit && (c0 > MaxCount16Bit || c1 > MaxCount16Bit) {
		return status.InvalidParameter
	}
	d.ResetCounter(Counter0)
	d.ResetCounter(Counter1)
	if mode == Mode32Bit {
		d.write(ct.RegCounter, c0)
	} else {
		d.write(ct.RegCounter, c0|c1<<16)
	}
	d.cnt[Counter0].initial = c0
	d.cnt[Counter1].initial = c1
	return nil
}

// GetCount returns the current count of counter c, or of the merged counter
// in 32-bit mode.
func (d *Driver) GetCount(mode Mode, c Counter) (uint32, error) {
	if c >= CounterLast {
		return 0, status.InvalidParameter
	}
	if mode >= ModeLast {
		return 0, status.InvalidMode
	}
	if mode == Mode32Bit {
		return d.read(ct.RegCounter), nil
	}
	return d.half(ct.RegCounter, c), nil
}

// GetMatchValue returns the match value giving a period of us microseconds
// at the base clock. It fails with InvalidCount if the period does not fit
// a 16-bit counter.
func (d *Driver) GetMatchValue(us uint32) (uint32, error) {
	mhz := d.opts.BaseClock / 1_000_000
	if mhz == 0 || us > MaxCount16Bit/mhz {
		return 0, status.InvalidCount
	}
	return mhz * us, nil
}

// ReadCapture returns the count latched by the last capture event of c.
func (d *Driver) ReadCapture(c Counter) (uint16, error) {
	if c >= CounterLast {
		return 0, status.InvalidParameter
	}
	return uint16(d.half(ct.RegCapture, c)), nil
}

// ResumeHaltEvent resumes counter c after a halt event.
func (d *Driver) ResumeHaltEvent(c Counter) error {
	if c >= CounterLast {
		return status.InvalidParameter
	}
	resume := uint32(ct.ResumeFromHalt0)
	if c == Counter1 {
		resume = ct.ResumeFromHalt1
	}
	d.or(ct.BlockHalt.SelReg(), resume)
	return nil
}

// SetCounterSync sets the channel the output of counter c is synchronized
// with. Only the 3 low bits of v are used.
func (d *Driver) SetCounterSync(c Counter, v uint8) error {
	if c >= CounterLast {
		return status.InvalidParameter
	}
	sh := uint32(ct.OCUSyncShift0)
	if c == Counter1 {
		sh = ct.OCUSyncShift1
	}
	val := d.read(ct.RegOCUCtrl)&^(MaxSync<<sh) | uint32(v&MaxSync)<<sh
	d.write(ct.RegOCUCtrl, val)
	return nil
}
