package configtimer

import (
	"sict/hw/ct"
	"sict/sl/status"
)

// Largest values of the bounded fields.
const (
	MaxCount16Bit = 0xFFFF
	MaxValidBits  = 15
	MaxADCPin     = 15
	MaxToggleSel  = 7
	MaxSync       = 7
)

// EncodeConfig returns the GEN_CTRL_SET word for cfg.
func EncodeConfig(cfg *Config) (uint32, error) {
	if cfg == nil {
		return 0, status.NullPointer
	}
	var val uint32
	if cfg.Mode32Bit {
		val |= ct.Counter32BitMode
	}
	for c := range CounterLast {
		cc := cfg.counter(c)
		if cc.Direction >= DirectionLast {
			return 0, status.InvalidParameter
		}
		var w uint32
		if cc.SoftReset {
			w |= ct.SoftReset0
		}
		if cc.Periodic {
			w |= ct.Periodic0
		}
		if cc.Trigger {
			w |= ct.Trig0
		}
		if cc.SyncTrigger {
			w |= ct.SyncTrig0
		}
		if cc.Buffer {
			w |= ct.BufEn0
		}
		w |= cc.Direction.bits() << ct.DirShift0
		val |= w << (ct.Counter1Shift * uint32(c))
	}
	return val, nil
}

// EncodeOCUConfig returns the OCU_CTRL bits to set for c.
func EncodeOCUConfig(c *OCUConfig) (uint32, error) {
	if c == nil {
		return 0, status.NullPointer
	}
	var val uint32
	for _, oc := range []struct {
		cfg       *OCUCounterConfig
		shift     uint32
		high, low uint32
	}{
		{&c.Counter0, 0, ct.SelPeak << ct.OCUHighShift0, ct.SelCompare1 << ct.OCULowShift0},
		{&c.Counter1, ct.Counter1Shift, ct.SelCompare1 << ct.OCUHighShift1, ct.SelPeak << ct.OCULowShift1},
	} {
		var w uint32
		if oc.cfg.Output {
			w |= ct.OCUOutput0
		}
		if oc.cfg.Sync {
			w |= ct.OCUSync0
		}
		if oc.cfg.DMA {
			w |= ct.OCUDMA0
		}
		if oc.cfg.Mode8Bit {
			w |= ct.OCU8Bit0
		}
		val |= w << oc.shift
		if oc.cfg.ToggleHigh {
			val |= oc.high
		}
		if oc.cfg.ToggleLow {
			val |= oc.low
		}
	}
	return val, nil
}

func checkActionEvent(ae *ActionEvent) error {
	if ae == nil {
		return status.NullPointer
	}
	for _, ev := range []Event{ae.AndEvent0, ae.OrEvent0, ae.AndEvent1, ae.OrEvent1} {
		if ev >= EventLast {
			return status.InvalidParameter
		}
	}
	for _, vb := range []uint8{ae.AndValidBits0, ae.OrValidBits0, ae.AndValidBits1, ae.OrValidBits1} {
		if vb > MaxValidBits {
			return status.InvalidParameter
		}
	}
	if ae.Action >= ActionLast {
		return status.InvalidParameter
	}
	return nil
}

func eventWord(ev0 Event, valid0 uint8, ev1 Event, valid1 uint8) uint32 {
	return uint32(ev0) | uint32(valid0)<<8 | uint32(ev1)<<16 | uint32(valid1)<<24
}

// EncodeAndEvent returns the AND event register word of ae.
func EncodeAndEvent(ae *ActionEvent) (uint32, error) {
	if err := checkActionEvent(ae); err != nil {
		return 0, err
	}
	return eventWord(ae.AndEvent0, ae.AndValidBits0, ae.AndEvent1, ae.AndValidBits1), nil
}

// EncodeOrEvent returns the OR event register word of ae.
func EncodeOrEvent(ae *ActionEvent) (uint32, error) {
	if err := checkActionEvent(ae); err != nil {
		return 0, err
	}
	return eventWord(ae.OrEvent0, ae.OrValidBits0, ae.OrEvent1, ae.OrValidBits1), nil
}

// EncodeWFG returns the WFG_CTRL word for w.
func EncodeWFG(w *WFGConfig) (uint32, error) {
	if w == nil {
		return 0, status.NullPointer
	}
	for _, sel := range []uint8{w.Output0Toggle0Sel, w.Output0Toggle1Sel, w.Output1Toggle0Sel, w.Output1Toggle1Sel} {
		if sel > MaxToggleSel {
			return 0, status.InvalidParameter
		}
	}
	return uint32(w.Output0Toggle0Sel)<<ct.WFGTgl0Shift0 |
		uint32(w.Output0Toggle1Sel)<<ct.WFGTgl1Shift0 |
		uint32(w.Toggle0Peak)<<ct.WFGPeakShift0 |
		uint32(w.Output1Toggle0Sel)<<ct.WFGTgl0Shift1 |
		uint32(w.Output1Toggle1Sel)<<ct.WFGTgl1Shift1 |
		uint32(w.Toggle1Peak)<<ct.WFGPeakShift1, nil
}

// Mask returns the interrupt causes selected by f.
func (f *InterruptFlags) Mask() Flag {
	var m Flag
	for _, b := range []struct {
		on   bool
		flag Flag
	}{
		{f.Counter0Event, FlagEvent0},
		{f.Counter0FIFOFull, FlagFIFO0Full},
		{f.Counter0HitZero, FlagCounter0Zero},
		{f.Counter0HitPeak, FlagCounter0Peak},
		{f.Counter1Event, FlagEvent1},
		{f.Counter1FIFOFull, FlagFIFO1Full},
		{f.Counter1HitZero, FlagCounter1Zero},
		{f.Counter1HitPeak, FlagCounter1Peak},
	} {
		if b.on {
			m |= b.flag
		}
	}
	return m
}
