package configtimer

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/sl/status"
)

// SetOCUConfiguration sets the Output Compare Unit bits of c. Bits already
// set are kept.
func (d *Driver) SetOCUConfiguration(c *OCUConfig) error {
	val, err := EncodeOCUConfig(c)
	if err != nil {
		return err
	}
	d.or(ct.RegOCUCtrl, val)
	log.ModDriver.DebugZ("set ocu configuration").Hex32("ocu_ctrl", val).End()
	return nil
}

// ResetOCUConfiguration clears every OCU control bit.
func (d *Driver) ResetOCUConfiguration() {
	d.andNot(ct.RegOCUCtrl, 0xFFFFFFFF)
}

// SetOCUControl writes the first and next compare thresholds of the counter
// selected by c, and enables DMA updates of the next thresholds if c.DMA is
// set. The OCU output of that counter must be enabled for the thresholds to
// take effect.
func (d *Driver) SetOCUControl(c *OCUControl) error {
	if c == nil || c.Params == nil {
		return status.NullPointer
	}
	if c.Counter >= CounterLast {
		return status.InvalidParameter
	}
	v1, v2, nxt1, nxt2 := c.Params.compare(c.Counter)
	d.setHalf(ct.RegOCUCompare, c.Counter, v1)
	d.setHalf(ct.RegOCUCompare2, c.Counter, v2)
	d.setHalf(ct.RegOCUCompareNxt, c.Counter, nxt1)
	d.setHalf(ct.RegOCUCompare2Nxt, c.Counter, nxt2)
	sync := c.Params.SyncWith0
	if c.Counter == Counter1 {
		sync = c.Params.SyncWith1
	}
	d.setHalf(ct.RegOCUSync, c.Counter, sync)

	if c.DMA {
		d.or(ct.RegOCUCtrl, ct.OCUDMA0<<d.shift(c.Counter))
		if c.OnDMA != nil {
			c.OnDMA(c.Counter)
		}
	}
	return nil
}

// SetWFGConfiguration sets the waveform generator toggle selects.
func (d *Driver) SetWFGConfiguration(w *WFGConfig) error {
	val, err := EncodeWFG(w)
	if err != nil {
		return err
	}
	d.write(ct.RegWFGCtrl, val)
	return nil
}

// SetWFGCompareValues writes the compare thresholds of counter c, taken
// from p.
func (d *Driver) SetWFGCompareValues(c Counter, p *OCUParams) error {
	if p == nil {
		return status.NullPointer
	}
	if c >= CounterLast {
		return status.InvalidParameter
	}
	v1, v2, _, _ := p.compare(c)
	d.setHalf(ct.RegOCUCompare, c, v1)
	d.setHalf(ct.RegOCUCompare2, c, v2)
	return nil
}

// SetOutputADCPin routes CT output events pin1 and pin2 to the ADC trigger
// inputs.
func (d *Driver) SetOutputADCPin(pin1, pin2 uint8) error {
	if pin1 > MaxADCPin || pin2 > MaxADCPin {
		return status.InvalidParameter
	}
	d.p.Write32(d.mux+ct.RegMuxOutputEvent1, uint32(pin1&0x0F))
	d.p.Write32(d.mux+ct.RegMuxOutputEvent2, uint32(pin2&0x0F))
	return nil
}
