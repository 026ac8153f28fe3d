package configtimer

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/hw/hwdefs"
	"sict/sl/status"
)

// isrOrder is the order in which HandleIRQ looks for a pending cause.
var isrOrder = []Flag{
	FlagCounter0Peak,
	FlagCounter1Peak,
	FlagEvent0,
	FlagFIFO0Full,
	FlagCounter0Zero,
	FlagEvent1,
	FlagFIFO1Full,
	FlagCounter1Zero,
}

// Register unmasks the interrupt causes selected by flags and registers cb
// to be called on each of them. Only one callback can be registered at a
// time.
func (d *Driver) Register(cb Callback, flags *InterruptFlags) error {
	if cb == nil || flags == nil {
		return status.NullPointer
	}
	if d.reg != nil {
		return status.Busy
	}
	mask := flags.Mask()
	d.p.Write32(d.mux+ct.RegMuxIntrSel, 0xFFFFFFFF)
	d.write(ct.RegIntrUnmask, uint32(mask))
	d.reg = &registration{fn: cb, flags: mask}
	d.p.EnableIRQ(hwdefs.IRQ_CT)

	log.ModDriver.DebugZ("register callback").Stringer("flags", mask).End()
	return nil
}

// Unregister masks the interrupt causes selected by flags and drops the
// registered callback.
func (d *Driver) Unregister(flags *InterruptFlags) error {
	if flags == nil {
		return status.NullPointer
	}
	mask := flags.Mask()
	d.write(ct.RegIntrMask, uint32(mask))
	d.reg = nil
	d.p.DisableIRQ(hwdefs.IRQ_CT)

	log.ModDriver.DebugZ("unregister callback").Stringer("flags", mask).End()
	return nil
}

// HandleIRQ is the CT interrupt handler. It acknowledges the first pending
// cause in isrOrder and reports it to the registered callback. Other
// pending causes are left for the next entry.
func (d *Driver) HandleIRQ() {
	sts := Flag(d.read(ct.RegIntrSts))
	for _, f := range isrOrder {
		if sts&f == 0 {
			continue
		}
		d.write(ct.RegIntrAck, uint32(f))
		if d.reg != nil {
			d.reg.fn(f)
		}
		return
	}
}
