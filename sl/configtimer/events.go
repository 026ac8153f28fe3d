package configtimer

import (
	"sict/emu/log"
	"sict/hw/ct"
	"sict/sl/status"
)

// actionBlock maps each action to its event register triple. Actions are
// not numbered in register order.
var actionBlock = [ActionLast]ct.Block{
	Start:     ct.BlockStart,
	Stop:      ct.BlockStop,
	Continue:  ct.BlockContinue,
	Halt:      ct.BlockHalt,
	Increment: ct.BlockIncrement,
	Capture:   ct.BlockCapture,
	Interrupt: ct.BlockIntr,
	Output:    ct.BlockOutput,
}

// SelectActionEvent selects the events triggering action a, ev0 for counter
// 0 and ev1 for counter 1. AndEvent and OrEvent select the expressions set
// with ConfigureActionEvent.
func (d *Driver) SelectActionEvent(a Action, ev0, ev1 Event) error {
	if a >= ActionLast {
		return status.InvalidParameter
	}
	if ev0 >= EventLast || ev1 >= EventLast {
		return status.InvalidParameter
	}
	val := uint32(ev0) | uint32(ev1)<<16
	d.or(actionBlock[a].SelReg(), val)

	log.ModDriver.DebugZ("select action event").
		Stringer("action", a).
		Stringer("ev0", ev0).
		Stringer("ev1", ev1).
		End()
	return nil
}

// ConfigureActionEvent sets the AND and OR expressions of an action, for
// both counters.
func (d *Driver) ConfigureActionEvent(ae *ActionEvent) error {
	and, err := EncodeAndEvent(ae)
	if err != nil {
		return err
	}
	or, err := EncodeOrEvent(ae)
	if err != nil {
		return err
	}
	b := actionBlock[ae.Action]
	d.or(b.AndReg(), and)
	d.or(b.OrReg(), or)

	log.ModDriver.DebugZ("configure action event").
		Stringer("action", ae.Action).
		Hex32("and", and).
		Hex32("or", or).
		End()
	return nil
}
