package ct

import "sict/hw/hwio"

// Mux is the CT_MUX block, shared by the CT instances: interrupt source
// selection and the routing of output events to the ADC trigger inputs.
type Mux struct {
	INTR_SEL                 hwio.Reg32 `hwio:"offset=0x10"`
	CT_OUTPUT_EVENT1_ADC_SEL hwio.Reg32 `hwio:"offset=0x30,rwmask=0xF"`
	CT_OUTPUT_EVENT2_ADC_SEL hwio.Reg32 `hwio:"offset=0x34,rwmask=0xF"`
}

func NewMux() *Mux {
	m := &Mux{}
	hwio.MustInitRegs(m)
	return m
}

func (m *Mux) InitBus(bus *hwio.Table, base uint32) {
	bus.MapBank(base, m, 0)
}

// ADCTrigger returns the output events routed to the two ADC trigger inputs.
func (m *Mux) ADCTrigger() (uint8, uint8) {
	return uint8(m.CT_OUTPUT_EVENT1_ADC_SEL.Value), uint8(m.CT_OUTPUT_EVENT2_ADC_SEL.Value)
}
