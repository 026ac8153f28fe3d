package hwdefs

import (
	"fmt"
	"strings"
)

// IRQ is an NVIC interrupt line number.
type IRQ uint

const (
	IRQ_UDMA0 IRQ = 33
	IRQ_CT    IRQ = 34 // IRQ034_Handler

	NumIRQs = 99
)

func (irq IRQ) String() string {
	switch irq {
	case IRQ_CT:
		return "IRQ034(CT)"
	case IRQ_UDMA0:
		return "IRQ033(UDMA0)"
	}
	return fmt.Sprintf("IRQ%03d", uint(irq))
}

// Peripheral identifies a clock-gated peripheral.
type Peripheral uint8

const (
	ClkCT Peripheral = 1 << iota
	ClkUDMA

	numPeripherals = 2
)

var periphNames = [numPeripherals]string{
	"ct",
	"udma",
}

func (p Peripheral) String() string {
	var names []string
	for i := range numPeripherals {
		if p&(1<<i) != 0 {
			names = append(names, periphNames[i])
		}
	}
	return strings.Join(names, "|")
}

// Memory map.
const (
	SRAMBase  = 0x0C00_0000
	SRAMSize  = 0x4_0000
	CTBase    = 0x4506_0000
	CTMuxBase = 0x4611_0000
	UDMABase  = 0x4400_0000
	ClockBase = 0x4600_0000

	// uDMA primary and alternate control tables, 32 channels of 16 bytes
	// each, at the top of SRAM.
	UDMADescBase = SRAMBase + SRAMSize - 0x400
	// Compare value tables the CT driver streams from, one per DMA
	// channel, just below the uDMA control tables.
	CTDMATableWords = 0x4000
	CTDMATables     = UDMADescBase - 2*4*CTDMATableWords
)

const (
	DefaultCTClock = 16_000_000 // Hz, set by the timer init sequence
	CoreClock      = 32_000_000 // Hz, M4 core clock at power-up

	SoftReset = true
	HardReset = false
)
