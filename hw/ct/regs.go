package ct

// Register offsets, relative to the CT instance base.
const (
	RegGenCtrlSet     = 0x00
	RegGenCtrlReset   = 0x04
	RegIntrSts        = 0x08
	RegIntrMask       = 0x0C
	RegIntrUnmask     = 0x10
	RegIntrAck        = 0x14
	RegMatch          = 0x18
	RegMatchBuf       = 0x1C
	RegCapture        = 0x20
	RegCounter        = 0x24
	RegOCUCtrl        = 0x28
	RegOCUCompare     = 0x2C
	RegOCUCompare2    = 0x30
	RegOCUSync        = 0x34
	RegOCUCompareNxt  = 0x38
	RegWFGCtrl        = 0x3C
	RegOCUCompare2Nxt = 0x40
	RegEventEnable    = 0xB0

	// Each action owns a (select, AND, OR) register triple starting here,
	// in Block order.
	RegEventBase = 0x50
)

// Block identifies an action register triple. The order is the hardware
// register order, not the driver's action numbering.
type Block uint8

const (
	BlockStart Block = iota
	BlockContinue
	BlockStop
	BlockHalt
	BlockIncrement
	BlockCapture
	BlockOutput
	BlockIntr

	NumBlocks
)

var blockNames = [NumBlocks]string{"START", "CONTINUE", "STOP", "HALT", "INCREMENT", "CAPTURE", "OUTPUT", "INTR"}

func (b Block) String() string {
	if b >= NumBlocks {
		return "BLOCK?"
	}
	return blockNames[b]
}

func (b Block) SelReg() uint32 { return RegEventBase + 12*uint32(b) }
func (b Block) AndReg() uint32 { return RegEventBase + 12*uint32(b) + 4 }
func (b Block) OrReg() uint32  { return RegEventBase + 12*uint32(b) + 8 }

// GEN_CTRL bits. Counter 1 bits are the counter 0 bits shifted by Counter1Shift.
const (
	Counter32BitMode = 1 << 0
	SoftReset0       = 1 << 1
	Periodic0        = 1 << 2
	Trig0            = 1 << 3
	DirShift0        = 4
	DirMask0         = 0x3 << DirShift0
	SyncTrig0        = 1 << 6
	BufEn0           = 1 << 7

	Counter1Shift = 16

	SoftReset1 = SoftReset0 << Counter1Shift
	Periodic1  = Periodic0 << Counter1Shift
	Trig1      = Trig0 << Counter1Shift
	DirShift1  = DirShift0 + Counter1Shift
	DirMask1   = DirMask0 << Counter1Shift
	SyncTrig1  = SyncTrig0 << Counter1Shift
	BufEn1     = BufEn0 << Counter1Shift

	selfClearing = SoftReset0 | Trig0 | SoftReset1 | Trig1
)

// Counting directions, as encoded in the 2-bit GEN_CTRL direction fields.
// A zero field counts up.
const (
	DirUp     = 0x1
	DirDown   = 0x2
	DirUpDown = 0x3
)

// Interrupt status, mask, unmask and ack bits.
const (
	IntrEvent0 = 1 << 0
	IntrFIFO0  = 1 << 1
	IntrZero0  = 1 << 2
	IntrPeak0  = 1 << 3
	IntrEvent1 = 1 << 16
	IntrFIFO1  = 1 << 17
	IntrZero1  = 1 << 18
	IntrPeak1  = 1 << 19

	IntrAll = IntrEvent0 | IntrFIFO0 | IntrZero0 | IntrPeak0 |
		IntrEvent1 | IntrFIFO1 | IntrZero1 | IntrPeak1
)

// OCU_CTRL bits.
const (
	OCUOutput0    = 1 << 0
	OCUSync0      = 1 << 1
	OCUSyncShift0 = 1
	OCUDMA0       = 1 << 4
	OCU8Bit0      = 1 << 5
	OCUHighShift0 = 6
	OCULowShift0  = 9

	OCUOutput1    = 1 << 16
	OCUSync1      = 1 << 17
	OCUSyncShift1 = 17
	OCUDMA1       = 1 << 20
	OCU8Bit1      = 1 << 21
	OCUHighShift1 = 22
	OCULowShift1  = 25
)

// Output drive sources for the OCU_CTRL high/low select fields.
const (
	SelNone     = 0
	SelZero     = 1 // counter reached zero
	SelPeak     = 2 // counter reached its match value
	SelCompare1 = 3 // counter equals OCU_COMPARE
	SelCompare2 = 4 // counter equals OCU_COMPARE2
)

// WFG_CTRL layout and toggle select codes.
const (
	WFGTgl0Shift0 = 0
	WFGTgl1Shift0 = 3
	WFGPeakShift0 = 8
	WFGTgl0Shift1 = 16
	WFGTgl1Shift1 = 19
	WFGPeakShift1 = 24

	WFGNone   = 0
	WFGToggle = 1
	WFGHigh   = 2
	WFGLow    = 3
)

// HALT select register resume bits.
const (
	ResumeFromHalt0 = 1 << 6
	ResumeFromHalt1 = 1 << 22
)

// CT_MUX output event ADC select registers, relative to the mux base.
const (
	RegMuxIntrSel      = 0x10
	RegMuxOutputEvent1 = 0x30
	RegMuxOutputEvent2 = 0x34
)

// RegNames lists the named CT registers, in address order.
var RegNames = func() []RegName {
	names := []RegName{
		{RegGenCtrlSet, "GEN_CTRL_SET"},
		{RegGenCtrlReset, "GEN_CTRL_RESET"},
		{RegIntrSts, "INTR_STS"},
		{RegIntrMask, "INTR_MASK"},
		{RegIntrUnmask, "INTR_UNMASK"},
		{RegIntrAck, "INTR_ACK"},
		{RegMatch, "MATCH"},
		{RegMatchBuf, "MATCH_BUF"},
		{RegCapture, "CAPTURE"},
		{RegCounter, "COUNTER"},
		{RegOCUCtrl, "OCU_CTRL"},
		{RegOCUCompare, "OCU_COMPARE"},
		{RegOCUCompare2, "OCU_COMPARE2"},
		{RegOCUSync, "OCU_SYNC"},
		{RegOCUCompareNxt, "OCU_COMPARE_NXT"},
		{RegWFGCtrl, "WFG_CTRL"},
		{RegOCUCompare2Nxt, "OCU_COMPARE2_NXT"},
	}
	for b := range NumBlocks {
		names = append(names,
			RegName{b.SelReg(), b.String() + "_EVENT_SEL"},
			RegName{b.AndReg(), b.String() + "_AND_EVENT"},
			RegName{b.OrReg(), b.String() + "_OR_EVENT"},
		)
	}
	return append(names, RegName{RegEventEnable, "RE_FE_RFE_LEV0_LEV1_EVENT_ENABLE"})
}()

type RegName struct {
	Offset uint32
	Name   string
}
