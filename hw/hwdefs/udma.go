package hwdefs

// uDMA register offsets, from UDMABase.
const (
	UDMAStatus        = 0x00
	UDMACfg           = 0x04
	UDMACtrlBasePtr   = 0x08
	UDMAAltCtrlBase   = 0x0C
	UDMASwRequest     = 0x14
	UDMAReqMaskSet    = 0x20
	UDMAReqMaskClr    = 0x24
	UDMAEnableSet     = 0x28
	UDMAEnableClr     = 0x2C
	UDMAPriAltSet     = 0x30
	UDMAPriAltClr     = 0x34
	UDMAPrioritySet   = 0x38
	UDMAPriorityClr   = 0x3C
	UDMAErrClr        = 0x4C
	UDMAChnlDone      = 0x50
	UDMAChnlErr       = 0x54
	UDMAChannelStatus = 0x58
)

// uDMA channel control word, third word of a 16-byte descriptor.
const (
	UDMACycleStop     = 0
	UDMACycleBasic    = 1
	UDMACycleAuto     = 2
	UDMACyclePingPong = 3

	UDMANMinus1Shift = 4
	UDMARPowerShift  = 14
	UDMASrcSizeShift = 24
	UDMASrcIncShift  = 26
	UDMADstSizeShift = 28
	UDMADstIncShift  = 30

	UDMADescSize = 16
	UDMAAltOff   = 32 * UDMADescSize
)
