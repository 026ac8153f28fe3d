// Package status holds the subset of the chip-wide status codes returned by
// the timer and DMA drivers.
package status

import "github.com/go-faster/errors"

//go:generate go tool stringer -type=Status

// Status is a driver status code. Every non-OK code is an error; drivers
// return a nil error for OK.
type Status uint32

const (
	OK                           Status = 0x0000
	Fail                         Status = 0x0001
	Busy                         Status = 0x0004
	Idle                         Status = 0x000A
	NotInitialized               Status = 0x0011
	Empty                        Status = 0x001B
	InvalidParameter             Status = 0x0021
	NullPointer                  Status = 0x0022
	InvalidMode                  Status = 0x0024
	InvalidCount                 Status = 0x002B
	DMAChannelAllocated          Status = 0x0045
	DMANoChannelAvailable        Status = 0x0046
	DMAChannelAlreadyUnallocated Status = 0x0047
	DMAChannelUnallocated        Status = 0x0048
)

func (s Status) Error() string {
	return "status " + s.String()
}

// Err returns nil for OK, s otherwise.
func (s Status) Err() error {
	if s == OK {
		return nil
	}
	return s
}

// Of returns the status code carried by err: OK for a nil error, Fail if err
// does not wrap a Status.
func Of(err error) Status {
	if err == nil {
		return OK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return Fail
}
