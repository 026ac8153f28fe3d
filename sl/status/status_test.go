package status

import (
	"testing"

	"github.com/go-faster/errors"
)

func TestString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{OK, "OK"},
		{Busy, "Busy"},
		{InvalidParameter, "InvalidParameter"},
		{NullPointer, "NullPointer"},
		{DMAChannelAlreadyUnallocated, "DMAChannelAlreadyUnallocated"},
		{DMAChannelUnallocated, "DMAChannelUnallocated"},
		{Status(0x99), "Status(153)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%#x).String() = %q, want %q", uint32(tt.s), got, tt.want)
		}
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, OK},
		{"bare", InvalidMode, InvalidMode},
		{"wrapped", errors.Wrap(Busy, "register callback"), Busy},
		{"nested", errors.Wrapf(errors.Wrap(DMAChannelAllocated, "allocate"), "channel %d", 8), DMAChannelAllocated},
		{"plain", errors.New("boom"), Fail},
		{"wrapped plain", errors.Wrap(errors.New("boom"), "start"), Fail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.err); got != tt.want {
				t.Errorf("Of(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	if !errors.Is(errors.Wrap(Busy, "register callback"), Busy) {
		t.Errorf("errors.Is(wrapped, Busy) = false")
	}
}

func TestErr(t *testing.T) {
	if err := OK.Err(); err != nil {
		t.Errorf("OK.Err() = %v, want nil", err)
	}
	if err := Empty.Err(); err != Empty {
		t.Errorf("Empty.Err() = %v, want Empty", err)
	}
	if got := NullPointer.Error(); got != "status NullPointer" {
		t.Errorf("NullPointer.Error() = %q", got)
	}
}
