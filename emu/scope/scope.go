// Package scope renders the CT output pins into band-limited PCM audio, as
// a two-channel AC-coupled oscilloscope probe would see them: output 0 on
// the left channel, output 1 on the right. The blip buffers high-pass the
// signal, so a steady level decays to 0.
package scope

import (
	"github.com/arl/blip"

	"sict/emu/log"
)

// Amplitude of a high output, a low output being 0.
const Amplitude = 8192

// frames per second of simulated time. The blip buffers hold one frame.
const frameRate = 100

type Scope struct {
	bufs  [2]*blip.Buffer
	level [2]int32

	frameStart  int64 // cycle at which the current frame started
	frameCycles int64

	tmp     []int16
	samples []int16 // interleaved left/right
}

// New returns a scope sampling at sampleRate a signal clocked at clockHz.
func New(clockHz, sampleRate uint32) *Scope {
	perFrame := int(sampleRate/frameRate) + 1
	s := &Scope{
		frameCycles: int64(clockHz / frameRate),
		tmp:         make([]int16, 2*perFrame),
	}
	for i := range s.bufs {
		s.bufs[i] = blip.NewBuffer(perFrame)
		s.bufs[i].SetRates(float64(clockHz), float64(sampleRate))
	}
	log.ModScope.DebugZ("new scope").
		Uint("clock", uint64(clockHz)).
		Uint("rate", uint64(sampleRate)).
		End()
	return s
}

// advance ends every frame that completed before cycle.
func (s *Scope) advance(cycle int64) {
	for cycle-s.frameStart >= s.frameCycles {
		s.endFrame(s.frameCycles)
	}
}

func (s *Scope) endFrame(cycles int64) {
	for _, b := range s.bufs {
		b.EndFrame(int(cycles))
	}
	n := s.bufs[0].ReadSamples(s.tmp, len(s.tmp)/2, blip.Stereo)
	s.bufs[1].ReadSamples(s.tmp[1:], len(s.tmp)/2, blip.Stereo)
	s.samples = append(s.samples, s.tmp[:2*n]...)
	s.frameStart += cycles
}

// OutputChanged records an edge on an output pin. Edges must come in cycle
// order.
func (s *Scope) OutputChanged(pin int, level bool, cycle int64) {
	if pin < 0 || pin >= len(s.bufs) {
		return
	}
	if cycle < s.frameStart {
		log.ModScope.WarnZ("edge in the past").Int64("cycle", cycle).Int64("frame", s.frameStart).End()
		return
	}
	s.advance(cycle)

	var v int32
	if level {
		v = Amplitude
	}
	if delta := v - s.level[pin]; delta != 0 {
		s.bufs[pin].AddDelta(uint64(cycle-s.frameStart), delta)
		s.level[pin] = v
	}
}

// Flush renders the signal up to cycle.
func (s *Scope) Flush(cycle int64) {
	s.advance(cycle)
	if rem := cycle - s.frameStart; rem > 0 {
		s.endFrame(rem)
	}
}

// Samples returns the interleaved stereo samples rendered so far.
func (s *Scope) Samples() []int16 { return s.samples }

// Reset drops the rendered samples and restarts at cycle 0.
func (s *Scope) Reset() {
	for _, b := range s.bufs {
		b.Clear()
	}
	s.level = [2]int32{}
	s.frameStart = 0
	s.samples = s.samples[:0]
}
