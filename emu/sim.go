package emu

import (
	"github.com/go-faster/errors"

	"sict/emu/log"
	"sict/hw"
	"sict/hw/ct"
	"sict/hw/hwdefs"
	"sict/sl/configtimer"
	"sict/sl/status"
)

// Sim is a simulated SoC with the timer driver bound to it.
type Sim struct {
	SoC *hw.SoC
	CT  *configtimer.Driver

	cfg  Config
	outs Outputs
}

func NewSim(cfg Config) *Sim {
	soc := hw.NewSoC()
	s := &Sim{
		SoC: soc,
		CT:  configtimer.New(soc, cfg.TimerOptions()),
		cfg: cfg,
	}
	soc.CT.SetObserver(&s.outs)
	s.CT.Init()
	return s
}

// AddOutputObserver adds an observer of the CT output pin edges.
func (s *Sim) AddOutputObserver(obs ct.OutputObserver) {
	s.outs = append(s.outs, obs)
}

// Outputs fans out output pin edges to several observers.
type Outputs []ct.OutputObserver

func (o *Outputs) OutputChanged(pin int, level bool, cycle int64) {
	for _, obs := range *o {
		obs.OutputChanged(pin, level, cycle)
	}
}

// PeriodicReport is the outcome of a periodic interrupt run.
type PeriodicReport struct {
	PeriodUS   uint32
	Match      uint32
	Interrupts []int64 // cycles at which the peak callback ran
}

// Periodic programs counter 0 for a periodic peak interrupt every us
// microseconds, and runs it for the given number of periods.
func (s *Sim) Periodic(us uint32, periods int) (*PeriodicReport, error) {
	match, err := s.CT.GetMatchValue(us)
	if err != nil {
		return nil, errors.Wrapf(err, "period %dus", us)
	}
	rep := &PeriodicReport{PeriodUS: us, Match: match}

	cfg := &configtimer.Config{
		Counter0: configtimer.CounterConfig{Periodic: true, Direction: configtimer.Up},
	}
	if err := s.CT.SetConfiguration(cfg); err != nil {
		return nil, errors.Wrap(err, "set configuration")
	}
	if err := s.CT.SetMatchCount(configtimer.Mode16Bit, configtimer.Counter0, match); err != nil {
		return nil, errors.Wrap(err, "set match count")
	}
	if err := s.CT.SetInitialCount(configtimer.Mode16Bit, 0, 0); err != nil {
		return nil, errors.Wrap(err, "set initial count")
	}
	cb := func(f configtimer.Flag) {
		if f == configtimer.FlagCounter0Peak {
			rep.Interrupts = append(rep.Interrupts, s.SoC.Cycles())
		}
	}
	if err := s.CT.Register(cb, &configtimer.InterruptFlags{Counter0HitPeak: true}); err != nil {
		return nil, errors.Wrap(err, "register callback")
	}
	defer s.CT.Unregister(&configtimer.AllInterrupts)

	if err := s.CT.StartOnSoftwareTrigger(configtimer.Counter0); err != nil {
		return nil, errors.Wrap(err, "start")
	}
	s.SoC.Run(int64(match+1) * int64(periods))

	log.ModEmu.InfoZ("periodic run done").
		Uint("us", uint64(us)).
		Uint("match", uint64(match)).
		Int("interrupts", len(rep.Interrupts)).
		End()
	return rep, nil
}

// PWMReport is the outcome of a PWM duty ramp.
type PWMReport struct {
	Match uint32
	// Measured duty cycle of each period, in percent, one per requested duty.
	Duty []float64
}

// PWM drives output 0 with a period of us microseconds, and a duty cycle
// following duties, in percent. The compare values after the first are
// streamed by DMA into OCU_COMPARE_NXT, one per period.
func (s *Sim) PWM(us uint32, duties []uint8) (*PWMReport, error) {
	if len(duties) == 0 {
		return nil, errors.New("no duty cycle")
	}
	match, err := s.CT.GetMatchValue(us)
	if err != nil {
		return nil, errors.Wrapf(err, "period %dus", us)
	}
	period := match + 1
	compares := make([]uint32, len(duties))
	for i, d := range duties {
		if d > 100 {
			return nil, errors.Errorf("duty cycle %d%% out of range", d)
		}
		compares[i] = period * uint32(d) / 100
	}

	cfg := &configtimer.Config{
		Counter0: configtimer.CounterConfig{Periodic: true, Direction: configtimer.Up},
	}
	if err := s.CT.SetConfiguration(cfg); err != nil {
		return nil, errors.Wrap(err, "set configuration")
	}
	if err := s.CT.SetMatchCount(configtimer.Mode16Bit, configtimer.Counter0, match); err != nil {
		return nil, errors.Wrap(err, "set match count")
	}
	if err := s.CT.SetInitialCount(configtimer.Mode16Bit, 0, 0); err != nil {
		return nil, errors.Wrap(err, "set initial count")
	}
	ocu := &configtimer.OCUConfig{
		Counter0: configtimer.OCUCounterConfig{Output: true, ToggleHigh: true, ToggleLow: true},
	}
	if err := s.CT.SetOCUConfiguration(ocu); err != nil {
		return nil, errors.Wrap(err, "set ocu configuration")
	}

	// The output only goes high on the first peak: the first period is
	// not measured and runs with the first duty cycle.
	first := uint16(compares[0])
	params := &configtimer.OCUParams{CompareVal1_0: first, CompareNextVal1_0: first}
	if err := s.CT.SetOCUControl(&configtimer.OCUControl{Counter: configtimer.Counter0, Params: params}); err != nil {
		return nil, errors.Wrap(err, "set ocu control")
	}

	stream := configtimer.NewCompareValueStream(compares[1:])
	if err := s.CT.SetDMAConfiguration(stream, configtimer.DMAChannel0); err != nil {
		return nil, errors.Wrap(err, "set dma configuration")
	}
	defer s.CT.DMADeinit(configtimer.DMAChannel0)

	var dmaErr error
	cb := func(f configtimer.Flag) {
		switch f {
		case configtimer.FlagCounter0Peak:
			err := s.CT.DMATransfer(configtimer.DMAChannel0)
			if err != nil && status.Of(err) != status.Empty && dmaErr == nil {
				dmaErr = err
			}
		case configtimer.FlagDMAError | configtimer.DMAChannel0:
			dmaErr = errors.New("dma transfer error")
		}
	}
	if err := s.CT.Register(cb, &configtimer.InterruptFlags{Counter0HitPeak: true}); err != nil {
		return nil, errors.Wrap(err, "register callback")
	}
	defer s.CT.Unregister(&configtimer.AllInterrupts)

	if err := s.CT.StartOnSoftwareTrigger(configtimer.Counter0); err != nil {
		return nil, errors.Wrap(err, "start")
	}

	high := make([]uint32, len(duties)+1)
	for range int64(period) * int64(len(duties)+1) {
		s.SoC.Run(1)
		if s.SoC.CT.Output(0) {
			if p := s.SoC.Cycles() / int64(period); p < int64(len(high)) {
				high[p]++
			}
		}
	}
	if dmaErr != nil {
		return nil, errors.Wrap(dmaErr, "pwm")
	}

	rep := &PWMReport{Match: match}
	for _, h := range high[1:] {
		rep.Duty = append(rep.Duty, 100*float64(h)/float64(period))
	}
	return rep, nil
}

// Regs returns the current value of every named CT register.
func (s *Sim) Regs() []Reg {
	regs := make([]Reg, 0, len(ct.RegNames))
	for _, r := range ct.RegNames {
		regs = append(regs, Reg{
			Name:   r.Name,
			Offset: r.Offset,
			Value:  s.SoC.Bus.Peek32(hwdefs.CTBase + r.Offset),
		})
	}
	return regs
}

type Reg struct {
	Name   string
	Offset uint32
	Value  uint32
}
