package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-tty"
	"golang.org/x/sync/errgroup"

	"sict/emu"
	"sict/emu/scope"
	"sict/emu/trace"
	"sict/hw/ct"
	"sict/sl/configtimer"
)

// attachTracer routes the activity of s to a JSON lines trace written to w
// and published to pub. Either may be nil.
func attachTracer(s *emu.Sim, w *outfile, pub trace.Publisher, reads bool) *trace.Tracer {
	var tr *trace.Tracer
	if w != nil {
		tr = trace.New(w, pub, s.SoC.Cycles, reads)
	} else {
		tr = trace.New(nil, pub, s.SoC.Cycles, reads)
	}
	s.SoC.Bus.SetObserver(tr)
	s.SoC.NVIC.SetObserver(tr)
	s.AddOutputObserver(tr)
	return tr
}

func runMain(args Run, cfg emu.Config) {
	s := emu.NewSim(cfg)
	if args.Trace != nil {
		defer args.Trace.Close()
		tr := attachTracer(s, args.Trace, nil, args.Reads)
		defer func() { checkf(tr.Err(), "trace failed") }()
	}

	rep, err := s.Periodic(args.PeriodUS, args.Periods)
	checkf(err, "periodic scenario failed")

	fmt.Printf("period %dus, match %d, %d interrupts\n", rep.PeriodUS, rep.Match, len(rep.Interrupts))
	prev := int64(0)
	for i, c := range rep.Interrupts {
		fmt.Printf("  #%-3d cycle %-10d +%d\n", i, c, c-prev)
		prev = c
	}
}

func pwmMain(args PWM, cfg emu.Config) {
	s := emu.NewSim(cfg)
	if args.Trace != nil {
		defer args.Trace.Close()
		tr := attachTracer(s, args.Trace, nil, false)
		defer func() { checkf(tr.Err(), "trace failed") }()
	}
	var sc *scope.Scope
	if args.WAV != "" {
		sc = scope.New(cfg.Clock.BaseHz, cfg.Scope.SampleRate)
		s.AddOutputObserver(sc)
	}

	rep, err := s.PWM(args.PeriodUS, args.Duty)
	checkf(err, "pwm scenario failed")

	fmt.Printf("period %dus, match %d\n", args.PeriodUS, rep.Match)
	for i, d := range rep.Duty {
		fmt.Printf("  period %-3d duty %3d%%  measured %6.2f%%\n", i, args.Duty[i], d)
	}

	if sc != nil {
		sc.Flush(s.SoC.Cycles())
		f, err := os.Create(args.WAV)
		checkf(err, "failed to create wav file")
		defer f.Close()
		checkf(scope.WriteWAV(f, cfg.Scope.SampleRate, sc.Samples()), "failed to write wav file")
		fmt.Printf("%d samples written to %s\n", len(sc.Samples())/2, args.WAV)
	}
}

func regsMain(args Regs, cfg emu.Config) {
	s := emu.NewSim(cfg)
	_, err := s.Periodic(args.PeriodUS, args.Periods)
	checkf(err, "periodic scenario failed")

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tREGISTER\tVALUE")
	for _, r := range s.Regs() {
		fmt.Fprintf(tw, "0x%02X\t%s\t0x%08X\n", r.Offset, r.Name, r.Value)
	}
	checkf(tw.Flush(), "failed to write registers")
}

func sweepMain(args Sweep, cfg emu.Config) {
	if args.Step == 0 || args.From > args.To {
		fatalf("invalid period range %d..%d step %d", args.From, args.To, args.Step)
	}
	var periods []uint32
	for us := args.From; us <= args.To; us += args.Step {
		periods = append(periods, us)
	}

	reps := make([]*emu.PeriodicReport, len(periods))
	var g errgroup.Group
	jobs := args.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)
	for i, us := range periods {
		g.Go(func() error {
			rep, err := emu.NewSim(cfg).Periodic(us, args.Periods)
			reps[i] = rep
			return err
		})
	}
	checkf(g.Wait(), "sweep failed")

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD(us)\tMATCH\tINTERRUPTS\tCYCLES/PERIOD\t")
	for _, rep := range reps {
		var per int64
		if n := len(rep.Interrupts); n > 1 {
			per = (rep.Interrupts[n-1] - rep.Interrupts[0]) / int64(n-1)
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n", rep.PeriodUS, rep.Match, len(rep.Interrupts), per)
	}
	checkf(tw.Flush(), "failed to write sweep results")
}

// interactiveMain maps keys 0 to 3 to input lines 0 to 3. Counter 0 starts
// on a rising edge of input 0, stops on input 1, captures on input 2 and
// halts on input 3. 'r' resumes a halted counter, 'q' quits.
func interactiveMain(args Interactive, cfg emu.Config) {
	s := emu.NewSim(cfg)
	d := s.CT

	match, err := d.GetMatchValue(args.PeriodUS)
	checkf(err, "invalid period")
	checkf(d.SetConfiguration(&configtimer.Config{
		Counter0: configtimer.CounterConfig{Periodic: true, Direction: configtimer.Up},
	}), "failed to configure timer")
	checkf(d.SetMatchCount(configtimer.Mode16Bit, configtimer.Counter0, match), "failed to set match count")
	for _, b := range []struct {
		action configtimer.Action
		event  configtimer.Event
	}{
		{configtimer.Start, configtimer.Event0RisingEdge},
		{configtimer.Stop, configtimer.Event1RisingEdge},
		{configtimer.Capture, configtimer.Event2RisingEdge},
		{configtimer.Halt, configtimer.Event3RisingEdge},
	} {
		checkf(d.SelectActionEvent(b.action, b.event, configtimer.NoEvent), "failed to select %v event", b.action)
	}
	peaks := 0
	checkf(d.Register(func(configtimer.Flag) { peaks++ }, &configtimer.InterruptFlags{Counter0HitPeak: true}),
		"failed to register callback")

	t, err := tty.Open()
	checkf(err, "failed to open terminal")
	defer t.Close()

	keys := make(chan rune)
	go func() {
		defer close(keys)
		for {
			r, err := t.ReadRune()
			if err != nil {
				return
			}
			keys <- r
		}
	}()

	fmt.Println("keys: 0-3 toggle input lines, r resume, q quit")
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case r, ok := <-keys:
			if !ok || r == 'q' {
				fmt.Println()
				return
			}
			switch {
			case r >= '0' && r < '0'+ct.NumInputs:
				n := int(r - '0')
				s.SoC.CT.SetInput(n, !s.SoC.CT.Input(n))
			case r == 'r':
				checkf(d.ResumeHaltEvent(configtimer.Counter0), "failed to resume")
			}
		case <-tick.C:
			s.SoC.RunFor(100_000)
			count, _ := d.GetCount(configtimer.Mode16Bit, configtimer.Counter0)
			capture, _ := d.ReadCapture(configtimer.Counter0)
			var lines [ct.NumInputs]byte
			for i := range lines {
				lines[i] = '_'
				if s.SoC.CT.Input(i) {
					lines[i] = '^'
				}
			}
			fmt.Printf("\rinputs %s  running %-5t halted %-5t  count %5d  capture %5d  peaks %d   ",
				lines[:], s.SoC.CT.Running(0), s.SoC.CT.Halted(0), count, capture, peaks)
		}
	}
}

// monitorMain repeatedly runs a periodic scenario, publishing its trace to
// websocket clients, until interrupted. Runs are paced so that clients can
// follow.
func monitorMain(args Monitor, cfg emu.Config) {
	addr := cfg.Monitor.Addr
	if args.Addr != "" {
		addr = args.Addr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mon := trace.NewMonitor(cfg.Monitor.Buffer)
	la, err := mon.Serve(ctx, addr)
	checkf(err, "failed to start monitor")
	fmt.Printf("monitor listening on ws://%s/ws\n", la)

	s := emu.NewSim(cfg)
	attachTracer(s, nil, mon, false)

	tick := time.NewTicker(time.Duration(args.PeriodUS) * time.Microsecond * 100)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\n%d events dropped\n", mon.Dropped())
			return
		case <-tick.C:
			_, err := s.Periodic(args.PeriodUS, 1)
			checkf(err, "periodic scenario failed")
		}
	}
}
