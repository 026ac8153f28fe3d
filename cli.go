package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"sict/emu/log"
)

type mode byte

const (
	runMode         mode = iota // Periodic interrupt scenario
	pwmMode                     // DMA driven PWM ramp
	regsMode                    // Dump CT registers
	sweepMode                   // Parallel periodic runs
	interactiveMode             // Keyboard driven input events
	monitorMode                 // Websocket live trace
	versionMode                 // Show sict version
)

type (
	CLI struct {
		Run         Run         `cmd:"" help:"Run a periodic interrupt scenario. (default command)" default:"withargs"`
		PWM         PWM         `cmd:"" help:"Ramp the duty cycle of output 0, streaming compare values by DMA." name:"pwm"`
		Regs        Regs        `cmd:"" help:"Run a periodic scenario and dump the CT registers."`
		Sweep       Sweep       `cmd:"" help:"Run periodic scenarios over a range of periods, in parallel."`
		Interactive Interactive `cmd:"" help:"Drive the CT input events from the keyboard."`
		Monitor     Monitor     `cmd:"" help:"Serve a live trace of a periodic scenario over websocket."`
		Version     Version     `cmd:"" help:"Show sict version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"Configuration file, instead of the one in the user config directory." type:"existingfile" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		PeriodUS uint32   `name:"period" help:"Interrupt period, in microseconds." default:"1000"`
		Periods  int      `name:"periods" help:"Number of periods to run." default:"10"`
		Trace    *outfile `name:"trace" help:"Write a JSON lines trace." placeholder:"FILE|stdout|stderr"`
		Reads    bool     `name:"trace-reads" help:"Also trace bus reads."`
	}

	PWM struct {
		PeriodUS uint32   `name:"period" help:"PWM period, in microseconds." default:"100"`
		Duty     []uint8  `name:"duty" help:"Duty cycles, in percent, one per period." default:"10,25,50,75,90"`
		WAV      string   `name:"wav" help:"Render both outputs to a WAV file." type:"path" placeholder:"FILE"`
		Trace    *outfile `name:"trace" help:"Write a JSON lines trace." placeholder:"FILE|stdout|stderr"`
	}

	Regs struct {
		PeriodUS uint32 `name:"period" help:"Interrupt period, in microseconds." default:"1000"`
		Periods  int    `name:"periods" help:"Number of periods to run before the dump." default:"1"`
	}

	Sweep struct {
		From    uint32 `name:"from" help:"First period, in microseconds." default:"100"`
		To      uint32 `name:"to" help:"Last period, in microseconds." default:"4000"`
		Step    uint32 `name:"step" help:"Period increment, in microseconds." default:"100"`
		Periods int    `name:"periods" help:"Number of periods per run." default:"5"`
		Jobs    int    `name:"jobs" help:"Maximum number of simulations running at once (0 means one per CPU)." default:"0"`
	}

	Interactive struct {
		PeriodUS uint32 `name:"period" help:"Counter 0 period, in microseconds." default:"1000"`
	}

	Monitor struct {
		Addr     string `name:"addr" help:"Listen address, overrides the configuration." placeholder:"HOST:PORT"`
		PeriodUS uint32 `name:"period" help:"Interrupt period, in microseconds." default:"1000"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help": "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("sict"),
		kong.Description("Si91x Configurable Timer driver, on a simulated SoC."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "pwm":
		cfg.mode = pwmMode
	case "regs":
		cfg.mode = regsMode
	case "sweep":
		cfg.mode = sweepMode
	case "interactive":
		cfg.mode = interactiveMode
	case "monitor":
		cfg.mode = monitorMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
