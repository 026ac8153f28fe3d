package main

import (
	"fmt"
	"os"

	"sict/emu"
	"sict/emu/log"
)

const version = "0.0.1"

func main() {
	cli := parseArgs(os.Args[1:])

	cfg := emu.LoadConfigOrDefault()
	if cli.Config != "" {
		var err error
		cfg, err = emu.LoadConfigFile(cli.Config)
		checkf(err, "failed to load configuration")
	}
	log.ModEmu.DebugZ("config").
		Uint("base_hz", uint64(cfg.Clock.BaseHz)).
		Bool("uc", cfg.UC.Enabled).
		End()

	switch cli.mode {
	case runMode:
		runMain(cli.Run, cfg)
	case pwmMode:
		pwmMain(cli.PWM, cfg)
	case regsMode:
		regsMain(cli.Regs, cfg)
	case sweepMode:
		sweepMain(cli.Sweep, cfg)
	case interactiveMode:
		interactiveMain(cli.Interactive, cfg)
	case monitorMode:
		monitorMain(cli.Monitor, cfg)
	case versionMode:
		fmt.Println("sict", version)
	}
}
