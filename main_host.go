//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sparkwatch/app"
	"sparkwatch/hal"
	"sparkwatch/internal/buildinfo"
)

func main() {
	var hc hal.HeadlessConfig
	var configPath, logLevel, flashPath, syncAddr string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "YAML configuration file.")
	flag.BoolVar(&hc.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hc.Hz, "hz", 60, "Step rate in headless mode.")
	flag.Uint64Var(&hc.Ticks, "ticks", 0, "Stop after N steps in headless mode (0 = run forever).")
	flag.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error).")
	flag.StringVar(&flashPath, "flash", "", "Flash image path.")
	flag.StringVar(&syncAddr, "addr", "", "UDP address the phone link listens on.")
	flag.BoolVar(&showVersion, "version", false, "Print the build and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	fc := app.DefaultFileConfig()
	if configPath != "" {
		var err error
		if fc, err = app.LoadFileConfig(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			fc.Log.Level = logLevel
		case "flash":
			fc.Flash.Path = flashPath
		case "addr":
			fc.Sync.Addr = syncAddr
		}
	})

	hostCfg, err := fc.Host()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	appCfg, err := fc.App()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	newApp := func(h hal.HAL) hal.Runner { return app.New(h, appCfg) }

	if hc.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, hostCfg, newApp, hc); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(hostCfg, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
