package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	c "lautenbacher.net/lovebox/config"
	"lautenbacher.net/lovebox/logging"
	"lautenbacher.net/lovebox/metrics"
	p "lautenbacher.net/lovebox/platform"
)

var (
	configPath string
	realHW     bool

	rootCmd = &cobra.Command{
		Use:          "lovebox",
		Short:        "Show remote messages on the Lovebox and keep its heart upright",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(configPath, realHW)
		},
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.Flags().StringVarP(&configPath, "config", "c", c.CONFILE, "Path to the configuration file")
	rootCmd.Flags().BoolVar(&realHW, "real", false, "Set to true if program runs on the real hardware")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, c.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfile string, realhw bool) error {
	conf, err := c.Load(cfile, realhw)
	if err != nil {
		// logging is not configured yet, the default logger writes to stderr
		slog.Error("Can't load configuration", "path", cfile, "error", err)
		return err
	}

	logging.Init(!conf.RealHW, conf.Log())
	defer logging.Close()

	ossignal := make(chan os.Signal, 2)
	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(ossignal)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Watch(ctx, cfile, func() { requestReload(ossignal) }); err != nil {
		slog.Warn("Config file changes will not be picked up", "error", err)
	}

	dev := newDevice(conf, newPlatform(conf, ossignal))
	if err := dev.Start(); err != nil {
		dev.Stop()
		return fmt.Errorf("starting lovebox: %w", err)
	}

	for sig := range ossignal {
		if sig != syscall.SIGHUP {
			slog.Info("Shutting down", "signal", sig.String())
			dev.Stop()
			return nil
		}

		next, err := c.Load(cfile, realhw)
		if err != nil {
			slog.Error("Reload rejected, keeping the running configuration", "error", err)
			continue
		}
		slog.Info("Reloading configuration", "settings", next.Settings().String())
		metrics.Reloads.Inc()
		if !next.RealHW {
			// the old TUI is going away, keep its log lines for the new one
			logging.BufferOutput()
		}
		dev.Stop()

		dev = newDevice(next, newPlatform(next, ossignal))
		if err := dev.Start(); err != nil {
			dev.Stop()
			return fmt.Errorf("restarting lovebox: %w", err)
		}
	}
	return nil
}

// requestReload never blocks; a pending SIGHUP already covers it.
func requestReload(ossignal chan os.Signal) {
	select {
	case ossignal <- syscall.SIGHUP:
	default:
	}
}

func newPlatform(conf *c.Config, ossignal chan os.Signal) p.Platform {
	if conf.RealHW {
		return p.NewRaspberryPiPlatform(conf)
	}
	return p.NewTUIPlatform(conf, ossignal)
}

// Local Variables:
// compile-command: "go build"
// End:
