// Command nvcolorful colors liquidctl-managed RGB fans by NVIDIA GPU load:
// dark blue when idle, dark red when fully busy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/nvcolorful/internal/config"
	"codeberg.org/mutker/nvcolorful/internal/errors"
	"codeberg.org/mutker/nvcolorful/internal/gpu"
	"codeberg.org/mutker/nvcolorful/internal/liquidctl"
	"codeberg.org/mutker/nvcolorful/internal/logger"
	"codeberg.org/mutker/nvcolorful/internal/monitor"
	"codeberg.org/mutker/nvcolorful/internal/pid"
	"github.com/spf13/pflag"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitFailure
	}

	logPath, err := logger.Init(logger.Options{
		Debug:        cfg.Debug,
		IsService:    logger.IsService(),
		FilePath:     cfg.LogFile,
		FallbackPath: cfg.FallbackLogFile,
	})
	defer logger.Close()
	if err != nil {
		logger.Warn().Err(err).Msg("Logging to console only")
	} else {
		logger.Debug().Str("path", logPath).Msg("Log file opened")
	}

	logger.Info().Msg("Starting GPU color monitor")

	return start(cfg, openGPU)
}

// telemetry is the GPU handle the loop samples from.
type telemetry interface {
	monitor.Sampler
	Shutdown() error
}

func openGPU(index int) (telemetry, error) {
	device, err := gpu.New(index)
	if err != nil {
		return nil, err
	}
	return device, nil
}

func start(cfg *config.Config, open func(int) (telemetry, error)) int {
	if err := pid.Write(); err != nil {
		logger.Error().Err(err).Str("pid_file", pid.Path()).Msg("Failed to acquire PID file")
		return exitFailure
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Debug().Err(err).Msg("Failed to remove PID file")
		}
	}()

	device, err := open(cfg.DeviceIndex)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize NVML")
		return exitFailure
	}
	defer shutdownGPU(device)

	driver, err := liquidctl.New(cfg.Liquidctl())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to configure liquidctl")
		return exitFailure
	}

	mon, err := monitor.New(device, driver, cfg.Interval)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create monitor")
		return exitFailure
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go handleSignals(ctx, sigs, cancel)

	if err := mon.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Error in main loop")
	}

	return exitOK
}

func handleSignals(ctx context.Context, sigs <-chan os.Signal, cancel context.CancelFunc) {
	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
		cancel()
	case <-ctx.Done():
	}
}

func shutdownGPU(device telemetry) {
	if err := device.Shutdown(); err != nil {
		logger.Debug().Err(err).Msg("Error shutting down NVML")
	}
	logger.Info().Msg("GPU color monitor stopped")
}
