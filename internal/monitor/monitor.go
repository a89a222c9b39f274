// Package monitor runs the sample, color and apply loop.
package monitor

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/nvcolorful/internal/color"
	"codeberg.org/mutker/nvcolorful/internal/errors"
	"codeberg.org/mutker/nvcolorful/internal/logger"
)

// DefaultInterval is the pause between iterations.
const DefaultInterval = 2 * time.Second

// Sampler reports instantaneous GPU utilization in percent.
type Sampler interface {
	Utilization() (float64, error)
}

// ColorSetter applies a hex color to the controller and reports success.
type ColorSetter interface {
	SetColor(ctx context.Context, hex string) bool
}

// Monitor keeps the controller color in step with GPU load. It is not safe
// for concurrent use.
type Monitor struct {
	sampler  Sampler
	setter   ColorSetter
	interval time.Duration

	// lastColor is the last color the controller confirmed; empty before the
	// first successful write.
	lastColor string
}

func New(sampler Sampler, setter ColorSetter, interval time.Duration) (*Monitor, error) {
	if interval <= 0 {
		return nil, errors.New().WithData(errors.ErrInvalidInterval, interval)
	}

	return &Monitor{
		sampler:  sampler,
		setter:   setter,
		interval: interval,
	}, nil
}

// LastColor returns the last successfully applied color.
func (m *Monitor) LastColor() string {
	return m.lastColor
}

// Run loops until ctx is cancelled. Errors from a single iteration are
// logged and the loop carries on after the usual interval.
func (m *Monitor) Run(ctx context.Context) error {
	errFactory := errors.New()
	logger.Info().Dur("interval", m.interval).Msg("Starting GPU color monitor loop")

	for {
		if ctx.Err() != nil {
			logger.Info().Msg("Received interrupt signal, shutting down")
			return nil
		}

		if err := m.Step(ctx); err != nil {
			logger.ErrorWithCode(errFactory.Wrap(errors.ErrMainLoop, err)).Msg("Error in main loop")
		}

		m.wait(ctx)
	}
}

// Step samples once and applies the resulting color if it changed.
func (m *Monitor) Step(ctx context.Context) (err error) {
	errFactory := errors.New()

	defer func() {
		if r := recover(); r != nil {
			err = errFactory.WithData(errors.ErrLoopPanic, fmt.Sprint(r))
		}
	}()

	usage, err := m.sampler.Utilization()
	if err != nil {
		return errFactory.Wrap(errors.ErrSampleUsage, err)
	}

	hex := color.Interpolate(usage)
	if hex == m.lastColor {
		logger.Debug().Float64("usage", usage).Str("color", hex).Msg("Color unchanged")
		return nil
	}

	logger.Info().
		Float64("usage", usage).
		Str("color", hex).
		Msgf("GPU usage: %.1f%% - Setting color to %s", usage, hex)

	if !m.setter.SetColor(ctx, hex) {
		logger.Warn().Str("color", hex).Msg("Failed to set color, will retry on next iteration")
		return nil
	}

	m.lastColor = hex

	return nil
}

func (m *Monitor) wait(ctx context.Context) {
	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
