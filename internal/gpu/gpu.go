// Package gpu samples utilization of a single NVIDIA GPU through NVML.
package gpu

import (
	"sync"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"codeberg.org/mutker/nvcolorful/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GPU holds the NVML handle for one device.
type GPU struct {
	nvml   *nvmlWrapper
	device nvml.Device
	index  int
	name   string
	mu     sync.Mutex
}

// New initializes NVML and acquires the device at index.
func New(index int) (*GPU, error) {
	return newWithLibrary(nvmlLibrary{}, index)
}

func newWithLibrary(lib library, index int) (*GPU, error) {
	w := &nvmlWrapper{lib: lib}
	if err := w.Initialize(); err != nil {
		return nil, err
	}

	device, err := w.GetDevice(index)
	if err != nil {
		if shutdownErr := w.Shutdown(); shutdownErr != nil {
			logger.Debug().Err(shutdownErr).Msg("Failed to shut down NVML after device lookup failure")
		}
		return nil, err
	}

	g := &GPU{
		nvml:   w,
		device: device,
		index:  index,
	}

	if name, ret := device.GetName(); IsNVMLSuccess(ret) {
		g.name = name
		logger.Info().Int("index", index).Str("name", name).Msgf("Monitoring GPU #%d", index)
	} else {
		logger.Warn().Int("index", index).Msgf("Failed to get GPU name: %v", w.newNVMLError(ret))
	}

	return g, nil
}

// Index returns the NVML device index.
func (g *GPU) Index() int {
	return g.index
}

// Name returns the detected product name, or an empty string.
func (g *GPU) Name() string {
	return g.name
}

// Utilization returns the percentage of time the GPU was busy during the
// driver's last sample period.
func (g *GPU) Utilization() (float64, error) {
	errFactory := errors.New()
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.nvml.initialized {
		return 0, errFactory.New(ErrNotInitialized)
	}

	rates, ret := g.device.GetUtilizationRates()
	if !IsNVMLSuccess(ret) {
		err := errFactory.Wrap(ErrUtilizationReadFailed, g.nvml.newNVMLError(ret))
		logger.ErrorWithCode(err).Msg("Error getting GPU usage")
		return 0, err
	}

	return float64(rates.Gpu), nil
}

// Shutdown releases NVML. Calling it more than once is a no-op.
func (g *GPU) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.nvml.Shutdown()
}
