package gpu

import (
	"codeberg.org/mutker/nvcolorful/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// library abstracts the NVML entry points used here so tests can swap them.
type library interface {
	Init() nvml.Return
	Shutdown() nvml.Return
	DeviceGetHandleByIndex(index int) (nvml.Device, nvml.Return)
	ErrorString(ret nvml.Return) string
}

// nvmlLibrary forwards to the process-wide NVML bindings.
type nvmlLibrary struct{}

func (nvmlLibrary) Init() nvml.Return {
	return nvml.Init()
}

func (nvmlLibrary) Shutdown() nvml.Return {
	return nvml.Shutdown()
}

func (nvmlLibrary) DeviceGetHandleByIndex(index int) (nvml.Device, nvml.Return) {
	return nvml.DeviceGetHandleByIndex(index)
}

func (nvmlLibrary) ErrorString(ret nvml.Return) string {
	return nvml.ErrorString(ret)
}

type nvmlWrapper struct {
	lib         library
	initialized bool
}

// newNVMLError creates an error from an NVML return code
func (w *nvmlWrapper) newNVMLError(ret nvml.Return) error {
	if IsNVMLSuccess(ret) {
		return nil
	}
	return &nvmlError{ret: ret, msg: w.lib.ErrorString(ret)}
}

func (w *nvmlWrapper) Initialize() error {
	errFactory := errors.New()
	if w.initialized {
		return nil
	}

	ret := w.lib.Init()
	switch {
	case ret == nvml.ERROR_LIBRARY_NOT_FOUND:
		return errFactory.Wrap(ErrLibraryUnavailable, w.newNVMLError(ret))
	case !IsNVMLSuccess(ret):
		return errFactory.Wrap(ErrInitFailed, w.newNVMLError(ret))
	}

	w.initialized = true

	return nil
}

func (w *nvmlWrapper) Shutdown() error {
	errFactory := errors.New()
	if !w.initialized {
		return nil
	}

	// Released even if NVML reports a failure.
	w.initialized = false

	if ret := w.lib.Shutdown(); !IsNVMLSuccess(ret) {
		return errFactory.Wrap(ErrShutdownFailed, w.newNVMLError(ret))
	}

	return nil
}

func (w *nvmlWrapper) GetDevice(index int) (nvml.Device, error) {
	errFactory := errors.New()
	if !w.initialized {
		return nil, errFactory.New(ErrNotInitialized)
	}

	device, ret := w.lib.DeviceGetHandleByIndex(index)
	if !IsNVMLSuccess(ret) {
		return nil, errFactory.Wrap(ErrDeviceNotFound, w.newNVMLError(ret)).WithData(index)
	}

	return device, nil
}
