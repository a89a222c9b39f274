package gpu

import (
	"codeberg.org/mutker/nvcolorful/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	// Initialization and Lifecycle Errors
	ErrLibraryUnavailable = errors.ErrorCode("gpu_library_unavailable")
	ErrNotInitialized     = errors.ErrorCode("gpu_not_initialized")
	ErrInitFailed         = errors.ErrorCode("gpu_init_failed")
	ErrDeviceNotFound     = errors.ErrorCode("gpu_device_not_found")
	ErrShutdownFailed     = errors.ErrorCode("gpu_shutdown_failed")

	// Telemetry Errors
	ErrUtilizationReadFailed = errors.ErrorCode("gpu_utilization_read_failed")
)

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
	msg string
}

func (e *nvmlError) Error() string {
	return e.msg
}

// Return exposes the raw NVML return code.
func (e *nvmlError) Return() nvml.Return {
	return e.ret
}

// IsNVMLSuccess checks if a Return value indicates success
func IsNVMLSuccess(ret nvml.Return) bool {
	return ret == nvml.SUCCESS
}
