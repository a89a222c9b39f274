package errors

// Common error codes
const (
	// System errors
	ErrInternal ErrorCode = "internal_error"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrParseFlags      ErrorCode = "parse_flags_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrOpenLogFile ErrorCode = "open_log_file_failed"

	// Lifecycle errors
	ErrAlreadyRunning ErrorCode = "already_running"

	// Application errors
	ErrMainLoop    ErrorCode = "main_loop_failed"
	ErrLoopPanic   ErrorCode = "main_loop_panic"
	ErrSampleUsage ErrorCode = "sample_usage_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidConfig:   "Invalid configuration",
	ErrParseFlags:      "Failed to parse flags",
	ErrBindFlags:       "Failed to bind flags",
	ErrInvalidInterval: "Invalid interval value",
	ErrOpenLogFile:     "Failed to open log file",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrMainLoop:        "Error in main loop",
	ErrLoopPanic:       "Recovered from panic in main loop",
	ErrSampleUsage:     "Failed to sample GPU usage",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
