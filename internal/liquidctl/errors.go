package liquidctl

import (
	"fmt"

	"codeberg.org/mutker/nvcolorful/internal/errors"
)

const (
	ErrInvalidConfig = errors.ErrInvalidConfig

	// Command Errors
	ErrCommandFailed     = errors.ErrorCode("liquidctl_command_failed")
	ErrCommandTimeout    = errors.ErrorCode("liquidctl_command_timeout")
	ErrCommandInvocation = errors.ErrorCode("liquidctl_invocation_failed")
)

// CommandFailure is attached to ErrCommandFailed errors.
type CommandFailure struct {
	ExitCode int
	Stderr   string
}

func (f CommandFailure) String() string {
	if f.Stderr == "" {
		return "no stderr output"
	}
	return fmt.Sprintf("stderr %q", f.Stderr)
}
