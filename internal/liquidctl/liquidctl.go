// Package liquidctl sets the fan controller color by running liquidctl.
package liquidctl

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"codeberg.org/mutker/nvcolorful/internal/logger"
)

const (
	DefaultTimeout = 5 * time.Second

	// waitDelay bounds how long Wait blocks on output pipes held open by
	// grandchildren after the command itself has been killed.
	waitDelay = time.Second
)

// DefaultCommand runs liquidctl with elevated privileges.
var DefaultCommand = []string{"sudo", "liquidctl"}

type Config struct {
	// Command is the program and leading arguments; the color subcommand is
	// appended to it.
	Command []string
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Command: append([]string(nil), DefaultCommand...),
		Timeout: DefaultTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if len(c.Command) == 0 || c.Command[0] == "" {
		return errFactory.WithData(ErrInvalidConfig, "empty liquidctl command")
	}
	if c.Timeout <= 0 {
		return errFactory.WithData(ErrInvalidConfig, "non-positive liquidctl timeout")
	}
	return nil
}

// Driver applies colors to every device liquidctl manages, in sync.
type Driver struct {
	cfg Config
}

func New(cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Driver{cfg: cfg}, nil
}

// Args returns the full argument vector used to set hex.
func (d *Driver) Args(hex string) []string {
	args := make([]string, 0, len(d.cfg.Command)+5)
	args = append(args, d.cfg.Command...)
	return append(args, "set", "sync", "color", "fixed", hex)
}

// SetColor applies hex and reports whether the controller accepted it.
// Failures are logged, never returned.
func (d *Driver) SetColor(ctx context.Context, hex string) bool {
	if err := d.run(ctx, hex); err != nil {
		logger.ErrorWithCode(err).Str("color", hex).Msg("Error setting liquidctl color")
		return false
	}

	logger.Debug().Str("color", hex).Msg("Successfully set color")

	return true
}

func (d *Driver) run(ctx context.Context, hex string) errors.Error {
	errFactory := errors.New()

	// An in-flight write is not cut short by the caller's cancellation; the
	// timeout alone bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.Timeout)
	defer cancel()

	args := d.Args(hex)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errFactory.Wrap(ErrCommandTimeout, err).
			WithMessage("liquidctl command timed out").
			WithData(d.cfg.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errFactory.Wrap(ErrCommandFailed, err).
			WithMessage("liquidctl failed").
			WithData(CommandFailure{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			})
	}

	return errFactory.Wrap(ErrCommandInvocation, err).WithMessage("could not run liquidctl")
}
