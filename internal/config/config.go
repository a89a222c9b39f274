package config

import (
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"codeberg.org/mutker/nvcolorful/internal/liquidctl"
	"codeberg.org/mutker/nvcolorful/internal/monitor"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName = "nvcolorful"

	// DefaultDeviceIndex selects the GPU to monitor.
	DefaultDeviceIndex = 0
	DefaultLogFile     = "/var/log/gpu_color_monitor.log"
	fallbackLogName    = "gpu_color_monitor.log"
)

// Config holds the tunables. They are compiled in; only the logging switches
// can be changed on the command line.
type Config struct {
	DeviceIndex     int           `mapstructure:"device_index"`
	Interval        time.Duration `mapstructure:"interval"`
	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
	Command         []string      `mapstructure:"command"`
	LogFile         string        `mapstructure:"log_file"`
	FallbackLogFile string        `mapstructure:"fallback_log_file"`
	Debug           bool          `mapstructure:"debug"`
}

// Liquidctl returns the controller driver settings.
func (c *Config) Liquidctl() liquidctl.Config {
	return liquidctl.Config{
		Command: append([]string(nil), c.Command...),
		Timeout: c.CommandTimeout,
	}
}

// Load assembles the configuration. args are the command line arguments
// without the program name. pflag.ErrHelp is returned unwrapped when help
// was requested.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	flags.Bool("debug", false, "Enable debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	if err := v.BindPFlags(flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device_index", DefaultDeviceIndex)
	v.SetDefault("interval", monitor.DefaultInterval)
	v.SetDefault("command_timeout", liquidctl.DefaultTimeout)
	v.SetDefault("command", liquidctl.DefaultCommand)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("fallback_log_file", fallbackLogFile())
}

// fallbackLogFile is used when DefaultLogFile is not writable.
func fallbackLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, fallbackLogName)
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.DeviceIndex < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "negative device index")
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	return c.Liquidctl().Validate()
}
