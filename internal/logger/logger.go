package logger

import (
	"io"
	"os"
	"syscall"
	"time"

	"codeberg.org/mutker/nvcolorful/internal/errors"
	"github.com/rs/zerolog"
)

const logFilePerm = 0o644

var (
	log     = zerolog.Nop()
	logFile *os.File
)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

// Options controls where and how verbosely the logger writes.
type Options struct {
	Debug        bool
	IsService    bool
	FilePath     string
	FallbackPath string
}

// Init sets up console and file logging. The returned path is the log file
// actually in use, empty when no file could be opened.
func Init(opts Options) (string, error) {
	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if opts.IsService {
		console.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	writers := []io.Writer{console}

	file, path, err := openLogFile(opts.FilePath, opts.FallbackPath)
	if err == nil {
		logFile = file
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		})
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	SetLogLevel(InfoLevel)
	if opts.Debug {
		SetLogLevel(DebugLevel)
	}

	return path, err
}

// openLogFile opens primary for appending, falling back to fallback when the
// primary location is not writable.
func openLogFile(primary, fallback string) (*os.File, string, error) {
	errFactory := errors.New()

	var firstErr error
	for _, path := range []string{primary, fallback} {
		if path == "" {
			continue
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
		if err == nil {
			return file, path, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		return nil, "", errFactory.WithData(errors.ErrOpenLogFile, "no log file path configured")
	}

	return nil, "", errFactory.Wrap(errors.ErrOpenLogFile, firstErr)
}

// Close releases the log file, if any.
func Close() error {
	if logFile == nil {
		return nil
	}

	err := logFile.Close()
	logFile = nil

	return err
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message carrying the error's code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Err(err)}
}
