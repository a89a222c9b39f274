// Package pid keeps a single monitor instance in charge of the controller.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/nvcolorful/internal/errors"
)

const (
	pidFile     = "nvcolorful.pid"
	pidFilePerm = 0o600
)

// Path returns the location of the PID file.
func Path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write records the current process ID. It fails with errors.ErrAlreadyRunning
// if the file names a process that is still alive. Stale or unreadable files
// are replaced.
func Write() error {
	errFactory := errors.New()
	path := Path()

	if running, pid := ownerAlive(path); running {
		return errFactory.WithData(errors.ErrAlreadyRunning, pid)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), pidFilePerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the PID file if it belongs to this process.
func Remove() error {
	errFactory := errors.New()
	path := Path()

	pid, err := readPID(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err == nil && pid != os.Getpid() {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func ownerAlive(path string) (bool, int) {
	pid, err := readPID(path)
	if err != nil || pid <= 0 || pid == os.Getpid() {
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0
	}

	return process.Signal(syscall.Signal(0)) == nil, pid
}
