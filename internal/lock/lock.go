// Package lock keeps a second daylog process from writing to the same
// storage while one is already running.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

var ErrLocked = errors.New("another daylog process is running")

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Owner describes the process recorded in a lockfile.
type Owner struct {
	PID     int
	Since   time.Time
	Running bool
}

// Path returns the lockfile location inside a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.LockfileName)
}

// Acquire takes the lockfile in configDir. A lockfile whose owner is no
// longer running is treated as stale and replaced.
func Acquire(configDir string) (*Lock, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	path := Path(configDir)
	pid := getpidFunc()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", pid, time.Now().UTC().Format(time.RFC3339))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		owner, rerr := Inspect(configDir)
		if rerr == nil && owner.Running && owner.PID != pid {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, owner.PID)
		}
		logger.Warn("removing stale lockfile", "path", path, "error", rerr)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, ErrLocked
}

// Inspect reads the lockfile in configDir without taking it.
func Inspect(configDir string) (Owner, error) {
	content, err := os.ReadFile(Path(configDir))
	if err != nil {
		return Owner{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Owner{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Owner{}, errors.New("invalid process ID in lockfile")
	}
	since, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return Owner{}, errors.New("invalid timestamp in lockfile")
	}

	return Owner{PID: pid, Since: since, Running: isDaylog(pid)}, nil
}

func isDaylog(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	// the pid may have been reused by something else
	return strings.HasPrefix(process.Executable(), constants.AppName)
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !strings.HasPrefix(string(content), strconv.Itoa(l.pid)+"|") {
		return nil
	}
	return os.Remove(l.path)
}
