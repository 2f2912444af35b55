package notify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/leslieo2/go-lab-status/internal/config"
	"github.com/leslieo2/go-lab-status/internal/constants"
)

// ErrAlertUnavailable is returned when an alert is requested but the
// environment cannot show one.
var ErrAlertUnavailable = errors.New("desktop alert not available")

// Env is the part of the runtime environment used for capability detection.
type Env struct {
	GOOS     string
	LookPath func(file string) (string, error)
	Getenv   func(key string) string
	Runner   Runner
}

// HostEnv returns the environment of the running process.
func HostEnv() Env {
	return Env{
		GOOS:     runtime.GOOS,
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		Runner:   ExecRunner,
	}
}

// DetectAlert reports the platform alert command and its resolved path.
func DetectAlert(env Env) (AlertCommand, string, bool) {
	var cmd AlertCommand
	switch env.GOOS {
	case "darwin":
		cmd = osascriptAlert
	case "linux", "freebsd", "openbsd", "netbsd":
		if env.Getenv("DISPLAY") == "" && env.Getenv("WAYLAND_DISPLAY") == "" {
			return AlertCommand{}, "", false
		}
		cmd = zenityAlert
	default:
		return AlertCommand{}, "", false
	}

	path, err := env.LookPath(cmd.Program)
	if err != nil {
		return AlertCommand{}, "", false
	}
	return cmd, path, true
}

// Select picks the output sink once, before anything is fetched.
func Select(cfg config.OutputConfig, env Env, stdout io.Writer) (Notifier, error) {
	console := NewConsole(stdout)

	switch strings.ToLower(cfg.Sink) {
	case constants.OutputConsole:
		return console, nil
	case constants.OutputAlert:
		cmd, path, ok := DetectAlert(env)
		if !ok {
			return nil, fmt.Errorf("%w on %s", ErrAlertUnavailable, env.GOOS)
		}
		return NewAlert(cmd, path, cfg.AlertTitle, env.Runner), nil
	case constants.OutputAuto, "":
		if cmd, path, ok := DetectAlert(env); ok {
			return NewAlert(cmd, path, cfg.AlertTitle, env.Runner), nil
		}
		return console, nil
	default:
		return nil, fmt.Errorf("unknown output sink %q", cfg.Sink)
	}
}
