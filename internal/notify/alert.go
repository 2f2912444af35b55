package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the command and folds its stderr into the returned error.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// AlertCommand describes how a platform shows a modal alert.
type AlertCommand struct {
	Program string
	Args    func(title, message string) []string
}

// Title and message are passed as separate argv entries so neither needs quoting.
var (
	osascriptAlert = AlertCommand{
		Program: "osascript",
		Args: func(title, message string) []string {
			return []string{
				"-e", "on run argv",
				"-e", "display alert (item 1 of argv) message (item 2 of argv)",
				"-e", "end run",
				title, message,
			}
		},
	}
	zenityAlert = AlertCommand{
		Program: "zenity",
		Args: func(title, message string) []string {
			return []string{"--info", "--no-markup", "--title=" + title, "--text=" + message}
		},
	}
)

// Alert shows the message in a native dialog and blocks until it is dismissed.
type Alert struct {
	command AlertCommand
	path    string
	title   string
	run     Runner
}

func NewAlert(command AlertCommand, path, title string, run Runner) *Alert {
	if run == nil {
		run = ExecRunner
	}
	return &Alert{command: command, path: path, title: title, run: run}
}

func (a *Alert) Name() string { return "alert:" + a.command.Program }

func (a *Alert) Notify(ctx context.Context, message string) error {
	if err := a.run(ctx, a.path, a.command.Args(a.title, message)...); err != nil {
		return fmt.Errorf("failed to show alert: %w", err)
	}
	return nil
}
