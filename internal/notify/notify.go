// Package notify delivers the status message either to the terminal or as a
// native desktop alert.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Notifier delivers one message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	Name() string
}

// Console writes the message to w followed by a newline.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Notify(_ context.Context, message string) error {
	if _, err := fmt.Fprintln(c.w, strings.TrimRight(message, "\n")); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}
