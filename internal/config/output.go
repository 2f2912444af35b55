package config

import (
	"fmt"
	"strings"

	"github.com/leslieo2/go-lab-status/internal/constants"
)

// OutputConfig selects where the status message is delivered
type OutputConfig struct {
	// Sink is one of auto, console or alert.
	Sink       string `json:"sink" yaml:"sink"`
	AlertTitle string `json:"alert_title" yaml:"alert_title"`
}

// DefaultOutputConfig returns default output configuration
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Sink:       constants.OutputAuto,
		AlertTitle: constants.DefaultAlertTitle,
	}
}

// Validate validates the output configuration
func (o *OutputConfig) Validate() error {
	switch strings.ToLower(o.Sink) {
	case constants.OutputAuto, constants.OutputConsole, constants.OutputAlert:
		return nil
	default:
		return fmt.Errorf("invalid sink: %s, must be one of: auto, console, alert", o.Sink)
	}
}
