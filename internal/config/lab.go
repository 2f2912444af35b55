package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/leslieo2/go-lab-status/internal/constants"
	"github.com/leslieo2/go-lab-status/internal/timefmt"
)

// LabConfig identifies the appointment to look up and where to look it up.
type LabConfig struct {
	// BaseURL is a URL template; {token} is replaced with the access token.
	BaseURL  string `json:"base_url" yaml:"base_url"`
	Token    string `json:"token" yaml:"token"`
	DOB      string `json:"dob" yaml:"dob"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// DefaultLabConfig returns default lab configuration
func DefaultLabConfig() LabConfig {
	return LabConfig{
		BaseURL:  constants.DefaultBaseURL,
		Timezone: constants.DefaultTimezone,
	}
}

// Validate validates the lab configuration
func (l *LabConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(l.Token) == "" {
		errs = append(errs, errors.New("lab.token cannot be empty"))
	}
	if strings.TrimSpace(l.DOB) == "" {
		errs = append(errs, errors.New("lab.dob cannot be empty"))
	}

	if !strings.Contains(l.BaseURL, constants.TokenPlaceholder) {
		errs = append(errs, fmt.Errorf("lab.base_url must contain %s", constants.TokenPlaceholder))
	} else {
		u, err := url.Parse(strings.ReplaceAll(l.BaseURL, constants.TokenPlaceholder, "token"))
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("lab.base_url is not a valid URL: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Errorf("lab.base_url scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			errs = append(errs, errors.New("lab.base_url must include a host"))
		}
	}

	if _, err := timefmt.LoadLocation(l.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("lab.timezone: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Redacted returns a copy that is safe to log.
func (l LabConfig) Redacted() LabConfig {
	l.Token = redact(l.Token)
	l.DOB = redact(l.DOB)
	return l
}

func redact(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
