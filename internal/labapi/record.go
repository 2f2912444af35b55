package labapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AppointmentRecord is the subset of the lookup response used to describe
// how far a sample has progressed.
type AppointmentRecord struct {
	// AccessionedLab is only checked for presence; its shape is not relied on.
	AccessionedLab      json.RawMessage      `json:"accessioned_lab,omitempty"`
	InTestingAt         *string              `json:"in_testing_at"`
	AppointmentResults  []ResultEntry        `json:"appointment_results"`
	AppointmentWindow   *AppointmentWindow   `json:"appointment_window"`
	AccessioningPackage *AccessioningPackage `json:"accessioning_package"`
}

// ResultEntry is one completed result.
type ResultEntry struct {
	Result    string `json:"result"`
	CreatedAt string `json:"created_at"`
}

type AppointmentWindow struct {
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
}

type AccessioningPackage struct {
	CreatedAt *string `json:"created_at"`
}

// AtLab reports whether the sample has been registered at a lab.
// A missing field and an explicit null both mean it has not.
func (r *AppointmentRecord) AtLab() bool {
	raw := bytes.TrimSpace(r.AccessionedLab)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// TestingStartedAt returns the in_testing_at timestamp if it is set and non-blank.
func (r *AppointmentRecord) TestingStartedAt() (string, bool) {
	if r.InTestingAt == nil || strings.TrimSpace(*r.InTestingAt) == "" {
		return "", false
	}
	return *r.InTestingAt, true
}

// FirstResult returns the first result entry. Later entries are ignored.
func (r *AppointmentRecord) FirstResult() (ResultEntry, bool) {
	if len(r.AppointmentResults) == 0 {
		return ResultEntry{}, false
	}
	return r.AppointmentResults[0], true
}

// AppointmentStart returns appointment_window.start_time.
func (r *AppointmentRecord) AppointmentStart() (string, bool) {
	if r.AppointmentWindow == nil || r.AppointmentWindow.StartTime == "" {
		return "", false
	}
	return r.AppointmentWindow.StartTime, true
}

// ReceivedAt returns accessioning_package.created_at.
func (r *AppointmentRecord) ReceivedAt() (string, bool) {
	if r.AccessioningPackage == nil || r.AccessioningPackage.CreatedAt == nil || *r.AccessioningPackage.CreatedAt == "" {
		return "", false
	}
	return *r.AccessioningPackage.CreatedAt, true
}
