// Package status decides how far a sample has progressed and describes it.
package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leslieo2/go-lab-status/internal/labapi"
	"github.com/leslieo2/go-lab-status/internal/timefmt"
)

// ErrMissingField is returned when the record lacks a field the matching stage needs.
var ErrMissingField = errors.New("missing field")

// Stage is the sample's progress. Exactly one stage applies to a record.
type Stage int

const (
	StageNotAtLab Stage = iota
	StageInLab
	StageTesting
	StageResulted
)

func (s Stage) String() string {
	switch s {
	case StageNotAtLab:
		return "not_at_lab"
	case StageInLab:
		return "in_lab"
	case StageTesting:
		return "testing"
	case StageResulted:
		return "resulted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Report is the rendered outcome for one record.
type Report struct {
	Stage   Stage
	Message string
	// Result is the upper-cased first result, set only for StageResulted.
	Result string
}

// Classify applies the checks in priority order: lab arrival, then results,
// then testing start. Results win over testing start.
func Classify(r *labapi.AppointmentRecord) Stage {
	if !r.AtLab() {
		return StageNotAtLab
	}
	if _, ok := r.FirstResult(); ok {
		return StageResulted
	}
	if _, ok := r.TestingStartedAt(); ok {
		return StageTesting
	}
	return StageInLab
}

// Render builds the message for r. Elapsed time is measured from the
// appointment start using the normalizer's clock.
func Render(r *labapi.AppointmentRecord, n *timefmt.Normalizer) (Report, error) {
	start, ok := r.AppointmentStart()
	if !ok {
		return Report{}, missing("appointment_window.start_time")
	}
	apptTime, err := n.Localize(start)
	if err != nil {
		return Report{}, fmt.Errorf("appointment_window.start_time: %w", err)
	}

	stage := Classify(r)
	taken := "test taken " + n.Since(apptTime)

	switch stage {
	case StageNotAtLab:
		return Report{Stage: stage, Message: taken + "\nnot sent to lab yet"}, nil

	case StageResulted:
		first, _ := r.FirstResult()
		completed, err := n.Localize(first.CreatedAt)
		if err != nil {
			return Report{}, fmt.Errorf("appointment_results[0].created_at: %w", err)
		}
		testingStart, ok := r.TestingStartedAt()
		if !ok {
			return Report{}, missing("in_testing_at")
		}
		testingTime, err := n.Localize(testingStart)
		if err != nil {
			return Report{}, fmt.Errorf("in_testing_at: %w", err)
		}

		result := strings.ToUpper(first.Result)
		msg := fmt.Sprintf("test completed after %d hours of testing and a total time of %d hours\nresults: %s",
			timefmt.WholeHours(testingTime, completed),
			timefmt.WholeHours(apptTime, completed),
			result,
		)
		return Report{Stage: stage, Message: msg, Result: result}, nil

	case StageTesting:
		testingStart, _ := r.TestingStartedAt()
		testingTime, err := n.Localize(testingStart)
		if err != nil {
			return Report{}, fmt.Errorf("in_testing_at: %w", err)
		}
		return Report{Stage: stage, Message: taken + "\ntesting started on " + n.FormatHuman(testingTime)}, nil

	default:
		received, ok := r.ReceivedAt()
		if !ok {
			return Report{}, missing("accessioning_package.created_at")
		}
		receivedTime, err := n.Localize(received)
		if err != nil {
			return Report{}, fmt.Errorf("accessioning_package.created_at: %w", err)
		}
		return Report{Stage: stage, Message: taken + "\nsample in lab on " + n.FormatHuman(receivedTime)}, nil
	}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
