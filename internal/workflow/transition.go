package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDecision = errors.New("unknown qc decision")
	ErrScoreOutOfRange = errors.New("score must be between 0 and 100")
)

const (
	MinScore = 0
	MaxScore = 100
)

// State is the workflow-relevant subset of an asset.
type State struct {
	Stage         Stage
	Status        Status
	LinkingActive bool
	ReworkCount   int
}

// Machine computes transitions. The only tunable is the stage an approved asset lands in.
type Machine struct {
	approvedStage Stage
}

type MachineOption func(m *Machine)

// WithApprovedStage sets the stage used for approved assets. Only StageApproved and
// StagePublished are accepted; anything else keeps the default.
func WithApprovedStage(s Stage) MachineOption {
	return func(m *Machine) {
		if s == StageApproved || s == StagePublished {
			m.approvedStage = s
		}
	}
}

// ApprovedStageFromLabel resolves a configured label to the stage approved assets land
// in. An empty label means the default. ok is false when the label names no approval
// stage, in which case StagePublished is returned.
func ApprovedStageFromLabel(label string) (stage Stage, ok bool) {
	if strings.TrimSpace(label) == "" {
		return StagePublished, true
	}
	s, err := ParseStage(label)
	if err != nil || (s != StageApproved && s != StagePublished) {
		return StagePublished, false
	}
	return s, true
}

func NewMachine(opts ...MachineOption) *Machine {
	m := &Machine{approvedStage: StagePublished}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Machine) ApprovedStage() Stage {
	return m.approvedStage
}

// Review applies a decision to the current state. The current stage is not checked:
// review is decision-driven.
func (m *Machine) Review(current State, d Decision) (State, error) {
	next := current
	switch d {
	case DecisionApproved:
		next.Stage = m.approvedStage
		next.Status = StatusApproved
		next.LinkingActive = true
	case DecisionRejected:
		next.Status = StatusRejected
		next.LinkingActive = false
	case DecisionRework:
		next.Stage = StageRework
		next.Status = StatusRework
		next.LinkingActive = false
		next.ReworkCount = current.ReworkCount + 1
	default:
		return current, fmt.Errorf("%w: %q", ErrUnknownDecision, d)
	}
	return next, nil
}

// Submit moves the asset to SentToQC. Every submission waits for a fresh review,
// so the status goes back to Pending.
func (m *Machine) Submit(current State) State {
	next := current
	next.Stage = StageSentToQC
	next.Status = StatusPending
	return next
}

// StartWork moves a new or reworked asset into production.
func (m *Machine) StartWork(current State) (State, error) {
	if res := CanStartWork(current.Stage); !res.Allowed {
		return current, res.Error()
	}
	next := current
	next.Stage = StageInProgress
	return next, nil
}

// ValidateScore accepts a nil score.
func ValidateScore(score *int) error {
	if score == nil {
		return nil
	}
	if *score < MinScore || *score > MaxScore {
		return fmt.Errorf("%w: got %d", ErrScoreOutOfRange, *score)
	}
	return nil
}
