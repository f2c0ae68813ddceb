// Package workflow holds the pure QC review state machine for content assets.
// Nothing in here performs I/O: callers load the asset, ask the package what the
// next state is, and persist the result themselves.
package workflow

import (
	"fmt"
	"strings"
)

// Stage is the position of an asset in the production pipeline.
type Stage string

const (
	StageAdd        Stage = "Add"
	StageInProgress Stage = "InProgress"
	StageSentToQC   Stage = "SentToQC"
	StageApproved   Stage = "Approved"
	StagePublished  Stage = "Published"
	StageRework     Stage = "Rework"
)

var stages = []Stage{StageAdd, StageInProgress, StageSentToQC, StageApproved, StagePublished, StageRework}

// Stages returns every known stage in pipeline order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// ParseStage matches a stage name case-insensitively.
func ParseStage(s string) (Stage, error) {
	for _, st := range stages {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown workflow stage %q", s)
}

// Status is the outcome of the latest QC review.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusRework   Status = "Rework"
)

var statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusRework}

func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown qc status %q", s)
}

// Decision is what a reviewer decides about an asset sent to QC.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
	DecisionRework   Decision = "rework"
)

// ParseDecision returns ErrUnknownDecision for anything outside approved, rejected and rework.
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionApproved:
		return DecisionApproved, nil
	case DecisionRejected:
		return DecisionRejected, nil
	case DecisionRework:
		return DecisionRework, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, s)
	}
}

// Role is the verified role of a caller, resolved by the authentication layer.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole is case-insensitive. Unknown non-empty roles are kept (lowercased) so
// they can be reported, but they never compare equal to RoleAdmin.
func ParseRole(s string) Role {
	r := strings.ToLower(strings.TrimSpace(s))
	if r == "" {
		return RoleUser
	}
	return Role(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
