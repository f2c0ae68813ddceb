package workflow

import "fmt"

// GuardResult is the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanReview allows only admins to record QC decisions.
func CanReview(role Role) GuardResult {
	if !role.IsAdmin() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("role %q is not allowed to review assets: admin role required", role),
		}
	}
	return GuardResult{Allowed: true}
}

// CanStartWork allows production work on new, reworked or already started assets.
func CanStartWork(stage Stage) GuardResult {
	switch stage {
	case StageAdd, StageRework, StageInProgress:
		return GuardResult{Allowed: true}
	default:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot start work on an asset in stage %s", stage),
		}
	}
}

// EffectiveRole combines the verified role with a role declared by the client.
// A declared role may only lower privileges.
func EffectiveRole(verified Role, declared string) Role {
	if declared == "" {
		return verified
	}
	d := ParseRole(declared)
	if d.IsAdmin() {
		return verified
	}
	return d
}
