package application

import (
	"fmt"

	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

// Action is the outcome the release pipeline should take next.
type Action string

const (
	// ActionCreateNewVersion means no record exists for the candidate
	// version and one should be created.
	ActionCreateNewVersion Action = "create_new_version"

	// ActionIncrementBuild means the candidate release exists and a new
	// build may be attached to it.
	ActionIncrementBuild Action = "increment_build"

	// ActionSkip means the candidate release is blocked and the engine was
	// configured to report rather than fail.
	ActionSkip Action = "skip"
)

// BlockingPolicy controls how the engine treats a candidate release in a
// blocking lifecycle state.
type BlockingPolicy int

const (
	// BlockingPolicyFail fails with a not_incrementable error. This is the
	// default.
	BlockingPolicyFail BlockingPolicy = iota

	// BlockingPolicySkip returns ActionSkip carrying the blocking reason
	// instead of failing.
	BlockingPolicySkip
)

// Decision is the engine's verdict for one candidate version.
type Decision struct {
	Action           Action
	BuildNumber      domain.BuildNumber
	RequiresCreation bool
	Reason           string
}

// DecisionEngine maps the state of the candidate release onto the next
// pipeline action. It performs no I/O; the orchestrator gathers all backend
// data before invoking it.
type DecisionEngine struct {
	policy BlockingPolicy
}

// NewDecisionEngine creates a DecisionEngine with the given blocking policy.
func NewDecisionEngine(policy BlockingPolicy) *DecisionEngine {
	return &DecisionEngine{policy: policy}
}

// Determine decides the action for a candidate release. A nil candidate
// means no record exists for the candidate version. currentMax is the
// highest build counter already consumed anywhere in the application.
func (e *DecisionEngine) Determine(candidate *domain.ReleaseRecord, currentMax domain.BuildNumber) (Decision, error) {
	if candidate == nil {
		return Decision{
			Action:           ActionCreateNewVersion,
			BuildNumber:      currentMax.Increment(),
			RequiresCreation: true,
		}, nil
	}

	if candidate.CanIncrementBuildNumber() {
		return Decision{
			Action:      ActionIncrementBuild,
			BuildNumber: e.nextBuildNumber(*candidate, currentMax),
		}, nil
	}

	state := candidate.State()
	if e.policy == BlockingPolicySkip {
		return Decision{Action: ActionSkip, Reason: state.RemediationHint()}, nil
	}
	return Decision{}, domain.NewNotIncrementableError(state.Reason(),
		fmt.Sprintf("version %s is in state %s: %s",
			candidate.Version(), state, state.RemediationHint()))
}

// nextBuildNumber picks the build counter for an incrementable candidate.
// When the candidate has builds of its own, the larger of (candidate's next
// counter, currentMax+1) wins, so the chosen number never collides with a
// build already uploaded under a stale or not-yet-linked record.
func (e *DecisionEngine) nextBuildNumber(candidate domain.ReleaseRecord, currentMax domain.BuildNumber) domain.BuildNumber {
	next := currentMax.Increment()
	if candidate.BuildNumber().IsZero() {
		return next
	}
	return domain.MaxBuildNumber(candidate.CalculateNextBuildNumber(), next)
}

// IsValidTransition reports whether the proposed version strictly exceeds
// the current one. Exposed for callers that want to guard against version
// regressions before acting on a decision.
func IsValidTransition(current, proposed domain.Version) bool {
	return proposed.IsGreaterThan(current)
}
