package domain

import "strings"

// ReleaseState is the backend lifecycle state of a release record.
type ReleaseState string

const (
	StateReadyForSale               ReleaseState = "READY_FOR_SALE"
	StatePrepareForSubmission       ReleaseState = "PREPARE_FOR_SUBMISSION"
	StateWaitingForReview           ReleaseState = "WAITING_FOR_REVIEW"
	StateInReview                   ReleaseState = "IN_REVIEW"
	StateRejected                   ReleaseState = "REJECTED"
	StateDeveloperRejected          ReleaseState = "DEVELOPER_REJECTED"
	StateMetadataRejected           ReleaseState = "METADATA_REJECTED"
	StatePendingContract            ReleaseState = "PENDING_CONTRACT"
	StateWaitingForExportCompliance ReleaseState = "WAITING_FOR_EXPORT_COMPLIANCE"
	StateProcessing                 ReleaseState = "PROCESSING_FOR_APP_STORE"
	StateAccepted                   ReleaseState = "ACCEPTED"
	StateReplaced                   ReleaseState = "REPLACED_WITH_NEW_VERSION"
	StateRemovedFromSale            ReleaseState = "REMOVED_FROM_SALE"
	StateNotApplicableForReview     ReleaseState = "NOT_APPLICABLE_FOR_REVIEW"
	StateInvalidBinary              ReleaseState = "INVALID_BINARY"
	StatePendingDeveloperRelease    ReleaseState = "PENDING_DEVELOPER_RELEASE"
	StateDeveloperRemovedFromSale   ReleaseState = "DEVELOPER_REMOVED_FROM_SALE"

	// StateUnknown captures backend states this engine does not recognize.
	// Unknown states are always blocking so a new backend state can never be
	// misclassified as incrementable.
	StateUnknown ReleaseState = "UNKNOWN"
)

// incrementableStates lists the lifecycle states in which a new build may
// still be attached to the existing release record.
var incrementableStates = map[ReleaseState]struct{}{
	StatePrepareForSubmission:       {},
	StateWaitingForReview:           {},
	StateInReview:                   {},
	StateRejected:                   {},
	StateDeveloperRejected:          {},
	StateMetadataRejected:           {},
	StateInvalidBinary:              {},
	StateWaitingForExportCompliance: {},
}

// remediationHints explains, per blocking state, how the caller can make
// progress. The default hint covers states with no specific guidance.
var remediationHints = map[ReleaseState]string{
	StateReadyForSale:             "version is already live, create a new version instead",
	StatePendingContract:          "a pending agreement blocks this version, resolve the contract in the backend or create a new version",
	StateProcessing:               "the version is still processing, wait for processing to finish or create a new version",
	StatePendingDeveloperRelease:  "the version is approved and awaiting developer release, release it or create a new version",
	StateAccepted:                 "the version has been accepted, create a new version instead",
	StateReplaced:                 "the version has been replaced, create a new version instead",
	StateRemovedFromSale:          "the version was removed from sale, create a new version instead",
	StateDeveloperRemovedFromSale: "the version was removed from sale by the developer, create a new version instead",
	StateNotApplicableForReview:   "the version is not applicable for review, create a new version instead",
	StateUnknown:                  "the version is in an unrecognized state, inspect it in the backend or create a new version",
}

const defaultRemediationHint = "no new build may be attached in this state, create a new version instead"

var knownStates = map[ReleaseState]struct{}{
	StateReadyForSale:               {},
	StatePrepareForSubmission:       {},
	StateWaitingForReview:           {},
	StateInReview:                   {},
	StateRejected:                   {},
	StateDeveloperRejected:          {},
	StateMetadataRejected:           {},
	StatePendingContract:            {},
	StateWaitingForExportCompliance: {},
	StateProcessing:                 {},
	StateAccepted:                   {},
	StateReplaced:                   {},
	StateRemovedFromSale:            {},
	StateNotApplicableForReview:     {},
	StateInvalidBinary:              {},
	StatePendingDeveloperRelease:    {},
	StateDeveloperRemovedFromSale:   {},
}

// ParseReleaseState maps a backend state string onto the closed enumeration.
// Unrecognized values map to StateUnknown.
func ParseReleaseState(value string) ReleaseState {
	state := ReleaseState(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := knownStates[state]; ok {
		return state
	}
	return StateUnknown
}

// String returns the backend rendering of the state.
func (s ReleaseState) String() string {
	return string(s)
}

// CanIncrement reports whether a new build may be attached to a release in
// this state.
func (s ReleaseState) CanIncrement() bool {
	_, ok := incrementableStates[s]
	return ok
}

// IsBlocking reports whether the state forbids attaching new builds.
func (s ReleaseState) IsBlocking() bool {
	return !s.CanIncrement()
}

// IsLive reports whether the state means the version is published.
func (s ReleaseState) IsLive() bool {
	return s == StateReadyForSale
}

// RemediationHint returns the human-readable guidance for a blocking state.
func (s ReleaseState) RemediationHint() string {
	if hint, ok := remediationHints[s]; ok {
		return hint
	}
	return defaultRemediationHint
}

// Reason returns the stable machine-readable token for the state, used in
// non-incrementable-state errors.
func (s ReleaseState) Reason() string {
	if s == StateReadyForSale {
		return "already_live"
	}
	return strings.ToLower(string(s))
}
