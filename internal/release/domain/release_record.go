package domain

import "time"

// ReleaseRecord is a backend-tracked release: an opaque identifier, a
// version, a build counter, a lifecycle state and a platform tag.
//
// Records are constructed from backend query results with the build counter
// forced to zero; version-list responses never carry a trustworthy counter.
// The counter is attached later, as a deliberate step, through
// WithBuildNumber, which returns a new value rather than mutating in place.
type ReleaseRecord struct {
	id        string
	version   Version
	build     BuildNumber
	state     ReleaseState
	platform  Platform
	createdAt time.Time
}

// NewReleaseRecord creates a record from a backend query result. The build
// counter always starts at zero.
func NewReleaseRecord(id string, version Version, state ReleaseState, platform Platform, createdAt time.Time) ReleaseRecord {
	return ReleaseRecord{
		id:        id,
		version:   version,
		state:     state,
		platform:  platform,
		createdAt: createdAt,
	}
}

// WithBuildNumber returns a copy of the record with the resolved build
// counter attached.
func (r ReleaseRecord) WithBuildNumber(build BuildNumber) ReleaseRecord {
	r.build = build
	return r
}

// ID returns the opaque backend identifier.
func (r ReleaseRecord) ID() string { return r.id }

// Version returns the release version.
func (r ReleaseRecord) Version() Version { return r.version }

// BuildNumber returns the resolved build counter. Zero means no build is
// known yet.
func (r ReleaseRecord) BuildNumber() BuildNumber { return r.build }

// State returns the lifecycle state.
func (r ReleaseRecord) State() ReleaseState { return r.state }

// Platform returns the platform tag.
func (r ReleaseRecord) Platform() Platform { return r.platform }

// CreatedAt returns the backend creation timestamp.
func (r ReleaseRecord) CreatedAt() time.Time { return r.createdAt }

// CanIncrementBuildNumber reports whether a new build may be attached to
// this release record.
func (r ReleaseRecord) CanIncrementBuildNumber() bool {
	return r.state.CanIncrement()
}

// IsLiveVersion reports whether this record is the published version.
func (r ReleaseRecord) IsLiveVersion() bool {
	return r.state.IsLive()
}

// CalculateNextBuildNumber returns the record's own next build counter.
func (r ReleaseRecord) CalculateNextBuildNumber() BuildNumber {
	return r.build.Increment()
}
