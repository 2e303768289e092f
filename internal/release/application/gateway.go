package application

import (
	"context"
	"time"

	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

// Application is the backend's record for an app, looked up by bundle ID.
type Application struct {
	ID       string
	BundleID string
	Name     string
}

// Build is a single uploaded binary within a release train.
type Build struct {
	ID         string
	Counter    domain.BuildNumber
	UploadedAt time.Time
}

// PreReleaseTrain groups the builds uploaded for one version string.
type PreReleaseTrain struct {
	ID      string
	Version string
}

// ReleaseFilter narrows ListReleases queries. Zero-valued fields are ignored.
type ReleaseFilter struct {
	State    domain.ReleaseState
	Version  string
	Platform domain.Platform
	Limit    int
}

// BuildFilter narrows ListBuilds queries. Zero-valued fields are ignored.
type BuildFilter struct {
	Version           string
	PreReleaseTrainID string
	Limit             int
	SortDescending    bool
}

// Gateway is the backend collaborator contract. The engine only reads
// release and build records and, at most, appends a new release; it never
// updates or deletes backend state.
type Gateway interface {
	// FindApplication looks up an application by bundle ID. Returns a
	// not-found error when no application matches.
	FindApplication(ctx context.Context, bundleID string) (Application, error)

	// ListReleases returns the release records matching the filter.
	ListReleases(ctx context.Context, appID string, filter ReleaseFilter) ([]domain.ReleaseRecord, error)

	// ResolveBuildForRelease returns the build counter currently attached to
	// a release, or zero when none is attached.
	ResolveBuildForRelease(ctx context.Context, releaseID string) (domain.BuildNumber, error)

	// FindPreReleaseTrain looks up the pre-release train matching a version
	// string. Returns a not-found error when no train matches.
	FindPreReleaseTrain(ctx context.Context, appID, version string) (PreReleaseTrain, error)

	// ListBuilds returns the builds matching the filter.
	ListBuilds(ctx context.Context, appID string, filter BuildFilter) ([]Build, error)

	// CreateRelease appends a new release record at the given version.
	CreateRelease(ctx context.Context, appID string, version domain.Version, platform domain.Platform) (domain.ReleaseRecord, error)
}
