package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

// Bump selects which version component the candidate version increments.
// The candidate is always derived from the live version; no heuristic ever
// chooses the bump mode automatically.
type Bump string

const (
	BumpPatch Bump = "patch"
	BumpMinor Bump = "minor"
	BumpMajor Bump = "major"
)

// ParseBump creates a Bump from a string.
func ParseBump(value string) (Bump, error) {
	switch Bump(strings.ToLower(strings.TrimSpace(value))) {
	case BumpPatch:
		return BumpPatch, nil
	case BumpMinor:
		return BumpMinor, nil
	case BumpMajor:
		return BumpMajor, nil
	default:
		return "", domain.NewValidationError("unknown_bump_mode",
			fmt.Sprintf("bump mode %q is not one of patch, minor, major", value))
	}
}

// DetermineNextVersionQuery describes one pipeline run.
type DetermineNextVersionQuery struct {
	BundleID       string
	Platform       domain.Platform
	Bump           Bump
	CreateIfAbsent bool
}

// DetermineNextVersionResult is the engine's complete answer for one run.
type DetermineNextVersionResult struct {
	App             Application
	LiveVersion     domain.Version
	LiveBuildNumber domain.BuildNumber
	Version         domain.Version
	BuildNumber     domain.BuildNumber
	Action          Action
	Reason          string
	VersionCreated  bool
}

// Orchestrator sequences the backend lookups around the pure decision
// engine: fetch the live release, compute the candidate version, look it up,
// resolve build counters, decide, and optionally create the new release.
// Calls are sequential; errors from mandatory lookups and from the decision
// engine propagate unchanged.
type Orchestrator struct {
	gateway  Gateway
	resolver *BuildResolver
	engine   *DecisionEngine
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(gateway Gateway, resolver *BuildResolver, engine *DecisionEngine, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gateway:  gateway,
		resolver: resolver,
		engine:   engine,
		logger:   logger,
	}
}

// DetermineNextVersion runs the full decision for one application.
func (o *Orchestrator) DetermineNextVersion(ctx context.Context, query DetermineNextVersionQuery) (*DetermineNextVersionResult, error) {
	app, err := o.gateway.FindApplication(ctx, query.BundleID)
	if err != nil {
		return nil, err
	}

	live, err := o.findLiveRelease(ctx, app, query.Platform)
	if err != nil {
		return nil, err
	}

	liveBuild := o.resolver.ResolveForRelease(ctx, app.ID, live)
	if liveBuild.IsZero() {
		// A published version always has a binary behind it. A zero counter
		// here means the backend's own records are inconsistent.
		return nil, domain.NewDataInconsistencyError("live_release_without_build",
			fmt.Sprintf("live version %s has no build attached in the backend", live.Version()))
	}
	live = live.WithBuildNumber(liveBuild)

	candidateVersion := nextVersion(live.Version(), query.Bump)
	o.logger.Debug("computed candidate version",
		"live_version", live.Version().String(),
		"candidate_version", candidateVersion.String(),
		"bump", string(query.Bump))

	candidate, err := o.findCandidateRelease(ctx, app, candidateVersion, query.Platform)
	if err != nil {
		return nil, err
	}
	if candidate != nil {
		resolved := candidate.WithBuildNumber(o.resolver.ResolveForRelease(ctx, app.ID, *candidate))
		candidate = &resolved
	}

	currentMax := domain.MaxBuildNumber(liveBuild, o.resolver.ResolveGlobalMax(ctx, app.ID))

	decision, err := o.engine.Determine(candidate, currentMax)
	if err != nil {
		return nil, err
	}

	result := &DetermineNextVersionResult{
		App:             app,
		LiveVersion:     live.Version(),
		LiveBuildNumber: liveBuild,
		Version:         candidateVersion,
		BuildNumber:     decision.BuildNumber,
		Action:          decision.Action,
		Reason:          decision.Reason,
	}

	if decision.RequiresCreation && query.CreateIfAbsent {
		created, err := o.gateway.CreateRelease(ctx, app.ID, candidateVersion, query.Platform)
		if err != nil {
			return nil, err
		}
		o.logger.Info("created release record",
			"release_id", created.ID(),
			"version", candidateVersion.String(),
			"platform", query.Platform.String())
		result.VersionCreated = true
	}

	return result, nil
}

// findLiveRelease fetches the ready-for-sale release for the platform.
func (o *Orchestrator) findLiveRelease(ctx context.Context, app Application, platform domain.Platform) (domain.ReleaseRecord, error) {
	releases, err := o.gateway.ListReleases(ctx, app.ID, ReleaseFilter{
		State:    domain.StateReadyForSale,
		Platform: platform,
		Limit:    1,
	})
	if err != nil {
		return domain.ReleaseRecord{}, err
	}
	if len(releases) == 0 {
		return domain.ReleaseRecord{}, domain.NewNotFoundError("no_live_release",
			fmt.Sprintf("no live release found for %s on %s", app.BundleID, platform))
	}
	return releases[0], nil
}

// findCandidateRelease looks up the release record at the candidate version.
// Absence is a valid outcome and returns nil, not an error.
func (o *Orchestrator) findCandidateRelease(ctx context.Context, app Application, version domain.Version, platform domain.Platform) (*domain.ReleaseRecord, error) {
	releases, err := o.gateway.ListReleases(ctx, app.ID, ReleaseFilter{
		Version:  version.String(),
		Platform: platform,
		Limit:    1,
	})
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, nil
	}
	return &releases[0], nil
}

func nextVersion(live domain.Version, bump Bump) domain.Version {
	switch bump {
	case BumpMinor:
		return live.IncrementMinor()
	case BumpMajor:
		return live.IncrementMajor()
	default:
		return live.IncrementPatch()
	}
}
