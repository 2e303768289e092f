package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

// BuildResolver determines the highest build counter already consumed for a
// release. Backend "current build" fields can lag or be absent while a build
// is still mid-upload, so the resolver consults three independent sources in
// strict priority order and short-circuits on the first counter above zero.
//
// Every source failure is logged and swallowed: this is a best-effort
// cascade, and the absence of any build is a valid answer for a brand-new
// version, never an error.
type BuildResolver struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewBuildResolver creates a BuildResolver.
func NewBuildResolver(gateway Gateway, logger *slog.Logger) *BuildResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildResolver{gateway: gateway, logger: logger}
}

// ResolveForRelease returns the authoritative build counter for the given
// release record, or zero when no source yields one.
func (r *BuildResolver) ResolveForRelease(ctx context.Context, appID string, record domain.ReleaseRecord) domain.BuildNumber {
	if counter, err := r.gateway.ResolveBuildForRelease(ctx, record.ID()); err != nil {
		r.logger.Warn("direct build lookup failed, trying pre-release train",
			"release_id", record.ID(), "version", record.Version().String(), "error", err)
	} else if !counter.IsZero() {
		return counter
	}

	if counter := r.resolveFromTrain(ctx, appID, record.Version().String()); !counter.IsZero() {
		return counter
	}

	return r.resolveFromSearch(ctx, appID, record.Version().String())
}

// ResolveGlobalMax returns the highest counter across every build ever
// uploaded for the application, regardless of which release it is linked to.
// Used as a safety floor so a new build number is never reused even when the
// target release's own linkage is stale.
func (r *BuildResolver) ResolveGlobalMax(ctx context.Context, appID string) domain.BuildNumber {
	builds, err := r.gateway.ListBuilds(ctx, appID, BuildFilter{SortDescending: true, Limit: 1})
	if err != nil {
		r.logger.Warn("global build search failed", "app_id", appID, "error", err)
		return domain.BuildNumber{}
	}
	return highestCounter(builds)
}

// resolveFromTrain finds the pre-release train for the version string and
// returns its highest build counter.
func (r *BuildResolver) resolveFromTrain(ctx context.Context, appID, version string) domain.BuildNumber {
	train, err := r.gateway.FindPreReleaseTrain(ctx, appID, version)
	if err != nil {
		r.logger.Warn("pre-release train lookup failed, trying build search",
			"app_id", appID, "version", version, "error", err)
		return domain.BuildNumber{}
	}

	builds, err := r.gateway.ListBuilds(ctx, appID, BuildFilter{
		PreReleaseTrainID: train.ID,
		SortDescending:    true,
		Limit:             1,
	})
	if err != nil {
		r.logger.Warn("pre-release train build lookup failed, trying build search",
			"app_id", appID, "train_id", train.ID, "error", err)
		return domain.BuildNumber{}
	}
	return highestCounter(builds)
}

// resolveFromSearch runs a direct build search scoped by app and version.
func (r *BuildResolver) resolveFromSearch(ctx context.Context, appID, version string) domain.BuildNumber {
	builds, err := r.gateway.ListBuilds(ctx, appID, BuildFilter{
		Version:        version,
		SortDescending: true,
		Limit:          1,
	})
	if err != nil {
		r.logger.Warn("version-scoped build search failed",
			"app_id", appID, "version", version, "error", err)
		return domain.BuildNumber{}
	}
	return highestCounter(builds)
}

func highestCounter(builds []Build) domain.BuildNumber {
	var max domain.BuildNumber
	for _, build := range builds {
		max = domain.MaxBuildNumber(max, build.Counter)
	}
	return max
}
