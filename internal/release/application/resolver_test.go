package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildNumber(t *testing.T, n int) domain.BuildNumber {
	t.Helper()
	b, err := domain.NewBuildNumber(n)
	require.NoError(t, err)
	return b
}

func releaseRecord(t *testing.T, id, version string, state domain.ReleaseState) domain.ReleaseRecord {
	t.Helper()
	v, err := domain.ParseVersion(version)
	require.NoError(t, err)
	return domain.NewReleaseRecord(id, v, state, domain.PlatformIOS, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
}

func TestResolveForReleaseUsesDirectLookupFirst(t *testing.T) {
	gateway := new(mockGateway)
	record := releaseRecord(t, "rel-1", "1.0.1", domain.StatePrepareForSubmission)

	gateway.On("ResolveBuildForRelease", mock.Anything, "rel-1").
		Return(buildNumber(t, 7), nil)

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveForRelease(context.Background(), "app-1", record)

	assert.Equal(t, 7, counter.Value())
	gateway.AssertNotCalled(t, "FindPreReleaseTrain", mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "ListBuilds", mock.Anything, mock.Anything, mock.Anything)
}

// If the direct lookup fails and the train yields a counter, the
// version-scoped search is never attempted.
func TestResolveForReleaseFallsBackToTrain(t *testing.T) {
	gateway := new(mockGateway)
	record := releaseRecord(t, "rel-1", "1.0.1", domain.StatePrepareForSubmission)

	gateway.On("ResolveBuildForRelease", mock.Anything, "rel-1").
		Return(domain.BuildNumber{}, errors.New("transport failure"))
	gateway.On("FindPreReleaseTrain", mock.Anything, "app-1", "1.0.1").
		Return(PreReleaseTrain{ID: "train-1", Version: "1.0.1"}, nil)
	gateway.On("ListBuilds", mock.Anything, "app-1", BuildFilter{
		PreReleaseTrainID: "train-1",
		SortDescending:    true,
		Limit:             1,
	}).Return([]Build{{ID: "b1", Counter: buildNumber(t, 9)}}, nil)

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveForRelease(context.Background(), "app-1", record)

	assert.Equal(t, 9, counter.Value())
	gateway.AssertNotCalled(t, "ListBuilds", mock.Anything, "app-1", BuildFilter{
		Version:        "1.0.1",
		SortDescending: true,
		Limit:          1,
	})
}

func TestResolveForReleaseFallsBackToVersionSearch(t *testing.T) {
	gateway := new(mockGateway)
	record := releaseRecord(t, "rel-1", "1.0.1", domain.StatePrepareForSubmission)

	gateway.On("ResolveBuildForRelease", mock.Anything, "rel-1").
		Return(domain.BuildNumber{}, nil)
	gateway.On("FindPreReleaseTrain", mock.Anything, "app-1", "1.0.1").
		Return(PreReleaseTrain{}, domain.NewNotFoundError("pre_release_train_not_found", "no train"))
	gateway.On("ListBuilds", mock.Anything, "app-1", BuildFilter{
		Version:        "1.0.1",
		SortDescending: true,
		Limit:          1,
	}).Return([]Build{{ID: "b5", Counter: buildNumber(t, 5)}}, nil)

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveForRelease(context.Background(), "app-1", record)

	assert.Equal(t, 5, counter.Value())
}

// A brand-new version with no builds anywhere resolves to zero, not an error.
func TestResolveForReleaseAllSourcesEmpty(t *testing.T) {
	gateway := new(mockGateway)
	record := releaseRecord(t, "rel-1", "1.0.2", domain.StatePrepareForSubmission)

	gateway.On("ResolveBuildForRelease", mock.Anything, "rel-1").
		Return(domain.BuildNumber{}, nil)
	gateway.On("FindPreReleaseTrain", mock.Anything, "app-1", "1.0.2").
		Return(PreReleaseTrain{ID: "train-2"}, nil)
	gateway.On("ListBuilds", mock.Anything, "app-1", mock.Anything).
		Return([]Build{}, nil)

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveForRelease(context.Background(), "app-1", record)

	assert.True(t, counter.IsZero())
}

func TestResolveForReleaseSwallowsEverySourceFailure(t *testing.T) {
	gateway := new(mockGateway)
	record := releaseRecord(t, "rel-1", "1.0.1", domain.StatePrepareForSubmission)

	transportErr := errors.New("gateway timeout")
	gateway.On("ResolveBuildForRelease", mock.Anything, "rel-1").
		Return(domain.BuildNumber{}, transportErr)
	gateway.On("FindPreReleaseTrain", mock.Anything, "app-1", "1.0.1").
		Return(PreReleaseTrain{}, transportErr)
	gateway.On("ListBuilds", mock.Anything, "app-1", mock.Anything).
		Return(nil, transportErr)

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveForRelease(context.Background(), "app-1", record)

	assert.True(t, counter.IsZero())
}

func TestResolveGlobalMax(t *testing.T) {
	gateway := new(mockGateway)
	gateway.On("ListBuilds", mock.Anything, "app-1", BuildFilter{
		SortDescending: true,
		Limit:          1,
	}).Return([]Build{{ID: "b12", Counter: buildNumber(t, 12)}}, nil)

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveGlobalMax(context.Background(), "app-1")

	assert.Equal(t, 12, counter.Value())
}

func TestResolveGlobalMaxSwallowsFailure(t *testing.T) {
	gateway := new(mockGateway)
	gateway.On("ListBuilds", mock.Anything, "app-1", mock.Anything).
		Return(nil, errors.New("transport failure"))

	resolver := NewBuildResolver(gateway, discardLogger())
	counter := resolver.ResolveGlobalMax(context.Background(), "app-1")

	assert.True(t, counter.IsZero())
}
