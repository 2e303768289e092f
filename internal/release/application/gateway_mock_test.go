package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

// mockGateway is a mock implementation of Gateway.
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FindApplication(ctx context.Context, bundleID string) (Application, error) {
	args := m.Called(ctx, bundleID)
	return args.Get(0).(Application), args.Error(1)
}

func (m *mockGateway) ListReleases(ctx context.Context, appID string, filter ReleaseFilter) ([]domain.ReleaseRecord, error) {
	args := m.Called(ctx, appID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReleaseRecord), args.Error(1)
}

func (m *mockGateway) ResolveBuildForRelease(ctx context.Context, releaseID string) (domain.BuildNumber, error) {
	args := m.Called(ctx, releaseID)
	return args.Get(0).(domain.BuildNumber), args.Error(1)
}

func (m *mockGateway) FindPreReleaseTrain(ctx context.Context, appID, version string) (PreReleaseTrain, error) {
	args := m.Called(ctx, appID, version)
	return args.Get(0).(PreReleaseTrain), args.Error(1)
}

func (m *mockGateway) ListBuilds(ctx context.Context, appID string, filter BuildFilter) ([]Build, error) {
	args := m.Called(ctx, appID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Build), args.Error(1)
}

func (m *mockGateway) CreateRelease(ctx context.Context, appID string, version domain.Version, platform domain.Platform) (domain.ReleaseRecord, error) {
	args := m.Called(ctx, appID, version, platform)
	return args.Get(0).(domain.ReleaseRecord), args.Error(1)
}
