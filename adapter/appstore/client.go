package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/ascender/internal/release/application"
	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

// DefaultBaseURL is the production App Store Connect API endpoint.
const DefaultBaseURL = "https://api.appstoreconnect.apple.com"

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxRetries       = 3
	defaultFailureThreshold = 5
	defaultBreakerTimeout   = 30 * time.Second
)

// ClientConfig tunes the transport behavior. Zero values take defaults.
type ClientConfig struct {
	BaseURL                 string
	Timeout                 time.Duration
	MaxRetries              uint64
	BreakerFailureThreshold uint32
	BreakerTimeout          time.Duration
}

// Client implements the release gateway against the App Store Connect API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
	maxRetries uint64
}

var _ application.Gateway = (*Client)(nil)

// NewClient creates a Client authenticating with the given token source.
func NewClient(tokens TokenSource, cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BreakerFailureThreshold == 0 {
		cfg.BreakerFailureThreshold = defaultFailureThreshold
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = defaultBreakerTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &authTransport{
				base:   http.DefaultTransport,
				source: tokens,
			},
		},
		breaker:    newBreaker(logger, cfg.BreakerFailureThreshold, cfg.BreakerTimeout),
		logger:     logger,
		maxRetries: cfg.MaxRetries,
	}
}

// FindApplication looks up an application by bundle ID.
func (c *Client) FindApplication(ctx context.Context, bundleID string) (application.Application, error) {
	query := url.Values{}
	query.Set("filter[bundleId]", bundleID)
	query.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, "/v1/apps", query, nil)
	if err != nil {
		return application.Application{}, fmt.Errorf("find application %s: %w", bundleID, err)
	}

	var parsed appsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return application.Application{}, fmt.Errorf("decode apps response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return application.Application{}, domain.NewNotFoundError("application_not_found",
			fmt.Sprintf("no application found for bundle id %s", bundleID))
	}

	app := parsed.Data[0]
	return application.Application{
		ID:       app.ID,
		BundleID: app.Attributes.BundleID,
		Name:     app.Attributes.Name,
	}, nil
}

// ListReleases returns the release records matching the filter.
func (c *Client) ListReleases(ctx context.Context, appID string, filter application.ReleaseFilter) ([]domain.ReleaseRecord, error) {
	query := url.Values{}
	if filter.State != "" {
		query.Set("filter[appStoreState]", filter.State.String())
	}
	if filter.Version != "" {
		query.Set("filter[versionString]", filter.Version)
	}
	if filter.Platform != "" {
		query.Set("filter[platform]", filter.Platform.String())
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/v1/apps/"+appID+"/appStoreVersions", query, nil)
	if err != nil {
		return nil, fmt.Errorf("list releases for app %s: %w", appID, err)
	}

	var parsed versionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode releases response: %w", err)
	}

	records := make([]domain.ReleaseRecord, 0, len(parsed.Data))
	for _, resource := range parsed.Data {
		record, err := toReleaseRecord(resource)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ResolveBuildForRelease returns the build counter attached to a release, or
// zero when none is attached.
func (c *Client) ResolveBuildForRelease(ctx context.Context, releaseID string) (domain.BuildNumber, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/appStoreVersions/"+releaseID+"/build", nil, nil)
	if err != nil {
		return domain.BuildNumber{}, fmt.Errorf("resolve build for release %s: %w", releaseID, err)
	}

	var parsed relatedBuildResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.BuildNumber{}, fmt.Errorf("decode build response: %w", err)
	}
	if parsed.Data == nil {
		return domain.BuildNumber{}, nil
	}
	return domain.ParseBuildNumber(parsed.Data.Attributes.Version)
}

// FindPreReleaseTrain looks up the pre-release train matching a version
// string.
func (c *Client) FindPreReleaseTrain(ctx context.Context, appID, version string) (application.PreReleaseTrain, error) {
	query := url.Values{}
	query.Set("filter[app]", appID)
	query.Set("filter[version]", version)
	query.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, "/v1/preReleaseVersions", query, nil)
	if err != nil {
		return application.PreReleaseTrain{}, fmt.Errorf("find pre-release train %s: %w", version, err)
	}

	var parsed trainsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return application.PreReleaseTrain{}, fmt.Errorf("decode pre-release trains response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return application.PreReleaseTrain{}, domain.NewNotFoundError("pre_release_train_not_found",
			fmt.Sprintf("no pre-release train found for version %s", version))
	}

	train := parsed.Data[0]
	return application.PreReleaseTrain{
		ID:      train.ID,
		Version: train.Attributes.Version,
	}, nil
}

// ListBuilds returns the builds matching the filter.
func (c *Client) ListBuilds(ctx context.Context, appID string, filter application.BuildFilter) ([]application.Build, error) {
	query := url.Values{}
	query.Set("filter[app]", appID)
	if filter.PreReleaseTrainID != "" {
		query.Set("filter[preReleaseVersion]", filter.PreReleaseTrainID)
	}
	if filter.Version != "" {
		query.Set("filter[preReleaseVersion.version]", filter.Version)
	}
	if filter.SortDescending {
		query.Set("sort", "-version")
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/v1/builds", query, nil)
	if err != nil {
		return nil, fmt.Errorf("list builds for app %s: %w", appID, err)
	}

	var parsed buildsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode builds response: %w", err)
	}

	builds := make([]application.Build, 0, len(parsed.Data))
	for _, resource := range parsed.Data {
		counter, err := domain.ParseBuildNumber(resource.Attributes.Version)
		if err != nil {
			return nil, err
		}
		builds = append(builds, application.Build{
			ID:         resource.ID,
			Counter:    counter,
			UploadedAt: resource.Attributes.UploadedDate,
		})
	}
	return builds, nil
}

// CreateRelease appends a new release record at the given version.
func (c *Client) CreateRelease(ctx context.Context, appID string, version domain.Version, platform domain.Platform) (domain.ReleaseRecord, error) {
	payload, err := json.Marshal(versionCreateRequest{
		Data: versionCreateData{
			Type: "appStoreVersions",
			Attributes: versionCreateAttrs{
				Platform:      platform.String(),
				VersionString: version.String(),
			},
			Relationships: versionCreateRelations{
				App: relationship{Data: relationshipData{Type: "apps", ID: appID}},
			},
		},
	})
	if err != nil {
		return domain.ReleaseRecord{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/appStoreVersions", nil, payload)
	if err != nil {
		return domain.ReleaseRecord{}, fmt.Errorf("create release %s: %w", version, err)
	}

	var parsed versionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.ReleaseRecord{}, fmt.Errorf("decode created release response: %w", err)
	}
	return toReleaseRecord(parsed.Data)
}

func toReleaseRecord(resource versionResource) (domain.ReleaseRecord, error) {
	version, err := domain.ParseVersion(resource.Attributes.VersionString)
	if err != nil {
		return domain.ReleaseRecord{}, err
	}
	return domain.NewReleaseRecord(
		resource.ID,
		version,
		domain.ParseReleaseState(resource.Attributes.AppStoreState),
		domain.Platform(resource.Attributes.Platform),
		resource.Attributes.CreatedDate,
	), nil
}
