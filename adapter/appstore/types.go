package appstore

import (
	"encoding/json"
	"time"
)

// JSON:API wire shapes for the App Store Connect endpoints the gateway
// touches. Responses wrap resources in a data envelope; errors arrive as a
// list of code/title/detail triples.

type appsResponse struct {
	Data []appResource `json:"data"`
}

type appResource struct {
	ID         string        `json:"id"`
	Attributes appAttributes `json:"attributes"`
}

type appAttributes struct {
	BundleID string `json:"bundleId"`
	Name     string `json:"name"`
}

type versionsResponse struct {
	Data []versionResource `json:"data"`
}

type versionResponse struct {
	Data versionResource `json:"data"`
}

type versionResource struct {
	ID         string            `json:"id"`
	Attributes versionAttributes `json:"attributes"`
}

type versionAttributes struct {
	Platform      string    `json:"platform"`
	VersionString string    `json:"versionString"`
	AppStoreState string    `json:"appStoreState"`
	CreatedDate   time.Time `json:"createdDate"`
}

type relatedBuildResponse struct {
	Data *buildResource `json:"data"`
}

type buildsResponse struct {
	Data []buildResource `json:"data"`
}

type buildResource struct {
	ID         string          `json:"id"`
	Attributes buildAttributes `json:"attributes"`
}

type buildAttributes struct {
	Version      string    `json:"version"`
	UploadedDate time.Time `json:"uploadedDate"`
}

type trainsResponse struct {
	Data []trainResource `json:"data"`
}

type trainResource struct {
	ID         string          `json:"id"`
	Attributes trainAttributes `json:"attributes"`
}

type trainAttributes struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type versionCreateRequest struct {
	Data versionCreateData `json:"data"`
}

type versionCreateData struct {
	Type          string                 `json:"type"`
	Attributes    versionCreateAttrs     `json:"attributes"`
	Relationships versionCreateRelations `json:"relationships"`
}

type versionCreateAttrs struct {
	Platform      string `json:"platform"`
	VersionString string `json:"versionString"`
}

type versionCreateRelations struct {
	App relationship `json:"app"`
}

type relationship struct {
	Data relationshipData `json:"data"`
}

type relationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type errorsResponse struct {
	Errors []errorDetail `json:"errors"`
}

type errorDetail struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// decodeErrorDetail extracts the first human-readable detail from an error
// response body, or returns empty when the body is not an error envelope.
func decodeErrorDetail(body []byte) string {
	var parsed errorsResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Errors) == 0 {
		return ""
	}
	detail := parsed.Errors[0]
	if detail.Detail != "" {
		return detail.Detail
	}
	return detail.Title
}
