package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/ascender/internal/release/application"
)

// resultPayload is the machine-readable rendering of a decision, shared by
// the json and github output formats.
type resultPayload struct {
	BundleID        string `json:"bundleId"`
	AppID           string `json:"appId"`
	LiveVersion     string `json:"liveVersion"`
	LiveBuildNumber string `json:"liveBuildNumber"`
	Version         string `json:"version"`
	BuildNumber     string `json:"buildNumber"`
	Action          string `json:"action"`
	Reason          string `json:"reason,omitempty"`
	VersionCreated  bool   `json:"versionCreated"`
}

func toPayload(result *application.DetermineNextVersionResult) resultPayload {
	return resultPayload{
		BundleID:        result.App.BundleID,
		AppID:           result.App.ID,
		LiveVersion:     result.LiveVersion.String(),
		LiveBuildNumber: result.LiveBuildNumber.String(),
		Version:         result.Version.String(),
		BuildNumber:     result.BuildNumber.String(),
		Action:          string(result.Action),
		Reason:          result.Reason,
		VersionCreated:  result.VersionCreated,
	}
}

// publishResult renders the decision in the requested format. The github
// format appends key=value pairs to the file named by GITHUB_OUTPUT so later
// workflow steps can consume the decision.
func publishResult(w io.Writer, format string, result *application.DetermineNextVersionResult) error {
	payload := toPayload(result)

	switch format {
	case "text", "":
		fmt.Fprintf(w, "app:            %s (%s)\n", payload.BundleID, payload.AppID)
		fmt.Fprintf(w, "live version:   %s (build %s)\n", payload.LiveVersion, payload.LiveBuildNumber)
		fmt.Fprintf(w, "next version:   %s\n", payload.Version)
		fmt.Fprintf(w, "next build:     %s\n", payload.BuildNumber)
		fmt.Fprintf(w, "action:         %s\n", payload.Action)
		if payload.Reason != "" {
			fmt.Fprintf(w, "reason:         %s\n", payload.Reason)
		}
		fmt.Fprintf(w, "created:        %t\n", payload.VersionCreated)
		return nil
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case "github":
		return publishGitHubOutput(payload)
	default:
		return fmt.Errorf("unknown output format %q, expected text, json or github", format)
	}
}

func publishGitHubOutput(payload resultPayload) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return fmt.Errorf("github output requested but GITHUB_OUTPUT is not set")
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open github output file: %w", err)
	}
	defer file.Close()

	lines := []struct {
		key   string
		value string
	}{
		{"live-version", payload.LiveVersion},
		{"live-build-number", payload.LiveBuildNumber},
		{"version", payload.Version},
		{"build-number", payload.BuildNumber},
		{"action", payload.Action},
		{"version-created", fmt.Sprintf("%t", payload.VersionCreated)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(file, "%s=%s\n", line.key, line.value); err != nil {
			return fmt.Errorf("write github output: %w", err)
		}
	}
	return nil
}
