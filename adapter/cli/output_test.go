package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ascender/internal/release/application"
	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

func testResult(t *testing.T) *application.DetermineNextVersionResult {
	t.Helper()
	liveBuild, err := domain.NewBuildNumber(41)
	require.NoError(t, err)
	nextBuild, err := domain.NewBuildNumber(42)
	require.NoError(t, err)
	return &application.DetermineNextVersionResult{
		App:             application.Application{ID: "app-1", BundleID: "com.example.app", Name: "Example"},
		LiveVersion:     domain.MustParseVersion("1.0.0"),
		LiveBuildNumber: liveBuild,
		Version:         domain.MustParseVersion("1.0.1"),
		BuildNumber:     nextBuild,
		Action:          application.ActionCreateNewVersion,
		VersionCreated:  true,
	}
}

func TestPublishResultText(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, publishResult(&out, "text", testResult(t)))

	text := out.String()
	assert.Contains(t, text, "com.example.app")
	assert.Contains(t, text, "live version:   1.0.0 (build 41)")
	assert.Contains(t, text, "next version:   1.0.1")
	assert.Contains(t, text, "next build:     42")
	assert.Contains(t, text, "created:        true")
	assert.NotContains(t, text, "reason:")
}

func TestPublishResultJSON(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, publishResult(&out, "json", testResult(t)))

	var payload resultPayload
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "com.example.app", payload.BundleID)
	assert.Equal(t, "1.0.1", payload.Version)
	assert.Equal(t, "42", payload.BuildNumber)
	assert.Equal(t, "create_new_version", payload.Action)
	assert.True(t, payload.VersionCreated)
}

func TestPublishResultGitHubAppendsOutputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	require.NoError(t, os.WriteFile(path, []byte("previous=kept\n"), 0o644))
	t.Setenv("GITHUB_OUTPUT", path)

	var out bytes.Buffer
	require.NoError(t, publishResult(&out, "github", testResult(t)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "previous=kept\n")
	assert.Contains(t, string(content), "live-version=1.0.0\n")
	assert.Contains(t, string(content), "live-build-number=41\n")
	assert.Contains(t, string(content), "version=1.0.1\n")
	assert.Contains(t, string(content), "build-number=42\n")
	assert.Contains(t, string(content), "action=create_new_version\n")
	assert.Contains(t, string(content), "version-created=true\n")
}

func TestPublishResultGitHubRequiresEnv(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")

	var out bytes.Buffer
	err := publishResult(&out, "github", testResult(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITHUB_OUTPUT")
}

func TestPublishResultUnknownFormat(t *testing.T) {
	var out bytes.Buffer

	err := publishResult(&out, "yaml", testResult(t))

	require.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	var out bytes.Buffer
	checkCmd.SetOut(&out)
	checkCurrent = "1.2.3"
	checkProposed = "1.3.0"

	require.NoError(t, checkCmd.RunE(checkCmd, nil))
	assert.Contains(t, out.String(), "1.2.3 -> 1.3.0 is a valid transition")
}

func TestCheckCommandRejectsRegression(t *testing.T) {
	checkCurrent = "2.0.0"
	checkProposed = "1.9.9"

	err := checkCmd.RunE(checkCmd, nil)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "version_regression", domain.ReasonOf(err))
}
