package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ascender/adapter/appstore"
	"github.com/felixgeelhaar/ascender/internal/release/application"
	"github.com/felixgeelhaar/ascender/internal/release/domain"
	"github.com/felixgeelhaar/ascender/pkg/config"
	"github.com/felixgeelhaar/ascender/pkg/observability"
)

var (
	determineBundleID  string
	determinePlatform  string
	determineBump      string
	determineNoCreate  bool
	determineOnBlocked string
	determineOutput    string
)

var determineCmd = &cobra.Command{
	Use:   "determine",
	Short: "Determine the next version and build number",
	Long: `Determine looks up the live release, computes the candidate version,
resolves the highest build counter already consumed and decides whether to
create a new release, attach a new build, or stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		bundleID := determineBundleID
		if bundleID == "" {
			bundleID = cfg.BundleID
		}
		if bundleID == "" {
			return fmt.Errorf("bundle id is required, set --bundle-id or ASC_BUNDLE_ID")
		}

		platformInput := determinePlatform
		if platformInput == "" {
			platformInput = cfg.Platform
		}
		platform, err := domain.ParsePlatform(platformInput)
		if err != nil {
			return err
		}

		bump, err := application.ParseBump(determineBump)
		if err != nil {
			return err
		}

		policy := application.BlockingPolicyFail
		switch determineOnBlocked {
		case "fail":
		case "skip":
			policy = application.BlockingPolicySkip
		default:
			return fmt.Errorf("--on-blocked must be fail or skip, got %q", determineOnBlocked)
		}

		orchestrator, err := newOrchestrator(cfg, policy, logger)
		if err != nil {
			return err
		}

		timer := observability.StartTimer("determine_next_version").WithLogger(logger)
		result, err := orchestrator.DetermineNextVersion(cmd.Context(), application.DetermineNextVersionQuery{
			BundleID:       bundleID,
			Platform:       platform,
			Bump:           bump,
			CreateIfAbsent: !determineNoCreate,
		})
		timer.Stop()
		if err != nil {
			return err
		}

		return publishResult(cmd.OutOrStdout(), determineOutput, result)
	},
}

// newOrchestrator assembles the backend client and the decision components
// from configuration.
func newOrchestrator(cfg *config.Config, policy application.BlockingPolicy, logger *slog.Logger) (*application.Orchestrator, error) {
	if cfg.KeyID == "" || cfg.IssuerID == "" {
		return nil, fmt.Errorf("app store connect credentials are required, set ASC_KEY_ID and ASC_ISSUER_ID")
	}
	keyPEM, err := cfg.ReadPrivateKey()
	if err != nil {
		return nil, err
	}

	tokens, err := appstore.NewTokenProvider(cfg.KeyID, cfg.IssuerID, keyPEM)
	if err != nil {
		return nil, err
	}

	gateway := appstore.NewClient(tokens, appstore.ClientConfig{
		BaseURL:                 cfg.BaseURL,
		Timeout:                 cfg.HTTPTimeout,
		MaxRetries:              uint64(cfg.MaxRetries),
		BreakerFailureThreshold: uint32(cfg.BreakerFailureThreshold),
		BreakerTimeout:          cfg.BreakerTimeout,
	}, logger)

	resolver := application.NewBuildResolver(gateway, logger)
	engine := application.NewDecisionEngine(policy)
	return application.NewOrchestrator(gateway, resolver, engine, logger), nil
}

func init() {
	determineCmd.Flags().StringVar(&determineBundleID, "bundle-id", "", "application bundle identifier")
	determineCmd.Flags().StringVar(&determinePlatform, "platform", "", "target platform (ios, macos, tvos, visionos)")
	determineCmd.Flags().StringVar(&determineBump, "bump", "patch", "version component to increment (patch, minor, major)")
	determineCmd.Flags().BoolVar(&determineNoCreate, "no-create", false, "never create the new release record")
	determineCmd.Flags().StringVar(&determineOnBlocked, "on-blocked", "fail", "behavior when the candidate release is blocked (fail, skip)")
	determineCmd.Flags().StringVarP(&determineOutput, "output", "o", "text", "output format (text, json, github)")
	rootCmd.AddCommand(determineCmd)
}
