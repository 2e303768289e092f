package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ascender/internal/release/application"
	"github.com/felixgeelhaar/ascender/internal/release/domain"
)

var (
	checkCurrent  string
	checkProposed string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that a proposed version strictly exceeds the current one",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := domain.ParseVersion(checkCurrent)
		if err != nil {
			return err
		}
		proposed, err := domain.ParseVersion(checkProposed)
		if err != nil {
			return err
		}

		if !application.IsValidTransition(current, proposed) {
			return domain.NewValidationError("version_regression",
				fmt.Sprintf("proposed version %s does not exceed current version %s", proposed, current))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s is a valid transition\n", current, proposed)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkCurrent, "current", "", "current version")
	checkCmd.Flags().StringVar(&checkProposed, "proposed", "", "proposed version")
	_ = checkCmd.MarkFlagRequired("current")
	_ = checkCmd.MarkFlagRequired("proposed")
	rootCmd.AddCommand(checkCmd)
}
