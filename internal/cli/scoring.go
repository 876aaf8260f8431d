package cli

import (
	"github.com/spf13/cobra"
)

var scoringJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank all valid tasks with the scoring service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.svc.Analyze(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if scoringJSON {
			return renderJSON(cmd.OutOrStdout(), entries)
		}
		renderAnalysis(cmd.OutOrStdout(), entries, now())
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the scoring service which task to work on next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		suggested, err := a.svc.Suggest(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if scoringJSON {
			return renderJSON(cmd.OutOrStdout(), suggested)
		}
		renderSuggestion(cmd.OutOrStdout(), suggested, now())
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&scoringJSON, "json", false, "print the result as JSON")
	suggestCmd.Flags().BoolVar(&scoringJSON, "json", false, "print the result as JSON")
	RootCmd.AddCommand(analyzeCmd, suggestCmd)
}
