package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/harbour/internal/search"
)

var (
	searchLimit int
	searchAll   bool
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find tasks by title, id or dependency",
	Example: `  harbour search login
  harbour search T3 --all`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		query := strings.Join(args, " ")
		results := search.NewTaskSearch(a.svc).Search(query, search.Options{
			Limit:            searchLimit,
			IncludeCompleted: searchAll,
		})
		if searchJSON {
			return renderJSON(cmd.OutOrStdout(), results)
		}
		renderSearch(cmd.OutOrStdout(), query, results)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results, 0 for all")
	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "include completed tasks")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	RootCmd.AddCommand(searchCmd)
}
