package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Import a JSON array of tasks; all or nothing",
	Long: `Import reads a JSON array of task objects from a file, or from standard
input when the argument is "-" or missing:

  [{"title": "Fix login bug", "importance": 8, "estimated_hours": 3,
    "due_date": "2025-12-07", "dependencies": ["T2"]}]

If any task is invalid nothing is imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readImport(cmd, args)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		added, err := a.svc.Import(cmd.Context(), string(raw))
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d tasks\n", len(added))
		renderTasks(out, added, now())
		return nil
	},
}

func readImport(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return raw, nil
}

func init() {
	RootCmd.AddCommand(importCmd)
}
