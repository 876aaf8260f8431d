package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	cfgFile      string
	storageDir   string
	strategyName string
	backendURL   string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "harbour",
	Version: Version,
	Short:   "A task list that asks a scoring service what to do next",
	Long: `Harbour keeps a local task list and sends it to a scoring service
to rank tasks and suggest the next one to work on.

Tasks are stored in .harbour/user_tasks.json unless configured otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintln(os.Stderr, hintStyle.Render("Hint: "+cliErr.Hint))
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: harbour.yaml in ., ./.harbour or ~/.config/harbour)")
	RootCmd.PersistentFlags().StringVar(&storageDir, "dir", "", "directory holding the task list")
	RootCmd.PersistentFlags().StringVar(&strategyName, "strategy", "", "scoring strategy: fastest_wins, high_impact, deadline_driven or smart_balance")
	RootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "scoring service base URL")
}
