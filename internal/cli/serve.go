package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/harbour/internal/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve JSON-RPC 2.0 on stdin/stdout for a graphical front end",
	Long: `Serve reads one JSON-RPC 2.0 request per line from standard input and
writes one response per line to standard output. Logs go to standard error.

harbour.analyze and harbour.suggest are answered when the scoring service
responds; other requests are not held up behind them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		a.logger.Infof(cmd.Context(), "serving JSON-RPC on stdio, tasks in %s", a.storage.Path())
		transport := rpc.NewTransport(a.server, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
		return transport.Serve(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
