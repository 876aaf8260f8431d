package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/harbour/internal/rpc"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session; analysis, suggestions and flow history live until you quit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return runShell(cmd.Context(), a.server, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runShell(ctx context.Context, server rpc.Handler, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Harbour shell started")
	fmt.Fprintln(out, "Type 'help' for available commands or 'quit' to exit")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for {
		fmt.Fprint(out, "harbour> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if input == "quit" || input == "exit" {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if input == "help" {
			printHelp(out)
			continue
		}

		handleCommand(ctx, server, out, input)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Available commands:")
	fmt.Fprintln(out, "  help                   - Show this help")
	fmt.Fprintln(out, "  quit/exit              - Exit the shell")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Methods (params as JSON):")
	for _, m := range rpc.Methods {
		fmt.Fprintf(out, "  %s\n", m)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Example usage:")
	fmt.Fprintln(out, `  harbour.task.add {"title":"Fix login bug","importance":8,"estimated_hours":3,"due_date":"07/12/2025"}`)
	fmt.Fprintln(out, `  harbour.task.toggle {"id":"T1"}`)
	fmt.Fprintln(out, `  harbour.task.search {"query":"login","limit":5}`)
	fmt.Fprintln(out, `  harbour.strategy.set {"strategy":"deadline_driven"}`)
	fmt.Fprintln(out, `  harbour.import {"text":"[{\"title\":\"Docs\",\"importance\":3,\"estimated_hours\":1,\"due_date\":\"2025-12-10\"}]"}`)
	fmt.Fprintln(out, "  harbour.analyze")
	fmt.Fprintln(out, "  harbour.flow")
}

// handleCommand runs one shell line. A panic is reported and the session
// carries on with its state intact.
func handleCommand(ctx context.Context, server rpc.Handler, out io.Writer, input string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("Error: internal error: %v", r)))
		}
	}()

	parts := strings.SplitN(input, " ", 2)
	method := parts[0]

	var params json.RawMessage
	if len(parts) > 1 {
		paramStr := strings.TrimSpace(parts[1])
		if !json.Valid([]byte(paramStr)) {
			fmt.Fprintln(out, errorStyle.Render("Error: Invalid JSON parameters"))
			return
		}
		params = json.RawMessage(paramStr)
	}

	result, err := server.HandleCommand(ctx, method, params)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("Error: "+MapError(err).Error()))
		return
	}

	if err := renderJSON(out, result); err != nil {
		fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
	}
}

func init() {
	RootCmd.AddCommand(shellCmd)
}
