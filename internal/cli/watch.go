package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/harbour/internal/storage"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint the task list whenever the stored list changes on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s for changes...\n", a.storage.Path())
		renderTasks(out, a.svc.Tasks(), now())

		w, err := storage.NewWatcher(a.storage.Path(), watchDebounce, func() {
			if err := a.svc.Load(ctx); err != nil {
				a.logger.Warnf(ctx, "reload failed: %v", err)
				fmt.Fprintln(out, warnStyle.Render("Could not reload tasks: "+err.Error()))
				return
			}
			fmt.Fprintf(out, "\nChange detected at %s\n", now().Format("15:04:05"))
			renderTasks(out, a.svc.Tasks(), now())
		})
		if err != nil {
			return err
		}

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "wait this long for writes to settle before reloading")
	RootCmd.AddCommand(watchCmd)
}
