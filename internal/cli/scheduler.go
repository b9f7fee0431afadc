package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blogforge-backend/internal/background"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run background jobs in the foreground",
	Long:  "Run the scheduled-post publisher, session cleanup, counter repair, and auto-generation loop until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := newToolkit()
		if err != nil {
			return err
		}
		defer tk.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scheduler := background.NewScheduler(background.SchedulerConfig{
			WorkerCount: 2,
			QueueSize:   16,
		})
		scheduler.Start(ctx)

		if err := background.RegisterJobs(scheduler, tk.cfg, tk.post, tk.session, tk.notification, tk.ai); err != nil {
			return err
		}

		fmt.Println("Scheduler running, press Ctrl+C to stop")
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return scheduler.Shutdown(shutdownCtx)
	},
}
