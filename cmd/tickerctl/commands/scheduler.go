package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tickerlab/research/backend/internal/scheduler"
	"github.com/tickerlab/research/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the scheduled refresh daemon",
	Long: `Starts the scheduler daemon.

Registered jobs:
  daily-refresh: re-runs the price and metrics stages for every
  onboarded company on the configured cron schedule
  (SCHEDULER_REFRESH_CRON, default weekdays at 6 PM).

The daemon runs until interrupted with Ctrl+C.

Example:
  go run ./cmd/tickerctl scheduler`,
	RunE: runSchedulerDaemon,
}

var (
	schedulerCron   string
	schedulerRunNow bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerCron, "cron", "", "cron spec for the refresh job (default from config)")
	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "run the refresh job once immediately on startup")
}

func runSchedulerDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tickerlab Scheduler ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(a.log)

	cronSpec := a.cfg.Scheduler.RefreshCron
	if schedulerCron != "" {
		cronSpec = schedulerCron
	}

	refresh := jobs.NewRefreshJob(
		a.companies,
		a.orchestrator,
		cronSpec,
		a.cfg.Pipeline.DefaultYears,
		a.log,
	)
	if err := sched.AddJob(refresh); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("\n✅ Scheduler running (%s: %q)\n", refresh.Name(), refresh.Schedule())

	if schedulerRunNow {
		if err := sched.RunJob(refresh.Name()); err != nil {
			return fmt.Errorf("trigger immediate refresh: %w", err)
		}
		fmt.Println("✅ Immediate refresh triggered")
	}

	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if history, err := sched.History(refresh.Name()); err == nil {
		if last, ok := history.Last(); ok {
			fmt.Printf("\nLast refresh: success=%v duration=%s\n", last.Success, last.Duration)
			fmt.Printf("Success rate: %.0f%% over %d runs\n", history.SuccessRate()*100, len(history.Results))
		}
	}

	return nil
}
