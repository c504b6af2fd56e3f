package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/boushrabettir/ginder-backend/internal/scheduler"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the stored catalog with GitHub",
		Args:  cobra.NoArgs,
		RunE:  runSync,
	}
	cmd.Flags().Bool("schedule", false, "Keep running and reconcile on sync.schedule")
	cmd.Flags().Duration("timeout", time.Hour, "Upper bound of one reconciliation pass")
	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	schedule, _ := cmd.Flags().GetBool("schedule")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if !schedule {
		passCtx, passCancel := context.WithTimeout(ctx, timeout)
		defer passCancel()

		report, err := a.Engine.ReconcileCatalog(passCtx, a.Config.GithubApi.AccessToken)
		if report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d updated=%d deleted=%d failed=%d\n",
				report.Checked, report.Updated, report.Deleted, report.Failed)
		}
		return err
	}

	a.watchConfig()
	s, err := scheduler.NewScheduler(a.Logger, a.Engine, a.Config.Sync.Schedule, a.Config.GithubApi.AccessToken, timeout)
	if err != nil {
		return err
	}
	s.Start(ctx)
	<-ctx.Done()

	a.Logger.Info(context.Background(), "Received shutdown signal, waiting for the running sync...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	s.Stop(stopCtx)
	return nil
}
