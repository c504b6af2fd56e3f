package cli

import (
	"context"
	"time"

	"github.com/boushrabettir/ginder-backend/internal/ingest"
	"github.com/boushrabettir/ginder-backend/internal/scheduler"
	"github.com/boushrabettir/ginder-backend/internal/server"
	"github.com/boushrabettir/ginder-backend/internal/swipe"
	"github.com/boushrabettir/ginder-backend/pkg/cache"
	"github.com/boushrabettir/ginder-backend/pkg/kafka"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Bool("with-sync", false, "Also reconcile the catalog on sync.schedule")
	cmd.Flags().Bool("no-publish", false, "Do not publish feeds to Kafka")
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	withSync, _ := cmd.Flags().GetBool("with-sync")
	noPublish, _ := cmd.Flags().GetBool("no-publish")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	a.watchConfig()

	redis, _ := cache.NewRedis(a.Config)
	defer redis.Close()
	if err := redis.Ping(ctx); err != nil {
		a.Logger.Warn(ctx, "Redis is not reachable yet: %v", err)
	}
	swipes := swipe.NewStore(a.Logger, redis.Client())

	var publisher server.FeedPublisher
	if !noPublish {
		producer, err := kafka.NewProducer(a.Config, a.Logger, a.Config.Kafka.Producer.TopicProject)
		if err != nil {
			a.Logger.Warn(ctx, "Feed publishing disabled: %v", err)
		} else {
			defer producer.Close()
			publisher = ingest.NewPublisher(a.Logger, producer)
		}
	}

	handler := server.NewHandler(a.Logger, a.Config, a.Engine, swipes, a.ProjectMd, publisher)
	srv, err := server.NewServer(a.Logger, a.Config, handler)
	if err != nil {
		return err
	}

	var s *scheduler.Scheduler
	if withSync {
		s, err = scheduler.NewScheduler(a.Logger, a.Engine, a.Config.Sync.Schedule, a.Config.GithubApi.AccessToken, time.Hour)
		if err != nil {
			return err
		}
		s.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		a.Logger.Info(context.Background(), "Received shutdown signal, gracefully shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if stopErr := srv.Stop(shutdownCtx); stopErr != nil {
		a.Logger.Error(shutdownCtx, "Error during server shutdown: %v", stopErr)
	}
	if s != nil {
		s.Stop(shutdownCtx)
	}
	return err
}
