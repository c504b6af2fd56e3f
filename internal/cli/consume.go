package cli

import (
	"context"
	"time"

	"github.com/boushrabettir/ginder-backend/internal/ingest"
	"github.com/boushrabettir/ginder-backend/pkg/kafka"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "consume",
		Short: "Insert projects published on the feed topic into the catalog",
		Args:  cobra.NoArgs,
		RunE:  runConsume,
	})
}

func runConsume(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()
	a.watchConfig()

	consumerCfg := a.Config.Kafka.Consumer
	consumer, err := kafka.NewConsumer(a.Config, a.Logger, a.Config.Kafka.Producer.TopicProject, consumerCfg.GroupID)
	if err != nil {
		return err
	}

	batcher := ingest.NewBatcher(a.Logger, a.ProjectMd, consumerCfg.BatchSize, time.Duration(consumerCfg.BatchTimeoutSec)*time.Second)
	consumer.RegisterHandler(ingest.ProjectKey, batcher.Handle(ctx))

	// the batcher outlives the consumer so every accepted message is flushed
	batchCtx, batchCancel := context.WithCancel(context.Background())
	defer batchCancel()
	done := make(chan struct{})
	go func() {
		batcher.Run(batchCtx)
		close(done)
	}()

	a.Logger.Info(ctx, "Project consumer started")
	err = consumer.Start(ctx)
	batchCancel()
	<-done
	a.Logger.Info(context.Background(), "Project consumer stopped")
	return err
}
