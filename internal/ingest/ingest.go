// Package ingest moves discovered projects through Kafka into the catalog.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/boushrabettir/ginder-backend/internal/crawler"
	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/kafka"
	"github.com/boushrabettir/ginder-backend/pkg/log"
)

// ProjectKey is the message key of project records on the topic.
const ProjectKey = "project"

// ErrBatcherStopped is returned for messages handed over after shutdown began.
var ErrBatcherStopped = errors.New("batcher stopped")

type batchPublisher interface {
	PublishBatch(ctx context.Context, messages []kafka.Message) error
}

// Publisher sends feed projects to the catalog topic.
type Publisher struct {
	Logger   log.Logger
	producer batchPublisher
}

func NewPublisher(logger log.Logger, producer batchPublisher) *Publisher {
	return &Publisher{
		Logger:   logger,
		producer: producer,
	}
}

func (p *Publisher) PublishProjects(ctx context.Context, projects []model.Project) error {
	messages := make([]kafka.Message, 0, len(projects))
	for i := range projects {
		messages = append(messages, kafka.Message{Key: ProjectKey, Value: projects[i]})
	}
	if err := p.producer.PublishBatch(ctx, messages); err != nil {
		return err
	}
	p.Logger.Info(ctx, "Published %d projects", len(projects))
	return nil
}

type batchCatalog interface {
	crawler.Catalog
	CreateBatch(ctx context.Context, projects []model.Project) error
}

// Batcher groups incoming projects and writes them to the catalog by size or timeout.
type Batcher struct {
	Logger       log.Logger
	catalog      batchCatalog
	batchSize    int
	batchTimeout time.Duration
	messages     chan model.Project

	// mu is held for reading while a message is being queued; Run takes it
	// for writing before its final drain so no send can land after it.
	mu       sync.RWMutex
	stopped  bool
	stopping chan struct{}
}

func NewBatcher(logger log.Logger, catalog batchCatalog, batchSize int, batchTimeout time.Duration) *Batcher {
	if batchSize < 1 {
		batchSize = 100
	}
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}
	return &Batcher{
		Logger:       logger,
		catalog:      catalog,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		messages:     make(chan model.Project, batchSize*2),
		stopping:     make(chan struct{}),
	}
}

// Handle decodes one message value and queues it; it is a kafka consumer handler.
// A nil return means the project will be written by Run.
func (b *Batcher) Handle(ctx context.Context) func([]byte) error {
	return func(data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		var project model.Project
		if err := json.Unmarshal(data, &project); err != nil {
			return fmt.Errorf("failed to unmarshal project message: %w", err)
		}
		if project.ID == 0 {
			return fmt.Errorf("project message without id")
		}

		b.mu.RLock()
		defer b.mu.RUnlock()
		if b.stopped {
			return ErrBatcherStopped
		}

		select {
		case b.messages <- project:
			return nil
		case <-b.stopping:
			return ErrBatcherStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run flushes batches until ctx is done, then flushes everything Handle
// accepted. Cancel ctx only after the consumer feeding Handle has stopped.
func (b *Batcher) Run(ctx context.Context) {
	var batch []model.Project
	timer := time.NewTimer(b.batchTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			close(b.stopping)
			b.mu.Lock()
			b.stopped = true
			b.mu.Unlock()

			for {
				select {
				case project := <-b.messages:
					batch = append(batch, project)
				default:
					if len(batch) > 0 {
						b.flush(context.WithoutCancel(ctx), batch)
					}
					return
				}
			}

		case project := <-b.messages:
			batch = append(batch, project)
			if len(batch) >= b.batchSize {
				b.flush(ctx, batch)
				batch = nil
				timer.Reset(b.batchTimeout)
			}

		case <-timer.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = nil
			}
			timer.Reset(b.batchTimeout)
		}
	}
}

// flush writes one batch; a failed batch falls back to per-project inserts.
func (b *Batcher) flush(ctx context.Context, batch []model.Project) {
	b.Logger.Info(ctx, "Processing batch of %d projects", len(batch))

	if err := b.catalog.CreateBatch(ctx, batch); err != nil {
		b.Logger.Warn(ctx, "Batch insert failed, inserting one by one: %v", err)
		if err := crawler.InsertProjects(ctx, b.catalog, batch); err != nil {
			b.Logger.Error(ctx, "Failed to save projects: %v", err)
		}
		return
	}
	b.Logger.Info(ctx, "Successfully saved batch of %d projects", len(batch))
}
