package crawler

import (
	"context"
	"errors"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/log"
)

// Engine bundles the operations exposed to the server, the CLI and the scheduler.
type Engine struct {
	Logger       log.Logger
	Config       *cfg.Config
	source       Source
	catalog      Catalog
	users        UserRegistry
	feed         *FeedBuilder
	synchronizer *Synchronizer
}

func NewEngine(logger log.Logger, config *cfg.Config, source Source, catalog Catalog, users UserRegistry) (*Engine, error) {
	policy, err := FactoryDeprecation(config.Sync.Deprecation, config)
	if err != nil {
		return nil, err
	}

	selector := NewLanguageSelector(config.Discovery.Seed)
	return &Engine{
		Logger:       logger,
		Config:       config,
		source:       source,
		catalog:      catalog,
		users:        users,
		feed:         NewFeedBuilder(logger, selector, source, config.GithubApi.PerPage),
		synchronizer: NewSynchronizer(logger, source, catalog, policy, config.Sync.RefreshCounts),
	}, nil
}

func (e *Engine) BuildFeed(ctx context.Context, userLanguages []string, token string, swiped SwipeSet) ([]model.Project, []string, error) {
	return e.feed.Build(ctx, userLanguages, token, swiped)
}

func (e *Engine) ReconcileCatalog(ctx context.Context, token string) (*SyncReport, error) {
	return e.synchronizer.Reconcile(ctx, token)
}

func (e *Engine) RegisterUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	return e.users.Create(ctx, userID)
}

func (e *Engine) UserLanguages(ctx context.Context, token string) ([]string, error) {
	return UserLanguages(ctx, e.source, token)
}

func (e *Engine) SaveProjects(ctx context.Context, projects []model.Project) error {
	return InsertProjects(ctx, e.catalog, projects)
}

// InsertProjects inserts every project, continuing past failures.
func InsertProjects(ctx context.Context, catalog Catalog, projects []model.Project) error {
	var errs []error
	for i := range projects {
		if err := catalog.Create(ctx, &projects[i]); err != nil {
			errs = append(errs, &StoreError{Op: OpInsert, ProjectID: projects[i].ID, Err: err})
		}
	}
	return errors.Join(errs...)
}
