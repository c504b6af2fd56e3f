package crawler

import (
	"context"
	"errors"
	"slices"

	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/log"
)

// FieldChange is one column whose live value differs from the stored one.
type FieldChange struct {
	Field string
	Value interface{}
}

type SyncReport struct {
	Checked int
	Updated int
	Deleted int
	Failed  int
}

// Synchronizer reconciles the stored catalog with GitHub.
type Synchronizer struct {
	Logger        log.Logger
	source        Source
	catalog       Catalog
	normalizer    *Normalizer
	policy        DeprecationPolicy
	refreshCounts bool
}

func NewSynchronizer(logger log.Logger, source Source, catalog Catalog, policy DeprecationPolicy, refreshCounts bool) *Synchronizer {
	if policy == nil {
		policy = NeverDeprecated
	}
	return &Synchronizer{
		Logger:        logger,
		source:        source,
		catalog:       catalog,
		normalizer:    NewNormalizer(source),
		policy:        policy,
		refreshCounts: refreshCounts,
	}
}

// Reconcile walks every stored project once. Per-project failures are
// collected and returned joined after the pass.
func (s *Synchronizer) Reconcile(ctx context.Context, token string) (*SyncReport, error) {
	stored, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	s.Logger.Info(ctx, "Reconciling %d projects", len(stored))
	report := &SyncReport{}
	var errs []error

	for i := range stored {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report.Checked++

		projectErrs := s.reconcileProject(ctx, token, &stored[i], report)
		if len(projectErrs) > 0 {
			report.Failed++
			errs = append(errs, projectErrs...)
		}
	}

	s.Logger.Info(ctx, "Reconciliation done: checked=%d updated=%d deleted=%d failed=%d",
		report.Checked, report.Updated, report.Deleted, report.Failed)
	return report, errors.Join(errs...)
}

func (s *Synchronizer) reconcileProject(ctx context.Context, token string, stored *model.Project, report *SyncReport) []error {
	live, fetchErr := s.source.GetRepository(ctx, token, stored.ID)
	if fetchErr != nil {
		fetchErr = &FetchError{Op: "repository", Subject: stored.Username + "/" + stored.Name, Err: fetchErr}
		live = nil
	}

	if s.policy.Deprecated(ctx, stored, live, fetchErr) {
		if err := s.catalog.Delete(ctx, stored.ID); err != nil {
			s.Logger.Error(ctx, "Failed to delete deprecated project %d: %v", stored.ID, err)
			return []error{&StoreError{Op: OpDelete, ProjectID: stored.ID, Err: err}}
		}
		s.Logger.Info(ctx, "Deleted deprecated project %d", stored.ID)
		report.Deleted++
		return nil
	}
	if fetchErr != nil {
		s.Logger.Warn(ctx, "Cannot refresh project %d: %v", stored.ID, fetchErr)
		return []error{fetchErr}
	}

	fresh, err := s.normalizer.normalize(ctx, token, *live, s.refreshCounts)
	if err != nil {
		s.Logger.Warn(ctx, "Cannot normalize project %d: %v", stored.ID, err)
		return []error{err}
	}

	var errs []error
	for _, change := range DiffProject(stored, fresh, s.refreshCounts) {
		if err := s.catalog.UpdateField(ctx, stored.ID, change.Field, change.Value); err != nil {
			s.Logger.Error(ctx, "Failed to update %s of project %d: %v", change.Field, stored.ID, err)
			errs = append(errs, &StoreError{Op: OpUpdate, ProjectID: stored.ID, Field: change.Field, Err: err})
			continue
		}
		report.Updated++
	}
	return errs
}

// DiffProject lists the mutable fields where live differs from stored, in
// column order. Counts are compared only when withCounts is set.
func DiffProject(stored, live *model.Project, withCounts bool) []FieldChange {
	var changes []FieldChange
	add := func(field string, value interface{}) {
		changes = append(changes, FieldChange{Field: field, Value: value})
	}

	if stored.Name != live.Name {
		add(model.FieldName, live.Name)
	}
	if stored.AvatarURL != live.AvatarURL {
		add(model.FieldAvatarURL, live.AvatarURL)
	}
	if !sameDescription(stored.Description, live.Description) {
		add(model.FieldDescription, live.Description)
	}
	if stored.Link != live.Link {
		add(model.FieldLink, live.Link)
	}
	if stored.Username != live.Username {
		add(model.FieldUsername, live.Username)
	}
	if !slices.Equal(stored.Languages, live.Languages) {
		add(model.FieldLanguages, live.Languages)
	}
	if stored.Stars != live.Stars {
		add(model.FieldStars, live.Stars)
	}
	if stored.Forks != live.Forks {
		add(model.FieldForks, live.Forks)
	}
	if withCounts {
		if stored.Contributors != live.Contributors {
			add(model.FieldContributors, live.Contributors)
		}
		if stored.Followers != live.Followers {
			add(model.FieldFollowers, live.Followers)
		}
	}
	return changes
}

func sameDescription(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
