package crawler

import (
	"context"
	"errors"
	"strconv"

	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/log"
)

// FeedBuilder assembles one bounded discovery feed.
type FeedBuilder struct {
	Logger     log.Logger
	selector   *LanguageSelector
	source     Source
	normalizer *Normalizer
	perPage    int
}

func NewFeedBuilder(logger log.Logger, selector *LanguageSelector, source Source, perPage int) *FeedBuilder {
	return &FeedBuilder{
		Logger:     logger,
		selector:   selector,
		source:     source,
		normalizer: NewNormalizer(source),
		perPage:    perPage,
	}
}

// Build searches the selected topics round-robin, LanguageShare projects at a
// time, skipping swiped ids, until MaxFeed projects are collected or every
// topic stream runs dry. It also returns the languages that were searched.
func (b *FeedBuilder) Build(ctx context.Context, userLanguages []string, token string, swiped SwipeSet) ([]model.Project, []string, error) {
	languages, err := b.selector.Select(userLanguages)
	if err != nil {
		return nil, nil, err
	}
	b.Logger.Info(ctx, "Building feed for languages %v", languages)

	streams := make([]*RepoIterator, len(languages))
	for i, lang := range languages {
		streams[i] = NewRepoIterator(b.source, token, TopicQuery(lang), b.perPage)
	}

	feed := make([]model.Project, 0, MaxFeed)
	inFeed := make(map[int64]struct{}, MaxFeed)
	var failures []error
	current := 0

	for len(feed) < MaxFeed {
		if streams[current].Exhausted() {
			next, ok := nextStream(streams, current)
			if !ok {
				break
			}
			current = next
		}

		raw, ok, err := streams[current].Next(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				b.Logger.Warn(ctx, "Feed cancelled with %d projects", len(feed))
				return feed, languages, ctxErr
			}
			b.Logger.Warn(ctx, "Search stream %s stopped: %v", streams[current].Query(), err)
			failures = append(failures, err)
			continue
		}
		if !ok {
			continue
		}

		if swiped.Has(strconv.FormatInt(raw.Id, 10)) {
			continue
		}
		if _, dup := inFeed[raw.Id]; dup {
			continue
		}

		project, err := b.normalizer.Normalize(ctx, token, raw)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return feed, languages, ctxErr
			}
			b.Logger.Warn(ctx, "Skipping repository %d: %v", raw.Id, err)
			failures = append(failures, err)
			continue
		}

		feed = append(feed, *project)
		inFeed[raw.Id] = struct{}{}

		if len(feed)%LanguageShare == 0 && len(feed) < MaxFeed {
			if next, ok := nextStream(streams, current); ok {
				current = next
			}
		}
	}

	b.Logger.Info(ctx, "Feed built with %d projects", len(feed))
	if len(feed) == 0 && len(failures) > 0 {
		return feed, languages, errors.Join(failures...)
	}
	return feed, languages, nil
}

// nextStream finds the next non-exhausted stream after current, wrapping around.
func nextStream(streams []*RepoIterator, current int) (int, bool) {
	for step := 1; step <= len(streams); step++ {
		idx := (current + step) % len(streams)
		if !streams[idx].Exhausted() {
			return idx, true
		}
	}
	return current, false
}
