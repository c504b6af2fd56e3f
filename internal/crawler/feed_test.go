package crawler

import (
	"context"
	"errors"
	"testing"

	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedLanguages = []string{"go", "rust", "zig"}

func newTestFeedBuilder(source Source, perPage int) *FeedBuilder {
	return NewFeedBuilder(log.NopLogger{}, NewLanguageSelector(1), source, perPage)
}

func feedIDs(feed []model.Project) []int64 {
	ids := make([]int64, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFeedBuilder_RoundRobin(t *testing.T) {
	source := newFakeSource()
	goIDs := source.seedTopic("go", 1, 10)
	rustIDs := source.seedTopic("rust", 101, 10)
	zigIDs := source.seedTopic("zig", 201, 10)

	feed, searched, err := newTestFeedBuilder(source, 5).Build(context.Background(), feedLanguages, "token", nil)
	require.NoError(t, err)
	assert.Equal(t, feedLanguages, searched)

	var expected []int64
	expected = append(expected, goIDs[:6]...)
	expected = append(expected, rustIDs[:6]...)
	expected = append(expected, zigIDs[:6]...)
	assert.Equal(t, expected, feedIDs(feed))
}

func TestFeedBuilder_NeverExceedsMaxFeed(t *testing.T) {
	source := newFakeSource()
	source.seedTopic("go", 1, 60)
	source.seedTopic("rust", 101, 60)
	source.seedTopic("zig", 201, 60)

	feed, _, err := newTestFeedBuilder(source, 30).Build(context.Background(), feedLanguages, "", nil)
	require.NoError(t, err)
	assert.Len(t, feed, MaxFeed)
	// normalization only happens for kept candidates
	assert.Equal(t, MaxFeed, source.avatarCalls)
}

func TestFeedBuilder_AdvancesOnExhaustion(t *testing.T) {
	source := newFakeSource()
	source.seedTopic("go", 1, 2)
	source.seedTopic("rust", 101, 8)
	source.seedTopic("zig", 201, 3)

	feed, _, err := newTestFeedBuilder(source, 5).Build(context.Background(), feedLanguages, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 101, 102, 103, 104, 201, 202, 203, 105, 106, 107, 108}, feedIDs(feed))
}

func TestFeedBuilder_TerminatesWhenEverythingIsEmpty(t *testing.T) {
	source := newFakeSource()

	feed, _, err := newTestFeedBuilder(source, 5).Build(context.Background(), feedLanguages, "", nil)
	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.Len(t, source.searchCalls, 3)
}

func TestFeedBuilder_ExcludesSwiped(t *testing.T) {
	source := newFakeSource()
	source.seedTopic("go", 40, 10)

	swiped := NewSwipeSet("42")
	feed, _, err := newTestFeedBuilder(source, 30).Build(context.Background(), feedLanguages, "", swiped)
	require.NoError(t, err)

	assert.Equal(t, []int64{40, 41, 43, 44, 45, 46, 47, 48, 49}, feedIDs(feed))
	// the swiped candidate is dropped before any remote lookup
	assert.Equal(t, 9, source.avatarCalls)
	assert.Equal(t, 9, source.languageCalls)
}

func TestFeedBuilder_SkipsRepeatedCandidates(t *testing.T) {
	source := newFakeSource()
	source.seedTopic("go", 1, 3)
	source.topics[TopicQuery("rust")] = []githubapi.Repository{rawRepo(2, "rust"), rawRepo(300, "rust")}

	feed, _, err := newTestFeedBuilder(source, 30).Build(context.Background(), feedLanguages, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 300}, feedIDs(feed))
}

func TestFeedBuilder_SkipsCandidatesThatFailNormalization(t *testing.T) {
	source := newFakeSource()
	source.topics[TopicQuery("go")] = []githubapi.Repository{rawRepo(1, "octo"), rawRepo(2, "broken"), rawRepo(3, "octo")}
	source.avatarErr["broken"] = errors.New("invalid character '<'")

	feed, _, err := newTestFeedBuilder(source, 30).Build(context.Background(), feedLanguages, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, feedIDs(feed))
}

func TestFeedBuilder_ReportsFailuresOnEmptyFeed(t *testing.T) {
	source := newFakeSource()
	for _, lang := range feedLanguages {
		source.searchErr[TopicQuery(lang)] = &githubapi.StatusError{Path: "/search/repositories", StatusCode: 502}
	}

	feed, _, err := newTestFeedBuilder(source, 30).Build(context.Background(), feedLanguages, "", nil)
	assert.Empty(t, feed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteFetchFailed)
}

func TestFeedBuilder_Cancellation(t *testing.T) {
	t.Run("cancelled before the first page", func(t *testing.T) {
		source := newFakeSource()
		source.seedTopic("go", 1, 10)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		feed, _, err := newTestFeedBuilder(source, 5).Build(ctx, feedLanguages, "", nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, feed)
		assert.Empty(t, source.searchCalls)
	})

	t.Run("checked once per page", func(t *testing.T) {
		source := newFakeSource()
		source.seedTopic("go", 1, 10)
		ctx, cancel := context.WithCancel(context.Background())
		source.onSearch = func(query string, page int) { cancel() }

		feed, _, err := newTestFeedBuilder(source, 5).Build(ctx, feedLanguages, "", nil)
		assert.ErrorIs(t, err, context.Canceled)
		// the page already fetched is still consumed
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, feedIDs(feed))
		assert.Len(t, source.searchCalls, 1)
	})
}

func TestRepoIterator_StopsAtSearchWindow(t *testing.T) {
	source := newFakeSource()
	source.seedTopic("go", 1, SearchWindow+200)

	it := NewRepoIterator(source, "", TopicQuery("go"), 100)
	count := 0
	for {
		_, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, SearchWindow, count)
	assert.Len(t, source.searchCalls, SearchWindow/100)
	assert.True(t, it.Exhausted())
}

func TestRepoIterator_SearchFailureExhausts(t *testing.T) {
	source := newFakeSource()
	source.searchErr[TopicQuery("go")] = githubapi.ErrRateLimited

	it := NewRepoIterator(source, "", TopicQuery("go"), 10)
	_, ok, err := it.Next(context.Background())
	assert.False(t, ok)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "search", fetchErr.Op)
	assert.ErrorIs(t, err, githubapi.ErrRateLimited)
	assert.True(t, it.Exhausted())
}

func TestFeedBuilder_ReportsSearchedDefaults(t *testing.T) {
	source := newFakeSource()

	_, searched, err := newTestFeedBuilder(source, 5).Build(context.Background(), nil, "", nil)
	require.NoError(t, err)
	require.Len(t, searched, QueryLanguages)
	for _, lang := range searched {
		assert.Contains(t, DefaultLanguages, lang)
		assert.Contains(t, source.searchCalls, TopicQuery(lang)+"#1")
	}
}
