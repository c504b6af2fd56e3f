package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/boushrabettir/ginder-backend/cfg"
	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, source Source, catalog Catalog, users UserRegistry) *Engine {
	t.Helper()
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	config.Discovery.Seed = 5

	engine, err := NewEngine(log.NopLogger{}, config, source, catalog, users)
	require.NoError(t, err)
	return engine
}

func TestUserLanguages(t *testing.T) {
	source := newFakeSource()
	source.user = &githubapi.User{Login: "me"}
	source.userRepos = []githubapi.Repository{
		{Name: "a", Owner: githubapi.Owner{Login: "me"}},
		{Name: "b", Owner: githubapi.Owner{Login: "me"}},
		{Name: "forked", Owner: githubapi.Owner{Login: "someone"}},
		{Name: "c", Owner: githubapi.Owner{Login: "Me"}},
	}
	source.languages["me/a"] = []githubapi.Language{{Name: "Go", Bytes: 10}, {Name: "Shell", Bytes: 1}}
	source.languages["me/b"] = []githubapi.Language{{Name: "Rust", Bytes: 10}, {Name: "Go", Bytes: 5}}
	source.languages["someone/forked"] = []githubapi.Language{{Name: "Java", Bytes: 1000}}
	source.languages["Me/c"] = []githubapi.Language{{Name: "Rust", Bytes: 1}, {Name: "Shell", Bytes: 1}, {Name: "Go", Bytes: 1}}

	languages, err := UserLanguages(context.Background(), source, "token")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "shell", "rust"}, languages)
}

func TestUserLanguages_Unauthenticated(t *testing.T) {
	_, err := UserLanguages(context.Background(), newFakeSource(), "")
	assert.ErrorIs(t, err, ErrRemoteFetchFailed)
	assert.ErrorIs(t, err, githubapi.ErrNotFound)
}

func TestEngine_BuildFeed(t *testing.T) {
	source := newFakeSource()
	source.seedTopic("go", 1, 4)

	engine := newTestEngine(t, source, &fakeCatalog{}, &fakeUsers{})
	feed, searched, err := engine.BuildFeed(context.Background(), []string{"go", "zig", "rust"}, "", NewSwipeSet("2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "zig", "rust"}, searched)
	assert.Equal(t, []int64{1, 3, 4}, feedIDs(feed))
}

func TestEngine_RegisterUser(t *testing.T) {
	engine := newTestEngine(t, newFakeSource(), &fakeCatalog{}, &fakeUsers{})

	require.NoError(t, engine.RegisterUser(context.Background(), "user-1"))
	assert.ErrorIs(t, engine.RegisterUser(context.Background(), "user-1"), model.ErrUserExists)
	assert.Error(t, engine.RegisterUser(context.Background(), ""))
}

func TestEngine_SaveProjects(t *testing.T) {
	catalog := &fakeCatalog{createErr: map[int64]error{2: errors.New("Data too long for column 'name'")}}
	engine := newTestEngine(t, newFakeSource(), catalog, &fakeUsers{})

	err := engine.SaveProjects(context.Background(), []model.Project{{ID: 1}, {ID: 2}, {ID: 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsertionFailed)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, int64(2), storeErr.ProjectID)
	assert.Equal(t, []int64{1, 3}, catalog.created)
}

func TestEngine_ReconcileCatalog(t *testing.T) {
	source, stored := syncFixture(42)
	stored.Forks = 0
	catalog := &fakeCatalog{projects: []model.Project{*stored}}

	engine := newTestEngine(t, source, catalog, &fakeUsers{})
	report, err := engine.ReconcileCatalog(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, []updateCall{{ID: 42, Field: model.FieldForks, Value: 42}}, catalog.updates)
}

func TestNewEngine_UnknownPolicy(t *testing.T) {
	config := &cfg.Config{Sync: cfg.Sync{Deprecation: "sometimes"}}
	_, err := NewEngine(log.NopLogger{}, config, newFakeSource(), &fakeCatalog{}, &fakeUsers{})
	assert.Error(t, err)
}
