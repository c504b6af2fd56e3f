package crawler

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
)

type fakeSource struct {
	mu sync.Mutex

	// topic query -> all results, paged by perPage
	topics       map[string][]githubapi.Repository
	searchErr    map[string]error
	repositories map[int64]*githubapi.Repository
	repoErr      map[int64]error
	languages    map[string][]githubapi.Language
	avatarErr    map[string]error
	followers    map[string]int
	contributors map[string]int
	user         *githubapi.User
	userRepos    []githubapi.Repository

	onSearch          func(query string, page int)
	searchCalls       []string
	avatarCalls       int
	languageCalls     int
	contributorsCalls int
	followersCalls    int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		topics:       map[string][]githubapi.Repository{},
		searchErr:    map[string]error{},
		repositories: map[int64]*githubapi.Repository{},
		repoErr:      map[int64]error{},
		languages:    map[string][]githubapi.Language{},
		avatarErr:    map[string]error{},
		followers:    map[string]int{},
		contributors: map[string]int{},
	}
}

func (f *fakeSource) SearchRepositories(ctx context.Context, token, query string, page, perPage int) ([]githubapi.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, fmt.Sprintf("%s#%d", query, page))
	if f.onSearch != nil {
		f.onSearch(query, page)
	}
	if err := f.searchErr[query]; err != nil {
		return nil, err
	}
	all := f.topics[query]
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return append([]githubapi.Repository(nil), all[start:end]...), nil
}

func (f *fakeSource) GetRepository(ctx context.Context, token string, id int64) (*githubapi.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.repoErr[id]; err != nil {
		return nil, err
	}
	repo, ok := f.repositories[id]
	if !ok {
		return nil, fmt.Errorf("%w: /repositories/%d", githubapi.ErrNotFound, id)
	}
	copied := *repo
	return &copied, nil
}

func (f *fakeSource) GetLanguages(ctx context.Context, token, owner, repo string) ([]githubapi.Language, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.languageCalls++
	return f.languages[owner+"/"+repo], nil
}

func (f *fakeSource) GetContributorsCount(ctx context.Context, token, owner, repo string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contributorsCalls++
	return f.contributors[owner+"/"+repo], nil
}

func (f *fakeSource) GetFollowersCount(ctx context.Context, token, login string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followersCalls++
	return f.followers[login], nil
}

func (f *fakeSource) GetUserAvatar(ctx context.Context, token, login string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avatarCalls++
	if err := f.avatarErr[login]; err != nil {
		return "", err
	}
	return "https://avatars.example/" + login, nil
}

func (f *fakeSource) GetAuthenticatedUser(ctx context.Context, token string) (*githubapi.User, error) {
	if f.user == nil {
		return nil, githubapi.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeSource) ListUserRepositories(ctx context.Context, token string, limit int) ([]githubapi.Repository, error) {
	if len(f.userRepos) > limit {
		return f.userRepos[:limit], nil
	}
	return f.userRepos, nil
}

// seedTopic adds n repositories with sequential ids to a topic search.
func (f *fakeSource) seedTopic(language string, firstID int64, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + int64(i)
		f.topics[TopicQuery(language)] = append(f.topics[TopicQuery(language)], rawRepo(id, language))
		ids = append(ids, id)
	}
	return ids
}

func rawRepo(id int64, owner string) githubapi.Repository {
	name := "repo" + strconv.FormatInt(id, 10)
	return githubapi.Repository{
		Id:              id,
		Name:            name,
		FullName:        owner + "/" + name,
		Owner:           githubapi.Owner{Login: owner},
		HtmlUrl:         "https://github.com/" + owner + "/" + name,
		StargazersCount: int(id) * 10,
		ForksCount:      int(id),
	}
}

type updateCall struct {
	ID    int64
	Field string
	Value interface{}
}

type fakeCatalog struct {
	projects  []model.Project
	allErr    error
	updateErr map[string]error
	deleteErr map[int64]error
	createErr map[int64]error

	created []int64
	updates []updateCall
	deletes []int64
}

func (c *fakeCatalog) All(ctx context.Context) ([]model.Project, error) {
	if c.allErr != nil {
		return nil, c.allErr
	}
	return append([]model.Project(nil), c.projects...), nil
}

func (c *fakeCatalog) Create(ctx context.Context, project *model.Project) error {
	if err := c.createErr[project.ID]; err != nil {
		return err
	}
	c.created = append(c.created, project.ID)
	return nil
}

func (c *fakeCatalog) UpdateField(ctx context.Context, id int64, field string, value interface{}) error {
	if err := c.updateErr[field]; err != nil {
		return err
	}
	c.updates = append(c.updates, updateCall{ID: id, Field: field, Value: value})
	return nil
}

func (c *fakeCatalog) Delete(ctx context.Context, id int64) error {
	if err := c.deleteErr[id]; err != nil {
		return err
	}
	c.deletes = append(c.deletes, id)
	return nil
}

type fakeUsers struct {
	ids map[string]bool
}

func (u *fakeUsers) Create(ctx context.Context, id string) error {
	if u.ids == nil {
		u.ids = map[string]bool{}
	}
	if u.ids[id] {
		return model.ErrUserExists
	}
	u.ids[id] = true
	return nil
}
