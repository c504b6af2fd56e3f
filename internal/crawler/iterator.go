package crawler

import (
	"context"

	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
)

// RepoIterator reads one topic search lazily, a page at a time.
type RepoIterator struct {
	source  Source
	token   string
	query   string
	perPage int

	page      int
	buffer    []githubapi.Repository
	exhausted bool
}

func NewRepoIterator(source Source, token, query string, perPage int) *RepoIterator {
	if perPage < 1 {
		perPage = 30
	}
	return &RepoIterator{
		source:  source,
		token:   token,
		query:   query,
		perPage: perPage,
	}
}

func TopicQuery(language string) string {
	return "topic:" + language
}

// Next returns the next candidate. ok is false once the stream is exhausted.
// Cancellation is checked once per page, never per item.
func (it *RepoIterator) Next(ctx context.Context) (githubapi.Repository, bool, error) {
	if len(it.buffer) == 0 {
		if it.exhausted {
			return githubapi.Repository{}, false, nil
		}
		if err := ctx.Err(); err != nil {
			return githubapi.Repository{}, false, err
		}

		it.page++
		repos, err := it.source.SearchRepositories(ctx, it.token, it.query, it.page, it.perPage)
		if err != nil {
			it.exhausted = true
			return githubapi.Repository{}, false, &FetchError{Op: "search", Subject: it.query, Err: err}
		}
		if len(repos) < it.perPage || it.page*it.perPage >= SearchWindow {
			it.exhausted = true
		}
		if len(repos) == 0 {
			return githubapi.Repository{}, false, nil
		}
		it.buffer = repos
	}

	repo := it.buffer[0]
	it.buffer = it.buffer[1:]
	return repo, true, nil
}

// Exhausted reports whether no candidate is left.
func (it *RepoIterator) Exhausted() bool {
	return it.exhausted && len(it.buffer) == 0
}

func (it *RepoIterator) Query() string {
	return it.query
}
