// Package crawler builds discovery feeds from GitHub topic searches and keeps
// the stored project catalog in step with the live repositories.
package crawler

import (
	"context"

	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
)

const (
	// MaxFeed is the most projects a single feed session returns.
	MaxFeed = 18
	// LanguageShare is the feed size step after which the next language is searched.
	LanguageShare = 6
	// QueryLanguages is the number of topic languages per session.
	QueryLanguages = 3
	// SearchWindow is how many results GitHub search exposes per query.
	SearchWindow = 1000
	// ProfileRepositories bounds the repositories read for a language profile.
	ProfileRepositories = 10
)

// Source is the GitHub capability the engine reads from.
type Source interface {
	SearchRepositories(ctx context.Context, token, query string, page, perPage int) ([]githubapi.Repository, error)
	GetRepository(ctx context.Context, token string, id int64) (*githubapi.Repository, error)
	GetLanguages(ctx context.Context, token, owner, repo string) ([]githubapi.Language, error)
	GetContributorsCount(ctx context.Context, token, owner, repo string) (int, error)
	GetFollowersCount(ctx context.Context, token, login string) (int, error)
	GetUserAvatar(ctx context.Context, token, login string) (string, error)
	GetAuthenticatedUser(ctx context.Context, token string) (*githubapi.User, error)
	ListUserRepositories(ctx context.Context, token string, limit int) ([]githubapi.Repository, error)
}

// Catalog is the persisted projects table.
type Catalog interface {
	All(ctx context.Context) ([]model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	UpdateField(ctx context.Context, id int64, field string, value interface{}) error
	Delete(ctx context.Context, id int64) error
}

// UserRegistry is the persisted users table.
type UserRegistry interface {
	Create(ctx context.Context, id string) error
}

// SwipeSet holds the project ids a user already evaluated.
type SwipeSet map[string]struct{}

func NewSwipeSet(ids ...string) SwipeSet {
	set := make(SwipeSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s SwipeSet) Has(id string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[id]
	return ok
}
