package crawler

import (
	"context"
	"sort"
	"strings"

	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
)

// Normalizer maps raw GitHub repositories into catalog projects.
type Normalizer struct {
	source Source
}

// userSource is implemented by sources that return the whole user profile,
// which carries both the avatar and the follower count.
type userSource interface {
	GetUser(ctx context.Context, token, login string) (*githubapi.User, error)
}

var _ userSource = (*githubapi.Caller)(nil)

func NewNormalizer(source Source) *Normalizer {
	return &Normalizer{source: source}
}

// Normalize fetches the owner avatar, the top languages and any count the raw
// repository does not already carry.
func (n *Normalizer) Normalize(ctx context.Context, token string, raw githubapi.Repository) (*model.Project, error) {
	return n.normalize(ctx, token, raw, true)
}

func (n *Normalizer) normalize(ctx context.Context, token string, raw githubapi.Repository, withCounts bool) (*model.Project, error) {
	owner := raw.Owner.Login
	subject := owner + "/" + raw.Name

	var (
		avatar    string
		followers *int
	)
	if users, ok := n.source.(userSource); ok {
		user, err := users.GetUser(ctx, token, owner)
		if err != nil {
			return nil, &FetchError{Op: "avatar", Subject: owner, Err: err}
		}
		avatar = user.AvatarURL
		followers = &user.Followers
	} else {
		var err error
		if avatar, err = n.source.GetUserAvatar(ctx, token, owner); err != nil {
			return nil, &FetchError{Op: "avatar", Subject: owner, Err: err}
		}
	}

	histogram, err := n.source.GetLanguages(ctx, token, owner, raw.Name)
	if err != nil {
		return nil, &FetchError{Op: "languages", Subject: subject, Err: err}
	}

	project := &model.Project{
		ID:          raw.Id,
		Name:        raw.Name,
		AvatarURL:   avatar,
		Description: raw.Description,
		Link:        raw.HtmlUrl,
		Username:    owner,
		Languages:   TopLanguages(histogram, QueryLanguages),
		Stars:       raw.StargazersCount,
		Forks:       raw.ForksCount,
	}

	if !withCounts {
		return project, nil
	}

	if raw.Contributors != nil {
		project.Contributors = *raw.Contributors
	} else {
		contributors, err := n.source.GetContributorsCount(ctx, token, owner, raw.Name)
		if err != nil {
			return nil, &FetchError{Op: "contributors", Subject: subject, Err: err}
		}
		project.Contributors = contributors
	}

	switch {
	case raw.Owner.Followers != nil:
		project.Followers = *raw.Owner.Followers
	case followers != nil:
		project.Followers = *followers
	default:
		count, err := n.source.GetFollowersCount(ctx, token, owner)
		if err != nil {
			return nil, &FetchError{Op: "followers", Subject: owner, Err: err}
		}
		project.Followers = count
	}

	return project, nil
}

// TopLanguages ranks by bytes, ties keeping histogram order, and lowercases the first limit names.
func TopLanguages(histogram []githubapi.Language, limit int) model.Languages {
	ranked := append([]githubapi.Language(nil), histogram...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Bytes > ranked[j].Bytes
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	languages := make(model.Languages, 0, len(ranked))
	for _, lang := range ranked {
		languages = append(languages, strings.ToLower(lang.Name))
	}
	return languages
}
