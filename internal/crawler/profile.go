package crawler

import (
	"context"
	"sort"
	"strings"
)

// UserLanguages ranks the languages of the authenticated user's own public
// repositories by how many repositories use them.
func UserLanguages(ctx context.Context, source Source, token string) ([]string, error) {
	user, err := source.GetAuthenticatedUser(ctx, token)
	if err != nil {
		return nil, &FetchError{Op: "user", Subject: "authenticated user", Err: err}
	}

	repos, err := source.ListUserRepositories(ctx, token, ProfileRepositories)
	if err != nil {
		return nil, &FetchError{Op: "repositories", Subject: user.Login, Err: err}
	}

	counts := make(map[string]int)
	var order []string
	for _, repo := range repos {
		if !strings.EqualFold(repo.Owner.Login, user.Login) {
			continue
		}
		histogram, err := source.GetLanguages(ctx, token, repo.Owner.Login, repo.Name)
		if err != nil {
			return nil, &FetchError{Op: "languages", Subject: repo.Owner.Login + "/" + repo.Name, Err: err}
		}
		for _, lang := range histogram {
			name := strings.ToLower(lang.Name)
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order, nil
}
