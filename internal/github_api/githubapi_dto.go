package githubapi

import "time"

type Owner struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	// Only present when the owner was fetched from the users endpoint.
	Followers *int `json:"followers,omitempty"`
}

type Repository struct {
	Id              int64      `json:"id"`
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Owner           Owner      `json:"owner"`
	Description     *string    `json:"description"`
	HtmlUrl         string     `json:"html_url"`
	StargazersCount int        `json:"stargazers_count"`
	ForksCount      int        `json:"forks_count"`
	WatchersCount   int        `json:"watchers_count"`
	OpenIssuesCount int        `json:"open_issues_count"`
	Archived        bool       `json:"archived"`
	Disabled        bool       `json:"disabled"`
	PushedAt        *time.Time `json:"pushed_at"`

	// Contributors is never part of a REST payload; sources that already know it set it.
	Contributors *int `json:"-"`
}

type User struct {
	Login       string `json:"login"`
	ID          int64  `json:"id"`
	AvatarURL   string `json:"avatar_url"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// Language is one entry of a repository language histogram, in API key order.
type Language struct {
	Name  string
	Bytes int64
}

type SearchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []Repository `json:"items"`
}
