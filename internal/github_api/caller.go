// Package githubapi is the GitHub REST caller used for discovery and synchronization.
// Every call takes the user's token; an empty token falls back to the configured one.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/internal/limiter"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrNotFound    = errors.New("github: resource not found")
	ErrEmptyBody   = errors.New("github: empty response body")
	ErrInvalidBody = errors.New("github: response body is not valid JSON")
	ErrRateLimited = errors.New("github: rate limit exceeded")
)

// StatusError is a non-2xx response other than 404 and throttling.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s returned status %d", e.Path, e.StatusCode)
}

var lastPagePattern = regexp.MustCompile(`[?&]page=(\d+)[^>]*>;\s*rel="last"`)

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	client      *http.Client
	rateLimiter *limiter.RateLimiter
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time
}

func NewCaller(logger log.Logger, config *cfg.Config) *Caller {
	timeout := time.Duration(config.GithubApi.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Caller{
		Logger:      logger,
		Config:      config,
		client:      &http.Client{Timeout: timeout},
		rateLimiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
		sleep:       sleepContext,
		now:         time.Now,
	}
}

// HandleRateLimit reports whether resp is a throttling response and how long to back off.
func (c *Caller) HandleRateLimit(ctx context.Context, resp *http.Response) (time.Duration, bool) {
	rateRemaining := resp.Header.Get("X-RateLimit-Remaining")
	retryAfter := resp.Header.Get("Retry-After")

	throttled := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && (rateRemaining == "0" || retryAfter != ""))
	if !throttled {
		return 0, false
	}

	fallback := time.Duration(c.Config.GithubApi.RateLimitResetMin) * time.Minute
	waitTime := fallback

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
		waitTime = time.Duration(seconds) * time.Second
	} else if resetUnix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		waitTime = time.Unix(resetUnix, 0).Sub(c.now())
		if waitTime < 0 {
			waitTime = fallback
		}
	}

	if maxBackoff := time.Duration(c.Config.GithubApi.MaxBackoffSec) * time.Second; maxBackoff > 0 && waitTime > maxBackoff {
		waitTime = maxBackoff
	}

	c.Logger.Warn(ctx, "Rate limit hit (status %d), backing off for %v", resp.StatusCode, waitTime.Round(time.Second))
	return waitTime, true
}

func (c *Caller) token(token string) string {
	if token != "" {
		return token
	}
	return c.Config.GithubApi.AccessToken
}

func (c *Caller) do(ctx context.Context, token, path string, query url.Values) ([]byte, http.Header, error) {
	fullUrl := strings.TrimRight(c.Config.GithubApi.ApiUrl, "/") + path
	if len(query) > 0 {
		fullUrl += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
		if err != nil {
			return nil, nil, err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if t := c.token(token); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}

		c.Logger.Debug(ctx, "Calling GitHub API: %s", fullUrl)
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot send request to %s: %w", path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read response from %s: %w", path, err)
		}

		if waitTime, limited := c.HandleRateLimit(ctx, resp); limited {
			if attempt >= c.Config.GithubApi.MaxRetries {
				return nil, nil, fmt.Errorf("%w: %s", ErrRateLimited, path)
			}
			if err := c.sleep(ctx, waitTime); err != nil {
				return nil, nil, err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
		}
		return body, resp.Header, nil
	}
}

func (c *Caller) getJSON(ctx context.Context, token, path string, query url.Values, subject string, out interface{}) (http.Header, error) {
	body, header, err := c.do(ctx, token, path, query)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return header, fmt.Errorf("%w: %s", ErrEmptyBody, subject)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return header, fmt.Errorf("%w: %s: %v", ErrInvalidBody, subject, err)
	}
	return header, nil
}

func (c *Caller) SearchRepositories(ctx context.Context, token, query string, page, perPage int) ([]Repository, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	rawResponse := &SearchResponse{}
	if _, err := c.getJSON(ctx, token, "/search/repositories", params, "search "+query, rawResponse); err != nil {
		return nil, err
	}

	c.Logger.Debug(ctx, "Search %q: total %d, page %d, items received %d",
		query, rawResponse.TotalCount, page, len(rawResponse.Items))
	return rawResponse.Items, nil
}

func (c *Caller) GetRepository(ctx context.Context, token string, id int64) (*Repository, error) {
	repo := &Repository{}
	path := "/repositories/" + strconv.FormatInt(id, 10)
	if _, err := c.getJSON(ctx, token, path, nil, "repository "+strconv.FormatInt(id, 10), repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// GetLanguages returns the language histogram in the order GitHub sent its keys.
func (c *Caller) GetLanguages(ctx context.Context, token, owner, repo string) ([]Language, error) {
	histogram := orderedmap.New[string, int64]()
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/languages"
	if _, err := c.getJSON(ctx, token, path, nil, "languages of "+owner+"/"+repo, histogram); err != nil {
		return nil, err
	}

	languages := make([]Language, 0, histogram.Len())
	for pair := histogram.Oldest(); pair != nil; pair = pair.Next() {
		languages = append(languages, Language{Name: pair.Key, Bytes: pair.Value})
	}
	return languages, nil
}

// GetContributorsCount asks for one contributor per page and reads the count off the last page link.
func (c *Caller) GetContributorsCount(ctx context.Context, token, owner, repo string) (int, error) {
	params := url.Values{}
	params.Set("per_page", "1")
	params.Set("anon", "true")
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/contributors"

	body, header, err := c.do(ctx, token, path, params)
	if err != nil {
		return 0, err
	}

	if match := lastPagePattern.FindStringSubmatch(header.Get("Link")); match != nil {
		return strconv.Atoi(match[1])
	}

	// No pagination: 0 or 1 contributor, 204 for an empty repository
	if len(bytes.TrimSpace(body)) == 0 {
		return 0, nil
	}
	var contributors []json.RawMessage
	if err := json.Unmarshal(body, &contributors); err != nil {
		return 0, fmt.Errorf("%w: contributors of %s/%s: %v", ErrInvalidBody, owner, repo, err)
	}
	return len(contributors), nil
}

func (c *Caller) GetUser(ctx context.Context, token, login string) (*User, error) {
	user := &User{}
	if _, err := c.getJSON(ctx, token, "/users/"+url.PathEscape(login), nil, "user "+login, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Caller) GetFollowersCount(ctx context.Context, token, login string) (int, error) {
	user, err := c.GetUser(ctx, token, login)
	if err != nil {
		return 0, err
	}
	return user.Followers, nil
}

func (c *Caller) GetUserAvatar(ctx context.Context, token, login string) (string, error) {
	user, err := c.GetUser(ctx, token, login)
	if err != nil {
		return "", err
	}
	return user.AvatarURL, nil
}

func (c *Caller) GetAuthenticatedUser(ctx context.Context, token string) (*User, error) {
	user := &User{}
	if _, err := c.getJSON(ctx, token, "/user", nil, "authenticated user", user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUserRepositories lists the first limit public repositories of the token's user.
func (c *Caller) ListUserRepositories(ctx context.Context, token string, limit int) ([]Repository, error) {
	params := url.Values{}
	params.Set("type", "public")
	params.Set("per_page", strconv.Itoa(limit))

	var repos []Repository
	if _, err := c.getJSON(ctx, token, "/user/repos", params, "repositories of authenticated user", &repos); err != nil {
		return nil, err
	}
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
