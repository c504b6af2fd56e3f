package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boushrabettir/ginder-backend/cfg"
	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
)

// DeprecationPolicy decides whether a stored project leaves the catalog.
// live is nil when the lookup failed with fetchErr.
type DeprecationPolicy interface {
	Deprecated(ctx context.Context, stored *model.Project, live *githubapi.Repository, fetchErr error) bool
}

type DeprecationFunc func(ctx context.Context, stored *model.Project, live *githubapi.Repository, fetchErr error) bool

func (f DeprecationFunc) Deprecated(ctx context.Context, stored *model.Project, live *githubapi.Repository, fetchErr error) bool {
	return f(ctx, stored, live, fetchErr)
}

var NeverDeprecated = DeprecationFunc(func(context.Context, *model.Project, *githubapi.Repository, error) bool {
	return false
})

// UnreachableDeprecated removes projects GitHub no longer serves.
var UnreachableDeprecated = DeprecationFunc(func(_ context.Context, _ *model.Project, _ *githubapi.Repository, fetchErr error) bool {
	return errors.Is(fetchErr, githubapi.ErrNotFound)
})

var ArchivedDeprecated = DeprecationFunc(func(_ context.Context, _ *model.Project, live *githubapi.Repository, _ error) bool {
	return live != nil && (live.Archived || live.Disabled)
})

// StaleDeprecated removes projects without a push in the last maxAge.
func StaleDeprecated(maxAge time.Duration, now func() time.Time) DeprecationFunc {
	return func(_ context.Context, _ *model.Project, live *githubapi.Repository, _ error) bool {
		if live == nil || live.PushedAt == nil {
			return false
		}
		return now().Sub(*live.PushedAt) > maxAge
	}
}

func FactoryDeprecation(name string, config *cfg.Config) (DeprecationPolicy, error) {
	switch name {
	case "", "never":
		return NeverDeprecated, nil
	case "unreachable":
		return UnreachableDeprecated, nil
	case "archived":
		return ArchivedDeprecated, nil
	case "stale":
		if config.Sync.StaleDays < 1 {
			return nil, fmt.Errorf("stale deprecation needs sync.stale_days, got %d", config.Sync.StaleDays)
		}
		return StaleDeprecated(time.Duration(config.Sync.StaleDays)*24*time.Hour, time.Now), nil
	default:
		return nil, fmt.Errorf("unsupported deprecation policy: %s", name)
	}
}
