// Package swipe keeps the per-user sets of evaluated projects in Redis.
package swipe

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/boushrabettir/ginder-backend/internal/crawler"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/redis/go-redis/v9"
)

const (
	swipeSetPrefix = "ginder:swipes:" // every evaluated project: ginder:swipes:{user_id}
	likeSetPrefix  = "ginder:likes:"  // accepted projects only: ginder:likes:{user_id}
)

var ErrEmptyUser = errors.New("swipe: user id is required")

type Store struct {
	Logger log.Logger
	client redis.Cmdable
}

func NewStore(logger log.Logger, client redis.Cmdable) *Store {
	return &Store{
		Logger: logger,
		client: client,
	}
}

// Record stores one swipe decision.
func (s *Store) Record(ctx context.Context, userID string, projectID int64, liked bool) error {
	if userID == "" {
		return ErrEmptyUser
	}
	member := strconv.FormatInt(projectID, 10)

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, swipeSetKey(userID), member)
	if liked {
		pipe.SAdd(ctx, likeSetKey(userID), member)
	} else {
		pipe.SRem(ctx, likeSetKey(userID), member)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record swipe of %s on %d: %w", userID, projectID, err)
	}

	s.Logger.Debug(ctx, "User %s swiped project %d (liked=%t)", userID, projectID, liked)
	return nil
}

// Seen returns every project id the user already evaluated.
func (s *Store) Seen(ctx context.Context, userID string) (crawler.SwipeSet, error) {
	if userID == "" {
		return crawler.SwipeSet{}, nil
	}
	ids, err := s.client.SMembers(ctx, swipeSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list swipes of %s: %w", userID, err)
	}
	return crawler.NewSwipeSet(ids...), nil
}

func (s *Store) Has(ctx context.Context, userID string, projectID int64) (bool, error) {
	ok, err := s.client.SIsMember(ctx, swipeSetKey(userID), strconv.FormatInt(projectID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check swipe of %s: %w", userID, err)
	}
	return ok, nil
}

// Liked returns the accepted project ids of a user.
func (s *Store) Liked(ctx context.Context, userID string) ([]int64, error) {
	members, err := s.client.SMembers(ctx, likeSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list likes of %s: %w", userID, err)
	}
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			s.Logger.Warn(ctx, "Ignoring malformed like %q of %s", member, userID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func swipeSetKey(userID string) string {
	return swipeSetPrefix + userID
}

func likeSetKey(userID string) string {
	return likeSetPrefix + userID
}
