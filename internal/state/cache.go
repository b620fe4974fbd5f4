package state

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

const ttlSnapshot = 24 * time.Hour

// SnapshotCache persists the last authoritative view per game so a
// restarted client can paint something immediately while waiting for
// get_game_state to answer. Whatever it returns is cosmetic and is
// overwritten by the first live message.
type SnapshotCache struct {
	rdb *redis.Client
}

func NewSnapshotCache(redisURL string) (*SnapshotCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required for snapshot cache")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &SnapshotCache{rdb: rdb}, nil
}

func (c *SnapshotCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func keyView(gameID string) string { return "game:" + strings.TrimSpace(gameID) + ":view" }

func (c *SnapshotCache) Save(ctx context.Context, gameID string, v *gamedto.ServerView) error {
	if c == nil || c.rdb == nil || v == nil || strings.TrimSpace(gameID) == "" {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyView(gameID), raw, ttlSnapshot).Err()
}

// Load returns nil without error when no snapshot is cached.
func (c *SnapshotCache) Load(ctx context.Context, gameID string) (*gamedto.ServerView, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	raw, err := c.rdb.Get(ctx, keyView(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v gamedto.ServerView
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func parseRedisURL(redisURL string) (*redis.Options, error) {
	u, err := url.Parse(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			opts.Password = pw
		}
		if name := u.User.Username(); name != "" {
			opts.Username = name
		}
	}
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		db, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("redis db index: %w", err)
		}
		opts.DB = db
	}
	return opts, nil
}
