// Package rediscache keeps read-heavy rankings in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

const (
	// sorted set uid -> points
	keyPoints = "leaderboard:points"
	// hash uid -> user JSON
	keyUsers = "leaderboard:users"

	ttl = 10 * time.Minute
)

// Open connects to the Redis server at conf.Redis.URL.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(conf.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

// Leaderboard is a user.Leaderboard on a Redis sorted set.
type Leaderboard struct {
	client *redis.Client
}

var _ user.Leaderboard = (*Leaderboard)(nil)

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) Close() error {
	return l.client.Close()
}

// Top returns the n best users, ties broken by ID like the document store does.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]user.User, bool, error) {
	exists, err := l.client.Exists(ctx, keyPoints).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "checking leaderboard")
	}
	if exists == 0 {
		return nil, false, nil
	}

	// the n-th score, so that every member tied with it is fetched
	last, err := l.client.ZRevRangeWithScores(ctx, keyPoints, int64(n-1), int64(n-1)).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "reading leaderboard")
	}
	min := "-inf"
	if len(last) == 1 {
		min = strconv.FormatFloat(last[0].Score, 'f', -1, 64)
	}
	ids, err := l.client.ZRevRangeByScore(ctx, keyPoints, &redis.ZRangeBy{Min: min, Max: "+inf"}).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "reading leaderboard")
	}
	if len(ids) == 0 {
		return []user.User{}, true, nil
	}

	raw, err := l.client.HMGet(ctx, keyUsers, ids...).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, "reading leaderboard users")
	}
	users := make([]user.User, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok { // set and hash out of sync, treat as a miss
			return nil, false, nil
		}
		var usr user.User
		if err = json.Unmarshal([]byte(s), &usr); err != nil {
			return nil, false, errors.Wrap(err, "decoding leaderboard user")
		}
		users = append(users, usr)
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		return users[i].ID < users[j].ID
	})
	if len(users) > n {
		users = users[:n]
	}
	return users, true, nil
}

// Upsert refreshes usr in a populated leaderboard. A missing leaderboard is left for Rebuild.
func (l *Leaderboard) Upsert(ctx context.Context, usr user.User) error {
	exists, err := l.client.Exists(ctx, keyPoints).Result()
	if err != nil || exists == 0 {
		return errors.Wrap(err, "checking leaderboard")
	}
	data, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding leaderboard user")
	}

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, keyPoints, redis.Z{Score: float64(usr.Points), Member: usr.ID})
	pipe.HSet(ctx, keyUsers, usr.ID, data)
	pipe.Expire(ctx, keyPoints, ttl)
	pipe.Expire(ctx, keyUsers, ttl)
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "updating leaderboard")
}

// Rebuild replaces the leaderboard with users.
func (l *Leaderboard) Rebuild(ctx context.Context, users []user.User) error {
	pipe := l.client.TxPipeline()
	pipe.Del(ctx, keyPoints, keyUsers)
	if len(users) > 0 {
		members := make([]redis.Z, 0, len(users))
		fields := make(map[string]interface{}, len(users))
		for _, usr := range users {
			data, err := json.Marshal(usr)
			if err != nil {
				return errors.Wrap(err, "encoding leaderboard user")
			}
			members = append(members, redis.Z{Score: float64(usr.Points), Member: usr.ID})
			fields[usr.ID] = data
		}
		pipe.ZAdd(ctx, keyPoints, members...)
		pipe.HSet(ctx, keyUsers, fields)
		pipe.Expire(ctx, keyPoints, ttl)
		pipe.Expire(ctx, keyUsers, ttl)
	}
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "rebuilding leaderboard")
}
