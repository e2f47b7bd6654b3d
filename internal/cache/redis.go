// Package cache keeps short-lived copies of a court's reservation rows so
// availability reads do not hit Postgres on every grid render.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const keyPrefix = "courtbook:avail:"

// versionTTL keeps a date's invalidation counter far longer than any cached
// range or any read that could race with it.
const versionTTL = 24 * time.Hour

// RedisAvailabilityCache stores rows per (court, from, to) range. Each date a
// range covers has an index set naming the range keys that include it, so a
// write on one date drops every range touching that date. Each date also has
// a counter bumped on invalidation; Set only stores rows read at the current
// counters, so a read that raced with a write is never cached.
type RedisAvailabilityCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client redis.UniversalClient, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{
		client: client,
		ttl:    ttl,
	}
}

func rangeKey(courtID int64, from, to time.Time) string {
	return fmt.Sprintf("%s%d:%s:%s", keyPrefix, courtID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
}

func indexKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("%sidx:%d:%s", keyPrefix, courtID, date.Format(domain.DateLayout))
}

func versionKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("%sver:%d:%s", keyPrefix, courtID, date.Format(domain.DateLayout))
}

func versionKeys(courtID int64, from, to time.Time) []string {
	var keys []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		keys = append(keys, versionKey(courtID, d))
	}
	return keys
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, courtID int64, from, to time.Time) ([]domain.Reservation, bool, error) {
	data, err := c.client.Get(ctx, rangeKey(courtID, domain.DateOf(from), domain.DateOf(to))).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rows []domain.Reservation
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("decode cached rows: %w", err)
	}
	return rows, true, nil
}

// Version sums the invalidation counters of every date in the range. Counters
// only grow, so an unchanged sum means no date was invalidated.
func (c *RedisAvailabilityCache) Version(ctx context.Context, courtID int64, from, to time.Time) (int64, error) {
	return sumVersions(ctx, c.client, versionKeys(courtID, domain.DateOf(from), domain.DateOf(to)))
}

func sumVersions(ctx context.Context, cmd redis.Cmdable, keys []string) (int64, error) {
	vals, err := cmd.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad version counter %q: %w", str, err)
		}
		sum += n
	}
	return sum, nil
}

// Set caches rows read at version. It stores nothing when any date in the
// range was invalidated after version was taken.
func (c *RedisAvailabilityCache) Set(ctx context.Context, courtID int64, from, to time.Time, version int64, rows []domain.Reservation) error {
	from, to = domain.DateOf(from), domain.DateOf(to)
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	key := rangeKey(courtID, from, to)
	versions := versionKeys(courtID, from, to)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := sumVersions(ctx, tx, versions)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				idx := indexKey(courtID, d)
				pipe.SAdd(ctx, idx, key)
				pipe.Expire(ctx, idx, c.ttl)
			}
			return nil
		})
		return err
	}, versions...)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops every cached range of the court that covers one of dates
// and bumps those dates' counters.
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, courtID int64, dates ...time.Time) error {
	seen := make(map[time.Time]struct{}, len(dates))
	var drop, bump []string
	for _, d := range dates {
		d = domain.DateOf(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}

		idx := indexKey(courtID, d)
		members, err := c.client.SMembers(ctx, idx).Result()
		if err != nil {
			return err
		}
		drop = append(drop, idx)
		drop = append(drop, members...)
		bump = append(bump, versionKey(courtID, d))
	}
	if len(bump) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range bump {
			pipe.Incr(ctx, k)
			pipe.Expire(ctx, k, versionTTL)
		}
		pipe.Del(ctx, drop...)
		return nil
	})
	return err
}
