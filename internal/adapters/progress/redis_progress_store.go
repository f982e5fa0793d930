package progress

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "progress:completed"

// RedisProgressStore keeps completed delivery points in a Redis list,
// one "lon,lat" member per completion, in completion order.
type RedisProgressStore struct {
	rdb *redis.Client
	key string
}

func NewRedisProgressStore(rdb *redis.Client, key string) *RedisProgressStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisProgressStore{rdb: rdb, key: key}
}

func (s *RedisProgressStore) Load(ctx context.Context) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "progress.Load")(&err)

	if s.rdb == nil {
		return nil, errors.New("redis progress store: client is nil")
	}

	members, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load progress: lrange %q: %w", s.key, err)
	}

	out := make([]domain.Coordinates, 0, len(members))
	for _, m := range members {
		c, err := decodePoint(m)
		if err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *RedisProgressStore) Append(ctx context.Context, c domain.Coordinates) (err error) {
	defer obs.Time(ctx, "progress.Append")(&err)

	if s.rdb == nil {
		return errors.New("redis progress store: client is nil")
	}

	if err := s.rdb.RPush(ctx, s.key, encodePoint(c)).Err(); err != nil {
		return fmt.Errorf("append progress: rpush %q: %w", s.key, err)
	}
	return nil
}

func (s *RedisProgressStore) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, "progress.Clear")(&err)

	if s.rdb == nil {
		return errors.New("redis progress store: client is nil")
	}

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear progress: del %q: %w", s.key, err)
	}
	return nil
}

// encodePoint keeps full float precision so restored points match within tolerance.
func encodePoint(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'g', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'g', -1, 64)
}

func decodePoint(s string) (domain.Coordinates, error) {
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("malformed point %q", s)
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed lon in %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed lat in %q: %w", s, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
