// Package rediscache provides the persistent cache variant backed by Redis.
// Connection parameters may be discrete (host, port, db) or a single
// connection URL; the URL takes precedence when both are present.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"unshorten/pkg/cache"
	"unshorten/pkg/serrors"

	"github.com/redis/go-redis/v9"
)

// Options describe how to reach the Redis backend.
type Options struct {
	// URL is a full connection URL (redis://host:port/db). When non-empty it
	// overrides the discrete fields below.
	URL string
	// Host is the server hostname or IP address.
	Host string
	// Port is the server port number.
	Port int
	// DB is the logical database index.
	DB int
}

// Redis is the go-redis backed cache.Cache implementation.
type Redis struct {
	rdb *redis.Client
}

// ClientOptions translates Options into go-redis client options, honoring the
// URL-over-discrete-fields precedence.
func ClientOptions(o Options) (*redis.Options, error) {
	if o.URL != "" {
		opts, err := redis.ParseURL(o.URL)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid redis URL")
		}

		return opts, nil
	}

	return &redis.Options{
		Addr: net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		DB:   o.DB,
	}, nil
}

// New connects to Redis and verifies the backend is reachable. An unreachable
// backend at startup is fatal for the run, so the ping failure is returned as
// serrors.ErrUnavailable.
func New(ctx context.Context, o Options) (*Redis, error) {
	opts, err := ClientOptions(o)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not reach redis at %s", opts.Addr)
	}

	return &Redis{rdb: rdb}, nil
}

// Get returns the cached expansion for key. Backend failures are reported as
// serrors.ErrCacheBackend; a missing key is not an error.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, serrors.Wrap(serrors.ErrCacheBackend, err, "redis get failed")
	}

	return v, true, nil
}

// Set stores the expansion for key with no expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return serrors.Wrap(serrors.ErrCacheBackend, err, "redis set failed")
	}

	return nil
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	if err := r.rdb.Close(); err != nil {
		return fmt.Errorf("could not close redis client: %w", err)
	}

	return nil
}

var _ cache.Cache = (*Redis)(nil)
