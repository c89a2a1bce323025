package rediscache_test

import (
	"testing"
	"unshorten/pkg/cache/rediscache"
	"unshorten/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestClientOptionsDiscreteFields(t *testing.T) {
	opts, err := rediscache.ClientOptions(rediscache.Options{
		Host: "cache.internal",
		Port: 6380,
		DB:   3,
	})
	require.NoError(t, err)
	require.Equal(t, "cache.internal:6380", opts.Addr)
	require.Equal(t, 3, opts.DB)
}

func TestClientOptionsURLTakesPrecedence(t *testing.T) {
	opts, err := rediscache.ClientOptions(rediscache.Options{
		URL:  "redis://other.internal:7000/5",
		Host: "cache.internal",
		Port: 6380,
		DB:   3,
	})
	require.NoError(t, err)
	require.Equal(t, "other.internal:7000", opts.Addr)
	require.Equal(t, 5, opts.DB)
}

func TestClientOptionsBadURL(t *testing.T) {
	_, err := rediscache.ClientOptions(rediscache.Options{URL: "://not-a-url"})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}
