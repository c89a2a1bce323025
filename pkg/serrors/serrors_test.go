package serrors_test

import (
	"errors"
	"testing"
	"unshorten/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrTimeout,
		serrors.ErrDNS,
		serrors.ErrConnection,
		serrors.ErrProtocol,
		serrors.ErrRedirectLimit,
		serrors.ErrCacheBackend,
		serrors.ErrBadRequest,
		serrors.ErrUnavailable,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection refused")

	e1 := serrors.With(serrors.ErrRedirectLimit, "gave up after %d hops", 20)
	require.Equal(t, "gave up after 20 hops", e1.Error())

	e2 := serrors.Wrap(serrors.ErrConnection, base, "dialing hop")
	require.Equal(t, "dialing hop: connection refused", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrTimeout)
	require.Equal(t, "TIMEOUT", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrCacheBackend, base, "storing expansion")

	require.ErrorIs(t, e, serrors.ErrCacheBackend)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrTimeout, "errors.Is should not match a different kind")
}

func TestAsMatchesWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrDNS, base, "looking up host")

	var got customError
	require.ErrorAs(t, e, &got)
	require.Equal(t, base.msg, got.msg)
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrProtocol, base, "decoding response")

	require.Equal(t, serrors.ErrProtocol, e.Kind())
	require.Equal(t, "decoding response", e.Message())
	require.Equal(t, base, e.Cause())
}
