package domains_test

import (
	"os"
	"path/filepath"
	"testing"
	"unshorten/pkg/domains"

	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	s, err := domains.Builtin()
	require.NoError(t, err)
	require.Greater(t, s.Len(), 50)
	require.True(t, s.Contains("bit.ly"))
	require.True(t, s.Contains("tinyurl.com"))
	require.False(t, s.Contains("domain"), "header row must not become a member")
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()

	withHeader := filepath.Join(dir, "with-header.csv")
	require.NoError(t, os.WriteFile(withHeader, []byte("domain\nshort.ly\nTiny.One\n"), 0o600))

	s, err := domains.LoadCSV(withHeader, true)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	require.True(t, s.Contains("short.ly"))
	require.True(t, s.Contains("tiny.one"), "members are case-insensitive")

	noHeader := filepath.Join(dir, "no-header.csv")
	require.NoError(t, os.WriteFile(noHeader, []byte("short.ly\ntiny.one\n"), 0o600))

	s, err = domains.LoadCSV(noHeader, false)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	_, err = domains.LoadCSV(filepath.Join(dir, "missing.csv"), true)
	require.Error(t, err)
}

func TestMatchesHost(t *testing.T) {
	s := domains.New("bit.ly", "tinyurl.com")

	cases := []struct {
		name string
		host string
		want bool
	}{
		{name: "exact member", host: "bit.ly", want: true},
		{name: "exact member uppercase", host: "BIT.LY", want: true},
		{name: "subdomain of member", host: "cdn.bit.ly", want: true},
		{name: "deep subdomain of member", host: "a.b.tinyurl.com", want: true},
		{name: "non-member", host: "example.com", want: false},
		{name: "member as infix, not suffix", host: "bit.ly.evil.com", want: false},
		{name: "shares only the TLD", host: "grow.ly", want: false},
		{name: "empty host", host: "", want: false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, s.MatchesHost(tt.host))
		})
	}
}

func TestMatchesHostPublicSuffixGuard(t *testing.T) {
	// An entry that is itself a public suffix must never match arbitrary
	// hosts under it.
	s := domains.New("ly", "co.uk")
	require.False(t, s.MatchesHost("anything.ly"))
	require.False(t, s.MatchesHost("company.co.uk"))
	// The exact host still matches.
	require.True(t, s.MatchesHost("co.uk"))
}
