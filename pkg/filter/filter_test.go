package filter_test

import (
	"testing"
	"unshorten/pkg/domains"
	"unshorten/pkg/filter"
)

func TestShouldAttempt(t *testing.T) {
	shorteners := domains.New("bit.ly", "tinyurl.com")

	cases := []struct {
		name string
		url  string
		cfg  filter.Config
		want bool
	}{
		{
			name: "no restrictions",
			url:  "http://example.com/a",
			want: true,
		},
		{
			name: "malformed URL",
			url:  "http://%zz/",
			want: false,
		},
		{
			name: "no host",
			url:  "not-a-url",
			want: false,
		},
		{
			name: "empty line",
			url:  "",
			want: false,
		},
		{
			name: "too long",
			url:  "http://toolongdomainname.example/a",
			cfg:  filter.Config{MaxLen: 5},
			want: false,
		},
		{
			name: "within length bound",
			url:  "http://x.co/a",
			cfg:  filter.Config{MaxLen: 50},
			want: true,
		},
		{
			name: "listed shortener",
			url:  "http://bit.ly/abc",
			cfg:  filter.Config{Domains: shorteners},
			want: true,
		},
		{
			name: "subdomain of listed shortener",
			url:  "https://es.tinyurl.com/abc",
			cfg:  filter.Config{Domains: shorteners},
			want: true,
		},
		{
			name: "domain not listed",
			url:  "http://example.com/abc",
			cfg:  filter.Config{Domains: shorteners},
			want: false,
		},
		{
			name: "empty set rejects everything",
			url:  "http://bit.ly/abc",
			cfg:  filter.Config{Domains: domains.New()},
			want: false,
		},
		{
			name: "length bound applies before domain check",
			url:  "http://bit.ly/very-long-path-over-the-limit",
			cfg:  filter.Config{Domains: shorteners, MaxLen: 10},
			want: false,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.ShouldAttempt(tt.url, tt.cfg); got != tt.want {
				t.Fatalf("ShouldAttempt(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
