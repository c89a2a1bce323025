// Package domains maintains the set of known URL-shortener service domains
// and decides whether a host belongs to one of them. A builtin list ships
// embedded in the binary; callers may load their own single-column CSV
// instead.
package domains

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	_ "embed"

	"golang.org/x/net/publicsuffix"
)

//go:embed shorturl-services.csv
var builtinCSV []byte

// Set is a case-insensitive collection of shortener service domains.
// The zero value is not usable; construct with New, Builtin or LoadCSV.
type Set struct {
	members map[string]struct{}
}

// New builds a Set from the given domain names. Names are lowercased and
// stripped of trailing dots.
func New(names ...string) *Set {
	s := &Set{members: make(map[string]struct{}, len(names))}
	for _, name := range names {
		s.Add(name)
	}

	return s
}

// Add inserts one domain into the set.
func (s *Set) Add(name string) {
	name = normalize(name)
	if name == "" {
		return
	}
	s.members[name] = struct{}{}
}

// Len returns the number of domains in the set.
func (s *Set) Len() int { return len(s.members) }

// Contains reports whether host is an exact member of the set.
func (s *Set) Contains(host string) bool {
	_, ok := s.members[normalize(host)]

	return ok
}

// MatchesHost reports whether host belongs to one of the set's services:
// either exactly, or as a subdomain whose parent is a member. The walk never
// descends to the host's public suffix, so an entry like "ly" or "co.uk"
// cannot match unrelated hosts.
func (s *Set) MatchesHost(host string) bool {
	host = normalize(host)
	if host == "" {
		return false
	}
	if _, ok := s.members[host]; ok {
		return true
	}

	suffix, _ := publicsuffix.PublicSuffix(host)

	rest := host
	for {
		i := strings.IndexByte(rest, '.')
		if i < 0 {
			return false
		}
		rest = rest[i+1:]
		if rest == suffix {
			return false
		}
		if _, ok := s.members[rest]; ok {
			return true
		}
	}
}

// Builtin returns the embedded list of known URL-shortening services.
func Builtin() (*Set, error) {
	return readCSV(bytes.NewReader(builtinCSV), true)
}

// LoadCSV reads a single-column CSV of domain names from path. When header is
// true the first row is discarded.
func LoadCSV(path string, header bool) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open domains file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	s, err := readCSV(f, header)
	if err != nil {
		return nil, fmt.Errorf("could not parse domains file %s: %w", path, err)
	}

	return s, nil
}

func readCSV(r io.Reader, header bool) (*Set, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	s := New()
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read CSV record: %w", err)
		}
		if first && header {
			first = false

			continue
		}
		first = false
		if len(record) == 0 {
			continue
		}
		s.Add(record[0])
	}

	return s, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
}
