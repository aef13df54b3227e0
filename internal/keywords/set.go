package keywords

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Set is an unordered collection of normalized keywords.
type Set map[string]struct{}

// New builds a set from the supplied values.
func New(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Normalize returns the canonical form of a keyword, or "" when nothing
// remains after trimming.
func Normalize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return norm.NFC.String(value)
}

// Add inserts value after normalization and reports whether it was new.
func (s Set) Add(value string) bool {
	value = Normalize(value)
	if value == "" {
		return false
	}
	if _, ok := s[value]; ok {
		return false
	}
	s[value] = struct{}{}
	return true
}

// Contains reports whether the normalized value is a member.
func (s Set) Contains(value string) bool {
	_, ok := s[Normalize(value)]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Difference returns the members of s that are not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for v := range s {
		if _, ok := other[v]; ok {
			continue
		}
		out[v] = struct{}{}
	}
	return out
}

// Union returns a new set holding the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return s.Union(nil)
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
