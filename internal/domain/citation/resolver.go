// Package citation finds EU AI Act references in generated text and resolves
// them to explanatory entries.
package citation

import (
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Pattern matches citation tokens such as "Article 5(1)" or
// "Annex III, point 1(a)".
var Pattern = regexp.MustCompile(`(?i)(Article\s*\d+\(?\d*\)?|Annex\s*(?:[IVX]+|\d+)(?:,\s*point\s*\d+\(?[a-z]?\)?)?)`)

// identifier is the article or annex number at the head of a citation.
var identifier = regexp.MustCompile(`(?i)^\s*(?:article|annex)\s*(?:\d+|[ivx]+)`)

// Normalize lowercases s and strips whitespace and , . : ( ).
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case ',', '.', ':', '(', ')':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// Resolver maps citations to entries through a normalized-prefix table.
// It is read-only after construction.
type Resolver struct {
	prefixes map[string]string
	entries  map[string]Entry
}

// NewResolver builds a resolver over copies of the given tables. prefixes
// maps a normalized prefix to a canonical key of entries.
func NewResolver(prefixes map[string]string, entries map[string]Entry) *Resolver {
	r := &Resolver{
		prefixes: maps.Clone(prefixes),
		entries:  make(map[string]Entry, len(entries)),
	}
	for k, e := range entries {
		e.Key = k
		r.entries[k] = e
	}
	return r
}

var defaultResolver = NewResolver(prefixes, entries)

// Default returns the resolver over the built-in EU AI Act table.
func Default() *Resolver { return defaultResolver }

// Resolve returns the entry of the longest registered prefix of the
// normalized citation. The prefix has to cover the whole article or annex
// number and nothing more, so "Article 999" does not resolve to Article 9 and
// "Article 5(2)" does not resolve to Article 52. Unknown citations
// resolve to NotFound.
func (r *Resolver) Resolve(citation string) Entry {
	key := Normalize(citation)
	ident := Normalize(identifier.FindString(citation))

	best := ""
	for p := range r.prefixes {
		if !strings.HasPrefix(key, p) || !coversIdentifier(p, ident) {
			continue
		}
		if len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return NotFound
	}
	if e, ok := r.entries[r.prefixes[best]]; ok {
		return e
	}
	return NotFound
}

// coversIdentifier reports whether prefix p names exactly the identifier
// ident. p may go on past ident only with a character that cannot continue
// the number, so "article52" does not cover "article5" from "Article 5(2)".
func coversIdentifier(p, ident string) bool {
	if !strings.HasPrefix(p, ident) {
		return false
	}
	if ident == "" || len(p) == len(ident) {
		return true
	}
	return identClass(p[len(ident)]) != identClass(ident[len(ident)-1])
}

// identClass groups the characters an article or annex number is made of.
func identClass(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return 1
	case c == 'i' || c == 'v' || c == 'x':
		return 2
	}
	return 0
}

// Lookup returns the entry for a canonical key such as "Annex III".
func (r *Resolver) Lookup(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Keys lists canonical keys in sorted order.
func (r *Resolver) Keys() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Resolve resolves against the default table.
func Resolve(citation string) Entry { return defaultResolver.Resolve(citation) }

// Find returns every citation token in text, in order of appearance.
func Find(text string) []string { return Pattern.FindAllString(text, -1) }
