package flow

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Catalog is the in-memory, read-only registry of every component declared
// in a flow file. It is built once by Parse and never mutated during
// evaluation.
type Catalog struct {
	Nodes        map[string]*Node
	Pipes        map[string]*Pipe
	Concatenates map[string]*Concatenate
	Stderrs      map[string]*Stderr
	Files        map[string]*File
}

func newCatalog() *Catalog {
	return &Catalog{
		Nodes:        make(map[string]*Node),
		Pipes:        make(map[string]*Pipe),
		Concatenates: make(map[string]*Concatenate),
		Stderrs:      make(map[string]*Stderr),
		Files:        make(map[string]*File),
	}
}

// declared reports whether name is already used by any kind. The parser
// calls this to reject cross-kind name collisions at declaration time.
func (c *Catalog) declared(name string) bool {
	if _, ok := c.Nodes[name]; ok {
		return true
	}
	if _, ok := c.Pipes[name]; ok {
		return true
	}
	if _, ok := c.Concatenates[name]; ok {
		return true
	}
	if _, ok := c.Stderrs[name]; ok {
		return true
	}
	if _, ok := c.Files[name]; ok {
		return true
	}
	return false
}

// Lookup resolves name to a component using the fixed precedence
// Node > Pipe > Concatenate > Stderr > File. Because the parser rejects
// cross-kind name collisions, at most one of these ever matches in
// practice; the precedence is kept explicit so the dispatch order stays
// load-bearing even if that invariant is ever relaxed.
func (c *Catalog) Lookup(name string) (Kind, any, bool) {
	if n, ok := c.Nodes[name]; ok {
		return KindNode, n, true
	}
	if p, ok := c.Pipes[name]; ok {
		return KindPipe, p, true
	}
	if cc, ok := c.Concatenates[name]; ok {
		return KindConcatenate, cc, true
	}
	if s, ok := c.Stderrs[name]; ok {
		return KindStderr, s, true
	}
	if f, ok := c.Files[name]; ok {
		return KindFile, f, true
	}
	return 0, nil, false
}

// UnknownComponent builds an UnknownComponentError for name, suggesting
// the closest declared name across all kinds via fuzzy ranking.
func (c *Catalog) UnknownComponent(name string) *UnknownComponentError {
	return &UnknownComponentError{Name: name, Suggestion: c.suggest(name)}
}

func (c *Catalog) suggest(name string) string {
	candidates := make([]string, 0, len(c.Nodes)+len(c.Pipes)+len(c.Concatenates)+len(c.Stderrs)+len(c.Files))
	for n := range c.Nodes {
		candidates = append(candidates, n)
	}
	for n := range c.Pipes {
		candidates = append(candidates, n)
	}
	for n := range c.Concatenates {
		candidates = append(candidates, n)
	}
	for n := range c.Stderrs {
		candidates = append(candidates, n)
	}
	for n := range c.Files {
		candidates = append(candidates, n)
	}
	sort.Strings(candidates) // stable input order so ties break deterministically

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks) // closest (lowest edit distance) first
		return ranks[0].Target
	}

	// No candidate contains name as a subsequence; fall back to the
	// candidate within maxDist edits, so a mistyped letter ("sourse" for
	// "source") still gets a suggestion.
	const maxDist = 2
	best, bestDist := "", maxDist+1
	for _, cand := range candidates {
		if d := fuzzy.LevenshteinDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
