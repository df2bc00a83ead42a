// Package symbols holds the identifier-normalization table built during
// lexing and the type symbol table built during semantic analysis. Both are
// constructed once per compilation and read-only for downstream stages.
package symbols

import (
	"fmt"
	"sort"
	"strings"
)

// NormTable maps original identifier spellings to normalized names (id1,
// id2, ... in order of first appearance in the token stream) and back.
type NormTable struct {
	byOriginal map[string]string
	byNorm     map[string]string
	order      []string
}

// NewNormTable builds an empty table.
func NewNormTable() *NormTable {
	return &NormTable{
		byOriginal: make(map[string]string),
		byNorm:     make(map[string]string),
	}
}

// Intern returns the normalized name for original, assigning the next idN
// on first sight.
func (t *NormTable) Intern(original string) string {
	if norm, ok := t.byOriginal[original]; ok {
		return norm
	}
	norm := fmt.Sprintf("id%d", len(t.order)+1)
	t.byOriginal[original] = norm
	t.byNorm[norm] = original
	t.order = append(t.order, original)
	return norm
}

// Norm looks up the normalized name for an original identifier.
func (t *NormTable) Norm(original string) (string, bool) {
	norm, ok := t.byOriginal[original]
	return norm, ok
}

// Original looks up the original spelling for a normalized name.
func (t *NormTable) Original(norm string) (string, bool) {
	orig, ok := t.byNorm[norm]
	return orig, ok
}

// Len reports how many distinct identifiers were interned.
func (t *NormTable) Len() int { return len(t.order) }

// Originals returns the original spellings in first-appearance order.
func (t *NormTable) Originals() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Mapping returns the original→normalized pairs in first-appearance order.
func (t *NormTable) Mapping() []NormEntry {
	out := make([]NormEntry, 0, len(t.order))
	for _, orig := range t.order {
		out = append(out, NormEntry{Original: orig, Norm: t.byOriginal[orig]})
	}
	return out
}

// NormEntry is one original→normalized pair.
type NormEntry struct {
	Original string
	Norm     string
}

// Denormalize replaces normalized names in text with their original
// spellings. Used by display layers that render TAC or assembly back in
// terms of user identifiers.
func (t *NormTable) Denormalize(text string) string {
	if len(t.byNorm) == 0 {
		return text
	}
	// Replace longer names first so id12 is not clobbered by id1.
	norms := make([]string, 0, len(t.byNorm))
	for norm := range t.byNorm {
		norms = append(norms, norm)
	}
	sort.Slice(norms, func(i, j int) bool { return len(norms[i]) > len(norms[j]) })
	pairs := make([]string, 0, len(norms)*2)
	for _, norm := range norms {
		pairs = append(pairs, norm, t.byNorm[norm])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
