// Package prefix builds an immutable index answering case-insensitive
// starts-with queries over a fixed list of names.
//
// An Index is safe for concurrent use once built; nothing mutates it.
package prefix

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index maps every lowercase prefix of every name to the names that start with it.
// Posting lists hold ordinals into the sorted name set, so results always come
// back in name set order.
type Index struct {
	names    []string
	ordinals map[string]uint32 // lowercase name -> ordinal
	postings map[string]*roaring.Bitmap
}

// Build parses raw (names separated by commas and/or newlines) and indexes it.
// Names are trimmed, empties dropped, duplicates removed case-insensitively
// keeping the first spelling seen, and the result sorted case-insensitively.
func Build(raw string) *Index {
	names := normalize(raw)
	idx := &Index{
		names:    names,
		ordinals: make(map[string]uint32, len(names)),
		postings: make(map[string]*roaring.Bitmap),
	}
	for i, name := range names {
		ord := uint32(i)
		lower := strings.ToLower(name)
		idx.ordinals[lower] = ord
		for end := range lower {
			if end == 0 {
				continue
			}
			idx.add(lower[:end], ord)
		}
		idx.add(lower, ord)
	}
	for _, bm := range idx.postings {
		bm.RunOptimize()
	}
	return idx
}

func (idx *Index) add(key string, ord uint32) {
	bm, ok := idx.postings[key]
	if !ok {
		bm = roaring.New()
		idx.postings[key] = bm
	}
	bm.Add(ord)
}

func normalize(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	seen := make(map[string]struct{}, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Names returns a copy of the name set in index order.
func (idx *Index) Names() []string {
	out := make([]string, len(idx.names))
	copy(out, idx.names)
	return out
}

// Len returns the number of names.
func (idx *Index) Len() int {
	return len(idx.names)
}

// Keys returns the number of distinct prefix keys.
func (idx *Index) Keys() int {
	return len(idx.postings)
}

// Complete returns the names starting with partial, compared case-insensitively
// after trimming. A miss, including blank input, returns an empty non-nil slice.
func (idx *Index) Complete(partial string) []string {
	key := strings.ToLower(strings.TrimSpace(partial))
	bm, ok := idx.postings[key]
	if !ok || key == "" {
		return []string{}
	}
	out := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, idx.names[it.Next()])
	}
	return out
}

// Contains reports whether name is in the name set, ignoring case and surrounding space.
func (idx *Index) Contains(name string) bool {
	_, ok := idx.ordinals[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Canonical returns the stored spelling of name, if present.
func (idx *Index) Canonical(name string) (string, bool) {
	ord, ok := idx.ordinals[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return idx.names[ord], true
}
