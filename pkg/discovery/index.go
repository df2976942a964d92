package discovery

import (
	"sort"
	"strings"
	"sync"

	"bibliograph/pkg/common"
)

// Index is an inverted concept index over a snapshot of resources. Token
// concepts (subjects, classification codes) are indexed up front; substring
// mentions against title/description are resolved lazily and memoized, so a
// repeated concept costs one scan for the lifetime of the index.
//
// An Index is immutable after construction apart from the memo cache and is
// safe for concurrent use.
type Index struct {
	resources []common.Resource
	postings  map[string][]int

	mu       sync.RWMutex
	mentions map[string][]int
}

// NewIndex builds an inverted index over the given resources.
func NewIndex(resources []common.Resource) *Index {
	postings := make(map[string][]int)
	for i, resource := range resources {
		for concept := range DeriveConcepts(resource) {
			postings[concept] = append(postings[concept], i)
		}
	}
	return &Index{
		resources: resources,
		postings:  postings,
		mentions:  make(map[string][]int),
	}
}

// Len returns the number of resources in the snapshot.
func (idx *Index) Len() int {
	return len(idx.resources)
}

// FindResourcesWithConcept returns every resource mentioning the concept,
// optionally restricted to a time slice. With an active slice, resources
// without a creation date are excluded. The result without a slice is always
// a superset of the result with one.
func (idx *Index) FindResourcesWithConcept(concept string, slice *common.TimeSlice) []common.Resource {
	concept = NormalizeConcept(concept)
	if concept == "" {
		return nil
	}

	matches := make([]common.Resource, 0)
	for _, i := range idx.mentionSet(concept) {
		resource := idx.resources[i]
		if slice != nil && !slice.Contains(resource.DateCreated) {
			continue
		}
		matches = append(matches, resource)
	}
	return matches
}

// CountConnections counts the resources mentioning both concepts. Counting
// is symmetric in its arguments.
func (idx *Index) CountConnections(x, y string, slice *common.TimeSlice) int {
	return len(idx.connectionSet(x, y, slice))
}

// connectionSet returns the indices of resources mentioning both concepts.
func (idx *Index) connectionSet(x, y string, slice *common.TimeSlice) []int {
	x = NormalizeConcept(x)
	y = NormalizeConcept(y)
	if x == "" || y == "" {
		return nil
	}

	a := idx.mentionSet(x)
	b := idx.mentionSet(y)
	// intersect two sorted posting lists
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			resource := idx.resources[a[i]]
			if slice == nil || slice.Contains(resource.DateCreated) {
				out = append(out, a[i])
			}
			i++
			j++
		}
	}
	return out
}

// mentionSet returns the sorted indices of resources mentioning a normalized
// concept, combining the token postings with a memoized substring scan.
func (idx *Index) mentionSet(concept string) []int {
	idx.mu.RLock()
	cached, ok := idx.mentions[concept]
	idx.mu.RUnlock()
	if ok {
		return cached
	}

	seen := make(map[int]struct{}, len(idx.postings[concept]))
	for _, i := range idx.postings[concept] {
		seen[i] = struct{}{}
	}
	for i, resource := range idx.resources {
		if _, ok := seen[i]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(resource.Title), concept) ||
			strings.Contains(strings.ToLower(resource.Description), concept) {
			seen[i] = struct{}{}
		}
	}

	set := make([]int, 0, len(seen))
	for i := range seen {
		set = append(set, i)
	}
	sort.Ints(set)

	idx.mu.Lock()
	idx.mentions[concept] = set
	idx.mu.Unlock()
	return set
}
