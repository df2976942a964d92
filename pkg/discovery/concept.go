package discovery

import (
	"strings"

	"bibliograph/pkg/common"
)

// NormalizeConcept lower-cases and trims a free-text concept. Two concepts
// are equal iff their normalized strings match exactly; there is no stemming
// or fuzzy matching.
func NormalizeConcept(concept string) string {
	return strings.ToLower(strings.TrimSpace(concept))
}

// DeriveConcepts returns the enumerable concept set of a resource: every
// subject tag plus the classification code, normalized. Title/description
// text is matched by substring at lookup time and is deliberately not part
// of this set, since bridging needs enumerable tokens.
//
// The function is total over optional fields: empty subjects and a missing
// classification code simply contribute nothing.
func DeriveConcepts(resource common.Resource) map[string]struct{} {
	concepts := make(map[string]struct{}, len(resource.Subject)+1)
	for _, subject := range resource.Subject {
		normalized := NormalizeConcept(subject)
		if normalized == "" {
			continue
		}
		concepts[normalized] = struct{}{}
	}
	if code := NormalizeConcept(resource.ClassificationCode); code != "" {
		concepts[code] = struct{}{}
	}
	return concepts
}

// MentionsConcept reports whether a resource mentions a normalized concept:
// exact membership in the derived concept set, or a case-insensitive
// substring match against title or description.
func MentionsConcept(resource common.Resource, concept string) bool {
	if concept == "" {
		return false
	}
	if _, ok := DeriveConcepts(resource)[concept]; ok {
		return true
	}
	if strings.Contains(strings.ToLower(resource.Title), concept) {
		return true
	}
	return strings.Contains(strings.ToLower(resource.Description), concept)
}
