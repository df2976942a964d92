package discovery

import (
	"sort"

	"bibliograph/pkg/common"
	"bibliograph/pkg/logger"
)

// FindBridgingConcepts computes the candidate bridging concepts between two
// resource sets: every token concept shared by at least one A-resource and
// one C-resource, minus the query concepts themselves. An empty result is
// the normal "no discovery possible" outcome, not an error.
func FindBridgingConcepts(aResources, cResources []common.Resource, conceptA, conceptC string) []string {
	conceptA = NormalizeConcept(conceptA)
	conceptC = NormalizeConcept(conceptC)

	aConcepts := make(map[string]struct{})
	for _, resource := range aResources {
		for concept := range DeriveConcepts(resource) {
			aConcepts[concept] = struct{}{}
		}
	}

	bridges := make([]string, 0)
	seen := make(map[string]struct{})
	for _, resource := range cResources {
		for concept := range DeriveConcepts(resource) {
			if _, ok := aConcepts[concept]; !ok {
				continue
			}
			if concept == conceptA || concept == conceptC {
				continue
			}
			if _, ok := seen[concept]; ok {
				continue
			}
			seen[concept] = struct{}{}
			bridges = append(bridges, concept)
		}
	}

	sort.Strings(bridges)
	return bridges
}

// AnnotateKnownConnections checks whether resources already document the
// direct A-C connection. Existing connections are logged and reported as a
// count that feeds the novelty score downstream; bridging candidates are
// never removed. A documented A-C link weakens a hypothesis through novelty,
// it does not veto it.
func AnnotateKnownConnections(idx *Index, conceptA, conceptC string, bridges []string, slice *common.TimeSlice) ([]string, int) {
	direct := idx.CountConnections(conceptA, conceptC, slice)
	if direct > 0 {
		logger.Info(
			"[Discovery] Direct connection already documented",
			"concept_a", NormalizeConcept(conceptA),
			"concept_c", NormalizeConcept(conceptC),
			"resources", direct,
			"bridges", len(bridges),
		)
	}
	return bridges, direct
}
