package discovery

import "bibliograph/pkg/common"

// BuildEvidenceChain collects the resources supporting both links of an ABC
// hypothesis: A-B supporters first, then B-C supporters. Partial evidence is
// still reported when one side has no support.
func BuildEvidenceChain(idx *Index, conceptA, conceptB, conceptC string, slice *common.TimeSlice) []common.Evidence {
	chain := make([]common.Evidence, 0)
	for _, i := range idx.connectionSet(conceptA, conceptB, slice) {
		resource := idx.resources[i]
		chain = append(chain, common.Evidence{
			Type:            common.EvidenceAB,
			ResourceID:      resource.ID,
			Title:           resource.Title,
			PublicationYear: resource.PublicationYear,
		})
	}
	for _, i := range idx.connectionSet(conceptB, conceptC, slice) {
		resource := idx.resources[i]
		chain = append(chain, common.Evidence{
			Type:            common.EvidenceBC,
			ResourceID:      resource.ID,
			Title:           resource.Title,
			PublicationYear: resource.PublicationYear,
		})
	}
	return chain
}
