package discovery

import (
	"sort"

	"bibliograph/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Confidence weighting between raw support and novelty. Support always
// contributes, novelty scales the remainder.
const (
	confidenceBase    = 0.4
	confidenceNovelty = 0.6
)

// SupportStrength combines the two link supports into one score. It is zero
// whenever either side is zero, monotone in both arguments, and bounded by
// twice the smaller support (harmonic mean).
func SupportStrength(abSupport, bcSupport int) float64 {
	if abSupport <= 0 || bcSupport <= 0 {
		return 0
	}
	ab := float64(abSupport)
	bc := float64(bcSupport)
	return 2 * ab * bc / (ab + bc)
}

// NoveltyScore maps the volume of direct A-C evidence into (0, 1]: 1.0 when
// the direct connection is undocumented, decaying as it accumulates
// supporting resources.
func NoveltyScore(directConnections int) float64 {
	if directConnections < 0 {
		directConnections = 0
	}
	return 1 / float64(1+directConnections)
}

// ConfidenceScore combines support strength and novelty. Monotone in both.
func ConfidenceScore(supportStrength, novelty float64) float64 {
	return supportStrength * (confidenceBase + confidenceNovelty*novelty)
}

// RankHypotheses scores every bridging concept and returns hypotheses sorted
// by confidence descending, ties broken by bridge concept order so output is
// deterministic. Each hypothesis carries its full evidence chain. An empty
// bridge list yields an empty result.
func RankHypotheses(idx *Index, conceptA, conceptC string, bridges []string, slice *common.TimeSlice) []common.Hypothesis {
	if len(bridges) == 0 {
		return []common.Hypothesis{}
	}

	conceptA = NormalizeConcept(conceptA)
	conceptC = NormalizeConcept(conceptC)
	novelty := NoveltyScore(idx.CountConnections(conceptA, conceptC, slice))

	hypotheses := make([]common.Hypothesis, 0, len(bridges))
	for _, bridge := range bridges {
		bridge = NormalizeConcept(bridge)
		abSupport := idx.CountConnections(conceptA, bridge, slice)
		bcSupport := idx.CountConnections(bridge, conceptC, slice)
		strength := SupportStrength(abSupport, bcSupport)

		id, err := gonanoid.New()
		if err != nil {
			id = bridge
		}

		hypotheses = append(hypotheses, common.Hypothesis{
			ID:              id,
			ConceptA:        conceptA,
			ConceptB:        bridge,
			ConceptC:        conceptC,
			ABSupport:       abSupport,
			BCSupport:       bcSupport,
			SupportStrength: strength,
			Novelty:         novelty,
			Confidence:      ConfidenceScore(strength, novelty),
			EvidenceChain:   BuildEvidenceChain(idx, conceptA, bridge, conceptC, slice),
		})
	}

	sort.SliceStable(hypotheses, func(i, j int) bool {
		if hypotheses[i].Confidence != hypotheses[j].Confidence {
			return hypotheses[i].Confidence > hypotheses[j].Confidence
		}
		return hypotheses[i].ConceptB < hypotheses[j].ConceptB
	})

	return hypotheses
}
