package discovery

import (
	"testing"

	"bibliograph/pkg/common"
)

func TestSupportStrength(t *testing.T) {
	tests := []struct {
		name      string
		abSupport int
		bcSupport int
		wantZero  bool
	}{
		{name: "both positive", abSupport: 5, bcSupport: 5, wantZero: false},
		{name: "ab zero", abSupport: 0, bcSupport: 5, wantZero: true},
		{name: "bc zero", abSupport: 5, bcSupport: 0, wantZero: true},
		{name: "both zero", abSupport: 0, bcSupport: 0, wantZero: true},
		{name: "negative guards", abSupport: -1, bcSupport: 3, wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SupportStrength(tt.abSupport, tt.bcSupport)
			if tt.wantZero && got != 0 {
				t.Errorf("SupportStrength(%d, %d) = %f, want 0", tt.abSupport, tt.bcSupport, got)
			}
			if !tt.wantZero && got <= 0 {
				t.Errorf("SupportStrength(%d, %d) = %f, want > 0", tt.abSupport, tt.bcSupport, got)
			}
		})
	}
}

func TestSupportStrengthMonotone(t *testing.T) {
	// holding one side fixed, more support never lowers the strength
	for bc := 1; bc <= 10; bc++ {
		prev := 0.0
		for ab := 1; ab <= 10; ab++ {
			got := SupportStrength(ab, bc)
			if got < prev {
				t.Fatalf("SupportStrength(%d, %d) = %f < SupportStrength(%d, %d) = %f", ab, bc, got, ab-1, bc, prev)
			}
			prev = got
		}
	}
}

func TestNoveltyScore(t *testing.T) {
	if got := NoveltyScore(0); got != 1.0 {
		t.Errorf("NoveltyScore(0) = %f, want 1.0", got)
	}
	prev := 2.0
	for direct := 0; direct <= 100; direct += 10 {
		got := NoveltyScore(direct)
		if got <= 0 || got > 1 {
			t.Fatalf("NoveltyScore(%d) = %f, out of (0, 1]", direct, got)
		}
		if got >= prev {
			t.Fatalf("NoveltyScore(%d) = %f, not decreasing", direct, got)
		}
		prev = got
	}
}

func TestRankHypothesesSortedAndComplete(t *testing.T) {
	resources := []common.Resource{
		// strong bridge: 3x A+strong, 3x strong+C
		taggedResource("s1", "alpha", "strong"),
		taggedResource("s2", "alpha", "strong"),
		taggedResource("s3", "alpha", "strong"),
		taggedResource("s4", "strong", "omega"),
		taggedResource("s5", "strong", "omega"),
		taggedResource("s6", "strong", "omega"),
		// weak bridge: one on each side
		taggedResource("w1", "alpha", "weak"),
		taggedResource("w2", "weak", "omega"),
		// dead bridge: A side only
		taggedResource("d1", "alpha", "dead"),
	}
	idx := NewIndex(resources)

	hypotheses := RankHypotheses(idx, "alpha", "omega", []string{"weak", "strong", "dead"}, nil)
	if len(hypotheses) != 3 {
		t.Fatalf("got %d hypotheses, want 3", len(hypotheses))
	}

	for i := 0; i+1 < len(hypotheses); i++ {
		if hypotheses[i].Confidence < hypotheses[i+1].Confidence {
			t.Errorf("hypotheses not sorted: [%d].Confidence = %f < [%d].Confidence = %f",
				i, hypotheses[i].Confidence, i+1, hypotheses[i+1].Confidence)
		}
	}

	if hypotheses[0].ConceptB != "strong" {
		t.Errorf("top hypothesis bridge = %q, want strong", hypotheses[0].ConceptB)
	}
	if hypotheses[0].ABSupport != 3 || hypotheses[0].BCSupport != 3 {
		t.Errorf("top supports = (%d, %d), want (3, 3)", hypotheses[0].ABSupport, hypotheses[0].BCSupport)
	}
	if len(hypotheses[0].EvidenceChain) != 6 {
		t.Errorf("top evidence chain has %d entries, want 6", len(hypotheses[0].EvidenceChain))
	}

	// the dead bridge has no B-C support, so no strength and no confidence
	last := hypotheses[len(hypotheses)-1]
	if last.ConceptB != "dead" {
		t.Errorf("weakest hypothesis bridge = %q, want dead", last.ConceptB)
	}
	if last.SupportStrength != 0 || last.Confidence != 0 {
		t.Errorf("dead bridge scored (%f, %f), want zero", last.SupportStrength, last.Confidence)
	}
}

func TestRankHypothesesDeterministicTieBreak(t *testing.T) {
	resources := []common.Resource{
		taggedResource("r1", "alpha", "bravo", "delta"),
		taggedResource("r2", "bravo", "delta", "omega"),
	}
	idx := NewIndex(resources)

	first := RankHypotheses(idx, "alpha", "omega", []string{"delta", "bravo"}, nil)
	second := RankHypotheses(idx, "alpha", "omega", []string{"bravo", "delta"}, nil)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d and %d hypotheses, want 2 each", len(first), len(second))
	}
	// equal scores tie-break alphabetically on the bridge concept
	if first[0].ConceptB != "bravo" || second[0].ConceptB != "bravo" {
		t.Errorf("tie-break order: got %q and %q, want bravo first in both", first[0].ConceptB, second[0].ConceptB)
	}
}

func TestRankHypothesesEmptyBridges(t *testing.T) {
	idx := NewIndex([]common.Resource{taggedResource("r1", "alpha")})
	hypotheses := RankHypotheses(idx, "alpha", "omega", nil, nil)
	if len(hypotheses) != 0 {
		t.Fatalf("got %d hypotheses for empty bridge list, want 0", len(hypotheses))
	}
}

func TestBuildEvidenceChainPartialSupport(t *testing.T) {
	idx := NewIndex([]common.Resource{
		taggedResource("r1", "alpha", "bridge"),
		taggedResource("r2", "alpha", "bridge"),
	})

	chain := BuildEvidenceChain(idx, "alpha", "bridge", "omega", nil)
	if len(chain) != 2 {
		t.Fatalf("got %d evidence rows, want 2", len(chain))
	}
	for _, evidence := range chain {
		if evidence.Type != common.EvidenceAB {
			t.Errorf("evidence type = %q, want %q", evidence.Type, common.EvidenceAB)
		}
		if evidence.ResourceID == "" || evidence.Title == "" {
			t.Errorf("evidence row missing resource metadata: %+v", evidence)
		}
	}
}
