package discovery

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bibliograph/pkg/common"
	"bibliograph/pkg/store/base"
)

func newTestClient(t *testing.T, resources []common.Resource) *Client {
	t.Helper()
	storage := base.NewMemoryStorage()
	for _, resource := range resources {
		storage.AddResource(resource)
	}
	client, err := NewClient(NewClientParams{Store: storage})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestDiscoverHypothesesABC(t *testing.T) {
	resources := make([]common.Resource, 0)
	for i := 0; i < 5; i++ {
		resources = append(resources, taggedResource(fmt.Sprintf("ab%d", i), "machine learning", "optimization"))
	}
	for i := 0; i < 5; i++ {
		resources = append(resources, taggedResource(fmt.Sprintf("bc%d", i), "optimization", "drug discovery"))
	}
	resources = append(resources, taggedResource("ac0", "machine learning", "drug discovery"))

	client := newTestClient(t, resources)
	hypotheses, err := client.DiscoverHypotheses(context.Background(), "machine learning", "drug discovery", nil, 10)
	if err != nil {
		t.Fatalf("DiscoverHypotheses returned error: %v", err)
	}
	if len(hypotheses) == 0 {
		t.Fatal("expected at least one hypothesis")
	}

	top := hypotheses[0]
	if top.ConceptB != "optimization" {
		t.Errorf("top bridge = %q, want optimization", top.ConceptB)
	}
	if top.Confidence <= 0 {
		t.Errorf("top confidence = %f, want > 0", top.Confidence)
	}
	if len(top.EvidenceChain) == 0 {
		t.Error("top hypothesis has an empty evidence chain")
	}
	// one direct A-C resource exists, novelty must reflect it
	if top.Novelty >= 1.0 {
		t.Errorf("novelty = %f, want < 1.0 with a documented direct connection", top.Novelty)
	}
}

func TestDiscoverHypothesesNoOverlap(t *testing.T) {
	client := newTestClient(t, []common.Resource{
		taggedResource("r1", "topic_a"),
		taggedResource("r2", "topic_c"),
	})

	hypotheses, err := client.DiscoverHypotheses(context.Background(), "topic_a", "topic_c", nil, 10)
	if err != nil {
		t.Fatalf("DiscoverHypotheses returned error: %v", err)
	}
	if len(hypotheses) != 0 {
		t.Fatalf("got %d hypotheses, want 0", len(hypotheses))
	}
}

func TestDiscoverHypothesesUnknownConcept(t *testing.T) {
	client := newTestClient(t, []common.Resource{
		taggedResource("r1", "topic_a", "shared"),
		taggedResource("r2", "shared", "topic_c"),
	})

	hypotheses, err := client.DiscoverHypotheses(context.Background(), "missing", "topic_c", nil, 10)
	if err != nil {
		t.Fatalf("DiscoverHypotheses returned error: %v", err)
	}
	if len(hypotheses) != 0 {
		t.Fatalf("got %d hypotheses for an unknown concept, want 0", len(hypotheses))
	}
}

func TestDiscoverHypothesesEmptyConcept(t *testing.T) {
	client := newTestClient(t, nil)

	_, err := client.DiscoverHypotheses(context.Background(), "  ", "topic_c", nil, 10)
	if !errors.Is(err, ErrEmptyConcept) {
		t.Fatalf("got err = %v, want ErrEmptyConcept", err)
	}
}

func TestDiscoverHypothesesLimit(t *testing.T) {
	resources := make([]common.Resource, 0)
	for i := 0; i < 20; i++ {
		bridge := fmt.Sprintf("bridge_%02d", i)
		resources = append(resources, taggedResource(fmt.Sprintf("a%d", i), "alpha", bridge))
		resources = append(resources, taggedResource(fmt.Sprintf("c%d", i), bridge, "omega"))
	}
	client := newTestClient(t, resources)

	for _, limit := range []int{0, 1, 5, 100} {
		hypotheses, err := client.DiscoverHypotheses(context.Background(), "alpha", "omega", nil, limit)
		if err != nil {
			t.Fatalf("DiscoverHypotheses(limit=%d) returned error: %v", limit, err)
		}
		if len(hypotheses) > limit {
			t.Errorf("limit=%d returned %d hypotheses", limit, len(hypotheses))
		}
	}

	// a negative limit falls back to the client default
	hypotheses, err := client.DiscoverHypotheses(context.Background(), "alpha", "omega", nil, -1)
	if err != nil {
		t.Fatalf("DiscoverHypotheses(limit=-1) returned error: %v", err)
	}
	if len(hypotheses) != 10 {
		t.Errorf("default limit returned %d hypotheses, want 10", len(hypotheses))
	}
}

func TestDiscoverHypothesesTimeSlice(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2021, 6, d, 0, 0, 0, 0, time.UTC)
	}
	client := newTestClient(t, []common.Resource{
		datedResource("old1", day(1), "alpha", "bridge"),
		datedResource("old2", day(2), "bridge", "omega"),
		datedResource("new1", day(20), "alpha", "bridge"),
		datedResource("new2", day(21), "bridge", "omega"),
	})

	slice := &common.TimeSlice{Start: day(15), End: day(25)}
	hypotheses, err := client.DiscoverHypotheses(context.Background(), "alpha", "omega", slice, 10)
	if err != nil {
		t.Fatalf("DiscoverHypotheses returned error: %v", err)
	}
	if len(hypotheses) != 1 {
		t.Fatalf("got %d hypotheses, want 1", len(hypotheses))
	}
	// only the in-slice resources may support the hypothesis
	if hypotheses[0].ABSupport != 1 || hypotheses[0].BCSupport != 1 {
		t.Errorf("supports = (%d, %d), want (1, 1)", hypotheses[0].ABSupport, hypotheses[0].BCSupport)
	}
	for _, evidence := range hypotheses[0].EvidenceChain {
		if evidence.ResourceID == "old1" || evidence.ResourceID == "old2" {
			t.Errorf("out-of-slice resource %q in evidence chain", evidence.ResourceID)
		}
	}
}

func TestDiscoverABCAlias(t *testing.T) {
	client := newTestClient(t, []common.Resource{
		taggedResource("r1", "alpha", "bridge"),
		taggedResource("r2", "bridge", "omega"),
	})

	canonical, err := client.DiscoverHypotheses(context.Background(), "alpha", "omega", nil, 10)
	if err != nil {
		t.Fatalf("DiscoverHypotheses returned error: %v", err)
	}
	legacy, err := client.DiscoverABC(context.Background(), "alpha", "omega", nil, 10)
	if err != nil {
		t.Fatalf("DiscoverABC returned error: %v", err)
	}
	if len(canonical) != len(legacy) {
		t.Fatalf("alias returned %d hypotheses, canonical %d", len(legacy), len(canonical))
	}
	for i := range canonical {
		if canonical[i].ConceptB != legacy[i].ConceptB || canonical[i].Confidence != legacy[i].Confidence {
			t.Errorf("alias diverges at %d: %+v vs %+v", i, legacy[i], canonical[i])
		}
	}
}

func TestDiscoverHypothesesPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	resources := make([]common.Resource, 0, 1000)
	for i := 0; i < 1000; i++ {
		side := "alpha"
		if i >= 500 {
			side = "omega"
		}
		resources = append(resources, common.Resource{
			ID:      fmt.Sprintf("res_%04d", i),
			Title:   fmt.Sprintf("Synthetic resource %d", i),
			Subject: []string{side, fmt.Sprintf("bridge_%02d", i%100)},
		})
	}
	client := newTestClient(t, resources)

	start := time.Now()
	hypotheses, err := client.DiscoverHypotheses(context.Background(), "alpha", "omega", nil, 50)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("DiscoverHypotheses returned error: %v", err)
	}
	if len(hypotheses) != 50 {
		t.Fatalf("got %d hypotheses, want 50", len(hypotheses))
	}
	if elapsed > 5*time.Second {
		t.Fatalf("discovery took %s, budget is 5s", elapsed)
	}
}
