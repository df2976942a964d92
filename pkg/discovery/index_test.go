package discovery

import (
	"testing"
	"time"

	"bibliograph/pkg/common"
)

func taggedResource(id string, subjects ...string) common.Resource {
	return common.Resource{
		ID:      id,
		Title:   "Resource " + id,
		Subject: subjects,
	}
}

func datedResource(id string, created time.Time, subjects ...string) common.Resource {
	r := taggedResource(id, subjects...)
	r.DateCreated = &created
	return r
}

func resourceIDs(resources []common.Resource) []string {
	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFindResourcesWithConcept(t *testing.T) {
	idx := NewIndex([]common.Resource{
		taggedResource("r1", "machine learning", "optimization"),
		taggedResource("r2", "chemistry"),
		{ID: "r3", Title: "Advances in Machine Learning", Description: "none"},
		{ID: "r4", Description: "applications of machine learning in biology"},
		{ID: "r5", ClassificationCode: "CS.AI"},
	})

	tests := []struct {
		name    string
		concept string
		want    []string
	}{
		{
			name:    "subject tag and substring matches combined",
			concept: "Machine Learning",
			want:    []string{"r1", "r3", "r4"},
		},
		{
			name:    "classification code",
			concept: "cs.ai",
			want:    []string{"r5"},
		},
		{
			name:    "no matches",
			concept: "astronomy",
			want:    []string{},
		},
		{
			name:    "empty concept",
			concept: "",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resourceIDs(idx.FindResourcesWithConcept(tt.concept, nil))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFindResourcesWithConceptTimeSlice(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
	}
	idx := NewIndex([]common.Resource{
		datedResource("early", day(1), "optimization"),
		datedResource("inside", day(15), "optimization"),
		datedResource("late", day(30), "optimization"),
		taggedResource("undated", "optimization"),
	})
	slice := &common.TimeSlice{Start: day(10), End: day(20)}

	sliced := resourceIDs(idx.FindResourcesWithConcept("optimization", slice))
	if len(sliced) != 1 || sliced[0] != "inside" {
		t.Fatalf("time-sliced lookup = %v, want [inside]", sliced)
	}

	// Without a slice the result is a superset, and undated resources
	// are included again.
	all := resourceIDs(idx.FindResourcesWithConcept("optimization", nil))
	if len(all) != 4 {
		t.Fatalf("unsliced lookup = %v, want 4 resources", all)
	}
	for _, id := range sliced {
		found := false
		for _, other := range all {
			if other == id {
				found = true
			}
		}
		if !found {
			t.Fatalf("sliced result %q missing from unsliced result", id)
		}
	}
}

func TestCountConnectionsSymmetry(t *testing.T) {
	idx := NewIndex([]common.Resource{
		taggedResource("r1", "machine learning", "optimization"),
		taggedResource("r2", "machine learning", "optimization"),
		taggedResource("r3", "optimization", "drug discovery"),
		taggedResource("r4", "machine learning"),
	})

	pairs := [][2]string{
		{"machine learning", "optimization"},
		{"optimization", "drug discovery"},
		{"machine learning", "drug discovery"},
		{"machine learning", "missing"},
	}
	for _, pair := range pairs {
		xy := idx.CountConnections(pair[0], pair[1], nil)
		yx := idx.CountConnections(pair[1], pair[0], nil)
		if xy != yx {
			t.Errorf("count(%q, %q) = %d but count(%q, %q) = %d", pair[0], pair[1], xy, pair[1], pair[0], yx)
		}
	}

	if got := idx.CountConnections("machine learning", "optimization", nil); got != 2 {
		t.Errorf("count(machine learning, optimization) = %d, want 2", got)
	}
	if got := idx.CountConnections("machine learning", "drug discovery", nil); got != 0 {
		t.Errorf("count(machine learning, drug discovery) = %d, want 0", got)
	}
}

func TestIndexLen(t *testing.T) {
	idx := NewIndex([]common.Resource{
		taggedResource("r1", "alpha"),
		taggedResource("r2", "omega"),
	})
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
	if NewIndex(nil).Len() != 0 {
		t.Error("empty index has nonzero length")
	}
}
