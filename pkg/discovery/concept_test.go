package discovery

import (
	"reflect"
	"testing"

	"bibliograph/pkg/common"
)

func TestNormalizeConcept(t *testing.T) {
	tests := []struct {
		name    string
		concept string
		want    string
	}{
		{
			name:    "already normalized",
			concept: "optimization",
			want:    "optimization",
		},
		{
			name:    "mixed case with whitespace",
			concept: "  Machine Learning ",
			want:    "machine learning",
		},
		{
			name:    "empty",
			concept: "",
			want:    "",
		},
		{
			name:    "only whitespace",
			concept: "   ",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeConcept(tt.concept)
			if got != tt.want {
				t.Errorf("NormalizeConcept(%q) = %q, want %q", tt.concept, got, tt.want)
			}
		})
	}
}

func TestDeriveConcepts(t *testing.T) {
	tests := []struct {
		name     string
		resource common.Resource
		want     map[string]struct{}
	}{
		{
			name: "subjects and classification",
			resource: common.Resource{
				Subject:            []string{"Machine Learning", "optimization"},
				ClassificationCode: "CS.AI",
			},
			want: map[string]struct{}{
				"machine learning": {},
				"optimization":     {},
				"cs.ai":            {},
			},
		},
		{
			name: "no classification",
			resource: common.Resource{
				Subject: []string{"chemistry"},
			},
			want: map[string]struct{}{
				"chemistry": {},
			},
		},
		{
			name:     "all fields empty",
			resource: common.Resource{},
			want:     map[string]struct{}{},
		},
		{
			name: "blank subject entries are skipped",
			resource: common.Resource{
				Subject: []string{"", "  ", "graphs"},
			},
			want: map[string]struct{}{
				"graphs": {},
			},
		},
		{
			name: "title and description do not contribute tokens",
			resource: common.Resource{
				Title:       "A survey of neural networks",
				Description: "Deep learning methods",
				Subject:     []string{"surveys"},
			},
			want: map[string]struct{}{
				"surveys": {},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveConcepts(tt.resource)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeriveConcepts() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMentionsConcept(t *testing.T) {
	resource := common.Resource{
		Title:              "Optimization methods for Drug Discovery",
		Description:        "We study gradient descent.",
		Subject:            []string{"machine learning"},
		ClassificationCode: "CS.AI",
	}

	tests := []struct {
		name    string
		concept string
		want    bool
	}{
		{name: "subject tag", concept: "machine learning", want: true},
		{name: "classification code", concept: "cs.ai", want: true},
		{name: "title substring", concept: "drug discovery", want: true},
		{name: "description substring", concept: "gradient", want: true},
		{name: "no match", concept: "chemistry", want: false},
		{name: "empty concept", concept: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MentionsConcept(resource, tt.concept)
			if got != tt.want {
				t.Errorf("MentionsConcept(%q) = %v, want %v", tt.concept, got, tt.want)
			}
		})
	}
}
