package common

import "time"

// Resource represents a single item in the library: a paper, a document, or
// a code file. Resources are created by the ingestion pipeline and are
// read-only from the discovery engine's perspective.
//
// A resource's concepts are derived, never stored: the subject tags plus the
// lower-cased classification code form its enumerable concept set, and free
// text in title/description can additionally match a concept by substring.
type Resource struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Subject            []string   `json:"subject"`
	ClassificationCode string     `json:"classification_code"`
	PublicationYear    *int       `json:"publication_year"`
	DateCreated        *time.Time `json:"date_created"`
}

// TimeSlice restricts which resources count as mentioning a concept.
// Both bounds are inclusive. Resources without a creation date are excluded
// while a time slice is active.
type TimeSlice struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the slice. A nil timestamp never
// falls inside a slice.
func (s TimeSlice) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(s.Start) && !t.After(s.End)
}

// Evidence is one supporting resource for a single link of an ABC
// hypothesis, kept for human audit. Type is either "A-B" or "B-C".
type Evidence struct {
	Type            string `json:"type"`
	ResourceID      string `json:"resource_id"`
	Title           string `json:"title"`
	PublicationYear *int   `json:"publication_year"`
}

const (
	EvidenceAB = "A-B"
	EvidenceBC = "B-C"
)

// Hypothesis is a ranked ABC discovery candidate: concept B plausibly links
// concept A to concept C. Hypotheses are request-scoped and never persisted
// by the engine itself.
type Hypothesis struct {
	ID              string     `json:"id"`
	ConceptA        string     `json:"concept_a"`
	ConceptB        string     `json:"concept_b"`
	ConceptC        string     `json:"concept_c"`
	ABSupport       int        `json:"ab_support"`
	BCSupport       int        `json:"bc_support"`
	SupportStrength float64    `json:"support_strength"`
	Novelty         float64    `json:"novelty"`
	Confidence      float64    `json:"confidence"`
	EvidenceChain   []Evidence `json:"evidence_chain"`
}

// Edge is a weighted, typed connection between two resources in the
// multilayer graph. Citation edges come from the citation table, similarity
// edges from nearest-neighbor search over stored embeddings.
type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Weight   float64 `json:"weight"`
	EdgeType string  `json:"edge_type"`
}

const (
	EdgeTypeCitation   = "citation"
	EdgeTypeSimilarity = "embedding-similarity"
)

// Graph is the multilayer discovery graph. Nodes are resource IDs, adjacency
// is undirected for traversal purposes. The graph is built by the graph
// service, cached, and traversed read-only by discovery.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// GraphHypothesis is the result of open discovery over the graph: target
// resource C reached from A through one or more bridging resources B.
// UsedEdges lists the edges that carried the plausibility score so that a
// validation endpoint can reinforce them.
type GraphHypothesis struct {
	SourceResource    string   `json:"source_resource"`
	TargetResource    string   `json:"target_resource"`
	BResources        []string `json:"b_resources"`
	PlausibilityScore float64  `json:"plausibility_score"`
	UsedEdges         []Edge   `json:"used_edges"`
}

// Path is one route between two known resources found by closed discovery.
type Path struct {
	Resources         []string `json:"resources"`
	BResources        []string `json:"b_resources"`
	PathLength        int      `json:"path_length"`
	PlausibilityScore float64  `json:"plausibility_score"`
	UsedEdges         []Edge   `json:"used_edges"`
}
