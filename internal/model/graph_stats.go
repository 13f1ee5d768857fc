package model

// GraphStats is a per-owner summary of the knowledge graph.
type GraphStats struct {
	NodeCount         int64 `json:"node_count"`
	RelationshipCount int64 `json:"relationship_count"`
	DocumentCount     int64 `json:"document_count"`
}
