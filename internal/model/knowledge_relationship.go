package model

import (
	"encoding/json"
	"time"
)

// Relationship types. A mentioned_in edge targets a document id; a related_to
// edge targets another knowledge node id.
const (
	RelationMentionedIn = "mentioned_in"
	RelationRelatedTo   = "related_to"
)

// KnowledgeRelationship is an edge in the knowledge graph. Edges are
// append-only during processing; reprocessing a document adds new edges
// without touching earlier ones.
type KnowledgeRelationship struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	SourceNodeID     uint      `gorm:"not null;index" json:"source_node_id"`
	TargetID         uint      `gorm:"not null;index" json:"target_id"`
	RelationshipType string    `gorm:"size:32;not null;index" json:"relationship_type"`
	Metadata         string    `gorm:"type:text" json:"-"` // JSON, see RelationshipMetadata
	CreatedAt        time.Time `json:"created_at"`
}

type RelationshipMetadata struct {
	Strength   float64 `json:"strength,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Context    string  `json:"context,omitempty"`
	DocumentID uint    `json:"document_id,omitempty"`
}

// ParsedMetadata returns the decoded metadata; zero value on parse error.
func (r *KnowledgeRelationship) ParsedMetadata() RelationshipMetadata {
	var m RelationshipMetadata
	if r.Metadata != "" {
		_ = json.Unmarshal([]byte(r.Metadata), &m)
	}
	return m
}

// SetMetadata stores the metadata as JSON.
func (r *KnowledgeRelationship) SetMetadata(m RelationshipMetadata) {
	b, _ := json.Marshal(m)
	r.Metadata = string(b)
}
