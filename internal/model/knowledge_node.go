package model

import (
	"encoding/json"
	"time"
)

// Node type values assigned by the entity recognizer.
const (
	NodeTypePerson        = "person"
	NodeTypeOrganization  = "organization"
	NodeTypeConcept       = "concept"
	NodeTypeTechnicalTerm = "technical_term"
	NodeTypeDate          = "date"
)

// KnowledgeNode is one entity in a user's knowledge graph. Name is unique per
// user and is the dedup key: repeated mentions across documents increment
// Count instead of creating new rows.
type KnowledgeNode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_owner_name" json:"user_id"`
	Name      string    `gorm:"size:256;not null;uniqueIndex:idx_owner_name" json:"name"`
	Type      string    `gorm:"size:32;not null;default:concept" json:"type"`
	Count     int       `gorm:"not null;default:1" json:"count"`
	Metadata  string    `gorm:"type:text" json:"-"` // JSON, see NodeMetadata
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NodeMetadata struct {
	Confidence float64 `json:"confidence,omitempty"`
}

// ParsedMetadata returns the decoded metadata; zero value on parse error.
func (n *KnowledgeNode) ParsedMetadata() NodeMetadata {
	var m NodeMetadata
	if n.Metadata != "" {
		_ = json.Unmarshal([]byte(n.Metadata), &m)
	}
	return m
}

// SetMetadata stores the metadata as JSON.
func (n *KnowledgeNode) SetMetadata(m NodeMetadata) {
	b, _ := json.Marshal(m)
	n.Metadata = string(b)
}
