package app

import (
	"context"
	"math/rand"

	"graphdesk/internal/entity"
	"graphdesk/internal/model"
)

// NodeStore is the record-store surface the graph builder needs for nodes.
type NodeStore interface {
	GetByUserIDAndName(userID uint, name string) (*model.KnowledgeNode, error)
	Create(node *model.KnowledgeNode) error
	Update(node *model.KnowledgeNode) error
	ListByUserID(userID uint) ([]model.KnowledgeNode, error)
	CountByUserID(userID uint) (int64, error)
}

type RelationshipStore interface {
	Create(rel *model.KnowledgeRelationship) error
	ListByUserID(userID uint) ([]model.KnowledgeRelationship, error)
	CountByUserID(userID uint) (int64, error)
}

// DocumentFlagStore lets the builder finalize a document after graph growth.
type DocumentFlagStore interface {
	MarkVectorEmbedded(id uint) error
	CountByUserID(userID uint) (int64, error)
}

// StatsCache caches per-owner graph stats; nil disables caching.
type StatsCache interface {
	GetStats(ctx context.Context, userID uint) (*model.GraphStats, bool, error)
	SetStats(ctx context.Context, userID uint, stats model.GraphStats) error
	InvalidateStats(ctx context.Context, userID uint) error
}

// StrengthFunc produces a co-occurrence strength in [0.5, 1.0). The default
// draws uniform noise; tests inject deterministic values.
type StrengthFunc func() float64

func defaultStrength() float64 {
	return 0.5 + rand.Float64()*0.5
}

// GraphService grows a user's knowledge graph from recognized entities. It is
// the sole writer of graph structure; writes are visible immediately and are
// not rolled back when a later step fails.
type GraphService struct {
	nodes      NodeStore
	rels       RelationshipStore
	docs       DocumentFlagStore
	statsCache StatsCache
	strength   StrengthFunc
}

func NewGraphService(nodes NodeStore, rels RelationshipStore, docs DocumentFlagStore, statsCache StatsCache, strength StrengthFunc) *GraphService {
	if strength == nil {
		strength = defaultStrength
	}
	return &GraphService{
		nodes:      nodes,
		rels:       rels,
		docs:       docs,
		statsCache: statsCache,
		strength:   strength,
	}
}

// Build merges one document's entity occurrences into the owner's graph.
//
// First pass, in scan order: upsert each node by (owner, name) — a repeat
// mention increments count, a first mention inserts with count 1 — and append
// one mentioned_in edge per occurrence. Second pass: for every ordered pair
// of occurrences with differing names, append a related_to edge with an
// independently drawn strength, so both directions are always written.
// Finally the document is flagged vector_embedded.
func (s *GraphService) Build(userID, documentID uint, candidates []entity.Candidate) error {
	nodeIDs := make([]uint, len(candidates))

	for i, cand := range candidates {
		node, err := s.nodes.GetByUserIDAndName(userID, cand.Name)
		if err != nil {
			return err
		}
		if node != nil {
			node.Count++
			if err := s.nodes.Update(node); err != nil {
				return err
			}
		} else {
			node = &model.KnowledgeNode{
				UserID: userID,
				Name:   cand.Name,
				Type:   cand.Type,
				Count:  1,
			}
			node.SetMetadata(model.NodeMetadata{Confidence: cand.Confidence})
			if err := s.nodes.Create(node); err != nil {
				return err
			}
		}
		nodeIDs[i] = node.ID

		mention := &model.KnowledgeRelationship{
			UserID:           userID,
			SourceNodeID:     node.ID,
			TargetID:         documentID,
			RelationshipType: model.RelationMentionedIn,
		}
		mention.SetMetadata(model.RelationshipMetadata{
			Confidence: cand.Confidence,
			Context:    cand.Context,
		})
		if err := s.rels.Create(mention); err != nil {
			return err
		}
	}

	for i, cand := range candidates {
		for j, other := range candidates {
			if i == j || other.Name == cand.Name {
				continue
			}
			peer, err := s.nodes.GetByUserIDAndName(userID, other.Name)
			if err != nil {
				return err
			}
			if peer == nil {
				continue
			}
			rel := &model.KnowledgeRelationship{
				UserID:           userID,
				SourceNodeID:     nodeIDs[i],
				TargetID:         peer.ID,
				RelationshipType: model.RelationRelatedTo,
			}
			rel.SetMetadata(model.RelationshipMetadata{
				Strength:   s.strength(),
				DocumentID: documentID,
			})
			if err := s.rels.Create(rel); err != nil {
				return err
			}
		}
	}

	if s.statsCache != nil {
		_ = s.statsCache.InvalidateStats(context.Background(), userID)
	}
	return s.docs.MarkVectorEmbedded(documentID)
}

// GraphSnapshot is the owner's full graph, as rendered by the client.
type GraphSnapshot struct {
	Nodes         []model.KnowledgeNode         `json:"nodes"`
	Relationships []model.KnowledgeRelationship `json:"relationships"`
}

func (s *GraphService) Snapshot(userID uint) (*GraphSnapshot, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	nodes, err := s.nodes.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	rels, err := s.rels.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	return &GraphSnapshot{Nodes: nodes, Relationships: rels}, nil
}

func (s *GraphService) Stats(ctx context.Context, userID uint) (*model.GraphStats, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if s.statsCache != nil {
		if cached, hit, err := s.statsCache.GetStats(ctx, userID); err == nil && hit {
			return cached, nil
		}
	}

	nodeCount, err := s.nodes.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	relCount, err := s.rels.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	docCount, err := s.docs.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	stats := model.GraphStats{
		NodeCount:         nodeCount,
		RelationshipCount: relCount,
		DocumentCount:     docCount,
	}
	if s.statsCache != nil {
		_ = s.statsCache.SetStats(ctx, userID, stats)
	}
	return &stats, nil
}
