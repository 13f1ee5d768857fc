package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdesk/internal/entity"
	"graphdesk/internal/model"
)

type fakeNodeStore struct {
	nextID uint
	nodes  []*model.KnowledgeNode
}

func (f *fakeNodeStore) GetByUserIDAndName(userID uint, name string) (*model.KnowledgeNode, error) {
	for _, n := range f.nodes {
		if n.UserID == userID && n.Name == name {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNodeStore) Create(node *model.KnowledgeNode) error {
	f.nextID++
	node.ID = f.nextID
	f.nodes = append(f.nodes, node)
	return nil
}

func (f *fakeNodeStore) Update(node *model.KnowledgeNode) error { return nil }

func (f *fakeNodeStore) ListByUserID(userID uint) ([]model.KnowledgeNode, error) {
	var out []model.KnowledgeNode
	for _, n := range f.nodes {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNodeStore) CountByUserID(userID uint) (int64, error) {
	list, _ := f.ListByUserID(userID)
	return int64(len(list)), nil
}

type fakeRelStore struct {
	rels []*model.KnowledgeRelationship
}

func (f *fakeRelStore) Create(rel *model.KnowledgeRelationship) error {
	rel.ID = uint(len(f.rels) + 1)
	f.rels = append(f.rels, rel)
	return nil
}

func (f *fakeRelStore) ListByUserID(userID uint) ([]model.KnowledgeRelationship, error) {
	var out []model.KnowledgeRelationship
	for _, r := range f.rels {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRelStore) CountByUserID(userID uint) (int64, error) {
	list, _ := f.ListByUserID(userID)
	return int64(len(list)), nil
}

func (f *fakeRelStore) byType(relType string) []*model.KnowledgeRelationship {
	var out []*model.KnowledgeRelationship
	for _, r := range f.rels {
		if r.RelationshipType == relType {
			out = append(out, r)
		}
	}
	return out
}

type fakeDocFlags struct {
	embedded []uint
	docCount int64
}

func (f *fakeDocFlags) MarkVectorEmbedded(id uint) error {
	f.embedded = append(f.embedded, id)
	return nil
}

func (f *fakeDocFlags) CountByUserID(userID uint) (int64, error) { return f.docCount, nil }

type fakeStatsCache struct {
	stats       map[uint]model.GraphStats
	invalidated int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: make(map[uint]model.GraphStats)}
}

func (f *fakeStatsCache) GetStats(ctx context.Context, userID uint) (*model.GraphStats, bool, error) {
	if s, ok := f.stats[userID]; ok {
		return &s, true, nil
	}
	return nil, false, nil
}

func (f *fakeStatsCache) SetStats(ctx context.Context, userID uint, stats model.GraphStats) error {
	f.stats[userID] = stats
	return nil
}

func (f *fakeStatsCache) InvalidateStats(ctx context.Context, userID uint) error {
	delete(f.stats, userID)
	f.invalidated++
	return nil
}

func cand(name, typ string) entity.Candidate {
	return entity.Candidate{Name: name, Type: typ, Confidence: 0.7, Context: "ctx " + name}
}

func TestBuildDeduplicatesNodesAndCounts(t *testing.T) {
	nodes := &fakeNodeStore{}
	rels := &fakeRelStore{}
	docs := &fakeDocFlags{}
	svc := NewGraphService(nodes, rels, docs, nil, func() float64 { return 0.5 })

	err := svc.Build(1, 10, []entity.Candidate{
		cand("Alice", model.NodeTypePerson),
		cand("Bob", model.NodeTypePerson),
		cand("Alice", model.NodeTypePerson),
	})
	require.NoError(t, err)

	require.Len(t, nodes.nodes, 2)
	alice, err := nodes.GetByUserIDAndName(1, "Alice")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, 2, alice.Count)

	bob, err := nodes.GetByUserIDAndName(1, "Bob")
	require.NoError(t, err)
	require.NotNil(t, bob)
	assert.Equal(t, 1, bob.Count)

	mentions := rels.byType(model.RelationMentionedIn)
	require.Len(t, mentions, 3)
	for _, m := range mentions {
		assert.Equal(t, uint(10), m.TargetID)
	}

	assert.Equal(t, []uint{10}, docs.embedded)
}

func TestBuildWritesBothCoOccurrenceDirections(t *testing.T) {
	nodes := &fakeNodeStore{}
	rels := &fakeRelStore{}
	strengths := []float64{0.6, 0.9}
	i := 0
	svc := NewGraphService(nodes, rels, &fakeDocFlags{}, nil, func() float64 {
		s := strengths[i%len(strengths)]
		i++
		return s
	})

	err := svc.Build(1, 10, []entity.Candidate{
		cand("Alice", model.NodeTypePerson),
		cand("Bob", model.NodeTypePerson),
	})
	require.NoError(t, err)

	related := rels.byType(model.RelationRelatedTo)
	require.Len(t, related, 2)

	alice, _ := nodes.GetByUserIDAndName(1, "Alice")
	bob, _ := nodes.GetByUserIDAndName(1, "Bob")

	directions := make(map[string]float64)
	for _, r := range related {
		key := fmt.Sprintf("%d->%d", r.SourceNodeID, r.TargetID)
		meta := r.ParsedMetadata()
		directions[key] = meta.Strength
		assert.Equal(t, uint(10), meta.DocumentID)
	}
	assert.Equal(t, 0.6, directions[fmt.Sprintf("%d->%d", alice.ID, bob.ID)])
	assert.Equal(t, 0.9, directions[fmt.Sprintf("%d->%d", bob.ID, alice.ID)])
}

func TestBuildRelatesEveryOccurrencePair(t *testing.T) {
	nodes := &fakeNodeStore{}
	rels := &fakeRelStore{}
	svc := NewGraphService(nodes, rels, &fakeDocFlags{}, nil, func() float64 { return 0.75 })

	// [A, B, A]: four ordered pairs with differing names.
	err := svc.Build(1, 10, []entity.Candidate{
		cand("Alice", model.NodeTypePerson),
		cand("Bob", model.NodeTypePerson),
		cand("Alice", model.NodeTypePerson),
	})
	require.NoError(t, err)

	assert.Len(t, rels.byType(model.RelationRelatedTo), 4)
}

func TestBuildSameNamePairsSkipped(t *testing.T) {
	nodes := &fakeNodeStore{}
	rels := &fakeRelStore{}
	svc := NewGraphService(nodes, rels, &fakeDocFlags{}, nil, func() float64 { return 0.75 })

	err := svc.Build(1, 10, []entity.Candidate{
		cand("Alice", model.NodeTypePerson),
		cand("Alice", model.NodeTypePerson),
	})
	require.NoError(t, err)

	assert.Empty(t, rels.byType(model.RelationRelatedTo))
}

func TestBuildInvalidatesStatsCache(t *testing.T) {
	statsCache := newFakeStatsCache()
	statsCache.stats[1] = model.GraphStats{NodeCount: 99}
	svc := NewGraphService(&fakeNodeStore{}, &fakeRelStore{}, &fakeDocFlags{}, statsCache, func() float64 { return 0.5 })

	err := svc.Build(1, 10, []entity.Candidate{cand("Alice", model.NodeTypePerson)})
	require.NoError(t, err)

	assert.Equal(t, 1, statsCache.invalidated)
	assert.Empty(t, statsCache.stats)
}

func TestDefaultStrengthRange(t *testing.T) {
	for range [200]struct{}{} {
		s := defaultStrength()
		assert.GreaterOrEqual(t, s, 0.5)
		assert.Less(t, s, 1.0)
	}
}

func TestStatsCountsAndCaches(t *testing.T) {
	nodes := &fakeNodeStore{}
	rels := &fakeRelStore{}
	docs := &fakeDocFlags{docCount: 4}
	statsCache := newFakeStatsCache()
	svc := NewGraphService(nodes, rels, docs, statsCache, nil)

	require.NoError(t, svc.Build(1, 10, []entity.Candidate{
		cand("Alice", model.NodeTypePerson),
		cand("Bob", model.NodeTypePerson),
	}))

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.NodeCount)
	assert.Equal(t, int64(4), stats.RelationshipCount) // 2 mentions + 2 related
	assert.Equal(t, int64(4), stats.DocumentCount)

	cached, hit, err := statsCache.GetStats(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, *stats, *cached)
}

func TestSnapshotScopedToOwner(t *testing.T) {
	nodes := &fakeNodeStore{}
	rels := &fakeRelStore{}
	svc := NewGraphService(nodes, rels, &fakeDocFlags{}, nil, func() float64 { return 0.5 })

	require.NoError(t, svc.Build(1, 10, []entity.Candidate{cand("Alice", model.NodeTypePerson)}))
	require.NoError(t, svc.Build(2, 20, []entity.Candidate{cand("Eve", model.NodeTypePerson)}))

	snap, err := svc.Snapshot(1)
	require.NoError(t, err)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "Alice", snap.Nodes[0].Name)
	require.Len(t, snap.Relationships, 1)
}
