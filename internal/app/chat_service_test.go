package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphdesk/internal/ai"
	"graphdesk/internal/model"
)

type fakeNodeSearcher struct {
	nodes []model.KnowledgeNode
}

func (f *fakeNodeSearcher) SearchByName(userID uint, term string, limit int) ([]model.KnowledgeNode, error) {
	var out []model.KnowledgeNode
	for _, n := range f.nodes {
		if n.UserID != userID {
			continue
		}
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(n.Name), strings.ToLower(term)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func chatServiceWith(nodes NodeSearcher, llm ai.ChatConfig) *ChatService {
	return NewChatService(nil, nil, nodes, nil, nil, llm, 20)
}

func TestAvailable(t *testing.T) {
	svc := chatServiceWith(nil, ai.ChatConfig{BaseURL: "https://api.example.com/v1", APIKey: "k", Model: "m"})
	assert.True(t, svc.Available())

	svc = chatServiceWith(nil, ai.ChatConfig{BaseURL: "https://api.example.com/v1", Model: "m"})
	assert.False(t, svc.Available())
}

func TestCollectSourcesDedupesAndCaps(t *testing.T) {
	searcher := &fakeNodeSearcher{nodes: []model.KnowledgeNode{
		{ID: 1, UserID: 7, Name: "Kubernetes", Count: 9},
		{ID: 2, UserID: 7, Name: "Kubernetes Operators", Count: 4},
		{ID: 3, UserID: 7, Name: "Docker", Count: 3},
		{ID: 4, UserID: 8, Name: "Kubernetes", Count: 1},
	}}
	svc := chatServiceWith(searcher, ai.ChatConfig{})

	sources, err := svc.collectSources(7, "what is Kubernetes vs Docker? Kubernetes again")
	require.NoError(t, err)

	ids := make([]uint, len(sources))
	for i, s := range sources {
		ids[i] = s.ID
	}
	// "Kubernetes" matched twice but each node appears once; other owners
	// never leak in.
	assert.Equal(t, []uint{1, 2, 3}, ids)
}

func TestCollectSourcesSkipsShortTerms(t *testing.T) {
	searcher := &fakeNodeSearcher{nodes: []model.KnowledgeNode{
		{ID: 1, UserID: 7, Name: "Go"},
	}}
	svc := chatServiceWith(searcher, ai.ChatConfig{})

	sources, err := svc.collectSources(7, "is Go ok?")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestTrimMessages(t *testing.T) {
	messages := []model.Message{
		{Content: "a"}, {Content: "b"}, {Content: "c"},
	}

	assert.Len(t, trimMessages(messages, 0), 3)
	assert.Len(t, trimMessages(messages, 5), 3)

	trimmed := trimMessages(messages, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "b", trimmed[0].Content)
	assert.Equal(t, "c", trimmed[1].Content)
}
