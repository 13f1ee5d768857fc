package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"graphdesk/internal/ai"
	"graphdesk/internal/model"
	"graphdesk/internal/repository"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageEmpty         = errors.New("message content is empty")
	ErrChatUnavailable      = errors.New("chat is not configured: missing completion api key")
	ErrMessageEnqueue       = errors.New("message enqueue failed")
)

// chatSystemPrompt grounds every answer in the user's knowledge graph.
const chatSystemPrompt = "You are a knowledge-base assistant. Answer the user's question using only the " +
	"knowledge graph context provided. Cite entities by name. If the context does not contain " +
	"enough information, say so plainly instead of guessing."

const maxChatSources = 5

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, conversationID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, conversationID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, conversationID uint) error
	MarkDirty(ctx context.Context, conversationID uint) error
	IsDirty(ctx context.Context, conversationID uint) (bool, error)
}

// NodeSearcher finds knowledge nodes to use as answer sources.
type NodeSearcher interface {
	SearchByName(userID uint, term string, limit int) ([]model.KnowledgeNode, error)
}

type ChatService struct {
	convRepo     *repository.ConversationRepository
	messageRepo  *repository.MessageRepository
	nodes        NodeSearcher
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	llmClient    *ai.OpenAICompatibleClient
	llm          ai.ChatConfig
	maxContext   int
}

func NewChatService(
	convRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	nodes NodeSearcher,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	llm ai.ChatConfig,
	maxContext int,
) *ChatService {
	if maxContext <= 0 {
		maxContext = 20
	}
	return &ChatService{
		convRepo:     convRepo,
		messageRepo:  messageRepo,
		nodes:        nodes,
		publisher:    publisher,
		historyCache: historyCache,
		llmClient:    ai.NewOpenAICompatibleClient(),
		llm:          llm,
		maxContext:   maxContext,
	}
}

// Available reports whether the completion collaborator is configured. A
// missing API key disables chat only; the document pipeline is unaffected.
func (s *ChatService) Available() bool {
	return s.llm.APIKey != "" && s.llm.BaseURL != "" && s.llm.Model != ""
}

type CreateConversationInput struct {
	UserID uint
	Title  string
}

func (s *ChatService) CreateConversation(input CreateConversationInput) (*model.Conversation, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Conversation"
	}
	conv := &model.Conversation{UserID: input.UserID, Title: title}
	if err := s.convRepo.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(userID uint) ([]model.Conversation, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.convRepo.ListByUserID(userID)
}

func (s *ChatService) DeleteConversation(userID, conversationID uint) error {
	if userID == 0 || conversationID == 0 {
		return ErrInvalidInput
	}
	conv, err := s.convRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversationNotFound
	}
	if err := s.messageRepo.DeleteByConversationID(conversationID); err != nil {
		return err
	}
	if err := s.convRepo.DeleteByIDAndUserID(conversationID, userID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), conversationID)
	}
	return nil
}

type AskInput struct {
	UserID         uint
	ConversationID uint
	Query          string
}

type AskResult struct {
	Answer  string                `json:"answer"`
	Sources []model.KnowledgeNode `json:"sources"`
}

// Ask answers a question against the knowledge base: matching nodes become
// the context and the cited sources. Both sides of the exchange are persisted
// asynchronously through the message queue.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	if input.UserID == 0 || input.ConversationID == 0 {
		return nil, ErrInvalidInput
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ErrMessageEmpty
	}
	if !s.Available() {
		return nil, ErrChatUnavailable
	}

	conv, err := s.convRepo.GetByIDAndUserID(input.ConversationID, input.UserID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	sources, err := s.collectSources(input.UserID, query)
	if err != nil {
		return nil, err
	}
	promptMessages, err := s.buildPromptMessages(input.ConversationID, query, sources)
	if err != nil {
		return nil, err
	}

	if s.publisher == nil {
		return nil, ErrMessageEnqueue
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, input.ConversationID)
		_ = s.historyCache.DeleteHistory(ctx, input.ConversationID)
	}

	userMessage := model.Message{
		ConversationID: input.ConversationID,
		UserID:         input.UserID,
		Role:           "user",
		Content:        query,
		CreatedAt:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, userMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	answer, err := s.llmClient.Complete(ctx, s.llm, promptMessages)
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "The model returned an empty response."
	}

	assistantMessage := model.Message{
		ConversationID: input.ConversationID,
		UserID:         input.UserID,
		Role:           "assistant",
		Content:        answer,
		CreatedAt:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, assistantMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	if sources == nil {
		sources = []model.KnowledgeNode{}
	}
	return &AskResult{Answer: answer, Sources: sources}, nil
}

func (s *ChatService) GetHistory(userID, conversationID uint, limit int) ([]model.Message, error) {
	if userID == 0 || conversationID == 0 {
		return nil, ErrInvalidInput
	}

	conv, err := s.convRepo.GetByIDAndUserID(conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	ctx := context.Background()
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, conversationID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, conversationID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messageRepo.ListByConversationID(conversationID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, conversationID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, conversationID, messages)
		}
	}
	return messages, nil
}

// collectSources matches query terms of three or more letters against node
// names, deduped by id, most-mentioned first, capped at maxChatSources.
func (s *ChatService) collectSources(userID uint, query string) ([]model.KnowledgeNode, error) {
	seen := make(map[uint]bool)
	var sources []model.KnowledgeNode

	for _, term := range strings.Fields(query) {
		term = strings.Trim(term, ".,;:!?\"'()")
		if len(term) < 3 {
			continue
		}
		matches, err := s.nodes.SearchByName(userID, term, maxChatSources)
		if err != nil {
			return nil, err
		}
		for _, node := range matches {
			if seen[node.ID] {
				continue
			}
			seen[node.ID] = true
			sources = append(sources, node)
			if len(sources) >= maxChatSources {
				return sources, nil
			}
		}
	}
	return sources, nil
}

func (s *ChatService) buildPromptMessages(conversationID uint, query string, sources []model.KnowledgeNode) ([]ai.ChatMessage, error) {
	recent, err := s.messageRepo.ListRecentByConversationID(conversationID, s.maxContext)
	if err != nil {
		return nil, err
	}

	var contextBlock strings.Builder
	contextBlock.WriteString(chatSystemPrompt)
	if len(sources) > 0 {
		contextBlock.WriteString("\n\nKnowledge graph context:")
		for _, node := range sources {
			contextBlock.WriteString(fmt.Sprintf("\n- %s (%s, %d mentions)", node.Name, node.Type, node.Count))
		}
	}

	messages := make([]ai.ChatMessage, 0, len(recent)+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: contextBlock.String()})
	for _, item := range recent {
		role := item.Role
		if role == "" {
			role = "user"
		}
		messages = append(messages, ai.ChatMessage{Role: role, Content: item.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: "user", Content: query})
	return messages, nil
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}
