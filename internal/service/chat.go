package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openchat-labs/chat-backend/internal/domain"
	"github.com/openchat-labs/chat-backend/internal/llm"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const listLimit = 50
const previewLength = 100

// ChatService orchestrates the chat pipeline: resolve the target chat,
// append the user turn, call the completion gateway, append the reply,
// maybe synthesize a title, persist, respond. A single save call is the
// only durability point, so a failed gateway call leaves no trace of the
// request in history.
type ChatService struct {
	chats        domain.ChatRepository
	completer    llm.Completer
	historyLimit int
}

// NewChatService creates a new chat service
func NewChatService(chats domain.ChatRepository, completer llm.Completer, historyLimit int) *ChatService {
	return &ChatService{
		chats:        chats,
		completer:    completer,
		historyLimit: historyLimit,
	}
}

// SendResult is the outcome of a successful chat round trip
type SendResult struct {
	Response string
	ChatID   primitive.ObjectID
	Title    string
}

// SendMessage runs one chat request for the given user. An empty chatID
// starts a new conversation; otherwise the chat is loaded owner-filtered
// and ErrChatNotFound covers both missing and foreign chats.
func (s *ChatService) SendMessage(ctx context.Context, userID primitive.ObjectID, chatID, message string) (*SendResult, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	isNew := chatID == ""
	var chat *domain.Chat
	if isNew {
		now := time.Now()
		chat = &domain.Chat{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Title:     domain.DefaultChatTitle,
			Messages:  []domain.Message{},
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else {
		var err error
		chat, err = s.loadOwned(ctx, userID, chatID)
		if err != nil {
			return nil, err
		}
	}

	userTurn := domain.Message{
		Role:      domain.RoleUser,
		Content:   message,
		Timestamp: time.Now(),
	}
	chat.Messages = append(chat.Messages, userTurn)

	reply, err := s.completer.Complete(ctx, s.recentTurns(chat.Messages))
	if err != nil {
		return nil, err
	}

	assistantTurn := domain.Message{
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	chat.Messages = append(chat.Messages, assistantTurn)

	if isNew && len(chat.Messages) == 2 {
		chat.Title = SynthesizeTitle(chat.Messages)
	}

	if isNew {
		if err := s.chats.Insert(ctx, chat); err != nil {
			return nil, err
		}
	} else {
		err := s.chats.AppendMessages(ctx, chat.ID, userID, []domain.Message{userTurn, assistantTurn})
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("chat_id", chat.ID.Hex()).
		Int("message_count", len(chat.Messages)).
		Bool("new_chat", isNew).
		Msg("Chat round trip persisted")

	return &SendResult{
		Response: reply,
		ChatID:   chat.ID,
		Title:    chat.Title,
	}, nil
}

// recentTurns projects the newest historyLimit messages, oldest first,
// down to the role/content pairs the gateway accepts.
func (s *ChatService) recentTurns(messages []domain.Message) []llm.Turn {
	start := 0
	if len(messages) > s.historyLimit {
		start = len(messages) - s.historyLimit
	}

	turns := make([]llm.Turn, 0, len(messages)-start)
	for _, m := range messages[start:] {
		turns = append(turns, llm.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// List returns the user's chats as previews, newest-updated first,
// capped at 50 entries.
func (s *ChatService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.ChatSummary, error) {
	chats, err := s.chats.ListByOwner(ctx, userID, listLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ChatSummary, 0, len(chats))
	for _, c := range chats {
		summary := domain.ChatSummary{
			ID:           c.ID,
			Title:        c.Title,
			UpdatedAt:    c.UpdatedAt,
			MessageCount: len(c.Messages),
		}
		if len(c.Messages) > 0 {
			preview := truncate(c.Messages[len(c.Messages)-1].Content, previewLength)
			summary.LastMessage = &preview
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Get loads one full chat owned by the user
func (s *ChatService) Get(ctx context.Context, userID primitive.ObjectID, chatID string) (*domain.Chat, error) {
	return s.loadOwned(ctx, userID, chatID)
}

// Create makes an empty chat, optionally titled
func (s *ChatService) Create(ctx context.Context, userID primitive.ObjectID, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultChatTitle
	}

	now := time.Now()
	chat := &domain.Chat{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chats.Insert(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Rename sets a chat's title. The title is trimmed and must be non-empty.
func (s *ChatService) Rename(ctx context.Context, userID primitive.ObjectID, chatID, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}

	id, ok := parseID(chatID)
	if !ok {
		return "", ErrChatNotFound
	}

	chat, err := s.chats.Rename(ctx, id, userID, title)
	if errors.Is(err, domain.ErrNotFound) {
		return "", ErrChatNotFound
	}
	if err != nil {
		return "", err
	}
	return chat.Title, nil
}

// Delete removes a chat owned by the user
func (s *ChatService) Delete(ctx context.Context, userID primitive.ObjectID, chatID string) error {
	id, ok := parseID(chatID)
	if !ok {
		return ErrChatNotFound
	}

	err := s.chats.Delete(ctx, id, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrChatNotFound
	}
	return err
}

// ClearMessages empties a chat's history but keeps the document
func (s *ChatService) ClearMessages(ctx context.Context, userID primitive.ObjectID, chatID string) (*domain.Chat, error) {
	id, ok := parseID(chatID)
	if !ok {
		return nil, ErrChatNotFound
	}

	chat, err := s.chats.ClearMessages(ctx, id, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) loadOwned(ctx context.Context, userID primitive.ObjectID, chatID string) (*domain.Chat, error) {
	id, ok := parseID(chatID)
	if !ok {
		return nil, ErrChatNotFound
	}

	chat, err := s.chats.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

// parseID treats a malformed chat id like a miss rather than an error;
// the caller cannot tell the two apart anyway.
func parseID(chatID string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
