package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/openchat-labs/chat-backend/internal/domain"
	"github.com/openchat-labs/chat-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// chatRoutes mounts the history handler the way the router does, so
// chi's URL params resolve in tests.
func chatRoutes(h *ChatHistoryHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/chats", h.List)
	r.Post("/api/chats", h.Create)
	r.Get("/api/chats/{chatID}", h.Get)
	r.Patch("/api/chats/{chatID}/title", h.Rename)
	r.Delete("/api/chats/{chatID}", h.Delete)
	r.Delete("/api/chats/{chatID}/messages", h.ClearMessages)
	return r
}

func TestChatHistoryHandler_List(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("repository failure", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("ListByOwner", mock.Anything, userID, int64(50)).Return(nil, assert.AnError)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch chat history"}`, rec.Body.String())
	})

	t.Run("returns previews", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("ListByOwner", mock.Anything, userID, int64(50)).Return([]domain.Chat{
			{
				ID:    primitive.NewObjectID(),
				Title: "Paris trip",
				Messages: []domain.Message{
					{Role: domain.RoleUser, Content: "hello"},
					{Role: domain.RoleAssistant, Content: "hi there"},
				},
			},
		}, nil)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"Paris trip"`)
		assert.Contains(t, rec.Body.String(), `"lastMessage":"hi there"`)
		assert.Contains(t, rec.Body.String(), `"messageCount":2`)
	})
}

func TestChatHistoryHandler_Get(t *testing.T) {
	userID := primitive.NewObjectID()
	chatID := primitive.NewObjectID()

	t.Run("not owned", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("GetByIDAndOwner", mock.Anything, chatID, userID).Return(nil, nil)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodGet, "/api/chats/"+chatID.Hex(), nil)
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Chat not found"}`, rec.Body.String())
	})

	t.Run("returns full chat", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("GetByIDAndOwner", mock.Anything, chatID, userID).Return(&domain.Chat{
			ID:     chatID,
			UserID: userID,
			Title:  "Paris trip",
			Messages: []domain.Message{
				{Role: domain.RoleUser, Content: "hello"},
			},
		}, nil)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodGet, "/api/chats/"+chatID.Hex(), nil)
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"content":"hello"`)
	})
}

func TestChatHistoryHandler_Create(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("defaults the title", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Chat")).Return(nil)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodPost, "/api/chats", strings.NewReader(`{}`))
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"New Chat"`)
	})

	t.Run("title too long", func(t *testing.T) {
		h := NewChatHistoryHandler(service.NewChatService(new(MockChatRepository), new(MockCompleter), 20))

		body := `{"title":"` + strings.Repeat("a", domain.MaxTitleLength+1) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/chats", strings.NewReader(body))
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Title exceeds the maximum length"}`, rec.Body.String())
	})
}

func TestChatHistoryHandler_Rename(t *testing.T) {
	userID := primitive.NewObjectID()
	chatID := primitive.NewObjectID()

	t.Run("blank title", func(t *testing.T) {
		h := NewChatHistoryHandler(service.NewChatService(new(MockChatRepository), new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodPatch, "/api/chats/"+chatID.Hex()+"/title",
			strings.NewReader(`{"title":"   "}`))
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Title is required"}`, rec.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("Rename", mock.Anything, chatID, userID, "Trip notes").Return(&domain.Chat{
			ID:    chatID,
			Title: "Trip notes",
		}, nil)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodPatch, "/api/chats/"+chatID.Hex()+"/title",
			strings.NewReader(`{"title":"Trip notes"}`))
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"title":"Trip notes"}`, rec.Body.String())
	})
}

func TestChatHistoryHandler_Delete(t *testing.T) {
	userID := primitive.NewObjectID()
	chatID := primitive.NewObjectID()

	t.Run("not owned", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("Delete", mock.Anything, chatID, userID).Return(domain.ErrNotFound)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodDelete, "/api/chats/"+chatID.Hex(), nil)
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		mockChats := new(MockChatRepository)
		mockChats.On("Delete", mock.Anything, chatID, userID).Return(nil)
		h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

		req := httptest.NewRequest(http.MethodDelete, "/api/chats/"+chatID.Hex(), nil)
		rec := serveAuthed(chatRoutes(h), req, userID.Hex())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Chat deleted successfully"}`, rec.Body.String())
	})
}

func TestChatHistoryHandler_ClearMessages(t *testing.T) {
	userID := primitive.NewObjectID()
	chatID := primitive.NewObjectID()

	mockChats := new(MockChatRepository)
	mockChats.On("ClearMessages", mock.Anything, chatID, userID).Return(&domain.Chat{
		ID:       chatID,
		Title:    "Paris trip",
		Messages: []domain.Message{},
	}, nil)
	h := NewChatHistoryHandler(service.NewChatService(mockChats, new(MockCompleter), 20))

	req := httptest.NewRequest(http.MethodDelete, "/api/chats/"+chatID.Hex()+"/messages", nil)
	rec := serveAuthed(chatRoutes(h), req, userID.Hex())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Chat messages cleared successfully"`)
	assert.Contains(t, rec.Body.String(), `"title":"Paris trip"`)
}
