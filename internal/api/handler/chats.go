package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openchat-labs/chat-backend/internal/api/response"
	"github.com/openchat-labs/chat-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ChatHistoryHandler handles the chat collection endpoints
type ChatHistoryHandler struct {
	chats *service.ChatService
}

// NewChatHistoryHandler creates a new chat history handler
func NewChatHistoryHandler(chats *service.ChatService) *ChatHistoryHandler {
	return &ChatHistoryHandler{chats: chats}
}

// List returns the user's chats as previews, newest first
func (h *ChatHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summaries, err := h.chats.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list chats")
		response.Error(w, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}

	response.JSON(w, http.StatusOK, summaries)
}

// Get returns one full chat with all messages
func (h *ChatHistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	chat, err := h.chats.Get(r.Context(), userID, chi.URLParam(r, "chatID"))
	if errors.Is(err, service.ErrChatNotFound) {
		response.Error(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch chat")
		response.Error(w, http.StatusInternalServerError, "Failed to fetch chat")
		return
	}

	response.JSON(w, http.StatusOK, chat)
}

// Create makes a new empty chat
func (h *ChatHistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input struct {
		Title string `json:"title" validate:"max=100"`
	}
	if r.Body != nil {
		// An empty or absent body is fine; the title defaults.
		_ = json.NewDecoder(r.Body).Decode(&input)
	}
	if err := validate.Struct(input); err != nil {
		response.Error(w, http.StatusBadRequest, "Title exceeds the maximum length")
		return
	}

	chat, err := h.chats.Create(r.Context(), userID, input.Title)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create chat")
		response.Error(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}

	response.JSON(w, http.StatusCreated, chat)
}

// Rename updates a chat's title
func (h *ChatHistoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input struct {
		Title string `json:"title" validate:"max=100"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Title is required")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.Error(w, http.StatusBadRequest, "Title exceeds the maximum length")
		return
	}

	title, err := h.chats.Rename(r.Context(), userID, chi.URLParam(r, "chatID"), input.Title)
	switch {
	case errors.Is(err, service.ErrEmptyTitle):
		response.Error(w, http.StatusBadRequest, "Title is required")
	case errors.Is(err, service.ErrChatNotFound):
		response.Error(w, http.StatusNotFound, "Chat not found")
	case err != nil:
		log.Error().Err(err).Msg("Failed to update chat title")
		response.Error(w, http.StatusInternalServerError, "Failed to update chat title")
	default:
		response.JSON(w, http.StatusOK, map[string]string{"title": title})
	}
}

// Delete removes a chat
func (h *ChatHistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	err := h.chats.Delete(r.Context(), userID, chi.URLParam(r, "chatID"))
	switch {
	case errors.Is(err, service.ErrChatNotFound):
		response.Error(w, http.StatusNotFound, "Chat not found")
	case err != nil:
		log.Error().Err(err).Msg("Failed to delete chat")
		response.Error(w, http.StatusInternalServerError, "Failed to delete chat")
	default:
		response.JSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
	}
}

// ClearMessages empties a chat's history, keeping the document
func (h *ChatHistoryHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	chat, err := h.chats.ClearMessages(r.Context(), userID, chi.URLParam(r, "chatID"))
	switch {
	case errors.Is(err, service.ErrChatNotFound):
		response.Error(w, http.StatusNotFound, "Chat not found")
	case err != nil:
		log.Error().Err(err).Msg("Failed to clear chat messages")
		response.Error(w, http.StatusInternalServerError, "Failed to clear chat messages")
	default:
		response.JSON(w, http.StatusOK, map[string]any{
			"message": "Chat messages cleared successfully",
			"chat":    chat,
		})
	}
}
