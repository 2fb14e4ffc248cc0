package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openchat-labs/chat-backend/internal/api/middleware"
	"github.com/openchat-labs/chat-backend/internal/api/response"
	"github.com/openchat-labs/chat-backend/internal/llm"
	"github.com/openchat-labs/chat-backend/internal/service"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler handles the chat completion endpoint
type ChatHandler struct {
	chats *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

func requireUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Message(w, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	return id, true
}

// Send runs one chat round trip and returns the assistant's reply
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input struct {
		Message string `json:"message" validate:"max=10000"`
		ChatID  string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Message is required")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.Error(w, http.StatusBadRequest, "Message exceeds the maximum length")
		return
	}

	result, err := h.chats.SendMessage(r.Context(), userID, input.ChatID, input.Message)
	if err != nil {
		h.sendError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"response": result.Response,
		"chatId":   result.ChatID,
		"title":    result.Title,
	})
}

// sendError maps pipeline failures onto the wire contract. Upstream 401
// deliberately surfaces as a local 500 so callers never learn anything
// about the gateway credential.
func (h *ChatHandler) sendError(w http.ResponseWriter, err error) {
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		response.Error(w, http.StatusBadRequest, "Message is required")

	case errors.Is(err, service.ErrChatNotFound):
		response.Error(w, http.StatusNotFound, "Chat not found")

	case errors.Is(err, llm.ErrNotConfigured):
		response.Error(w, http.StatusInternalServerError, "API configuration error: Missing API_URL or API_KEY")

	case errors.Is(err, llm.ErrMalformedResponse):
		response.Error(w, http.StatusInternalServerError, "Unexpected response from AI service")

	case errors.Is(err, llm.ErrTimeout):
		response.Error(w, http.StatusGatewayTimeout, "AI service timeout. Please try again.")

	case errors.As(err, &upstream):
		switch upstream.StatusCode {
		case http.StatusUnauthorized:
			response.Error(w, http.StatusInternalServerError, "API authentication failed - check your API_KEY")
		case http.StatusTooManyRequests:
			response.Error(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		case http.StatusBadRequest:
			msg := upstream.Message
			if msg == "" {
				msg = "Invalid request to AI service"
			}
			response.Error(w, http.StatusBadRequest, msg)
		default:
			msg := upstream.Message
			if msg == "" {
				msg = "AI service error"
			}
			response.Error(w, http.StatusInternalServerError, msg)
		}

	default:
		log.Error().Err(err).Msg("Chat request failed")
		response.Error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
