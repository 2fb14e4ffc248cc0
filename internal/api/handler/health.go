package handler

import (
	"net/http"

	"github.com/openchat-labs/chat-backend/internal/api/response"
	"github.com/openchat-labs/chat-backend/internal/repository/mongo"
	"github.com/openchat-labs/chat-backend/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyCheck reports readiness, including store connectivity
func ReadyCheck(db *mongo.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "session store not ready")
			return
		}

		response.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
