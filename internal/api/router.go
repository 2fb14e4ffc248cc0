package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/openchat-labs/chat-backend/internal/api/handler"
	custommiddleware "github.com/openchat-labs/chat-backend/internal/api/middleware"
	"github.com/openchat-labs/chat-backend/internal/config"
	"github.com/openchat-labs/chat-backend/internal/llm"
	"github.com/openchat-labs/chat-backend/internal/repository/mongo"
	"github.com/openchat-labs/chat-backend/internal/repository/redis"
	"github.com/openchat-labs/chat-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// CORS: credentials flow on every call, so only the configured
	// client origin is allowed.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories and stores
	userRepo := mongo.NewUserRepository(db)
	chatRepo := mongo.NewChatRepository(db)
	sessionStore := redis.NewSessionStore(redisClient, cfg.Session.TTL)
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
	)

	// Services
	completer := llm.NewClient(cfg.LLM)
	authService := service.NewAuthService(userRepo, sessionStore, cfg.Session.TTL)
	googleAuth := service.NewGoogleAuthenticator(cfg.Google, cfg.Session.Secret, userRepo)
	chatService := service.NewChatService(chatRepo, completer, cfg.LLM.HistoryLimit)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, googleAuth, cfg.Session, cfg.Server.ClientURL)
	chatHandler := handler.NewChatHandler(chatService)
	historyHandler := handler.NewChatHistoryHandler(chatService)

	// Middleware
	sessionAuth := custommiddleware.NewSessionAuth(sessionStore, cfg.Session.CookieName)
	rateLimit := custommiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Get("/google", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)
			r.Post("/logout", authHandler.Logout)
			r.With(sessionAuth.Authenticate).Get("/profile", authHandler.Profile)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Authenticate)

			r.With(rateLimit.Limit).Post("/chat", chatHandler.Send)

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", historyHandler.List)
				r.Post("/", historyHandler.Create)

				r.Route("/{chatID}", func(r chi.Router) {
					r.Get("/", historyHandler.Get)
					r.Patch("/title", historyHandler.Rename)
					r.Delete("/", historyHandler.Delete)
					r.Delete("/messages", historyHandler.ClearMessages)
				})
			})
		})
	})

	return r
}
