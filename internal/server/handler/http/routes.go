package http

import (
	"net/http"

	"github.com/moodkeeper/MoodKeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the MoodKeeper API. It applies JSON content-type enforcement,
// request logging, and header-based identity resolution, and
// mounts the auth, entry, analytics, prompt, and AI endpoints
// under /api.
//
// Routes:
//
//	POST   /api/register             → authHandler.Register
//	POST   /api/confirm              → authHandler.Confirm
//	POST   /api/resend               → authHandler.Resend
//	POST   /api/login                → authHandler.Login
//	POST   /api/entries              → entryHandler.Create
//	GET    /api/entries              → entryHandler.List
//	GET    /api/entries/{id}         → entryHandler.Get
//	PUT    /api/entries/{id}/photos  → entryHandler.UpdatePhotos
//	DELETE /api/entries              → entryHandler.Delete
//	GET    /api/analytics            → analyticsHandler.Summary
//	GET    /api/prompts              → promptHandler.List
//	POST   /api/ai/chat              → aiHandler.Chat
//	POST   /api/sentiment            → aiHandler.Sentiment
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON requests
//  2. WithRequestLogging(logger)           — logs incoming requests
//  3. Identity                             — resolves the calling user
func NewRouter(
	authHandler *AuthHandler,
	entryHandler *EntryHandler,
	analyticsHandler *AnalyticsHandler,
	promptHandler *PromptHandler,
	aiHandler *AIHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Resolve the user key from the identity header
	r.Use(middleware.Identity)

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/confirm", authHandler.Confirm)
		r.Post("/resend", authHandler.Resend)
		r.Post("/login", authHandler.Login)

		// Protected group: requires the identity header
		r.Group(func(r chi.Router) {
			r.Route("/entries", func(r chi.Router) {
				r.Post("/", entryHandler.Create)
				r.Get("/", entryHandler.List)
				r.Delete("/", entryHandler.Delete)
				r.Get("/{id}", entryHandler.Get)
				r.Put("/{id}/photos", entryHandler.UpdatePhotos)
			})

			r.Get("/analytics", analyticsHandler.Summary)
			r.Get("/prompts", promptHandler.List)

			r.Post("/ai/chat", aiHandler.Chat)
			r.Post("/sentiment", aiHandler.Sentiment)
		})
	})

	return r
}
