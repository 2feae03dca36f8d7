package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Router builds the route table:
//
//	POST   /auth/register
//	POST   /auth/login
//	POST   /auth/logout
//	GET    /cards
//	POST   /cards
//	GET    /cards/{card_id}
//	PUT    /cards/{card_id}
//	PATCH  /cards/{card_id}
//	DELETE /cards/{card_id}
//	GET    /cards/{card_id}/comments
//	POST   /cards/{card_id}/comments
//	GET    /cards/{card_id}/comments/{comment_id}
//	PUT    /cards/{card_id}/comments/{comment_id}
//	PATCH  /cards/{card_id}/comments/{comment_id}
//	DELETE /cards/{card_id}/comments/{comment_id}
//	GET    /health
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	// Forwarding headers are client-controlled unless a proxy rewrites them.
	if s.trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)
	if s.requestTimeout > 0 {
		r.Use(chimw.Timeout(s.requestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.health)

	r.Route("/auth", func(r chi.Router) {
		r.With(s.loginLimiter.Middleware).Post("/register", s.register)
		r.With(s.loginLimiter.Middleware).Post("/login", s.login)
		r.With(s.authenticate).Post("/logout", s.logout)
	})

	r.Route("/cards", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/", s.listCards)
		r.Post("/", s.createCard)

		r.Route("/{card_id:[0-9]+}", func(r chi.Router) {
			r.Get("/", s.getCard)
			r.Put("/", s.updateCard)
			r.Patch("/", s.updateCard)
			r.Delete("/", s.deleteCard)

			r.Get("/comments", s.listComments)
			r.Post("/comments", s.createComment)
			r.Get("/comments/{comment_id:[0-9]+}", s.getComment)
			r.Put("/comments/{comment_id:[0-9]+}", s.updateComment)
			r.Patch("/comments/{comment_id:[0-9]+}", s.updateComment)
			r.Delete("/comments/{comment_id:[0-9]+}", s.deleteComment)
		})
	})

	return r
}
