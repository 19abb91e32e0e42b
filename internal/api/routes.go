package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the bridge endpoints under /api.
func RegisterRoutes(r chi.Router, flashHandler *FlashHandler, quizHandler *QuizHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/flash", func(r chi.Router) {
			r.Get("/", flashHandler.List)
			r.Post("/", flashHandler.Show)
			r.Post("/batch", flashHandler.Batch)
			r.Post("/{id}/{event}", flashHandler.Event)
		})

		r.Route("/quizzes/{container}", func(r chi.Router) {
			r.Get("/", quizHandler.Get)
			r.Post("/load", quizHandler.Load)
			r.Post("/choose", quizHandler.Choose)
			r.Post("/next", quizHandler.Next)
			r.Post("/retry", quizHandler.Retry)
		})
	})
}
