package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ponbac/rolf-time/handlers"
	"github.com/ponbac/rolf-time/middleware"
	"github.com/ponbac/rolf-time/models"
)

func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	gameHandler *handlers.GameHandler,
	predictionHandler *handlers.PredictionHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret []byte,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/games", gameHandler.ListGames)
	router.Get("/games/upcoming", gameHandler.UpcomingGames)
	router.Get("/games/{id}", gameHandler.GetGame)
	router.Get("/groups", gameHandler.ListGroups)
	router.Get("/groups/{id}", gameHandler.GetGroup)
	router.Get("/standings", gameHandler.ListStandings)
	router.Get("/leaderboard", userHandler.Leaderboard)

	router.Get("/users", userHandler.ListUsers)
	router.Get("/users/{id}", userHandler.GetUserByID)
	router.Get("/users/{id}/bracket", predictionHandler.GetUserBracket)
	router.Get("/users/{id}/score", userHandler.GetScoreBreakdown)

	router.Get("/ws", webSocketHandler.ServeWs)

	router.Route("/me", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Put("/", userHandler.UpdateMe)
		r.Post("/avatar", userHandler.UploadAvatar)

		r.Get("/predictions", predictionHandler.GetMyPredictions)
		r.Put("/predictions", predictionHandler.ReplaceMyPredictions)
		r.Post("/predictions/games", predictionHandler.PredictGame)
		r.Post("/predictions/groups", predictionHandler.PredictGroup)
		r.Get("/bracket", predictionHandler.GetMyBracket)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.RequireRole(models.RoleAdmin))

		r.Put("/games/{id}/result", adminHandler.SetGameResult)
		r.Put("/groups/{id}/standings", adminHandler.SetGroupStandings)
	})
}
