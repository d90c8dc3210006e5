package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/tournament-bracket/handlers"
	"github.com/Dosada05/tournament-bracket/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	badgeHandler *handlers.BadgeHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", healthHandler.Healthz)

	// Websocket-соединения живут дольше таймаута обычных запросов.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		// Публичный просмотр сетки
		r.Get("/tournaments/{tournamentID}/bracket", bracketHandler.GetHandler)
		r.Get("/tournaments/{tournamentID}/brackets", bracketHandler.ListHandler)

		// Изменения доступны только персоналу
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.RequireStaff)

			r.Post("/tournaments/{tournamentID}/bracket", bracketHandler.GenerateHandler)
			r.Post("/tournaments/{tournamentID}/bracket/reset", bracketHandler.ResetHandler)
			r.Put("/tournaments/{tournamentID}/badges", badgeHandler.SetAssignmentsHandler)
			r.Post("/tournaments/{tournamentID}/badges/distribute", badgeHandler.DistributeHandler)

			r.Route("/brackets/{bracketID}/matches/{matchID}", func(r chi.Router) {
				r.Put("/result", matchHandler.RecordResultHandler)
				r.Post("/forfeit", matchHandler.RecordForfeitHandler)
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
