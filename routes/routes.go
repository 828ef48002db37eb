package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/maplecrest/rinkside/handlers"
	"github.com/maplecrest/rinkside/middleware"
)

// SetupRoutes wires every page and endpoint onto the router. Session
// loading is global; the auth gates wrap only the routes that need them.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Auth,
	homeHandler *handlers.HomeHandler,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
	teamHandler *handlers.TeamHandler,
	characterHandler *handlers.CharacterHandler,
	connectionHandler *handlers.ConnectionHandler,
) {
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(auth.LoadSession)

	router.NotFound(homeHandler.NotFound)

	router.Get("/", homeHandler.Show)

	router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireGuest)
			r.Get("/login", authHandler.ShowLogin)
			r.Post("/login", authHandler.Login)
			r.Get("/register", authHandler.ShowRegister)
			r.Post("/register", authHandler.Register)
		})
		r.Get("/logout", authHandler.Logout)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/dashboard", dashboardHandler.Show)
		r.Get("/profile", authHandler.ShowProfile)
		r.Post("/profile", authHandler.UpdateProfile)
		r.Post("/profile/password", authHandler.ChangePassword)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.Index)
		r.Get("/{teamID}", teamHandler.Show)
		r.Get("/{teamID}/roster", teamHandler.Roster)
		r.Get("/{teamID}/members", teamHandler.Members)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/create", teamHandler.ShowCreate)
			r.Post("/create", teamHandler.Create)
			r.Get("/{teamID}/edit", teamHandler.ShowEdit)
			r.Post("/{teamID}/edit", teamHandler.Update)
			r.Post("/{teamID}/delete", teamHandler.Delete)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
		})
	})

	router.Route("/characters", func(r chi.Router) {
		r.Get("/", characterHandler.Index)
		r.Get("/{characterID}", characterHandler.Profile)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/create", characterHandler.ShowCreate)
			r.Post("/create", characterHandler.Create)
			r.Get("/{characterID}/edit", characterHandler.ShowEdit)
			r.Post("/{characterID}/edit", characterHandler.Update)
			r.Post("/{characterID}/gallery/add", characterHandler.AddGalleryImage)
			r.Post("/{characterID}/connections/add", characterHandler.AddConnection)
			r.Post("/{characterID}/avatar", characterHandler.UploadAvatar)
		})
	})

	router.Route("/connections", func(r chi.Router) {
		r.Get("/{connectionID}", connectionHandler.Show)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Post("/{connectionID}/songs/add", connectionHandler.AddSong)
		})
	})

	fileServer := http.FileServer(http.Dir("./static"))
	router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
}
