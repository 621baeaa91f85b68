package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pulseapp/auth-service/internal/api/handlers"
	"github.com/pulseapp/auth-service/internal/api/middleware"
	"github.com/pulseapp/auth-service/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, services.Session)
	registrationHandler := handlers.NewRegistrationHandler(services.Registration)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Multi-step registration flow
			r.Route("/register", func(r chi.Router) {
				r.Post("/start", registrationHandler.Start)
				r.Post("/resend-otp", registrationHandler.ResendOTP)
				r.Post("/verify-otp", registrationHandler.VerifyOTP)
				r.Post("/password", registrationHandler.SetPassword)
				r.Post("/username", registrationHandler.SetUsername)
				r.Post("/complete", registrationHandler.Complete)
			})

			// Session lifecycle
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout-all", authHandler.LogoutAll)
			})
		})
	})

	return r
}
