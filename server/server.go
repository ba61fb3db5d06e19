package server

import (
	"net/http"
	"time"

	"github.com/fogrup/fogrup-backend/env"
	mw "github.com/fogrup/fogrup-backend/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupMiddlewares(r *chi.Mux) {
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Expo-Push-Token"},
		AllowCredentials: true,
	}))
	r.Use(mw.WithDeviceInfo)
}

func New(h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + env.APP_PORT,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
