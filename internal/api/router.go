package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quizdesk/client/internal/middleware"
	"github.com/rs/cors"
)

// NewRouter builds the full HTTP handler: health check, authenticated
// session routes under /api/v1, and CORS.
func NewRouter(h *Handler, jwtSecret []byte, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(jwtSecret))
	h.RegisterRoutes(api)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
