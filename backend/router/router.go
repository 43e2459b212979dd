package router

import (
	"net/http"

	"star-songs/backend/app/controllers"
	"star-songs/backend/app/middleware"
)

type Config struct {
	AuthRPS   float64
	AuthBurst int
}

func NewRouter(healthCtrl *controllers.HealthController, artistCtrl *controllers.ArtistController, songCtrl *controllers.SongController, authCtrl *controllers.AuthController, adminCtrl *controllers.AdminController, mw *middleware.Auth, cfg Config) http.Handler {
	mux := http.NewServeMux()

	// service meta + health
	mux.HandleFunc("GET /{$}", healthCtrl.Root)
	mux.HandleFunc("GET /health", healthCtrl.Health)
	mux.HandleFunc("GET /health/db", healthCtrl.DBHealth)
	mux.HandleFunc("GET /health/pool", healthCtrl.Pool)

	// catalog
	mux.HandleFunc("GET /v1/artists", artistCtrl.List)
	mux.HandleFunc("POST /v1/artists", artistCtrl.Create)
	mux.HandleFunc("GET /v1/artists/{id}", artistCtrl.Get)
	mux.HandleFunc("PUT /v1/artists/{id}", artistCtrl.Put)
	mux.HandleFunc("DELETE /v1/artists/{id}", artistCtrl.Delete)
	mux.HandleFunc("GET /v1/songs", songCtrl.List)
	mux.HandleFunc("POST /v1/songs", songCtrl.Create)
	mux.HandleFunc("GET /v1/songs/{id}", songCtrl.Get)
	mux.HandleFunc("PUT /v1/songs/{id}", songCtrl.Put)
	mux.HandleFunc("DELETE /v1/songs/{id}", songCtrl.Delete)

	// auth endpoints share one rate-limit bucket
	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /auth/register", authCtrl.Register)
	authMux.HandleFunc("POST /auth/login", authCtrl.Login)
	authMux.HandleFunc("POST /auth/refresh", authCtrl.Refresh)
	authMux.HandleFunc("POST /auth/logout", authCtrl.Logout)
	authMux.Handle("GET /auth/me", mw.RequireAuth(http.HandlerFunc(authCtrl.Me)))
	mux.Handle("/auth/", middleware.RateLimit(cfg.AuthRPS, cfg.AuthBurst)(authMux))

	// admin-only endpoints
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /admin/users", adminCtrl.List)
	adminMux.HandleFunc("POST /admin/users", adminCtrl.Create)
	adminMux.HandleFunc("GET /admin/users/search/username/{username}", adminCtrl.Search)
	adminMux.HandleFunc("GET /admin/users/{id}", adminCtrl.Get)
	adminMux.HandleFunc("PUT /admin/users/{id}", adminCtrl.Update)
	adminMux.HandleFunc("DELETE /admin/users/{id}", adminCtrl.Delete)
	mux.Handle("/admin/", mw.RequireAdmin(adminMux))

	// everything else answers in the error envelope
	mux.HandleFunc("/", healthCtrl.NotFound)

	return mux
}
