package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /", handler.RootRedirect)
	mux.HandleFunc("GET /ui", handler.DashboardUI)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games", handler.Games)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/warm", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmJob)))
}

func registerDebugRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /debug/env", handler.DebugEnv)
	mux.HandleFunc("GET /debug/espn", handler.DebugESPN)
	mux.HandleFunc("GET /debug/kenpom", handler.DebugKenPom)
	mux.HandleFunc("GET /debug/match", handler.DebugMatch)
}
