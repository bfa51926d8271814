package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRecapRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}/recap/{year}", handler.GetPlayerRecap)
}
