package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboards", handler.GetLeaderboards)
	mux.HandleFunc("POST /v1/leaderboards", handler.GetLeaderboards)
	mux.HandleFunc("GET /v1/leaderboards/options", handler.GetLeaderboardOptions)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/sessions", handler.RecordSession)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/warm-boards", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmBoardsJob)))
}
