package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/league/state", handler.GetLeagueState)
	mux.HandleFunc("GET /v1/league/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/league/topscorers", handler.ListTopScorers)
	mux.HandleFunc("GET /v1/league/matches", handler.ListMatches)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminCode string) {
	mux.Handle("PUT /v1/league/selection", RequireAdminCode(adminCode, http.HandlerFunc(handler.SaveSelection)))
	mux.Handle("POST /v1/league/matches", RequireAdminCode(adminCode, http.HandlerFunc(handler.RecordMatch)))
	mux.Handle("POST /v1/league/reset", RequireAdminCode(adminCode, http.HandlerFunc(handler.ResetLeague)))
	mux.Handle("POST /v1/players", RequireAdminCode(adminCode, http.HandlerFunc(handler.AddPlayer)))
	mux.Handle("PATCH /v1/players/{playerID}", RequireAdminCode(adminCode, http.HandlerFunc(handler.EditPlayer)))
	mux.Handle("DELETE /v1/players/{playerID}", RequireAdminCode(adminCode, http.HandlerFunc(handler.DeletePlayer)))
	mux.Handle("PUT /v1/teams/{teamID}/logo", RequireAdminCode(adminCode, http.HandlerFunc(handler.UpdateTeamLogo)))
	mux.Handle("POST /v1/sync/fetch", RequireAdminCode(adminCode, http.HandlerFunc(handler.FetchRemote)))
	mux.Handle("POST /v1/sync/push", RequireAdminCode(adminCode, http.HandlerFunc(handler.PushRemote)))
}

func registerRelayRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/relay/update-json", handler.RelayUpdateJSON)
}
