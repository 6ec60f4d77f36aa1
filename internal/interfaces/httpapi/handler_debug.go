package httpapi

import (
	"net/http"
)

// Debug handlers are only routed when DEBUG_ROUTES_ENABLED=true. They exist
// to answer one operational question each: what config is live, what each
// feed returns after parsing, and why a date failed to join.

func (h *Handler) DebugEnv(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DebugEnv")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.debugEnv)
}

func (h *Handler) DebugESPN(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DebugESPN")
	defer span.End()

	params, err := h.resolveGamesParams(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.schedules.FetchScoreboard(ctx, params.DateESPN)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"date":  params.DateESPN,
		"count": len(games),
		"games": games,
	})
}

func (h *Handler) DebugKenPom(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DebugKenPom")
	defer span.End()

	params, err := h.resolveGamesParams(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.ratings.FetchFanMatch(ctx, params.DateKP)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"date":  params.DateKP,
		"count": len(rows),
		"rows":  rows,
	})
}

func (h *Handler) DebugMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DebugMatch")
	defer span.End()

	params, err := h.resolveGamesParams(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.matches.Report(ctx, params.DateESPN, params.DateKP)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
