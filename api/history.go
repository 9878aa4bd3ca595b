package api

import (
	"net/http"
	"strconv"
)

const defaultLimit = 20

func limitParam(r *http.Request) (int, bool) {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return defaultLimit, true
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0, false
	}

	return limit, true
}

func (a *Api) handleGetAttempts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := limitParam(r)
		if !ok {
			a.jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}

		if a.attempts == nil {
			a.jsonResponse(w, []struct{}{}, http.StatusOK)
			return
		}

		attempts, err := a.attempts.GetAttempts(limit)
		if err != nil {
			a.log.Errorf("Could not get attempts: %v", err)
			a.jsonError(w, "Could not get attempts", http.StatusInternalServerError)
			return
		}

		a.jsonResponse(w, attempts, http.StatusOK)
	}
}

func (a *Api) handleGetLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := limitParam(r)
		if !ok {
			a.jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}

		if a.logs == nil {
			a.jsonResponse(w, []struct{}{}, http.StatusOK)
			return
		}

		a.jsonResponse(w, a.logs.Entries(limit), http.StatusOK)
	}
}
