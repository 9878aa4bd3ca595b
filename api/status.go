package api

import (
	"net/http"
)

type getStatusResponse struct {
	Mode      string `json:"mode"`
	Interface string `json:"interface"`
	// Radio is what the interface is doing right now, Ssid the network it
	// hosts or has joined.
	Radio string `json:"radio"`
	Ssid  string `json:"ssid"`
}

func (a *Api) handleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := &getStatusResponse{
			Mode:      a.orchestrator.Mode().String(),
			Interface: a.orchestrator.Interface(),
		}

		if a.network != nil {
			status := a.network.Status()
			res.Radio = status.Mode.String()
			res.Ssid = status.Ssid
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}
