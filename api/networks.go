package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wificonf/orchestrator"
)

// maxRequestSize caps bodies sent by anyone who joined the access point.
const maxRequestSize = 4 << 10

type postNetworkRequest struct {
	Ssid     string `json:"wifi_ssid"`
	Passcode string `json:"wifi_passcode"`
}

type postNetworkResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

type wifiResponse struct {
	Ssid     string  `json:"ssid"`
	Signal   float64 `json:"signal"`
	Security bool    `json:"security"`
}

func (a *Api) handlePostNetwork() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

		req := postNetworkRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				a.jsonError(w, "Request is too large", http.StatusRequestEntityTooLarge)
				return
			}

			a.jsonError(w, "Could not read request: "+err.Error(), http.StatusBadRequest)
			return
		}

		outcome, err := a.orchestrator.Submit(r.Context(), &orchestrator.Credentials{
			Ssid: req.Ssid,
			Psk:  req.Passcode,
		})
		if err != nil {
			kind := orchestrator.KindOf(err)

			code := http.StatusInternalServerError
			switch kind {
			case orchestrator.Busy:
				code = http.StatusConflict
			case orchestrator.InvalidCredentials:
				code = http.StatusBadRequest
			}

			a.log.Warnf("Rejected configuration for %v: %v", req.Ssid, err)

			a.jsonResponse(w, &errorResponse{
				Status: statusError,
				Error:  err.Error(),
				Kind:   kind.String(),
				Mode:   a.orchestrator.Mode().String(),
			}, code)
			return
		}

		if !outcome.Succeeded {
			a.jsonResponse(w, &errorResponse{
				Status: statusError,
				Error:  outcome.Err.Error(),
				Kind:   outcome.Err.Kind.String(),
				Mode:   outcome.Mode.String(),
			}, http.StatusBadGateway)
			return
		}

		a.jsonResponse(w, &postNetworkResponse{
			Status: statusSuccess,
			Mode:   outcome.Mode.String(),
		}, http.StatusOK)
	}
}

func (a *Api) handleGetNetworks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.network == nil {
			a.jsonError(w, "Scanning is not supported", http.StatusNotImplemented)
			return
		}

		wifis, err := a.network.Scan(r.Context())
		if err != nil {
			a.log.Errorf("Could not scan: %v", err)
			a.jsonError(w, "Could not scan for networks", http.StatusServiceUnavailable)
			return
		}

		sort.Slice(wifis, func(i, j int) bool {
			return wifis[i].Signal > wifis[j].Signal
		})

		res := make([]*wifiResponse, 0, len(wifis))
		for _, wifi := range wifis {
			res = append(res, &wifiResponse{
				Ssid:     wifi.Ssid,
				Signal:   wifi.Signal,
				Security: wifi.Security,
			})
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}
