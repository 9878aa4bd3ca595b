package api

import (
	"context"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/the-lightning-land/wificonf/network"
	"github.com/the-lightning-land/wificonf/orchestrator"
	"github.com/the-lightning-land/wificonf/wifidb"
	"github.com/the-lightning-land/wificonf/wifilog"
)

// Orchestrator is the part of the orchestrator exposed over http.
type Orchestrator interface {
	Submit(ctx context.Context, creds *orchestrator.Credentials) (*orchestrator.Outcome, error)
	Mode() orchestrator.Mode
	Interface() string
	Subscribe() *orchestrator.ModeClient
}

// Network is the radio as far as reporting is concerned.
type Network interface {
	Status() *network.Status
	Scan(ctx context.Context) ([]*network.Wifi, error)
}

type Attempts interface {
	GetAttempts(limit int) ([]*wifidb.Attempt, error)
}

type Logs interface {
	Entries(limit int) []*wifilog.Entry
}

type Config struct {
	Orchestrator Orchestrator
	Network      Network
	Attempts     Attempts
	Logs         Logs
	// WebDir replaces the built in configuration page when set.
	WebDir string
	Log    Logger
}

type Api struct {
	orchestrator Orchestrator
	network      Network
	attempts     Attempts
	logs         Logs
	router       *mux.Router
	server       *http.Server
	log          Logger
}

func New(config *Config) *Api {
	api := &Api{
		orchestrator: config.Orchestrator,
		network:      config.Network,
		attempts:     config.Attempts,
		logs:         config.Logs,
		router:       mux.NewRouter(),
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	api.router.Use(api.loggingMiddleware)

	api.router.Handle("/api/enable_wifi", api.handlePostNetwork()).Methods(http.MethodPost)

	v1 := api.router.PathPrefix("/api/v1").Subrouter()
	v1.Handle("/status", api.handleGetStatus()).Methods(http.MethodGet)
	v1.Handle("/networks", api.handleGetNetworks()).Methods(http.MethodGet)
	v1.Handle("/networks", api.handlePostNetwork()).Methods(http.MethodPost)
	v1.Handle("/attempts", api.handleGetAttempts()).Methods(http.MethodGet)
	v1.Handle("/logs", api.handleGetLogs()).Methods(http.MethodGet)
	v1.Handle("/events", api.handleGetEvents()).Methods(http.MethodGet)

	api.router.PathPrefix("/").Handler(api.handleStatic(config.WebDir)).Methods(http.MethodGet)

	api.server = &http.Server{
		Handler:           api.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api
}

// ServeHTTP makes the api usable as a plain http.Handler.
func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Serve blocks until the listener fails or Shutdown is called, the latter
// not being an error.
func (a *Api) Serve(l net.Listener) error {
	err := a.server.Serve(l)
	if err != nil && err != http.ErrServerClosed {
		return errors.Errorf("Unable to serve api: %v", err)
	}

	return nil
}

// Shutdown stops accepting requests and waits for running ones to answer.
func (a *Api) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if err != nil {
		return errors.Errorf("Unable to shut down api: %v", err)
	}

	return nil
}

func (a *Api) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.log.Infof("Accessing %v %v", r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func (a *Api) handleStatic(webDir string) http.Handler {
	if webDir != "" {
		return http.FileServer(http.Dir(webDir))
	}

	root, err := fs.Sub(web, "web")
	if err != nil {
		// web is embedded at build time
		panic(err)
	}

	return http.FileServer(http.FS(root))
}
