package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/wificonf/api"
	"github.com/the-lightning-land/wificonf/connectivity"
	"github.com/the-lightning-land/wificonf/deps"
	"github.com/the-lightning-land/wificonf/network"
	"github.com/the-lightning-land/wificonf/orchestrator"
	"github.com/the-lightning-land/wificonf/wifidb"
	"github.com/the-lightning-land/wificonf/wifilog"
)

// shutdownTimeout bounds waiting for in-flight requests on exit.
const shutdownTimeout = 5 * time.Second

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// wificonfdMain is the true entry point for wificonfd. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func wificonfdMain() error {
	wifiLog := wifilog.New()

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	log.AddHook(wifiLog)

	// Load CLI configuration and defaults
	cfg, err := loadConfig(os.Args[1:])
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return err
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// wifi.db keeps the history of configuration attempts
	wifiDB, err := wifidb.Open(cfg.DataDir)
	if err != nil {
		return errors.Errorf("Could not open wifi.db: %v", err)
	}

	log.Infof("Opened %v", wifiDB.Path())

	defer func() {
		err := wifiDB.Close()
		if err != nil {
			log.Errorf("Could not close wifi.db: %v", err)
		} else {
			log.Info("Closed wifi.db.")
		}
	}()

	// The radio driver and the connectivity prober
	var n network.Network
	var prober connectivity.Prober
	var dependencies *deps.Spec

	switch cfg.Net {
	case "wpa":
		n = network.NewWpaNetwork(&network.Config{
			Interface: cfg.Interface,
			RunDir:    cfg.AccessPoint.RunDir,
			Logger:    log.New().WithField("system", "network"),
		})

		var checker connectivity.Checker
		switch cfg.Probe.Method {
		case "dns":
			checker = &connectivity.DNSChecker{
				Resolver: cfg.Probe.Resolver,
				Name:     cfg.Probe.Name,
			}
		case "icmp":
			checker = &connectivity.PingChecker{
				Target: cfg.Probe.Target,
			}
		default:
			return errors.Errorf("Unknown probe method %v", cfg.Probe.Method)
		}

		prober = connectivity.NewProber(&connectivity.Config{
			Checker: checker,
			Timeout: cfg.Probe.Timeout,
			Logger:  log.New().WithField("system", "connectivity"),
		})

		dependencies = &deps.Spec{
			Binaries: cfg.Deps.Binaries,
			Files:    cfg.Deps.Files,
		}

		log.Infof("Created wpa network on %v.", cfg.Interface)
	case "mock":
		mock := network.NewMockNetwork()
		n = mock
		prober = mock

		// nothing on the host is touched
		dependencies = &deps.Spec{}

		log.Info("Created a mock network.")
	default:
		return errors.Errorf("Unknown networking type %v", cfg.Net)
	}

	// central controller for every mode change of the radio
	o := orchestrator.New(&orchestrator.Config{
		Network:   n,
		Prober:    prober,
		Interface: cfg.Interface,
		AccessPoint: &network.AccessPoint{
			Ssid:       cfg.AccessPoint.Ssid,
			Passphrase: cfg.AccessPoint.Passphrase,
			Address:    cfg.AccessPoint.Address,
			RangeStart: cfg.AccessPoint.RangeStart,
			RangeEnd:   cfg.AccessPoint.RangeEnd,
			Channel:    cfg.AccessPoint.Channel,
		},
		Dependencies:       dependencies,
		ForceReconfigure:   cfg.ForceReconfigure,
		ExitOnConnect:      !cfg.NoExit,
		ProbeTimeout:       cfg.Probe.Timeout,
		AssociationTimeout: cfg.AssociationTimeout,
		History:            wifiDB,
		Logger:             log.New().WithField("system", "orchestrator"),
	})

	defer func() {
		err := o.Stop()
		if err != nil {
			log.Errorf("Could not properly shut down orchestrator: %v", err)
		} else {
			log.Info("Stopped orchestrator.")
		}
	}()

	mode, err := o.Start(context.Background())
	if err != nil {
		return errors.Errorf("Could not start orchestrator: %v", err)
	}

	if mode == orchestrator.Connected && !cfg.NoExit {
		log.Infof("%v is already connected, nothing to do.", cfg.Interface)
		return nil
	}

	log.Infof("Started orchestrator in mode %v.", mode)

	a := api.New(&api.Config{
		Orchestrator: o,
		Network:      n,
		Attempts:     wifiDB,
		Logs:         wifiLog,
		WebDir:       cfg.Server.WebDir,
		Log:          log.New().WithField("system", "api"),
	})

	listener, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return errors.Errorf("Could not listen on %v: %v", cfg.Server.Listen, err)
	}

	go func() {
		err := a.Serve(listener)
		if err != nil {
			log.Errorf("Could not serve api: %v", err)
		}
	}()

	// runs before wifi.db is closed, so the last submission gets its answer
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := a.Shutdown(ctx)
		if err != nil {
			log.Errorf("Could not properly shut down api: %v", err)
		} else {
			log.Info("Stopped api.")
		}
	}()

	log.Infof("Serving configuration endpoint on %v", listener.Addr())

	// Handle interrupt signals correctly
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	// blocks until the device is connected or the process is stopped
	select {
	case <-o.Done():
		log.Info("Connected, handing over to regular networking.")
	case sig := <-signals:
		log.Info(sig)
		log.Info("Received an interrupt, stopping wificonfd...")
	}

	// finish with no error
	return nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := wificonfdMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}

		log.WithError(err).Println("Failed running wificonfd.")
		os.Exit(1)
	}
}
