package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/wificonf/connectivity"
	"github.com/the-lightning-land/wificonf/deps"
	"github.com/the-lightning-land/wificonf/network"
	"github.com/the-lightning-land/wificonf/wifidb"
)

// Orchestrator owns the mode of the radio and serializes every mode change.
type Orchestrator struct {
	network            network.Network
	prober             connectivity.Prober
	ifname             string
	ap                 *network.AccessPoint
	deps               *deps.Spec
	checkDependencies  func(spec *deps.Spec) error
	forceReconfigure   bool
	exitOnConnect      bool
	probeTimeout       time.Duration
	associationTimeout time.Duration
	accessPointTimeout time.Duration
	history            History
	log                Logger

	mu             sync.Mutex
	mode           Mode
	started        bool
	networkStarted bool
	inFlight       bool
	clients        map[uint32]*ModeClient
	nextClientID   uint32

	done     chan struct{}
	doneOnce sync.Once
}

func New(config *Config) *Orchestrator {
	o := &Orchestrator{
		network:            config.Network,
		prober:             config.Prober,
		ifname:             config.Interface,
		ap:                 config.AccessPoint,
		deps:               config.Dependencies,
		checkDependencies:  config.CheckDependencies,
		forceReconfigure:   config.ForceReconfigure,
		exitOnConnect:      config.ExitOnConnect,
		probeTimeout:       config.ProbeTimeout,
		associationTimeout: config.AssociationTimeout,
		accessPointTimeout: config.AccessPointTimeout,
		history:            config.History,
		mode:               Unconfigured,
		clients:            make(map[uint32]*ModeClient),
		done:               make(chan struct{}),
	}

	if config.Logger != nil {
		o.log = config.Logger
	} else {
		o.log = noopLogger{}
	}

	if o.deps == nil {
		o.deps = &deps.Spec{}
	}

	if o.checkDependencies == nil {
		o.checkDependencies = deps.Check
	}

	if o.probeTimeout <= 0 {
		o.probeTimeout = DefaultProbeTimeout
	}

	if o.associationTimeout <= 0 {
		o.associationTimeout = DefaultAssociationTimeout
	}

	if o.accessPointTimeout <= 0 {
		o.accessPointTimeout = DefaultAccessPointTimeout
	}

	return o
}

// Start verifies the environment, starts the network driver and brings the
// radio into its initial mode.
// It returns Connected when the device is already online and no
// reconfiguration was forced, AccessPoint otherwise. Any error is fatal.
func (o *Orchestrator) Start(ctx context.Context) (Mode, error) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return o.Mode(), errors.New("orchestrator was already started")
	}
	o.started = true
	o.inFlight = true
	o.mu.Unlock()

	defer o.release()

	err := o.checkDependencies(o.deps)
	if err != nil {
		return Unconfigured, &TransitionError{Kind: MissingDependency, Op: "check dependencies", Err: err}
	}

	o.log.Infof("All dependencies are available")

	err = o.network.Start()
	if err != nil {
		return Unconfigured, &TransitionError{Kind: DriverFailure, Op: "start network", Err: err}
	}

	o.mu.Lock()
	o.networkStarted = true
	o.mu.Unlock()

	result := o.probe(ctx)

	if result.Reachable {
		if !o.forceReconfigure {
			o.log.Infof("%v is already online, nothing to configure", o.ifname)
			o.setMode(Connected)
			return Connected, nil
		}

		o.log.Infof("%v is online but reconfiguration is forced", o.ifname)
	} else {
		o.log.Infof("%v is offline, hosting access point for configuration", o.ifname)
	}

	err = o.enterAccessPoint(ctx)
	if err != nil {
		return Unconfigured, err
	}

	o.setMode(AccessPoint)

	return AccessPoint, nil
}

// Submit attempts to join the network described by creds. A submission
// while another mode change is outstanding is rejected with Busy, invalid
// credentials with InvalidCredentials. Otherwise the attempt runs to
// completion even if ctx is cancelled, and the returned outcome tells whether
// the radio is now connected or back in access point mode.
func (o *Orchestrator) Submit(ctx context.Context, creds *Credentials) (*Outcome, error) {
	err := creds.Validate()
	if err != nil {
		return nil, &TransitionError{Kind: InvalidCredentials, Op: "submit", Err: err}
	}

	o.mu.Lock()
	if o.inFlight || o.mode == Unconfigured {
		mode := o.mode
		o.mu.Unlock()

		o.log.Warnf("Rejecting configuration for %v while %v", creds.Ssid, mode)

		return nil, &TransitionError{
			Kind: Busy,
			Op:   "submit",
			Err:  errors.Errorf("another mode change is in progress (mode %v)", mode),
		}
	}
	o.inFlight = true
	o.mu.Unlock()

	defer o.release()

	// an association must not be abandoned halfway
	ctx = context.WithoutCancel(ctx)

	started := time.Now()
	outcome := o.connect(ctx, creds)
	o.record(creds, started, outcome)

	// the attempt is on record before anyone is told to shut down
	if outcome.Succeeded && o.exitOnConnect && !o.forceReconfigure {
		o.doneOnce.Do(func() {
			close(o.done)
		})
	}

	return outcome, nil
}

// Stop releases the network driver. The radio is left in its current mode.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	started := o.networkStarted
	o.mu.Unlock()

	if !started {
		return nil
	}

	err := o.network.Stop()
	if err != nil {
		return errors.Errorf("could not stop network: %v", err)
	}

	return nil
}

func (o *Orchestrator) connect(ctx context.Context, creds *Credentials) *Outcome {
	o.log.Infof("Connecting to %v", creds)
	o.setMode(Connecting)

	assocCtx, cancel := context.WithTimeout(ctx, o.associationTimeout)
	err := bounded(assocCtx, func(ctx context.Context) error {
		return o.network.EnterClientMode(ctx, creds.connection())
	})
	timedOut := errors.Is(assocCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err != nil {
		return o.fallback(ctx, &TransitionError{
			Kind:    DriverFailure,
			Op:      "enter client mode",
			Timeout: timedOut,
			Err:     err,
		})
	}

	result := o.probe(ctx)
	if !result.Reachable {
		return o.fallback(ctx, &TransitionError{
			Kind: ConnectivityCheckFailed,
			Op:   "probe connectivity",
			Err:  errors.Errorf("joined %v but found no working upstream connectivity", creds.Ssid),
		})
	}

	o.log.Infof("Connected to %v", creds.Ssid)
	o.setMode(Connected)

	return &Outcome{Succeeded: true, Mode: Connected}
}

// fallback restores the access point after a failed attempt. A failure to do
// so is logged and leaves the orchestrator in Failed, from where another
// submission may be made.
func (o *Orchestrator) fallback(ctx context.Context, cause *TransitionError) *Outcome {
	o.log.Errorf("Could not connect: %v", cause)
	o.setMode(Failed)

	err := o.enterAccessPoint(ctx)
	if err != nil {
		o.log.Errorf("Could not restore access point: %v", err)
		return &Outcome{Mode: Failed, Err: cause}
	}

	o.setMode(AccessPoint)

	return &Outcome{Mode: AccessPoint, Err: cause}
}

func (o *Orchestrator) enterAccessPoint(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.accessPointTimeout)
	defer cancel()

	err := bounded(ctx, func(ctx context.Context) error {
		return o.network.EnterAccessPoint(ctx, o.ap)
	})
	if err != nil {
		return &TransitionError{
			Kind:    DriverFailure,
			Op:      "enter access point",
			Timeout: errors.Is(ctx.Err(), context.DeadlineExceeded),
			Err:     err,
		}
	}

	return nil
}

func (o *Orchestrator) probe(ctx context.Context) *connectivity.Result {
	ctx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	results := make(chan *connectivity.Result, 1)
	go func() {
		results <- o.prober.Probe(ctx, o.ifname, true)
	}()

	var result *connectivity.Result
	select {
	case result = <-results:
	case <-ctx.Done():
		o.log.Warnf("Probing %v did not finish in %v", o.ifname, o.probeTimeout)
		result = &connectivity.Result{Deep: true}
	}

	o.log.Infof("%v is %v", o.ifname, result.State())

	return result
}

// bounded runs a driver call and gives up once ctx is done, even if the call
// itself does not return. A call finishing after the deadline is a failure.
func bounded(ctx context.Context, call func(ctx context.Context) error) error {
	errs := make(chan error, 1)
	go func() {
		errs <- call(ctx)
	}()

	select {
	case err := <-errs:
		if err == nil && ctx.Err() != nil {
			return errors.Errorf("driver finished after its deadline: %v", ctx.Err())
		}
		return err
	case <-ctx.Done():
		return errors.Errorf("driver did not finish in time: %v", ctx.Err())
	}
}

func (o *Orchestrator) record(creds *Credentials, started time.Time, outcome *Outcome) {
	if o.history == nil {
		return
	}

	attempt := &wifidb.Attempt{
		Ssid:      creds.Ssid,
		Started:   started,
		Finished:  time.Now(),
		Succeeded: outcome.Succeeded,
	}

	if outcome.Err != nil {
		attempt.Kind = outcome.Err.Kind.String()
		attempt.Error = outcome.Err.Error()
	}

	err := o.history.AddAttempt(attempt)
	if err != nil {
		o.log.Warnf("Could not record attempt: %v", err)
	}
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.inFlight = false
	o.mu.Unlock()
}

func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.mode
}

func (o *Orchestrator) Interface() string {
	return o.ifname
}

// Done is closed once a submission connected the device and the process is
// expected to hand over to its regular networking.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

func (o *Orchestrator) setMode(mode Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode == mode {
		return
	}

	o.log.Debugf("Mode %v -> %v", o.mode, mode)

	o.mode = mode

	change := &ModeChange{Mode: mode, Time: time.Now()}

	for _, client := range o.clients {
		select {
		case client.modes <- change:
		default:
			o.log.Warnf("Dropping mode change for slow subscriber %v", client.Id)
		}
	}
}
