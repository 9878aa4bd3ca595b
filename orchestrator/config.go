package orchestrator

import (
	"time"

	"github.com/the-lightning-land/wificonf/connectivity"
	"github.com/the-lightning-land/wificonf/deps"
	"github.com/the-lightning-land/wificonf/network"
	"github.com/the-lightning-land/wificonf/wifidb"
)

const (
	DefaultProbeTimeout       = connectivity.DefaultTimeout
	DefaultAssociationTimeout = network.DefaultAssociationTimeout
	DefaultAccessPointTimeout = 20 * time.Second
)

// History receives every finished attempt.
type History interface {
	AddAttempt(attempt *wifidb.Attempt) error
}

type Config struct {
	Network      network.Network
	Prober       connectivity.Prober
	Interface    string
	AccessPoint  *network.AccessPoint
	Dependencies *deps.Spec
	// CheckDependencies defaults to deps.Check.
	CheckDependencies func(spec *deps.Spec) error
	// ForceReconfigure hosts the access point even when already online.
	ForceReconfigure bool
	// ExitOnConnect closes Done once a submission reaches Connected, unless
	// ForceReconfigure is set.
	ExitOnConnect      bool
	ProbeTimeout       time.Duration
	AssociationTimeout time.Duration
	AccessPointTimeout time.Duration
	History            History
	Logger             Logger
}
