package network

import (
	"context"
	"sync"

	"github.com/go-errors/errors"
	"github.com/vishvananda/netlink"
)

// check WpaNetworks compliance to its interface during compile time
var _ Network = (*WpaNetwork)(nil)

type Config struct {
	Interface string
	// RunDir holds generated hostapd/dnsmasq configuration and pid files.
	RunDir string
	Logger Logger

	// Optional overrides, the system implementations are used when nil.
	Supplicant Supplicant
	Netlinker  Netlinker
	Executor   CommandExecutor
	DHCP       DHCPClient
}

// WpaNetwork drives the radio with wpa_supplicant for client mode and
// hostapd/dnsmasq for access point mode.
type WpaNetwork struct {
	log        Logger
	ifname     string
	supplicant Supplicant
	nl         Netlinker
	exec       CommandExecutor
	dhcp       DHCPClient
	services   *apServices

	mu   sync.Mutex
	mode Mode
	ap   *AccessPoint
	ssid string
}

func NewWpaNetwork(config *Config) *WpaNetwork {
	net := &WpaNetwork{
		ifname:     config.Interface,
		supplicant: config.Supplicant,
		nl:         config.Netlinker,
		exec:       config.Executor,
		dhcp:       config.DHCP,
	}

	if config.Logger != nil {
		net.log = config.Logger
	} else {
		net.log = noopLogger{}
	}

	if net.supplicant == nil {
		net.supplicant = newWpaSupplicant()
	}

	if net.nl == nil {
		net.nl = realNetlinker{}
	}

	if net.exec == nil {
		net.exec = RealCommandExecutor{}
	}

	if net.dhcp == nil {
		net.dhcp = nclient4DHCPClient{}
	}

	runDir := config.RunDir
	if runDir == "" {
		runDir = "/run/wificonf"
	}

	net.services = newAPServices(runDir, net.exec, net.log)

	return net
}

func (n *WpaNetwork) Start() error {
	err := n.supplicant.Start()
	if err != nil {
		return errors.Errorf("could not start wpa: %v", err)
	}

	_, err = n.nl.LinkByName(n.ifname)
	if err != nil {
		_ = n.Stop()
		return errors.Errorf("could not find interface %v: %v", n.ifname, err)
	}

	return nil
}

// Stop closes the supplicant connection. The radio is left in whatever mode
// it is in so that a connected device stays connected after exit.
func (n *WpaNetwork) Stop() error {
	err := n.supplicant.Stop()
	if err != nil {
		return errors.Errorf("could not stop wpa: %v", err)
	}

	return nil
}

func (n *WpaNetwork) Status() *Status {
	n.mu.Lock()
	defer n.mu.Unlock()

	status := &Status{Mode: n.mode}

	switch n.mode {
	case ModeAccessPoint:
		status.Ssid = n.ap.Ssid
	case ModeClient:
		status.Ssid = n.ssid
	}

	return status
}

func (n *WpaNetwork) EnterAccessPoint(ctx context.Context, ap *AccessPoint) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mode == ModeAccessPoint && n.ap != nil && *n.ap == *ap {
		n.log.Debugf("Access point %v is already up", ap.Ssid)
		return nil
	}

	addr, err := netlink.ParseAddr(ap.Address)
	if err != nil {
		return errors.Errorf("invalid access point address %v: %v", ap.Address, err)
	}

	n.log.Infof("Bringing up access point %v on %v", ap.Ssid, n.ifname)

	err = n.supplicant.Release(ctx, n.ifname)
	if err != nil {
		return errors.Errorf("could not release %v from wpa_supplicant: %v", n.ifname, err)
	}

	n.services.stop()
	n.mode = ModeNone
	n.ap = nil
	n.ssid = ""

	link, err := n.nl.LinkByName(n.ifname)
	if err != nil {
		return errors.Errorf("could not find interface %v: %v", n.ifname, err)
	}

	err = flushAddrs(n.nl, link)
	if err != nil {
		return err
	}

	err = n.nl.AddrAdd(link, addr)
	if err != nil {
		return errors.Errorf("could not assign %v: %v", addr.IPNet, err)
	}

	err = n.nl.LinkSetUp(link)
	if err != nil {
		return errors.Errorf("could not bring up %v: %v", n.ifname, err)
	}

	err = n.services.start(ctx, n.ifname, ap, addr.IP)
	if err != nil {
		n.services.stop()
		return err
	}

	apCopy := *ap
	n.ap = &apCopy
	n.mode = ModeAccessPoint

	n.log.Infof("Access point %v is up at %v", ap.Ssid, addr.IP)

	return nil
}

func (n *WpaNetwork) EnterClientMode(ctx context.Context, connection Connection) error {
	ssid, psk, err := credentials(connection)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultAssociationTimeout)
		defer cancel()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.log.Infof("Joining %v on %v", connection, n.ifname)

	n.services.stop()
	n.mode = ModeNone
	n.ap = nil
	n.ssid = ""

	link, err := n.nl.LinkByName(n.ifname)
	if err != nil {
		return errors.Errorf("could not find interface %v: %v", n.ifname, err)
	}

	err = flushAddrs(n.nl, link)
	if err != nil {
		return err
	}

	err = n.supplicant.Associate(ctx, n.ifname, ssid, psk)
	if err != nil {
		return &AssociationError{Ssid: ssid, Err: err}
	}

	lease, err := n.dhcp.Request(ctx, n.ifname)
	if err != nil {
		return &AssociationError{Ssid: ssid, Err: errors.Errorf("could not obtain address: %v", err)}
	}

	ipNet, err := applyLease(n.nl, link, lease)
	if err != nil {
		return err
	}

	n.mode = ModeClient
	n.ssid = ssid

	n.log.Infof("Joined %v with address %v", ssid, ipNet)

	return nil
}

// Scan lists visible networks. It waits for an outstanding mode change.
func (n *WpaNetwork) Scan(ctx context.Context) ([]*Wifi, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	args := []string{"dev", n.ifname, "scan"}

	// most drivers refuse to scan from an interface hostapd owns otherwise
	if n.mode == ModeAccessPoint {
		args = append(args, "ap-force")
	}

	output, err := n.exec.RunCommand(ctx, "iw", args...)
	if err != nil {
		return nil, errors.Errorf("unable to scan: %v", err)
	}

	return parseIwScan(output), nil
}
