package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/go-errors/errors"
	"github.com/vishvananda/netlink"
)

// AddrLister is the part of netlink the prober needs.
type AddrLister interface {
	LinkByName(name string) (netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
}

type netlinkAddrLister struct{}

func (netlinkAddrLister) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (netlinkAddrLister) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

type Config struct {
	// Links defaults to the kernel's netlink interface.
	Links   AddrLister
	Checker Checker
	Timeout time.Duration
	Logger  Logger
}

// check NetProber compliance to its interface during compile time
var _ Prober = (*NetProber)(nil)

type NetProber struct {
	links   AddrLister
	checker Checker
	timeout time.Duration
	log     Logger
}

func NewProber(config *Config) *NetProber {
	p := &NetProber{
		links:   config.Links,
		checker: config.Checker,
		timeout: config.Timeout,
		log:     config.Logger,
	}

	if p.links == nil {
		p.links = netlinkAddrLister{}
	}

	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}

	if p.log == nil {
		p.log = noopLogger{}
	}

	return p
}

func (p *NetProber) Probe(ctx context.Context, ifname string, deep bool) *Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := &Result{Deep: deep}

	ip, err := p.address(ifname)
	if err != nil {
		p.log.Debugf("No usable address on %v: %v", ifname, err)
		return result
	}

	result.HasAddress = true

	p.log.Debugf("Found address %v on %v", ip, ifname)

	if !deep {
		return result
	}

	if p.checker == nil {
		p.log.Warnf("Deep check requested without a checker, reporting unreachable")
		return result
	}

	err = p.check(ctx)
	if err != nil {
		p.log.Infof("Upstream not reachable: %v", err)
		return result
	}

	result.Reachable = true

	return result
}

// check runs the checker but never outlives ctx, even if the checker ignores it.
func (p *NetProber) check(ctx context.Context) error {
	done := make(chan error, 1)

	go func() {
		done <- p.checker.Check(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Errorf("reachability check timed out: %v", ctx.Err())
	}
}

func (p *NetProber) address(ifname string) (net.IP, error) {
	link, err := p.links.LinkByName(ifname)
	if err != nil {
		return nil, errors.Errorf("could not find interface %v: %v", ifname, err)
	}

	addrs, err := p.links.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Errorf("could not list addresses: %v", err)
	}

	for _, addr := range addrs {
		if addr.IPNet == nil || addr.IP.IsLinkLocalUnicast() || addr.IP.IsLoopback() {
			continue
		}

		return addr.IP, nil
	}

	return nil, errors.New("no address assigned")
}
