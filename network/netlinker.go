package network

import (
	"github.com/go-errors/errors"
	"github.com/vishvananda/netlink"
)

// Netlinker is the part of netlink used to configure the interface.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkSetUp(link netlink.Link) error
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	AddrAdd(link netlink.Link, addr *netlink.Addr) error
	AddrDel(link netlink.Link, addr *netlink.Addr) error
	RouteReplace(route *netlink.Route) error
}

type realNetlinker struct{}

func (realNetlinker) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (realNetlinker) LinkSetUp(link netlink.Link) error {
	return netlink.LinkSetUp(link)
}

func (realNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (realNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	return netlink.AddrAdd(link, addr)
}

func (realNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return netlink.AddrDel(link, addr)
}

func (realNetlinker) RouteReplace(route *netlink.Route) error {
	return netlink.RouteReplace(route)
}

// flushAddrs removes every IPv4 address from the link.
func flushAddrs(nl Netlinker, link netlink.Link) error {
	addrs, err := nl.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return errors.Errorf("could not list addresses: %v", err)
	}

	for i := range addrs {
		err := nl.AddrDel(link, &addrs[i])
		if err != nil {
			return errors.Errorf("could not remove address %v: %v", addrs[i].IPNet, err)
		}
	}

	return nil
}
