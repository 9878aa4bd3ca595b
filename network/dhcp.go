package network

import (
	"context"
	"net"

	"github.com/go-errors/errors"
	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
	"github.com/vishvananda/netlink"
)

// DHCPClient obtains a dynamic address for an interface.
type DHCPClient interface {
	Request(ctx context.Context, ifname string) (*nclient4.Lease, error)
}

type nclient4DHCPClient struct{}

func (nclient4DHCPClient) Request(ctx context.Context, ifname string) (*nclient4.Lease, error) {
	client, err := nclient4.New(ifname)
	if err != nil {
		return nil, errors.Errorf("could not create dhcp client for %v: %v", ifname, err)
	}
	defer client.Close()

	lease, err := client.Request(ctx)
	if err != nil {
		return nil, errors.Errorf("dhcp handshake failed on %v: %v", ifname, err)
	}

	return lease, nil
}

// applyLease assigns the leased address and installs the default route.
func applyLease(nl Netlinker, link netlink.Link, lease *nclient4.Lease) (*net.IPNet, error) {
	if lease == nil || lease.ACK == nil {
		return nil, errors.New("lease carries no acknowledgement")
	}

	ipNet := &net.IPNet{
		IP:   lease.ACK.YourIPAddr,
		Mask: lease.ACK.SubnetMask(),
	}

	if ipNet.Mask == nil {
		ipNet.Mask = ipNet.IP.DefaultMask()
	}

	err := nl.AddrAdd(link, &netlink.Addr{IPNet: ipNet})
	if err != nil {
		return nil, errors.Errorf("could not add address %v: %v", ipNet, err)
	}

	routers := lease.ACK.Router()
	if len(routers) > 0 {
		err := nl.RouteReplace(&netlink.Route{
			LinkIndex: link.Attrs().Index,
			Gw:        routers[0],
		})
		if err != nil {
			return nil, errors.Errorf("could not add default route via %v: %v", routers[0], err)
		}
	}

	return ipNet, nil
}
