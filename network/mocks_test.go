package network

import (
	"context"

	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

type MockSupplicant struct {
	mock.Mock
}

func (m *MockSupplicant) Start() error {
	return m.Called().Error(0)
}

func (m *MockSupplicant) Stop() error {
	return m.Called().Error(0)
}

func (m *MockSupplicant) Release(ctx context.Context, ifname string) error {
	return m.Called(ifname).Error(0)
}

func (m *MockSupplicant) Associate(ctx context.Context, ifname string, ssid string, psk string) error {
	return m.Called(ctx, ifname, ssid, psk).Error(0)
}

type MockNetlinker struct {
	mock.Mock
}

func (m *MockNetlinker) LinkByName(name string) (netlink.Link, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkSetUp(link netlink.Link) error {
	return m.Called(link).Error(0)
}

func (m *MockNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	args := m.Called(link, family)
	return args.Get(0).([]netlink.Addr), args.Error(1)
}

func (m *MockNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	return m.Called(link, addr).Error(0)
}

func (m *MockNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return m.Called(link, addr).Error(0)
}

func (m *MockNetlinker) RouteReplace(route *netlink.Route) error {
	return m.Called(route).Error(0)
}

type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) RunCommand(ctx context.Context, name string, arg ...string) (string, error) {
	args := m.Called(name, arg)
	return args.String(0), args.Error(1)
}

type MockDHCPClient struct {
	mock.Mock
}

func (m *MockDHCPClient) Request(ctx context.Context, ifname string) (*nclient4.Lease, error) {
	args := m.Called(ctx, ifname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nclient4.Lease), args.Error(1)
}
