package main

import (
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type accessPointConfig struct {
	Ssid       string `long:"ssid" description:"Name of the network hosted for configuration" default:"wificonf-setup"`
	Passphrase string `long:"passphrase" description:"WPA2 passphrase of the hosted network, open when empty"`
	Address    string `long:"address" description:"Address of this device on the hosted network" default:"192.168.44.1/24"`
	RangeStart string `long:"range-start" description:"First address handed out to clients" default:"192.168.44.10"`
	RangeEnd   string `long:"range-end" description:"Last address handed out to clients" default:"192.168.44.50"`
	Channel    int    `long:"channel" description:"Channel of the hosted network" default:"6"`
	RunDir     string `long:"rundir" description:"Directory for generated hostapd and dnsmasq files" default:"/run/wificonf"`
}

type serverConfig struct {
	Listen string `long:"listen" description:"Address the configuration endpoint listens on" default:":80"`
	WebDir string `long:"webdir" description:"Serve the configuration page from this directory instead of the built in one"`
}

type depsConfig struct {
	Binaries []string `long:"binary" description:"Binary that must be available on PATH" default:"dnsmasq" default:"hostapd" default:"iw"`
	Files    []string `long:"file" description:"File that must be readable" default:"/etc/dnsmasq.conf"`
}

type probeConfig struct {
	Method   string        `long:"method" description:"How upstream connectivity is checked" choice:"dns" choice:"icmp" default:"dns"`
	Resolver string        `long:"resolver" description:"DNS server queried by the dns method" default:"8.8.8.8:53"`
	Name     string        `long:"name" description:"Name resolved by the dns method" default:"google.com."`
	Target   string        `long:"target" description:"Host pinged by the icmp method" default:"1.1.1.1"`
	Timeout  time.Duration `long:"timeout" description:"Upper bound for a single connectivity probe" default:"5s"`
}

type profilingConfig struct {
	Listen string `long:"listen" description:"Start a pprof server on this address"`
}

type config struct {
	ShowVersion        bool               `short:"v" long:"version" description:"Display version information and exit"`
	ConfigFile         string             `long:"configfile" description:"Path to an ini configuration file"`
	Debug              bool               `long:"debug" description:"Start in debug mode"`
	DataDir            string             `long:"datadir" description:"Directory for the attempt history" default:"/var/lib/wificonf"`
	Interface          string             `long:"interface" description:"Wireless interface to configure" default:"wlan0"`
	Net                string             `long:"net" description:"Networking backend" choice:"wpa" choice:"mock" default:"wpa"`
	ForceReconfigure   bool               `long:"force-reconfigure" description:"Host the access point even if already online"`
	NoExit             bool               `long:"no-exit" description:"Keep running after the device got connected"`
	AssociationTimeout time.Duration      `long:"association-timeout" description:"Upper bound for joining a network" default:"30s"`
	AccessPoint        *accessPointConfig `group:"Access point" namespace:"ap"`
	Server             *serverConfig      `group:"Server" namespace:"server"`
	Deps               *depsConfig        `group:"Dependencies" namespace:"deps"`
	Probe              *probeConfig       `group:"Connectivity probe" namespace:"probe"`
	Profiling          *profilingConfig   `group:"Profiling" namespace:"profiling"`
}

func newConfig() *config {
	return &config{
		AccessPoint: &accessPointConfig{},
		Server:      &serverConfig{},
		Deps:        &depsConfig{},
		Probe:       &probeConfig{},
		Profiling:   &profilingConfig{},
	}
}

// loadConfig reads the command line, then the ini file named by
// --configfile, then the command line again so that flags take precedence.
func loadConfig(args []string) (*config, error) {
	preCfg := newConfig()

	_, err := flags.NewParser(preCfg, flags.Default).ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if preCfg.ShowVersion || preCfg.ConfigFile == "" {
		return preCfg, validateConfig(preCfg)
	}

	cfg := newConfig()
	parser := flags.NewParser(cfg, flags.Default)

	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %v", preCfg.ConfigFile)
	}

	_, err = parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return cfg, validateConfig(cfg)
}

func validateConfig(cfg *config) error {
	if cfg.Interface == "" {
		return errors.New("interface must not be empty")
	}

	if cfg.AccessPoint.Ssid == "" {
		return errors.New("access point ssid must not be empty")
	}

	if n := len(cfg.AccessPoint.Passphrase); n > 0 && (n < 8 || n > 63) {
		return errors.Errorf("access point passphrase must be between 8 and 63 characters, got %v", n)
	}

	if cfg.AssociationTimeout <= 0 {
		return errors.New("association timeout must be positive")
	}

	if cfg.Probe.Timeout <= 0 {
		return errors.New("probe timeout must be positive")
	}

	return nil
}
