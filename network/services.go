package network

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
)

var hostapdTemplate = template.Must(template.New("hostapd.conf").Parse(`interface={{.Interface}}
driver=nl80211
ssid={{.Ssid}}
hw_mode=g
channel={{.Channel}}
auth_algs=1
ignore_broadcast_ssid=0
{{- if .Passphrase}}
wpa=2
wpa_passphrase={{.Passphrase}}
wpa_key_mgmt=WPA-PSK
rsn_pairwise=CCMP
{{- end}}
`))

// Every name resolves to the access point so clients land on the
// configuration page.
var dnsmasqTemplate = template.Must(template.New("dnsmasq.conf").Parse(`interface={{.Interface}}
bind-interfaces
no-resolv
dhcp-range={{.RangeStart}},{{.RangeEnd}},12h
address=/#/{{.Address}}
`))

type serviceParams struct {
	Interface  string
	Ssid       string
	Passphrase string
	Channel    int
	Address    string
	RangeStart string
	RangeEnd   string
}

// apServices runs hostapd and dnsmasq, tracked through pid files in runDir.
type apServices struct {
	runDir string
	exec   CommandExecutor
	signal func(pid int) error
	log    Logger
}

func newAPServices(runDir string, exec CommandExecutor, log Logger) *apServices {
	return &apServices{
		runDir: runDir,
		exec:   exec,
		signal: func(pid int) error {
			return unix.Kill(pid, unix.SIGTERM)
		},
		log: log,
	}
}

func (s *apServices) path(name string) string {
	return filepath.Join(s.runDir, name)
}

func (s *apServices) start(ctx context.Context, ifname string, ap *AccessPoint, ip net.IP) error {
	err := os.MkdirAll(s.runDir, 0700)
	if err != nil {
		return errors.Errorf("could not create %v: %v", s.runDir, err)
	}

	params := &serviceParams{
		Interface:  ifname,
		Ssid:       ap.Ssid,
		Passphrase: ap.Passphrase,
		Channel:    ap.Channel,
		Address:    ip.String(),
		RangeStart: ap.RangeStart,
		RangeEnd:   ap.RangeEnd,
	}

	if params.Channel == 0 {
		params.Channel = 6
	}

	err = render(hostapdTemplate, params, s.path("hostapd.conf"))
	if err != nil {
		return err
	}

	err = render(dnsmasqTemplate, params, s.path("dnsmasq.conf"))
	if err != nil {
		return err
	}

	_, err = s.exec.RunCommand(ctx, "hostapd", "-B", "-P", s.path("hostapd.pid"), s.path("hostapd.conf"))
	if err != nil {
		return errors.Errorf("could not start hostapd: %v", err)
	}

	_, err = s.exec.RunCommand(ctx, "dnsmasq", "-C", s.path("dnsmasq.conf"), "-x", s.path("dnsmasq.pid"))
	if err != nil {
		s.stop()
		return errors.Errorf("could not start dnsmasq: %v", err)
	}

	return nil
}

// stop terminates whatever a previous start left running. Failures are only
// logged since a missing process is the desired end state anyway.
func (s *apServices) stop() {
	for _, name := range []string{"dnsmasq.pid", "hostapd.pid"} {
		path := s.path(name)

		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			s.log.Warnf("Could not read %v: %v", path, err)
			continue
		}

		pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
		if err != nil {
			s.log.Warnf("Invalid pid in %v: %v", path, err)
		} else if err := s.signal(pid); err != nil && err != unix.ESRCH {
			s.log.Warnf("Could not stop process %v: %v", pid, err)
		} else {
			s.log.Debugf("Stopped process %v from %v", pid, name)
		}

		err = os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			s.log.Warnf("Could not remove %v: %v", path, err)
		}
	}
}

func render(tmpl *template.Template, params *serviceParams, path string) error {
	var buf bytes.Buffer

	err := tmpl.Execute(&buf, params)
	if err != nil {
		return errors.Errorf("could not render %v: %v", tmpl.Name(), err)
	}

	// hostapd.conf may carry the passphrase
	err = os.WriteFile(path, buf.Bytes(), 0600)
	if err != nil {
		return errors.Errorf("could not write %v: %v", path, err)
	}

	return nil
}
