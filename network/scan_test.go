package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iwScanOutput = `BSS 00:11:22:33:44:55(on wlan0)
	TSF: 1234 usec (0d, 00:00:00)
	freq: 2412
	signal: -48.00 dBm
	SSID: home
	RSN:	 * Version: 1
BSS 66:77:88:99:aa:bb(on wlan0)
	freq: 2437
	signal: -71.00 dBm
	SSID: cafe
BSS 66:77:88:99:aa:cc(on wlan0)
	freq: 2462
	signal: -60.00 dBm
	SSID: cafe
BSS 66:77:88:99:aa:dd(on wlan0)
	signal: -30.00 dBm
	SSID: 
`

func TestParseIwScan(t *testing.T) {
	wifis := parseIwScan(iwScanOutput)
	require.Len(t, wifis, 2)

	assert.Equal(t, &Wifi{Ssid: "home", Signal: -48, Security: true}, wifis[0])
	assert.Equal(t, &Wifi{Ssid: "cafe", Signal: -60, Security: false}, wifis[1])
}

func TestParseIwScanEmpty(t *testing.T) {
	assert.Empty(t, parseIwScan(""))
}
