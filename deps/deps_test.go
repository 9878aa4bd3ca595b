package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\nexit 0\n"), 0755))
}

func TestCheckAllPresent(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "hostapd")
	writeExecutable(t, bin, "dnsmasq")
	t.Setenv("PATH", bin)

	conf := filepath.Join(t.TempDir(), "dnsmasq.conf")
	require.NoError(t, os.WriteFile(conf, []byte("# empty\n"), 0644))

	err := Check(&Spec{
		Binaries: []string{"hostapd", "dnsmasq"},
		Files:    []string{conf},
	})
	assert.NoError(t, err)
}

func TestCheckListsEveryMissingItemOnce(t *testing.T) {
	bin := t.TempDir()
	writeExecutable(t, bin, "iw")
	t.Setenv("PATH", bin)

	dir := t.TempDir()

	err := Check(&Spec{
		Binaries: []string{"hostapd", "iw", "dnsmasq", "hostapd"},
		Files:    []string{filepath.Join(dir, "dnsmasq.conf"), dir, filepath.Join(dir, "dnsmasq.conf")},
	})
	require.Error(t, err)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))

	assert.Equal(t, []string{"hostapd", "dnsmasq"}, missing.Binaries)
	assert.Equal(t, []string{filepath.Join(dir, "dnsmasq.conf"), dir}, missing.Files)
	assert.Equal(t, []string{
		"binary hostapd",
		"binary dnsmasq",
		"file " + filepath.Join(dir, "dnsmasq.conf"),
		"file " + dir,
	}, missing.Items())
	assert.Contains(t, err.Error(), "binary hostapd, binary dnsmasq")
}

func TestCheckEmptySpec(t *testing.T) {
	assert.NoError(t, Check(&Spec{}))
}
