package deps

import (
	"os"
	"os/exec"
	"strings"
)

// Spec lists what has to be present on the host before the radio can be
// switched between modes.
type Spec struct {
	Binaries []string
	Files    []string
}

// MissingError is returned by Check and names every missing item.
type MissingError struct {
	Binaries []string
	Files    []string
}

func (e *MissingError) Error() string {
	return "missing dependencies: " + strings.Join(e.Items(), ", ")
}

// Items returns the missing binaries followed by the missing files.
func (e *MissingError) Items() []string {
	items := make([]string, 0, len(e.Binaries)+len(e.Files))
	for _, b := range e.Binaries {
		items = append(items, "binary "+b)
	}
	for _, f := range e.Files {
		items = append(items, "file "+f)
	}
	return items
}

// Check confirms that every binary resolves on PATH and every file can be
// opened for reading. All missing items are collected before returning.
func Check(spec *Spec) error {
	missing := &MissingError{}

	seen := make(map[string]bool)

	for _, name := range spec.Binaries {
		if seen["bin:"+name] {
			continue
		}
		seen["bin:"+name] = true

		if _, err := exec.LookPath(name); err != nil {
			missing.Binaries = append(missing.Binaries, name)
		}
	}

	for _, path := range spec.Files {
		if seen["file:"+path] {
			continue
		}
		seen["file:"+path] = true

		if !readable(path) {
			missing.Files = append(missing.Files, path)
		}
	}

	if len(missing.Binaries) > 0 || len(missing.Files) > 0 {
		return missing
	}

	return nil
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return !info.IsDir()
}
