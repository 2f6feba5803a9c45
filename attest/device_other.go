//go:build !linux

package attest

import (
	"fmt"
	"runtime"
)

// OpenDevice is only supported on Linux.
func OpenDevice(path string) (Device, error) {
	return nil, fmt.Errorf("NSM device %s not supported on %s", path, runtime.GOOS)
}
