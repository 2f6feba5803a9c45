//go:build linux

package attest

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

type fdDevice struct {
	fd int
}

// OpenDevice opens the NSM device node with O_RDWR.
func OpenDevice(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &fdDevice{fd: fd}, nil
}

func (d *fdDevice) Exchange(iov *IOVec) error {
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(d.fd),
		uintptr(IoctlCommand),
		uintptr(unsafe.Pointer(iov)),
	)
	// The kernel dereferences the buffers through iov.
	runtime.KeepAlive(iov)
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *fdDevice) Close() error {
	return unix.Close(d.fd)
}
