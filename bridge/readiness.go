package bridge

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

type source int

const (
	remoteSource source = iota
	stdinSource
	numSources
)

func (s source) String() string {
	switch s {
	case remoteSource:
		return "remote"
	case stdinSource:
		return "stdin"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// readyEvents covers data, hang-up and error conditions; all of them are
// resolved by the next read returning data, EOF or an error.
const readyEvents = unix.POLLIN | unix.POLLHUP | unix.POLLERR | unix.POLLNVAL

// hangupEvents mean the peer is gone even if unread data is still queued.
const hangupEvents = unix.POLLHUP | pollRDHUP | unix.POLLERR

type watched struct {
	fd     int
	active bool
}

// readySet is a fixed two-entry poll set. Inactive entries are passed to
// poll(2) as fd -1, which the kernel ignores.
type readySet struct {
	handles [numSources]watched
	pfds    [numSources]unix.PollFd
}

func (s *readySet) watch(src source, c syscall.Conn) error {
	raw, err := c.SyscallConn()
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	fd := -1
	if err := raw.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	s.handles[src] = watched{fd: fd, active: true}
	return nil
}

func (s *readySet) deactivate(src source) {
	s.handles[src].active = false
}

func (s *readySet) active(src source) bool {
	return s.handles[src].active
}

// wait blocks until at least one active entry is ready. There is no timeout.
func (s *readySet) wait() error {
	for i, h := range s.handles {
		fd := int32(-1)
		if h.active {
			fd = int32(h.fd)
		}
		s.pfds[i] = unix.PollFd{Fd: fd, Events: unix.POLLIN | pollRDHUP}
	}
	for {
		_, err := unix.Poll(s.pfds[:], -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err
	}
}

func (s *readySet) ready(src source) bool {
	return s.handles[src].active && s.pfds[src].Revents&readyEvents != 0
}

// hungUp reports whether the last wait saw src hang up or fail.
func (s *readySet) hungUp(src source) bool {
	return s.handles[src].active && s.pfds[src].Revents&hangupEvents != 0
}
