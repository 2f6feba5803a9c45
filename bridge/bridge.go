// Package bridge relays bytes between local stdio and one vsock connection.
//
// The relay is single threaded: one poll(2) over stdin and the socket, one
// chunk serviced per ready source per iteration. EOF on stdin half-closes
// the socket; EOF on the socket ends the bridge even if stdin still has
// unread data.
package bridge

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"enclave-helpers/shared"
)

// ChunkSize bounds a single read in either direction.
const ChunkSize = 65536

// State is the relay's lifecycle state.
type State int

const (
	Connecting State = iota
	Bridging
	StdinHalfClosed
	Terminated
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Bridging:
		return "bridging"
	case StdinHalfClosed:
		return "stdin_half_closed"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Bridge owns one relay between stdin/stdout and a connected remote.
type Bridge struct {
	stdin  Input
	stdout io.Writer
	remote Conn
	logger *shared.Logger

	set   readySet
	buf   []byte
	state State

	sent, received int64
}

// New returns a Bridge over an already connected remote. The caller keeps
// ownership of remote and closes it after Run.
func New(stdin Input, stdout io.Writer, remote Conn, logger *shared.Logger) *Bridge {
	return &Bridge{
		stdin:  stdin,
		stdout: stdout,
		remote: remote,
		logger: logger,
		buf:    make([]byte, ChunkSize),
		state:  Connecting,
	}
}

// State reports the current state.
func (b *Bridge) State() State {
	return b.state
}

// Run relays until the remote closes. It returns nil on a remote close and
// a *shared.HelperError on poll or write failure.
func (b *Bridge) Run() error {
	if err := b.set.watch(remoteSource, b.remote); err != nil {
		return shared.NewError(shared.PollFailure, "watch", err)
	}
	if err := b.set.watch(stdinSource, b.stdin); err != nil {
		return shared.NewError(shared.PollFailure, "watch", err)
	}
	b.transition(Bridging)

	for b.state != Terminated {
		if err := b.set.wait(); err != nil {
			return shared.NewError(shared.PollFailure, "poll", err)
		}

		// Remote first: a peer close wins over pending local input.
		if b.set.ready(remoteSource) {
			if err := b.pumpRemote(); err != nil {
				return err
			}
			if b.state == Terminated {
				break
			}
		}
		// The peer may queue a last chunk and close in the same wakeup. Drain
		// the remote until EOF without touching stdin, which would hit EPIPE.
		if b.set.hungUp(remoteSource) {
			continue
		}
		if b.set.ready(stdinSource) {
			if err := b.pumpStdin(); err != nil {
				return err
			}
		}
	}

	b.logger.Info("Bridge terminated",
		zap.Int64("bytes_sent", b.sent),
		zap.Int64("bytes_received", b.received))
	return nil
}

func (b *Bridge) pumpRemote() error {
	n, err := b.remote.Read(b.buf)
	if n > 0 {
		if werr := shared.WriteFull(b.stdout, b.buf[:n]); werr != nil {
			return shared.NewError(shared.WriteFailure, "write(stdout)", werr)
		}
		b.received += int64(n)
		b.logger.DebugIf("Relayed remote chunk", zap.Int("bytes", n))
	}
	if n == 0 || err != nil {
		if err != nil && !errors.Is(err, io.EOF) {
			b.logger.Warn("Remote read failed, closing bridge", zap.Error(err))
		}
		b.transition(Terminated)
	}
	return nil
}

func (b *Bridge) pumpStdin() error {
	n, err := b.stdin.Read(b.buf)
	if n > 0 {
		if werr := shared.WriteFull(b.remote, b.buf[:n]); werr != nil {
			return shared.NewError(shared.WriteFailure, "write(vsock)", werr)
		}
		b.sent += int64(n)
		b.logger.DebugIf("Relayed stdin chunk", zap.Int("bytes", n))
	}
	if n == 0 || err != nil {
		if err != nil && !errors.Is(err, io.EOF) {
			b.logger.Warn("Stdin read failed, treating as EOF", zap.Error(err))
		}
		b.set.deactivate(stdinSource)
		if cerr := b.remote.CloseWrite(); cerr != nil {
			b.logger.Warn("Failed to shut down write half", zap.Error(cerr))
		}
		b.transition(StdinHalfClosed)
	}
	return nil
}

func (b *Bridge) transition(next State) {
	b.logger.DebugIf("Bridge state change",
		zap.Stringer("from", b.state),
		zap.Stringer("to", next))
	b.state = next
}
