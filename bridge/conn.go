package bridge

import (
	"fmt"
	"io"
	"strconv"
	"syscall"

	"github.com/mdlayher/vsock"

	"enclave-helpers/shared"
)

// Conn is the remote end of the bridge. *vsock.Conn satisfies it, as does
// *net.UnixConn.
type Conn interface {
	io.ReadWriteCloser
	syscall.Conn
	CloseWrite() error
}

// Input is a pollable local byte source, normally os.Stdin.
type Input interface {
	io.Reader
	syscall.Conn
}

// DialFunc connects to (cid, port).
type DialFunc func(cid, port uint32) (Conn, error)

// Dial opens an AF_VSOCK stream connection to cid:port.
func Dial(cid, port uint32) (Conn, error) {
	conn, err := vsock.Dial(cid, port, nil)
	if err != nil {
		return nil, shared.NewError(shared.ConnectFailure, fmt.Sprintf("connect(vsock %d:%d)", cid, port), err)
	}
	return conn, nil
}

// Usage is the one-line command synopsis.
const Usage = "usage: vsock-connect <cid> <port>"

// ParseEndpoint validates the two positional arguments <cid> <port>.
func ParseEndpoint(args []string) (cid, port uint32, err error) {
	if len(args) != 2 {
		return 0, 0, shared.NewError(shared.UsageError, Usage, nil)
	}
	c, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, 0, shared.NewError(shared.UsageError, Usage, fmt.Errorf("invalid cid %q", args[0]))
	}
	p, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return 0, 0, shared.NewError(shared.UsageError, Usage, fmt.Errorf("invalid port %q", args[1]))
	}
	return uint32(c), uint32(p), nil
}
