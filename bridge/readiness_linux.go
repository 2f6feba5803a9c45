package bridge

import "golang.org/x/sys/unix"

// pollRDHUP reports a peer shutdown on stream sockets.
const pollRDHUP = unix.POLLRDHUP
