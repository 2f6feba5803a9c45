//go:build !linux

package bridge

// pollRDHUP is Linux only; elsewhere POLLHUP alone signals the close.
const pollRDHUP = 0
