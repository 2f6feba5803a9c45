package attest

// Device is an open NSM device handle.
type Device interface {
	// Exchange issues the single request/response ioctl. On success
	// iov.ResponseLen holds the number of response bytes written.
	Exchange(iov *IOVec) error
	Close() error
}

// Opener opens the device at path for reading and writing.
type Opener func(path string) (Device, error)
