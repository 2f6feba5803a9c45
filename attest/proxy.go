// Package attest forwards one opaque attestation request from stdin to the
// Nitro Secure Module device and copies the device's response to stdout.
// Payloads are never interpreted.
package attest

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"enclave-helpers/shared"
)

// Proxy performs a single request/response cycle against an NSM device.
type Proxy struct {
	DevicePath string
	Open       Opener
	logger     *shared.Logger
}

// NewProxy returns a Proxy using the real device opener.
func NewProxy(devicePath string, logger *shared.Logger) *Proxy {
	if devicePath == "" {
		devicePath = DefaultDevicePath
	}
	return &Proxy{
		DevicePath: devicePath,
		Open:       OpenDevice,
		logger:     logger,
	}
}

// Run reads the request from in, exchanges it with the device and writes
// the response to out. Nothing is written to out unless the ioctl succeeded.
func (p *Proxy) Run(in io.Reader, out io.Writer) error {
	req, err := ReadRequest(in)
	if err != nil {
		return err
	}
	p.logger.DebugIf("Read attestation request", zap.Int("request_len", len(req)))

	resp, err := p.Exchange(req)
	if err != nil {
		return err
	}

	if err := shared.WriteFull(out, resp); err != nil {
		return shared.NewError(shared.WriteFailure, "write(stdout)", err)
	}
	p.logger.DebugIf("Wrote attestation response", zap.Int("response_len", len(resp)))
	return nil
}

// Exchange opens the device, issues exactly one ioctl and closes the device.
func (p *Proxy) Exchange(req []byte) ([]byte, error) {
	if len(req) == 0 {
		return nil, shared.NewError(shared.EmptyRequest, "empty request", nil)
	}
	if len(req) > MaxRequestSize {
		return nil, tooLarge()
	}

	dev, err := p.Open(p.DevicePath)
	if err != nil {
		return nil, shared.NewError(shared.DeviceUnavailable, fmt.Sprintf("open(%s)", p.DevicePath), err)
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			p.logger.Warn("Failed to close NSM device", zap.String("device", p.DevicePath), zap.Error(cerr))
		}
	}()

	resp := make([]byte, MaxResponseSize)
	iov := newIOVec(req, resp)
	if err := dev.Exchange(iov); err != nil {
		return nil, shared.NewError(shared.IoctlFailure, "ioctl(NSM)", err)
	}
	if iov.ResponseLen > MaxResponseSize {
		return nil, shared.NewError(shared.IoctlFailure, "ioctl(NSM)",
			fmt.Errorf("device reported %d response bytes, capacity is %d", iov.ResponseLen, MaxResponseSize))
	}
	return resp[:iov.ResponseLen], nil
}

// ReadRequest reads in until EOF into a MaxRequestSize buffer.
func ReadRequest(in io.Reader) ([]byte, error) {
	buf := make([]byte, MaxRequestSize)
	n, err := io.ReadFull(in, buf)
	switch {
	case errors.Is(err, io.EOF):
		return nil, shared.NewError(shared.EmptyRequest, "empty request", nil)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], nil
	case err != nil:
		return nil, shared.NewError(shared.ReadFailure, "read(stdin)", err)
	}

	// Buffer is full; any further byte means the request does not fit.
	var extra [1]byte
	if _, err := io.ReadFull(in, extra[:]); err == nil {
		return nil, tooLarge()
	} else if !errors.Is(err, io.EOF) {
		return nil, shared.NewError(shared.ReadFailure, "read(stdin)", err)
	}
	return buf, nil
}

func tooLarge() error {
	return shared.NewError(shared.RequestTooLarge, fmt.Sprintf("request exceeds %d bytes", MaxRequestSize), nil)
}
