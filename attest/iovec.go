package attest

import "github.com/hf/nsm/ioc"

const (
	// DefaultDevicePath is the NSM character device inside a Nitro enclave.
	DefaultDevicePath = "/dev/nsm"

	MaxRequestSize  = 4096
	MaxResponseSize = 16384

	ioctlType    = 0x99
	ioctlNumber  = 0
	ioctlArgSize = 0x60
)

// IoctlCommand is the request code the NSM helper driver expects,
// _IOWR(0x99, 0, 0x60) = 0xC0609900.
var IoctlCommand = ioc.Command(ioc.READ|ioc.WRITE, ioctlType, ioctlNumber, ioctlArgSize)

// IOVec is the ioctl argument shared with the kernel module. Field order
// and widths are ABI: two u32 lengths followed by two native pointers, no
// padding on 32- or 64-bit targets.
type IOVec struct {
	RequestLen  uint32 // in
	ResponseLen uint32 // in: capacity, out: actual length
	Request     *byte
	Response    *byte
}

func newIOVec(req, resp []byte) *IOVec {
	return &IOVec{
		RequestLen:  uint32(len(req)),
		ResponseLen: uint32(len(resp)),
		Request:     &req[0],
		Response:    &resp[0],
	}
}
