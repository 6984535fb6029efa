package parse

import "errors"

// Sentinel errors returned by Setup and Unpack. Callers distinguish error
// kinds with errors.Is; the wrapped message carries the detail.
var (
	// ErrConfig marks an unusable setup: bad range bounds or an empty or
	// unreadable calibration table. A parser that failed Setup stays
	// unconfigured.
	ErrConfig = errors.New("invalid decoder configuration")

	// ErrMalformedPacket marks a packet rejected as a whole: wrong byte
	// length or an unrecognised bank header. Indicates wire corruption or a
	// protocol version mismatch; the caller should log and move on to the
	// next packet.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrNotReady is returned when Unpack is called before a successful
	// Setup. This is a programming error in the caller, not a data error.
	ErrNotReady = errors.New("parser not configured")
)
