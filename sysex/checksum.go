// Package sysex implements the Four Pole's System Exclusive wire format:
// message framing and classification, the two 7-bit checksum revisions, and
// the program / all-dump codecs. Everything here is pure and reentrant;
// callers own the transport.
package sysex

// ChecksumMode selects the checksum algorithm a firmware revision expects.
type ChecksumMode int

const (
	// Mask7 keeps the low 7 bits of the payload sum.
	Mask7 ChecksumMode = iota
	// Complement7 is the two's-complement negation of the sum masked to
	// 7 bits, so that (sum(payload)+checksum)&0x7F == 0. A payload whose
	// sum is a multiple of 128 checksums to 0x00.
	Complement7
)

// Checksum computes the 7-bit checksum of payload under the given mode.
// The payload is exactly the bytes the device itself checksums: everything
// strictly between the device-ID byte and the checksum byte.
func Checksum(payload []byte, mode ChecksumMode) byte {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	if mode == Complement7 {
		return byte(-sum) & 0x7F
	}
	return byte(sum) & 0x7F
}

// Verify recomputes the checksum over the payload slice of a full framed
// message and compares it to the embedded checksum byte. Structurally
// invalid input is reported as false, never as a panic; callers wanting to
// distinguish the two cases run Classify first.
func Verify(msg []byte, mode ChecksumMode) bool {
	if len(msg) < headerLen+2 {
		return false
	}
	if msg[0] != SysExStart || msg[len(msg)-1] != SysExEnd {
		return false
	}
	payload := msg[checksumPayloadStart : len(msg)-2]
	return Checksum(payload, mode) == msg[len(msg)-2]
}
