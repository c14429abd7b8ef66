package sysex

import (
	"errors"
	"fmt"
)

// Framing constants. Every Four Pole message opens with the five-byte header
// F0 7D 04 <devID> <cmd>; the device-ID byte is data, not identity, so
// classification checks manufacturer and family only.
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7

	ManufacturerID = 0x7D
	FamilyID       = 0x04
)

// Header byte positions.
const (
	idxStart        = 0
	idxManufacturer = 1
	idxFamily       = 2
	idxDeviceID     = 3
	idxCommand      = 4

	headerLen = 5

	// The checksum payload starts right after the device-ID byte and runs
	// up to (excluding) the checksum byte.
	checksumPayloadStart = idxCommand
)

// Command bytes.
const (
	cmdProgramDump        = 0x00
	cmdProgramBulkDump    = 0x01
	cmdAllDump            = 0x08
	cmdAllDumpRequest     = 0x09
	cmdProgramDumpRequest = 0x40
)

// Message sizes. A program block is the 29 parameter bytes; the all-dump
// payload carries 20 of them back to back followed by the 6 global bytes.
const (
	ProgramBlockLen = 29
	GlobalBlockLen  = 6

	// F0 7D 04 dd cmd nn <29 params> ck F7
	ProgramDumpLen = headerLen + 1 + ProgramBlockLen + 2 // 37

	// F0 7D 04 dd cmd <20x29 params> <6 globals> ck F7
	AllDumpLen = headerLen + programCount*ProgramBlockLen + GlobalBlockLen + 2 // 593

	// F0 7D 04 dd cmd nn F7
	ProgramDumpRequestLen = headerLen + 2 // 7

	// F0 7D 04 dd cmd F7
	AllDumpRequestLen = headerLen + 1 // 6

	programCount = 20
)

// MessageKind classifies a framed message by its command byte.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindProgramDump
	KindProgramBulkDump
	KindAllDump
	KindProgramDumpRequest
	KindAllDumpRequest
)

func (k MessageKind) String() string {
	switch k {
	case KindProgramDump:
		return "program dump"
	case KindProgramBulkDump:
		return "program bulk dump"
	case KindAllDump:
		return "all dump"
	case KindProgramDumpRequest:
		return "program dump request"
	case KindAllDumpRequest:
		return "all dump request"
	default:
		return "unknown"
	}
}

var (
	// ErrMalformed covers framing failures: missing or wrong start/end
	// markers, a message too short for its declared kind, or a
	// manufacturer/family mismatch.
	ErrMalformed = errors.New("malformed sysex message")

	// ErrChecksum means framing and length were fine but the embedded
	// checksum disagrees with the computed one. Distinct from ErrMalformed
	// so callers can choose to request a retransmission.
	ErrChecksum = errors.New("sysex checksum mismatch")

	// ErrProgramCount means a configuration did not hold exactly 20
	// programs at encode or decode time.
	ErrProgramCount = errors.New("configuration must hold exactly 20 programs")
)

// Classify validates framing and returns the message kind. It checks the
// start/end markers, the manufacturer and family identifiers, the command
// byte and the per-kind length; it never interprets payload bytes.
func Classify(msg []byte) (MessageKind, error) {
	if len(msg) < AllDumpRequestLen {
		return KindUnknown, fmt.Errorf("message of %d bytes too short for any kind: %w", len(msg), ErrMalformed)
	}
	if msg[idxStart] != SysExStart || msg[len(msg)-1] != SysExEnd {
		return KindUnknown, fmt.Errorf("missing sysex framing markers: %w", ErrMalformed)
	}
	if msg[idxManufacturer] != ManufacturerID || msg[idxFamily] != FamilyID {
		return KindUnknown, fmt.Errorf("manufacturer/family %02X %02X is not %02X %02X: %w",
			msg[idxManufacturer], msg[idxFamily], ManufacturerID, FamilyID, ErrMalformed)
	}

	var kind MessageKind
	var want int
	switch msg[idxCommand] {
	case cmdProgramDump:
		kind, want = KindProgramDump, ProgramDumpLen
	case cmdProgramBulkDump:
		kind, want = KindProgramBulkDump, ProgramDumpLen
	case cmdAllDump:
		kind, want = KindAllDump, AllDumpLen
	case cmdProgramDumpRequest:
		kind, want = KindProgramDumpRequest, ProgramDumpRequestLen
	case cmdAllDumpRequest:
		kind, want = KindAllDumpRequest, AllDumpRequestLen
	default:
		return KindUnknown, fmt.Errorf("unknown command byte %02X: %w", msg[idxCommand], ErrMalformed)
	}
	if len(msg) != want {
		return KindUnknown, fmt.Errorf("%s must be %d bytes, got %d: %w", kind, want, len(msg), ErrMalformed)
	}
	return kind, nil
}

// DeviceID extracts the addressed device from a framed message. Callers run
// Classify first; short input returns 0.
func DeviceID(msg []byte) byte {
	if len(msg) <= idxDeviceID {
		return 0
	}
	return msg[idxDeviceID]
}

func appendHeader(buf []byte, deviceID, command byte) []byte {
	return append(buf, SysExStart, ManufacturerID, FamilyID, deviceID&0x7F, command)
}

// appendChecksumAndEnd closes a message under construction: msg holds the
// header and payload, and the checksum covers everything after the
// device-ID byte.
func appendChecksumAndEnd(msg []byte, mode ChecksumMode) []byte {
	msg = append(msg, Checksum(msg[checksumPayloadStart:], mode))
	return append(msg, SysExEnd)
}

// EncodeProgramDumpRequest builds the 7-byte request for a single program
// slot.
func EncodeProgramDumpRequest(deviceID byte, slot int) ([]byte, error) {
	if slot < 0 || slot > 0x7F {
		return nil, fmt.Errorf("slot %d out of range: %w", slot, ErrMalformed)
	}
	msg := appendHeader(make([]byte, 0, ProgramDumpRequestLen), deviceID, cmdProgramDumpRequest)
	msg = append(msg, byte(slot), SysExEnd)
	return msg, nil
}

// EncodeAllDumpRequest builds the 6-byte request for the full configuration.
func EncodeAllDumpRequest(deviceID byte) []byte {
	msg := appendHeader(make([]byte, 0, AllDumpRequestLen), deviceID, cmdAllDumpRequest)
	return append(msg, SysExEnd)
}

// RequestedSlot returns the slot number carried by a program dump request.
func RequestedSlot(msg []byte) (int, error) {
	kind, err := Classify(msg)
	if err != nil {
		return 0, err
	}
	if kind != KindProgramDumpRequest {
		return 0, fmt.Errorf("%s carries no slot number: %w", kind, ErrMalformed)
	}
	return int(msg[headerLen]), nil
}
