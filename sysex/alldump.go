package sysex

import (
	"fmt"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
)

// Global block offsets, relative to the start of the 6-byte block that
// follows the 20th program block in an all dump.
const (
	offGlobalMIDIChannel    = 0
	offGlobalControlMode    = 1
	offGlobalDeviceID       = 2
	offGlobalStartupProgram = 3
	offGlobalNoteNumber     = 4
	offGlobalKnobMode       = 5
)

func appendGlobalBlock(buf []byte, g fourpole.GlobalSettings) []byte {
	var block [GlobalBlockLen]byte
	block[offGlobalMIDIChannel] = g.MIDIChannel
	block[offGlobalControlMode] = byte(g.ControlMode)
	block[offGlobalDeviceID] = g.DeviceID
	block[offGlobalStartupProgram] = g.StartupProgram
	block[offGlobalNoteNumber] = g.NoteNumber
	block[offGlobalKnobMode] = byte(g.KnobMode)

	for i := range block {
		block[i] &= 0x7F
	}
	return append(buf, block[:]...)
}

func decodeGlobalBlock(block []byte) fourpole.GlobalSettings {
	return fourpole.GlobalSettings{
		MIDIChannel:    block[offGlobalMIDIChannel],
		ControlMode:    fourpole.ControlModeFromByte(block[offGlobalControlMode]),
		DeviceID:       block[offGlobalDeviceID],
		StartupProgram: block[offGlobalStartupProgram],
		NoteNumber:     block[offGlobalNoteNumber],
		KnobMode:       fourpole.KnobModeFromByte(block[offGlobalKnobMode]),
	}
}

// EncodeAllDump builds the full-configuration dump: 20 program blocks in
// slot order with their slot bytes omitted, the 6-byte global block, one
// checksum over the lot. The program count is checked before a single byte
// is produced.
func EncodeAllDump(c *fourpole.Configuration, deviceID byte, mode ChecksumMode) ([]byte, error) {
	if len(c.Programs) != programCount {
		return nil, fmt.Errorf("got %d programs: %w", len(c.Programs), ErrProgramCount)
	}

	msg := appendHeader(make([]byte, 0, AllDumpLen), deviceID, cmdAllDump)
	for _, p := range c.Programs {
		msg = AppendProgramBlock(msg, p)
	}
	msg = appendGlobalBlock(msg, c.Globals)
	return appendChecksumAndEnd(msg, mode), nil
}

// DecodeAllDump validates framing and checksum once for the whole message,
// then slices the payload into 20 consecutive program blocks and the global
// block. Slot numbers are assigned positionally: all-dump elements carry no
// slot byte of their own.
func DecodeAllDump(msg []byte, mode ChecksumMode) (*fourpole.Configuration, error) {
	kind, err := Classify(msg)
	if err != nil {
		return nil, err
	}
	if kind != KindAllDump {
		return nil, fmt.Errorf("expected an all dump, got %s: %w", kind, ErrMalformed)
	}
	if !Verify(msg, mode) {
		return nil, fmt.Errorf("%s: %w", kind, ErrChecksum)
	}

	c := &fourpole.Configuration{
		Programs: make([]*fourpole.Program, programCount),
	}
	for slot := 0; slot < programCount; slot++ {
		start := headerLen + slot*ProgramBlockLen
		p, err := decodeProgramBlock(msg[start:start+ProgramBlockLen], slot)
		if err != nil {
			return nil, err
		}
		c.Programs[slot] = p
	}

	globalStart := headerLen + programCount*ProgramBlockLen
	c.Globals = decodeGlobalBlock(msg[globalStart : globalStart+GlobalBlockLen])

	return c, nil
}
