package sysex

import (
	"fmt"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
)

// Parameter offsets within the 29-byte program block. The order is fixed by
// the device firmware; keep this table in sync with appendProgramBlock and
// decodeProgramBlock.
const (
	offEnv1Attack  = 0
	offEnv1Decay   = 1
	offEnv1Sustain = 2
	offEnv1Release = 3
	offEnv1Amount  = 4

	offEnv2Attack  = 5
	offEnv2Decay   = 6
	offEnv2Sustain = 7
	offEnv2Release = 8
	offEnv2Amount  = 9

	offCutoff             = 10
	offCutoffModSource    = 11
	offCutoffModAmount    = 12
	offResonance          = 13
	offResonanceModSource = 14
	offResonanceModAmount = 15

	offVolume          = 16
	offVolumeModSource = 17
	offVolumeModAmount = 18
	offPan             = 19
	offPanModSource    = 20
	offPanModAmount    = 21

	offLFOSpeed     = 22
	offLFOShape     = 23
	offLFOModSource = 24
	offLFOModAmount = 25

	offGateTime      = 26
	offTriggerSource = 27
	offTriggerMode   = 28
)

// AppendProgramBlock appends the bare 29-byte parameter block of p to buf.
// This is the element format of an all dump: no slot byte, no framing. Every
// byte is masked to 7 bits so an out-of-range field can never leak an 8th
// bit into a MIDI data byte.
func AppendProgramBlock(buf []byte, p *fourpole.Program) []byte {
	var block [ProgramBlockLen]byte

	block[offEnv1Attack] = p.Envelope1.Attack
	block[offEnv1Decay] = p.Envelope1.Decay
	block[offEnv1Sustain] = p.Envelope1.Sustain
	block[offEnv1Release] = p.Envelope1.Release
	block[offEnv1Amount] = p.Envelope1.Amount

	block[offEnv2Attack] = p.Envelope2.Attack
	block[offEnv2Decay] = p.Envelope2.Decay
	block[offEnv2Sustain] = p.Envelope2.Sustain
	block[offEnv2Release] = p.Envelope2.Release
	block[offEnv2Amount] = p.Envelope2.Amount

	block[offCutoff] = p.Filter.Cutoff
	block[offCutoffModSource] = byte(p.Filter.CutoffModSource)
	block[offCutoffModAmount] = p.Filter.CutoffModAmount
	block[offResonance] = p.Filter.Resonance
	block[offResonanceModSource] = byte(p.Filter.ResonanceModSource)
	block[offResonanceModAmount] = p.Filter.ResonanceModAmount

	block[offVolume] = p.Amp.Volume
	block[offVolumeModSource] = byte(p.Amp.VolumeModSource)
	block[offVolumeModAmount] = p.Amp.VolumeModAmount
	block[offPan] = p.Amp.Pan
	block[offPanModSource] = byte(p.Amp.PanModSource)
	block[offPanModAmount] = p.Amp.PanModAmount

	block[offLFOSpeed] = p.LFO.Speed
	block[offLFOShape] = byte(p.LFO.Shape)
	block[offLFOModSource] = byte(p.LFO.ModSource)
	block[offLFOModAmount] = p.LFO.ModAmount

	block[offGateTime] = p.GateTime
	block[offTriggerSource] = byte(p.TriggerSource)
	block[offTriggerMode] = byte(p.TriggerMode)

	for i := range block {
		block[i] &= 0x7F
	}
	return append(buf, block[:]...)
}

// decodeProgramBlock maps a bare 29-byte block back to a Program. The slot
// is supplied by the caller: all-dump elements carry no slot byte, position
// in the stream is the identity. No framing or checksum check happens here;
// the enclosing message was already validated once.
func decodeProgramBlock(block []byte, slot int) (*fourpole.Program, error) {
	if len(block) != ProgramBlockLen {
		return nil, fmt.Errorf("program block must be %d bytes, got %d: %w", ProgramBlockLen, len(block), ErrMalformed)
	}

	p := &fourpole.Program{Number: slot}

	p.Envelope1 = fourpole.Envelope{
		Attack:  block[offEnv1Attack],
		Decay:   block[offEnv1Decay],
		Sustain: block[offEnv1Sustain],
		Release: block[offEnv1Release],
		Amount:  block[offEnv1Amount],
	}
	p.Envelope2 = fourpole.Envelope{
		Attack:  block[offEnv2Attack],
		Decay:   block[offEnv2Decay],
		Sustain: block[offEnv2Sustain],
		Release: block[offEnv2Release],
		Amount:  block[offEnv2Amount],
	}
	p.Filter = fourpole.Filter{
		Cutoff:             block[offCutoff],
		CutoffModSource:    fourpole.ModSourceFromByte(block[offCutoffModSource]),
		CutoffModAmount:    block[offCutoffModAmount],
		Resonance:          block[offResonance],
		ResonanceModSource: fourpole.ModSourceFromByte(block[offResonanceModSource]),
		ResonanceModAmount: block[offResonanceModAmount],
	}
	p.Amp = fourpole.Amp{
		Volume:          block[offVolume],
		VolumeModSource: fourpole.ModSourceFromByte(block[offVolumeModSource]),
		VolumeModAmount: block[offVolumeModAmount],
		Pan:             block[offPan],
		PanModSource:    fourpole.ModSourceFromByte(block[offPanModSource]),
		PanModAmount:    block[offPanModAmount],
	}
	p.LFO = fourpole.LFO{
		Speed:     block[offLFOSpeed],
		Shape:     fourpole.LFOShapeFromByte(block[offLFOShape]),
		ModSource: fourpole.ModSourceFromByte(block[offLFOModSource]),
		ModAmount: block[offLFOModAmount],
	}
	p.GateTime = block[offGateTime]
	p.TriggerSource = fourpole.TriggerSourceFromByte(block[offTriggerSource])
	p.TriggerMode = fourpole.TriggerModeFromByte(block[offTriggerMode])

	return p, nil
}

// DecodeProgramBlock is the raw-block entry point used when slicing an all
// dump or reading a bulk element from storage.
func DecodeProgramBlock(block []byte, slot int) (*fourpole.Program, error) {
	return decodeProgramBlock(block, slot)
}

func encodeFramedProgram(p *fourpole.Program, deviceID byte, command byte, mode ChecksumMode) ([]byte, error) {
	if p.Number < 0 || p.Number > 0x7F {
		return nil, fmt.Errorf("program number %d out of range: %w", p.Number, ErrMalformed)
	}
	msg := appendHeader(make([]byte, 0, ProgramDumpLen), deviceID, command)
	msg = append(msg, byte(p.Number))
	msg = AppendProgramBlock(msg, p)
	return appendChecksumAndEnd(msg, mode), nil
}

// EncodeProgramDump builds a framed single-program dump: header, slot byte,
// 29 parameter bytes, checksum, end marker. 37 bytes.
func EncodeProgramDump(p *fourpole.Program, deviceID byte, mode ChecksumMode) ([]byte, error) {
	return encodeFramedProgram(p, deviceID, cmdProgramDump, mode)
}

// EncodeProgramBulkDump builds the bulk variant, identical in shape but
// addressed at storage rather than the edit buffer.
func EncodeProgramBulkDump(p *fourpole.Program, deviceID byte, mode ChecksumMode) ([]byte, error) {
	return encodeFramedProgram(p, deviceID, cmdProgramBulkDump, mode)
}

// DecodeProgramDump validates framing and checksum, then decodes the single
// program carried by a program dump or program bulk dump message.
func DecodeProgramDump(msg []byte, mode ChecksumMode) (*fourpole.Program, error) {
	kind, err := Classify(msg)
	if err != nil {
		return nil, err
	}
	if kind != KindProgramDump && kind != KindProgramBulkDump {
		return nil, fmt.Errorf("expected a program dump, got %s: %w", kind, ErrMalformed)
	}
	if !Verify(msg, mode) {
		return nil, fmt.Errorf("%s: %w", kind, ErrChecksum)
	}

	slot := int(msg[headerLen])
	block := msg[headerLen+1 : headerLen+1+ProgramBlockLen]
	return decodeProgramBlock(block, slot)
}
