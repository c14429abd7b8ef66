package sysex

import (
	"errors"
	"reflect"
	"testing"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
)

// testProgram builds a deterministic program with every field distinct, so a
// swapped offset shows up as a field mismatch. Name stays empty: the wire
// format does not carry it.
func testProgram(slot int) *fourpole.Program {
	return &fourpole.Program{
		Number:    slot,
		Envelope1: fourpole.Envelope{Attack: 1, Decay: 2, Sustain: 3, Release: 4, Amount: 5},
		Envelope2: fourpole.Envelope{Attack: 6, Decay: 7, Sustain: 8, Release: 9, Amount: 10},
		Filter: fourpole.Filter{
			Cutoff:             100,
			CutoffModSource:    fourpole.ModSourceLFO,
			CutoffModAmount:    64,
			Resonance:          90,
			ResonanceModSource: fourpole.ModSourceEnvelope2,
			ResonanceModAmount: 32,
		},
		Amp: fourpole.Amp{
			Volume:          110,
			VolumeModSource: fourpole.ModSourceVelocity,
			VolumeModAmount: 20,
			Pan:             64,
			PanModSource:    fourpole.ModSourceModWheel,
			PanModAmount:    15,
		},
		LFO: fourpole.LFO{
			Speed:     80,
			Shape:     fourpole.LFOShapeSquare,
			ModSource: fourpole.ModSourceAftertouch,
			ModAmount: 50,
		},
		GateTime:      70,
		TriggerSource: fourpole.TriggerSourceExternalGate,
		TriggerMode:   fourpole.TriggerModeMulti,
	}
}

func TestProgramDumpRoundTrip(t *testing.T) {
	for _, mode := range []ChecksumMode{Mask7, Complement7} {
		p := testProgram(5)

		msg, err := EncodeProgramDump(p, 0x02, mode)
		if err != nil {
			t.Fatalf("failed to encode program dump: %v", err)
		}
		if len(msg) != ProgramDumpLen {
			t.Fatalf("program dump is %d bytes, want %d", len(msg), ProgramDumpLen)
		}
		if DeviceID(msg) != 0x02 {
			t.Errorf("device ID byte = %02X, want 02", DeviceID(msg))
		}

		got, err := DecodeProgramDump(msg, mode)
		if err != nil {
			t.Fatalf("failed to decode program dump: %v", err)
		}
		if !reflect.DeepEqual(got, p) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
		}
	}
}

func TestProgramBulkDumpRoundTrip(t *testing.T) {
	p := testProgram(12)

	msg, err := EncodeProgramBulkDump(p, 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode bulk dump: %v", err)
	}
	if kind, err := Classify(msg); err != nil || kind != KindProgramBulkDump {
		t.Fatalf("Classify = %v, %v; want program bulk dump", kind, err)
	}

	got, err := DecodeProgramDump(msg, Mask7)
	if err != nil {
		t.Fatalf("failed to decode bulk dump: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestProgramBlockRoundTrip(t *testing.T) {
	p := testProgram(17)

	block := AppendProgramBlock(nil, p)
	if len(block) != ProgramBlockLen {
		t.Fatalf("program block is %d bytes, want %d", len(block), ProgramBlockLen)
	}

	got, err := DecodeProgramBlock(block, 17)
	if err != nil {
		t.Fatalf("failed to decode block: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestProgramBlockWrongLength(t *testing.T) {
	if _, err := DecodeProgramBlock(make([]byte, ProgramBlockLen-1), 0); !errors.Is(err, ErrMalformed) {
		t.Errorf("short block: err = %v, want ErrMalformed", err)
	}
	if _, err := DecodeProgramBlock(make([]byte, ProgramBlockLen+1), 0); !errors.Is(err, ErrMalformed) {
		t.Errorf("long block: err = %v, want ErrMalformed", err)
	}
}

func TestEncodeMasksEighthBit(t *testing.T) {
	p := testProgram(0)
	p.Filter.Cutoff = 200 // out of range, must be masked not emitted

	block := AppendProgramBlock(nil, p)
	if block[offCutoff] != 200&0x7F {
		t.Errorf("cutoff byte = %02X, want %02X", block[offCutoff], 200&0x7F)
	}
	for i, b := range block {
		if b > 0x7F {
			t.Errorf("block byte %d = %02X has the 8th bit set", i, b)
		}
	}
}

func TestUnknownEnumFallsBackToDefault(t *testing.T) {
	p := testProgram(4)
	block := AppendProgramBlock(nil, p)
	block[offLFOShape] = 0x55 // outside the known shape set

	got, err := DecodeProgramBlock(block, 4)
	if err != nil {
		t.Fatalf("unknown enum byte aborted the decode: %v", err)
	}
	if got.LFO.Shape != fourpole.LFOShapeTriangle {
		t.Errorf("LFO shape = %v, want default triangle", got.LFO.Shape)
	}

	// Everything else must survive intact.
	want := testProgram(4)
	want.LFO.Shape = fourpole.LFOShapeTriangle
	if !reflect.DeepEqual(got, want) {
		t.Errorf("other fields damaged by enum fallback:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecodeProgramDumpChecksumMismatch(t *testing.T) {
	msg, err := EncodeProgramDump(testProgram(1), 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode program dump: %v", err)
	}
	msg[headerLen+3] ^= 0x01

	_, err = DecodeProgramDump(msg, Mask7)
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
	if errors.Is(err, ErrMalformed) {
		t.Error("checksum failure must not be reported as malformed")
	}
}

func TestDecodeProgramDumpWrongKind(t *testing.T) {
	req, err := EncodeProgramDumpRequest(0x00, 2)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	if _, err := DecodeProgramDump(req, Mask7); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}
