package sysex

import (
	"errors"
	"reflect"
	"testing"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
)

// testConfiguration fills all 20 slots with distinct programs so positional
// slicing errors cannot cancel out.
func testConfiguration() *fourpole.Configuration {
	c := &fourpole.Configuration{
		Programs: make([]*fourpole.Program, fourpole.EditableSlots),
		Globals: fourpole.GlobalSettings{
			MIDIChannel:    4,
			ControlMode:    fourpole.ControlModeNRPN,
			DeviceID:       2,
			StartupProgram: 11,
			NoteNumber:     60,
			KnobMode:       fourpole.KnobModeCatch,
		},
	}
	for i := range c.Programs {
		p := testProgram(i)
		p.Filter.Cutoff = byte(i * 5)
		p.GateTime = byte(127 - i)
		c.Programs[i] = p
	}
	return c
}

func TestAllDumpRoundTrip(t *testing.T) {
	for _, mode := range []ChecksumMode{Mask7, Complement7} {
		c := testConfiguration()

		msg, err := EncodeAllDump(c, 0x00, mode)
		if err != nil {
			t.Fatalf("failed to encode all dump: %v", err)
		}
		if len(msg) != AllDumpLen {
			t.Fatalf("all dump is %d bytes, want %d", len(msg), AllDumpLen)
		}

		got, err := DecodeAllDump(msg, mode)
		if err != nil {
			t.Fatalf("failed to decode all dump: %v", err)
		}
		if len(got.Programs) != fourpole.EditableSlots {
			t.Fatalf("decoded %d programs, want %d", len(got.Programs), fourpole.EditableSlots)
		}
		if !reflect.DeepEqual(got, c) {
			t.Errorf("round trip mismatch")
			for i := range c.Programs {
				if !reflect.DeepEqual(got.Programs[i], c.Programs[i]) {
					t.Errorf("slot %d:\n got %+v\nwant %+v", i, got.Programs[i], c.Programs[i])
				}
			}
			if got.Globals != c.Globals {
				t.Errorf("globals:\n got %+v\nwant %+v", got.Globals, c.Globals)
			}
		}
	}
}

func TestAllDumpSlotsArePositional(t *testing.T) {
	c := testConfiguration()
	for _, p := range c.Programs {
		p.Number = 7 // stale numbers must not survive an all dump
	}

	msg, err := EncodeAllDump(c, 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode all dump: %v", err)
	}
	got, err := DecodeAllDump(msg, Mask7)
	if err != nil {
		t.Fatalf("failed to decode all dump: %v", err)
	}
	for i, p := range got.Programs {
		if p.Number != i {
			t.Errorf("slot %d decoded with number %d", i, p.Number)
		}
	}
}

func TestEncodeAllDumpProgramCount(t *testing.T) {
	for _, n := range []int{0, 19, 21} {
		c := testConfiguration()
		programs := make([]*fourpole.Program, n)
		for i := range programs {
			programs[i] = testProgram(i)
		}
		c.Programs = programs

		msg, err := EncodeAllDump(c, 0x00, Mask7)
		if !errors.Is(err, ErrProgramCount) {
			t.Errorf("%d programs: err = %v, want ErrProgramCount", n, err)
		}
		if msg != nil {
			t.Errorf("%d programs: encode produced %d bytes, want none", n, len(msg))
		}
	}
}

func TestDecodeAllDumpTruncated(t *testing.T) {
	msg, err := EncodeAllDump(testConfiguration(), 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode all dump: %v", err)
	}

	// Chop off the last program block and re-terminate: still framed, but
	// too short to yield 20 programs plus globals.
	short := append([]byte{}, msg[:len(msg)-ProgramBlockLen-2]...)
	short = append(short, msg[len(msg)-2], SysExEnd)

	if _, err := DecodeAllDump(short, Mask7); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestDecodeAllDumpChecksumMismatch(t *testing.T) {
	msg, err := EncodeAllDump(testConfiguration(), 0x00, Complement7)
	if err != nil {
		t.Fatalf("failed to encode all dump: %v", err)
	}
	msg[headerLen+10] ^= 0x01

	_, err = DecodeAllDump(msg, Complement7)
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

func TestDecodeAllDumpWrongKind(t *testing.T) {
	dump, err := EncodeProgramDump(testProgram(0), 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode program dump: %v", err)
	}
	if _, err := DecodeAllDump(dump, Mask7); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestGlobalBlockUnknownEnums(t *testing.T) {
	msg, err := EncodeAllDump(testConfiguration(), 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode all dump: %v", err)
	}

	globalStart := headerLen + fourpole.EditableSlots*ProgramBlockLen
	msg[globalStart+offGlobalControlMode] = 0x66
	msg[globalStart+offGlobalKnobMode] = 0x77
	// Fix the checksum up so only the enum fallback is under test.
	msg[len(msg)-2] = Checksum(msg[checksumPayloadStart:len(msg)-2], Mask7)

	got, err := DecodeAllDump(msg, Mask7)
	if err != nil {
		t.Fatalf("failed to decode all dump: %v", err)
	}
	if got.Globals.ControlMode != fourpole.ControlModeCC {
		t.Errorf("control mode = %v, want default CC", got.Globals.ControlMode)
	}
	if got.Globals.KnobMode != fourpole.KnobModeJump {
		t.Errorf("knob mode = %v, want default jump", got.Globals.KnobMode)
	}
}
