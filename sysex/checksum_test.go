package sysex

import "testing"

func TestChecksumDeterminism(t *testing.T) {
	payload := []byte{0x00, 0x12, 0x7F, 0x40, 0x33, 0x01}

	for _, mode := range []ChecksumMode{Mask7, Complement7} {
		first := Checksum(payload, mode)
		for i := 0; i < 10; i++ {
			if got := Checksum(payload, mode); got != first {
				t.Fatalf("mode %v: checksum not deterministic: %02X then %02X", mode, first, got)
			}
		}
	}
}

func TestMask7(t *testing.T) {
	tests := []struct {
		payload []byte
		want    byte
	}{
		{nil, 0x00},
		{[]byte{0x01}, 0x01},
		{[]byte{0x7F, 0x01}, 0x00},       // 128 wraps to 0
		{[]byte{0x7F, 0x7F, 0x05}, 0x03}, // 259 & 0x7F
		{[]byte{0x40, 0x40, 0x40}, 0x40}, // 192 & 0x7F
	}
	for _, tt := range tests {
		if got := Checksum(tt.payload, Mask7); got != tt.want {
			t.Errorf("Checksum(% X, Mask7) = %02X, want %02X", tt.payload, got, tt.want)
		}
	}
}

func TestComplement7ZeroSum(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01},
		{0x7F},
		{0x7F, 0x01}, // sum is a multiple of 128
		{0x10, 0x20, 0x30, 0x40},
		{0x7F, 0x7F, 0x7F, 0x7F, 0x7F},
	}
	for _, payload := range payloads {
		ck := Checksum(payload, Complement7)
		if ck > 0x7F {
			t.Errorf("Complement7 checksum %02X of % X exceeds 7 bits", ck, payload)
		}
		var sum uint32
		for _, b := range payload {
			sum += uint32(b)
		}
		if (sum+uint32(ck))&0x7F != 0 {
			t.Errorf("Complement7 zero-sum violated for % X: checksum %02X", payload, ck)
		}
	}
}

func TestComplement7MultipleOf128IsZero(t *testing.T) {
	// The other firmware's 128-(sum%128) formula yields 0x80 here; the
	// canonical formula must yield 0x00.
	if got := Checksum([]byte{0x7F, 0x01}, Complement7); got != 0x00 {
		t.Fatalf("checksum of zero-sum payload = %02X, want 00", got)
	}
}

func TestVerifyTamperDetection(t *testing.T) {
	msg, err := EncodeProgramDump(testProgram(3), 0x00, Mask7)
	if err != nil {
		t.Fatalf("failed to encode program dump: %v", err)
	}
	if !Verify(msg, Mask7) {
		t.Fatal("freshly encoded message does not verify")
	}

	// Flip the low bit of every checksummed payload byte in turn. Payload
	// bytes are 7-bit, so any single-byte change shifts the sum mod 128.
	for i := checksumPayloadStart; i < len(msg)-2; i++ {
		tampered := make([]byte, len(msg))
		copy(tampered, msg)
		tampered[i] ^= 0x01
		if Verify(tampered, Mask7) {
			t.Errorf("tampering byte %d went undetected", i)
		}
	}
}

func TestVerifyStructurallyInvalid(t *testing.T) {
	msg, err := EncodeProgramDump(testProgram(0), 0x00, Complement7)
	if err != nil {
		t.Fatalf("failed to encode program dump: %v", err)
	}

	if Verify(nil, Complement7) {
		t.Error("nil message verified")
	}
	if Verify([]byte{SysExStart, SysExEnd}, Complement7) {
		t.Error("too-short message verified")
	}

	noStart := make([]byte, len(msg))
	copy(noStart, msg)
	noStart[0] = 0x00
	if Verify(noStart, Complement7) {
		t.Error("message without start marker verified")
	}

	noEnd := make([]byte, len(msg))
	copy(noEnd, msg)
	noEnd[len(noEnd)-1] = 0x00
	if Verify(noEnd, Complement7) {
		t.Error("message without end marker verified")
	}

	// The two modes only agree when the payload sum is 0 or 64 mod 128;
	// skip the cross-mode assertion in that case.
	payload := msg[checksumPayloadStart : len(msg)-2]
	if Checksum(payload, Mask7) != Checksum(payload, Complement7) && Verify(msg, Mask7) {
		t.Error("message built under Complement7 verified under Mask7")
	}
}
