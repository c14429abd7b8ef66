package fourpole

// Byte-backed enumerations shared by the program parameters. Each carries a
// fallback: a raw value outside the known set decodes to the type's default
// so that one unknown byte (e.g. from newer firmware) never rejects a whole
// dump.

type ModSource byte

const (
	ModSourceOff        ModSource = 0
	ModSourceLFO        ModSource = 1
	ModSourceEnvelope1  ModSource = 2
	ModSourceEnvelope2  ModSource = 3
	ModSourceVelocity   ModSource = 4
	ModSourceKeyTrack   ModSource = 5
	ModSourceModWheel   ModSource = 6
	ModSourceAftertouch ModSource = 7
)

// ModSourceFromByte maps a raw wire byte to a ModSource, falling back to
// ModSourceOff for values outside the known set.
func ModSourceFromByte(b byte) ModSource {
	if b > byte(ModSourceAftertouch) {
		return ModSourceOff
	}
	return ModSource(b)
}

type LFOShape byte

const (
	LFOShapeTriangle   LFOShape = 0
	LFOShapeSawtooth   LFOShape = 1
	LFOShapeSquare     LFOShape = 2
	LFOShapeSampleHold LFOShape = 3
)

// LFOShapeFromByte falls back to LFOShapeTriangle for unknown values.
func LFOShapeFromByte(b byte) LFOShape {
	if b > byte(LFOShapeSampleHold) {
		return LFOShapeTriangle
	}
	return LFOShape(b)
}

type TriggerSource byte

const (
	TriggerSourceNoteOn       TriggerSource = 0
	TriggerSourceExternalGate TriggerSource = 1
	TriggerSourceLFO          TriggerSource = 2
)

// TriggerSourceFromByte falls back to TriggerSourceNoteOn for unknown values.
func TriggerSourceFromByte(b byte) TriggerSource {
	if b > byte(TriggerSourceLFO) {
		return TriggerSourceNoteOn
	}
	return TriggerSource(b)
}

type TriggerMode byte

const (
	TriggerModeSingle TriggerMode = 0
	TriggerModeMulti  TriggerMode = 1
	TriggerModeLoop   TriggerMode = 2
)

// TriggerModeFromByte falls back to TriggerModeSingle for unknown values.
func TriggerModeFromByte(b byte) TriggerMode {
	if b > byte(TriggerModeLoop) {
		return TriggerModeSingle
	}
	return TriggerMode(b)
}

type ControlMode byte

const (
	ControlModeOff  ControlMode = 0
	ControlModeCC   ControlMode = 1
	ControlModeNRPN ControlMode = 2
)

// ControlModeFromByte falls back to ControlModeCC for unknown values.
func ControlModeFromByte(b byte) ControlMode {
	if b > byte(ControlModeNRPN) {
		return ControlModeCC
	}
	return ControlMode(b)
}

type KnobMode byte

const (
	KnobModeJump  KnobMode = 0
	KnobModeCatch KnobMode = 1
	KnobModeScale KnobMode = 2
)

// KnobModeFromByte falls back to KnobModeJump for unknown values.
func KnobModeFromByte(b byte) KnobMode {
	if b > byte(KnobModeScale) {
		return KnobModeJump
	}
	return KnobMode(b)
}
