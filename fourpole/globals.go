package fourpole

// GlobalSettings holds the device-wide parameters carried in the 6-byte
// global block of an all dump.
type GlobalSettings struct {
	MIDIChannel    byte        `json:"midi_channel"`
	ControlMode    ControlMode `json:"control_mode"`
	DeviceID       byte        `json:"device_id"`
	StartupProgram byte        `json:"startup_program"`
	NoteNumber     byte        `json:"note_number"`
	KnobMode       KnobMode    `json:"knob_mode"`
}

// NewGlobalSettings returns the factory global block.
func NewGlobalSettings() GlobalSettings {
	return GlobalSettings{
		MIDIChannel: 0,
		ControlMode: ControlModeCC,
		NoteNumber:  60,
		KnobMode:    KnobModeJump,
	}
}
