package fourpole

import "math/rand"

// EditableSlots is the number of writable program slots on the device.
// Program numbers at or above this refer to the ROM bank and cannot be
// written back.
const EditableSlots = 20

type Envelope struct {
	Attack  byte `json:"attack"`
	Decay   byte `json:"decay"`
	Sustain byte `json:"sustain"`
	Release byte `json:"release"`
	Amount  byte `json:"amount"`
}

type Filter struct {
	Cutoff             byte      `json:"cutoff"`
	CutoffModSource    ModSource `json:"cutoff_mod_source"`
	CutoffModAmount    byte      `json:"cutoff_mod_amount"`
	Resonance          byte      `json:"resonance"`
	ResonanceModSource ModSource `json:"resonance_mod_source"`
	ResonanceModAmount byte      `json:"resonance_mod_amount"`
}

type Amp struct {
	Volume          byte      `json:"volume"`
	VolumeModSource ModSource `json:"volume_mod_source"`
	VolumeModAmount byte      `json:"volume_mod_amount"`
	Pan             byte      `json:"pan"`
	PanModSource    ModSource `json:"pan_mod_source"`
	PanModAmount    byte      `json:"pan_mod_amount"`
}

type LFO struct {
	Speed     byte      `json:"speed"`
	Shape     LFOShape  `json:"shape"`
	ModSource ModSource `json:"mod_source"`
	ModAmount byte      `json:"mod_amount"`
}

// Program is one patch. It is a plain value: codecs borrow it to produce
// bytes and build fresh ones on decode, it never holds wire-format state.
type Program struct {
	// Number is the slot the program lives in (0-19 editable, >=20 ROM).
	// Name is display-only; the wire format does not carry it.
	Number int    `json:"number"`
	Name   string `json:"name"`

	Envelope1 Envelope `json:"envelope1"`
	Envelope2 Envelope `json:"envelope2"`
	Filter    Filter   `json:"filter"`
	Amp       Amp      `json:"amp"`
	LFO       LFO      `json:"lfo"`

	GateTime      byte          `json:"gate_time"`
	TriggerSource TriggerSource `json:"trigger_source"`
	TriggerMode   TriggerMode   `json:"trigger_mode"`
}

// NewProgram returns a playable init patch for the given slot.
func NewProgram(number int) *Program {
	return &Program{
		Number:    number,
		Name:      "Init",
		Envelope1: Envelope{Attack: 0, Decay: 40, Sustain: 100, Release: 20, Amount: 127},
		Envelope2: Envelope{Attack: 0, Decay: 64, Sustain: 0, Release: 10, Amount: 64},
		Filter:    Filter{Cutoff: 127, Resonance: 0},
		Amp:       Amp{Volume: 100, Pan: 64},
		LFO:       LFO{Speed: 64, Shape: LFOShapeTriangle},
		GateTime:  64,
	}
}

// Editable reports whether the program occupies a writable slot.
func (p *Program) Editable() bool {
	return p.Number >= 0 && p.Number < EditableSlots
}

// Randomize replaces every parameter with a random in-range value, keeping
// slot number and name. Enum fields stay inside their known sets.
func (p *Program) Randomize(rng *rand.Rand) {
	randByte := func() byte {
		return byte(rng.Intn(128)) // constrain to 0-127 MIDI range
	}
	randEnv := func() Envelope {
		return Envelope{
			Attack:  randByte(),
			Decay:   randByte(),
			Sustain: randByte(),
			Release: randByte(),
			Amount:  randByte(),
		}
	}
	randSource := func() ModSource {
		return ModSource(rng.Intn(int(ModSourceAftertouch) + 1))
	}

	p.Envelope1 = randEnv()
	p.Envelope2 = randEnv()
	p.Filter = Filter{
		Cutoff:             randByte(),
		CutoffModSource:    randSource(),
		CutoffModAmount:    randByte(),
		Resonance:          randByte(),
		ResonanceModSource: randSource(),
		ResonanceModAmount: randByte(),
	}
	p.Amp = Amp{
		Volume:          randByte(),
		VolumeModSource: randSource(),
		VolumeModAmount: randByte(),
		Pan:             randByte(),
		PanModSource:    randSource(),
		PanModAmount:    randByte(),
	}
	p.LFO = LFO{
		Speed:     randByte(),
		Shape:     LFOShape(rng.Intn(int(LFOShapeSampleHold) + 1)),
		ModSource: randSource(),
		ModAmount: randByte(),
	}
	p.GateTime = randByte()
	p.TriggerSource = TriggerSource(rng.Intn(int(TriggerSourceLFO) + 1))
	p.TriggerMode = TriggerMode(rng.Intn(int(TriggerModeLoop) + 1))
}
