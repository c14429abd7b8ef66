package fourpole

// Configuration is the full device memory: exactly EditableSlots programs
// plus the global settings. Codecs enforce the count; nothing here silently
// pads or truncates.
type Configuration struct {
	Programs []*Program     `json:"programs"`
	Globals  GlobalSettings `json:"globals"`
}

// NewConfiguration returns a configuration of init programs numbered 0-19
// and factory globals.
func NewConfiguration() *Configuration {
	c := &Configuration{
		Programs: make([]*Program, EditableSlots),
		Globals:  NewGlobalSettings(),
	}
	for i := range c.Programs {
		c.Programs[i] = NewProgram(i)
	}
	return c
}
