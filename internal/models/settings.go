package models

// KitchenSettings is the replicated kitchen-display configuration.
type KitchenSettings struct {
	NewOrderSound string `json:"newOrderSound" mapstructure:"newOrderSound"`
	SoundEnabled  bool   `json:"soundEnabled" mapstructure:"soundEnabled"`
	RepeatAlert   bool   `json:"repeatAlert" mapstructure:"repeatAlert"`
}

// DefaultKitchenSettings is merged under any missing replicated fields.
func DefaultKitchenSettings() KitchenSettings {
	return KitchenSettings{
		NewOrderSound: "chime",
		SoundEnabled:  true,
	}
}

func (s KitchenSettings) FillDefaults() KitchenSettings {
	if s.NewOrderSound == "" {
		def := DefaultKitchenSettings()
		s.NewOrderSound = def.NewOrderSound
		s.SoundEnabled = def.SoundEnabled
	}
	return s
}

// Admin is one replicated credential record. The login check is a flat
// equality match against these fields, with no tokens or hashing.
type Admin struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}
