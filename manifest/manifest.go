// Package manifest defines the declarative description of a remote skill
// (identity, endpoint, triggering intents) and the registry the dispatcher
// resolves intents against. Manifests are immutable once loaded and owned
// exclusively by the registry.
package manifest

// Slot names a parameter an action can be pre-filled with when the host
// already holds the value.
type Slot struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Action is one operation a skill exposes, reachable by any of its trigger
// intents.
type Action struct {
	ID             string   `json:"id" yaml:"id"`
	TriggerIntents []string `json:"trigger_intents,omitempty" yaml:"trigger_intents,omitempty"`
	Slots          []Slot   `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// Manifest describes one independently hosted skill. A manifest without
// actions is valid: the skill is unreachable by intent dispatch but can
// still be invoked explicitly by ID.
type Manifest struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Endpoint string   `json:"endpoint" yaml:"endpoint"`
	Actions  []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// ActionByID returns the action with the given ID, if declared.
func (m *Manifest) ActionByID(id string) (Action, bool) {
	for _, a := range m.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}
