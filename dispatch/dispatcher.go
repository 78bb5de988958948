// Package dispatch decides whether a recognized user turn is handled locally
// or forwarded to a remote skill, and which skill action to invoke.
package dispatch

import (
	"github.com/hupe1980/skillhost/core"
	"github.com/hupe1980/skillhost/manifest"
)

// ConfidenceThreshold is the fixed cut-off at or below which a recognizer
// result is treated as "did not understand" and routed to local fallback.
// It is a design constant, deliberately not configurable per skill.
const ConfidenceThreshold = 0.5

// Kind is the routing outcome for one turn.
type Kind int

const (
	// Local routes the turn to the host's own fallback handling.
	Local Kind = iota
	// Forward routes the turn to a remote skill action.
	Forward
)

// String returns the routing outcome name.
func (k Kind) String() string {
	if k == Forward {
		return "forward"
	}
	return "local"
}

// Decision is the result of routing one dispatch result. SkillID and
// ActionID are set only when Kind is Forward.
type Decision struct {
	Kind     Kind
	SkillID  string
	ActionID string
}

// Dispatcher routes scored intents against a skill registry. It holds no
// mutable state and is safe for concurrent use.
type Dispatcher struct {
	registry *manifest.Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *manifest.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Decide routes one recognizer result. Low confidence is not an error, it is
// an answer: the host falls back to local handling. Otherwise the intent is
// resolved through the registry; unknown intents also fall back locally.
func (d *Dispatcher) Decide(result core.DispatchResult) Decision {
	if result.Confidence <= ConfidenceThreshold {
		return Decision{Kind: Local}
	}

	skillID, actionID, ok := d.registry.Lookup(result.Intent)
	if !ok {
		return Decision{Kind: Local}
	}

	return Decision{Kind: Forward, SkillID: skillID, ActionID: actionID}
}
