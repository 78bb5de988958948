package core

// Telemetry is the sink for diagnostic events and exceptions. Full error
// detail (including skill-reported failure codes) goes here and never into
// user-visible replies.
type Telemetry interface {
	TrackEvent(name string, props map[string]string)
	TrackException(err error, props map[string]string)
}

// NoOpTelemetry discards all telemetry. Useful for tests or when no sink is
// configured.
type NoOpTelemetry struct{}

// TrackEvent discards the event.
func (NoOpTelemetry) TrackEvent(string, map[string]string) {}

// TrackException discards the exception.
func (NoOpTelemetry) TrackException(error, map[string]string) {}
