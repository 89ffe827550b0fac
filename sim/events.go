package sim

// EventSink receives side-channel notifications from a running episode.
// Implementations live outside the engine (a mission logger, a telemetry
// writer) and are registered through Engine.SetEventSink; the engine never
// instantiates one itself. Callbacks run synchronously on the stepping
// goroutine and must not call back into the engine.
type EventSink interface {
	// OnMoistureSample fires when an agent crossing a cell takes a fuel
	// moisture reading there.
	OnMoistureSample(pos CellPosition, value float64)

	// OnEpisodeEnd fires once per episode, after the terminal step.
	OnEpisodeEnd(result EpisodeResult)
}

// EpisodeResult summarizes a finished episode for event sinks.
type EpisodeResult struct {
	Steps          int
	TreesRemaining int
	ActiveFires    int
	Terminated     bool
	Truncated      bool
	Succeeded      bool
}
