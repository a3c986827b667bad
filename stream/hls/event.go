package hls

// EventKind names what a client Event reports.
type EventKind int

const (
	// ManifestParsed carries the discovered Levels. Emitted once.
	ManifestParsed EventKind = iota
	// LevelLoaded carries the media playlist Duration and whether it is Live.
	LevelLoaded
	// LevelSwitched carries the Level that the next fragments come from.
	LevelSwitched
	// FragLoaded carries the Start and Duration of a fragment written to the engine.
	FragLoaded
	// Attached means a new engine stream starts at timeline position Start.
	// Target is the position that was asked for.
	Attached
	// BufferEOS means every fragment of a finished playlist was written.
	BufferEOS
	// ErrorEvent carries Err. The loader has stopped.
	ErrorEvent
)

type Event struct {
	Kind     EventKind
	Levels   []Level
	Level    int
	Start    float64
	Duration float64
	Target   float64
	Live     bool
	Err      *Error
}
