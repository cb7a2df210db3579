package driver

// Stage identifies a phase of the per-file pipeline, for progress reporting.
type Stage uint8

const (
	StageQueue Stage = iota
	StageScan
	StageAnalyze
)

// Status is the reported state of a file within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress notification. File is empty for stage-wide events.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// EventSink receives progress events; nil sinks are allowed everywhere.
type EventSink chan<- Event

func (s EventSink) send(ev Event) {
	if s != nil {
		s <- ev
	}
}
