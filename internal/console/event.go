package console

import "github.com/allbin/go-scpi"

// EventKind tags a line of console output
type EventKind int

const (
	EventRX EventKind = iota
	EventTX
	EventErr
)

// Event is one line of feedback produced by Execute
type Event struct {
	Kind EventKind
	Text string
}

func rxEvent(resp scpi.Response) Event {
	return Event{Kind: EventRX, Text: resp.String()}
}

func (e Event) String() string {
	switch e.Kind {
	case EventRX:
		return "RX: " + e.Text
	case EventTX:
		return "TX: " + e.Text
	case EventErr:
		return "ERR: " + e.Text
	default:
		return e.Text
	}
}
