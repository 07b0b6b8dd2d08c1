package restaurant

type EventType string

const (
	Created EventType = "created"
	Updated EventType = "updated"
	Deleted EventType = "deleted"
)

// Event describes a successful mutation of the directory.
type Event struct {
	Type       EventType  `json:"type"`
	Restaurant Restaurant `json:"restaurant"`
}

// Listener receives directory events. Listeners run on the mutating
// goroutine after the directory lock has been released.
type Listener func(Event)
