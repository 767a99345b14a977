package station

import "strings"

// Priority controls how an event is coloured on the panel.
type Priority uint8

const (
	PriorityInfo Priority = iota
	PriorityWarning
	PriorityCritical
	PriorityDiscovery
)

// Event is a single line of the station log.
type Event struct {
	Text     string
	Priority Priority
	Turn     uint64
}

const eventWidth = 70

// EventLog is a bounded FIFO of events.
type EventLog struct {
	events  []Event
	maxSize int
}

// NewEventLog creates a log that keeps the most recent maxSize lines.
func NewEventLog(maxSize int) *EventLog {
	return &EventLog{events: make([]Event, 0, maxSize), maxSize: maxSize}
}

// Add appends text, wrapped at the panel width, evicting the oldest lines
// when full.
func (l *EventLog) Add(text string, p Priority, turn uint64) {
	for _, line := range wrapText(text, eventWidth) {
		ev := Event{Text: line, Priority: p, Turn: turn}
		if len(l.events) >= l.maxSize {
			copy(l.events, l.events[1:])
			l.events[len(l.events)-1] = ev
		} else {
			l.events = append(l.events, ev)
		}
	}
}

// Recent returns the last n lines (or fewer if the log is shorter).
func (l *EventLog) Recent(n int) []Event {
	n = min(n, len(l.events))
	return l.events[len(l.events)-n:]
}

// Len returns the number of lines held.
func (l *EventLog) Len() int { return len(l.events) }

// wrapText splits text into lines no longer than maxWidth. A single word
// longer than maxWidth gets a line of its own.
func wrapText(s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	return append(lines, line)
}
