package elements

// LogItem is a single entry in an element's processing history.
type LogItem struct {
	Origin  string `json:"origin"`
	Message string `json:"message"`
}

// ProcessingLog is an append-only record of what the pipeline did to an
// element. Entries are ordered and never removed.
type ProcessingLog struct {
	items []LogItem
}

func NewProcessingLog() *ProcessingLog {
	return &ProcessingLog{}
}

// AddItem appends an entry in place.
func (l *ProcessingLog) AddItem(message, origin string) {
	l.items = append(l.items, LogItem{Origin: origin, Message: message})
}

// Copy returns an independent snapshot. Appending to the copy never shows
// up in the original, and vice versa.
func (l *ProcessingLog) Copy() *ProcessingLog {
	items := make([]LogItem, len(l.items))
	copy(items, l.items)
	return &ProcessingLog{items: items}
}

// Items returns the entries in append order. The returned slice is shared;
// callers must not mutate it.
func (l *ProcessingLog) Items() []LogItem {
	return l.items
}

func (l *ProcessingLog) Len() int {
	return len(l.items)
}
