package session

import "sync"

// Alert is one logged operation failure. Alerts persist until
// explicitly dismissed or the owning profile goes away.
type Alert struct {
	Heading string
	Message string
}

// AlertLog is a per-profile list of operation failures, newest first,
// with index-based navigation for frontends that page through them.
type AlertLog struct {
	mu      sync.Mutex
	entries []Alert
	idx     int
}

// NewAlertLog creates an empty alert log.
func NewAlertLog() *AlertLog {
	return &AlertLog{}
}

// Push prepends alerts newest-first and resets navigation to the
// newest entry.
func (l *AlertLog) Push(alerts ...Alert) {
	if len(alerts) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(append([]Alert{}, alerts...), l.entries...)
	l.idx = 0
}

// DismissAll clears the log.
func (l *AlertLog) DismissAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.idx = 0
}

// Len returns the number of alerts.
func (l *AlertLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// All returns a copy of the alerts, newest first.
func (l *AlertLog) All() []Alert {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Alert, len(l.entries))
	copy(out, l.entries)
	return out
}

// Current returns the alert under the navigation cursor.
func (l *AlertLog) Current() (Alert, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Alert{}, false
	}
	return l.entries[l.idx], true
}

// Next moves the cursor toward older alerts, clamped to the last one.
func (l *AlertLog) Next() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idx = clamp(l.idx+1, len(l.entries))
}

// Prev moves the cursor toward newer alerts, clamped to the first one.
func (l *AlertLog) Prev() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idx = clamp(l.idx-1, len(l.entries))
}

// Index returns the current cursor position.
func (l *AlertLog) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idx
}

func clamp(i, length int) int {
	if length == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > length-1 {
		return length - 1
	}
	return i
}
