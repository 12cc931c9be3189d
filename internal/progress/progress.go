// Package progress reports the progress of change request resolution.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Reporter receives progress events while change requests are resolved.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Start(total int)
	Resolved(number int)
	Skipped(number int, err error)
	Complete()
}

// Nop discards all events.
type Nop struct{}

func (Nop) Start(int)          {}
func (Nop) Resolved(int)       {}
func (Nop) Skipped(int, error) {}
func (Nop) Complete()          {}

// Writer prints progress lines, rate limited to one update per MinInterval.
type Writer struct {
	mu          sync.Mutex
	w           io.Writer
	minInterval time.Duration
	startTime   time.Time
	lastUpdate  time.Time
	total       int
	resolved    int
	skipped     int
}

// Config configures a Writer.
type Config struct {
	// Writer is where progress is written. Default is os.Stderr.
	Writer io.Writer

	// MinInterval is the minimum time between progress updates.
	// Default is 100ms.
	MinInterval time.Duration
}

// NewWriter creates a Writer reporter.
func NewWriter(cfg Config) *Writer {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = 100 * time.Millisecond
	}
	return &Writer{w: cfg.Writer, minInterval: cfg.MinInterval}
}

// Start begins tracking a resolution run.
func (p *Writer) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.lastUpdate = time.Time{}
	p.total = total
	p.resolved = 0
	p.skipped = 0

	fmt.Fprintf(p.w, "Resolving %d change request(s)...\n", total)
}

// Resolved records a fetched change request.
func (p *Writer) Resolved(number int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resolved++

	if time.Since(p.lastUpdate) < p.minInterval {
		return
	}
	p.lastUpdate = time.Now()

	fmt.Fprintf(p.w, "  [%d/%d] #%d\r", p.resolved+p.skipped, p.total, number)
}

// Skipped records a change request that no longer exists on the forge.
func (p *Writer) Skipped(number int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.skipped++
	fmt.Fprintf(p.w, "\r  Skipped #%d: %v\n", number, err)
}

// Complete prints a summary.
func (p *Writer) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime).Round(time.Millisecond)

	fmt.Fprintf(p.w, "\rResolved %d of %d change request(s)", p.resolved, p.total)
	if p.skipped > 0 {
		fmt.Fprintf(p.w, ", skipped %d", p.skipped)
	}
	fmt.Fprintf(p.w, " in %s\n", elapsed)
}

// Event is a progress update passed to a Callback.
type Event struct {
	Type   EventType `json:"type"`
	Number int       `json:"number,omitempty"`
	Total  int       `json:"total,omitempty"`
	Error  error     `json:"-"`
}

// EventType indicates the type of progress event.
type EventType string

const (
	EventStart    EventType = "start"
	EventResolved EventType = "resolved"
	EventSkipped  EventType = "skipped"
	EventComplete EventType = "complete"
)

// Callback adapts a function to the Reporter interface.
// Calls are serialized.
type Callback struct {
	mu sync.Mutex
	fn func(Event)
}

// NewCallback creates a reporter that calls fn for every event.
func NewCallback(fn func(Event)) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fn(e)
}

func (c *Callback) Start(total int)   { c.emit(Event{Type: EventStart, Total: total}) }
func (c *Callback) Resolved(n int)    { c.emit(Event{Type: EventResolved, Number: n}) }
func (c *Callback) Complete()         { c.emit(Event{Type: EventComplete}) }
func (c *Callback) Skipped(n int, err error) {
	c.emit(Event{Type: EventSkipped, Number: n, Error: err})
}
