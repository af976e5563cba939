// Package events carries domain events from the workflows to the dashboard, the live
// feed and the notifier.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/models"
)

// Kind names a domain event
type Kind string

// Domain events
const (
	ReportSubmitted  Kind = "report.submitted"
	ReportDispatched Kind = "report.dispatched"
	ReportStarted    Kind = "report.in_progress"
	ReportResolved   Kind = "report.resolved"
	RehabCreated     Kind = "rehab.created"
	RehabAdvanced    Kind = "rehab.advanced"
	AidLogged        Kind = "aid.logged"
)

// Event is one state change. Exactly one of the payload fields is set.
type Event struct {
	Kind      Kind              `json:"kind"`
	At        time.Time         `json:"at"`
	Report    *models.Report    `json:"report,omitempty"`
	RehabCase *models.RehabCase `json:"rehab_case,omitempty"`
	AidLog    *models.AidLog    `json:"aid_log,omitempty"`
}

// Publisher accepts domain events
type Publisher interface {
	Publish(Event)
}

// Handler receives published events
type Handler func(Event)

// Bus fans events out to every subscriber synchronously, in subscription order
type Bus struct {
	mu   sync.RWMutex
	subs []Handler
}

// NewBus returns an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every later event
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, h)
}

// Publish delivers e to all subscribers. A panicking subscriber is logged and skipped.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.mu.RLock()
	subs := make([]Handler, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, h := range subs {
		deliver(h, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorw("event subscriber panicked", "kind", e.Kind, "panic", r)
		}
	}()
	h(e)
}

// ReportEvent maps a report status onto the event announcing it
func ReportEvent(status models.DispatchStatus) Kind {
	switch status {
	case models.StatusDispatched:
		return ReportDispatched
	case models.StatusInProgress:
		return ReportStarted
	case models.StatusResolved:
		return ReportResolved
	default:
		return ReportSubmitted
	}
}

// Discard drops every event
type Discard struct{}

// Publish does nothing
func (Discard) Publish(Event) {}
