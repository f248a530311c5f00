package compositor

import (
	"sync/atomic"
	"time"

	"github.com/wlbind/waycompd/internal/observe"
	"github.com/wlbind/waycompd/internal/protoerr"
)

// Observer is the pluggable metrics-collection seam, mirroring the shape
// used elsewhere in this codebase's ancestry: a server can be handed a
// custom Observer instead of (or in addition to) the built-in Metrics.
// Defined in internal/observe to let internal/client depend on it without
// importing this package.
type Observer = observe.Observer

// NoOpObserver discards every observation.
type NoOpObserver = observe.NoOp

// Metrics tracks connection and protocol-error counters for a running
// server. All fields are safe for concurrent use across client goroutines.
type Metrics struct {
	ConnectionsAccepted atomic.Uint64
	ConnectionsActive    atomic.Int64
	ConnectionsClosed    atomic.Uint64

	RequestsDispatched atomic.Uint64
	EventsSent         atomic.Uint64

	ErrorsByCode struct {
		MalformedFrame    atomic.Uint64
		InvalidObject     atomic.Uint64
		ProtocolViolation atomic.Uint64
		MappingError      atomic.Uint64
		ResizeFailed      atomic.Uint64
	}

	StartTime atomic.Int64
}

// NewMetrics creates a fresh metrics instance stamped with the current time.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordConnection records an accepted connection.
func (m *Metrics) RecordConnection() {
	m.ConnectionsAccepted.Add(1)
	m.ConnectionsActive.Add(1)
}

// RecordDisconnection records a connection's teardown, successful or not.
func (m *Metrics) RecordDisconnection() {
	m.ConnectionsActive.Add(-1)
	m.ConnectionsClosed.Add(1)
}

// RecordRequest records one dispatched request producing the given number of
// outgoing events.
func (m *Metrics) RecordRequest(eventsProduced int) {
	m.RequestsDispatched.Add(1)
	m.EventsSent.Add(uint64(eventsProduced))
}

// RecordError records a fatal protocol error by its taxonomy code.
func (m *Metrics) RecordError(code protoerr.Code) {
	switch code {
	case protoerr.CodeMalformedFrame:
		m.ErrorsByCode.MalformedFrame.Add(1)
	case protoerr.CodeInvalidObject:
		m.ErrorsByCode.InvalidObject.Add(1)
	case protoerr.CodeProtocolViolation:
		m.ErrorsByCode.ProtocolViolation.Add(1)
	case protoerr.CodeMappingError:
		m.ErrorsByCode.MappingError.Add(1)
	case protoerr.CodeResizeFailed:
		m.ErrorsByCode.ResizeFailed.Add(1)
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics, safe to read without
// further synchronization.
type MetricsSnapshot struct {
	ConnectionsAccepted uint64
	ConnectionsActive   int64
	ConnectionsClosed   uint64
	RequestsDispatched  uint64
	EventsSent          uint64
	ErrorsByCode        map[string]uint64
	UptimeNs            uint64
}

// Snapshot captures the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ConnectionsAccepted: m.ConnectionsAccepted.Load(),
		ConnectionsActive:   m.ConnectionsActive.Load(),
		ConnectionsClosed:   m.ConnectionsClosed.Load(),
		RequestsDispatched:  m.RequestsDispatched.Load(),
		EventsSent:          m.EventsSent.Load(),
		ErrorsByCode: map[string]uint64{
			string(protoerr.CodeMalformedFrame):    m.ErrorsByCode.MalformedFrame.Load(),
			string(protoerr.CodeInvalidObject):     m.ErrorsByCode.InvalidObject.Load(),
			string(protoerr.CodeProtocolViolation): m.ErrorsByCode.ProtocolViolation.Load(),
			string(protoerr.CodeMappingError):      m.ErrorsByCode.MappingError.Load(),
			string(protoerr.CodeResizeFailed):      m.ErrorsByCode.ResizeFailed.Load(),
		},
		UptimeNs: uint64(time.Now().UnixNano() - m.StartTime.Load()),
	}
}

// MetricsObserver implements Observer on top of a *Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver returns an Observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveConnection()    { o.metrics.RecordConnection() }
func (o *MetricsObserver) ObserveDisconnection() { o.metrics.RecordDisconnection() }
func (o *MetricsObserver) ObserveRequest(n int)  { o.metrics.RecordRequest(n) }
func (o *MetricsObserver) ObserveError(code protoerr.Code) { o.metrics.RecordError(code) }

var (
	_ Observer = (*MetricsObserver)(nil)
	_ Observer = (*NoOpObserver)(nil)
)
