// Package observe defines the metrics-observation seam shared between the
// connection supervisor, the per-client task, and the root package's
// Metrics implementation, kept separate to avoid an import cycle between
// internal/client and the root package.
package observe

import "github.com/wlbind/waycompd/internal/protoerr"

// Observer receives connection and protocol counters as they happen.
type Observer interface {
	ObserveConnection()
	ObserveDisconnection()
	ObserveRequest(eventsProduced int)
	ObserveError(code protoerr.Code)
}

// NoOp discards every observation.
type NoOp struct{}

func (NoOp) ObserveConnection()         {}
func (NoOp) ObserveDisconnection()      {}
func (NoOp) ObserveRequest(int)         {}
func (NoOp) ObserveError(protoerr.Code) {}

var _ Observer = NoOp{}
