// Package observability lets callers watch transplants and document IO
// without the libraries importing a metrics or tracing backend.
//
// Hooks are process-wide and default to no-ops. Register them once at
// startup:
//
//	observability.SetTransplantHooks(observability.NewLogHooks(logger))
//	observability.SetIOHooks(observability.NewLogHooks(logger))
//
// The engine and the codecs then report through [Transplant] and [IO].
package observability

import (
	"context"
	"sync"
	"time"
)

// TransplantHooks receives events from the transplant engine.
type TransplantHooks interface {
	// OnTransplantStart fires before any staging work for actor begins.
	OnTransplantStart(ctx context.Context, actor string)

	// OnTransplantComplete fires once per call, after commit or failure.
	// exports and imports count the entries appended to the recipient.
	OnTransplantComplete(ctx context.Context, actor string, exports, imports int, duration time.Duration, err error)

	// OnImportQueued fires when an import has no equal in the recipient and
	// is queued for addition. key is the import's content triple.
	OnImportQueued(ctx context.Context, key string)
}

// IOHooks receives events from package document reads and writes.
type IOHooks interface {
	OnRead(ctx context.Context, path string, exports, imports int, duration time.Duration, err error)
	OnWrite(ctx context.Context, path string, size int, duration time.Duration, err error)
}

type NoopTransplantHooks struct{}

func (NoopTransplantHooks) OnTransplantStart(context.Context, string) {}
func (NoopTransplantHooks) OnTransplantComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopTransplantHooks) OnImportQueued(context.Context, string) {}

type NoopIOHooks struct{}

func (NoopIOHooks) OnRead(context.Context, string, int, int, time.Duration, error) {}
func (NoopIOHooks) OnWrite(context.Context, string, int, time.Duration, error)     {}

type registry struct {
	mu         sync.RWMutex
	transplant TransplantHooks
	io         IOHooks
}

var hooks = registry{transplant: NoopTransplantHooks{}, io: NoopIOHooks{}}

// SetTransplantHooks replaces the transplant hooks. nil is ignored.
func SetTransplantHooks(h TransplantHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.transplant = h
	hooks.mu.Unlock()
}

// SetIOHooks replaces the document IO hooks. nil is ignored.
func SetIOHooks(h IOHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.io = h
	hooks.mu.Unlock()
}

func Transplant() TransplantHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.transplant
}

func IO() IOHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.io
}

// Reset restores the no-op hooks. Tests that register hooks should defer it.
func Reset() {
	hooks.mu.Lock()
	hooks.transplant = NoopTransplantHooks{}
	hooks.io = NoopIOHooks{}
	hooks.mu.Unlock()
}
