package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line on Logger. It implements
// both [TransplantHooks] and [IOHooks].
type LogHooks struct {
	Logger *log.Logger
}

func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnTransplantStart(_ context.Context, actor string) {
	h.Logger.Debug("transplant start", "actor", actor)
}

func (h *LogHooks) OnTransplantComplete(_ context.Context, actor string, exports, imports int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("transplant failed", "actor", actor, "took", d, "err", err)
		return
	}
	h.Logger.Debug("transplant done", "actor", actor, "exports", exports, "imports", imports, "took", d)
}

func (h *LogHooks) OnImportQueued(_ context.Context, key string) {
	h.Logger.Debug("import queued", "key", key)
}

func (h *LogHooks) OnRead(_ context.Context, path string, exports, imports int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("read failed", "path", path, "err", err)
		return
	}
	h.Logger.Debug("read document", "path", path, "exports", exports, "imports", imports, "took", d)
}

func (h *LogHooks) OnWrite(_ context.Context, path string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("write failed", "path", path, "err", err)
		return
	}
	h.Logger.Debug("wrote document", "path", path, "bytes", size, "took", d)
}
