package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgview/pkg/observability"
)

// LogHooks reports explorer and cache events to a logger. Load results are
// logged at info (failures at error); everything else at debug.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that write to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Register installs h as the process-wide explorer and cache hooks.
func (h *LogHooks) Register() {
	observability.SetExplorerHooks(h)
	observability.SetCacheHooks(h)
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, nodes, links int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("load failed", "source", source, "err", err, "dur", d.Round(time.Millisecond))
		return
	}
	h.Logger.Info("graph loaded", "source", source, "nodes", nodes, "links", links, "dur", d.Round(time.Millisecond))
}

func (h *LogHooks) OnSelect(kind, id string) {
	h.Logger.Debug("select", "kind", kind, "id", id)
}

func (h *LogHooks) OnHighlight(focal string, nodes, links int) {
	h.Logger.Debug("highlight", "focal", focal, "nodes", nodes, "links", links)
}

func (h *LogHooks) OnSearch(term string, found bool) {
	h.Logger.Debug("search", "term", term, "found", found)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.ExplorerHooks = (*LogHooks)(nil)
	_ observability.CacheHooks    = (*LogHooks)(nil)
)
