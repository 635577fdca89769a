package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug log lines.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ ChartHooks  = LogHooks{}
	_ ExportHooks = LogHooks{}
	_ CacheHooks  = LogHooks{}
	_ HTTPHooks   = LogHooks{}
)

// UseLogHooks registers LogHooks backed by l for every event category.
func UseLogHooks(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetChartHooks(h)
	SetExportHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnDrawStart(_ context.Context, orientation string, n int) {
	h.Logger.Debug("draw start", "orientation", orientation, "bars", n)
}

func (h LogHooks) OnDrawComplete(_ context.Context, orientation string, s DrawStats, d time.Duration, err error) {
	h.Logger.Debug("draw done", "orientation", orientation, "enter", s.Enter, "update", s.Update, "exit", s.Exit, "took", d, "err", err)
}

func (h LogHooks) OnExportStart(_ context.Context, formats []string) {
	h.Logger.Debug("export start", "formats", formats)
}

func (h LogHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("export done", "formats", formats, "took", d, "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, kind string) {
	h.Logger.Debug("cache hit", "kind", kind)
}

func (h LogHooks) OnCacheMiss(_ context.Context, kind string) {
	h.Logger.Debug("cache miss", "kind", kind)
}

func (h LogHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.Logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "took", d)
}
