package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	ch := NoopChartHooks{}
	ch.OnDrawStart(ctx, "horizontal", 3)
	ch.OnDrawComplete(ctx, "horizontal", DrawStats{Enter: 3}, time.Millisecond, nil)

	e := NoopExportHooks{}
	e.OnExportStart(ctx, []string{"svg"})
	e.OnExportComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/charts/{id}/svg")
	h.OnResponse(ctx, "GET", "/charts/{id}/svg", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Chart() should return NoopChartHooks by default")
	}
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customChart := &testChartHooks{}
	SetChartHooks(customChart)
	if Chart() != customChart {
		t.Error("SetChartHooks should set custom hooks")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Reset() should restore NoopChartHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testChartHooks{}
	SetChartHooks(custom)
	SetChartHooks(nil)

	if Chart() != custom {
		t.Error("SetChartHooks(nil) should be ignored")
	}
}

type testChartHooks struct{ NoopChartHooks }
type testExportHooks struct{ NoopExportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestUseLogHooks(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	UseLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	ctx := context.Background()
	Chart().OnDrawComplete(ctx, "vertical", DrawStats{Enter: 2, Exit: 1}, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "png")
	HTTP().OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"draw done", "enter=2", "cache miss", "kind=png", "route=/healthz"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
