package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPluginHooks{}
	p.OnPluginStart(ctx, "issues")
	p.OnPluginComplete(ctx, "issues", 2, time.Second, nil)
	p.OnAlert(ctx, "issues", "orange")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "github")
	c.OnCacheMiss(ctx, "github")
	c.OnCacheSet(ctx, "github", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/foo/bar/tags")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/foo/bar/tags", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/foo/bar/tags", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Plugin().(NoopPluginHooks); !ok {
		t.Error("Plugin() should return NoopPluginHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPlugin := &testPluginHooks{}
	SetPluginHooks(customPlugin)
	if Plugin() != customPlugin {
		t.Error("SetPluginHooks should set custom hooks")
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
	if _, ok := Plugin().(NoopPluginHooks); !ok {
		t.Error("Reset() should restore NoopPluginHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPluginHooks{}
	SetPluginHooks(custom)
	SetPluginHooks(nil)

	if Plugin() != custom {
		t.Error("SetPluginHooks(nil) should be ignored")
	}
}

type testPluginHooks struct{ NoopPluginHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
