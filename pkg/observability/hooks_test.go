package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnComputeStart(ctx, "heating", "us")
	p.OnComputeComplete(ctx, "heating", "us", 51, time.Second, nil)
	p.OnGeometryStart(ctx, "dual")
	p.OnGeometryComplete(ctx, "dual", time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "compute")
	c.OnCacheMiss(ctx, "geometry")
	c.OnCacheSet(ctx, "artifact", 1024)
}

type countingCacheHooks struct {
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	counting := &countingCacheHooks{}
	SetCacheHooks(counting)

	Cache().OnCacheHit(context.Background(), "compute")
	Cache().OnCacheMiss(context.Background(), "compute")
	Cache().OnCacheSet(context.Background(), "artifact", 10)

	if counting.hits != 1 || counting.misses != 1 || counting.sets != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", counting.hits, counting.misses, counting.sets)
	}

	// nil registrations are ignored
	SetCacheHooks(nil)
	Cache().OnCacheHit(context.Background(), "compute")
	if counting.hits != 2 {
		t.Errorf("hits = %d, want 2", counting.hits)
	}

	Reset()
	Cache().OnCacheHit(context.Background(), "compute")
	if counting.hits != 2 {
		t.Error("Reset did not restore no-op hooks")
	}
}
