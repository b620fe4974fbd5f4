package state

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) *SnapshotCache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	c, err := NewSnapshotCache(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewSnapshotCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	v := fullView()
	if err := c.Save(ctx, "g1", v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := c.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.GameID != "g1" || len(got.Board.Pieces) != 3 || len(got.YourHand) != 2 {
		t.Fatalf("loaded view wrong: %+v", got)
	}
}

func TestSnapshotCacheMiss(t *testing.T) {
	c := newTestCache(t)
	got, err := c.Load(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("miss should be (nil, nil), got %+v %v", got, err)
	}
}
