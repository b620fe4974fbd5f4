package clock

import (
	"testing"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

func TestAdvanceBurnsOnlySideToMove(t *testing.T) {
	c := New()
	c.Sync(65, 120)
	c.SetTurn(gamedto.White)

	c.Advance(1.0)
	w, b := c.Remaining()
	if Format(w) != "01:04" {
		t.Fatalf("white display: %s (raw %v)", Format(w), w)
	}
	if b != 120 {
		t.Fatalf("black must be untouched, got %v", b)
	}
}

func TestAdvanceFiresTickHook(t *testing.T) {
	c := New()
	c.Sync(65, 120)
	c.SetTurn(gamedto.White)

	var gotW, gotB float64
	fired := 0
	c.OnTick(func(white, black float64) {
		fired++
		gotW, gotB = white, black
	})

	c.Advance(1.0)
	if fired != 1 {
		t.Fatalf("tick hook fired %d times", fired)
	}
	if gotW != 64 || gotB != 120 {
		t.Fatalf("hook values: %v %v", gotW, gotB)
	}
}

func TestAdvanceFloorsAtZero(t *testing.T) {
	c := New()
	c.Sync(0.5, 30)
	c.SetTurn(gamedto.White)
	c.Advance(2.0)
	w, _ := c.Remaining()
	if w != 0 {
		t.Fatalf("white should floor at zero, got %v", w)
	}
	// never increments
	c.Advance(-5)
	if w, _ := c.Remaining(); w != 0 {
		t.Fatalf("negative elapsed must be ignored, got %v", w)
	}
}

func TestSyncOverwritesExtrapolation(t *testing.T) {
	c := New()
	c.Sync(60, 60)
	c.SetTurn(gamedto.Black)
	c.Advance(7.3)
	c.Sync(58, 55.5)
	w, b := c.Remaining()
	if w != 58 || b != 55.5 {
		t.Fatalf("sync must overwrite: %v %v", w, b)
	}
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		0:     "00:00",
		-3:    "00:00",
		64.9:  "01:04",
		65:    "01:05",
		599.9: "09:59",
		900:   "15:00",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := New()
	c.Start()
	c.Stop()
	c.Stop()
}
