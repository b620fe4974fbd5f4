// Package clock keeps the visible countdown between authoritative
// syncs. It only ever extrapolates; server-pushed times overwrite it
// and nothing here decides the game.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

const tickInterval = 100 * time.Millisecond

// Clock holds both players' remaining seconds. A local ticker
// decrements only the side to move, floored at zero; reaching zero
// stops the local countdown but game over arrives from the server.
type Clock struct {
	mu       sync.Mutex
	white    float64
	black    float64
	turn     gamedto.Color
	lastTick time.Time

	onTick func(white, black float64)

	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New() *Clock {
	return &Clock{
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
}

// OnTick registers the display refresh hook, invoked from the tick
// loop after each local decrement.
func (c *Clock) OnTick(fn func(white, black float64)) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Sync overwrites both clocks with authoritative values and re-anchors
// the extrapolation instant.
func (c *Clock) Sync(white, black float64) {
	c.mu.Lock()
	c.white = white
	c.black = black
	c.lastTick = c.now()
	c.mu.Unlock()
}

// SetTurn tells the clock which side is burning time.
func (c *Clock) SetTurn(turn gamedto.Color) {
	c.mu.Lock()
	c.turn = turn
	c.lastTick = c.now()
	c.mu.Unlock()
}

// Start launches the local tick loop. Call Stop on view teardown or
// the ticker leaks past the session.
func (c *Clock) Start() {
	c.mu.Lock()
	c.lastTick = c.now()
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		t := time.NewTicker(tickInterval)
		defer t.Stop()
		for {
			select {
			case <-c.stopCh:
				return
			case <-t.C:
				c.tick()
			}
		}
	}()
}

func (c *Clock) tick() {
	c.mu.Lock()
	elapsed := c.now().Sub(c.lastTick).Seconds()
	c.lastTick = c.now()
	c.advanceLocked(elapsed)
	hook := c.onTick
	w, b := c.white, c.black
	c.mu.Unlock()
	if hook != nil {
		hook(w, b)
	}
}

// advanceLocked burns elapsed seconds off the side to move. Strictly
// monotonic downward; only Sync can raise a clock.
func (c *Clock) advanceLocked(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	switch c.turn {
	case gamedto.White:
		c.white -= elapsed
		if c.white < 0 {
			c.white = 0
		}
	case gamedto.Black:
		c.black -= elapsed
		if c.black < 0 {
			c.black = 0
		}
	}
}

// Advance is the test seam for the tick arithmetic. It fires the tick
// hook exactly like the ticker path does.
func (c *Clock) Advance(elapsed float64) {
	c.mu.Lock()
	c.advanceLocked(elapsed)
	hook := c.onTick
	w, b := c.white, c.black
	c.mu.Unlock()
	if hook != nil {
		hook(w, b)
	}
}

// Remaining returns both clocks.
func (c *Clock) Remaining() (white, black float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.white, c.black
}

// Stop ends the tick loop. Idempotent.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

// Format renders seconds as MM:SS, truncated to whole seconds and
// clamped at zero.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
