package app

import (
	"sync"
	"time"
)

// countdown calls tick on every interval until tick returns false or cancel is called.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func startCountdown(interval time.Duration, tick func() bool) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go c.run(interval, tick)
	return c
}

func (c *countdown) run(interval time.Duration, tick func() bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			// a cancel racing with the ticker must win
			select {
			case <-c.stop:
				return
			default:
			}
			if !tick() {
				return
			}
		}
	}
}

// cancel never blocks, so it is safe to call from inside tick.
func (c *countdown) cancel() {
	c.once.Do(func() { close(c.stop) })
}
