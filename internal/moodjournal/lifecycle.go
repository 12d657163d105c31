package moodjournal

import (
	"sync"

	"github.com/starford/wunjo/internal/models"
)

// Source is anything that can open a live entry subscription. *Repository
// is the production implementation.
type Source interface {
	Subscribe(onUpdate func([]models.MoodEntry)) func()
}

// Consumer manages the subscription lifecycle for one visible view: at most
// one active subscription, attached on mount and torn down on unmount, with
// no leaked subscriptions across repeated cycles.
type Consumer struct {
	src Source

	mu     sync.Mutex
	gen    uint64
	detach func()
}

// NewConsumer creates a consumer over src.
func NewConsumer(src Source) *Consumer {
	return &Consumer{src: src}
}

// Attach opens a subscription delivering to onUpdate and returns its detach
// func. Any previous attachment is torn down first.
//
// After detach returns, onUpdate is never invoked again: a snapshot already
// in flight when detach is called is silently dropped. Deliveries and
// detach serialize on a per-attachment gate, so this is an ordering
// guarantee, not a best effort. Detach is idempotent. When Attach races
// with itself, exactly one attachment survives; the losers' subscriptions
// are cancelled, not leaked.
func (c *Consumer) Attach(onUpdate func([]models.MoodEntry)) func() {
	c.mu.Lock()
	prev := c.detach
	c.detach = nil
	c.gen++
	gen := c.gen
	c.mu.Unlock()
	if prev != nil {
		prev()
	}

	var (
		gate     sync.Mutex
		detached bool
	)
	cancel := c.src.Subscribe(func(entries []models.MoodEntry) {
		gate.Lock()
		defer gate.Unlock()
		if detached {
			return
		}
		onUpdate(entries)
	})

	var once sync.Once
	detach := func() {
		once.Do(func() {
			gate.Lock()
			detached = true
			gate.Unlock()
			cancel()
			c.mu.Lock()
			// A newer attachment may have replaced this one already.
			if c.gen == gen {
				c.detach = nil
			}
			c.mu.Unlock()
		})
	}

	c.mu.Lock()
	installed := c.gen == gen
	if installed {
		c.detach = detach
	}
	c.mu.Unlock()
	if !installed {
		// A newer attachment raced past this one before its subscription
		// was installed; tear it down so it cannot leak.
		detach()
	}
	return detach
}

// Detach tears down the current attachment, if any.
func (c *Consumer) Detach() {
	c.mu.Lock()
	d := c.detach
	c.mu.Unlock()
	if d != nil {
		d()
	}
}

// Attached reports whether a subscription is currently active.
func (c *Consumer) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detach != nil
}
