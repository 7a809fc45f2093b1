package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eznix86/meow/internal/bus"
)

const (
	reconnectStep     = 5 * time.Second
	maxReconnectDelay = 60 * time.Second
)

// ReconnectDelay is the wait before the given 1-based reconnect attempt:
// min(5s × attempt, 60s).
func ReconnectDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt >= int(maxReconnectDelay/reconnectStep) {
		return maxReconnectDelay
	}
	return time.Duration(attempt) * reconnectStep
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) disconnected(ctx context.Context, d bus.Disconnected) {
	if d.ConnID != "" && (c.session.conn == nil || c.session.conn.ID() != d.ConnID) {
		c.log.Debug("Ignoring disconnect from retired connection", zap.String("conn_id", d.ConnID))
		return
	}

	if h := c.session.conn; h != nil {
		_ = h.close()
		c.session.conn = nil
	}

	p, ok := c.session.LastParams()
	if !ok {
		c.emit("Cannot reconnect: no previous connection configuration found.")
		return
	}

	c.emit(fmt.Sprintf("*** Disconnected from %s. Attempting to reconnect...", p))
	c.reconnect(ctx, p)
}

// reconnect blocks the command loop until a connection is restored, the
// attempt cap is reached, or ctx ends. Commands that arrive meanwhile stay
// queued.
func (c *Controller) reconnect(ctx context.Context, p bus.ConnectParams) {
	for attempt := 1; ; attempt++ {
		if c.maxAttempts > 0 && attempt > c.maxAttempts {
			c.log.Warn("Giving up reconnecting", zap.Int("attempts", c.maxAttempts))
			c.emit(fmt.Sprintf("Giving up after %d reconnection attempts.", c.maxAttempts))
			return
		}

		delay := ReconnectDelay(attempt)
		c.log.Info("Waiting to reconnect", zap.Int("attempt", attempt), zap.Duration("delay", delay))
		if err := c.sleep(ctx, delay); err != nil {
			return
		}

		c.emit(fmt.Sprintf("Attempting reconnection #%d...", attempt))
		h, err := c.open(ctx, p)
		if err != nil {
			c.emit(fmt.Sprintf("Reconnection attempt #%d failed: %v", attempt, err))
			continue
		}

		c.spawnListener(h)
		c.session.conn = h
		c.emit(fmt.Sprintf("Reconnected to %s as %s", p, p.Nick))

		if channel, ok := c.session.CurrentChannel(); ok {
			c.dispatchJoin(h, channel)
		}
		return
	}
}
