package session

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/eznix86/meow/internal/bus"
	"github.com/eznix86/meow/internal/irc"
)

// listen relays inbound events of one connection until its stream ends, then
// raises exactly one Disconnected. It never reconnects on its own.
func (c *Controller) listen(h *Handle) {
	defer c.tasks.Done()
	log := c.log.With(zap.String("conn_id", h.ID()))

	for {
		ev, err := h.conn.NextEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.emit("*** IRC stream closed.")
			} else {
				c.emit(fmt.Sprintf("Error receiving message: %v", err))
			}
			log.Info("Listener stopped", zap.Error(err))
			c.signal(bus.Disconnected{ConnID: h.ID()})
			return
		}

		if ev.Cmd == irc.CmdPing {
			token := ev.Trailing()
			if err := h.Do(func(conn Conn) error { return conn.Pong(token) }); err != nil {
				log.Warn("Failed to send PONG", zap.Error(err))
			}
		}

		c.emit(Describe(ev))
	}
}
