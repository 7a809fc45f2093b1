package session

import (
	"context"
	"crypto/tls"
	"time"

	"go.uber.org/zap"

	"github.com/eznix86/meow/internal/bus"
	"github.com/eznix86/meow/internal/irc"
)

// IRCDialer opens real IRC connections.
type IRCDialer struct {
	RealName  string
	TLSConfig *tls.Config
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Dial implements Dialer.
func (d IRCDialer) Dial(ctx context.Context, p bus.ConnectParams) (Conn, error) {
	cfg := irc.NewConfig(p.Nick)
	cfg.Server = p.Address()
	cfg.SSL = p.UseTLS
	cfg.SSLConfig = d.TLSConfig
	cfg.Logger = d.Logger
	if d.RealName != "" {
		cfg.RealName = d.RealName
	}
	if d.Timeout > 0 {
		cfg.Timeout = d.Timeout
	}

	conn, err := irc.Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
