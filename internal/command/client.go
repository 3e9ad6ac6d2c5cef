// internal/command/client.go
package command

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/transport"
)

// terminator ends the instruction line and adds the blank line the
// controller waits for.
const terminator = "\r\n\r\n"

// Client is a fire-and-forget real-time channel client
// (stateless, 1 instruction = 1 connection, no reply is read).
type Client struct {
	endpoint string
	timeout  time.Duration
	log      zerolog.Logger
}

type Config struct {
	Endpoint string
	Timeout  time.Duration // 0 disables deadlines
	Logger   zerolog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("command: endpoint required")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("command: timeout must be >= 0")
	}
	return &Client{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		log:      cfg.Logger.With().Str("endpoint", cfg.Endpoint).Logger(),
	}, nil
}

// Send writes text followed by the terminator, then closes the connection.
func (c *Client) Send(ctx context.Context, text string) error {
	d := net.Dialer{Timeout: c.timeout}

	conn, err := d.DialContext(ctx, "tcp", c.endpoint)
	if err != nil {
		return transport.New(transport.KindConnect, c.endpoint, err)
	}
	defer conn.Close()

	if c.timeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	if err := writeAll(conn, []byte(text+terminator)); err != nil {
		return transport.New(transport.KindSend, c.endpoint, err)
	}

	c.log.Info().Str("instruction", text).Msg("instruction sent")
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
