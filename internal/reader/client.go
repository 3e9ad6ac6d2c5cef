// internal/reader/client.go
package reader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"

	"github.com/tamzrod/armctl/internal/frame"
	"github.com/tamzrod/armctl/internal/transport"
)

// Client reads arm state over Modbus TCP.
// Stateless: one request = one connection, closed on every exit path.
type Client struct {
	endpoint string
	timeout  time.Duration
	codec    *frame.Codec
	log      zerolog.Logger
}

// Config is minimal transport config.
// A zero Timeout disables socket deadlines.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Codec    *frame.Codec
	Logger   zerolog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("reader: endpoint required")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("reader: timeout must be >= 0")
	}
	if cfg.Codec == nil {
		cfg.Codec = frame.NewCodec(frame.DefaultLayout())
	}
	return &Client{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		codec:    cfg.Codec,
		log:      cfg.Logger.With().Str("endpoint", cfg.Endpoint).Logger(),
	}, nil
}

// Pose reads [x, y, z, rx, ry, rz].
func (c *Client) Pose(ctx context.Context) (frame.Values, error) {
	return c.Read(ctx, frame.ModePose)
}

// Joints reads [base, shoulder, elbow, wrist1, wrist2, wrist3].
func (c *Client) Joints(ctx context.Context) (frame.Values, error) {
	return c.Read(ctx, frame.ModeJoint)
}

// Read performs one complete request/response cycle for mode.
func (c *Client) Read(ctx context.Context, mode frame.Mode) (frame.Values, error) {
	req, err := c.codec.Request(mode)
	if err != nil {
		return frame.Values{}, fmt.Errorf("reader: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return frame.Values{}, err
	}

	h := modbus.NewTCPClientHandler(c.endpoint)
	h.Timeout = c.effectiveTimeout(ctx)
	h.IdleTimeout = 0
	if c.log.GetLevel() <= zerolog.DebugLevel {
		h.Logger = log.New(debugWriter{c.log}, "", 0)
	}

	if err := h.Connect(); err != nil {
		return frame.Values{}, transport.New(transport.KindConnect, c.endpoint, err)
	}
	defer h.Close()

	// The handler reads exactly the MBAP length field's worth of PDU, so a
	// header that under-reports the payload yields a short buffer here.
	raw, err := h.Send(req.Bytes())
	if err != nil {
		return frame.Values{}, transport.New(classify(err), c.endpoint, err)
	}

	v, err := c.codec.Decode(raw, mode)
	if err != nil {
		return frame.Values{}, transport.New(transport.KindInvalidData, c.endpoint, err)
	}

	return v, nil
}

// effectiveTimeout shortens the configured timeout to the context deadline.
func (c *Client) effectiveTimeout(ctx context.Context) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return c.timeout
	}
	left := time.Until(dl)
	if left <= 0 {
		left = time.Millisecond
	}
	if c.timeout == 0 || left < c.timeout {
		return left
	}
	return c.timeout
}

// classify splits a round-trip failure into write vs read side.
// The handler writes the whole frame before reading, so only a failed
// write op is a send error; everything after it is a receive error.
func classify(err error) transport.Kind {
	var op *net.OpError
	if errors.As(err, &op) && op.Op == "write" {
		return transport.KindSend
	}
	return transport.KindRecv
}

// debugWriter routes the handler's frame dumps into debug events.
type debugWriter struct {
	l zerolog.Logger
}

func (w debugWriter) Write(p []byte) (int, error) {
	w.l.Debug().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
