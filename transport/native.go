// Package transport carries packets between the sender, the relay and the
// receiver over QUIC. Each packet travels on its own stream: the client
// writes one packet line and closes its side, the server answers with an
// acknowledgement once the packet was handled.
package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	quic "github.com/quic-go/quic-go"

	log "github.com/harlequix/parcheck/log"
	"github.com/harlequix/parcheck/protocol"
)

const (
	Ack  = "ACK"
	Nack = "NACK"
	// MaxPacketSize bounds a single packet line.
	MaxPacketSize = 64 * 1024
)

// ErrRejected is returned by Send when the peer could not parse the packet.
var ErrRejected = errors.New("packet rejected by peer")

var logger = log.NewLogger("transport")

type Config struct {
	Protocols        []string
	HandshakeTimeout time.Duration
	IdleTimeout      time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Protocols:        []string{"parcheck"},
		HandshakeTimeout: 2 * time.Second,
		IdleTimeout:      300 * time.Second,
	}
}

func (c *Config) quicConfig() *quic.Config {
	return &quic.Config{
		HandshakeIdleTimeout: c.HandshakeTimeout,
		MaxIdleTimeout:       c.IdleTimeout,
		KeepAlivePeriod:      c.IdleTimeout / 2,
	}
}

// Conn is a client connection to a relay or a receiver.
type Conn struct {
	addr       string
	openStream func(ctx context.Context) (io.ReadWriteCloser, error)
	close      func() error
}

// Dial connects to addr. The server certificate is not verified.
func Dial(ctx context.Context, addr string, cfg *Config) (*Conn, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tlsConf := &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         cfg.Protocols,
	}
	session, err := quic.DialAddr(ctx, addr, tlsConf, cfg.quicConfig())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	logger.WithField("addr", addr).Debug("connected")
	return &Conn{
		addr: addr,
		openStream: func(ctx context.Context) (io.ReadWriteCloser, error) {
			return session.OpenStreamSync(ctx)
		},
		close: func() error {
			return session.CloseWithError(0, "done")
		},
	}, nil
}

// Send transmits p and waits for the acknowledgement of the peer.
func (c *Conn) Send(ctx context.Context, p *protocol.Packet) error {
	stream, err := c.openStream(ctx)
	if err != nil {
		return fmt.Errorf("open stream to %s: %w", c.addr, err)
	}
	if _, err := stream.Write(p.Bytes()); err != nil {
		return fmt.Errorf("write to %s: %w", c.addr, err)
	}
	if err := stream.Close(); err != nil {
		return err
	}
	reply, err := io.ReadAll(io.LimitReader(stream, MaxPacketSize))
	if err != nil {
		return fmt.Errorf("read reply from %s: %w", c.addr, err)
	}
	answer := strings.TrimSpace(string(reply))
	if answer != Ack {
		return fmt.Errorf("%w: %s", ErrRejected, answer)
	}
	return nil
}

func (c *Conn) Addr() string {
	return c.addr
}

func (c *Conn) Close() error {
	return c.close()
}

// SendOnce dials addr, sends p and closes the connection.
func SendOnce(ctx context.Context, addr string, cfg *Config, p *protocol.Packet) error {
	conn, err := Dial(ctx, addr, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Send(ctx, p)
}

// readPacket reads one packet line from r.
func readPacket(r io.Reader) (*protocol.Packet, error) {
	reader := bufio.NewReaderSize(io.LimitReader(r, MaxPacketSize), 4096)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return protocol.ParsePacket(line)
}
