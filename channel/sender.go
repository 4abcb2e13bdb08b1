// Package channel implements the three roles of the transmission: the
// sender attaches control info, the relay damages the data and the
// receiver checks whether the control info still matches.
package channel

import (
	"context"
	"errors"

	"github.com/harlequix/parcheck/detection"
	log "github.com/harlequix/parcheck/log"
	"github.com/harlequix/parcheck/protocol"
	"github.com/harlequix/parcheck/rtt"
	"github.com/harlequix/parcheck/transport"
)

// ErrNotConnected is returned by Send before Connect succeeded.
var ErrNotConnected = errors.New("sender not connected")

type Sender struct {
	addr   string
	cfg    *transport.Config
	opts   detection.Options
	conn   *transport.Conn
	logger *log.Logger
	seq    uint64
	Debug  *Debugger
	// RTT, when set, receives the acknowledgement latency of every send.
	RTT rtt.Manager
}

func NewSender(addr string, cfg *transport.Config, opts detection.Options) *Sender {
	return &Sender{
		addr:   addr,
		cfg:    cfg,
		opts:   opts,
		logger: log.NewLogger("sender"),
	}
}

func (s *Sender) Connect(ctx context.Context) error {
	conn, err := transport.Dial(ctx, s.addr, s.cfg)
	if err != nil {
		s.logger.WithError(err).Error("connection failed")
		return err
	}
	s.conn = conn
	s.logger.WithField("relay", s.addr).Info("connected to relay")
	return nil
}

// Prepare generates the control info for message and frames the packet.
func (s *Sender) Prepare(method, message string) (*protocol.Packet, error) {
	d, err := detection.Lookup(method, s.opts)
	if err != nil {
		return nil, err
	}
	control, err := d.Generate(message)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("method", d.Method()).WithField("control_info", control).Info("generated control info")
	return protocol.NewPacket(message, string(d.Method()), control), nil
}

// Send prepares and transmits message to the relay.
func (s *Sender) Send(ctx context.Context, method, message string) (*protocol.Packet, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	p, err := s.Prepare(method, message)
	if err != nil {
		return nil, err
	}
	s.seq++
	if s.RTT != nil {
		s.RTT.PlaceMeasurement(rtt.MeasureStart(s.seq))
	}
	err = s.conn.Send(ctx, p)
	if s.RTT != nil {
		result := rtt.ResultOK
		if err != nil {
			result = rtt.ResultFailed
		}
		s.RTT.PlaceMeasurement(rtt.MeasureEnd(s.seq, result))
	}
	if err != nil {
		s.logger.WithError(err).Error("send failed")
		return nil, err
	}
	s.logger.WithField("packet", p.String()).Info("sent packet")
	s.Debug.Emit(Event{Name: EventSent, Packet: p})
	return p, nil
}

func (s *Sender) Close() error {
	if s.conn == nil {
		return nil
	}
	s.logger.Info("connection closed")
	return s.conn.Close()
}
