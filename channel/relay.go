package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/harlequix/parcheck/injection"
	log "github.com/harlequix/parcheck/log"
	"github.com/harlequix/parcheck/protocol"
	"github.com/harlequix/parcheck/transport"
)

// Chooser picks the injection applied to a packet.
type Chooser func(p *protocol.Packet) injection.Type

// Fixed always chooses t.
func Fixed(t injection.Type) Chooser {
	return func(*protocol.Packet) injection.Type { return t }
}

// Forwarder delivers a packet to the next hop.
type Forwarder func(ctx context.Context, p *protocol.Packet) error

// ForwardTo opens a fresh connection to addr for every packet.
func ForwardTo(addr string, cfg *transport.Config) Forwarder {
	return func(ctx context.Context, p *protocol.Packet) error {
		return transport.SendOnce(ctx, addr, cfg, p)
	}
}

// Synchronized serialises access to src.
func Synchronized(src injection.Source) injection.Source {
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src injection.Source
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// Relay damages the data of each packet and forwards it. The method and
// the control info are forwarded unchanged.
type Relay struct {
	forward Forwarder
	choose  Chooser
	params  injection.Params
	src     injection.Source
	logger  *log.Logger
	Debug   *Debugger
}

// NewRelay wraps src with Synchronized since packets may be handled
// concurrently.
func NewRelay(forward Forwarder, choose Chooser, params injection.Params, src injection.Source) *Relay {
	return &Relay{
		forward: forward,
		choose:  choose,
		params:  params,
		src:     Synchronized(src),
		logger:  log.NewLogger("relay"),
	}
}

// Corrupt returns a copy of p whose data went through the chosen injection.
// An unknown injection leaves the data untouched.
func (r *Relay) Corrupt(p *protocol.Packet) (*protocol.Packet, injection.Type) {
	t := r.choose(p)
	corrupted, err := injection.Apply(r.src, string(t), p.Data, r.params)
	if err != nil {
		r.logger.WithError(err).Error("corruption failed, forwarding original data")
		corrupted = p.Data
	}
	r.logger.WithField("injection", t).WithField("original", p.Data).WithField("corrupted", corrupted).Info("applied injection")
	out := protocol.NewPacket(corrupted, p.Method, p.ControlInfo)
	r.Debug.Emit(Event{Name: EventCorrupted, Packet: out, Original: p.Data, Injection: t})
	return out, t
}

// Handle is the transport.Handler of the relay.
func (r *Relay) Handle(ctx context.Context, p *protocol.Packet) {
	r.logger.WithField("packet", p.String()).Info("received packet")
	out, _ := r.Corrupt(p)
	if err := r.forward(ctx, out); err != nil {
		if errors.Is(err, transport.ErrRejected) {
			r.logger.WithField("packet", out.String()).WithError(err).Warn("packet lost: receiver could not parse the corrupted packet")
			r.Debug.Emit(Event{Name: EventLost, Packet: out, Original: p.Data})
			return
		}
		r.logger.WithError(err).Error("forward failed")
		return
	}
	r.logger.WithField("packet", out.String()).Info("forwarded packet")
}
