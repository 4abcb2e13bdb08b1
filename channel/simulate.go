package channel

import (
	"context"

	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/injection"
	"github.com/harlequix/parcheck/protocol"
)

// Trace records one message going through sender, relay and receiver.
type Trace struct {
	Sent      *protocol.Packet `json:"sent"`
	Injection injection.Type   `json:"injection"`
	Forwarded *protocol.Packet `json:"forwarded"`
	Report    *Report          `json:"report"`
}

// Simulate runs the three roles in memory, without a transport.
func Simulate(method, injectionType, message string, opts detection.Options, params injection.Params, src injection.Source) (*Trace, error) {
	t, err := injection.ParseType(injectionType)
	if err != nil {
		return nil, err
	}
	sender := NewSender("", nil, opts)
	sent, err := sender.Prepare(method, message)
	if err != nil {
		return nil, err
	}
	receiver := NewReceiver(opts, 1)
	relay := NewRelay(func(ctx context.Context, p *protocol.Packet) error {
		receiver.Handle(ctx, p)
		return nil
	}, Fixed(t), params, src)

	trace := &Trace{Sent: sent, Injection: t}
	relay.Handle(context.Background(), sent)
	trace.Report = <-receiver.Reports
	trace.Forwarded = trace.Report.Packet
	return trace, nil
}
