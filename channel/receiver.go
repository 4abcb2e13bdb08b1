package channel

import (
	"context"

	"github.com/harlequix/parcheck/detection"
	log "github.com/harlequix/parcheck/log"
	"github.com/harlequix/parcheck/protocol"
)

// Report is the verdict of the receiver on one packet.
type Report struct {
	Packet   *protocol.Packet `json:"packet"`
	Computed string           `json:"computed"`
	Intact   bool             `json:"intact"`
	Err      error            `json:"-"`
}

type Receiver struct {
	opts    detection.Options
	logger  *log.Logger
	Reports chan *Report
	Debug   *Debugger
}

// NewReceiver delivers every report on Reports when buffer > 0.
func NewReceiver(opts detection.Options, buffer int) *Receiver {
	r := &Receiver{
		opts:   opts,
		logger: log.NewLogger("receiver"),
	}
	if buffer > 0 {
		r.Reports = make(chan *Report, buffer)
	}
	return r
}

// Check regenerates the control info of p.Data and compares it with the
// transmitted one.
func (r *Receiver) Check(p *protocol.Packet) *Report {
	report := &Report{Packet: p}
	d, err := detection.Lookup(p.Method, r.opts)
	if err != nil {
		report.Err = err
		return report
	}
	report.Computed, report.Intact, report.Err = detection.Check(d, p.Data, p.ControlInfo)
	return report
}

// Handle is the transport.Handler of the receiver.
func (r *Receiver) Handle(ctx context.Context, p *protocol.Packet) {
	report := r.Check(p)
	entry := r.logger.WithField("packet", p.String()).WithField("computed", report.Computed)
	switch {
	case report.Err != nil:
		entry.WithError(report.Err).Error("cannot check packet")
	case report.Intact:
		entry.Info("no error detected")
	default:
		entry.Warn("error detected")
	}
	r.Debug.Emit(Event{Name: EventChecked, Packet: p, Report: report})
	if r.Reports != nil {
		select {
		case r.Reports <- report:
		case <-ctx.Done():
		}
	}
}
