// Package rtt tracks how long the peer takes to acknowledge a packet.
package rtt

import (
	"time"
)

// RTT is one half or both halves of a measurement. Start and end are
// placed separately and joined by sequence number.
type RTT struct {
	Start  time.Time
	End    time.Time
	Result int
	Seq    uint64
}

const (
	ResultPending = -1
	ResultOK      = 0
	ResultFailed  = 1
)

func MeasureStart(seq uint64) *RTT {
	return &RTT{
		Start:  time.Now(),
		Seq:    seq,
		Result: ResultPending,
	}
}

func MeasureEnd(seq uint64, result int) *RTT {
	return &RTT{
		End:    time.Now(),
		Seq:    seq,
		Result: result,
	}
}

func (r *RTT) Update(newRTT *RTT) {
	if r.Start.IsZero() {
		r.Start = newRTT.Start
	}
	if r.End.IsZero() {
		r.End = newRTT.End
	}
	if r.Result == ResultPending {
		r.Result = newRTT.Result
	}
}

func (r *RTT) Complete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}
