package rtt

import (
	"time"
)

type Manager interface {
	PlaceMeasurement(*RTT)
	// GetMeasurement returns the smoothed RTT of acknowledged packets.
	GetMeasurement() time.Duration
	// GetFailures returns the number of failed sends seen so far.
	GetFailures() int
}
