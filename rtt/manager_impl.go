package rtt

import (
	"context"
	"time"

	log "github.com/harlequix/parcheck/log"
)

const alpha = 0.1

type RTTManager struct {
	ctx              context.Context
	measurementsSucc int64
	failures         int
	signalChan       chan bool
	rttChan          chan int64
	failChan         chan int
	measurementChan  chan *RTT
	measMap          map[uint64]*RTT
	logger           *log.Logger
}

// NewRTTManager starts the manager loop; it stops when ctx is done.
func NewRTTManager(ctx context.Context) *RTTManager {
	manager := &RTTManager{
		ctx:             ctx,
		signalChan:      make(chan bool),
		rttChan:         make(chan int64, 1),
		failChan:        make(chan int, 1),
		measurementChan: make(chan *RTT),
		measMap:         make(map[uint64]*RTT),
		logger:          log.NewLogger("rtt"),
	}
	go manager.Start()
	return manager
}

func movingAverage(old int64, new int64) int64 {
	var updated float64
	if old == 0 {
		updated = float64(new)
	} else {
		updated = (1.0-alpha)*float64(old) + alpha*float64(new)
	}
	return int64(updated)
}

func (m *RTTManager) average(rtt *RTT) {
	if rtt.Result != ResultOK {
		m.failures++
		return
	}
	dur := rtt.End.Sub(rtt.Start).Nanoseconds()
	saved := m.measurementsSucc
	m.measurementsSucc = movingAverage(m.measurementsSucc, dur)
	m.logger.WithField("old", time.Duration(saved)).WithField("new", time.Duration(m.measurementsSucc)).WithField("update", time.Duration(dur)).Trace("update RTT")
}

func (m *RTTManager) Start() {
	for {
		select {
		case <-m.ctx.Done():
			return
		case measurement := <-m.measurementChan:
			point, ok := m.measMap[measurement.Seq]
			if !ok {
				m.measMap[measurement.Seq] = measurement
				continue
			}
			point.Update(measurement)
			if point.Complete() {
				m.average(point)
				delete(m.measMap, measurement.Seq)
			}
		case failures := <-m.signalChan:
			if failures {
				m.failChan <- m.failures
			} else {
				m.rttChan <- m.measurementsSucc
			}
		}
	}
}

func (m *RTTManager) GetMeasurement() time.Duration {
	select {
	case m.signalChan <- false:
		return time.Duration(<-m.rttChan)
	case <-m.ctx.Done():
		return 0
	}
}

func (m *RTTManager) GetFailures() int {
	select {
	case m.signalChan <- true:
		return <-m.failChan
	case <-m.ctx.Done():
		return 0
	}
}

func (m *RTTManager) PlaceMeasurement(point *RTT) {
	select {
	case m.measurementChan <- point:
	case <-m.ctx.Done():
	}
}
