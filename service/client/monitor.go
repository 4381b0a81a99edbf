package client

import (
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
	"go.uber.org/zap"

	"github.com/itiky/notes-sync/logger"
	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/state"
)

const monitorWindow = 5

type (
	// Monitor keeps Controller stats.
	Monitor struct {
		sync.Mutex
		reqDur         map[model.OperationType]*movingaverage.MovingAverage
		reqSend        int
		reqFailed      int
		eventsMerged   int
		echoesDropped  int
		consistencyDur *movingaverage.MovingAverage
		journal        JournalReader
		//
		logger *zap.Logger
		stopCh chan struct{}
	}

	// MonitorStats is a Monitor counters snapshot.
	MonitorStats struct {
		RequestsSend   int
		RequestsFailed int
		EventsMerged   int
		EchoesDropped  int
		Pending        int
		// Age of the oldest unconfirmed optimistic change
		Inconsistency time.Duration
	}

	// JournalReader exposes the unconfirmed optimistic changes.
	JournalReader interface {
		Pending() int
		Oldest() (state.JournalEntry, bool)
	}
)

// RequestServed updates the backend request metrics.
func (m *Monitor) RequestServed(opType model.OperationType, dur time.Duration, err error) {
	m.Lock()
	defer m.Unlock()

	avg, found := m.reqDur[opType]
	if !found {
		avg = movingaverage.New(monitorWindow)
		m.reqDur[opType] = avg
	}
	avg.Add(float64(dur/time.Microsecond) / 1000.0)

	m.reqSend++
	if err != nil {
		m.reqFailed++
	}
}

// EventMerged increments the remote notes merged counter.
func (m *Monitor) EventMerged() {
	m.Lock()
	defer m.Unlock()

	m.eventsMerged++
}

// EchoDropped increments the own echoes counter and updates the create-to-echo duration.
func (m *Monitor) EchoDropped(sentAt time.Time) {
	m.Lock()
	defer m.Unlock()

	m.echoesDropped++
	if !sentAt.IsZero() {
		m.consistencyDur.Add(float64(time.Since(sentAt)/time.Microsecond) / 1000.0)
	}
}

// Stats returns counters snapshot.
func (m *Monitor) Stats() MonitorStats {
	m.Lock()
	defer m.Unlock()

	stats := MonitorStats{
		RequestsSend:   m.reqSend,
		RequestsFailed: m.reqFailed,
		EventsMerged:   m.eventsMerged,
		EchoesDropped:  m.echoesDropped,
	}
	if m.journal != nil {
		stats.Pending = m.journal.Pending()
		if oldest, found := m.journal.Oldest(); found {
			stats.Inconsistency = time.Since(oldest.AppliedAt)
		}
	}

	return stats
}

// Start starts the Monitor worker.
func (m *Monitor) Start(period time.Duration) {
	if m.stopCh != nil || period <= 0 {
		return
	}

	m.stopCh = make(chan struct{})
	go m.worker(period, m.stopCh)
}

// Stop stops the Monitor worker.
func (m *Monitor) Stop() {
	if m.stopCh == nil {
		return
	}

	close(m.stopCh)
	m.stopCh = nil
}

// worker does the actual job.
func (m *Monitor) worker(period time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.report()
		}
	}
}

// report logs the stats.
func (m *Monitor) report() {
	stats := m.Stats()

	m.Lock()
	defer m.Unlock()

	fields := []zap.Field{
		zap.Int("requests", stats.RequestsSend),
		zap.Int("failed", stats.RequestsFailed),
		zap.Int("merged", stats.EventsMerged),
		zap.Int("echoes", stats.EchoesDropped),
		zap.Int(logger.FieldPending, stats.Pending),
		zap.Float64("inconsistencyMs", float64(stats.Inconsistency/time.Microsecond)/1000.0),
		zap.Float64("echoDurMs", m.consistencyDur.Avg()),
	}
	for opType, avg := range m.reqDur {
		fields = append(fields, zap.Float64(string(opType)+"DurMs", avg.Avg()))
	}
	m.logger.Info("monitor", fields...)
}

// NewMonitor creates a new Monitor object.
// journal reports unconfirmed optimistic changes (optional).
func NewMonitor(log *zap.Logger, journal JournalReader) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}

	return &Monitor{
		reqDur:         make(map[model.OperationType]*movingaverage.MovingAverage),
		consistencyDur: movingaverage.New(monitorWindow),
		journal:        journal,
		logger:         log,
	}
}
