package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	SessionsStarted     int64
	SessionsCompleted   int64
	TurnsProcessed      int64
	FallbacksUsed       int64
	OracleCallsTotal    int64
	OracleCallsFailed   int64
	ChallengesGenerated int64
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCompleted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementTurnsProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnsProcessed++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementFallbacksUsed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbacksUsed++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementOracleCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OracleCallsTotal++
	if !success {
		m.OracleCallsFailed++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementChallengesGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChallengesGenerated++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		SessionsStarted:     m.SessionsStarted,
		SessionsCompleted:   m.SessionsCompleted,
		TurnsProcessed:      m.TurnsProcessed,
		FallbacksUsed:       m.FallbacksUsed,
		OracleCallsTotal:    m.OracleCallsTotal,
		OracleCallsFailed:   m.OracleCallsFailed,
		ChallengesGenerated: m.ChallengesGenerated,
		LastUpdateTime:      m.LastUpdateTime,
	}
}
