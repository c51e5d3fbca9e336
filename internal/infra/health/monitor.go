// Package health runs a periodic check of the store and the process and keeps
// the latest result for the admin health endpoint.
package health

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/usecase/shared"

	"github.com/shirou/gopsutil/process"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
)

type StoreStatus struct {
	Driver    string `json:"driver"`
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

type ProcessStats struct {
	PID           int32   `json:"pid"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float32 `json:"memoryPercent"`
	RSSBytes      uint64  `json:"rssBytes"`
	Goroutines    int     `json:"goroutines"`
}

type Report struct {
	Status      Status       `json:"status"`
	Store       StoreStatus  `json:"store"`
	Process     ProcessStats `json:"process"`
	Subscribers int          `json:"subscribers"`
	CheckedAt   time.Time    `json:"checkedAt"`
}

// SubscriberCounter is satisfied by the broadcaster.
type SubscriberCounter interface {
	SubscriberCount() int
}

type Monitor struct {
	driver      string
	pinger      shared.Pinger
	subscribers SubscriberCounter
	clock       clock.Clock
	interval    time.Duration
	timeout     time.Duration
	log         *slog.Logger

	proc *process.Process

	mu   sync.RWMutex
	last *Report
}

func NewMonitor(
	driver string,
	pinger shared.Pinger,
	subscribers SubscriberCounter,
	clk clock.Clock,
	interval, timeout time.Duration,
	log *slog.Logger,
) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	m := &Monitor{
		driver:      driver,
		pinger:      pinger,
		subscribers: subscribers,
		clock:       clk,
		interval:    interval,
		timeout:     timeout,
		log:         log,
	}
	// #nosec G115 -- pids fit in int32 on supported platforms
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("process stats unavailable", "err", err)
	} else {
		m.proc = p
	}
	return m
}

// Run checks once immediately, then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.store(m.Check(ctx))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.log.Debug("health monitor stopped")
			return nil
		case <-ticker.C:
			m.store(m.Check(ctx))
		}
	}
}

func (m *Monitor) Check(ctx context.Context) Report {
	report := Report{
		Status:      StatusOK,
		Store:       m.checkStore(ctx),
		Process:     m.processStats(ctx),
		Subscribers: m.subscribers.SubscriberCount(),
		CheckedAt:   m.clock.Now(),
	}
	if !report.Store.Reachable {
		report.Status = StatusDegraded
	}
	return report
}

// Last returns the most recent scheduled result; false before the first check.
func (m *Monitor) Last() (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return Report{}, false
	}
	return *m.last, true
}

func (m *Monitor) store(r Report) {
	m.mu.Lock()
	prev := m.last
	m.last = &r
	m.mu.Unlock()

	if r.Status != StatusOK && (prev == nil || prev.Status == StatusOK) {
		m.log.Error("store unreachable", "driver", r.Store.Driver, "err", r.Store.Error)
	}
	if r.Status == StatusOK && prev != nil && prev.Status != StatusOK {
		m.log.Info("store reachable again", "driver", r.Store.Driver)
	}
}

func (m *Monitor) checkStore(ctx context.Context) StoreStatus {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	err := m.pinger.Ping(ctx)
	status := StoreStatus{
		Driver:    m.driver,
		Reachable: err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func (m *Monitor) processStats(ctx context.Context) ProcessStats {
	stats := ProcessStats{Goroutines: runtime.NumGoroutine()}
	if m.proc == nil {
		return stats
	}
	stats.PID = m.proc.Pid

	cpu, err := m.proc.CPUPercentWithContext(ctx)
	if err != nil {
		m.log.Debug("Error while finding process cpu usage", "err", err)
	} else {
		stats.CPUPercent = cpu
	}
	ram, err := m.proc.MemoryPercentWithContext(ctx)
	if err != nil {
		m.log.Debug("Error while finding process ram usage", "err", err)
	} else {
		stats.MemoryPercent = ram
	}
	if info, err := m.proc.MemoryInfoWithContext(ctx); err == nil && info != nil {
		stats.RSSBytes = info.RSS
	}
	return stats
}
