// health.go - Liveness reporting over the daemon's two stateful components.
//
// The daemon has exactly two things that can rot: the accumulator (it fills
// up) and the ledger (its persistence can fail). Each registers a probe that
// returns a human-readable detail string and an optional error; wrapping the
// error in errDegraded lowers the overall status without failing the
// component outright.
package main

import (
	"errors"
	"sync"
	"time"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailing  Status = "failing"
)

// errDegraded marks a probe result that should lower the overall status
// while the component keeps serving.
var errDegraded = errors.New("degraded")

// Probe inspects one component. The detail string is reported verbatim.
type Probe func() (detail string, err error)

// ComponentReport is the outcome of one probe run.
type ComponentReport struct {
	Name    string    `json:"name"`
	Status  Status    `json:"status"`
	Detail  string    `json:"detail"`
	Checked time.Time `json:"checked"`
	Millis  int64     `json:"probe_millis"`
}

// HealthReport is the full daemon health snapshot.
type HealthReport struct {
	Status        Status            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Components    []ComponentReport `json:"components"`
}

// HealthChecker runs registered probes on demand, in registration order.
type HealthChecker struct {
	mu      sync.Mutex
	start   time.Time
	version string
	names   []string
	probes  map[string]Probe
}

func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		start:   time.Now(),
		version: version,
		probes:  make(map[string]Probe),
	}
}

// Register adds a probe. Re-registering a name replaces its probe.
func (hc *HealthChecker) Register(name string, probe Probe) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if _, exists := hc.probes[name]; !exists {
		hc.names = append(hc.names, name)
	}
	hc.probes[name] = probe
}

// Check runs every probe and aggregates the worst status.
func (hc *HealthChecker) Check() *HealthReport {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	report := &HealthReport{
		Status:        StatusOK,
		Version:       hc.version,
		UptimeSeconds: int64(time.Since(hc.start).Seconds()),
	}
	for _, name := range hc.names {
		start := time.Now()
		detail, err := hc.probes[name]()
		cr := ComponentReport{
			Name:    name,
			Status:  StatusOK,
			Detail:  detail,
			Checked: time.Now(),
			Millis:  time.Since(start).Milliseconds(),
		}
		if err != nil {
			cr.Status = StatusFailing
			if errors.Is(err, errDegraded) {
				cr.Status = StatusDegraded
			}
			cr.Detail = err.Error()
			if detail != "" {
				cr.Detail = detail + ": " + err.Error()
			}
		}
		if cr.Status == StatusFailing ||
			(cr.Status == StatusDegraded && report.Status == StatusOK) {
			report.Status = cr.Status
		}
		report.Components = append(report.Components, cr)
	}
	return report
}
