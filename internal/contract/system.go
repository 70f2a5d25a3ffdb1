package contract

import (
	"fmt"
	"time"
)

// SystemStatus is a point-in-time snapshot of the orchestrator host.
// Uptime travels as raw nanoseconds, the unit the backend emits.
type SystemStatus struct {
	Hostname      string  `json:"hostname,omitempty"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	TemperatureC  float64 `json:"temperature_c"`
	UptimeNS      int64   `json:"uptime_ns"`
}

// Uptime returns the host uptime as a duration.
func (s SystemStatus) Uptime() time.Duration {
	return time.Duration(s.UptimeNS)
}

// UptimeSeconds converts the raw nanosecond uptime to whole seconds.
// Integer division keeps the conversion loss-free to the second.
func (s SystemStatus) UptimeSeconds() int64 {
	return s.UptimeNS / int64(time.Second)
}

// UptimeHuman renders the uptime as "2d 4h 13m".
func (s SystemStatus) UptimeHuman() string {
	secs := s.UptimeSeconds()
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

func (s *SystemStatus) Validate() error {
	ve := &ValidationError{Resource: "system_status"}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"cpu_percent", s.CPUPercent},
		{"memory_percent", s.MemoryPercent},
		{"disk_percent", s.DiskPercent},
	} {
		if p.value < 0 || p.value > 100 {
			ve.addf(p.name, "out of range [0,100]: %g", p.value)
		}
	}
	if s.UptimeNS < 0 {
		ve.addf("uptime_ns", "must be non-negative, got %d", s.UptimeNS)
	}
	return ve.orNil()
}
