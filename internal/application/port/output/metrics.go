package output

import "time"

type MetricsPort interface {
	ObserveNavigation(success, searchPerformed bool, warnings int, elapsed time.Duration)
	ObserveSnapshot(cached bool)
	ObserveInvoke(tool, status string)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) ObserveNavigation(bool, bool, int, time.Duration) {}
func (NopMetrics) ObserveSnapshot(bool)                             {}
func (NopMetrics) ObserveInvoke(string, string)                     {}
