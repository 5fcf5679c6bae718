// Package metrics counts what the decoder and dataset builder would otherwise
// absorb silently: rejected lines, lenient hex pairs and capacity drops.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the capacity drop counter.
const (
	TableJumpRecords  = "jump_records"
	TableProfiles     = "profiles"
	TableProfilePoint = "profile_points"
)

// Manager owns the Prometheus collectors for one decode run. All methods are
// safe to call on a nil *Manager, which records nothing.
type Manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry

	recordsDecoded    *prometheus.CounterVec
	framesRejected    *prometheus.CounterVec
	invalidHex        prometheus.Counter
	capacityDrops     *prometheus.CounterVec
	profilesFinalized prometheus.Counter
}

// NewManager creates a Manager registered on its own registry unless
// WithRegistry supplies one.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "neptune",
		subsystem: "decode",
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsDecoded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_total",
		Help:      "Checksum-valid records decoded, by record type",
	}, []string{"type"})

	m.framesRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rejected_lines_total",
		Help:      "Lines rejected by the record framer, by reason",
	}, []string{"reason"})

	m.invalidHex = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalid_hex_pairs_total",
		Help:      "Hex pairs containing non-hex characters that were accepted leniently",
	})

	m.capacityDrops = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capacity_drops_total",
		Help:      "Jumps whose records, profile or profile points were dropped because a table was full, once per jump and table",
	}, []string{"table"})

	m.profilesFinalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles_finalized_total",
		Help:      "Profiles whose speeds were computed",
	})
}

// Registry exposes the underlying registry, e.g. for a push gateway or tests.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordDecoded counts one valid record of the given type name.
func (m *Manager) RecordDecoded(recordType string) {
	if m == nil {
		return
	}
	m.recordsDecoded.WithLabelValues(recordType).Inc()
}

// FrameRejected counts one malformed line.
func (m *Manager) FrameRejected(reason string) {
	if m == nil {
		return
	}
	m.framesRejected.WithLabelValues(reason).Inc()
}

// InvalidHex counts one leniently parsed hex pair.
func (m *Manager) InvalidHex() {
	if m == nil {
		return
	}
	m.invalidHex.Inc()
}

// CapacityDrop counts one jump refused by the named table.
func (m *Manager) CapacityDrop(table string) {
	if m == nil {
		return
	}
	m.capacityDrops.WithLabelValues(table).Inc()
}

// ProfileFinalized counts one profile that went through speed estimation.
func (m *Manager) ProfileFinalized() {
	if m == nil {
		return
	}
	m.profilesFinalized.Inc()
}

// Snapshot gathers every counter into a flat map keyed by metric name with
// labels appended as name{label="value"}.
func (m *Manager) Snapshot() (map[string]float64, error) {
	out := make(map[string]float64)
	if m == nil {
		return out, nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(pairs)

			key := mf.GetName()
			if len(pairs) > 0 {
				key += "{" + strings.Join(pairs, ",") + "}"
			}
			out[key] = metric.GetCounter().GetValue()
		}
	}

	return out, nil
}
