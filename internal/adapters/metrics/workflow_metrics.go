package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avasylenko/stitchflow/internal/domain/production"
)

const (
	namespace = "stitchflow"
	subsystem = "workflow"
)

// WorkflowMetricsCollector exposes task engine counters to Prometheus.
// It implements the workflow.MetricsRecorder interface.
type WorkflowMetricsCollector struct {
	tasksGenerated      *prometheus.CounterVec
	tasksCompleted      *prometheus.CounterVec
	reworkSpawned       prometheus.Counter
	transitionsRejected prometheus.Counter
	tasksOverdue        prometheus.Gauge
}

// NewWorkflowMetricsCollector creates the collector with all metrics
func NewWorkflowMetricsCollector() *WorkflowMetricsCollector {
	return &WorkflowMetricsCollector{
		tasksGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_generated_total",
				Help:      "Total number of tasks generated, by stage type",
			},
			[]string{"type"},
		),
		tasksCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks completed, by stage type",
			},
			[]string{"type"},
		),
		reworkSpawned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rework_tasks_total",
				Help:      "Total number of rework tasks spawned by quality control",
			},
		),
		transitionsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "invalid_transitions_total",
				Help:      "Total number of rejected task state transitions",
			},
		),
		tasksOverdue: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_overdue",
				Help:      "Number of non-completed tasks past their due date",
			},
		),
	}
}

// Register registers all metrics with the given registerer
func (c *WorkflowMetricsCollector) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.tasksGenerated,
		c.tasksCompleted,
		c.reworkSpawned,
		c.transitionsRejected,
		c.tasksOverdue,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// TaskGenerated counts a generated task
func (c *WorkflowMetricsCollector) TaskGenerated(t production.TaskType) {
	c.tasksGenerated.WithLabelValues(string(t)).Inc()
}

// TaskCompleted counts a committed completion
func (c *WorkflowMetricsCollector) TaskCompleted(t production.TaskType) {
	c.tasksCompleted.WithLabelValues(string(t)).Inc()
}

// ReworkSpawned counts a rework task spawned by an inspection
func (c *WorkflowMetricsCollector) ReworkSpawned() {
	c.reworkSpawned.Inc()
}

// TransitionRejected counts a rejected state transition
func (c *WorkflowMetricsCollector) TransitionRejected() {
	c.transitionsRejected.Inc()
}

// SetOverdue updates the overdue gauge from the latest stats computation
func (c *WorkflowMetricsCollector) SetOverdue(n int) {
	c.tasksOverdue.Set(float64(n))
}
