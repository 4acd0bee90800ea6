package distributor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Requests committed to executors, labelled by assignment mode.",
	}, []string{"mode"})

	assignmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_assignment_conflicts_total",
		Help: "Assignment attempts that lost a claim race and were retried or skipped.",
	})
)
