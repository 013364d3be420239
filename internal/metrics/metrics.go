package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const nsProvisioning = "provisioning"
const nsStaffroom = "staffroom"

// Stage labels for provisioning failures.
const (
	StageValidation = "validation"
	StageIdentity   = "identity"
	StageProfile    = "profile"
	StageRollback   = "rollback"
)

var (
	ProvisioningSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: nsProvisioning,
		Name:      "successes_total",
		Help:      "Total number of accounts provisioned",
	})
	ProvisioningFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: nsProvisioning,
		Name:      "failures_total",
		Help:      "Total number of failed provisioning attempts by stage",
	}, []string{"stage"})
	CallDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: nsStaffroom,
		Subsystem: "api",
		Name:      "call_durations",
		Help:      "How long do calls take to complete",
	}, []string{"path"})
)
