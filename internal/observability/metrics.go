package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	signInAttemptsTotal *prometheus.CounterVec
	auditEntriesTotal   *prometheus.CounterVec
	passwordResetsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the bookkeeping core.
func RegisterMetrics() {
	registerOnce.Do(func() {
		signInAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashbook_signin_attempts_total",
			Help: "Total number of sign-in attempts by outcome.",
		}, []string{"outcome"})

		auditEntriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashbook_audit_entries_total",
			Help: "Total number of audit trail entries appended, by action.",
		}, []string{"action"})

		passwordResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashbook_password_resets_total",
			Help: "Total number of password reset attempts by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(signInAttemptsTotal, auditEntriesTotal, passwordResetsTotal)
	})
}

// SignInAttempts exposes the sign-in attempt counter.
func SignInAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return signInAttemptsTotal
}

// AuditEntries exposes the audit entry counter.
func AuditEntries() *prometheus.CounterVec {
	RegisterMetrics()
	return auditEntriesTotal
}

// PasswordResets exposes the password reset counter.
func PasswordResets() *prometheus.CounterVec {
	RegisterMetrics()
	return passwordResetsTotal
}
