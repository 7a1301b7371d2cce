// Package metrics defines the custom Prometheus metrics of the portal user
// service. HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal_users"

// Outcome labels shared by the counters below.
const (
	OutcomeOK        = "ok"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
)

// UsersCreatedTotal counts accounts registered through the API.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// UsersDeactivatedTotal counts soft deletes.
var UsersDeactivatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deactivated_total",
		Help:      "Total number of user accounts deactivated.",
	},
)

// AdminPrivilegeChangesTotal counts grant and revoke requests.
// Labels:
//   - action: "grant_admin" or "revoke_admin"
//   - outcome: ok, forbidden, not_found or error
var AdminPrivilegeChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_privilege_changes_total",
		Help:      "Total number of admin privilege grant/revoke requests, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// LoginAttemptsTotal counts password logins.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
