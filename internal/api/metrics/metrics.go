// Package metrics defines and registers all custom Prometheus metrics for the
// vendor API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered through promauto at package init; only the api layer
// increments them, so the core services stay free of observability concerns.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vendorapi"

// PartialCommitsTotal counts lifecycle protocols that failed after at least
// one step had committed. These always need operator attention.
// Labels:
//   - protocol: the lifecycle protocol name (e.g. "create_product")
//   - step: the step that failed (e.g. "register_with_parent")
var PartialCommitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "partial_commits_total",
		Help:      "Total number of lifecycle protocols that failed after a partial commit.",
	},
	[]string{"protocol", "step"},
)

// VendorsCreatedTotal counts vendor registrations.
// Label:
//   - role: "admin" or "user"
var VendorsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vendors_created_total",
		Help:      "Total number of vendors created, by account role.",
	},
	[]string{"role"},
)

// ProductsCreatedTotal counts products created across all vendors.
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
)

// UploadsRejectedTotal counts multipart uploads refused by the parser.
// Label:
//   - reason: the rejection label (e.g. "file_type", "file_size")
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of multipart uploads rejected, by reason.",
	},
	[]string{"reason"},
)

// AuthFailuresTotal counts refused authentication attempts and bad tokens.
// Label:
//   - kind: "credentials" or "token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed logins and rejected tokens, by kind.",
	},
	[]string{"kind"},
)
