// Package metrics exposes the bridge's ambient Prometheus instrumentation,
// in the promauto-registers-to-the-default-registry style
// go/network/metrics.go uses for Flow's network proxy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolveTotal counts resolve attempts by request kind ("topic",
	// "symbol", "asset") and outcome ("cache-hit", "resolved", "failed").
	ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docresolver",
		Name:      "resolve_total",
		Help:      "Resolve attempts against the out-of-process reference resolver, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// TransportErrorsTotal counts transport-level failures by error kind
	// (e.g. "process_did_exit", "decode_failure").
	TransportErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docresolver",
		Name:      "transport_errors_total",
		Help:      "Transport failures encountered while talking to a resolver peer, by error kind.",
	}, []string{"kind"})

	// AssetSwallowedTotal counts asset resolution attempts that failed and
	// were swallowed per spec's asset-is-best-effort policy.
	AssetSwallowedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docresolver",
		Name:      "asset_resolve_swallowed_total",
		Help:      "Asset resolution attempts that failed and were silently swallowed.",
	})
)
