package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides a dedicated registry and the reconciler metrics.
var Module = fx.Options(
	fx.Provide(func() *prometheus.Registry { return prometheus.NewRegistry() }),
	fx.Provide(func(reg *prometheus.Registry) *ReconcilerMetrics { return NewReconcilerMetrics(reg) }),
)
