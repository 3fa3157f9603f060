/*
Package observability provides Prometheus instrumentation for the generator.

Metrics plug into the generator through domain.GenerationHooks, so the core
never imports Prometheus. Use a dedicated registry to keep metrics isolated:

	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	gen := flowgen.New(flowgen.WithHooks(m.Hooks()))
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
*/
package observability
