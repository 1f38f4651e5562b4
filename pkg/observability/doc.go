/*
Package observability turns engine lifecycle events into Prometheus metrics and
structured log lines.

Both are exposed as domain.LifecycleHooks so hosts can merge them and pass the
result to the Engine, the session Manager and the playback Player:

	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks().Merge(observability.LogHooks(logger))
	eng, _ := stepwise.New(stepwise.WithLifecycleHooks(hooks))
*/
package observability
