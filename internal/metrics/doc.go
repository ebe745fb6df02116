// Package metrics provides build and rendering metrics for docplugins.
//
// Components receive a Recorder through their constructors and default to
// NoopRecorder, so metrics never need nil checks. The watch command swaps in
// a PrometheusRecorder and serves it with HTTPHandler:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
