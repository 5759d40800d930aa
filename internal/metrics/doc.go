// Package metrics records build timings and outcomes.
//
// The [Recorder] interface is what the build orchestrator talks to;
// [NoopRecorder] is the default. [PrometheusRecorder] keeps the values in a
// private Prometheus registry and can write them in the text exposition
// format, suitable for the node exporter textfile collector in CI.
package metrics
