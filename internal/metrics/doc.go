// Package metrics counts copy and paste activity.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	svc := blockref.NewService(outlines, blockref.WithRecorder(metrics.NewPrometheusRecorder(nil)))
//
// The CLI is short-lived, so the Prometheus recorder is exported through the
// node_exporter textfile collector format (WriteTextfile) rather than an HTTP
// endpoint.
package metrics
