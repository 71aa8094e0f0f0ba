// Package metrics records configuration resolution metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless the watch command enables the
// Prometheus implementation and serves it over HTTP.
package metrics
