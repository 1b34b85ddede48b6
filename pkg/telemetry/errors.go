package telemetry

import "errors"

var (
	// ErrMissingEndpoint is returned when tracing is enabled without a collector endpoint.
	ErrMissingEndpoint = errors.New("telemetry.missing_endpoint")
	// ErrInvalidSampleRatio is returned for a sample ratio outside 0..1.
	ErrInvalidSampleRatio = errors.New("telemetry.invalid_sample_ratio")
	// ErrResource wraps failures describing the process as a trace resource.
	ErrResource = errors.New("telemetry.resource_failed")
	// ErrExporter wraps failures creating the span exporter.
	ErrExporter = errors.New("telemetry.exporter_failed")
)
