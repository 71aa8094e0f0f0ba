package metrics

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ResultLabel enumerates resolution outcomes for counters.
type ResultLabel string

const (
	ResultSuccess           ResultLabel = "success"
	ResultValidation        ResultLabel = "validation"
	ResultMissingDependency ResultLabel = "missing_dependency"
	ResultConfig            ResultLabel = "config"
	ResultError             ResultLabel = "error"
)

// Recorder defines observability hooks for configuration resolution.
type Recorder interface {
	ObserveResolveDuration(d time.Duration)
	IncResolveResult(result ResultLabel)
	IncReload(event string)
	SetLastSuccess(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(time.Duration) {}
func (NoopRecorder) IncResolveResult(ResultLabel)         {}
func (NoopRecorder) IncReload(string)                     {}
func (NoopRecorder) SetLastSuccess(time.Time)             {}

// ResultFor classifies the outcome of a resolution attempt.
func ResultFor(err error) ResultLabel {
	if err == nil {
		return ResultSuccess
	}
	switch errors.GetCategory(err) {
	case errors.CategoryValidation:
		return ResultValidation
	case errors.CategoryDependency:
		return ResultMissingDependency
	case errors.CategoryConfig:
		return ResultConfig
	default:
		return ResultError
	}
}
