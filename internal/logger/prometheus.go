package logger

import (
	"github.com/maxaizer/jobboard/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const (
	errorTypeUnknown = "unknown"
	errorTypeOther   = "other"
)

var knownErrorTypes = map[string]bool{
	ErrorTypeJobsApi: true,
	ErrorTypeTgApi:   true,
	ErrorTypeHttp:    true,
}

// errorsHook counts error entries by ErrorTypeField. Values outside the known
// types share one label so a typo cannot create a new series.
type errorsHook struct{}

func (h *errorsHook) Fire(entry *log.Entry) error {
	metrics.ErrorsCounter.WithLabelValues(errorType(entry), entry.Level.String()).Inc()
	return nil
}

func (h *errorsHook) Levels() []log.Level {
	return []log.Level{
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func errorType(entry *log.Entry) string {
	value, ok := entry.Data[ErrorTypeField].(string)
	switch {
	case !ok || value == "":
		return errorTypeUnknown
	case knownErrorTypes[value]:
		return value
	default:
		return errorTypeOther
	}
}

func addErrorsHook() {
	log.AddHook(&errorsHook{})
}
