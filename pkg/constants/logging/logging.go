package logging

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Label for component logs
const LabelComponent string = "component"

// Label for the request path of an auth decision
const LabelPath string = "path"

// Label for the request method of an auth decision
const LabelMethod string = "method"

// Label for the duration of an auth decision
const LabelDuration string = "duration"

// Label for the outcome of an auth decision
const LabelDecision string = "decision"

// Label for error logs
const LabelError string = "error"

// Label for multiline error logs
const LabelCorrelation = "correlationId"

// LogAuthDecision logs the outcome of one authentication gate pass.
func LogAuthDecision(path, method, duration, decision, component string) {
	log.WithFields(log.Fields{
		LabelPath:      path,
		LabelMethod:    method,
		LabelDuration:  duration,
		LabelDecision:  decision,
		LabelComponent: component,
	}).Info("Auth decision:")
}

// LogAuthDecisionError logs a failed authentication gate pass together with its cause.
func LogAuthDecisionError(path, method, duration, err, correlation, decision, component string) {
	log.WithFields(log.Fields{
		LabelPath:        path,
		LabelMethod:      method,
		LabelDuration:    duration,
		LabelDecision:    decision,
		LabelError:       err,
		LabelCorrelation: correlation,
		LabelComponent:   component,
	}).Warn("Auth decision:")
}

func LogWithCorrelationID(correlation uuid.UUID) *log.Entry {
	return log.WithField(LabelCorrelation, correlation.String())
}

func LogForComponent(component string) *log.Entry {
	return log.WithField(LabelComponent, component)
}
