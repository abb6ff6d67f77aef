package util

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
)

// AssignRequestUID will attach a brand new request ID to a http request
func AssignRequestUID(req *http.Request) *http.Request {
	reqID := uuid.New()
	logging.LogWithCorrelationID(reqID).Debugf("Handling request [%s %s]", req.Method, req.URL.Path)
	ctx := req.Context()
	return req.WithContext(context.WithValue(ctx, constants.ContextKeyRequestUID, reqID.String()))
}

// GetRequestUID will get reqID from a http request and return it as a string
func GetRequestUID(req *http.Request) string {
	reqID := req.Context().Value(constants.ContextKeyRequestUID)
	if ret, ok := reqID.(string); ok {
		return ret
	}
	return ""
}
