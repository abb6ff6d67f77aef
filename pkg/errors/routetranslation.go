package errors

import "fmt"

// Error thrown if a stored route record cannot be translated into a route definition
type RouteTranslation struct {
	RouteID string
	Msg     string
	Cause   error
}

func (err RouteTranslation) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("Unable to translate route [%s]: %s: %s", err.RouteID, err.Msg, err.Cause.Error())
	}
	return fmt.Sprintf("Unable to translate route [%s]: %s", err.RouteID, err.Msg)
}

func (err RouteTranslation) Unwrap() error {
	return err.Cause
}
