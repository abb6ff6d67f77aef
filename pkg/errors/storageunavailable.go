package errors

import "fmt"

// Error thrown if the route store cannot be reached during a refresh read
type StorageUnavailable struct {
	Alias string
	Cause error
}

func (err StorageUnavailable) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("Route store [%s] unavailable due to error: %s", err.Alias, err.Cause.Error())
	}
	return fmt.Sprintf("Route store [%s] unavailable", err.Alias)
}

func (err StorageUnavailable) Unwrap() error {
	return err.Cause
}
