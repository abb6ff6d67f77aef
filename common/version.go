// Package common provides constants that are used within the entire application
package common

// Version of the running gatekeeper instance (probably set by CI-pipeline)
// nolint:gocritic,gochecknoglobals
var Version = "0.1.0"
