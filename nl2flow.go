// Package nl2flow converts natural-language automation requests into flow
// JSON and watches third-party API documentation for schema drift.
package nl2flow

const (
	// Name identifies the service in logs and health responses
	Name = "nl2flow-watchdog"

	// Version is the service version reported at startup
	Version = "1.0.0"
)
