package core

import "github.com/oklog/ulid/v2"

// NewReportID returns a time-ordered identifier for a generated report.
func NewReportID() string {
	return ulid.Make().String()
}
