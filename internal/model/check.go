package model

// CheckStatus is the outcome of a storage health check.
type CheckStatus string

const (
	// CheckStatusOK means nothing needs attention.
	CheckStatusOK CheckStatus = "ok"
	// CheckStatusWarning means the data is usable but something looks off (e.g. leftover legacy data).
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError means the data can't be used as is.
	CheckStatusError CheckStatus = "error"
)

// CheckResult is the result of a single storage health check.
type CheckResult struct {
	ID      string      // Check identifier (e.g. "board_data", "legacy:kanban-tasks").
	Message string      // Human readable result.
	Status  CheckStatus // Outcome.
}

// CountByStatus counts check results by status.
func CountByStatus(results []CheckResult) (ok, warnings, errors int) {
	for _, r := range results {
		switch r.Status {
		case CheckStatusOK:
			ok++
		case CheckStatusWarning:
			warnings++
		case CheckStatusError:
			errors++
		}
	}
	return ok, warnings, errors
}
