package erp

import "strings"

// saveOutcome is the closed set of classifications for a save response
type saveOutcome int

const (
	// outcomeSuccess means the record was accepted
	outcomeSuccess saveOutcome = iota
	// outcomeSessionProblem means the session or authentication layer
	// rejected the call; the session should be refreshed and the call
	// retried once
	outcomeSessionProblem
	// outcomeRejected means the remote rejected the record for a business
	// reason; not retryable
	outcomeRejected
)

// classifySaveResponse tags a parsed save response. The session heuristic
// matches the remote's free-text messages against "SESSION" and "LOGIN";
// ECount reports errors as prose, not structured codes, so substring matching
// is the documented contract. Kept behind this function so it can be swapped
// without touching the adapter.
func classifySaveResponse(httpOK bool, resp *EcountSaveResponse) saveOutcome {
	if httpOK && resp.IsSuccess() {
		return outcomeSuccess
	}
	if isSessionProblem(resp) {
		return outcomeSessionProblem
	}
	return outcomeRejected
}

// isSessionProblem reports whether the response's error text indicates a
// session or authentication failure
func isSessionProblem(resp *EcountSaveResponse) bool {
	message := strings.ToUpper(resp.ErrorMessage())
	if message == "" {
		return false
	}
	return strings.Contains(message, "SESSION") || strings.Contains(message, "LOGIN")
}
