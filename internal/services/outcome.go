package services

// IssuanceOutcome is the terminal state of one pass through the credential
// issuance chain. Only storage failures are errors; everything else is a
// normal outcome so configuration gaps and re-invocations don't show up as
// runtime failures.
type IssuanceOutcome string

const (
	OutcomeIssued          IssuanceOutcome = "issued"
	OutcomeAlreadyIssued   IssuanceOutcome = "already_issued"
	OutcomeNotYetEarned    IssuanceOutcome = "not_yet_earned"
	OutcomeMissingTemplate IssuanceOutcome = "missing_template"
)
