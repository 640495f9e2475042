package port

import "context"

// JudgeInput carries the raw report text and the test names the support
// check could not match against it.
type JudgeInput struct {
	RawText       string
	DisputedNames []string
}

// JudgeOutput maps each disputed name to whether it is a legitimate
// synonym or abbreviation present in the source. A name missing from
// Verdicts counts as not confirmed.
type JudgeOutput struct {
	Verdicts  map[string]bool
	ModelUsed string
}

// Judge abstracts the independent judgment capability the guardrail
// escalates disputed names to.
type Judge interface {
	Judge(ctx context.Context, input JudgeInput) (*JudgeOutput, error)
}
